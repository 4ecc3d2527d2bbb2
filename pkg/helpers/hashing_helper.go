package helpers

import "golang.org/x/crypto/bcrypt"

const passwordCost = bcrypt.DefaultCost

func HashPass(p string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(p), passwordCost)
}

func ComparePass(hash []byte, p string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(p)) == nil
}
