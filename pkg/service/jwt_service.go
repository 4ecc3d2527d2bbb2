package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// jwtVerifier validates HS256 tokens signed by an internal issuer.
// It never issues tokens.
type jwtVerifier struct {
	secretKey []byte
	issuer    string
}

// NewJWTVerifier creates a TokenVerifier for HS256 tokens. An empty issuer skips the iss check.
func NewJWTVerifier(secretKey, issuer string) TokenVerifier {
	return &jwtVerifier{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

func (v *jwtVerifier) VerifyIDToken(_ context.Context, tokenString string) (map[string]any, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return map[string]any(claims), nil
}
