package repositories

import (
	"time"

	"gorm.io/datatypes"
)

// UserEntity is an account in the local directory
type UserEntity struct {
	ID            string            `gorm:"primaryKey;type:uuid"`
	Email         string            `gorm:"uniqueIndex;not null"`
	PasswordHash  []byte            `gorm:"not null"`
	EmailVerified bool              `gorm:"not null;default:false"`
	CustomClaims  datatypes.JSONMap `gorm:"type:jsonb"`
	LastSignInAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserEntity) TableName() string {
	return "identity_users"
}

// ProfileEntity is one profile row. Columns are nullable so that an upsert can leave
// unsupplied fields untouched.
type ProfileEntity struct {
	SubjectID string `gorm:"primaryKey"`
	Gender    *string
	Height    *float64
	Weight    *float64
	Age       *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileEntity) TableName() string {
	return "profiles"
}
