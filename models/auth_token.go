package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// AuthToken is the opaque bearer credential for a user. At most one token
// exists per user; issuance is idempotent.
type AuthToken struct {
	Key       string    `json:"key" db:"key" gorm:"type:text;primaryKey;not null"`
	UserID    uuid.UUID `json:"-" db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// NewTokenKey returns a random 40-character hex token key.
func NewTokenKey() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
