package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog is a user's personal blog. The unique index on UserID enforces the
// one-blog-per-user invariant at the store level.
type Blog struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID `json:"-" db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Title     string    `json:"title" db:"title" gorm:"type:text;not null"`
	Bio       string    `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`

	User  User   `json:"user" gorm:"foreignKey:UserID"`
	Posts []Post `json:"-" gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
