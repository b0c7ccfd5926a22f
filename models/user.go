package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity principal. Each user owns at most one Blog.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	FirstName    string    `json:"firstName,omitempty" db:"first_name" gorm:"type:text"`
	LastName     string    `json:"lastName,omitempty" db:"last_name" gorm:"type:text"`
	IsSuperuser  bool      `json:"isSuperuser" db:"is_superuser" gorm:"not null;default:false"`
	IsActive     bool      `json:"isActive" db:"is_active" gorm:"not null;default:true"`
	DateJoined   time.Time `json:"dateJoined" db:"date_joined" gorm:"not null;autoCreateTime"`

	Blog *Blog `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
