package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillhub/quillhub-backend/models"
)

type TokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) *TokenRepo {
	return &TokenRepo{db}
}

// FindByKey returns the token with the given key and its user, or nil if
// none exists.
func (r *TokenRepo) FindByKey(key string) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.Preload("User").First(&token, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// GetOrCreate returns the user's existing token, minting one only if the
// user holds none yet.
func (r *TokenRepo) GetOrCreate(userID uuid.UUID) (*models.AuthToken, error) {
	var token models.AuthToken
	err := r.db.First(&token, "user_id = ?", userID).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key, err := models.NewTokenKey()
	if err != nil {
		return nil, err
	}
	token = models.AuthToken{Key: key, UserID: userID}
	if err := r.db.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}
