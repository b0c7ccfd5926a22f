package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillhub/quillhub-backend/models"
)

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

// FindAll returns all blogs newest-first with their owning users.
func (r *BlogRepo) FindAll() ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.db.Preload("User").Order("created_at DESC").Find(&blogs).Error
	return blogs, err
}

// FindByID returns a blog by id, or nil if none exists.
func (r *BlogRepo) FindByID(id uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.Preload("User").First(&blog, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// FindByUserID returns the blog owned by the given user, or nil if the user
// has none.
func (r *BlogRepo) FindByUserID(userID uuid.UUID) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.Preload("User").First(&blog, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// Add inserts a new blog. The unique index on user_id makes a second blog
// for the same user fail with a constraint violation.
func (r *BlogRepo) Add(blog *models.Blog) error {
	return r.db.Create(blog).Error
}

// Update updates the blog's own columns, leaving the owning user alone.
func (r *BlogRepo) Update(blog *models.Blog) error {
	return r.db.Omit("User", "Posts").Save(blog).Error
}

// Delete removes a blog and, via the store's cascade, its posts.
func (r *BlogRepo) Delete(id uuid.UUID) error {
	return r.db.Select("Posts").Delete(&models.Blog{ID: id}).Error
}
