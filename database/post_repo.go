package database

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillhub/quillhub-backend/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// scoped returns the base post query with associations preloaded and the
// canonical ordering applied: newest publication first, creation time
// breaking ties. Unpublished posts carry no publication time and sort after
// every published one.
func (r *PostRepo) scoped() *gorm.DB {
	return r.db.
		Preload("Blog").Preload("Blog.User").Preload("Tags").
		Order("published_at DESC NULLS LAST, created_at DESC")
}

// FindAll returns every post, unpaged.
func (r *PostRepo) FindAll() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.scoped().Find(&posts).Error
	return posts, err
}

// FindPage returns one page of posts plus the total count across all pages.
func (r *PostRepo) FindPage(offset, limit int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.scoped().Offset(offset).Limit(limit).Find(&posts).Error
	return posts, total, err
}

// FindByID returns a post by id, or nil if none exists.
func (r *PostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.scoped().First(&post, "posts.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug returns a post by slug, or nil if none exists.
func (r *PostRepo) FindBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.scoped().First(&post, "posts.slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPublished returns all posts with is_published set.
func (r *PostRepo) FindPublished() ([]*models.Post, error) {
	var posts []*models.Post
	err := r.scoped().Where("is_published = ?", true).Find(&posts).Error
	return posts, err
}

// FindByTagName returns posts carrying a tag whose name contains the given
// fragment, compared case-insensitively.
func (r *PostRepo) FindByTagName(name string) ([]*models.Post, error) {
	pattern := "%" + strings.ToLower(name) + "%"

	var ids []uuid.UUID
	err := r.db.Model(&models.Post{}).
		Distinct("posts.id").
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("LOWER(tags.name) LIKE ?", pattern).
		Pluck("posts.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*models.Post{}, nil
	}

	var posts []*models.Post
	err = r.scoped().Where("posts.id IN ?", ids).Find(&posts).Error
	return posts, err
}

// SlugExists reports whether any post already uses the given slug.
func (r *PostRepo) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Add inserts a new post. A slug collision surfaces as the store's unique
// constraint violation.
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update updates the post's own columns, leaving tag associations to
// ReplaceTags.
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Omit("Tags", "Blog").Save(post).Error
}

// ReplaceTags sets the post's tag associations to exactly the given tags.
func (r *PostRepo) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(tags)
}

// Delete removes a post by id. Tag associations are cleared first so the
// shared tags themselves survive.
func (r *PostRepo) Delete(id uuid.UUID) error {
	post := models.Post{ID: id}
	if err := r.db.Model(&post).Association("Tags").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&post).Error
}
