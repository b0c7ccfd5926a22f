package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog entry. Slug is assigned once on create and never
// re-derived; CreatedAt/UpdatedAt are server-set.
type Post struct {
	ID          uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	BlogID      uuid.UUID  `json:"-" db:"blog_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" db:"title" gorm:"type:text;not null"`
	Slug        string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Content     string     `json:"content" db:"content" gorm:"type:text;not null"`
	Excerpt     string     `json:"excerpt,omitempty" db:"excerpt" gorm:"type:text"`
	Cover       string     `json:"cover,omitempty" db:"cover" gorm:"type:text"`
	IsPublished bool       `json:"isPublished" db:"is_published" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" gorm:"not null;autoUpdateTime"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`

	Blog Blog  `json:"blog" gorm:"foreignKey:BlogID"`
	Tags []Tag `json:"tags" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
