package database

import (
	"gorm.io/gorm"

	"github.com/quillhub/quillhub-backend/models"
)

type Database struct {
	userRepo  *UserRepo
	blogRepo  *BlogRepo
	postRepo  *PostRepo
	tagRepo   *TagRepo
	tokenRepo *TokenRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance.
func New(db *gorm.DB) Database {
	return Database{
		userRepo:  NewUserRepo(db),
		blogRepo:  NewBlogRepo(db),
		postRepo:  NewPostRepo(db),
		tagRepo:   NewTagRepo(db),
		tokenRepo: NewTokenRepo(db),
	}
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Blog{},
		&models.Tag{},
		&models.Post{},
		&models.AuthToken{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) TokenRepo() *TokenRepo {
	return d.tokenRepo
}
