package database

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quillhub/quillhub-backend/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return New(db)
}

func seedUserWithBlog(t *testing.T, d Database, username string) (*models.User, *models.Blog) {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, d.UserRepo().Add(user))

	blog := &models.Blog{UserID: user.ID, Title: username + "'s Blog"}
	require.NoError(t, d.BlogRepo().Add(blog))
	return user, blog
}

func TestOneBlogPerUserEnforcedByStore(t *testing.T) {
	d := newTestDatabase(t)
	user, _ := seedUserWithBlog(t, d, "testuser")

	err := d.BlogRepo().Add(&models.Blog{UserID: user.ID, Title: "Second Blog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint")
}

func TestSlugUniquenessEnforcedByStore(t *testing.T) {
	d := newTestDatabase(t)
	_, blog := seedUserWithBlog(t, d, "testuser")

	first := &models.Post{BlogID: blog.ID, Title: "Test Post", Slug: "test-post", Content: "<p>x</p>"}
	require.NoError(t, d.PostRepo().Add(first))

	exists, err := d.PostRepo().SlugExists("test-post")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.PostRepo().SlugExists("test-post-1")
	require.NoError(t, err)
	assert.False(t, exists)

	dup := &models.Post{BlogID: blog.ID, Title: "Test Post", Slug: "test-post", Content: "<p>y</p>"}
	require.Error(t, d.PostRepo().Add(dup))
}

func TestFindByTagNameMatchesCaseInsensitively(t *testing.T) {
	d := newTestDatabase(t)
	_, blog := seedUserWithBlog(t, d, "testuser")

	tag := models.Tag{Name: "Django"}
	require.NoError(t, d.TagRepo().Add(&tag))

	tagged := &models.Post{BlogID: blog.ID, Title: "Django Post", Slug: "django-post", Content: "<p>x</p>"}
	require.NoError(t, d.PostRepo().Add(tagged))
	require.NoError(t, d.PostRepo().ReplaceTags(tagged, []models.Tag{tag}))

	plain := &models.Post{BlogID: blog.ID, Title: "Plain Post", Slug: "plain-post", Content: "<p>x</p>"}
	require.NoError(t, d.PostRepo().Add(plain))

	for _, query := range []string{"Django", "django", "DJANGO", "jang"} {
		posts, err := d.PostRepo().FindByTagName(query)
		require.NoError(t, err)
		require.Len(t, posts, 1, "query %q", query)
		assert.Equal(t, "Django Post", posts[0].Title)
	}

	posts, err := d.PostRepo().FindByTagName("rails")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestTagDeleteDetachesFromPosts(t *testing.T) {
	d := newTestDatabase(t)
	_, blog := seedUserWithBlog(t, d, "testuser")

	tag := models.Tag{Name: "temporary"}
	require.NoError(t, d.TagRepo().Add(&tag))

	post := &models.Post{BlogID: blog.ID, Title: "Tagged Post", Slug: "tagged-post", Content: "<p>x</p>"}
	require.NoError(t, d.PostRepo().Add(post))
	require.NoError(t, d.PostRepo().ReplaceTags(post, []models.Tag{tag}))

	require.NoError(t, d.TagRepo().Delete(tag.ID))

	// The post survives, without the tag
	reloaded, err := d.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Empty(t, reloaded.Tags)
}

func TestTokenGetOrCreateIsIdempotent(t *testing.T) {
	d := newTestDatabase(t)
	user, _ := seedUserWithBlog(t, d, "testuser")

	first, err := d.TokenRepo().GetOrCreate(user.ID)
	require.NoError(t, err)
	require.Len(t, first.Key, 40)

	second, err := d.TokenRepo().GetOrCreate(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)

	found, err := d.TokenRepo().FindByKey(first.Key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.UserID)
	assert.Equal(t, user.Username, found.User.Username)
}

func TestPostsOrderByPublicationThenCreation(t *testing.T) {
	d := newTestDatabase(t)
	_, blog := seedUserWithBlog(t, d, "testuser")

	base := time.Now().Add(-72 * time.Hour)
	newerPublication := base.Add(48 * time.Hour)
	olderPublication := base.Add(24 * time.Hour)

	// Created first but published last, so it must lead the list.
	first := &models.Post{
		BlogID: blog.ID, Title: "Older created, newer published", Slug: "older-created",
		Content: "<p>x</p>", IsPublished: true,
		CreatedAt: base, PublishedAt: &newerPublication,
	}
	require.NoError(t, d.PostRepo().Add(first))

	second := &models.Post{
		BlogID: blog.ID, Title: "Newer created, older published", Slug: "newer-created",
		Content: "<p>x</p>", IsPublished: true,
		CreatedAt: base.Add(time.Hour), PublishedAt: &olderPublication,
	}
	require.NoError(t, d.PostRepo().Add(second))

	// No publication time at all: sorts after every published post even
	// though it is the newest by creation.
	draft := &models.Post{
		BlogID: blog.ID, Title: "Unpublished draft", Slug: "unpublished-draft",
		Content: "<p>x</p>", CreatedAt: base.Add(2 * time.Hour),
	}
	require.NoError(t, d.PostRepo().Add(draft))

	posts, total, err := d.PostRepo().FindPage(0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, posts, 3)
	assert.Equal(t, "Older created, newer published", posts[0].Title)
	assert.Equal(t, "Newer created, older published", posts[1].Title)
	assert.Equal(t, "Unpublished draft", posts[2].Title)
}

func TestBlogDeleteCascadesToPosts(t *testing.T) {
	d := newTestDatabase(t)
	_, blog := seedUserWithBlog(t, d, "testuser")

	post := &models.Post{BlogID: blog.ID, Title: "Doomed", Slug: "doomed", Content: "<p>x</p>"}
	require.NoError(t, d.PostRepo().Add(post))

	require.NoError(t, d.BlogRepo().Delete(blog.ID))

	gone, err := d.PostRepo().FindByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
