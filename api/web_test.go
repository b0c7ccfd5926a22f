package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontPageListsPublishedPostsOnly(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register("testuser", "test@example.com", "testpass123")

	env.createPost(token, "Published Post", true)
	env.createPost(token, "Draft Post", false)

	rec := env.request(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Published Post")
	assert.NotContains(t, body, "Draft Post")
}

func TestPostDetailPageBySlug(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register("testuser", "test@example.com", "testpass123")

	env.createPost(token, "My First Post", true)

	rec := env.request(http.MethodGet, "/posts/my-first-post", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "My First Post")

	rec = env.request(http.MethodGet, "/posts/no-such-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
