package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quillhub/quillhub-backend/database"
	"github.com/quillhub/quillhub-backend/models"
)

type testEnv struct {
	t      *testing.T
	db     database.Database
	router http.Handler
}

// newTestEnv builds the full router over a fresh in-memory database, one
// per test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))

	db := database.New(gormDB)
	router := newRouter(db, withConfig(map[string]string{}), withStartupTime(time.Now()))

	return &testEnv{t: t, db: db, router: router}
}

// request performs a JSON request against the router with an optional
// bearer token.
func (e *testEnv) request(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

type authPayload struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type pageEnvelope struct {
	Count    int64            `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []map[string]any `json:"results"`
}

// register registers a user through the API and returns the created user
// and their token.
func (e *testEnv) register(username, email, password string) (models.User, string) {
	e.t.Helper()

	rec := e.request(http.MethodPost, "/api/users/register/", "", map[string]string{
		"username":         username,
		"email":            email,
		"password":         password,
		"password_confirm": password,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, "registration failed: %s", rec.Body.String())

	var payload authPayload
	decodeBody(e.t, rec, &payload)
	require.NotEmpty(e.t, payload.Token)
	return payload.User, payload.Token
}

// createSuperuser provisions a superuser directly through the store, the
// way operational bootstrap does.
func (e *testEnv) createSuperuser(username string) (models.User, string) {
	e.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("superpass123"), bcrypt.MinCost)
	require.NoError(e.t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsSuperuser:  true,
		IsActive:     true,
	}
	require.NoError(e.t, e.db.UserRepo().Add(&user))

	blog := models.Blog{UserID: user.ID, Title: DefaultBlogTitle(username)}
	require.NoError(e.t, e.db.BlogRepo().Add(&blog))

	token, err := e.db.TokenRepo().GetOrCreate(user.ID)
	require.NoError(e.t, err)
	return user, token.Key
}

// createPost creates a post through the API and returns its JSON
// representation.
func (e *testEnv) createPost(token, title string, published bool) map[string]any {
	e.t.Helper()

	rec := e.request(http.MethodPost, "/api/posts/", token, map[string]any{
		"title":        title,
		"content":      "<p>" + title + "</p>",
		"excerpt":      "excerpt for " + title,
		"is_published": published,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, "post creation failed: %s", rec.Body.String())

	var post map[string]any
	decodeBody(e.t, rec, &post)
	return post
}
