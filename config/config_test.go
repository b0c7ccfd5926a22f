package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	cfg := map[string]string{"PORT": "9090", "EMPTY": ""}

	assert.Equal(t, "9090", GetString(cfg, "PORT", "8080"))
	assert.Equal(t, "", GetString(cfg, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", GetString(cfg, "MISSING", "fallback"))
	assert.Equal(t, "fallback", GetString(nil, "PORT", "fallback"))
}

func TestGetInt(t *testing.T) {
	cfg := map[string]string{"TIMEOUT": "30", "BAD": "thirty"}

	assert.Equal(t, 30, GetInt(cfg, "TIMEOUT", 60))
	assert.Equal(t, 60, GetInt(cfg, "BAD", 60))
	assert.Equal(t, 60, GetInt(cfg, "MISSING", 60))
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(map[string]string{
		"DB_HOST":     "db.internal",
		"DB_USER":     "writer",
		"DB_PASSWORD": "secret",
		"DB_NAME":     "blogs",
		"DB_PORT":     "5433",
	})
	assert.Equal(t, "host=db.internal user=writer password=secret dbname=blogs port=5433 sslmode=disable", dsn)

	defaults := PostgresDSN(nil)
	assert.Equal(t, "host=localhost user=quillhub password= dbname=quillhub port=5432 sslmode=disable", defaults)
}

func TestGetSuperuser(t *testing.T) {
	su, err := GetSuperuser(map[string]string{
		"SUPERUSER_USERNAME": "admin",
		"SUPERUSER_PASSWORD": "changeme1",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", su.Username)
	assert.Equal(t, "admin@localhost", su.Email)

	su, err = GetSuperuser(nil)
	require.NoError(t, err)
	assert.Empty(t, su.Username)

	_, err = GetSuperuser(map[string]string{"SUPERUSER_USERNAME": "admin"})
	require.Error(t, err)
}
