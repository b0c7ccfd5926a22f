package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// New snapshots the process environment into a map. Handlers and the
// server read from the snapshot so a test can pass its own map instead.
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := splitEntry(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func splitEntry(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}
	if val, ok := config[key]; ok {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}
	s, ok := config[key]
	if !ok {
		return defaultValue
	}
	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return asInt
}

// PostgresDSN assembles the connection string from the DB_* variables.
func PostgresDSN(config map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(config, "DB_HOST", "localhost"),
		GetString(config, "DB_USER", "quillhub"),
		GetString(config, "DB_PASSWORD", ""),
		GetString(config, "DB_NAME", "quillhub"),
		GetString(config, "DB_PORT", "5432"),
		GetString(config, "DB_SSLMODE", "disable"),
	)
}

// Superuser holds the credentials for the bootstrap account. Username
// being empty means no superuser was configured.
type Superuser struct {
	Username string
	Email    string
	Password string
}

// GetSuperuser reads the SUPERUSER_* variables. It returns an error when
// a username is configured without a password.
func GetSuperuser(config map[string]string) (Superuser, error) {
	username := GetString(config, "SUPERUSER_USERNAME", "")
	if username == "" {
		return Superuser{}, nil
	}
	password := GetString(config, "SUPERUSER_PASSWORD", "")
	if password == "" {
		return Superuser{}, errors.New("SUPERUSER_PASSWORD is required when SUPERUSER_USERNAME is set")
	}
	return Superuser{
		Username: username,
		Email:    GetString(config, "SUPERUSER_EMAIL", username+"@localhost"),
		Password: password,
	}, nil
}
