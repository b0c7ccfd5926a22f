package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Test Post", "test-post"},
		{"Hello, World!", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces --- and dashes", "multiple-spaces-and-dashes"},
		{"MixedCASE Title 42", "mixedcase-title-42"},
		{"", "post"},
		{"!!!", "post"},
		{"日本語のタイトル", "post"},
		{"Go 1.23 Release Notes", "go-1-23-release-notes"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.title), "title %q", tc.title)
	}
}

func TestAssignReturnsBaseWhenFree(t *testing.T) {
	got, err := Assign("Test Post", func(string) (bool, error) {
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "test-post", got)
}

func TestAssignIncrementsCounterUntilFree(t *testing.T) {
	taken := map[string]bool{
		"test-post":   true,
		"test-post-1": true,
	}
	got, err := Assign("Test Post", func(s string) (bool, error) {
		return taken[s], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "test-post-2", got)
}

func TestAssignFallsBackToPlaceholder(t *testing.T) {
	taken := map[string]bool{"post": true}
	got, err := Assign("???", func(s string) (bool, error) {
		return taken[s], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "post-1", got)
}

func TestAssignPropagatesCheckError(t *testing.T) {
	checkErr := errors.New("store unavailable")
	_, err := Assign("Test Post", func(string) (bool, error) {
		return false, checkErr
	})
	require.ErrorIs(t, err, checkErr)
}
