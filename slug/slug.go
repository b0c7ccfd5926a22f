// Package slug derives unique, URL-safe identifiers from post titles.
package slug

import (
	"fmt"
	"strings"
)

// Placeholder is the base slug used when a title normalizes to nothing.
const Placeholder = "post"

// Make normalizes a title into a lowercase, hyphen-separated, ASCII-safe
// base slug. Titles that yield no usable characters fall back to
// Placeholder.
func Make(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return Placeholder
	}
	return s
}

// Assign produces a slug for the title that the exists callback reports as
// unused, appending -1, -2, ... to the base slug until a free candidate is
// found. The store's unique constraint remains the final authority; callers
// must treat an insert-time collision as retryable.
func Assign(title string, exists func(string) (bool, error)) (string, error) {
	base := Make(title)
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}
