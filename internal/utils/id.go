package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// poemIDBytes encodes to exactly 12 URL-safe characters.
const poemIDBytes = 9

// NewPoemID returns a 12-character URL-safe identifier drawn from
// crypto/rand.
func NewPoemID() (string, error) {
	buf := make([]byte, poemIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate poem id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
