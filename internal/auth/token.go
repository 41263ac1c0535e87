package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateToken returns a URL-safe random token carrying 256 bits of entropy.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
