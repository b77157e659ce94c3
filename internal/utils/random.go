package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomToken returns n random bytes from crypto/rand, base64url encoded
// without padding.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random token: invalid size %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
