package session

import (
	"encoding/base64"
	"fmt"

	"auth-gateway/internal/utils"
)

const idBytes = 32 // 256 bits

// encodedIDLen is the length of a base64url id without padding.
var encodedIDLen = base64.RawURLEncoding.EncodedLen(idBytes)

// GenerateID generates a cryptographically secure session ID.
func GenerateID() (string, error) {
	id, err := utils.RandomToken(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}

// ValidID reports whether id has the shape GenerateID produces. Anything
// else coming from a cookie is treated as no session at all.
func ValidID(id string) bool {
	if len(id) != encodedIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
