package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// LoginTokenBytes is the entropy of a login token. 32 bytes (256 bits)
// is comfortably past the unguessable threshold for a bearer token.
const LoginTokenBytes = 32

// GenerateLoginToken generates an opaque bearer token for login links
func GenerateLoginToken() (string, error) {
	bytes := make([]byte, LoginTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
