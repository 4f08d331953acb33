package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewInviteToken returns a 64-character hex token (256 bits of entropy)
// used to address invitations.
func NewInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
