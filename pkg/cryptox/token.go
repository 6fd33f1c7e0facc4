package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// InviteTokenSize is the entropy of an invitation token in bytes before
// encoding. 32 bytes gives 256 bits, well beyond guessable.
const InviteTokenSize = 32

// GenerateToken creates a cryptographically secure random token of the given
// byte length, hex-encoded (so a 32-byte token is 64 characters on the wire).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Only fingerprints are stored; the raw token exists solely in the link
// handed to the invitee, so a leaked table cannot be replayed.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
