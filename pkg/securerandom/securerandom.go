// Package securerandom draws random values from crypto/rand only. There is
// no fallback to an insecure source.
package securerandom

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GetRandomBytes returns n random bytes.
func GetRandomBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid byte count: %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate secure random bytes: %w", err)
	}
	return b, nil
}

// HexToken returns n random bytes encoded as 2n lowercase hex characters,
// suitable as a DNS label when n is at most 31.
func HexToken(n int) (string, error) {
	b, err := GetRandomBytes(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
