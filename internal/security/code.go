package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateCode returns a URL-safe random string for one-time verification
// codes. length is the number of random bytes before encoding.
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		length = 32
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
