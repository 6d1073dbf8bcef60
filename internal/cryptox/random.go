package cryptox

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns size random bytes encoded as hex, so the string is
// twice as long as size.
func RandomHex(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Wipe zeroes b. Use it on buffers that held a plaintext password.
func Wipe(b []byte) {
	clear(b)
}
