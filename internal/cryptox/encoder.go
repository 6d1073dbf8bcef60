// Package cryptox provides the one-way password encoders used for stored
// credentials and password history.
package cryptox

import "fmt"

// PasswordEncoder hashes passwords and verifies candidates against a stored
// hash. Implementations must be one-way and salt every hash.
type PasswordEncoder interface {
	Encode(password string) (string, error)
	Matches(password, hash string) bool
}

// Encoder names accepted by NewEncoder.
const (
	EncoderBCrypt   = "bcrypt"
	EncoderArgon2id = "argon2id"
)

// NewEncoder returns the encoder registered under name. cost applies to
// bcrypt only.
func NewEncoder(name string, cost int) (PasswordEncoder, error) {
	switch name {
	case "", EncoderBCrypt:
		return NewBCryptEncoder(cost)
	case EncoderArgon2id:
		return NewArgon2idEncoder(DefaultArgon2Params), nil
	}
	return nil, fmt.Errorf("unknown password encoder %q", name)
}
