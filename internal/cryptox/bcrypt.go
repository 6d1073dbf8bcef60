package cryptox

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BCryptEncoder hashes with bcrypt at a fixed cost.
type BCryptEncoder struct {
	cost int
}

func NewBCryptEncoder(cost int) (*BCryptEncoder, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BCryptEncoder{cost: cost}, nil
}

func (e *BCryptEncoder) Encode(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), e.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (e *BCryptEncoder) Matches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
