package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Public identifier prefixes.
const (
	CollegeIDPrefix = "CLG"
	ClubIDPrefix    = "CLB"
)

const publicIDDigits = 900000 // six digits, 100000..999999

// NewPublicID generates a shareable account code like "CLG-482913".
// Uniqueness is enforced by the store's unique index; callers retry
// with a fresh code when an insert collides.
func NewPublicID(prefix string) string {
	n, err := rand.Int(rand.Reader, big.NewInt(publicIDDigits))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken, at which point nothing else works either.
		panic(err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n.Int64()+100000)
}
