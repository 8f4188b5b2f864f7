package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account roles carried inside session tokens.
const (
	RoleCollege = "college"
	RoleClub    = "club"
)

// DefaultTokenTTL is the session token lifetime used when the
// configuration does not override it.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for every token verification failure:
// bad signature, expired, malformed, wrong signing method, missing
// claims. Callers must not learn which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the decoded assertion a verified token makes about its
// bearer.
type Identity struct {
	PublicID string
	Role     string
}

// Claims is the JWT payload: registered claims plus the account role.
// The subject is the account's public identifier.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// IssueToken signs a session token for the given account. Purely
// functional over the secret; nothing is stored server-side.
func IssueToken(publicID, role string, secret []byte, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publicID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies a token against the secret and decodes the
// identity it asserts. All failures collapse to ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (Identity, error) {
	claims := Claims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.Role != RoleCollege && claims.Role != RoleClub {
		return Identity{}, ErrInvalidToken
	}

	return Identity{PublicID: subject, Role: claims.Role}, nil
}
