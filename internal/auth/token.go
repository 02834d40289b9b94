package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "maestro"

var (
	// ErrInvalidToken indicates a malformed token or a bad signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token expiry has elapsed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the signed payload identifying a principal. Possession of a
// valid token is the sole proof of identity until expiry; there is no
// revocation list and no server-side session state.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AllowsMutation reports whether the principal may mutate a resource owned
// by ownerID. A nil owner (unlinked resource) is admin-only.
func (c *Claims) AllowsMutation(ownerID *int64) bool {
	if c == nil {
		return false
	}
	if c.IsAdmin {
		return true
	}
	return ownerID != nil && *ownerID == c.UserID
}

// Issuer signs and verifies API tokens with a shared HS256 secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer. A nil clock falls back to time.Now.
func NewIssuer(secret string, ttl time.Duration, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue produces a signed token encoding the principal's identity and an expiry.
func (i *Issuer) Issue(userID int64, username string, isAdmin bool) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes the token and checks signature and expiry. On success the
// embedded claims are returned unchanged; the credential store is never
// re-queried, so claims may be stale relative to concurrent profile edits.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != tokenIssuer || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
