// Package token issues and verifies the signed bearer tokens that carry a
// caller's identity between login and subsequent requests. Tokens are HS256
// JWTs; they are self-contained and never persisted, so the expiry window is
// the only revocation mechanism.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = time.Hour

var ErrInvalidToken = errors.New("invalid token")
var ErrTokenExpired = errors.New("token expired")

// Claims is the verified content of an accepted token.
type Claims struct {
	UserID string
	Email  string
}

type jwtClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Service signs and verifies identity tokens with a shared secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns a Service signing with secret. A non-positive ttl falls back to
// DefaultTTL.
func New(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue produces a signed token for the given subject, expiring ttl from now.
// The signature covers the full claim set, so altering any claim invalidates
// the token.
func (s *Service) Issue(userID, email string) (string, error) {
	now := s.now().UTC()
	claims := jwtClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify validates the signature and expiry of raw and returns its claims.
// Expired tokens fail with ErrTokenExpired; every other failure (malformed
// input, bad signature, wrong algorithm) is ErrInvalidToken. Both are normal
// rejections, never internal faults.
func (s *Service) Verify(raw string) (*Claims, error) {
	var claims jwtClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: claims.UserID, Email: claims.Email}, nil
}
