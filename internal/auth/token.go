package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

const tokenIssuer = "inkpost"

// Claims is the JWT payload carried by every bearer token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies stateless HS256 bearer tokens. The
// signing key is process-wide configuration and never rotates
// mid-process; expiry is the only invalidation mechanism.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer constructs a TokenIssuer.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding the user identity and an absolute expiry.
func (t *TokenIssuer) Issue(userID int64) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(t.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature integrity and expiry and returns the embedded
// user identity. Expired-but-well-formed tokens are distinguished from
// malformed or tampered ones.
func (t *TokenIssuer) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: bearer token past expiry", httpx.ErrTokenExpired)
		}
		return 0, fmt.Errorf("%w: invalid bearer token", httpx.ErrUnauthorized)
	}
	if !token.Valid || claims.UserID == 0 {
		return 0, fmt.Errorf("%w: invalid bearer token", httpx.ErrUnauthorized)
	}
	return claims.UserID, nil
}
