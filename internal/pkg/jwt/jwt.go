package jwt

import (
	"errors"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/medrecall/MedRecall/internal/pkg/env"
)

const tokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the authenticated identity inside a bearer token.
type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	gojwt.RegisteredClaims
}

func secret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

// Issue signs a short-lived HS256 token for the given user.
func Issue(userID uint, email string) (string, error) {
	if len(secret()) == 0 {
		return "", errors.New("JWT_SECRET is not configured")
	}

	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: gojwt.RegisteredClaims{
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// Verify parses and validates a bearer token, returning its typed claims.
// Verification is synchronous; any failure collapses to ErrInvalidToken.
func Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
