// Package auth issues and verifies the signed tokens used by password reset links.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const resetAudience = "password-reset"

// ErrInvalidResetToken is returned for malformed, tampered, expired or used tokens.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ResetTokens signs reset tokens with HS256. The signing key mixes the
// server secret with the user's current password hash, so a token stops
// working once the password it was issued for has changed.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokens creates a ResetTokens issuing tokens valid for ttl.
func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns how long issued tokens stay valid.
func (r *ResetTokens) TTL() time.Duration {
	return r.ttl
}

// Issue returns a signed token for userID.
func (r *ResetTokens) Issue(userID, passwordHash string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Id:        uuid.NewString(),
		Subject:   userID,
		Audience:  resetAudience,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(r.ttl).Unix(),
	})

	signed, err := token.SignedString(r.key(passwordHash))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}
	return signed, nil
}

// Subject returns the user id a token claims to be for, without checking the
// signature. Callers must Verify the token once they know the user.
func (r *ResetTokens) Subject(tokenString string) (string, error) {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, &claims); err != nil {
		return "", ErrInvalidResetToken
	}
	if claims.Subject == "" || claims.Audience != resetAudience {
		return "", ErrInvalidResetToken
	}
	return claims.Subject, nil
}

// Verify checks the signature and expiry of tokenString against the user's
// current password hash and returns the user id it was issued for.
func (r *ResetTokens) Verify(tokenString, passwordHash string) (string, error) {
	var claims jwt.StandardClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return r.key(passwordHash), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidResetToken
	}
	if !claims.VerifyAudience(resetAudience, true) {
		return "", ErrInvalidResetToken
	}
	return claims.Subject, nil
}

func (r *ResetTokens) key(passwordHash string) []byte {
	key := make([]byte, 0, len(r.secret)+len(passwordHash))
	key = append(key, r.secret...)
	return append(key, passwordHash...)
}
