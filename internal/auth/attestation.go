package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AttestationVerifier checks app attestation tokens sent by the client next to public game calls.
// Tokens are HS256 JWTs whose subject names the calling app.
type AttestationVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewAttestationVerifier(secret string) *AttestationVerifier {
	return &AttestationVerifier{secret: []byte(secret), now: time.Now}
}

// Verify returns the attested app id.
func (a *AttestationVerifier) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// Issue signs an attestation token for appID valid for ttl.
func (a *AttestationVerifier) Issue(appID string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   appID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}
