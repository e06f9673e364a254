package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("secret", "trivia")
	token, err := v.Issue(Identity{UID: "u1", Email: "ana@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UID != "u1" || id.Email != "ana@example.com" || id.Anonymous {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifierAnonymous(t *testing.T) {
	v := NewVerifier("secret", "")
	token, _ := v.Issue(Identity{UID: "guest-1", Anonymous: true}, time.Hour)
	id, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !id.Anonymous || id.UID != "guest-1" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier("secret", "trivia")

	other, _ := NewVerifier("other-secret", "trivia").Issue(Identity{UID: "u1"}, time.Hour)
	wrongIssuer, _ := NewVerifier("secret", "someone-else").Issue(Identity{UID: "u1"}, time.Hour)
	noSubject, _ := v.Issue(Identity{}, time.Hour)

	expiredSigner := NewVerifier("secret", "trivia")
	expiredSigner.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredSigner.Issue(Identity{UID: "u1"}, time.Hour)

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "trivia",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": other,
		"wrong issuer": wrongIssuer,
		"no subject":   noSubject,
		"expired":      expired,
		"alg none":     none,
	}
	for name, token := range cases {
		if _, err := v.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected invalid token, got %v", name, err)
		}
	}
}

func TestAttestationVerifier(t *testing.T) {
	a := NewAttestationVerifier("app-secret")
	token, err := a.Issue("web-client", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	app, err := a.Verify(token)
	if err != nil || app != "web-client" {
		t.Fatalf("verify: %q %v", app, err)
	}
	if _, err := NewAttestationVerifier("other").Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}
