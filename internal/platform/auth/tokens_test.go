package auth

import (
	"testing"
	"time"
)

func TestTokenIssuer_AdminTokenRoundTrip(t *testing.T) {
	issuer := TokenIssuer{Secret: testSecret, TTL: time.Hour}
	tok, exp, err := issuer.NewAdminToken(time.Time{})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expected future expiry")
	}

	claims, err := newVerifier().Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("expected subject 'admin', got %q", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role 'admin', got %q", claims.Role)
	}
}

func TestTokenIssuer_MissingSecret(t *testing.T) {
	_, _, err := TokenIssuer{}.NewAdminToken(time.Time{})
	if err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := TokenIssuer{Secret: testSecret}
	now := time.Now().UTC()
	_, exp, err := issuer.NewAdminToken(now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got := exp.Sub(now); got != defaultAdminTokenTTL {
		t.Fatalf("expected default TTL %s, got %s", defaultAdminTokenTTL, got)
	}
}
