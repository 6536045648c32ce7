package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	token, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID=%d, want 42", userID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	// Bypass the constructor's TTL fallback to mint an already-expired token.
	manager := &Manager{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := manager.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := manager.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := manager.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	manager := NewManager("test-secret", 0)
	if manager.ttl != DefaultTTL {
		t.Fatalf("ttl=%v, want %v", manager.ttl, DefaultTTL)
	}
}
