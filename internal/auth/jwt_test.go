package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, NewRevocationList())

	token, err := m.Issue(42, "ana@example.com", []string{"admin", "seller"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("expected userId 42, got %d", claims.UserID)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("expected email ana@example.com, got %s", claims.Email)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if claims.JTI == "" {
		t.Fatalf("expected non-empty jti")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, nil)

	token, err := m.Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = m.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)

	token, err := m.Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// flip a character in the payload segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = m.Verify(tampered)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-one", time.Hour, nil)
	verifier := NewManager("secret-two", time.Hour, nil)

	token, err := issuer.Issue(1, "a@b.com", nil)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestRevoke_BlocksToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, NewRevocationList())

	token, err := m.Issue(7, "x@y.com", []string{"seller"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}

	m.Revoke(claims)

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected revoked token to fail verification, got %v", err)
	}

	// a fresh token for the same user still works
	token2, err := m.Issue(7, "x@y.com", []string{"seller"})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := m.Verify(token2); err != nil {
		t.Fatalf("fresh token should verify, got %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		claims   *Claims
		required []string
		want     bool
	}{
		{"nil claims", nil, nil, false},
		{"no roles required", &Claims{Roles: nil}, nil, true},
		{"has role", &Claims{Roles: []string{"admin"}}, []string{"admin"}, true},
		{"one of several", &Claims{Roles: []string{"seller"}}, []string{"admin", "seller"}, true},
		{"missing role", &Claims{Roles: []string{"seller"}}, []string{"admin"}, false},
		{"empty role set", &Claims{Roles: []string{}}, []string{"admin"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.claims, tc.required...); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRevocationList_Eviction(t *testing.T) {
	l := NewRevocationList()

	l.Add("expired", time.Now().Add(-time.Minute))
	l.Add("live", time.Now().Add(time.Minute))

	if l.Contains("expired") {
		t.Fatalf("expired entry should not be reported")
	}
	if !l.Contains("live") {
		t.Fatalf("live entry should be reported")
	}
}
