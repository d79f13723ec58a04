package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newConfiguredService(t *testing.T) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return NewService("admin@s2wears.com", string(hash), testSecret)
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newConfiguredService(t)
	token, err := svc.Login(context.Background(), "admin@s2wears.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "admin@s2wears.com" {
		t.Fatalf("subject %q", subject)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newConfiguredService(t)
	cases := []struct{ email, password string }{
		{"admin@s2wears.com", "wrong"},
		{"intruder@evil.com", "hunter2"},
		{"", ""},
	}
	for _, tc := range cases {
		if _, err := svc.Login(context.Background(), tc.email, tc.password); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("login(%q, %q): expected ErrInvalidCredentials, got %v", tc.email, tc.password, err)
		}
	}
}

func TestLoginDisabledWithoutHash(t *testing.T) {
	svc := NewService("admin@s2wears.com", "", testSecret)
	if _, err := svc.Login(context.Background(), "admin@s2wears.com", "anything"); err == nil {
		t.Fatal("login should be disabled when no hash is configured")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newConfiguredService(t)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Verify(%q): expected ErrInvalidCredentials, got %v", token, err)
		}
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	svc := newConfiguredService(t)
	token, err := svc.Login(context.Background(), "admin@s2wears.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	other := NewService("admin@s2wears.com", "x", "different-secret")
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("token signed with another secret accepted: %v", err)
	}
}
