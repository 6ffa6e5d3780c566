package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	tm := NewTokenManager("jwt-test-secret", time.Hour)

	actor := Actor{
		ID:         "64a000000000000000000001",
		Role:       "specialist",
		BusinessID: "64a000000000000000000002",
	}

	token, expiresAt, err := tm.Issue(actor)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute {
		t.Errorf("token expires too soon: %v remaining", remaining)
	}

	parsed, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != actor {
		t.Errorf("parsed actor = %+v, want %+v", parsed, actor)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-one", time.Hour).Issue(Actor{ID: "64a000000000000000000001", Role: "client"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := NewTokenManager("secret-two", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	tm := NewTokenManager("jwt-test-secret", -time.Minute)

	token, _, err := tm.Issue(Actor{ID: "64a000000000000000000001", Role: "client"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := tm.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tm := NewTokenManager("jwt-test-secret", time.Hour)

	if _, err := tm.Parse("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
