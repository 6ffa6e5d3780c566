package sealer

import (
	"strings"
	"testing"
)

func TestBookingTokenRoundTrip(t *testing.T) {
	s := New("test-secret")

	token, err := s.CreateBookingToken("64a000000000000000000001", "64a000000000000000000002")
	if err != nil {
		t.Fatalf("CreateBookingToken failed: %v", err)
	}
	if strings.Contains(token, "64a000000000000000000001") {
		t.Error("token leaks the business ID in plaintext")
	}

	businessID, specialistID, err := s.ParseBookingToken(token)
	if err != nil {
		t.Fatalf("ParseBookingToken failed: %v", err)
	}
	if businessID != "64a000000000000000000001" {
		t.Errorf("businessID = %q", businessID)
	}
	if specialistID != "64a000000000000000000002" {
		t.Errorf("specialistID = %q", specialistID)
	}
}

func TestParseBookingTokenRejectsTampered(t *testing.T) {
	s := New("test-secret")

	token, err := s.CreateBookingToken("64a000000000000000000001", "64a000000000000000000002")
	if err != nil {
		t.Fatalf("CreateBookingToken failed: %v", err)
	}

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	if _, _, err := s.ParseBookingToken(string(tampered)); err == nil {
		t.Fatal("expected error for tampered token")
	}
}

func TestParseBookingTokenRejectsWrongSecret(t *testing.T) {
	token, err := New("secret-one").CreateBookingToken("64a000000000000000000001", "64a000000000000000000002")
	if err != nil {
		t.Fatalf("CreateBookingToken failed: %v", err)
	}

	if _, _, err := New("secret-two").ParseBookingToken(token); err == nil {
		t.Fatal("expected error for token sealed with a different secret")
	}
}

func TestParseBookingTokenRejectsGarbage(t *testing.T) {
	s := New("test-secret")

	for _, token := range []string{"", "!!!", "c2hvcnQ"} {
		if _, _, err := s.ParseBookingToken(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}
