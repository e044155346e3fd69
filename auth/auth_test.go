// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestNewID(t *testing.T) {
	id := NewID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("NewID() = %q is not a UUID: %v", id, err)
	}
	if NewID() == id {
		t.Error("NewID() produced duplicate IDs")
	}
}

func TestGenerateWalletAddress(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		addr, err := GenerateWalletAddress()
		if err != nil {
			t.Fatalf("GenerateWalletAddress() error = %v", err)
		}
		if !IsWalletAddress(addr) {
			t.Errorf("GenerateWalletAddress() = %q is not a wallet address", addr)
		}
		if seen[addr] {
			t.Errorf("GenerateWalletAddress() produced duplicate %q", addr)
		}
		seen[addr] = true
	}
}

func TestIsWalletAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"0x742d35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{"0x0000000000000000000000000000000000000000", true},
		{"742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"0x742d35Cc6634C0532925a3b844Bc454e4438f44", false},
		{"0x742d35Cc6634C0532925a3b844Bc454e4438f44ez", false},
		{"0xZZ2d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsWalletAddress(tt.addr); got != tt.want {
			t.Errorf("IsWalletAddress(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestIsCollegeEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"student@university.edu", true},
		{"Student@Campus.EDU", true},
		{"someone@example.com", false},
		{"edu@example.com", false},
		{"not-an-email.edu", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsCollegeEmail(tt.email); got != tt.want {
			t.Errorf("IsCollegeEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsEmailAddress(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"someone@example.com", true},
		{"student@university.edu", true},
		{"Someone <someone@example.com>", false},
		{"missing-at.example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsEmailAddress(tt.email); got != tt.want {
			t.Errorf("IsEmailAddress(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestHashIP(t *testing.T) {
	salt := "test-salt"

	hash1 := HashIP("192.168.1.1", salt)
	hash2 := HashIP("192.168.1.1", salt)
	if hash1 != hash2 {
		t.Error("HashIP() is not deterministic")
	}
	if len(hash1) != 16 {
		t.Errorf("HashIP() length = %d, want 16", len(hash1))
	}
	if HashIP("192.168.1.2", salt) == hash1 {
		t.Error("HashIP() produced same hash for different IPs")
	}
	if HashIP("192.168.1.1", "other-salt") == hash1 {
		t.Error("HashIP() produced same hash for different salts")
	}
}

func TestSessionSigner_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := NewSessionSigner("0123456789abcdef-secret", func() time.Time { return now })

	token, err := signer.Issue(SessionClaims{
		SessionID:     "sess-1",
		ProfileID:     "prof-1",
		WalletAddress: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		IssuedAt:      now,
		ExpiresAt:     now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("Issue() = %q is not a compact JWT", token)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.SessionID != "sess-1" || claims.ProfileID != "prof-1" {
		t.Errorf("Verify() ids = (%q, %q)", claims.SessionID, claims.ProfileID)
	}
	if claims.WalletAddress != "0x742d35Cc6634C0532925a3b844Bc454e4438f44e" {
		t.Errorf("Verify() wallet = %q", claims.WalletAddress)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("Verify() expires = %v", claims.ExpiresAt)
	}
}

func TestSessionSigner_Rejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	signer := NewSessionSigner("0123456789abcdef-secret", func() time.Time { return clock })

	token, err := signer.Issue(SessionClaims{
		SessionID: "sess-1",
		ProfileID: "prof-1",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionSigner("another-secret-value", func() time.Time { return now })
		if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("tampered", func(t *testing.T) {
		if _, err := signer.Verify(token + "x"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := signer.Verify("  "); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		clock = now.Add(2 * time.Hour)
		defer func() { clock = now }()
		if _, err := signer.Verify(token); !errors.Is(err, ErrExpiredToken) {
			t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
		}
	})
}

func TestSessionSigner_IssueValidation(t *testing.T) {
	now := time.Now()
	signer := NewSessionSigner("0123456789abcdef-secret", nil)

	if _, err := signer.Issue(SessionClaims{ProfileID: "p", IssuedAt: now, ExpiresAt: now.Add(time.Minute)}); err == nil {
		t.Error("Issue() without session id should fail")
	}
	if _, err := signer.Issue(SessionClaims{SessionID: "s", ProfileID: "p", IssuedAt: now, ExpiresAt: now}); err == nil {
		t.Error("Issue() with non-positive lifetime should fail")
	}
}
