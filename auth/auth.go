// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// NewID returns a random UUID string for database rows
func NewID() string {
	return uuid.NewString()
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateWalletAddress creates a simulated wallet address: 0x followed by 40 hex chars.
// No key pair backs it; it only identifies a profile.
func GenerateWalletAddress() (string, error) {
	id, err := GenerateID(20)
	if err != nil {
		return "", fmt.Errorf("failed to generate wallet address: %w", err)
	}
	return "0x" + id, nil
}

// IsWalletAddress reports whether s looks like a 0x-prefixed 20 byte address
func IsWalletAddress(s string) bool {
	return walletPattern.MatchString(s)
}

// IsEmailAddress reports whether email is a bare, well-formed address
func IsEmailAddress(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsCollegeEmail reports whether email is a well-formed address on an .edu domain
func IsCollegeEmail(email string) bool {
	return IsEmailAddress(email) && strings.HasSuffix(strings.ToLower(email), ".edu")
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
