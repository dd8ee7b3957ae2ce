// Package condition implements the preimage scheme securing bonus escrows.
//
// Each bonus escrow is locked behind a 32-byte random preimage. The condition
// is the uppercase-hex SHA-256 digest of the preimage bytes; the fulfillment
// transport form is the uppercase preimage hex itself. The losing side's
// preimage is never disclosed, so its escrow can only be reclaimed on-ledger
// after the cancel window opens.
package condition

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// PreimageBytes is the preimage length in raw bytes.
const PreimageBytes = 32

var (
	ErrHexRequired   = errors.New("hex_value_required")
	ErrHexOddLength  = errors.New("hex_value_must_have_even_length")
	ErrHexInvalid    = errors.New("hex_value_invalid")
)

// GeneratePreimageHex returns a cryptographically random preimage as
// uppercase hex.
func GeneratePreimageHex() (string, error) {
	raw := make([]byte, PreimageBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate preimage: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}

// MakeConditionHex computes the crypto-condition for a preimage: the
// uppercase-hex SHA-256 of the raw preimage bytes.
func MakeConditionHex(preimageHex string) (string, error) {
	normalized, err := NormalizeHex(preimageHex)
	if err != nil {
		return "", err
	}
	raw, err := hex.DecodeString(normalized)
	if err != nil {
		return "", ErrHexInvalid
	}
	digest := sha256.Sum256(raw)
	return strings.ToUpper(hex.EncodeToString(digest[:])), nil
}

// MakeFulfillmentHex returns the transport form of a preimage: its normalized
// uppercase hex.
func MakeFulfillmentHex(preimageHex string) (string, error) {
	return NormalizeHex(preimageHex)
}

// VerifyFulfillment recomputes the condition for a fulfillment and compares
// it to the stored condition in constant time.
func VerifyFulfillment(conditionHex, fulfillmentHex string) bool {
	expected, err := NormalizeHex(conditionHex)
	if err != nil {
		return false
	}
	computed, err := MakeConditionHex(fulfillmentHex)
	if err != nil {
		return false
	}
	if len(expected) != len(computed) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(computed)) == 1
}

// NormalizeHex strips surrounding whitespace and uppercases a hex string.
// Empty, odd-length, or non-hex input is rejected.
func NormalizeHex(value string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return "", ErrHexRequired
	}
	if len(normalized)%2 != 0 {
		return "", ErrHexOddLength
	}
	if _, err := hex.DecodeString(normalized); err != nil {
		return "", ErrHexInvalid
	}
	return normalized, nil
}

// NormalizeOptionalHex normalizes a nullable hex value. Nil or empty input
// yields nil; anything else must be valid hex.
func NormalizeOptionalHex(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	normalized, err := NormalizeHex(trimmed)
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}
