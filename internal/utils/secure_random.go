package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateReceiptNumber returns a deposit receipt number of the form
// RCP-YYYYMMDD-XXXXXX used when the bank receipt number is not supplied.
func GenerateReceiptNumber(at time.Time) (string, error) {
	suffix, err := GenerateSecureRandomString(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP-%s-%s", at.Format("20060102"), strings.ToUpper(suffix)), nil
}

// FormatSlipNumber renders the sequential slip number FRCHQ-<year>-<seq>.
func FormatSlipNumber(year, seq int) string {
	return fmt.Sprintf("FRCHQ-%d-%05d", year, seq)
}
