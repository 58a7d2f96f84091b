package common

import (
	"regexp"
	"strings"
)

var (
	walletRegexp = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	txHashRegexp = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	emailRegexp  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidWalletAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsValidWalletAddress(s string) bool {
	return walletRegexp.MatchString(s)
}

// IsValidTxHash reports whether s is a 0x-prefixed 32-byte hex hash.
func IsValidTxHash(s string) bool {
	return txHashRegexp.MatchString(s)
}

// IsValidEmail reports whether s looks like local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// NormalizeAddress lowercases and trims a wallet address or transaction hash.
// All storage keys go through this so mixed-case inputs resolve to one row.
func NormalizeAddress(s string) string {
	return ToLowerWithTrim(s)
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
