package utils

import "strings"

// NormalizeEmail lowercases and trims an email address before lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
