package api

import (
	"regexp" // Format validators
	"time"   // Epoch conversion
)

// emailRegex accepts lowercase user@domain.tld shapes. Uppercase input is
// rejected rather than normalized; storage keeps whatever passed the check.
var emailRegex = regexp.MustCompile(
	`^([a-z0-9_+]([a-z0-9_+.]*[a-z0-9_+])?)@([a-z0-9]+([\-\.]{1}[a-z0-9]+)*\.[a-z]{2,6})`)

// passwordRegex demands a lowercase letter, then an uppercase letter, then a
// digit, then a non-alphanumeric symbol, followed by at least 8 more
// characters. The class ordering is part of the historic contract.
var passwordRegex = regexp.MustCompile(
	`^(\P{Ll}*\p{Ll})(\P{Lu}*\p{Lu})(\P{N}*\p{N})([\p{L}\p{N}]*[^\p{L}\p{N}])[\s\S]{8,}$`)

// verifyEmail checks the email format
func verifyEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// verifyPassword checks the password strength rule
func verifyPassword(password string) bool {
	return passwordRegex.MatchString(password)
}

// fromTimestamp converts provider epoch seconds to UTC time
func fromTimestamp(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
