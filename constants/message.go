package constants

import "strings"

// ConfirmationToken is the keyword that releases a pending record downstream.
// Matching is case-insensitive and ignores surrounding whitespace.
const ConfirmationToken = "SIM"

// IsConfirmation reports whether a text message body is the confirmation keyword.
func IsConfirmation(body string) bool {
	return strings.EqualFold(strings.TrimSpace(body), ConfirmationToken)
}
