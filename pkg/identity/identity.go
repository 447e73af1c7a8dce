// Package identity turns user-supplied email addresses into the stable,
// case-insensitive keys the rest of the system compares on. Matching is
// always done by normalizing both sides first, never by comparing raw
// strings.
package identity

import (
	"net/mail"
	"strings"

	"github.com/badoux/checkmail"
)

// Normalize parses raw as a mailbox address and returns the lower-cased
// local@host key. The second return is false when raw isn't a well-formed
// address; no deliverability or DNS check is performed.
func Normalize(raw string) (string, bool) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	if err := checkmail.ValidateFormat(addr.Address); err != nil {
		return "", false
	}

	return strings.ToLower(addr.Address), true
}
