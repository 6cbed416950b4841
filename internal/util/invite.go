package util

import (
	"strings"

	"github.com/google/uuid"
)

const (
	inviteDigits  = "0123456789"
	inviteLetters = "abcdefghijklmnopqrstuvwxyz"
)

// GenerateInviteCode returns an 8-character code in a
// digit-letter-digit-letter pattern, e.g. "2k6o1u7p". Clients display it
// with a hyphen in the middle.
func GenerateInviteCode() string {
	raw := uuid.New()
	code := make([]byte, 8)
	for i := 0; i < 4; i++ {
		code[2*i] = inviteDigits[int(raw[2*i])%len(inviteDigits)]
		code[2*i+1] = inviteLetters[int(raw[2*i+1])%len(inviteLetters)]
	}
	return string(code)
}

// NormalizeInviteCode strips the display hyphen and folds case so a code
// pasted in any of its shapes matches the stored form.
func NormalizeInviteCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
}

// FormatInviteCode renders a stored code for display ("2k6o-1u7p").
func FormatInviteCode(code string) string {
	if len(code) != 8 {
		return code
	}
	return code[:4] + "-" + code[4:]
}
