package prompt

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNoPrompt is returned by callers when Resolve finds nothing to send.
var ErrNoPrompt = errors.New("no prompt provided: pass a prompt argument or pipe text on stdin")

// Resolve picks the effective prompt. An argument, when given, always wins
// over stdin. Trailing whitespace is removed, leading whitespace is kept,
// and a blank candidate yields ok == false.
func Resolve(argument, stdin *string) (prompt string, ok bool) {
	candidate := stdin
	if argument != nil {
		candidate = argument
	}
	if candidate == nil {
		return "", false
	}

	trimmed := strings.TrimRightFunc(*candidate, unicode.IsSpace)
	if strings.TrimSpace(trimmed) == "" {
		return "", false
	}
	return trimmed, true
}
