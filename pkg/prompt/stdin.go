// Package prompt resolves the text sent to the answer engine: the user
// prompt (argument or piped stdin) and the system prompt.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultMaxStdinBytes is the largest piped prompt accepted.
const DefaultMaxStdinBytes = 10 * 1024 * 1024

// ErrInputTooLarge is returned when piped input exceeds its byte budget.
var ErrInputTooLarge = errors.New("input too large")

// CollectStdin reads r to EOF and returns its contents as a string. It
// fails with ErrInputTooLarge as soon as more than maxBytes have been read;
// exactly maxBytes is accepted. A non-positive maxBytes uses
// DefaultMaxStdinBytes.
func CollectStdin(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxStdinBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	if int64(len(data)) > maxBytes {
		limitMB := int64(math.Round(float64(maxBytes) / 1024 / 1024))
		return "", fmt.Errorf("%w: exceeds %dMB limit", ErrInputTooLarge, limitMB)
	}

	return string(data), nil
}
