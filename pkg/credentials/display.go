package credentials

import "fmt"

const maskThreshold = 16

// MaskAPIKey hides most of a key for display. Keys of up to 16 characters
// are fully masked; longer keys keep their first and last four characters.
// An empty key returns "".
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= maskThreshold {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// FormatRequiresHelpText describes the credential requirement for help
// output, either flagging the key as missing or showing its last four
// characters.
func FormatRequiresHelpText(key string) string {
	if key == "" {
		return "Requires:\n" +
			"  - " + EnvVar + " - MISSING! Set " + EnvVar + "=<token> " +
			"or run: askpplx config --set-api-key <token>"
	}

	return fmt.Sprintf("Requires: %s (configured: last4=%s)", EnvVar, key[max(0, len(key)-4):])
}
