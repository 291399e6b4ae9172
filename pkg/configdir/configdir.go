// Package configdir locates the askpplx configuration directory.
package configdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the askpplx directory beneath the user config dir.
	dirName = "askpplx"

	// EnvVar overrides the configuration directory when set.
	EnvVar = "ASKPPLX_CONFIG_DIR"
)

type Manager struct {
	getenv        func(string) string
	userConfigDir func() (string, error)
}

func NewManager() *Manager {
	return &Manager{
		getenv:        os.Getenv,
		userConfigDir: os.UserConfigDir,
	}
}

// Target returns the absolute path to the askpplx config directory, creating
// it if necessary. Order of precedence is as follows:
//  1. Provided override
//  2. $ASKPPLX_CONFIG_DIR
//  3. <user config dir>/askpplx
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.getenv(EnvVar) != "":
		dir = m.getenv(EnvVar)

	default:
		base, err := m.userConfigDir()
		if err != nil {
			return "", fmt.Errorf("getting user config directory: %w", err)
		}
		dir = filepath.Join(base, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}
