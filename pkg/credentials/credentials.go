// Package credentials stores and resolves the Perplexity API key.
package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/askpplx/pkg/configdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0

	// EnvVar is the environment variable holding the Perplexity API key.
	EnvVar = "PERPLEXITY_API_KEY"
)

// Manager manages reading and writing credentials.toml in the askpplx
// config directory.
type Manager struct {
	cdm        *configdir.Manager
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty it is
// used as the config directory; otherwise the standard configdir resolution applies.
func NewManager(override string) (*Manager, error) {
	mgr := &Manager{}
	mgr.cdm = configdir.NewManager()

	target, err := mgr.cdm.Target(override)
	if err != nil {
		return nil, err
	}

	mgr.targetPath = filepath.Join(target, credentialsFile)

	return mgr, nil
}

// Load reads credentials.toml from the target directory.
// Returns empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{Version: currentVersion}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	return creds, nil
}

// Save writes credentials to credentials.toml with 0600 permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(creds); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.WriteFile(m.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// SetAPIKey stores the Perplexity API key.
func (m *Manager) SetAPIKey(key string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.PerplexityAPIKey = key

	return m.Save(creds)
}

// GetAPIKey returns the stored Perplexity API key, or "" when none is stored.
func (m *Manager) GetAPIKey() (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}

	return creds.PerplexityAPIKey, nil
}

// ClearAPIKey removes the stored Perplexity API key.
func (m *Manager) ClearAPIKey() error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.PerplexityAPIKey = ""

	return m.Save(creds)
}

// ResolveAPIKey returns the key to use for requests. PERPLEXITY_API_KEY wins
// whenever it is set, even to the empty string, which disables the stored key.
func (m *Manager) ResolveAPIKey() (string, error) {
	return resolve(os.LookupEnv, m.GetAPIKey)
}

// GetTarget returns the resolved path to the credentials file.
func (m *Manager) GetTarget() string {
	return m.targetPath
}

func resolve(lookupEnv func(string) (string, bool), stored func() (string, error)) (string, error) {
	if key, ok := lookupEnv(EnvVar); ok {
		return key, nil
	}
	return stored()
}
