// Package credentials manages provider API keys stored as
// credentials.toml in the .kbase/ directory. Environment variables
// always take precedence over stored keys, so a deployment can inject
// keys without touching the file.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/techcorp/kbase/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// providerEnvVars maps provider names to their expected environment variables.
var providerEnvVars = map[string]string{
	"gemini": "GEMINI_API_KEY",
}

// Credentials is the on-disk credentials.toml structure.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential holds the stored key material for one provider.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

// Manager manages reading and writing credentials.toml in the .kbase/ directory.
type Manager struct {
	targetPath string
}

// NewManager creates a new credentials Manager. If override is non-empty
// it is used as the .kbase/ directory; otherwise the standard dotdir
// resolution applies.
func NewManager(override string) (*Manager, error) {
	target, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}

	return &Manager{
		targetPath: filepath.Join(target, credentialsFile),
	}, nil
}

// Load reads credentials.toml from the target directory.
// Returns an empty Credentials if the file does not exist.
func (m *Manager) Load() (*Credentials, error) {
	data, err := os.ReadFile(m.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Credentials{
				Version:   currentVersion,
				Providers: make(map[string]ProviderCredential),
			}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	creds := &Credentials{}
	if err := toml.Unmarshal(data, creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}

	return creds, nil
}

// SetKey stores the API key for a provider and writes the file with
// owner-only permissions.
func (m *Manager) SetKey(provider, apiKey string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	creds.Providers[provider] = ProviderCredential{APIKey: apiKey}

	return m.save(creds)
}

// RemoveKey deletes the stored key for a provider. Removing an unknown
// provider is a no-op.
func (m *Manager) RemoveKey(provider string) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}

	if _, ok := creds.Providers[provider]; !ok {
		return nil
	}
	delete(creds.Providers, provider)

	return m.save(creds)
}

// ListProviders returns the sorted provider names with stored credentials.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	providers := make([]string, 0, len(creds.Providers))
	for p := range creds.Providers {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	return providers, nil
}

// Resolve returns the API key for a provider: the environment variable
// first, then the stored credential. Returns "" when neither is set.
func (m *Manager) Resolve(provider string) string {
	if envVar := EnvVarForProvider(provider); envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key
		}
	}

	// Gemini keys are also commonly provided as GOOGLE_API_KEY.
	if provider == "gemini" {
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			return key
		}
	}

	creds, err := m.Load()
	if err != nil {
		return ""
	}

	return creds.Providers[provider].APIKey
}

func (m *Manager) save(creds *Credentials) error {
	creds.Version = currentVersion

	f, err := os.OpenFile(m.targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		f.Close()
		return fmt.Errorf("encoding credentials: %w", err)
	}

	return f.Close()
}

// SupportedProviders returns the sorted list of providers that take an API key.
func SupportedProviders() []string {
	providers := make([]string, 0, len(providerEnvVars))
	for p := range providerEnvVars {
		providers = append(providers, p)
	}
	sort.Strings(providers)

	return providers
}

// IsSupportedProvider reports whether the provider takes an API key.
func IsSupportedProvider(provider string) bool {
	_, ok := providerEnvVars[provider]
	return ok
}

// EnvVarForProvider returns the environment variable name for a provider,
// or "" for providers without one.
func EnvVarForProvider(provider string) string {
	return providerEnvVars[provider]
}
