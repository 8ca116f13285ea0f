package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"gopkg.in/yaml.v3"
)

const (
	SchemaVersion  = 1
	EnvConfigPath  = "POSTMARK_CLI_CONFIG"
	keychainScheme = "keychain://"
)

// Profile points at the tokens of one Postmark account/server pair. Tokens
// themselves live in the OS keychain; only their refs are stored here.
type Profile struct {
	ServerTokenRef  string `yaml:"server_token_ref,omitempty"`
	AccountTokenRef string `yaml:"account_token_ref,omitempty"`
	SenderAddress   string `yaml:"sender_address,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
}

type Config struct {
	SchemaVersion  int                `yaml:"schema_version"`
	DefaultProfile string             `yaml:"default_profile,omitempty"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// DefaultPath is ~/.postmark/config.yaml unless POSTMARK_CLI_CONFIG is set.
func DefaultPath() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvConfigPath)); override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home directory: %w", err)
	}
	return filepath.Join(home, ".postmark", "config.yaml"), nil
}

func New() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		Profiles:      map[string]Profile{},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: config file does not exist at %s", os.ErrNotExist, path)
		}
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrNew returns an empty config when path does not exist yet. Nothing is
// written until Save.
func LoadOrNew(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return New(), nil
}

func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory for %s: %w", path, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("replace config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported config schema_version=%d (expected %d)", c.SchemaVersion, SchemaVersion)
	}
	if c.Profiles == nil {
		return errors.New("config profiles map is required")
	}
	for _, name := range c.ProfileNames() {
		if err := validateProfile(name, c.Profiles[name]); err != nil {
			return err
		}
	}
	if c.DefaultProfile != "" {
		if _, ok := c.Profiles[c.DefaultProfile]; !ok {
			return fmt.Errorf("default_profile %q does not exist", c.DefaultProfile)
		}
	}
	return nil
}

// ResolveProfile falls back to default_profile when name is empty.
func (c *Config) ResolveProfile(name string) (string, Profile, error) {
	if c == nil {
		return "", Profile{}, errors.New("config is nil")
	}
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return "", Profile{}, errors.New("profile is required and default_profile is not configured")
	}
	profile, ok := c.Profiles[name]
	if !ok {
		return "", Profile{}, fmt.Errorf("profile %q does not exist", name)
	}
	return name, profile, nil
}

func (c *Config) UpsertProfile(name string, profile Profile) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	profile.SenderAddress = strings.TrimSpace(profile.SenderAddress)
	profile.BaseURL = strings.TrimSuffix(strings.TrimSpace(profile.BaseURL), "/")
	if err := validateProfile(name, profile); err != nil {
		return err
	}

	c.Profiles[name] = profile
	if c.DefaultProfile == "" {
		c.DefaultProfile = name
	}
	return nil
}

// DeleteProfile removes name and clears default_profile when it pointed there.
func (c *Config) DeleteProfile(name string) error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("profile %q does not exist", name)
	}
	delete(c.Profiles, name)
	if c.DefaultProfile == name {
		c.DefaultProfile = ""
	}
	return nil
}

func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateProfile(name string, profile Profile) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("profile name cannot be empty")
	}
	if strings.ContainsAny(name, "/ \t") {
		return fmt.Errorf("profile name %q cannot contain '/' or whitespace", name)
	}
	if profile.ServerTokenRef == "" && profile.AccountTokenRef == "" {
		return fmt.Errorf("profile %q needs a server_token_ref or account_token_ref", name)
	}
	for field, ref := range map[string]string{
		"server_token_ref":  profile.ServerTokenRef,
		"account_token_ref": profile.AccountTokenRef,
	} {
		if ref != "" && !strings.HasPrefix(ref, keychainScheme) {
			return fmt.Errorf("profile %q %s must use %s refs", name, field, keychainScheme)
		}
	}
	if profile.SenderAddress != "" {
		if _, err := postmark.ValidateEmail(profile.SenderAddress); err != nil {
			return fmt.Errorf("profile %q sender_address: %w", name, err)
		}
	}
	if profile.BaseURL != "" {
		parsed, err := url.Parse(profile.BaseURL)
		if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") || parsed.Host == "" {
			return fmt.Errorf("profile %q base_url %q must be an absolute http(s) url", name, profile.BaseURL)
		}
	}
	return nil
}
