package auth

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/bilalbayram/postmarkcli/internal/config"
)

type inMemorySecretStore struct {
	values map[string]string
}

func newInMemorySecretStore() *inMemorySecretStore {
	return &inMemorySecretStore{
		values: map[string]string{},
	}
}

func (m *inMemorySecretStore) Set(ref string, value string) error {
	if ref == "" {
		return fmt.Errorf("secret ref is required")
	}
	if value == "" {
		return fmt.Errorf("secret value is required")
	}
	m.values[ref] = value
	return nil
}

func (m *inMemorySecretStore) Get(ref string) (string, error) {
	value, ok := m.values[ref]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, ref)
	}
	return value, nil
}

func (m *inMemorySecretStore) Delete(ref string) error {
	delete(m.values, ref)
	return nil
}

func mustWriteConfigWithProfile(t *testing.T, profileName string, profile config.Profile) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	if profile.ServerTokenRef == "" && profile.AccountTokenRef == "" {
		ref, err := SecretRef(profileName, SecretServerToken)
		if err != nil {
			t.Fatalf("build server token ref: %v", err)
		}
		profile.ServerTokenRef = ref
	}

	cfg := config.New()
	if err := cfg.UpsertProfile(profileName, profile); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	if err := config.Save(configPath, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	return configPath
}

func newTestService(configPath string, secrets SecretStore, env map[string]string) *Service {
	service := NewService(configPath, secrets)
	service.getenv = func(key string) string {
		return env[key]
	}
	return service
}
