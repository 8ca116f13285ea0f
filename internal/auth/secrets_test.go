package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

type memoryKeyring struct {
	values map[string]string
}

func newMemoryKeyring() *memoryKeyring {
	return &memoryKeyring{values: map[string]string{}}
}

func (m *memoryKeyring) Set(service, user, password string) error {
	m.values[service+"::"+user] = password
	return nil
}

func (m *memoryKeyring) Get(service, user string) (string, error) {
	value, ok := m.values[service+"::"+user]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return value, nil
}

func (m *memoryKeyring) Delete(service, user string) error {
	if _, ok := m.values[service+"::"+user]; !ok {
		return keyring.ErrNotFound
	}
	delete(m.values, service+"::"+user)
	return nil
}

func TestSecretRefDeterministic(t *testing.T) {
	t.Parallel()

	ref, err := SecretRef("prod", SecretServerToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	const expected = "keychain://postmark-cli/prod/server_token"
	if ref != expected {
		t.Fatalf("unexpected ref: got=%s want=%s", ref, expected)
	}

	if _, err := SecretRef("prod", "api_key"); err == nil {
		t.Fatal("expected unsupported kind error")
	}
}

func TestKeychainStoreRoundTrip(t *testing.T) {
	t.Parallel()

	mem := newMemoryKeyring()
	store := &KeychainStore{
		service: KeychainService,
		backend: mem,
	}

	ref, err := SecretRef("staging", SecretAccountToken)
	if err != nil {
		t.Fatalf("secret ref: %v", err)
	}
	if err := store.Set(ref, "secret-value"); err != nil {
		t.Fatalf("set secret: %v", err)
	}
	if _, ok := mem.values["postmark-cli::staging:account_token"]; !ok {
		t.Fatalf("unexpected keyring layout: %v", mem.values)
	}
	value, err := store.Get(ref)
	if err != nil {
		t.Fatalf("get secret: %v", err)
	}
	if value != "secret-value" {
		t.Fatalf("unexpected secret value: %s", value)
	}

	if err := store.Delete(ref); err != nil {
		t.Fatalf("delete secret: %v", err)
	}
	if err := store.Delete(ref); err != nil {
		t.Fatalf("expected second delete to be a no-op, got %v", err)
	}
	if _, err := store.Get(ref); !errors.Is(err, ErrSecretNotFound) {
		t.Fatalf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestKeychainStoreRejectsEmptyValue(t *testing.T) {
	t.Parallel()

	store := &KeychainStore{service: KeychainService, backend: newMemoryKeyring()}
	if err := store.Set("keychain://postmark-cli/prod/server_token", "  "); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestParseSecretRefRejectsUnknownService(t *testing.T) {
	t.Parallel()

	_, _, err := ParseSecretRef("keychain://wrong/prod/server_token")
	if err == nil {
		t.Fatal("expected parse error for wrong service")
	}
	if _, _, err := ParseSecretRef("keychain://postmark-cli/prod/token"); err == nil {
		t.Fatal("expected parse error for unknown kind")
	}
	if _, _, err := ParseSecretRef("postmark-cli/prod/server_token"); err == nil {
		t.Fatal("expected parse error for missing scheme")
	}
}
