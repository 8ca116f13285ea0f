package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/config"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
)

const (
	EnvServerToken  = "POSTMARK_SERVER_TOKEN"
	EnvAccountToken = "POSTMARK_ACCOUNT_TOKEN"

	SourceFlag     = "flag"
	SourceEnv      = "env"
	SourceKeychain = "keychain"
)

// MissingCredentialError is returned when no source provides a token of the
// requested kind.
type MissingCredentialError struct {
	Kind  postmark.CredentialKind
	Cause error
}

func (e *MissingCredentialError) Error() string {
	var message string
	if e.Kind == postmark.CredentialAccount {
		message = "You need to set your Account API Token. Pass --account-token, set " + EnvAccountToken + ", or run `pm auth login --account-token`."
	} else {
		message = "You need to set your Server API Token. Pass --server-token, set " + EnvServerToken + ", or run `pm auth login --server-token`."
	}
	if e.Cause != nil {
		return message + " (" + e.Cause.Error() + ")"
	}
	return message
}

func (e *MissingCredentialError) Unwrap() error {
	return e.Cause
}

type Service struct {
	configPath string
	secrets    SecretStore
	getenv     func(string) string
}

func NewService(configPath string, secrets SecretStore) *Service {
	return &Service{
		configPath: configPath,
		secrets:    secrets,
		getenv:     os.Getenv,
	}
}

type LoginInput struct {
	Profile       string
	ServerToken   string
	AccountToken  string
	SenderAddress string
	BaseURL       string
}

// Login stores the given tokens in the keychain and upserts the profile.
// Fields left empty keep the profile's existing values.
func (s *Service) Login(input LoginInput) error {
	name := strings.TrimSpace(input.Profile)
	if name == "" {
		return errors.New("profile is required")
	}
	serverToken := strings.TrimSpace(input.ServerToken)
	accountToken := strings.TrimSpace(input.AccountToken)
	if serverToken == "" && accountToken == "" {
		return errors.New("at least one of server token or account token is required")
	}

	cfg, err := config.LoadOrNew(s.configPath)
	if err != nil {
		return err
	}
	profile := cfg.Profiles[name]

	if serverToken != "" {
		ref, err := SecretRef(name, SecretServerToken)
		if err != nil {
			return err
		}
		if err := s.secrets.Set(ref, serverToken); err != nil {
			return err
		}
		profile.ServerTokenRef = ref
	}
	if accountToken != "" {
		ref, err := SecretRef(name, SecretAccountToken)
		if err != nil {
			return err
		}
		if err := s.secrets.Set(ref, accountToken); err != nil {
			return err
		}
		profile.AccountTokenRef = ref
	}
	if strings.TrimSpace(input.SenderAddress) != "" {
		profile.SenderAddress = input.SenderAddress
	}
	if strings.TrimSpace(input.BaseURL) != "" {
		profile.BaseURL = input.BaseURL
	}

	if err := cfg.UpsertProfile(name, profile); err != nil {
		return err
	}
	return config.Save(s.configPath, cfg)
}

// Logout deletes the profile's keychain entries and the profile itself.
func (s *Service) Logout(profileName string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	name, profile, err := cfg.ResolveProfile(strings.TrimSpace(profileName))
	if err != nil {
		return err
	}
	for _, ref := range []string{profile.ServerTokenRef, profile.AccountTokenRef} {
		if ref == "" {
			continue
		}
		if err := s.secrets.Delete(ref); err != nil {
			return err
		}
	}
	if err := cfg.DeleteProfile(name); err != nil {
		return err
	}
	return config.Save(s.configPath, cfg)
}

type ProfileStatus struct {
	Profile       string `json:"profile"`
	Default       bool   `json:"default"`
	ServerToken   bool   `json:"server_token"`
	AccountToken  bool   `json:"account_token"`
	SenderAddress string `json:"sender_address,omitempty"`
	BaseURL       string `json:"base_url,omitempty"`
}

// Status reports which tokens each profile can resolve from the keychain.
// Token values are never returned.
func (s *Service) Status(profileName string) ([]ProfileStatus, error) {
	cfg, err := config.LoadOrNew(s.configPath)
	if err != nil {
		return nil, err
	}

	names := cfg.ProfileNames()
	if trimmed := strings.TrimSpace(profileName); trimmed != "" {
		if _, ok := cfg.Profiles[trimmed]; !ok {
			return nil, fmt.Errorf("profile %q does not exist", trimmed)
		}
		names = []string{trimmed}
	}

	statuses := make([]ProfileStatus, 0, len(names))
	for _, name := range names {
		profile := cfg.Profiles[name]
		statuses = append(statuses, ProfileStatus{
			Profile:       name,
			Default:       name == cfg.DefaultProfile,
			ServerToken:   s.hasSecret(profile.ServerTokenRef),
			AccountToken:  s.hasSecret(profile.AccountTokenRef),
			SenderAddress: profile.SenderAddress,
			BaseURL:       profile.BaseURL,
		})
	}
	return statuses, nil
}

func (s *Service) hasSecret(ref string) bool {
	if ref == "" {
		return false
	}
	_, err := s.secrets.Get(ref)
	return err == nil
}

type ResolveInput struct {
	Profile      string
	ServerToken  string
	AccountToken string
}

// Credentials is the resolved configuration handed to one command.
type Credentials struct {
	ProfileName   string
	Profile       config.Profile
	serverToken   string
	accountToken  string
	serverSource  string
	accountSource string
	serverErr     error
	accountErr    error
}

// Resolve picks each token from the flag, then the environment, then the
// profile's keychain ref. A missing config file is fine when every needed
// token comes from a flag or the environment.
func (s *Service) Resolve(input ResolveInput) (*Credentials, error) {
	creds := &Credentials{}

	cfg, err := config.LoadOrNew(s.configPath)
	if err != nil {
		return nil, err
	}
	requested := strings.TrimSpace(input.Profile)
	switch {
	case requested != "":
		name, profile, err := cfg.ResolveProfile(requested)
		if err != nil {
			return nil, err
		}
		creds.ProfileName, creds.Profile = name, profile
	case cfg.DefaultProfile != "":
		creds.ProfileName, creds.Profile = cfg.DefaultProfile, cfg.Profiles[cfg.DefaultProfile]
	}

	creds.serverToken, creds.serverSource, creds.serverErr = s.pick(input.ServerToken, EnvServerToken, creds.Profile.ServerTokenRef)
	creds.accountToken, creds.accountSource, creds.accountErr = s.pick(input.AccountToken, EnvAccountToken, creds.Profile.AccountTokenRef)
	return creds, nil
}

func (s *Service) pick(flagValue string, envName string, ref string) (string, string, error) {
	if token := strings.TrimSpace(flagValue); token != "" {
		return token, SourceFlag, nil
	}
	if token := strings.TrimSpace(s.getenv(envName)); token != "" {
		return token, SourceEnv, nil
	}
	if ref == "" {
		return "", "", nil
	}
	token, err := s.secrets.Get(ref)
	if err != nil {
		return "", "", err
	}
	return token, SourceKeychain, nil
}

func (c *Credentials) Server() (postmark.Credential, error) {
	if c == nil || c.serverToken == "" {
		var cause error
		if c != nil {
			cause = c.serverErr
		}
		return postmark.Credential{}, &MissingCredentialError{Kind: postmark.CredentialServer, Cause: cause}
	}
	return postmark.ServerCredential(c.serverToken), nil
}

func (c *Credentials) Account() (postmark.Credential, error) {
	if c == nil || c.accountToken == "" {
		var cause error
		if c != nil {
			cause = c.accountErr
		}
		return postmark.Credential{}, &MissingCredentialError{Kind: postmark.CredentialAccount, Cause: cause}
	}
	return postmark.AccountCredential(c.accountToken), nil
}

// Source reports where the token of kind came from, or "" when unresolved.
func (c *Credentials) Source(kind postmark.CredentialKind) string {
	if c == nil {
		return ""
	}
	if kind == postmark.CredentialAccount {
		return c.accountSource
	}
	return c.serverSource
}
