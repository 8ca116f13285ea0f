package cmd

import (
	"io"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/bilalbayram/postmarkcli/internal/config"
	"github.com/bilalbayram/postmarkcli/internal/logger"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
)

var (
	loadCredentials   = resolveCredentials
	newAuthService    = defaultAuthService
	newPostmarkClient = func(baseURL string) *postmark.Client {
		return postmark.NewClient(nil, baseURL)
	}
)

func defaultAuthService() (*auth.Service, error) {
	configPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	return auth.NewService(configPath, auth.NewKeychainStore()), nil
}

func resolveCredentials(runtime Runtime) (*auth.Credentials, error) {
	svc, err := newAuthService()
	if err != nil {
		return nil, err
	}
	return svc.Resolve(auth.ResolveInput{
		Profile:      runtime.ProfileName(),
		ServerToken:  deref(runtime.ServerToken),
		AccountToken: deref(runtime.AccountToken),
	})
}

// resolveBaseURL prefers --base-url, then the profile, then the public API.
func resolveBaseURL(runtime Runtime, creds *auth.Credentials) string {
	if override := strings.TrimSpace(deref(runtime.BaseURL)); override != "" {
		return override
	}
	if creds != nil && creds.Profile.BaseURL != "" {
		return creds.Profile.BaseURL
	}
	return postmark.DefaultBaseURL
}

func commandLogger(runtime Runtime, w io.Writer) *logger.Logger {
	if runtime.DebugEnabled() {
		return logger.New(logger.LevelDebug, w)
	}
	return logger.New(logger.LevelWarn, w)
}
