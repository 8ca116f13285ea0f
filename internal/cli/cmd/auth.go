package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/spf13/cobra"
)

type authCLIService interface {
	Login(auth.LoginInput) error
	Logout(string) error
	Status(string) ([]auth.ProfileStatus, error)
}

var newAuthCLIService = func() (authCLIService, error) {
	return newAuthService()
}

func NewAuthCommand(runtime Runtime) *cobra.Command {
	authCmd := newGroupCommand("auth", "Store Postmark tokens in the OS keychain")
	authCmd.AddCommand(newAuthLoginCommand(runtime))
	authCmd.AddCommand(newAuthStatusCommand(runtime))
	authCmd.AddCommand(newAuthLogoutCommand(runtime))
	return authCmd
}

func newAuthLoginCommand(runtime Runtime) *cobra.Command {
	var senderAddress string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save tokens and defaults for a profile",
		Long:  "Save the tokens passed with the global --server-token and --account-token flags to the OS keychain. A global --base-url is stored on the profile.",
		Example: `  pm --profile prod auth login --server-token "$SERVER_TOKEN" --sender-address sender@example.com
  pm --profile prod auth login --account-token "$ACCOUNT_TOKEN"`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := strings.TrimSpace(runtime.ProfileName())
			if profile == "" {
				return writeCommandError(cmd, runtime, "pm auth login", inputError(errors.New("profile is required (global --profile)")))
			}
			svc, err := newAuthCLIService()
			if err != nil {
				return writeCommandError(cmd, runtime, "pm auth login", configError(err))
			}
			if err := svc.Login(auth.LoginInput{
				Profile:       profile,
				ServerToken:   deref(runtime.ServerToken),
				AccountToken:  deref(runtime.AccountToken),
				SenderAddress: senderAddress,
				BaseURL:       deref(runtime.BaseURL),
			}); err != nil {
				return writeCommandError(cmd, runtime, "pm auth login", inputError(err))
			}
			return writeSuccess(cmd, runtime, "pm auth login", fmt.Sprintf("Saved profile %s.", profile), map[string]any{
				"status":  "ok",
				"profile": profile,
			})
		},
	}

	cmd.Flags().StringVar(&senderAddress, "sender-address", "", "Default From address for test emails")
	return cmd
}

func newAuthStatusCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which tokens each profile has stored",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := newAuthCLIService()
			if err != nil {
				return writeCommandError(cmd, runtime, "pm auth status", configError(err))
			}
			statuses, err := svc.Status(runtime.ProfileName())
			if err != nil {
				return writeCommandError(cmd, runtime, "pm auth status", configError(err))
			}

			if len(statuses) == 0 {
				return writeSuccess(cmd, runtime, "pm auth status", "No profiles configured. Run `pm --profile <name> auth login`.", statuses)
			}
			lines := make([]string, 0, len(statuses))
			for _, status := range statuses {
				lines = append(lines, describeProfileStatus(status))
			}
			return writeSuccess(cmd, runtime, "pm auth status", strings.Join(lines, "\n"), statuses)
		},
	}
}

func describeProfileStatus(status auth.ProfileStatus) string {
	name := status.Profile
	if status.Default {
		name += " (default)"
	}
	line := fmt.Sprintf("%s: server token %s, account token %s", name, presence(status.ServerToken), presence(status.AccountToken))
	if status.SenderAddress != "" {
		line += ", sender " + status.SenderAddress
	}
	return line
}

func presence(ok bool) string {
	if ok {
		return "set"
	}
	return "missing"
}

func newAuthLogoutCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete a profile and its keychain entries",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := strings.TrimSpace(runtime.ProfileName())
			if profile == "" {
				return writeCommandError(cmd, runtime, "pm auth logout", inputError(errors.New("profile is required (global --profile)")))
			}
			svc, err := newAuthCLIService()
			if err != nil {
				return writeCommandError(cmd, runtime, "pm auth logout", configError(err))
			}
			if err := svc.Logout(profile); err != nil {
				return writeCommandError(cmd, runtime, "pm auth logout", configError(err))
			}
			return writeSuccess(cmd, runtime, "pm auth logout", fmt.Sprintf("Removed profile %s.", profile), map[string]any{
				"status":  "ok",
				"profile": profile,
			})
		},
	}
}
