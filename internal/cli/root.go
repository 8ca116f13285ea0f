package cli

import (
	"errors"

	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/bilalbayram/postmarkcli/internal/cli/cmd"
	"github.com/bilalbayram/postmarkcli/internal/output"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

const (
	appName = "pm"
	Version = "1.0.0"
)

type GlobalFlags struct {
	Profile      string
	Output       string
	Debug        bool
	BaseURL      string
	ServerToken  string
	AccountToken string
}

func Execute() error {
	root := NewRootCommand()
	return classify(root.Execute())
}

func NewRootCommand() *cobra.Command {
	flags := &GlobalFlags{}

	root := &cobra.Command{
		Use:               appName,
		Short:             "Postmark CLI",
		Long:              "Postmark CLI sends email and manages bounces, templates, servers, domains and sender signatures through the Postmark REST API.",
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: validateGlobalFlags(flags),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExit(ExitCodeInput, err)
	})

	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Profile name (defaults to default_profile)")
	root.PersistentFlags().StringVar(&flags.Output, "output", output.FormatText, "Output format: text|json|jsonl|table|csv")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flags.BaseURL, "base-url", "", "Postmark API base URL")
	root.PersistentFlags().StringVar(&flags.ServerToken, "server-token", "", "Server API token (overrides "+auth.EnvServerToken+" and the profile)")
	root.PersistentFlags().StringVar(&flags.AccountToken, "account-token", "", "Account API token (overrides "+auth.EnvAccountToken+" and the profile)")
	root.Flags().BoolP("version", "v", false, "Print the version")

	runtime := cmd.Runtime{
		Profile:      &flags.Profile,
		Output:       &flags.Output,
		Debug:        &flags.Debug,
		BaseURL:      &flags.BaseURL,
		ServerToken:  &flags.ServerToken,
		AccountToken: &flags.AccountToken,
	}

	root.AddCommand(cmd.NewEmailCommand(runtime))
	root.AddCommand(cmd.NewBouncesCommand(runtime))
	root.AddCommand(cmd.NewTemplatesCommand(runtime))
	root.AddCommand(cmd.NewServersCommand(runtime))
	root.AddCommand(cmd.NewDomainsCommand(runtime))
	root.AddCommand(cmd.NewSignaturesCommand(runtime))
	root.AddCommand(cmd.NewStatsCommand(runtime))
	root.AddCommand(cmd.NewAPICommand(runtime))
	root.AddCommand(cmd.NewAuthCommand(runtime))

	return root
}

func validateGlobalFlags(flags *GlobalFlags) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		normalized, err := output.ValidateFormat(flags.Output)
		if err != nil {
			return WrapExit(ExitCodeInput, err)
		}
		flags.Output = normalized
		return nil
	}
}

// classify maps a command failure to its exit code.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	var (
		inputErr     *cmd.InputError
		missingErr   *auth.MissingCredentialError
		configErr    *cmd.ConfigError
		apiErr       *postmark.APIError
		transportErr *postmark.TransportError
	)
	switch {
	case errors.As(err, &inputErr):
		return WrapExit(ExitCodeInput, err)
	case errors.As(err, &missingErr):
		return WrapExit(ExitCodeAuth, err)
	case errors.As(err, &configErr):
		return WrapExit(ExitCodeConfig, err)
	case errors.As(err, &apiErr):
		return WrapExit(ExitCodeAPI, err)
	case errors.As(err, &transportErr):
		return WrapExit(ExitCodeTransport, err)
	default:
		return WrapExit(ExitCodeUnknown, err)
	}
}
