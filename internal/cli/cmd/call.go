package cmd

import (
	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/bilalbayram/postmarkcli/internal/output"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

// apiCall describes one command that dispatches a single Postmark request.
type apiCall struct {
	command    string
	title      string
	credential postmark.CredentialKind
	build      func(postmark.Credential) (postmark.Request, error)
	// buildWithProfile is used instead of build when the request needs
	// profile settings such as the default sender address.
	buildWithProfile func(postmark.Credential, *auth.Credentials) (postmark.Request, error)
	// successMessage replaces the response body in text mode.
	successMessage string
}

func serverCall(command string, title string, build func(postmark.Credential) (postmark.Request, error)) apiCall {
	return apiCall{command: command, title: title, credential: postmark.CredentialServer, build: build}
}

func accountCall(command string, title string, build func(postmark.Credential) (postmark.Request, error)) apiCall {
	return apiCall{command: command, title: title, credential: postmark.CredentialAccount, build: build}
}

// fixed adapts a constructor that cannot fail.
func fixed(build func(postmark.Credential) postmark.Request) func(postmark.Credential) (postmark.Request, error) {
	return func(cred postmark.Credential) (postmark.Request, error) {
		return build(cred), nil
	}
}

func runAPICall(cmd *cobra.Command, runtime Runtime, call apiCall) error {
	creds, err := loadCredentials(runtime)
	if err != nil {
		return writeCommandError(cmd, runtime, call.command, configError(err))
	}

	var credential postmark.Credential
	if call.credential == postmark.CredentialAccount {
		credential, err = creds.Account()
	} else {
		credential, err = creds.Server()
	}
	if err != nil {
		return writeCommandError(cmd, runtime, call.command, err)
	}

	var request postmark.Request
	if call.buildWithProfile != nil {
		request, err = call.buildWithProfile(credential, creds)
	} else {
		request, err = call.build(credential)
	}
	if err != nil {
		return writeCommandError(cmd, runtime, call.command, inputError(err))
	}

	format := selectedOutputFormat(runtime)
	log := commandLogger(runtime, cmd.ErrOrStderr())

	log.Debug().
		Str("profile", creds.ProfileName).
		Str("credential", call.credential.String()).
		Str("source", creds.Source(call.credential)).
		Msg("resolved postmark credential")

	client := newPostmarkClient(resolveBaseURL(runtime, creds))
	client.Log = log

	progress := output.NewProgress(cmd.ErrOrStderr(), call.title, !output.Structured(format))
	response, callErr := client.Do(cmd.Context(), request)

	formatter := output.NewFormatter(call.command, format, cmd.OutOrStdout(), cmd.ErrOrStderr())
	formatter.Log = log
	formatter.SuccessMessage = call.successMessage
	return formatter.Handle(response, callErr, progress)
}

type pageFlags struct {
	count  int
	offset int
}

func (p *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.count, "count", postmark.DefaultPageCount, "Number of records to return (1-500; out of range uses 500)")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "Number of records to skip")
}

func (p pageFlags) page() postmark.Page {
	return postmark.NormalizePage(p.count, p.offset)
}

func changedString(cmd *cobra.Command, name string, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func changedBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func changedInt(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func newGroupCommand(use string, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return requireSubcommand(cmd, "pm "+use)
		},
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return inputError(err)
		}
		return nil
	}
}
