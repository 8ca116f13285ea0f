package cmd

import (
	"fmt"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewServersCommand(runtime Runtime) *cobra.Command {
	serversCmd := newGroupCommand("servers", "Manage servers with the account token")
	serversCmd.AddCommand(newServersGetCommand(runtime))
	serversCmd.AddCommand(newServersListCommand(runtime))
	serversCmd.AddCommand(newServersCreateCommand(runtime))
	serversCmd.AddCommand(newServersEditCommand(runtime))
	serversCmd.AddCommand(newServersDeleteCommand(runtime))
	return serversCmd
}

func newServersGetCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <server-id>",
		Short: "Get a server",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm servers get", "Getting server", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.GetServer(cred, args[0])
			}))
		},
	}
}

func newServersListCommand(runtime Runtime) *cobra.Command {
	var (
		page pageFlags
		name string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List servers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, accountCall("pm servers list", "Getting servers", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ListServers(cred, page.page(), name), nil
			}))
		},
	}

	page.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Only servers whose name contains this text")
	return cmd
}

// serverFlags binds every optional server setting. Only flags set on the
// command line end up in the payload.
type serverFlags struct {
	color                      string
	smtpAPIActivated           bool
	rawEmailEnabled            bool
	deliveryHookURL            string
	inboundHookURL             string
	bounceHookURL              string
	includeBounceContentInHook bool
	openHookURL                string
	postFirstOpenOnly          bool
	trackOpens                 bool
	trackLinks                 string
	clickHookURL               string
	inboundDomain              string
	inboundSpamThreshold       int
	enableSMTPAPIErrorHooks    bool
}

func (f *serverFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.color, "color", "", "Color: purple|blue|turquoise|green|red|yellow|grey|orange")
	cmd.Flags().BoolVar(&f.smtpAPIActivated, "smtp-api-activated", false, "Enable SMTP")
	cmd.Flags().BoolVar(&f.rawEmailEnabled, "raw-email-enabled", false, "Include raw content in inbound webhooks")
	cmd.Flags().StringVar(&f.deliveryHookURL, "delivery-hook-url", "", "Delivery webhook URL")
	cmd.Flags().StringVar(&f.inboundHookURL, "inbound-hook-url", "", "Inbound webhook URL")
	cmd.Flags().StringVar(&f.bounceHookURL, "bounce-hook-url", "", "Bounce webhook URL")
	cmd.Flags().BoolVar(&f.includeBounceContentInHook, "include-bounce-content-in-hook", false, "Include bounce content in the bounce webhook")
	cmd.Flags().StringVar(&f.openHookURL, "open-hook-url", "", "Open tracking webhook URL")
	cmd.Flags().BoolVar(&f.postFirstOpenOnly, "post-first-open-only", false, "Only post the first open of each message")
	cmd.Flags().BoolVar(&f.trackOpens, "track-opens", false, "Enable open tracking by default")
	cmd.Flags().StringVar(&f.trackLinks, "track-links", "", "Link tracking: None|HtmlAndText|HtmlOnly|TextOnly")
	cmd.Flags().StringVar(&f.clickHookURL, "click-hook-url", "", "Click webhook URL")
	cmd.Flags().StringVar(&f.inboundDomain, "inbound-domain", "", "Inbound domain for MX setup")
	cmd.Flags().IntVar(&f.inboundSpamThreshold, "inbound-spam-threshold", 0, "Maximum spam score for inbound messages")
	cmd.Flags().BoolVar(&f.enableSMTPAPIErrorHooks, "enable-smtp-api-error-hooks", false, "Send SMTP API errors to the bounce webhook")
}

func (f serverFlags) settings(cmd *cobra.Command) postmark.ServerSettings {
	return postmark.ServerSettings{
		Color:                      changedString(cmd, "color", f.color),
		SMTPAPIActivated:           changedBool(cmd, "smtp-api-activated", f.smtpAPIActivated),
		RawEmailEnabled:            changedBool(cmd, "raw-email-enabled", f.rawEmailEnabled),
		DeliveryHookURL:            changedString(cmd, "delivery-hook-url", f.deliveryHookURL),
		InboundHookURL:             changedString(cmd, "inbound-hook-url", f.inboundHookURL),
		BounceHookURL:              changedString(cmd, "bounce-hook-url", f.bounceHookURL),
		IncludeBounceContentInHook: changedBool(cmd, "include-bounce-content-in-hook", f.includeBounceContentInHook),
		OpenHookURL:                changedString(cmd, "open-hook-url", f.openHookURL),
		PostFirstOpenOnly:          changedBool(cmd, "post-first-open-only", f.postFirstOpenOnly),
		TrackOpens:                 changedBool(cmd, "track-opens", f.trackOpens),
		TrackLinks:                 changedString(cmd, "track-links", f.trackLinks),
		ClickHookURL:               changedString(cmd, "click-hook-url", f.clickHookURL),
		InboundDomain:              changedString(cmd, "inbound-domain", f.inboundDomain),
		InboundSpamThreshold:       changedInt(cmd, "inbound-spam-threshold", f.inboundSpamThreshold),
		EnableSMTPAPIErrorHooks:    changedBool(cmd, "enable-smtp-api-error-hooks", f.enableSMTPAPIErrorHooks),
	}
}

func newServersCreateCommand(runtime Runtime) *cobra.Command {
	var flags serverFlags

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a server",
		Example: `  pm servers create "Production" --color red --track-opens --track-links HtmlAndText`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("Creating server %s", args[0])
			return runAPICall(cmd, runtime, accountCall("pm servers create", title, func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.CreateServer(cred, args[0], flags.settings(cmd))
			}))
		},
	}

	flags.bind(cmd)
	return cmd
}

func newServersEditCommand(runtime Runtime) *cobra.Command {
	var (
		flags serverFlags
		name  string
	)

	cmd := &cobra.Command{
		Use:   "edit <server-id>",
		Short: "Edit a server",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm servers edit", "Editing server", func(cred postmark.Credential) (postmark.Request, error) {
				settings := flags.settings(cmd)
				settings.Name = changedString(cmd, "name", name)
				return postmark.EditServer(cred, args[0], settings)
			}))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New server name")
	flags.bind(cmd)
	return cmd
}

func newServersDeleteCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <server-id>",
		Short: "Delete a server",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm servers delete", "Deleting server", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.DeleteServer(cred, args[0])
			}))
		},
	}
}
