package cmd

import (
	"fmt"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewDomainsCommand(runtime Runtime) *cobra.Command {
	domainsCmd := newGroupCommand("domains", "Manage sending domains with the account token")
	domainsCmd.AddCommand(newDomainsListCommand(runtime))
	domainsCmd.AddCommand(newDomainsGetCommand(runtime))
	domainsCmd.AddCommand(newDomainsCreateCommand(runtime))
	domainsCmd.AddCommand(newDomainsEditCommand(runtime))
	domainsCmd.AddCommand(domainIDCommand(runtime, "delete", "Delete a domain", "Deleting domain", postmark.DeleteDomain))
	domainsCmd.AddCommand(domainIDCommand(runtime, "verify-dkim", "Check the DKIM DNS record", "Verifying DKIM", postmark.VerifyDKIM))
	domainsCmd.AddCommand(domainIDCommand(runtime, "verify-return-path", "Check the Return-Path CNAME record", "Verifying Return-Path", postmark.VerifyReturnPath))
	domainsCmd.AddCommand(domainIDCommand(runtime, "rotate-dkim", "Create a new DKIM key to replace the current one", "Rotating DKIM key", postmark.RotateDKIM))
	return domainsCmd
}

func newDomainsListCommand(runtime Runtime) *cobra.Command {
	var page pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, accountCall("pm domains list", "Getting domains", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ListDomains(cred, page.page()), nil
			}))
		},
	}

	page.bind(cmd)
	return cmd
}

func newDomainsGetCommand(runtime Runtime) *cobra.Command {
	return domainIDCommand(runtime, "get", "Get a domain", "Getting domain", postmark.GetDomain)
}

// domainIDCommand builds the commands that take only a domain ID.
func domainIDCommand(runtime Runtime, use string, short string, title string, build func(postmark.Credential, string) (postmark.Request, error)) *cobra.Command {
	commandName := "pm domains " + use
	return &cobra.Command{
		Use:   use + " <domain-id>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall(commandName, title, func(cred postmark.Credential) (postmark.Request, error) {
				return build(cred, args[0])
			}))
		},
	}
}

func newDomainsCreateCommand(runtime Runtime) *cobra.Command {
	var returnPathDomain string

	cmd := &cobra.Command{
		Use:     "create <name>",
		Short:   "Create a domain",
		Example: `  pm domains create example.com --return-path-domain pm-bounces.example.com`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("Creating domain %s", args[0])
			return runAPICall(cmd, runtime, accountCall("pm domains create", title, func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.CreateDomain(cred, args[0], returnPathDomain)
			}))
		},
	}

	cmd.Flags().StringVar(&returnPathDomain, "return-path-domain", "", "Custom Return-Path subdomain with a CNAME to pm.mtasv.net")
	return cmd
}

func newDomainsEditCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <domain-id> <return-path-domain>",
		Short: "Change a domain's Return-Path domain",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm domains edit", "Editing domain", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.EditDomain(cred, args[0], args[1])
			}))
		},
	}
}
