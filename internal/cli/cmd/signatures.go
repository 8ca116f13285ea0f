package cmd

import (
	"fmt"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewSignaturesCommand(runtime Runtime) *cobra.Command {
	signaturesCmd := newGroupCommand("signatures", "Manage sender signatures with the account token")
	signaturesCmd.AddCommand(newSignaturesListCommand(runtime))
	signaturesCmd.AddCommand(signatureIDCommand(runtime, "get", "Get a sender signature", "Getting sender signature", postmark.GetSender))
	signaturesCmd.AddCommand(newSignaturesCreateCommand(runtime))
	signaturesCmd.AddCommand(newSignaturesEditCommand(runtime))
	signaturesCmd.AddCommand(signatureIDCommand(runtime, "delete", "Delete a sender signature", "Deleting sender signature", postmark.DeleteSender))
	signaturesCmd.AddCommand(signatureIDCommand(runtime, "resend-confirmation", "Resend the confirmation email", "Resending confirmation", postmark.ResendConfirmation))
	return signaturesCmd
}

func newSignaturesListCommand(runtime Runtime) *cobra.Command {
	var page pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sender signatures",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, accountCall("pm signatures list", "Getting sender signatures", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ListSenders(cred, page.page()), nil
			}))
		},
	}

	page.bind(cmd)
	return cmd
}

func signatureIDCommand(runtime Runtime, use string, short string, title string, build func(postmark.Credential, string) (postmark.Request, error)) *cobra.Command {
	commandName := "pm signatures " + use
	return &cobra.Command{
		Use:   use + " <signature-id>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall(commandName, title, func(cred postmark.Credential) (postmark.Request, error) {
				return build(cred, args[0])
			}))
		},
	}
}

func newSignaturesCreateCommand(runtime Runtime) *cobra.Command {
	var (
		replyTo          string
		returnPathDomain string
	)

	cmd := &cobra.Command{
		Use:     "create <from-email> <name>",
		Short:   "Create a sender signature",
		Example: `  pm signatures create john.smith@example.com "John Smith" --reply-to-email replies@example.com`,
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("Creating sender signature %s", args[0])
			return runAPICall(cmd, runtime, accountCall("pm signatures create", title, func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.CreateSender(cred, postmark.SenderSignature{
					FromEmail:        args[0],
					Name:             args[1],
					ReplyToEmail:     replyTo,
					ReturnPathDomain: returnPathDomain,
				})
			}))
		},
	}

	cmd.Flags().StringVar(&replyTo, "reply-to-email", "", "Reply-To address")
	cmd.Flags().StringVar(&returnPathDomain, "return-path-domain", "", "Custom Return-Path domain")
	return cmd
}

func newSignaturesEditCommand(runtime Runtime) *cobra.Command {
	var (
		replyTo          string
		returnPathDomain string
	)

	cmd := &cobra.Command{
		Use:   "edit <signature-id> <name>",
		Short: "Edit a sender signature",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm signatures edit", "Editing sender signature", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.EditSender(cred, args[0], postmark.SenderSignatureEdit{
					Name:             args[1],
					ReplyToEmail:     changedString(cmd, "reply-to-email", replyTo),
					ReturnPathDomain: changedString(cmd, "return-path-domain", returnPathDomain),
				})
			}))
		},
	}

	cmd.Flags().StringVar(&replyTo, "reply-to-email", "", "Reply-To address")
	cmd.Flags().StringVar(&returnPathDomain, "return-path-domain", "", "Custom Return-Path domain")
	return cmd
}
