package cmd

import (
	"fmt"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewEmailCommand(runtime Runtime) *cobra.Command {
	emailCmd := newGroupCommand("email", "Send email through the server token")
	emailCmd.AddCommand(newEmailSendTestCommand(runtime))
	return emailCmd
}

func newEmailSendTestCommand(runtime Runtime) *cobra.Command {
	var (
		from         string
		subject      string
		body         string
		openTracking bool
	)

	cmd := &cobra.Command{
		Use:   "send-test <recipient>",
		Short: "Send a test email",
		Example: `  pm email send-test recipient@example.com
  pm email send-test recipient@example.com --from sender@example.com --subject "my custom subject" --body "<b>test html</b>" --open-tracking`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := strings.TrimSpace(args[0])
			call := serverCall("pm email send-test", "Sending test email", nil)
			call.successMessage = fmt.Sprintf("Successfully sent a test email to %s.", to)
			call.buildWithProfile = func(cred postmark.Credential, creds *auth.Credentials) (postmark.Request, error) {
				message := postmark.TestEmail{
					From:       from,
					To:         to,
					Subject:    subject,
					HTMLBody:   body,
					TrackOpens: openTracking,
				}
				if strings.TrimSpace(message.From) == "" {
					message.From = creds.Profile.SenderAddress
				}
				if !cmd.Flags().Changed("subject") {
					message.Subject = defaultTestSubject(creds.ProfileName)
				}
				return postmark.SendEmail(cred, message)
			}
			return runAPICall(cmd, runtime, call)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Sender address (defaults to the profile's sender_address)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&body, "body", "", "HTML body")
	cmd.Flags().BoolVar(&openTracking, "open-tracking", false, "Enable open tracking")
	return cmd
}

func defaultTestSubject(profile string) string {
	if profile == "" {
		return "Postmark CLI Test"
	}
	return "Postmark CLI Test: " + profile
}
