package cmd

import (
	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewBouncesCommand(runtime Runtime) *cobra.Command {
	bouncesCmd := newGroupCommand("bounces", "Inspect and reactivate bounced messages")
	bouncesCmd.AddCommand(newBouncesDeliveryStatsCommand(runtime))
	bouncesCmd.AddCommand(newBouncesListCommand(runtime))
	bouncesCmd.AddCommand(newBouncesGetCommand(runtime))
	bouncesCmd.AddCommand(newBouncesDumpCommand(runtime))
	bouncesCmd.AddCommand(newBouncesActivateCommand(runtime))
	bouncesCmd.AddCommand(newBouncesTagsCommand(runtime))
	return bouncesCmd
}

func newBouncesDeliveryStatsCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delivery-stats",
		Short: "Show bounce counts by type and the number of inactive addresses",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, serverCall("pm bounces delivery-stats", "Getting delivery stats", fixed(postmark.DeliveryStats)))
		},
	}
}

func newBouncesListCommand(runtime Runtime) *cobra.Command {
	var (
		page        pageFlags
		bounceType  string
		inactive    bool
		emailFilter string
		tag         string
		messageID   string
		fromDate    string
		toDate      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bounces",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := postmark.BounceFilter{
				Page:        page.page(),
				Type:        bounceType,
				Inactive:    changedBool(cmd, "inactive", inactive),
				EmailFilter: emailFilter,
				Tag:         tag,
				MessageID:   messageID,
				FromDate:    fromDate,
				ToDate:      toDate,
			}
			return runAPICall(cmd, runtime, serverCall("pm bounces list", "Getting bounces", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ListBounces(cred, filter)
			}))
		},
	}

	page.bind(cmd)
	cmd.Flags().StringVar(&bounceType, "type", "", "Bounce type, for example HardBounce or SpamNotification")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Only bounces that deactivated the recipient (false for active only)")
	cmd.Flags().StringVar(&emailFilter, "email-filter", "", "Only bounces for this recipient address")
	cmd.Flags().StringVar(&tag, "tag", "", "Only bounces with this message tag")
	cmd.Flags().StringVar(&messageID, "message-id", "", "Only bounces for this message ID")
	cmd.Flags().StringVar(&fromDate, "fromdate", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toDate, "todate", "", "End date (YYYY-MM-DD)")
	return cmd
}

func newBouncesGetCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <bounce-id>",
		Short: "Get a single bounce",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm bounces get", "Getting bounce", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.GetBounce(cred, args[0])
			}))
		},
	}
}

func newBouncesDumpCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <bounce-id>",
		Short: "Get the raw SMTP source of a bounce",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm bounces dump", "Getting bounce dump", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.GetBounceDump(cred, args[0])
			}))
		},
	}
}

func newBouncesActivateCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <bounce-id>",
		Short: "Reactivate a deactivated recipient",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm bounces activate", "Activating bounce", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ActivateBounce(cred, args[0])
			}))
		},
	}
}

func newBouncesTagsCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags that have bounced messages",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, serverCall("pm bounces tags", "Getting bounced tags", fixed(postmark.BouncedTags)))
		},
	}
}
