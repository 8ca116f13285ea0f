package cmd

import (
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

var statsDescriptions = map[postmark.StatsReport]string{
	postmark.StatsOverview:        "Outbound overview: sends, bounces, spam complaints, opens and clicks",
	postmark.StatsSends:           "Sent counts per day",
	postmark.StatsBounces:         "Bounce counts per day by type",
	postmark.StatsSpam:            "Spam complaints per day",
	postmark.StatsTracked:         "Tracked email counts per day",
	postmark.StatsOpens:           "Open counts per day",
	postmark.StatsOpenPlatforms:   "Opens by platform",
	postmark.StatsEmailClients:    "Opens by email client",
	postmark.StatsClicks:          "Click counts per day",
	postmark.StatsBrowserFamilies: "Clicks by browser family",
	postmark.StatsClickPlatforms:  "Clicks by browser platform",
	postmark.StatsClickLocation:   "Clicks by location in the message body",
}

func NewStatsCommand(runtime Runtime) *cobra.Command {
	statsCmd := newGroupCommand("stats", "Outbound message statistics")
	for _, report := range postmark.StatsReports() {
		statsCmd.AddCommand(newStatsReportCommand(runtime, report))
	}
	return statsCmd
}

func newStatsReportCommand(runtime Runtime, report postmark.StatsReport) *cobra.Command {
	var filter postmark.StatsFilter

	commandName := "pm stats " + string(report)
	cmd := &cobra.Command{
		Use:   string(report),
		Short: statsDescriptions[report],
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			title := "Getting " + strings.ReplaceAll(string(report), "-", " ") + " stats"
			return runAPICall(cmd, runtime, serverCall(commandName, title, func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.OutboundStats(cred, report, filter)
			}))
		},
	}

	cmd.Flags().StringVar(&filter.Tag, "tag", "", "Only messages with this tag")
	cmd.Flags().StringVar(&filter.FromDate, "fromdate", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.ToDate, "todate", "", "End date (YYYY-MM-DD)")
	return cmd
}
