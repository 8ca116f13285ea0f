package postmark

import (
	"fmt"
	"net/url"
	"strings"
)

// StatsReport names one of the outbound statistics endpoints.
type StatsReport string

const (
	StatsOverview        StatsReport = "overview"
	StatsSends           StatsReport = "sends"
	StatsBounces         StatsReport = "bounces"
	StatsSpam            StatsReport = "spam"
	StatsTracked         StatsReport = "tracked"
	StatsOpens           StatsReport = "opens"
	StatsOpenPlatforms   StatsReport = "open-platforms"
	StatsEmailClients    StatsReport = "email-clients"
	StatsClicks          StatsReport = "clicks"
	StatsBrowserFamilies StatsReport = "browser-families"
	StatsClickPlatforms  StatsReport = "click-platforms"
	StatsClickLocation   StatsReport = "click-location"
)

var statsPaths = map[StatsReport][]string{
	StatsOverview:        {"stats", "outbound"},
	StatsSends:           {"stats", "outbound", "sends"},
	StatsBounces:         {"stats", "outbound", "bounces"},
	StatsSpam:            {"stats", "outbound", "spam"},
	StatsTracked:         {"stats", "outbound", "tracked"},
	StatsOpens:           {"stats", "outbound", "opens"},
	StatsOpenPlatforms:   {"stats", "outbound", "opens", "platforms"},
	StatsEmailClients:    {"stats", "outbound", "opens", "emailclients"},
	StatsClicks:          {"stats", "outbound", "clicks"},
	StatsBrowserFamilies: {"stats", "outbound", "clicks", "browserfamilies"},
	StatsClickPlatforms:  {"stats", "outbound", "clicks", "platforms"},
	StatsClickLocation:   {"stats", "outbound", "clicks", "location"},
}

// StatsReports lists every report in display order.
func StatsReports() []StatsReport {
	return []StatsReport{
		StatsOverview,
		StatsSends,
		StatsBounces,
		StatsSpam,
		StatsTracked,
		StatsOpens,
		StatsOpenPlatforms,
		StatsEmailClients,
		StatsClicks,
		StatsBrowserFamilies,
		StatsClickPlatforms,
		StatsClickLocation,
	}
}

type StatsFilter struct {
	Tag      string
	FromDate string
	ToDate   string
}

func OutboundStats(cred Credential, report StatsReport, filter StatsFilter) (Request, error) {
	segments, ok := statsPaths[report]
	if !ok {
		return Request{}, fmt.Errorf("unknown stats report %q", report)
	}
	req := newRequest(MethodGet, cred, segments...)
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		req.Query.Set("tag", tag)
	}
	if err := setDateRange(req.Query, filter.FromDate, filter.ToDate); err != nil {
		return Request{}, err
	}
	return req, nil
}

func setDateRange(query url.Values, from string, to string) error {
	if strings.TrimSpace(from) != "" {
		date, err := ValidateDate("fromdate", from)
		if err != nil {
			return err
		}
		query.Set("fromdate", date)
	}
	if strings.TrimSpace(to) != "" {
		date, err := ValidateDate("todate", to)
		if err != nil {
			return err
		}
		query.Set("todate", date)
	}
	return nil
}
