package postmark

import (
	"errors"
	"strings"
)

// ServerSettings holds the optional server fields. A nil pointer leaves the
// field out of the payload; a pointer to a zero value sends it explicitly.
type ServerSettings struct {
	Name                       *string `json:"Name,omitempty"`
	Color                      *string `json:"Color,omitempty"`
	SMTPAPIActivated           *bool   `json:"SmtpApiActivated,omitempty"`
	RawEmailEnabled            *bool   `json:"RawEmailEnabled,omitempty"`
	DeliveryHookURL            *string `json:"DeliveryHookUrl,omitempty"`
	InboundHookURL             *string `json:"InboundHookUrl,omitempty"`
	BounceHookURL              *string `json:"BounceHookUrl,omitempty"`
	IncludeBounceContentInHook *bool   `json:"IncludeBounceContentInHook,omitempty"`
	OpenHookURL                *string `json:"OpenHookUrl,omitempty"`
	PostFirstOpenOnly          *bool   `json:"PostFirstOpenOnly,omitempty"`
	TrackOpens                 *bool   `json:"TrackOpens,omitempty"`
	TrackLinks                 *string `json:"TrackLinks,omitempty"`
	ClickHookURL               *string `json:"ClickHookUrl,omitempty"`
	InboundDomain              *string `json:"InboundDomain,omitempty"`
	InboundSpamThreshold       *int    `json:"InboundSpamThreshold,omitempty"`
	EnableSMTPAPIErrorHooks    *bool   `json:"EnableSmtpApiErrorHooks,omitempty"`
}

func (s ServerSettings) normalize() (ServerSettings, error) {
	if s.Color != nil {
		color, err := ParseServerColor(*s.Color)
		if err != nil {
			return s, err
		}
		s.Color = &color
	}
	if s.TrackLinks != nil {
		option, err := ParseTrackLinks(*s.TrackLinks)
		if err != nil {
			return s, err
		}
		s.TrackLinks = &option
	}
	if s.InboundSpamThreshold != nil && *s.InboundSpamThreshold < 0 {
		return s, errors.New("inbound spam threshold cannot be negative")
	}
	return s, nil
}

func GetServer(cred Credential, serverID string) (Request, error) {
	id, err := ValidateID("server id", serverID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodGet, cred, "servers", id), nil
}

// ListServers filters by name substring when name is set.
func ListServers(cred Credential, page Page, name string) Request {
	req := newRequest(MethodGet, cred, "servers")
	NormalizePage(page.Count, page.Offset).apply(req.Query)
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		req.Query.Set("name", trimmed)
	}
	return req
}

func CreateServer(cred Credential, name string, settings ServerSettings) (Request, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Request{}, errors.New("server name is required")
	}
	settings.Name = &trimmed
	settings, err := settings.normalize()
	if err != nil {
		return Request{}, err
	}
	return withJSON(newRequest(MethodPost, cred, "servers"), settings)
}

func EditServer(cred Credential, serverID string, settings ServerSettings) (Request, error) {
	id, err := ValidateID("server id", serverID)
	if err != nil {
		return Request{}, err
	}
	settings, err = settings.normalize()
	if err != nil {
		return Request{}, err
	}
	return withJSON(newRequest(MethodPut, cred, "servers", id), settings)
}

func DeleteServer(cred Credential, serverID string) (Request, error) {
	id, err := ValidateID("server id", serverID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodDelete, cred, "servers", id), nil
}
