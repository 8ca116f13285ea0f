package postmark

import (
	"errors"
	"strings"
)

const DefaultTestBody = "This is a test email generated from the Postmark CLI."

// TestEmail is a single outbound message sent through the server token.
type TestEmail struct {
	From       string `json:"From"`
	To         string `json:"To"`
	Subject    string `json:"Subject"`
	HTMLBody   string `json:"HtmlBody"`
	TrackOpens bool   `json:"TrackOpens"`
}

func SendEmail(cred Credential, message TestEmail) (Request, error) {
	to, err := ValidateEmail(message.To)
	if err != nil {
		return Request{}, errors.New("you need to specify a valid recipient email address")
	}
	if strings.TrimSpace(message.From) == "" {
		return Request{}, errors.New("a from address is required; pass --from or set sender_address on the profile")
	}
	from, err := ValidateEmail(message.From)
	if err != nil {
		return Request{}, err
	}
	message.To = to
	message.From = from
	if strings.TrimSpace(message.Subject) == "" {
		return Request{}, errors.New("subject is required")
	}
	if message.HTMLBody == "" {
		message.HTMLBody = DefaultTestBody
	}
	return withJSON(newRequest(MethodPost, cred, "email"), message)
}
