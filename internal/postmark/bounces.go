package postmark

import "strconv"

// BounceFilter narrows a bounce listing. Empty fields are not sent.
type BounceFilter struct {
	Page        Page
	Type        string
	Inactive    *bool
	EmailFilter string
	Tag         string
	MessageID   string
	FromDate    string
	ToDate      string
}

func DeliveryStats(cred Credential) Request {
	return newRequest(MethodGet, cred, "deliverystats")
}

func ListBounces(cred Credential, filter BounceFilter) (Request, error) {
	req := newRequest(MethodGet, cred, "bounces")
	NormalizePage(filter.Page.Count, filter.Page.Offset).apply(req.Query)

	if filter.Type != "" {
		req.Query.Set("type", filter.Type)
	}
	if filter.Inactive != nil {
		req.Query.Set("inactive", strconv.FormatBool(*filter.Inactive))
	}
	if filter.EmailFilter != "" {
		email, err := ValidateEmail(filter.EmailFilter)
		if err != nil {
			return Request{}, err
		}
		req.Query.Set("emailFilter", email)
	}
	if filter.Tag != "" {
		req.Query.Set("tag", filter.Tag)
	}
	if filter.MessageID != "" {
		req.Query.Set("messageID", filter.MessageID)
	}
	if err := setDateRange(req.Query, filter.FromDate, filter.ToDate); err != nil {
		return Request{}, err
	}
	return req, nil
}

func GetBounce(cred Credential, bounceID string) (Request, error) {
	id, err := ValidateID("bounce id", bounceID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodGet, cred, "bounces", id), nil
}

// GetBounceDump fetches the raw SMTP source; the provider returns an empty
// body when no dump is available.
func GetBounceDump(cred Credential, bounceID string) (Request, error) {
	id, err := ValidateID("bounce id", bounceID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodGet, cred, "bounces", id, "dump"), nil
}

func ActivateBounce(cred Credential, bounceID string) (Request, error) {
	id, err := ValidateID("bounce id", bounceID)
	if err != nil {
		return Request{}, err
	}
	req := newRequest(MethodPut, cred, "bounces", id, "activate")
	req.Body = Placeholder()
	return req, nil
}

func BouncedTags(cred Credential) Request {
	return newRequest(MethodGet, cred, "bounces", "tags")
}
