package postmark

import (
	"errors"
	"strings"
)

type domainCreate struct {
	Name             string `json:"Name"`
	ReturnPathDomain string `json:"ReturnPathDomain,omitempty"`
}

type domainEdit struct {
	ReturnPathDomain string `json:"ReturnPathDomain"`
}

func ListDomains(cred Credential, page Page) Request {
	req := newRequest(MethodGet, cred, "domains")
	NormalizePage(page.Count, page.Offset).apply(req.Query)
	return req
}

func GetDomain(cred Credential, domainID string) (Request, error) {
	return domainRequest(MethodGet, cred, domainID)
}

// CreateDomain registers name. returnPathDomain must be a subdomain of name
// with a CNAME to pm.mtasv.net; the provider checks that.
func CreateDomain(cred Credential, name string, returnPathDomain string) (Request, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Request{}, errors.New("domain name is required")
	}
	return withJSON(newRequest(MethodPost, cred, "domains"), domainCreate{
		Name:             trimmed,
		ReturnPathDomain: strings.TrimSpace(returnPathDomain),
	})
}

func EditDomain(cred Credential, domainID string, returnPathDomain string) (Request, error) {
	req, err := domainRequest(MethodPut, cred, domainID)
	if err != nil {
		return Request{}, err
	}
	trimmed := strings.TrimSpace(returnPathDomain)
	if trimmed == "" {
		return Request{}, errors.New("return-path domain is required")
	}
	return withJSON(req, domainEdit{ReturnPathDomain: trimmed})
}

func DeleteDomain(cred Credential, domainID string) (Request, error) {
	return domainRequest(MethodDelete, cred, domainID)
}

func VerifyDKIM(cred Credential, domainID string) (Request, error) {
	return domainRequest(MethodPut, cred, domainID, "verifyDkim")
}

func VerifyReturnPath(cred Credential, domainID string) (Request, error) {
	return domainRequest(MethodPut, cred, domainID, "verifyReturnPath")
}

// RotateDKIM creates a replacement key. It stays in the DKIMPending* fields
// until the new DNS record verifies.
func RotateDKIM(cred Credential, domainID string) (Request, error) {
	return domainRequest(MethodPost, cred, domainID, "rotatedkim")
}

func domainRequest(method Method, cred Credential, domainID string, action ...string) (Request, error) {
	id, err := ValidateID("domain id", domainID)
	if err != nil {
		return Request{}, err
	}
	req := newRequest(method, cred, append([]string{"domains", id}, action...)...)
	if len(action) > 0 {
		req.Body = Placeholder()
	}
	return req, nil
}
