package postmark

import (
	"errors"
	"strings"
)

// SenderSignature is the body of a signature create call.
type SenderSignature struct {
	FromEmail        string `json:"FromEmail"`
	Name             string `json:"Name"`
	ReplyToEmail     string `json:"ReplyToEmail,omitempty"`
	ReturnPathDomain string `json:"ReturnPathDomain,omitempty"`
}

// SenderSignatureEdit is the body of a signature edit call.
type SenderSignatureEdit struct {
	Name             string  `json:"Name"`
	ReplyToEmail     *string `json:"ReplyToEmail,omitempty"`
	ReturnPathDomain *string `json:"ReturnPathDomain,omitempty"`
}

func ListSenders(cred Credential, page Page) Request {
	req := newRequest(MethodGet, cred, "senders")
	NormalizePage(page.Count, page.Offset).apply(req.Query)
	return req
}

func GetSender(cred Credential, signatureID string) (Request, error) {
	id, err := ValidateID("signature id", signatureID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodGet, cred, "senders", id), nil
}

func CreateSender(cred Credential, signature SenderSignature) (Request, error) {
	from, err := ValidateEmail(signature.FromEmail)
	if err != nil {
		return Request{}, err
	}
	signature.FromEmail = from
	signature.Name = strings.TrimSpace(signature.Name)
	if signature.Name == "" {
		return Request{}, errors.New("signature name is required")
	}
	if signature.ReplyToEmail != "" {
		replyTo, err := ValidateEmail(signature.ReplyToEmail)
		if err != nil {
			return Request{}, err
		}
		signature.ReplyToEmail = replyTo
	}
	signature.ReturnPathDomain = strings.TrimSpace(signature.ReturnPathDomain)
	return withJSON(newRequest(MethodPost, cred, "senders"), signature)
}

func EditSender(cred Credential, signatureID string, edit SenderSignatureEdit) (Request, error) {
	id, err := ValidateID("signature id", signatureID)
	if err != nil {
		return Request{}, err
	}
	edit.Name = strings.TrimSpace(edit.Name)
	if edit.Name == "" {
		return Request{}, errors.New("signature name is required")
	}
	if edit.ReplyToEmail != nil {
		replyTo, err := ValidateEmail(*edit.ReplyToEmail)
		if err != nil {
			return Request{}, err
		}
		edit.ReplyToEmail = &replyTo
	}
	return withJSON(newRequest(MethodPut, cred, "senders", id), edit)
}

func DeleteSender(cred Credential, signatureID string) (Request, error) {
	id, err := ValidateID("signature id", signatureID)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodDelete, cred, "senders", id), nil
}

func ResendConfirmation(cred Credential, signatureID string) (Request, error) {
	id, err := ValidateID("signature id", signatureID)
	if err != nil {
		return Request{}, err
	}
	req := newRequest(MethodPost, cred, "senders", id, "resend")
	req.Body = EmptyBody()
	return req, nil
}
