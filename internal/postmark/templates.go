package postmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TemplateContent is the body of template create and edit calls. Nil body
// pointers are omitted.
type TemplateContent struct {
	Name     string  `json:"Name"`
	Subject  string  `json:"Subject"`
	HTMLBody *string `json:"HtmlBody,omitempty"`
	TextBody *string `json:"TextBody,omitempty"`
	Alias    string  `json:"Alias,omitempty"`
}

func (c TemplateContent) validate() (TemplateContent, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return c, errors.New("template name is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return c, errors.New("template subject is required")
	}
	if c.Alias != "" {
		alias, err := ValidateTemplateAlias(c.Alias)
		if err != nil {
			return c, err
		}
		c.Alias = alias
	}
	return c, nil
}

// TemplateValidation is the body of a template validate call.
type TemplateValidation struct {
	Subject                    string          `json:"Subject"`
	HTMLBody                   *string         `json:"HtmlBody,omitempty"`
	TextBody                   *string         `json:"TextBody,omitempty"`
	TestRenderModel            json.RawMessage `json:"TestRenderModel,omitempty"`
	InlineCSSForHTMLTestRender *bool           `json:"InlineCssForHtmlTestRender,omitempty"`
}

type templatePush struct {
	SourceServerID      int  `json:"SourceServerID"`
	DestinationServerID int  `json:"DestinationServerID"`
	PerformChanges      bool `json:"PerformChanges"`
}

var errTemplateBodyRequired = errors.New("must specify either an HTML or Text body for the template")

// SendWithTemplate posts a single templated message document.
func SendWithTemplate(cred Credential, message []byte) Request {
	req := newRequest(MethodPost, cred, "email", "withTemplate")
	req.Body = RawJSON(message)
	return req
}

// SendBatchWithTemplates posts a {"Messages": [...]} document.
func SendBatchWithTemplates(cred Credential, batch []byte) Request {
	req := newRequest(MethodPost, cred, "email", "batchWithTemplates")
	req.Body = RawJSON(batch)
	return req
}

// PushTemplates copies changed templates between servers. Without
// performChanges the provider only reports what would change.
func PushTemplates(cred Credential, sourceServerID string, destinationServerID string, performChanges bool) (Request, error) {
	source, err := parseServerID("source server id", sourceServerID)
	if err != nil {
		return Request{}, err
	}
	destination, err := parseServerID("destination server id", destinationServerID)
	if err != nil {
		return Request{}, err
	}
	return withJSON(newRequest(MethodPut, cred, "templates", "push"), templatePush{
		SourceServerID:      source,
		DestinationServerID: destination,
		PerformChanges:      performChanges,
	})
}

func GetTemplate(cred Credential, idOrAlias string) (Request, error) {
	id, err := ValidateID("template id or alias", idOrAlias)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodGet, cred, "templates", id), nil
}

func ListTemplates(cred Credential, page Page) Request {
	req := newRequest(MethodGet, cred, "templates")
	NormalizePage(page.Count, page.Offset).apply(req.Query)
	return req
}

func CreateTemplate(cred Credential, content TemplateContent) (Request, error) {
	content, err := content.validate()
	if err != nil {
		return Request{}, err
	}
	if content.HTMLBody == nil && content.TextBody == nil {
		return Request{}, errTemplateBodyRequired
	}
	return withJSON(newRequest(MethodPost, cred, "templates"), content)
}

func EditTemplate(cred Credential, idOrAlias string, content TemplateContent) (Request, error) {
	id, err := ValidateID("template id or alias", idOrAlias)
	if err != nil {
		return Request{}, err
	}
	content, err = content.validate()
	if err != nil {
		return Request{}, err
	}
	return withJSON(newRequest(MethodPut, cred, "templates", id), content)
}

func DeleteTemplate(cred Credential, idOrAlias string) (Request, error) {
	id, err := ValidateID("template id or alias", idOrAlias)
	if err != nil {
		return Request{}, err
	}
	return newRequest(MethodDelete, cred, "templates", id), nil
}

func ValidateTemplate(cred Credential, validation TemplateValidation) (Request, error) {
	if strings.TrimSpace(validation.Subject) == "" {
		return Request{}, errors.New("template subject is required")
	}
	if validation.HTMLBody == nil && validation.TextBody == nil {
		return Request{}, errTemplateBodyRequired
	}
	return withJSON(newRequest(MethodPost, cred, "templates", "validate"), validation)
}

func parseServerID(name string, raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q must be a positive integer", name, raw)
	}
	return id, nil
}
