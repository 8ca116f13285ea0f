package postmark

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Method is the HTTP verb of a Postmark request.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
)

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

func (m Method) sendsBody() bool {
	return m == MethodPost || m == MethodPut
}

// CredentialKind selects which Postmark token header authenticates a request.
type CredentialKind int

const (
	CredentialServer CredentialKind = iota
	CredentialAccount
)

const (
	HeaderServerToken  = "X-Postmark-Server-Token"
	HeaderAccountToken = "X-Postmark-Account-Token"
)

func (k CredentialKind) String() string {
	if k == CredentialAccount {
		return "account"
	}
	return "server"
}

func (k CredentialKind) header() string {
	if k == CredentialAccount {
		return HeaderAccountToken
	}
	return HeaderServerToken
}

type Credential struct {
	Kind  CredentialKind
	Token string
}

func ServerCredential(token string) Credential {
	return Credential{Kind: CredentialServer, Token: token}
}

func AccountCredential(token string) Credential {
	return Credential{Kind: CredentialAccount, Token: token}
}

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyJSON
	bodyPlaceholder
	bodyEmpty
)

// Body is the payload attached to POST and PUT requests.
type Body struct {
	kind bodyKind
	raw  []byte
}

// NoBody is the zero Body.
func NoBody() Body {
	return Body{}
}

// JSONBody encodes v as the request body.
func JSONBody(v any) (Body, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("encode request body: %w", err)
	}
	return Body{kind: bodyJSON, raw: encoded}, nil
}

// RawJSON attaches an already-encoded JSON document.
func RawJSON(raw []byte) Body {
	return Body{kind: bodyJSON, raw: append([]byte(nil), raw...)}
}

// Placeholder is a single space, for endpoints that reject an empty body.
func Placeholder() Body {
	return Body{kind: bodyPlaceholder, raw: []byte(" ")}
}

// EmptyBody sends a zero-length body.
func EmptyBody() Body {
	return Body{kind: bodyEmpty, raw: []byte{}}
}

func (b Body) Bytes() []byte {
	return b.raw
}

func (b Body) IsSet() bool {
	return b.kind != bodyNone
}

// Request describes one Postmark API call.
type Request struct {
	Method     Method
	Path       string
	Query      url.Values
	Body       Body
	Credential Credential
}

func newRequest(method Method, cred Credential, segments ...string) Request {
	return Request{
		Method:     method,
		Path:       "/" + strings.Join(segments, "/"),
		Query:      url.Values{},
		Credential: cred,
	}
}

func withJSON(req Request, v any) (Request, error) {
	body, err := JSONBody(v)
	if err != nil {
		return Request{}, err
	}
	req.Body = body
	return req, nil
}

// NewRequest builds a request for an endpoint without a dedicated
// constructor. path must be relative to the API root.
func NewRequest(method Method, cred Credential, path string, query url.Values, body Body) (Request, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), "/")
	if trimmed == "" {
		return Request{}, fmt.Errorf("request path is required")
	}
	if strings.Contains(trimmed, "://") || strings.ContainsAny(trimmed, "?#") {
		return Request{}, fmt.Errorf("request path %q must be a relative path without a query string; use --params", path)
	}
	req := newRequest(method, cred, trimmed)
	for key, values := range query {
		for _, value := range values {
			req.Query.Add(key, value)
		}
	}
	if method.sendsBody() {
		if !body.IsSet() {
			body = Placeholder()
		}
		req.Body = body
	}
	return req, nil
}
