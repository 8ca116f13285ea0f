package postmark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/bilalbayram/postmarkcli/internal/logger"
)

const (
	DefaultBaseURL   = "https://api.postmarkapp.com"
	DefaultUserAgent = "postmark-cli/1.0"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client dispatches Postmark requests. It never interprets status codes and
// never retries.
type Client struct {
	BaseURL   string
	HTTP      HTTPClient
	UserAgent string
	Log       *logger.Logger
}

// Response is the raw result of a dispatched request.
type Response struct {
	StatusCode int
	Raw        []byte
	Header     http.Header
}

func NewClient(httpClient HTTPClient, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		HTTP:      httpClient,
		UserAgent: DefaultUserAgent,
		Log:       logger.Discard(),
	}
}

func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Credential.Token) == "" {
		return nil, fmt.Errorf("%s token is required", req.Credential.Kind)
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, errors.New("postmark request path is required")
	}

	endpoint, err := c.endpoint(req)
	if err != nil {
		return nil, &TransportError{Message: err.Error(), Err: err}
	}

	var bodyReader io.Reader
	if req.Method.sendsBody() {
		bodyReader = bytes.NewReader(req.Body.Bytes())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), endpoint, bodyReader)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("build postmark request: %v", err), Err: err}
	}
	httpReq.Header.Set(req.Credential.Kind.header(), req.Credential.Token)
	httpReq.Header.Set("User-Agent", c.UserAgent)
	switch req.Method {
	case MethodGet, MethodDelete:
		httpReq.Header.Set("Accept", "application/json")
	case MethodPost:
		httpReq.Header.Set("Content-Type", "application/json")
	case MethodPut:
		httpReq.Header.Set("Accept", "application/json")
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.Log.Debug().
		Str("method", req.Method.String()).
		Str("url", endpoint).
		Str("credential", req.Credential.Kind.String()).
		Msg("dispatch postmark request")

	httpRes, err := c.HTTP.Do(httpReq)
	if err != nil {
		c.Log.Debug().Err(err).Msg("postmark transport failure")
		return nil, &TransportError{Message: fmt.Sprintf("send request: %v", err), Err: err}
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return nil, &TransportError{Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	c.Log.Debug().Int("status", httpRes.StatusCode).Int("bytes", len(raw)).Msg("postmark response received")

	return &Response{
		StatusCode: httpRes.StatusCode,
		Raw:        raw,
		Header:     httpRes.Header.Clone(),
	}, nil
}

func (c *Client) endpoint(req Request) (string, error) {
	endpoint, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse postmark base url: %w", err)
	}
	endpoint.Path = path.Join(endpoint.Path, "/", strings.TrimPrefix(req.Path, "/"))
	if len(req.Query) > 0 {
		endpoint.RawQuery = req.Query.Encode()
	}
	return endpoint.String(), nil
}
