package postmark

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-200 response carrying Postmark's ErrorCode/Message pair.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  int    `json:"ErrorCode"`
	Message    string `json:"Message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("postmark api error status=%d code=%d: %s", e.StatusCode, e.ErrorCode, e.Message)
}

// TransportError is a failure before any HTTP status was received.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseAPIError extracts the provider error from a non-200 response. Bodies
// that are not Postmark error objects still yield an APIError with the status.
func ParseAPIError(resp *Response) *APIError {
	if resp == nil {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	payload := struct {
		ErrorCode *json.Number `json:"ErrorCode"`
		Message   *string      `json:"Message"`
	}{}
	if err := json.Unmarshal(resp.Raw, &payload); err != nil {
		apiErr.Message = string(resp.Raw)
		return apiErr
	}
	if payload.ErrorCode != nil {
		if code, err := payload.ErrorCode.Int64(); err == nil {
			apiErr.ErrorCode = int(code)
		}
	}
	if payload.Message != nil {
		apiErr.Message = *payload.Message
	}
	return apiErr
}
