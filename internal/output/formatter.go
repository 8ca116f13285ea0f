package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bilalbayram/postmarkcli/internal/logger"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
)

const (
	MessageRequestFailed = "Error occurred."
	MessageTransport     = "Error occurred with command. API call unsuccessful."
)

var errNoResponse = errors.New("api call unsuccessful")

// PrintedError marks an error whose details already reached the user.
type PrintedError struct {
	Err error
}

func (e *PrintedError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *PrintedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *PrintedError) AlreadyPrinted() bool {
	return true
}

// Formatter renders the outcome of one dispatched request.
type Formatter struct {
	Command string
	Format  string
	Out     io.Writer
	Err     io.Writer
	Log     *logger.Logger

	// SuccessMessage replaces the pretty-printed body in text mode.
	SuccessMessage string
}

func NewFormatter(command string, format string, out io.Writer, errOut io.Writer) *Formatter {
	return &Formatter{
		Command: command,
		Format:  format,
		Out:     out,
		Err:     errOut,
		Log:     logger.Discard(),
	}
}

// Handle finishes progress, then reports success for a 200 response, the
// provider error for any other status, and a generic failure when no
// response arrived.
func (f *Formatter) Handle(resp *postmark.Response, callErr error, progress Progress) error {
	if progress == nil {
		progress = NopProgress{}
	}
	progress.Finish()

	switch {
	case resp != nil && resp.StatusCode == http.StatusOK:
		return f.success(resp)
	case resp != nil:
		return f.apiFailure(resp)
	default:
		return f.transportFailure(callErr)
	}
}

func (f *Formatter) success(resp *postmark.Response) error {
	if Structured(f.Format) {
		data, err := decodeBody(resp.Raw)
		if err != nil {
			return err
		}
		envelope, err := NewEnvelope(f.Command, true, resp.StatusCode, data, nil)
		if err != nil {
			return err
		}
		return Write(f.Out, f.Format, envelope)
	}

	printer := NewPrinter(f.Out)
	if f.SuccessMessage != "" {
		return printer.Success(f.SuccessMessage)
	}
	return printer.Success(prettyBody(resp.Raw))
}

func (f *Formatter) apiFailure(resp *postmark.Response) error {
	apiErr := postmark.ParseAPIError(resp)
	f.Log.Debug().Int("status", apiErr.StatusCode).Int("error_code", apiErr.ErrorCode).Msg("postmark reported failure")

	if Structured(f.Format) {
		if err := f.writeError(&ErrorInfo{
			Type:       ErrorTypeAPI,
			Code:       apiErr.ErrorCode,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
		}); err != nil {
			return fmt.Errorf("%w (secondary output error: %v)", apiErr, err)
		}
		return &PrintedError{Err: apiErr}
	}

	printer := NewPrinter(f.Err)
	if err := printer.Warning(MessageRequestFailed); err != nil {
		return fmt.Errorf("%w (secondary output error: %v)", apiErr, err)
	}
	if err := printer.ErrorLines(
		fmt.Sprintf("Postmark API Error Code: %d", apiErr.ErrorCode),
		fmt.Sprintf("Postmark Error Message: %s", apiErr.Message),
	); err != nil {
		return fmt.Errorf("%w (secondary output error: %v)", apiErr, err)
	}
	return &PrintedError{Err: apiErr}
}

func (f *Formatter) transportFailure(callErr error) error {
	if callErr == nil {
		callErr = errNoResponse
	}
	f.Log.Debug().Err(callErr).Msg("no response from postmark")

	if Structured(f.Format) {
		if err := f.writeError(&ErrorInfo{Type: ErrorTypeTransport, Message: MessageTransport}); err != nil {
			return fmt.Errorf("%w (secondary output error: %v)", callErr, err)
		}
		return &PrintedError{Err: callErr}
	}

	if err := NewPrinter(f.Err).Error(MessageTransport); err != nil {
		return fmt.Errorf("%w (secondary output error: %v)", callErr, err)
	}
	return &PrintedError{Err: callErr}
}

func (f *Formatter) writeError(info *ErrorInfo) error {
	envelope, err := NewEnvelope(f.Command, false, info.StatusCode, nil, info)
	if err != nil {
		return err
	}
	return Write(f.Err, f.Format, envelope)
}

func decodeBody(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return string(raw), nil
	}
	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	var data any
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode postmark response: %w", err)
	}
	return data, nil
}

func prettyBody(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "null"
	}
	if !json.Valid(trimmed) {
		encoded, err := json.Marshal(string(raw))
		if err != nil {
			return string(raw)
		}
		return string(encoded)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return pretty.String()
}
