package output

import (
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

const ContractVersion = "1.0"

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatTable = "table"
	FormatCSV   = "csv"
)

type Envelope struct {
	ContractVersion string     `json:"contract_version"`
	Command         string     `json:"command"`
	Timestamp       string     `json:"timestamp"`
	RequestID       string     `json:"request_id"`
	Success         bool       `json:"success"`
	StatusCode      int        `json:"status_code,omitempty"`
	Data            any        `json:"data,omitempty"`
	Error           *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries Postmark's ErrorCode/Message pair, or a local failure
// when Type is not postmark_api_error.
type ErrorInfo struct {
	Type       string `json:"type"`
	Code       int    `json:"code"`
	StatusCode int    `json:"status_code,omitempty"`
	Message    string `json:"message"`
}

const (
	ErrorTypeAPI       = "postmark_api_error"
	ErrorTypeTransport = "transport_error"
	ErrorTypeCommand   = "error"
)

func NewEnvelope(command string, success bool, statusCode int, data any, errorInfo *ErrorInfo) (Envelope, error) {
	requestID, err := newRequestID()
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		ContractVersion: ContractVersion,
		Command:         command,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		RequestID:       requestID,
		Success:         success,
		StatusCode:      statusCode,
		Data:            data,
		Error:           errorInfo,
	}, nil
}

// ValidateFormat normalizes an --output value.
func ValidateFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case FormatText, FormatJSON, FormatJSONL, FormatTable, FormatCSV:
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid --output value %q; expected text|json|jsonl|table|csv", format)
	}
}

// Structured reports whether format renders envelopes rather than text lines.
func Structured(format string) bool {
	normalized, err := ValidateFormat(format)
	return err == nil && normalized != FormatText
}

func Write(w io.Writer, format string, envelope Envelope) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
		return writeJSON(w, envelope)
	case FormatJSONL:
		return writeJSONL(w, envelope)
	case FormatTable:
		if envelope.Error != nil {
			return writeTable(w, errorRow(envelope.Error))
		}
		return writeTable(w, envelope.Data)
	case FormatCSV:
		if envelope.Error != nil {
			return writeCSV(w, errorRow(envelope.Error))
		}
		return writeCSV(w, envelope.Data)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeJSON(w io.Writer, envelope Envelope) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(envelope)
}

func writeJSONL(w io.Writer, envelope Envelope) error {
	items, ok := listItems(envelope.Data)
	if !ok {
		encoded, err := json.Marshal(envelope)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(encoded))
		return err
	}
	for _, item := range items {
		line := envelope
		line.Data = item
		encoded, err := json.Marshal(line)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, string(encoded)); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, data any) error {
	rows, headers, err := normalizeRows(data)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		values := make([]string, 0, len(headers))
		for _, header := range headers {
			values = append(values, cell(row[header]))
		}
		if _, err := fmt.Fprintln(tw, strings.Join(values, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, data any) error {
	rows, headers, err := normalizeRows(data)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, 0, len(headers))
		for _, header := range headers {
			record = append(record, cell(row[header]))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// listItems unwraps Postmark list responses. A listing such as
// {"TotalCount": 2, "Bounces": [...]} yields the Bounces entries; objects
// without TotalCount are treated as a single record.
func listItems(data any) ([]any, bool) {
	switch typed := data.(type) {
	case []any:
		return typed, true
	case []map[string]any:
		items := make([]any, 0, len(typed))
		for _, item := range typed {
			items = append(items, item)
		}
		return items, true
	case map[string]any:
		if _, ok := typed["TotalCount"]; !ok {
			return nil, false
		}
		var found []any
		for _, value := range typed {
			list, ok := value.([]any)
			if !ok {
				continue
			}
			if found != nil {
				return nil, false
			}
			found = list
		}
		if found == nil {
			return nil, false
		}
		return found, true
	default:
		return nil, false
	}
}

func normalizeRows(data any) ([]map[string]any, []string, error) {
	if items, ok := listItems(data); ok {
		rows := make([]map[string]any, 0, len(items))
		for _, item := range items {
			row, ok := item.(map[string]any)
			if !ok {
				row = map[string]any{"value": item}
			}
			rows = append(rows, row)
		}
		return rows, orderedHeaders(rows), nil
	}
	switch typed := data.(type) {
	case map[string]any:
		return []map[string]any{typed}, orderedHeaders([]map[string]any{typed}), nil
	default:
		return nil, nil, errors.New("table/csv output requires an object or list response")
	}
}

func errorRow(info *ErrorInfo) map[string]any {
	return map[string]any{
		"type":        info.Type,
		"code":        info.Code,
		"status_code": info.StatusCode,
		"message":     info.Message,
	}
}

func cell(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprint(typed)
		}
		return string(encoded)
	default:
		return fmt.Sprint(typed)
	}
}

func orderedHeaders(rows []map[string]any) []string {
	set := map[string]struct{}{}
	for _, row := range rows {
		for key := range row {
			set[key] = struct{}{}
		}
	}
	headers := make([]string, 0, len(set))
	for key := range set {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

func newRequestID() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
