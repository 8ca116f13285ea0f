package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONEnvelopeIncludesContractVersion(t *testing.T) {
	t.Parallel()

	envelope, err := NewEnvelope("pm auth status", true, 0, map[string]any{"status": "ok"}, nil)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "json", envelope); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if decoded["contract_version"] != ContractVersion {
		t.Fatalf("unexpected contract version: %v", decoded["contract_version"])
	}
	if decoded["command"] != "pm auth status" {
		t.Fatalf("unexpected command: %v", decoded["command"])
	}
	if _, ok := decoded["status_code"]; ok {
		t.Fatalf("expected status_code to be omitted for local commands: %v", decoded)
	}
}

func TestJSONLEnvelopeLineCountForSlice(t *testing.T) {
	t.Parallel()

	data := []map[string]any{
		{"id": "1"},
		{"id": "2"},
	}
	envelope, err := NewEnvelope("pm api get", true, 200, data, nil)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "jsonl", envelope); err != nil {
		t.Fatalf("write jsonl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 jsonl lines, got %d", len(lines))
	}

	for _, line := range lines {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		if decoded["contract_version"] != ContractVersion {
			t.Fatalf("unexpected contract version in line: %v", decoded["contract_version"])
		}
	}
}

func TestTableUnwrapsListResponse(t *testing.T) {
	t.Parallel()

	envelope, err := NewEnvelope("pm templates list", true, 200, map[string]any{
		"TotalCount": 2,
		"Templates": []any{
			map[string]any{"TemplateId": 1, "Name": "Welcome"},
			map[string]any{"TemplateId": 2, "Name": "Receipt"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "table", envelope); err != nil {
		t.Fatalf("write table: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "Name") || !strings.Contains(lines[0], "TemplateId") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "Receipt") {
		t.Fatalf("unexpected row %q", lines[2])
	}
}

func TestCSVForSingleObject(t *testing.T) {
	t.Parallel()

	envelope, err := NewEnvelope("pm servers get", true, 200, map[string]any{
		"ID":          1,
		"Name":        "Production",
		"ApiTokens":   []any{"a", "b"},
		"InboundHash": nil,
	}, nil)
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "csv", envelope); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	want := "ApiTokens,ID,InboundHash,Name\n\"[\"\"a\"\",\"\"b\"\"]\",1,,Production\n"
	if buf.String() != want {
		t.Fatalf("unexpected csv output:\n%s", buf.String())
	}
}

func TestCSVForErrorEnvelope(t *testing.T) {
	t.Parallel()

	envelope, err := NewEnvelope("pm bounces get", false, 422, nil, &ErrorInfo{Type: ErrorTypeAPI, Code: 701, StatusCode: 422, Message: "Bounce not found"})
	if err != nil {
		t.Fatalf("new envelope: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "csv", envelope); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if !strings.Contains(buf.String(), "701") || !strings.Contains(buf.String(), "Bounce not found") {
		t.Fatalf("unexpected csv output %q", buf.String())
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"text", "JSON", " jsonl ", "table", "csv"} {
		if _, err := ValidateFormat(raw); err != nil {
			t.Fatalf("expected %q to be accepted: %v", raw, err)
		}
	}
	if _, err := ValidateFormat("yaml"); err == nil {
		t.Fatal("expected yaml to be rejected")
	}
	if Structured("text") || !Structured("json") {
		t.Fatal("unexpected structured classification")
	}
}
