package payload

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// Kind selects the schema a payload document is checked against.
type Kind string

const (
	KindTemplateMessage Kind = "template_message"
	KindBatch           Kind = "batch"
	KindRenderModel     Kind = "render_model"
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result contains the outcome of a schema check.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Err folds the violations into one error, or nil when the document is valid.
func (r *Result) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, fieldErr := range r.Errors {
		parts = append(parts, fieldErr.Field+": "+fieldErr.Message)
	}
	return &InvalidError{Errors: r.Errors, summary: strings.Join(parts, "; ")}
}

// InvalidError is returned for documents that fail schema validation.
type InvalidError struct {
	Errors  []FieldError
	summary string
}

func (e *InvalidError) Error() string {
	return "invalid payload: " + e.summary
}

// Decode parses content as YAML for .yaml/.yml paths and as JSON otherwise.
func Decode(path string, content []byte) (any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, errors.New("payload is empty")
	}

	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML syntax: %w", err)
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(content))
		decoder.UseNumber()
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid JSON syntax: %w", err)
		}
		var trailing any
		if err := decoder.Decode(&trailing); err == nil {
			return nil, errors.New("invalid JSON syntax: payload must contain a single JSON document")
		}
	}
	return doc, nil
}

// Validate checks doc against the schema for kind.
func Validate(kind Kind, doc any) (*Result, error) {
	schema, err := schemaFor(kind)
	if err != nil {
		return nil, err
	}

	validation, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	result := &Result{Valid: validation.Valid(), Errors: []FieldError{}}
	for _, violation := range validation.Errors() {
		result.Errors = append(result.Errors, FieldError{
			Field:   violation.Field(),
			Message: violation.Description(),
		})
	}
	return result, nil
}

// Load reads a payload file, validates it and returns it re-encoded as
// compact JSON ready to be used as a request body.
func Load(kind Kind, path string) ([]byte, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("payload file path is required")
	}
	content, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("read payload file %q: %w", trimmed, err)
	}
	return Parse(kind, trimmed, content)
}

// Parse is Load for content already in memory. path only selects the decoder.
func Parse(kind Kind, path string, content []byte) ([]byte, error) {
	doc, err := Decode(path, content)
	if err != nil {
		return nil, err
	}
	result, err := Validate(kind, doc)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return encoded, nil
}

func schemaFor(kind Kind) (map[string]any, error) {
	switch kind {
	case KindTemplateMessage, KindRenderModel:
		return readSchema(string(kind))
	case KindBatch:
		batch, err := readSchema("batch")
		if err != nil {
			return nil, err
		}
		message, err := readSchema(string(KindTemplateMessage))
		if err != nil {
			return nil, err
		}
		delete(message, "$schema")
		messages := batch["properties"].(map[string]any)["Messages"].(map[string]any)
		messages["items"] = message
		return batch, nil
	default:
		return nil, fmt.Errorf("unknown payload kind %q", kind)
	}
}

func readSchema(name string) (map[string]any, error) {
	raw, err := schemaFiles.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load %s schema: %w", name, err)
	}
	schema := map[string]any{}
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("parse %s schema: %w", name, err)
	}
	return schema, nil
}
