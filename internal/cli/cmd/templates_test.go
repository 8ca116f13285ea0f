package cmd

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bilalbayram/postmarkcli/internal/payload"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
)

func writeTempFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func decodeRequestBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	body := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("decode request body %q: %v", raw, err)
	}
	return body
}

func TestTemplatesSendPostsValidatedMessage(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"ErrorCode":0,"MessageID":"b7bc2f4a"}`}
	useStubDependencies(t, stub)

	message := writeTempFile(t, "message.yaml", `
From: sender@example.com
To: recipient@example.com
TemplateAlias: welcome
TemplateModel:
  name: Ada
`)
	stdout, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "send", message)
	if err != nil {
		t.Fatalf("execute templates send: %v", err)
	}
	if stub.lastURL != "https://api.postmarkapp.com/email/withTemplate" {
		t.Fatalf("unexpected url %q", stub.lastURL)
	}
	body := decodeRequestBody(t, stub.lastBody)
	if body["TemplateAlias"] != "welcome" {
		t.Fatalf("unexpected body %#v", body)
	}
	model, _ := body["TemplateModel"].(map[string]any)
	if model["name"] != "Ada" {
		t.Fatalf("unexpected model %#v", model)
	}
	assertEnvelopeBasics(t, decodeEnvelope(t, []byte(stdout)), "pm templates send")
}

func TestTemplatesSendRejectsInvalidMessage(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{}`}
	useStubDependencies(t, stub)

	message := writeTempFile(t, "message.json", `{"To":"recipient@example.com","TemplateId":12}`)
	_, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "send", message)

	var invalid *payload.InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected payload validation error, got %v", err)
	}
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %T", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no request, got %d", stub.calls)
	}
}

func TestTemplatesSendBatch(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `[{"ErrorCode":0}]`}
	useStubDependencies(t, stub)

	batch := writeTempFile(t, "batch.json", `{"Messages":[{"From":"sender@example.com","To":"a@example.com","TemplateId":7,"TemplateModel":{}}]}`)
	if _, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "send-batch", batch); err != nil {
		t.Fatalf("execute templates send-batch: %v", err)
	}
	if stub.lastURL != "https://api.postmarkapp.com/email/batchWithTemplates" {
		t.Fatalf("unexpected url %q", stub.lastURL)
	}
	messages, _ := decodeRequestBody(t, stub.lastBody)["Messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("unexpected messages %#v", messages)
	}
}

func TestTemplatesPushUsesAccountToken(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"TotalCount":0,"Templates":[]}`}
	useStubDependencies(t, stub)

	if _, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "push", "100", "200", "--perform-changes"); err != nil {
		t.Fatalf("execute templates push: %v", err)
	}
	if stub.lastMethod != http.MethodPut || stub.lastURL != "https://api.postmarkapp.com/templates/push" {
		t.Fatalf("unexpected request %s %s", stub.lastMethod, stub.lastURL)
	}
	if got := stub.lastHeaders.Get(postmark.HeaderAccountToken); got != testAccountToken {
		t.Fatalf("unexpected account token %q", got)
	}
	if got := stub.lastHeaders.Get(postmark.HeaderServerToken); got != "" {
		t.Fatalf("server token must not be sent, got %q", got)
	}
	if stub.lastBody != `{"SourceServerID":100,"DestinationServerID":200,"PerformChanges":true}` {
		t.Fatalf("unexpected body %q", stub.lastBody)
	}
}

func TestTemplatesCreateReadsBodyFiles(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"TemplateId":1234,"Name":"Onboarding Email","Active":true}`}
	useStubDependencies(t, stub)

	htmlPath := writeTempFile(t, "body.html", "<p>Hello {{name}}</p>")
	stdout, stderr, err := executeCommand(t, NewTemplatesCommand(textRuntime("prod")),
		"create", "Onboarding Email", "Hello {{name}}", "--html-body", htmlPath, "--alias", "onboarding-v1")
	if err != nil {
		t.Fatalf("execute templates create: %v", err)
	}
	body := decodeRequestBody(t, stub.lastBody)
	if body["Name"] != "Onboarding Email" || body["Subject"] != "Hello {{name}}" || body["HtmlBody"] != "<p>Hello {{name}}</p>" || body["Alias"] != "onboarding-v1" {
		t.Fatalf("unexpected body %#v", body)
	}
	if _, ok := body["TextBody"]; ok {
		t.Fatalf("TextBody must be omitted, got %#v", body)
	}
	if !strings.HasPrefix(stdout, "Success: {") {
		t.Fatalf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "Creating new template Onboarding Email... done") {
		t.Fatalf("unexpected progress %q", stderr)
	}
}

func TestTemplatesCreateRequiresABody(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{}`}
	useStubDependencies(t, stub)

	_, stderr, err := executeCommand(t, NewTemplatesCommand(textRuntime("prod")), "create", "Name", "Subject")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no request, got %d", stub.calls)
	}
	if !strings.Contains(stderr, "must specify either an HTML or Text body") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestTemplatesCreateMissingBodyFile(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{}`}
	useStubDependencies(t, stub)

	missing := filepath.Join(t.TempDir(), "missing.html")
	_, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "create", "Name", "Subject", "--html-body", missing)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no request, got %d", stub.calls)
	}
}

func TestTemplatesEditByAlias(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"TemplateId":1234}`}
	useStubDependencies(t, stub)

	textPath := writeTempFile(t, "body.txt", "Hello")
	if _, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "edit", "onboarding-v1", "Renamed", "New subject", "--text-body", textPath); err != nil {
		t.Fatalf("execute templates edit: %v", err)
	}
	if stub.lastMethod != http.MethodPut || stub.lastURL != "https://api.postmarkapp.com/templates/onboarding-v1" {
		t.Fatalf("unexpected request %s %s", stub.lastMethod, stub.lastURL)
	}
	if stub.lastBody != `{"Name":"Renamed","Subject":"New subject","TextBody":"Hello"}` {
		t.Fatalf("unexpected body %q", stub.lastBody)
	}
}

func TestTemplatesListAndDelete(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"TotalCount":0,"Templates":[]}`}
	useStubDependencies(t, stub)

	if _, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "list", "--count", "20", "--offset", "40"); err != nil {
		t.Fatalf("execute templates list: %v", err)
	}
	if stub.lastURL != "https://api.postmarkapp.com/templates?count=20&offset=40" {
		t.Fatalf("unexpected url %q", stub.lastURL)
	}

	if _, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")), "delete", "1234"); err != nil {
		t.Fatalf("execute templates delete: %v", err)
	}
	if stub.lastMethod != http.MethodDelete || stub.lastURL != "https://api.postmarkapp.com/templates/1234" {
		t.Fatalf("unexpected request %s %s", stub.lastMethod, stub.lastURL)
	}
	if got := stub.lastHeaders.Get("Accept"); got != "application/json" {
		t.Fatalf("unexpected accept header %q", got)
	}
}

func TestTemplatesValidateWithRenderModel(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{"AllContentIsValid":true}`}
	useStubDependencies(t, stub)

	htmlPath := writeTempFile(t, "body.html", "<p>{{name}}</p>")
	modelPath := writeTempFile(t, "model.json", `{"name":"Ada"}`)
	_, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")),
		"validate", "Hi {{name}}", "--html-body", htmlPath, "--test-render-model", modelPath, "--inline-css=false")
	if err != nil {
		t.Fatalf("execute templates validate: %v", err)
	}
	if stub.lastURL != "https://api.postmarkapp.com/templates/validate" {
		t.Fatalf("unexpected url %q", stub.lastURL)
	}
	body := decodeRequestBody(t, stub.lastBody)
	model, _ := body["TestRenderModel"].(map[string]any)
	if model["name"] != "Ada" {
		t.Fatalf("unexpected render model %#v", body["TestRenderModel"])
	}
	if body["InlineCssForHtmlTestRender"] != false {
		t.Fatalf("unexpected inline css flag %#v", body["InlineCssForHtmlTestRender"])
	}
}

func TestTemplatesValidateRejectsNonObjectModel(t *testing.T) {
	stub := &stubHTTPClient{t: t, statusCode: http.StatusOK, response: `{}`}
	useStubDependencies(t, stub)

	htmlPath := writeTempFile(t, "body.html", "<p>{{name}}</p>")
	modelPath := writeTempFile(t, "model.json", `["not","an","object"]`)
	_, _, err := executeCommand(t, NewTemplatesCommand(testRuntime("prod")),
		"validate", "Hi", "--html-body", htmlPath, "--test-render-model", modelPath)
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected no request, got %d", stub.calls)
	}
}
