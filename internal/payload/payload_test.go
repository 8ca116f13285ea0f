package payload

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidTemplateMessageByID(t *testing.T) {
	content := []byte(`{"From":"ops@example.com","To":"user@example.com","TemplateId":1234,"TemplateModel":{"name":"Ada"}}`)

	encoded, err := Parse(KindTemplateMessage, "message.json", content)
	require.NoError(t, err)
	assert.JSONEq(t, string(content), string(encoded))
	assert.Contains(t, string(encoded), `"TemplateId":1234`)
}

func TestParse_ValidTemplateMessageByAlias(t *testing.T) {
	content := []byte(`{"From":"ops@example.com","To":"user@example.com","TemplateAlias":"welcome"}`)

	_, err := Parse(KindTemplateMessage, "message.json", content)
	require.NoError(t, err)
}

func TestParse_TemplateMessageMissingTemplate(t *testing.T) {
	content := []byte(`{"From":"ops@example.com","To":"user@example.com"}`)

	_, err := Parse(KindTemplateMessage, "message.json", content)
	require.Error(t, err)

	var invalid *InvalidError
	require.ErrorAs(t, err, &invalid)
	assert.NotEmpty(t, invalid.Errors)
	assert.Contains(t, err.Error(), "invalid payload")
}

func TestParse_TemplateMessageBothTemplateKeys(t *testing.T) {
	content := []byte(`{"From":"a@example.com","To":"b@example.com","TemplateId":1,"TemplateAlias":"welcome"}`)

	_, err := Parse(KindTemplateMessage, "message.json", content)
	require.Error(t, err)
}

func TestParse_TemplateMessageWrongTypes(t *testing.T) {
	content := []byte(`{"From":"a@example.com","To":"b@example.com","TemplateId":"1234","TemplateModel":[]}`)

	doc, err := Decode("message.json", content)
	require.NoError(t, err)

	result, err := Validate(KindTemplateMessage, doc)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	fields := make([]string, 0, len(result.Errors))
	for _, fieldErr := range result.Errors {
		fields = append(fields, fieldErr.Field)
	}
	assert.Contains(t, fields, "TemplateId")
	assert.Contains(t, fields, "TemplateModel")
}

func TestParse_YAMLTemplateMessage(t *testing.T) {
	content := []byte("From: ops@example.com\nTo: user@example.com\nTemplateAlias: welcome\nTemplateModel:\n  name: Ada\n")

	encoded, err := Parse(KindTemplateMessage, "message.yaml", content)
	require.NoError(t, err)
	assert.JSONEq(t, `{"From":"ops@example.com","To":"user@example.com","TemplateAlias":"welcome","TemplateModel":{"name":"Ada"}}`, string(encoded))
}

func TestParse_Batch(t *testing.T) {
	content := []byte(`{"Messages":[
		{"From":"ops@example.com","To":"a@example.com","TemplateId":1},
		{"From":"ops@example.com","To":"b@example.com","TemplateAlias":"welcome"}
	]}`)

	_, err := Parse(KindBatch, "batch.json", content)
	require.NoError(t, err)
}

func TestParse_BatchRejectsInvalidMessage(t *testing.T) {
	content := []byte(`{"Messages":[{"From":"ops@example.com","TemplateId":1}]}`)

	_, err := Parse(KindBatch, "batch.json", content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Messages.0")
}

func TestParse_BatchLimits(t *testing.T) {
	_, err := Parse(KindBatch, "batch.json", []byte(`{"Messages":[]}`))
	require.Error(t, err)

	messages := make([]string, 501)
	for i := range messages {
		messages[i] = fmt.Sprintf(`{"From":"ops@example.com","To":"u%d@example.com","TemplateId":1}`, i)
	}
	_, err = Parse(KindBatch, "batch.json", []byte(`{"Messages":[`+strings.Join(messages, ",")+`]}`))
	require.Error(t, err)
}

func TestParse_RenderModel(t *testing.T) {
	encoded, err := Parse(KindRenderModel, "model.json", []byte(`{"name":"Ada","items":[1,2]}`))
	require.NoError(t, err)

	decoded := map[string]any{}
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, "Ada", decoded["name"])

	_, err = Parse(KindRenderModel, "model.json", []byte(`["not","an","object"]`))
	require.Error(t, err)
}

func TestDecode_SyntaxErrors(t *testing.T) {
	_, err := Decode("message.json", []byte(`{"From":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON syntax")

	_, err = Decode("message.json", []byte(`{} {}`))
	require.Error(t, err)

	_, err = Decode("message.yml", []byte("From: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML syntax")

	_, err = Decode("message.json", []byte("   "))
	require.Error(t, err)
}

func TestValidate_UnknownKind(t *testing.T) {
	_, err := Validate(Kind("letter"), map[string]any{})
	require.Error(t, err)
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "message.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"From":"ops@example.com","To":"user@example.com","TemplateId":7}`), 0o600))

	encoded, err := Load(KindTemplateMessage, path)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"TemplateId":7`)

	_, err = Load(KindTemplateMessage, filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read payload file")

	_, err = Load(KindTemplateMessage, " ")
	require.Error(t, err)
}
