package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewAPICommand(runtime Runtime) *cobra.Command {
	apiCmd := newGroupCommand("api", "Call any Postmark endpoint directly")
	apiCmd.AddCommand(newAPIMethodCommand(runtime, postmark.MethodGet))
	apiCmd.AddCommand(newAPIMethodCommand(runtime, postmark.MethodPost))
	apiCmd.AddCommand(newAPIMethodCommand(runtime, postmark.MethodPut))
	apiCmd.AddCommand(newAPIMethodCommand(runtime, postmark.MethodDelete))
	return apiCmd
}

func newAPIMethodCommand(runtime Runtime, method postmark.Method) *cobra.Command {
	var (
		paramsRaw  string
		jsonRaw    string
		useAccount bool
	)

	verb := strings.ToLower(method.String())
	commandName := "pm api " + verb
	cmd := &cobra.Command{
		Use:   verb + " <path>",
		Short: fmt.Sprintf("Run a Postmark %s request", method),
		Example: fmt.Sprintf(`  pm api %s messages/outbound --params count=50,offset=0
  pm api %s servers --account`, verb, verb),
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(cred postmark.Credential) (postmark.Request, error) {
				params, err := parseKeyValueList(paramsRaw)
				if err != nil {
					return postmark.Request{}, err
				}
				query := url.Values{}
				for key, value := range params {
					query.Set(key, value)
				}
				body, err := parseInlineJSONBody(jsonRaw)
				if err != nil {
					return postmark.Request{}, err
				}
				return postmark.NewRequest(method, cred, args[0], query, body)
			}

			call := serverCall(commandName, "Calling "+strings.Trim(args[0], "/"), build)
			if useAccount {
				call = accountCall(commandName, "Calling "+strings.Trim(args[0], "/"), build)
			}
			return runAPICall(cmd, runtime, call)
		},
	}

	cmd.Flags().StringVar(&paramsRaw, "params", "", "Comma-separated query params (k=v,k2=v2)")
	cmd.Flags().BoolVar(&useAccount, "account", false, "Authenticate with the account token instead of the server token")
	if method == postmark.MethodPost || method == postmark.MethodPut {
		cmd.Flags().StringVar(&jsonRaw, "json", "", "Inline JSON request body")
	}
	return cmd
}

func parseKeyValueList(raw string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return out, nil
	}
	parts := strings.Split(raw, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		index := strings.Index(part, "=")
		if index <= 0 {
			return nil, fmt.Errorf("invalid --params entry %q; expected key=value", part)
		}
		key := strings.TrimSpace(part[:index])
		value := strings.TrimSpace(part[index+1:])
		if key == "" {
			return nil, fmt.Errorf("invalid --params entry %q; key cannot be empty", part)
		}
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("duplicate --params key %q", key)
		}
		out[key] = value
	}
	return out, nil
}

// parseInlineJSONBody accepts a JSON object or array and returns it compacted.
func parseInlineJSONBody(raw string) (postmark.Body, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return postmark.NoBody(), nil
	}
	if !json.Valid([]byte(trimmed)) {
		return postmark.Body{}, errors.New("decode --json payload: invalid JSON")
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return postmark.Body{}, errors.New("invalid --json payload: expected an object or array")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(trimmed)); err != nil {
		return postmark.Body{}, fmt.Errorf("decode --json payload: %w", err)
	}
	return postmark.RawJSON(compact.Bytes()), nil
}
