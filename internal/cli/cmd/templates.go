package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bilalbayram/postmarkcli/internal/payload"
	"github.com/bilalbayram/postmarkcli/internal/postmark"
	"github.com/spf13/cobra"
)

func NewTemplatesCommand(runtime Runtime) *cobra.Command {
	templatesCmd := newGroupCommand("templates", "Send with and manage templates")
	templatesCmd.AddCommand(newTemplatesSendCommand(runtime))
	templatesCmd.AddCommand(newTemplatesSendBatchCommand(runtime))
	templatesCmd.AddCommand(newTemplatesPushCommand(runtime))
	templatesCmd.AddCommand(newTemplatesGetCommand(runtime))
	templatesCmd.AddCommand(newTemplatesListCommand(runtime))
	templatesCmd.AddCommand(newTemplatesCreateCommand(runtime))
	templatesCmd.AddCommand(newTemplatesEditCommand(runtime))
	templatesCmd.AddCommand(newTemplatesDeleteCommand(runtime))
	templatesCmd.AddCommand(newTemplatesValidateCommand(runtime))
	return templatesCmd
}

func newTemplatesSendCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message-file>",
		Short: "Send one templated message described by a JSON or YAML file",
		Example: `  pm templates send message.json
  pm templates send message.yaml --output json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates send", "Sending email with template", func(cred postmark.Credential) (postmark.Request, error) {
				message, err := payload.Load(payload.KindTemplateMessage, args[0])
				if err != nil {
					return postmark.Request{}, err
				}
				return postmark.SendWithTemplate(cred, message), nil
			}))
		},
	}
}

func newTemplatesSendBatchCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "send-batch <batch-file>",
		Short: "Send up to 500 templated messages in one call",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates send-batch", "Sending batch email with templates", func(cred postmark.Credential) (postmark.Request, error) {
				batch, err := payload.Load(payload.KindBatch, args[0])
				if err != nil {
					return postmark.Request{}, err
				}
				return postmark.SendBatchWithTemplates(cred, batch), nil
			}))
		},
	}
}

func newTemplatesPushCommand(runtime Runtime) *cobra.Command {
	var performChanges bool

	cmd := &cobra.Command{
		Use:   "push <source-server-id> <destination-server-id>",
		Short: "Push templates from one server to another",
		Long:  "Push changed templates between servers. Without --perform-changes Postmark only reports what would change.",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, accountCall("pm templates push", "Pushing templates", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.PushTemplates(cred, args[0], args[1], performChanges)
			}))
		},
	}

	cmd.Flags().BoolVar(&performChanges, "perform-changes", false, "Apply the push instead of previewing it")
	return cmd
}

func newTemplatesGetCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <template-id-or-alias>",
		Short: "Get a template",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates get", "Getting template", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.GetTemplate(cred, args[0])
			}))
		},
	}
}

func newTemplatesListCommand(runtime Runtime) *cobra.Command {
	var page pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates list", "Getting templates", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.ListTemplates(cred, page.page()), nil
			}))
		},
	}

	page.bind(cmd)
	return cmd
}

type templateBodyFlags struct {
	htmlBody string
	textBody string
}

func (f *templateBodyFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.htmlBody, "html-body", "", "File containing the HtmlBody")
	cmd.Flags().StringVar(&f.textBody, "text-body", "", "File containing the TextBody")
}

// read loads the body files that were named on the command line.
func (f templateBodyFlags) read(cmd *cobra.Command) (*string, *string, error) {
	htmlBody, err := readOptionalFile(cmd, "html-body", f.htmlBody)
	if err != nil {
		return nil, nil, err
	}
	textBody, err := readOptionalFile(cmd, "text-body", f.textBody)
	if err != nil {
		return nil, nil, err
	}
	return htmlBody, textBody, nil
}

func readOptionalFile(cmd *cobra.Command, flag string, path string) (*string, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("--%s requires a file path", flag)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read --%s file: %w", flag, err)
	}
	value := string(content)
	return &value, nil
}

func newTemplatesCreateCommand(runtime Runtime) *cobra.Command {
	var (
		bodies templateBodyFlags
		alias  string
	)

	cmd := &cobra.Command{
		Use:     "create <name> <subject>",
		Short:   "Create a template",
		Example: `  pm templates create "Welcome" "Hello {{name}}" --html-body welcome.html --text-body welcome.txt --alias welcome-v1`,
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("Creating new template %s", args[0])
			return runAPICall(cmd, runtime, serverCall("pm templates create", title, func(cred postmark.Credential) (postmark.Request, error) {
				htmlBody, textBody, err := bodies.read(cmd)
				if err != nil {
					return postmark.Request{}, err
				}
				return postmark.CreateTemplate(cred, postmark.TemplateContent{
					Name:     args[0],
					Subject:  args[1],
					HTMLBody: htmlBody,
					TextBody: textBody,
					Alias:    alias,
				})
			}))
		},
	}

	bodies.bind(cmd)
	cmd.Flags().StringVar(&alias, "alias", "", "Alias; letters, digits, '.', '-', '_', starting with a letter")
	return cmd
}

func newTemplatesEditCommand(runtime Runtime) *cobra.Command {
	var (
		bodies templateBodyFlags
		alias  string
	)

	cmd := &cobra.Command{
		Use:   "edit <template-id-or-alias> <name> <subject>",
		Short: "Edit a template",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := fmt.Sprintf("Editing template %s", args[0])
			return runAPICall(cmd, runtime, serverCall("pm templates edit", title, func(cred postmark.Credential) (postmark.Request, error) {
				htmlBody, textBody, err := bodies.read(cmd)
				if err != nil {
					return postmark.Request{}, err
				}
				return postmark.EditTemplate(cred, args[0], postmark.TemplateContent{
					Name:     args[1],
					Subject:  args[2],
					HTMLBody: htmlBody,
					TextBody: textBody,
					Alias:    alias,
				})
			}))
		},
	}

	bodies.bind(cmd)
	cmd.Flags().StringVar(&alias, "alias", "", "New alias")
	return cmd
}

func newTemplatesDeleteCommand(runtime Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <template-id-or-alias>",
		Short: "Delete a template",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates delete", "Deleting template", func(cred postmark.Credential) (postmark.Request, error) {
				return postmark.DeleteTemplate(cred, args[0])
			}))
		},
	}
}

func newTemplatesValidateCommand(runtime Runtime) *cobra.Command {
	var (
		bodies      templateBodyFlags
		renderModel string
		inlineCSS   bool
	)

	cmd := &cobra.Command{
		Use:   "validate <subject>",
		Short: "Render a template against a test model without saving it",
		Example: `  pm templates validate "Hello {{name}}" --html-body welcome.html --test-render-model model.json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAPICall(cmd, runtime, serverCall("pm templates validate", "Validating template.", func(cred postmark.Credential) (postmark.Request, error) {
				htmlBody, textBody, err := bodies.read(cmd)
				if err != nil {
					return postmark.Request{}, err
				}
				validation := postmark.TemplateValidation{
					Subject:                    args[0],
					HTMLBody:                   htmlBody,
					TextBody:                   textBody,
					InlineCSSForHTMLTestRender: changedBool(cmd, "inline-css", inlineCSS),
				}
				if cmd.Flags().Changed("test-render-model") {
					model, err := payload.Load(payload.KindRenderModel, renderModel)
					if err != nil {
						return postmark.Request{}, err
					}
					validation.TestRenderModel = json.RawMessage(model)
				}
				return postmark.ValidateTemplate(cred, validation)
			}))
		},
	}

	bodies.bind(cmd)
	cmd.Flags().StringVar(&renderModel, "test-render-model", "", "JSON or YAML file with the model to render against")
	cmd.Flags().BoolVar(&inlineCSS, "inline-css", true, "Inline CSS in the rendered HtmlBody")
	return cmd
}
