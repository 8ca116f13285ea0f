package cmd

import (
	"errors"
	"fmt"

	"github.com/bilalbayram/postmarkcli/internal/auth"
	"github.com/bilalbayram/postmarkcli/internal/output"
	"github.com/spf13/cobra"
)

func writeSuccess(cmd *cobra.Command, runtime Runtime, commandName string, message string, data any) error {
	format := selectedOutputFormat(runtime)
	if !output.Structured(format) {
		return output.NewPrinter(cmd.OutOrStdout()).Success(message)
	}
	envelope, err := output.NewEnvelope(commandName, true, 0, data, nil)
	if err != nil {
		return err
	}
	return output.Write(cmd.OutOrStdout(), format, envelope)
}

// writeCommandError reports a failure that happened before a request was
// dispatched.
func writeCommandError(cmd *cobra.Command, runtime Runtime, commandName string, err error) error {
	if err == nil {
		return nil
	}

	format := selectedOutputFormat(runtime)
	if !output.Structured(format) {
		if writeErr := output.NewPrinter(cmd.ErrOrStderr()).Error(err.Error()); writeErr != nil {
			return fmt.Errorf("%w (secondary output error: %v)", err, writeErr)
		}
		return &output.PrintedError{Err: err}
	}

	errorInfo := &output.ErrorInfo{
		Type:    output.ErrorTypeCommand,
		Message: err.Error(),
	}
	var inputErr *InputError
	var missing *auth.MissingCredentialError
	var cfgErr *ConfigError
	switch {
	case errors.As(err, &inputErr):
		errorInfo.Type = "input_error"
	case errors.As(err, &missing):
		errorInfo.Type = "auth_error"
	case errors.As(err, &cfgErr):
		errorInfo.Type = "config_error"
	}

	envelope, envErr := output.NewEnvelope(commandName, false, 0, nil, errorInfo)
	if envErr != nil {
		return fmt.Errorf("%w (secondary output error: %v)", err, envErr)
	}
	if writeErr := output.Write(cmd.ErrOrStderr(), format, envelope); writeErr != nil {
		return fmt.Errorf("%w (secondary output error: %v)", err, writeErr)
	}
	return &output.PrintedError{Err: err}
}

func selectedOutputFormat(runtime Runtime) string {
	if runtime.Output == nil || *runtime.Output == "" {
		return output.FormatText
	}
	return *runtime.Output
}
