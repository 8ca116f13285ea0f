package cmd

// InputError marks a local validation failure. No request was sent.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigError marks a failure to load or save the profile configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func inputError(err error) error {
	if err == nil {
		return nil
	}
	return &InputError{Err: err}
}

func configError(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}
