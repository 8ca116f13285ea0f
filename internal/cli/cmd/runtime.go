package cmd

// Runtime carries the root command's persistent flags into each group.
type Runtime struct {
	Profile      *string
	Output       *string
	Debug        *bool
	BaseURL      *string
	ServerToken  *string
	AccountToken *string
}

func (r Runtime) ProfileName() string {
	return deref(r.Profile)
}

func (r Runtime) DebugEnabled() bool {
	return r.Debug != nil && *r.Debug
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
