package revisor

// EditOption configures a single Edit or Ask call.
type EditOption func(*editConfig)

type editConfig struct {
	replace     bool
	selection   string
	fileName    string
	credentials []string
}

// ReplaceMode asks the model for literal substitutions instead of locating
// and rewriting regions.
func ReplaceMode() EditOption {
	return func(c *editConfig) {
		c.replace = true
	}
}

// Selection restricts replace mode to content containing text.
func Selection(text string) EditOption {
	return func(c *editConfig) {
		c.selection = text
	}
}

// FileName is passed to the model as context.
func FileName(name string) EditOption {
	return func(c *editConfig) {
		c.fileName = name
	}
}

// Credentials overrides the client's default credentials for one call.
func Credentials(creds ...string) EditOption {
	return func(c *editConfig) {
		c.credentials = append(c.credentials, creds...)
	}
}

func applyEditOptions(opts []EditOption) editConfig {
	var c editConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}
