package config

import "errors"

var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration for the application. Keys are flat so the
// same name works in YAML and, upper-cased with the KENDO_ prefix, in the
// environment.
type Config struct {
	DBName             string `koanf:"db_name"`
	Port               string `koanf:"port"`
	TursoPrimaryURL    string `koanf:"turso_primary_url"`
	TursoAuthToken     string `koanf:"turso_auth_token"`
	SlackBotToken      string `koanf:"slack_bot_token"`
	SlackChannelID     string `koanf:"slack_channel_id"`
	SlackSigningSecret string `koanf:"slack_signing_secret"`
	GCPProject         string `koanf:"gcp_project"`
	LogLevel           string `koanf:"log_level"`
	LogFormat          string `koanf:"log_format"`

	// Applied to the settings on first start, before anything was recorded.
	DefaultFormat   string `koanf:"default_format"`
	PromptTechnique bool   `koanf:"prompt_technique"`
}

// SlackEnabled reports whether notifications can be posted.
func (c Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannelID != ""
}

// Remote reports whether the database lives on Turso.
func (c Config) Remote() bool {
	return c.TursoPrimaryURL != ""
}
