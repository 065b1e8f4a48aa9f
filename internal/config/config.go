package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/mauv0809/kendo-tally/internal/kendo"
)

const envPrefix = "KENDO_"

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		DBName:          "kendo.db",
		Port:            "8080",
		LogLevel:        "info",
		LogFormat:       "json",
		DefaultFormat:   string(kendo.FormatSanbon),
		PromptTechnique: true,
	}
}

// Load builds a Config by layering, from low to high precedence:
//  1. defaults
//  2. the YAML file named by KENDO_CONFIG, if set
//  3. KENDO_* environment variables, including those from a .env file
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	k := koanf.New(".")
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	}
	// KENDO_SLACK_BOT_TOKEN -> slack_bot_token
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.DBName == "" && !c.Remote() {
		return invalid("db_name must be set for a local database")
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		return invalid("port %q is not a valid port", c.Port)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return invalid("log_level %q: %v", c.LogLevel, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return invalid("log_format must be json or text, got %q", c.LogFormat)
	}
	if !kendo.Format(c.DefaultFormat).Valid() {
		return invalid("default_format %q is not a match format", c.DefaultFormat)
	}
	if (c.SlackBotToken == "") != (c.SlackChannelID == "") {
		return invalid("slack_bot_token and slack_channel_id must be set together")
	}
	if c.Remote() && c.TursoAuthToken == "" {
		return invalid("turso_auth_token is required with turso_primary_url")
	}
	return nil
}

// ApplyLogging configures the package-level logger.
func (c Config) ApplyLogging() {
	if c.LogFormat == "json" {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
}
