// Package config loads sgmail configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/sendgrid-mailer/internal/msgfile"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/logger"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/resend"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/sendgrid"
)

// EnvPrefix is prepended to environment variable names, e.g. SGMAIL_DEBUG.
const EnvPrefix = "SGMAIL"

// Supported providers.
const (
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
)

// ErrUnknownProvider indicates a provider name other than sendgrid or resend.
var ErrUnknownProvider = errors.New("unknown mail provider")

// Config holds all configuration for sgmail.
type Config struct {
	Debug        bool   `mapstructure:"debug"`
	FailSilently bool   `mapstructure:"fail_silently"`
	Provider     string `mapstructure:"provider"`

	SendGrid  SendGridConfig      `mapstructure:"sendgrid"`
	Resend    resend.Config       `mapstructure:"resend"`
	Logging   logger.Config       `mapstructure:"logging"`
	Sentry    logger.SentryConfig `mapstructure:"sentry"`
	Metrics   MetricsConfig       `mapstructure:"metrics"`
	Templates TemplatesConfig     `mapstructure:"templates"`
	Defaults  msgfile.Defaults    `mapstructure:"defaults"`
}

// SendGridConfig extends the provider settings with the debug sandbox switch
// and the diagnostic echo.
type SendGridConfig struct {
	sendgrid.Config `mapstructure:",squash"`

	SandboxModeInDebug bool `mapstructure:"sandbox_mode_in_debug"`
	EchoToStdout       bool `mapstructure:"echo_to_stdout"`
}

// MetricsConfig controls the Prometheus text file written after each run.
// Metrics are collected only when Textfile is set.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// TemplatesConfig locates markdown templates and layouts.
type TemplatesConfig struct {
	Dir             string `mapstructure:"dir"`
	DefaultLayout   string `mapstructure:"default_layout"`
	FallbackSubject string `mapstructure:"fallback_subject"`
}

// LoadEnvFile sets environment variables from a dotenv file without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads configuration from configPath (optional) and environment
// variables, which override the file.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("debug", false)
	v.SetDefault("fail_silently", false)
	v.SetDefault("provider", ProviderSendGrid)

	v.SetDefault("sendgrid.host", sendgrid.DefaultHost)
	v.SetDefault("sendgrid.sandbox_mode", false)
	v.SetDefault("sendgrid.sandbox_mode_in_debug", true)
	v.SetDefault("sendgrid.track_email_opens", true)
	v.SetDefault("sendgrid.track_email_clicks", true)
	v.SetDefault("sendgrid.subscription_enable", false)
	v.SetDefault("sendgrid.echo_to_stdout", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", logger.FormatText)
	v.SetDefault("sentry.environment", "production")

	v.SetDefault("templates.dir", "templates")
	v.SetDefault("templates.default_layout", "base.html")
	v.SetDefault("templates.fallback_subject", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known provider variables work without the prefix
	_ = v.BindEnv("sendgrid.api_key", EnvPrefix+"_SENDGRID_API_KEY", "SENDGRID_API_KEY")
	_ = v.BindEnv("resend.api_key", EnvPrefix+"_RESEND_API_KEY", "RESEND_API_KEY")
	_ = v.BindEnv("sentry.dsn", EnvPrefix+"_SENTRY_DSN", "SENTRY_DSN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderSendGrid, ProviderResend:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if _, err := logger.ParseFormat(c.Logging.Format); err != nil {
		return err
	}
	return nil
}

// SendGridConfig returns the provider settings with sandbox mode resolved:
// it is on when set explicitly, or when debugging with sandbox_mode_in_debug.
func (c *Config) SendGridConfig() sendgrid.Config {
	cfg := c.SendGrid.Config
	cfg.SandboxMode = cfg.SandboxMode || sendgrid.SandboxInDebug(c.Debug, c.SendGrid.SandboxModeInDebug)
	return cfg
}

// MailerConfig returns the orchestrator settings.
func (c *Config) MailerConfig() mailer.Config {
	return mailer.Config{
		FallbackSubject: c.Templates.FallbackSubject,
		DefaultLayout:   c.Templates.DefaultLayout,
		FailSilently:    c.FailSilently,
	}
}

// LoggerConfig returns the logger settings with Sentry attached.
// Debug mode forces the debug level.
func (c *Config) LoggerConfig() logger.Config {
	cfg := c.Logging
	cfg.Sentry = c.Sentry
	if c.Debug {
		cfg.Level = "debug"
	}
	return cfg
}
