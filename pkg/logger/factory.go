package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// ErrUnknownFormat indicates an output format other than json or text.
var ErrUnknownFormat = errors.New("unknown log format")

// Config holds logger configuration.
type Config struct {
	Level  string       `mapstructure:"level"`
	Format string       `mapstructure:"format"`
	Sentry SentryConfig `mapstructure:"-"`
}

// New creates a logger writing to w in the configured format, with optional
// context extractors. Sentry is enabled when cfg.Sentry.DSN is set.
func New(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	handler := newHandler(cfg, w)

	if cfg.Sentry.DSN != "" {
		sentryHandler, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			// Keep logging locally if Sentry cannot start
			slog.New(handler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		} else {
			handler = fanoutHandler{handler, sentryHandler}
		}
	}

	return slog.New(NewContextHandler(handler, extractors...))
}

// NewNope returns a logger that discards everything.
// Packages use it when no logger is configured.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseFormat normalises a format name. Empty means json.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func newHandler(cfg Config, w io.Writer) slog.Handler {
	level := ParseLevel(cfg.Level)

	if strings.EqualFold(cfg.Format, FormatText) {
		return charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(level),
			ReportTimestamp: true,
		})
	}

	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}
