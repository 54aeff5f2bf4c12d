// Package cli implements the sgmail command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sendgrid-mailer/internal/config"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/logger"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/metrics"
)

const sentryFlushTimeout = 2 * time.Second

// app is the state shared by all commands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	envFile string
	debug   bool

	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
}

// Option configures the root command.
type Option func(*app)

// WithOutput redirects command output and logs.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *app) {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewRootCmd creates the sgmail command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "sgmail",
		Short: "Send e-mail through SendGrid",
		Long: `sgmail sends messages described in YAML files through the SendGrid v3 API.

Example:
  sgmail send welcome.yaml         # Send every message in the file
  sgmail build welcome.yaml        # Print the SendGrid payload without sending
  sgmail template welcome.md --to alice@example.com`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to read before the environment")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug mode (sandbox and debug logs)")

	root.AddCommand(newSendCmd(a))
	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newTemplateCmd(a))

	return root
}

// Execute runs the sgmail command line.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnvFile(a.envFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Debug = true
	}
	a.cfg = cfg

	a.logger = logger.New(cfg.LoggerConfig(), a.stderr,
		logger.RunIDExtractor,
		logger.MessageIndexExtractor,
	)

	if cfg.Metrics.Textfile != "" {
		a.registry = prometheus.NewRegistry()
		a.metrics = metrics.New(a.registry)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logger.WithRunID(ctx, uuid.NewString()))

	a.logger.DebugContext(cmd.Context(), "configuration loaded",
		slog.String("provider", cfg.Provider),
		slog.Bool("debug", cfg.Debug),
	)
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	defer logger.FlushSentry(sentryFlushTimeout)

	if a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.Metrics.Textfile, a.registry); err != nil {
		a.logger.ErrorContext(ctx, "failed to write metrics", slog.String("error", err.Error()))
		return err
	}
	return nil
}
