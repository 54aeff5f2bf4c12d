// Package logger builds the structured loggers used by the mailer packages.
//
// Loggers are plain *slog.Logger values. The package adds three things on
// top of log/slog: context extractors that inject per-send values (run id,
// batch position), a human-readable text format for terminals, and optional
// Sentry reporting.
//
// # Basic Usage
//
//	log := logger.New(logger.Config{Level: "info", Format: "json"}, os.Stdout,
//		logger.RunIDExtractor,
//		logger.MessageIndexExtractor,
//	)
//
//	ctx := logger.WithRunID(context.Background(), "run-42")
//	log.InfoContext(ctx, "batch started", slog.Int("messages", 3))
//	// {"level":"INFO","msg":"batch started","messages":3,"run_id":"run-42"}
//
// # Sentry Integration
//
// Set Config.Sentry.DSN to forward warnings and errors to Sentry as well.
// With an empty DSN, or when Sentry fails to initialise, logging continues
// to the configured writer only.
//
// # Context Handler
//
// ContextHandler adds context extraction to any slog.Handler:
//
//	log := slog.New(logger.NewContextHandler(handler, logger.RunIDExtractor))
package logger
