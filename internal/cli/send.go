package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sendgrid-mailer/internal/msgfile"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		echo         bool
		failSilently bool
	)

	cmd := &cobra.Command{
		Use:   "send <file>...",
		Short: "Send the messages described in YAML files",
		Long: `Send every message found in the given YAML files, in order.

Validation errors stop the run. Delivery failures stop it too, unless
--fail-silently is set, in which case they are logged and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if failSilently {
				a.cfg.FailSilently = true
			}

			loader := msgfile.NewLoader(a.cfg.Defaults)
			var msgs []*mailer.Message
			for _, path := range args {
				loaded, err := loader.LoadFile(path)
				if err != nil {
					return err
				}
				msgs = append(msgs, loaded...)
			}

			m, err := a.newMailer(echo)
			if err != nil {
				return err
			}

			result, err := m.SendMessages(ctx, msgs...)
			if err != nil {
				return err
			}

			for _, e := range result.Suppressed {
				a.logger.WarnContext(ctx, "message not sent",
					slog.Int("message_index", e.Index),
					slog.String("error", e.Err.Error()),
				)
			}
			a.logger.InfoContext(ctx, "send finished",
				slog.Int("sent", result.Sent),
				slog.Int("failed", len(result.Suppressed)),
			)

			for i, msg := range msgs {
				if msg.Delivery.StatusCode == 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\n", i, msg.Delivery.StatusCode, msg.Delivery.MessageID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&echo, "echo", false, "write each message to stdout before sending")
	cmd.Flags().BoolVar(&failSilently, "fail-silently", false, "skip messages the provider rejects")

	return cmd
}
