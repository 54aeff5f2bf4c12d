package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sendgrid-mailer/internal/msgfile"
	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer/sendgrid"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build <file>",
		Short: "Print the SendGrid payloads for a message file",
		Long: `Build the SendGrid mail/send payload for every message in the file and
print it as JSON, one document per message. Nothing is sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msgs, err := msgfile.NewLoader(a.cfg.Defaults).LoadFile(args[0])
			if err != nil {
				return err
			}

			builder := sendgrid.NewBuilder(a.cfg.SendGridConfig())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			for _, msg := range msgs {
				payload, err := builder.Build(msg)
				if err != nil {
					return err
				}
				if err := enc.Encode(payload); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
