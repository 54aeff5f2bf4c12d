package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sendgrid-mailer/pkg/mailer"
)

func newTemplateCmd(a *app) *cobra.Command {
	var (
		params   mailer.TemplateParams
		dataFile string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "template <name>",
		Short: "Render a markdown template and send it",
		Long: `Render a markdown template from the templates directory, wrap it in a
layout and send it. With --dry-run the rendered message is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params.Template = args[0]
			if params.From == "" {
				params.From = a.cfg.Defaults.From
			}

			if dataFile != "" {
				data, err := loadTemplateData(dataFile)
				if err != nil {
					return err
				}
				params.Data = data
			}

			renderer := mailer.NewRenderer(os.DirFS(a.cfg.Templates.Dir))

			if dryRun {
				m := mailer.New(nil, a.cfg.MailerConfig(), mailer.WithRenderer(renderer))
				msg, err := m.RenderMessage(params)
				if err != nil {
					return err
				}
				_, err = msg.WriteTo(cmd.OutOrStdout())
				return err
			}

			m, err := a.newMailer(false, mailer.WithRenderer(renderer))
			if err != nil {
				return err
			}

			msg, _, err := m.SendTemplate(cmd.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", msg.Delivery.StatusCode, msg.Delivery.MessageID)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&params.To, "to", nil, "recipient address (repeatable)")
	cmd.Flags().StringSliceVar(&params.CC, "cc", nil, "carbon copy address (repeatable)")
	cmd.Flags().StringSliceVar(&params.ReplyTo, "reply-to", nil, "reply-to address")
	cmd.Flags().StringSliceVar(&params.Categories, "category", nil, "category (repeatable)")
	cmd.Flags().StringVar(&params.From, "from", "", "sender address (default from config)")
	cmd.Flags().StringVar(&params.Subject, "subject", "", "subject, overrides the template")
	cmd.Flags().StringVar(&params.Layout, "layout", "", "layout file, overrides the default")
	cmd.Flags().StringVar(&dataFile, "data", "", "YAML file with template data")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rendered message instead of sending")

	return cmd
}

func loadTemplateData(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template data: %w", err)
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse template data: %w", err)
	}
	return data, nil
}
