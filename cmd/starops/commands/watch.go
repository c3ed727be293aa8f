package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/starops/starops/pkg/rules"
)

func newWatchCommand() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "watch <document>",
		Short: "Watch a document and re-validate it on change",
		Long: `Watch a configuration document and re-evaluate it whenever the file
changes. With --rules, every reload is validated against the rule file.`,
		Example: `  # Re-evaluate on every change
  starops watch config.star

  # Re-validate against rules on every change
  starops watch config.star --rules rules.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ruleSet *rules.RuleSet
			if rulesPath != "" {
				var err error
				ruleSet, err = rules.Load(rulesPath)
				if err != nil {
					return err
				}
			}

			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			validate := func() {
				if ruleSet == nil {
					return
				}
				if err := reportResults(doc, ruleSet.Check(doc)); err != nil {
					log.Warn().Err(err).Msg("Validation failed")
				}
			}
			validate()

			ctx := cmd.Context()
			err = doc.Watch(ctx, func(err error) {
				if err != nil {
					return
				}
				if prefix != "" {
					doc.SetPrefix(prefix)
				}
				validate()
			})
			if err != nil {
				return err
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule file to re-validate on change")

	return cmd
}
