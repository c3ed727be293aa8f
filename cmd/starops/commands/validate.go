package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/starops/starops/pkg/document"
	"github.com/starops/starops/pkg/rules"
)

func newValidateCommand() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a document against a rule file",
		Long: `Validate a configuration document against a YAML rule file listing the
expected entries, their types and optional constraints.`,
		Example: `  # Validate a document
  starops validate config.star --rules rules.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ruleSet, err := rules.Load(rulesPath)
			if err != nil {
				return err
			}

			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			results := ruleSet.Check(doc)
			return reportResults(doc, results)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "rule file path")
	_ = cmd.MarkFlagRequired("rules")

	return cmd
}

// reportResults prints one line per rule and fails when any rule failed.
func reportResults(doc *document.Document, results []rules.Result) error {
	failed := 0
	for _, result := range results {
		switch {
		case result.Skipped:
			fmt.Printf("SKIP  %-30s (%s) absent, not required\n", result.Entry, result.Type)
		case result.OK():
			fmt.Printf("OK    %-30s (%s)\n", result.Entry, result.Type)
		default:
			failed++
			fmt.Printf("FAIL  %-30s (%s)\n      %v\n", result.Entry, result.Type, result.Err)
		}
	}

	log.Info().
		Str("document", doc.Path()).
		Int("rules", len(results)).
		Int("failed", failed).
		Msg("Validation finished")

	if failed > 0 {
		return fmt.Errorf("%d of %d rules failed", failed, len(results))
	}
	return nil
}
