package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newSnapshotCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot <document>",
		Short: "Export the resolved document as YAML",
		Long: `Evaluate a configuration document and write its resolved entries as
YAML, with all scripted logic already executed.`,
		Example: `  # Print the resolved document
  starops snapshot config.star

  # Write it to a file
  starops snapshot config.star -o resolved.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			if output == "" {
				return doc.WriteSnapshot(os.Stdout)
			}
			if err := doc.SaveSnapshot(output); err != nil {
				return err
			}
			log.Info().Str("document", doc.Path()).Str("output", output).Msg("Snapshot written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}
