package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/starops/starops/pkg/document"
)

var (
	// Global flags
	prefix  string
	verbose bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "starops",
		Short: "Typed access to Starlark configuration documents",
		Long: `starops reads configuration documents written as Starlark scripts and
retrieves their entries as typed, validated values.

Features:
  - Dotted and bracket-indexed entry paths (e.g. compositions.concerti[2])
  - Strict typed conversion, including integer exactness
  - Boolean Starlark constraints over the implicit variable v
  - Declarative rule files validating whole documents
  - Resolved-document snapshots as YAML
  - Watch mode re-validating the document on change`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&prefix, "prefix", "p", "", "prefix prepended to every entry name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGetCommand())
	rootCmd.AddCommand(newEntriesCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// openDocument evaluates a configuration document and applies the global
// prefix flag.
func openDocument(path string) (*document.Document, error) {
	doc, err := document.Open(path, log.Logger)
	if err != nil {
		return nil, err
	}
	if prefix != "" {
		doc.SetPrefix(prefix)
	}
	return doc, nil
}
