package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEntriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries <document> [entry]",
		Short: "List the entries of a document table",
		Long: `List the keys of a table entry, sorted lexically. Without an entry
argument the top-level entries of the whole document are listed.`,
		Example: `  # List top-level entries
  starops entries config.star

  # List the entries of a nested table
  starops entries config.star name`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			keys, err := doc.Entries(name)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Println(key)
			}
			return nil
		},
	}
	return cmd
}
