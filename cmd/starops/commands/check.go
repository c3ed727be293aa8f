package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/starops/starops/pkg/document"
)

func newCheckCommand() *cobra.Command {
	var (
		entry    string
		literal  string
		typeName string
	)

	cmd := &cobra.Command{
		Use:   "check <document> <constraint>",
		Short: "Check a constraint against an entry or a literal value",
		Example: `  # Check a constraint against a document entry
  starops check config.star "v >= 0 and v < 150" --entry death_age

  # Check a constraint against a literal value
  starops check config.star "ops_in(v, {'Messiah', 'Water Music'})" --value "Water Music"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (entry != "") == cmd.Flags().Changed("value") {
				return fmt.Errorf("exactly one of --entry and --value is required")
			}

			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			constraint := args[1]
			var satisfied bool
			if entry != "" {
				satisfied, err = doc.CheckConstraint(entry, constraint)
			} else {
				satisfied, err = checkLiteral(doc, literal, typeName, constraint)
			}
			if err != nil {
				return err
			}
			fmt.Println(satisfied)
			return nil
		},
	}

	cmd.Flags().StringVarP(&entry, "entry", "e", "", "entry to check")
	cmd.Flags().StringVar(&literal, "value", "", "literal value to check instead of an entry")
	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "type of --value (bool|int|float|double|string)")

	return cmd
}

// checkLiteral checks a constraint against a value that did not come from
// the document.
func checkLiteral(doc *document.Document, literal, typeName, constraint string) (bool, error) {
	switch typeName {
	case "bool":
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return false, fmt.Errorf("invalid value %q: %w", literal, err)
		}
		return document.CheckValue(doc, v, constraint)
	case "int":
		v, err := strconv.Atoi(literal)
		if err != nil {
			return false, fmt.Errorf("invalid value %q: %w", literal, err)
		}
		return document.CheckValue(doc, v, constraint)
	case "float":
		v, err := parseFloat32(literal)
		if err != nil {
			return false, fmt.Errorf("invalid value %q: %w", literal, err)
		}
		return document.CheckValue(doc, v, constraint)
	case "double":
		v, err := parseFloat64(literal)
		if err != nil {
			return false, fmt.Errorf("invalid value %q: %w", literal, err)
		}
		return document.CheckValue(doc, v, constraint)
	case "string":
		return document.CheckValue(doc, literal, constraint)
	default:
		return false, fmt.Errorf("unknown type %q", typeName)
	}
}
