package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/starops/starops/pkg/document"
)

func newGetCommand() *cobra.Command {
	var (
		typeName   string
		constraint string
		defValue   string
	)

	cmd := &cobra.Command{
		Use:   "get <document> <entry>",
		Short: "Retrieve a typed entry from a document",
		Example: `  # Retrieve a string entry
  starops get config.star full_name

  # Retrieve an integer with a constraint
  starops get config.star death_age --type int --constraint "v >= 0 and v < 150"

  # Retrieve an integer sequence, validating every element
  starops get config.star compositions.concerti --type ints --constraint "v % 2 == 0"

  # Fall back to a default when the entry is absent
  starops get config.star show_compositions --type bool --default true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			defer doc.Close()

			hasDefault := cmd.Flags().Changed("default")
			value, err := getTyped(doc, args[1], typeName, constraint, defValue, hasDefault)
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "string", "entry type (bool|int|float|double|string|bools|ints|floats|doubles|strings)")
	cmd.Flags().StringVarP(&constraint, "constraint", "c", "", "boolean Starlark expression over v")
	cmd.Flags().StringVar(&defValue, "default", "", "default value when the entry is absent (scalars only)")

	return cmd
}

// getTyped dispatches a retrieval on the type named by the --type flag.
func getTyped(doc *document.Document, entry, typeName, constraint, def string, hasDefault bool) (interface{}, error) {
	switch typeName {
	case "bool":
		return getScalar(doc, entry, constraint, def, hasDefault, strconv.ParseBool)
	case "int":
		return getScalar(doc, entry, constraint, def, hasDefault, strconv.Atoi)
	case "float":
		return getScalar(doc, entry, constraint, def, hasDefault, parseFloat32)
	case "double":
		return getScalar(doc, entry, constraint, def, hasDefault, parseFloat64)
	case "string":
		return getScalar(doc, entry, constraint, def, hasDefault, parseString)
	case "bools":
		return document.GetSliceChecked[bool](doc, entry, constraint)
	case "ints":
		return document.GetSliceChecked[int](doc, entry, constraint)
	case "floats":
		return document.GetSliceChecked[float32](doc, entry, constraint)
	case "doubles":
		return document.GetSliceChecked[float64](doc, entry, constraint)
	case "strings":
		return document.GetSliceChecked[string](doc, entry, constraint)
	default:
		return nil, fmt.Errorf("unknown type %q", typeName)
	}
}

func getScalar[T document.Scalar](doc *document.Document, entry, constraint, def string, hasDefault bool, parse func(string) (T, error)) (interface{}, error) {
	if hasDefault {
		parsed, err := parse(def)
		if err != nil {
			return nil, fmt.Errorf("invalid default value %q: %w", def, err)
		}
		return document.GetDefault(doc, entry, constraint, parsed)
	}
	return document.GetChecked[T](doc, entry, constraint)
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

func parseFloat64(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func parseString(s string) (string, error) {
	return s, nil
}
