// Package rules checks a configuration document against a declarative YAML
// rule file: a list of entries with their expected types and constraints.
package rules

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/starops/starops/pkg/document"
)

// Rule describes one expected entry of a configuration document.
type Rule struct {
	// Entry is the entry path, relative to the rule set prefix.
	Entry string `yaml:"entry" validate:"required"`

	// Type is the expected type of the entry.
	Type string `yaml:"type" validate:"required,oneof=bool int float double string bools ints floats doubles strings table"`

	// Constraint is an optional boolean Starlark expression over v.
	Constraint string `yaml:"constraint,omitempty"`

	// Required fails the check when the entry is absent. Optional entries
	// that are absent are skipped.
	Required bool `yaml:"required,omitempty"`
}

// RuleSet is a parsed rule file.
type RuleSet struct {
	// Prefix is prepended to every rule's entry path.
	Prefix string `yaml:"prefix,omitempty"`

	// Rules are the entry expectations.
	Rules []Rule `yaml:"rules" validate:"required,min=1,dive"`
}

// Result is the outcome of checking one rule.
type Result struct {
	// Entry is the rule's entry path.
	Entry string

	// Type is the rule's expected type.
	Type string

	// Skipped indicates an optional entry that was absent.
	Skipped bool

	// Err is the failure, nil when the rule passed.
	Err error
}

// OK reports whether the rule passed or was skipped.
func (r Result) OK() bool {
	return r.Err == nil
}

// Load reads and parses a rule file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	return Parse(data)
}

// Parse parses rule file contents and validates their structure.
func Parse(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	if err := validator.New().Struct(&rs); err != nil {
		return nil, fmt.Errorf("invalid rule file: %w", err)
	}
	return &rs, nil
}

// Check validates every rule against the document and returns one result per
// rule, in rule order. The document's prefix is scoped to the rule set
// prefix for the duration of the check.
func (rs *RuleSet) Check(doc *document.Document) []Result {
	results := make([]Result, 0, len(rs.Rules))
	_ = doc.WithPrefix(rs.Prefix, func(doc *document.Document) error {
		for _, rule := range rs.Rules {
			results = append(results, checkRule(doc, rule))
		}
		return nil
	})
	return results
}

func checkRule(doc *document.Document, rule Rule) Result {
	result := Result{Entry: rule.Entry, Type: rule.Type}

	if !doc.Exists(rule.Entry) {
		if rule.Required {
			result.Err = &document.AccessError{
				Kind:     document.KindEntryNotFound,
				Entry:    doc.Prefix() + rule.Entry,
				Document: doc.Path(),
				Message:  "the entry was not found",
			}
		} else {
			result.Skipped = true
		}
		return result
	}

	switch rule.Type {
	case "bool":
		result.Err = checkScalar[bool](doc, rule)
	case "int":
		result.Err = checkScalar[int](doc, rule)
	case "float":
		result.Err = checkScalar[float32](doc, rule)
	case "double":
		result.Err = checkScalar[float64](doc, rule)
	case "string":
		result.Err = checkScalar[string](doc, rule)
	case "bools":
		result.Err = checkSlice[bool](doc, rule)
	case "ints":
		result.Err = checkSlice[int](doc, rule)
	case "floats":
		result.Err = checkSlice[float32](doc, rule)
	case "doubles":
		result.Err = checkSlice[float64](doc, rule)
	case "strings":
		result.Err = checkSlice[string](doc, rule)
	case "table":
		_, result.Err = doc.Entries(rule.Entry)
	default:
		result.Err = fmt.Errorf("unknown rule type %q", rule.Type)
	}
	return result
}

func checkScalar[T document.Scalar](doc *document.Document, rule Rule) error {
	_, err := document.GetChecked[T](doc, rule.Entry, rule.Constraint)
	return err
}

func checkSlice[T document.Scalar](doc *document.Document, rule Rule) error {
	_, err := document.GetSliceChecked[T](doc, rule.Entry, rule.Constraint)
	return err
}
