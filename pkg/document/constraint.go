package document

import (
	"strings"

	"go.starlark.net/starlark"
)

// formatConstraint echoes constraint text for error messages. Constraints
// using the ops_in membership helper get an explanatory note appended.
func formatConstraint(constraint string) string {
	text := "      " + constraint
	if strings.Contains(constraint, "ops_in") {
		text += "\n      Note: 'ops_in(v, seq)' checks whether 'v' is part of the sequence 'seq'."
	}
	return text
}

// evalConstraint evaluates constraint with v bound to its parameter and
// reports whether it is satisfied. An empty constraint is always satisfied.
// The error is non-nil only when the constraint text itself is malformed:
// it failed to evaluate, or did not produce a boolean.
func (d *Document) evalConstraint(entry, constraint string, v starlark.Value) (bool, error) {
	if constraint == "" {
		return true, nil
	}

	result, err := d.session.EvalPredicate(constraint, v)
	if err != nil {
		return false, &AccessError{
			Kind:     KindMalformedConstraint,
			Entry:    entry,
			Document: d.session.path,
			Message:  "failed to evaluate the constraint:\n" + formatConstraint(constraint),
			Err:      err,
		}
	}

	ok, isBool := tryConvert[bool](result)
	if !isBool {
		return false, &AccessError{
			Kind:     KindMalformedConstraint,
			Entry:    entry,
			Document: d.session.path,
			Message:  "the constraint did not return a boolean:\n" + formatConstraint(constraint),
		}
	}
	return ok, nil
}

// checkConstraint is the raising variant of evalConstraint: an unsatisfied
// constraint becomes an error naming the entry and echoing the constraint.
func (d *Document) checkConstraint(entry, constraint string, v starlark.Value) error {
	ok, err := d.evalConstraint(entry, constraint, v)
	if err != nil {
		return err
	}
	if !ok {
		return &AccessError{
			Kind:     KindConstraintNotSatisfied,
			Entry:    entry,
			Document: d.session.path,
			Message:  "the entry does not satisfy the constraint:\n" + formatConstraint(constraint),
		}
	}
	return nil
}
