// Package document provides typed, constrained access to values stored in a
// Starlark configuration document.
//
// # Overview
//
// A configuration document is a small executable Starlark script. Opening a
// document evaluates the script once; its global variables become the
// document's entries. Callers then name an entry by a path, optionally
// scoped by a mutable prefix, and retrieve it as a concrete Go type,
// optionally validated against a boolean Starlark expression and optionally
// defaulted when absent.
//
// # Entry paths
//
// Paths mix dotted field segments and bracketed index segments, for example
// "compositions.concerti[2]". Index segments hold decimal digits and select
// 1-based table elements. A syntactically invalid path resolves to "not
// found" rather than raising a separate error.
//
// # Constraints
//
// A constraint is a boolean Starlark expression over the implicit variable
// v, bound to the value under test:
//
//	age, err := document.GetChecked[int](doc, "death_age", "v >= 0 and v < 150")
//
// The helper ops_in(v, seq) tests membership of v in a sequence or set:
//
//	title, err := document.GetChecked[string](doc, "one_composition",
//	    "ops_in(v, {'Messiah', 'Water Music'})")
//
// Sequence retrieval validates the constraint against every element
// individually. A default value returned for an absent entry is never
// constraint-checked.
//
// # Components
//
// Session: owns the Starlark interpreter environment and exposes the narrow
// capability set the accessor needs, including a staging stack for
// intermediate values that every operation restores on exit.
//
// Document: the accessor composing path resolution, typed conversion and
// constraint validation, plus entry listing, prefix management, constraint
// probing, document function invocation, YAML snapshot export, and
// fsnotify-driven reload.
//
// A Document is not safe for concurrent use; independent documents may be
// used concurrently with each other.
package document
