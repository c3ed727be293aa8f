package document

import (
	"strconv"

	"go.starlark.net/starlark"
)

// segment is one hop of an entry path: either a field name or a 1-based
// element index.
type segment struct {
	name    string
	index   int
	indexed bool
}

// parsePath splits an entry path into segments. Field segments are separated
// by '.', index segments are '[' + decimal digits + ']' and may follow a
// field segment or another index segment directly: "m[1][2]" addresses
// element 2 of element 1 of m, while a '.' must always introduce a field
// name, so "a.[1]" is invalid. The boolean result is false on a syntax
// error: a leading separator, an empty field name, a trailing '.',
// unbalanced brackets, or non-digit index contents. An empty path parses to
// no segments and addresses the environment root.
func parsePath(path string) ([]segment, bool) {
	if path == "" {
		return nil, true
	}
	if path[0] == '.' || path[0] == '[' {
		return nil, false
	}

	var segs []segment
	i := 0
	for i < len(path) {
		if path[i] == '[' {
			close := -1
			for j := i + 1; j < len(path); j++ {
				if path[j] == ']' {
					close = j
					break
				}
			}
			if close < 0 || close == i+1 {
				return nil, false
			}
			digits := path[i+1 : close]
			for k := 0; k < len(digits); k++ {
				if digits[k] < '0' || digits[k] > '9' {
					return nil, false
				}
			}
			index, err := strconv.Atoi(digits)
			if err != nil {
				return nil, false
			}
			segs = append(segs, segment{index: index, indexed: true})
			i = close + 1

			// After an index segment a '.' separator is consumed; '[' starts
			// another index segment directly.
			if i < len(path) && path[i] == '.' {
				i++
				if i == len(path) || path[i] == '.' || path[i] == '[' {
					return nil, false
				}
			}
			continue
		}

		start := i
		for i < len(path) && path[i] != '.' && path[i] != '[' {
			if path[i] == ']' {
				return nil, false
			}
			i++
		}
		if i == start {
			return nil, false
		}
		segs = append(segs, segment{name: path[start:i]})

		if i < len(path) && path[i] == '.' {
			i++
			if i == len(path) || path[i] == '.' || path[i] == '[' {
				return nil, false
			}
		}
	}
	return segs, true
}

// Resolve walks an entry path through the document's table hierarchy,
// starting from the environment root, and stages the resolved value on the
// session stack. The boolean result is false when the path is syntactically
// invalid or any intermediate lookup is absent; the two are not
// distinguished at this layer. An empty path resolves to the entire
// environment root.
func (s *Session) Resolve(path string) (starlark.Value, bool) {
	segs, ok := parsePath(path)
	if !ok {
		return nil, false
	}

	var cur starlark.Value = s.root
	for _, seg := range segs {
		var next starlark.Value
		var found bool
		if seg.indexed {
			next, found = s.Index(cur, seg.index)
		} else {
			next, found = s.Field(cur, seg.name)
		}
		if !found {
			return nil, false
		}
		cur = next
	}

	s.Push(cur)
	return cur, true
}
