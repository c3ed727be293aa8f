package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// predicateName is the name under which constraint predicates are defined
// inside the session.
const predicateName = "ops_check_constraint"

// Session owns one Starlark interpreter environment holding an evaluated
// configuration document. It exposes the narrow capability set the accessor
// needs: global and field lookup, indexed lookup, table iteration, predicate
// evaluation, user function invocation, and a staging stack for intermediate
// values.
//
// A Session is not safe for concurrent use; see Document.
type Session struct {
	id          string
	path        string
	thread      *starlark.Thread
	fileOpts    *syntax.FileOptions
	predeclared starlark.StringDict
	globals     starlark.StringDict
	root        *starlark.Dict
	stack       []starlark.Value
	logger      zerolog.Logger
}

// newSession evaluates a document and returns a session over its globals.
// src may be nil (read from path) or inline source per starlark.ExecFile.
func newSession(path string, src interface{}, logger zerolog.Logger) (*Session, error) {
	s := &Session{
		id:   uuid.New().String(),
		path: path,
		// Generous dialect settings: configuration documents may use loops,
		// set literals and reassignment at top level.
		fileOpts: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
	}
	s.logger = logger.With().Str("component", "session").Str("session_id", s.id).Logger()
	s.thread = &starlark.Thread{
		Name: "starops",
		Print: func(_ *starlark.Thread, msg string) {
			s.logger.Debug().Str("document", path).Msg(msg)
		},
	}
	s.predeclared = starlark.StringDict{
		"ops_in": starlark.NewBuiltin("ops_in", builtinOpsIn),
	}

	globals, err := starlark.ExecFileOptions(s.fileOpts, s.thread, path, src, s.predeclared)
	if err != nil {
		return nil, &AccessError{
			Kind:     KindLoadFailure,
			Document: path,
			Message:  "failed to evaluate document",
			Err:      err,
		}
	}
	s.globals = globals

	// The environment root is the document's globals as a table. Names
	// starting with '_' are private to the script.
	s.root = starlark.NewDict(len(globals))
	for _, name := range globals.Keys() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		if err := s.root.SetKey(starlark.String(name), globals[name]); err != nil {
			return nil, &AccessError{
				Kind:     KindLoadFailure,
				Document: path,
				Message:  "failed to build environment root",
				Err:      err,
			}
		}
	}

	s.logger.Debug().Str("document", path).Int("globals", s.root.Len()).Msg("Document evaluated")
	return s, nil
}

// Root returns the table holding the document's top-level entries.
func (s *Session) Root() *starlark.Dict {
	return s.root
}

// Global looks up a top-level entry by name.
func (s *Session) Global(name string) (starlark.Value, bool) {
	return s.Field(s.root, name)
}

// Field descends one level into a table by field name. The boolean result is
// false when v is not a table or the field is absent or None.
func (s *Session) Field(v starlark.Value, name string) (starlark.Value, bool) {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return nil, false
	}
	val, found, err := dict.Get(starlark.String(name))
	if err != nil || !found {
		return nil, false
	}
	if _, isNone := val.(starlark.NoneType); isNone {
		return nil, false
	}
	return val, true
}

// Index descends one level into a table by 1-based element index. On a
// sequence, index k selects the k-th element; on a dict, the integer key k.
func (s *Session) Index(v starlark.Value, k int) (starlark.Value, bool) {
	switch t := v.(type) {
	case *starlark.List:
		if k < 1 || k > t.Len() {
			return nil, false
		}
		return t.Index(k - 1), true
	case starlark.Tuple:
		if k < 1 || k > t.Len() {
			return nil, false
		}
		return t.Index(k - 1), true
	case *starlark.Dict:
		val, found, err := t.Get(starlark.MakeInt(k))
		if err != nil || !found {
			return nil, false
		}
		if _, isNone := val.(starlark.NoneType); isNone {
			return nil, false
		}
		return val, true
	default:
		return nil, false
	}
}

// IsTable reports whether v is a table (dict, list or tuple).
func (s *Session) IsTable(v starlark.Value) bool {
	switch v.(type) {
	case *starlark.Dict, *starlark.List, starlark.Tuple:
		return true
	default:
		return false
	}
}

// Item is one (key, value) pair yielded by table iteration. Keys are
// rendered as strings; sequence elements get 1-based decimal keys.
type Item struct {
	Key   string
	Value starlark.Value
}

// Items iterates a table, yielding its (key, value) pairs. The boolean
// result is false when v is not a table. Order is the table's own iteration
// order and must not be relied upon by callers.
func (s *Session) Items(v starlark.Value) ([]Item, bool) {
	switch t := v.(type) {
	case *starlark.Dict:
		pairs := t.Items()
		items := make([]Item, 0, len(pairs))
		for _, kv := range pairs {
			items = append(items, Item{Key: keyString(kv[0]), Value: kv[1]})
		}
		return items, true
	case *starlark.List:
		items := make([]Item, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			items = append(items, Item{Key: fmt.Sprintf("%d", i+1), Value: t.Index(i)})
		}
		return items, true
	case starlark.Tuple:
		items := make([]Item, 0, t.Len())
		for i := 0; i < t.Len(); i++ {
			items = append(items, Item{Key: fmt.Sprintf("%d", i+1), Value: t.Index(i)})
		}
		return items, true
	default:
		return nil, false
	}
}

// keyString renders a table key for listings and diagnostics.
func keyString(k starlark.Value) string {
	if str, ok := k.(starlark.String); ok {
		return string(str)
	}
	return k.String()
}

// EvalPredicate defines a transient single-parameter predicate whose return
// expression is the constraint text verbatim, then calls it with arg bound
// to the parameter v. The document's own globals are in scope, so a
// constraint may reference other entries.
func (s *Session) EvalPredicate(constraint string, arg starlark.Value) (starlark.Value, error) {
	src := "def " + predicateName + "(v):\n    return " + constraint + "\n"

	env := make(starlark.StringDict, len(s.predeclared)+len(s.globals))
	for name, val := range s.predeclared {
		env[name] = val
	}
	for name, val := range s.globals {
		env[name] = val
	}

	globals, err := starlark.ExecFileOptions(s.fileOpts, s.thread, "<constraint>", src, env)
	if err != nil {
		return nil, err
	}
	fn, ok := globals[predicateName].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("constraint did not define a callable predicate")
	}
	return starlark.Call(s.thread, fn, starlark.Tuple{arg}, nil)
}

// Call invokes a function defined by the document with the given arguments.
func (s *Session) Call(name string, args ...starlark.Value) (starlark.Value, error) {
	fn, ok := s.globals[name]
	if !ok {
		return nil, fmt.Errorf("function %q is not defined", name)
	}
	callable, ok := fn.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%q is not callable (got %s)", name, fn.Type())
	}
	return starlark.Call(s.thread, callable, starlark.Tuple(args), nil)
}

// Push stages a value on the session stack.
func (s *Session) Push(v starlark.Value) {
	s.stack = append(s.stack, v)
}

// Pop removes and returns the top of the session stack.
func (s *Session) Pop() (starlark.Value, bool) {
	if len(s.stack) == 0 {
		return nil, false
	}
	v := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return v, true
}

// Depth returns the current stack depth.
func (s *Session) Depth() int {
	return len(s.stack)
}

// Rewind truncates the stack back to depth. Depths beyond the current top
// are ignored.
func (s *Session) Rewind(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth < len(s.stack) {
		s.stack = s.stack[:depth]
	}
}

// ClearStack drops every staged value.
func (s *Session) ClearStack() {
	s.stack = s.stack[:0]
}

// builtinOpsIn implements the ops_in(v, seq) membership helper available to
// constraint expressions and documents.
func builtinOpsIn(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	var seq starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &v, &seq); err != nil {
		return nil, err
	}

	iter := seq.Iterate()
	defer iter.Done()

	var x starlark.Value
	for iter.Next(&x) {
		eq, err := starlark.Equal(v, x)
		if err != nil {
			return nil, err
		}
		if eq {
			return starlark.True, nil
		}
	}
	return starlark.False, nil
}
