package document

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"go.starlark.net/starlark"
)

// Document provides typed, constrained access to the entries of one
// evaluated configuration document. Operations are synchronous and the
// document is not safe for concurrent use; independent documents each own an
// independent session and may be used concurrently with each other.
type Document struct {
	session *Session
	prefix  string
	logger  zerolog.Logger
}

// Open evaluates the configuration document at path and returns an accessor
// over its entries.
func Open(path string, logger zerolog.Logger) (*Document, error) {
	return open(path, nil, logger)
}

// OpenSource evaluates an inline configuration document. name identifies the
// document in diagnostics the way a file path would.
func OpenSource(name, src string, logger zerolog.Logger) (*Document, error) {
	return open(name, src, logger)
}

func open(path string, src interface{}, logger zerolog.Logger) (*Document, error) {
	session, err := newSession(path, src, logger)
	if err != nil {
		return nil, err
	}
	return &Document{
		session: session,
		logger:  logger.With().Str("component", "document").Str("document", path).Logger(),
	}, nil
}

// Close releases the document's session. The document must not be used
// afterwards.
func (d *Document) Close() {
	if d.session != nil {
		d.session.ClearStack()
		d.session = nil
	}
	d.prefix = ""
}

// Reload re-evaluates the document from its file and clears the prefix, as
// opening does. Inline documents cannot be reloaded.
func (d *Document) Reload() error {
	if d.session == nil {
		return &AccessError{Kind: KindLoadFailure, Message: "document is closed"}
	}
	session, err := newSession(d.session.path, nil, d.logger)
	if err != nil {
		return err
	}
	d.session = session
	d.prefix = ""
	d.logger.Debug().Msg("Document reloaded")
	return nil
}

// Path returns the path of the configuration document.
func (d *Document) Path() string {
	return d.session.path
}

// Session exposes the underlying scripting session.
func (d *Document) Session() *Session {
	return d.session
}

// Prefix returns the current entry name prefix.
func (d *Document) Prefix() string {
	return d.prefix
}

// SetPrefix sets the prefix prepended to every entry name.
func (d *Document) SetPrefix(prefix string) {
	d.prefix = prefix
}

// ClearPrefix removes the current prefix.
func (d *Document) ClearPrefix() {
	d.prefix = ""
}

// WithPrefix runs fn with the prefix set to prefix, restoring the previous
// prefix on return even when fn fails.
func (d *Document) WithPrefix(prefix string, fn func(*Document) error) error {
	saved := d.prefix
	d.prefix = prefix
	defer func() { d.prefix = saved }()
	return fn(d)
}

// name prepends the prefix to an entry name. A single trailing '.' is
// dropped so that a dot-terminated prefix composes with an empty name.
func (d *Document) name(entry string) string {
	return strings.TrimSuffix(d.prefix+entry, ".")
}

// notFound builds the absent-entry error for a fully-prefixed name.
func (d *Document) notFound(entry string) error {
	return &AccessError{
		Kind:     KindEntryNotFound,
		Entry:    entry,
		Document: d.session.path,
		Message:  "the entry was not found",
	}
}

// notATable builds the non-table error for a fully-prefixed name.
func (d *Document) notATable(entry string, v starlark.Value) error {
	return &AccessError{
		Kind:     KindNotATable,
		Entry:    entry,
		Document: d.session.path,
		Message:  "the entry is not a table (got " + v.Type() + ")",
	}
}

// Exists reports whether an entry resolves. It never raises: absence and
// syntactically invalid paths both report false.
func (d *Document) Exists(name string) bool {
	defer d.session.Rewind(d.session.Depth())
	_, found := d.session.Resolve(d.name(name))
	return found
}

// Entries resolves an entry, requires it to be a table, and returns its keys
// sorted lexically, so numeric-looking keys group before alphabetic ones.
// The empty name lists the top-level entries of the whole environment.
func (d *Document) Entries(name string) ([]string, error) {
	defer d.session.Rewind(d.session.Depth())

	entry := d.name(name)
	v, found := d.session.Resolve(entry)
	if !found {
		return nil, d.notFound(entry)
	}
	items, ok := d.session.Items(v)
	if !ok {
		return nil, d.notATable(entry, v)
	}

	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// CheckConstraint reports whether the entry satisfies the constraint. The
// entry must exist; a malformed constraint is an error.
func (d *Document) CheckConstraint(name, constraint string) (bool, error) {
	defer d.session.Rewind(d.session.Depth())

	if constraint == "" {
		return true, nil
	}
	entry := d.name(name)
	v, found := d.session.Resolve(entry)
	if !found {
		return false, d.notFound(entry)
	}
	return d.evalConstraint(entry, constraint, v)
}

// CheckValue reports whether a value that did not come from the document
// satisfies the constraint.
func CheckValue[T Scalar](d *Document, value T, constraint string) (bool, error) {
	defer d.session.Rewind(d.session.Depth())
	return d.evalConstraint("", constraint, scalarToStarlark(value))
}

// Call invokes a function defined by the document with the given arguments
// and returns its result converted to a Go value.
func (d *Document) Call(fn string, args ...interface{}) (interface{}, error) {
	defer d.session.Rewind(d.session.Depth())

	callArgs := make([]starlark.Value, len(args))
	for i, arg := range args {
		conv, err := toStarlark(arg)
		if err != nil {
			return nil, &AccessError{
				Kind:     KindCallFailure,
				Entry:    fn,
				Document: d.session.path,
				Message:  "unsupported argument",
				Err:      err,
			}
		}
		callArgs[i] = conv
	}

	result, err := d.session.Call(fn, callArgs...)
	if err != nil {
		return nil, &AccessError{
			Kind:     KindCallFailure,
			Entry:    fn,
			Document: d.session.path,
			Message:  "function call failed",
			Err:      err,
		}
	}
	out, err := fromStarlark(result)
	if err != nil {
		return nil, &AccessError{
			Kind:     KindCallFailure,
			Entry:    fn,
			Document: d.session.path,
			Message:  "unsupported return value",
			Err:      err,
		}
	}
	return out, nil
}

// Get resolves an entry and converts it to T. Absence is an error.
func Get[T Scalar](d *Document, name string) (T, error) {
	var zero T
	return getValue(d, name, "", zero, false)
}

// GetChecked resolves an entry, converts it to T and validates it against
// the constraint.
func GetChecked[T Scalar](d *Document, name, constraint string) (T, error) {
	var zero T
	return getValue(d, name, constraint, zero, false)
}

// GetDefault is GetChecked with a fallback: an absent entry yields def
// verbatim, without constraint checking.
func GetDefault[T Scalar](d *Document, name, constraint string, def T) (T, error) {
	return getValue(d, name, constraint, def, true)
}

func getValue[T Scalar](d *Document, name, constraint string, def T, withDefault bool) (T, error) {
	defer d.session.Rewind(d.session.Depth())

	entry := d.name(name)
	v, found := d.session.Resolve(entry)
	if !found {
		if withDefault {
			return def, nil
		}
		var zero T
		return zero, d.notFound(entry)
	}

	out, err := convert[T](d, entry, v)
	if err != nil {
		return out, err
	}
	if err := d.checkConstraint(entry, constraint, scalarToStarlark(out)); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// GetSlice resolves an entry as a table and converts every element to T, in
// table iteration order.
func GetSlice[T Scalar](d *Document, name string) ([]T, error) {
	return getSlice[T](d, name, "", nil, false)
}

// GetSliceChecked is GetSlice with a constraint validated against every
// element individually.
func GetSliceChecked[T Scalar](d *Document, name, constraint string) ([]T, error) {
	return getSlice[T](d, name, constraint, nil, false)
}

// GetSliceDefault is GetSliceChecked with a fallback: an absent entry yields
// def verbatim, without constraint checking.
func GetSliceDefault[T Scalar](d *Document, name, constraint string, def []T) ([]T, error) {
	return getSlice[T](d, name, constraint, def, true)
}

func getSlice[T Scalar](d *Document, name, constraint string, def []T, withDefault bool) ([]T, error) {
	defer d.session.Rewind(d.session.Depth())

	entry := d.name(name)
	v, found := d.session.Resolve(entry)
	if !found {
		if withDefault {
			return def, nil
		}
		return nil, d.notFound(entry)
	}
	items, ok := d.session.Items(v)
	if !ok {
		return nil, d.notATable(entry, v)
	}

	elems := make([]T, 0, len(items))
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.Key)
		elemEntry := entry + "[" + it.Key + "]"
		elem, err := convert[T](d, elemEntry, it.Value)
		if err != nil {
			return nil, err
		}
		if err := d.checkConstraint(elemEntry, constraint, scalarToStarlark(elem)); err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}

	if e := d.logger.Debug(); e.Enabled() {
		sorted := append([]string(nil), keys...)
		sort.Strings(sorted)
		e.Str("entry", entry).Strs("keys", sorted).Int("elements", len(elems)).Msg("Sequence extracted")
	}
	return elems, nil
}

// Is reports whether an entry resolves and converts to T. It never raises.
func Is[T Scalar](d *Document, name string) bool {
	defer d.session.Rewind(d.session.Depth())

	v, found := d.session.Resolve(d.name(name))
	if !found {
		return false
	}
	_, ok := tryConvert[T](v)
	return ok
}

// IsSlice reports whether an entry resolves to a table whose every element
// converts to T. It never raises.
func IsSlice[T Scalar](d *Document, name string) bool {
	defer d.session.Rewind(d.session.Depth())

	v, found := d.session.Resolve(d.name(name))
	if !found {
		return false
	}
	items, ok := d.session.Items(v)
	if !ok {
		return false
	}
	for _, it := range items {
		if _, ok := tryConvert[T](it.Value); !ok {
			return false
		}
	}
	return true
}
