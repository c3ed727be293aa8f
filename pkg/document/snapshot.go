package document

import (
	"io"
	"os"

	"go.starlark.net/starlark"
	"gopkg.in/yaml.v3"
)

// Snapshot returns the resolved document as plain Go values: every
// top-level entry with the script already evaluated. Functions defined by
// the document are not data and are skipped.
func (d *Document) Snapshot() (map[string]interface{}, error) {
	root := d.session.Root()
	out := make(map[string]interface{}, root.Len())
	for _, kv := range root.Items() {
		if _, ok := kv[1].(starlark.Callable); ok {
			continue
		}
		value, err := fromStarlark(kv[1])
		if err != nil {
			return nil, &AccessError{
				Kind:     KindTypeMismatch,
				Entry:    keyString(kv[0]),
				Document: d.session.path,
				Message:  "the entry cannot be exported",
				Err:      err,
			}
		}
		out[keyString(kv[0])] = value
	}
	return out, nil
}

// WriteSnapshot writes the resolved document to w as YAML.
func (d *Document) WriteSnapshot(w io.Writer) error {
	snap, err := d.Snapshot()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

// SaveSnapshot writes the resolved document as YAML to a file.
func (d *Document) SaveSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
