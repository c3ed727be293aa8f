package document

import (
	"testing"

	"go.starlark.net/starlark"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		want  []segment
		valid bool
	}{
		{
			name:  "empty path",
			path:  "",
			want:  nil,
			valid: true,
		},
		{
			name:  "bare name",
			path:  "age",
			want:  []segment{{name: "age"}},
			valid: true,
		},
		{
			name:  "dotted fields",
			path:  "a.b.c",
			want:  []segment{{name: "a"}, {name: "b"}, {name: "c"}},
			valid: true,
		},
		{
			name:  "mixed fields and index",
			path:  "a.b[2].c",
			want:  []segment{{name: "a"}, {name: "b"}, {index: 2, indexed: true}, {name: "c"}},
			valid: true,
		},
		{
			name:  "consecutive indexes",
			path:  "m[1][2]",
			want:  []segment{{name: "m"}, {index: 1, indexed: true}, {index: 2, indexed: true}},
			valid: true,
		},
		{
			name:  "zero index is syntactically valid",
			path:  "a[0]",
			want:  []segment{{name: "a"}, {index: 0, indexed: true}},
			valid: true,
		},
		{name: "leading dot", path: ".a", valid: false},
		{name: "leading bracket", path: "[1]", valid: false},
		{name: "empty segment", path: "a..b", valid: false},
		{name: "trailing dot then bracket", path: "a.[1]", valid: false},
		{name: "empty index", path: "a[]", valid: false},
		{name: "non-digit index", path: "a[x]", valid: false},
		{name: "signed index", path: "a[-1]", valid: false},
		{name: "unclosed bracket", path: "a[1", valid: false},
		{name: "stray close bracket", path: "a]b", valid: false},
		{name: "dot after index then end", path: "a[1].", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parsePath(tt.path)
			if ok != tt.valid {
				t.Fatalf("parsePath(%q) valid = %v, want %v", tt.path, ok, tt.valid)
			}
			if !tt.valid {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parsePath(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("segment %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestResolve(t *testing.T) {
	doc := testDoc(t)
	s := doc.Session()

	tests := []struct {
		name  string
		path  string
		found bool
		check func(*testing.T, starlark.Value)
	}{
		{
			name:  "bare name",
			path:  "last_name",
			found: true,
			check: func(t *testing.T, v starlark.Value) {
				if str, ok := v.(starlark.String); !ok || string(str) != "Handel" {
					t.Errorf("expected 'Handel', got %v", v)
				}
			},
		},
		{
			name:  "nested field",
			path:  "name.middle",
			found: true,
		},
		{
			name:  "one-based list index",
			path:  "nationality[1]",
			found: true,
			check: func(t *testing.T, v starlark.Value) {
				if str, ok := v.(starlark.String); !ok || string(str) != "German" {
					t.Errorf("expected 'German', got %v", v)
				}
			},
		},
		{
			name:  "integer dict key",
			path:  "by_index[2]",
			found: true,
			check: func(t *testing.T, v starlark.Value) {
				if str, ok := v.(starlark.String); !ok || string(str) != "two" {
					t.Errorf("expected 'two', got %v", v)
				}
			},
		},
		{
			name:  "empty path is the environment root",
			path:  "",
			found: true,
			check: func(t *testing.T, v starlark.Value) {
				if !s.IsTable(v) {
					t.Errorf("expected a table, got %s", v.Type())
				}
			},
		},
		{name: "missing entry", path: "no_such_entry", found: false},
		{name: "index out of range", path: "nationality[3]", found: false},
		{name: "zero index on a list", path: "nationality[0]", found: false},
		{name: "descent into scalar", path: "last_name.x", found: false},
		{name: "short-circuit on absent intermediate", path: "no_such.deeply[3].nested", found: false},
		{name: "invalid syntax resolves to not found", path: "name..middle", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer s.Rewind(s.Depth())
			v, found := s.Resolve(tt.path)
			if found != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.path, found, tt.found)
			}
			if found && tt.check != nil {
				tt.check(t, v)
			}
		})
	}
	requireBalanced(t, doc)
}

// Resolving a full path equals resolving its head and descending
// segment-by-segment from there.
func TestResolve_SegmentComposition(t *testing.T) {
	doc := testDoc(t)
	s := doc.Session()
	defer s.ClearStack()

	full, found := s.Resolve("compositions.concerti_grossi_op_6[3]")
	if !found {
		t.Fatal("full path did not resolve")
	}

	step, found := s.Resolve("compositions")
	if !found {
		t.Fatal("head did not resolve")
	}
	step, found = s.Field(step, "concerti_grossi_op_6")
	if !found {
		t.Fatal("field descent failed")
	}
	step, found = s.Index(step, 3)
	if !found {
		t.Fatal("index descent failed")
	}

	eq, err := starlark.Equal(full, step)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !eq {
		t.Errorf("path descent mismatch: %v vs %v", full, step)
	}
}

func TestResolve_StagesOnStack(t *testing.T) {
	doc := testDoc(t)
	s := doc.Session()

	if s.Depth() != 0 {
		t.Fatalf("expected empty stack, depth = %d", s.Depth())
	}
	if _, found := s.Resolve("birth_year"); !found {
		t.Fatal("expected entry to resolve")
	}
	if s.Depth() != 1 {
		t.Fatalf("expected resolved value staged, depth = %d", s.Depth())
	}
	top, ok := s.Pop()
	if !ok {
		t.Fatal("expected a staged value")
	}
	if _, ok := top.(starlark.Int); !ok {
		t.Errorf("expected an int on the stack, got %s", top.Type())
	}

	// A failed resolution stages nothing.
	if _, found := s.Resolve("no_such_entry"); found {
		t.Fatal("expected resolution to fail")
	}
	requireBalanced(t, doc)
}
