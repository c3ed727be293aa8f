package document

import (
	"strings"
	"testing"
)

func TestGetChecked_Constraints(t *testing.T) {
	doc := testDoc(t)

	tests := []struct {
		name       string
		entry      string
		constraint string
		wantErr    ErrorKind
	}{
		{
			name:       "satisfied range constraint",
			entry:      "death_age",
			constraint: "v >= 0 and v < 150",
		},
		{
			name:       "unsatisfied range constraint",
			entry:      "impossible_age",
			constraint: "v >= 0 and v < 150",
			wantErr:    KindConstraintNotSatisfied,
		},
		{
			name:       "empty constraint always passes",
			entry:      "impossible_age",
			constraint: "",
		},
		{
			name:       "constraint referencing another entry",
			entry:      "birth_year",
			constraint: "v < death_year",
		},
		{
			name:       "non-boolean constraint result",
			entry:      "death_age",
			constraint: "v + 1",
			wantErr:    KindMalformedConstraint,
		},
		{
			name:       "syntactically broken constraint",
			entry:      "death_age",
			constraint: "v >=",
			wantErr:    KindMalformedConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetChecked[int](doc, tt.entry, tt.constraint)
			if KindOf(err) != tt.wantErr {
				t.Fatalf("expected kind %q, got %v", tt.wantErr, err)
			}
			requireBalanced(t, doc)
		})
	}
}

func TestCheckConstraint(t *testing.T) {
	doc := testDoc(t)

	ok, err := doc.CheckConstraint("death_age", "v < 100")
	if err != nil || !ok {
		t.Fatalf("expected satisfied, got ok=%v err=%v", ok, err)
	}

	ok, err = doc.CheckConstraint("death_age", "v > 100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected unsatisfied")
	}

	if _, err := doc.CheckConstraint("no_such_entry", "v > 0"); !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := doc.CheckConstraint("death_age", "v +"); KindOf(err) != KindMalformedConstraint {
		t.Fatalf("expected malformed constraint, got %v", err)
	}

	requireBalanced(t, doc)
}

func TestCheckValue(t *testing.T) {
	doc := testDoc(t)

	tests := []struct {
		name      string
		checkFunc func(*testing.T)
	}{
		{
			name: "membership satisfied",
			checkFunc: func(t *testing.T) {
				ok, err := CheckValue(doc, "Water Music", "ops_in(v, {'Messiah', 'Water Music'})")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !ok {
					t.Error("expected membership to hold")
				}
			},
		},
		{
			name: "membership not satisfied",
			checkFunc: func(t *testing.T) {
				ok, err := CheckValue(doc, "Nocturnes", "ops_in(v, {'Messiah', 'Water Music'})")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if ok {
					t.Error("expected membership not to hold")
				}
			},
		},
		{
			name: "membership in a list literal",
			checkFunc: func(t *testing.T) {
				ok, err := CheckValue(doc, 4, "ops_in(v, [2, 4, 6])")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !ok {
					t.Error("expected membership to hold")
				}
			},
		},
		{
			name: "numeric constraint on a literal",
			checkFunc: func(t *testing.T) {
				ok, err := CheckValue(doc, 42, "v >= 0 and v < 150")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !ok {
					t.Error("expected constraint to hold")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFunc(t)
			requireBalanced(t, doc)
		})
	}
}

func TestConstraintErrorMessages(t *testing.T) {
	doc := testDoc(t)

	_, err := GetChecked[string](doc, "last_name", "ops_in(v, {'Bach'})")
	if KindOf(err) != KindConstraintNotSatisfied {
		t.Fatalf("expected constraint failure, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "ops_in(v, {'Bach'})") {
		t.Errorf("expected the constraint text to be echoed, got: %s", msg)
	}
	if !strings.Contains(msg, "Note: 'ops_in") {
		t.Errorf("expected the ops_in note, got: %s", msg)
	}
	if !strings.Contains(msg, `"last_name"`) || !strings.Contains(msg, `"test.star"`) {
		t.Errorf("expected the entry and document to be named, got: %s", msg)
	}

	// Constraints without ops_in get no note.
	_, err = GetChecked[int](doc, "impossible_age", "v < 150")
	if err == nil || strings.Contains(err.Error(), "Note:") {
		t.Errorf("unexpected note in: %v", err)
	}

	requireBalanced(t, doc)
}
