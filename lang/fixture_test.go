package lang

import (
	"errors"
	"strings"
	"testing"
)

// object is a stand-in for a model entity handle.
type object struct {
	name string
}

// addAll registers ids under a category, returning handles keyed by
// "Category.id" so tests can bind evaluation values.
func addAll(t testing.TB, table *Table, handles map[string]*object, category string, ids ...string) {
	t.Helper()

	for _, id := range ids {
		obj := &object{name: category + "." + id}

		if err := table.Add(category, id, obj); err != nil {
			t.Fatalf("Add(%s, %s) returned %v", category, id, err)
		}

		handles[category+"."+id] = obj
	}
}

// testTable builds the standard fixture table: distinct categories sharing
// the id "test_id", with species ids in indexed form.
func testTable(t testing.TB) (*Table, map[string]*object) {
	t.Helper()

	table := NewTable(
		Category{Name: "SpeciesType", Pattern: NamePattern()},
		Category{Name: "Compartment", Pattern: NamePattern()},
		Category{Name: "Species", Pattern: IndexedNamePattern()},
		Category{Name: "Parameter", Pattern: NamePattern()},
		Category{Name: "Observable", Pattern: NamePattern()},
		Category{Name: "Function", Pattern: NamePattern()},
	)

	handles := make(map[string]*object)
	addAll(t, table, handles, "SpeciesType", "test_id", "x_id")
	addAll(t, table, handles, "Compartment", "c")
	addAll(t, table, handles, "Species", "test_id[c]", "x_id[c]")
	addAll(t, table, handles, "Parameter", "test_id", "param_id")
	addAll(t, table, handles, "Observable", "test_id", "obs_id")
	addAll(t, table, handles, "Function", "fun_1", "fun_2")

	return table, handles
}

// hardTable builds the adversarial fixture table: member ids that collide
// with category names and with each other across categories.
func hardTable(t testing.TB) (*Table, map[string]*object) {
	t.Helper()

	table := NewTable(
		Category{Name: "Species", Pattern: IndexedNamePattern()},
		Category{Name: "Parameter", Pattern: NamePattern()},
		Category{Name: "Observable", Pattern: NamePattern()},
		Category{Name: "Function", Pattern: NamePattern()},
	)

	handles := make(map[string]*object)
	addAll(t, table, handles, "Species", "test_id[c]", "x_id[c]")
	addAll(t, table, handles, "Parameter", "Observable", "duped_id")
	addAll(t, table, handles, "Observable", "test_id", "duped_id")
	addAll(t, table, handles, "Function", "Observable", "fun_2")

	return table, handles
}

// rateLawOwner references every category and whitelists every engine
// function.
func rateLawOwner() Owner {
	return Owner{
		Name:       "RateLawExpression",
		Categories: []string{"Parameter", "Species", "Observable", "Function", "Compartment"},
		Functions:  FuncNames(),
	}
}

// observableOwner is linear-only and declares no valid functions at all.
func observableOwner() Owner {
	return Owner{
		Name:       "ObservableExpression",
		Categories: []string{"Species", "Observable"},
		Linear:     true,
	}
}

// mustParse fails the test on API misuse; expression problems are left in
// the returned Parsed for the test to inspect.
func mustParse(t *testing.T, owner Owner, source string, table *Table, opts ...Option) *Parsed {
	t.Helper()

	p, err := Parse(owner, "attr", source, table, opts...)
	if err != nil {
		t.Fatalf("Parse(%q) returned %v", source, err)
	}

	return p
}

// mustResolve additionally fails the test if the expression itself did not
// resolve.
func mustResolve(t *testing.T, owner Owner, source string, table *Table, opts ...Option) *Parsed {
	t.Helper()

	p := mustParse(t, owner, source, table, opts...)
	if err := p.Err(); err != nil {
		t.Fatalf("Parse(%q) recorded errors: %v", source, err)
	}

	return p
}

func wantErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Errorf("error %q does not match %q", err, target)
	}
}

func wantErrorContains(t *testing.T, err error, fragment string) {
	t.Helper()

	if err == nil {
		t.Fatalf("error is nil, want one containing %q", fragment)
	}

	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("error %q does not contain %q", err, fragment)
	}
}
