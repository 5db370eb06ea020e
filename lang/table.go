package lang

import (
	"slices"
	"strings"
)

// Pattern describes the token shape a category's member ids occupy in
// expression source. Members of most categories appear as a single name.
// Compartment-qualified categories use an indexed form, a name directly
// followed by a bracketed name, e.g. "spec_0[c_0]".
type Pattern struct {
	indexed bool
}

// NamePattern returns the pattern of categories whose members appear as a
// single name.
func NamePattern() Pattern { return Pattern{} }

// IndexedNamePattern returns the pattern of categories whose members appear
// as a name indexed by a bracketed name.
func IndexedNamePattern() Pattern { return Pattern{indexed: true} }

// width is the number of host tokens the pattern spans.
func (p Pattern) width() int {
	if p.indexed {
		return 4 // NAME '[' NAME ']'
	}

	return 1 // NAME
}

// Category declares one namespace of a symbol table and the token shape of
// its member ids.
type Category struct {
	Name    string
	Pattern Pattern
}

// Table maps category names to member ids to opaque object handles. Ids are
// unique within a category but may repeat across categories. A Table is not
// safe for concurrent mutation; build it fully before sharing.
type Table struct {
	cats   []Category
	byName map[string]Category
	syms   map[string]map[string]any
	ids    map[string][]string
	fold   map[string]map[string]string
}

// NewTable creates a Table with the given categories. A category name given
// more than once is registered only the first time.
func NewTable(cats ...Category) *Table {
	t := &Table{
		cats:   make([]Category, 0, len(cats)),
		byName: make(map[string]Category, len(cats)),
		syms:   make(map[string]map[string]any, len(cats)),
		ids:    make(map[string][]string, len(cats)),
		fold:   make(map[string]map[string]string, len(cats)),
	}

	for _, cat := range cats {
		if _, ok := t.byName[cat.Name]; ok {
			continue
		}

		t.cats = append(t.cats, cat)
		t.byName[cat.Name] = cat
		t.syms[cat.Name] = make(map[string]any)
		t.ids[cat.Name] = make([]string, 0)
		t.fold[cat.Name] = make(map[string]string)
	}

	return t
}

// Add registers an object handle under the given category and id. Adding an
// id already present in the category replaces its handle without disturbing
// insertion order.
func (t *Table) Add(category, id string, obj any) error {
	if id == "" {
		return ErrConfig.Wrapf("cannot add an empty id to category '%s'", category)
	}

	sym, ok := t.syms[category]
	if !ok {
		return ErrConfig.Wrapf("cannot add '%s' to unknown category '%s'", id, category)
	}

	if _, ok := sym[id]; !ok {
		t.ids[category] = append(t.ids[category], id)
	}

	sym[id] = obj
	t.fold[category][strings.ToLower(id)] = id

	return nil
}

// Category returns the named category declaration, if registered.
func (t *Table) Category(name string) (Category, bool) {
	cat, ok := t.byName[name]

	return cat, ok
}

// Categories returns the registered categories in registration order.
func (t *Table) Categories() []Category {
	return slices.Clone(t.cats)
}

// IDs returns the member ids of a category in insertion order.
func (t *Table) IDs(category string) []string {
	return slices.Clone(t.ids[category])
}

// Lookup resolves an id within a category, returning its object handle and
// canonical id. With fold set, ids differing from id only by letter case
// match as well, though an exact match always wins.
func (t *Table) Lookup(category, id string, fold bool) (any, string, bool) {
	sym, ok := t.syms[category]
	if !ok {
		return nil, "", false
	}

	if obj, ok := sym[id]; ok {
		return obj, id, true
	}

	if fold {
		if canon, ok := t.fold[category][strings.ToLower(id)]; ok {
			return sym[canon], canon, true
		}
	}

	return nil, "", false
}
