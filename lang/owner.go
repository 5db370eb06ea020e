package lang

import "slices"

// Owner describes an expression-bearing attribute of some model entity: which
// symbol table categories its expressions may reference, which function names
// they may call, and whether they are restricted to linear combinations.
//
// A nil Functions slice means the owner does not define valid functions at
// all, and any call syntax in its expressions is a configuration error. An
// empty (non-nil) slice means calls are understood but nothing is
// whitelisted, so every call fails resolution.
type Owner struct {
	Name       string
	Categories []string
	Functions  []string
	Linear     bool
}

// allows reports whether expressions of this owner may reference members of
// the named category.
func (o Owner) allows(category string) bool {
	return slices.Contains(o.Categories, category)
}

// whitelisted reports whether expressions of this owner may call the named
// function.
func (o Owner) whitelisted(name string) bool {
	return slices.Contains(o.Functions, name)
}
