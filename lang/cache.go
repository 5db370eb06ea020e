package lang

import (
	"strings"
	"sync"
)

// Cache interns parsed expressions so identical source under the same owner
// kind shares one Parsed. A model repeating an expression across many
// entities resolves it once.
//
// Interning assumes one symbol table and one option set per cache; Reset the
// cache whenever either changes. Parse is safe for concurrent use. A shared
// Parsed must finish [Parsed.Validate] before it is evaluated concurrently.
type Cache struct {
	parsed sync.Map // key → *Parsed
}

// key identifies an interned expression.
type key struct {
	owner  string
	source string
}

// NewCache creates an empty expression cache.
func NewCache() *Cache { return new(Cache) }

// Parse returns the interned resolution of source under owner, parsing and
// storing it on first use. The interned Parsed keeps the attr of its first
// parse; callers aggregating errors per attribute should compose their own
// [ExprError] from [Parsed.Errors].
func (c *Cache) Parse(owner Owner, attr, source string, table *Table, opts ...Option) (*Parsed, error) {
	k := key{owner: owner.Name, source: strings.TrimSpace(source)}

	if v, ok := c.parsed.Load(k); ok {
		return v.(*Parsed), nil
	}

	p, err := Parse(owner, attr, source, table, opts...)
	if err != nil {
		return nil, err
	}

	v, _ := c.parsed.LoadOrStore(k, p)

	return v.(*Parsed), nil
}

// Reset discards every interned expression.
func (c *Cache) Reset() {
	c.parsed.Clear()
}

// Len reports the count of interned expressions.
func (c *Cache) Len() int {
	n := 0

	c.parsed.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}
