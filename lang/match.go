package lang

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr/parser/lexer"
	"github.com/sahilm/fuzzy"
)

// lexMatch is the outcome of one resolution strategy at one position of the
// host token stream. A strategy that cannot resolve the position it claims
// sets err; width is the count of host tokens consumed on success, or
// claimed by the failed shape.
type lexMatch struct {
	err   *Error
	toks  []Token
	width int
}

// candidate is one shape interpretation of a bare name: the category whose
// pattern matched, the exact source text the shape covers, and the member it
// resolved to, if any.
type candidate struct {
	obj   any
	cat   Category
	text  string
	id    string
	width int
}

// resolver walks a host token stream and resolves every identifier against
// the symbol table under one owner's contract.
type resolver struct {
	table *Table
	src   []rune
	toks  []lexer.Token
	owner Owner
	cfg   config
}

// resolve annotates the full token stream, returning every resolution
// failure found. On failure the scan skips the width of the failed shape and
// continues, so one pass reports every problem in the expression. The
// annotated stream is only meaningful when no errors are returned.
func (r *resolver) resolve() ([]Token, []*Error) {
	out := make([]Token, 0, len(r.toks))
	errs := make([]*Error, 0)

	for i := 0; i < len(r.toks); {
		tok := r.toks[i]

		if tok.Kind != lexer.Identifier {
			out = append(out, r.classify(tok))
			i++

			continue
		}

		toks, width, fail := r.identifier(i)
		if len(fail) > 0 {
			errs = append(errs, fail...)
			i += width

			continue
		}

		out = append(out, toks...)
		i += width
	}

	return out, errs
}

// classify annotates a host token that is not part of a reference. Square
// brackets and dots reach here only when no reference shape consumed them.
func (r *resolver) classify(tok lexer.Token) Token {
	switch tok.Kind {
	case lexer.Number:
		return Token{Code: CodeNumber, Text: text(r.src, tok)}

	case lexer.Bracket:
		if tok.Value == "(" || tok.Value == ")" {
			return Token{Code: CodeOp, Text: text(r.src, tok)}
		}

	case lexer.Operator:
		if _, ok := legalOps[tok.Value]; ok {
			return Token{Code: CodeOp, Text: text(r.src, tok)}
		}
	}

	return Token{Code: CodeOther, Text: text(r.src, tok)}
}

// identifier resolves the reference beginning at host token i. The shape of
// the following tokens selects the authoritative strategy: a dotted name is
// a disambiguated reference, a name touching an opening paren is a function
// call, anything else is a bare reference. When the authoritative strategy
// succeeds, competing interpretations are discarded. When it fails, the
// position is an error, and a bare interpretation that also failed is
// reported alongside it.
func (r *resolver) identifier(i int) ([]Token, int, []*Error) {
	if m := r.disambiguated(i); m != nil {
		if m.err == nil {
			return m.toks, m.width, nil
		}

		return nil, m.width, r.reject(i, m)
	}

	if m := r.funcCall(i); m != nil {
		if m.err == nil {
			return m.toks, m.width, nil
		}

		return nil, m.width, r.reject(i, m)
	}

	bare := r.bare(i)
	if bare.err != nil {
		return nil, bare.width, []*Error{bare.err}
	}

	if err := r.collision(bare.toks[0], bare.width); err != nil {
		return nil, bare.width, []*Error{err}
	}

	return bare.toks, bare.width, nil
}

// reject collects every failure at a position claimed by a qualified shape
// that did not resolve. A bare interpretation that failed too is reported
// first; one that would have resolved is discarded, since the qualified
// shape is authoritative.
func (r *resolver) reject(i int, m *lexMatch) []*Error {
	errs := make([]*Error, 0, 2)

	if bare := r.bare(i); bare.err != nil {
		errs = append(errs, bare.err)
	}

	return append(errs, m.err)
}

// disambiguated matches a category-qualified reference, NAME '.' NAME with
// no intervening whitespace. It returns nil when the shape is absent.
func (r *resolver) disambiguated(i int) *lexMatch {
	if i+2 >= len(r.toks) {
		return nil
	}

	dot, member := r.toks[i+1], r.toks[i+2]
	if dot.Kind != lexer.Operator || dot.Value != "." ||
		member.Kind != lexer.Identifier ||
		!adjacent(r.toks[i], dot) || !adjacent(dot, member) {
		return nil
	}

	var (
		label   = text(r.src, r.toks[i])
		matched = span(r.src, r.toks[i], member)
		m       = &lexMatch{width: 3}
	)

	if _, ok := r.table.Category(label); !ok || !r.owner.allows(label) {
		m.err = ErrDisambiguation.Wrapf(
			"contains '%s', but the disambiguation type '%s' cannot be referenced by '%s' expressions",
			matched, label, r.owner.Name)

		return m
	}

	memberText := text(r.src, member)

	obj, id, ok := r.table.Lookup(label, memberText, r.cfg.fold)
	if !ok {
		m.err = ErrDisambiguation.Wrapf(
			"contains '%s', but '%s' is not the id of a '%s'",
			matched, memberText, label)

		return m
	}

	m.toks = []Token{{
		Ref:  Ref{Obj: obj, Category: label, ID: id},
		Text: matched,
		Code: CodeRef,
	}}

	return m
}

// funcCall matches a function call, a name touching an opening paren. The
// name must be whitelisted by the owner; whether it exists as an id in some
// category is irrelevant. A successful match consumes the name and the paren.
// It returns nil when the shape is absent.
func (r *resolver) funcCall(i int) *lexMatch {
	if i+1 >= len(r.toks) {
		return nil
	}

	paren := r.toks[i+1]
	if paren.Kind != lexer.Bracket || paren.Value != "(" || !adjacent(r.toks[i], paren) {
		return nil
	}

	var (
		name = text(r.src, r.toks[i])
		m    = &lexMatch{width: 2}
	)

	if r.owner.Functions == nil {
		m.err = ErrConfig.Wrapf(
			"contains the func name '%s', but '%s' expressions don't define valid functions",
			name, r.owner.Name)

		return m
	}

	if !r.owner.whitelisted(name) {
		m.err = ErrFunction.Wrapf(
			"contains the func name '%s', but it isn't in the valid functions for '%s' expressions",
			name, r.owner.Name)

		return m
	}

	m.toks = []Token{
		{Code: CodeFunc, Text: name},
		{Code: CodeOp, Text: text(r.src, paren)},
	}

	return m
}

// bare matches an unqualified reference against every category the owner
// allows, each under its own token shape. The longest resolved shape wins
// silently; equally long resolutions in different categories are ambiguous.
// A name resolving nowhere reports the longest shape the source matched, so
// "x[c]" is reported whole rather than as "x".
func (r *resolver) bare(i int) *lexMatch {
	var (
		matched  = make([]candidate, 0, len(r.owner.Categories))
		reported = text(r.src, r.toks[i])
		widest   = 1
	)

	for _, label := range r.owner.Categories {
		cat, ok := r.table.Category(label)
		if !ok {
			continue
		}

		c, ok := r.shape(i, cat)
		if !ok {
			continue
		}

		if c.width > widest {
			reported, widest = c.text, c.width
		}

		obj, id, ok := r.table.Lookup(label, c.text, r.cfg.fold)
		if !ok {
			continue
		}

		c.obj, c.id = obj, id
		matched = append(matched, c)
	}

	if len(matched) == 0 {
		return &lexMatch{
			width: widest,
			err: ErrUnresolved.Wrapf(
				"contains the identifier(s) '%s', which aren't the id(s) of an object",
				reported).With(r.closest(reported)...),
		}
	}

	maxWidth := 0
	for _, c := range matched {
		maxWidth = max(maxWidth, c.width)
	}

	winners := make([]candidate, 0, len(matched))
	for _, c := range matched {
		if c.width == maxWidth {
			winners = append(winners, c)
		}
	}

	if len(winners) > 1 {
		slices.SortFunc(winners, func(a, b candidate) int {
			return cmp.Compare(a.cat.Name, b.cat.Name)
		})

		parts := make([]string, len(winners))
		for i, c := range winners {
			parts[i] = fmt.Sprintf("'%s' as a %s id", c.text, c.cat.Name)
		}

		return &lexMatch{
			width: maxWidth,
			err: ErrAmbiguous.Wrapf("contains multiple object id matches: %s",
				strings.Join(parts, ", ")),
		}
	}

	win := winners[0]

	return &lexMatch{
		width: win.width,
		toks: []Token{{
			Ref:  Ref{Obj: win.obj, Category: win.cat.Name, ID: win.id},
			Text: win.text,
			Code: CodeRef,
		}},
	}
}

// shape tests whether the source at host token i takes the form of the
// category's member ids. Indexed shapes require every token to touch its
// neighbor, so the covered source text is itself a well-formed member id.
func (r *resolver) shape(i int, cat Category) (candidate, bool) {
	c := candidate{cat: cat, width: cat.Pattern.width()}

	if !cat.Pattern.indexed {
		c.text = text(r.src, r.toks[i])

		return c, true
	}

	if i+3 >= len(r.toks) {
		return c, false
	}

	open, index, shut := r.toks[i+1], r.toks[i+2], r.toks[i+3]
	if open.Kind != lexer.Bracket || open.Value != "[" ||
		index.Kind != lexer.Identifier ||
		shut.Kind != lexer.Bracket || shut.Value != "]" ||
		!adjacent(r.toks[i], open) || !adjacent(open, index) || !adjacent(index, shut) {
		return c, false
	}

	c.text = span(r.src, r.toks[i], shut)

	return c, true
}

// collision reports a bare name the owner could equally accept as a
// disambiguation label or whitelisted function name. Competing
// interpretations are enumerated rather than silently ranked. Only single
// name matches can collide; indexed shapes cannot.
func (r *resolver) collision(tok Token, width int) *Error {
	if width != 1 {
		return nil
	}

	name := tok.Text
	parts := make([]string, 0, 3)
	parts = append(parts, fmt.Sprintf("'%s' as a %s id", name, tok.Ref.Category))

	if _, ok := r.table.Category(name); ok && r.owner.allows(name) {
		parts = append(parts, fmt.Sprintf("'%s' as a disambiguation type", name))
	}

	if r.owner.whitelisted(name) {
		parts = append(parts, fmt.Sprintf("'%s' as a func name", name))
	}

	if len(parts) == 1 {
		return nil
	}

	return ErrAmbiguous.Wrapf("contains multiple interpretations of '%s': %s",
		name, strings.Join(parts, ", "))
}

// closest suggests near-miss ids for an unresolved name. The suggestions
// ride along as log attributes, never in the error text itself.
func (r *resolver) closest(name string) []slog.Attr {
	ids := make([]string, 0)
	for _, label := range r.owner.Categories {
		ids = append(ids, r.table.IDs(label)...)
	}

	found := fuzzy.Find(name, ids)
	if len(found) == 0 {
		return nil
	}

	best := make([]string, 0, 3)
	for _, m := range found[:min(len(found), 3)] {
		best = append(best, m.Str)
	}

	return []slog.Attr{slog.String("closest", strings.Join(best, ", "))}
}
