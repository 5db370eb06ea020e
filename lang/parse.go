package lang

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr/vm"
)

// Parsed is one expression resolved against a symbol table. It records the
// annotated token stream, the table members the expression references, and
// every problem resolution found. A Parsed with no errors can be validated
// and then evaluated any number of times.
type Parsed struct {
	program *vm.Program
	used    map[string][]Ref
	attr    string
	source  string
	tokens  []Token
	errors  []*Error
	owner   Owner
	cfg     config
	valid   bool
}

// Parse resolves source against table under the owner's contract. Leading
// and trailing whitespace is ignored. An empty expression parses to an empty
// token stream.
//
// The returned error reports misuse of the API itself: an owner declaring no
// referenceable categories, or a nil table. Problems with the expression,
// from unlexable input to unresolved names, are recorded in the Parsed and
// reported by [Parsed.Err].
func Parse(owner Owner, attr, source string, table *Table, opts ...Option) (*Parsed, error) {
	if len(owner.Categories) == 0 {
		return nil, ErrConfig.Wrapf("owner '%s' declares no referenceable categories", owner.Name)
	}

	if table == nil {
		return nil, ErrConfig.Wrapf("owner '%s' has no symbol table to resolve against", owner.Name)
	}

	p := &Parsed{
		attr:   attr,
		source: strings.TrimSpace(source),
		owner:  owner,
		cfg:    apply(config{}, opts...),
	}

	host, err := lex(p.source)
	if err != nil {
		p.errors = []*Error{WrapError(err)}

		return p, nil
	}

	src := []rune(p.source)

	if bad := badTokens(src, host); len(bad) > 0 {
		for i, b := range bad {
			bad[i] = "'" + b + "'"
		}

		p.errors = []*Error{ErrLex.Wrapf("contains bad token(s): %s", strings.Join(bad, ", "))}

		return p, nil
	}

	res := &resolver{
		table: table,
		src:   src,
		toks:  host,
		owner: owner,
		cfg:   p.cfg,
	}

	tokens, errs := res.resolve()
	if len(errs) > 0 {
		p.errors = errs
	} else {
		p.tokens = tokens
		p.used = usedRefs(owner, tokens)
	}

	p.cfg.logger.Debug("parsed expression",
		slog.String("owner", owner.Name),
		slog.String("attr", attr),
		slog.Int("tokens", len(p.tokens)),
		slog.Int("errors", len(p.errors)),
	)

	return p, nil
}

// usedRefs collects the distinct table members a token stream references,
// grouped by category in first-use order. Every category the owner allows is
// present, referenced or not.
func usedRefs(owner Owner, tokens []Token) map[string][]Ref {
	used := make(map[string][]Ref, len(owner.Categories))
	seen := make(map[string]map[string]struct{}, len(owner.Categories))

	for _, label := range owner.Categories {
		used[label] = make([]Ref, 0)
		seen[label] = make(map[string]struct{})
	}

	for _, tok := range tokens {
		if tok.Code != CodeRef {
			continue
		}

		ids, ok := seen[tok.Ref.Category]
		if !ok {
			continue
		}

		if _, ok := ids[tok.Ref.ID]; ok {
			continue
		}

		ids[tok.Ref.ID] = struct{}{}
		used[tok.Ref.Category] = append(used[tok.Ref.Category], tok.Ref)
	}

	return used
}

// Source returns the expression source with surrounding whitespace removed.
func (p *Parsed) Source() string { return p.source }

// Attr returns the name of the attribute the expression was parsed for.
func (p *Parsed) Attr() string { return p.attr }

// Owner returns the contract the expression was resolved under.
func (p *Parsed) Owner() Owner { return p.owner }

// Tokens returns the annotated token stream. It is empty when resolution
// failed.
func (p *Parsed) Tokens() []Token { return slices.Clone(p.tokens) }

// Errors returns every problem resolution found, in discovery order.
func (p *Parsed) Errors() []*Error { return slices.Clone(p.errors) }

// Err returns nil when the expression resolved cleanly, and otherwise an
// [ExprError] aggregating every recorded problem.
func (p *Parsed) Err() error {
	if len(p.errors) == 0 {
		return nil
	}

	return NewExprError(p.owner.Name, p.attr, p.source, p.errors...)
}

// Objects returns the distinct table members the expression references,
// grouped by category in first-use order. Every category the owner allows
// has an entry, referenced or not.
func (p *Parsed) Objects() map[string][]Ref {
	objs := make(map[string][]Ref, len(p.owner.Categories))

	for _, label := range p.owner.Categories {
		objs[label] = slices.Clone(p.used[label])

		if objs[label] == nil {
			objs[label] = make([]Ref, 0)
		}
	}

	return objs
}

func (p *Parsed) String() string {
	var buf strings.Builder

	buf.WriteString("expression: '")
	buf.WriteString(p.source)
	buf.WriteString("', errors: [")

	for i, err := range p.errors {
		if i > 0 {
			buf.WriteString(", ")
		}

		buf.WriteString("'" + err.Error() + "'")
	}

	buf.WriteString("], tokens: [")

	for i, tok := range p.tokens {
		if i > 0 {
			buf.WriteRune(' ')
		}

		buf.WriteString(tok.String())
	}

	buf.WriteRune(']')

	return buf.String()
}

// LogValue implements slog.LogValuer for structured logging.
func (p *Parsed) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("owner", p.owner.Name),
		slog.String("attr", p.attr),
		slog.String("source", p.source),
		slog.Int("tokens", len(p.tokens)),
		slog.Int("errors", len(p.errors)),
	)
}
