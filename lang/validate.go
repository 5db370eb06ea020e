package lang

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Validate checks a resolved expression for well-formedness. Resolution
// errors recorded at parse time fail immediately. Otherwise the annotated
// stream is rendered back to host grammar source and compiled, and owners
// that demand it are checked for linear form. All failures are aggregated
// into one error.
//
// A Parsed must validate before it can be evaluated. An empty expression is
// valid and compiles to nothing.
func (p *Parsed) Validate() error {
	if err := p.Err(); err != nil {
		return err
	}

	if p.valid {
		return nil
	}

	issues := make([]*Error, 0, 2)

	if p.source != "" {
		program, err := expr.Compile(p.render())
		if err != nil {
			issues = append(issues, ErrSyntax.Wrap(err))
		} else {
			p.program = program
		}
	}

	if p.owner.Linear {
		if err := linearForm.validate(p.tokens); err != nil {
			issues = append(issues, ErrLinear.Wrap(err))
		}
	}

	if len(issues) > 0 {
		return NewExprError(p.owner.Name, p.attr, p.source, issues...)
	}

	p.valid = true

	return nil
}

// render writes the annotated stream back as host grammar source with each
// distinct reference replaced by a synthetic term name. Tokens are joined by
// single spaces, which the host grammar treats the same as the original
// spacing.
func (p *Parsed) render() string {
	parts := make([]string, 0, len(p.tokens))
	terms := make(map[string]int, len(p.tokens))

	for _, tok := range p.tokens {
		if tok.Code != CodeRef {
			parts = append(parts, tok.Text)

			continue
		}

		key := tok.Ref.String()

		index, ok := terms[key]
		if !ok {
			index = len(terms)
			terms[key] = index
		}

		parts = append(parts, termName(index))
	}

	return strings.Join(parts, " ")
}

// termName is the synthetic name standing in for the i'th distinct reference
// of an expression. The leading underscores keep it clear of any name a
// model could declare.
func termName(i int) string {
	return fmt.Sprintf("__term_%d", i)
}

// terms returns the distinct references of the stream in first-use order,
// aligned with the synthetic names render substitutes.
func (p *Parsed) terms() []Ref {
	refs := make([]Ref, 0, len(p.tokens))
	seen := make(map[string]struct{}, len(p.tokens))

	for _, tok := range p.tokens {
		if tok.Code != CodeRef {
			continue
		}

		key := tok.Ref.String()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		refs = append(refs, tok.Ref)
	}

	return refs
}

// state is a node of a token stream validator.
type state int

// event classifies one annotated token for a validator transition. A token
// classifying to eventNone rejects the stream outright.
type event int

const (
	eventNone event = iota
	eventRef
	eventNumber
	eventStar
	eventPlusMinus
)

// transition is one labeled edge of a validator.
type transition struct {
	from state
	on   event
}

// validator is a deterministic state machine over annotated token streams.
// It expresses shape restrictions the host grammar alone cannot, such as
// limiting an expression to a weighted sum of references.
type validator struct {
	classify    func(Token) event
	transitions map[transition]state
	start       state
	accept      state
	emptyValid  bool
}

// validate runs the machine over the stream and reports the first token at
// which it cannot proceed.
func (v *validator) validate(tokens []Token) error {
	if len(tokens) == 0 {
		if v.emptyValid {
			return nil
		}

		return errors.New("contains no tokens")
	}

	cur := v.start

	for _, tok := range tokens {
		ev := v.classify(tok)
		if ev == eventNone {
			return fmt.Errorf("contains unexpected token '%s'", tok.Text)
		}

		next, ok := v.transitions[transition{from: cur, on: ev}]
		if !ok {
			return fmt.Errorf("contains misplaced token '%s'", tok.Text)
		}

		cur = next
	}

	if cur != v.accept {
		return errors.New("ends before its final term is complete")
	}

	return nil
}
