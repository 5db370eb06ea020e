package model

import (
	"errors"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mexl/lang"
)

// Session loads model documents. Expressions repeated across entities of one
// model are resolved once through an interning cache; the cache is cleared
// at the start of every load, since each model brings its own symbol table.
type Session struct {
	cache *lang.Cache
	cfg   config
}

// NewSession creates a loading session.
func NewSession(opts ...Option) *Session {
	return &Session{
		cache: lang.NewCache(),
		cfg:   apply(config{}, opts...),
	}
}

// Reset discards the session's interned expressions.
func (s *Session) Reset() {
	s.cache.Reset()
}

// LoadFile loads a model from a YAML file.
func (s *Session) LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	return s.Load(data)
}

// Load decodes a model from YAML, verifies its structure, and resolves and
// validates every expression attribute against its owner contract. All
// invalid expressions are reported together through an [Invalid] error.
func (s *Session) Load(data []byte) (*Model, error) {
	s.cache.Reset()

	m := new(Model)
	if err := yaml.UnmarshalWithOptions(data, m, yaml.Strict()); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	if err := m.Check(); err != nil {
		return nil, err
	}

	table, err := m.Table()
	if err != nil {
		return nil, err
	}

	if err := s.resolve(m, table); err != nil {
		return nil, err
	}

	s.cfg.logger.Debug("loaded model",
		slog.String("id", m.ID),
		slog.Int("species", len(m.Species)),
		slog.Int("reactions", len(m.Reactions)),
		slog.Int("expressions", s.cache.Len()),
	)

	return m, nil
}

// check parses and validates one expression attribute, recording problems
// on inv under the attribute's own name rather than the interned one.
func (s *Session) check(
	inv *Invalid,
	owner lang.Owner, attr, source string,
	table *lang.Table,
) (*lang.Parsed, error) {
	p, err := s.cache.Parse(owner, attr, source, table, s.cfg.langOpts()...)
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		ee := &lang.ExprError{}
		if !errors.As(err, &ee) {
			return nil, err
		}

		inv.Errors = append(inv.Errors,
			lang.NewExprError(owner.Name, attr, ee.Source, ee.Issues...))
	}

	return p, nil
}

// resolve walks every expression attribute of the model.
func (s *Session) resolve(m *Model, table *lang.Table) error {
	inv := &Invalid{Model: m.ID}

	for _, o := range m.Observables {
		p, err := s.check(inv, ObservableExpression(), o.ID, o.Expression, table)
		if err != nil {
			return err
		}

		o.parsed = p
	}

	for _, f := range m.Functions {
		p, err := s.check(inv, FunctionExpression(), f.ID, f.Expression, table)
		if err != nil {
			return err
		}

		f.parsed = p
	}

	for _, r := range m.Reactions {
		for _, rl := range r.RateLaws {
			attr := r.ID + "." + string(rl.Direction)

			p, err := s.check(inv, RateLawExpression(), attr, rl.Expression, table)
			if err != nil {
				return err
			}

			rl.parsed = p
		}
	}

	for _, o := range m.Objectives {
		p, err := s.check(inv, ObjectiveExpression(), o.ID, o.Expression, table)
		if err != nil {
			return err
		}

		o.parsed = p
	}

	for _, sc := range m.StopConditions {
		p, err := s.check(inv, StopConditionExpression(), sc.ID, sc.Expression, table)
		if err != nil {
			return err
		}

		sc.parsed = p
	}

	if len(inv.Errors) > 0 {
		return inv
	}

	return nil
}
