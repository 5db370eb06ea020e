package model

import (
	"log/slog"
	"strings"

	"github.com/ardnew/mexl/lang"
)

// Calc evaluates a loaded model's expressions. Parameters, species, and
// compartments supply their declared values. Observables and functions
// evaluate their own expressions on demand, memoized, with cycle detection.
// Reaction fluxes have no declared value; bind them before evaluating
// objectives.
//
// A Calc is not safe for concurrent use.
type Calc struct {
	model  *Model
	table  *lang.Table
	memo   map[any]float64
	active map[any]bool
	fluxes map[*Reaction]float64
	cfg    config
}

// NewCalc creates a calculator over a loaded model.
func NewCalc(m *Model, opts ...Option) (*Calc, error) {
	table, err := m.Table()
	if err != nil {
		return nil, err
	}

	return &Calc{
		model:  m,
		table:  table,
		memo:   make(map[any]float64),
		active: make(map[any]bool),
		fluxes: make(map[*Reaction]float64),
		cfg:    apply(config{}, opts...),
	}, nil
}

// Reset discards memoized observable and function values. Call it after
// changing any entity value the expressions depend on.
func (c *Calc) Reset() {
	clear(c.memo)
}

// BindFlux sets the flux carried by a reaction, the value its id stands for
// in objective expressions.
func (c *Calc) BindFlux(reaction string, flux float64) error {
	obj, err := c.find(ReactionCategory, reaction)
	if err != nil {
		return err
	}

	c.fluxes[obj.(*Reaction)] = flux

	return nil
}

// BindNetFluxes values every reaction's flux as its net rate, forward minus
// backward, from its rate laws at current entity values. It lets objective
// expressions evaluate without an external solver supplying fluxes.
func (c *Calc) BindNetFluxes() error {
	for _, r := range c.model.Reactions {
		flux := 0.0

		for _, rl := range r.RateLaws {
			v, err := c.evalFloat(rl.parsed)
			if err != nil {
				return err
			}

			if rl.Direction == Backward {
				flux -= v
			} else {
				flux += v
			}
		}

		c.fluxes[r] = flux
	}

	return nil
}

// Observable evaluates the named observable.
func (c *Calc) Observable(id string) (float64, error) {
	obj, err := c.find(ObservableCategory, id)
	if err != nil {
		return 0, err
	}

	return c.value(obj)
}

// Function evaluates the named function.
func (c *Calc) Function(id string) (float64, error) {
	obj, err := c.find(FunctionCategory, id)
	if err != nil {
		return 0, err
	}

	return c.value(obj)
}

// RateLaw evaluates a reaction's rate law in the given direction.
func (c *Calc) RateLaw(reaction string, dir Direction) (float64, error) {
	obj, err := c.find(ReactionCategory, reaction)
	if err != nil {
		return 0, err
	}

	for _, rl := range obj.(*Reaction).RateLaws {
		if rl.Direction == dir {
			return c.evalFloat(rl.parsed)
		}
	}

	return 0, ErrValue.Wrapf("reaction '%s' has no %s rate law", reaction, dir)
}

// Objective evaluates the named objective. An objective with an empty
// expression values 0.
func (c *Calc) Objective(id string) (float64, error) {
	o := c.model.objective(id)
	if o == nil {
		return 0, ErrValue.Wrapf("no objective '%s' in model '%s'", id, c.model.ID)
	}

	if strings.TrimSpace(o.Expression) == "" {
		return 0, nil
	}

	return c.evalFloat(o.parsed)
}

// StopCondition evaluates the named stop condition, which must produce a
// boolean.
func (c *Calc) StopCondition(id string) (bool, error) {
	sc := c.model.stopCondition(id)
	if sc == nil {
		return false, ErrValue.Wrapf("no stop condition '%s' in model '%s'", id, c.model.ID)
	}

	values, err := c.values(sc.parsed)
	if err != nil {
		return false, err
	}

	return sc.parsed.EvalBool(values)
}

// Eval evaluates an arbitrary resolved expression against the model,
// returning whatever it produces. The expression must have been parsed
// against this model's symbol table and validated.
func (c *Calc) Eval(p *lang.Parsed) (any, error) {
	values, err := c.values(p)
	if err != nil {
		return nil, err
	}

	out, err := p.Eval(values)
	if err != nil {
		return nil, err
	}

	c.cfg.logger.Trace("evaluated against model",
		slog.String("model", c.model.ID),
		slog.String("source", p.Source()),
		slog.Any("result", out),
	)

	return out, nil
}

// find looks up a table-registered entity by category and id.
func (c *Calc) find(category, id string) (any, error) {
	obj, _, ok := c.table.Lookup(category, id, c.cfg.fold)
	if !ok {
		return nil, ErrValue.Wrapf("no %s '%s' in model '%s'",
			strings.ToLower(category), id, c.model.ID)
	}

	return obj, nil
}

// values binds every object an expression references to its current value.
func (c *Calc) values(p *lang.Parsed) (map[any]float64, error) {
	if p == nil {
		return nil, ErrValue.Wrapf("expression was never resolved")
	}

	values := make(map[any]float64)

	for _, refs := range p.Objects() {
		for _, ref := range refs {
			v, err := c.value(ref.Obj)
			if err != nil {
				return nil, err
			}

			values[ref.Obj] = v
		}
	}

	return values, nil
}

// value resolves one entity handle to a number.
func (c *Calc) value(obj any) (float64, error) {
	switch x := obj.(type) {
	case *Compartment:
		return x.Volume, nil

	case *Parameter:
		return x.Value, nil

	case *Species:
		return x.Concentration, nil

	case *Reaction:
		flux, ok := c.fluxes[x]
		if !ok {
			return 0, ErrValue.Wrapf("no flux bound for reaction '%s'", x.ID)
		}

		return flux, nil

	case *Observable:
		return c.recurse(x, x.ID, x.parsed)

	case *Function:
		return c.recurse(x, x.ID, x.parsed)
	}

	return 0, ErrValue.Wrapf("cannot value a %T", obj)
}

// recurse evaluates an entity whose value is itself an expression.
func (c *Calc) recurse(obj any, id string, p *lang.Parsed) (float64, error) {
	if v, ok := c.memo[obj]; ok {
		return v, nil
	}

	if c.active[obj] {
		return 0, ErrCycle.Wrapf("'%s' depends on its own value", id)
	}

	c.active[obj] = true
	defer delete(c.active, obj)

	v, err := c.evalFloat(p)
	if err != nil {
		return 0, err
	}

	c.memo[obj] = v

	return v, nil
}

// evalFloat evaluates a resolved expression to a number.
func (c *Calc) evalFloat(p *lang.Parsed) (float64, error) {
	values, err := c.values(p)
	if err != nil {
		return 0, err
	}

	return p.EvalFloat(values)
}
