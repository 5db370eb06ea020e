package lang

import (
	"log/slog"

	"github.com/expr-lang/expr"
)

// Eval runs a validated expression with the given value bound to each
// referenced object, returning the number or boolean it produces. values is
// keyed by the object handles the expression resolved to, and must cover
// every one of them. Whitelisted functions are bound to the engine's
// implementations.
//
// An expression that never passed [Parsed.Validate] does not evaluate.
func (p *Parsed) Eval(values map[any]float64) (any, error) {
	if !p.valid {
		return nil, ErrNotParsed.Wrapf("cannot evaluate '%s'", p.source)
	}

	if p.program == nil {
		return nil, ErrEval.Wrapf("cannot evaluate an empty expression")
	}

	refs := p.terms()
	env := make(map[string]any, len(refs)+len(p.owner.Functions))

	for i, ref := range refs {
		val, ok := values[ref.Obj]
		if !ok {
			return nil, ErrEval.Wrapf("no value given for '%s'", ref)
		}

		env[termName(i)] = val
	}

	for _, name := range p.owner.Functions {
		if f, ok := funcs[name]; ok {
			env[name] = f
		}
	}

	out, err := expr.Run(p.program, env)
	if err != nil {
		return nil, ErrEval.Wrapf("cannot evaluate '%s': %w", p.source, err)
	}

	p.cfg.logger.Trace("evaluated expression",
		slog.String("source", p.source),
		slog.Any("result", out),
	)

	return out, nil
}

// EvalFloat evaluates the expression and coerces its result to a float64.
// Boolean results do not coerce.
func (p *Parsed) EvalFloat(values map[any]float64) (float64, error) {
	out, err := p.Eval(values)
	if err != nil {
		return 0, err
	}

	f, err := toFloat(out)
	if err != nil {
		return 0, ErrEval.Wrapf("'%s' does not evaluate to a number: %w", p.source, err)
	}

	return f, nil
}

// EvalBool evaluates the expression and requires a boolean result.
func (p *Parsed) EvalBool(values map[any]float64) (bool, error) {
	out, err := p.Eval(values)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, ErrEval.Wrapf("'%s' does not evaluate to a boolean, but a %T", p.source, out)
	}

	return b, nil
}
