package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/mexl/lang"
	"github.com/ardnew/mexl/log"
	"github.com/ardnew/mexl/model"
)

// Eval resolves, validates, and evaluates one expression string against a
// loaded model under a selected owner kind.
type Eval struct {
	Model string `help:"Model file to resolve against" name:"model" required:"" short:"m"`
	Kind  string `default:"rate-law" enum:"observable,function,rate-law,objective,stop-condition" help:"Expression owner kind"`
	Fold  bool   `help:"Resolve identifiers case-insensitively" negatable:""`

	Expr string `arg:"" help:"Expression to evaluate" name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, resolved, err := loadModel(ctx, e.Model, e.Fold)
	if err != nil {
		return err
	}

	table, err := m.Table()
	if err != nil {
		return err
	}

	owner := ownerKinds[e.Kind]()

	p, err := lang.Parse(owner, "eval", e.Expr, table,
		lang.WithCaseFold(e.Fold),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	if err := p.Validate(); err != nil {
		return lang.WrapError(err).
			With(
				slog.String("command", "eval"),
				slog.String("model", resolved),
			)
	}

	calc, err := model.NewCalc(m,
		model.WithCaseFold(e.Fold),
		model.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	if err := calc.BindNetFluxes(); err != nil {
		return err
	}

	out, err := calc.Eval(p)
	if err != nil {
		return lang.WrapError(err).
			With(
				slog.String("command", "eval"),
				slog.String("expr", p.Source()),
			)
	}

	fmt.Println(formatResult(out))

	return nil
}
