package cmd

import (
	"context"

	"github.com/ardnew/mexl/cli/cmd/repl"
	"github.com/ardnew/mexl/log"
)

// Repl starts the interactive evaluator over a loaded model.
type Repl struct {
	Kind string `default:"rate-law" enum:"observable,function,rate-law,objective,stop-condition" help:"Expression owner kind"`
	Fold bool   `help:"Resolve identifiers case-insensitively" negatable:""`

	Model string `arg:"" help:"Model file to load" name:"model"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, resolved, err := loadModel(ctx, r.Model, r.Fold)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, repl.Options{
		Model:    m,
		Path:     resolved,
		Owner:    ownerKinds[r.Kind](),
		Fold:     r.Fold,
		CacheDir: cacheDir,
		Logger:   log.Default(),
	})
}
