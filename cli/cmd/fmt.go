package cmd

import (
	"context"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/mexl/model"
)

// Fmt loads a model and re-emits it as normalized YAML: entities in schema
// order and every expression attribute rewritten as its whitespace-normalized
// source.
type Fmt struct {
	Indent int    `default:"2" help:"Indent width for YAML output"   short:"i"`
	Output string `help:"Write to file instead of stdout" short:"o" type:"path"`

	Model string `arg:"" help:"Model file to format" name:"model"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, _, err := loadModel(ctx, f.Model, false)
	if err != nil {
		return err
	}

	normalize(m)

	data, err := yaml.MarshalWithOptions(m,
		yaml.Indent(f.Indent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if f.Output == "" {
		_, err = os.Stdout.Write(data)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(f.Output, data, 0o600); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// normalize rewrites each expression attribute as the whitespace-normalized
// source its resolution retained.
func normalize(m *model.Model) {
	for _, o := range m.Observables {
		o.Expression = o.Parsed().Source()
	}

	for _, fn := range m.Functions {
		fn.Expression = fn.Parsed().Source()
	}

	for _, r := range m.Reactions {
		for _, rl := range r.RateLaws {
			rl.Expression = rl.Parsed().Source()
		}
	}

	for _, o := range m.Objectives {
		o.Expression = o.Parsed().Source()
	}

	for _, sc := range m.StopConditions {
		sc.Expression = sc.Parsed().Source()
	}
}
