package model

import (
	"fmt"
	"strings"

	"github.com/ardnew/mexl/lang"
)

// Predefined errors (sentinel values).
var (
	ErrLoad   = lang.NewError("cannot load model")
	ErrSchema = lang.NewError("invalid model schema")
	ErrCycle  = lang.NewError("circular dependency")
	ErrValue  = lang.NewError("cannot compute value")
)

// Invalid reports every invalid expression found while loading one model.
// Each element identifies its owner kind, the entity attribute holding the
// source, and the problems with it.
type Invalid struct {
	Model  string
	Errors []*lang.ExprError
}

// Error implements the error interface.
func (e *Invalid) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "model '%s' has %d invalid expression", e.Model, len(e.Errors))

	if len(e.Errors) != 1 {
		buf.WriteByte('s')
	}

	for _, ee := range e.Errors {
		buf.WriteByte('\n')
		buf.WriteString(ee.Error())
	}

	return buf.String()
}

// Unwrap exposes each expression report to errors.Is/As.
func (e *Invalid) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ee := range e.Errors {
		errs[i] = ee
	}

	return errs
}
