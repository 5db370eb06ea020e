package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrLex            = NewError("invalid token")
	ErrUnresolved     = NewError("unresolved identifier")
	ErrAmbiguous      = NewError("ambiguous identifier")
	ErrDisambiguation = NewError("invalid disambiguation")
	ErrFunction       = NewError("invalid function call")
	ErrConfig         = NewError("invalid configuration")
	ErrSyntax         = NewError("expression compilation failed")
	ErrLinear         = NewError("expression is not linear")
	ErrEval           = NewError("expression evaluation failed")
	ErrNotParsed      = NewError("expression was not successfully parsed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches the predefined error a derived one was built from. Wrap, Wrapf,
// and With all preserve the base message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && e.msg != "" && e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ExprError collects every issue found in a single expression attribute.
// Resolution and validation report all problems at once rather than stopping
// at the first, so a caller can surface everything wrong with a model in one
// pass.
type ExprError struct {
	Owner  string   // Expression owner (e.g. "RateLawExpression")
	Attr   string   // Attribute holding the expression
	Source string   // The original source input
	Issues []*Error // Individual problems, in discovery order
}

func NewExprError(owner, attr, source string, issues ...*Error) *ExprError {
	return &ExprError{
		Owner:  owner,
		Attr:   attr,
		Source: source,
		Issues: issues,
	}
}

// Error implements the error interface.
func (e *ExprError) Error() string {
	var buf strings.Builder

	buf.WriteString("invalid ")
	buf.WriteString(e.Owner)

	if e.Attr != "" {
		buf.WriteRune('.')
		buf.WriteString(e.Attr)
	}

	buf.WriteString(" expression ")
	buf.WriteString(strconv.Quote(e.Source))

	for _, issue := range e.Issues {
		buf.WriteString("\n\t")
		buf.WriteString(issue.Error())
	}

	return buf.String()
}

// Unwrap exposes each issue to errors.Is/As.
func (e *ExprError) Unwrap() []error {
	errs := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		errs[i] = issue
	}

	return errs
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *ExprError) LogValue() slog.Value {
	issues := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		issues[i] = issue.Error()
	}

	return slog.GroupValue(
		slog.String("owner", e.Owner),
		slog.String("attr", e.Attr),
		slog.String("source", e.Source),
		slog.Any("issues", issues),
	)
}
