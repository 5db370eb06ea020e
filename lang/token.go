package lang

import "fmt"

// Code classifies a token of a resolved expression.
//
// The classification drives rendering, linear-form validation, and the
// evaluation environment. Every token in a successfully resolved expression
// carries exactly one code.
type Code int

//go:generate go tool stringer --linecomment --type Code --output code_string.go

const (
	// CodeNumber is a numeric literal (integer or floating-point).
	CodeNumber Code = iota // number
	// CodeOp is an arithmetic operator, comparison, boolean connective,
	// grouping paren, or argument separator.
	CodeOp // op
	// CodeFunc is a whitelisted function name in call position.
	CodeFunc // func
	// CodeRef is an identifier resolved to a symbol table member.
	CodeRef // ref
	// CodeOther is anything the resolver recognizes but none of the
	// above categories claim.
	CodeOther // other
)

// Ref identifies one symbol table member: the category it belongs to, its
// canonical id within that category, and the opaque object handle registered
// for it.
type Ref struct {
	Obj      any
	Category string
	ID       string
}

func (r Ref) String() string { return r.Category + "." + r.ID }

// Token is one annotated token of a resolved expression. Text is the exact
// source substring the token covers, preserving case, and spans every host
// token of a multi-token reference (e.g. "spec_0[c_0]" or "Parameter.k").
type Token struct {
	Ref  Ref
	Text string
	Code Code
}

func (t Token) String() string {
	if t.Code == CodeRef {
		return fmt.Sprintf("%s(%q %s)", t.Code, t.Text, t.Ref)
	}

	return fmt.Sprintf("%s(%q)", t.Code, t.Text)
}
