package lang

import "strconv"

// Linear-form states. An expression is linear when it is a sum of terms,
// each term a reference optionally scaled by one numeric coefficient.
const (
	linStart state = iota
	linExpectOp
	linExpectTerm
	linAfterTerm
)

// linearForm accepts weighted sums of references: "ref", "3 * ref", and
// sums of those joined by '+' or '-'. Function calls, products of
// references, parenthesized groups, and bare constants are all rejected.
// An empty stream is linear.
var linearForm = &validator{
	classify: classifyLinear,
	transitions: map[transition]state{
		{from: linStart, on: eventRef}:           linAfterTerm,
		{from: linStart, on: eventNumber}:        linExpectOp,
		{from: linExpectOp, on: eventStar}:       linExpectTerm,
		{from: linExpectTerm, on: eventRef}:      linAfterTerm,
		{from: linAfterTerm, on: eventPlusMinus}: linStart,
	},
	start:      linStart,
	accept:     linAfterTerm,
	emptyValid: true,
}

// classifyLinear maps annotated tokens to linear-form events. A coefficient
// must parse as a float; operators other than scaling and summing have no
// event at all.
func classifyLinear(tok Token) event {
	switch tok.Code {
	case CodeRef:
		return eventRef

	case CodeNumber:
		if _, err := strconv.ParseFloat(tok.Text, 64); err == nil {
			return eventNumber
		}

	case CodeOp:
		switch tok.Text {
		case "*":
			return eventStar
		case "+", "-":
			return eventPlusMinus
		}

	case CodeFunc, CodeOther:
	}

	return eventNone
}
