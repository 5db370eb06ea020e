package lang

import (
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/parser/lexer"
)

// legalOps are the operator values permitted in model expressions. The host
// grammar lexes a wider set (assignment, pipes, ranges, string predicates)
// that model expressions reject outright.
var legalOps = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {}, "^": {},
	"==": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"and": {}, "or": {}, "not": {},
	",": {},
}

// lex tokenizes source with the host lexer, stripping the trailing EOF
// token. Input the host grammar cannot tokenize at all (malformed numbers,
// unterminated comments, characters outside the grammar) fails here.
func lex(source string) ([]lexer.Token, error) {
	tokens, err := lexer.Lex(file.NewSource(source))
	if err != nil {
		return nil, ErrLex.Wrap(err)
	}

	if n := len(tokens); n > 0 && tokens[n-1].Kind == lexer.EOF {
		tokens = tokens[:n-1]
	}

	return tokens, nil
}

// text returns the exact source substring one host token covers.
func text(src []rune, tok lexer.Token) string {
	return string(src[tok.From:tok.To])
}

// span returns the exact source substring from the start of the first token
// through the end of the last.
func span(src []rune, first, last lexer.Token) string {
	return string(src[first.From:last.To])
}

// adjacent reports whether two host tokens touch without whitespace between
// them. Multi-token reference shapes require adjacency, so "spec[c]" is one
// reference while "spec [c]" is not.
func adjacent(a, b lexer.Token) bool {
	return a.To == b.From
}

// badTokens returns the source text of every token that can never appear in
// a model expression: string literals, braces, and operators outside the
// arithmetic, comparison, and boolean set.
func badTokens(src []rune, tokens []lexer.Token) []string {
	bad := make([]string, 0)

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.String:
			bad = append(bad, text(src, tok))

		case lexer.Bracket:
			if tok.Value == "{" || tok.Value == "}" {
				bad = append(bad, text(src, tok))
			}

		case lexer.Operator:
			if tok.Value == "." {
				// Not legal on its own, but resolution consumes dots
				// inside qualified references before classifying strays.
				continue
			}

			if _, ok := legalOps[tok.Value]; !ok {
				bad = append(bad, text(src, tok))
			}
		}
	}

	return bad
}
