package lang

import (
	"errors"
	"slices"
	"testing"

	"github.com/expr-lang/expr/parser/lexer"
)

func TestLex(t *testing.T) {
	tokens, err := lex("a + 3.14e+2")
	if err != nil {
		t.Fatal(err)
	}

	kinds := make([]lexer.Kind, 0, len(tokens))
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}

	want := []lexer.Kind{lexer.Identifier, lexer.Operator, lexer.Number}
	if !slices.Equal(kinds, want) {
		t.Errorf("lex() kinds = %v, want %v (no trailing EOF)", kinds, want)
	}
}

func TestLex_Empty(t *testing.T) {
	tokens, err := lex("")
	if err != nil {
		t.Fatal(err)
	}

	if len(tokens) != 0 {
		t.Errorf("lex(\"\") = %v, want none", tokens)
	}
}

func TestLex_HardErrors(t *testing.T) {
	for _, source := range []string{"@", "a @ b", "3j", `"abc`, "/* unclosed"} {
		t.Run(source, func(t *testing.T) {
			if _, err := lex(source); !errors.Is(err, ErrLex) {
				t.Errorf("lex(%q) = %v, want a token failure", source, err)
			}
		})
	}
}

func TestTextAndSpan(t *testing.T) {
	src := []rune("spec[c]")

	tokens, err := lex(string(src))
	if err != nil {
		t.Fatal(err)
	}

	if len(tokens) != 4 {
		t.Fatalf("lex() = %v, want 4 tokens", tokens)
	}

	if got := text(src, tokens[0]); got != "spec" {
		t.Errorf("text() = %q, want %q", got, "spec")
	}

	if got := span(src, tokens[0], tokens[3]); got != "spec[c]" {
		t.Errorf("span() = %q, want %q", got, "spec[c]")
	}
}

func TestAdjacent(t *testing.T) {
	packed, err := lex("spec[c]")
	if err != nil {
		t.Fatal(err)
	}

	for i := range len(packed) - 1 {
		if !adjacent(packed[i], packed[i+1]) {
			t.Errorf("tokens %d and %d of %q are not adjacent", i, i+1, "spec[c]")
		}
	}

	spaced, err := lex("spec [c]")
	if err != nil {
		t.Fatal(err)
	}

	if adjacent(spaced[0], spaced[1]) {
		t.Errorf("tokens 0 and 1 of %q are adjacent", "spec [c]")
	}
}

func TestBadTokens(t *testing.T) {
	for _, tt := range []struct {
		name   string
		source string
		want   []string
	}{
		{name: "assignment", source: "x = 3", want: []string{"="}},
		{name: "statement separator", source: "a ; b", want: []string{";"}},
		{name: "string literal", source: `x + "lit"`, want: []string{`"lit"`}},
		{name: "braces", source: "{ x }", want: []string{"{", "}"}},
		{name: "range", source: "a .. b", want: []string{".."}},
		{name: "pipe", source: "a | b", want: []string{"|"}},
		{name: "symbolic boolean", source: "a && b", want: []string{"&&"}},
		{name: "everything at once", source: `x = "s" ; { }`, want: []string{"=", `"s"`, ";", "{", "}"}},
		{name: "arithmetic", source: "a + b - c * d / e % f ** g ^ h"},
		{name: "comparison", source: "a == b != c < d > e <= f >= g"},
		{name: "boolean words", source: "a and b or not c"},
		{name: "calls and indexing", source: "f(a, b) + s[i]"},
		{name: "qualified name", source: "Parameter.x"},
		{name: "stray dot", source: "a . b"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.source)
			if err != nil {
				t.Fatal(err)
			}

			got := badTokens([]rune(tt.source), tokens)
			if tt.want == nil {
				tt.want = []string{}
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("badTokens(%q) = %v, want %v", tt.source, got, tt.want)
			}
		})
	}
}

func TestText_RuneOffsets(t *testing.T) {
	source := `x + "βγ"`

	tokens, err := lex(source)
	if err != nil {
		t.Fatal(err)
	}

	bad := badTokens([]rune(source), tokens)
	if len(bad) != 1 || bad[0] != `"βγ"` {
		t.Errorf("badTokens(%q) = %v, want the string literal intact", source, bad)
	}
}
