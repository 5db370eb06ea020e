package repl

import (
	"testing"

	"github.com/ardnew/mexl/model"
)

// BenchmarkDetectFunctionCall benchmarks call detection on a representative
// rate-law expression with nested calls.
func BenchmarkDetectFunctionCall(b *testing.B) {
	input := "kcat * enz[c] * max(pow(glc[c], n), km)"

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = detectFunctionCall(input, len(input)-4)
	}
}

// BenchmarkGetSignature benchmarks signature lookups across the math
// function set.
func BenchmarkGetSignature(b *testing.B) {
	owner := model.RateLawExpression()
	functions := []string{"pow", "min", "max", "exp", "log", "ceil"}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = getSignature(owner, functions[i%len(functions)])
	}
}

// BenchmarkWordBounds benchmarks word boundary detection around an indexed
// species identifier.
func BenchmarkWordBounds(b *testing.B) {
	input := "kf * glc[c] + Parameter.km"

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _, _ = wordBounds(input, 11)
	}
}
