package model

import (
	"testing"
)

// fixtureYAML exercises every entity kind and owner contract. Expected
// values: total = 3 + 2*1 = 5, scaled = 0.5 * 5 = 2.5, forward rate =
// 0.5*3/(3+3) = 0.25, backward rate = pow(0.5, 2) = 0.25.
const fixtureYAML = `
id: fixture
name: Expression fixture
compartments:
  - id: c
    volume: 2.0
species_types:
  - id: glc
  - id: atp
parameters:
  - id: k_cat
    value: 0.5
  - id: k_m
    value: 3.0
species:
  - species_type: glc
    compartment: c
    concentration: 3.0
  - species_type: atp
    compartment: c
    concentration: 1.0
observables:
  - id: total
    expression: glc[c] + 2 * atp[c]
functions:
  - id: scaled
    expression: k_cat * total
reactions:
  - id: hex
    participants:
      - species: glc[c]
        coefficient: -1
      - species: atp[c]
        coefficient: -1
    rate_laws:
      - direction: forward
        expression: k_cat * glc[c] / ( k_m + glc[c] )
      - direction: backward
        expression: pow(k_cat, 2)
objectives:
  - id: growth
    expression: hex
  - id: growth_copy
    expression: hex
  - id: idle
stop_conditions:
  - id: halt
    expression: total > 4
  - id: never
    expression: total > 100
  - id: numeric
    expression: k_cat + 1
`

// loadFixture loads fixtureYAML through a fresh session.
func loadFixture(t testing.TB, opts ...Option) *Model {
	t.Helper()

	m, err := NewSession(opts...).Load([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	return m
}

// calcFixture loads fixtureYAML and wraps it in a calculator.
func calcFixture(t testing.TB, opts ...Option) *Calc {
	t.Helper()

	c, err := NewCalc(loadFixture(t, opts...))
	if err != nil {
		t.Fatalf("NewCalc() = %v", err)
	}

	return c
}
