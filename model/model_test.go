package model

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/mexl/lang"
)

func TestSpeciesID(t *testing.T) {
	s := &Species{SpeciesType: "glc", Compartment: "c"}

	if got := s.ID(); got != "glc[c]" {
		t.Errorf("ID() = %q, want %q", got, "glc[c]")
	}
}

func TestModelCheck(t *testing.T) {
	base := func() *Model {
		return &Model{
			ID:           "m",
			Compartments: []*Compartment{{ID: "c", Volume: 1}},
			SpeciesTypes: []*SpeciesType{{ID: "glc"}},
			Species:      []*Species{{SpeciesType: "glc", Compartment: "c"}},
			Parameters:   []*Parameter{{ID: "k", Value: 1}},
			Reactions: []*Reaction{{
				ID:           "r",
				Participants: []*Participant{{Species: "glc[c]", Coefficient: -1}},
				RateLaws:     []*RateLaw{{Direction: Forward, Expression: "k"}},
			}},
		}
	}

	if err := base().Check(); err != nil {
		t.Fatalf("Check() = %v on a well-formed model", err)
	}

	for _, tt := range []struct {
		name string
		warp func(*Model)
		want string
	}{
		{
			name: "missing id",
			warp: func(m *Model) { m.Parameters[0].ID = "" },
			want: "a parameter has no id",
		},
		{
			name: "duplicate id",
			warp: func(m *Model) { m.Parameters = append(m.Parameters, &Parameter{ID: "k"}) },
			want: "duplicate parameter id 'k'",
		},
		{
			name: "duplicate species",
			warp: func(m *Model) {
				m.Species = append(m.Species, &Species{SpeciesType: "glc", Compartment: "c"})
			},
			want: "duplicate species id 'glc[c]'",
		},
		{
			name: "unknown species type",
			warp: func(m *Model) { m.Species[0].SpeciesType = "frc" },
			want: "unknown species type 'frc'",
		},
		{
			name: "unknown compartment",
			warp: func(m *Model) { m.Species[0].Compartment = "n" },
			want: "unknown compartment 'n'",
		},
		{
			name: "unknown participant",
			warp: func(m *Model) { m.Reactions[0].Participants[0].Species = "frc[c]" },
			want: "unknown species 'frc[c]'",
		},
		{
			name: "bad rate law direction",
			warp: func(m *Model) { m.Reactions[0].RateLaws[0].Direction = "sideways" },
			want: "direction 'sideways'",
		},
		{
			name: "duplicate rate law direction",
			warp: func(m *Model) {
				m.Reactions[0].RateLaws = append(m.Reactions[0].RateLaws,
					&RateLaw{Direction: Forward, Expression: "k"})
			},
			want: "two forward rate laws",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.warp(m)

			err := m.Check()
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("Check() = %v, want schema failure", err)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Check() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestModelTable(t *testing.T) {
	m := loadFixture(t)

	table, err := m.Table()
	if err != nil {
		t.Fatal(err)
	}

	again, err := m.Table()
	if err != nil {
		t.Fatal(err)
	}

	if table != again {
		t.Error("Table() rebuilt on second call")
	}

	names := make([]string, 0, 6)
	for _, cat := range table.Categories() {
		names = append(names, cat.Name)
	}

	want := []string{
		CompartmentCategory, SpeciesCategory, ParameterCategory,
		ObservableCategory, FunctionCategory, ReactionCategory,
	}
	if !slices.Equal(names, want) {
		t.Errorf("Categories() = %v, want %v", names, want)
	}

	obj, _, ok := table.Lookup(SpeciesCategory, "glc[c]", false)
	if !ok {
		t.Fatal("Lookup(glc[c]) failed")
	}

	if obj != m.Species[0] {
		t.Error("Lookup(glc[c]) returned the wrong handle")
	}
}

func TestOwnerContracts(t *testing.T) {
	for _, tt := range []struct {
		owner      lang.Owner
		categories []string
		funcs      bool
		linear     bool
	}{
		{
			owner:      ObservableExpression(),
			categories: []string{SpeciesCategory, ObservableCategory},
			linear:     true,
		},
		{
			owner: FunctionExpression(),
			categories: []string{
				ParameterCategory, SpeciesCategory, ObservableCategory, FunctionCategory,
			},
			funcs: true,
		},
		{
			owner: RateLawExpression(),
			categories: []string{
				ParameterCategory, SpeciesCategory, ObservableCategory,
				FunctionCategory, CompartmentCategory,
			},
			funcs: true,
		},
		{
			owner:      ObjectiveExpression(),
			categories: []string{ReactionCategory},
			linear:     true,
		},
		{
			owner: StopConditionExpression(),
			categories: []string{
				ParameterCategory, ObservableCategory, FunctionCategory,
			},
			funcs: true,
		},
	} {
		t.Run(tt.owner.Name, func(t *testing.T) {
			if !slices.Equal(tt.owner.Categories, tt.categories) {
				t.Errorf("categories = %v, want %v", tt.owner.Categories, tt.categories)
			}

			if tt.owner.Linear != tt.linear {
				t.Errorf("linear = %t, want %t", tt.owner.Linear, tt.linear)
			}

			if tt.funcs && !slices.Equal(tt.owner.Functions, lang.FuncNames()) {
				t.Errorf("functions = %v, want the full registry", tt.owner.Functions)
			}

			if !tt.funcs && tt.owner.Functions != nil {
				t.Errorf("functions = %v, want none declared", tt.owner.Functions)
			}
		})
	}
}
