package model

import (
	"github.com/ardnew/mexl/lang"
)

// Expression category names. Qualified references name them directly,
// e.g. "Parameter.k_cat".
const (
	CompartmentCategory = "Compartment"
	SpeciesCategory     = "Species"
	ParameterCategory   = "Parameter"
	ObservableCategory  = "Observable"
	FunctionCategory    = "Function"
	ReactionCategory    = "Reaction"
)

// Model is the root of a loaded document. Entity ids are unique within
// their kind and shareable across kinds.
type Model struct {
	ID             string           `yaml:"id"`
	Name           string           `yaml:"name,omitempty"`
	Compartments   []*Compartment   `yaml:"compartments,omitempty"`
	SpeciesTypes   []*SpeciesType   `yaml:"species_types,omitempty"`
	Species        []*Species       `yaml:"species,omitempty"`
	Parameters     []*Parameter     `yaml:"parameters,omitempty"`
	Observables    []*Observable    `yaml:"observables,omitempty"`
	Functions      []*Function      `yaml:"functions,omitempty"`
	Reactions      []*Reaction      `yaml:"reactions,omitempty"`
	Objectives     []*Objective     `yaml:"objectives,omitempty"`
	StopConditions []*StopCondition `yaml:"stop_conditions,omitempty"`

	table *lang.Table
}

// Compartment is a physical container with a volume.
type Compartment struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name,omitempty"`
	Volume float64 `yaml:"volume"`
}

// SpeciesType is a chemical kind, instantiated per compartment as a Species.
// Species types are not referable from expressions; their species are.
type SpeciesType struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// Species is one species type in one compartment.
type Species struct {
	SpeciesType   string  `yaml:"species_type"`
	Compartment   string  `yaml:"compartment"`
	Concentration float64 `yaml:"concentration,omitempty"`
}

// ID returns the indexed identifier the species occupies in expressions,
// its type's id indexed by its compartment's id, e.g. "glc[c]".
func (s *Species) ID() string {
	return s.SpeciesType + "[" + s.Compartment + "]"
}

// Parameter is a named constant.
type Parameter struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name,omitempty"`
	Value float64 `yaml:"value"`
	Units string  `yaml:"units,omitempty"`
}

// Observable is a named linear combination of species and other observables.
type Observable struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Expression string `yaml:"expression"`

	parsed *lang.Parsed
}

// Parsed returns the resolved expression, nil before the model is loaded.
func (o *Observable) Parsed() *lang.Parsed { return o.parsed }

// Function is a named arithmetic expression over parameters, species,
// observables, and other functions.
type Function struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Expression string `yaml:"expression"`

	parsed *lang.Parsed
}

// Parsed returns the resolved expression, nil before the model is loaded.
func (f *Function) Parsed() *lang.Parsed { return f.parsed }

// Reaction transforms participant species at a rate given by its rate laws.
type Reaction struct {
	ID           string         `yaml:"id"`
	Name         string         `yaml:"name,omitempty"`
	Participants []*Participant `yaml:"participants,omitempty"`
	RateLaws     []*RateLaw     `yaml:"rate_laws,omitempty"`
}

// Participant relates a species to a reaction with a stoichiometric
// coefficient, negative for consumption.
type Participant struct {
	Species     string  `yaml:"species"`
	Coefficient float64 `yaml:"coefficient"`
}

// Direction orients a rate law on its reaction.
type Direction string

// The two rate law directions.
const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

func (d Direction) valid() bool {
	return d == Forward || d == Backward
}

// RateLaw gives the rate of its reaction in one direction.
type RateLaw struct {
	Direction  Direction `yaml:"direction"`
	Expression string    `yaml:"expression"`

	parsed *lang.Parsed
}

// Parsed returns the resolved expression, nil before the model is loaded.
func (r *RateLaw) Parsed() *lang.Parsed { return r.parsed }

// Objective is a quantity to optimize, expressed over reaction fluxes. An
// objective may leave its expression empty, in which case it values 0.
type Objective struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Expression string `yaml:"expression,omitempty"`

	parsed *lang.Parsed
}

// Parsed returns the resolved expression, nil before the model is loaded.
func (o *Objective) Parsed() *lang.Parsed { return o.parsed }

// StopCondition halts a simulation when its expression evaluates true.
type StopCondition struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name,omitempty"`
	Expression string `yaml:"expression"`

	parsed *lang.Parsed
}

// Parsed returns the resolved expression, nil before the model is loaded.
func (s *StopCondition) Parsed() *lang.Parsed { return s.parsed }

// ObservableExpression is the owner contract of Observable.Expression: a
// weighted sum of species and other observables, no function calls.
func ObservableExpression() lang.Owner {
	return lang.Owner{
		Name:       "ObservableExpression",
		Categories: []string{SpeciesCategory, ObservableCategory},
		Linear:     true,
	}
}

// FunctionExpression is the owner contract of Function.Expression.
func FunctionExpression() lang.Owner {
	return lang.Owner{
		Name: "FunctionExpression",
		Categories: []string{
			ParameterCategory, SpeciesCategory, ObservableCategory, FunctionCategory,
		},
		Functions: lang.FuncNames(),
	}
}

// RateLawExpression is the owner contract of RateLaw.Expression.
func RateLawExpression() lang.Owner {
	return lang.Owner{
		Name: "RateLawExpression",
		Categories: []string{
			ParameterCategory, SpeciesCategory, ObservableCategory,
			FunctionCategory, CompartmentCategory,
		},
		Functions: lang.FuncNames(),
	}
}

// ObjectiveExpression is the owner contract of Objective.Expression: a
// weighted sum of reaction fluxes.
func ObjectiveExpression() lang.Owner {
	return lang.Owner{
		Name:       "ObjectiveExpression",
		Categories: []string{ReactionCategory},
		Linear:     true,
	}
}

// StopConditionExpression is the owner contract of StopCondition.Expression.
// Its result must be a boolean.
func StopConditionExpression() lang.Owner {
	return lang.Owner{
		Name: "StopConditionExpression",
		Categories: []string{
			ParameterCategory, ObservableCategory, FunctionCategory,
		},
		Functions: lang.FuncNames(),
	}
}

// Table returns the symbol table expressions resolve against, one category
// per referable entity kind, built on first use. Entities added to the model
// afterward are not visible through it.
func (m *Model) Table() (*lang.Table, error) {
	if m.table != nil {
		return m.table, nil
	}

	table := lang.NewTable(
		lang.Category{Name: CompartmentCategory, Pattern: lang.NamePattern()},
		lang.Category{Name: SpeciesCategory, Pattern: lang.IndexedNamePattern()},
		lang.Category{Name: ParameterCategory, Pattern: lang.NamePattern()},
		lang.Category{Name: ObservableCategory, Pattern: lang.NamePattern()},
		lang.Category{Name: FunctionCategory, Pattern: lang.NamePattern()},
		lang.Category{Name: ReactionCategory, Pattern: lang.NamePattern()},
	)

	add := func(category, id string, obj any) error {
		if err := table.Add(category, id, obj); err != nil {
			return ErrSchema.Wrap(err)
		}

		return nil
	}

	for _, c := range m.Compartments {
		if err := add(CompartmentCategory, c.ID, c); err != nil {
			return nil, err
		}
	}

	for _, s := range m.Species {
		if err := add(SpeciesCategory, s.ID(), s); err != nil {
			return nil, err
		}
	}

	for _, p := range m.Parameters {
		if err := add(ParameterCategory, p.ID, p); err != nil {
			return nil, err
		}
	}

	for _, o := range m.Observables {
		if err := add(ObservableCategory, o.ID, o); err != nil {
			return nil, err
		}
	}

	for _, f := range m.Functions {
		if err := add(FunctionCategory, f.ID, f); err != nil {
			return nil, err
		}
	}

	for _, r := range m.Reactions {
		if err := add(ReactionCategory, r.ID, r); err != nil {
			return nil, err
		}
	}

	m.table = table

	return table, nil
}

// Check verifies structural integrity: ids present and unique within their
// kind, and every cross-entity reference naming an entity that exists.
// Expression attributes are not checked here; loading resolves them.
func (m *Model) Check() error {
	seen := make(map[string]map[string]bool)

	unique := func(kind, id string) error {
		if id == "" {
			return ErrSchema.Wrapf("a %s has no id", kind)
		}

		ids, ok := seen[kind]
		if !ok {
			ids = make(map[string]bool)
			seen[kind] = ids
		}

		if ids[id] {
			return ErrSchema.Wrapf("duplicate %s id '%s'", kind, id)
		}

		ids[id] = true

		return nil
	}

	for _, c := range m.Compartments {
		if err := unique("compartment", c.ID); err != nil {
			return err
		}
	}

	for _, st := range m.SpeciesTypes {
		if err := unique("species type", st.ID); err != nil {
			return err
		}
	}

	for _, p := range m.Parameters {
		if err := unique("parameter", p.ID); err != nil {
			return err
		}
	}

	for _, o := range m.Observables {
		if err := unique("observable", o.ID); err != nil {
			return err
		}
	}

	for _, f := range m.Functions {
		if err := unique("function", f.ID); err != nil {
			return err
		}
	}

	for _, r := range m.Reactions {
		if err := unique("reaction", r.ID); err != nil {
			return err
		}
	}

	for _, o := range m.Objectives {
		if err := unique("objective", o.ID); err != nil {
			return err
		}
	}

	for _, sc := range m.StopConditions {
		if err := unique("stop condition", sc.ID); err != nil {
			return err
		}
	}

	for _, s := range m.Species {
		if !seen["species type"][s.SpeciesType] {
			return ErrSchema.Wrapf("species '%s' names an unknown species type '%s'",
				s.ID(), s.SpeciesType)
		}

		if !seen["compartment"][s.Compartment] {
			return ErrSchema.Wrapf("species '%s' names an unknown compartment '%s'",
				s.ID(), s.Compartment)
		}

		if err := unique("species", s.ID()); err != nil {
			return err
		}
	}

	for _, r := range m.Reactions {
		dirs := make(map[Direction]bool, 2)

		for _, rl := range r.RateLaws {
			if !rl.Direction.valid() {
				return ErrSchema.Wrapf("reaction '%s' has a rate law with direction '%s'",
					r.ID, rl.Direction)
			}

			if dirs[rl.Direction] {
				return ErrSchema.Wrapf("reaction '%s' has two %s rate laws",
					r.ID, rl.Direction)
			}

			dirs[rl.Direction] = true
		}

		for _, part := range r.Participants {
			if !seen["species"][part.Species] {
				return ErrSchema.Wrapf("reaction '%s' consumes or produces an unknown species '%s'",
					r.ID, part.Species)
			}
		}
	}

	return nil
}

func (m *Model) objective(id string) *Objective {
	for _, o := range m.Objectives {
		if o.ID == id {
			return o
		}
	}

	return nil
}

func (m *Model) stopCondition(id string) *StopCondition {
	for _, sc := range m.StopConditions {
		if sc.ID == id {
			return sc
		}
	}

	return nil
}
