// Package model defines a schema of interlinked biochemical entities whose
// attributes hold expressions, and the machinery to load, resolve, and
// evaluate them.
//
// A model is a YAML document listing compartments, species types, species,
// parameters, observables, functions, reactions with rate laws, objectives,
// and stop conditions:
//
//	id: glycolysis
//	compartments:
//	  - id: c
//	    volume: 1.0
//	species_types:
//	  - id: glc
//	parameters:
//	  - id: k_cat
//	    value: 0.5
//	species:
//	  - species_type: glc
//	    compartment: c
//	    concentration: 3.0
//	observables:
//	  - id: total_glc
//	    expression: glc[c]
//	reactions:
//	  - id: hex
//	    participants:
//	      - species: glc[c]
//	        coefficient: -1
//	    rate_laws:
//	      - direction: forward
//	        expression: k_cat * glc[c]
//
// A [Session] loads documents, resolving every expression attribute against
// the model's symbol table under its owner contract and interning repeated
// source. Every invalid expression in the document is reported at once
// through an [Invalid] error.
//
// A [Calc] evaluates the loaded expressions. Parameters, species, and
// compartments supply their declared values; observables and functions
// evaluate recursively with memoization and cycle detection; reaction fluxes
// are bound by the caller before objectives evaluate.
package model
