// Package lang resolves and validates the arithmetic expressions embedded in
// model entities. It takes a short human-written expression string (e.g.
// "k_cat * spec_0[c_0] / (k_m + spec_0[c_0])"), resolves every identifier
// against a caller-supplied, multi-category symbol table, verifies syntactic
// and semantic well-formedness, and produces a compiled representation that
// can be evaluated repeatedly with different value substitutions.
//
// All expression tokenization, compilation, and evaluation is delegated to
// expr-lang. This package wraps its lexer with the identifier resolution the
// host grammar knows nothing about, and wraps its compiler and VM with the
// validation passes the model layer requires.
//
// # Resolution
//
// Identifiers are not fixed at compile time. Each parse receives a [Table]
// mapping categories (species, parameters, observables, ...) to member ids to
// opaque object handles, and an [Owner] declaring which categories and which
// callable functions the expression may reference. Member ids may collide
// across categories; collisions are detected and reported, never silently
// resolved.
//
// At each name in the source, the shape of the surrounding tokens selects a
// resolution strategy:
//
//   - Name '.' Name  → disambiguated reference (category-qualified lookup)
//   - Name '('       → function call (owner whitelist lookup)
//   - Name           → bare reference (all allowed categories at once)
//
// A bare name that matches members in more than one category is an error
// enumerating every match. A bare name that also collides with a category
// label or a whitelisted function name is likewise reported as ambiguous
// rather than silently resolved.
//
// # Validation
//
// [Parsed.Validate] confirms that every name resolved, that no foreign
// tokens (strings, braces, assignment operators) appear, and that the
// expression compiles under the expr-lang grammar. Owners may additionally
// demand the expression be a linear combination of references, checked by a
// small state machine over the annotated token stream. All failures found in
// one pass are reported together so a caller can surface every problem in a
// model at once.
//
// # Evaluation
//
// [Parsed.Eval] binds resolved references to caller-supplied numeric values
// and whitelisted function names to implementations from [FuncNames], then
// runs the compiled program. Evaluating an expression that never validated
// fails fast rather than producing garbage.
//
// # Caching
//
// Two attributes with byte-identical expressions share one parsed
// representation when parsed through a [Cache]. The cache is an explicit
// object owned by the model-loading session, never package-level state, and
// must be [Cache.Reset] between independent model loads.
package lang
