// Package check implements the check-and-report core: input validation,
// per-type heuristic risk scoring, and the service facade the front-ends
// call.
//
// This package contains the following main parts:
//   - Validator: pure syntactic pre-checks, one rule per check type
//   - Evaluators: six independent heuristics (ip, wallet, phone, email,
//     domain, url) that turn a validated input into a CheckResult
//   - Service: the facade exposing ValidateInput and PerformCheck
//
// Design decision: The six evaluators are dispatched through a type-keyed
// table on the Service rather than an interface hierarchy. Each evaluator
// has disjoint detail fields and no shared state, so inheritance-style
// abstraction would only add indirection. They share the CheckResult shape
// and the score-to-level classification from internal/model.
//
// Randomness is an injected dependency, never the ambient process source.
// Scores are fully deterministic; the random source only feeds cosmetic
// detail fields (estimated balances, carrier picks), so a seeded source
// makes entire results reproducible in tests.
package check
