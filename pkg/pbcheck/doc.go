// Package pbcheck verifies cutting-planes proofs over pseudo-Boolean
// constraints: linear integer inequalities of the form Σ aᵢℓᵢ ≥ d over
// 0/1 literals with non-negative coefficients and degree.
//
// The package is organized around four tightly coupled subsystems:
//
//   - the inequality algebra (literal.go, inequality.go): normalized PB
//     constraints with add, multiply, divide, saturate, weaken, negate,
//     substitute and implies;
//   - the propagation engine (propagation.go, trail.go): a slack-based
//     unit-propagation store used for RUP checks and for computing which
//     constraints are "effected" by a witness substitution;
//   - the rule catalogue and dispatcher (rule.go, rules_*.go, verifier.go):
//     the state machine that reads proof steps, binds each to a rule, and
//     manages nested sub-proof contexts;
//   - the auto-prover (autoprove.go) and order/dominance subsystem
//     (order.go, rules_order.go) for sub-goals left implicit by the proof.
//
// Everything in this package is single-threaded and synchronous: a
// Verifier owns its database, propagation engine, and variable registry
// outright and mutates them only from its own call stack. This package
// never parses a file or a command line; it is handed already-tokenized
// proof lines through the TokenLine contract (see verifier.go) and
// already-parsed formula constraints through LoadFormulaData.
package pbcheck
