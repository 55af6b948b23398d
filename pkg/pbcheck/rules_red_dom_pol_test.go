package pbcheck

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRuleRedSubstitutesWitness is the case where the witness maps a
// variable the redundant constraint actually mentions: the RightHand
// sub-goal must be checked against C(ω), not the raw, unsubstituted C,
// or it collapses to an unprovable claim about a variable nothing else
// constrains.
func TestRuleRedSubstitutesWitness(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)), // x1 >= 1
	}, nil)
	require.NoError(t, v.Step(tl(1, "f", "1", ";")))

	// x2 >= 1 is not provable on its own (x2 is otherwise unconstrained),
	// but substituted under x2 -> x1 it becomes exactly the formula's
	// own unit clause.
	require.NoError(t, v.Step(tl(2, "red", "1", "x2", ">=", "1", ";", "x2", "->", "x1", ";")))

	id := v.LastID()
	require.NoError(t, v.Step(tl(3, "e", id.String(), "1", "x2", ">=", "1", ";")))
}

// TestRuleRedRequiresNegatedHypothesis exercises a case where both the
// RightHand goal and the one effected sub-goal are only RUP-derivable
// once ¬C is available as a hypothesis alongside the formula: dropping
// that hypothesis leaves unit propagation stuck with no conflict, so
// this also regression-tests that ruleRedundant actually attaches it.
func TestRuleRedRequiresNegatedHypothesis(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(1)), // x1 v x2
	}, nil)
	require.NoError(t, v.Step(tl(1, "f", "1", ";")))

	require.NoError(t, v.Step(tl(2, "red", "1", "x2", ">=", "1", ";", "x2", "->", "x1", ";")))

	id := v.LastID()
	require.NoError(t, v.Step(tl(3, "e", id.String(), "1", "x2", ">=", "1", ";")))
}

// TestRuleRedRejectsUnprovableClaim checks the negative case: a new
// constraint over a variable nothing in the formula constrains, backed
// by an empty (no-op) witness, must be rejected rather than silently
// accepted.
func TestRuleRedRejectsUnprovableClaim(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)), // x1 >= 1
	}, nil)
	require.NoError(t, v.Step(tl(1, "f", "1", ";")))

	// x4 appears nowhere in the formula; an empty witness does nothing
	// to justify it.
	err := v.Step(tl(2, "red", "1", "x4", ">=", "1", ";", ";"))
	require.Error(t, err)
	var invalid *InvalidProofError
	require.ErrorAs(t, err, &invalid)
}

// TestRuleDominanceBasicWitness drives `dom` through the same
// substitution/¬C-hypothesis shape as TestRuleRedRequiresNegatedHypothesis,
// using an order loaded trusted (via load_order) so the test does not
// also have to reprove irreflexivity/transitivity.
func TestRuleDominanceBasicWitness(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(1)), // x1 v x2
	}, nil)
	require.NoError(t, v.Step(tl(1, "f", "1", ";")))

	require.NoError(t, v.Step(tl(2, "pre_order", "ord", ";")))
	require.NoError(t, v.Step(tl(3, "vars", "ord", "left", "x1", "right", "x2", "aux", ";")))
	require.NoError(t, v.Step(tl(4, "def", "ord", "1", "x1", ">=", "0", ";"))) // trivially true
	require.NoError(t, v.Step(tl(5, "load_order", "ord", ";")))

	require.NoError(t, v.Step(tl(6, "dom", "ord", "1", "x2", ">=", "1", ";", "x2", "->", "x1", ";")))

	id := v.LastID()
	require.NoError(t, v.Step(tl(7, "e", id.String(), "1", "x2", ">=", "1", ";")))
}

// TestRuleDominanceRejectsUnusableOrder checks `dom` refuses to fire
// against an order that has not had both irreflexivity and
// transitivity established.
func TestRuleDominanceRejectsUnusableOrder(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))
	require.NoError(t, v.Step(tl(2, "pre_order", "ord", ";")))
	require.NoError(t, v.Step(tl(3, "vars", "ord", "left", "x1", "right", "x2", "aux", ";")))

	err := v.Step(tl(4, "dom", "ord", "1", "x1", ">=", "1", ";", ";"))
	require.Error(t, err)
	var invalid *InvalidProofError
	require.ErrorAs(t, err, &invalid)
}

// TestRulePolDivide exercises the `pol` division operator: 2x1 + 2x2 >=
// 3, divided by 2, ceiling-rounds to x1 + x2 >= 2.
func TestRulePolDivide(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))

	require.NoError(t, v.Step(tl(2, "a", "2", "x1", "2", "x2", ">=", "3", ";")))
	axiom := v.LastID()

	require.NoError(t, v.Step(tl(3, "pol", axiom.String(), "d", "2", ";")))
	id := v.LastID()
	require.NoError(t, v.Step(tl(4, "e", id.String(), "1", "x1", "1", "x2", ">=", "2", ";")))
}

// TestRulePolSaturate exercises the `pol` saturation operator: 3x1 + x2
// >= 2 saturates to 2x1 + x2 >= 2 (no coefficient may exceed the
// degree).
func TestRulePolSaturate(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))

	require.NoError(t, v.Step(tl(2, "a", "3", "x1", "1", "x2", ">=", "2", ";")))
	axiom := v.LastID()

	require.NoError(t, v.Step(tl(3, "pol", axiom.String(), "s", ";")))
	id := v.LastID()
	require.NoError(t, v.Step(tl(4, "e", id.String(), "2", "x1", "1", "x2", ">=", "2", ";")))
}

// TestRulePolDivideByZeroRejected checks `pol`'s division operator
// rejects a non-positive divisor instead of panicking or silently
// producing garbage.
func TestRulePolDivideByZeroRejected(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))

	require.NoError(t, v.Step(tl(2, "a", "1", "x1", ">=", "1", ";")))
	axiom := v.LastID()

	err := v.Step(tl(3, "pol", axiom.String(), "d", "0", ";"))
	require.Error(t, err)
	var invalid *InvalidProofError
	require.ErrorAs(t, err, &invalid)
}

// TestRulePolLiteralAxiomPush exercises the bare-literal-token operand:
// a literal on the pol stack pushes the trusted unit axiom for that
// literal without needing a preceding `a` line.
func TestRulePolLiteralAxiomPush(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))

	require.NoError(t, v.Step(tl(2, "pol", "x1", "x3", "+", ";")))
	id := v.LastID()
	require.NoError(t, v.Step(tl(3, "e", id.String(), "1", "x1", "1", "x3", ">=", "2", ";")))
}
