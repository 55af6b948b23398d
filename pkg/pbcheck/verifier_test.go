package pbcheck

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// tl is a small TokenLine builder, just to keep the scenario tables
// below readable.
func tl(lineNo int, rule string, args ...string) TokenLine {
	return TokenLine{LineNo: lineNo, Rule: rule, Args: args}
}

func TestVerifierRefutesDirectContradiction(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)),
		NewInequality([]Term{mkTerm(1, 1, true)}, big.NewInt(1)),
	}, nil)

	require.NoError(t, v.Step(tl(1, "f", "2", ";")))
	require.NoError(t, v.Step(tl(2, "u", ">=", "1", ";")))

	derived := v.LastID()
	require.NoError(t, v.Step(tl(3, "c", derived.String(), ";")))
	require.True(t, v.Concluded())
}

func TestVerifierRejectsBadRUPClaim(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)),
	}, nil)
	require.NoError(t, v.Step(tl(1, "f", "1", ";")))

	// x2 >= 1 does not follow from x1 >= 1 alone.
	err := v.Step(tl(2, "u", "1", "x2", ">=", "1", ";"))
	require.Error(t, err)
	var invalid *InvalidProofError
	require.ErrorAs(t, err, &invalid)
}

func TestVerifierAxiomThenDeleteThenCore(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))

	require.NoError(t, v.Step(tl(2, "a", "1", "x1", ">=", "1", ";")))
	axiomID := v.LastID()

	require.NoError(t, v.Step(tl(3, "core", axiomID.String(), ";")))
	rec, ok := v.DB.Get(axiomID)
	require.True(t, ok)
	require.True(t, rec.IsCore)

	require.NoError(t, v.Step(tl(4, "del", axiomID.String(), ";")))
	_, ok = v.DB.Get(axiomID)
	require.False(t, ok, "expected the axiom to be gone after del")
}

func TestVerifierFinishWarnsOnAssumptions(t *testing.T) {
	cfg := DefaultCheckerConfig()
	var warnings bytes.Buffer
	cfg.Warnings = &warnings
	v := NewVerifier(cfg)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))
	require.NoError(t, v.Step(tl(2, "a", "1", "x1", ">=", "1", ";")))

	require.True(t, v.UsesAssumptions())
	require.NoError(t, v.Finish())
	require.Contains(t, warnings.String(), "assumptions")
}

func TestVerifierFinishRejectsOpenSubContext(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData(nil, nil)
	require.NoError(t, v.Step(tl(1, "f", "0", ";")))
	require.NoError(t, v.Step(tl(2, "pre_order", "ord", ";")))
	require.NoError(t, v.Step(tl(3, "irreflexivity", "ord", ";")))

	err := v.Finish()
	require.Error(t, err)
	var invalid *InvalidProofError
	require.ErrorAs(t, err, &invalid)
}

func TestVerifierFormulaCountMismatch(t *testing.T) {
	v := NewVerifier(nil)
	v.LoadFormulaData([]*Inequality{
		NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)),
	}, nil)
	err := v.Step(tl(1, "f", "5", ";"))
	require.Error(t, err)
}

// TestInequalityTermOrderIsCanonical exercises go-cmp on the Term slices
// ConstraintID plumbing produces, so regressions in the canonical
// variable-ascending order are caught precisely (go-cmp reports index
// and field diffs the stdlib reflect.DeepEqual comparison would not).
func TestInequalityTermOrderIsCanonical(t *testing.T) {
	ineq := NewInequality([]Term{mkTerm(1, 3, false), mkTerm(1, 1, false), mkTerm(1, 2, true)}, big.NewInt(1))
	got := ineq.Terms()
	wantVars := []VarID{1, 2, 3}
	gotVars := make([]VarID, len(got))
	for i, term := range got {
		gotVars[i] = term.Literal.Var()
	}
	if diff := cmp.Diff(wantVars, gotVars); diff != "" {
		t.Fatalf("unexpected term order (-want +got):\n%s", diff)
	}
}
