package pbcheck

import (
	"math/big"
	"testing"
)

func mkTerm(coeff int64, v VarID, negated bool) Term {
	return Term{Coeff: big.NewInt(coeff), Literal: Lit(v, negated)}
}

func TestNewInequalityNormalizesNegativeCoefficient(t *testing.T) {
	// -2 x1 >= -1  normalizes to  2 ~x1 >= 1
	ineq := NewInequality([]Term{mkTerm(-2, 1, false)}, big.NewInt(-1))
	coeff := ineq.CoeffOf(1)
	if coeff.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected coefficient 2, got %s", coeff.String())
	}
	lit, ok := ineq.LiteralOf(1)
	if !ok || !lit.Negated() {
		t.Fatalf("expected negated literal over x1, got %v", lit)
	}
	if ineq.Degree().Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected degree 1, got %s", ineq.Degree().String())
	}
}

func TestAddCancelsOppositeLiterals(t *testing.T) {
	// x1 + x2 >= 1  and  ~x1 + x2 >= 1  should cancel the x1 terms.
	a := NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(1))
	b := NewInequality([]Term{mkTerm(1, 1, true), mkTerm(1, 2, false)}, big.NewInt(1))
	sum := a.Add(b)
	if _, ok := sum.LiteralOf(1); ok {
		t.Fatalf("expected x1 to cancel out of the sum")
	}
	coeff := sum.CoeffOf(2)
	if coeff.Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected x2 coefficient 2, got %s", coeff.String())
	}
}

func TestMultiplyRejectsNegative(t *testing.T) {
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	if _, err := ineq.Multiply(big.NewInt(-1)); err == nil {
		t.Fatalf("expected an error multiplying by a negative coefficient")
	}
}

func TestDivideCeils(t *testing.T) {
	// 3 x1 >= 4, divide by 2 -> 2 x1 >= 2 (ceil(3/2)=2, ceil(4/2)=2)
	ineq := NewInequality([]Term{mkTerm(3, 1, false)}, big.NewInt(4))
	out, err := ineq.Divide(big.NewInt(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CoeffOf(1).Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected coefficient 2, got %s", out.CoeffOf(1).String())
	}
	if out.Degree().Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected degree 2, got %s", out.Degree().String())
	}
}

func TestSaturateClipsCoefficients(t *testing.T) {
	// 5 x1 + 1 x2 >= 2, saturated clips x1's coefficient down to 2.
	ineq := NewInequality([]Term{mkTerm(5, 1, false), mkTerm(1, 2, false)}, big.NewInt(2))
	out := ineq.Saturate()
	if out.CoeffOf(1).Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("expected saturated coefficient 2, got %s", out.CoeffOf(1).String())
	}
	if out.CoeffOf(2).Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected x2 coefficient unchanged at 1, got %s", out.CoeffOf(2).String())
	}
}

func TestSaturateIsIdempotent(t *testing.T) {
	ineq := NewInequality([]Term{mkTerm(5, 1, false)}, big.NewInt(2))
	once := ineq.Saturate()
	twice := once.Saturate()
	if !once.Equal(twice) {
		t.Fatalf("expected Saturate to be idempotent")
	}
}

func TestNegateRoundTrips(t *testing.T) {
	ineq := NewInequality([]Term{mkTerm(2, 1, false), mkTerm(3, 2, true)}, big.NewInt(2))
	twice := ineq.Negate().Negate()
	if !ineq.Equal(twice) {
		t.Fatalf("expected Negate to be an involution up to normalized equality: got %s vs %s", ineq, twice)
	}
}

func TestIsContradictionOnEmptyDegreeOne(t *testing.T) {
	falsum := NewInequality(nil, big.NewInt(1))
	if !falsum.IsContradiction() {
		t.Fatalf("expected 0 >= 1 to be a contradiction")
	}
}

func TestImpliesReflexive(t *testing.T) {
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	if !ineq.Implies(ineq) {
		t.Fatalf("expected a constraint to imply itself")
	}
}

func TestImpliesWeakerDegree(t *testing.T) {
	// x1 + x2 >= 2 implies x1 + x2 >= 1 (weaker degree, same terms).
	strong := NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(2))
	weak := NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(1))
	if !strong.Implies(weak) {
		t.Fatalf("expected the degree-2 constraint to imply the degree-1 one")
	}
	if weak.Implies(strong) {
		t.Fatalf("did not expect the degree-1 constraint to imply the degree-2 one")
	}
}

func TestSubstituteConstantTrue(t *testing.T) {
	// x1 + x2 >= 2, with x1 forced true, reduces to x2 >= 1.
	ineq := NewInequality([]Term{mkTerm(1, 1, false), mkTerm(1, 2, false)}, big.NewInt(2))
	w, err := NewSubstitution([]Literal{Lit(1, false)}, nil)
	if err != nil {
		t.Fatalf("unexpected error building substitution: %v", err)
	}
	out := ineq.Substitute(w)
	if _, ok := out.LiteralOf(1); ok {
		t.Fatalf("expected x1's term to be gone after substitution")
	}
	if out.Degree().Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("expected degree 1 after cancelling x1's unit coefficient, got %s", out.Degree())
	}
}

func TestHashKeyAgreesWithEqual(t *testing.T) {
	a := NewInequality([]Term{mkTerm(1, 1, false), mkTerm(2, 2, true)}, big.NewInt(1))
	b := NewInequality([]Term{mkTerm(2, 2, true), mkTerm(1, 1, false)}, big.NewInt(1))
	if !a.Equal(b) {
		t.Fatalf("expected a and b to be equal regardless of construction order")
	}
	if a.HashKey() != b.HashKey() {
		t.Fatalf("expected equal constraints to share a hash key, got %q vs %q", a.HashKey(), b.HashKey())
	}
}
