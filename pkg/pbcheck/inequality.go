package pbcheck

import (
	"fmt"
	"sort"
	"strings"
)

// oneBoundAssumption records that all cancellation arithmetic assumes a
// 0/1 upper bound for every variable. Extending to bounded integer
// variables would replace every site that
// reads this constant with a lookup into a per-variable upper-bound map;
// until that extension is needed the assumption is kept explicit here
// rather than threaded through as a parameter nobody varies.
const oneBoundAssumption = true

// Inequality is a normalized pseudo-Boolean constraint Σ cᵢℓᵢ ≥ degree.
// After construction every coefficient is > 0 and no variable appears as
// more than one term (positive and negated forms of the same variable
// are collapsed on construction). The degree is not clamped at zero: it
// may be negative, in which case the constraint is trivially satisfied
// (see IsTrivial) and is not equal to the same terms with degree 0.
//
// Inequality values are immutable from the caller's perspective: every
// arithmetic operation returns a new *Inequality rather than mutating the
// receiver, the same copy-on-write convention propagation state uses
// elsewhere in this package.
type Inequality struct {
	terms  map[VarID]Term
	degree *bigInt
}

// NewInequality builds and normalizes a constraint from raw terms. Raw
// terms may have negative coefficients and may (incorrectly) mention the
// same variable twice in either polarity; both are resolved by
// normalization.
func NewInequality(terms []Term, degree *bigInt) *Inequality {
	ineq := &Inequality{terms: make(map[VarID]Term, len(terms)), degree: new(bigInt).Set(degree)}
	for _, t := range terms {
		ineq.addTermInPlace(t)
	}
	return ineq
}

// addTermInPlace folds t into the receiver's term map and degree,
// performing the cancellation/flip bookkeeping `add` needs when two
// terms over the same variable combine. It is the single place both
// NewInequality and Add
// route through, so construction and summation share one normalization
// path.
func (ineq *Inequality) addTermInPlace(t Term) {
	v := t.Literal.Var()
	coeff := new(bigInt).Set(t.Coeff)
	negated := t.Literal.Negated()
	if bigSign(coeff) < 0 {
		// -c·ℓ = c·¬ℓ - c: flip the literal and shift the degree first, so
		// the combination below only ever sees positive coefficients.
		negated = !negated
		coeff = bigAbs(coeff)
		if oneBoundAssumption {
			ineq.degree = bigAdd(ineq.degree, coeff)
		}
	}

	existing, ok := ineq.terms[v]
	if !ok {
		ineq.normalizeAndStore(v, coeff, negated)
		return
	}

	// Combine signed coefficients: treat each term's contribution as
	// +coeff for a positive literal, -coeff for a negated one.
	mySigned := signedCoeff(existing)
	otherSigned := coeff
	if negated {
		otherSigned = bigNeg(coeff)
	}
	sum := bigAdd(mySigned, otherSigned)

	newNegated := bigSign(sum) < 0
	newCoeff := bigAbs(sum)

	// Cancellation shifts the degree by the overlap between the old and
	// new magnitude, exactly as refpy's PyInequality.add computes it:
	// cancellation = max(0, max(myCoeff, otherCoeff) - newCoeff).
	maxMag := coeff
	if bigCmp(existing.Coeff, coeff) > 0 {
		maxMag = existing.Coeff
	}
	cancellation := bigSub(maxMag, newCoeff)
	if bigSign(cancellation) < 0 {
		cancellation = bigZero
	}
	if oneBoundAssumption {
		ineq.degree = bigSub(ineq.degree, cancellation)
	}

	if bigSign(newCoeff) == 0 {
		delete(ineq.terms, v)
		return
	}
	ineq.terms[v] = Term{Coeff: newCoeff, Literal: Lit(v, newNegated)}
}

func signedCoeff(t Term) *bigInt {
	if t.Literal.Negated() {
		return bigNeg(t.Coeff)
	}
	return t.Coeff
}

// normalizeAndStore absorbs a single raw (possibly negative-coefficient)
// term into the map, flipping the literal and shifting the degree when
// the coefficient is negative, the normalization invariant every
// constructed Inequality must satisfy.
func (ineq *Inequality) normalizeAndStore(v VarID, coeff *bigInt, negated bool) {
	if bigSign(coeff) < 0 {
		negated = !negated
		coeff = bigAbs(coeff)
		if oneBoundAssumption {
			ineq.degree = bigAdd(ineq.degree, coeff)
		}
	}
	if bigSign(coeff) == 0 {
		return
	}
	ineq.terms[v] = Term{Coeff: coeff, Literal: Lit(v, negated)}
}

// clone makes a deep, independent copy of the receiver.
func (ineq *Inequality) clone() *Inequality {
	out := &Inequality{terms: make(map[VarID]Term, len(ineq.terms)), degree: new(bigInt).Set(ineq.degree)}
	for v, t := range ineq.terms {
		out.terms[v] = Term{Coeff: new(bigInt).Set(t.Coeff), Literal: t.Literal}
	}
	return out
}

// Degree returns the constraint's right-hand side.
func (ineq *Inequality) Degree() *bigInt { return new(bigInt).Set(ineq.degree) }

// Terms returns the constraint's terms in ascending variable order, the
// canonical order equality/hash comparisons rely on.
func (ineq *Inequality) Terms() []Term {
	vars := make([]VarID, 0, len(ineq.terms))
	for v := range ineq.terms {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = ineq.terms[v]
	}
	return out
}

// CoeffOf returns the coefficient of v's term, or zero if v does not
// appear in the constraint.
func (ineq *Inequality) CoeffOf(v VarID) *bigInt {
	if t, ok := ineq.terms[v]; ok {
		return new(bigInt).Set(t.Coeff)
	}
	return bigZero
}

// LiteralOf returns the literal over v that appears in the constraint,
// and whether v appears at all.
func (ineq *Inequality) LiteralOf(v VarID) (Literal, bool) {
	t, ok := ineq.terms[v]
	if !ok {
		return 0, false
	}
	return t.Literal, true
}

// sumCoeffs returns Σ coefficient over all terms.
func (ineq *Inequality) sumCoeffs() *bigInt {
	sum := new(bigInt)
	for _, t := range ineq.terms {
		sum = bigAdd(sum, t.Coeff)
	}
	return sum
}

// Slack returns (Σ coefficient) − degree; negative slack means the
// constraint is a contradiction.
func (ineq *Inequality) Slack() *bigInt {
	return bigSub(ineq.sumCoeffs(), ineq.degree)
}

// IsContradiction reports slack < 0.
func (ineq *Inequality) IsContradiction() bool {
	return bigSign(ineq.Slack()) < 0
}

// IsTrivial reports degree <= 0 (every coefficient already positive, so a
// non-positive degree is satisfied unconditionally).
func (ineq *Inequality) IsTrivial() bool {
	return bigSign(ineq.degree) <= 0
}

// Add returns self + other, cancelling terms over the same variable and
// shifting the degree by the cancelled amount.
func (ineq *Inequality) Add(other *Inequality) *Inequality {
	out := ineq.clone()
	out.degree = bigAdd(out.degree, other.degree)
	for _, t := range other.Terms() {
		out.addTermInPlace(t)
	}
	return out
}

// Multiply scales every coefficient and the degree by k. k must be >= 0;
// a negative multiplier is an invalid proof, which callers surface as an
// InvalidProofError, not a panic.
func (ineq *Inequality) Multiply(k *bigInt) (*Inequality, error) {
	if bigSign(k) < 0 {
		return nil, fmt.Errorf("multiply by negative coefficient %v", k)
	}
	out := ineq.clone()
	out.degree = bigMul(out.degree, k)
	for v, t := range out.terms {
		out.terms[v] = Term{Coeff: bigMul(t.Coeff, k), Literal: t.Literal}
	}
	if bigSign(k) == 0 {
		out.terms = map[VarID]Term{}
	}
	return out, nil
}

// Divide replaces every coefficient and the degree by ⌈·/d⌉. d must be
// >= 1; d <= 0 is an invalid proof.
func (ineq *Inequality) Divide(d *bigInt) (*Inequality, error) {
	if bigSign(d) <= 0 {
		return nil, fmt.Errorf("divide by non-positive %v", d)
	}
	out := ineq.clone()
	out.degree = bigCeilDiv(out.degree, d)
	for v, t := range out.terms {
		out.terms[v] = Term{Coeff: bigCeilDiv(t.Coeff, d), Literal: t.Literal}
	}
	return out, nil
}

// Saturate clips every coefficient to min(coefficient, degree) and drops
// any term whose coefficient becomes zero; it is semantics-preserving
// and idempotent.
func (ineq *Inequality) Saturate() *Inequality {
	out := ineq.clone()
	if bigSign(out.degree) <= 0 {
		out.terms = map[VarID]Term{}
		return out
	}
	for v, t := range out.terms {
		clipped := bigMin(t.Coeff, out.degree)
		if bigSign(clipped) == 0 {
			delete(out.terms, v)
			continue
		}
		out.terms[v] = Term{Coeff: clipped, Literal: t.Literal}
	}
	return out
}

// Weaken removes the term over v, relaxing the constraint. It is a no-op
// if v does not appear.
func (ineq *Inequality) Weaken(v VarID) *Inequality {
	out := ineq.clone()
	delete(out.terms, v)
	return out
}

// Negate returns a constraint equivalent to the logical negation of the
// receiver: degree' = (Σcoeff) - degree + 1, every literal flipped.
// Negate∘Negate is the identity up to normalized-form equality.
func (ineq *Inequality) Negate() *Inequality {
	sum := ineq.sumCoeffs()
	newDegree := bigAdd(bigSub(sum, ineq.degree), bigOne)
	out := &Inequality{terms: make(map[VarID]Term, len(ineq.terms)), degree: newDegree}
	for v, t := range ineq.terms {
		out.terms[v] = Term{Coeff: new(bigInt).Set(t.Coeff), Literal: t.Literal.Negate()}
	}
	return out
}

// Implies checks a syntactic over-approximation of semantic implication
// via coefficient weakening: for every term of the receiver, compare its
// literal and coefficient against other's matching term (or the zero
// term if absent) and accumulate the "weaken cost" of bringing self down
// to other; self implies other iff self.degree - weakenCost >=
// other.degree. This is monotone and complete for degree-1 clauses and
// identical literal sets, sound but incomplete in general.
func (ineq *Inequality) Implies(other *Inequality) bool {
	weakenCost := new(bigInt)
	for v, mine := range ineq.terms {
		theirs, ok := other.terms[v]
		if !ok || theirs.Literal != mine.Literal {
			weakenCost = bigAdd(weakenCost, mine.Coeff)
		} else if bigCmp(mine.Coeff, theirs.Coeff) > 0 {
			weakenCost = bigAdd(weakenCost, bigSub(mine.Coeff, theirs.Coeff))
		}
	}
	return bigCmp(bigSub(ineq.degree, weakenCost), other.degree) >= 0
}

// Substitute applies a witness: constants evaluating to true cancel
// their term (and reduce the residual degree requirement by the term's
// coefficient); constants evaluating to false simply drop their term;
// every other variable is remapped per the witness's mapping. The result
// is re-normalized, so a substitution that maps two source variables
// onto literals of the same target variable is folded correctly.
func (ineq *Inequality) Substitute(w *Substitution) *Inequality {
	out := &Inequality{terms: make(map[VarID]Term, len(ineq.terms)), degree: new(bigInt).Set(ineq.degree)}
	for v, t := range ineq.terms {
		if lit, isConst := w.ConstLit(v); isConst {
			if lit.Negated() == t.Literal.Negated() {
				// literal evaluates to true: drop the term, degree
				// requirement is reduced by its coefficient.
				out.degree = bigSub(out.degree, t.Coeff)
			}
			// else: literal evaluates to false, term just drops.
			continue
		}
		if target, remapped := w.Mapping(v); remapped {
			negated := t.Literal.Negated() != target.Negated()
			out.addTermInPlace(Term{Coeff: t.Coeff, Literal: Lit(target.Var(), negated)})
			continue
		}
		out.addTermInPlace(t)
	}
	return out
}

// Equal reports whether two normalized constraints have the same term
// multiset and degree.
func (ineq *Inequality) Equal(other *Inequality) bool {
	if other == nil {
		return false
	}
	if bigCmp(ineq.degree, other.degree) != 0 {
		return false
	}
	if len(ineq.terms) != len(other.terms) {
		return false
	}
	for v, t := range ineq.terms {
		ot, ok := other.terms[v]
		if !ok || ot.Literal != t.Literal || bigCmp(ot.Coeff, t.Coeff) != 0 {
			return false
		}
	}
	return true
}

// HashKey returns a canonical string encoding suitable as a map key for
// duplicate detection in the propagation engine's attach/find path. Two
// equal constraints always produce the same key and vice versa.
func (ineq *Inequality) HashKey() string {
	var b strings.Builder
	for _, t := range ineq.Terms() {
		fmt.Fprintf(&b, "%s*%s;", t.Coeff.String(), t.Literal.String())
	}
	fmt.Fprintf(&b, ">=%s", ineq.degree.String())
	return b.String()
}

// String renders the constraint in OPB-like surface syntax, using the
// registry to recover user-facing variable names when given.
func (ineq *Inequality) String() string {
	return ineq.stringWith(nil)
}

func (ineq *Inequality) stringWith(reg *VariableRegistry) string {
	parts := make([]string, 0, len(ineq.terms))
	for _, t := range ineq.Terms() {
		name := fmt.Sprintf("x%d", t.Literal.Var())
		if reg != nil {
			name = reg.Name(t.Literal.Var())
		}
		if t.Literal.Negated() {
			parts = append(parts, fmt.Sprintf("+%s ~%s", t.Coeff.String(), name))
		} else {
			parts = append(parts, fmt.Sprintf("+%s %s", t.Coeff.String(), name))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf(">= %s ;", ineq.degree.String())
	}
	return strings.Join(parts, " ") + " >= " + ineq.degree.String() + " ;"
}
