package pbcheck

// Objective holds the optional minimization objective of an optimization
// proof: a mapping literal -> integer coefficient. Present
// only when the input formula declares one.
type Objective struct {
	terms map[Literal]*bigInt
	order []Literal // declaration order, for deterministic iteration/printing
}

// NewObjective builds an Objective from an ordered list of terms.
// Duplicate literals accumulate (later coefficients add to earlier
// ones), matching how an OPB objective line is read left to right.
func NewObjective(terms []Term) *Objective {
	o := &Objective{terms: make(map[Literal]*bigInt)}
	for _, t := range terms {
		if existing, ok := o.terms[t.Literal]; ok {
			o.terms[t.Literal] = bigAdd(existing, t.Coeff)
			continue
		}
		o.terms[t.Literal] = new(bigInt).Set(t.Coeff)
		o.order = append(o.order, t.Literal)
	}
	return o
}

// Value evaluates the objective under a total assignment, given as a
// function from VarID to truth value.
func (o *Objective) Value(assignment func(VarID) bool) *bigInt {
	sum := new(bigInt)
	for lit, coeff := range o.terms {
		v := lit.Var()
		truth := assignment(v)
		if lit.Negated() {
			truth = !truth
		}
		if truth {
			sum = bigAdd(sum, coeff)
		}
	}
	return sum
}

// BoundConstraint builds the PB constraint asserting the objective is at
// most value - 1, i.e. Σ over complemented objective literals ≥ (Σ
// coeff) - value + 1, the constraint the `o` rule produces
// after verifying a witness achieves `value`.
func (o *Objective) BoundConstraint(value *bigInt) *Inequality {
	total := new(bigInt)
	terms := make([]Term, 0, len(o.order))
	for _, lit := range o.order {
		coeff := o.terms[lit]
		total = bigAdd(total, coeff)
		terms = append(terms, Term{Coeff: new(bigInt).Set(coeff), Literal: lit.Negate()})
	}
	degree := bigAdd(bigSub(total, value), bigOne)
	return NewInequality(terms, degree)
}

// PreservationConstraint builds the objective-preservation sub-goal
// `red` requires when an objective is present:
// Σᵢ cᵢlᵢ − Σᵢ cᵢlᵢ(ω) ≥ 0, expressed as a single PB constraint over the
// union of original and witness-substituted objective literals. A
// literal whose variable is a witness constant evaluates to 1 or 0; a
// true one moves its coefficient to the degree.
func (o *Objective) PreservationConstraint(w *Substitution) *Inequality {
	terms := make([]Term, 0, 2*len(o.order))
	degree := new(bigInt)
	for _, lit := range o.order {
		coeff := o.terms[lit]
		terms = append(terms, Term{Coeff: new(bigInt).Set(coeff), Literal: lit})
		if constLit, isConst := w.ConstLit(lit.Var()); isConst {
			if constLit == lit {
				degree = bigAdd(degree, coeff)
			}
			continue
		}
		substituted := w.Apply(lit)
		terms = append(terms, Term{Coeff: bigNeg(coeff), Literal: substituted})
	}
	return NewInequality(terms, degree)
}
