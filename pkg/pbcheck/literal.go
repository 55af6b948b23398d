package pbcheck

import "fmt"

// Literal is a signed reference to a variable: positive means the
// variable asserted, negative means its negation. Zero is reserved as a
// sentinel and never appears in a well-formed constraint.
type Literal int32

// Lit builds a literal from a variable and a polarity.
func Lit(v VarID, negated bool) Literal {
	if negated {
		return -Literal(v)
	}
	return Literal(v)
}

// Var returns the underlying variable of a literal, discarding polarity.
func (l Literal) Var() VarID {
	if l < 0 {
		return VarID(-l)
	}
	return VarID(l)
}

// Negated reports whether the literal asserts the negation of its
// variable.
func (l Literal) Negated() bool { return l < 0 }

// Negate returns the complementary literal ¬l.
func (l Literal) Negate() Literal { return -l }

// String renders a literal using the "~x<N>" convention proof and OPB
// tokens use.
func (l Literal) String() string {
	if l.Negated() {
		return fmt.Sprintf("~x%d", l.Var())
	}
	return fmt.Sprintf("x%d", l.Var())
}

// Term is one (coefficient, literal) summand of a PB constraint, prior to
// normalization coefficients may be any sign; after normalization they
// are always > 0 (see NewInequality).
type Term struct {
	Coeff   *bigInt
	Literal Literal
}
