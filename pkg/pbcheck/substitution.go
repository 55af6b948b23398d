package pbcheck

import (
	"fmt"
	"sort"
)

// Substitution is a witness used by redundancy and dominance steps: a
// set of literals forced true (constants) plus an ordered list of
// variable-to-literal remappings.
//
// Invariant: no variable appears both as a constant and in the mapping,
// and no variable appears twice; NewSubstitution enforces this.
type Substitution struct {
	constants map[VarID]bool // true => literal asserting the variable; false => its negation
	mapping   map[VarID]Literal
	order     []VarID // insertion order of mapping keys, for deterministic iteration
}

// NewSubstitution builds a witness from the constant literals and the
// ordered (variable -> literal) pairs, rejecting any violation of the
// no-variable-appears-twice invariant.
func NewSubstitution(constants []Literal, mapping []struct {
	Var VarID
	Lit Literal
}) (*Substitution, error) {
	w := &Substitution{
		constants: make(map[VarID]bool, len(constants)),
		mapping:   make(map[VarID]Literal, len(mapping)),
	}
	for _, c := range constants {
		v := c.Var()
		if _, dup := w.constants[v]; dup {
			return nil, fmt.Errorf("variable x%d appears twice as a constant in witness", v)
		}
		w.constants[v] = !c.Negated()
	}
	for _, m := range mapping {
		if _, isConst := w.constants[m.Var]; isConst {
			return nil, fmt.Errorf("variable x%d appears both as a constant and in the mapping", m.Var)
		}
		if _, dup := w.mapping[m.Var]; dup {
			return nil, fmt.Errorf("variable x%d appears twice in witness mapping", m.Var)
		}
		w.mapping[m.Var] = m.Lit
		w.order = append(w.order, m.Var)
	}
	return w, nil
}

// ConstLit reports whether v is one of the witness's constants, and if
// so the literal it evaluates to true.
func (w *Substitution) ConstLit(v VarID) (Literal, bool) {
	if w == nil {
		return 0, false
	}
	truthy, ok := w.constants[v]
	if !ok {
		return 0, false
	}
	return Lit(v, !truthy), true
}

// Mapping reports whether v is remapped by the witness, and if so to
// which literal.
func (w *Substitution) Mapping(v VarID) (Literal, bool) {
	if w == nil {
		return 0, false
	}
	lit, ok := w.mapping[v]
	return lit, ok
}

// Support returns every variable the witness mentions, as constants or
// as mapping domain, in a deterministic order (constants first in
// ascending variable order, then mapping keys in declaration order).
// This is the set ComputeEffected walks occurrence lists for.
func (w *Substitution) Support() []VarID {
	if w == nil {
		return nil
	}
	out := make([]VarID, 0, len(w.constants)+len(w.order))
	for v := range w.constants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	out = append(out, w.order...)
	return out
}

// Apply maps a literal through the witness: if remapped, returns the
// remapped literal (adjusted for polarity); if its variable is a
// constant, returns the constant's true literal for a positive l and its
// complement for a negated l, so the result is still a literal over the
// same variable rather than a truth value; otherwise returns the literal
// unchanged. Objective.PreservationConstraint calls it only for
// variables that are not constants.
func (w *Substitution) Apply(l Literal) Literal {
	v := l.Var()
	if lit, ok := w.ConstLit(v); ok {
		if l.Negated() {
			return lit.Negate()
		}
		return lit
	}
	if target, ok := w.Mapping(v); ok {
		if l.Negated() {
			return target.Negate()
		}
		return target
	}
	return l
}
