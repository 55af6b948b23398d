package pbcheck

import "strings"

func init() {
	registerRule(ruleSolution, "v")
	registerRule(ruleObjectiveSolution, "ov")
	registerRule(ruleObjectiveBound, "o")
}

// parseWitnessLiterals reads a bare list of literal tokens (a total or
// partial variable assignment), ignoring a trailing ";".
func parseWitnessLiterals(reg *VariableRegistry, args []string) ([]Literal, error) {
	out := make([]Literal, 0, len(args))
	for _, tok := range args {
		tok = strings.TrimSuffix(tok, ";")
		if tok == "" {
			continue
		}
		lit, err := parseLiteralToken(reg, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}
	return out, nil
}

// satisfies reports whether assignment (a set of true literals) makes
// every currently attached constraint true.
func satisfies(db *Database, assignment map[VarID]Literal) bool {
	for _, id := range db.IDs() {
		rec, _ := db.Get(id)
		if !satisfiesOne(rec.Ineq, assignment) {
			return false
		}
	}
	return true
}

// satisfiesOriginal reports whether assignment makes every constraint of
// the formula as originally loaded true, independent of anything attached
// or detached since.
func satisfiesOriginal(formula []*Inequality, assignment map[VarID]Literal) bool {
	for _, ineq := range formula {
		if !satisfiesOne(ineq, assignment) {
			return false
		}
	}
	return true
}

func satisfiesOne(ineq *Inequality, assignment map[VarID]Literal) bool {
	sum := new(bigInt)
	for _, t := range ineq.Terms() {
		lit, ok := assignment[t.Literal.Var()]
		if ok && lit == t.Literal {
			sum = bigAdd(sum, t.Coeff)
		}
	}
	return bigCmp(sum, ineq.Degree()) >= 0
}

// ruleSolution checks a `v` line: the given literal list, interpreted as
// a full assignment, satisfies every currently attached constraint
//. A satisfying assignment concludes the proof as SAT.
func ruleSolution(v *Verifier, line TokenLine) error {
	lits, err := parseWitnessLiterals(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "v", "", "%v", err)
	}
	assignment := make(map[VarID]Literal, len(lits))
	for _, l := range lits {
		assignment[l.Var()] = l
	}
	if !satisfies(v.DB, assignment) {
		return NewInvalidProofError(line.LineNo, "v", "", "witness does not satisfy every attached constraint")
	}
	return v.Conclude()
}

// ruleObjectiveSolution checks a `ov` line: the witness satisfies every
// constraint of the *original* input formula, independent of whatever the
// live database currently holds. It does not touch the
// objective at all; it is a pure sanity check that the claimed model is
// really a model of the formula the proof started from.
func ruleObjectiveSolution(v *Verifier, line TokenLine) error {
	lits, err := parseWitnessLiterals(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "ov", "", "%v", err)
	}
	assignment := make(map[VarID]Literal, len(lits))
	for _, l := range lits {
		assignment[l.Var()] = l
	}
	if !satisfiesOriginal(v.formula, assignment) {
		return NewInvalidProofError(line.LineNo, "ov", "", "witness does not satisfy the original formula")
	}
	return nil
}

// ruleObjectiveBound checks a `o` line the same way as `v` (the witness
// satisfies every currently attached constraint), then computes the
// objective value the witness achieves and attaches, as core, the
// constraint ruling out every solution with objective value >= that one
//: `o x1 ~x2` over `min: x1 + x2` verifies
// the witness, computes value = 1, and attaches the bound.
func ruleObjectiveBound(v *Verifier, line TokenLine) error {
	if v.Objective == nil {
		return NewInvalidProofError(line.LineNo, "o", "", "proof has no declared objective")
	}
	lits, err := parseWitnessLiterals(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "o", "", "%v", err)
	}
	assignment := make(map[VarID]Literal, len(lits))
	for _, l := range lits {
		assignment[l.Var()] = l
	}
	if !satisfies(v.DB, assignment) {
		return NewInvalidProofError(line.LineNo, "o", "", "witness does not satisfy every attached constraint")
	}
	value := v.Objective.Value(func(id VarID) bool {
		lit, ok := assignment[id]
		return ok && !lit.Negated()
	})
	v.lastObjectiveValue = value
	v.haveObjectiveValue = true
	bound := v.Objective.BoundConstraint(value)
	v.attach(bound, true)
	return nil
}
