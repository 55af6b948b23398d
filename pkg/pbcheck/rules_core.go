package pbcheck

import "strings"

func init() {
	registerRule(ruleF, "f")
	registerRule(ruleL, "l")
	registerRule(ruleA, "a")
	registerRule(ruleRUP, "u", "rup")
	registerRule(ruleEquals, "e")
	registerRule(ruleImplies, "i")
	registerRule(ruleJoin, "j")
	registerRule(ruleConflict, "c")
}

// ruleF is the proof's header declaration: `f` or `f <n>`. The count is
// optional; when present it must equal the number of constraints the
// loaded formula has. It is purely a sanity check against what
// LoadFormulaData already attached; it introduces no new constraint.
func ruleF(v *Verifier, line TokenLine) error {
	if len(line.Args) < 1 || strings.TrimSuffix(line.Args[0], ";") == "" {
		return nil
	}
	n, err := parseDegree(strings.TrimSuffix(line.Args[0], ";"))
	if err != nil {
		return NewInvalidProofError(line.LineNo, "f", "", "%v", err)
	}
	if n.Int64() != int64(len(v.formula)) {
		return NewInvalidProofError(line.LineNo, "f", "",
			"proof declares %s formula constraints but %d were loaded", n.String(), len(v.formula))
	}
	return nil
}

// ruleL re-attaches formula constraint number n (1-indexed) and makes it
// the last constraint. LoadFormulaData already attached every formula
// constraint as core, so while that copy is still attached Attach's
// deduplication returns its existing ID (bumping its reference count)
// rather than a fresh one.
func ruleL(v *Verifier, line TokenLine) error {
	if len(line.Args) < 1 {
		return NewInvalidProofError(line.LineNo, "l", "", "expected a formula constraint index")
	}
	n, err := parseDegree(strings.TrimSuffix(line.Args[0], ";"))
	if err != nil {
		return NewInvalidProofError(line.LineNo, "l", "", "%v", err)
	}
	idx := n.Int64()
	if idx < 1 || idx > int64(len(v.formula)) {
		return NewInvalidProofError(line.LineNo, "l", "", "formula constraint index %d out of range", idx)
	}
	v.attach(v.formula[idx-1], true)
	return nil
}

// ruleA adds an explicit, trusted axiom constraint with no derivation
//: the rule itself performs no check beyond parsing,
// mirroring the format's convention that `a` lines are the user's
// responsibility, same as an input formula constraint. It marks the
// context's "uses assumptions" flag so Verifier.Finish can warn about
// it at end of proof.
func ruleA(v *Verifier, line TokenLine) error {
	terms, degree, _, err := parseSum(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "a", "", "%v", err)
	}
	v.attach(NewInequality(terms, degree), false)
	v.MarkUsesAssumptions()
	return nil
}

// ruleRUP checks the given constraint is reverse-unit-propagation
// derivable from everything currently attached, and attaches it if so
//.
func ruleRUP(v *Verifier, line TokenLine) error {
	terms, degree, _, err := parseSum(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, line.Rule, "", "%v", err)
	}
	ineq := NewInequality(terms, degree)
	if !v.Engine.RUPCheck(ineq, v.Config.StrictCoreOnlyRUP) {
		return NewInvalidProofError(line.LineNo, line.Rule, "",
			"constraint is not RUP: negation does not propagate to conflict")
	}
	v.attach(ineq, false)
	return nil
}

// ruleEquals checks that attached constraint <id> is exactly the given constraint
//.
func ruleEquals(v *Verifier, line TokenLine) error {
	id, rest, err := takeConstraintRef(line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "e", "", "%v", err)
	}
	rec, ok := v.DB.Get(id)
	if !ok {
		return NewInvalidProofError(line.LineNo, "e", "", "constraint %d is not attached", id)
	}
	terms, degree, _, err := parseSum(v.Registry, rest)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "e", "", "%v", err)
	}
	candidate := NewInequality(terms, degree)
	if !rec.Ineq.Equal(candidate) {
		return NewInvalidProofError(line.LineNo, "e", "",
			"constraint %d (%s) is not equal to %s", id, rec.Ineq.String(), candidate.String())
	}
	return nil
}

// ruleImplies checks attached constraint <id> implies the given
// constraint. It only checks; it attaches nothing.
func ruleImplies(v *Verifier, line TokenLine) error {
	id, rest, err := takeConstraintRef(line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "i", "", "%v", err)
	}
	rec, ok := v.DB.Get(id)
	if !ok {
		return NewInvalidProofError(line.LineNo, "i", "", "constraint %d is not attached", id)
	}
	terms, degree, _, err := parseSum(v.Registry, rest)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "i", "", "%v", err)
	}
	target := NewInequality(terms, degree)
	if !rec.Ineq.Implies(target) {
		return NewInvalidProofError(line.LineNo, "i", "",
			"constraint %d does not imply the given constraint", id)
	}
	return nil
}

// ruleJoin is the dual of ruleImplies: it checks the given constraint
// implies attached constraint <id>.
func ruleJoin(v *Verifier, line TokenLine) error {
	id, rest, err := takeConstraintRef(line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "j", "", "%v", err)
	}
	rec, ok := v.DB.Get(id)
	if !ok {
		return NewInvalidProofError(line.LineNo, "j", "", "constraint %d is not attached", id)
	}
	terms, degree, _, err := parseSum(v.Registry, rest)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "j", "", "%v", err)
	}
	candidate := NewInequality(terms, degree)
	if !candidate.Implies(rec.Ineq) {
		return NewInvalidProofError(line.LineNo, "j", "",
			"the given constraint does not imply constraint %d", id)
	}
	v.attach(candidate, false)
	return nil
}

// ruleConflict checks attached constraint <id> is a contradiction
// (negative slack) and concludes the proof as a refutation.
func ruleConflict(v *Verifier, line TokenLine) error {
	id, _, err := takeConstraintRef(line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "c", "", "%v", err)
	}
	rec, ok := v.DB.Get(id)
	if !ok {
		return NewInvalidProofError(line.LineNo, "c", "", "constraint %d is not attached", id)
	}
	if !rec.Ineq.IsContradiction() {
		return NewInvalidProofError(line.LineNo, "c", "",
			"constraint %d (%s) is not a contradiction", id, rec.Ineq.String())
	}
	return v.Conclude()
}

// takeConstraintRef parses a leading constraint-ID token and returns the
// remaining arguments.
func takeConstraintRef(args []string) (ConstraintID, []string, error) {
	if len(args) < 1 {
		return 0, nil, errNoArgs
	}
	id, err := parseConstraintRef(args[0])
	if err != nil {
		return 0, nil, err
	}
	return id, args[1:], nil
}

var errNoArgs = &simpleErr{"expected a constraint id argument"}

type simpleErr struct{ msg string }

func (e *simpleErr) Error() string { return e.msg }
