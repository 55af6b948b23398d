package pbcheck

func init() {
	registerRule(ruleRedundant, "red")
}

// ruleRedundant implements the `red` rule: the proof
// supplies a new constraint C and a witness substitution ω. With ¬C
// attached as a temporary hypothesis, the auto-prover must discharge
// C(ω) (the "RightHand" sub-goal) and F(ω) for every constraint F the
// witness affects, plus (when an objective is present) that the witness
// does not increase the objective.
//
// Grammar: `red <sum> ; <witness literals/mappings> ;`. The witness
// clause is a space-separated list of tokens of the form `lit` (forces
// the variable true/false, a constant binding) or `var -> lit` (remaps
// var to lit); both forms are accepted by parseWitnessClause.
func ruleRedundant(v *Verifier, line TokenLine) error {
	terms, degree, consumed, err := parseSum(v.Registry, line.Args)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "red", "", "%v", err)
	}
	newC := NewInequality(terms, degree)

	w, err := parseWitnessClause(v.Registry, line.Args[consumed:])
	if err != nil {
		return NewInvalidProofError(line.LineNo, "red", "", "%v", err)
	}

	maxID := v.DB.NextID()
	effected := v.Engine.ComputeEffected(w, maxID)

	// ¬C is made available as a hypothesis while the sub-goals below are
	// discharged, so a sub-goal may rely on a conflict derived from ¬C
	// together with everything already attached; it is detached again
	// once the goals are settled either way.
	negHypID := v.Engine.Attach(newC.Negate(), false)
	defer v.Engine.DetachByID(negHypID)

	goals := make([]*Inequality, 0, len(effected)+2)
	// RightHand: C(ω) must hold.
	goals = append(goals, newC.Substitute(w))
	for _, id := range effected {
		rec, ok := v.DB.Get(id)
		if !ok {
			continue
		}
		// Sub-goal for each effected constraint F: F(ω) must be derivable
		// from everything attached, ¬C included; the auto-prover is asked
		// to discharge F(ω) directly.
		goals = append(goals, rec.Ineq.Substitute(w))
	}

	if v.Objective != nil {
		goals = append(goals, v.Objective.PreservationConstraint(w))
	}

	if failedAt, ok := autoProveAll(v.Engine, v.DB, goals); !ok {
		return NewInvalidProofError(line.LineNo, "red", "",
			"redundancy sub-goal %d could not be discharged automatically", failedAt)
	}

	v.attach(newC, false)
	return nil
}

// parseWitnessClause parses a witness's token stream into a
// Substitution. Each token is either a bare literal (a constant binding)
// or `var` immediately followed by `->` and a literal (a remapping);
// since proof lines arrive pre-tokenized on whitespace, `->` is its own
// token.
func parseWitnessClause(reg *VariableRegistry, args []string) (*Substitution, error) {
	var constants []Literal
	var mapping []struct {
		Var VarID
		Lit Literal
	}
	i := 0
	for i < len(args) {
		tok := args[i]
		if tok == "" || tok == ";" {
			i++
			continue
		}
		if i+2 < len(args) && args[i+1] == "->" {
			v, err := reg.Lookup(tok)
			if err != nil {
				return nil, err
			}
			target, err := parseLiteralToken(reg, args[i+2])
			if err != nil {
				return nil, err
			}
			mapping = append(mapping, struct {
				Var VarID
				Lit Literal
			}{Var: v, Lit: target})
			i += 3
			continue
		}
		lit, err := parseLiteralToken(reg, tok)
		if err != nil {
			return nil, err
		}
		constants = append(constants, lit)
		i++
	}
	return NewSubstitution(constants, mapping)
}
