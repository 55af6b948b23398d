package pbcheck

func init() {
	registerRule(ruleDominance, "dom")
}

// ruleDominance implements the `dom` rule: like `red`, it
// introduces a new constraint backed by a witness ω and discharges its
// sub-goals with the auto-prover, but in addition to C(ω) and the
// objective check the sub-goals include a previously closed Order's
// defining constraints instantiated under ω. An order is only usable
// once both its irreflexivity and transitivity proofs have closed
// (Order.IsUsable). Effected constraints whose ID is at or above the
// order's watermark (Order.FirstDomInvisible) are not turned into
// sub-goals; those below it contribute F(ω) as in `red`.
//
// Grammar: `dom <order-name> <sum> ; <witness clause> ;`.
func ruleDominance(v *Verifier, line TokenLine) error {
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "dom", "", "expected an order name")
	}
	orderName := line.Args[0]
	order, ok := v.Orders[orderName]
	if !ok {
		return NewInvalidProofError(line.LineNo, "dom", "", "order %q is not defined", orderName)
	}
	if !order.IsUsable() {
		return NewInvalidProofError(line.LineNo, "dom", "",
			"order %q has not had both irreflexivity and transitivity proven", orderName)
	}

	terms, degree, consumed, err := parseSum(v.Registry, line.Args[1:])
	if err != nil {
		return NewInvalidProofError(line.LineNo, "dom", "", "%v", err)
	}
	newC := NewInequality(terms, degree)

	w, err := parseWitnessClause(v.Registry, line.Args[1+consumed:])
	if err != nil {
		return NewInvalidProofError(line.LineNo, "dom", "", "%v", err)
	}

	maxID := order.FirstDomInvisible()
	effected := v.Engine.ComputeEffected(w, v.DB.NextID())

	// ¬C is made available as a hypothesis while the sub-goals below are
	// discharged, so a sub-goal may rely on a conflict derived from ¬C
	// together with everything already attached; it is detached again
	// once the goals are settled either way.
	negHypID := v.Engine.Attach(newC.Negate(), false)
	defer v.Engine.DetachByID(negHypID)

	goals := []*Inequality{newC.Substitute(w)}
	goals = append(goals, order.Instantiate(w)...)
	for _, id := range effected {
		if id >= maxID {
			continue
		}
		rec, ok := v.DB.Get(id)
		if !ok {
			continue
		}
		goals = append(goals, rec.Ineq.Substitute(w))
	}
	if v.Objective != nil {
		goals = append(goals, v.Objective.PreservationConstraint(w))
	}

	if failedAt, ok := autoProveAll(v.Engine, v.DB, goals); !ok {
		return NewInvalidProofError(line.LineNo, "dom", "",
			"dominance sub-goal %d could not be discharged automatically", failedAt)
	}

	v.attach(newC, false)
	return nil
}
