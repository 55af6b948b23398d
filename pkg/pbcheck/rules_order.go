package pbcheck

import "strings"

func init() {
	registerRule(rulePreOrder, "pre_order")
	registerRule(ruleLoadOrder, "load_order")
	registerRule(ruleVars, "vars")
	registerRule(ruleDef, "def")
	registerRule(ruleIrreflexivity, "irreflexivity")
	registerRule(ruleTransitivity, "transitivity")
	registerRule(ruleEnd, "end", "qed")
}

// orderProof tracks the order sub-proof currently open between an
// `irreflexivity`/`transitivity` line and its matching `end`, letting
// `end` know which order and which obligation it is closing without
// threading that state through every rule signature.
type orderProof struct {
	order   *Order
	kind    string // "irreflexivity" or "transitivity"
	falsum  *Inequality
	hypIDs  []ConstraintID
}

// falsumGoal is the unreachable constraint "0 >= 1", used as the proof
// obligation for both irreflexivity and transitivity: closing either
// sub-proof means deriving a contradiction, i.e. attaching something
// that implies falsum.
func falsumGoal() *Inequality { return NewInequality(nil, bigOne) }

// rulePreOrder declares a new, empty order awaiting `vars` and `def`
// lines.
func rulePreOrder(v *Verifier, line TokenLine) error {
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "pre_order", "", "expected an order name")
	}
	name := strings.TrimSuffix(line.Args[0], ";")
	if _, exists := v.Orders[name]; exists {
		return NewInvalidProofError(line.LineNo, "pre_order", "", "order %q already declared", name)
	}
	v.Orders[name] = NewOrder(name, nil, nil, nil)
	return nil
}

// ruleLoadOrder declares an order that is trusted sound without a
// nested irreflexivity/transitivity proof — for a well-known total
// order (e.g. plain integer "<") a proof author can load it directly
// rather than re-deriving properties every checker already knows are
// true.
func ruleLoadOrder(v *Verifier, line TokenLine) error {
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "load_order", "", "expected an order name")
	}
	name := strings.TrimSuffix(line.Args[0], ";")
	order, ok := v.Orders[name]
	if !ok {
		return NewInvalidProofError(line.LineNo, "load_order", "", "order %q is not declared", name)
	}
	order.MarkIrreflexivityProven()
	order.MarkTransitivityProven()
	order.SetFirstDomInvisible(v.DB.NextID())
	return nil
}

// ruleVars declares an order's three variable partitions in one line:
// `vars <name> left <ids...> right <ids...> aux <ids...> ;`.
func ruleVars(v *Verifier, line TokenLine) error {
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "vars", "", "expected an order name")
	}
	name := line.Args[0]
	order, ok := v.Orders[name]
	if !ok {
		return NewInvalidProofError(line.LineNo, "vars", "", "order %q is not declared", name)
	}
	sections := map[string][]VarID{"left": nil, "right": nil, "aux": nil}
	current := ""
	for _, tok := range line.Args[1:] {
		tok = strings.TrimSuffix(tok, ";")
		if tok == "" {
			continue
		}
		if _, isHeader := sections[tok]; isHeader {
			current = tok
			continue
		}
		if current == "" {
			return NewInvalidProofError(line.LineNo, "vars", "", "variable %q before a left/right/aux header", tok)
		}
		id, err := v.Registry.Lookup(tok)
		if err != nil {
			return NewInvalidProofError(line.LineNo, "vars", "", "%v", err)
		}
		sections[current] = append(sections[current], id)
	}
	*order = *NewOrder(name, sections["left"], sections["right"], sections["aux"])
	return nil
}

// ruleDef appends one defining inequality to an order.
func ruleDef(v *Verifier, line TokenLine) error {
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "def", "", "expected an order name")
	}
	name := line.Args[0]
	order, ok := v.Orders[name]
	if !ok {
		return NewInvalidProofError(line.LineNo, "def", "", "order %q is not declared", name)
	}
	terms, degree, _, err := parseSum(v.Registry, line.Args[1:])
	if err != nil {
		return NewInvalidProofError(line.LineNo, "def", "", "%v", err)
	}
	order.AddDefinition(NewInequality(terms, degree))
	return nil
}

// identitySubstitution maps each of to[i] to a literal over from[i],
// the "same state twice" witness irreflexivity's obligation needs.
func identitySubstitution(from, to []VarID) (*Substitution, error) {
	if len(from) != len(to) {
		return nil, &simpleErr{"order's left/right variable lists have different lengths"}
	}
	mapping := make([]struct {
		Var VarID
		Lit Literal
	}, len(to))
	for i := range to {
		mapping[i] = struct {
			Var VarID
			Lit Literal
		}{Var: to[i], Lit: Lit(from[i], false)}
	}
	return NewSubstitution(nil, mapping)
}

// ruleIrreflexivity opens the nested sub-proof obligation "no state
// dominates itself": it instantiates the order's defining constraints
// with right bound to the same state as left, attaches them as
// temporary hypotheses, and registers the falsum goal. Subsequent
// TokenLines (fed by the caller exactly like top-level proof lines)
// derive within this sub-context until `end` closes it.
func ruleIrreflexivity(v *Verifier, line TokenLine) error {
	if v.orderProof != nil {
		return NewInvalidProofError(line.LineNo, "irreflexivity", "", "an order sub-proof is already open")
	}
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "irreflexivity", "", "expected an order name")
	}
	name := strings.TrimSuffix(line.Args[0], ";")
	order, ok := v.Orders[name]
	if !ok {
		return NewInvalidProofError(line.LineNo, "irreflexivity", "", "order %q is not declared", name)
	}
	w, err := identitySubstitution(order.Left(), order.Right())
	if err != nil {
		return NewInvalidProofError(line.LineNo, "irreflexivity", "", "%v", err)
	}
	v.EnterSubContext(nil, nil)
	hyps := make([]ConstraintID, 0, len(order.Instantiate(w)))
	for _, def := range order.Instantiate(w) {
		hyps = append(hyps, v.attach(def, false))
	}
	v.subctx.addPending("order-obligation", falsumGoal())
	v.orderProof = &orderProof{order: order, kind: "irreflexivity", falsum: falsumGoal(), hypIDs: hyps}
	return nil
}

// ruleTransitivity opens the analogous obligation "dominance composes":
// from A dom B and B dom C, derive A dom C. It instantiates the order's
// defining constraints twice (left/aux -> A/B, and a second copy over a
// fresh "mid" state standing in for B/C), plus the negated goal
// instantiation (A dom C negated), and looks for a contradiction among
// them.
func ruleTransitivity(v *Verifier, line TokenLine) error {
	if v.orderProof != nil {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "an order sub-proof is already open")
	}
	if len(line.Args) == 0 {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "expected an order name")
	}
	name := strings.TrimSuffix(line.Args[0], ";")
	order, ok := v.Orders[name]
	if !ok {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "order %q is not declared", name)
	}

	mid := make([]VarID, len(order.Right()))
	for i := range mid {
		mid[i] = v.Registry.Fresh()
	}

	leftToMid, err := buildMapping(mid, order.Left())
	if err != nil {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "%v", err)
	}
	midToRight, err := buildMapping(mid, order.Right())
	if err != nil {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "%v", err)
	}
	negatedGoalWitness, err := NewSubstitution(nil, nil)
	if err != nil {
		return NewInvalidProofError(line.LineNo, "transitivity", "", "%v", err)
	}

	v.EnterSubContext(nil, nil)
	var hyps []ConstraintID
	for _, def := range order.Instantiate(leftToMid) {
		hyps = append(hyps, v.attach(def, false))
	}
	for _, def := range order.Instantiate(midToRight) {
		hyps = append(hyps, v.attach(def, false))
	}
	for _, def := range order.Instantiate(negatedGoalWitness) {
		hyps = append(hyps, v.attach(def.Negate(), false))
	}
	v.subctx.addPending("order-obligation", falsumGoal())
	v.orderProof = &orderProof{order: order, kind: "transitivity", falsum: falsumGoal(), hypIDs: hyps}
	return nil
}

// buildMapping produces a Substitution remapping each variable in to
// onto the literal naming the corresponding variable in from.
func buildMapping(from, to []VarID) (*Substitution, error) {
	if len(from) != len(to) {
		return nil, &simpleErr{"order's variable lists have mismatched lengths"}
	}
	mapping := make([]struct {
		Var VarID
		Lit Literal
	}, len(to))
	for i := range to {
		mapping[i] = struct {
			Var VarID
			Lit Literal
		}{Var: to[i], Lit: Lit(from[i], false)}
	}
	return NewSubstitution(nil, mapping)
}

// ruleEnd closes the currently open order sub-proof: it checks the
// falsum goal was in fact discharged (directly, or via the auto-prover
// over everything attached inside the sub-context), marks the
// corresponding property proven, freezes the order's definitional
// watermark once both properties hold, and pops the sub-context.
// Registered under both "end" and "qed"; this implementation has only
// one sub-context kind that ever needs closing, so the two spellings
// share one handler.
func ruleEnd(v *Verifier, line TokenLine) error {
	op := v.orderProof
	if op == nil {
		return NewInvalidProofError(line.LineNo, "end", "", "no order sub-proof is open")
	}
	if !autoProve(v.Engine, v.DB, op.falsum) {
		return NewInvalidProofError(line.LineNo, "end", "",
			"%s obligation for order %q was not discharged", op.kind, op.order.Name)
	}
	v.subctx.discharge("order-obligation", op.falsum)
	if err := v.ExitSubContext(); err != nil {
		return err
	}
	switch op.kind {
	case "irreflexivity":
		op.order.MarkIrreflexivityProven()
	case "transitivity":
		op.order.MarkTransitivityProven()
	}
	if op.order.IsUsable() {
		op.order.SetFirstDomInvisible(v.DB.NextID())
	}
	v.orderProof = nil
	return nil
}
