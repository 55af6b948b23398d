package pbcheck

import "sort"

// PropagationEngine is a constraint database with watched-literal-style
// unit propagation over PB constraints. It is the single
// owner of the occurrence index, the propagation trail, and the
// duplicate-detection index; Verifier never mutates a Database directly,
// it always goes through the engine's attach/detach contract so that
// identity (not the caller's guessed ID) decides what gets reused.
//
// Propagation here uses the classical "slack" generalization of watched
// literals to PB constraints the design notes describe: for each active
// constraint, the slack is the sum of coefficients of literals that are
// not yet falsified minus the degree. A constraint whose slack is
// negative is a conflict; a constraint where some unassigned literal's
// coefficient exceeds the slack must have that literal propagated true
// (removing it would make the remaining sum fall under the degree). The
// resulting fixed point does not depend on the order constraints are
// scanned in, so the same model as watched literals without requiring
// hand-maintained watch lists — see DESIGN.md for the trade-off against
// a literal two-watch implementation.
type PropagationEngine struct {
	db         *Database
	occurrence map[Literal]map[ConstraintID]bool
	dup        map[string]ConstraintID
	assignment map[VarID]Literal // current true literal for an assigned variable
	trail      *trail
	numVars    int
}

// NewPropagationEngine creates an engine backed by db.
func NewPropagationEngine(db *Database) *PropagationEngine {
	return &PropagationEngine{
		db:         db,
		occurrence: make(map[Literal]map[ConstraintID]bool),
		dup:        make(map[string]ConstraintID),
		assignment: make(map[VarID]Literal),
		trail:      newTrail(),
	}
}

// IncreaseNumVarsTo grows the engine's notion of the variable universe;
// it never shrinks.
func (e *PropagationEngine) IncreaseNumVarsTo(n int) {
	if n > e.numVars {
		e.numVars = n
	}
}

func (e *PropagationEngine) occur(lit Literal, id ConstraintID, add bool) {
	if add {
		set, ok := e.occurrence[lit]
		if !ok {
			set = make(map[ConstraintID]bool)
			e.occurrence[lit] = set
		}
		set[id] = true
		return
	}
	if set, ok := e.occurrence[lit]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(e.occurrence, lit)
		}
	}
}

func (e *PropagationEngine) index(ineq *Inequality, id ConstraintID, add bool) {
	for _, t := range ineq.Terms() {
		e.occur(t.Literal, id, add)
	}
}

// Attach installs ineq in the database (or bumps the refcount of an
// equal, already-attached constraint) and returns its ID. coreFlag may
// promote an existing record to core but never demotes one.
func (e *PropagationEngine) Attach(ineq *Inequality, coreFlag bool) ConstraintID {
	key := ineq.HashKey()
	if id, ok := e.dup[key]; ok {
		e.db.IncRef(id)
		if coreFlag {
			e.db.PromoteCore(id)
		}
		return id
	}
	rec := e.db.Allocate(ineq, coreFlag)
	e.dup[key] = rec.ID
	e.index(ineq, rec.ID, true)
	return rec.ID
}

// Detach decrements the refcount of the constraint equal to ineq and, if
// it reaches zero, removes its watches and occurrence entries. It
// returns the concrete IDs actually removed (zero or one, since the
// database deduplicates by equality).
func (e *PropagationEngine) Detach(ineq *Inequality, coreFlag bool) []ConstraintID {
	key := ineq.HashKey()
	id, ok := e.dup[key]
	if !ok {
		return nil
	}
	removed := e.db.DecRef(id)
	if !removed {
		return nil
	}
	delete(e.dup, key)
	e.index(ineq, id, false)
	return []ConstraintID{id}
}

// DetachByID is the ID-addressed counterpart of Detach, used by the
// `del`/`d` rule which names constraints by ID rather than
// by value.
func (e *PropagationEngine) DetachByID(id ConstraintID) bool {
	rec, ok := e.db.Get(id)
	if !ok {
		return false
	}
	removed := e.db.DecRef(id)
	if removed {
		delete(e.dup, rec.Ineq.HashKey())
		e.index(rec.Ineq, id, false)
	}
	return removed
}

// Find returns the ID of an attached constraint equal to ineq, if any.
func (e *PropagationEngine) Find(ineq *Inequality) (ConstraintID, bool) {
	id, ok := e.dup[ineq.HashKey()]
	return id, ok
}

// MoveToCore promotes the constraint equal to ineq to core, if attached.
func (e *PropagationEngine) MoveToCore(ineq *Inequality) {
	if id, ok := e.Find(ineq); ok {
		e.db.PromoteCore(id)
	}
}

// IsCoreConstraint reports whether ineq (compared by value) is currently
// attached and marked core.
func (e *PropagationEngine) IsCoreConstraint(ineq *Inequality) bool {
	id, ok := e.Find(ineq)
	if !ok {
		return false
	}
	rec, _ := e.db.Get(id)
	return rec.IsCore
}

// activeIDs returns every attached ID with ID < below (below ==
// MaxConstraintID for "all"), ascending, for deterministic propagation
// and effected-set scans.
func (e *PropagationEngine) activeIDs(below ConstraintID) []ConstraintID {
	ids := e.db.IDs()
	if below == MaxConstraintID {
		return ids
	}
	out := ids[:0:0]
	for _, id := range ids {
		if id < below {
			out = append(out, id)
		}
	}
	return out
}

// litValue reports the current truth value of lit under the engine's
// assignment: 1 = true, -1 = false, 0 = unassigned.
func (e *PropagationEngine) litValue(lit Literal) int {
	assigned, ok := e.assignment[lit.Var()]
	if !ok {
		return 0
	}
	if assigned == lit {
		return 1
	}
	return -1
}

func (e *PropagationEngine) assign(lit Literal, reason ConstraintID) {
	e.assignment[lit.Var()] = lit
	e.trail.push(lit, reason)
}

func (e *PropagationEngine) unassign(lit Literal) {
	delete(e.assignment, lit.Var())
}

// propagateFixpoint runs unit propagation to a fixed point over every
// attached constraint with ID < below, returning the conflicting
// ConstraintID if one is found. The scan order (ascending constraint ID,
// ascending variable ID within a constraint) is fixed, so repeated calls
// from the same starting assignment reach the same fixed point
// regardless of how many rounds it takes.
func (e *PropagationEngine) propagateFixpoint(below ConstraintID, coreOnly bool) (conflict ConstraintID, hasConflict bool) {
	ids := e.activeIDs(below)
	for {
		changed := false
		for _, id := range ids {
			rec, ok := e.db.Get(id)
			if !ok {
				continue
			}
			if coreOnly && !rec.IsCore {
				continue
			}
			slack := new(bigInt).Set(rec.Ineq.Degree())
			slack = bigNeg(slack)
			var unassignedTerms []Term
			for _, t := range rec.Ineq.Terms() {
				switch e.litValue(t.Literal) {
				case 1:
					slack = bigAdd(slack, t.Coeff)
				case -1:
					// falsified literal contributes nothing
				default:
					slack = bigAdd(slack, t.Coeff)
					unassignedTerms = append(unassignedTerms, t)
				}
			}
			if bigSign(slack) < 0 {
				return id, true
			}
			for _, t := range unassignedTerms {
				if bigCmp(t.Coeff, slack) > 0 {
					e.assign(t.Literal, id)
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return 0, false
}

// PropagatedLits returns every literal that unit-propagates to true from
// the empty assumption, ascending by variable ID for determinism.
func (e *PropagationEngine) PropagatedLits() []Literal {
	mark := e.trail.mark()
	defer e.trail.truncate(mark, e.unassign)
	e.propagateFixpoint(MaxConstraintID, false)
	lits := append([]Literal(nil), e.trail.literals()[mark:]...)
	sort.Slice(lits, func(i, j int) bool { return lits[i].Var() < lits[j].Var() })
	return lits
}

// RUPCheck attaches the negation of ineq as a temporary hypothesis and
// runs propagation to see whether it conflicts. When coreOnly is true
// the hypothesis itself is attached as core and the fixpoint only
// considers core antecedents, the stricter RUP-over-core-only mode some
// proof formats require for deletion justifications; when false every
// attached constraint participates. It returns whether a conflict was
// derived, and always rolls back the trail and the temporary hypothesis
// bit-exact before returning.
func (e *PropagationEngine) RUPCheck(ineq *Inequality, coreOnly bool) bool {
	mark := e.trail.mark()
	nextID := e.db.NextID()
	neg := ineq.Negate()

	// Attaching the hypothesis as core would promote an equal, already
	// attached non-core constraint; remember it so the promotion is undone.
	var demote *AttachedConstraint
	if id, ok := e.Find(neg); ok && coreOnly {
		if rec, _ := e.db.Get(id); !rec.IsCore {
			demote = rec
		}
	}

	hypoIDs := make([]ConstraintID, 0, 1)
	defer func() {
		e.trail.truncate(mark, e.unassign)
		for i := len(hypoIDs) - 1; i >= 0; i-- {
			e.DetachByID(hypoIDs[i])
		}
		if demote != nil {
			demote.IsCore = false
		}
		// The hypothesis never becomes visible, so its ID is handed back.
		e.db.nextID = nextID
	}()

	hypoIDs = append(hypoIDs, e.Attach(neg, coreOnly))

	_, conflict := e.propagateFixpoint(MaxConstraintID, coreOnly)
	return conflict
}

// ComputeEffected returns the IDs of attached constraints with ID <
// maxID whose term set intersects the witness's support (either via
// constants or via remapped variables), sorted ascending for
// deterministic sub-goal numbering.
func (e *PropagationEngine) ComputeEffected(w *Substitution, maxID ConstraintID) []ConstraintID {
	seen := make(map[ConstraintID]bool)
	for _, v := range w.Support() {
		for _, lit := range []Literal{Lit(v, false), Lit(v, true)} {
			for id := range e.occurrence[lit] {
				if id < maxID {
					seen[id] = true
				}
			}
		}
	}
	out := make([]ConstraintID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
