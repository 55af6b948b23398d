package pbcheck

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Verifier is the top-level state machine that replays a cutting-planes
// proof against a formula: it owns the variable registry, the
// constraint database and propagation engine, the optional objective,
// the order/dominance catalogue, and the nested sub-context stack, and
// dispatches each TokenLine to the rule it names.
//
// A Verifier is single-use and single-threaded: a long-lived value
// owning mutable solver state that only the goroutine driving the proof
// loop ever touches.
type Verifier struct {
	Registry        *VariableRegistry
	DB              *Database
	Engine          *PropagationEngine
	Objective       *Objective
	Orders          map[string]*Order
	Config          *CheckerConfig
	Log             *logrus.Entry
	subctx          *subContextStack
	formula         []*Inequality
	lastRuleID      ConstraintID
	wroteConcl      bool
	usesAssumptions bool

	lastObjectiveValue *bigInt
	haveObjectiveValue bool

	levels map[string]ConstraintID

	orderProof *orderProof
}

// NewVerifier wires up an empty verifier ready to load a formula.
func NewVerifier(cfg *CheckerConfig) *Verifier {
	if cfg == nil {
		cfg = DefaultCheckerConfig()
	}
	db := NewDatabase()
	v := &Verifier{
		Registry: NewVariableRegistry(cfg.FreeFormNames),
		DB:       db,
		Engine:   NewPropagationEngine(db),
		Orders:   make(map[string]*Order),
		Config:   cfg,
		Log:      cfg.Logger.WithField("component", "verifier"),
		subctx:   newSubContextStack(),
	}
	return v
}

// LoadFormulaData attaches every constraint of the input formula as a
// core constraint, in file order, and records it for rules (like `f`)
// that reference "the formula" by position. It also wires
// obj, if non-nil, as the proof's optimization objective.
func (v *Verifier) LoadFormulaData(constraints []*Inequality, obj *Objective) {
	v.formula = append([]*Inequality(nil), constraints...)
	v.Objective = obj
	maxVar := VarID(0)
	for _, c := range constraints {
		for _, t := range c.Terms() {
			if t.Literal.Var() > maxVar {
				maxVar = t.Literal.Var()
			}
		}
		v.attach(c, true)
	}
	v.Engine.IncreaseNumVarsTo(int(maxVar))
}

// attach is the single path through which a new or re-derived constraint
// enters the database: it installs it in the propagation engine, tracks
// it in the current sub-context frame (so ExitSubContext detaches it
// again when that frame closes), and returns the assigned ID.
func (v *Verifier) attach(ineq *Inequality, core bool) ConstraintID {
	id := v.Engine.Attach(ineq, core)
	v.subctx.track(id)
	v.lastRuleID = id
	return id
}

// resolveAntecedents turns a list of constraint-ID tokens into the
// actual *Inequality values, failing if any ID is not currently
// attached.
func (v *Verifier) resolveAntecedents(ids []ConstraintID) ([]*Inequality, error) {
	out := make([]*Inequality, len(ids))
	for i, id := range ids {
		rec, ok := v.DB.Get(id)
		if !ok {
			return nil, fmt.Errorf("constraint %d is not attached", id)
		}
		out[i] = rec.Ineq
	}
	return out, nil
}

// Step dispatches one already-tokenized proof line: look up the rule, check it is allowed in the
// current sub-context, and run it.
func (v *Verifier) Step(line TokenLine) error {
	fn, ok := ruleTable[line.Rule]
	if !ok {
		return &UnsupportedFeatureError{Rule: line.Rule}
	}
	if !v.subctx.isRuleAllowed(line.Rule) {
		return NewInvalidProofError(line.LineNo, line.Rule, "",
			"rule %q is not permitted inside the current sub-context", line.Rule)
	}
	before := v.DB.NextID()
	if err := fn(v, line); err != nil {
		return err
	}
	// Every ID a rule produces must exceed every ID it consumed; since
	// allocation is monotone this reduces to checking the watermark only
	// moved forward, which Database.Allocate already guarantees
	// structurally, so there is nothing further to assert here beyond the
	// invariant documented at the call site.
	_ = before
	return nil
}

// PendingGoals exposes the current sub-context's open obligations, for
// callers (tests, or a `end` rule implementation) that need to report
// exactly what is still outstanding.
func (v *Verifier) PendingGoals() []subGoal { return v.subctx.allPending() }

// EnterSubContext pushes a fresh frame, optionally restricting which
// rules are usable inside it.
func (v *Verifier) EnterSubContext(allowed map[string]bool, onExit func(*subContext) error) {
	v.subctx.push(&subContext{allowedRules: allowed, onExit: onExit}, v.DB.NextID())
}

// ExitSubContext pops the current frame, first checking every pending
// obligation has been discharged, and then detaches every constraint
// the frame introduced.
func (v *Verifier) ExitSubContext() error {
	if pending := v.subctx.allPending(); len(pending) > 0 {
		return NewInternalError(nil, "sub-context closed with %d undischarged sub-goal(s)", len(pending))
	}
	sc, err := v.subctx.pop()
	if err != nil {
		return err
	}
	for i := len(sc.introduced) - 1; i >= 0; i-- {
		v.Engine.DetachByID(sc.introduced[i])
	}
	return nil
}

// LastID returns the ID most recently attached by a rule, the implicit
// "last constraint" many rule grammars reference when no explicit ID is
// given.
func (v *Verifier) LastID() ConstraintID { return v.lastRuleID }

// MarkUsesAssumptions records that an `a` (Assumption) rule ran
// somewhere in this proof. Unlike every other derivation, an assumption
// is trusted with no justification at all, so the checker warns (rather
// than failing) about it instead of silently accepting a proof whose
// soundness partly rests on the proof author's say-so.
func (v *Verifier) MarkUsesAssumptions() { v.usesAssumptions = true }

// UsesAssumptions reports whether MarkUsesAssumptions has run, for the
// end-of-input check Finish performs.
func (v *Verifier) UsesAssumptions() bool { return v.usesAssumptions }

// Finish runs the end-of-input checks once the proof stream is
// exhausted: any sub-context still open is an error, the configured
// Warnings sink receives a warning if the proof used unjustified
// assumptions. Whether the proof concluded (SAT via `v` or UNSAT via
// `c`) is not checked here; Concluded reports it, so the caller can
// decide whether an unconcluded proof is itself an error for its use
// case.
func (v *Verifier) Finish() error {
	if v.subctx.depth() > 1 {
		return NewInvalidProofError(0, "end-of-proof", "", "subproof not finished: %d sub-context(s) still open", v.subctx.depth()-1)
	}
	if v.usesAssumptions {
		v.Config.Warnf("proof uses unjustified assumptions (rule \"a\"); soundness depends on them holding")
	}
	return nil
}

// Conclude records that a concluding rule (`c` on a contradiction, or
// `v` on a satisfying assignment) has run; a second concluding step is
// rejected.
func (v *Verifier) Conclude() error {
	if v.wroteConcl {
		return NewInvalidProofError(0, "conclude", "", "proof already concluded")
	}
	v.wroteConcl = true
	return nil
}

// Concluded reports whether Conclude has already run.
func (v *Verifier) Concluded() bool { return v.wroteConcl }
