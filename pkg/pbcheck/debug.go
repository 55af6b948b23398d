package pbcheck

import "github.com/davecgh/go-spew/spew"

// DumpDatabase renders every currently attached constraint as a
// go-spew-formatted string, for use in trace logging and test failure
// messages when a mismatch is hard to see from String() alone (e.g. the
// exact refcount or core flag, not just the constraint text).
func (v *Verifier) DumpDatabase() string {
	records := make([]*AttachedConstraint, 0, v.DB.Len())
	for _, id := range v.DB.IDs() {
		rec, _ := v.DB.Get(id)
		records = append(records, rec)
	}
	return spew.Sdump(records)
}

// DumpTrail renders the propagation engine's current assignment trail,
// useful when a RUP check unexpectedly fails or succeeds.
func (e *PropagationEngine) DumpTrail() string {
	return spew.Sdump(e.trail.literals())
}
