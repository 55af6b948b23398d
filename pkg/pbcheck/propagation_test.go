package pbcheck

import (
	"math/big"
	"testing"
)

func TestAttachDeduplicatesEqualConstraints(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	id1 := e.Attach(ineq, false)
	id2 := e.Attach(ineq.clone(), false)
	if id1 != id2 {
		t.Fatalf("expected attaching an equal constraint twice to reuse the ID, got %d and %d", id1, id2)
	}
}

func TestDetachRemovesOnlyAfterLastRef(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	e.Attach(ineq, false)
	e.Attach(ineq.clone(), false) // refcount 2

	if removed := e.Detach(ineq, false); len(removed) != 0 {
		t.Fatalf("expected no removal on first detach, got %v", removed)
	}
	if _, ok := e.Find(ineq); !ok {
		t.Fatalf("expected constraint to still be attached after one detach")
	}
	if removed := e.Detach(ineq, false); len(removed) != 1 {
		t.Fatalf("expected removal on second detach, got %v", removed)
	}
	if _, ok := e.Find(ineq); ok {
		t.Fatalf("expected constraint to be gone after refcount reaches zero")
	}
}

func TestPropagateUnitClause(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	// a single unit constraint x1 >= 1 must force x1 true.
	e.Attach(NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)), true)
	lits := e.PropagatedLits()
	if len(lits) != 1 || lits[0] != Lit(1, false) {
		t.Fatalf("expected x1 to propagate true, got %v", lits)
	}
}

func TestPropagateChain(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	// x1 >= 1 forces x1; ~x1 + x2 >= 1 then forces x2.
	e.Attach(NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)), true)
	e.Attach(NewInequality([]Term{mkTerm(1, 1, true), mkTerm(1, 2, false)}, big.NewInt(1)), true)
	lits := e.PropagatedLits()
	want := map[Literal]bool{Lit(1, false): true, Lit(2, false): true}
	if len(lits) != len(want) {
		t.Fatalf("expected 2 propagated literals, got %v", lits)
	}
	for _, l := range lits {
		if !want[l] {
			t.Fatalf("unexpected propagated literal %v", l)
		}
	}
}

func TestRUPCheckRestoresStateOnSuccess(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	e.Attach(NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1)), true)

	// x1 >= 1 (the attached unit) should make "x1 >= 1" itself RUP.
	target := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	before := e.trail.mark()
	if !e.RUPCheck(target, false) {
		t.Fatalf("expected target to be RUP given the attached unit clause")
	}
	if after := e.trail.mark(); after != before {
		t.Fatalf("expected RUPCheck to restore the trail mark, got %d want %d", after, before)
	}
	if len(e.dup) != 1 {
		t.Fatalf("expected the temporary hypothesis to be detached, dup index has %d entries", len(e.dup))
	}
}

func TestRUPCheckFailsWithoutAntecedents(t *testing.T) {
	e := NewPropagationEngine(NewDatabase())
	target := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	if e.RUPCheck(target, false) {
		t.Fatalf("did not expect an unsupported unit clause to be RUP with an empty database")
	}
}
