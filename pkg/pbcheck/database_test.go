package pbcheck

import (
	"math/big"
	"testing"
)

func TestDatabaseAllocateAssignsIncreasingIDs(t *testing.T) {
	db := NewDatabase()
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	r1 := db.Allocate(ineq, false)
	r2 := db.Allocate(ineq, false)
	if r2.ID <= r1.ID {
		t.Fatalf("expected strictly increasing IDs, got %d then %d", r1.ID, r2.ID)
	}
}

func TestDatabaseDecRefRemovesAtZero(t *testing.T) {
	db := NewDatabase()
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	rec := db.Allocate(ineq, false)
	db.IncRef(rec.ID)
	if removed := db.DecRef(rec.ID); removed {
		t.Fatalf("expected record to survive a DecRef while refcount is still 2")
	}
	if !db.DecRef(rec.ID) {
		t.Fatalf("expected record to be removed once refcount reaches 0")
	}
	if _, ok := db.Get(rec.ID); ok {
		t.Fatalf("expected Get to fail for a removed record")
	}
}

func TestDatabasePromoteCoreIsOneWay(t *testing.T) {
	db := NewDatabase()
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	rec := db.Allocate(ineq, false)
	db.PromoteCore(rec.ID)
	got, _ := db.Get(rec.ID)
	if !got.IsCore {
		t.Fatalf("expected PromoteCore to mark the record core")
	}
}

func TestDatabaseIDsAreSorted(t *testing.T) {
	db := NewDatabase()
	ineq := NewInequality([]Term{mkTerm(1, 1, false)}, big.NewInt(1))
	for i := 0; i < 5; i++ {
		db.Allocate(ineq.clone(), false)
	}
	ids := db.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("expected IDs in ascending order, got %v", ids)
		}
	}
}
