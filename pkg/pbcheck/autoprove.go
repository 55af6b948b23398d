package pbcheck

// autoProve tries, in increasing order of cost, to discharge goal
// automatically so the proof text does not have to spell out an explicit
// derivation for every sub-goal a `red`/`dom` step opens:
//
//  1. goal is trivially true (degree <= 0).
//  2. some attached constraint is syntactically equal to goal, or implies
//     it via Inequality.Implies (a cheap, sound-but-incomplete check).
//  3. goal is reachable by RUP against everything currently attached.
//
// If none of these close the goal, autoProve reports failure and the
// calling rule (`red`, `dom` or `end`) rejects the proof step; there is
// no fallback to an explicit proof line for the goal.
func autoProve(engine *PropagationEngine, db *Database, goal *Inequality) bool {
	if goal.IsTrivial() {
		return true
	}
	if _, ok := engine.Find(goal); ok {
		return true
	}
	for _, id := range db.IDs() {
		rec, ok := db.Get(id)
		if !ok {
			continue
		}
		if rec.Ineq.Implies(goal) {
			return true
		}
	}
	return engine.RUPCheck(goal, false)
}

// autoProveAll discharges every item in goals, short-circuiting on the
// first failure and reporting which goal could not be closed
// automatically (by index) so the caller can produce a precise
// InvalidProofError.
func autoProveAll(engine *PropagationEngine, db *Database, goals []*Inequality) (failedAt int, ok bool) {
	for i, g := range goals {
		if !autoProve(engine, db, g) {
			return i, false
		}
	}
	return -1, true
}
