package pbcheck

import (
	"fmt"
	"strconv"
	"strings"
)

// VarID is a dense positive integer identifying a Boolean variable.
// 0 is reserved and never a valid VarID.
type VarID int32

// VariableRegistry maps user-facing variable names to dense VarIDs and
// back, and allocates fresh variables on demand. Two modes are supported:
//
//   - free-form names: any token is accepted as a name and assigned the
//     next unused VarID;
//   - positional names: names must match `x<N>` and the numeric suffix
//     N is used directly as the VarID (no bidirectional map is kept).
//
// A VariableRegistry is only ever mutated from the verifier's call stack;
// it has no synchronization of its own.
type VariableRegistry struct {
	freeForm bool

	// nameToID and idToName are populated only in free-form mode.
	nameToID map[string]VarID
	idToName map[VarID]string

	// next is the smallest VarID not yet handed out, in either mode.
	next VarID
}

// NewVariableRegistry creates a registry. When freeForm is false, names
// must be of the form x<N> and N becomes the VarID directly; this is the
// mode OPB/CNF inputs without a name table normally use.
func NewVariableRegistry(freeForm bool) *VariableRegistry {
	r := &VariableRegistry{freeForm: freeForm, next: 1}
	if freeForm {
		r.nameToID = make(map[string]VarID)
		r.idToName = make(map[VarID]string)
	}
	return r
}

// Lookup resolves a user-facing variable name to a VarID, allocating a
// fresh one the first time the name is seen (free-form mode) or parsing
// the positional form `x<N>` (positional mode).
func (r *VariableRegistry) Lookup(name string) (VarID, error) {
	if !r.freeForm {
		return r.lookupPositional(name)
	}
	if id, ok := r.nameToID[name]; ok {
		return id, nil
	}
	id := r.next
	r.next++
	r.nameToID[name] = id
	r.idToName[id] = name
	return id, nil
}

func (r *VariableRegistry) lookupPositional(name string) (VarID, error) {
	if !strings.HasPrefix(name, "x") {
		return 0, fmt.Errorf("variable name %q does not match x<N>", name)
	}
	n, err := strconv.ParseInt(name[1:], 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("variable name %q does not match x<N>", name)
	}
	id := VarID(n)
	if id >= r.next {
		r.next = id + 1
	}
	return id, nil
}

// Name returns the user-facing name for id, synthesizing "x<N>" when no
// explicit name is on record (always the case in positional mode).
func (r *VariableRegistry) Name(id VarID) string {
	if r.freeForm {
		if name, ok := r.idToName[id]; ok {
			return name
		}
	}
	return fmt.Sprintf("x%d", id)
}

// Fresh allocates and returns a new variable not previously handed out,
// used by rules that introduce auxiliary variables (order definitions'
// aux lists, for instance).
func (r *VariableRegistry) Fresh() VarID {
	id := r.next
	r.next++
	if r.freeForm {
		name := fmt.Sprintf("x%d", id)
		r.nameToID[name] = id
		r.idToName[id] = name
	}
	return id
}

// NumVars returns the number of distinct VarIDs handed out so far, i.e.
// the largest VarID allocated (VarIDs are dense starting at 1).
func (r *VariableRegistry) NumVars() int {
	return int(r.next - 1)
}
