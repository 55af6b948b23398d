package pbcheck

// Order is a user-defined strict pre-order used by the `dom` rule's
// dominance check. It names three disjoint variable groups
// — left, right, and auxiliary — together with the defining
// inequalities that relate a left/right pair through the auxiliary
// variables, and records whether irreflexivity and transitivity have
// been proven for it via nested sub-verifications.
type Order struct {
	Name string

	left  []VarID
	right []VarID
	aux   []VarID

	// defs are the defining constraints, expressed over left ++ aux as
	// the "from" side and right ++ aux as the "to" side; dominance
	// instantiates them by substituting concrete variables for left/
	// right/aux through a witness built from the two states being
	// compared.
	defs []*Inequality

	irreflexivityProven bool
	transitivityProven  bool

	// firstDomInvisible is the database watermark taken when the order
	// became usable (`end` closing its last proof, or `load_order`):
	// `dom` steps using this order do not turn effected constraints with
	// an ID at or above it into sub-goals.
	firstDomInvisible ConstraintID

	// cache memoizes the instantiated defining constraints for a given
	// witness, keyed by the witness's HashKey-like encoding, since a
	// `dom` proof often reuses the same order against many states.
	cache map[string][]*Inequality
}

// NewOrder creates an order over the given disjoint variable partitions.
func NewOrder(name string, left, right, aux []VarID) *Order {
	return &Order{
		Name:  name,
		left:  append([]VarID(nil), left...),
		right: append([]VarID(nil), right...),
		aux:   append([]VarID(nil), aux...),
		cache: make(map[string][]*Inequality),
	}
}

// AddDefinition registers one of the order's defining constraints.
func (o *Order) AddDefinition(ineq *Inequality) {
	o.defs = append(o.defs, ineq)
}

// Left, Right, Aux expose the order's variable partitions.
func (o *Order) Left() []VarID  { return o.left }
func (o *Order) Right() []VarID { return o.right }
func (o *Order) Aux() []VarID   { return o.aux }

// MarkIrreflexivityProven / MarkTransitivityProven record that the
// corresponding sub-proof closed successfully.
func (o *Order) MarkIrreflexivityProven() { o.irreflexivityProven = true }
func (o *Order) MarkTransitivityProven()  { o.transitivityProven = true }

// IsUsable reports whether the order has been fully closed: both proof
// obligations discharged. An order cannot back a `dom` step until both
// are proven.
func (o *Order) IsUsable() bool {
	return o.irreflexivityProven && o.transitivityProven
}

// SetFirstDomInvisible freezes the database watermark at `end` time.
func (o *Order) SetFirstDomInvisible(id ConstraintID) { o.firstDomInvisible = id }

// FirstDomInvisible returns the watermark set by SetFirstDomInvisible.
func (o *Order) FirstDomInvisible() ConstraintID { return o.firstDomInvisible }

// instantiationKey builds a deterministic cache key for a witness
// mapping left variables to a "from" state and right variables to a "to"
// state; two structurally identical witnesses produce the same key so
// repeated `dom` steps against the same pair of states reuse work.
func instantiationKey(w *Substitution) string {
	key := ""
	for _, v := range w.Support() {
		if lit, ok := w.ConstLit(v); ok {
			key += lit.String() + ","
			continue
		}
		if lit, ok := w.Mapping(v); ok {
			key += Lit(v, false).String() + "->" + lit.String() + ","
		}
	}
	return key
}

// Instantiate rewrites the order's defining constraints through witness
// w, caching the result per distinct witness.
func (o *Order) Instantiate(w *Substitution) []*Inequality {
	key := instantiationKey(w)
	if cached, ok := o.cache[key]; ok {
		return cached
	}
	out := make([]*Inequality, len(o.defs))
	for i, def := range o.defs {
		out[i] = def.Substitute(w)
	}
	o.cache[key] = out
	return out
}
