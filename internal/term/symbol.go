// Package term implements the interned term representation of the
// reasoning kernel: sorts, symbols, terms, substitution and unification.
//
// Terms are interned by a Factory so that structurally equal terms share
// the same id; the id's lowest bit records whether the term is name-like,
// mirroring the separate name/function heap split of the original C++
// "limbo" term factory (see DESIGN.md).
package term

// Sort identifies a domain of discourse. Rigid sorts make ground function
// terms built only from names behave as names themselves (spec §3).
//
// Ids are assigned as 2*n (nonrigid) / 2*n+1 (rigid) so that rigidity is a
// parity check, following the original implementation's Sort encoding.
type Sort struct {
	id uint32
}

// SortFactory hands out fresh sort ids.
type SortFactory struct {
	next uint32
}

// NewSortFactory returns an empty sort factory.
func NewSortFactory() *SortFactory {
	return &SortFactory{next: 0}
}

// CreateNonrigid allocates a fresh nonrigid sort.
func (f *SortFactory) CreateNonrigid() Sort {
	s := Sort{id: 2 * f.next}
	f.next++
	return s
}

// CreateRigid allocates a fresh rigid sort.
func (f *SortFactory) CreateRigid() Sort {
	s := Sort{id: 2*f.next + 1}
	f.next++
	return s
}

// Rigid reports whether ground function terms of this sort built from
// names are themselves treated as names.
func (s Sort) Rigid() bool { return s.id%2 == 1 }

// ID returns the raw sort id, mostly useful for logging and maps.
func (s Sort) ID() uint32 { return s.id }

func (s Sort) String() string {
	if s.Rigid() {
		return "rigid-sort"
	}
	return "sort"
}

// Kind classifies a Symbol.
type Kind uint8

const (
	KindVariable Kind = iota
	KindName
	KindFunction
)

// Symbol is a variable, a standard name, or a function; symbols carry a
// sort and, for functions, an arity (zero only for a nonrigid sort). Symbols are created exactly
// once per distinct identity via SymbolFactory; equality is id equality.
type Symbol struct {
	id    uint32
	kind  Kind
	sort  Sort
	arity uint8
}

func (s Symbol) Kind() Kind     { return s.kind }
func (s Symbol) Sort() Sort     { return s.sort }
func (s Symbol) Arity() uint8   { return s.arity }
func (s Symbol) Variable() bool { return s.kind == KindVariable }
func (s Symbol) Name() bool     { return s.kind == KindName }
func (s Symbol) Function() bool { return s.kind == KindFunction }
func (s Symbol) Null() bool     { return s.id == 0 && s.kind == KindVariable && s.sort.id == 0 }

// Equal compares symbols by identity, per spec "equality is id equality".
func (s Symbol) Equal(o Symbol) bool { return s.kind == o.kind && s.id == o.id }

// SymbolFactory interns symbols: each distinct (kind, sort, arity, ordinal)
// is created exactly once.
type SymbolFactory struct {
	lastName     uint32
	lastVariable uint32
	lastFunction uint32
}

// NewSymbolFactory returns an empty symbol factory.
func NewSymbolFactory() *SymbolFactory {
	return &SymbolFactory{}
}

// CreateName allocates a fresh name symbol of the given sort.
func (f *SymbolFactory) CreateName(sort Sort) Symbol {
	f.lastName++
	return Symbol{id: f.lastName, kind: KindName, sort: sort, arity: 0}
}

// CreateVariable allocates a fresh variable symbol of the given sort.
func (f *SymbolFactory) CreateVariable(sort Sort) Symbol {
	f.lastVariable++
	return Symbol{id: f.lastVariable, kind: KindVariable, sort: sort, arity: 0}
}

// CreateFunction allocates a fresh function symbol of the given sort and
// arity. A rigid-sorted function must have positive arity: a rigid sort
// with a nullary function would make that function indistinguishable from
// a name, which defeats the purpose of declaring it a function.
func (f *SymbolFactory) CreateFunction(sort Sort, arity uint8) Symbol {
	if arity == 0 && sort.Rigid() {
		panic("term: nullary function cannot have a rigid sort")
	}
	f.lastFunction++
	return Symbol{id: f.lastFunction, kind: KindFunction, sort: sort, arity: arity}
}
