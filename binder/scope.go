package binder

// ScopeKind identifies the lexical flavor of a Scope (spec.md §3).
type ScopeKind uint8

// List of supported ScopeKind values.
const (
	ScopeBuiltin ScopeKind = iota
	ScopeModule
	ScopeClass
	ScopeFunction
	ScopeComprehension
	ScopeTypeParameter
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBuiltin:
		return "builtin"
	case ScopeModule:
		return "module"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeComprehension:
		return "comprehension"
	case ScopeTypeParameter:
		return "typeparameter"
	default:
		return "unknown"
	}
}

// IsExecutionScope reports whether this scope kind introduces its own
// control-flow graph: Builtin, Module and Function do; Class and
// TypeParameter reuse the enclosing flow thread, and a Comprehension
// binds its clauses from a Start node of its own but counts complexity
// against the enclosing execution scope (spec.md GLOSSARY "Execution
// scope").
func (k ScopeKind) IsExecutionScope() bool {
	return k == ScopeBuiltin || k == ScopeModule || k == ScopeFunction
}

// BindingType is the per-name override installed by `global`/`nonlocal`
// statements (spec.md §3 "per-name binding-type override").
type BindingType uint8

// List of supported BindingType values.
const (
	BindingNone BindingType = iota
	BindingGlobal
	BindingNonlocal
)

// Scope is a lexical container for names (spec.md §3). Every non-Builtin
// scope has a parent.
type Scope struct {
	Kind ScopeKind
	Name string // optional debugging label; the binder does not set it

	Parent *Scope

	// Proxy is non-nil only for a ScopeTypeParameter scope; it equals the
	// scope that would otherwise be this scope's lexical neighbor, letting
	// algorithms that need "the real enclosing scope" for a function/class
	// that declares type parameters (spec.md §4.1) use one accessor
	// (effectiveParent) instead of special-casing ScopeTypeParameter at
	// every call site. This resolves the §4.1 proxy-scope open question:
	// Proxy is a convenience alias of Parent, set only on type-parameter
	// scopes, recorded as a decision in DESIGN.md.
	Proxy *Scope

	symbols  map[string]*Symbol
	bindOverrides map[string]BindingType
	slots    []string // set only for Class scopes with a recognized __slots__

	nextSymbolID *int // shared counter pointer, owned by the Binder
}

func newScope(kind ScopeKind, parent *Scope, idCounter *int) *Scope {
	return &Scope{
		Kind:         kind,
		Parent:       parent,
		symbols:      make(map[string]*Symbol),
		nextSymbolID: idCounter,
	}
}

// effectiveParent returns Proxy if set, else Parent. See the Proxy field
// doc for why this indirection exists.
func (s *Scope) effectiveParent() *Scope {
	if s.Proxy != nil {
		return s.Proxy
	}
	return s.Parent
}

// AddSymbol creates (if absent) and returns the Symbol named name in this
// scope, per spec.md §4.1 addSymbol. Flags supplied are OR'd onto the
// symbol whether it was just created or already existed, matching the
// teacher resolver's pattern of accreting information onto one binding as
// more is learned about it (e.g. a later __slots__ pass marking a symbol
// already created by a plain assignment).
func (s *Scope) AddSymbol(name string, flags SymbolFlags) *Symbol {
	sym, ok := s.symbols[name]
	if !ok {
		*s.nextSymbolID++
		sym = &Symbol{ID: SymbolID(*s.nextSymbolID), Name: name}
		s.symbols[name] = sym
	}
	sym.Set(flags)
	return sym
}

// LookUp returns the Symbol named name if it is defined directly in this
// scope (no parent walk).
func (s *Scope) LookUp(name string) *Symbol {
	return s.symbols[name]
}

// LookUpRecursive walks the parent chain starting at s looking for name,
// skipping Class scopes when the walk did not start in a Class scope
// itself (spec.md §4.1, §8 invariant 6: nested functions never resolve a
// free name to a symbol owned by an enclosing class body).
func (s *Scope) LookUpRecursive(name string) (*Symbol, *Scope) {
	startedInClass := s.Kind == ScopeClass
	for cur := s; cur != nil; cur = cur.effectiveParent() {
		if cur.Kind == ScopeClass && cur != s && !startedInClass {
			continue
		}
		if sym, ok := cur.symbols[name]; ok {
			return sym, cur
		}
	}
	return nil, nil
}

// GetGlobalScope returns the nearest enclosing Module or Builtin scope,
// walking Proxy/Parent links (spec.md §3 Scope invariants).
func (s *Scope) GetGlobalScope() *Scope {
	for cur := s; cur != nil; cur = cur.effectiveParent() {
		if cur.Kind == ScopeModule || cur.Kind == ScopeBuiltin {
			return cur
		}
	}
	return nil
}

// GetBindingType returns the Global/Nonlocal override installed for name
// in this scope by a `global`/`nonlocal` statement, if any.
func (s *Scope) GetBindingType(name string) (BindingType, bool) {
	if s.bindOverrides == nil {
		return BindingNone, false
	}
	bt, ok := s.bindOverrides[name]
	return bt, ok
}

// SetBindingType installs a Global/Nonlocal override for name in this
// scope.
func (s *Scope) SetBindingType(name string, kind BindingType) {
	if s.bindOverrides == nil {
		s.bindOverrides = make(map[string]BindingType)
	}
	s.bindOverrides[name] = kind
}

// SetSlotsNames records the class scope's recognized __slots__ names.
func (s *Scope) SetSlotsNames(names []string) { s.slots = names }

// SlotsNames returns the recognized __slots__ names, or nil if none were
// recognized (or this is not a class scope with a literal __slots__).
func (s *Scope) SlotsNames() []string { return s.slots }

// Symbols returns every symbol directly owned by this scope. The returned
// map must not be mutated by callers.
func (s *Scope) Symbols() map[string]*Symbol { return s.symbols }

// nearestNonComprehension returns the nearest enclosing scope that is not
// a Comprehension scope, used to target walrus-operator bindings (spec.md
// §4.3 "Assignment expression (walrus)").
func (s *Scope) nearestNonComprehension() *Scope {
	for cur := s; cur != nil; cur = cur.effectiveParent() {
		if cur.Kind != ScopeComprehension {
			return cur
		}
	}
	return nil
}

// nearestNonClass returns the nearest enclosing scope that is not a Class
// scope, used for `nonlocal` target resolution (spec.md §4.8) which binds
// to "the nearest enclosing non-class, non-module parent" when no
// override applies, and more generally whenever a class scope must be
// skipped over.
func (s *Scope) nearestNonClass() *Scope {
	for cur := s.effectiveParent(); cur != nil; cur = cur.effectiveParent() {
		if cur.Kind != ScopeClass {
			return cur
		}
	}
	return nil
}
