package binder

// SymbolID is a stable, globally unique identifier for a Symbol, assigned
// once at creation and never reused (spec.md §3 "Symbol").
type SymbolID int

// SymbolFlags is a bit set of the flags spec.md §3 lists for Symbol.
type SymbolFlags uint32

// List of supported SymbolFlags bits.
const (
	FlagInitiallyUnbound SymbolFlags = 1 << iota
	FlagClassMember
	FlagInstanceMember
	FlagExternallyHidden
	FlagPrivateMember
	FlagPrivatePyTypedImport
	FlagInDunderAll
	FlagIgnoredForProtocolMatch
	FlagClassVar
	FlagFinalVarInClassBody
	FlagInitVar
	FlagDefinedBySlots
)

// Has reports whether all bits in f are set.
func (fl SymbolFlags) Has(f SymbolFlags) bool { return fl&f == f }

// Symbol represents one name within one scope (spec.md §3). Symbols are
// owned by their containing Scope's symbol table; the Scope exclusively
// owns them and they are never removed once created.
type Symbol struct {
	ID           SymbolID
	Name         string
	Flags        SymbolFlags
	Declarations []*Declaration

	// TypingSymbolAlias is set for symbols that are recognized aliases of
	// well-known typing/dataclasses names, e.g. `import typing as t` makes
	// "t" resolve with TypingSymbolAlias == "typing".
	TypingSymbolAlias string
}

// Set turns on the given flag bits.
func (s *Symbol) Set(f SymbolFlags) { s.Flags |= f }

// Clear turns off the given flag bits.
func (s *Symbol) Clear(f SymbolFlags) { s.Flags &^= f }

// Has reports whether all of f is set.
func (s *Symbol) Has(f SymbolFlags) bool { return s.Flags.Has(f) }

// AddDeclaration appends a new declaration for this symbol. Declarations
// are append-only and are never reordered or removed (spec.md §8 invariant
//2), except for the small set of function-declaration back-patches
// described in spec.md §3 (see FunctionInfo).
func (s *Symbol) AddDeclaration(d *Declaration) {
	s.Declarations = append(s.Declarations, d)
}

// LastDeclaration returns the most recently appended declaration, or nil if
// the symbol has none yet.
func (s *Symbol) LastDeclaration() *Declaration {
	if len(s.Declarations) == 0 {
		return nil
	}
	return s.Declarations[len(s.Declarations)-1]
}
