package binder

// ExecutionEnvironment carries the few facts about the target Python
// environment that are handed to the binder (spec.md §6 "Execution
// environment"). PythonVersion and Platform are recorded but not read by
// the binder: evaluateStaticBoolLikeExpression does not evaluate
// `sys.version_info`/`sys.platform` checks, so blocks guarded by them are
// never pruned. The binder never evaluates types, so this is
// intentionally small; deeper configuration (search paths, stub roots)
// belongs to ImportResolver.
type ExecutionEnvironment struct {
	PythonVersion [2]int // major, minor; (0,0) means "unknown"
	Platform      string // "", "linux", "darwin", "win32", ...

	// NotebookMode relaxes the "await/async for/async with outside an
	// async function" errors (spec.md §7) at module level, the way an
	// IPython/Jupyter cell allows a bare top-level `await`.
	NotebookMode bool
}

// ImportResolver resolves a dotted module reference (as written in an
// `import`/`from ... import` statement) to the URI of the file that
// defines it (spec.md §6 "Import resolver"). The binder calls this for
// each module an import names (for `import a.b.c`, once per dotted
// prefix: `a`, `a.b`, `a.b.c`) and records the result in the Alias declaration's
// LoaderAction tree; resolution failures are reported through the
// Sink as reportMissingImports, never returned as a Go error.
type ImportResolver interface {
	ResolveImport(fromURI string, dottedName []string, level int) (uri string, ok bool)
}

// ImportLookup exposes the public symbol table of an already-bound file,
// letting the binder resolve `from module import name` and wildcard
// imports without re-binding the target file itself (spec.md §6 "Import
// lookup").
type ImportLookup interface {
	// PublicSymbols returns the names a wildcard import should bind: the
	// file's __all__ list if recognized, else every symbol not starting
	// with '_'.
	PublicSymbols(uri string) []string
	// HasSymbol reports whether uri's module scope declares name.
	HasSymbol(uri string, name string) bool
}

// FileInfo supplies the handful of facts the binder needs about the file
// being bound that aren't derivable from the AST itself (spec.md §6
// "File info"): its URI (used to key declarations and diagnostics) and
// whether it is a `__init__` module (package-scope handling for `__all__`
// and implicit relative imports, spec.md §4.5/§4.8).
type FileInfo struct {
	URI        string
	ModuleName string
	IsInit     bool
	IsStub     bool // a `.pyi` stub file: certain runtime-only constructs are never evaluated

	// IsTypedPackage reports whether this file ships as part of a
	// py.typed-marked package (spec.md §4.2 "the file is a type stub or
	// part of a typed-package"), which extends single-underscore private
	// marking to ordinary (non-stub) source files too.
	IsTypedPackage bool
}
