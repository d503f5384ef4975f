package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/mainer"

	"github.com/mna/pybind/ast"
	"github.com/mna/pybind/binder"
	"github.com/mna/pybind/config"
	"github.com/mna/pybind/diag"
	"github.com/mna/pybind/token"
)

// Bind is the "bind" subcommand: decode each argument as a JSON AST
// fixture, bind it, and print the fixture's AST node tree (ast.Printer),
// a "-- scope:" line naming the module scope's kind, then any
// diagnostics, in the same print-then-report shape the teacher's own
// Resolve command uses.
func (c *Cmd) Bind(ctx context.Context, stdio mainer.Stdio, args []string) error {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return err
	}
	env := cfg.ExecutionEnvironment()
	resolver := config.NewFileResolver(append(append([]string{}, cfg.SearchPaths...), cfg.StubPaths...))

	var anyErr error
	for _, path := range args {
		if err := bindFile(stdio, path, resolver, env); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, err)
			anyErr = err
		}
	}
	return anyErr
}

func bindFile(stdio mainer.Stdio, path string, resolver *config.FileResolver, env *binder.ExecutionEnvironment) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mod, err := ast.DecodeModule(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	info := binder.FileInfo{
		URI:            path,
		ModuleName:     moduleNameForPath(path),
		IsInit:         filepath.Base(path) == "__init__.py",
		IsStub:         strings.HasSuffix(path, ".pyi"),
		IsTypedPackage: isTypedPackage(path),
	}

	var sink diag.List
	b := binder.New(&sink, resolver, resolver, info, env)
	scope := b.BindModule(mod)

	printer := ast.Printer{Output: stdio.Stdout, Pos: token.PosNone}
	if err := printer.Print(mod, nil); err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "-- scope: %s\n", scope.Kind)

	sink.Sort()
	for _, d := range sink.Items() {
		fmt.Fprintln(stdio.Stdout, d.String())
	}
	return sink.Err()
}

// isTypedPackage reports whether path ships alongside a py.typed marker
// file, extending single-underscore private marking to ordinary source
// files the way a stub file always gets (spec.md §4.2).
func isTypedPackage(path string) bool {
	_, err := os.Stat(filepath.Join(filepath.Dir(path), "py.typed"))
	return err == nil
}

func moduleNameForPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "__init__" {
		return filepath.Base(filepath.Dir(path))
	}
	return base
}
