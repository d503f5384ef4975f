// Package diag defines the diagnostic severities, rule identifiers and
// sink interface the binder reports through (spec.md §6 "Diagnostic
// sink", §7 "Error handling design"). List is a small error-accumulator
// in the same spirit as the teacher's
// scanner.ErrorList (itself a type alias for go/scanner.ErrorList) — see
// DESIGN.md for why this one piece stays on the standard library's
// error-list shape rather than reaching for a third-party package.
package diag

import (
	"fmt"
	"sort"

	"github.com/mna/pybind/token"
)

// Severity is the reporting level of a diagnostic.
type Severity uint8

// List of supported severities. None suppresses emission entirely, per
// spec.md §7 ("emission is skipped when none").
const (
	SeverityNone Severity = iota
	SeverityInformation
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	default:
		return "none"
	}
}

// RuleID identifies a rule-governed diagnostic (spec.md §7), whose
// severity is configurable. Syntax/semantic errors (always emitted) use
// RuleNone.
type RuleID string

// List of rule identifiers for rule-governed diagnostics (spec.md §7).
const (
	RuleNone            RuleID = ""
	RuleMissingImport   RuleID = "reportMissingImports"
	RuleMissingStubs    RuleID = "reportMissingTypeStubs"
	RuleUnsupportedDunderAll RuleID = "reportUnsupportedDunderAll"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Rule     RuleID
	Message  string
	Range    token.Range
}

func (d Diagnostic) String() string {
	if d.Rule != RuleNone {
		return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Rule)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Sink is the collaborator that receives diagnostics (spec.md §6). The
// binder never returns a Go error for a domain-level problem; everything
// flows through Report.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Diagnostic)

// Report implements Sink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// List accumulates diagnostics in memory; it is what test code and the
// debug CLI use as a Sink. The binder's internal invariant failures are
// panics and never reach a List.
type List struct {
	items []Diagnostic
}

// Report implements Sink.
func (l *List) Report(d Diagnostic) { l.items = append(l.items, d) }

// Items returns the accumulated diagnostics in report order.
func (l *List) Items() []Diagnostic { return l.items }

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.items) }

// Sort orders diagnostics by range start, the same stable, deterministic
// ordering the teacher's scanner.ErrorList.Sort gives resolver errors.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		return l.items[i].Range.Start < l.items[j].Range.Start
	})
}

// Err returns a non-nil error wrapping every accumulated diagnostic
// (warnings and information included) when at least one is at
// SeverityError, or nil if none is (warnings/information alone never
// fail a bind, matching spec.md §7 "the binder never throws for domain
// errors").
func (l *List) Err() error {
	for _, d := range l.items {
		if d.Severity == SeverityError {
			return errList(l.items)
		}
	}
	return nil
}

type errList []Diagnostic

func (e errList) Error() string {
	if len(e) == 1 {
		return e[0].String()
	}
	s := fmt.Sprintf("%d diagnostics:", len(e))
	for _, d := range e {
		s += "\n\t" + d.String()
	}
	return s
}
