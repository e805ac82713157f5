package bisyntax

import (
	"errors"
	"fmt"
	"strings"
)

// ParserError is the complete error taxonomy from spec.md §3.6. Every
// concrete type implements Go's error interface directly (rather than
// the teacher's separate ParsingError/backtrackingError pair, see
// DESIGN.md) so callers can use errors.As/errors.Is the idiomatic way.
type ParserError interface {
	error
	// Position returns the input offset the error occurred at.
	Position() int
}

// Failure is a user-visible failure with the chain of enclosing Named
// scopes accumulated at the point of failure.
type Failure struct {
	NameChain []string
	Pos       int
	Err       error
}

func (f *Failure) Error() string {
	var b strings.Builder
	if len(f.NameChain) > 0 {
		b.WriteString(strings.Join(f.NameChain, "."))
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%v (at %d)", f.Err, f.Pos)
	return b.String()
}

func (f *Failure) Position() int { return f.Pos }

// Unwrap lets errors.Is/errors.As see through to the wrapped cause.
func (f *Failure) Unwrap() error { return f.Err }

// UnexpectedEndOfInput means the parser needed more characters than
// were available.
type UnexpectedEndOfInput struct {
	Pos int
}

func (e *UnexpectedEndOfInput) Error() string {
	return fmt.Sprintf("unexpected end of input (at %d)", e.Pos)
}

func (e *UnexpectedEndOfInput) Position() int { return e.Pos }

// UnknownFailure marks an internal invariant broken — it should never
// surface from well-formed ASTs on well-formed inputs (spec.md §7).
type UnknownFailure struct {
	NameChain []string
	Pos       int
}

func (e *UnknownFailure) Error() string {
	return fmt.Sprintf("unknown failure in %v (at %d)", e.NameChain, e.Pos)
}

func (e *UnknownFailure) Position() int { return e.Pos }

// NotConsumedAll is raised by the End combinator when input remained.
type NotConsumedAll struct {
	Pos int
}

func (e *NotConsumedAll) Error() string {
	return fmt.Sprintf("input not fully consumed (at %d)", e.Pos)
}

func (e *NotConsumedAll) Position() int { return e.Pos }

// AllBranchesFailed is built by OrElse/OrElseEither when both branches
// fail; both sub-errors are retained verbatim, never flattened.
type AllBranchesFailed struct {
	Left, Right ParserError
}

func (e *AllBranchesFailed) Error() string {
	return fmt.Sprintf("all branches failed: (%v) or (%v)", e.Left, e.Right)
}

func (e *AllBranchesFailed) Position() int {
	// Reports the right branch's position, the branch tried last; the
	// left branch's position is used only when there is no right error.
	if e.Right != nil {
		return e.Right.Position()
	}
	if e.Left != nil {
		return e.Left.Position()
	}
	return 0
}

// PrinterError is the error family surfaced by the printer engine
// (spec.md §4.5/§4.6). It deliberately mirrors the parser's error
// shape without reusing ParserError, since printer failures have no
// input position to report.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string { return e.Err.Error() }
func (e *PrinterError) Unwrap() error { return e.Err }

// NewPrinterError wraps err as a PrinterError.
func NewPrinterError(err error) *PrinterError { return &PrinterError{Err: err} }

// ErrRollbackUnsupported is returned by Target implementations whose
// sink cannot roll back when OrElse on the printer side needs to
// discard partial output (spec.md §4.6/§9).
var ErrRollbackUnsupported = errors.New("bisyntax: target does not support rollback, incompatible with OrElse")

var errRepeatBounds = errors.New("bisyntax: repeated value count outside [min,max]")

var errUnknownPrinterNode = errors.New("bisyntax: unknown printer node")
