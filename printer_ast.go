package bisyntax

// printerNode is the closed set of tagged variants making up a
// Printer AST (spec.md §3.4) — the dual of parserNode. Like
// parserNode, it carries no type parameter; Printer[V] is the
// type-safe facade.
type printerNode interface {
	printerNode()
}

type prSucceedUnit struct{}

func (*prSucceedUnit) printerNode() {}

type prFail struct{ err error }

func (*prFail) printerNode() {}

type prMapError struct {
	inner printerNode
	f     func(error) error
}

func (*prMapError) printerNode() {}

type prContramap struct {
	inner printerNode
	f     func(any) any
}

func (*prContramap) printerNode() {}

type prContramapEither struct {
	inner printerNode
	f     func(any) (any, error)
}

func (*prContramapEither) printerNode() {}

// prZip splits the input Pair[A,B] into its two halves for the left
// and right printers. split is captured at the PrZip[A,B] call site
// for the same reason pnZip captures combine: the node carries no
// type parameter.
type prZip struct {
	left, right printerNode
	split       func(v any) (any, any)
}

func (*prZip) printerNode() {}

// prZipLeft/prZipRight run both children but only one of them
// receives the real input value; the discarded side receives an
// untyped nil and is expected (by construction) to be built from a
// value-independent leaf such as EmitOutput, ExactlyEqual or
// PrintRegexDiscard.
type prZipLeft struct{ left, right printerNode }

func (*prZipLeft) printerNode() {}

type prZipRight struct{ left, right printerNode }

func (*prZipRight) printerNode() {}

type prOrElse struct {
	left       printerNode
	rightThunk func() printerNode
}

func (*prOrElse) printerNode() {}

type prOrElseEither struct {
	left       printerNode
	rightThunk func() printerNode
	// split reports which branch produced the input value and yields
	// that branch's payload; the other return value is unused.
	split func(v any) (isRight bool, leftVal, rightVal any)
}

func (*prOrElseEither) printerNode() {}

type prOptional struct {
	inner printerNode
	split func(v any) (any, bool)
}

func (*prOptional) printerNode() {}

type prRepeat struct {
	inner    printerNode
	min, max int
	toSlice  func(v any) []any
}

func (*prRepeat) printerNode() {}

type prRepeatWithSep struct {
	inner, sep printerNode
	atLeastOne bool
	toSlice    func(v any) []any
}

func (*prRepeatWithSep) printerNode() {}

type prRepeatUntil struct {
	inner, stop printerNode
	toSlice     func(v any) []any
}

func (*prRepeatUntil) printerNode() {}

type prEmitOutput struct{ value string }

func (*prEmitOutput) printerNode() {}

type prExactlyEqual struct {
	value any
	err   error
}

func (*prExactlyEqual) printerNode() {}

type prExceptEqual struct {
	value any
	err   error
}

func (*prExceptEqual) printerNode() {}

type prFilterInput struct {
	pred func(any) bool
	err  error
}

func (*prFilterInput) printerNode() {}

type prFromInput struct {
	fn func(any) (string, error)
}

func (*prFromInput) printerNode() {}

type prSuspendLazy struct {
	thunk  func() printerNode
	memo   printerNode
	forced bool
}

func (*prSuspendLazy) printerNode() {}

func (n *prSuspendLazy) force() printerNode {
	if !n.forced {
		n.memo = n.thunk()
		n.forced = true
	}
	return n.memo
}

type prFlatten struct{}

func (*prFlatten) printerNode() {}

type prPrintRegex struct {
	compiled *Compiled
	err      error
}

func (*prPrintRegex) printerNode() {}

type prPrintRegexChar struct {
	compiled *Compiled
	err      error
}

func (*prPrintRegexChar) printerNode() {}

type prPrintRegexDiscard struct {
	compiled *Compiled
	chars    string
}

func (*prPrintRegexDiscard) printerNode() {}

// Printer[V] is a type-safe handle onto a printerNode: it denotes a
// computation that consumes a V and writes output to a Target.
type Printer[V any] struct {
	node printerNode
}

// --- Printer AST constructors, spec.md §3.4 ---

func PrSucceedUnit() Printer[Unit] {
	return Printer[Unit]{node: &prSucceedUnit{}}
}

func PrFail[V any](err error) Printer[V] {
	return Printer[V]{node: &prFail{err: err}}
}

func PrMapError[V any](p Printer[V], f func(error) error) Printer[V] {
	return Printer[V]{node: &prMapError{inner: p.node, f: f}}
}

func PrContramap[A, B any](p Printer[B], f func(A) B) Printer[A] {
	wrapped := func(v any) any { return f(v.(A)) }
	return Printer[A]{node: &prContramap{inner: p.node, f: wrapped}}
}

// PrContramapEither rewrites A into B through a partial function; when
// f returns a non-nil error the printer fails with it.
func PrContramapEither[A, B any](p Printer[B], f func(A) (B, error)) Printer[A] {
	wrapped := func(v any) (any, error) { return f(v.(A)) }
	return Printer[A]{node: &prContramapEither{inner: p.node, f: wrapped}}
}

func PrZip[A, B any](l Printer[A], r Printer[B]) Printer[Pair[A, B]] {
	split := func(v any) (any, any) {
		p := v.(Pair[A, B])
		return p.First, p.Second
	}
	return Printer[Pair[A, B]]{node: &prZip{left: l.node, right: r.node, split: split}}
}

// PrZipLeft builds a Printer[A] from a Printer[A] and a Printer[B]
// whose value is not used for printing (r must be built from a
// value-independent leaf, e.g. EmitOutput or a literal).
func PrZipLeft[A, B any](l Printer[A], r Printer[B]) Printer[A] {
	return Printer[A]{node: &prZipLeft{left: l.node, right: r.node}}
}

func PrZipRight[A, B any](l Printer[A], r Printer[B]) Printer[B] {
	return Printer[B]{node: &prZipRight{left: l.node, right: r.node}}
}

func PrOrElse[V any](l Printer[V], rThunk func() Printer[V]) Printer[V] {
	wrapped := func() printerNode { return rThunk().node }
	return Printer[V]{node: &prOrElse{left: l.node, rightThunk: wrapped}}
}

func PrOrElseEither[A, B any](l Printer[A], rThunk func() Printer[B]) Printer[Either[A, B]] {
	wrapped := func() printerNode { return rThunk().node }
	split := func(v any) (bool, any, any) {
		e := v.(Either[A, B])
		if e.IsRight() {
			return true, nil, e.Right()
		}
		return false, e.Left(), nil
	}
	return Printer[Either[A, B]]{node: &prOrElseEither{left: l.node, rightThunk: wrapped, split: split}}
}

func PrOptional[V any](p Printer[V]) Printer[Option[V]] {
	split := func(v any) (any, bool) {
		o := v.(Option[V])
		val, ok := o.Get()
		return val, ok
	}
	return Printer[Option[V]]{node: &prOptional{inner: p.node, split: split}}
}

func toAnySliceFunc[V any]() func(v any) []any {
	return func(v any) []any {
		s := v.([]V)
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out
	}
}

func PrRepeat[V any](p Printer[V], min, max int) Printer[[]V] {
	return Printer[[]V]{node: &prRepeat{inner: p.node, min: min, max: max, toSlice: toAnySliceFunc[V]()}}
}

func PrRepeatWithSep[V, S any](p Printer[V], sep Printer[S], atLeastOne bool) Printer[[]V] {
	return Printer[[]V]{node: &prRepeatWithSep{inner: p.node, sep: sep.node, atLeastOne: atLeastOne, toSlice: toAnySliceFunc[V]()}}
}

func PrRepeatUntil[V, S any](p Printer[V], stop Printer[S]) Printer[[]V] {
	return Printer[[]V]{node: &prRepeatUntil{inner: p.node, stop: stop.node, toSlice: toAnySliceFunc[V]()}}
}

// PrEmitOutput always writes value, regardless of its Unit input.
func PrEmitOutput(value string) Printer[Unit] {
	return Printer[Unit]{node: &prEmitOutput{value: value}}
}

// PrExactlyEqual succeeds (writing nothing) iff the input equals
// value; otherwise fails with err.
func PrExactlyEqual[V comparable](value V, err error) Printer[V] {
	return Printer[V]{node: &prExactlyEqual{value: value, err: err}}
}

// PrExceptEqual succeeds (writing nothing) iff the input differs from
// value; otherwise fails with err.
func PrExceptEqual[V comparable](value V, err error) Printer[V] {
	return Printer[V]{node: &prExceptEqual{value: value, err: err}}
}

// PrFilterInput succeeds (writing nothing) iff pred holds for the
// input; otherwise fails with err.
func PrFilterInput[V any](pred func(V) bool, err error) Printer[V] {
	wrapped := func(v any) bool { return pred(v.(V)) }
	return Printer[V]{node: &prFilterInput{pred: wrapped, err: err}}
}

// PrFromInput writes whatever fn derives from the input value.
func PrFromInput[V any](fn func(V) (string, error)) Printer[V] {
	wrapped := func(v any) (string, error) { return fn(v.(V)) }
	return Printer[V]{node: &prFromInput{fn: wrapped}}
}

func PrSuspendLazy[V any](thunk func() Printer[V]) Printer[V] {
	sl := &prSuspendLazy{}
	sl.thunk = func() printerNode { return thunk().node }
	return Printer[V]{node: sl}
}

// PrFlatten writes every byte of the input string directly to the
// target — the printer-side dual of CaptureString.
func PrFlatten() Printer[string] {
	return Printer[string]{node: &prFlatten{}}
}

// PrPrintRegex verifies the input string matches re, then emits it.
func PrPrintRegex(re *Compiled, err error) Printer[string] {
	return Printer[string]{node: &prPrintRegex{compiled: re, err: err}}
}

// PrPrintRegexChar verifies the input rune matches re, then emits it.
func PrPrintRegexChar(re *Compiled, err error) Printer[rune] {
	return Printer[rune]{node: &prPrintRegexChar{compiled: re, err: err}}
}

// PrPrintRegexDiscard always emits chars, ignoring its Unit input.
func PrPrintRegexDiscard(re *Compiled, chars string) Printer[Unit] {
	return Printer[Unit]{node: &prPrintRegexDiscard{compiled: re, chars: chars}}
}
