package bisyntax

// Syntax[V] pairs a Parser[V] with its dual Printer[V] (spec.md §3.5):
// every constructor below builds both halves from the same
// description, so a round trip through Parse then Print (or Print
// then Parse) recovers the original value/text whenever the
// underlying combinators are faithful duals of each other.
type Syntax[V any] struct {
	Parse Parser[V]
	Print Printer[V]
}

func ignorePrinter[V any]() Printer[V] {
	return PrContramap[V, Unit](PrSucceedUnit(), func(V) Unit { return Unit{} })
}

// Succeed always yields v without consuming input, and prints nothing.
func Succeed[V any](v V) Syntax[V] {
	return Syntax[V]{Parse: PSucceed(v), Print: ignorePrinter[V]()}
}

// Fail always fails to parse and always fails to print.
func Fail[V any](err error) Syntax[V] {
	return Syntax[V]{Parse: PFail[V](err), Print: PrFail[V](err)}
}

// Named tags the enclosing scope's name onto any Failure this Syntax
// raises while parsing. Printing is unaffected — printer failures
// carry no position, so there is no chain to attach a name to.
func Named[V any](s Syntax[V], name string) Syntax[V] {
	return Syntax[V]{Parse: PNamed(s.Parse, name), Print: s.Print}
}

// SuspendLazy defers building s until first use, the only way to
// describe a recursive grammar without infinite regress while
// constructing it.
func SuspendLazy[V any](thunk func() Syntax[V]) Syntax[V] {
	return Syntax[V]{
		Parse: PSuspendLazy(func() Parser[V] { return thunk().Parse }),
		Print: PrSuspendLazy(func() Printer[V] { return thunk().Print }),
	}
}

// Backtrack turns auto-backtracking on for every OrElse/Optional/
// RepeatWithSep inside s, so those choice points retry past however
// much input a failed alternative consumed. A combinator enclosing s
// is not affected: OrElse(Backtrack(l), r) does not try r once l has
// consumed input; Backtrack(OrElse(l, r)) does.
func Backtrack[V any](s Syntax[V]) Syntax[V] {
	return Syntax[V]{Parse: PBacktrack(s.Parse), Print: s.Print}
}

// SetAutoBacktracking overrides the ambient backtracking policy for s.
func SetAutoBacktracking[V any](s Syntax[V], flag bool) Syntax[V] {
	return Syntax[V]{Parse: PSetAutoBacktracking(s.Parse, flag), Print: s.Print}
}

// MapError rewrites whatever error s's parser raises.
func MapError[V any](s Syntax[V], f func(error) error) Syntax[V] {
	return Syntax[V]{Parse: PMapError(s.Parse, f), Print: s.Print}
}

// TransformEither moves between A and B through a pair of (possibly
// failing) conversions: to going forward while parsing, from going
// backward while printing. A faithful pair satisfies from(to(a)) == a
// for every a the grammar can produce.
func TransformEither[A, B any](s Syntax[A], to func(A) (B, error), from func(B) (A, error)) Syntax[B] {
	return Syntax[B]{
		Parse: PTransformEither(s.Parse, to),
		Print: PrContramapEither(s.Print, from),
	}
}

// Filter keeps s's value only when pred holds, both while parsing and
// while printing (printing a value pred rejects is itself an error:
// bidirectionality demands it never have parsed from that text).
func Filter[V any](s Syntax[V], pred func(V) bool, err error) Syntax[V] {
	return Syntax[V]{
		Parse: PFilter(s.Parse, pred, err),
		Print: PrContramapEither(s.Print, func(v V) (V, error) {
			if !pred(v) {
				return v, err
			}
			return v, nil
		}),
	}
}

// Zip runs l then r and pairs their values; printing destructures the
// pair and prints each half through its own side.
func Zip[A, B any](l Syntax[A], r Syntax[B]) Syntax[Pair[A, B]] {
	return Syntax[Pair[A, B]]{Parse: PZip(l.Parse, r.Parse), Print: PrZip(l.Print, r.Print)}
}

// ZipLeft runs l then r, keeping only l's value. r's printer must not
// depend on its input (the usual case: r is a literal token).
func ZipLeft[A, B any](l Syntax[A], r Syntax[B]) Syntax[A] {
	return Syntax[A]{Parse: PZipLeft(l.Parse, r.Parse), Print: PrZipLeft(l.Print, r.Print)}
}

// ZipRight runs l then r, keeping only r's value. l's printer must not
// depend on its input.
func ZipRight[A, B any](l Syntax[A], r Syntax[B]) Syntax[B] {
	return Syntax[B]{Parse: PZipRight(l.Parse, r.Parse), Print: PrZipRight(l.Print, r.Print)}
}

// OrElse tries l, falling back to rThunk() when l fails at the same
// position (or auto-backtracking is on where the OrElse itself runs,
// e.g. inside Backtrack or SetAutoBacktracking(true)). rThunk is lazy so
// recursive alternatives don't loop while being constructed.
func OrElse[V any](l Syntax[V], rThunk func() Syntax[V]) Syntax[V] {
	return Syntax[V]{
		Parse: POrElse(l.Parse, func() Parser[V] { return rThunk().Parse }),
		Print: PrOrElse(l.Print, func() Printer[V] { return rThunk().Print }),
	}
}

// OrElseEither is OrElse that remembers which branch produced the
// value, so printing can route an Either back to the matching side.
func OrElseEither[A, B any](l Syntax[A], rThunk func() Syntax[B]) Syntax[Either[A, B]] {
	return Syntax[Either[A, B]]{
		Parse: POrElseEither(l.Parse, func() Parser[B] { return rThunk().Parse }),
		Print: PrOrElseEither(l.Print, func() Printer[B] { return rThunk().Print }),
	}
}

// Optional tries s, yielding None instead of failing outright.
func Optional[V any](s Syntax[V]) Syntax[Option[V]] {
	return Syntax[Option[V]]{Parse: POptional(s.Parse), Print: PrOptional(s.Print)}
}

// Repeat matches s between min and max times (Unbounded for no upper
// bound), greedily.
func Repeat[V any](s Syntax[V], min, max int) Syntax[[]V] {
	return Syntax[[]V]{Parse: PRepeat(s.Parse, min, max), Print: PrRepeat(s.Print, min, max)}
}

// RepeatUntil matches s repeatedly until stop succeeds, consuming stop
// as the terminator.
func RepeatUntil[V, S any](s Syntax[V], stop Syntax[S]) Syntax[[]V] {
	return Syntax[[]V]{Parse: PRepeatUntil(s.Parse, stop.Parse), Print: PrRepeatUntil(s.Print, stop.Print)}
}

// RepeatWithSep matches s separated by sep; atLeastOne requires at
// least one element instead of allowing an empty result.
func RepeatWithSep[V, S any](s Syntax[V], sep Syntax[S], atLeastOne bool) Syntax[[]V] {
	return Syntax[[]V]{
		Parse: PRepeatWithSep(s.Parse, sep.Parse, atLeastOne),
		Print: PrRepeatWithSep(s.Print, sep.Print, atLeastOne),
	}
}

// Not is a zero-width negative lookahead: it succeeds iff s fails,
// consuming nothing either way. Printing Not's Unit writes nothing.
func Not[V any](s Syntax[V], err error) Syntax[Unit] {
	return Syntax[Unit]{Parse: PNot(s.Parse, err), Print: PrSucceedUnit()}
}

// End succeeds iff the whole input has been consumed.
func End() Syntax[Unit] {
	return Syntax[Unit]{Parse: PEnd(), Print: PrSucceedUnit()}
}

// Index yields the current input offset, consuming nothing.
func Index() Syntax[int] {
	return Syntax[int]{Parse: PIndex(), Print: ignorePrinter[int]()}
}

// CaptureString runs s only to measure how much input it consumed,
// yielding the exact substring matched. Printing writes that string
// back out byte for byte.
func CaptureString[V any](s Syntax[V]) Syntax[string] {
	return Syntax[string]{Parse: PCaptureString(s.Parse), Print: PrFlatten()}
}

// CharIn matches (and prints) a single byte drawn from set.
func CharIn(set BitSet, err error) Syntax[rune] {
	return Syntax[rune]{
		Parse: PCharIn(set, err),
		Print: PrFromInput(func(r rune) (string, error) {
			if !set.Has(byte(r)) {
				return "", err
			}
			return string(r), nil
		}),
	}
}

// CharNotIn matches (and prints) a single byte absent from set.
func CharNotIn(set BitSet, err error) Syntax[rune] {
	return Syntax[rune]{
		Parse: PCharNotIn(set, err),
		Print: PrFromInput(func(r rune) (string, error) {
			if set.Has(byte(r)) {
				return "", err
			}
			return string(r), nil
		}),
	}
}

// AnyChar matches (and prints) any single byte.
func AnyChar() Syntax[rune] {
	return Syntax[rune]{
		Parse: PAnyChar(),
		Print: PrFromInput(func(r rune) (string, error) { return string(r), nil }),
	}
}

// RegexSyntax matches text against re, parsing and printing the
// matched substring verbatim.
func RegexSyntax(re *Compiled, err error) Syntax[string] {
	return Syntax[string]{Parse: PParseRegex(re, err), Print: PrPrintRegex(re, err)}
}

// RegexLastCharSyntax matches text against re like RegexSyntax but
// yields only the last rune of the match.
func RegexLastCharSyntax(re *Compiled, err error) Syntax[rune] {
	return Syntax[rune]{Parse: PParseRegexLastChar(re, err), Print: PrPrintRegexChar(re, err)}
}

// RegexDiscardSyntax matches text against re while parsing, discarding
// the result, and always prints the literal chars while printing.
// chars must itself match re.
func RegexDiscardSyntax(re *Compiled, chars string, err error) Syntax[Unit] {
	return Syntax[Unit]{Parse: PParseRegexDiscard(re, err), Print: PrPrintRegexDiscard(re, chars)}
}
