package bisyntax

import "math"

// Regex is the tagged-variant algebra described by spec.md §3.2.  Every
// concrete type below is immutable once built and tree-structured —
// regexes built through the constructors in this file are never
// cyclic, so no SuspendLazy-equivalent exists at this layer.
type Regex interface {
	regexNode()
}

// RSucceed matches the empty prefix, consuming nothing.
type RSucceed struct{}

func (RSucceed) regexNode() {}

// ROneOf matches a single code unit whose value is a member of Set.
type ROneOf struct {
	Set BitSet
}

func (ROneOf) regexNode() {}

// RAnd is the intersection of L and R: both must match the same
// prefix length.
type RAnd struct {
	L, R Regex
}

func (RAnd) regexNode() {}

// ROr is the union of L and R: matches if either matches, preferring
// the longer match, ties going to L.
type ROr struct {
	L, R Regex
}

func (ROr) regexNode() {}

// RSequence matches L then continues matching R from the new index.
type RSequence struct {
	L, R Regex
}

func (RSequence) regexNode() {}

// RRepeat is greedy repetition of R, at least Min and at most Max
// times.  Max of -1 means unbounded.
type RRepeat struct {
	R        Regex
	Min, Max int
}

func (RRepeat) regexNode() {}

// Unbounded is the sentinel RRepeat.Max value meaning "no upper bound".
const Unbounded = -1

// --- surface constructors, spec.md §4.7 ---

// RChar matches a single literal byte.
func RChar(c byte) Regex {
	var b BitSet
	b.Add(c)
	return ROneOf{Set: b}
}

// RCharIn matches any single byte present in any of cs's first code units.
func RCharIn(cs ...string) Regex {
	return ROneOf{Set: NewBitSetFromStrings(cs...)}
}

// RCharInSet matches any byte in set.
func RCharInSet(set BitSet) Regex {
	return ROneOf{Set: set}
}

// RCharNotIn matches any single byte absent from cs's first code units.
func RCharNotIn(cs ...string) Regex {
	return ROneOf{Set: NewBitSetFromStrings(cs...).Complement()}
}

// RAnyChar matches any single byte.
func RAnyChar() Regex {
	return ROneOf{Set: NewBitSetRange(0, 255)}
}

var (
	digitSet        = NewBitSetRange('0', '9')
	upperLetterSet  = NewBitSetRange('A', 'Z')
	lowerLetterSet  = NewBitSetRange('a', 'z')
	letterSet       = upperLetterSet.Union(lowerLetterSet)
	whitespaceSet   = NewBitSetFromStrings(" ", "\t", "\r", "\n", "\v", "\f")
	alphaNumSet     = letterSet.Union(digitSet)
)

// RAnyDigit matches one ASCII digit, 0..9.
func RAnyDigit() Regex { return ROneOf{Set: digitSet} }

// RAnyLetter matches one ASCII letter, A..Z or a..z.
func RAnyLetter() Regex { return ROneOf{Set: letterSet} }

// RAnyWhitespace matches one whitespace byte: space, tab, CR, LF, VT, FF.
func RAnyWhitespace() Regex { return ROneOf{Set: whitespaceSet} }

// RAnyAlphaNumeric matches one ASCII letter or digit.
func RAnyAlphaNumeric() Regex { return ROneOf{Set: alphaNumSet} }

// RDigits matches one or more ASCII digits.
func RDigits() Regex { return RAtLeast(RAnyDigit(), 1) }

// RLetters matches one or more ASCII letters.
func RLetters() Regex { return RAtLeast(RAnyLetter(), 1) }

// RAlphaNumerics matches one or more ASCII letters or digits.
func RAlphaNumerics() Regex { return RAtLeast(RAnyAlphaNumeric(), 1) }

// RWhitespace matches zero or more whitespace bytes (it matches the
// empty string too, per spec.md §4.7).
func RWhitespace() Regex { return RRepeat{R: ROneOf{Set: whitespaceSet}, Min: 0, Max: Unbounded} }

// RString matches the literal sequence of bytes in s.
func RString(s string) Regex {
	if len(s) == 0 {
		return RSucceed{}
	}
	var r Regex = RChar(s[0])
	for i := 1; i < len(s); i++ {
		r = RSequence{L: r, R: RChar(s[i])}
	}
	return r
}

// RFilter intersects r with a character class described by the
// predicate's membership table: it builds a BitSet of every byte for
// which keep(c) holds and intersects it into r via RAnd.
func RFilter(r Regex, keep func(byte) bool) Regex {
	var b BitSet
	for c := 0; c < 256; c++ {
		if keep(byte(c)) {
			b.Add(byte(c))
		}
	}
	return RAnd{L: r, R: ROneOf{Set: b}}
}

// RSequenceOf chains rs left to right with RSequence.
func RSequenceOf(rs ...Regex) Regex {
	if len(rs) == 0 {
		return RSucceed{}
	}
	out := rs[0]
	for _, r := range rs[1:] {
		out = RSequence{L: out, R: r}
	}
	return out
}

// RAndOf is RAnd as a free function, for symmetry with RSequenceOf/ROrOf.
func RAndOf(l, r Regex) Regex { return RAnd{L: l, R: r} }

// ROrOf is ROr as a free function.
func ROrOf(l, r Regex) Regex { return ROr{L: l, R: r} }

// RAtLeast matches r, n or more times: Repeat(min=n, max=infinity).
func RAtLeast(r Regex, n int) Regex {
	return RRepeat{R: r, Min: n, Max: Unbounded}
}

// RAtMost matches r, up to n times: Repeat(min=0, max=n).
func RAtMost(r Regex, n int) Regex {
	return RRepeat{R: r, Min: 0, Max: n}
}

// RBetween matches r, between a and b times inclusive.
func RBetween(r Regex, a, b int) Regex {
	return RRepeat{R: r, Min: a, Max: b}
}

// ToLiteral succeeds iff r is equivalent to a concrete sequence of
// single-character ROneOf nodes chained by RSequence, and returns the
// implied ordered sequence of bytes.
func ToLiteral(r Regex) ([]byte, bool) {
	switch n := r.(type) {
	case RSucceed:
		return nil, true
	case ROneOf:
		c, ok := n.Set.Singleton()
		if !ok {
			return nil, false
		}
		return []byte{c}, true
	case RSequence:
		l, ok := ToLiteral(n.L)
		if !ok {
			return nil, false
		}
		r, ok := ToLiteral(n.R)
		if !ok {
			return nil, false
		}
		return append(l, r...), true
	default:
		return nil, false
	}
}

// effectiveMax turns the Unbounded sentinel into math.MaxInt for loop
// bound arithmetic.
func effectiveMax(max int) int {
	if max < 0 {
		return math.MaxInt
	}
	return max
}
