package bisyntax

// Sentinel return values for a compiled regex's Test method, per
// spec.md §3.1.
const (
	NeedMoreInput = -2
	NotMatched    = -1
)

// compiledNode is the table-driven matcher produced by compileRegex.
// It is deliberately a different type hierarchy than Regex: Regex is
// the user-facing, hash-consable description; compiledNode is the
// derived, immutable execution artifact, grounded on the teacher's
// split between a bytecode *instruction set* (vm_instructions.go) and
// the *program* that runs it (vm_program.go, vm.go) — here repurposed
// from "compile a PEG grammar to a VM program" into "compile a Regex
// AST to a small tree of step functions", since regexes in this
// library are never recursive and never need a call stack.
type compiledNode interface {
	// test attempts to match starting at idx within input, returning
	// the next index on success, NotMatched, or NeedMoreInput.
	test(idx int, input []byte) int
}

type cSucceed struct{}

func (cSucceed) test(idx int, _ []byte) int { return idx }

// cOneOf is the hot path: membership is a single table (BitSet) lookup.
type cOneOf struct {
	set BitSet
}

func (n cOneOf) test(idx int, input []byte) int {
	if idx >= len(input) {
		return NeedMoreInput
	}
	if n.set.Has(input[idx]) {
		return idx + 1
	}
	return NotMatched
}

type cAnd struct {
	l, r compiledNode
}

func (n cAnd) test(idx int, input []byte) int {
	l := n.l.test(idx, input)
	if l == NeedMoreInput || l == NotMatched {
		return l
	}
	r := n.r.test(idx, input)
	if r == NeedMoreInput || r == NotMatched {
		return r
	}
	if l != r {
		return NotMatched
	}
	return l
}

type cOr struct {
	l, r compiledNode
}

func (n cOr) test(idx int, input []byte) int {
	l := n.l.test(idx, input)
	r := n.r.test(idx, input)
	if l == NeedMoreInput || r == NeedMoreInput {
		return NeedMoreInput
	}
	lok := l != NotMatched
	rok := r != NotMatched
	switch {
	case !lok && !rok:
		return NotMatched
	case lok && !rok:
		return l
	case !lok && rok:
		return r
	default:
		// longer match wins; ties (and l>=r) favor the left operand.
		if r-idx > l-idx {
			return r
		}
		return l
	}
}

type cSequence struct {
	l, r compiledNode
}

func (n cSequence) test(idx int, input []byte) int {
	mid := n.l.test(idx, input)
	if mid == NeedMoreInput || mid == NotMatched {
		return mid
	}
	return n.r.test(mid, input)
}

type cRepeat struct {
	inner    compiledNode
	min, max int
}

func (n cRepeat) test(idx int, input []byte) int {
	cur := idx
	count := 0
	for count < effectiveMax(n.max) {
		next := n.inner.test(cur, input)
		if next == NeedMoreInput {
			// a complete match was already produced; whether one more
			// repetition might have matched given more bytes is moot.
			if count < n.min {
				return NeedMoreInput
			}
			break
		}
		if next == NotMatched {
			break
		}
		count++
		if next == cur {
			// zero-width match: one iteration is enough, keep going
			// would loop forever.
			cur = next
			break
		}
		cur = next
	}
	if count < n.min {
		return NotMatched
	}
	return cur
}

// asOneOf reports whether r is a literal single-character class,
// returning its BitSet.
func asOneOf(r Regex) (BitSet, bool) {
	o, ok := r.(ROneOf)
	if !ok {
		return BitSet{}, false
	}
	return o.Set, true
}

// compileRegex derives a compiledNode deterministically from r: two
// structurally equal Regex trees always compile to behaviourally
// indistinguishable matchers, per spec.md §3.2.
func compileRegex(r Regex) compiledNode {
	switch n := r.(type) {
	case RSucceed:
		return cSucceed{}
	case ROneOf:
		return cOneOf{set: n.Set}
	case RAnd:
		// spec.md §4.2: on single-character OneOfs, intersect the
		// bitsets at compile time instead of matching twice.
		if lo, lok := asOneOf(n.L); lok {
			if ro, rok := asOneOf(n.R); rok {
				return cOneOf{set: lo.Intersect(ro)}
			}
		}
		return cAnd{l: compileRegex(n.L), r: compileRegex(n.R)}
	case ROr:
		return cOr{l: compileRegex(n.L), r: compileRegex(n.R)}
	case RSequence:
		return cSequence{l: compileRegex(n.L), r: compileRegex(n.R)}
	case RRepeat:
		return cRepeat{inner: compileRegex(n.R), min: n.Min, max: n.Max}
	default:
		panic("bisyntax: unknown regex node")
	}
}

// Compiled is the immutable, shareable matcher derived from a Regex
// AST. Compiled values are safe to use concurrently from multiple
// goroutines (spec.md §5).
type Compiled struct {
	root compiledNode
	ast  Regex
}

// Compile derives a Compiled matcher from r.
func Compile(r Regex) *Compiled {
	return &Compiled{root: compileRegex(r), ast: r}
}

// AST returns the Regex this matcher was compiled from.
func (c *Compiled) AST() Regex { return c.ast }

// Test attempts to match starting at idx within input, returning the
// next index on success, NotMatched, or NeedMoreInput.
func (c *Compiled) Test(idx int, input []byte) int {
	return c.root.test(idx, input)
}

// Matches reports whether the entire string s is matched, i.e.
// Test(0, s) == len(s).
func (c *Compiled) Matches(s string) bool {
	return c.Test(0, []byte(s)) == len(s)
}
