package bisyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompiledMatches(t *testing.T) {
	cases := []struct {
		name  string
		re    Regex
		input string
		want  bool
	}{
		{"literal char match", RChar('a'), "a", true},
		{"literal char mismatch", RChar('a'), "b", false},
		{"string literal", RString("hello"), "hello", true},
		{"string literal partial", RString("hello"), "hell", false},
		{"digits one or more", RDigits(), "1234", true},
		{"digits empty fails", RDigits(), "", false},
		{"letters", RLetters(), "abcXYZ", true},
		{"letters rejects digit", RLetters(), "abc1", false},
		{"whitespace matches empty", RWhitespace(), "", true},
		{"whitespace run", RWhitespace(), "   \t", true},
		{"or picks either branch", ROrOf(RChar('a'), RChar('b')), "b", true},
		{"and requires both", RAndOf(RAnyLetter(), RCharNotIn("x")), "y", true},
		{"and rejects excluded", RAndOf(RAnyLetter(), RCharNotIn("x")), "x", false},
		{"sequence", RSequenceOf(RChar('a'), RChar('b'), RChar('c')), "abc", true},
		{"between bounds satisfied", RBetween(RChar('a'), 2, 3), "aa", true},
		{"between bounds too few", RBetween(RChar('a'), 2, 3), "a", false},
		{"between bounds too many", RBetween(RChar('a'), 2, 3), "aaaa", false},
		{"at least", RAtLeast(RChar('a'), 2), "aaaaa", true},
		{"at most", RAtMost(RChar('a'), 2), "aa", true},
		{"at most zero ok", RAtMost(RChar('a'), 2), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Compile(tc.re)
			assert.Equal(t, tc.want, c.Matches(tc.input))
		})
	}
}

func TestCompiledTestSentinels(t *testing.T) {
	c := Compile(RChar('a'))

	assert.Equal(t, NotMatched, c.Test(0, []byte("b")))
	assert.Equal(t, 1, c.Test(0, []byte("a")))
	assert.Equal(t, NeedMoreInput, c.Test(0, []byte("")))
}

// TestRepeatDoesNotPropagateNeedMoreInputOnceMinIsMet exercises a
// greedy repeat whose match runs exactly to the end of the input: the
// extra probe past the last digit hits end-of-buffer, but min is
// already satisfied, so Test must return the completed match index
// rather than NeedMoreInput.
func TestRepeatDoesNotPropagateNeedMoreInputOnceMinIsMet(t *testing.T) {
	c := Compile(RDigits())
	assert.Equal(t, 2, c.Test(0, []byte("42")))
	assert.True(t, c.Matches("42"))

	c2 := Compile(RAtLeast(RChar('a'), 1))
	assert.Equal(t, NeedMoreInput, c2.Test(0, []byte("")))
}

func TestOrPrefersLongerMatchAndLeftOnTie(t *testing.T) {
	// "ab" vs "a": Or should pick the longer "ab" branch regardless of
	// operand order.
	re := ROrOf(RString("a"), RString("ab"))
	c := Compile(re)
	assert.Equal(t, 2, c.Test(0, []byte("ab")))

	re2 := ROrOf(RString("ab"), RString("a"))
	c2 := Compile(re2)
	assert.Equal(t, 2, c2.Test(0, []byte("ab")))

	// equal-length branches: left wins the tie.
	left := RChar('a')
	right := RChar('a')
	tie := Compile(ROrOf(left, right))
	assert.Equal(t, 1, tie.Test(0, []byte("a")))
}

func TestRepeatZeroWidthGuard(t *testing.T) {
	// RSucceed repeated must not loop forever; one "match" suffices.
	re := RRepeat{R: RSucceed{}, Min: 0, Max: Unbounded}
	c := Compile(re)
	assert.Equal(t, 0, c.Test(0, []byte("anything")))
}

func TestToLiteral(t *testing.T) {
	bs, ok := ToLiteral(RString("abc"))
	assert.True(t, ok)
	assert.Equal(t, []byte("abc"), bs)

	_, ok = ToLiteral(RDigits())
	assert.False(t, ok)

	bs, ok = ToLiteral(RSucceed{})
	assert.True(t, ok)
	assert.Empty(t, bs)
}

func TestRFilter(t *testing.T) {
	vowels := RFilter(RAnyLetter(), func(c byte) bool {
		switch c {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return true
		}
		return false
	})
	c := Compile(vowels)
	assert.True(t, c.Matches("e"))
	assert.False(t, c.Matches("b"))
}

func TestCompileIntersectsOneOfAtCompileTime(t *testing.T) {
	re := RAndOf(RAnyLetter(), RCharIn("abc"))
	compiled := compileRegex(re)
	_, isOneOf := compiled.(cOneOf)
	assert.True(t, isOneOf, "expected RAnd of two ROneOf to specialize to a single cOneOf")
}
