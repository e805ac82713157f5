package bisyntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSetAddHas(t *testing.T) {
	cases := []struct {
		name string
		add  []byte
		test byte
		want bool
	}{
		{"present", []byte{'a', 'b', 'c'}, 'b', true},
		{"absent", []byte{'a', 'b', 'c'}, 'z', false},
		{"boundary low", []byte{0}, 0, true},
		{"boundary high", []byte{255}, 255, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b BitSet
			for _, c := range tc.add {
				b.Add(c)
			}
			assert.Equal(t, tc.want, b.Has(tc.test))
		})
	}
}

func TestBitSetFromStrings(t *testing.T) {
	b := NewBitSetFromStrings("abc", "123")
	for _, c := range []byte("a1") {
		assert.True(t, b.Has(c))
	}
	assert.False(t, b.Has('z'))
}

func TestBitSetRange(t *testing.T) {
	b := NewBitSetRange('a', 'f')
	for c := byte('a'); c <= 'f'; c++ {
		assert.True(t, b.Has(c), "expected %q in range", c)
	}
	assert.False(t, b.Has('g'))
	assert.False(t, b.Has('`'))
}

func TestBitSetUnionIntersectComplement(t *testing.T) {
	a := NewBitSetFromStrings("a", "b", "c")
	b := NewBitSetFromStrings("b", "c", "d")

	union := a.Union(b)
	for _, c := range []byte("abcd") {
		assert.True(t, union.Has(c))
	}

	inter := a.Intersect(b)
	assert.True(t, inter.Has('b'))
	assert.True(t, inter.Has('c'))
	assert.False(t, inter.Has('a'))
	assert.False(t, inter.Has('d'))

	comp := a.Complement()
	assert.False(t, comp.Has('a'))
	assert.True(t, comp.Has('z'))
}

func TestBitSetEqualAndEmpty(t *testing.T) {
	var empty BitSet
	assert.True(t, empty.IsEmpty())

	a := NewBitSetFromStrings("x", "y", "z")
	b := NewBitSetFromStrings("x", "y", "z")
	assert.True(t, a.Equal(b))

	c := NewBitSetFromStrings("x", "y")
	assert.False(t, a.Equal(c))
}

func TestBitSetSingleton(t *testing.T) {
	single := NewBitSetFromStrings("x")
	c, ok := single.Singleton()
	require.True(t, ok)
	assert.Equal(t, byte('x'), c)

	multi := NewBitSetFromStrings("x", "y")
	_, ok = multi.Singleton()
	assert.False(t, ok)

	var empty BitSet
	_, ok = empty.Singleton()
	assert.False(t, ok)
}

func TestBitSetToArray(t *testing.T) {
	b := NewBitSetFromStrings("b", "a")
	assert.Equal(t, []byte{'a', 'b'}, b.ToArray())
}
