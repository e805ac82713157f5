package bisyntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureErrorAndChain(t *testing.T) {
	cause := errors.New("boom")
	f := &Failure{NameChain: []string{"outer", "inner"}, Pos: 4, Err: cause}

	assert.Equal(t, 4, f.Position())
	assert.Contains(t, f.Error(), "outer.inner")
	assert.Contains(t, f.Error(), "boom")
	assert.Contains(t, f.Error(), "4")
	assert.True(t, errors.Is(f, cause))
}

func TestFailureWithoutNameChain(t *testing.T) {
	f := &Failure{Pos: 0, Err: errors.New("x")}
	assert.NotContains(t, f.Error(), ".")
}

func TestUnexpectedEndOfInput(t *testing.T) {
	e := &UnexpectedEndOfInput{Pos: 7}
	assert.Equal(t, 7, e.Position())
	assert.Contains(t, e.Error(), "end of input")
}

func TestNotConsumedAll(t *testing.T) {
	e := &NotConsumedAll{Pos: 2}
	assert.Equal(t, 2, e.Position())
}

func TestAllBranchesFailedPositionPrefersRight(t *testing.T) {
	left := &Failure{Pos: 1, Err: errors.New("l")}
	right := &Failure{Pos: 3, Err: errors.New("r")}
	e := &AllBranchesFailed{Left: left, Right: right}

	assert.Equal(t, 3, e.Position())
	assert.Contains(t, e.Error(), "l")
	assert.Contains(t, e.Error(), "r")
}

func TestAllBranchesFailedPositionFallsBackToLeft(t *testing.T) {
	left := &Failure{Pos: 5, Err: errors.New("l")}
	e := &AllBranchesFailed{Left: left}
	assert.Equal(t, 5, e.Position())
}

func TestPrinterError(t *testing.T) {
	cause := errors.New("nope")
	pe := NewPrinterError(cause)
	assert.Equal(t, "nope", pe.Error())
	assert.True(t, errors.Is(pe, cause))
}
