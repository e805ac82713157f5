package bisyntax

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printToString(n printerNode, value any) (string, error) {
	tgt := NewStringTarget()
	if err := runPrinter(n, value, tgt); err != nil {
		return "", err
	}
	return tgt.String(), nil
}

func TestPrinterSucceedAndFail(t *testing.T) {
	out, err := printToString(PrSucceedUnit().node, Unit{})
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = printToString(PrFail[Unit](errWant).node, Unit{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errWant)
}

func TestPrinterMapError(t *testing.T) {
	replaced := errors.New("replaced")
	mapped := PrMapError(PrFail[Unit](errWant), func(error) error { return replaced })
	_, err := printToString(mapped.node, Unit{})
	require.Error(t, err)
	assert.ErrorIs(t, err, replaced)
}

func TestPrinterContramap(t *testing.T) {
	p := PrContramap[int, string](PrFlatten(), func(n int) string { return fmt.Sprintf("v=%d", n) })
	out, err := printToString(p.node, 7)
	require.NoError(t, err)
	assert.Equal(t, "v=7", out)
}

func TestPrinterContramapEither(t *testing.T) {
	p := PrContramapEither[int, string](PrFlatten(), func(n int) (string, error) {
		if n < 0 {
			return "", errWant
		}
		return fmt.Sprintf("%d", n), nil
	})

	out, err := printToString(p.node, 5)
	require.NoError(t, err)
	assert.Equal(t, "5", out)

	_, err = printToString(p.node, -1)
	require.Error(t, err)
}

func TestPrinterZip(t *testing.T) {
	left := CharIn(NewBitSetFromStrings("a"), errWant).Print
	right := CharIn(NewBitSetFromStrings("b"), errWant).Print
	zip := PrZip(left, right)

	out, err := printToString(zip.node, Pair[rune, rune]{First: 'a', Second: 'b'})
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
}

func TestPrinterZipLeftRunsBothSidesKeepingLeftsValue(t *testing.T) {
	left := CharIn(NewBitSetFromStrings("a"), errWant).Print
	zl := PrZipLeft(left, PrEmitOutput("TAIL"))

	out, err := printToString(zl.node, 'a')
	require.NoError(t, err)
	assert.Equal(t, "aTAIL", out)
}

func TestPrinterZipRightRunsBothSidesKeepingRightsValue(t *testing.T) {
	right := CharIn(NewBitSetFromStrings("b"), errWant).Print
	zr := PrZipRight(PrEmitOutput("HEAD"), right)

	out, err := printToString(zr.node, 'b')
	require.NoError(t, err)
	assert.Equal(t, "HEADb", out)
}

func TestPrinterOrElseCommitsOnSuccessAndSkipsRight(t *testing.T) {
	left := PrEmitOutput("OK")
	orElse := PrOrElse(left, func() Printer[Unit] { return PrEmitOutput("OTHER") })

	out, err := printToString(orElse.node, Unit{})
	require.NoError(t, err)
	assert.Equal(t, "OK", out)
}

func TestPrinterOrElseRollsBackPartialOutputOnFailure(t *testing.T) {
	leftWritesThenFails := PrZipRight(PrEmitOutput("LEFT"), PrFail[Unit](errWant))
	orElse := PrOrElse(leftWritesThenFails, func() Printer[Unit] { return PrEmitOutput("RIGHT") })

	out, err := printToString(orElse.node, Unit{})
	require.NoError(t, err)
	assert.Equal(t, "RIGHT", out, "left's partial write must be rolled back before the right branch runs")
}

func TestPrinterOrElseEitherRoutesToMatchingBranch(t *testing.T) {
	left := CharIn(NewBitSetFromStrings("a"), errWant).Print
	right := CharIn(NewBitSetFromStrings("b"), errWant).Print
	either := PrOrElseEither(left, func() Printer[rune] { return right })

	out, err := printToString(either.node, EitherLeft[rune, rune]('a'))
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	out, err = printToString(either.node, EitherRight[rune, rune]('b'))
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestPrinterOptional(t *testing.T) {
	inner := CharIn(NewBitSetFromStrings("a"), errWant).Print
	opt := PrOptional(inner)

	out, err := printToString(opt.node, Some('a'))
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	out, err = printToString(opt.node, None[rune]())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPrinterRepeatEnforcesBounds(t *testing.T) {
	item := CharIn(NewBitSetFromStrings("a"), errWant).Print
	rep := PrRepeat(item, 1, 3)

	out, err := printToString(rep.node, []rune{'a', 'a'})
	require.NoError(t, err)
	assert.Equal(t, "aa", out)

	_, err = printToString(rep.node, []rune{})
	require.Error(t, err)

	_, err = printToString(rep.node, []rune{'a', 'a', 'a', 'a'})
	require.Error(t, err)
}

func TestPrinterRepeatWithSep(t *testing.T) {
	item := CharIn(NewBitSetFromStrings("a"), errWant).Print
	sep := PrEmitOutput(",")
	rep := PrRepeatWithSep(item, sep, true)

	out, err := printToString(rep.node, []rune{'a', 'a', 'a'})
	require.NoError(t, err)
	assert.Equal(t, "a,a,a", out)

	_, err = printToString(rep.node, []rune{})
	require.Error(t, err)
}

func TestPrinterRepeatUntil(t *testing.T) {
	item := CharIn(NewBitSetFromStrings("a"), errWant).Print
	stop := PrEmitOutput(";")
	ru := PrRepeatUntil(item, stop)

	out, err := printToString(ru.node, []rune{'a', 'a'})
	require.NoError(t, err)
	assert.Equal(t, "aa;", out)
}

func TestPrinterExactlyEqualExceptEqualFilterInput(t *testing.T) {
	exact := PrExactlyEqual(5, errWant)
	_, err := printToString(exact.node, 5)
	require.NoError(t, err)
	_, err = printToString(exact.node, 6)
	require.Error(t, err)

	except := PrExceptEqual(5, errWant)
	_, err = printToString(except.node, 5)
	require.Error(t, err)
	_, err = printToString(except.node, 6)
	require.NoError(t, err)

	filter := PrFilterInput(func(v int) bool { return v%2 == 0 }, errWant)
	_, err = printToString(filter.node, 4)
	require.NoError(t, err)
	_, err = printToString(filter.node, 3)
	require.Error(t, err)
}

func TestPrinterFromInputAndFlatten(t *testing.T) {
	fromInput := PrFromInput(func(v int) (string, error) { return fmt.Sprintf("%d", v), nil })
	out, err := printToString(fromInput.node, 42)
	require.NoError(t, err)
	assert.Equal(t, "42", out)

	flatten := PrFlatten()
	out, err = printToString(flatten.node, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestPrinterSuspendLazy(t *testing.T) {
	lazy := PrSuspendLazy(func() Printer[Unit] { return PrEmitOutput("Z") })

	out, err := printToString(lazy.node, Unit{})
	require.NoError(t, err)
	assert.Equal(t, "Z", out)
}

func TestPrinterRegexVariants(t *testing.T) {
	digitsPrinter := PrPrintRegex(Compile(RDigits()), errWant)
	out, err := printToString(digitsPrinter.node, "123")
	require.NoError(t, err)
	assert.Equal(t, "123", out)

	_, err = printToString(digitsPrinter.node, "abc")
	require.Error(t, err)

	charPrinter := PrPrintRegexChar(Compile(RAnyLetter()), errWant)
	out, err = printToString(charPrinter.node, 'a')
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	_, err = printToString(charPrinter.node, '1')
	require.Error(t, err)

	discard := PrPrintRegexDiscard(Compile(RString(";")), ";")
	out, err = printToString(discard.node, Unit{})
	require.NoError(t, err)
	assert.Equal(t, ";", out)
}
