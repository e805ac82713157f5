package bisyntax

import "fmt"

// Digit matches and prints a single ASCII digit.
func Digit(err error) Syntax[rune] { return CharIn(digitSet, err) }

// Letter matches and prints a single ASCII letter.
func Letter(err error) Syntax[rune] { return CharIn(letterSet, err) }

// AlphaNumeric matches and prints a single ASCII letter or digit.
func AlphaNumeric(err error) Syntax[rune] { return CharIn(alphaNumSet, err) }

// WhitespaceChar matches and prints a single whitespace byte.
func WhitespaceChar(err error) Syntax[rune] { return CharIn(whitespaceSet, err) }

// Digits matches and prints a run of one or more ASCII digits.
func Digits(err error) Syntax[string] {
	return RegexSyntax(Compile(RDigits()), err)
}

// Letters matches and prints a run of one or more ASCII letters.
func Letters(err error) Syntax[string] {
	return RegexSyntax(Compile(RLetters()), err)
}

// AlphaNumerics matches and prints a run of one or more ASCII letters
// or digits.
func AlphaNumerics(err error) Syntax[string] {
	return RegexSyntax(Compile(RAlphaNumerics()), err)
}

// WhitespaceRun matches and prints a run of zero or more whitespace
// bytes; it never fails to parse since it also matches the empty
// string.
func WhitespaceRun() Syntax[string] {
	return RegexSyntax(Compile(RWhitespace()), nil)
}

// Literal matches and prints the exact sequence of bytes in s,
// discarding its value.
func Literal(s string) Syntax[Unit] {
	return RegexDiscardSyntax(Compile(RString(s)), s, fmt.Errorf("bisyntax: expected %q", s))
}
