package bisyntax

import "unicode/utf8"

// recursiveEngine is the host-recursive reference interpreter for
// parserNode (spec.md §4.3): every combinator is a direct Go function
// call, backtracking is plain call-stack unwinding, and OrElse/Choice
// only rewind past already-consumed input when the caller opted into
// it via Backtrack or SetAutoBacktracking(true) — grounded on the
// teacher's parser.go, where Choice/ZeroOrMore only retry a consuming
// sub-parser when it satisfies the Backtrackable interface.
//
// This engine recurses with the Go call stack, so pathologically deep
// or adversarial grammars can exhaust it; engine_vm.go trades that
// risk away for an explicit operand/continuation stack.
type recursiveEngine struct {
	input []byte
}

func runRecursiveEngine(n parserNode, input []byte) (any, int, ParserError) {
	e := &recursiveEngine{input: input}
	// Auto-backtracking defaults to false: OrElse/Optional/RepeatWithSep
	// only retry past a consuming sub-parser when they themselves run
	// inside Backtrack or SetAutoBacktracking(true).
	return e.run(n, 0, false)
}

// canBacktrack reports whether a failed attempt starting at startPos
// may still be retried: either it consumed nothing, or backtracking is
// currently enabled for this subtree.
func canBacktrack(err ParserError, startPos int, autoBT bool) bool {
	return autoBT || err.Position() == startPos
}

// prependName attaches name to the front of err's NameChain as the
// failure bubbles back up through a pnNamed node (spec.md §9 decision:
// a single shared LIFO chain, outermost name first).
func prependName(err ParserError, name string) ParserError {
	switch e := err.(type) {
	case *Failure:
		e.NameChain = append([]string{name}, e.NameChain...)
		return e
	case *UnknownFailure:
		e.NameChain = append([]string{name}, e.NameChain...)
		return e
	default:
		return err
	}
}

func (e *recursiveEngine) run(n parserNode, pos int, autoBT bool) (any, int, ParserError) {
	switch node := n.(type) {
	case *pnSucceed:
		return node.value, pos, nil

	case *pnFail:
		return nil, pos, &Failure{Pos: pos, Err: node.err}

	case *pnNamed:
		v, np, err := e.run(node.inner, pos, autoBT)
		if err != nil {
			return nil, pos, prependName(err, node.name)
		}
		return v, np, nil

	case *pnSuspendLazy:
		return e.run(node.force(), pos, autoBT)

	case *pnBacktrack:
		return e.run(node.inner, pos, true)

	case *pnSetAutoBacktracking:
		return e.run(node.inner, pos, node.flag)

	case *pnMapError:
		v, np, err := e.run(node.inner, pos, autoBT)
		if err != nil {
			return nil, pos, asParserError(node.f(err), pos)
		}
		return v, np, nil

	case *pnTransformEither:
		v, np, err := e.run(node.inner, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		out, ferr := node.f(v)
		if ferr != nil {
			return nil, pos, &Failure{Pos: np, Err: ferr}
		}
		return out, np, nil

	case *pnFilter:
		v, np, err := e.run(node.inner, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		if !node.pred(v) {
			return nil, pos, &Failure{Pos: np, Err: node.err}
		}
		return v, np, nil

	case *pnZip:
		lv, lp, err := e.run(node.left, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		rv, rp, err := e.run(node.right, lp, autoBT)
		if err != nil {
			return nil, pos, err
		}
		return node.combine(lv, rv), rp, nil

	case *pnZipLeft:
		lv, lp, err := e.run(node.left, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		_, rp, err := e.run(node.right, lp, autoBT)
		if err != nil {
			return nil, pos, err
		}
		return lv, rp, nil

	case *pnZipRight:
		_, lp, err := e.run(node.left, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		rv, rp, err := e.run(node.right, lp, autoBT)
		if err != nil {
			return nil, pos, err
		}
		return rv, rp, nil

	case *pnOrElse:
		v, np, err := e.run(node.left, pos, autoBT)
		if err == nil {
			return v, np, nil
		}
		if !canBacktrack(err, pos, autoBT) {
			return nil, pos, err
		}
		v2, np2, err2 := e.run(node.rightThunk(), pos, autoBT)
		if err2 != nil {
			return nil, pos, &AllBranchesFailed{Left: err, Right: err2}
		}
		return v2, np2, nil

	case *pnOrElseEither:
		v, np, err := e.run(node.left, pos, autoBT)
		if err == nil {
			return node.wrapLeft(v), np, nil
		}
		if !canBacktrack(err, pos, autoBT) {
			return nil, pos, err
		}
		v2, np2, err2 := e.run(node.rightThunk(), pos, autoBT)
		if err2 != nil {
			return nil, pos, &AllBranchesFailed{Left: err, Right: err2}
		}
		return node.wrapRight(v2), np2, nil

	case *pnOptional:
		v, np, err := e.run(node.inner, pos, autoBT)
		if err == nil {
			return node.wrapSome(v), np, nil
		}
		if !canBacktrack(err, pos, autoBT) {
			return nil, pos, err
		}
		return node.wrapNone(), pos, nil

	case *pnRepeat:
		return e.runRepeat(node, pos, autoBT)

	case *pnRepeatUntil:
		return e.runRepeatUntil(node, pos, autoBT)

	case *pnRepeatWithSep:
		return e.runRepeatWithSep(node, pos, autoBT)

	case *pnNot:
		_, _, err := e.run(node.inner, pos, autoBT)
		if err == nil {
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		return Unit{}, pos, nil

	case *pnEnd:
		if pos >= len(e.input) {
			return Unit{}, pos, nil
		}
		return nil, pos, &NotConsumedAll{Pos: pos}

	case *pnIndex:
		return pos, pos, nil

	case *pnCaptureString:
		_, np, err := e.run(node.inner, pos, autoBT)
		if err != nil {
			return nil, pos, err
		}
		return string(e.input[pos:np]), np, nil

	case *pnParseRegex:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		case NotMatched:
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		return string(e.input[pos:np]), np, nil

	case *pnParseRegexLastChar:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		case NotMatched:
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		r, _ := utf8.DecodeLastRune(e.input[pos:np])
		return r, np, nil

	case *pnParseRegexDiscard:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		case NotMatched:
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		return Unit{}, np, nil

	case *pnCharIn:
		if pos >= len(e.input) {
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		}
		c := e.input[pos]
		if !node.set.Has(c) {
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		return rune(c), pos + 1, nil

	case *pnCharNotIn:
		if pos >= len(e.input) {
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		}
		c := e.input[pos]
		if node.set.Has(c) {
			return nil, pos, &Failure{Pos: pos, Err: node.err}
		}
		return rune(c), pos + 1, nil

	case *pnAnyChar:
		if pos >= len(e.input) {
			return nil, pos, &UnexpectedEndOfInput{Pos: pos}
		}
		return rune(e.input[pos]), pos + 1, nil

	default:
		return nil, pos, &UnknownFailure{Pos: pos}
	}
}

func (e *recursiveEngine) runRepeat(node *pnRepeat, pos int, autoBT bool) (any, int, ParserError) {
	slice := node.newSlice()
	cur := pos
	count := 0
	for node.max < 0 || count < node.max {
		v, np, err := e.run(node.inner, cur, autoBT)
		if err != nil {
			if count < node.min {
				return nil, pos, err
			}
			break
		}
		slice = node.appendVal(slice, v)
		count++
		if np == cur {
			// zero-width match would loop forever; one iteration is
			// enough, but it may still be short of min.
			break
		}
		cur = np
	}
	if count < node.min {
		return nil, pos, &Failure{Pos: cur, Err: errRepeatBounds}
	}
	return slice, cur, nil
}

func (e *recursiveEngine) runRepeatUntil(node *pnRepeatUntil, pos int, autoBT bool) (any, int, ParserError) {
	slice := node.newSlice()
	cur := pos
	for {
		_, sp, serr := e.run(node.stop, cur, autoBT)
		if serr == nil {
			return slice, sp, nil
		}
		v, np, err := e.run(node.inner, cur, autoBT)
		if err != nil {
			return nil, pos, err
		}
		slice = node.appendVal(slice, v)
		if np == cur {
			// inner matched without consuming and stop still hasn't
			// matched: one more iteration can never change anything.
			return nil, pos, &Failure{Pos: cur, Err: errRepeatBounds}
		}
		cur = np
	}
}

func (e *recursiveEngine) runRepeatWithSep(node *pnRepeatWithSep, pos int, autoBT bool) (any, int, ParserError) {
	slice := node.newSlice()
	v, np, err := e.run(node.inner, pos, autoBT)
	if err != nil {
		if node.atLeastOne {
			return nil, pos, err
		}
		if !canBacktrack(err, pos, autoBT) {
			return nil, pos, err
		}
		return slice, pos, nil
	}
	slice = node.appendVal(slice, v)
	cur := np
	for {
		_, sp, serr := e.run(node.sep, cur, autoBT)
		if serr != nil {
			if !canBacktrack(serr, cur, autoBT) {
				return nil, pos, serr
			}
			break
		}
		v, np, err := e.run(node.inner, sp, autoBT)
		if err != nil {
			return nil, pos, err
		}
		slice = node.appendVal(slice, v)
		cur = np
	}
	return slice, cur, nil
}

// asParserError adapts whatever error a MapError callback returned
// back into the ParserError family, defaulting to Failure at pos if
// the callback returned a plain error.
func asParserError(err error, pos int) ParserError {
	if pe, ok := err.(ParserError); ok {
		return pe
	}
	return &Failure{Pos: pos, Err: err}
}
