package bisyntax

import "unicode/utf8"

// vmEngine is the stack-safe parsing engine (spec.md §4.4): instead of
// recursing on the Go call stack, every composite node pushes an
// explicit continuation frame and the driver loop below trampolines
// between them. Grounded on the teacher's vm.go (the code:/fail:
// labelled loop) and vm_stack.go (the frame/stack split between
// backtracking and call frames) — repurposed from a flat bytecode
// program counter into a tree-walk whose call stack is this slice
// instead of Go's.
type vmEngine struct {
	input   []byte
	control []contFrame
	autoBT  bool
	tracer  *Tracer
}

func runVMEngine(n parserNode, input []byte, tracer *Tracer) (any, int, ParserError) {
	e := &vmEngine{input: input, autoBT: false, tracer: tracer}
	return e.run(n, 0)
}

// stepOutcome is the trampoline's unit of work: exactly one of
// "run this node next", "this subtree resolved to a value", or "this
// subtree failed" holds.
type stepOutcome struct {
	runNode parserNode
	runPos  int

	resolved bool
	val      any
	pos      int

	err ParserError
}

func outcomeRun(n parserNode, pos int) stepOutcome { return stepOutcome{runNode: n, runPos: pos} }
func outcomeOK(val any, pos int) stepOutcome       { return stepOutcome{resolved: true, val: val, pos: pos} }
func outcomeErr(err ParserError) stepOutcome       { return stepOutcome{err: err} }

// contFrame is one pending continuation: what to do once the node
// that was running when this frame was pushed finishes, whichever way
// it finishes.
type contFrame interface {
	resume(e *vmEngine, val any, pos int) stepOutcome
	fail(e *vmEngine, err ParserError) stepOutcome
}

func (e *vmEngine) push(f contFrame) { e.control = append(e.control, f) }

func (e *vmEngine) pop() contFrame {
	f := e.control[len(e.control)-1]
	e.control = e.control[:len(e.control)-1]
	return f
}

// run drives the trampoline to completion for root starting at pos.
func (e *vmEngine) run(root parserNode, pos int) (any, int, ParserError) {
	e.tracer.enter(pos, root)
	out := e.dispatch(root, pos)
	e.tracer.exit(pos, out)
	for {
		switch {
		case out.err != nil:
			if len(e.control) == 0 {
				return nil, pos, out.err
			}
			out = e.pop().fail(e, out.err)
		case out.runNode != nil:
			e.tracer.enter(out.runPos, out.runNode)
			runPos := out.runPos
			out = e.dispatch(out.runNode, out.runPos)
			e.tracer.exit(runPos, out)
		default: // resolved
			if len(e.control) == 0 {
				return out.val, out.pos, nil
			}
			out = e.pop().resume(e, out.val, out.pos)
		}
	}
}

// dispatch evaluates a single node: leaves resolve directly, composite
// nodes push a continuation frame and hand back their first child to
// run next.
func (e *vmEngine) dispatch(n parserNode, pos int) stepOutcome {
	switch node := n.(type) {
	case *pnSucceed:
		return outcomeOK(node.value, pos)

	case *pnFail:
		return outcomeErr(&Failure{Pos: pos, Err: node.err})

	case *pnNamed:
		e.push(&namedFrame{name: node.name})
		return outcomeRun(node.inner, pos)

	case *pnSuspendLazy:
		return outcomeRun(node.force(), pos)

	case *pnBacktrack:
		e.push(&restoreAutoBTFrame{saved: e.autoBT})
		e.autoBT = true
		return outcomeRun(node.inner, pos)

	case *pnSetAutoBacktracking:
		e.push(&restoreAutoBTFrame{saved: e.autoBT})
		e.autoBT = node.flag
		return outcomeRun(node.inner, pos)

	case *pnMapError:
		e.push(&mapErrorFrame{f: node.f, atPos: pos})
		return outcomeRun(node.inner, pos)

	case *pnTransformEither:
		e.push(&transformEitherFrame{f: node.f})
		return outcomeRun(node.inner, pos)

	case *pnFilter:
		e.push(&filterFrame{pred: node.pred, err: node.err})
		return outcomeRun(node.inner, pos)

	case *pnZip:
		e.push(&zipFrame1{right: node.right, combine: node.combine})
		return outcomeRun(node.left, pos)

	case *pnZipLeft:
		e.push(&zipLeftFrame1{right: node.right})
		return outcomeRun(node.left, pos)

	case *pnZipRight:
		e.push(&zipRightFrame1{right: node.right})
		return outcomeRun(node.left, pos)

	case *pnOrElse:
		e.push(&orElseFrame1{rightThunk: node.rightThunk, startPos: pos})
		return outcomeRun(node.left, pos)

	case *pnOrElseEither:
		e.push(&orElseEitherFrame1{
			rightThunk: node.rightThunk, startPos: pos,
			wrapLeft: node.wrapLeft, wrapRight: node.wrapRight,
		})
		return outcomeRun(node.left, pos)

	case *pnOptional:
		e.push(&optionalFrame{startPos: pos, wrapSome: node.wrapSome, wrapNone: node.wrapNone})
		return outcomeRun(node.inner, pos)

	case *pnRepeat:
		if node.max == 0 {
			if node.min > 0 {
				return outcomeErr(&Failure{Pos: pos, Err: errRepeatBounds})
			}
			return outcomeOK(node.newSlice(), pos)
		}
		f := &repeatFrame{node: node, slice: node.newSlice(), attemptPos: pos}
		e.push(f)
		return outcomeRun(node.inner, pos)

	case *pnRepeatUntil:
		f := &repeatUntilFrame{node: node, slice: node.newSlice(), curPos: pos, phase: phaseStop}
		e.push(f)
		return outcomeRun(node.stop, pos)

	case *pnRepeatWithSep:
		f := &repeatSepFrame{node: node, slice: node.newSlice(), startPos: pos, curPos: pos, phase: phaseFirstElem}
		e.push(f)
		return outcomeRun(node.inner, pos)

	case *pnNot:
		e.push(&notFrame{startPos: pos, err: node.err})
		return outcomeRun(node.inner, pos)

	case *pnEnd:
		if pos >= len(e.input) {
			return outcomeOK(Unit{}, pos)
		}
		return outcomeErr(&NotConsumedAll{Pos: pos})

	case *pnIndex:
		return outcomeOK(pos, pos)

	case *pnCaptureString:
		e.push(&captureFrame{start: pos, input: e.input})
		return outcomeRun(node.inner, pos)

	case *pnParseRegex:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		case NotMatched:
			return outcomeErr(&Failure{Pos: pos, Err: node.err})
		}
		return outcomeOK(string(e.input[pos:np]), np)

	case *pnParseRegexLastChar:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		case NotMatched:
			return outcomeErr(&Failure{Pos: pos, Err: node.err})
		}
		r, _ := utf8.DecodeLastRune(e.input[pos:np])
		return outcomeOK(r, np)

	case *pnParseRegexDiscard:
		np := node.compiled.Test(pos, e.input)
		switch np {
		case NeedMoreInput:
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		case NotMatched:
			return outcomeErr(&Failure{Pos: pos, Err: node.err})
		}
		return outcomeOK(Unit{}, np)

	case *pnCharIn:
		if pos >= len(e.input) {
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		}
		c := e.input[pos]
		if !node.set.Has(c) {
			return outcomeErr(&Failure{Pos: pos, Err: node.err})
		}
		return outcomeOK(rune(c), pos+1)

	case *pnCharNotIn:
		if pos >= len(e.input) {
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		}
		c := e.input[pos]
		if node.set.Has(c) {
			return outcomeErr(&Failure{Pos: pos, Err: node.err})
		}
		return outcomeOK(rune(c), pos+1)

	case *pnAnyChar:
		if pos >= len(e.input) {
			return outcomeErr(&UnexpectedEndOfInput{Pos: pos})
		}
		return outcomeOK(rune(e.input[pos]), pos+1)

	default:
		return outcomeErr(&UnknownFailure{Pos: pos})
	}
}

// --- continuation frames ---

type namedFrame struct{ name string }

func (f *namedFrame) resume(_ *vmEngine, val any, pos int) stepOutcome { return outcomeOK(val, pos) }
func (f *namedFrame) fail(_ *vmEngine, err ParserError) stepOutcome {
	return outcomeErr(prependName(err, f.name))
}

type restoreAutoBTFrame struct{ saved bool }

func (f *restoreAutoBTFrame) resume(e *vmEngine, val any, pos int) stepOutcome {
	e.autoBT = f.saved
	return outcomeOK(val, pos)
}
func (f *restoreAutoBTFrame) fail(e *vmEngine, err ParserError) stepOutcome {
	e.autoBT = f.saved
	return outcomeErr(err)
}

type mapErrorFrame struct {
	f     func(error) error
	atPos int
}

func (f *mapErrorFrame) resume(_ *vmEngine, val any, pos int) stepOutcome { return outcomeOK(val, pos) }
func (f *mapErrorFrame) fail(_ *vmEngine, err ParserError) stepOutcome {
	return outcomeErr(asParserError(f.f(err), f.atPos))
}

type transformEitherFrame struct{ f func(any) (any, error) }

func (f *transformEitherFrame) resume(_ *vmEngine, val any, pos int) stepOutcome {
	out, err := f.f(val)
	if err != nil {
		return outcomeErr(&Failure{Pos: pos, Err: err})
	}
	return outcomeOK(out, pos)
}
func (f *transformEitherFrame) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type filterFrame struct {
	pred func(any) bool
	err  error
}

func (f *filterFrame) resume(_ *vmEngine, val any, pos int) stepOutcome {
	if !f.pred(val) {
		return outcomeErr(&Failure{Pos: pos, Err: f.err})
	}
	return outcomeOK(val, pos)
}
func (f *filterFrame) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipFrame1 struct {
	right   parserNode
	combine func(l, r any) any
}

func (f *zipFrame1) resume(e *vmEngine, val any, pos int) stepOutcome {
	e.push(&zipFrame2{leftVal: val, combine: f.combine})
	return outcomeRun(f.right, pos)
}
func (f *zipFrame1) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipFrame2 struct {
	leftVal any
	combine func(l, r any) any
}

func (f *zipFrame2) resume(_ *vmEngine, val any, pos int) stepOutcome {
	return outcomeOK(f.combine(f.leftVal, val), pos)
}
func (f *zipFrame2) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipLeftFrame1 struct{ right parserNode }

func (f *zipLeftFrame1) resume(e *vmEngine, val any, pos int) stepOutcome {
	e.push(&zipLeftFrame2{leftVal: val})
	return outcomeRun(f.right, pos)
}
func (f *zipLeftFrame1) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipLeftFrame2 struct{ leftVal any }

func (f *zipLeftFrame2) resume(_ *vmEngine, _ any, pos int) stepOutcome {
	return outcomeOK(f.leftVal, pos)
}
func (f *zipLeftFrame2) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipRightFrame1 struct{ right parserNode }

func (f *zipRightFrame1) resume(e *vmEngine, _ any, pos int) stepOutcome {
	e.push(&zipRightFrame2{})
	return outcomeRun(f.right, pos)
}
func (f *zipRightFrame1) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type zipRightFrame2 struct{}

func (f *zipRightFrame2) resume(_ *vmEngine, val any, pos int) stepOutcome {
	return outcomeOK(val, pos)
}
func (f *zipRightFrame2) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }

type orElseFrame1 struct {
	rightThunk func() parserNode
	startPos   int
}

func (f *orElseFrame1) resume(_ *vmEngine, val any, pos int) stepOutcome { return outcomeOK(val, pos) }
func (f *orElseFrame1) fail(e *vmEngine, err ParserError) stepOutcome {
	if !canBacktrack(err, f.startPos, e.autoBT) {
		return outcomeErr(err)
	}
	e.push(&orElseFrame2{leftErr: err})
	return outcomeRun(f.rightThunk(), f.startPos)
}

type orElseFrame2 struct{ leftErr ParserError }

func (f *orElseFrame2) resume(_ *vmEngine, val any, pos int) stepOutcome { return outcomeOK(val, pos) }
func (f *orElseFrame2) fail(_ *vmEngine, err ParserError) stepOutcome {
	return outcomeErr(&AllBranchesFailed{Left: f.leftErr, Right: err})
}

type orElseEitherFrame1 struct {
	rightThunk          func() parserNode
	startPos            int
	wrapLeft, wrapRight func(any) any
}

func (f *orElseEitherFrame1) resume(_ *vmEngine, val any, pos int) stepOutcome {
	return outcomeOK(f.wrapLeft(val), pos)
}
func (f *orElseEitherFrame1) fail(e *vmEngine, err ParserError) stepOutcome {
	if !canBacktrack(err, f.startPos, e.autoBT) {
		return outcomeErr(err)
	}
	e.push(&orElseEitherFrame2{leftErr: err, wrapRight: f.wrapRight})
	return outcomeRun(f.rightThunk(), f.startPos)
}

type orElseEitherFrame2 struct {
	leftErr   ParserError
	wrapRight func(any) any
}

func (f *orElseEitherFrame2) resume(_ *vmEngine, val any, pos int) stepOutcome {
	return outcomeOK(f.wrapRight(val), pos)
}
func (f *orElseEitherFrame2) fail(_ *vmEngine, err ParserError) stepOutcome {
	return outcomeErr(&AllBranchesFailed{Left: f.leftErr, Right: err})
}

type optionalFrame struct {
	startPos int
	wrapSome func(any) any
	wrapNone func() any
}

func (f *optionalFrame) resume(_ *vmEngine, val any, pos int) stepOutcome {
	return outcomeOK(f.wrapSome(val), pos)
}
func (f *optionalFrame) fail(e *vmEngine, err ParserError) stepOutcome {
	if !canBacktrack(err, f.startPos, e.autoBT) {
		return outcomeErr(err)
	}
	return outcomeOK(f.wrapNone(), f.startPos)
}

type repeatFrame struct {
	node       *pnRepeat
	slice      any
	count      int
	attemptPos int
}

func (f *repeatFrame) resume(e *vmEngine, val any, pos int) stepOutcome {
	f.slice = f.node.appendVal(f.slice, val)
	f.count++
	zeroWidth := pos == f.attemptPos
	f.attemptPos = pos
	if zeroWidth {
		// one more iteration can never change anything from here.
		if f.count < f.node.min {
			return outcomeErr(&Failure{Pos: pos, Err: errRepeatBounds})
		}
		return outcomeOK(f.slice, pos)
	}
	if f.node.max >= 0 && f.count >= f.node.max {
		return outcomeOK(f.slice, pos)
	}
	e.push(f)
	return outcomeRun(f.node.inner, pos)
}
func (f *repeatFrame) fail(_ *vmEngine, err ParserError) stepOutcome {
	if f.count < f.node.min {
		return outcomeErr(err)
	}
	return outcomeOK(f.slice, f.attemptPos)
}

type repeatUntilPhase int

const (
	phaseStop repeatUntilPhase = iota
	phaseInner
)

type repeatUntilFrame struct {
	node   *pnRepeatUntil
	slice  any
	curPos int
	phase  repeatUntilPhase
}

func (f *repeatUntilFrame) resume(e *vmEngine, val any, pos int) stepOutcome {
	if f.phase == phaseStop {
		return outcomeOK(f.slice, pos)
	}
	if pos == f.curPos {
		// inner matched without consuming and stop still hasn't
		// matched: one more iteration can never change anything.
		return outcomeErr(&Failure{Pos: pos, Err: errRepeatBounds})
	}
	f.slice = f.node.appendVal(f.slice, val)
	f.curPos = pos
	f.phase = phaseStop
	e.push(f)
	return outcomeRun(f.node.stop, f.curPos)
}
func (f *repeatUntilFrame) fail(e *vmEngine, err ParserError) stepOutcome {
	if f.phase == phaseStop {
		f.phase = phaseInner
		e.push(f)
		return outcomeRun(f.node.inner, f.curPos)
	}
	return outcomeErr(err)
}

type repeatSepPhase int

const (
	phaseFirstElem repeatSepPhase = iota
	phaseSep
	phaseElem
)

type repeatSepFrame struct {
	node     *pnRepeatWithSep
	slice    any
	startPos int
	curPos   int
	phase    repeatSepPhase
}

func (f *repeatSepFrame) resume(e *vmEngine, val any, pos int) stepOutcome {
	switch f.phase {
	case phaseFirstElem, phaseElem:
		f.slice = f.node.appendVal(f.slice, val)
		f.curPos = pos
		f.phase = phaseSep
		e.push(f)
		return outcomeRun(f.node.sep, pos)
	default: // phaseSep succeeded
		f.phase = phaseElem
		e.push(f)
		return outcomeRun(f.node.inner, pos)
	}
}
func (f *repeatSepFrame) fail(e *vmEngine, err ParserError) stepOutcome {
	switch f.phase {
	case phaseFirstElem:
		if f.node.atLeastOne || !canBacktrack(err, f.startPos, e.autoBT) {
			return outcomeErr(err)
		}
		return outcomeOK(f.slice, f.startPos)
	case phaseSep:
		if !canBacktrack(err, f.curPos, e.autoBT) {
			return outcomeErr(err)
		}
		return outcomeOK(f.slice, f.curPos)
	default: // phaseElem failed after a committed separator
		return outcomeErr(err)
	}
}

type notFrame struct {
	startPos int
	err      error
}

func (f *notFrame) resume(_ *vmEngine, _ any, _ int) stepOutcome {
	return outcomeErr(&Failure{Pos: f.startPos, Err: f.err})
}
func (f *notFrame) fail(_ *vmEngine, _ ParserError) stepOutcome {
	return outcomeOK(Unit{}, f.startPos)
}

type captureFrame struct {
	start int
	input []byte
}

func (f *captureFrame) resume(_ *vmEngine, _ any, pos int) stepOutcome {
	return outcomeOK(string(f.input[f.start:pos]), pos)
}
func (f *captureFrame) fail(_ *vmEngine, err ParserError) stepOutcome { return outcomeErr(err) }
