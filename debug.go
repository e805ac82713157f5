package bisyntax

import (
	"fmt"
	"log/slog"
)

// Tracer logs one structured record when the VM engine enters a node
// and one when that node's step returns, the generalized form of the teacher's vm.go dbg hook (a toggle around
// fmt.Print). Passed through EngineOptions.WithTrace.
type Tracer struct {
	logger *slog.Logger
}

func newTracer(l *slog.Logger) *Tracer {
	return &Tracer{logger: l}
}

func (t *Tracer) enter(pos int, n parserNode) {
	if t == nil {
		return
	}
	t.logger.Debug("enter", slog.Int("pos", pos), slog.String("node", nodeLabel(n)))
}

func (t *Tracer) exit(pos int, out stepOutcome) {
	if t == nil {
		return
	}
	if out.err != nil {
		t.logger.Debug("fail", slog.Int("at", out.err.Position()), slog.String("err", out.err.Error()))
		return
	}
	t.logger.Debug("ok", slog.Int("from", pos), slog.Int("to", out.pos))
}

// nodeLabel names a parserNode's dynamic type for tracing, without
// requiring every variant to implement a Stringer.
func nodeLabel(n parserNode) string {
	switch n.(type) {
	case *pnSucceed:
		return "Succeed"
	case *pnFail:
		return "Fail"
	case *pnNamed:
		return "Named"
	case *pnSuspendLazy:
		return "SuspendLazy"
	case *pnBacktrack:
		return "Backtrack"
	case *pnSetAutoBacktracking:
		return "SetAutoBacktracking"
	case *pnMapError:
		return "MapError"
	case *pnTransformEither:
		return "TransformEither"
	case *pnFilter:
		return "Filter"
	case *pnZip:
		return "Zip"
	case *pnZipLeft:
		return "ZipLeft"
	case *pnZipRight:
		return "ZipRight"
	case *pnOrElse:
		return "OrElse"
	case *pnOrElseEither:
		return "OrElseEither"
	case *pnOptional:
		return "Optional"
	case *pnRepeat:
		return "Repeat"
	case *pnRepeatUntil:
		return "RepeatUntil"
	case *pnRepeatWithSep:
		return "RepeatWithSep"
	case *pnNot:
		return "Not"
	case *pnEnd:
		return "End"
	case *pnIndex:
		return "Index"
	case *pnCaptureString:
		return "CaptureString"
	case *pnParseRegex:
		return "ParseRegex"
	case *pnParseRegexLastChar:
		return "ParseRegexLastChar"
	case *pnParseRegexDiscard:
		return "ParseRegexDiscard"
	case *pnCharIn:
		return "CharIn"
	case *pnCharNotIn:
		return "CharNotIn"
	case *pnAnyChar:
		return "AnyChar"
	default:
		return fmt.Sprintf("%T", n)
	}
}
