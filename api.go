package bisyntax

import "log/slog"

// ParseString runs s's parser over input using the engine selected by
// opts (EngineVM by default), returning the value on success or the
// ParserError describing where and why it failed. Trailing input is
// not an error — use ParseAll to require the whole string be
// consumed.
func ParseString[V any](s Syntax[V], input string, opts ...EngineOptions) (V, ParserError) {
	var zero V
	val, _, err := runParser(s.Parse.node, input, resolveOptions(opts))
	if err != nil {
		return zero, err
	}
	return val.(V), nil
}

// ParseAll is ParseString but additionally requires the parser to
// consume every byte of input.
func ParseAll[V any](s Syntax[V], input string, opts ...EngineOptions) (V, ParserError) {
	return ParseString(ZipLeft(s, End()), input, opts...)
}

func resolveOptions(opts []EngineOptions) EngineOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return NewEngineOptions()
}

func runParser(n parserNode, input string, o EngineOptions) (any, int, ParserError) {
	var tracer *Tracer
	if o.trace != nil {
		tracer = newTracer(slog.New(slog.NewTextHandler(o.trace, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	switch o.engine {
	case EngineRecursive:
		return runRecursiveEngine(n, []byte(input))
	default:
		return runVMEngine(n, []byte(input), tracer)
	}
}

// PrintString runs s's printer over value, returning the produced
// text.
func PrintString[V any](s Syntax[V], value V) (string, error) {
	t := NewStringTarget()
	if err := runPrinter(s.Print.node, value, t); err != nil {
		return "", err
	}
	return t.String(), nil
}

// PrintToChunk is PrintString but collects the raw bytes into a Chunk
// instead of a string, for callers composing output incrementally.
func PrintToChunk[V any](s Syntax[V], value V) (*Chunk[byte], error) {
	t := NewChunkTarget[byte]()
	if err := runPrinter(s.Print.node, value, t); err != nil {
		return nil, err
	}
	return t.Chunk(), nil
}

// PrintToTarget is PrintString but writes into a caller-supplied
// Target, for callers that need rollback across several printer runs
// sharing one sink.
func PrintToTarget[V any](s Syntax[V], value V, t Target[byte]) error {
	return runPrinter(s.Print.node, value, t)
}
