package bisyntax

// runPrinter interprets a printerNode against value, writing bytes to
// t. It is the single printer engine the library ships — unlike the
// parser side there is no VM/recursive split, since printing never
// needs to guard against adversarial recursion depth the way parsing
// an attacker-controlled input does (spec.md §4.5).
func runPrinter(n printerNode, value any, t Target[byte]) error {
	switch node := n.(type) {
	case *prSucceedUnit:
		return nil

	case *prFail:
		return asPrinterError(node.err)

	case *prMapError:
		if err := runPrinter(node.inner, value, t); err != nil {
			return asPrinterError(node.f(err))
		}
		return nil

	case *prContramap:
		return runPrinter(node.inner, node.f(value), t)

	case *prContramapEither:
		nv, err := node.f(value)
		if err != nil {
			return asPrinterError(err)
		}
		return runPrinter(node.inner, nv, t)

	case *prZip:
		lv, rv := node.split(value)
		if err := runPrinter(node.left, lv, t); err != nil {
			return err
		}
		return runPrinter(node.right, rv, t)

	case *prZipLeft:
		if err := runPrinter(node.left, value, t); err != nil {
			return err
		}
		return runPrinter(node.right, nil, t)

	case *prZipRight:
		if err := runPrinter(node.left, nil, t); err != nil {
			return err
		}
		return runPrinter(node.right, value, t)

	case *prOrElse:
		mark := t.checkpoint()
		if err := runPrinter(node.left, value, t); err == nil {
			t.commit(mark)
			return nil
		}
		if rbErr := t.rollback(mark); rbErr != nil {
			return NewPrinterError(rbErr)
		}
		return runPrinter(node.rightThunk(), value, t)

	case *prOrElseEither:
		isRight, lv, rv := node.split(value)
		if isRight {
			return runPrinter(node.rightThunk(), rv, t)
		}
		return runPrinter(node.left, lv, t)

	case *prOptional:
		val, ok := node.split(value)
		if !ok {
			return nil
		}
		return runPrinter(node.inner, val, t)

	case *prRepeat:
		items := node.toSlice(value)
		if len(items) < node.min || (node.max >= 0 && len(items) > node.max) {
			return NewPrinterError(errRepeatBounds)
		}
		for _, it := range items {
			if err := runPrinter(node.inner, it, t); err != nil {
				return err
			}
		}
		return nil

	case *prRepeatWithSep:
		items := node.toSlice(value)
		if node.atLeastOne && len(items) == 0 {
			return NewPrinterError(errRepeatBounds)
		}
		for i, it := range items {
			if i > 0 {
				if err := runPrinter(node.sep, nil, t); err != nil {
					return err
				}
			}
			if err := runPrinter(node.inner, it, t); err != nil {
				return err
			}
		}
		return nil

	case *prRepeatUntil:
		items := node.toSlice(value)
		for _, it := range items {
			if err := runPrinter(node.inner, it, t); err != nil {
				return err
			}
		}
		return runPrinter(node.stop, nil, t)

	case *prEmitOutput:
		return t.write([]byte(node.value))

	case *prExactlyEqual:
		if value != node.value {
			return NewPrinterError(node.err)
		}
		return nil

	case *prExceptEqual:
		if value == node.value {
			return NewPrinterError(node.err)
		}
		return nil

	case *prFilterInput:
		if !node.pred(value) {
			return NewPrinterError(node.err)
		}
		return nil

	case *prFromInput:
		s, err := node.fn(value)
		if err != nil {
			return NewPrinterError(err)
		}
		return t.write([]byte(s))

	case *prSuspendLazy:
		return runPrinter(node.force(), value, t)

	case *prFlatten:
		return t.write([]byte(value.(string)))

	case *prPrintRegex:
		s := value.(string)
		if !node.compiled.Matches(s) {
			return NewPrinterError(node.err)
		}
		return t.write([]byte(s))

	case *prPrintRegexChar:
		s := string(value.(rune))
		if !node.compiled.Matches(s) {
			return NewPrinterError(node.err)
		}
		return t.write([]byte(s))

	case *prPrintRegexDiscard:
		return t.write([]byte(node.chars))

	default:
		return NewPrinterError(errUnknownPrinterNode)
	}
}

func asPrinterError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*PrinterError); ok {
		return err
	}
	return NewPrinterError(err)
}
