package vm

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/value"
)

func (f *frame) opcode() (Opcode, error) {
	code, ok := Lookup(f.term.Op)
	if !ok {
		return OP_INVALID, f.errorf(diagnostics.ErrE002, f.term.Op, "a known operator", f.term.Kind.String())
	}
	return code, nil
}

// unaryOp pops one operand and pushes the result
func (f *frame) unaryOp() error {
	op, err := f.opcode()
	if err != nil {
		return err
	}

	switch op {
	case OP_NOT:
		b, err := f.popBool()
		if err != nil {
			return err
		}
		f.push(value.Bool(!b))
		return nil
	case OP_TO_STR:
		v, err := f.popAny()
		if err != nil {
			return err
		}
		f.push(value.String(v.String()))
		return nil
	}

	s, err := f.popString()
	if err != nil {
		return err
	}
	switch op {
	case OP_IS_EMPTY:
		f.push(value.Bool(s == ""))
	case OP_IS_NOT_EMPTY:
		f.push(value.Bool(s != ""))
	case OP_LEN:
		f.push(value.Number(float64(utf8.RuneCountInString(s))))
	case OP_TO_LOWER:
		f.push(value.String(strings.ToLower(s)))
	case OP_TO_UPPER:
		f.push(value.String(strings.ToUpper(s)))
	case OP_TO_NUM:
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return f.errorf(diagnostics.ErrE005, s)
		}
		f.push(value.Number(n))
	default:
		return f.errorf(diagnostics.ErrE002, f.term.Op, "a unary operator", f.term.Kind.String())
	}
	return nil
}

// binaryOp pops rhs, then lhs, and pushes the result
func (f *frame) binaryOp() error {
	op, err := f.opcode()
	if err != nil {
		return err
	}

	switch op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV, OP_MOD:
		return f.arithmeticOp(op)
	case OP_EQ, OP_NE, OP_LE, OP_GE, OP_LT, OP_GT:
		return f.comparisonOp(op)
	case OP_AND, OP_OR:
		b, err := f.popBool()
		if err != nil {
			return err
		}
		a, err := f.popBool()
		if err != nil {
			return err
		}
		if op == OP_AND {
			f.push(value.Bool(a && b))
		} else {
			f.push(value.Bool(a || b))
		}
		return nil
	case OP_CONTAINS, OP_STARTS_WITH, OP_ENDS_WITH:
		return f.stringOp(op)
	default:
		return f.errorf(diagnostics.ErrE002, f.term.Op, "a binary operator", f.term.Kind.String())
	}
}

func (f *frame) arithmeticOp(op Opcode) error {
	b, err := f.popNumber()
	if err != nil {
		return err
	}
	a, err := f.popNumber()
	if err != nil {
		return err
	}

	var result float64
	switch op {
	case OP_ADD:
		result = a + b
	case OP_SUB:
		result = a - b
	case OP_MUL:
		result = a * b
	case OP_DIV:
		result = a / b
	case OP_MOD:
		result = math.Mod(a, b)
	}
	f.push(value.Number(result))
	return nil
}

// comparisonOp handles equality across kinds and ordering within a kind.
func (f *frame) comparisonOp(op Opcode) error {
	b, err := f.popAny()
	if err != nil {
		return err
	}
	a, err := f.popAny()
	if err != nil {
		return err
	}

	switch op {
	case OP_EQ:
		f.push(value.Bool(a.Equals(b)))
		return nil
	case OP_NE:
		f.push(value.Bool(!a.Equals(b)))
		return nil
	}

	if a.Type != b.Type {
		return f.errorf(diagnostics.ErrE002, f.term.Op, "operands of the same type", a.Type.String()+" and "+b.Type.String())
	}
	cmp, ok := a.Compare(b)
	if !ok {
		// NaN is unordered
		f.push(value.Bool(false))
		return nil
	}
	var result bool
	switch op {
	case OP_LT:
		result = cmp < 0
	case OP_LE:
		result = cmp <= 0
	case OP_GT:
		result = cmp > 0
	case OP_GE:
		result = cmp >= 0
	}
	f.push(value.Bool(result))
	return nil
}

// stringOp: the left operand is the needle or affix, the right one the subject.
func (f *frame) stringOp(op Opcode) error {
	subject, err := f.popString()
	if err != nil {
		return err
	}
	needle, err := f.popString()
	if err != nil {
		return err
	}

	var result bool
	switch op {
	case OP_CONTAINS:
		result = strings.Contains(subject, needle)
	case OP_STARTS_WITH:
		result = strings.HasPrefix(subject, needle)
	case OP_ENDS_WITH:
		result = strings.HasSuffix(subject, needle)
	}
	f.push(value.Bool(result))
	return nil
}

// ternaryOp pops false_case, true_case and the predicate. Both cases are
// already evaluated by the time the predicate is seen.
func (f *frame) ternaryOp() error {
	if op, err := f.opcode(); err != nil {
		return err
	} else if op != OP_IF {
		return f.errorf(diagnostics.ErrE002, f.term.Op, "a ternary operator", f.term.Kind.String())
	}

	falseCase, err := f.popAny()
	if err != nil {
		return err
	}
	trueCase, err := f.popAny()
	if err != nil {
		return err
	}
	pred, err := f.popBool()
	if err != nil {
		return err
	}
	if pred {
		f.push(trueCase)
	} else {
		f.push(falseCase)
	}
	return nil
}

// variadicOp pops a count and then count operands, restoring their source order.
func (f *frame) variadicOp() error {
	op, err := f.opcode()
	if err != nil {
		return err
	}

	count, err := f.popNumber()
	if err != nil {
		return err
	}
	if count < 0 || count != math.Trunc(count) || math.IsInf(count, 0) {
		return f.errorf(diagnostics.ErrE007, f.term.Op, value.FormatNumber(count))
	}
	// compare as floats: counts beyond the int range must not reach int()
	if count > float64(len(f.stack)) {
		return f.errorf(diagnostics.ErrE001, f.term.Op, strconv.FormatFloat(count+1, 'g', -1, 64))
	}
	n := int(count)

	args := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		v, err := f.popAny()
		if err != nil {
			return err
		}
		args[i] = v.String()
	}

	switch op {
	case OP_CONCAT:
		f.push(value.String(strings.Join(args, "")))
	case OP_LOG:
		line := strings.Join(args, " ")
		f.machine.logger.Info(line, zap.Strings("predicate.args", args), zap.Int("predicate.term", f.index))
		f.push(value.String(line))
	default:
		return f.errorf(diagnostics.ErrE002, f.term.Op, "a variadic operator", f.term.Kind.String())
	}
	return nil
}
