// Package vm implements the stack machine that reduces predicate terms to a boolean.
package vm

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
)

// InitialStackSize covers typical predicates without growing.
const InitialStackSize = 16

// Machine evaluates term sequences. It holds no per-evaluation state, so one
// Machine may be shared between goroutines.
type Machine struct {
	logger *zap.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the sink of the log operator.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func New(opts ...Option) *Machine {
	m := &Machine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Evaluate reduces terms against ctx. The result is valid only when err is nil;
// failures are *diagnostics.EvalError.
func (m *Machine) Evaluate(terms []token.Term, ctx value.Context) (bool, error) {
	f := &frame{
		machine: m,
		ctx:     ctx,
		stack:   make([]value.Value, 0, InitialStackSize),
	}
	for i, term := range terms {
		f.index = i
		f.term = term
		if err := f.step(); err != nil {
			return false, err
		}
	}
	return f.result()
}

// frame is the state of one evaluation: the stack and the term being reduced.
type frame struct {
	machine *Machine
	ctx     value.Context
	stack   []value.Value
	index   int
	term    token.Term
}

func (f *frame) step() error {
	switch f.term.Kind {
	case token.LITERAL:
		f.push(f.term.Value)
		return nil
	case token.MEMBER:
		return f.member()
	case token.UNARY:
		return f.unaryOp()
	case token.BINARY:
		return f.binaryOp()
	case token.TERNARY:
		return f.ternaryOp()
	case token.VARIADIC:
		return f.variadicOp()
	default:
		return f.errorf(diagnostics.ErrE002, f.term.Text(), "a term", f.term.Kind.String())
	}
}

func (f *frame) member() error {
	v, hasTarget, hasMember := f.ctx.Lookup(f.term.Target, f.term.Member)
	if !hasTarget {
		return f.errorf(diagnostics.ErrE003, f.term.Target)
	}
	if !hasMember {
		return f.errorf(diagnostics.ErrE004, f.term.Member, f.term.Target)
	}
	f.push(v)
	return nil
}

// result checks that exactly one boolean is left.
func (f *frame) result() (bool, error) {
	switch n := len(f.stack); {
	case n == 0:
		return false, diagnostics.NewEvalError(diagnostics.ErrE006, -1, "", "expression produced no value")
	case n > 1:
		return false, diagnostics.NewEvalError(diagnostics.ErrE006, -1, "", "expression produced "+strconv.Itoa(n)+" values")
	}
	v := f.stack[0]
	if !v.IsBool() {
		return false, diagnostics.NewEvalError(diagnostics.ErrE006, -1, "",
			"expression did not evaluate to a boolean (got "+v.Type.String()+" "+v.Inspect()+")")
	}
	return v.AsBool(), nil
}

func (f *frame) push(v value.Value) {
	f.stack = append(f.stack, v)
}

func (f *frame) popAny() (value.Value, error) {
	n := len(f.stack)
	if n == 0 {
		return value.Value{}, f.errorf(diagnostics.ErrE001, f.term.Text(), f.term.Kind.Arity())
	}
	v := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return v, nil
}

func (f *frame) popTyped(want value.ValueType) (value.Value, error) {
	v, err := f.popAny()
	if err != nil {
		return v, err
	}
	if v.Type != want {
		return v, f.errorf(diagnostics.ErrE002, f.term.Text(), want.String(), v.Type.String()+" "+v.Inspect())
	}
	return v, nil
}

func (f *frame) popString() (string, error) {
	v, err := f.popTyped(value.ValString)
	return v.AsString(), err
}

func (f *frame) popNumber() (float64, error) {
	v, err := f.popTyped(value.ValNumber)
	return v.AsNumber(), err
}

func (f *frame) popBool() (bool, error) {
	v, err := f.popTyped(value.ValBool)
	return v.AsBool(), err
}

func (f *frame) errorf(code diagnostics.ErrorCode, args ...interface{}) error {
	return diagnostics.NewEvalError(code, f.index, f.term.Text(), args...)
}
