// Package predicate is the embedding API of the gnos predicate language.
//
// A predicate is a postfix expression evaluated against a two-level context
// (target -> member -> value) that must reduce to a single boolean:
//
//	ok, err := predicate.Eval(`selection.name "router1" == options.OSPF and`,
//		predicate.NewContext().Selection("router1", "").Option("OSPF", true))
//
// Errors are *SyntaxError (the source could not be tokenized) or *EvalError
// (the terms could not be reduced to one boolean).
package predicate

import (
	"go.uber.org/zap"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/lexer"
	"github.com/funvibe/gnos/internal/pipeline"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
	"github.com/funvibe/gnos/internal/vm"
)

type (
	Term        = token.Term
	Value       = value.Value
	SyntaxError = diagnostics.SyntaxError
	EvalError   = diagnostics.EvalError
)

// Value constructors.
var (
	Bool   = value.Bool
	Number = value.Number
	String = value.String
)

// Context is the evaluation context. The builder methods return the context
// so calls can be chained.
type Context struct {
	value.Context
}

func NewContext() Context {
	return Context{value.NewContext()}
}

// Selection sets selection.name and selection.value.
func (c Context) Selection(name, val string) Context {
	c.Set(config.SelectionTarget, config.SelectionNameMember, value.String(name))
	c.Set(config.SelectionTarget, config.SelectionValueMember, value.String(val))
	return c
}

// Option sets options.<name>.
func (c Context) Option(name string, on bool) Context {
	c.Set(config.OptionsTarget, name, value.Bool(on))
	return c
}

// With sets target.member.
func (c Context) With(target, member string, v Value) Context {
	c.Set(target, member, v)
	return c
}

var defaultMachine = vm.New()

// Tokenize converts source into postfix terms.
func Tokenize(source string) ([]Term, error) {
	return lexer.Tokenize(source)
}

// Evaluate reduces terms against ctx.
func Evaluate(terms []Term, ctx Context) (bool, error) {
	return defaultMachine.Evaluate(terms, ctx.Context)
}

// Eval tokenizes and evaluates source.
func Eval(source string, ctx Context) (bool, error) {
	return pipeline.Run(defaultMachine, source, ctx.Context)
}

// Program is a tokenized predicate that can be evaluated repeatedly.
type Program struct {
	prog    *pipeline.Program
	machine *vm.Machine
}

// Compile tokenizes source once for repeated evaluation.
func Compile(source string) (*Program, error) {
	prog, err := pipeline.Compile(source)
	if err != nil {
		return nil, err
	}
	return &Program{prog: prog, machine: defaultMachine}, nil
}

// WithLogger returns a copy of the program whose log operator writes to logger.
func (p *Program) WithLogger(logger *zap.Logger) *Program {
	return &Program{prog: p.prog, machine: vm.New(vm.WithLogger(logger))}
}

// Source returns the predicate text.
func (p *Program) Source() string {
	return p.prog.Source
}

// Terms returns a copy of the compiled terms.
func (p *Program) Terms() []Term {
	return append([]Term(nil), p.prog.Terms...)
}

// Eval evaluates the program against ctx.
func (p *Program) Eval(ctx Context) (bool, error) {
	return p.prog.Run(p.machine, ctx.Context)
}

// IsSyntaxError reports whether err is a tokenizer failure.
func IsSyntaxError(err error) bool {
	return diagnostics.IsSyntax(err)
}

// IsEvalError reports whether err is an evaluation failure.
func IsEvalError(err error) bool {
	return diagnostics.IsEval(err)
}
