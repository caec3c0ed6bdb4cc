// Package pipeline chains the lexer and the stack machine: a predicate is
// compiled once into a Program and then run against any number of contexts.
package pipeline

import (
	"github.com/funvibe/gnos/internal/lexer"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
	"github.com/funvibe/gnos/internal/vm"
)

// Program is a tokenized predicate. It is immutable after Compile.
type Program struct {
	Source string
	Terms  []token.Term
}

// Compile tokenizes source. Errors are *diagnostics.SyntaxError.
func Compile(source string) (*Program, error) {
	terms, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return &Program{Source: source, Terms: terms}, nil
}

// Run evaluates the program. Errors are *diagnostics.EvalError.
func (p *Program) Run(machine *vm.Machine, ctx value.Context) (bool, error) {
	return machine.Evaluate(p.Terms, ctx)
}

// Run compiles and evaluates source in one step.
func Run(machine *vm.Machine, source string, ctx value.Context) (bool, error) {
	prog, err := Compile(source)
	if err != nil {
		return false, err
	}
	return prog.Run(machine, ctx)
}
