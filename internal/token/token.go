// Package token defines the terms produced by the lexer. Terms arrive in
// postfix order, so there is no separate syntax tree.
package token

import (
	"fmt"

	"github.com/funvibe/gnos/internal/value"
)

// Kind identifies the kind of a term
type Kind uint8

const (
	LITERAL  Kind = iota // true, 42, "foo"
	UNARY                // consumes 1 operand
	BINARY               // consumes 2 operands
	TERNARY              // consumes 3 operands
	VARIADIC             // consumes a count, then count operands
	MEMBER               // target.member
)

var kindNames = [...]string{
	LITERAL:  "Literal",
	UNARY:    "UnaryOp",
	BINARY:   "BinaryOp",
	TERNARY:  "TernaryOp",
	VARIADIC: "VariadicOp",
	MEMBER:   "MemberRef",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Arity returns the number of fixed operands an operator consumes.
// Variadic operators report 1, the count itself.
func (k Kind) Arity() int {
	switch k {
	case UNARY, VARIADIC:
		return 1
	case BINARY:
		return 2
	case TERNARY:
		return 3
	default:
		return 0
	}
}

// Term is one lexical unit of a predicate.
type Term struct {
	Kind   Kind
	Value  value.Value // LITERAL
	Op     string      // UNARY, BINARY, TERNARY, VARIADIC
	Target string      // MEMBER
	Member string      // MEMBER
	Offset int         // byte offset in the source
}

// Constructors. Offsets are left at zero; the lexer fills them in.

func Literal(v value.Value) Term {
	return Term{Kind: LITERAL, Value: v}
}

func Unary(op string) Term {
	return Term{Kind: UNARY, Op: op}
}

func Binary(op string) Term {
	return Term{Kind: BINARY, Op: op}
}

func Ternary(op string) Term {
	return Term{Kind: TERNARY, Op: op}
}

func Variadic(op string) Term {
	return Term{Kind: VARIADIC, Op: op}
}

func Member(target, member string) Term {
	return Term{Kind: MEMBER, Target: target, Member: member}
}

// Text renders the term back to predicate source.
func (t Term) Text() string {
	switch t.Kind {
	case LITERAL:
		return t.Value.Inspect()
	case MEMBER:
		return t.Target + "." + t.Member
	default:
		return t.Op
	}
}

func (t Term) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text())
}

// Equal compares terms ignoring their source offsets.
func (t Term) Equal(other Term) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case LITERAL:
		return t.Value.Equals(other.Value)
	case MEMBER:
		return t.Target == other.Target && t.Member == other.Member
	default:
		return t.Op == other.Op
	}
}
