package vm

import "github.com/funvibe/gnos/internal/config"

// Opcode identifies an operator
type Opcode byte

const (
	OP_INVALID Opcode = iota

	// Unary
	OP_IS_EMPTY     // is_empty
	OP_IS_NOT_EMPTY // is_not_empty
	OP_LEN          // len
	OP_NOT          // not
	OP_TO_NUM       // to_num
	OP_TO_LOWER     // to_lower
	OP_TO_STR       // to_str
	OP_TO_UPPER     // to_upper

	// Arithmetic
	OP_ADD // +
	OP_SUB // -
	OP_MUL // *
	OP_DIV // /
	OP_MOD // %

	// Comparison
	OP_EQ // ==
	OP_NE // !=
	OP_LE // <=
	OP_GE // >=
	OP_LT // <
	OP_GT // >

	// Logic
	OP_AND // and
	OP_OR  // or

	// Strings
	OP_CONTAINS    // contains
	OP_ENDS_WITH   // ends_with
	OP_STARTS_WITH // starts_with

	// Ternary
	OP_IF // if

	// Variadic
	OP_CONCAT // concat
	OP_LOG    // log
)

var opcodes = map[string]Opcode{
	config.IsEmptyOp:    OP_IS_EMPTY,
	config.IsNotEmptyOp: OP_IS_NOT_EMPTY,
	config.LenOp:        OP_LEN,
	config.NotOp:        OP_NOT,
	config.ToNumOp:      OP_TO_NUM,
	config.ToLowerOp:    OP_TO_LOWER,
	config.ToStrOp:      OP_TO_STR,
	config.ToUpperOp:    OP_TO_UPPER,

	config.AddOp: OP_ADD,
	config.SubOp: OP_SUB,
	config.MulOp: OP_MUL,
	config.DivOp: OP_DIV,
	config.ModOp: OP_MOD,

	config.EqOp:        OP_EQ,
	config.NotEqOp:     OP_NE,
	config.LessEqOp:    OP_LE,
	config.GreaterEqOp: OP_GE,
	config.LessOp:      OP_LT,
	config.GreaterOp:   OP_GT,

	config.AndOp: OP_AND,
	config.OrOp:  OP_OR,

	config.ContainsOp:   OP_CONTAINS,
	config.EndsWithOp:   OP_ENDS_WITH,
	config.StartsWithOp: OP_STARTS_WITH,

	config.IfOp: OP_IF,

	config.ConcatOp: OP_CONCAT,
	config.LogOp:    OP_LOG,
}

// Lookup returns the opcode for an operator name.
func Lookup(op string) (Opcode, bool) {
	code, ok := opcodes[op]
	return code, ok
}
