package config

// ConfigFileName is the rules file looked up by FindConfig.
const ConfigFileName = "gnos.yaml"

// ConfigFileNames are all recognized rules file names, in lookup order
var ConfigFileNames = []string{"gnos.yaml", "gnos.yml"}

// PredicateFileExt is the extension of files holding one predicate per line
const PredicateFileExt = ".pred"

// Context targets populated by the map
const (
	SelectionTarget = "selection"
	OptionsTarget   = "options"

	SelectionNameMember  = "name"
	SelectionValueMember = "value"
)

// Boolean literals
const (
	TrueKeyword  = "true"
	FalseKeyword = "false"
)

// Unary operators
const (
	IsEmptyOp    = "is_empty"
	IsNotEmptyOp = "is_not_empty"
	LenOp        = "len"
	NotOp        = "not"
	ToNumOp      = "to_num"
	ToLowerOp    = "to_lower"
	ToStrOp      = "to_str"
	ToUpperOp    = "to_upper"
)

// Binary operators
const (
	AddOp        = "+"
	SubOp        = "-"
	MulOp        = "*"
	DivOp        = "/"
	ModOp        = "%"
	EqOp         = "=="
	NotEqOp      = "!="
	LessEqOp     = "<="
	GreaterEqOp  = ">="
	LessOp       = "<"
	GreaterOp    = ">"
	AndOp        = "and"
	OrOp         = "or"
	ContainsOp   = "contains"
	EndsWithOp   = "ends_with"
	StartsWithOp = "starts_with"
)

// Ternary and variadic operators
const (
	IfOp     = "if"
	ConcatOp = "concat"
	LogOp    = "log"
)

// UnaryOperators lists the unary keywords in match order.
var UnaryOperators = []string{
	IsEmptyOp, IsNotEmptyOp, LenOp, NotOp, ToNumOp, ToLowerOp, ToStrOp, ToUpperOp,
}

// BinarySymbols lists the symbolic binary operators, longest first so that
// two-character operators win over their one-character prefixes.
var BinarySymbols = []string{
	EqOp, NotEqOp, LessEqOp, GreaterEqOp, AddOp, SubOp, MulOp, DivOp, ModOp, LessOp, GreaterOp,
}

// BinaryKeywords lists the word binary operators.
var BinaryKeywords = []string{
	AndOp, OrOp, ContainsOp, EndsWithOp, StartsWithOp,
}

// TernaryOperators lists the ternary keywords.
var TernaryOperators = []string{IfOp}

// VariadicOperators lists the variadic keywords.
var VariadicOperators = []string{ConcatOp, LogOp}
