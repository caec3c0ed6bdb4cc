// Package value holds the runtime values of the predicate language and the
// evaluation context they are looked up in.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueType identifies the kind of value stored in a Value
type ValueType uint8

const (
	ValBool ValueType = iota
	ValNumber
	ValString
)

func (t ValueType) String() string {
	switch t {
	case ValBool:
		return "Boolean"
	case ValNumber:
		return "Number"
	case ValString:
		return "String"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// Value is a tagged union of the three primitive kinds.
// The zero Value is Boolean false.
type Value struct {
	Type ValueType
	num  float64
	str  string
	b    bool
}

// Constructors

func Bool(v bool) Value {
	return Value{Type: ValBool, b: v}
}

func Number(v float64) Value {
	return Value{Type: ValNumber, num: v}
}

func String(v string) Value {
	return Value{Type: ValString, str: v}
}

// Accessors. Callers check Type first; a mismatched accessor returns the zero value.

func (v Value) AsBool() bool {
	return v.Type == ValBool && v.b
}

func (v Value) AsNumber() float64 {
	if v.Type != ValNumber {
		return 0
	}
	return v.num
}

func (v Value) AsString() string {
	if v.Type != ValString {
		return ""
	}
	return v.str
}

// Type checking helpers

func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsString() bool { return v.Type == ValString }

// Equals compares two values. Values of different kinds are never equal.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValBool:
		return v.b == other.b
	case ValNumber:
		return v.num == other.num
	case ValString:
		return v.str == other.str
	default:
		return false
	}
}

// Equal lets go-cmp compare values.
func (v Value) Equal(other Value) bool {
	return v.Equals(other)
}

// Compare orders two values of the same kind, returning -1, 0 or 1.
// Booleans order false before true. ok is false when the kinds differ
// or either number is NaN.
func (v Value) Compare(other Value) (result int, ok bool) {
	if v.Type != other.Type {
		return 0, false
	}
	switch v.Type {
	case ValBool:
		switch {
		case v.b == other.b:
			return 0, true
		case !v.b:
			return -1, true
		default:
			return 1, true
		}
	case ValNumber:
		switch {
		case math.IsNaN(v.num) || math.IsNaN(other.num):
			return 0, false
		case v.num < other.num:
			return -1, true
		case v.num > other.num:
			return 1, true
		default:
			return 0, true
		}
	case ValString:
		return strings.Compare(v.str, other.str), true
	default:
		return 0, false
	}
}

// String stringifies the value the way to_str and concat do.
func (v Value) String() string {
	switch v.Type {
	case ValBool:
		return strconv.FormatBool(v.b)
	case ValNumber:
		return FormatNumber(v.num)
	case ValString:
		return v.str
	default:
		return ""
	}
}

// Inspect returns a literal-like representation. Strings are wrapped in
// whichever quote character they do not contain, since predicate literals
// have no escapes. A string holding both quotes has no literal form and is
// rendered Go-quoted.
func (v Value) Inspect() string {
	if v.Type != ValString {
		return v.String()
	}
	switch {
	case !strings.Contains(v.str, `"`):
		return `"` + v.str + `"`
	case !strings.Contains(v.str, "'"):
		return "'" + v.str + "'"
	default:
		return strconv.Quote(v.str)
	}
}

// FormatNumber renders integral numbers without a fractional part.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse converts command line and config text into a Value: true/false become
// Booleans, decimal numbers become Numbers and anything else is a String.
func Parse(s string) Value {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Number(f)
	}
	return String(s)
}

// FromInterface converts decoded YAML scalars into a Value.
func FromInterface(x interface{}) (Value, error) {
	switch t := x.(type) {
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case nil:
		return Value{}, fmt.Errorf("null is not a predicate value")
	default:
		return Value{}, fmt.Errorf("unsupported predicate value of type %T", x)
	}
}
