package vm

import (
	"fmt"
	"math"
	"strings"

	"github.com/funvibe/gnos/internal/token"
)

// Disassemble returns a human-readable listing of a term sequence together
// with the stack depth after each term.
func Disassemble(terms []token.Term, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	depth := 0
	for i, term := range terms {
		effect, known := stackEffect(terms, i)
		sb.WriteString(fmt.Sprintf("%04d %4d %-10s %-16s", i, term.Offset, term.Kind, term.Text()))
		if !known {
			sb.WriteString(" depth=?\n")
			// the rest of the listing has no reliable depth
			for j := i + 1; j < len(terms); j++ {
				t := terms[j]
				sb.WriteString(fmt.Sprintf("%04d %4d %-10s %-16s depth=?\n", j, t.Offset, t.Kind, t.Text()))
			}
			break
		}
		depth += effect
		if depth < 0 {
			sb.WriteString(" underflow\n")
			continue
		}
		sb.WriteString(fmt.Sprintf(" depth=%d\n", depth))
	}

	return sb.String()
}

// stackEffect is the net change of stack depth caused by terms[i]. A variadic
// term is only known when its count is the number literal directly before it.
func stackEffect(terms []token.Term, i int) (int, bool) {
	switch terms[i].Kind {
	case token.LITERAL, token.MEMBER:
		return 1, true
	case token.UNARY:
		return 0, true
	case token.BINARY:
		return -1, true
	case token.TERNARY:
		return -2, true
	case token.VARIADIC:
		if i == 0 {
			return 0, false
		}
		prev := terms[i-1]
		if prev.Kind != token.LITERAL || !prev.Value.IsNumber() {
			return 0, false
		}
		n := prev.Value.AsNumber()
		if n < 0 || n != math.Trunc(n) || n > float64(len(terms)) {
			// invalid, or too large for any listing to satisfy
			return 0, false
		}
		// count and n arguments become one result
		return -int(n), true
	default:
		return 0, false
	}
}
