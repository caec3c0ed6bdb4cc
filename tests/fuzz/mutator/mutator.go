package mutator

import (
	"math/rand"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
)

// TermMutator applies random mutations to a term sequence.
type TermMutator struct {
	rnd *rand.Rand
}

// NewTermMutator creates a new TermMutator with the given seed.
func NewTermMutator(seed int64) *TermMutator {
	return &TermMutator{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Mutate returns a mutated copy of terms. The input is not modified.
func (m *TermMutator) Mutate(terms []token.Term) []token.Term {
	out := append([]token.Term(nil), terms...)
	if len(out) == 0 {
		return append(out, m.randomTerm())
	}

	idx := m.rnd.Intn(len(out))
	switch m.rnd.Intn(6) {
	case 0: // drop
		return append(out[:idx], out[idx+1:]...)
	case 1: // duplicate
		out = append(out, token.Term{})
		copy(out[idx+1:], out[idx:])
		return out
	case 2: // swap with a neighbour
		if idx+1 < len(out) {
			out[idx], out[idx+1] = out[idx+1], out[idx]
		}
		return out
	case 3: // replace an operator with one of another arity
		out[idx] = m.randomOperator()
		return out
	case 4: // replace with a literal of a random kind
		out[idx] = token.Literal(m.randomValue())
		return out
	default: // insert
		out = append(out, token.Term{})
		copy(out[idx+1:], out[idx:])
		out[idx] = m.randomTerm()
		return out
	}
}

func (m *TermMutator) randomTerm() token.Term {
	switch m.rnd.Intn(3) {
	case 0:
		return m.randomOperator()
	case 1:
		return token.Member(m.pick([]string{"selection", "options", "link", "nowhere"}),
			m.pick([]string{"name", "value", "OSPF", "missing"}))
	default:
		return token.Literal(m.randomValue())
	}
}

func (m *TermMutator) randomOperator() token.Term {
	switch m.rnd.Intn(4) {
	case 0:
		return token.Unary(m.pick(config.UnaryOperators))
	case 1:
		ops := append(append([]string(nil), config.BinarySymbols...), config.BinaryKeywords...)
		return token.Binary(m.pick(ops))
	case 2:
		return token.Ternary(m.pick(config.TernaryOperators))
	default:
		return token.Variadic(m.pick(config.VariadicOperators))
	}
}

func (m *TermMutator) randomValue() value.Value {
	switch m.rnd.Intn(3) {
	case 0:
		return value.Bool(m.rnd.Intn(2) == 0)
	case 1:
		return value.Number(float64(m.rnd.Intn(7) - 2))
	default:
		return value.String(m.pick([]string{"", "x", "12", "blargh"}))
	}
}

func (m *TermMutator) pick(xs []string) string {
	return xs[m.rnd.Intn(len(xs))]
}
