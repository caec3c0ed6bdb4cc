package generators

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/funvibe/gnos/internal/value"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// RandSource wraps math/rand.
type RandSource struct {
	*rand.Rand
}

// ByteSource uses a byte slice as a source of randomness. An exhausted
// source keeps returning 0, which always selects a leaf.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

func (s *ByteSource) Float64() float64 {
	if s.pos >= len(s.data) {
		return 0.0
	}
	v := int(s.data[s.pos])
	s.pos++
	return float64(v) / 255.0
}

// Generator generates well-typed predicates over the context returned by
// Context. Every generated predicate evaluates to a boolean without error.
type Generator struct {
	src   RandomSource
	depth int
}

const (
	MaxDepth    = 5
	MaxVariadic = 4
)

var (
	words      = []string{"", "a", "ar", "blargh", "ful", "OSPF", "10.1.0.1", "it's", `say "hi"`}
	boolRefs   = []string{"options.OSPF", "options.BGP", "link.up"}
	numberRefs = []string{"link.speed"}
	stringRefs = []string{"selection.name", "selection.value", "link.name"}
)

func New(seed int64) *Generator {
	return &Generator{src: &RandSource{rand.New(rand.NewSource(seed))}}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}}
}

// Context is the evaluation context generated predicates refer to.
func Context() value.Context {
	return value.NewContext().
		Set("selection", "name", value.String("blargh")).
		Set("selection", "value", value.String("ful")).
		Set("options", "OSPF", value.Bool(true)).
		Set("options", "BGP", value.Bool(false)).
		Set("link", "up", value.Bool(true)).
		Set("link", "speed", value.Number(100)).
		Set("link", "name", value.String("eth0"))
}

// Intn exposes the random source's Intn method.
func (g *Generator) Intn(n int) int {
	return g.src.Intn(n)
}

// GeneratePredicate returns a predicate that reduces to one boolean.
func (g *Generator) GeneratePredicate() string {
	return strings.Join(g.genBool(), " ")
}

// Quote renders s as a string literal the lexer accepts. Strings holding
// both quote characters cannot be written and are returned with ok false.
func Quote(s string) (lit string, ok bool) {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, true
	case !strings.Contains(s, "'"):
		return "'" + s + "'", true
	default:
		return "", false
	}
}

func (g *Generator) pick(xs []string) string {
	return xs[g.src.Intn(len(xs))]
}

func (g *Generator) word() string {
	for {
		if lit, ok := Quote(g.pick(words)); ok {
			return lit
		}
	}
}

func (g *Generator) enter() bool {
	if g.depth >= MaxDepth {
		return false
	}
	g.depth++
	return true
}

func (g *Generator) leave() { g.depth-- }

func (g *Generator) genBool() []string {
	if !g.enter() {
		return []string{g.pick([]string{"true", "false"})}
	}
	defer g.leave()

	switch g.src.Intn(12) {
	case 0:
		return []string{g.pick([]string{"true", "false"})}
	case 1:
		return []string{g.pick(boolRefs)}
	case 2:
		return append(g.genBool(), "not")
	case 3:
		return concat(g.genBool(), g.genBool(), []string{g.pick([]string{"and", "or"})})
	case 4:
		return concat(g.genNumber(), g.genNumber(), []string{g.pick([]string{"==", "!=", "<", "<=", ">", ">="})})
	case 5:
		return concat(g.genString(), g.genString(), []string{g.pick([]string{"==", "!=", "<", ">"})})
	case 6:
		return concat(g.genString(), []string{g.pick([]string{"is_empty", "is_not_empty"})})
	case 7:
		return concat(g.genString(), g.genString(), []string{g.pick([]string{"contains", "starts_with", "ends_with"})})
	case 8:
		return concat(g.genBool(), g.genBool(), g.genBool(), []string{"if"})
	case 9:
		// mixed kinds are never equal
		return concat(g.genNumber(), g.genString(), []string{"=="})
	case 10:
		return concat(g.genBool(), g.genBool(), []string{"<"})
	default:
		return concat(g.genString(), g.genString(), []string{"2", "concat"}, g.genString(), []string{"!="})
	}
}

func (g *Generator) genNumber() []string {
	if !g.enter() {
		return []string{fmt.Sprint(g.src.Intn(10))}
	}
	defer g.leave()

	switch g.src.Intn(7) {
	case 0:
		return []string{fmt.Sprint(g.src.Intn(200) - 100)}
	case 1:
		return []string{g.pick(numberRefs)}
	case 2:
		return append(g.genString(), "len")
	case 3:
		return concat(g.genNumber(), g.genNumber(), []string{g.pick([]string{"+", "-", "*", "/", "%"})})
	case 4:
		return concat(g.genBool(), g.genNumber(), g.genNumber(), []string{"if"})
	case 5:
		return []string{fmt.Sprintf(`"%d"`, g.src.Intn(1000)), "to_num"}
	default:
		return []string{fmt.Sprint(g.src.Intn(10))}
	}
}

func (g *Generator) genString() []string {
	if !g.enter() {
		return []string{g.word()}
	}
	defer g.leave()

	switch g.src.Intn(8) {
	case 0:
		return []string{g.word()}
	case 1:
		return []string{g.pick(stringRefs)}
	case 2:
		return append(g.genString(), g.pick([]string{"to_upper", "to_lower"}))
	case 3:
		return append(g.genNumber(), "to_str")
	case 4:
		return append(g.genBool(), "to_str")
	case 5:
		return concat(g.genBool(), g.genString(), g.genString(), []string{"if"})
	case 6:
		return g.genVariadic()
	default:
		return []string{g.word()}
	}
}

func (g *Generator) genVariadic() []string {
	n := g.src.Intn(MaxVariadic + 1)
	var out []string
	for i := 0; i < n; i++ {
		switch g.src.Intn(3) {
		case 0:
			out = append(out, g.genNumber()...)
		case 1:
			out = append(out, g.genBool()...)
		default:
			out = append(out, g.genString()...)
		}
	}
	return append(out, fmt.Sprint(n), g.pick([]string{"concat", "log"}))
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
