package lexer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
)

func lit(v value.Value) token.Term { return token.Literal(v) }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Term
	}{
		{"false", "false", []token.Term{lit(value.Bool(false))}},
		{"true", "true", []token.Term{lit(value.Bool(true))}},
		{"several spaces", "false   true", []token.Term{lit(value.Bool(false)), lit(value.Bool(true))}},
		{"number", "42", []token.Term{lit(value.Number(42))}},
		{"negative number", "-7", []token.Term{lit(value.Number(-7))}},
		{"positive number", "+7", []token.Term{lit(value.Number(7))}},
		{"double quoted", `"foo"`, []token.Term{lit(value.String("foo"))}},
		{"single quoted with space", "'foo bar'", []token.Term{lit(value.String("foo bar"))}},
		{"empty string", `""`, []token.Term{lit(value.String(""))}},
		{"other quote inside", `"it's"`, []token.Term{lit(value.String("it's"))}},
		{"unary", "len to_str", []token.Term{token.Unary("len"), token.Unary("to_str")}},
		{"all unary", "is_empty is_not_empty len not to_num to_lower to_str to_upper", []token.Term{
			token.Unary("is_empty"), token.Unary("is_not_empty"), token.Unary("len"), token.Unary("not"),
			token.Unary("to_num"), token.Unary("to_lower"), token.Unary("to_str"), token.Unary("to_upper"),
		}},
		{"binary", "+ ==", []token.Term{token.Binary("+"), token.Binary("==")}},
		{"all symbols", "+ - * / % == != <= >= < >", []token.Term{
			token.Binary("+"), token.Binary("-"), token.Binary("*"), token.Binary("/"), token.Binary("%"),
			token.Binary("=="), token.Binary("!="), token.Binary("<="), token.Binary(">="),
			token.Binary("<"), token.Binary(">"),
		}},
		{"binary keywords", "and or contains ends_with starts_with", []token.Term{
			token.Binary("and"), token.Binary("or"), token.Binary("contains"),
			token.Binary("ends_with"), token.Binary("starts_with"),
		}},
		{"ternary", "if", []token.Term{token.Ternary("if")}},
		{"variadic", "log concat", []token.Term{token.Variadic("log"), token.Variadic("concat")}},
		{"member", "foo.bar", []token.Term{token.Member("foo", "bar")}},
		{"member with digits", "_if0.x_1", []token.Term{token.Member("_if0", "x_1")}},
		{"member starting with keyword", "order.id notes.x", []token.Term{
			token.Member("order", "id"), token.Member("notes", "x"),
		}},
		{"leading and trailing spaces", "  true  ", []token.Term{lit(value.Bool(true))}},
		{"empty", "", nil},
		{"only spaces", "   ", nil},
		{"map predicate", "options.OSPF '10.1.0.1' selection.name == and", []token.Term{
			token.Member("options", "OSPF"),
			lit(value.String("10.1.0.1")),
			token.Member("selection", "name"),
			token.Binary("=="),
			token.Binary("and"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenize_Offsets(t *testing.T) {
	terms, err := Tokenize(` "a b"  len  3 ==`)
	require.NoError(t, err)
	require.Len(t, terms, 4)

	offsets := []int{terms[0].Offset, terms[1].Offset, terms[2].Offset, terms[3].Offset}
	assert.Equal(t, []int{1, 8, 13, 15}, offsets)
}

func TestTokenize_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		code   diagnostics.ErrorCode
		offset int
	}{
		{"bare identifier", "foo", diagnostics.ErrS001, 0},
		{"triple star", "false *** true", diagnostics.ErrS002, 7},
		{"missing space", "1 2+", diagnostics.ErrS002, 3},
		{"tokens glued", `"a""b"`, diagnostics.ErrS002, 3},
		{"keyword glued to number", "true5", diagnostics.ErrS001, 0},
		{"triple equals", "1 1 ===", diagnostics.ErrS002, 6},
		{"unterminated string", `"foo`, diagnostics.ErrS001, 0},
		{"newline in string", "'a\nb'", diagnostics.ErrS001, 0},
		{"tab separator", "true\tfalse", diagnostics.ErrS002, 4},
		{"bang", "true !", diagnostics.ErrS001, 5},
		{"single equals", "1 1 =", diagnostics.ErrS001, 4},
		{"member without member", "foo.", diagnostics.ErrS001, 0},
		{"member with two dots", "a.b.c", diagnostics.ErrS002, 3},
		{"decimal", "1.5", diagnostics.ErrS002, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := Tokenize(tt.input)
			require.Error(t, err)
			assert.Nil(t, terms)

			var se *diagnostics.SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.offset, se.Offset)
			assert.Equal(t, tt.input, se.Source)
		})
	}
}

func TestTokenize_LongestSymbolFirst(t *testing.T) {
	for _, op := range []string{"<=", ">=", "==", "!="} {
		terms, err := Tokenize(op)
		require.NoError(t, err, op)
		require.Len(t, terms, 1, op)
		assert.Equal(t, token.BINARY, terms[0].Kind)
		assert.Equal(t, op, terms[0].Op)
	}
}

func TestTokenize_SignedNumberBeforeMinus(t *testing.T) {
	terms, err := Tokenize("5 -3 - -")
	require.NoError(t, err)
	want := []token.Term{lit(value.Number(5)), lit(value.Number(-3)), token.Binary("-"), token.Binary("-")}
	if diff := cmp.Diff(want, terms); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNextTerm(t *testing.T) {
	l := New("contains")
	term, err := l.NextTerm()
	require.NoError(t, err)
	assert.True(t, term.Equal(token.Binary("contains")))
	assert.True(t, l.atEnd())
}

// The word boundary on keywords is a deliberate widening: a regex alternation
// that tries `or` and `not` first would reject these sources, this lexer reads
// them as member references.
func TestTokenize_KeywordPrefixedTargets(t *testing.T) {
	tests := []struct {
		input string
		want  token.Term
	}{
		{"order.id", token.Member("order", "id")},
		{"notes.x", token.Member("notes", "x")},
		{"iffy.a", token.Member("iffy", "a")},
		{"truely.b", token.Member("truely", "b")},
		{"len.c", token.Member("len", "c")},
		{"and.or", token.Member("and", "or")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			terms, err := Tokenize(tt.input)
			require.NoError(t, err)
			require.Len(t, terms, 1)
			assert.True(t, terms[0].Equal(tt.want), "got %s", terms[0])
		})
	}

	// a keyword followed by a space is still the keyword
	terms, err := Tokenize("true not")
	require.NoError(t, err)
	assert.Equal(t, token.UNARY, terms[1].Kind)
}

func TestTokenize_NumberOutOfRange(t *testing.T) {
	huge := strings.Repeat("9", 400)
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"unsigned", huge, 0},
		{"plus sign", "+" + huge, 0},
		{"minus sign", "-" + huge, 0},
		{"after another term", "1 " + huge + " ==", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var se *diagnostics.SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, diagnostics.ErrS003, se.Code)
			assert.Equal(t, tt.offset, se.Offset)
			assert.Contains(t, se.Msg, "is out of range")
		})
	}

	// large but finite literals are fine
	terms, err := Tokenize(strings.Repeat("9", 300))
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.True(t, terms[0].Value.IsNumber())
}

// Text renders string literals with the quote they do not contain, so the
// rendering tokenizes back to the same term.
func TestTokenize_TextRoundTrip(t *testing.T) {
	for _, input := range []string{`'say "hi"'`, `"it's"`, "'tab\there'", `"C:\dir"`, `''`} {
		terms, err := Tokenize(input)
		require.NoError(t, err, input)
		require.Len(t, terms, 1)

		text := terms[0].Text()
		again, err := Tokenize(text)
		require.NoError(t, err, "Text() = %s", text)
		require.Len(t, again, 1)
		assert.True(t, again[0].Equal(terms[0]), "%s -> %s -> %s", input, text, again[0])
	}
}
