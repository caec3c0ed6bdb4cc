package vm

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/funvibe/gnos/internal/lexer"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
)

func selectionContext() value.Context {
	return value.NewContext().
		Set("selection", "name", value.String("blargh")).
		Set("selection", "value", value.String("ful"))
}

func tokenize(t *testing.T, input string) []token.Term {
	t.Helper()
	terms, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lexer error: %s", err)
	}
	return terms
}

func runVM(t *testing.T, input string) bool {
	t.Helper()
	result, err := New().Evaluate(tokenize(t, input), selectionContext())
	if err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return result
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`"foo" is_empty`, false},
		{`"foo" is_empty not`, true},
		{`"foo" len 3 ==`, true},
		{`"4" to_num 1 - 3 ==`, true},
		{`"foo" is_empty 23 45 if 45 ==`, true},
		{`selection.value "ful" ==`, true},
		{`true`, true},
		{`false`, false},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_Unary(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`"" is_empty`, true},
		{`"" is_not_empty`, false},
		{`"x" is_not_empty`, true},
		{`"héllo" len 5 ==`, true},
		{`"" len 0 ==`, true},
		{`true not`, false},
		{`" 12 " to_num 12 ==`, true},
		{`"-3" to_num -3 ==`, true},
		{`"1e3" to_num 1000 ==`, true},
		{`"MiXeD" to_lower "mixed" ==`, true},
		{`"MiXeD" to_upper "MIXED" ==`, true},
		{`42 to_str "42" ==`, true},
		{`true to_str "true" ==`, true},
		{`"s" to_str "s" ==`, true},
		{`1 3 / to_str "0.3333333333333333" ==`, true},
		{`1 0 / to_str "Infinity" ==`, true},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_Arithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`1 2 + 3 ==`, true},
		{`10 4 - 6 ==`, true},
		{`4 10 - -6 ==`, true},
		{`6 7 * 42 ==`, true},
		{`7 2 / 35 10 / ==`, true}, // 3.5 == 3.5
		{`7 3 % 1 ==`, true},
		{`-7 3 % -1 ==`, true},
		{`"25" to_num "12.5" to_num / 2 ==`, true},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_Comparison(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`1 1 ==`, true},
		{`1 "1" ==`, false},
		{`true "true" ==`, false},
		{`1 "1" !=`, true},
		{`"a" "a" !=`, false},
		{`1 2 <`, true},
		{`2 1 <`, false},
		{`2 2 <=`, true},
		{`3 2 >=`, true},
		{`"abc" "abd" <`, true},
		{`false true <`, true},
		{`0 0 / 0 0 / ==`, false},
		{`0 0 / 1 <`, false},
		{`0 0 / 1 >=`, false},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

// One historical revision of this language computed > as >=. The operator is
// strict here.
func TestEvaluate_GreaterIsStrict(t *testing.T) {
	assert.True(t, runVM(t, `3 2 >`))
	assert.False(t, runVM(t, `2 2 >`), "2 > 2 must be false")
	assert.False(t, runVM(t, `1 2 >`))
	assert.False(t, runVM(t, `"a" "a" >`))
}

func TestEvaluate_Logic(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`true true and`, true},
		{`true false and`, false},
		{`false false or`, false},
		{`false true or`, true},
		{`true false or not`, false},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_StringOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`"ar" selection.name contains`, true},
		{`"zz" selection.name contains`, false},
		{`"" selection.name contains`, true},
		{`"bla" selection.name starts_with`, true},
		{`"argh" selection.name starts_with`, false},
		{`"argh" selection.name ends_with`, true},
		{`"bla" selection.name ends_with`, false},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_If(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`true 1 2 if 1 ==`, true},
		{`false 1 2 if 2 ==`, true},
		{`true "a" 2 if "a" ==`, true},
		{`selection.name "blargh" == true false if`, true},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_Concat(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`"a" "b" "c" 3 concat "abc" ==`, true},
		{`0 concat "" ==`, true},
		{`selection.name "-" 1 true 4 concat "blargh-1true" ==`, true},
		{`"x" 1 concat "y" ==`, false},
	}

	for _, tt := range tests {
		if got := runVM(t, tt.input); got != tt.expected {
			t.Errorf("%s: got=%v, want=%v", tt.input, got, tt.expected)
		}
	}
}

func TestEvaluate_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := New(WithLogger(zap.New(core)))

	ok, err := m.Evaluate(tokenize(t, `"sel" selection.name 2 log "sel blargh" ==`), selectionContext())
	require.NoError(t, err)
	assert.True(t, ok)

	entries := logs.FilterMessage("sel blargh").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, []interface{}{"sel", "blargh"}, fields["predicate.args"])
	assert.EqualValues(t, 3, fields["predicate.term"])
}

func TestEvaluate_EmptyTerms(t *testing.T) {
	_, err := New().Evaluate(nil, selectionContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value")
}

func TestEvaluate_ContextNotMutated(t *testing.T) {
	ctx := selectionContext()
	before := ctx.Clone()
	_, err := New().Evaluate(tokenize(t, `selection.name to_upper "BLARGH" ==`), ctx)
	require.NoError(t, err)
	assert.Equal(t, before, ctx)
}

func TestEvaluate_Concurrent(t *testing.T) {
	m := New()
	terms := tokenize(t, `selection.name len 6 == selection.value "ful" == and`)
	ctx := selectionContext()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ok, err := m.Evaluate(terms, ctx)
				if err != nil || !ok {
					t.Errorf("got=%v, err=%v", ok, err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestDisassemble(t *testing.T) {
	out := Disassemble(tokenize(t, `"a" "b" 2 concat len 2 ==`), "pred")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "== pred ==", lines[0])
	assert.Contains(t, lines[4], "VariadicOp")
	assert.True(t, strings.HasSuffix(lines[4], "depth=1"), lines[4])
	assert.True(t, strings.HasSuffix(lines[7], "depth=1"), lines[7])
}

func TestDisassemble_Underflow(t *testing.T) {
	out := Disassemble(tokenize(t, `1 ==`), "bad")
	assert.Contains(t, out, "underflow")
}

func TestDisassemble_UnknownCount(t *testing.T) {
	out := Disassemble(tokenize(t, `"a" selection.name len concat`), "dyn")
	assert.Contains(t, out, "depth=?")
}

func TestDisassemble_HugeCount(t *testing.T) {
	out := Disassemble(tokenize(t, `"a" 123456789012345678901234 concat`), "huge")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[3], "depth=?"), lines[3])
}

func TestLookup(t *testing.T) {
	code, ok := Lookup("starts_with")
	assert.True(t, ok)
	assert.Equal(t, OP_STARTS_WITH, code)

	_, ok = Lookup("xor")
	assert.False(t, ok)
}
