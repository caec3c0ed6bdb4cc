package diagnostics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxError(t *testing.T) {
	err := NewSyntaxError(ErrS001, "true foo", 5, "f")
	assert.Equal(t, `syntax error [S001] at offset 5 in "true foo": unexpected character "f"`, err.Error())
	assert.Equal(t, "true foo\n     ^", err.Caret())
}

func TestEvalError(t *testing.T) {
	err := NewEvalError(ErrE003, 0, "link.up", "link")
	assert.Equal(t, `eval error [E003] at term 0 (link.up): unknown target "link"`, err.Error())

	final := NewEvalError(ErrE006, -1, "", "expression produced no value")
	assert.Equal(t, "eval error [E006]: expression produced no value", final.Error())
}

func TestUnknownCodeUsesCode(t *testing.T) {
	err := NewEvalError(ErrorCode("X999"), 1, "t")
	assert.Equal(t, "X999", err.Msg)
}

func TestClassification(t *testing.T) {
	syntax := NewSyntaxError(ErrS002, "1 2+", 3, "2")
	eval := NewEvalError(ErrE001, 0, "not", "not", 1)
	wrapped := fmt.Errorf("entities[0]: %w", eval)

	assert.True(t, IsSyntax(syntax))
	assert.False(t, IsEval(syntax))
	assert.True(t, IsEval(wrapped))
	assert.False(t, IsSyntax(wrapped))

	assert.Equal(t, ErrS002, CodeOf(syntax))
	assert.Equal(t, ErrE001, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
