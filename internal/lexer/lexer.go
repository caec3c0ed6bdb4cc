// Package lexer turns predicate source into postfix terms.
//
// Matching is an ordered list of independent matchers tried at the current
// offset; the first one that matches wins. Tokens must be separated by spaces.
package lexer

import (
	"strconv"
	"strings"

	"github.com/funvibe/gnos/internal/config"
	"github.com/funvibe/gnos/internal/diagnostics"
	"github.com/funvibe/gnos/internal/token"
	"github.com/funvibe/gnos/internal/value"
)

// matcher tries to match a token at the start of rest. It returns the number
// of bytes consumed and the term, or n == 0 when it does not match. A negative
// n claims the input but rejects it: the token has the right shape and an
// invalid value, and no later matcher may reinterpret it.
type matcher func(rest string) (n int, term token.Term)

// matchers in priority order. Literals and keywords come before member
// references; symbols are tried longest first.
var matchers = []matcher{
	matchBool,
	matchNumber,
	matchString,
	matchKeywords(config.UnaryOperators, token.Unary),
	matchSymbols(config.BinarySymbols, token.Binary),
	matchKeywords(config.BinaryKeywords, token.Binary),
	matchKeywords(config.TernaryOperators, token.Ternary),
	matchKeywords(config.VariadicOperators, token.Variadic),
	matchMember,
}

type Lexer struct {
	input    string
	position int // current byte offset in input
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize converts source into terms, failing with a *diagnostics.SyntaxError.
func Tokenize(source string) ([]token.Term, error) {
	return New(source).Tokenize()
}

// Tokenize consumes the whole input.
func (l *Lexer) Tokenize() ([]token.Term, error) {
	var terms []token.Term
	l.skipWhitespace()
	for !l.atEnd() {
		start := l.position
		term, err := l.NextTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		if l.atEnd() {
			break
		}
		if l.skipWhitespace() == 0 {
			return nil, diagnostics.NewSyntaxError(diagnostics.ErrS002, l.input, l.position, l.input[start:l.position])
		}
	}
	return terms, nil
}

// NextTerm matches a single term at the current position.
func (l *Lexer) NextTerm() (token.Term, error) {
	rest := l.input[l.position:]
	for _, m := range matchers {
		n, term := m(rest)
		if n < 0 {
			return token.Term{}, diagnostics.NewSyntaxError(diagnostics.ErrS003, l.input, l.position, rest[:-n])
		}
		if n > 0 {
			term.Offset = l.position
			l.position += n
			return term, nil
		}
	}
	return token.Term{}, diagnostics.NewSyntaxError(diagnostics.ErrS001, l.input, l.position, firstRune(rest))
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// skipWhitespace consumes spaces and returns how many it skipped.
func (l *Lexer) skipWhitespace() int {
	start := l.position
	for l.position < len(l.input) && l.input[l.position] == ' ' {
		l.position++
	}
	return l.position - start
}

func matchBool(rest string) (int, token.Term) {
	switch {
	case hasWord(rest, config.TrueKeyword):
		return len(config.TrueKeyword), token.Literal(value.Bool(true))
	case hasWord(rest, config.FalseKeyword):
		return len(config.FalseKeyword), token.Literal(value.Bool(false))
	}
	return 0, token.Term{}
}

// matchNumber matches an optional sign followed by decimal digits.
func matchNumber(rest string) (int, token.Term) {
	i := 0
	if i < len(rest) && (rest[i] == '+' || rest[i] == '-') {
		i++
	}
	digits := i
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i == digits {
		return 0, token.Term{}
	}
	f, err := strconv.ParseFloat(rest[:i], 64)
	if err != nil {
		// beyond float64 range
		return -i, token.Term{}
	}
	return i, token.Literal(value.Number(f))
}

// matchString matches a single or double quoted run without line breaks.
func matchString(rest string) (int, token.Term) {
	if rest == "" || (rest[0] != '\'' && rest[0] != '"') {
		return 0, token.Term{}
	}
	quote := rest[0]
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case quote:
			return i + 1, token.Literal(value.String(rest[1:i]))
		case '\n', '\r':
			return 0, token.Term{}
		}
	}
	return 0, token.Term{}
}

func matchKeywords(words []string, build func(string) token.Term) matcher {
	return func(rest string) (int, token.Term) {
		for _, w := range words {
			if hasWord(rest, w) {
				return len(w), build(w)
			}
		}
		return 0, token.Term{}
	}
}

func matchSymbols(symbols []string, build func(string) token.Term) matcher {
	return func(rest string) (int, token.Term) {
		for _, s := range symbols {
			if strings.HasPrefix(rest, s) {
				return len(s), build(s)
			}
		}
		return 0, token.Term{}
	}
}

// matchMember matches identifier "." identifier.
func matchMember(rest string) (int, token.Term) {
	target := identLen(rest)
	if target == 0 || target >= len(rest) || rest[target] != '.' {
		return 0, token.Term{}
	}
	member := identLen(rest[target+1:])
	if member == 0 {
		return 0, token.Term{}
	}
	end := target + 1 + member
	return end, token.Member(rest[:target], rest[target+1:end])
}

// identLen returns the length of the identifier at the start of s.
func identLen(s string) int {
	if s == "" || !isIdentStart(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return i
}

// hasWord reports whether s starts with the keyword w and the keyword is not
// the prefix of a longer identifier or of a member reference.
func hasWord(s, w string) bool {
	if !strings.HasPrefix(s, w) {
		return false
	}
	if len(s) == len(w) {
		return true
	}
	next := s[len(w)]
	return !isIdentChar(next) && next != '.'
}

func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
