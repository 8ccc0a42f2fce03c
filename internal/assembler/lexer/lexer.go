// Package lexer tokenizes ASS assembly text into the token vocabulary
// defined by package token, per spec.md §4.8.
package lexer

import (
	"strings"
	"unicode"

	"github.com/an0nymoos3/nid-compiler/internal/assembler/token"
	"github.com/an0nymoos3/nid-compiler/internal/diag"
)

// Lexer tokenizes ASS assembly text, following the same char-at-a-time
// shape as the NID lexer (internal/compiler/lexer), adapted to ASS's
// register/amode/numeric/routine-name vocabulary.
type Lexer struct {
	input    string
	filename string
	pos      int
	line     int
	column   int
	ch       rune
}

// New creates a lexer over input. Lines starting a `;` comment are
// truncated first (spec.md §4.8: "strips ; line comments").
func New(input, filename string) *Lexer {
	l := &Lexer{input: stripComments(input), filename: filename, line: 1}
	l.readChar()
	return l
}

func stripComments(input string) string {
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, ";"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = rune(l.input[l.pos])
	}
	l.pos++
	l.column++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return rune(l.input[l.pos])
}

func (l *Lexer) pos2() diag.Position {
	return diag.Position{Filename: l.filename, Line: l.line, Column: l.column}
}

// TokenizeAll lexes the entire input. ASS has no Eof token kind; the
// returned queue simply ends when input is exhausted.
func (l *Lexer) TokenizeAll() ([]token.Token, error) {
	var tokens []token.Token
	for l.ch != 0 {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok != nil {
			tokens = append(tokens, *tok)
		}
	}
	return tokens, nil
}

func (l *Lexer) next() (*token.Token, error) {
	ch := l.ch

	switch {
	case ch == '\n':
		l.readChar()
		return &token.Token{Kind: token.Eol}, nil
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == ',':
		l.readChar()
		return nil, nil
	case ch == 'a' && unicode.IsDigit(l.peekChar()):
		l.readChar()
		return &token.Token{Kind: token.Amode, Value: l.readDigits()}, nil
	case ch == 'r' && unicode.IsDigit(l.peekChar()):
		l.readChar()
		return &token.Token{Kind: token.Register, Value: l.readDigits()}, nil
	case ch == '-' && unicode.IsDigit(l.peekChar()):
		l.readChar()
		return &token.Token{Kind: token.Numeric, Value: "-" + l.readDigits()}, nil
	case unicode.IsDigit(ch):
		return &token.Token{Kind: token.Numeric, Value: l.readDigits()}, nil
	case isIdentStart(ch):
		word := l.readIdentifier()
		if l.ch == ':' {
			l.readChar()
			return &token.Token{Kind: token.RoutineName, Value: word + ":"}, nil
		}
		if token.Mnemonics[word] {
			return &token.Token{Kind: token.Operation, Value: word}, nil
		}
		return &token.Token{Kind: token.RoutineName, Value: word}, nil
	default:
		pos := l.pos2()
		l.readChar()
		return nil, diag.New(diag.Lex, pos, "unknown character "+string(ch))
	}
}

func (l *Lexer) readDigits() string {
	var sb strings.Builder
	for unicode.IsDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for isIdentStart(l.ch) || unicode.IsDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return sb.String()
}

// isIdentStart allows '#' so generated labels (spec.md §4.6) lex as
// ordinary RoutineName identifiers.
func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_' || ch == '#'
}
