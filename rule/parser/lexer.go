package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer turns rule-language source into tokens. Every byte of the input ends
// up in exactly one token's literal, including whitespace and comments, so
// that concatenating consecutive token literals reproduces the source. The
// chunk scanner depends on this.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos, 2)
	}
	if ch == '#' {
		return l.scanLineComment(startPos, 1)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
		return l.scanWhitespace(startPos)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}
	if ch >= utf8.RuneSelf {
		if r, _ := utf8.DecodeRune(l.input[l.pos:]); unicode.IsLetter(r) {
			return l.scanIdentOrKeyword(startPos)
		}
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '"' || ch == '\'' {
		return l.scanString(startPos, ch)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.advance()
		} else {
			break
		}
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position, markerLen int) Token {
	l.advanceN(markerLen)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.peek() == 0 {
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenBlockComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	l.scanIdentTail()
	word := string(l.input[start.Offset:l.pos])

	// Attribute keywords like "agenda-group" span a hyphen. Extend the word
	// only when the whole joined sequence is a known keyword; otherwise the
	// hyphen stays a separate token.
	if l.peek() == '-' && isIdentStart(l.peekN(1)) {
		savedPos, savedLine, savedColumn := l.pos, l.line, l.column
		joined := word
		for l.peek() == '-' && isIdentStart(l.peekN(1)) {
			l.advance()
			wordStart := l.pos
			l.scanIdentTail()
			joined += "-" + string(l.input[wordStart:l.pos])
			if kind, ok := hyphenatedKeywords[joined]; ok {
				return Token{
					Kind:    kind,
					Span:    Span{Start: start, End: l.Position()},
					Literal: joined,
				}
			}
		}
		l.pos, l.line, l.column = savedPos, savedLine, savedColumn
	}

	return Token{
		Kind:    LookupKeyword(word),
		Span:    Span{Start: start, End: l.Position()},
		Literal: word,
	}
}

func (l *Lexer) scanNumber(start Position) Token {
	isFloat := false
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	kind := TokenInt
	if isFloat {
		kind = TokenFloat
	}
	return l.token(kind, start)
}

func (l *Lexer) scanString(start Position, quote byte) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
	return l.token(TokenString, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '.':
		l.advance()
		return l.token(TokenDot, start)
	case ':':
		l.advance()
		return l.token(TokenColon, start)
	case '@':
		l.advance()
		return l.token(TokenAt, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)
	case '+':
		l.advance()
		return l.token(TokenPlus, start)
	case '*':
		l.advance()
		return l.token(TokenStar, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)
	case '%':
		l.advance()
		return l.token(TokenPercent, start)

	case '-':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenMinus, start)

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		l.advance()
		return l.token(TokenBang, start)

	case '<':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenDoubleAmp, start)
		}
		l.advance()
		return l.token(TokenAmp, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenDoublePipe, start)
		}
		l.advance()
		return l.token(TokenPipe, start)
	}

	l.advance()
	return l.token(TokenMisc, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// scanIdentTail consumes identifier characters, decoding whole runes so that
// non-ASCII letters and digits stay inside a single identifier token.
func (l *Lexer) scanIdentTail() {
	for {
		ch := l.peek()
		if ch < utf8.RuneSelf {
			if !isIdentPart(ch) {
				return
			}
			l.advance()
			continue
		}
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return
		}
		l.advanceN(size)
	}
}
