package parser

// TokenStream is a cursor over the fully lexed token slice. Whitespace and
// comment tokens live on a hidden channel: lookahead and consumption skip
// them unless the channel has been made visible, which the chunk scanner does
// while it captures raw text. Mark/Rewind give the speculative lookahead
// engine its unconditional rewind.
type TokenStream struct {
	tokens        []Token
	pos           int
	last          Token
	hiddenVisible bool
}

// Tokenize lexes the whole input up front and wraps it in a stream. The final
// token is always EOF.
func Tokenize(input []byte, file string) *TokenStream {
	lexer := NewLexer(input, file)
	var tokens []Token
	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	return NewTokenStream(tokens)
}

func NewTokenStream(tokens []Token) *TokenStream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}
	return &TokenStream{tokens: tokens}
}

// index returns the slice index of the n-th lookahead token (n >= 1),
// honoring the current channel visibility.
func (s *TokenStream) index(n int) int {
	i := s.pos
	for {
		if i >= len(s.tokens)-1 {
			return len(s.tokens) - 1
		}
		if !s.hiddenVisible && s.tokens[i].Kind.IsTrivia() {
			i++
			continue
		}
		n--
		if n == 0 {
			return i
		}
		i++
	}
}

func (s *TokenStream) LT(n int) Token {
	return s.tokens[s.index(n)]
}

func (s *TokenStream) LA(n int) TokenKind {
	return s.LT(n).Kind
}

// Consume returns the next visible token and moves the cursor past it.
// Consuming at EOF returns the EOF token without moving.
func (s *TokenStream) Consume() Token {
	i := s.index(1)
	tok := s.tokens[i]
	if tok.Kind != TokenEOF {
		s.pos = i + 1
		s.last = tok
	}
	return tok
}

// Last is the most recently consumed token, used to stamp end offsets.
func (s *TokenStream) Last() Token {
	return s.last
}

func (s *TokenStream) Mark() int {
	return s.pos
}

// Rewind moves the cursor back to a mark taken earlier. The last-consumed
// token is restored along with the position, so end offsets stamped after a
// rewound trial never come from tokens past the cursor.
func (s *TokenStream) Rewind(mark int) {
	s.pos = mark
	if mark > 0 {
		s.last = s.tokens[mark-1]
	} else {
		s.last = Token{}
	}
}

// SetHiddenVisible toggles trivia visibility and returns the previous state
// so callers can restore it symmetrically.
func (s *TokenStream) SetHiddenVisible(visible bool) bool {
	prev := s.hiddenVisible
	s.hiddenVisible = visible
	return prev
}

func (s *TokenStream) HiddenVisible() bool {
	return s.hiddenVisible
}
