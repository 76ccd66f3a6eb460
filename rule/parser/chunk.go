package parser

import "strings"

// The chunk scanner captures a balanced bracketed region verbatim for
// constructs the parser does not interpret: predicate bodies, return-value
// expressions, function and accumulate bodies, call arguments. While a chunk
// is scanned the trivia channel is made visible so whitespace and comments
// are re-emitted into the captured text; the previous visibility is restored
// on the way out. The returned string is byte-for-byte the source substring
// including both delimiters.

func (p *Parser) parenChunk() string {
	return p.chunk(TokenLParen, TokenRParen)
}

func (p *Parser) curlyChunk() string {
	return p.chunk(TokenLBrace, TokenRBrace)
}

func (p *Parser) squareChunk() string {
	return p.chunk(TokenLBracket, TokenRBracket)
}

func (p *Parser) chunk(open, close TokenKind) string {
	openTok, ok := p.match(open)
	if !ok {
		return ""
	}
	prev := p.stream.SetHiddenVisible(true)
	var sb strings.Builder
	sb.WriteString(openTok.Literal)
	p.chunkRest(&sb, open, close)
	p.stream.SetHiddenVisible(prev)
	return sb.String()
}

// chunkRest consumes up to and including the matching close delimiter.
// Nesting depth is tracked by recursion: a nested open delimiter of the same
// kind recurses instead of bumping a counter.
func (p *Parser) chunkRest(sb *strings.Builder, open, close TokenKind) {
	for {
		switch p.stream.LA(1) {
		case open:
			sb.WriteString(p.stream.Consume().Literal)
			p.chunkRest(sb, open, close)
		case close:
			sb.WriteString(p.stream.Consume().Literal)
			p.matched()
			return
		case TokenEOF:
			p.syntaxError(MismatchedToken, p.stream.LT(1),
				"unexpected end of input, expected "+close.String())
			return
		default:
			sb.WriteString(p.stream.Consume().Literal)
		}
	}
}

// innerText strips the enclosing delimiters from a captured chunk.
func innerText(chunk string) string {
	if len(chunk) >= 2 {
		return chunk[1 : len(chunk)-1]
	}
	return ""
}

// checkTrailingSemicolon rejects a chunk whose code ends in ";". The check
// runs during parsing, so it reports through the collector like any other
// syntax problem.
func (p *Parser) checkTrailingSemicolon(content string, at Token) {
	if strings.HasSuffix(strings.TrimSpace(content), ";") {
		p.syntaxError(GeneralParseError, at, "trailing semi-colon not allowed")
	}
}
