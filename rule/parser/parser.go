// Package parser implements the hand-written recursive-descent parser for the
// rule language. It consumes a TokenStream and produces a descr.PackageDescr
// plus an ordered list of parse errors; a syntax error never aborts the whole
// parse.
package parser

import (
	"fmt"
	"strings"

	"github.com/dhamidi/drl/rule/descr"
)

type Option func(*Parser)

// WithSource sets the source name used in token positions and error messages.
func WithSource(name string) Option {
	return func(p *Parser) {
		p.source = name
	}
}

// Parser owns one in-progress parse: the token stream cursor, the error
// collector, the descriptor factory, and the speculation state. Instances are
// not safe for concurrent use; parse multiple inputs with one Parser each.
type Parser struct {
	source  string
	stream  *TokenStream
	factory *descr.Factory
	errors  *ErrorCollector

	// speculating counts nested speculative trials; while it is non-zero a
	// mismatch sets failed instead of reporting an error, and nothing is
	// allowed to reach the package under construction.
	speculating int
	failed      bool

	pkg               *descr.PackageDescr
	packageAttributes []*descr.AttributeDescr
}

func New(input []byte, opts ...Option) *Parser {
	p := &Parser{
		source:  "<input>",
		factory: descr.NewFactory(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stream = Tokenize(input, p.source)
	p.errors = NewErrorCollector(p.source)
	return p
}

// NewFromStream parses an externally produced token stream.
func NewFromStream(stream *TokenStream, opts ...Option) *Parser {
	p := &Parser{
		source:  "<input>",
		stream:  stream,
		factory: descr.NewFactory(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.errors = NewErrorCollector(p.source)
	return p
}

func (p *Parser) Errors() []*ParseError {
	return p.errors.Errors()
}

func (p *Parser) HasErrors() bool {
	return p.errors.HasErrors()
}

var statementStart = []TokenKind{
	TokenPackage, TokenImport, TokenGlobal, TokenFunction,
	TokenTemplate, TokenRule, TokenQuery,
}

// ParseCompilationUnit parses the whole input: an optional package
// declaration, optional package-level attribute defaults, then statements
// until EOF. It always returns a package descriptor; callers must consult
// Errors before compiling further.
func (p *Parser) ParseCompilationUnit() *descr.PackageDescr {
	pkg := p.factory.NewPackageDescr()
	p.pkg = pkg
	p.begin(pkg)

	if p.stream.LA(1) == TokenPackage {
		p.packageStatement()
	}
	p.packageAttributeList()

	for p.stream.LA(1) != TokenEOF {
		mark := p.stream.Mark()
		p.statement()
		if p.stream.Mark() == mark {
			p.stream.Consume()
		}
	}

	p.end(pkg)
	return pkg
}

func (p *Parser) statement() {
	switch p.stream.LA(1) {
	case TokenPackage:
		// A stray second package declaration; the name is ignored because
		// PackageDescr.SetName only takes the first.
		p.packageStatement()
	case TokenImport:
		if p.trySpeculative(func() {
			p.match(TokenImport)
			p.match(TokenFunction)
			p.matchIdent()
		}) {
			p.functionImportStatement()
		} else {
			p.importStatement()
		}
	case TokenGlobal:
		p.globalStatement()
	case TokenFunction:
		p.functionStatement()
	case TokenTemplate:
		p.templateStatement()
	case TokenRule:
		p.ruleStatement()
	case TokenQuery:
		p.queryStatement()
	default:
		tok := p.stream.LT(1)
		p.syntaxError(NoViableAlternative, tok,
			fmt.Sprintf("no viable alternative at input %q", tok.Literal))
		p.recoverTo(statementStart...)
	}
}

func (p *Parser) packageStatement() {
	p.match(TokenPackage)
	name, ok := p.dottedName()
	if ok {
		p.pkg.SetName(name)
	}
	p.accept(TokenSemicolon)
}

// packageAttributeList parses bare attributes declared before any rule. They
// become defaults for all subsequent rules until a rule re-specifies the same
// attribute.
func (p *Parser) packageAttributeList() {
	if p.stream.LA(1) == TokenAttributes {
		p.stream.Consume()
		p.matched()
		p.accept(TokenColon)
	}
	for p.isAttributeStart() {
		a := p.attribute()
		p.pkg.AddAttribute(a)
		p.packageAttributes = append(p.packageAttributes, a)
		p.accept(TokenComma)
	}
}

func (p *Parser) isAttributeStart() bool {
	switch p.stream.LA(1) {
	case TokenSalience, TokenNoLoop, TokenAgendaGroup, TokenActivationGroup,
		TokenRuleflowGroup, TokenDuration, TokenDialect, TokenLockOnActive,
		TokenAutoFocus, TokenEnabled, TokenDateEffective, TokenDateExpires:
		return true
	}
	return false
}

func (p *Parser) attribute() *descr.AttributeDescr {
	tok := p.stream.LT(1)
	var a *descr.AttributeDescr

	switch tok.Kind {
	case TokenSalience, TokenDuration:
		p.stream.Consume()
		p.matched()
		value := ""
		if p.accept(TokenMinus) {
			value = "-"
		}
		if num, ok := p.match(TokenInt); ok {
			value += num.Literal
		}
		a = p.factory.NewAttributeDescr(tok.Literal, value)

	case TokenNoLoop, TokenAutoFocus, TokenLockOnActive, TokenEnabled:
		p.stream.Consume()
		p.matched()
		value := "true"
		if p.stream.LA(1) == TokenBool {
			value = p.stream.Consume().Literal
			p.matched()
		}
		a = p.factory.NewAttributeDescr(tok.Literal, value)

	case TokenAgendaGroup, TokenActivationGroup, TokenRuleflowGroup,
		TokenDialect, TokenDateEffective, TokenDateExpires:
		p.stream.Consume()
		p.matched()
		value := ""
		if str, ok := p.match(TokenString); ok {
			value = unquote(str.Literal)
		}
		a = p.factory.NewAttributeDescr(tok.Literal, value)

	default:
		p.syntaxError(MismatchedSet, tok, "expected a rule attribute")
		p.stream.Consume()
		a = p.factory.NewAttributeDescr(tok.Literal, "")
	}

	a.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
	p.end(a)
	return a
}

func (p *Parser) importStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenImport)
	target, ok := p.importTarget()
	p.accept(TokenSemicolon)
	if !ok {
		p.recoverTo(statementStart...)
		return
	}
	d := p.factory.NewImportDescr(target)
	d.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)
	p.end(d)
	p.pkg.AddImport(d)
}

func (p *Parser) functionImportStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenImport)
	p.match(TokenFunction)
	target, ok := p.importTarget()
	p.accept(TokenSemicolon)
	if !ok {
		p.recoverTo(statementStart...)
		return
	}
	d := p.factory.NewFunctionImportDescr(target)
	d.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)
	p.end(d)
	p.pkg.AddFunctionImport(d)
}

// importTarget parses a dotted name with an optional trailing ".*".
func (p *Parser) importTarget() (string, bool) {
	name, ok := p.dottedName()
	if !ok {
		return "", false
	}
	if p.stream.LA(1) == TokenDot && p.stream.LA(2) == TokenStar {
		p.stream.Consume()
		p.stream.Consume()
		p.matched()
		name += ".*"
	}
	return name, true
}

func (p *Parser) globalStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenGlobal)
	globalType, ok := p.dottedName()
	if !ok {
		p.recoverTo(statementStart...)
		return
	}
	for p.stream.LA(1) == TokenLBracket && p.stream.LA(2) == TokenRBracket {
		p.stream.Consume()
		p.stream.Consume()
		p.matched()
		globalType += "[]"
	}
	ident, ok := p.matchIdent()
	p.accept(TokenSemicolon)
	if !ok {
		p.recoverTo(statementStart...)
		return
	}
	d := p.factory.NewGlobalDescr(globalType, ident.Literal)
	d.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)
	p.end(d)
	p.pkg.AddGlobal(d)
}

func (p *Parser) functionStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenFunction)

	first, ok := p.dottedName()
	if !ok {
		p.recoverTo(statementStart...)
		return
	}
	name := first
	returnType := ""
	if p.identifierLike(p.stream.LA(1)) {
		returnType = first
		tok, _ := p.matchIdent()
		name = tok.Literal
	}

	fn := p.factory.NewFunctionDescr(name, returnType)
	fn.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)

	p.match(TokenLParen)
	if p.stream.LA(1) != TokenRParen && p.identifierLike(p.stream.LA(1)) {
		for {
			paramType, ok := p.dottedName()
			if !ok {
				break
			}
			for p.stream.LA(1) == TokenLBracket && p.stream.LA(2) == TokenRBracket {
				p.stream.Consume()
				p.stream.Consume()
				p.matched()
				paramType += "[]"
			}
			paramName := paramType
			if p.identifierLike(p.stream.LA(1)) {
				tok, _ := p.matchIdent()
				paramName = tok.Literal
			} else {
				paramType = ""
			}
			fn.AddParameter(paramType, paramName)
			if !p.accept(TokenComma) {
				break
			}
		}
	}
	p.match(TokenRParen)

	fn.Text = innerText(p.curlyChunk())
	p.end(fn)
	p.pkg.AddFunction(fn)
}

func (p *Parser) templateStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenTemplate)
	name, _ := p.ruleName()
	p.accept(TokenSemicolon)

	t := p.factory.NewFactTemplateDescr(name)
	t.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)

	for p.stream.LA(1) != TokenEnd && p.stream.LA(1) != TokenEOF {
		mark := p.stream.Mark()
		t.AddField(p.templateSlot())
		p.accept(TokenSemicolon)
		if p.stream.Mark() == mark {
			p.recoverTo(TokenEnd)
			break
		}
	}

	p.match(TokenEnd)
	p.accept(TokenSemicolon)
	p.end(t)
	p.pkg.AddTemplate(t)
}

func (p *Parser) templateSlot() *descr.FieldTemplateDescr {
	startTok := p.stream.LT(1)
	classType, ok := p.dottedName()
	if !ok {
		return nil
	}
	nameTok, ok := p.matchIdent()
	if !ok {
		return nil
	}
	f := p.factory.NewFieldTemplateDescr(nameTok.Literal, classType)
	f.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)
	p.end(f)
	return f
}

func (p *Parser) ruleStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenRule)
	name, _ := p.ruleName()

	rule := p.factory.NewRuleDescr(name)
	rule.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)

	// Package-level attributes apply as defaults; rule-level attributes
	// parsed below override them (last writer wins).
	for _, a := range p.packageAttributes {
		rule.SetAttribute(a)
	}
	p.ruleAttributes(rule)

	if p.accept(TokenWhen) {
		p.accept(TokenColon)
		rule.Lhs = p.lhsBlock()
	}

	p.match(TokenThen)
	p.consequence(rule)
	p.match(TokenEnd)
	p.end(rule)
	p.pkg.AddRule(rule)
}

func (p *Parser) queryStatement() {
	startTok := p.stream.LT(1)
	p.match(TokenQuery)
	name, _ := p.ruleName()

	q := p.factory.NewQueryDescr(name)
	q.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)

	q.Lhs = p.lhsBlock()

	p.match(TokenEnd)
	p.end(q)
	p.pkg.AddRule(q)
}

// ruleName accepts either a quoted string or an identifier-like token.
func (p *Parser) ruleName() (string, bool) {
	if p.stream.LA(1) == TokenString {
		tok := p.stream.Consume()
		p.matched()
		return unquote(tok.Literal), true
	}
	tok, ok := p.matchIdent()
	if !ok {
		return "", false
	}
	return tok.Literal, true
}

func (p *Parser) ruleAttributes(rule *descr.RuleDescr) {
	if p.stream.LA(1) == TokenAttributes {
		p.stream.Consume()
		p.matched()
		p.accept(TokenColon)
	}
	for p.isAttributeStart() {
		rule.SetAttribute(p.attribute())
		p.accept(TokenComma)
	}
}

const trimCutset = " \t\r\n"

// consequence captures everything between "then" and the next "end" token
// verbatim, then trims surrounding whitespace while keeping the recorded
// offsets pointing at the trimmed span. The scan does not balance: a bare
// "end" word in the action body terminates the consequence early. An "end"
// inside a string literal is safe because it lexes as part of the string.
func (p *Parser) consequence(rule *descr.RuleDescr) {
	prev := p.stream.SetHiddenVisible(true)
	firstTok := p.stream.LT(1)
	var sb strings.Builder
	for p.stream.LA(1) != TokenEnd && p.stream.LA(1) != TokenEOF {
		sb.WriteString(p.stream.Consume().Literal)
	}
	p.stream.SetHiddenVisible(prev)

	raw := sb.String()
	if strings.Trim(raw, trimCutset) == "" {
		return
	}

	lead := len(raw) - len(strings.TrimLeft(raw, trimCutset))
	trail := len(raw) - len(strings.TrimRight(raw, trimCutset))
	rule.Consequence = raw[lead : len(raw)-trail]
	rule.ConsequenceStart = firstTok.Span.Start.Offset + lead
	rule.ConsequenceEnd = firstTok.Span.Start.Offset + len(raw) - trail

	start := advancePosition(firstTok.Span.Start, raw[:lead])
	rule.ConsequenceLine = start.Line
	rule.ConsequenceColumn = start.Column
}

// advancePosition moves a position forward over s.
func advancePosition(pos Position, s string) Position {
	for i := 0; i < len(s); i++ {
		pos.Offset++
		if s[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// ---- low-level helpers ----

func (p *Parser) identifierLike(kind TokenKind) bool {
	return kind == TokenIdent || kind.IsKeyword()
}

// match consumes the next token when it has the expected kind. In speculative
// mode a mismatch sets the failed flag; otherwise it records a
// MismatchedToken error and leaves the token unconsumed.
func (p *Parser) match(kind TokenKind) (Token, bool) {
	if p.stream.LA(1) == kind {
		tok := p.stream.Consume()
		p.matched()
		return tok, true
	}
	tok := p.stream.LT(1)
	p.syntaxError(MismatchedToken, tok,
		fmt.Sprintf("mismatched token %q, expected %q", tok.Literal, kind.String()))
	return tok, false
}

// matchIdent is match for "an identifier", which includes every keyword.
func (p *Parser) matchIdent() (Token, bool) {
	if p.identifierLike(p.stream.LA(1)) {
		tok := p.stream.Consume()
		p.matched()
		return tok, true
	}
	tok := p.stream.LT(1)
	p.syntaxError(MismatchedSet, tok,
		fmt.Sprintf("mismatched input %q, expected an identifier", tok.Literal))
	return tok, false
}

// accept consumes the next token if it has the given kind.
func (p *Parser) accept(kind TokenKind) bool {
	if p.stream.LA(1) == kind {
		p.stream.Consume()
		p.matched()
		return true
	}
	return false
}

// matched tells the collector a token matched, ending error recovery.
// Speculative matches must not touch recovery state.
func (p *Parser) matched() {
	if p.speculating == 0 {
		p.errors.MarkMatch()
	}
}

func (p *Parser) syntaxError(kind ErrorKind, at Token, message string) {
	if p.speculating > 0 {
		p.failed = true
		return
	}
	p.errors.Add(kind, at, message)
}

// bailed reports whether a speculative trial has already failed, so loops can
// stop consuming.
func (p *Parser) bailed() bool {
	return p.speculating > 0 && p.failed
}

// recoverTo discards tokens until one of the given kinds (or EOF) comes up.
// At least one token is discarded so resynchronization always makes progress.
func (p *Parser) recoverTo(kinds ...TokenKind) {
	if p.stream.LA(1) != TokenEOF {
		p.stream.Consume()
	}
	for p.stream.LA(1) != TokenEOF {
		for _, kind := range kinds {
			if p.stream.LA(1) == kind {
				return
			}
		}
		p.stream.Consume()
	}
}

func (p *Parser) dottedName() (string, bool) {
	tok, ok := p.matchIdent()
	if !ok {
		return "", false
	}
	name := tok.Literal
	for p.stream.LA(1) == TokenDot && p.identifierLike(p.stream.LA(2)) {
		p.stream.Consume()
		next, _ := p.matchIdent()
		name += "." + next.Literal
	}
	return name, true
}

func (p *Parser) begin(d descr.Descr) {
	tok := p.stream.LT(1)
	d.Base().SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
}

// end stamps the node's end offset from the most recently consumed token. A
// production that consumed no tokens gets a zero-width span at its start
// rather than an end offset before it.
func (p *Parser) end(d descr.Descr) {
	base := d.Base()
	endOffset := p.stream.Last().Span.End.Offset
	if endOffset < base.StartOffset {
		endOffset = base.StartOffset
	}
	base.SetEnd(endOffset)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
