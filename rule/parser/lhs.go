package parser

import (
	"github.com/dhamidi/drl/rule/descr"
)

// The LHS grammar. Binding strength, tightest first: parenthesized group,
// unary (exists/not/eval/forall/pattern with optional data source), and, or.
// The n-ary connective nodes are built lazily: a wrapper is only allocated
// once a second operand under the same connective is seen.

// lhsBlock parses the zero-or-more top-level conditional elements of a rule,
// implicitly AND-ed. A block consisting of exactly one or-expression yields
// the OrDescr itself instead of wrapping it.
func (p *Parser) lhsBlock() descr.ConditionalElementDescr {
	and := p.factory.NewAndDescr()
	p.begin(and)

	for p.startsLhs() {
		mark := p.stream.Mark()
		and.AddDescr(p.lhsOr())
		if p.stream.Mark() == mark {
			p.recoverTo(TokenThen, TokenEnd)
			break
		}
	}

	p.end(and)
	if len(and.Children) == 1 {
		if or, ok := and.Children[0].(*descr.OrDescr); ok {
			return or
		}
	}
	return and
}

func (p *Parser) startsLhs() bool {
	switch p.stream.LA(1) {
	case TokenLParen, TokenExists, TokenNot, TokenEval, TokenForall:
		return true
	case TokenThen, TokenEnd, TokenWhen, TokenEOF,
		TokenRule, TokenQuery, TokenTemplate, TokenPackage,
		TokenImport, TokenGlobal, TokenFunction:
		return false
	}
	return p.identifierLike(p.stream.LA(1))
}

func (p *Parser) lhsOr() descr.ConditionalElementDescr {
	left := p.lhsAnd()
	var or *descr.OrDescr

	for p.stream.LA(1) == TokenOr || p.stream.LA(1) == TokenDoublePipe {
		// The connective could also be the start of something that is not an
		// operand (e.g. a truncated input), so the continuation is confirmed
		// by a trial parse before anything is consumed for real.
		if !p.trySpeculative(func() {
			p.stream.Consume()
			p.lhsAnd()
		}) {
			break
		}
		p.stream.Consume()
		p.matched()
		right := p.lhsAnd()
		if or == nil {
			or = p.factory.NewOrDescr()
			if left != nil {
				b := left.Base()
				or.SetStart(b.StartOffset, b.Line, b.Column)
			}
			or.AddDescr(left)
			left = or
		}
		or.AddDescr(right)
		p.end(or)
	}

	return left
}

func (p *Parser) lhsAnd() descr.ConditionalElementDescr {
	left := p.lhsUnary()
	var and *descr.AndDescr

	for p.stream.LA(1) == TokenAnd || p.stream.LA(1) == TokenDoubleAmp {
		if p.bailed() {
			return left
		}
		p.stream.Consume()
		p.matched()
		right := p.lhsUnary()
		if and == nil {
			and = p.factory.NewAndDescr()
			if left != nil {
				b := left.Base()
				and.SetStart(b.StartOffset, b.Line, b.Column)
			}
			and.AddDescr(left)
			left = and
		}
		and.AddDescr(right)
		p.end(and)
	}

	return left
}

func (p *Parser) lhsUnary() descr.ConditionalElementDescr {
	switch p.stream.LA(1) {
	case TokenLParen:
		p.stream.Consume()
		p.matched()
		ce := p.lhsOr()
		p.match(TokenRParen)
		return ce

	case TokenExists:
		tok := p.stream.Consume()
		p.matched()
		e := p.factory.NewExistsDescr(p.lhsPatternOrGroup())
		e.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
		p.end(e)
		return e

	case TokenNot:
		tok := p.stream.Consume()
		p.matched()
		n := p.factory.NewNotDescr(p.lhsPatternOrGroup())
		n.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
		p.end(n)
		return n

	case TokenEval:
		tok := p.stream.Consume()
		p.matched()
		content := innerText(p.parenChunk())
		p.checkTrailingSemicolon(content, tok)
		e := p.factory.NewEvalDescr(content)
		e.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
		p.end(e)
		return e

	case TokenForall:
		return p.lhsForall()

	default:
		return p.patternWithSource()
	}
}

// lhsPatternOrGroup is the operand of exists/not: a pattern, or any
// conditional element in parentheses.
func (p *Parser) lhsPatternOrGroup() descr.ConditionalElementDescr {
	if p.stream.LA(1) == TokenLParen {
		p.stream.Consume()
		p.matched()
		ce := p.lhsOr()
		p.match(TokenRParen)
		return ce
	}
	return p.patternWithSource()
}

func (p *Parser) lhsForall() descr.ConditionalElementDescr {
	tok := p.stream.Consume() // forall
	p.matched()
	f := p.factory.NewForallDescr()
	f.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)

	p.match(TokenLParen)
	f.BasePattern = p.pattern()

	for p.stream.LA(1) != TokenRParen && p.stream.LA(1) != TokenEOF {
		if p.bailed() {
			return f
		}
		mark := p.stream.Mark()
		f.AddRemainingPattern(p.pattern())
		if p.stream.Mark() == mark {
			break
		}
	}
	if len(f.RemainingPatterns) == 0 {
		p.syntaxError(EarlyExit, p.stream.LT(1),
			"forall requires at least one pattern after the base pattern")
	}

	p.match(TokenRParen)
	p.end(f)
	return f
}

// patternWithSource parses a pattern and, when "from" follows, attaches one
// of the three data sources. Accumulate and collect are also valid
// identifiers, so the choice is made by trial parses: accumulate first, then
// collect, then the generic from-source.
func (p *Parser) patternWithSource() descr.ConditionalElementDescr {
	pat := p.pattern()
	if p.stream.LA(1) != TokenFrom {
		return pat
	}
	p.stream.Consume()
	p.matched()

	switch {
	case p.trySpeculative(func() {
		p.match(TokenAccumulate)
		p.match(TokenLParen)
	}):
		return p.accumulateSource(pat)
	case p.trySpeculative(func() {
		p.match(TokenCollect)
		p.match(TokenLParen)
	}):
		return p.collectSource(pat)
	default:
		return p.fromSource(pat)
	}
}

func (p *Parser) accumulateSource(base *descr.PatternDescr) descr.ConditionalElementDescr {
	acc := p.factory.NewAccumulateDescr(base)
	if base != nil {
		acc.SetStart(base.StartOffset, base.Line, base.Column)
	}

	p.match(TokenAccumulate)
	p.match(TokenLParen)
	acc.SourcePattern = p.pattern()
	p.accept(TokenComma)

	p.match(TokenInit)
	acc.InitCode = innerText(p.parenChunk())
	p.accept(TokenComma)

	p.match(TokenAction)
	acc.ActionCode = innerText(p.parenChunk())
	p.accept(TokenComma)

	p.match(TokenResult)
	acc.ResultCode = innerText(p.parenChunk())

	p.match(TokenRParen)
	p.end(acc)
	return acc
}

func (p *Parser) collectSource(base *descr.PatternDescr) descr.ConditionalElementDescr {
	col := p.factory.NewCollectDescr(base)
	if base != nil {
		col.SetStart(base.StartOffset, base.Line, base.Column)
	}

	p.match(TokenCollect)
	p.match(TokenLParen)
	col.SourcePattern = p.pattern()
	p.match(TokenRParen)
	p.end(col)
	return col
}

// fromSource parses the generic data source: an identifier optionally
// followed by call arguments and/or a field/method access chain.
func (p *Parser) fromSource(base *descr.PatternDescr) descr.ConditionalElementDescr {
	from := p.factory.NewFromDescr(base)
	if base != nil {
		from.SetStart(base.StartOffset, base.Line, base.Column)
	}

	accessor := p.factory.NewAccessorDescr()
	p.begin(accessor)

	tok, ok := p.matchIdent()
	if ok {
		accessor.AddInvoker(p.invoker(tok))
		for p.stream.LA(1) == TokenDot && p.identifierLike(p.stream.LA(2)) {
			p.stream.Consume()
			next, _ := p.matchIdent()
			accessor.AddInvoker(p.invoker(next))
		}
	}

	p.end(accessor)
	from.DataSource = accessor
	p.end(from)
	return from
}

// invoker turns one accessor-chain segment into a field access or, when call
// arguments follow, a method access.
func (p *Parser) invoker(nameTok Token) descr.Descr {
	if p.stream.LA(1) == TokenLParen {
		args := p.parenChunk()
		m := p.factory.NewMethodAccessDescr(nameTok.Literal, args)
		m.SetStart(nameTok.Span.Start.Offset, nameTok.Span.Start.Line, nameTok.Span.Start.Column)
		p.end(m)
		return m
	}
	f := p.factory.NewFieldAccessDescr(nameTok.Literal)
	f.SetStart(nameTok.Span.Start.Offset, nameTok.Span.Start.Line, nameTok.Span.Start.Column)
	f.SetEnd(nameTok.Span.End.Offset)
	return f
}

func (p *Parser) pattern() *descr.PatternDescr {
	pat := p.factory.NewPatternDescr()
	p.begin(pat)

	if p.identifierLike(p.stream.LA(1)) && p.stream.LA(2) == TokenColon {
		tok, _ := p.matchIdent()
		pat.Identifier = tok.Literal
		p.stream.Consume() // ':'
		p.matched()
	}

	name, ok := p.dottedName()
	if !ok {
		p.end(pat)
		return pat
	}
	pat.ObjectType = name

	if lp, ok := p.match(TokenLParen); ok {
		pat.LeftParen = lp.Span.Start.Offset
	}
	if p.bailed() {
		return pat
	}

	if p.stream.LA(1) != TokenRParen && p.stream.LA(1) != TokenEOF {
		p.constraints(pat)
	}

	if rp, ok := p.match(TokenRParen); ok {
		pat.RightParen = rp.Span.Start.Offset
	}
	p.end(pat)
	return pat
}

func (p *Parser) constraints(pat *descr.PatternDescr) {
	for {
		p.constraint(pat)
		if p.bailed() {
			return
		}
		if !p.accept(TokenComma) {
			return
		}
	}
}

// constraint parses one element of a pattern's constraint list: a standalone
// predicate, a field binding, a field constraint, or a field followed by
// "->" and a nested predicate (which excludes the restriction syntax).
func (p *Parser) constraint(pat *descr.PatternDescr) {
	if p.stream.LA(1) == TokenLParen {
		startTok := p.stream.LT(1)
		pred := p.factory.NewPredicateDescr(innerText(p.parenChunk()))
		pred.SetStart(startTok.Span.Start.Offset, startTok.Span.Start.Line, startTok.Span.Start.Column)
		p.end(pred)
		pat.AddConstraint(pred)
		return
	}

	binding := ""
	var bindTok Token
	if p.identifierLike(p.stream.LA(1)) && p.stream.LA(2) == TokenColon {
		bindTok, _ = p.matchIdent()
		binding = bindTok.Literal
		p.stream.Consume() // ':'
		p.matched()
	}

	fieldTok, ok := p.matchIdent()
	if !ok {
		return
	}
	field := fieldTok.Literal

	if p.stream.LA(1) == TokenArrow {
		if binding != "" {
			fb := p.factory.NewFieldBindingDescr(binding, field)
			fb.SetStart(bindTok.Span.Start.Offset, bindTok.Span.Start.Line, bindTok.Span.Start.Column)
			fb.SetEnd(fieldTok.Span.End.Offset)
			pat.AddConstraint(fb)
		}
		arrowTok := p.stream.Consume()
		p.matched()
		pred := p.factory.NewPredicateDescr(innerText(p.parenChunk()))
		pred.SetStart(arrowTok.Span.Start.Offset, arrowTok.Span.Start.Line, arrowTok.Span.Start.Column)
		p.end(pred)
		pat.AddConstraint(pred)
		return
	}

	if binding != "" {
		fb := p.factory.NewFieldBindingDescr(binding, field)
		fb.SetStart(bindTok.Span.Start.Offset, bindTok.Span.Start.Line, bindTok.Span.Start.Column)
		fb.SetEnd(fieldTok.Span.End.Offset)
		pat.AddConstraint(fb)
	}

	if p.isOperatorStart() {
		fc := p.factory.NewFieldConstraintDescr(field)
		fc.SetStart(fieldTok.Span.Start.Offset, fieldTok.Span.Start.Line, fieldTok.Span.Start.Column)
		p.restrictions(fc)
		p.end(fc)
		pat.AddConstraint(fc)
		return
	}

	if binding == "" {
		p.syntaxError(MismatchedSet, p.stream.LT(1),
			"expected an operator or '->' after field name")
	}
}

func (p *Parser) isOperatorStart() bool {
	switch p.stream.LA(1) {
	case TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE,
		TokenContains, TokenMatches, TokenExcludes, TokenMemberof:
		return true
	case TokenNot:
		switch p.stream.LA(2) {
		case TokenContains, TokenMatches, TokenExcludes, TokenMemberof:
			return true
		}
	}
	return false
}

// restrictions parses a restriction followed by any number of
// connective-restriction pairs, in a single flat list.
func (p *Parser) restrictions(fc *descr.FieldConstraintDescr) {
	for {
		p.restriction(fc)
		if p.bailed() {
			return
		}

		var connective string
		switch p.stream.LA(1) {
		case TokenAmp, TokenDoubleAmp, TokenAnd:
			connective = descr.ConnectiveAnd
		case TokenPipe, TokenDoublePipe, TokenOr:
			connective = descr.ConnectiveOr
		default:
			return
		}
		tok := p.stream.Consume()
		p.matched()

		conn := p.factory.NewRestrictionConnectiveDescr(connective)
		conn.SetStart(tok.Span.Start.Offset, tok.Span.Start.Line, tok.Span.Start.Column)
		conn.SetEnd(tok.Span.End.Offset)
		fc.AddRestriction(conn)

		if !p.isOperatorStart() {
			p.syntaxError(MismatchedSet, p.stream.LT(1),
				"expected an operator after restriction connective")
			return
		}
	}
}

// restriction parses one operator plus a value, choosing the restriction
// variant purely by the shape of the next token: a lone identifier is a
// bound-variable reference, an identifier followed by a dotted path is an
// enum constant, literals stand for themselves, and a balanced paren chunk is
// a return-value expression.
func (p *Parser) restriction(fc *descr.FieldConstraintDescr) {
	opTok := p.stream.LT(1)
	op, ok := p.operator()
	if !ok {
		return
	}

	valueTok := p.stream.LT(1)
	var r descr.RestrictionDescr

	switch valueTok.Kind {
	case TokenString:
		p.stream.Consume()
		p.matched()
		r = p.factory.NewLiteralRestrictionDescr(op, unquote(valueTok.Literal), false)

	case TokenInt, TokenFloat, TokenBool, TokenNull:
		p.stream.Consume()
		p.matched()
		r = p.factory.NewLiteralRestrictionDescr(op, valueTok.Literal, false)

	case TokenLParen:
		r = p.factory.NewReturnValueRestrictionDescr(op, innerText(p.parenChunk()))

	default:
		if p.identifierLike(valueTok.Kind) {
			if p.stream.LA(2) == TokenDot {
				path, _ := p.dottedName()
				r = p.factory.NewLiteralRestrictionDescr(op, path, true)
			} else {
				tok, _ := p.matchIdent()
				r = p.factory.NewVariableRestrictionDescr(op, tok.Literal)
			}
		} else {
			p.syntaxError(MismatchedSet, valueTok,
				"expected a literal, bound variable, enum constant, or return value")
			return
		}
	}

	r.Base().SetStart(opTok.Span.Start.Offset, opTok.Span.Start.Line, opTok.Span.Start.Column)
	p.end(r)
	fc.AddRestriction(r)
}

// operator consumes a restriction operator, including the word operators and
// their "not"-prefixed forms.
func (p *Parser) operator() (string, bool) {
	tok := p.stream.LT(1)
	switch tok.Kind {
	case TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE,
		TokenContains, TokenMatches, TokenExcludes, TokenMemberof:
		p.stream.Consume()
		p.matched()
		return tok.Literal, true

	case TokenNot:
		p.stream.Consume()
		p.matched()
		next := p.stream.LT(1)
		switch next.Kind {
		case TokenContains, TokenMatches, TokenExcludes, TokenMemberof:
			p.stream.Consume()
			p.matched()
			return "not " + next.Literal, true
		}
		p.syntaxError(MismatchedSet, next,
			"expected 'contains', 'matches', 'excludes' or 'memberof' after 'not'")
		return "", false
	}

	p.syntaxError(MismatchedSet, tok, "expected a restriction operator")
	return "", false
}
