package parser

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenMisc

	// Trivia (hidden channel)
	TokenWhitespace
	TokenLineComment
	TokenBlockComment

	// Literals
	TokenIdent
	TokenString
	TokenInt
	TokenFloat
	TokenBool
	TokenNull

	// Structural keywords. Keywords are not reserved: any of them is also
	// valid wherever an identifier is expected.
	TokenPackage
	TokenImport
	TokenFunction
	TokenGlobal
	TokenRule
	TokenQuery
	TokenTemplate
	TokenWhen
	TokenThen
	TokenEnd
	TokenFrom
	TokenAccumulate
	TokenCollect
	TokenInit
	TokenAction
	TokenResult
	TokenExists
	TokenNot
	TokenEval
	TokenForall
	TokenAnd
	TokenOr

	// Operator keywords
	TokenContains
	TokenMatches
	TokenExcludes
	TokenMemberof

	// Attribute keywords
	TokenSalience
	TokenNoLoop
	TokenAgendaGroup
	TokenActivationGroup
	TokenRuleflowGroup
	TokenDuration
	TokenDialect
	TokenLockOnActive
	TokenAutoFocus
	TokenEnabled
	TokenDateEffective
	TokenDateExpires
	TokenAttributes

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenColon
	TokenArrow
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenDoubleAmp
	TokenDoublePipe
	TokenAmp
	TokenPipe
	TokenAssign
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenBang
	TokenQuestion
	TokenAt
)

const (
	firstKeyword = TokenPackage
	lastKeyword  = TokenAttributes
)

// IsKeyword reports whether the kind is a language or attribute keyword.
// Every keyword doubles as an identifier where the grammar expects one.
func (k TokenKind) IsKeyword() bool {
	return k >= firstKeyword && k <= lastKeyword
}

// IsTrivia reports whether the kind lives on the hidden channel.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokenWhitespace, TokenLineComment, TokenBlockComment:
		return true
	}
	return false
}

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenMisc:            "Misc",
	TokenWhitespace:      "Whitespace",
	TokenLineComment:     "LineComment",
	TokenBlockComment:    "BlockComment",
	TokenIdent:           "Identifier",
	TokenString:          "String",
	TokenInt:             "Int",
	TokenFloat:           "Float",
	TokenBool:            "Bool",
	TokenNull:            "null",
	TokenPackage:         "package",
	TokenImport:          "import",
	TokenFunction:        "function",
	TokenGlobal:          "global",
	TokenRule:            "rule",
	TokenQuery:           "query",
	TokenTemplate:        "template",
	TokenWhen:            "when",
	TokenThen:            "then",
	TokenEnd:             "end",
	TokenFrom:            "from",
	TokenAccumulate:      "accumulate",
	TokenCollect:         "collect",
	TokenInit:            "init",
	TokenAction:          "action",
	TokenResult:          "result",
	TokenExists:          "exists",
	TokenNot:             "not",
	TokenEval:            "eval",
	TokenForall:          "forall",
	TokenAnd:             "and",
	TokenOr:              "or",
	TokenContains:        "contains",
	TokenMatches:         "matches",
	TokenExcludes:        "excludes",
	TokenMemberof:        "memberof",
	TokenSalience:        "salience",
	TokenNoLoop:          "no-loop",
	TokenAgendaGroup:     "agenda-group",
	TokenActivationGroup: "activation-group",
	TokenRuleflowGroup:   "ruleflow-group",
	TokenDuration:        "duration",
	TokenDialect:         "dialect",
	TokenLockOnActive:    "lock-on-active",
	TokenAutoFocus:       "auto-focus",
	TokenEnabled:         "enabled",
	TokenDateEffective:   "date-effective",
	TokenDateExpires:     "date-expires",
	TokenAttributes:      "attributes",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenLBrace:          "{",
	TokenRBrace:          "}",
	TokenLBracket:        "[",
	TokenRBracket:        "]",
	TokenSemicolon:       ";",
	TokenComma:           ",",
	TokenDot:             ".",
	TokenColon:           ":",
	TokenArrow:           "->",
	TokenEQ:              "==",
	TokenNE:              "!=",
	TokenLT:              "<",
	TokenLE:              "<=",
	TokenGT:              ">",
	TokenGE:              ">=",
	TokenDoubleAmp:       "&&",
	TokenDoublePipe:      "||",
	TokenAmp:             "&",
	TokenPipe:            "|",
	TokenAssign:          "=",
	TokenPlus:            "+",
	TokenMinus:           "-",
	TokenStar:            "*",
	TokenSlash:           "/",
	TokenPercent:         "%",
	TokenBang:            "!",
	TokenQuestion:        "?",
	TokenAt:              "@",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var keywords = map[string]TokenKind{
	"package":    TokenPackage,
	"import":     TokenImport,
	"function":   TokenFunction,
	"global":     TokenGlobal,
	"rule":       TokenRule,
	"query":      TokenQuery,
	"template":   TokenTemplate,
	"when":       TokenWhen,
	"then":       TokenThen,
	"end":        TokenEnd,
	"from":       TokenFrom,
	"accumulate": TokenAccumulate,
	"collect":    TokenCollect,
	"init":       TokenInit,
	"action":     TokenAction,
	"result":     TokenResult,
	"exists":     TokenExists,
	"not":        TokenNot,
	"eval":       TokenEval,
	"forall":     TokenForall,
	"and":        TokenAnd,
	"or":         TokenOr,
	"contains":   TokenContains,
	"matches":    TokenMatches,
	"excludes":   TokenExcludes,
	"memberof":   TokenMemberof,
	"salience":   TokenSalience,
	"duration":   TokenDuration,
	"dialect":    TokenDialect,
	"enabled":    TokenEnabled,
	"attributes": TokenAttributes,
	"true":       TokenBool,
	"false":      TokenBool,
	"null":       TokenNull,
}

// Attribute keywords containing hyphens. The lexer joins the words itself
// because a lone "no" or "agenda" must still lex as a plain identifier.
var hyphenatedKeywords = map[string]TokenKind{
	"no-loop":          TokenNoLoop,
	"agenda-group":     TokenAgendaGroup,
	"activation-group": TokenActivationGroup,
	"ruleflow-group":   TokenRuleflowGroup,
	"lock-on-active":   TokenLockOnActive,
	"auto-focus":       TokenAutoFocus,
	"date-effective":   TokenDateEffective,
	"date-expires":     TokenDateExpires,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
