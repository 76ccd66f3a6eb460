package parser

import "fmt"

// ErrorKind classifies a parse error the way the downstream tooling expects.
type ErrorKind int

const (
	// MismatchedToken: a required token kind was not next in the stream.
	MismatchedToken ErrorKind = iota
	// NoViableAlternative: none of a production's alternatives applied.
	NoViableAlternative
	// MismatchedSet: the next token was outside a required set.
	MismatchedSet
	// EarlyExit: a one-or-more repetition matched zero times.
	EarlyExit
	// FailedPredicate: a syntactic predicate rejected the input. Reserved:
	// no production reports it today, because failed speculative trials
	// rewind silently instead of emitting an error.
	FailedPredicate
	// GeneralParseError: a semantic check performed during parsing failed.
	GeneralParseError
)

var errorKindNames = map[ErrorKind]string{
	MismatchedToken:     "MismatchedToken",
	NoViableAlternative: "NoViableAlternative",
	MismatchedSet:       "MismatchedSet",
	EarlyExit:           "EarlyExit",
	FailedPredicate:     "FailedPredicate",
	GeneralParseError:   "GeneralParseError",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseError is one recorded syntax problem. Line is 1-based and Column is
// 0-based, matching what the rule compiler's diagnostics layer consumes.
type ParseError struct {
	Kind    ErrorKind
	Source  string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Source, e.Line, e.Column, e.Message)
}

// ErrorCollector accumulates parse errors without aborting the parse. After
// an error it enters recovery mode and drops further reports until the parser
// signals a successful token match, which stops one bad construct from
// producing a cascade of misleading messages.
type ErrorCollector struct {
	source     string
	errors     []*ParseError
	recovering bool
}

func NewErrorCollector(source string) *ErrorCollector {
	return &ErrorCollector{source: source}
}

func (c *ErrorCollector) Add(kind ErrorKind, at Token, message string) {
	if c.recovering {
		return
	}
	c.recovering = true
	c.errors = append(c.errors, &ParseError{
		Kind:    kind,
		Source:  c.source,
		Line:    at.Span.Start.Line,
		Column:  at.Span.Start.Column - 1,
		Message: message,
	})
}

// MarkMatch signals that a token matched successfully, ending recovery mode.
func (c *ErrorCollector) MarkMatch() {
	c.recovering = false
}

func (c *ErrorCollector) Recovering() bool {
	return c.recovering
}

func (c *ErrorCollector) Errors() []*ParseError {
	return c.errors
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}
