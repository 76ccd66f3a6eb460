// Package descr defines the descriptor tree produced by the rule-language
// parser. Each descriptor represents one syntactic construct and carries the
// character offsets and line/column of the source text it was parsed from, so
// downstream tooling can map any node back to its exact source range.
package descr

// BaseDescr holds the position fields shared by every descriptor. Offsets are
// character offsets into the source, with EndOffset exclusive so that
// source[StartOffset:EndOffset] is the node's exact text. -1 means unset.
type BaseDescr struct {
	StartOffset int
	EndOffset   int
	Line        int
	Column      int
}

func newBase() BaseDescr {
	return BaseDescr{StartOffset: -1, EndOffset: -1}
}

func (b *BaseDescr) Base() *BaseDescr { return b }

func (b *BaseDescr) SetStart(offset, line, column int) {
	b.StartOffset = offset
	b.Line = line
	b.Column = column
}

func (b *BaseDescr) SetEnd(offset int) {
	b.EndOffset = offset
}

// Descr is implemented by every descriptor in the tree.
type Descr interface {
	Base() *BaseDescr
}

// PackageDescr is the root of a parsed compilation unit. It is populated
// incrementally while the file is parsed and may be partial when the error
// list is non-empty. Queries appear in Rules as rules without a consequence.
type PackageDescr struct {
	BaseDescr
	Name            string
	Imports         []*ImportDescr
	FunctionImports []*FunctionImportDescr
	Globals         []*GlobalDescr
	Functions       []*FunctionDescr
	Templates       []*FactTemplateDescr
	Rules           []*RuleDescr
	Attributes      []*AttributeDescr
}

// SetName records the package name. The name is set at most once; later
// declarations are ignored (the parser reports them separately).
func (p *PackageDescr) SetName(name string) {
	if p.Name == "" {
		p.Name = name
	}
}

func (p *PackageDescr) AddImport(d *ImportDescr) { p.Imports = append(p.Imports, d) }
func (p *PackageDescr) AddFunctionImport(d *FunctionImportDescr) {
	p.FunctionImports = append(p.FunctionImports, d)
}
func (p *PackageDescr) AddGlobal(d *GlobalDescr)         { p.Globals = append(p.Globals, d) }
func (p *PackageDescr) AddFunction(d *FunctionDescr)     { p.Functions = append(p.Functions, d) }
func (p *PackageDescr) AddTemplate(d *FactTemplateDescr) { p.Templates = append(p.Templates, d) }
func (p *PackageDescr) AddRule(d *RuleDescr)             { p.Rules = append(p.Rules, d) }
func (p *PackageDescr) AddAttribute(d *AttributeDescr)   { p.Attributes = append(p.Attributes, d) }

// RuleDescr describes one rule or query. Queries carry no consequence:
// Consequence is empty and ConsequenceStart stays -1.
type RuleDescr struct {
	BaseDescr
	Name       string
	Attributes map[string]*AttributeDescr
	Lhs        ConditionalElementDescr

	// The consequence has its own location because it starts after the
	// "then" keyword, not at the rule header.
	Consequence       string
	ConsequenceStart  int
	ConsequenceEnd    int
	ConsequenceLine   int
	ConsequenceColumn int
}

// SetAttribute records a rule attribute. Later writers win, so a rule-level
// attribute replaces a package-level default of the same name.
func (r *RuleDescr) SetAttribute(a *AttributeDescr) {
	r.Attributes[a.Name] = a
}

// AttributeDescr is a single rule attribute such as "salience 10" or
// "no-loop". Values are kept as written (booleans written bare become "true").
type AttributeDescr struct {
	BaseDescr
	Name  string
	Value string
}

type ImportDescr struct {
	BaseDescr
	Target string
}

type FunctionImportDescr struct {
	BaseDescr
	Target string
}

type GlobalDescr struct {
	BaseDescr
	Type       string
	Identifier string
}

// FunctionDescr is an in-file function declaration. Text is the body between
// (and excluding) the outer braces, captured verbatim for the downstream
// compiler to re-lex in the host expression language.
type FunctionDescr struct {
	BaseDescr
	Name           string
	ReturnType     string
	ParameterTypes []string
	ParameterNames []string
	Text           string
}

func (f *FunctionDescr) AddParameter(paramType, paramName string) {
	f.ParameterTypes = append(f.ParameterTypes, paramType)
	f.ParameterNames = append(f.ParameterNames, paramName)
}

// FactTemplateDescr declares a named fact template with typed slots.
type FactTemplateDescr struct {
	BaseDescr
	Name   string
	Fields []*FieldTemplateDescr
}

func (t *FactTemplateDescr) AddField(f *FieldTemplateDescr) {
	if f != nil {
		t.Fields = append(t.Fields, f)
	}
}

type FieldTemplateDescr struct {
	BaseDescr
	Name      string
	ClassType string
}
