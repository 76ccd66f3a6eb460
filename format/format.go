// Package format renders parsed rule packages for the command-line tools.
// Encoders share a generic node view of the descriptor tree so that adding an
// output format does not require another walk over the descriptor types.
package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/drl/rule/descr"
)

type Encoder interface {
	Encode(pkg *descr.PackageDescr) error
	MarshalText() ([]byte, error)
}

// node is the format-neutral view of one descriptor: a kind name, ordered
// scalar fields, the source span when known, and child nodes.
type node struct {
	kind     string
	fields   []field
	span     *span
	children []*node
}

type field struct {
	name  string
	value string
}

type span struct {
	Start  int `json:"start"`
	End    int `json:"end"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (n *node) addField(name, value string) {
	if value != "" {
		n.fields = append(n.fields, field{name: name, value: value})
	}
}

func (n *node) addChild(child *node) {
	if child != nil {
		n.children = append(n.children, child)
	}
}

func describe(d descr.Descr) *node {
	if d == nil {
		return nil
	}

	n := &node{}
	if base := d.Base(); base.StartOffset >= 0 {
		n.span = &span{
			Start:  base.StartOffset,
			End:    base.EndOffset,
			Line:   base.Line,
			Column: base.Column,
		}
	}

	switch t := d.(type) {
	case *descr.PackageDescr:
		n.kind = "package"
		n.addField("name", t.Name)
		for _, a := range t.Attributes {
			n.addChild(describe(a))
		}
		for _, imp := range t.Imports {
			n.addChild(describe(imp))
		}
		for _, imp := range t.FunctionImports {
			n.addChild(describe(imp))
		}
		for _, g := range t.Globals {
			n.addChild(describe(g))
		}
		for _, f := range t.Functions {
			n.addChild(describe(f))
		}
		for _, tpl := range t.Templates {
			n.addChild(describe(tpl))
		}
		for _, r := range t.Rules {
			n.addChild(describe(r))
		}

	case *descr.ImportDescr:
		n.kind = "import"
		n.addField("target", t.Target)

	case *descr.FunctionImportDescr:
		n.kind = "function-import"
		n.addField("target", t.Target)

	case *descr.GlobalDescr:
		n.kind = "global"
		n.addField("type", t.Type)
		n.addField("identifier", t.Identifier)

	case *descr.FunctionDescr:
		n.kind = "function"
		n.addField("name", t.Name)
		n.addField("returnType", t.ReturnType)
		n.addField("parameters", formatParameters(t))
		n.addField("text", t.Text)

	case *descr.FactTemplateDescr:
		n.kind = "template"
		n.addField("name", t.Name)
		for _, f := range t.Fields {
			n.addChild(describe(f))
		}

	case *descr.FieldTemplateDescr:
		n.kind = "field-template"
		n.addField("name", t.Name)
		n.addField("type", t.ClassType)

	case *descr.AttributeDescr:
		n.kind = "attribute"
		n.addField("name", t.Name)
		n.addField("value", t.Value)

	case *descr.RuleDescr:
		if t.ConsequenceStart < 0 {
			n.kind = "query"
		} else {
			n.kind = "rule"
		}
		n.addField("name", t.Name)
		for _, name := range sortedAttributeNames(t.Attributes) {
			n.addChild(describe(t.Attributes[name]))
		}
		if t.Lhs != nil {
			n.addChild(describe(t.Lhs))
		}
		n.addField("consequence", t.Consequence)

	case *descr.AndDescr:
		n.kind = "and"
		for _, child := range t.Children {
			n.addChild(describe(child))
		}

	case *descr.OrDescr:
		n.kind = "or"
		for _, child := range t.Children {
			n.addChild(describe(child))
		}

	case *descr.NotDescr:
		n.kind = "not"
		n.addChild(describe(t.Child))

	case *descr.ExistsDescr:
		n.kind = "exists"
		n.addChild(describe(t.Child))

	case *descr.ForallDescr:
		n.kind = "forall"
		if t.BasePattern != nil {
			n.addChild(describe(t.BasePattern))
		}
		for _, p := range t.RemainingPatterns {
			n.addChild(describe(p))
		}

	case *descr.EvalDescr:
		n.kind = "eval"
		n.addField("content", t.Content)

	case *descr.PatternDescr:
		n.kind = "pattern"
		n.addField("objectType", t.ObjectType)
		n.addField("identifier", t.Identifier)
		for _, c := range t.Constraints {
			n.addChild(describe(c))
		}

	case *descr.FromDescr:
		n.kind = "from"
		if t.Pattern != nil {
			n.addChild(describe(t.Pattern))
		}
		if t.DataSource != nil {
			n.addChild(describe(t.DataSource))
		}

	case *descr.AccumulateDescr:
		n.kind = "accumulate"
		n.addField("init", t.InitCode)
		n.addField("action", t.ActionCode)
		n.addField("result", t.ResultCode)
		if t.InputPattern != nil {
			n.addChild(describe(t.InputPattern))
		}
		if t.SourcePattern != nil {
			n.addChild(describe(t.SourcePattern))
		}

	case *descr.CollectDescr:
		n.kind = "collect"
		if t.InputPattern != nil {
			n.addChild(describe(t.InputPattern))
		}
		if t.SourcePattern != nil {
			n.addChild(describe(t.SourcePattern))
		}

	case *descr.AccessorDescr:
		n.kind = "accessor"
		for _, inv := range t.Invokers {
			n.addChild(describe(inv))
		}

	case *descr.FieldAccessDescr:
		n.kind = "field-access"
		n.addField("field", t.FieldName)

	case *descr.MethodAccessDescr:
		n.kind = "method-access"
		n.addField("method", t.MethodName)
		n.addField("arguments", t.Arguments)

	case *descr.FieldConstraintDescr:
		n.kind = "field-constraint"
		n.addField("field", t.FieldName)
		for _, r := range t.Restrictions {
			n.addChild(describe(r))
		}

	case *descr.FieldBindingDescr:
		n.kind = "field-binding"
		n.addField("identifier", t.Identifier)
		n.addField("field", t.FieldName)

	case *descr.PredicateDescr:
		n.kind = "predicate"
		n.addField("content", t.Content)

	case *descr.LiteralRestrictionDescr:
		n.kind = "literal-restriction"
		n.addField("evaluator", t.Evaluator)
		n.addField("text", t.Text)
		if t.StaticFieldValue {
			n.addField("staticFieldValue", "true")
		}

	case *descr.VariableRestrictionDescr:
		n.kind = "variable-restriction"
		n.addField("evaluator", t.Evaluator)
		n.addField("identifier", t.Identifier)

	case *descr.ReturnValueRestrictionDescr:
		n.kind = "return-value-restriction"
		n.addField("evaluator", t.Evaluator)
		n.addField("content", t.Content)

	case *descr.RestrictionConnectiveDescr:
		n.kind = "connective"
		n.addField("value", t.Connective)

	default:
		n.kind = fmt.Sprintf("%T", d)
	}

	return n
}

func formatParameters(f *descr.FunctionDescr) string {
	if len(f.ParameterNames) == 0 {
		return ""
	}
	parts := make([]string, len(f.ParameterNames))
	for i, name := range f.ParameterNames {
		if f.ParameterTypes[i] != "" {
			parts[i] = f.ParameterTypes[i] + " " + name
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, ", ")
}

func sortedAttributeNames(attrs map[string]*descr.AttributeDescr) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
