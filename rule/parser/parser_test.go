package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/drl/rule/descr"
)

func parseUnit(t *testing.T, src string) (*descr.PackageDescr, *Parser) {
	t.Helper()
	p := New([]byte(src), WithSource("test.drl"))
	pkg := p.ParseCompilationUnit()
	return pkg, p
}

func requireNoErrors(t *testing.T, p *Parser) {
	t.Helper()
	for _, e := range p.Errors() {
		t.Errorf("unexpected error: %v", e)
	}
}

func singleRule(t *testing.T, pkg *descr.PackageDescr) *descr.RuleDescr {
	t.Helper()
	if len(pkg.Rules) != 1 {
		t.Fatalf("got %d rules, want 1", len(pkg.Rules))
	}
	return pkg.Rules[0]
}

func TestParseSimpleRule(t *testing.T) {
	src := `package com.acme; rule "R1" when Person(age > 18) then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if pkg.Name != "com.acme" {
		t.Errorf("package name: got %q, want com.acme", pkg.Name)
	}
	rule := singleRule(t, pkg)
	if rule.Name != "R1" {
		t.Errorf("rule name: got %q, want R1", rule.Name)
	}
	if rule.Consequence != "" {
		t.Errorf("consequence: got %q, want empty", rule.Consequence)
	}

	and, ok := rule.Lhs.(*descr.AndDescr)
	if !ok {
		t.Fatalf("lhs: got %T, want *AndDescr", rule.Lhs)
	}
	if len(and.Children) != 1 {
		t.Fatalf("lhs children: got %d, want 1", len(and.Children))
	}
	pat, ok := and.Children[0].(*descr.PatternDescr)
	if !ok {
		t.Fatalf("child: got %T, want *PatternDescr", and.Children[0])
	}
	if pat.ObjectType != "Person" || pat.Identifier != "" {
		t.Errorf("pattern: got type=%q id=%q", pat.ObjectType, pat.Identifier)
	}
	if len(pat.Constraints) != 1 {
		t.Fatalf("constraints: got %d, want 1", len(pat.Constraints))
	}
	fc, ok := pat.Constraints[0].(*descr.FieldConstraintDescr)
	if !ok {
		t.Fatalf("constraint: got %T, want *FieldConstraintDescr", pat.Constraints[0])
	}
	if fc.FieldName != "age" {
		t.Errorf("field: got %q, want age", fc.FieldName)
	}
	if len(fc.Restrictions) != 1 {
		t.Fatalf("restrictions: got %d, want 1", len(fc.Restrictions))
	}
	lit, ok := fc.Restrictions[0].(*descr.LiteralRestrictionDescr)
	if !ok {
		t.Fatalf("restriction: got %T, want *LiteralRestrictionDescr", fc.Restrictions[0])
	}
	if lit.Evaluator != ">" || lit.Text != "18" || lit.StaticFieldValue {
		t.Errorf("restriction: got op=%q text=%q static=%v", lit.Evaluator, lit.Text, lit.StaticFieldValue)
	}
}

func TestParseTopLevelOr(t *testing.T) {
	src := `rule "R" when Person() or Car() then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	or, ok := rule.Lhs.(*descr.OrDescr)
	if !ok {
		t.Fatalf("lhs: got %T, want *OrDescr", rule.Lhs)
	}
	if len(or.Children) != 2 {
		t.Fatalf("or children: got %d, want 2", len(or.Children))
	}
	types := []string{"Person", "Car"}
	for i, want := range types {
		pat, ok := or.Children[i].(*descr.PatternDescr)
		if !ok {
			t.Fatalf("child %d: got %T, want *PatternDescr", i, or.Children[i])
		}
		if pat.ObjectType != want {
			t.Errorf("child %d: got %q, want %q", i, pat.ObjectType, want)
		}
	}
}

func TestParseNotKeepsBlockWrapper(t *testing.T) {
	src := `rule "R" when not Person() then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	and, ok := rule.Lhs.(*descr.AndDescr)
	if !ok {
		t.Fatalf("lhs: got %T, want *AndDescr", rule.Lhs)
	}
	if len(and.Children) != 1 {
		t.Fatalf("children: got %d, want 1", len(and.Children))
	}
	not, ok := and.Children[0].(*descr.NotDescr)
	if !ok {
		t.Fatalf("child: got %T, want *NotDescr", and.Children[0])
	}
	pat, ok := not.Child.(*descr.PatternDescr)
	if !ok || pat.ObjectType != "Person" {
		t.Fatalf("not child: got %T (%v)", not.Child, not.Child)
	}
}

func TestParsePatternBinding(t *testing.T) {
	src := `rule "R" when $p : Person(name == "john") then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	and := rule.Lhs.(*descr.AndDescr)
	pat := and.Children[0].(*descr.PatternDescr)
	if pat.Identifier != "$p" || pat.ObjectType != "Person" {
		t.Errorf("pattern: got id=%q type=%q", pat.Identifier, pat.ObjectType)
	}
	fc := pat.Constraints[0].(*descr.FieldConstraintDescr)
	if fc.FieldName != "name" {
		t.Errorf("field: got %q, want name", fc.FieldName)
	}
	lit := fc.Restrictions[0].(*descr.LiteralRestrictionDescr)
	if lit.Evaluator != "==" || lit.Text != "john" {
		t.Errorf("restriction: got op=%q text=%q", lit.Evaluator, lit.Text)
	}
}

func TestParseRecoversAfterMissingParen(t *testing.T) {
	src := "rule \"A\" when Person(age > 18 then end\n" +
		"rule \"B\" when Car() then end\n"
	pkg, p := parseUnit(t, src)

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors (%v), want 1", len(errs), errs)
	}
	if errs[0].Kind != MismatchedToken {
		t.Errorf("kind: got %v, want MismatchedToken", errs[0].Kind)
	}
	if !strings.Contains(errs[0].Message, `")"`) {
		t.Errorf("message should mention the missing paren: %q", errs[0].Message)
	}

	if len(pkg.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(pkg.Rules))
	}
	and, ok := pkg.Rules[1].Lhs.(*descr.AndDescr)
	if !ok {
		t.Fatalf("rule B lhs: got %T, want *AndDescr", pkg.Rules[1].Lhs)
	}
	if pat := and.Children[0].(*descr.PatternDescr); pat.ObjectType != "Car" {
		t.Errorf("rule B pattern: got %q, want Car", pat.ObjectType)
	}
}

func TestParsePackageStatement(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"package com.acme.rules;", "com.acme.rules"},
		{"package com.acme.rules", "com.acme.rules"},
		{"package simple", "simple"},
		{"", ""},
	}
	for _, tt := range tests {
		pkg, p := parseUnit(t, tt.src)
		requireNoErrors(t, p)
		if pkg.Name != tt.want {
			t.Errorf("%q: got %q, want %q", tt.src, pkg.Name, tt.want)
		}
	}
}

func TestParseSecondPackageDeclarationIgnored(t *testing.T) {
	pkg, _ := parseUnit(t, "package first;\npackage second;\n")
	if pkg.Name != "first" {
		t.Errorf("got %q, want first", pkg.Name)
	}
}

func TestParseImports(t *testing.T) {
	src := `package p;
import java.util.List;
import java.util.*;
import function com.acme.Util.max;
`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if len(pkg.Imports) != 2 {
		t.Fatalf("imports: got %d, want 2", len(pkg.Imports))
	}
	if pkg.Imports[0].Target != "java.util.List" {
		t.Errorf("import 0: got %q", pkg.Imports[0].Target)
	}
	if pkg.Imports[1].Target != "java.util.*" {
		t.Errorf("import 1: got %q", pkg.Imports[1].Target)
	}
	if len(pkg.FunctionImports) != 1 {
		t.Fatalf("function imports: got %d, want 1", len(pkg.FunctionImports))
	}
	if pkg.FunctionImports[0].Target != "com.acme.Util.max" {
		t.Errorf("function import: got %q", pkg.FunctionImports[0].Target)
	}
}

func TestParseGlobal(t *testing.T) {
	src := `global java.util.List list;
global String[] names
`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if len(pkg.Globals) != 2 {
		t.Fatalf("globals: got %d, want 2", len(pkg.Globals))
	}
	if pkg.Globals[0].Type != "java.util.List" || pkg.Globals[0].Identifier != "list" {
		t.Errorf("global 0: got %q %q", pkg.Globals[0].Type, pkg.Globals[0].Identifier)
	}
	if pkg.Globals[1].Type != "String[]" || pkg.Globals[1].Identifier != "names" {
		t.Errorf("global 1: got %q %q", pkg.Globals[1].Type, pkg.Globals[1].Identifier)
	}
}

func TestParseFunction(t *testing.T) {
	src := `function String hello(String name, int times) {
	return "hi " + name;
}`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if len(pkg.Functions) != 1 {
		t.Fatalf("functions: got %d, want 1", len(pkg.Functions))
	}
	fn := pkg.Functions[0]
	if fn.Name != "hello" || fn.ReturnType != "String" {
		t.Errorf("function: got name=%q return=%q", fn.Name, fn.ReturnType)
	}
	if len(fn.ParameterNames) != 2 || fn.ParameterNames[0] != "name" || fn.ParameterTypes[1] != "int" {
		t.Errorf("parameters: got %v %v", fn.ParameterTypes, fn.ParameterNames)
	}
	if !strings.Contains(fn.Text, `return "hi " + name;`) {
		t.Errorf("body: got %q", fn.Text)
	}
}

func TestParseFunctionWithoutReturnType(t *testing.T) {
	src := `function log(msg) { print(msg); }`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	fn := pkg.Functions[0]
	if fn.Name != "log" || fn.ReturnType != "" {
		t.Errorf("function: got name=%q return=%q", fn.Name, fn.ReturnType)
	}
	if len(fn.ParameterNames) != 1 || fn.ParameterNames[0] != "msg" || fn.ParameterTypes[0] != "" {
		t.Errorf("parameters: got %v %v", fn.ParameterTypes, fn.ParameterNames)
	}
}

func TestParseTemplate(t *testing.T) {
	src := `template Cheese
	String name
	Integer price
end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if len(pkg.Templates) != 1 {
		t.Fatalf("templates: got %d, want 1", len(pkg.Templates))
	}
	tpl := pkg.Templates[0]
	if tpl.Name != "Cheese" {
		t.Errorf("template name: got %q", tpl.Name)
	}
	if len(tpl.Fields) != 2 {
		t.Fatalf("fields: got %d, want 2", len(tpl.Fields))
	}
	if tpl.Fields[0].Name != "name" || tpl.Fields[0].ClassType != "String" {
		t.Errorf("field 0: got %q %q", tpl.Fields[0].Name, tpl.Fields[0].ClassType)
	}
	if tpl.Fields[1].Name != "price" || tpl.Fields[1].ClassType != "Integer" {
		t.Errorf("field 1: got %q %q", tpl.Fields[1].Name, tpl.Fields[1].ClassType)
	}
}

func TestParseQuery(t *testing.T) {
	src := `query "all people"
	Person()
end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	q := singleRule(t, pkg)
	if q.Name != "all people" {
		t.Errorf("query name: got %q", q.Name)
	}
	if q.ConsequenceStart != -1 || q.Consequence != "" {
		t.Errorf("query must have no consequence: start=%d text=%q", q.ConsequenceStart, q.Consequence)
	}
	and := q.Lhs.(*descr.AndDescr)
	if pat := and.Children[0].(*descr.PatternDescr); pat.ObjectType != "Person" {
		t.Errorf("query pattern: got %q", pat.ObjectType)
	}
}

func TestParseRuleAttributes(t *testing.T) {
	src := `rule "R"
	salience -10
	no-loop
	agenda-group "validation"
	duration 200
	enabled false
when
then
end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	want := map[string]string{
		"salience":     "-10",
		"no-loop":      "true",
		"agenda-group": "validation",
		"duration":     "200",
		"enabled":      "false",
	}
	for name, value := range want {
		a := rule.Attributes[name]
		if a == nil {
			t.Errorf("missing attribute %q", name)
			continue
		}
		if a.Value != value {
			t.Errorf("attribute %q: got %q, want %q", name, a.Value, value)
		}
	}
}

func TestParsePackageAttributeDefaults(t *testing.T) {
	src := `package p;
attributes:
	salience 5, dialect "java"

rule "A" when then end

rule "B"
	salience 10
when then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	if len(pkg.Attributes) != 2 {
		t.Fatalf("package attributes: got %d, want 2", len(pkg.Attributes))
	}
	if len(pkg.Rules) != 2 {
		t.Fatalf("rules: got %d, want 2", len(pkg.Rules))
	}

	ruleA, ruleB := pkg.Rules[0], pkg.Rules[1]
	if got := ruleA.Attributes["salience"].Value; got != "5" {
		t.Errorf("rule A salience: got %q, want default 5", got)
	}
	if got := ruleA.Attributes["dialect"].Value; got != "java" {
		t.Errorf("rule A dialect: got %q, want java", got)
	}
	if got := ruleB.Attributes["salience"].Value; got != "10" {
		t.Errorf("rule B salience: got %q, want override 10", got)
	}
	if got := ruleB.Attributes["dialect"].Value; got != "java" {
		t.Errorf("rule B dialect: got %q, want inherited java", got)
	}
}

func TestParseConsequenceOffsets(t *testing.T) {
	src := "package p;\nrule \"R\"\nwhen\n    Person()\nthen\n    retract($p);\nend\n"
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	if rule.Consequence != "retract($p);" {
		t.Fatalf("consequence: got %q", rule.Consequence)
	}
	if got := src[rule.ConsequenceStart:rule.ConsequenceEnd]; got != rule.Consequence {
		t.Errorf("offsets do not select the consequence: %q", got)
	}
	if rule.ConsequenceLine != 6 || rule.ConsequenceColumn != 5 {
		t.Errorf("consequence position: got %d:%d, want 6:5", rule.ConsequenceLine, rule.ConsequenceColumn)
	}
}

func TestParseConsequenceKeepsInteriorWhitespace(t *testing.T) {
	src := "rule R when then\n  a();\n\n  b();\nend"
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	if rule.Consequence != "a();\n\n  b();" {
		t.Errorf("consequence: got %q", rule.Consequence)
	}
	if got := src[rule.ConsequenceStart:rule.ConsequenceEnd]; got != rule.Consequence {
		t.Errorf("offsets do not select the consequence: %q", got)
	}
}

// An "end" inside a string literal does not terminate the consequence; the
// string lexes as one token. A bare "end" word does terminate it, which is a
// known limit of the unbalanced scan.
func TestParseConsequenceEndHandling(t *testing.T) {
	src := "rule R when then\n  log(\"the end\");\nend"
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)
	if got := singleRule(t, pkg).Consequence; got != `log("the end");` {
		t.Errorf("consequence: got %q", got)
	}

	src = "rule R when then\n  list.end();\nend"
	pkg, p = parseUnit(t, src)
	if got := pkg.Rules[0].Consequence; got != "list." {
		t.Errorf("consequence: got %q, want truncated \"list.\"", got)
	}
	if !p.HasErrors() {
		t.Error("the leftover tokens should produce errors")
	}
}

func TestParseBareRuleName(t *testing.T) {
	pkg, p := parseUnit(t, "rule CheckAge when then end")
	requireNoErrors(t, p)
	if got := singleRule(t, pkg).Name; got != "CheckAge" {
		t.Errorf("rule name: got %q", got)
	}
}

func TestParseKeywordAsIdentifier(t *testing.T) {
	// "result" and "action" are keywords, but nothing reserves them.
	src := `rule "R" when result : Person(action == "stop") then end`
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	and := singleRule(t, pkg).Lhs.(*descr.AndDescr)
	pat := and.Children[0].(*descr.PatternDescr)
	if pat.Identifier != "result" {
		t.Errorf("binding: got %q, want result", pat.Identifier)
	}
	fc := pat.Constraints[0].(*descr.FieldConstraintDescr)
	if fc.FieldName != "action" {
		t.Errorf("field: got %q, want action", fc.FieldName)
	}
}

func TestParseErrorPositions(t *testing.T) {
	src := "rule \"R\"\nwhen\n  Person(age > 18\nthen\nend"
	_, p := parseUnit(t, src)

	errs := p.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	// The error points at "then", where ")" was expected: line 4, column 0
	// (columns are 0-based in errors).
	if errs[0].Line != 4 || errs[0].Column != 0 {
		t.Errorf("position: got %d:%d, want 4:0", errs[0].Line, errs[0].Column)
	}
	if errs[0].Source != "test.drl" {
		t.Errorf("source: got %q", errs[0].Source)
	}
	if !strings.Contains(errs[0].Error(), "test.drl:4:0:") {
		t.Errorf("Error(): got %q", errs[0].Error())
	}
}

func TestParseErrorCascadeSuppressed(t *testing.T) {
	// Two problems back to back produce one error until a token matches again.
	src := "global ; ;\nrule \"R\" when then end"
	pkg, p := parseUnit(t, src)

	if len(p.Errors()) != 1 {
		t.Errorf("got %d errors (%v), want 1", len(p.Errors()), p.Errors())
	}
	if len(pkg.Rules) != 1 {
		t.Errorf("recovery should reach the rule: got %d rules", len(pkg.Rules))
	}
}

func TestParseNeverPanicsOnMalformedInput(t *testing.T) {
	inputs := []string{
		"rule",
		"rule when",
		"when then end",
		"((((",
		"rule \"R\" when Person( then end",
		"package",
		"import",
		"global",
		"function",
		"template T",
		"query",
		"rule R when x : then end",
		"rule R when Person() from then end",
		"rule R when forall( then end",
		"end end end",
		"~ $ @ !",
		"rule R salience when then end",
	}
	for _, input := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic on %q: %v", input, r)
				}
			}()
			pkg, _ := parseUnit(t, input)
			if pkg == nil {
				t.Errorf("nil package for %q", input)
			}
		}()
	}
}

func TestParseDeterministic(t *testing.T) {
	src := `package com.acme.shop;

import java.util.List;
global List results;

rule "gold customers"
	salience 10
when
	$c : Customer(status == Status.GOLD, $total : total)
	exists Order(customer == $c, total > 100) or Refund(customer == $c)
then
	results.add($c);
end`
	first, p1 := parseUnit(t, src)
	second, p2 := parseUnit(t, src)
	requireNoErrors(t, p1)
	requireNoErrors(t, p2)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two parses of the same input differ (-first +second):\n%s", diff)
	}
}

func TestRuleSpan(t *testing.T) {
	src := "package p;\nrule \"R\" when then end\n"
	pkg, p := parseUnit(t, src)
	requireNoErrors(t, p)

	rule := singleRule(t, pkg)
	if got := src[rule.StartOffset:rule.EndOffset]; got != `rule "R" when then end` {
		t.Errorf("rule span selects %q", got)
	}
	if rule.Line != 2 || rule.Column != 1 {
		t.Errorf("rule position: got %d:%d, want 2:1", rule.Line, rule.Column)
	}
}
