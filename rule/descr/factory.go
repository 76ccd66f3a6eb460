package descr

// Factory constructs descriptors with their position fields initialized to
// the -1 sentinel, so grammar code never builds half-stamped nodes by hand.
type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) NewPackageDescr() *PackageDescr {
	return &PackageDescr{BaseDescr: newBase()}
}

func (f *Factory) NewRuleDescr(name string) *RuleDescr {
	return &RuleDescr{
		BaseDescr:        newBase(),
		Name:             name,
		Attributes:       make(map[string]*AttributeDescr),
		ConsequenceStart: -1,
		ConsequenceEnd:   -1,
	}
}

// NewQueryDescr creates the rule-shaped descriptor used for queries: same
// node, no consequence ever set.
func (f *Factory) NewQueryDescr(name string) *RuleDescr {
	return f.NewRuleDescr(name)
}

func (f *Factory) NewAttributeDescr(name, value string) *AttributeDescr {
	return &AttributeDescr{BaseDescr: newBase(), Name: name, Value: value}
}

func (f *Factory) NewImportDescr(target string) *ImportDescr {
	return &ImportDescr{BaseDescr: newBase(), Target: target}
}

func (f *Factory) NewFunctionImportDescr(target string) *FunctionImportDescr {
	return &FunctionImportDescr{BaseDescr: newBase(), Target: target}
}

func (f *Factory) NewGlobalDescr(globalType, identifier string) *GlobalDescr {
	return &GlobalDescr{BaseDescr: newBase(), Type: globalType, Identifier: identifier}
}

func (f *Factory) NewFunctionDescr(name, returnType string) *FunctionDescr {
	return &FunctionDescr{BaseDescr: newBase(), Name: name, ReturnType: returnType}
}

func (f *Factory) NewFactTemplateDescr(name string) *FactTemplateDescr {
	return &FactTemplateDescr{BaseDescr: newBase(), Name: name}
}

func (f *Factory) NewFieldTemplateDescr(name, classType string) *FieldTemplateDescr {
	return &FieldTemplateDescr{BaseDescr: newBase(), Name: name, ClassType: classType}
}

func (f *Factory) NewAndDescr() *AndDescr {
	return &AndDescr{BaseDescr: newBase()}
}

func (f *Factory) NewOrDescr() *OrDescr {
	return &OrDescr{BaseDescr: newBase()}
}

func (f *Factory) NewNotDescr(child ConditionalElementDescr) *NotDescr {
	return &NotDescr{BaseDescr: newBase(), Child: child}
}

func (f *Factory) NewExistsDescr(child ConditionalElementDescr) *ExistsDescr {
	return &ExistsDescr{BaseDescr: newBase(), Child: child}
}

func (f *Factory) NewForallDescr() *ForallDescr {
	return &ForallDescr{BaseDescr: newBase()}
}

func (f *Factory) NewEvalDescr(content string) *EvalDescr {
	return &EvalDescr{BaseDescr: newBase(), Content: content}
}

func (f *Factory) NewPatternDescr() *PatternDescr {
	return &PatternDescr{BaseDescr: newBase(), LeftParen: -1, RightParen: -1}
}

func (f *Factory) NewFromDescr(pattern *PatternDescr) *FromDescr {
	return &FromDescr{BaseDescr: newBase(), Pattern: pattern}
}

func (f *Factory) NewAccumulateDescr(input *PatternDescr) *AccumulateDescr {
	return &AccumulateDescr{BaseDescr: newBase(), InputPattern: input}
}

func (f *Factory) NewCollectDescr(input *PatternDescr) *CollectDescr {
	return &CollectDescr{BaseDescr: newBase(), InputPattern: input}
}

func (f *Factory) NewAccessorDescr() *AccessorDescr {
	return &AccessorDescr{BaseDescr: newBase()}
}

func (f *Factory) NewFieldAccessDescr(name string) *FieldAccessDescr {
	return &FieldAccessDescr{BaseDescr: newBase(), FieldName: name}
}

func (f *Factory) NewMethodAccessDescr(name, arguments string) *MethodAccessDescr {
	return &MethodAccessDescr{BaseDescr: newBase(), MethodName: name, Arguments: arguments}
}

func (f *Factory) NewFieldConstraintDescr(fieldName string) *FieldConstraintDescr {
	return &FieldConstraintDescr{BaseDescr: newBase(), FieldName: fieldName}
}

func (f *Factory) NewFieldBindingDescr(identifier, fieldName string) *FieldBindingDescr {
	return &FieldBindingDescr{BaseDescr: newBase(), Identifier: identifier, FieldName: fieldName}
}

func (f *Factory) NewPredicateDescr(content string) *PredicateDescr {
	return &PredicateDescr{BaseDescr: newBase(), Content: content}
}

func (f *Factory) NewLiteralRestrictionDescr(evaluator, text string, staticField bool) *LiteralRestrictionDescr {
	return &LiteralRestrictionDescr{BaseDescr: newBase(), Evaluator: evaluator, Text: text, StaticFieldValue: staticField}
}

func (f *Factory) NewVariableRestrictionDescr(evaluator, identifier string) *VariableRestrictionDescr {
	return &VariableRestrictionDescr{BaseDescr: newBase(), Evaluator: evaluator, Identifier: identifier}
}

func (f *Factory) NewReturnValueRestrictionDescr(evaluator, content string) *ReturnValueRestrictionDescr {
	return &ReturnValueRestrictionDescr{BaseDescr: newBase(), Evaluator: evaluator, Content: content}
}

func (f *Factory) NewRestrictionConnectiveDescr(connective string) *RestrictionConnectiveDescr {
	return &RestrictionConnectiveDescr{BaseDescr: newBase(), Connective: connective}
}
