package descr

// FieldConstraintDescr is one field-level test inside a pattern: a field name
// followed by one or more restrictions, possibly joined by connectives.
type FieldConstraintDescr struct {
	BaseDescr
	FieldName    string
	Restrictions []RestrictionDescr
}

func (f *FieldConstraintDescr) AddRestriction(r RestrictionDescr) {
	if r != nil {
		f.Restrictions = append(f.Restrictions, r)
	}
}

// FieldBindingDescr binds an identifier to the value of a field.
type FieldBindingDescr struct {
	BaseDescr
	Identifier string
	FieldName  string
}

// PredicateDescr holds a raw boolean code chunk attached to a pattern,
// without the surrounding parentheses.
type PredicateDescr struct {
	BaseDescr
	Content string
}

// RestrictionDescr is one element of a field constraint's restriction list:
// an operator/value test or a connective between two tests.
type RestrictionDescr interface {
	Descr
	restriction()
}

func (*LiteralRestrictionDescr) restriction()     {}
func (*VariableRestrictionDescr) restriction()    {}
func (*ReturnValueRestrictionDescr) restriction() {}
func (*RestrictionConnectiveDescr) restriction()  {}

// LiteralRestrictionDescr compares a field against a literal or a dotted enum
// constant. StaticFieldValue distinguishes the enum case.
type LiteralRestrictionDescr struct {
	BaseDescr
	Evaluator        string
	Text             string
	StaticFieldValue bool
}

// VariableRestrictionDescr compares a field against a previously bound
// variable.
type VariableRestrictionDescr struct {
	BaseDescr
	Evaluator  string
	Identifier string
}

// ReturnValueRestrictionDescr compares a field against the value of a raw
// code chunk, kept verbatim without the surrounding parentheses.
type ReturnValueRestrictionDescr struct {
	BaseDescr
	Evaluator string
	Content   string
}

// RestrictionConnective values for RestrictionConnectiveDescr.
const (
	ConnectiveAnd = "&&"
	ConnectiveOr  = "||"
)

// RestrictionConnectiveDescr marks an AND/OR between two restrictions in the
// same list.
type RestrictionConnectiveDescr struct {
	BaseDescr
	Connective string
}
