package descr

// ConditionalElementDescr is one node of the LHS boolean tree: a combinator
// (and/or/not/exists/forall), an eval, a pattern, or a pattern with an
// attached data source.
type ConditionalElementDescr interface {
	Descr
	conditionalElement()
}

func (*AndDescr) conditionalElement()        {}
func (*OrDescr) conditionalElement()         {}
func (*NotDescr) conditionalElement()        {}
func (*ExistsDescr) conditionalElement()     {}
func (*ForallDescr) conditionalElement()     {}
func (*EvalDescr) conditionalElement()       {}
func (*PatternDescr) conditionalElement()    {}
func (*FromDescr) conditionalElement()       {}
func (*AccumulateDescr) conditionalElement() {}
func (*CollectDescr) conditionalElement()    {}

// AndDescr is an n-ary conjunction. The parser only materializes one once a
// second operand under the same connective is seen, except for the top-level
// block wrapper of a rule's LHS.
type AndDescr struct {
	BaseDescr
	Children []ConditionalElementDescr
}

func (a *AndDescr) AddDescr(d ConditionalElementDescr) {
	if d != nil {
		a.Children = append(a.Children, d)
	}
}

// OrDescr is an n-ary disjunction, built lazily like AndDescr.
type OrDescr struct {
	BaseDescr
	Children []ConditionalElementDescr
}

func (o *OrDescr) AddDescr(d ConditionalElementDescr) {
	if d != nil {
		o.Children = append(o.Children, d)
	}
}

type NotDescr struct {
	BaseDescr
	Child ConditionalElementDescr
}

type ExistsDescr struct {
	BaseDescr
	Child ConditionalElementDescr
}

// ForallDescr quantifies one base pattern over one or more remaining
// patterns.
type ForallDescr struct {
	BaseDescr
	BasePattern       *PatternDescr
	RemainingPatterns []*PatternDescr
}

func (f *ForallDescr) AddRemainingPattern(p *PatternDescr) {
	f.RemainingPatterns = append(f.RemainingPatterns, p)
}

// EvalDescr holds an opaque boolean code chunk, without the surrounding
// parentheses.
type EvalDescr struct {
	BaseDescr
	Content string
}

// PatternDescr matches facts of ObjectType against a constraint list.
// LeftParen and RightParen keep the delimiter offsets separately from the
// node's own span for tooling that highlights the constraint region.
type PatternDescr struct {
	BaseDescr
	ObjectType  string
	Identifier  string
	Constraints []Descr
	LeftParen   int
	RightParen  int
}

func (p *PatternDescr) AddConstraint(d Descr) {
	if d != nil {
		p.Constraints = append(p.Constraints, d)
	}
}

// FromDescr attaches a general data-source expression to a pattern.
type FromDescr struct {
	BaseDescr
	Pattern    *PatternDescr
	DataSource *AccessorDescr
}

// AccumulateDescr attaches an accumulate data source: a source pattern plus
// init/action/result code chunks, all captured verbatim.
type AccumulateDescr struct {
	BaseDescr
	InputPattern  *PatternDescr
	SourcePattern *PatternDescr
	InitCode      string
	ActionCode    string
	ResultCode    string
}

// CollectDescr attaches a collect data source wrapping a source pattern.
type CollectDescr struct {
	BaseDescr
	InputPattern  *PatternDescr
	SourcePattern *PatternDescr
}

// AccessorDescr is the parsed shape of a from-source expression such as
// "shop.catalog.items($type)": a head access followed by nested field and
// method accesses.
type AccessorDescr struct {
	BaseDescr
	Invokers []Descr
}

func (a *AccessorDescr) AddInvoker(d Descr) {
	if d != nil {
		a.Invokers = append(a.Invokers, d)
	}
}

type FieldAccessDescr struct {
	BaseDescr
	FieldName string
}

// MethodAccessDescr is a call in an accessor chain. Arguments holds the raw
// argument chunk including parentheses.
type MethodAccessDescr struct {
	BaseDescr
	MethodName string
	Arguments  string
}
