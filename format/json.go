package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/drl/rule/descr"
)

type JSONEncoder struct {
	w   io.Writer
	pkg *descr.PackageDescr
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(pkg *descr.PackageDescr) error {
	e.pkg = pkg
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = e.w.Write([]byte("\n"))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(toJSON(describe(e.pkg)), "", "  ")
}

type jsonNode struct {
	Kind     string            `json:"kind"`
	Fields   map[string]string `json:"fields,omitempty"`
	Span     *span             `json:"span,omitempty"`
	Children []*jsonNode       `json:"children,omitempty"`
}

func toJSON(n *node) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{
		Kind: n.kind,
		Span: n.span,
	}
	if len(n.fields) > 0 {
		jn.Fields = make(map[string]string, len(n.fields))
		for _, f := range n.fields {
			jn.Fields[f.name] = f.value
		}
	}
	if len(n.children) > 0 {
		jn.Children = make([]*jsonNode, len(n.children))
		for i, child := range n.children {
			jn.Children[i] = toJSON(child)
		}
	}
	return jn
}
