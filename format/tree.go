package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/drl/rule/descr"
)

// TreeEncoder renders the descriptor tree as indented lines, one node per
// line. Field values are quoted so multi-line chunks stay on one line.
type TreeEncoder struct {
	w   io.Writer
	pkg *descr.PackageDescr
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(pkg *descr.PackageDescr) error {
	e.pkg = pkg
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	writeIndented(&sb, describe(e.pkg), 0)
	return []byte(sb.String()), nil
}

func writeIndented(sb *strings.Builder, n *node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.kind)
	for _, f := range n.fields {
		fmt.Fprintf(sb, " %s=%s", f.name, strconv.Quote(f.value))
	}
	if n.span != nil {
		fmt.Fprintf(sb, " @%d:%d", n.span.Line, n.span.Column)
	}
	sb.WriteString("\n")
	for _, child := range n.children {
		writeIndented(sb, child, depth+1)
	}
}
