package sql

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrNodeAlreadyWritten is returned when the node has already been written.
var ErrNodeAlreadyWritten = errors.NewKind("treeprinter: node already written")

// ErrChildrenAlreadyWritten is returned when the children have already been
// written.
var ErrChildrenAlreadyWritten = errors.NewKind("treeprinter: children already written")

// TreePrinter is a printer for tree nodes.
type TreePrinter struct {
	buf         bytes.Buffer
	nodeWritten bool
	written     bool
}

// NewTreePrinter creates a new tree printer.
func NewTreePrinter() *TreePrinter {
	return new(TreePrinter)
}

// WriteNode writes the main node.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) error {
	if p.nodeWritten {
		return ErrNodeAlreadyWritten.New()
	}

	_, err := fmt.Fprintf(&p.buf, format, args...)
	if err != nil {
		return err
	}
	p.buf.WriteRune('\n')
	p.nodeWritten = true
	return nil
}

// WriteChildren writes a children of the tree.
func (p *TreePrinter) WriteChildren(children ...string) error {
	if p.written {
		return ErrChildrenAlreadyWritten.New()
	}

	for i, child := range children {
		last := i+1 == len(children)
		r := strings.NewReader(strings.TrimRight(child, "\n"))

		var first = true
		for {
			line, err := readLine(r)
			if line == "" && err != nil {
				break
			}

			switch {
			case first && last:
				p.buf.WriteString(" └─ ")
			case first:
				p.buf.WriteString(" ├─ ")
			case last:
				p.buf.WriteString("    ")
			default:
				p.buf.WriteString(" │  ")
			}

			p.buf.WriteString(line)
			p.buf.WriteRune('\n')
			first = false
		}
	}

	p.written = true
	return nil
}

func readLine(r *strings.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			return buf.String(), err
		}
		if c == '\n' {
			return buf.String(), nil
		}
		buf.WriteRune(c)
	}
}

// String returns the output of the printed tree.
func (p *TreePrinter) String() string {
	return p.buf.String()
}
