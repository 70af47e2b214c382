package plan

import (
	"fmt"
	"io"
	"sync"

	"github.com/mitchellh/hashstructure"
	uuid "github.com/satori/go.uuid"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrEmptyPlan is returned when a plan is created without nodes.
	ErrEmptyPlan = errors.NewKind("a plan needs at least one node")

	// ErrInvalidPlan is returned when the stages of a plan cannot be
	// chained together.
	ErrInvalidPlan = errors.NewKind("invalid plan: %s cannot follow %s")
)

// Plan is an ordered sequence of execution stages. Rows flow from each
// stage to the next one and the last stage produces the query result.
// A plan is immutable; its node iterator can only be consumed once.
type Plan struct {
	nodes []Node

	mu  sync.Mutex
	pos int
}

// New creates a plan out of the given stages, checking that every stage
// receives the row types the previous one produces.
func New(nodes ...Node) (*Plan, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyPlan.New()
	}

	if err := CheckTypes(nodes...); err != nil {
		return nil, err
	}

	p := &Plan{nodes: append([]Node(nil), nodes...)}

	var unresolved sql.Expression
	InspectExpressions(p, func(e sql.Expression) bool {
		if e == nil || unresolved != nil {
			return false
		}
		if !e.Resolved() {
			unresolved = e
			return false
		}
		return true
	})
	if unresolved != nil {
		return nil, sql.ErrUnresolvedExpression.New(unresolved)
	}

	return p, nil
}

// CheckTypes validates that the stages can be chained: only the first
// stage may be a source and each later one must be a Receiver whose input
// types equal the output types of its predecessor.
func CheckTypes(nodes ...Node) error {
	for i, n := range nodes {
		r, isReceiver := n.(Receiver)
		if i == 0 {
			if isReceiver {
				return ErrInvalidPlan.New(nodeName(n), "nothing")
			}
			continue
		}

		prev := nodes[i-1]
		if !isReceiver {
			return ErrInvalidPlan.New(nodeName(n), nodeName(prev))
		}

		if !r.InputTypes().Equals(prev.OutputTypes()) {
			return sql.ErrTypeMismatch.New(
				nodeName(prev),
				prev.OutputTypes(),
				nodeName(n),
				r.InputTypes(),
			)
		}
	}
	return nil
}

func nodeName(n Node) string {
	switch n.(type) {
	case *CollectNode:
		return "Collect"
	case *MergeNode:
		return "Merge"
	case *ESSearchNode:
		return "ESSearch"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// OutputTypes returns the types of the rows produced by the last stage.
func (p *Plan) OutputTypes() sql.Types {
	return p.nodes[len(p.nodes)-1].OutputTypes()
}

// Len returns the number of stages.
func (p *Plan) Len() int { return len(p.nodes) }

// Nodes returns a copy of the stages. It does not consume the iterator.
func (p *Plan) Nodes() []Node {
	return append([]Node(nil), p.nodes...)
}

// NodeIter is an iterator of plan stages.
type NodeIter interface {
	// Next returns the next stage, or io.EOF when there are no more.
	Next() (Node, error)
	// Close exhausts the iterator.
	Close() error
}

// Iterator returns an iterator over the stages of the plan. All iterators
// of a plan share a single cursor: each stage is returned exactly once and
// once the plan has been consumed no iterator returns more stages.
func (p *Plan) Iterator() NodeIter {
	return &nodeIter{p}
}

type nodeIter struct {
	p *Plan
}

func (i *nodeIter) Next() (Node, error) {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()

	if i.p.pos >= len(i.p.nodes) {
		return nil, io.EOF
	}

	n := i.p.nodes[i.p.pos]
	i.p.pos++
	return n, nil
}

func (i *nodeIter) Close() error {
	i.p.mu.Lock()
	i.p.pos = len(i.p.nodes)
	i.p.mu.Unlock()
	return nil
}

// NodeIterToNodes consumes the iterator and returns the stages it yielded.
func NodeIterToNodes(iter NodeIter) ([]Node, error) {
	var nodes []Node
	for {
		n, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, iter.Close()
}

// Hash returns a structural fingerprint of the plan. Plans with the same
// stages have the same hash.
func (p *Plan) Hash() (uint64, error) {
	fingerprints := make([]interface{}, len(p.nodes))
	for i, n := range p.nodes {
		fingerprints[i] = n.fingerprint()
	}
	return hashstructure.Hash(fingerprints, nil)
}

// ID returns an identifier derived from the plan fingerprint, so equal
// plans share the same id.
func (p *Plan) ID() (uuid.UUID, error) {
	hash, err := p.Hash()
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("%x", hash)), nil
}

func (p *Plan) String() string {
	tp := sql.NewTreePrinter()
	_ = tp.WriteNode("Plan%s", p.OutputTypes())
	children := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		children[i] = n.String()
	}
	_ = tp.WriteChildren(children...)
	return tp.String()
}
