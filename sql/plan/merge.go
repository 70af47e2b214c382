package plan

import (
	"fmt"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// MergeNode is the coordinating stage receiving one stream per upstream
// node. It reduces partial aggregation states into final values and/or
// merge-sorts the streams, then applies limit and offset.
type MergeNode struct {
	inputTypes   sql.Types
	numUpstreams int
	aggregations []AggregationStep
	orderBy      []OrderBy
	limit        *int64
	offset       int64
	projection   []int
}

// NewMergeNode creates a merge stage expecting rows of the given types from
// numUpstreams streams.
func NewMergeNode(inputTypes sql.Types, numUpstreams int) *MergeNode {
	return &MergeNode{
		inputTypes:   append(sql.Types(nil), inputTypes...),
		numUpstreams: numUpstreams,
	}
}

// WithAggregations returns a copy of the node reducing the given
// aggregations.
func (m *MergeNode) WithAggregations(aggs ...AggregationStep) *MergeNode {
	nm := *m
	nm.aggregations = append([]AggregationStep(nil), aggs...)
	return &nm
}

// WithOrderBy returns a copy of the node merge-sorting its upstreams by the
// given keys. Upstreams must already be sorted by the same keys.
func (m *MergeNode) WithOrderBy(orderBy ...OrderBy) *MergeNode {
	nm := *m
	nm.orderBy = append([]OrderBy(nil), orderBy...)
	return &nm
}

// WithLimit returns a copy of the node skipping offset rows and returning
// at most limit rows after that. A nil limit returns all rows.
func (m *MergeNode) WithLimit(limit *int64, offset int64) *MergeNode {
	nm := *m
	nm.limit = copyLimit(limit)
	nm.offset = offset
	return &nm
}

// WithProjection returns a copy of the node emitting only the input columns
// at the given positions.
func (m *MergeNode) WithProjection(columns ...int) *MergeNode {
	nm := *m
	nm.projection = append([]int(nil), columns...)
	return &nm
}

// NumUpstreams returns how many streams the stage merges.
func (m *MergeNode) NumUpstreams() int { return m.numUpstreams }

// Aggregations returns the final aggregations of the stage.
func (m *MergeNode) Aggregations() []AggregationStep {
	return append([]AggregationStep(nil), m.aggregations...)
}

// OrderBy returns the sort keys of the merge.
func (m *MergeNode) OrderBy() []OrderBy {
	return append([]OrderBy(nil), m.orderBy...)
}

// Limit returns the limit, or nil.
func (m *MergeNode) Limit() *int64 { return copyLimit(m.limit) }

// Offset returns the number of rows skipped.
func (m *MergeNode) Offset() int64 { return m.offset }

// Projection returns the positions of the input columns emitted, nil when
// all of them are.
func (m *MergeNode) Projection() []int {
	if m.projection == nil {
		return nil
	}
	return append([]int(nil), m.projection...)
}

// InputTypes implements the Receiver interface.
func (m *MergeNode) InputTypes() sql.Types {
	return append(sql.Types(nil), m.inputTypes...)
}

// OutputTypes implements the Node interface. With aggregations the stage
// emits their final values, otherwise the (projected) input rows.
func (m *MergeNode) OutputTypes() sql.Types {
	if len(m.aggregations) > 0 {
		return aggregationTypes(m.aggregations)
	}

	if m.projection == nil {
		return m.InputTypes()
	}

	types := make(sql.Types, len(m.projection))
	for i, idx := range m.projection {
		if idx >= 0 && idx < len(m.inputTypes) {
			types[i] = m.inputTypes[idx]
		}
	}
	return types
}

// Expressions implements the Node interface. A merge stage only works with
// positions of its input rows.
func (m *MergeNode) Expressions() []sql.Expression { return nil }

func (m *MergeNode) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Merge(upstreams=%d)", m.numUpstreams)

	children := []string{fmt.Sprintf("InputTypes%s", m.inputTypes)}
	if len(m.aggregations) > 0 {
		children = append(children, fmt.Sprintf("Aggregations%v", m.aggregations))
	}
	if len(m.orderBy) > 0 {
		children = append(children, fmt.Sprintf("OrderBy%v", m.orderBy))
	}
	if m.limit != nil {
		children = append(children, fmt.Sprintf("Limit(%d)", *m.limit))
	}
	if m.offset > 0 {
		children = append(children, fmt.Sprintf("Offset(%d)", m.offset))
	}
	if m.projection != nil {
		children = append(children, fmt.Sprintf("Projection%v", m.projection))
	}
	children = append(children, fmt.Sprintf("OutputTypes%s", m.OutputTypes()))

	_ = p.WriteChildren(children...)
	return p.String()
}

func (m *MergeNode) fingerprint() interface{} {
	var limit int64 = -1
	if m.limit != nil {
		limit = *m.limit
	}
	return struct {
		Kind         string
		InputTypes   []sql.Type
		NumUpstreams int
		Aggregations []aggregationFingerprint
		OrderBy      []OrderBy
		Limit        int64
		Offset       int64
		Projection   []int
		OutputTypes  []sql.Type
	}{
		Kind:         "merge",
		InputTypes:   m.inputTypes,
		NumUpstreams: m.numUpstreams,
		Aggregations: aggregationFingerprints(m.aggregations),
		OrderBy:      m.orderBy,
		Limit:        limit,
		Offset:       m.offset,
		Projection:   m.projection,
		OutputTypes:  m.OutputTypes(),
	}
}
