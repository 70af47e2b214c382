package plan

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// CollectNode is the stage every routed node runs over its local shards.
// It evaluates ToCollect for each row matching the predicate and either
// emits those values or, when it has aggregations, one row of partial
// aggregation states.
type CollectNode struct {
	routing      sql.Routing
	toCollect    []sql.Expression
	where        sql.Expression
	aggregations []AggregationStep
	orderBy      []OrderBy
	limit        *int64
}

// NewCollectNode creates a new collect stage over the given routing.
func NewCollectNode(routing sql.Routing, toCollect []sql.Expression, where sql.Expression) *CollectNode {
	exprs := make([]sql.Expression, len(toCollect))
	copy(exprs, toCollect)
	return &CollectNode{
		routing:   routing,
		toCollect: exprs,
		where:     where,
	}
}

// WithAggregations returns a copy of the node computing the given partial
// aggregations over the collected values.
func (c *CollectNode) WithAggregations(aggs ...AggregationStep) *CollectNode {
	nc := *c
	nc.aggregations = append([]AggregationStep(nil), aggs...)
	return &nc
}

// WithOrderBy returns a copy of the node sorting its local rows.
func (c *CollectNode) WithOrderBy(orderBy ...OrderBy) *CollectNode {
	nc := *c
	nc.orderBy = append([]OrderBy(nil), orderBy...)
	return &nc
}

// WithLimit returns a copy of the node emitting at most limit rows per
// routed node.
func (c *CollectNode) WithLimit(limit *int64) *CollectNode {
	nc := *c
	nc.limit = copyLimit(limit)
	return &nc
}

// Routing returns the nodes and shards the stage runs on.
func (c *CollectNode) Routing() sql.Routing { return c.routing }

// ToCollect returns the expressions evaluated for each row.
func (c *CollectNode) ToCollect() []sql.Expression {
	return append([]sql.Expression(nil), c.toCollect...)
}

// Where returns the predicate rows must match, or nil.
func (c *CollectNode) Where() sql.Expression { return c.where }

// Aggregations returns the partial aggregations of the stage.
func (c *CollectNode) Aggregations() []AggregationStep {
	return append([]AggregationStep(nil), c.aggregations...)
}

// OrderBy returns the local sort keys.
func (c *CollectNode) OrderBy() []OrderBy {
	return append([]OrderBy(nil), c.orderBy...)
}

// Limit returns the per node limit, or nil.
func (c *CollectNode) Limit() *int64 { return copyLimit(c.limit) }

// OutputTypes implements the Node interface. With aggregations the stage
// emits their partial states, otherwise the collected values.
func (c *CollectNode) OutputTypes() sql.Types {
	if len(c.aggregations) > 0 {
		return aggregationTypes(c.aggregations)
	}
	return expressionTypes(c.toCollect)
}

// Expressions implements the Node interface.
func (c *CollectNode) Expressions() []sql.Expression {
	exprs := c.ToCollect()
	if c.where != nil {
		exprs = append(exprs, c.where)
	}
	return exprs
}

func (c *CollectNode) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Collect(nodes=%d, shards=%d)", len(c.routing.Nodes()), c.routing.Len())

	children := []string{
		fmt.Sprintf("Routing%s", c.routing),
		fmt.Sprintf("ToCollect(%s)", strings.Join(expressionStrings(c.toCollect), ", ")),
	}
	if c.where != nil {
		children = append(children, fmt.Sprintf("Where(%s)", c.where))
	}
	if len(c.aggregations) > 0 {
		children = append(children, fmt.Sprintf("Aggregations%v", c.aggregations))
	}
	if len(c.orderBy) > 0 {
		children = append(children, fmt.Sprintf("OrderBy%v", c.orderBy))
	}
	if c.limit != nil {
		children = append(children, fmt.Sprintf("Limit(%d)", *c.limit))
	}
	children = append(children, fmt.Sprintf("OutputTypes%s", c.OutputTypes()))

	_ = p.WriteChildren(children...)
	return p.String()
}

func (c *CollectNode) fingerprint() interface{} {
	var limit int64 = -1
	if c.limit != nil {
		limit = *c.limit
	}
	return struct {
		Kind         string
		Routing      map[string]map[string][]int
		ToCollect    []string
		Where        string
		Aggregations []aggregationFingerprint
		OrderBy      []OrderBy
		Limit        int64
		OutputTypes  []sql.Type
	}{
		Kind:         "collect",
		Routing:      c.routing.Locations(),
		ToCollect:    expressionStrings(c.toCollect),
		Where:        stringOrEmpty(c.where),
		Aggregations: aggregationFingerprints(c.aggregations),
		OrderBy:      c.orderBy,
		Limit:        limit,
		OutputTypes:  c.OutputTypes(),
	}
}
