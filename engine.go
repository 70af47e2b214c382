package distsql

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression/function/aggregation"
	"gopkg.in/src-d/go-distsql.v0/sql/parse"
	"gopkg.in/src-d/go-distsql.v0/sql/plan"
	"gopkg.in/src-d/go-distsql.v0/sql/planner"
)

// Engine plans SQL queries over a cluster.
type Engine struct {
	Catalog      sql.Catalog
	Aggregations *aggregation.Registry
	Planner      *planner.Planner
}

// New creates a new Engine with the default aggregate functions.
func New(catalog sql.Catalog, routing sql.RoutingProvider) *Engine {
	return NewWithPlanner(catalog, routing, planner.NewBuilder)
}

// NewWithPlanner creates a new Engine whose planner is configured by the
// given builder function, e.g. to enable debug logging.
func NewWithPlanner(
	catalog sql.Catalog,
	routing sql.RoutingProvider,
	builder func(sql.Catalog, sql.RoutingProvider, sql.AggregationRegistry) *planner.Builder,
) *Engine {
	r := aggregation.NewRegistry()
	return &Engine{
		Catalog:      catalog,
		Aggregations: r,
		Planner:      builder(catalog, routing, r).Build(),
	}
}

// Plan parses the query and returns its execution plan.
func (e *Engine) Plan(ctx *sql.Context, query string) (*plan.Plan, error) {
	analysis, err := parse.Parse(ctx, e.Catalog, e.Aggregations, query)
	if err != nil {
		return nil, err
	}

	return e.Planner.Plan(ctx, analysis)
}
