package planner

import (
	"os"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/plan"
	"gopkg.in/src-d/go-errors.v1"
)

const debugPlannerKey = "DEBUG_PLANNER"

var (
	// ErrEmptyAnalysis is returned when the analysis has no outputs to plan.
	ErrEmptyAnalysis = errors.NewKind("nothing to plan for table %s")
	// ErrNilAnalysis is returned when Plan is called without an analysis.
	ErrNilAnalysis = errors.NewKind("cannot plan a nil analysis")
)

const (
	globalAggregationPath = "global-aggregation"
	distributedPath       = "distributed"
	singleHopPath         = "single-hop"
)

// Builder provides an easy way to generate a Planner with custom options.
type Builder struct {
	catalog      sql.Catalog
	routing      sql.RoutingProvider
	aggregations sql.AggregationRegistry
	debug        bool
}

// NewBuilder creates a new Builder from the planner collaborators.
func NewBuilder(
	catalog sql.Catalog,
	routing sql.RoutingProvider,
	aggregations sql.AggregationRegistry,
) *Builder {
	return &Builder{
		catalog:      catalog,
		routing:      routing,
		aggregations: aggregations,
	}
}

// WithDebug activates debug on the Planner.
func (b *Builder) WithDebug() *Builder {
	b.debug = true
	return b
}

// Build creates a new Planner using all previous data set to the Builder.
func (b *Builder) Build() *Planner {
	_, debug := os.LookupEnv(debugPlannerKey)
	return &Planner{
		Debug:        debug || b.debug,
		Catalog:      b.catalog,
		Routing:      b.routing,
		Aggregations: b.aggregations,
	}
}

// Planner turns analyzed statements into distributed execution plans. It
// holds no state between calls and is safe for concurrent use.
type Planner struct {
	// Debug enables logging of planning decisions.
	Debug bool
	// Catalog resolves tables.
	Catalog sql.Catalog
	// Routing tells which nodes own the shards of a table.
	Routing sql.RoutingProvider
	// Aggregations resolves aggregate functions.
	Aggregations sql.AggregationRegistry
}

// New creates a default Planner. To set options, use the Builder.
func New(
	catalog sql.Catalog,
	routing sql.RoutingProvider,
	aggregations sql.AggregationRegistry,
) *Planner {
	return NewBuilder(catalog, routing, aggregations).Build()
}

// Log prints an INFO message with the given message and args if the
// planner is in debug mode.
func (p *Planner) Log(msg string, args ...interface{}) {
	if p != nil && p.Debug {
		logrus.Infof(msg, args...)
	}
}

// Plan creates the execution plan of the given analysis. The analysis is
// not modified.
func (p *Planner) Plan(ctx *sql.Context, a *sql.Analysis) (*plan.Plan, error) {
	if a == nil {
		return nil, ErrNilAnalysis.New()
	}

	span, ctx := ctx.Span("plan", opentracing.Tags{
		"table": a.Table.String(),
	})
	defer span.Finish()

	if len(a.Outputs) == 0 {
		return nil, ErrEmptyAnalysis.New(a.Table)
	}

	table, err := p.Catalog.Table(ctx, a.Table)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, sql.ErrUnknownTable.New(a.Table)
	}

	if err := checkShape(a); err != nil {
		return nil, err
	}

	var path string
	var nodes []plan.Node
	switch {
	case a.IsGlobalAggregate():
		path = globalAggregationPath
		nodes, err = p.planGlobalAggregation(ctx, table, a)
	case !table.SearchBacked:
		path = distributedPath
		nodes, err = p.planDistributed(ctx, table, a)
	default:
		path = singleHopPath
		nodes = planSingleHop(table, a)
	}
	span.SetTag("path", path)
	if err != nil {
		return nil, err
	}

	p.Log("planning %s over %s (%s granularity) as %s", a.Table, table.Ident, table.Granularity, path)

	result, err := plan.New(nodes...)
	if err != nil {
		if sql.ErrTypeMismatch.Is(err) {
			logrus.WithFields(logrus.Fields{
				"table": a.Table.String(),
				"path":  path,
			}).Errorf("invalid plan: %s", err)
		}
		return nil, err
	}

	return result, nil
}
