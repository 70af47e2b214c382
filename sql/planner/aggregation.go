package planner

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/plan"
)

type distinctAggregate interface {
	IsDistinct() bool
}

// aggregationName returns the registry name of the aggregate function
// computed by the expression.
func aggregationName(agg sql.AggregateExpression) string {
	if d, ok := agg.(distinctAggregate); ok && d.IsDistinct() {
		return agg.FunctionName() + "_distinct"
	}
	return agg.FunctionName()
}

// planGlobalAggregation splits a statement whose outputs are all aggregate
// functions into a collect stage computing partial states on every routed
// node and a merge stage reducing them into the final values.
func (p *Planner) planGlobalAggregation(
	ctx *sql.Context,
	table *sql.TableInfo,
	a *sql.Analysis,
) ([]plan.Node, error) {
	routing, err := p.routing(ctx, table, a.Where)
	if err != nil {
		return nil, err
	}

	var toCollect []sql.Expression
	positions := make(map[string]int)
	aggs := a.Aggregates()
	partials := make([]plan.AggregationStep, len(aggs))
	finals := make([]plan.AggregationStep, len(aggs))

	for i, agg := range aggs {
		args := agg.Arguments()
		argTypes := make(sql.Types, len(args))
		inputs := make([]int, len(args))
		for j, arg := range args {
			argTypes[j] = arg.Type()

			key := arg.String()
			pos, ok := positions[key]
			if !ok {
				pos = len(toCollect)
				positions[key] = pos
				toCollect = append(toCollect, arg)
			}
			inputs[j] = pos
		}

		impl, err := p.Aggregations.Aggregation(aggregationName(agg), argTypes)
		if err != nil {
			if !sql.ErrUnknownFunction.Is(err) {
				err = sql.ErrUnknownFunction.Wrap(err, agg)
			}
			return nil, err
		}

		sig := impl.Signature()
		partials[i] = plan.AggregationStep{Signature: sig, Inputs: inputs, Step: plan.Partial}
		finals[i] = plan.AggregationStep{Signature: sig, Inputs: []int{i}, Step: plan.Final}
	}

	collect := plan.NewCollectNode(routing, toCollect, a.Where).
		WithAggregations(partials...)

	merge := plan.NewMergeNode(collect.OutputTypes(), len(routing.Nodes())).
		WithAggregations(finals...)
	if a.HasLimit() || a.Offset > 0 {
		merge = merge.WithLimit(a.Limit, a.Offset)
	}

	return []plan.Node{collect, merge}, nil
}

// routing returns the validated routing of the table.
func (p *Planner) routing(ctx *sql.Context, table *sql.TableInfo, where sql.Expression) (sql.Routing, error) {
	span, ctx := ctx.Span("routing")
	defer span.Finish()

	routing, err := p.Routing.Routing(ctx, table.Ident, where)
	if err != nil {
		return sql.Routing{}, err
	}

	if err := routing.Validate(); err != nil {
		return sql.Routing{}, err
	}

	span.SetTag("nodes", len(routing.Nodes()))
	return routing, nil
}
