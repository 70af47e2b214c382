package planner

import (
	"math"

	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/plan"
)

// planDistributed collects the requested outputs on every routed node and
// merges the streams on the coordinator, applying the global ordering and
// pagination there. Sort keys that are not projected are collected as
// trailing columns and dropped by the merge stage.
func (p *Planner) planDistributed(
	ctx *sql.Context,
	table *sql.TableInfo,
	a *sql.Analysis,
) ([]plan.Node, error) {
	routing, err := p.routing(ctx, table, a.Where)
	if err != nil {
		return nil, err
	}

	toCollect := append([]sql.Expression(nil), a.Outputs...)
	orderBy := make([]plan.OrderBy, len(a.SortFields))
	for i, f := range a.SortFields {
		idx := indexOfExpression(toCollect, f.Column)
		if idx < 0 {
			idx = len(toCollect)
			toCollect = append(toCollect, f.Column)
		}

		orderBy[i] = plan.OrderBy{
			Index:        idx,
			Order:        f.Order,
			NullOrdering: f.NullOrdering,
		}
	}

	collect := plan.NewCollectNode(routing, toCollect, a.Where)
	if len(orderBy) > 0 {
		collect = collect.WithOrderBy(orderBy...)
	}
	if a.HasLimit() {
		perNode := perNodeLimit(*a.Limit, a.Offset)
		collect = collect.WithLimit(&perNode)
	}

	merge := plan.NewMergeNode(collect.OutputTypes(), len(routing.Nodes()))
	if len(orderBy) > 0 {
		merge = merge.WithOrderBy(orderBy...)
	}
	if a.HasLimit() || a.Offset > 0 {
		merge = merge.WithLimit(a.Limit, a.Offset)
	}
	if len(toCollect) > len(a.Outputs) {
		projection := make([]int, len(a.Outputs))
		for i := range projection {
			projection[i] = i
		}
		merge = merge.WithProjection(projection...)
	}

	return []plan.Node{collect, merge}, nil
}

// perNodeLimit is the number of rows each node must return so that the
// merge stage can still skip offset rows and emit limit ones. It saturates
// at math.MaxInt64.
func perNodeLimit(limit, offset int64) int64 {
	if offset > math.MaxInt64-limit {
		return math.MaxInt64
	}
	return limit + offset
}

func indexOfExpression(exprs []sql.Expression, e sql.Expression) int {
	key := e.String()
	for i, ex := range exprs {
		if ex.String() == key {
			return i
		}
	}
	return -1
}
