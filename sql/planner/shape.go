package planner

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
)

// checkShape rejects the statements the planner cannot split across the
// cluster.
func checkShape(a *sql.Analysis) error {
	if len(a.GroupBy) > 0 {
		return sql.ErrUnsupportedFeature.New("GROUP BY")
	}

	if a.Where != nil && expression.ContainsAggregate(a.Where) {
		return sql.ErrUnsupportedFeature.New("aggregate functions in WHERE")
	}

	for _, e := range a.Outputs {
		if !e.Resolved() {
			return sql.ErrUnresolvedExpression.New(e)
		}

		agg, ok := e.(sql.AggregateExpression)
		if !ok {
			if expression.ContainsAggregate(e) {
				return sql.ErrUnsupportedFeature.New("expressions over aggregate functions")
			}
			continue
		}

		for _, arg := range agg.Arguments() {
			if expression.ContainsAggregate(arg) {
				return sql.ErrUnsupportedFeature.New("nested aggregate functions")
			}
		}
	}

	if a.HasAggregates() && !a.IsGlobalAggregate() {
		return sql.ErrUnsupportedFeature.New("mixing aggregate and non-aggregate outputs without GROUP BY")
	}

	if !a.HasAggregates() {
		for _, f := range a.SortFields {
			if expression.ContainsAggregate(f.Column) {
				return sql.ErrUnsupportedFeature.New("ordering by aggregate functions")
			}
		}
	}

	return nil
}
