package planner

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/plan"
)

// planSingleHop hands the whole statement to the search engine, which
// filters, sorts and paginates natively and returns final values.
func planSingleHop(table *sql.TableInfo, a *sql.Analysis) []plan.Node {
	return []plan.Node{
		plan.NewESSearchNode(
			table.Ident,
			a.Outputs,
			a.Where,
			a.SortFields,
			a.Limit,
			a.Offset,
		),
	}
}
