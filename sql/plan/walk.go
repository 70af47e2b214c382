package plan

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
)

// Inspect calls f for each node of the plan, in order, until f returns
// false. It does not consume the plan iterator.
func Inspect(p *Plan, f func(Node) bool) {
	for _, n := range p.nodes {
		if !f(n) {
			return
		}
	}
}

// WalkExpressions traverses the plan and calls expression.Walk on any
// expression it finds.
func WalkExpressions(v expression.Visitor, p *Plan) {
	Inspect(p, func(n Node) bool {
		for _, e := range n.Expressions() {
			expression.Walk(v, e)
		}
		return true
	})
}

// InspectExpressions traverses the plan and calls f on any expression it
// finds.
func InspectExpressions(p *Plan, f func(sql.Expression) bool) {
	WalkExpressions(exprInspector(f), p)
}

type exprInspector func(sql.Expression) bool

func (f exprInspector) Visit(e sql.Expression) expression.Visitor {
	if f(e) {
		return f
	}
	return nil
}
