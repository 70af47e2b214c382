package expression

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// AggregateCall is a call to an aggregate function. Its type is the final
// type of the function, the type of the value a client receives.
type AggregateCall struct {
	name      string
	arguments []sql.Expression
	fieldType sql.Type
	distinct  bool
}

var _ sql.AggregateExpression = (*AggregateCall)(nil)

// NewAggregateCall creates a call to the aggregate function with the given
// name. An empty argument list stands for `*`.
func NewAggregateCall(name string, fieldType sql.Type, args ...sql.Expression) *AggregateCall {
	return &AggregateCall{
		name:      strings.ToLower(name),
		arguments: args,
		fieldType: fieldType,
	}
}

// NewDistinctAggregateCall creates a call that aggregates distinct values only.
func NewDistinctAggregateCall(name string, fieldType sql.Type, args ...sql.Expression) *AggregateCall {
	c := NewAggregateCall(name, fieldType, args...)
	c.distinct = true
	return c
}

// FunctionName implements the sql.AggregateExpression interface.
func (c *AggregateCall) FunctionName() string { return c.name }

// Arguments implements the sql.AggregateExpression interface.
func (c *AggregateCall) Arguments() []sql.Expression { return c.arguments }

// IsDistinct returns whether only distinct values are aggregated.
func (c *AggregateCall) IsDistinct() bool { return c.distinct }

// ArgumentTypes returns the types of the arguments, in order.
func (c *AggregateCall) ArgumentTypes() sql.Types {
	types := make(sql.Types, len(c.arguments))
	for i, a := range c.arguments {
		types[i] = a.Type()
	}
	return types
}

// Type implements the Expression interface.
func (c *AggregateCall) Type() sql.Type { return c.fieldType }

// Children implements the Expression interface.
func (c *AggregateCall) Children() []sql.Expression { return c.arguments }

// Resolved implements the Expression interface.
func (c *AggregateCall) Resolved() bool {
	return expressionsResolved(c.arguments...)
}

func (c *AggregateCall) String() string {
	if len(c.arguments) == 0 {
		return fmt.Sprintf("%s(*)", c.name)
	}

	args := make([]string, len(c.arguments))
	for i, a := range c.arguments {
		args[i] = a.String()
	}

	var distinct string
	if c.distinct {
		distinct = "DISTINCT "
	}
	return fmt.Sprintf("%s(%s%s)", c.name, distinct, strings.Join(args, ", "))
}
