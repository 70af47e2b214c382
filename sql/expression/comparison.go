package expression

import (
	"fmt"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Comparison is an expression that compares an expression against another.
type Comparison struct {
	BinaryExpression
	operator string
}

func newComparison(operator string, left, right sql.Expression) Comparison {
	return Comparison{BinaryExpression{left, right}, operator}
}

// Type implements the Expression interface.
func (*Comparison) Type() sql.Type {
	return sql.Boolean
}

// Operator returns the operator symbol of the comparison.
func (c *Comparison) Operator() string {
	return c.operator
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.operator, c.Right)
}

// Equals is a comparison that checks an expression is equal to another.
type Equals struct {
	Comparison
}

// NewEquals returns a new Equals expression.
func NewEquals(left sql.Expression, right sql.Expression) *Equals {
	return &Equals{newComparison("=", left, right)}
}

// GreaterThan is a comparison that checks an expression is greater than another.
type GreaterThan struct {
	Comparison
}

// NewGreaterThan creates a new GreaterThan expression.
func NewGreaterThan(left sql.Expression, right sql.Expression) *GreaterThan {
	return &GreaterThan{newComparison(">", left, right)}
}

// LessThan is a comparison that checks an expression is less than another.
type LessThan struct {
	Comparison
}

// NewLessThan creates a new LessThan expression.
func NewLessThan(left sql.Expression, right sql.Expression) *LessThan {
	return &LessThan{newComparison("<", left, right)}
}

// GreaterThanOrEqual is a comparison that checks an expression is greater or equal to
// another.
type GreaterThanOrEqual struct {
	Comparison
}

// NewGreaterThanOrEqual creates a new GreaterThanOrEqual
func NewGreaterThanOrEqual(left sql.Expression, right sql.Expression) *GreaterThanOrEqual {
	return &GreaterThanOrEqual{newComparison(">=", left, right)}
}

// LessThanOrEqual is a comparison that checks an expression is equal or lower than
// another.
type LessThanOrEqual struct {
	Comparison
}

// NewLessThanOrEqual creates a LessThanOrEqual expression.
func NewLessThanOrEqual(left sql.Expression, right sql.Expression) *LessThanOrEqual {
	return &LessThanOrEqual{newComparison("<=", left, right)}
}

// Like checks an expression matches a LIKE pattern.
type Like struct {
	Comparison
}

// NewLike creates a new Like expression.
func NewLike(left sql.Expression, right sql.Expression) *Like {
	return &Like{newComparison("LIKE", left, right)}
}
