package sql

import (
	"fmt"
	"strings"
)

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// Resolvable is something that can be resolved or not.
type Resolvable interface {
	// Resolved returns whether the node is resolved.
	Resolved() bool
}

// Expression is a typed expression evaluated by some stage of a plan.
type Expression interface {
	Resolvable
	fmt.Stringer
	// Type returns the expression type.
	Type() Type
	// Children returns the children expressions of this expression.
	Children() []Expression
}

// AggregateExpression is an expression calling an aggregate function.
type AggregateExpression interface {
	Expression
	// FunctionName is the lowercased name of the aggregate function.
	FunctionName() string
	// Arguments are the expressions the function aggregates.
	Arguments() []Expression
}

// Row is a tuple of values.
type Row []interface{}

// NewRow creates a row from the given values.
func NewRow(values ...interface{}) Row {
	row := make([]interface{}, len(values))
	copy(row, values)
	return row
}

// Copy creates a new row with the same values as the current one.
func (r Row) Copy() Row {
	return NewRow(r...)
}

// AggregationSignature describes the types an aggregate function goes
// through: PartialType is the type of the state each node produces while
// collecting, FinalType is the type of the value once all partial states
// have been reduced.
type AggregationSignature struct {
	Name          string
	ArgumentTypes Types
	PartialType   Type
	FinalType     Type
}

func (s AggregationSignature) String() string {
	args := make([]string, len(s.ArgumentTypes))
	for i, t := range s.ArgumentTypes {
		args[i] = t.String()
	}
	return fmt.Sprintf("%s(%s)", s.Name, strings.Join(args, ", "))
}

// Aggregation is the implementation of an aggregate function. Each node
// creates a buffer, updates it with its local rows and ships it to the
// merge stage, which merges all buffers into one and evaluates it.
type Aggregation interface {
	// Signature returns the partial and final types of the function.
	Signature() AggregationSignature
	// NewBuffer creates a new empty aggregation state.
	NewBuffer() Row
	// Update feeds the values of the function arguments for one row into
	// the buffer.
	Update(buffer Row, args ...interface{}) error
	// Merge folds a partial buffer produced by another node into buffer.
	Merge(buffer, partial Row) error
	// Eval returns the final value of the buffer.
	Eval(buffer Row) (interface{}, error)
}

// AggregationRegistry resolves aggregate function references.
type AggregationRegistry interface {
	// Aggregation returns the implementation of the function with the given
	// name for the given argument types. It fails with ErrUnknownFunction if
	// there is no such function.
	Aggregation(name string, args Types) (Aggregation, error)
}
