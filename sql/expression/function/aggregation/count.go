package aggregation

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Count counts the rows where its argument is not null, or all rows when
// it has no argument.
type Count struct {
	star bool
	args sql.Types
}

// NewCount creates a new Count aggregation.
func NewCount(args sql.Types) (sql.Aggregation, error) {
	if err := checkArgs("count", args, 0, 1); err != nil {
		return nil, err
	}
	return &Count{star: len(args) == 0, args: args}, nil
}

// Signature implements the sql.Aggregation interface. The partial state is
// an untyped counter that only becomes a long once reduced.
func (c *Count) Signature() sql.AggregationSignature {
	return sql.AggregationSignature{
		Name:          "count",
		ArgumentTypes: c.args,
		PartialType:   sql.Null,
		FinalType:     sql.Long,
	}
}

// NewBuffer implements the sql.Aggregation interface.
func (c *Count) NewBuffer() sql.Row {
	return sql.NewRow(int64(0))
}

// Update implements the sql.Aggregation interface.
func (c *Count) Update(buffer sql.Row, args ...interface{}) error {
	if c.star || (len(args) > 0 && args[0] != nil) {
		buffer[0] = buffer[0].(int64) + int64(1)
	}
	return nil
}

// Merge implements the sql.Aggregation interface.
func (c *Count) Merge(buffer, partial sql.Row) error {
	buffer[0] = buffer[0].(int64) + partial[0].(int64)
	return nil
}

// Eval implements the sql.Aggregation interface.
func (c *Count) Eval(buffer sql.Row) (interface{}, error) {
	return buffer[0], nil
}

// CountDistinct counts the distinct non null values of its argument.
type CountDistinct struct {
	args sql.Types
}

// NewCountDistinct creates a new CountDistinct aggregation.
func NewCountDistinct(args sql.Types) (sql.Aggregation, error) {
	if err := checkArgs("count_distinct", args, 1, 1); err != nil {
		return nil, err
	}
	return &CountDistinct{args: args}, nil
}

// Signature implements the sql.Aggregation interface. The partial state is
// the set of value hashes seen by a node.
func (c *CountDistinct) Signature() sql.AggregationSignature {
	return sql.AggregationSignature{
		Name:          "count_distinct",
		ArgumentTypes: c.args,
		PartialType:   sql.Object,
		FinalType:     sql.Long,
	}
}

// NewBuffer implements the sql.Aggregation interface.
func (c *CountDistinct) NewBuffer() sql.Row {
	return sql.NewRow(make(map[uint64]struct{}))
}

// Update implements the sql.Aggregation interface.
func (c *CountDistinct) Update(buffer sql.Row, args ...interface{}) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}

	hash, err := hashstructure.Hash(args[0], nil)
	if err != nil {
		return fmt.Errorf("unable to hash value: %s", err)
	}

	seen := buffer[0].(map[uint64]struct{})
	seen[hash] = struct{}{}
	return nil
}

// Merge implements the sql.Aggregation interface.
func (c *CountDistinct) Merge(buffer, partial sql.Row) error {
	seen := buffer[0].(map[uint64]struct{})
	for hash := range partial[0].(map[uint64]struct{}) {
		seen[hash] = struct{}{}
	}
	return nil
}

// Eval implements the sql.Aggregation interface.
func (c *CountDistinct) Eval(buffer sql.Row) (interface{}, error) {
	return int64(len(buffer[0].(map[uint64]struct{}))), nil
}
