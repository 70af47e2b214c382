package aggregation

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Sum adds up the non null values of a numeric argument.
type Sum struct {
	args sql.Types
}

// NewSum creates a new Sum aggregation.
func NewSum(args sql.Types) (sql.Aggregation, error) {
	if err := checkArgs("sum", args, 1, 1); err != nil {
		return nil, err
	}
	if !args[0].IsNumeric() {
		return nil, unknownSignature("sum", args)
	}
	return &Sum{args: args}, nil
}

// Signature implements the sql.Aggregation interface.
func (s *Sum) Signature() sql.AggregationSignature {
	return sql.AggregationSignature{
		Name:          "sum",
		ArgumentTypes: s.args,
		PartialType:   sql.Double,
		FinalType:     sql.Double,
	}
}

// NewBuffer implements the sql.Aggregation interface. The second value
// tracks whether any non null value was seen.
func (s *Sum) NewBuffer() sql.Row {
	return sql.NewRow(float64(0), false)
}

// Update implements the sql.Aggregation interface.
func (s *Sum) Update(buffer sql.Row, args ...interface{}) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}

	v, err := toFloat64(args[0])
	if err != nil {
		return err
	}

	buffer[0] = buffer[0].(float64) + v
	buffer[1] = true
	return nil
}

// Merge implements the sql.Aggregation interface.
func (s *Sum) Merge(buffer, partial sql.Row) error {
	if !partial[1].(bool) {
		return nil
	}

	buffer[0] = buffer[0].(float64) + partial[0].(float64)
	buffer[1] = true
	return nil
}

// Eval implements the sql.Aggregation interface.
func (s *Sum) Eval(buffer sql.Row) (interface{}, error) {
	if !buffer[1].(bool) {
		return nil, nil
	}
	return buffer[0], nil
}
