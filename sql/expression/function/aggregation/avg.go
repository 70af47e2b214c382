package aggregation

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Avg calculates the average of a numeric argument.
type Avg struct {
	args sql.Types
}

// NewAvg creates a new Avg aggregation.
func NewAvg(args sql.Types) (sql.Aggregation, error) {
	if err := checkArgs("avg", args, 1, 1); err != nil {
		return nil, err
	}
	if !args[0].IsNumeric() {
		return nil, unknownSignature("avg", args)
	}
	return &Avg{args: args}, nil
}

// Signature implements the sql.Aggregation interface. The partial state
// holds both the running sum and the number of rows.
func (a *Avg) Signature() sql.AggregationSignature {
	return sql.AggregationSignature{
		Name:          "avg",
		ArgumentTypes: a.args,
		PartialType:   sql.Object,
		FinalType:     sql.Double,
	}
}

// NewBuffer implements the sql.Aggregation interface.
func (a *Avg) NewBuffer() sql.Row {
	const (
		sum       = float64(0)
		rowsCount = int64(0)
	)

	return sql.NewRow(sum, rowsCount)
}

// Update implements the sql.Aggregation interface.
func (a *Avg) Update(buffer sql.Row, args ...interface{}) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}

	v, err := toFloat64(args[0])
	if err != nil {
		return err
	}

	buffer[0] = buffer[0].(float64) + v
	buffer[1] = buffer[1].(int64) + 1
	return nil
}

// Merge implements the sql.Aggregation interface.
func (a *Avg) Merge(buffer, partial sql.Row) error {
	buffer[0] = buffer[0].(float64) + partial[0].(float64)
	buffer[1] = buffer[1].(int64) + partial[1].(int64)
	return nil
}

// Eval implements the sql.Aggregation interface.
func (a *Avg) Eval(buffer sql.Row) (interface{}, error) {
	rows := buffer[1].(int64)
	if rows == 0 {
		return nil, nil
	}
	return buffer[0].(float64) / float64(rows), nil
}
