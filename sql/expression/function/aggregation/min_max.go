package aggregation

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
)

// extreme keeps the smallest or the greatest value of its argument. Both the
// partial and the final type are the argument type.
type extreme struct {
	name string
	args sql.Types
	// sign is -1 to keep the minimum and 1 to keep the maximum.
	sign int
}

func newExtreme(name string, sign int, args sql.Types) (sql.Aggregation, error) {
	if err := checkArgs(name, args, 1, 1); err != nil {
		return nil, err
	}

	switch t := args[0]; {
	case t.IsNumeric(), t == sql.String, t == sql.IP, t == sql.Timestamp, t == sql.Boolean:
	default:
		return nil, unknownSignature(name, args)
	}

	return &extreme{name: name, args: args, sign: sign}, nil
}

// NewMin creates a new Min aggregation.
func NewMin(args sql.Types) (sql.Aggregation, error) {
	return newExtreme("min", -1, args)
}

// NewMax creates a new Max aggregation.
func NewMax(args sql.Types) (sql.Aggregation, error) {
	return newExtreme("max", 1, args)
}

// Signature implements the sql.Aggregation interface.
func (e *extreme) Signature() sql.AggregationSignature {
	return sql.AggregationSignature{
		Name:          e.name,
		ArgumentTypes: e.args,
		PartialType:   e.args[0],
		FinalType:     e.args[0],
	}
}

// NewBuffer implements the sql.Aggregation interface.
func (e *extreme) NewBuffer() sql.Row {
	return sql.NewRow(nil)
}

// Update implements the sql.Aggregation interface.
func (e *extreme) Update(buffer sql.Row, args ...interface{}) error {
	if len(args) == 0 || args[0] == nil {
		return nil
	}

	v, err := e.args[0].Convert(args[0])
	if err != nil {
		return err
	}

	return e.keep(buffer, v)
}

// Merge implements the sql.Aggregation interface.
func (e *extreme) Merge(buffer, partial sql.Row) error {
	if partial[0] == nil {
		return nil
	}
	return e.keep(buffer, partial[0])
}

func (e *extreme) keep(buffer sql.Row, v interface{}) error {
	if buffer[0] == nil {
		buffer[0] = v
		return nil
	}

	cmp, err := e.args[0].Compare(v, buffer[0])
	if err != nil {
		return err
	}

	if cmp*e.sign > 0 {
		buffer[0] = v
	}
	return nil
}

// Eval implements the sql.Aggregation interface.
func (e *extreme) Eval(buffer sql.Row) (interface{}, error) {
	return buffer[0], nil
}
