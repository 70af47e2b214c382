package aggregation

import (
	"fmt"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-distsql.v0/sql"
)

func checkArgs(name string, args sql.Types, min, max int) error {
	if len(args) >= min && len(args) <= max {
		return nil
	}

	expected := fmt.Sprint(min)
	if min != max {
		expected = fmt.Sprintf("%d to %d", min, max)
	}
	return sql.ErrInvalidArgumentNumber.New(name, expected, len(args))
}

func unknownSignature(name string, args sql.Types) error {
	sig := sql.AggregationSignature{Name: name, ArgumentTypes: args}
	return sql.ErrUnknownFunction.New(sig.String())
}

func toFloat64(v interface{}) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, sql.ErrInvalidType.New(fmt.Sprintf("%T", v))
	}
	return f, nil
}
