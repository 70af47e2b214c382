package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/sql"
)

func TestRegistrySignatures(t *testing.T) {
	testCases := []struct {
		name    string
		args    sql.Types
		partial sql.Type
		final   sql.Type
	}{
		{"count", nil, sql.Null, sql.Long},
		{"count", sql.Types{sql.String}, sql.Null, sql.Long},
		{"COUNT", sql.Types{sql.Long}, sql.Null, sql.Long},
		{"count_distinct", sql.Types{sql.String}, sql.Object, sql.Long},
		{"sum", sql.Types{sql.Integer}, sql.Double, sql.Double},
		{"avg", sql.Types{sql.Long}, sql.Object, sql.Double},
		{"min", sql.Types{sql.String}, sql.String, sql.String},
		{"max", sql.Types{sql.Timestamp}, sql.Timestamp, sql.Timestamp},
	}

	r := NewRegistry()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			agg, err := r.Aggregation(tt.name, tt.args)
			require.NoError(err)
			sig := agg.Signature()
			require.Equal(tt.partial, sig.PartialType)
			require.Equal(tt.final, sig.FinalType)
			require.Equal(tt.args, sig.ArgumentTypes)
		})
	}
}

func TestRegistryErrors(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()

	_, err := r.Aggregation("median", sql.Types{sql.Long})
	require.True(sql.ErrUnknownFunction.Is(err))

	_, err = r.Aggregation("sum", sql.Types{sql.String})
	require.True(sql.ErrUnknownFunction.Is(err))
	require.Contains(err.Error(), "sum(string)")

	_, err = r.Aggregation("max", sql.Types{sql.Object})
	require.True(sql.ErrUnknownFunction.Is(err))

	_, err = r.Aggregation("count", sql.Types{sql.Long, sql.Long})
	require.True(sql.ErrInvalidArgumentNumber.Is(err))

	_, err = r.Aggregation("avg", nil)
	require.True(sql.ErrInvalidArgumentNumber.Is(err))
}

func TestRegistryRegister(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()

	r.Register("Arbitrary", NewMax)
	agg, err := r.Aggregation("arbitrary", sql.Types{sql.Long})
	require.NoError(err)
	require.Equal(sql.Long, agg.Signature().FinalType)

	_, err = NewRegistry().Aggregation("arbitrary", sql.Types{sql.Long})
	require.True(sql.ErrUnknownFunction.Is(err))
}
