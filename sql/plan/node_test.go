package plan

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
)

func TestCollectNodeOutputTypes(t *testing.T) {
	require := require.New(t)

	name := expression.NewGetField(0, sql.String, "name", true)
	id := expression.NewGetField(1, sql.Long, "id", false)

	collect := NewCollectNode(testRouting, []sql.Expression{name, id}, nil)
	require.Equal(sql.Types{sql.String, sql.Long}, collect.OutputTypes())

	withAgg := collect.WithAggregations(AggregationStep{
		Signature: countSignature,
		Inputs:    []int{0},
		Step:      Partial,
	})
	require.Equal(sql.Types{sql.Long}, withAgg.OutputTypes())

	// the original node is left untouched
	require.Len(collect.Aggregations(), 0)
	require.Equal(sql.Types{sql.String, sql.Long}, collect.OutputTypes())
}

func TestMergeNodeOutputTypes(t *testing.T) {
	require := require.New(t)

	input := sql.Types{sql.String, sql.Long}
	merge := NewMergeNode(input, 2)
	require.Equal(input, merge.InputTypes())
	require.Equal(input, merge.OutputTypes())

	require.Equal(sql.Types{sql.String}, merge.WithProjection(0).OutputTypes())

	avg := sql.AggregationSignature{
		Name:          "avg",
		ArgumentTypes: sql.Types{sql.Long},
		PartialType:   sql.Object,
		FinalType:     sql.Double,
	}
	withAgg := NewMergeNode(sql.Types{sql.Object}, 2).
		WithAggregations(AggregationStep{Signature: avg, Inputs: []int{0}, Step: Final})
	require.Equal(sql.Types{sql.Double}, withAgg.OutputTypes())
}

func TestNodeAccessorsReturnCopies(t *testing.T) {
	require := require.New(t)

	limit := int64(5)
	merge := NewMergeNode(sql.Types{sql.Long}, 1).WithLimit(&limit, 2)
	limit = 100
	require.Equal(int64(5), *merge.Limit())

	l := merge.Limit()
	*l = 50
	require.Equal(int64(5), *merge.Limit())
	require.Equal(int64(2), merge.Offset())

	types := merge.InputTypes()
	types[0] = sql.String
	require.Equal(sql.Types{sql.Long}, merge.InputTypes())
}

func TestAggregationStepOutputType(t *testing.T) {
	require := require.New(t)

	sig := sql.AggregationSignature{Name: "count", PartialType: sql.Null, FinalType: sql.Long}
	require.Equal(sql.Null, AggregationStep{Signature: sig, Step: Partial}.OutputType())
	require.Equal(sql.Long, AggregationStep{Signature: sig, Step: Final}.OutputType())
}

func TestCollectNodeString(t *testing.T) {
	name := expression.NewGetFieldWithTable(0, sql.String, "users", "name", true)
	limit := int64(3)
	collect := NewCollectNode(testRouting, []sql.Expression{name}, nil).
		WithOrderBy(OrderBy{Index: 0, Order: sql.Ascending}).
		WithLimit(&limit)

	expected := "Collect(nodes=2, shards=4)\n" +
		" ├─ Routing{nodeOne: t1[1 2], nodeTwo: t1[3 4]}\n" +
		" ├─ ToCollect(users.name)\n" +
		" ├─ OrderBy[$0 ASC]\n" +
		" ├─ Limit(3)\n" +
		" └─ OutputTypes[string]\n"
	require.Equal(t, expected, collect.String())
}
