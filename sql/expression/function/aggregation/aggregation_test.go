package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/sql"
)

// collect simulates the collect stage of one node: it feeds the rows into a
// fresh buffer and returns it as the partial state.
func collect(t *testing.T, agg sql.Aggregation, values ...interface{}) sql.Row {
	t.Helper()
	b := agg.NewBuffer()
	for _, v := range values {
		require.NoError(t, agg.Update(b, v))
	}
	return b
}

// reduce simulates the merge stage.
func reduce(t *testing.T, agg sql.Aggregation, partials ...sql.Row) interface{} {
	t.Helper()
	b := agg.NewBuffer()
	for _, p := range partials {
		require.NoError(t, agg.Merge(b, p))
	}
	v, err := agg.Eval(b)
	require.NoError(t, err)
	return v
}

func TestCount(t *testing.T) {
	require := require.New(t)

	c, err := NewCount(sql.Types{sql.String})
	require.NoError(err)

	p1 := collect(t, c, "foo", nil, "bar")
	p2 := collect(t, c, nil, "baz")
	require.Equal(int64(3), reduce(t, c, p1, p2))
	require.Equal(int64(0), reduce(t, c))
}

func TestCountStar(t *testing.T) {
	require := require.New(t)

	c, err := NewCount(nil)
	require.NoError(err)

	b := c.NewBuffer()
	require.NoError(c.Update(b))
	require.NoError(c.Update(b))
	p2 := collect(t, c, nil)
	require.Equal(int64(3), reduce(t, c, b, p2))
}

func TestCountDistinct(t *testing.T) {
	require := require.New(t)

	c, err := NewCountDistinct(sql.Types{sql.String})
	require.NoError(err)

	p1 := collect(t, c, "a", "b", nil, "a")
	p2 := collect(t, c, "b", "c")
	require.Equal(int64(3), reduce(t, c, p1, p2))
}

func TestSum(t *testing.T) {
	require := require.New(t)

	s, err := NewSum(sql.Types{sql.Long})
	require.NoError(err)

	p1 := collect(t, s, int64(1), int64(2), nil)
	p2 := collect(t, s, int32(3))
	p3 := collect(t, s)
	require.Equal(float64(6), reduce(t, s, p1, p2, p3))
	require.Nil(reduce(t, s, p3))

	b := s.NewBuffer()
	require.Error(s.Update(b, "not a number"))
}

func TestAvg(t *testing.T) {
	require := require.New(t)

	a, err := NewAvg(sql.Types{sql.Double})
	require.NoError(err)

	p1 := collect(t, a, 1.0, 2.0)
	p2 := collect(t, a, 6.0, nil)
	require.Equal(float64(3), reduce(t, a, p1, p2))
	require.Nil(reduce(t, a, collect(t, a)))
}

func TestMinMax(t *testing.T) {
	require := require.New(t)

	minAgg, err := NewMin(sql.Types{sql.Long})
	require.NoError(err)
	maxAgg, err := NewMax(sql.Types{sql.Long})
	require.NoError(err)

	values1 := []interface{}{int64(5), nil, int64(3)}
	values2 := []interface{}{int64(9), int32(1)}

	require.Equal(int64(1), reduce(t, minAgg, collect(t, minAgg, values1...), collect(t, minAgg, values2...)))
	require.Equal(int64(9), reduce(t, maxAgg, collect(t, maxAgg, values1...), collect(t, maxAgg, values2...)))
	require.Nil(reduce(t, maxAgg, collect(t, maxAgg), collect(t, maxAgg, nil)))

	smax, err := NewMax(sql.Types{sql.String})
	require.NoError(err)
	require.Equal("b", reduce(t, smax, collect(t, smax, "a", "b"), collect(t, smax, "ab")))
}
