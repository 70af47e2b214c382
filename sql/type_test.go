package sql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypeFromName(t *testing.T) {
	testCases := []struct {
		name string
		typ  Type
		ok   bool
	}{
		{"string", String, true},
		{"TEXT", String, true},
		{"long", Long, true},
		{"bigint", Long, true},
		{" integer ", Integer, true},
		{"null", Null, true},
		{"object", Object, true},
		{"uuid", Null, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			typ, err := TypeFromName(tt.name)
			if !tt.ok {
				require.Error(err)
				require.True(ErrInvalidType.Is(err))
				return
			}
			require.NoError(err)
			require.Equal(tt.typ, typ)
		})
	}
}

func TestTypeConvert(t *testing.T) {
	require := require.New(t)

	v, err := Long.Convert("42")
	require.NoError(err)
	require.Equal(int64(42), v)

	v, err = Integer.Convert(int64(7))
	require.NoError(err)
	require.Equal(int32(7), v)

	v, err = Double.Convert(1)
	require.NoError(err)
	require.Equal(float64(1), v)

	v, err = String.Convert(12)
	require.NoError(err)
	require.Equal("12", v)

	v, err = Null.Convert("anything")
	require.NoError(err)
	require.Nil(v)

	v, err = Long.Convert(nil)
	require.NoError(err)
	require.Nil(v)

	v, err = Timestamp.Convert(int64(1000))
	require.NoError(err)
	require.Equal(time.Unix(1, 0).UTC(), v)

	_, err = Long.Convert("not a number")
	require.Error(err)
}

func TestTypeCompare(t *testing.T) {
	testCases := []struct {
		name     string
		typ      Type
		a, b     interface{}
		expected int
	}{
		{"longs", Long, int64(1), int64(2), -1},
		{"mixed ints", Integer, int32(5), int64(5), 0},
		{"doubles", Double, 2.5, 1.5, 1},
		{"strings", String, "a", "b", -1},
		{"booleans", Boolean, true, false, 1},
		{"null first", Long, nil, int64(1), -1},
		{"null last", Long, int64(1), nil, 1},
		{"both null", String, nil, nil, 0},
		{"timestamps", Timestamp, int64(2000), int64(1000), 1},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			cmp, err := tt.typ.Compare(tt.a, tt.b)
			require.NoError(err)
			require.Equal(tt.expected, cmp)
		})
	}

	_, err := Object.Compare(map[string]interface{}{}, map[string]interface{}{})
	require.Error(t, err)
}

func TestTypesEquals(t *testing.T) {
	require := require.New(t)

	require.True(Types{Long, String}.Equals(Types{Long, String}))
	require.False(Types{Long, String}.Equals(Types{String, Long}))
	require.False(Types{Long}.Equals(Types{Long, Long}))
	require.True(Types{}.Equals(nil))
	require.Equal("[null, long]", Types{Null, Long}.String())
}
