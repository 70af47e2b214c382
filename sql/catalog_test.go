package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableIdent(t *testing.T) {
	require := require.New(t)

	require.Equal(TableIdent{Schema: "doc", Name: "users"}, ParseTableIdent("users"))
	require.Equal(TableIdent{Schema: "sys", Name: "shards"}, ParseTableIdent("sys.shards"))
	require.Equal(TableIdent{Schema: "sys", Name: "shards"}, ParseTableIdent("SYS.Shards"))
	require.Equal("users", NewTableIdent("", "users").String())
	require.Equal("sys.shards", NewTableIdent("sys", "shards").String())
}

func TestTableInfoColumn(t *testing.T) {
	require := require.New(t)

	info := &TableInfo{
		Ident: NewTableIdent("", "users"),
		Schema: Schema{
			{Name: "name", Type: String, Source: "users"},
			{Name: "id", Type: Long, Source: "users"},
		},
		Granularity:  DocGranularity,
		SearchBacked: true,
	}

	c, ok := info.Column("ID")
	require.True(ok)
	require.Equal(Long, c.Type)

	_, ok = info.Column("missing")
	require.False(ok)

	require.Equal(Types{String, Long}, info.Schema.Types())
	require.Equal("doc", info.Granularity.String())
}
