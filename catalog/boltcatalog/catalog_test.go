package boltcatalog

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/mem"
	"gopkg.in/src-d/go-distsql.v0/sql"
)

func setup(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "boltcatalog")
	require.NoError(t, err)
	return dir, func() { require.NoError(t, os.RemoveAll(dir)) }
}

var users = mem.TableDefinition{
	Name: "users",
	Columns: []mem.ColumnDefinition{
		{Name: "name", Type: "string", Nullable: true},
		{Name: "id", Type: "long"},
	},
	Shards: map[string]interface{}{
		"nodeOne": []int{1, 2},
		"nodeTwo": []int{3, 4},
	},
}

func TestCatalog(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	c, err := Open(dir)
	require.NoError(err)

	require.NoError(c.PutTable(users))
	require.NoError(c.AddNode("nodeThree"))

	ctx := sql.NewEmptyContext()
	info, err := c.Table(ctx, sql.ParseTableIdent("users"))
	require.NoError(err)
	require.True(info.SearchBacked)
	require.Equal(sql.Types{sql.String, sql.Long}, info.Schema.Types())

	routing, err := c.Routing(ctx, sql.ParseTableIdent("users"), nil)
	require.NoError(err)
	require.Equal(map[string]map[string][]int{
		"nodeOne": {"users": {1, 2}},
		"nodeTwo": {"users": {3, 4}},
	}, routing.Locations())

	routing, err = c.Routing(ctx, mem.NodesIdent, nil)
	require.NoError(err)
	require.Equal([]string{"nodeOne", "nodeThree", "nodeTwo"}, routing.Nodes())

	require.NoError(c.Close())

	// everything survives reopening the catalog
	c, err = Open(dir)
	require.NoError(err)
	defer c.Close()

	snapshot, err := c.Snapshot()
	require.NoError(err)
	require.Len(snapshot.Tables(), 1)
	require.Equal(map[string][]int{"nodeOne": {1, 2}, "nodeTwo": {3, 4}}, snapshot.Tables()[0].Locations())

	require.NoError(c.DeleteTable(sql.ParseTableIdent("USERS")))
	_, err = c.Table(ctx, sql.ParseTableIdent("users"))
	require.True(sql.ErrUnknownTable.Is(err))
}

func TestCatalogInvalidTable(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	c, err := Open(dir)
	require.NoError(err)
	defer c.Close()

	err = c.PutTable(mem.TableDefinition{
		Name:    "foo",
		Columns: []mem.ColumnDefinition{{Name: "a", Type: "blob"}},
	})
	require.Error(err)
	require.True(mem.ErrInvalidDefinition.Is(err))

	d, err := c.Definition()
	require.NoError(err)
	require.Len(d.Tables, 0)
}

func TestCatalogImport(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	source, err := mem.LoadCatalog(strings.NewReader(`
nodes: [nodeThree]
tables:
  - name: users
    columns:
      - {name: id, type: long}
    shards:
      nodeOne: [1, 2]
  - schema: blog
    name: posts
    columns:
      - {name: title, type: string}
`))
	require.NoError(err)

	c, err := Open(dir)
	require.NoError(err)
	defer c.Close()

	require.NoError(c.Import(source.Definition()))

	snapshot, err := c.Snapshot()
	require.NoError(err)
	require.Equal(source.Nodes(), snapshot.Nodes())
	require.Equal(source.Definition(), snapshot.Definition())
}

func TestCatalogClosed(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	c, err := Open(dir)
	require.NoError(err)
	require.NoError(c.Close())

	_, err = c.Definition()
	require.True(ErrClosed.Is(err))
}
