package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
)

func newTestCatalog() *Catalog {
	c := NewCatalog()
	users := NewTable("users", sql.Schema{
		{Name: "name", Type: sql.String, Nullable: true},
		{Name: "id", Type: sql.Long},
	})
	users.AddShards("nodeOne", 1, 2)
	users.AddShards("nodeTwo", 3, 4)
	c.AddTable(users)

	t1 := NewTable("t1", sql.Schema{{Name: "x", Type: sql.Integer}})
	t1.AddShards("nodeOne", 0)
	c.AddTable(t1)

	c.AddNode("nodeThree")
	return c
}

func TestCatalogTable(t *testing.T) {
	require := require.New(t)
	c := newTestCatalog()
	ctx := sql.NewEmptyContext()

	info, err := c.Table(ctx, sql.ParseTableIdent("users"))
	require.NoError(err)
	require.True(info.SearchBacked)
	require.Equal(sql.Types{sql.String, sql.Long}, info.Schema.Types())

	info, err = c.Table(ctx, sql.ParseTableIdent("SYS.SHARDS"))
	require.NoError(err)
	require.False(info.SearchBacked)
	require.Equal(sql.ShardGranularity, info.Granularity)
	require.Equal(ShardsSchema, info.Schema)

	info, err = c.Table(ctx, NodesIdent)
	require.NoError(err)
	require.False(info.SearchBacked)
	require.Equal(sql.NodeGranularity, info.Granularity)

	_, err = c.Table(ctx, sql.ParseTableIdent("foo"))
	require.Error(err)
	require.True(sql.ErrUnknownTable.Is(err))

	_, err = c.Table(ctx, sql.ParseTableIdent("sys.foo"))
	require.True(sql.ErrUnknownTable.Is(err))
}

func TestCatalogRouting(t *testing.T) {
	ctx := sql.NewEmptyContext()
	c := newTestCatalog()

	testCases := []struct {
		name     string
		table    string
		where    sql.Expression
		expected map[string]map[string][]int
	}{
		{
			"user table",
			"users",
			nil,
			map[string]map[string][]int{
				"nodeOne": {"users": {1, 2}},
				"nodeTwo": {"users": {3, 4}},
			},
		},
		{
			"sys.shards",
			"sys.shards",
			nil,
			map[string]map[string][]int{
				"nodeOne": {"users": {1, 2}, "t1": {0}},
				"nodeTwo": {"users": {3, 4}},
			},
		},
		{
			"sys.shards of one node",
			"sys.shards",
			expression.NewEquals(
				expression.NewGetField(2, sql.String, "node_id", false),
				expression.NewLiteral("nodeTwo", sql.String),
			),
			map[string]map[string][]int{
				"nodeTwo": {"users": {3, 4}},
			},
		},
		{
			"sys.nodes",
			"sys.nodes",
			nil,
			map[string]map[string][]int{
				"nodeOne":   {},
				"nodeThree": {},
				"nodeTwo":   {},
			},
		},
		{
			"sys.nodes with literal first",
			"sys.nodes",
			expression.NewAnd(
				expression.NewEquals(
					expression.NewLiteral("nodeThree", sql.String),
					expression.NewGetField(0, sql.String, "id", false),
				),
				expression.NewIsNull(expression.NewGetField(2, sql.String, "hostname", true)),
			),
			map[string]map[string][]int{
				"nodeThree": {},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			routing, err := c.Routing(ctx, sql.ParseTableIdent(tt.table), tt.where)
			require.NoError(err)
			require.Equal(tt.expected, routing.Locations())
			require.NoError(routing.Validate())
		})
	}
}

func TestCatalogRoutingSameNameInSchemas(t *testing.T) {
	ctx := sql.NewEmptyContext()
	schema := sql.Schema{{Name: "id", Type: sql.Long}}

	testCases := []struct {
		name     string
		doc      map[string][]int
		blobs    map[string][]int
		shards   int
		expected map[string]map[string][]int
	}{
		{
			"same node",
			map[string][]int{"nodeOne": {1, 2}},
			map[string][]int{"nodeOne": {3, 4}},
			4,
			map[string]map[string][]int{
				"nodeOne": {"t": {1, 2}, "blobs.t": {3, 4}},
			},
		},
		{
			"same shard on different nodes",
			map[string][]int{"nodeOne": {1}},
			map[string][]int{"nodeTwo": {1}},
			2,
			map[string]map[string][]int{
				"nodeOne": {"t": {1}},
				"nodeTwo": {"blobs.t": {1}},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			doc := NewTable("t", schema)
			for node, shards := range tt.doc {
				doc.AddShards(node, shards...)
			}
			blobs := NewTableWithIdent(sql.NewTableIdent("blobs", "t"), schema)
			for node, shards := range tt.blobs {
				blobs.AddShards(node, shards...)
			}

			c := NewCatalog()
			c.AddTable(doc)
			c.AddTable(blobs)

			routing, err := c.Routing(ctx, ShardsIdent, nil)
			require.NoError(err)
			require.NoError(routing.Validate())
			require.Equal(tt.expected, routing.Locations())
			require.Equal(tt.shards, routing.Len())

			routing, err = c.Routing(ctx, blobs.Ident(), nil)
			require.NoError(err)
			require.Equal(len(tt.blobs), len(routing.Nodes()))
			for node, shards := range tt.blobs {
				require.Equal(shards, routing.Shards(node, "blobs.t"))
			}
		})
	}
}

func TestCatalogRoutingEmpty(t *testing.T) {
	require := require.New(t)
	c := NewCatalog()
	c.AddTable(NewTable("empty", nil))

	routing, err := c.Routing(sql.NewEmptyContext(), sql.ParseTableIdent("empty"), nil)
	require.NoError(err)
	require.True(routing.IsEmpty())

	_, err = c.Routing(sql.NewEmptyContext(), sql.ParseTableIdent("foo"), nil)
	require.True(sql.ErrUnknownTable.Is(err))
}

func TestCatalogNodes(t *testing.T) {
	require := require.New(t)
	c := newTestCatalog()
	require.Equal([]string{"nodeOne", "nodeThree", "nodeTwo"}, c.Nodes())

	var names []string
	for _, t := range c.Tables() {
		names = append(names, t.Name())
	}
	require.Equal([]string{"t1", "users"}, names)
}
