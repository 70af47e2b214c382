package mem

import (
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
)

const (
	// ShardsTableName is the name of the system table listing every shard.
	ShardsTableName = "shards"
	// NodesTableName is the name of the system table listing every node.
	NodesTableName = "nodes"
)

var (
	// ShardsIdent identifies the sys.shards table.
	ShardsIdent = sql.NewTableIdent(sql.SysSchema, ShardsTableName)
	// NodesIdent identifies the sys.nodes table.
	NodesIdent = sql.NewTableIdent(sql.SysSchema, NodesTableName)
)

// ShardsSchema is the schema of sys.shards. Its rows are produced by each
// node from its local shards and are not served by the search engine.
var ShardsSchema = sql.Schema{
	{Name: "id", Type: sql.Integer, Source: ShardsTableName},
	{Name: "table_name", Type: sql.String, Source: ShardsTableName},
	{Name: "node_id", Type: sql.String, Source: ShardsTableName},
	{Name: "num_docs", Type: sql.Long, Source: ShardsTableName},
	{Name: "primary", Type: sql.Boolean, Source: ShardsTableName},
	{Name: "state", Type: sql.String, Source: ShardsTableName},
}

// NodesSchema is the schema of sys.nodes.
var NodesSchema = sql.Schema{
	{Name: "id", Type: sql.String, Source: NodesTableName},
	{Name: "name", Type: sql.String, Source: NodesTableName},
	{Name: "hostname", Type: sql.String, Nullable: true, Source: NodesTableName},
}

var sysTables = map[sql.TableIdent]*sql.TableInfo{
	ShardsIdent: {
		Ident:       ShardsIdent,
		Schema:      ShardsSchema,
		Granularity: sql.ShardGranularity,
	},
	NodesIdent: {
		Ident:       NodesIdent,
		Schema:      NodesSchema,
		Granularity: sql.NodeGranularity,
	},
}

// nodeFilter returns the node a predicate restricts the rows to, when it
// contains a top level `column = 'literal'` condition.
func nodeFilter(where sql.Expression, column string) (string, bool) {
	switch e := where.(type) {
	case *expression.And:
		if node, ok := nodeFilter(e.Left, column); ok {
			return node, true
		}
		return nodeFilter(e.Right, column)
	case *expression.Equals:
		field, lit := e.Left, e.Right
		if _, ok := field.(*expression.Literal); ok {
			field, lit = lit, field
		}

		f, ok := field.(*expression.GetField)
		if !ok || f.Name() != column {
			return "", false
		}

		l, ok := lit.(*expression.Literal)
		if !ok {
			return "", false
		}

		node, ok := l.Value().(string)
		return node, ok
	default:
		return "", false
	}
}
