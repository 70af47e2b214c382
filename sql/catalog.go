package sql

import (
	"fmt"
	"strings"
)

const (
	// DocSchema is the schema of user tables, used when a table identifier
	// carries no schema.
	DocSchema = "doc"
	// SysSchema holds the system relations describing the cluster itself.
	SysSchema = "sys"
)

// TableIdent identifies a table.
type TableIdent struct {
	Schema string
	Name   string
}

// NewTableIdent creates a table identifier, defaulting to the doc schema.
func NewTableIdent(schema, name string) TableIdent {
	if schema == "" {
		schema = DocSchema
	}
	return TableIdent{Schema: strings.ToLower(schema), Name: strings.ToLower(name)}
}

// ParseTableIdent parses identifiers like "users" or "sys.shards".
func ParseTableIdent(s string) TableIdent {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return NewTableIdent(s[:i], s[i+1:])
	}
	return NewTableIdent("", s)
}

func (t TableIdent) String() string {
	if t.Schema == "" || t.Schema == DocSchema {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// RowGranularity is the level at which the rows of a table exist.
type RowGranularity byte

const (
	// ClusterGranularity rows exist once per cluster.
	ClusterGranularity RowGranularity = iota
	// NodeGranularity rows exist once per node.
	NodeGranularity
	// ShardGranularity rows exist once per shard.
	ShardGranularity
	// DocGranularity rows are documents stored in shards.
	DocGranularity
)

func (g RowGranularity) String() string {
	switch g {
	case ClusterGranularity:
		return "cluster"
	case NodeGranularity:
		return "node"
	case ShardGranularity:
		return "shard"
	case DocGranularity:
		return "doc"
	default:
		return fmt.Sprintf("granularity(%d)", byte(g))
	}
}

// TableInfo is the catalog description of a table.
type TableInfo struct {
	Ident       TableIdent
	Schema      Schema
	Granularity RowGranularity
	// SearchBacked is true when the rows of the table are served by the
	// search engine, which can filter, sort and paginate them natively.
	SearchBacked bool
}

// Column returns the column with the given name, if any.
func (t *TableInfo) Column(name string) (*Column, bool) {
	i := t.Schema.IndexOf(name, "")
	if i < 0 {
		return nil, false
	}
	return t.Schema[i], true
}

// Catalog resolves tables.
type Catalog interface {
	// Table returns the description of the table, or an ErrUnknownTable
	// error.
	Table(ctx *Context, ident TableIdent) (*TableInfo, error)
}

// RoutingProvider tells which nodes own the data of a table.
type RoutingProvider interface {
	// Routing returns a snapshot of the shards of the table per node. The
	// predicate may be used to narrow it down and can be nil. An empty
	// routing is valid and means the table currently holds no data. Tables
	// are keyed by TableIdent.String().
	Routing(ctx *Context, ident TableIdent, where Expression) (Routing, error)
}
