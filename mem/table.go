package mem

import (
	"fmt"
	"sort"
	"sync"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Table is a user table stored in shards spread over the cluster nodes.
type Table struct {
	ident  sql.TableIdent
	schema sql.Schema

	mu     sync.RWMutex
	shards map[string][]int
}

// NewTable creates a new table in the doc schema, without shards.
func NewTable(name string, schema sql.Schema) *Table {
	return NewTableWithIdent(sql.NewTableIdent("", name), schema)
}

// NewTableWithIdent creates a new table with the given identifier.
func NewTableWithIdent(ident sql.TableIdent, schema sql.Schema) *Table {
	ident = sql.NewTableIdent(ident.Schema, ident.Name)
	s := make(sql.Schema, len(schema))
	for i, c := range schema {
		col := *c
		col.Source = ident.Name
		s[i] = &col
	}

	return &Table{
		ident:  ident,
		schema: s,
		shards: make(map[string][]int),
	}
}

// Name returns the name of the table.
func (t *Table) Name() string { return t.ident.Name }

// Ident returns the identifier of the table.
func (t *Table) Ident() sql.TableIdent { return t.ident }

// Schema returns the columns of the table.
func (t *Table) Schema() sql.Schema { return t.schema }

// AddShards assigns the given shards of the table to a node.
func (t *Table) AddShards(node string, shards ...int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shards[node] = append(t.shards[node], shards...)
}

// Locations returns the shards of the table per node.
func (t *Table) Locations() map[string][]int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string][]int, len(t.shards))
	for node, shards := range t.shards {
		result[node] = append([]int(nil), shards...)
	}
	return result
}

// Info returns the catalog description of the table.
func (t *Table) Info() *sql.TableInfo {
	return &sql.TableInfo{
		Ident:        t.ident,
		Schema:       t.schema,
		Granularity:  sql.DocGranularity,
		SearchBacked: true,
	}
}

func (t *Table) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("Table(%s)", t.ident)

	var children []string
	for _, c := range t.schema {
		children = append(children, fmt.Sprintf(
			"Column(%s, %s, nullable=%v)",
			c.Name,
			c.Type,
			c.Nullable,
		))
	}

	locations := t.Locations()
	nodes := make([]string, 0, len(locations))
	for node := range locations {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		shards := locations[node]
		sort.Ints(shards)
		children = append(children, fmt.Sprintf("Shards(%s, %v)", node, shards))
	}

	_ = p.WriteChildren(children...)
	return p.String()
}
