package mem

import (
	"sort"
	"sync"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Catalog is an in-memory cluster description. It resolves user tables,
// which are search-backed, and the sys tables describing the cluster, which
// are collected from every node.
type Catalog struct {
	mu     sync.RWMutex
	nodes  map[string]struct{}
	tables map[sql.TableIdent]*Table
}

var (
	_ sql.Catalog         = (*Catalog)(nil)
	_ sql.RoutingProvider = (*Catalog)(nil)
)

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		nodes:  make(map[string]struct{}),
		tables: make(map[sql.TableIdent]*Table),
	}
}

// AddNode registers a node of the cluster, even if it holds no shards.
func (c *Catalog) AddNode(node string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[node] = struct{}{}
}

// AddTable adds a table to the catalog, replacing any table with the same
// identifier.
func (c *Catalog) AddTable(t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[t.Ident()] = t
}

// Tables returns the user tables, sorted by identifier.
func (c *Catalog) Tables() []*Table {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tables := make([]*Table, 0, len(c.tables))
	for _, t := range c.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return tables[i].Ident().String() < tables[j].Ident().String()
	})
	return tables
}

// Nodes returns the nodes of the cluster, sorted. It includes registered
// nodes and every node holding shards.
func (c *Catalog) Nodes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	set := make(map[string]struct{}, len(c.nodes))
	for n := range c.nodes {
		set[n] = struct{}{}
	}
	for _, t := range c.tables {
		for n := range t.Locations() {
			set[n] = struct{}{}
		}
	}

	nodes := make([]string, 0, len(set))
	for n := range set {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// Table implements the sql.Catalog interface.
func (c *Catalog) Table(ctx *sql.Context, ident sql.TableIdent) (*sql.TableInfo, error) {
	ident = sql.NewTableIdent(ident.Schema, ident.Name)
	if info, ok := sysTables[ident]; ok {
		copied := *info
		return &copied, nil
	}

	c.mu.RLock()
	t, ok := c.tables[ident]
	c.mu.RUnlock()
	if !ok {
		return nil, sql.ErrUnknownTable.New(ident)
	}

	return t.Info(), nil
}

// Routing implements the sql.RoutingProvider interface. User tables are
// routed to the nodes holding their shards and sys.shards to every node
// holding any shard. A `node_id = '...'` condition narrows sys.shards and an
// `id = '...'` condition narrows sys.nodes to a single node.
func (c *Catalog) Routing(
	ctx *sql.Context,
	ident sql.TableIdent,
	where sql.Expression,
) (sql.Routing, error) {
	ident = sql.NewTableIdent(ident.Schema, ident.Name)
	switch ident {
	case ShardsIdent:
		return c.shardsRouting(where), nil
	case NodesIdent:
		return c.nodesRouting(where), nil
	}

	c.mu.RLock()
	t, ok := c.tables[ident]
	c.mu.RUnlock()
	if !ok {
		return sql.Routing{}, sql.ErrUnknownTable.New(ident)
	}

	locations := make(map[string]map[string][]int)
	for node, shards := range t.Locations() {
		locations[node] = map[string][]int{t.Ident().String(): shards}
	}
	return sql.NewRouting(locations), nil
}

func (c *Catalog) shardsRouting(where sql.Expression) sql.Routing {
	only, filtered := nodeFilter(where, "node_id")

	locations := make(map[string]map[string][]int)
	for _, t := range c.Tables() {
		for node, shards := range t.Locations() {
			if filtered && node != only {
				continue
			}
			if locations[node] == nil {
				locations[node] = make(map[string][]int)
			}
			locations[node][t.Ident().String()] = shards
		}
	}
	return sql.NewRouting(locations)
}

func (c *Catalog) nodesRouting(where sql.Expression) sql.Routing {
	only, filtered := nodeFilter(where, "id")

	locations := make(map[string]map[string][]int)
	for _, node := range c.Nodes() {
		if filtered && node != only {
			continue
		}
		locations[node] = map[string][]int{}
	}
	return sql.NewRouting(locations)
}
