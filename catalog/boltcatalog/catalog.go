// Package boltcatalog persists a cluster description in a bolt database so
// it survives restarts of the planner.
package boltcatalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"gopkg.in/src-d/go-distsql.v0/mem"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// FileName is the name of the database file inside the catalog directory.
const FileName = "distsql-catalog.db"

var (
	tablesBucket = []byte("tables")
	nodesBucket  = []byte("nodes")
)

// ErrClosed is returned when using a catalog after closing it.
var ErrClosed = errors.NewKind("catalog at %s is closed")

// Catalog is a cluster description stored in a bolt database.
// buckets:
// - tables: "schema.name" -> table definition (yaml encoding)
// - nodes: node id -> nothing
type Catalog struct {
	dir string

	mut    sync.RWMutex
	db     *bolt.DB
	closed bool
}

var (
	_ sql.Catalog         = (*Catalog)(nil)
	_ sql.RoutingProvider = (*Catalog)(nil)
)

// Open opens, creating it if needed, the catalog stored in dir.
func Open(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir}
	err := c.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			if _, err := tx.CreateBucketIfNotExists(tablesBucket); err != nil {
				return err
			}
			_, err := tx.CreateBucketIfNotExists(nodesBucket)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	c.mut.Lock()
	defer c.mut.Unlock()

	c.closed = true
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return err
		}
		c.db = nil
	}
	return nil
}

func (c *Catalog) query(fn func(*bolt.DB) error) error {
	c.mut.Lock()
	if c.closed {
		c.mut.Unlock()
		return ErrClosed.New(c.dir)
	}
	if c.db == nil {
		var err error
		c.db, err = bolt.Open(
			filepath.Join(c.dir, FileName),
			0640,
			&bolt.Options{Timeout: time.Second},
		)
		if err != nil {
			c.mut.Unlock()
			return err
		}
	}
	c.mut.Unlock()

	c.mut.RLock()
	defer c.mut.RUnlock()
	return fn(c.db)
}

func tableKey(ident sql.TableIdent) []byte {
	return []byte(ident.Schema + "." + ident.Name)
}

// PutTable stores the definition of a table, replacing any previous one.
func (c *Catalog) PutTable(def mem.TableDefinition) error {
	t, err := def.Table()
	if err != nil {
		return err
	}

	value, err := yaml.Marshal(t.Definition())
	if err != nil {
		return err
	}

	return c.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(tablesBucket).Put(tableKey(t.Ident()), value)
		})
	})
}

// DeleteTable removes a table. Removing a missing table is not an error.
func (c *Catalog) DeleteTable(ident sql.TableIdent) error {
	ident = sql.NewTableIdent(ident.Schema, ident.Name)
	return c.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(tablesBucket).Delete(tableKey(ident))
		})
	})
}

// AddNode registers a node of the cluster.
func (c *Catalog) AddNode(node string) error {
	return c.query(func(db *bolt.DB) error {
		return db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(nodesBucket).Put([]byte(node), nil)
		})
	})
}

// Import stores every node and table of the definition.
func (c *Catalog) Import(d mem.Definition) error {
	for _, n := range d.Nodes {
		if err := c.AddNode(n); err != nil {
			return err
		}
	}

	for _, t := range d.Tables {
		if err := c.PutTable(t); err != nil {
			return err
		}
	}

	return nil
}

// Definition returns the stored cluster description.
func (c *Catalog) Definition() (mem.Definition, error) {
	var d mem.Definition
	err := c.query(func(db *bolt.DB) error {
		return db.View(func(tx *bolt.Tx) error {
			err := tx.Bucket(nodesBucket).ForEach(func(k, _ []byte) error {
				d.Nodes = append(d.Nodes, string(k))
				return nil
			})
			if err != nil {
				return err
			}

			return tx.Bucket(tablesBucket).ForEach(func(k, v []byte) error {
				var td mem.TableDefinition
				if err := yaml.Unmarshal(v, &td); err != nil {
					return err
				}
				d.Tables = append(d.Tables, td)
				return nil
			})
		})
	})
	return d, err
}

// Snapshot returns an in-memory copy of the stored catalog.
func (c *Catalog) Snapshot() (*mem.Catalog, error) {
	d, err := c.Definition()
	if err != nil {
		return nil, err
	}
	return mem.NewCatalogFromDefinition(d)
}

// Table implements the sql.Catalog interface.
func (c *Catalog) Table(ctx *sql.Context, ident sql.TableIdent) (*sql.TableInfo, error) {
	snapshot, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Table(ctx, ident)
}

// Routing implements the sql.RoutingProvider interface.
func (c *Catalog) Routing(
	ctx *sql.Context,
	ident sql.TableIdent,
	where sql.Expression,
) (sql.Routing, error) {
	snapshot, err := c.Snapshot()
	if err != nil {
		return sql.Routing{}, err
	}
	return snapshot.Routing(ctx, ident, where)
}
