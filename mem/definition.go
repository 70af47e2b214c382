package mem

import (
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidDefinition is returned when a cluster description cannot be
// turned into a catalog.
var ErrInvalidDefinition = errors.NewKind("invalid definition of table %s: %s")

// Definition is the serializable description of a cluster.
type Definition struct {
	Nodes  []string          `yaml:"nodes,omitempty"`
	Tables []TableDefinition `yaml:"tables"`
}

// TableDefinition is the serializable description of a user table.
type TableDefinition struct {
	Schema  string             `yaml:"schema,omitempty"`
	Name    string             `yaml:"name"`
	Columns []ColumnDefinition `yaml:"columns"`
	// Shards maps each node to the shards it owns. Values may be a single
	// shard or a list of them.
	Shards map[string]interface{} `yaml:"shards,omitempty"`
}

// ColumnDefinition is the serializable description of a column.
type ColumnDefinition struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`
}

// Ident returns the identifier of the defined table.
func (d TableDefinition) Ident() sql.TableIdent {
	return sql.NewTableIdent(d.Schema, d.Name)
}

// Table creates the defined table.
func (d TableDefinition) Table() (*Table, error) {
	if d.Name == "" {
		return nil, ErrInvalidDefinition.New("<unnamed>", "missing name")
	}

	ident := d.Ident()
	if ident.Schema == sql.SysSchema {
		return nil, ErrInvalidDefinition.New(ident, "the sys schema is reserved")
	}

	schema := make(sql.Schema, len(d.Columns))
	for i, c := range d.Columns {
		typ, err := sql.TypeFromName(c.Type)
		if err != nil {
			return nil, ErrInvalidDefinition.New(ident, err)
		}

		schema[i] = &sql.Column{
			Name:     c.Name,
			Type:     typ,
			Nullable: c.Nullable,
		}
	}

	t := NewTableWithIdent(ident, schema)
	for node, v := range d.Shards {
		shards, err := toShards(v)
		if err != nil {
			return nil, ErrInvalidDefinition.New(ident, err)
		}
		t.AddShards(node, shards...)
	}

	return t, nil
}

func toShards(v interface{}) ([]int, error) {
	switch v.(type) {
	case nil:
		return nil, nil
	case []interface{}, []int:
		return cast.ToIntSliceE(v)
	default:
		shard, err := cast.ToIntE(v)
		if err != nil {
			return nil, err
		}
		return []int{shard}, nil
	}
}

// Definition returns the serializable description of the table.
func (t *Table) Definition() TableDefinition {
	d := TableDefinition{
		Schema: t.ident.Schema,
		Name:   t.ident.Name,
	}

	for _, c := range t.schema {
		d.Columns = append(d.Columns, ColumnDefinition{
			Name:     c.Name,
			Type:     c.Type.String(),
			Nullable: c.Nullable,
		})
	}

	locations := t.Locations()
	if len(locations) > 0 {
		d.Shards = make(map[string]interface{}, len(locations))
		for node, shards := range locations {
			sort.Ints(shards)
			d.Shards[node] = shards
		}
	}

	return d
}

// NewCatalogFromDefinition creates a catalog out of a cluster description.
func NewCatalogFromDefinition(d Definition) (*Catalog, error) {
	c := NewCatalog()
	for _, n := range d.Nodes {
		c.AddNode(n)
	}

	for _, td := range d.Tables {
		t, err := td.Table()
		if err != nil {
			return nil, err
		}
		c.AddTable(t)
	}

	return c, nil
}

// Definition returns the serializable description of the catalog.
func (c *Catalog) Definition() Definition {
	var d Definition
	d.Nodes = c.Nodes()
	for _, t := range c.Tables() {
		d.Tables = append(d.Tables, t.Definition())
	}
	return d
}

// LoadCatalog reads a YAML cluster description and creates its catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var d Definition
	if err := yaml.UnmarshalStrict(data, &d); err != nil {
		return nil, err
	}

	return NewCatalogFromDefinition(d)
}

// LoadCatalogFile reads the YAML cluster description at path and creates
// its catalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCatalog(f)
}
