package expression

import (
	"fmt"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// GetField is an expression to get the field of a table.
type GetField struct {
	table      string
	fieldIndex int
	name       string
	fieldType  sql.Type
	nullable   bool
}

// NewGetField creates a GetField expression.
func NewGetField(index int, fieldType sql.Type, fieldName string, nullable bool) *GetField {
	return NewGetFieldWithTable(index, fieldType, "", fieldName, nullable)
}

// NewGetFieldWithTable creates a GetField expression with table name.
func NewGetFieldWithTable(index int, fieldType sql.Type, table, fieldName string, nullable bool) *GetField {
	return &GetField{
		table:      table,
		fieldIndex: index,
		fieldType:  fieldType,
		name:       fieldName,
		nullable:   nullable,
	}
}

// Index returns the index of the column in the schema of its table.
func (p *GetField) Index() int { return p.fieldIndex }

// Children implements the Expression interface.
func (*GetField) Children() []sql.Expression {
	return nil
}

// Table returns the name of the field table.
func (p *GetField) Table() string { return p.table }

// Resolved implements the Expression interface.
func (p *GetField) Resolved() bool {
	return true
}

// Name returns the name of the column.
func (p *GetField) Name() string {
	return p.name
}

// IsNullable returns whether the column can be null.
func (p *GetField) IsNullable() bool {
	return p.nullable
}

// Type implements the Expression interface.
func (p *GetField) Type() sql.Type {
	return p.fieldType
}

func (p *GetField) String() string {
	if p.table == "" {
		return p.name
	}
	return fmt.Sprintf("%s.%s", p.table, p.name)
}

// WithIndex returns this same GetField with a new index.
func (p *GetField) WithIndex(n int) *GetField {
	p2 := *p
	p2.fieldIndex = n
	return &p2
}
