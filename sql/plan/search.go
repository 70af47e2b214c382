package plan

import (
	"fmt"
	"strings"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// ESSearchNode is a single hop stage answered by the search engine, which
// filters, sorts and paginates the rows of a search-backed table natively.
type ESSearchNode struct {
	table      sql.TableIdent
	outputs    []sql.Expression
	where      sql.Expression
	sortFields []sql.SortField
	limit      *int64
	offset     int64
}

// NewESSearchNode creates a new search stage over the given table.
func NewESSearchNode(
	table sql.TableIdent,
	outputs []sql.Expression,
	where sql.Expression,
	sortFields []sql.SortField,
	limit *int64,
	offset int64,
) *ESSearchNode {
	return &ESSearchNode{
		table:      table,
		outputs:    append([]sql.Expression(nil), outputs...),
		where:      where,
		sortFields: append([]sql.SortField(nil), sortFields...),
		limit:      copyLimit(limit),
		offset:     offset,
	}
}

// Table returns the searched table.
func (s *ESSearchNode) Table() sql.TableIdent { return s.table }

// Outputs returns the projected expressions.
func (s *ESSearchNode) Outputs() []sql.Expression {
	return append([]sql.Expression(nil), s.outputs...)
}

// Where returns the predicate rows must match, or nil.
func (s *ESSearchNode) Where() sql.Expression { return s.where }

// SortFields returns the ordering keys.
func (s *ESSearchNode) SortFields() []sql.SortField {
	return append([]sql.SortField(nil), s.sortFields...)
}

// Limit returns the limit, or nil.
func (s *ESSearchNode) Limit() *int64 { return copyLimit(s.limit) }

// Offset returns the number of rows skipped.
func (s *ESSearchNode) Offset() int64 { return s.offset }

// OutputTypes implements the Node interface.
func (s *ESSearchNode) OutputTypes() sql.Types {
	return expressionTypes(s.outputs)
}

// Expressions implements the Node interface.
func (s *ESSearchNode) Expressions() []sql.Expression {
	exprs := s.Outputs()
	if s.where != nil {
		exprs = append(exprs, s.where)
	}
	for _, f := range s.sortFields {
		exprs = append(exprs, f.Column)
	}
	return exprs
}

func (s *ESSearchNode) String() string {
	p := sql.NewTreePrinter()
	_ = p.WriteNode("ESSearch(%s)", s.table)

	children := []string{
		fmt.Sprintf("Outputs(%s)", strings.Join(expressionStrings(s.outputs), ", ")),
	}
	if s.where != nil {
		children = append(children, fmt.Sprintf("Where(%s)", s.where))
	}
	if len(s.sortFields) > 0 {
		children = append(children, fmt.Sprintf("OrderBy(%s)", strings.Join(sortFieldStrings(s.sortFields), ", ")))
	}
	if s.limit != nil {
		children = append(children, fmt.Sprintf("Limit(%d)", *s.limit))
	}
	if s.offset > 0 {
		children = append(children, fmt.Sprintf("Offset(%d)", s.offset))
	}
	children = append(children, fmt.Sprintf("OutputTypes%s", s.OutputTypes()))

	_ = p.WriteChildren(children...)
	return p.String()
}

func sortFieldStrings(fields []sql.SortField) []string {
	result := make([]string, len(fields))
	for i, f := range fields {
		s := fmt.Sprintf("%s %s", stringOrEmpty(f.Column), f.Order)
		if f.NullOrdering == sql.NullsLast {
			s += " NULLS LAST"
		}
		result[i] = s
	}
	return result
}

func (s *ESSearchNode) fingerprint() interface{} {
	var limit int64 = -1
	if s.limit != nil {
		limit = *s.limit
	}
	return struct {
		Kind        string
		Table       string
		Outputs     []string
		Where       string
		SortFields  []string
		Limit       int64
		Offset      int64
		OutputTypes []sql.Type
	}{
		Kind:        "search",
		Table:       s.table.Schema + "." + s.table.Name,
		Outputs:     expressionStrings(s.outputs),
		Where:       stringOrEmpty(s.where),
		SortFields:  sortFieldStrings(s.sortFields),
		Limit:       limit,
		Offset:      s.offset,
		OutputTypes: s.OutputTypes(),
	}
}
