package parse // import "gopkg.in/src-d/go-distsql.v0/sql/parse"

import (
	"strconv"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v0/vt/sqlparser"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %s")

	// ErrInvalidSQLValType is returned when a SQLVal type is not valid.
	ErrInvalidSQLValType = errors.NewKind("invalid SQLVal of type: %d")

	// ErrInvalidSortOrder is returned when a sort order is not valid.
	ErrInvalidSortOrder = errors.NewKind("invalid sort order: %s")

	// ErrColumnNotFound is returned when a column cannot be found in the
	// queried table.
	ErrColumnNotFound = errors.NewKind("column %q could not be found in table %s")

	// ErrEmptyQuery is returned when the query has nothing but comments.
	ErrEmptyQuery = errors.NewKind("query was empty")

	// ErrInvalidLimit is returned when LIMIT or OFFSET are not non-negative
	// integers.
	ErrInvalidLimit = errors.NewKind("%s must be a non-negative integer, got %s")
)

// Parse parses a single table SELECT statement and resolves it against the
// catalog and the aggregation registry.
func Parse(
	ctx *sql.Context,
	catalog sql.Catalog,
	aggregations sql.AggregationRegistry,
	query string,
) (*sql.Analysis, error) {
	span, ctx := ctx.Span("parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s := strings.TrimSpace(removeComments(query))
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		logrus.WithField("query", query).Debug("query became empty")
		return nil, ErrEmptyQuery.New()
	}

	stmt, err := sqlparser.Parse(s)
	if err != nil {
		return nil, err
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(stmt))
	}

	return convertSelect(ctx, catalog, aggregations, sel)
}

func convertSelect(
	ctx *sql.Context,
	catalog sql.Catalog,
	aggregations sql.AggregationRegistry,
	s *sqlparser.Select,
) (*sql.Analysis, error) {
	if s.Distinct != "" {
		return nil, sql.ErrUnsupportedFeature.New("SELECT DISTINCT")
	}

	if s.Having != nil {
		return nil, sql.ErrUnsupportedFeature.New("HAVING")
	}

	ident, alias, err := tableExprsToIdent(s.From)
	if err != nil {
		return nil, err
	}

	table, err := catalog.Table(ctx, ident)
	if err != nil {
		return nil, err
	}

	sc := &scope{table: table, alias: alias, aggregations: aggregations}
	a := &sql.Analysis{Table: table.Ident}

	for _, se := range s.SelectExprs {
		exprs, names, err := sc.selectExprToExpressions(se)
		if err != nil {
			return nil, err
		}
		a.Outputs = append(a.Outputs, exprs...)
		a.OutputNames = append(a.OutputNames, names...)
	}
	sc.outputs, sc.names = a.Outputs, a.OutputNames

	if s.Where != nil {
		a.Where, err = sc.exprToExpression(s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	for _, g := range s.GroupBy {
		e, err := sc.exprToExpression(g)
		if err != nil {
			return nil, err
		}
		a.GroupBy = append(a.GroupBy, e)
	}

	for _, o := range s.OrderBy {
		f, err := sc.orderToSortField(o)
		if err != nil {
			return nil, err
		}
		a.SortFields = append(a.SortFields, f)
	}

	if s.Limit != nil {
		if s.Limit.Rowcount != nil {
			limit, err := toNonNegativeInt("LIMIT", s.Limit.Rowcount)
			if err != nil {
				return nil, err
			}
			a.Limit = &limit
		}

		if s.Limit.Offset != nil {
			a.Offset, err = toNonNegativeInt("OFFSET", s.Limit.Offset)
			if err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

func tableExprsToIdent(te sqlparser.TableExprs) (sql.TableIdent, string, error) {
	if len(te) != 1 {
		return sql.TableIdent{}, "", sql.ErrUnsupportedFeature.New("queries over more than one table")
	}

	switch t := te[0].(type) {
	case *sqlparser.AliasedTableExpr:
		name, ok := t.Expr.(sqlparser.TableName)
		if !ok {
			return sql.TableIdent{}, "", sql.ErrUnsupportedFeature.New("subqueries")
		}

		ident := sql.NewTableIdent(name.Qualifier.String(), name.Name.String())
		return ident, strings.ToLower(t.As.String()), nil
	case *sqlparser.JoinTableExpr:
		return sql.TableIdent{}, "", sql.ErrUnsupportedFeature.New("joins")
	default:
		return sql.TableIdent{}, "", ErrUnsupportedSyntax.New(sqlparser.String(te))
	}
}

func toNonNegativeInt(clause string, e sqlparser.Expr) (int64, error) {
	v, ok := e.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, ErrInvalidLimit.New(clause, sqlparser.String(e))
	}

	n, err := strconv.ParseInt(string(v.Val), 10, 64)
	if err != nil || n < 0 {
		return 0, ErrInvalidLimit.New(clause, string(v.Val))
	}
	return n, nil
}

// scope resolves column and function references of a statement.
type scope struct {
	table        *sql.TableInfo
	alias        string
	aggregations sql.AggregationRegistry
	outputs      []sql.Expression
	names        []string
}

func (sc *scope) selectExprToExpressions(se sqlparser.SelectExpr) ([]sql.Expression, []string, error) {
	switch e := se.(type) {
	case *sqlparser.StarExpr:
		if !e.TableName.IsEmpty() && !sc.matchesTable(e.TableName.Name.String()) {
			return nil, nil, sql.ErrUnsupportedFeature.New("star of another table")
		}

		exprs := make([]sql.Expression, len(sc.table.Schema))
		names := make([]string, len(sc.table.Schema))
		for i, col := range sc.table.Schema {
			exprs[i] = sc.column(i, col)
			names[i] = col.Name
		}
		return exprs, names, nil
	case *sqlparser.AliasedExpr:
		expr, err := sc.exprToExpression(e.Expr)
		if err != nil {
			return nil, nil, err
		}

		name := e.As.Lowered()
		if name == "" {
			if f, ok := expr.(*expression.GetField); ok {
				name = f.Name()
			} else {
				name = expr.String()
			}
		}
		return []sql.Expression{expr}, []string{name}, nil
	default:
		return nil, nil, ErrUnsupportedSyntax.New(sqlparser.String(se))
	}
}

func (sc *scope) matchesTable(name string) bool {
	name = strings.ToLower(name)
	return name == sc.table.Ident.Name || (sc.alias != "" && name == sc.alias)
}

func (sc *scope) column(idx int, col *sql.Column) *expression.GetField {
	return expression.NewGetFieldWithTable(idx, col.Type, sc.table.Ident.Name, col.Name, col.Nullable)
}

func (sc *scope) resolveColumn(c *sqlparser.ColName) (sql.Expression, error) {
	name := c.Name.String()
	if !c.Qualifier.IsEmpty() && !sc.matchesTable(c.Qualifier.Name.String()) {
		return nil, ErrColumnNotFound.New(sqlparser.String(c), sc.table.Ident)
	}

	idx := sc.table.Schema.IndexOf(name, "")
	if idx < 0 {
		return nil, ErrColumnNotFound.New(name, sc.table.Ident)
	}

	return sc.column(idx, sc.table.Schema[idx]), nil
}

func (sc *scope) orderToSortField(o *sqlparser.Order) (sql.SortField, error) {
	var f sql.SortField
	switch o.Direction {
	case sqlparser.AscScr:
		f.Order = sql.Ascending
		f.NullOrdering = sql.NullsLast
	case sqlparser.DescScr:
		f.Order = sql.Descending
		f.NullOrdering = sql.NullsFirst
	default:
		return f, ErrInvalidSortOrder.New(o.Direction)
	}

	e, err := sc.orderExpression(o.Expr)
	if err != nil {
		return f, err
	}
	f.Column = e
	return f, nil
}

// orderExpression resolves an ORDER BY expression, which can also be a
// position or the name of an output.
func (sc *scope) orderExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	case *sqlparser.SQLVal:
		if v.Type == sqlparser.IntVal {
			pos, err := strconv.Atoi(string(v.Val))
			if err != nil || pos < 1 || pos > len(sc.outputs) {
				return nil, sql.ErrUnsupportedFeature.New("ORDER BY position " + string(v.Val))
			}
			return sc.outputs[pos-1], nil
		}
	case *sqlparser.ColName:
		if v.Qualifier.IsEmpty() && sc.table.Schema.IndexOf(v.Name.String(), "") < 0 {
			name := v.Name.Lowered()
			for i, n := range sc.names {
				if n == name {
					return sc.outputs[i], nil
				}
			}
		}
	}

	return sc.exprToExpression(e)
}

func (sc *scope) exprToExpression(e sqlparser.Expr) (sql.Expression, error) {
	switch v := e.(type) {
	case *sqlparser.ComparisonExpr:
		return sc.comparisonExprToExpression(v)
	case *sqlparser.IsExpr:
		return sc.isExprToExpression(v)
	case *sqlparser.NotExpr:
		c, err := sc.exprToExpression(v.Expr)
		if err != nil {
			return nil, err
		}

		return expression.NewNot(c), nil
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		return expression.NewLiteral(bool(v), sql.Boolean), nil
	case *sqlparser.NullVal:
		return expression.NewLiteral(nil, sql.Null), nil
	case *sqlparser.ColName:
		return sc.resolveColumn(v)
	case *sqlparser.FuncExpr:
		return sc.funcExprToExpression(v)
	case *sqlparser.ParenExpr:
		return sc.exprToExpression(v.Expr)
	case *sqlparser.AndExpr:
		lhs, err := sc.exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := sc.exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewAnd(lhs, rhs), nil
	case *sqlparser.OrExpr:
		lhs, err := sc.exprToExpression(v.Left)
		if err != nil {
			return nil, err
		}

		rhs, err := sc.exprToExpression(v.Right)
		if err != nil {
			return nil, err
		}

		return expression.NewOr(lhs, rhs), nil
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(e))
	}
}

func (sc *scope) funcExprToExpression(f *sqlparser.FuncExpr) (sql.Expression, error) {
	name := f.Name.Lowered()
	if !f.IsAggregate() {
		return nil, sql.ErrUnsupportedFeature.New("function " + name)
	}

	var args []sql.Expression
	for _, se := range f.Exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			if name != "count" || len(f.Exprs) != 1 {
				return nil, ErrUnsupportedSyntax.New(sqlparser.String(f))
			}
		case *sqlparser.AliasedExpr:
			arg, err := sc.exprToExpression(e.Expr)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		default:
			return nil, ErrUnsupportedSyntax.New(sqlparser.String(f))
		}
	}

	argTypes := make(sql.Types, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}

	registryName := name
	if f.Distinct {
		registryName += "_distinct"
	}

	agg, err := sc.aggregations.Aggregation(registryName, argTypes)
	if err != nil {
		if !sql.ErrUnknownFunction.Is(err) {
			err = sql.ErrUnknownFunction.Wrap(err, registryName)
		}
		return nil, err
	}

	finalType := agg.Signature().FinalType
	if f.Distinct {
		return expression.NewDistinctAggregateCall(name, finalType, args...), nil
	}
	return expression.NewAggregateCall(name, finalType, args...), nil
}

func convertVal(v *sqlparser.SQLVal) (sql.Expression, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return expression.NewLiteral(string(v.Val), sql.String), nil
	case sqlparser.IntVal:
		val, err := strconv.ParseInt(string(v.Val), 10, 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.Long), nil
	case sqlparser.FloatVal:
		val, err := strconv.ParseFloat(string(v.Val), 64)
		if err != nil {
			return nil, err
		}
		return expression.NewLiteral(val, sql.Double), nil
	}

	return nil, ErrInvalidSQLValType.New(v.Type)
}

func (sc *scope) isExprToExpression(c *sqlparser.IsExpr) (sql.Expression, error) {
	e, err := sc.exprToExpression(c.Expr)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.IsNullStr:
		return expression.NewIsNull(e), nil
	case sqlparser.IsNotNullStr:
		return expression.NewNot(expression.NewIsNull(e)), nil
	default:
		return nil, ErrUnsupportedSyntax.New(sqlparser.String(c))
	}
}

func (sc *scope) comparisonExprToExpression(c *sqlparser.ComparisonExpr) (sql.Expression, error) {
	left, err := sc.exprToExpression(c.Left)
	if err != nil {
		return nil, err
	}

	right, err := sc.exprToExpression(c.Right)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.EqualStr:
		return expression.NewEquals(left, right), nil
	case sqlparser.LessThanStr:
		return expression.NewLessThan(left, right), nil
	case sqlparser.LessEqualStr:
		return expression.NewLessThanOrEqual(left, right), nil
	case sqlparser.GreaterThanStr:
		return expression.NewGreaterThan(left, right), nil
	case sqlparser.GreaterEqualStr:
		return expression.NewGreaterThanOrEqual(left, right), nil
	case sqlparser.NotEqualStr:
		return expression.NewNot(expression.NewEquals(left, right)), nil
	case sqlparser.LikeStr:
		return expression.NewLike(left, right), nil
	case sqlparser.NotLikeStr:
		return expression.NewNot(expression.NewLike(left, right)), nil
	default:
		return nil, sql.ErrUnsupportedFeature.New(c.Operator)
	}
}
