package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-distsql.v0/mem"
	"gopkg.in/src-d/go-distsql.v0/sql"
	"gopkg.in/src-d/go-distsql.v0/sql/expression"
	"gopkg.in/src-d/go-distsql.v0/sql/expression/function/aggregation"
)

func testCatalog() *mem.Catalog {
	c := mem.NewCatalog()
	users := mem.NewTable("users", sql.Schema{
		{Name: "name", Type: sql.String, Nullable: true},
		{Name: "id", Type: sql.Long},
	})
	users.AddShards("nodeOne", 1, 2)
	users.AddShards("nodeTwo", 3, 4)
	c.AddTable(users)
	return c
}

var (
	name = expression.NewGetFieldWithTable(0, sql.String, "users", "name", true)
	id   = expression.NewGetFieldWithTable(1, sql.Long, "users", "id", false)
)

func limit(n int64) *int64 { return &n }

var fixtures = map[string]*sql.Analysis{
	`SELECT name, id FROM users`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name, id},
		OutputNames: []string{"name", "id"},
	},
	`SELECT * FROM users;`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name, id},
		OutputNames: []string{"name", "id"},
	},
	`SELECT u.name AS n FROM users u WHERE u.id = 1 AND name IS NOT NULL`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name},
		OutputNames: []string{"n"},
		Where: expression.NewAnd(
			expression.NewEquals(id, expression.NewLiteral(int64(1), sql.Long)),
			expression.NewNot(expression.NewIsNull(name)),
		),
	},
	`select name from users order by id limit 10`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name},
		OutputNames: []string{"name"},
		SortFields: []sql.SortField{
			{Column: id, Order: sql.Ascending, NullOrdering: sql.NullsLast},
		},
		Limit: limit(10),
	},
	`SELECT name AS n FROM users ORDER BY n DESC, 1 LIMIT 5 OFFSET 2`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name},
		OutputNames: []string{"n"},
		SortFields: []sql.SortField{
			{Column: name, Order: sql.Descending, NullOrdering: sql.NullsFirst},
			{Column: name, Order: sql.Ascending, NullOrdering: sql.NullsLast},
		},
		Limit:  limit(5),
		Offset: 2,
	},
	`SELECT count(name), count(*), avg(id) FROM users -- comment`: {
		Table: sql.NewTableIdent("", "users"),
		Outputs: []sql.Expression{
			expression.NewAggregateCall("count", sql.Long, name),
			expression.NewAggregateCall("count", sql.Long),
			expression.NewAggregateCall("avg", sql.Double, id),
		},
		OutputNames: []string{"count(users.name)", "count(*)", "avg(users.id)"},
	},
	`SELECT COUNT(DISTINCT name) FROM users /* distinct */`: {
		Table: sql.NewTableIdent("", "users"),
		Outputs: []sql.Expression{
			expression.NewDistinctAggregateCall("count", sql.Long, name),
		},
		OutputNames: []string{"count(DISTINCT users.name)"},
	},
	`SELECT name FROM users WHERE name LIKE 'foo%' OR id >= 2.5`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{name},
		OutputNames: []string{"name"},
		Where: expression.NewOr(
			expression.NewLike(name, expression.NewLiteral("foo%", sql.String)),
			expression.NewGreaterThanOrEqual(id, expression.NewLiteral(2.5, sql.Double)),
		),
	},
	`SELECT id FROM users GROUP BY id`: {
		Table:       sql.NewTableIdent("", "users"),
		Outputs:     []sql.Expression{id},
		OutputNames: []string{"id"},
		GroupBy:     []sql.Expression{id},
	},
}

func TestParse(t *testing.T) {
	c := testCatalog()
	registry := aggregation.NewRegistry()

	for query, expected := range fixtures {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			a, err := Parse(sql.NewEmptyContext(), c, registry, query)
			require.NoError(err)
			require.Equal(expected, a)
		})
	}
}

func TestParseSysTable(t *testing.T) {
	require := require.New(t)

	a, err := Parse(sql.NewEmptyContext(), testCatalog(), aggregation.NewRegistry(),
		`select id from sys.shards order by id limit 10`)
	require.NoError(err)
	require.Equal(mem.ShardsIdent, a.Table)
	require.Equal(sql.Types{sql.Integer}, a.OutputTypes())
	require.Len(a.SortFields, 1)
	require.Equal(int64(10), *a.Limit)
}

var errorFixtures = map[string]interface{ Is(error) bool }{
	`SELECT foo FROM users`:                           ErrColumnNotFound,
	`SELECT other.name FROM users`:                    ErrColumnNotFound,
	`SELECT name FROM foo`:                            sql.ErrUnknownTable,
	`SELECT DISTINCT name FROM users`:                 sql.ErrUnsupportedFeature,
	`SELECT name FROM users a JOIN users b`:           sql.ErrUnsupportedFeature,
	`SELECT name FROM users, sys.shards`:              sql.ErrUnsupportedFeature,
	`SELECT upper(name) FROM users`:                   sql.ErrUnsupportedFeature,
	`SELECT foo(name) FROM users`:                     sql.ErrUnsupportedFeature,
	`SELECT sum(name) FROM users`:                     sql.ErrUnknownFunction,
	`SELECT count(id, name) FROM users`:               sql.ErrUnknownFunction,
	`SELECT name FROM users LIMIT 'a'`:                ErrInvalidLimit,
	`SELECT name FROM users HAVING id > 1`:            sql.ErrUnsupportedFeature,
	`SELECT name FROM users ORDER BY 3`:               sql.ErrUnsupportedFeature,
	`INSERT INTO users (name, id) VALUES ('a', 1)`:    ErrUnsupportedSyntax,
	`SELECT name FROM users WHERE id IN (1, 2)`:       ErrUnsupportedSyntax,
	`SELECT name FROM users WHERE id BETWEEN 1 AND 2`: ErrUnsupportedSyntax,
	`-- only a comment`:                               ErrEmptyQuery,
}

func TestParseErrors(t *testing.T) {
	c := testCatalog()
	registry := aggregation.NewRegistry()

	for query, kind := range errorFixtures {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			_, err := Parse(sql.NewEmptyContext(), c, registry, query)
			require.Error(err)
			require.True(kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestParseInvalidSQL(t *testing.T) {
	_, err := Parse(sql.NewEmptyContext(), testCatalog(), aggregation.NewRegistry(), `SELEC name FROM`)
	require.Error(t, err)
}
