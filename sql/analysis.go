package sql

// SortOrder represents the order of the sort (ascending or descending).
type SortOrder byte

const (
	// Ascending order.
	Ascending SortOrder = 1
	// Descending order.
	Descending SortOrder = 2
)

func (s SortOrder) String() string {
	switch s {
	case Ascending:
		return "ASC"
	case Descending:
		return "DESC"
	default:
		return "invalid SortOrder"
	}
}

// NullOrdering represents how to order based on null values.
type NullOrdering byte

const (
	// NullsFirst puts the null values before any other values.
	NullsFirst NullOrdering = iota
	// NullsLast puts the null values after all other values.
	NullsLast NullOrdering = 2
)

// SortField is a field by which the query will be sorted.
type SortField struct {
	// Column to order by.
	Column Expression
	// Order type.
	Order SortOrder
	// NullOrdering defining how nulls will be ordered.
	NullOrdering NullOrdering
}

// Analysis is the resolved form of a SELECT statement, as produced by the
// analyzer. The planner only reads it.
type Analysis struct {
	// Table the statement reads from.
	Table TableIdent
	// Outputs are the projected expressions, in order.
	Outputs []Expression
	// OutputNames are the names of the projected columns, parallel to
	// Outputs.
	OutputNames []string
	// Where is the predicate, nil when there is none.
	Where Expression
	// GroupBy holds the grouping expressions.
	GroupBy []Expression
	// SortFields are the ordering keys, in priority order.
	SortFields []SortField
	// Limit is the maximum number of rows to return, nil for no limit.
	Limit *int64
	// Offset is the number of rows to skip.
	Offset int64
}

// OutputTypes returns the types of the projected expressions, in order.
func (a *Analysis) OutputTypes() Types {
	types := make(Types, len(a.Outputs))
	for i, e := range a.Outputs {
		types[i] = e.Type()
	}
	return types
}

// Aggregates returns the aggregate function calls among the outputs.
func (a *Analysis) Aggregates() []AggregateExpression {
	var result []AggregateExpression
	for _, e := range a.Outputs {
		if agg, ok := e.(AggregateExpression); ok {
			result = append(result, agg)
		}
	}
	return result
}

// HasAggregates returns whether any output is an aggregate function call.
func (a *Analysis) HasAggregates() bool {
	return len(a.Aggregates()) > 0
}

// IsGlobalAggregate returns whether the statement aggregates all rows into
// a single one: every output is an aggregate and there is no grouping.
func (a *Analysis) IsGlobalAggregate() bool {
	return len(a.Outputs) > 0 &&
		len(a.GroupBy) == 0 &&
		len(a.Aggregates()) == len(a.Outputs)
}

// HasLimit returns whether the statement limits the number of rows.
func (a *Analysis) HasLimit() bool {
	return a.Limit != nil
}
