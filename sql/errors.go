package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidType is thrown when there is an unexpected type at some part of
	// the planning tree.
	ErrInvalidType = errors.NewKind("invalid type: %s")

	// ErrUnknownTable is returned when the catalog cannot resolve a table.
	ErrUnknownTable = errors.NewKind("unknown table: %s")

	// ErrUnknownFunction is returned when an aggregate function reference
	// cannot be resolved to a signature.
	ErrUnknownFunction = errors.NewKind("unknown function: %s")

	// ErrInvalidArgumentNumber is returned when an aggregate function is
	// given the wrong number of arguments.
	ErrInvalidArgumentNumber = errors.NewKind("function %s expects %s arguments, got %d")

	// ErrTypeMismatch is returned when two adjacent stages of a plan do not
	// agree on the types flowing between them. It always signals a bug in the
	// planner, never a user error.
	ErrTypeMismatch = errors.NewKind("internal error: %s outputs %s but %s expects %s")

	// ErrUnsupportedFeature is returned when an analysis uses a feature the
	// planner cannot split across the cluster yet.
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrDuplicateShard is returned when a routing assigns the same shard of a
	// table to more than one node.
	ErrDuplicateShard = errors.NewKind("shard %d of table %s is routed to both %s and %s")

	// ErrUnresolvedExpression is returned when an expression reaching the
	// planner has not been resolved by the analyzer.
	ErrUnresolvedExpression = errors.NewKind("unresolved expression: %s")
)
