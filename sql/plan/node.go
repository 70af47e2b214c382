package plan

import (
	"fmt"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Node is one stage of a distributed plan. The set of nodes is closed:
// CollectNode, MergeNode and ESSearchNode are the only implementations.
type Node interface {
	fmt.Stringer
	// OutputTypes returns the types of the rows the stage produces.
	OutputTypes() sql.Types
	// Expressions returns the expressions the stage evaluates.
	Expressions() []sql.Expression
	fingerprint() interface{}
}

// Receiver is a stage fed by the rows of the preceding stage.
type Receiver interface {
	Node
	// InputTypes returns the types of the rows the stage expects.
	InputTypes() sql.Types
}

var (
	_ Node     = (*CollectNode)(nil)
	_ Receiver = (*MergeNode)(nil)
	_ Node     = (*ESSearchNode)(nil)
)

// Step tells which part of an aggregation a stage computes.
type Step byte

const (
	// Partial steps turn rows into an aggregation state.
	Partial Step = iota + 1
	// Final steps reduce aggregation states into the final value.
	Final
)

func (s Step) String() string {
	switch s {
	case Partial:
		return "partial"
	case Final:
		return "final"
	default:
		return "invalid Step"
	}
}

// AggregationStep is an aggregate function computed by a stage.
type AggregationStep struct {
	Signature sql.AggregationSignature
	// Inputs are the positions, in the row the stage consumes, of the
	// function arguments for a partial step or of the partial state for a
	// final step.
	Inputs []int
	Step   Step
}

// OutputType returns the type the step produces.
func (a AggregationStep) OutputType() sql.Type {
	if a.Step == Final {
		return a.Signature.FinalType
	}
	return a.Signature.PartialType
}

func (a AggregationStep) String() string {
	return fmt.Sprintf("%s %s %v", a.Signature, a.Step, a.Inputs)
}

// OrderBy is a sort key referring to a position in the rows of a stage.
type OrderBy struct {
	Index        int
	Order        sql.SortOrder
	NullOrdering sql.NullOrdering
}

func (o OrderBy) String() string {
	return fmt.Sprintf("$%d %s", o.Index, o.Order)
}

func aggregationTypes(aggs []AggregationStep) sql.Types {
	types := make(sql.Types, len(aggs))
	for i, a := range aggs {
		types[i] = a.OutputType()
	}
	return types
}

func expressionTypes(exprs []sql.Expression) sql.Types {
	types := make(sql.Types, len(exprs))
	for i, e := range exprs {
		types[i] = e.Type()
	}
	return types
}

func expressionStrings(exprs []sql.Expression) []string {
	result := make([]string, len(exprs))
	for i, e := range exprs {
		result[i] = e.String()
	}
	return result
}

func stringOrEmpty(e sql.Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func copyLimit(limit *int64) *int64 {
	if limit == nil {
		return nil
	}
	l := *limit
	return &l
}

type aggregationFingerprint struct {
	Name          string
	ArgumentTypes []sql.Type
	PartialType   sql.Type
	FinalType     sql.Type
	Inputs        []int
	Step          Step
}

func aggregationFingerprints(aggs []AggregationStep) []aggregationFingerprint {
	result := make([]aggregationFingerprint, len(aggs))
	for i, a := range aggs {
		result[i] = aggregationFingerprint{
			Name:          a.Signature.Name,
			ArgumentTypes: a.Signature.ArgumentTypes,
			PartialType:   a.Signature.PartialType,
			FinalType:     a.Signature.FinalType,
			Inputs:        a.Inputs,
			Step:          a.Step,
		}
	}
	return result
}
