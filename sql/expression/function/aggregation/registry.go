package aggregation

import (
	"strings"
	"sync"

	"gopkg.in/src-d/go-distsql.v0/sql"
)

// Factory creates the implementation of an aggregate function for the given
// argument types.
type Factory func(args sql.Types) (sql.Aggregation, error)

// Defaults is the map with all the default aggregate functions.
var Defaults = map[string]Factory{
	"count":          NewCount,
	"count_distinct": NewCountDistinct,
	"sum":            NewSum,
	"avg":            NewAvg,
	"min":            NewMin,
	"max":            NewMax,
}

// Registry resolves aggregate function names to their implementations.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var _ sql.AggregationRegistry = (*Registry)(nil)

// NewRegistry creates a registry holding the default functions.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory, len(Defaults))}
	for name, f := range Defaults {
		r.factories[name] = f
	}
	return r
}

// Register adds a function to the registry, replacing any function with the
// same name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Aggregation implements the sql.AggregationRegistry interface.
func (r *Registry) Aggregation(name string, args sql.Types) (sql.Aggregation, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, sql.ErrUnknownFunction.New(name)
	}

	return f(args)
}
