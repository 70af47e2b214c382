package sql

import (
	"fmt"
	"sort"
	"strings"
)

// Routing is an immutable snapshot of the shards each node owns, per table.
// A Routing owns all of its nested structure: values passed to NewRouting
// are copied and accessors return copies.
type Routing struct {
	locations map[string]map[string][]int
}

// NewRouting creates a routing from a node -> table -> shards mapping.
// Shard lists are copied, sorted and de-duplicated.
func NewRouting(locations map[string]map[string][]int) Routing {
	r := Routing{locations: make(map[string]map[string][]int, len(locations))}
	for node, tables := range locations {
		copied := make(map[string][]int, len(tables))
		for table, shards := range tables {
			copied[table] = normalizeShards(shards)
		}
		r.locations[node] = copied
	}
	return r
}

func normalizeShards(shards []int) []int {
	result := make([]int, len(shards))
	copy(result, shards)
	sort.Ints(result)

	var j int
	for i, s := range result {
		if i > 0 && s == result[j-1] {
			continue
		}
		result[j] = s
		j++
	}
	return result[:j]
}

// Nodes returns the identifiers of the routed nodes, sorted.
func (r Routing) Nodes() []string {
	nodes := make([]string, 0, len(r.locations))
	for node := range r.locations {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	return nodes
}

// Tables returns the tables the node holds shards of, sorted.
func (r Routing) Tables(node string) []string {
	tables := make([]string, 0, len(r.locations[node]))
	for table := range r.locations[node] {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	return tables
}

// Shards returns the shards of the table owned by the node.
func (r Routing) Shards(node, table string) []int {
	shards := r.locations[node][table]
	result := make([]int, len(shards))
	copy(result, shards)
	return result
}

// Locations returns a copy of the whole node -> table -> shards mapping.
func (r Routing) Locations() map[string]map[string][]int {
	result := make(map[string]map[string][]int, len(r.locations))
	for node, tables := range r.locations {
		copied := make(map[string][]int, len(tables))
		for table, shards := range tables {
			s := make([]int, len(shards))
			copy(s, shards)
			copied[table] = s
		}
		result[node] = copied
	}
	return result
}

// Len returns the number of routed node/table/shard triples.
func (r Routing) Len() int {
	var n int
	for _, tables := range r.locations {
		for _, shards := range tables {
			n += len(shards)
		}
	}
	return n
}

// IsEmpty returns whether no node takes part in the routing.
func (r Routing) IsEmpty() bool {
	return len(r.locations) == 0
}

// Validate checks that no shard of a table is routed to more than one node.
func (r Routing) Validate() error {
	owners := make(map[string]map[int]string)
	for _, node := range r.Nodes() {
		for table, shards := range r.locations[node] {
			if owners[table] == nil {
				owners[table] = make(map[int]string)
			}
			for _, shard := range shards {
				if other, ok := owners[table][shard]; ok {
					return ErrDuplicateShard.New(shard, table, other, node)
				}
				owners[table][shard] = node
			}
		}
	}
	return nil
}

// Equal returns whether both routings hold exactly the same locations.
func (r Routing) Equal(other Routing) bool {
	if len(r.locations) != len(other.locations) {
		return false
	}

	for node, tables := range r.locations {
		otherTables, ok := other.locations[node]
		if !ok || len(tables) != len(otherTables) {
			return false
		}
		for table, shards := range tables {
			otherShards, ok := otherTables[table]
			if !ok || len(shards) != len(otherShards) {
				return false
			}
			for i := range shards {
				if shards[i] != otherShards[i] {
					return false
				}
			}
		}
	}

	return true
}

func (r Routing) String() string {
	var parts []string
	for _, node := range r.Nodes() {
		var tables []string
		for _, table := range r.Tables(node) {
			tables = append(tables, fmt.Sprintf("%s%v", table, r.locations[node][table]))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", node, strings.Join(tables, " ")))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
