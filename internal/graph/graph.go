package graph

import "sort"

// Graph is the merged resource graph. Every key maps to all competing
// definitions, the first-inserted being the winner; losers persist for
// diagnostics until the report is finalized. The graph is built by a single
// owner and becomes read-mostly once resolution starts.
type Graph struct {
	entries map[string]*entry
	// order preserves first-seen insertion order of keys.
	order []string
}

type entry struct {
	key   Key
	nodes []*Node
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{entries: make(map[string]*entry)}
}

// Insert adds a node under its key. The return value reports whether the
// key already existed, in which case the node is retained as a losing
// duplicate and the earlier winner is left in place.
func (g *Graph) Insert(node *Node) (duplicate bool) {
	id := node.Key.ID()
	if e, ok := g.entries[id]; ok {
		e.nodes = append(e.nodes, node)
		return true
	}
	g.entries[id] = &entry{key: node.Key, nodes: []*Node{node}}
	g.order = append(g.order, id)
	return false
}

// Winner returns the precedence-selected node for a key, or nil when the
// key is not defined.
func (g *Graph) Winner(key Key) *Node {
	if e, ok := g.entries[key.ID()]; ok {
		return e.nodes[0]
	}
	return nil
}

// All returns every definition recorded for a key, winner first. The
// duplicate losers exist for reporting only.
func (g *Graph) All(key Key) []*Node {
	if e, ok := g.entries[key.ID()]; ok {
		return e.nodes
	}
	return nil
}

// Len returns the number of distinct keys.
func (g *Graph) Len() int { return len(g.order) }

// Keys returns all distinct keys sorted by canonical ID, giving every
// downstream pass a deterministic iteration order.
func (g *Graph) Keys() []Key {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	sort.Strings(ids)
	keys := make([]Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, g.entries[id].key)
	}
	return keys
}

// Winners iterates the winner nodes in sorted key order.
func (g *Graph) Winners() []*Node {
	keys := g.Keys()
	nodes := make([]*Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, g.Winner(k))
	}
	return nodes
}
