package emit

import (
	"sort"
	"strings"

	"github.com/vk/rescomp/internal/graph"
)

// aliasEntry pairs a winner node with its flattened alias.
type aliasEntry struct {
	Node  *graph.Node
	Alias string
}

type aliasCandidate struct {
	node *graph.Node
	// segs is the qualified name: namespace segments plus leaf name.
	segs []string
}

func (c *aliasCandidate) suffix(depth int) string {
	if depth > len(c.segs) {
		depth = len(c.segs)
	}
	return strings.Join(c.segs[len(c.segs)-depth:], "_")
}

func (c *aliasCandidate) exhausted(depth int) bool { return depth >= len(c.segs) }

// buildAliases assigns each node the shortest suffix of its qualified name
// shared by no other node, lengthening suffixes one segment at a time. A
// node that runs out of segments while its suffix is still contested takes
// the suffix if it has the earliest origin, otherwise the fully qualified
// underscore-joined name. Templates and duplicate losers never appear in
// the input.
func buildAliases(nodes []*graph.Node) []aliasEntry {
	pending := make([]*aliasCandidate, 0, len(nodes))
	maxDepth := 1
	for _, n := range nodes {
		segs := append(append([]string{}, n.Key.Namespace...), n.Key.Name)
		pending = append(pending, &aliasCandidate{node: n, segs: segs})
		if len(segs) > maxDepth {
			maxDepth = len(segs)
		}
	}

	var entries []aliasEntry
	assign := func(c *aliasCandidate, alias string) {
		entries = append(entries, aliasEntry{Node: c.node, Alias: alias})
	}

	for depth := 1; depth <= maxDepth && len(pending) > 0; depth++ {
		groups := make(map[string][]*aliasCandidate)
		var order []string
		for _, c := range pending {
			s := c.suffix(depth)
			if _, seen := groups[s]; !seen {
				order = append(order, s)
			}
			groups[s] = append(groups[s], c)
		}

		var next []*aliasCandidate
		for _, suffix := range order {
			group := groups[suffix]
			if len(group) == 1 {
				assign(group[0], suffix)
				continue
			}

			var exhausted []*aliasCandidate
			for _, c := range group {
				if c.exhausted(depth) {
					exhausted = append(exhausted, c)
				} else {
					next = append(next, c)
				}
			}
			if len(exhausted) == 0 {
				continue
			}
			sort.SliceStable(exhausted, func(i, j int) bool {
				return earlierOrigin(exhausted[i].node, exhausted[j].node)
			})
			assign(exhausted[0], suffix)
			for _, c := range exhausted[1:] {
				// Unavoidable collision beyond full qualification.
				assign(c, strings.Join(c.segs, "_"))
			}
		}
		pending = next
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Node.Key.ID() < entries[j].Node.Key.ID()
	})
	return entries
}

func earlierOrigin(a, b *graph.Node) bool {
	if a.Origin.File != b.Origin.File {
		return a.Origin.File < b.Origin.File
	}
	return a.Origin.Line < b.Origin.Line
}
