package trellis

import "strings"

// Dependencies returns the paths the given file imports, in resolution
// order. Unknown paths yield an empty list, never an error.
func (g *Graph) Dependencies(p string) []string {
	n := g.nodes[p]
	if n == nil {
		return nil
	}
	out := make([]string, len(n.Imports))
	copy(out, n.Imports)
	return out
}

// Dependents returns the paths that import the given file, in link order.
// Unknown paths yield an empty list.
func (g *Graph) Dependents(p string) []string {
	n := g.nodes[p]
	if n == nil {
		return nil
	}
	out := make([]string, len(n.ImportedBy))
	copy(out, n.ImportedBy)
	return out
}

// FilesByKeyword returns all paths containing keyword, case-insensitive,
// in discovery order.
func (g *Graph) FilesByKeyword(keyword string) []string {
	k := strings.ToLower(keyword)
	var out []string
	for _, p := range g.order {
		if strings.Contains(strings.ToLower(p), k) {
			out = append(out, p)
		}
	}
	return out
}

// Cluster returns the set of paths reachable from root within depth hops,
// following import edges in both directions. BFS with visited-set dedup;
// an unknown root yields a singleton containing only the root. The result
// is ordered by BFS discovery.
func (g *Graph) Cluster(root string, depth int) []string {
	type entry struct {
		path  string
		depth int
	}
	visited := map[string]bool{root: true}
	result := []string{root}
	queue := []entry{{root, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= depth {
			continue
		}
		n := g.nodes[cur.path]
		if n == nil {
			continue
		}
		neighbors := make([]string, 0, len(n.Imports)+len(n.ImportedBy))
		neighbors = append(neighbors, n.Imports...)
		neighbors = append(neighbors, n.ImportedBy...)
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			result = append(result, nb)
			queue = append(queue, entry{nb, cur.depth + 1})
		}
	}
	return result
}

// Stats tallies nodes per kind.
func (g *Graph) Stats() FileStats {
	var s FileStats
	for _, p := range g.order {
		switch g.nodes[p].Kind {
		case KindSource:
			s.Source++
		case KindTest:
			s.Test++
		case KindConfig:
			s.Config++
		case KindStyle:
			s.Style++
		case KindAsset:
			s.Asset++
		default:
			s.Other++
		}
		s.Total++
	}
	return s
}
