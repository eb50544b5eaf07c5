package trellis

import (
	"path"
	"strings"
)

// Graph maps workspace-relative paths to their FileNodes. A Graph is built
// privately by buildGraph and published atomically by the Engine; once
// published it is never mutated, so concurrent readers need no locking.
type Graph struct {
	nodes map[string]*FileNode
	order []string // insertion (discovery) order
}

// newGraph builds an empty graph pre-seeded with the given nodes.
func newGraph(nodes []*FileNode) *Graph {
	g := &Graph{nodes: make(map[string]*FileNode, len(nodes))}
	for _, n := range nodes {
		if _, dup := g.nodes[n.Path]; dup {
			continue
		}
		g.nodes[n.Path] = n
		g.order = append(g.order, n.Path)
	}
	return g
}

// Node returns the FileNode for a path, or nil when unknown.
func (g *Graph) Node(p string) *FileNode {
	return g.nodes[p]
}

// Paths returns all node paths in discovery order.
func (g *Graph) Paths() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// probeExtensions are appended during extension probing, tried in order
// after the verbatim candidate.
var probeExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".vue", ".svelte", ".css", ".scss", ".sass", ".less"}

// buildGraph links every source and style node's imports into g. Each raw
// target resolves via, in order: external short-circuit, alias substitution,
// relative/absolute resolution — each followed by extension probing.
// Unresolved targets are dropped; that is the documented heuristic outcome
// for dynamic paths and build-tool rewrites, not an error.
func buildGraph(nodes []*FileNode, contents map[string]string, aliases *AliasTable) *Graph {
	g := newGraph(nodes)
	for _, p := range g.order {
		n := g.nodes[p]
		if n.Kind != KindSource && n.Kind != KindTest && n.Kind != KindStyle {
			continue
		}
		text, ok := contents[p]
		if !ok {
			continue
		}
		for _, target := range extractImportTargets(text) {
			resolved, ok := g.resolve(p, target, aliases)
			if !ok {
				continue
			}
			g.link(p, resolved)
		}
	}
	return g
}

// link appends a bidirectional edge, once per pair.
func (g *Graph) link(from, to string) {
	if from == to {
		return
	}
	src, dst := g.nodes[from], g.nodes[to]
	for _, existing := range src.Imports {
		if existing == to {
			return
		}
	}
	src.Imports = append(src.Imports, to)
	dst.ImportedBy = append(dst.ImportedBy, from)
}

// resolve maps a raw import target to a known node path. First success
// wins. Alias resolution is deliberately attempted before relative
// resolution: a target that is both relative-looking and alias-matching
// takes the alias branch. That ordering mirrors the observed tooling
// behavior and is preserved as-is even though its fidelity to the real
// ecosystem resolver is unverified.
func (g *Graph) resolve(fromPath, target string, aliases *AliasTable) (string, bool) {
	relative := strings.HasPrefix(target, ".")
	absolute := strings.HasPrefix(target, "/")
	aliased := aliases.hasPrefixFor(target)

	// External short-circuit: bare specifiers like "lodash" are third-party
	// references and never produce an edge, regardless of coincidental
	// local file names.
	if !relative && !absolute && !aliased {
		return "", false
	}

	if aliased {
		candidates, _ := aliases.candidatesFor(target)
		for _, c := range candidates {
			if hit, ok := g.probe(c); ok {
				return hit, true
			}
		}
	}

	var candidate string
	switch {
	case absolute:
		candidate = path.Clean(strings.TrimPrefix(target, "/"))
	case relative:
		candidate = path.Join(path.Dir(fromPath), target)
	default:
		return "", false
	}
	return g.probe(candidate)
}

// probe tries a candidate path verbatim, then with each probe extension
// appended, then as a directory with an index file per extension. The first
// known node wins.
func (g *Graph) probe(candidate string) (string, bool) {
	candidate = path.Clean(candidate)
	if _, ok := g.nodes[candidate]; ok {
		return candidate, true
	}
	for _, ext := range probeExtensions {
		if p := candidate + ext; g.nodes[p] != nil {
			return p, true
		}
	}
	for _, ext := range probeExtensions {
		if p := candidate + "/index" + ext; g.nodes[p] != nil {
			return p, true
		}
	}
	return "", false
}
