package trellis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Analysis is one immutable snapshot of the full pipeline output. Snapshots
// are built privately and published atomically, so a snapshot handed to a
// caller never changes underneath it.
type Analysis struct {
	Root     string
	Graph    *Graph
	Manifest *Manifest
	Markers  Markers
	Signals  DetectedSignals
	Stats    FileStats
	BuiltAt  time.Time
}

// Dependencies is shorthand for Graph.Dependencies.
func (a *Analysis) Dependencies(p string) []string { return a.Graph.Dependencies(p) }

// Dependents is shorthand for Graph.Dependents.
func (a *Analysis) Dependents(p string) []string { return a.Graph.Dependents(p) }

// FilesByKeyword is shorthand for Graph.FilesByKeyword.
func (a *Analysis) FilesByKeyword(k string) []string { return a.Graph.FilesByKeyword(k) }

// Cluster is shorthand for Graph.Cluster.
func (a *Analysis) Cluster(root string, depth int) []string { return a.Graph.Cluster(root, depth) }

// ScoreInput derives the rubric fact set from this snapshot.
func (a *Analysis) ScoreInput() ScoreInput {
	in := ScoreInput{
		Signals:     a.Signals,
		Stats:       a.Stats,
		Markers:     a.Markers,
		Scripts:     a.Manifest.Scripts,
		Deps:        a.Manifest.AllDeps(),
		HasManifest: a.Manifest.Name != "" || len(a.Manifest.Scripts) > 0 || len(a.Manifest.Dependencies) > 0,
	}
	for _, p := range a.Graph.Paths() {
		n := a.Graph.Node(p)
		in.EdgeCount += len(n.Imports)
		if n.Kind != KindSource && n.Kind != KindTest {
			continue
		}
		lp := strings.ToLower(p)
		switch {
		case strings.Contains(lp, "component") || strings.Contains(lp, "composant"):
			in.ComponentFiles++
		case strings.Contains(lp, "route") || strings.Contains(lp, "controller") || strings.Contains(lp, "handler") || strings.Contains(lp, "api/"):
			in.RouteFiles++
		case strings.Contains(lp, "service"):
			in.ServiceFiles++
		case strings.Contains(lp, "model") || strings.Contains(lp, "schema") || strings.Contains(lp, "entit") || strings.Contains(lp, "migration"):
			in.ModelFiles++
		}
	}
	return in
}

// Engine runs the analysis pipeline for one workspace root. Concurrent
// Analyze calls may duplicate work but cannot corrupt a published snapshot:
// every build writes into fresh structures and publishes with an atomic
// swap.
type Engine struct {
	root     string
	cache    *Cache
	log      *logrus.Logger
	excludes []string
	current  atomic.Pointer[Analysis]
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache supplies an explicit cache handle, letting tests control TTL
// and time.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithExcludes adds directory names to skip during discovery, on top of the
// built-in vendor and build exclusions.
func WithExcludes(names ...string) Option {
	return func(e *Engine) { e.excludes = append(e.excludes, names...) }
}

// New creates an Engine for the workspace rooted at root.
func New(root string, opts ...Option) (*Engine, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("trellis: resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("trellis: workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("trellis: workspace root is not a directory: %s", abs)
	}
	e := &Engine{root: abs}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewCache(DefaultCacheTTL)
	}
	if e.log == nil {
		e.log = logrus.StandardLogger()
	}
	return e, nil
}

// Root returns the absolute workspace root, which is also the cache
// identity.
func (e *Engine) Root() string { return e.root }

// Current returns the most recently published snapshot, or nil before the
// first successful Analyze.
func (e *Engine) Current() *Analysis { return e.current.Load() }

// Invalidate drops the cached snapshot so the next Analyze reruns the
// pipeline.
func (e *Engine) Invalidate() { e.cache.Invalidate() }

// Analyze runs the full pipeline, or returns the cached snapshot when one
// is still valid for this workspace. Only a failure to enumerate the root
// surfaces as an error; unreadable files, a missing manifest, or a
// malformed compiler configuration all degrade to empty defaults.
func (e *Engine) Analyze(ctx context.Context) (*Analysis, error) {
	if a, ok := e.cache.Get(e.root); ok {
		e.log.Debugf("trellis: cache hit for %s", e.root)
		return a, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	nodes, err := discoverFiles(e.root, e.excludes)
	if err != nil {
		return nil, err
	}

	aliases := loadAliasTable(e.root, nodes)
	manifest := readManifest(e.root)
	markers := probeMarkers(e.root)

	contents := readFiles(parseableNodes(nodes))
	graph := buildGraph(nodes, contents, aliases)

	signals := DetectSignals(SignalInput{
		Deps:    manifest.AllDeps(),
		Scripts: manifest.Scripts,
		Markers: markers,
	})

	a := &Analysis{
		Root:     e.root,
		Graph:    graph,
		Manifest: manifest,
		Markers:  markers,
		Signals:  signals,
		Stats:    graph.Stats(),
		BuiltAt:  time.Now(),
	}

	// Publish, then cache. Readers holding the old snapshot keep a
	// consistent graph.
	e.current.Store(a)
	e.cache.Put(e.root, a)

	e.log.WithFields(logrus.Fields{
		"files":    graph.Len(),
		"aliases":  aliases.Len(),
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("trellis: analysis complete")
	return a, nil
}

// parseableNodes filters to the kinds whose contents feed the import
// parser.
func parseableNodes(nodes []*FileNode) []*FileNode {
	var out []*FileNode
	for _, n := range nodes {
		if n.Kind == KindSource || n.Kind == KindTest || n.Kind == KindStyle {
			out = append(out, n)
		}
	}
	return out
}
