package trellis

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxWorkspaceFiles caps discovery. Files beyond the cap are silently
// dropped; enormous workspaces degrade to a partial analysis rather than
// failing.
const maxWorkspaceFiles = 5000

// readConcurrency bounds the batched file reads during discovery.
const readConcurrency = 16

// skipDirs are vendor and build trees excluded from every walk.
var skipDirs = map[string]bool{
	"node_modules":     true,
	"vendor":           true,
	"bower_components": true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	"__pycache__":      true,
}

var sourceExts = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".vue", ".svelte"}

var styleExts = []string{".css", ".scss", ".sass", ".less", ".styl"}

var assetExts = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".woff", ".woff2", ".ttf", ".mp4", ".webm"}

var configExts = []string{".json", ".yaml", ".yml", ".toml", ".env"}

// testMarkers identify test files by path substring, checked before any
// extension rule.
var testMarkers = []string{".test.", ".spec.", "__tests__/", "/tests/", "/test/", ".e2e.", "/e2e/", "/cypress/"}

// configMarkers identify configuration files by name substring.
var configMarkers = []string{"config", "rc.", ".rc", "tsconfig", "jsconfig", "package.json", "dockerfile", "makefile", ".env"}

// Classify maps a workspace-relative path to a FileKind. Pure function;
// test markers win over config, config over style, style over generic
// source.
func Classify(path string) FileKind {
	p := strings.ToLower(filepath.ToSlash(path))
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	ext := filepath.Ext(p)

	for _, m := range testMarkers {
		if strings.Contains(p, m) && hasExt(ext, sourceExts) {
			return KindTest
		}
	}
	for _, m := range configMarkers {
		if strings.Contains(base, m) {
			return KindConfig
		}
	}
	if hasExt(ext, configExts) {
		return KindConfig
	}
	if hasExt(ext, styleExts) {
		return KindStyle
	}
	if hasExt(ext, sourceExts) {
		return KindSource
	}
	if hasExt(ext, assetExts) {
		return KindAsset
	}
	return KindOther
}

func hasExt(ext string, exts []string) bool {
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// discoverFiles walks root and returns classified nodes in walk order,
// honoring skipDirs, hidden-directory exclusion, and the file cap.
// Only a failure to enumerate root itself is an error; unreadable
// subtrees are skipped.
func discoverFiles(root string, extraExcludes []string) ([]*FileNode, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("enumerate workspace %s: %w", root, err)
	}

	excluded := func(name string) bool {
		if skipDirs[name] {
			return true
		}
		for _, e := range extraExcludes {
			if name == e {
				return true
			}
		}
		return false
	}

	var nodes []*FileNode
	truncated := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry below root: degrade, don't fail.
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || excluded(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && !strings.HasPrefix(d.Name(), ".env") {
			return nil
		}
		if len(nodes) >= maxWorkspaceFiles {
			truncated = true
			return fs.SkipAll
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		nodes = append(nodes, &FileNode{
			Path:         rel,
			AbsolutePath: path,
			Kind:         Classify(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate workspace %s: %w", root, err)
	}
	_ = truncated // documented cap, not an error
	return nodes, nil
}

// readFiles loads the contents of the given nodes with bounded concurrency.
// Unreadable files yield no entry; the read batch never mutates the graph,
// so the single-writer invariant holds.
func readFiles(nodes []*FileNode) map[string]string {
	var (
		mu       sync.Mutex
		contents = make(map[string]string, len(nodes))
	)
	var g errgroup.Group
	g.SetLimit(readConcurrency)
	for _, n := range nodes {
		n := n
		g.Go(func() error {
			data, err := os.ReadFile(n.AbsolutePath)
			if err != nil {
				return nil // no signal
			}
			mu.Lock()
			contents[n.Path] = string(data)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return contents
}
