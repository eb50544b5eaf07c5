package trellis

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Alias is one configured path-prefix substitution. A trailing "*" in the
// pattern matches any suffix; Targets are candidate substitutions tried in
// order.
type Alias struct {
	Pattern  string
	Targets  []string
	wildcard bool
}

// AliasTable holds aliases in configuration order. Loaded once per build,
// read-only afterward.
type AliasTable struct {
	aliases []Alias
	baseDir string // alias targets resolve relative to this, workspace-relative
}

// Len reports the number of configured aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.aliases)
}

// compilerConfigNames are probed shallowest-first; the single nearest hit
// wins.
var compilerConfigNames = []string{"tsconfig.json", "jsconfig.json"}

// tsconfig is the subset of the compiler configuration trellis reads.
type tsconfig struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// loadAliasTable locates the nearest compiler-configuration file among the
// discovered nodes and extracts its path mappings. Every failure mode (no
// config, unreadable file, malformed JSON) yields an empty table, never an
// error.
func loadAliasTable(root string, nodes []*FileNode) *AliasTable {
	cfgPath := nearestCompilerConfig(nodes)
	if cfgPath == "" {
		return &AliasTable{}
	}
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(cfgPath)))
	if err != nil {
		return &AliasTable{}
	}
	return parseAliasTable(path.Dir(cfgPath), data)
}

// nearestCompilerConfig picks the shallowest config file in walk order;
// ties go to the earlier name in compilerConfigNames.
func nearestCompilerConfig(nodes []*FileNode) string {
	best := ""
	bestDepth, bestName := -1, len(compilerConfigNames)
	for _, n := range nodes {
		base := path.Base(n.Path)
		ni := -1
		for i, name := range compilerConfigNames {
			if base == name {
				ni = i
				break
			}
		}
		if ni < 0 {
			continue
		}
		depth := strings.Count(n.Path, "/")
		if best == "" || depth < bestDepth || (depth == bestDepth && ni < bestName) {
			best, bestDepth, bestName = n.Path, depth, ni
		}
	}
	return best
}

var (
	lineCommentRe  = regexp.MustCompile(`(?m)^\s*//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)
)

// parseAliasTable parses JSONC compiler configuration. cfgDir is the
// workspace-relative directory containing the config file. Malformed input
// yields an empty table.
func parseAliasTable(cfgDir string, data []byte) *AliasTable {
	cleaned := blockCommentRe.ReplaceAll(data, nil)
	cleaned = lineCommentRe.ReplaceAll(cleaned, nil)
	cleaned = trailingComma.ReplaceAll(cleaned, []byte("$1"))

	var cfg tsconfig
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return &AliasTable{}
	}

	base := cfg.CompilerOptions.BaseURL
	if base == "" {
		base = "."
	}
	baseDir := path.Join(cfgDir, base)

	t := &AliasTable{baseDir: baseDir}
	// Iterate patterns in a stable order: json maps are unordered, so sort
	// is applied by the caller-visible contract that longer (more specific)
	// patterns are tried first.
	patterns := make([]string, 0, len(cfg.CompilerOptions.Paths))
	for p := range cfg.CompilerOptions.Paths {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	for _, p := range patterns {
		targets := cfg.CompilerOptions.Paths[p]
		if len(targets) == 0 {
			continue
		}
		t.aliases = append(t.aliases, Alias{
			Pattern:  p,
			Targets:  targets,
			wildcard: strings.HasSuffix(p, "*"),
		})
	}
	return t
}

// matches reports whether target matches the alias pattern and returns the
// candidate workspace-relative paths to probe, in target order.
func (a Alias) matches(target, baseDir string) ([]string, bool) {
	if a.wildcard {
		prefix := strings.TrimSuffix(a.Pattern, "*")
		if !strings.HasPrefix(target, prefix) {
			return nil, false
		}
		suffix := strings.TrimPrefix(target, prefix)
		out := make([]string, 0, len(a.Targets))
		for _, t := range a.Targets {
			out = append(out, path.Join(baseDir, strings.Replace(t, "*", suffix, 1)))
		}
		return out, true
	}
	if target != a.Pattern {
		return nil, false
	}
	out := make([]string, 0, len(a.Targets))
	for _, t := range a.Targets {
		out = append(out, path.Join(baseDir, t))
	}
	return out, true
}

// candidatesFor returns all alias expansions for target, preserving alias
// order. ok is false when no alias matches.
func (t *AliasTable) candidatesFor(target string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	var out []string
	matched := false
	for _, a := range t.aliases {
		if cands, ok := a.matches(target, t.baseDir); ok {
			matched = true
			out = append(out, cands...)
		}
	}
	return out, matched
}

// hasPrefixFor reports whether any alias pattern matches target, used by the
// external-import short circuit.
func (t *AliasTable) hasPrefixFor(target string) bool {
	_, ok := t.candidatesFor(target)
	return ok
}
