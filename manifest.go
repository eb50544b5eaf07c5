package trellis

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Manifest is the subset of package.json the detector and scorer read.
type Manifest struct {
	Name            string            `json:"name"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// AllDeps merges dependencies and devDependencies into one name set.
func (m *Manifest) AllDeps() map[string]bool {
	deps := make(map[string]bool, len(m.Dependencies)+len(m.DevDependencies))
	for name := range m.Dependencies {
		deps[name] = true
	}
	for name := range m.DevDependencies {
		deps[name] = true
	}
	return deps
}

// readManifest loads the root package.json. Any read or parse failure
// yields an empty manifest; a workspace without one simply has no
// dependency signals.
func readManifest(root string) *Manifest {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return &Manifest{}
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return &Manifest{}
	}
	return &m
}

// Markers records the existence of well-known files the detector and
// rubrics treat as evidence. Probed once per analysis run.
type Markers struct {
	TailwindConfig bool
	Dockerfile     bool
	DockerCompose  bool
	CIWorkflows    bool
	Readme         bool
	DocsDir        bool
	EnvExample     bool
	GitRepo        bool
	GitIgnore      bool
	Lockfile       bool
	PrismaSchema   bool
	CompilerConfig bool
	LinterConfig   bool
	SrcDir         bool
	Storybook      bool
	VercelConfig   bool
	NetlifyConfig  bool
	License        bool
	Contributing   bool
	Changelog      bool
}

// markerProbes maps each marker to the paths whose existence sets it. Any
// hit wins.
var markerProbes = []struct {
	paths []string
	set   func(*Markers)
}{
	{[]string{"tailwind.config.js", "tailwind.config.ts", "tailwind.config.cjs", "tailwind.config.mjs"}, func(m *Markers) { m.TailwindConfig = true }},
	{[]string{"Dockerfile", "dockerfile"}, func(m *Markers) { m.Dockerfile = true }},
	{[]string{"docker-compose.yml", "docker-compose.yaml", "compose.yaml"}, func(m *Markers) { m.DockerCompose = true }},
	{[]string{".github/workflows", ".gitlab-ci.yml", ".circleci/config.yml"}, func(m *Markers) { m.CIWorkflows = true }},
	{[]string{"README.md", "readme.md", "README"}, func(m *Markers) { m.Readme = true }},
	{[]string{"docs", "doc"}, func(m *Markers) { m.DocsDir = true }},
	{[]string{".env.example", ".env.sample", ".env.template"}, func(m *Markers) { m.EnvExample = true }},
	{[]string{".git"}, func(m *Markers) { m.GitRepo = true }},
	{[]string{".gitignore"}, func(m *Markers) { m.GitIgnore = true }},
	{[]string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb"}, func(m *Markers) { m.Lockfile = true }},
	{[]string{"prisma/schema.prisma", "schema.prisma"}, func(m *Markers) { m.PrismaSchema = true }},
	{[]string{"tsconfig.json", "jsconfig.json"}, func(m *Markers) { m.CompilerConfig = true }},
	{[]string{".eslintrc", ".eslintrc.js", ".eslintrc.json", ".eslintrc.cjs", "eslint.config.js", "eslint.config.mjs", "biome.json"}, func(m *Markers) { m.LinterConfig = true }},
	{[]string{"src"}, func(m *Markers) { m.SrcDir = true }},
	{[]string{".storybook"}, func(m *Markers) { m.Storybook = true }},
	{[]string{"vercel.json"}, func(m *Markers) { m.VercelConfig = true }},
	{[]string{"netlify.toml"}, func(m *Markers) { m.NetlifyConfig = true }},
	{[]string{"LICENSE", "LICENSE.md", "LICENSE.txt"}, func(m *Markers) { m.License = true }},
	{[]string{"CONTRIBUTING.md"}, func(m *Markers) { m.Contributing = true }},
	{[]string{"CHANGELOG.md"}, func(m *Markers) { m.Changelog = true }},
}

// probeMarkers stats each well-known path under root. Missing files are a
// normal outcome, never an error.
func probeMarkers(root string) Markers {
	var m Markers
	for _, probe := range markerProbes {
		for _, p := range probe.paths {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(p))); err == nil {
				probe.set(&m)
				break
			}
		}
	}
	return m
}
