package trellis

import (
	"fmt"
	"strings"
)

// ScoreInput is the full fact set a rubric check may read. Built once per
// analysis snapshot; scoring itself performs no I/O.
type ScoreInput struct {
	Signals DetectedSignals
	Stats   FileStats
	Markers Markers
	Scripts map[string]string
	Deps    map[string]bool

	HasManifest bool
	EdgeCount   int // resolved intra-workspace import edges

	// Keyword-bucketed source file counts, derived from graph paths.
	ComponentFiles int
	RouteFiles     int
	ServiceFiles   int
	ModelFiles     int
}

// check is one weighted rubric item. pass is evaluated independently of
// every other check; a hit contributes points and an evidence line, a miss
// contributes a missing line.
type check struct {
	points   int
	pass     func(in ScoreInput) bool
	evidence func(in ScoreInput) string
	missing  string
}

// ev wraps a static evidence string.
func ev(s string) func(ScoreInput) string {
	return func(ScoreInput) string { return s }
}

// rubricEntry binds a phase category to its title keywords and checks.
// Keywords are matched case-insensitively as substrings; phase titles in
// the field are both English and French, so keyword lists carry both.
type rubricEntry struct {
	category string
	keywords []string
	checks   []check
}

func hasScript(in ScoreInput, names ...string) bool {
	for _, n := range names {
		if s, ok := in.Scripts[n]; ok && s != "" {
			return true
		}
	}
	return false
}

// rubricRegistry is evaluated in order; the first entry with a matching
// keyword wins. Checks within an entry are authored to sum to 100.
var rubricRegistry = []rubricEntry{
	{
		category: "setup",
		keywords: []string{"setup", "init", "config", "installation", "bootstrap", "scaffold", "environnement", "environment"},
		checks: []check{
			{20, func(in ScoreInput) bool { return in.HasManifest }, ev("package manifest present"), "no package manifest"},
			{10, func(in ScoreInput) bool { return in.Markers.Lockfile }, ev("dependency lockfile committed"), "no dependency lockfile"},
			{15, func(in ScoreInput) bool { return in.Markers.CompilerConfig }, ev("compiler configuration present"), "no tsconfig/jsconfig"},
			{15, func(in ScoreInput) bool { return in.Markers.LinterConfig }, ev("linter configured"), "no linter configuration"},
			{10, func(in ScoreInput) bool { return in.Markers.GitRepo || in.Markers.GitIgnore }, ev("git repository initialized"), "no git repository"},
			{10, func(in ScoreInput) bool { return in.Markers.EnvExample }, ev("environment template (.env.example)"), "no environment template"},
			{20, func(in ScoreInput) bool { return hasScript(in, "dev", "start") }, ev("dev/start script defined"), "no dev or start script"},
		},
	},
	{
		category: "architecture",
		keywords: []string{"architect", "structure", "conception"},
		checks: []check{
			{20, func(in ScoreInput) bool { return in.Markers.SrcDir }, ev("src/ directory layout"), "no src/ directory"},
			{20, func(in ScoreInput) bool { return in.Stats.Source >= 5 },
				func(in ScoreInput) string { return fmt.Sprintf("%d source files organized", in.Stats.Source) },
				"fewer than 5 source files"},
			{25, func(in ScoreInput) bool { return in.EdgeCount > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("modules wired together (%d import edges)", in.EdgeCount) },
				"no internal import edges"},
			{20, func(in ScoreInput) bool { return in.Markers.CompilerConfig }, ev("compiler configuration present"), "no compiler configuration"},
			{15, func(in ScoreInput) bool { return in.Markers.Readme }, ev("README describes the project"), "no README"},
		},
	},
	{
		category: "design",
		keywords: []string{"design", "ui", "ux", "interface", "maquette", "composant", "component", "front"},
		checks: []check{
			{25, func(in ScoreInput) bool { return in.Signals.Frontend != "" },
				func(in ScoreInput) string { return "frontend framework: " + in.Signals.Frontend },
				"no frontend framework detected"},
			{20, func(in ScoreInput) bool { return in.Signals.CSSFramework != "" },
				func(in ScoreInput) string { return "CSS framework: " + in.Signals.CSSFramework },
				"no CSS framework detected"},
			{20, func(in ScoreInput) bool { return in.Stats.Style > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d stylesheet(s)", in.Stats.Style) },
				"no stylesheets"},
			{25, func(in ScoreInput) bool { return in.ComponentFiles > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d component file(s)", in.ComponentFiles) },
				"no component files"},
			{10, func(in ScoreInput) bool { return in.Markers.Storybook }, ev("Storybook configured"), "no Storybook"},
		},
	},
	{
		category: "backend",
		keywords: []string{"backend", "back-end", "api", "serveur", "server", "service"},
		checks: []check{
			{25, func(in ScoreInput) bool { return in.Signals.Backend != "" },
				func(in ScoreInput) string { return "backend framework: " + in.Signals.Backend },
				"no backend framework detected"},
			{15, func(in ScoreInput) bool { return in.Signals.APIStyle != "" },
				func(in ScoreInput) string { return "API style: " + in.Signals.APIStyle },
				"no API style detected"},
			{25, func(in ScoreInput) bool { return in.RouteFiles > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d route/controller file(s)", in.RouteFiles) },
				"no route or controller files"},
			{15, func(in ScoreInput) bool { return in.ServiceFiles > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d service file(s)", in.ServiceFiles) },
				"no service layer files"},
			{10, func(in ScoreInput) bool { return in.Signals.Auth != "" },
				func(in ScoreInput) string { return "auth: " + in.Signals.Auth },
				"no auth mechanism detected"},
			{10, func(in ScoreInput) bool { return in.Markers.EnvExample }, ev("environment template for service config"), "no environment template"},
		},
	},
	{
		category: "database",
		keywords: []string{"database", "données", "donnees", "db", "schéma", "schema", "persistence"},
		checks: []check{
			{30, func(in ScoreInput) bool { return in.Signals.ORM != "" },
				func(in ScoreInput) string { return "ORM: " + in.Signals.ORM },
				"no ORM detected"},
			{30, func(in ScoreInput) bool { return in.Markers.PrismaSchema || in.ModelFiles > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d schema/model file(s)", in.ModelFiles) },
				"no schema or model files"},
			{20, func(in ScoreInput) bool {
				return in.Deps["pg"] || in.Deps["mysql2"] || in.Deps["sqlite3"] || in.Deps["better-sqlite3"] || in.Deps["mongodb"] || in.Deps["redis"] || in.Deps["ioredis"]
			}, ev("database driver dependency"), "no database driver dependency"},
			{20, func(in ScoreInput) bool {
				for name, body := range in.Scripts {
					if strings.Contains(name, "migrate") || strings.Contains(body, "migrate") {
						return true
					}
				}
				return false
			}, ev("migration script defined"), "no migration script"},
		},
	},
	{
		category: "tests",
		keywords: []string{"test", "qualité", "qualite", "qa", "e2e"},
		checks: []check{
			{35, func(in ScoreInput) bool { return in.Signals.TestFramework != "" },
				func(in ScoreInput) string { return "test framework: " + in.Signals.TestFramework },
				"no test framework dependency"},
			{30, func(in ScoreInput) bool { return in.Stats.Test > 0 },
				func(in ScoreInput) string { return fmt.Sprintf("%d test file(s)", in.Stats.Test) },
				"no test files"},
			{15, func(in ScoreInput) bool { return realTestScript(in.Scripts["test"]) }, ev("test script defined"), "no test script"},
			{10, func(in ScoreInput) bool { return in.Stats.Source > 0 && in.Stats.Test*5 >= in.Stats.Source },
				ev("test coverage breadth (1 test file per 5 source files)"),
				"thin test coverage relative to source size"},
			{10, func(in ScoreInput) bool { return in.Markers.CIWorkflows }, ev("CI pipeline runs checks"), "no CI pipeline"},
		},
	},
	{
		category: "cicd",
		keywords: []string{"ci/cd", "ci-cd", "cicd", "pipeline", "intégration continue", "integration continue", "livraison"},
		checks: []check{
			{40, func(in ScoreInput) bool { return in.Markers.CIWorkflows }, ev("CI workflow configured"), "no CI workflow"},
			{20, func(in ScoreInput) bool { return in.Markers.Dockerfile }, ev("Dockerfile present"), "no Dockerfile"},
			{15, func(in ScoreInput) bool { return hasScript(in, "lint") }, ev("lint script defined"), "no lint script"},
			{15, func(in ScoreInput) bool { return hasScript(in, "build") }, ev("build script defined"), "no build script"},
			{10, func(in ScoreInput) bool { return in.Markers.DockerCompose }, ev("docker-compose for local stack"), "no docker-compose"},
		},
	},
	{
		category: "documentation",
		keywords: []string{"documentation", "docs", "readme", "guide"},
		checks: []check{
			{40, func(in ScoreInput) bool { return in.Markers.Readme }, ev("README present"), "no README"},
			{20, func(in ScoreInput) bool { return in.Markers.DocsDir }, ev("docs/ directory"), "no docs directory"},
			{15, func(in ScoreInput) bool { return in.Markers.Contributing }, ev("CONTRIBUTING guide"), "no CONTRIBUTING guide"},
			{15, func(in ScoreInput) bool { return in.Markers.License }, ev("LICENSE file"), "no LICENSE file"},
			{10, func(in ScoreInput) bool { return in.Markers.Changelog }, ev("CHANGELOG maintained"), "no CHANGELOG"},
		},
	},
	{
		category: "deployment",
		keywords: []string{"deploy", "déploiement", "deploiement", "production", "mise en ligne", "release", "docker", "hosting", "hébergement"},
		checks: []check{
			{30, func(in ScoreInput) bool { return in.Signals.Deployment != "" },
				func(in ScoreInput) string { return "deployment target: " + in.Signals.Deployment },
				"no deployment target detected"},
			{20, func(in ScoreInput) bool { return in.Markers.Dockerfile }, ev("Dockerfile present"), "no Dockerfile"},
			{15, func(in ScoreInput) bool { return hasScript(in, "build") }, ev("build script defined"), "no build script"},
			{15, func(in ScoreInput) bool { return hasScript(in, "start") }, ev("start script defined"), "no start script"},
			{10, func(in ScoreInput) bool { return in.Markers.EnvExample }, ev("environment template"), "no environment template"},
			{10, func(in ScoreInput) bool { return in.Markers.DockerCompose }, ev("docker-compose present"), "no docker-compose"},
		},
	},
}

// realTestScript rejects npm's placeholder test script.
func realTestScript(s string) bool {
	return s != "" && !strings.Contains(s, "no test specified")
}
