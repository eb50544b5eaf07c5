package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRubric_Categories(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Project Setup", "setup"},
		{"Configuration initiale", "setup"},
		{"Architecture technique", "architecture"},
		{"Design & UI", "design"},
		{"Maquettes et composants", "design"},
		{"Backend API", "backend"},
		{"Développement serveur", "backend"},
		{"Database schema", "database"},
		{"Base de données", "database"},
		{"Tests & Qualité", "tests"},
		{"CI/CD pipeline", "cicd"},
		{"Documentation", "documentation"},
		{"Déploiement production", "deployment"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			entry := matchRubric(tt.title)
			require.NotNil(t, entry, tt.title)
			assert.Equal(t, tt.want, entry.category)
		})
	}
}

func TestMatchRubric_NoMatch(t *testing.T) {
	assert.Nil(t, matchRubric("Réunion de lancement"))
}

// An empty workspace with no test files and no test framework scores under
// 20 on a tests phase and lands in backlog or todo.
func TestScorePhase_TestsPhaseEmptyWorkspace(t *testing.T) {
	res := ScorePhase("Tests & Qualité", ScoreInput{
		Stats: FileStats{Source: 12},
	})

	assert.Equal(t, "tests", res.Category)
	assert.Less(t, res.Score, 20)
	assert.Contains(t, []PhaseStatus{StatusBacklog, StatusTodo}, res.Status)
	assert.Contains(t, res.Missing, "no test framework dependency")
	assert.Contains(t, res.Missing, "no test files")
}

func TestScorePhase_TestsPhaseWellTested(t *testing.T) {
	res := ScorePhase("Tests", ScoreInput{
		Signals: DetectedSignals{TestFramework: "Vitest"},
		Stats:   FileStats{Source: 10, Test: 4},
		Scripts: map[string]string{"test": "vitest run"},
		Markers: Markers{CIWorkflows: true},
	})

	assert.Equal(t, 100, res.Score)
	assert.Equal(t, StatusDone, res.Status)
	assert.Contains(t, res.Evidence, "test framework: Vitest")
	assert.Empty(t, res.Missing)
}

func TestScorePhase_SetupPhase(t *testing.T) {
	res := ScorePhase("Setup du projet", ScoreInput{
		HasManifest: true,
		Markers: Markers{
			Lockfile:       true,
			CompilerConfig: true,
			GitRepo:        true,
		},
		Scripts: map[string]string{"dev": "vite"},
	})

	// 20 + 10 + 15 + 10 + 20 = 75
	assert.Equal(t, 75, res.Score)
	assert.Equal(t, StatusReview, res.Status)
	assert.Len(t, res.Missing, 2)
}

func TestScorePhase_Bounds(t *testing.T) {
	full := ScoreInput{
		Signals: DetectedSignals{
			Frontend: "React", Backend: "Express", CSSFramework: "Tailwind CSS",
			State: "Redux", ORM: "Prisma", Runtime: "Node.js", APIStyle: "REST",
			TestFramework: "Jest", Bundler: "Vite", Auth: "JWT", Deployment: "Docker",
		},
		Stats: FileStats{Source: 100, Test: 40, Style: 10, Config: 5},
		Markers: Markers{
			TailwindConfig: true, Dockerfile: true, DockerCompose: true,
			CIWorkflows: true, Readme: true, DocsDir: true, EnvExample: true,
			GitRepo: true, GitIgnore: true, Lockfile: true, PrismaSchema: true,
			CompilerConfig: true, LinterConfig: true, SrcDir: true, Storybook: true,
			License: true, Contributing: true, Changelog: true,
		},
		Scripts: map[string]string{
			"dev": "vite", "start": "node .", "build": "vite build",
			"test": "jest", "lint": "eslint .", "migrate": "prisma migrate deploy",
		},
		Deps:           deps("pg"),
		HasManifest:    true,
		EdgeCount:      250,
		ComponentFiles: 20, RouteFiles: 10, ServiceFiles: 8, ModelFiles: 6,
	}
	empty := ScoreInput{}

	titles := []string{
		"Setup", "Architecture", "Design", "Backend", "Database",
		"Tests", "CI/CD", "Documentation", "Déploiement", "Divers",
	}
	for _, title := range titles {
		for _, in := range []ScoreInput{full, empty} {
			res := ScorePhase(title, in)
			assert.GreaterOrEqual(t, res.Score, 0, title)
			assert.LessOrEqual(t, res.Score, 100, title)
		}
	}
}

// Every rubric at full marks reaches exactly 100: checks are authored to
// sum to the scale, the clamp stays defensive.
func TestScorePhase_RubricsSumTo100(t *testing.T) {
	for _, entry := range rubricRegistry {
		total := 0
		for _, c := range entry.checks {
			total += c.points
		}
		assert.Equal(t, 100, total, entry.category)
	}
}

func TestStatusFor_MonotonicBuckets(t *testing.T) {
	prev := statusFor(0)
	for s := 1; s <= 100; s++ {
		cur := statusFor(s)
		assert.GreaterOrEqual(t, cur.rank(), prev.rank(), "score %d", s)
		prev = cur
	}

	assert.Equal(t, StatusBacklog, statusFor(0))
	assert.Equal(t, StatusTodo, statusFor(1))
	assert.Equal(t, StatusDoing, statusFor(20))
	assert.Equal(t, StatusReview, statusFor(60))
	assert.Equal(t, StatusDone, statusFor(90))
	assert.Equal(t, StatusDone, statusFor(100))
}

func TestScoreGeneric_CappedByCodeFileCount(t *testing.T) {
	res := ScorePhase("Phase mystère", ScoreInput{
		Stats:     FileStats{Source: 3},
		EdgeCount: 5,
		Markers:   Markers{Readme: true},
		Scripts:   map[string]string{"build": "tsc"},
	})

	assert.Equal(t, "generic", res.Category)
	// Raw checks pass 100 points but the cap is 2 * 3 code files.
	assert.Equal(t, 6, res.Score)
	assert.Equal(t, StatusTodo, res.Status)
}

func TestScoreGeneric_EmptyWorkspaceBacklog(t *testing.T) {
	res := ScorePhase("Phase mystère", ScoreInput{})
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, StatusBacklog, res.Status)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-5))
	assert.Equal(t, 100, clampScore(140))
	assert.Equal(t, 55, clampScore(55))
}
