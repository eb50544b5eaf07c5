package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
}

func TestUpsertProject_SameRootSameID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	id1, err := s.UpsertProject("/ws/demo", "demo")
	require.NoError(t, err)
	require.Positive(t, id1)

	id2, err := s.UpsertProject("/ws/demo", "demo-renamed")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	p, err := s.ProjectByRoot("/ws/demo")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "demo-renamed", p.Name)
}

func TestProjectByRoot_Absent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	p, err := s.ProjectByRoot("/ws/ghost")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSavePhaseResult_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	projectID, err := s.UpsertProject("/ws/demo", "demo")
	require.NoError(t, err)

	err = s.SavePhaseResult(projectID, "Tests & Qualité", "tests", 90, "done",
		[]string{"test framework: Vitest"}, nil)
	require.NoError(t, err)

	phases, err := s.PhasesByProject(projectID)
	require.NoError(t, err)
	require.Len(t, phases, 1)

	p := phases[0]
	assert.Equal(t, "Tests & Qualité", p.Title)
	assert.Equal(t, "tests", p.Category)
	assert.Equal(t, 90, p.Score)
	assert.Equal(t, "done", p.Status)
	assert.Equal(t, []string{"test framework: Vitest"}, p.Evidence)
	assert.Empty(t, p.Missing)
	assert.False(t, p.ScoredAt.IsZero())
}

func TestSavePhaseResult_UpdatesExistingTitle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	projectID, err := s.UpsertProject("/ws/demo", "demo")
	require.NoError(t, err)

	require.NoError(t, s.SavePhaseResult(projectID, "Backend", "backend", 10, "todo",
		nil, []string{"no backend framework"}))
	require.NoError(t, s.SavePhaseResult(projectID, "Backend", "backend", 70, "review",
		[]string{"backend: Express"}, nil))

	phases, err := s.PhasesByProject(projectID)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, 70, phases[0].Score)
	assert.Equal(t, "review", phases[0].Status)
	assert.Equal(t, []string{"backend: Express"}, phases[0].Evidence)
}

func TestPhasesByProject_OrderedByTitle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	projectID, err := s.UpsertProject("/ws/demo", "demo")
	require.NoError(t, err)

	for _, title := range []string{"Déploiement", "Architecture", "Tests"} {
		require.NoError(t, s.SavePhaseResult(projectID, title, "generic", 0, "backlog", nil, nil))
	}

	phases, err := s.PhasesByProject(projectID)
	require.NoError(t, err)
	require.Len(t, phases, 3)
	assert.Equal(t, "Architecture", phases[0].Title)
	assert.Equal(t, "Déploiement", phases[1].Title)
	assert.Equal(t, "Tests", phases[2].Title)
}

func TestPhasesByProject_IsolatedPerProject(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	idA, err := s.UpsertProject("/ws/a", "a")
	require.NoError(t, err)
	idB, err := s.UpsertProject("/ws/b", "b")
	require.NoError(t, err)

	require.NoError(t, s.SavePhaseResult(idA, "Setup", "setup", 50, "doing", nil, nil))

	phases, err := s.PhasesByProject(idB)
	require.NoError(t, err)
	assert.Empty(t, phases)
}
