package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstWord(t *testing.T) {
	assert.Equal(t, "Tests", firstWord("Tests & Qualité"))
	assert.Equal(t, "Documentation", firstWord("Documentation"))
	assert.Equal(t, "", firstWord(""))
}

func TestValidateFormat(t *testing.T) {
	require.NoError(t, validateFormat("json"))
	require.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
	assert.Error(t, validateFormat(""))
}

func TestFormatPhasesText(t *testing.T) {
	ai := 55
	var buf bytes.Buffer
	formatPhasesText(&buf, []CLIPhase{
		{
			Title:    "Tests & Qualité",
			Category: "tests",
			Score:    90,
			Status:   "done",
			Evidence: []string{"test framework: Vitest"},
			AIScore:  &ai,
		},
		{
			Title:    "Déploiement",
			Category: "deployment",
			Score:    0,
			Status:   "backlog",
			Missing:  []string{"no Dockerfile"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Tests & Qualité [tests]")
	assert.Contains(t, out, "score: 90/100  status: done  ai: 55/100")
	assert.Contains(t, out, "+ test framework: Vitest")
	assert.Contains(t, out, "Déploiement [deployment]")
	assert.Contains(t, out, "- no Dockerfile")
}

func TestFormatSummaryText(t *testing.T) {
	var buf bytes.Buffer
	formatSummaryText(&buf, CLISummary{
		Root:       "/ws/demo",
		TotalFiles: 4,
		Edges:      2,
		Files:      map[string]int{"source": 3, "style": 1, "asset": 0},
		Signals:    map[string]string{"frontend": "React", "bundler": "Vite"},
	})

	out := buf.String()
	assert.Contains(t, out, "Workspace: /ws/demo")
	assert.Contains(t, out, "Files: 4 (2 edges)")
	assert.Contains(t, out, "frontend")
	assert.Contains(t, out, "React")
	// Zero-count kinds are suppressed.
	assert.NotContains(t, out, "asset")
}
