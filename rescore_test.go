package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"bare integer", "73", 73},
		{"wrapped in prose", "The phase looks about 45% complete.", 45},
		{"leading whitespace", "  88\n", 88},
		{"over 100 clamped", "999", 100},
		{"zero", "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScore(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScore_NoDigits(t *testing.T) {
	_, err := parseScore("I cannot estimate that.")
	assert.Error(t, err)
}

func TestNewRescorer_BadHost(t *testing.T) {
	_, err := NewRescorer(OllamaConfig{Host: "://not-a-url"})
	assert.Error(t, err)
}

func TestNewRescorer_DefaultTimeout(t *testing.T) {
	r, err := NewRescorer(OllamaConfig{Host: "http://127.0.0.1:11434", Model: "llama3.2"})
	require.NoError(t, err)
	assert.Positive(t, r.timeout)
}
