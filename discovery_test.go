package trellis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want FileKind
	}{
		{"src/components/Button.tsx", KindSource},
		{"src/app.js", KindSource},
		{"src/App.vue", KindSource},
		{"src/utils/date.test.ts", KindTest},
		{"src/auth/login.spec.js", KindTest},
		{"src/__tests__/helpers.ts", KindTest},
		{"e2e/checkout.e2e.ts", KindTest},
		{"package.json", KindConfig},
		{"tsconfig.json", KindConfig},
		{"vite.config.ts", KindConfig},
		{"Dockerfile", KindConfig},
		{".env.example", KindConfig},
		{"data/fixtures.json", KindConfig},
		{"src/styles/main.css", KindStyle},
		{"src/theme.scss", KindStyle},
		{"public/logo.svg", KindAsset},
		{"assets/hero.png", KindAsset},
		{"README.md", KindOther},
		{"notes.txt", KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

// Test markers beat the generic source rule even though the extension is a
// source extension.
func TestClassify_TestBeforeSource(t *testing.T) {
	assert.Equal(t, KindTest, Classify("src/user.test.ts"))
	assert.Equal(t, KindSource, Classify("src/user.ts"))
}

func writeFixture(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestDiscoverFiles_SkipsVendorAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"src/main.ts":                  "",
		"node_modules/lodash/index.js": "",
		"dist/bundle.js":               "",
		".git/config":                  "",
		"src/app.ts":                   "",
	})

	nodes, err := discoverFiles(root, nil)
	require.NoError(t, err)

	paths := make([]string, 0, len(nodes))
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	assert.ElementsMatch(t, []string{"src/main.ts", "src/app.ts"}, paths)
}

func TestDiscoverFiles_ExtraExcludes(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{
		"src/main.ts":      "",
		"generated/api.ts": "",
	})

	nodes, err := discoverFiles(root, []string{"generated"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "src/main.ts", nodes[0].Path)
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	_, err := discoverFiles(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}

func TestReadFiles_SkipsUnreadable(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, map[string]string{"a.ts": "export const a = 1\n"})

	nodes := []*FileNode{
		{Path: "a.ts", AbsolutePath: filepath.Join(root, "a.ts"), Kind: KindSource},
		{Path: "gone.ts", AbsolutePath: filepath.Join(root, "gone.ts"), Kind: KindSource},
	}
	contents := readFiles(nodes)
	assert.Equal(t, "export const a = 1\n", contents["a.ts"])
	_, ok := contents["gone.ts"]
	assert.False(t, ok)
}
