package trellis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAliasTable_Wildcard(t *testing.T) {
	data := []byte(`{
		"compilerOptions": {
			"baseUrl": ".",
			"paths": {
				"@/*": ["./src/*"]
			}
		}
	}`)
	table := parseAliasTable(".", data)
	require.Equal(t, 1, table.Len())

	cands, ok := table.candidatesFor("@/components/Button")
	require.True(t, ok)
	assert.Equal(t, []string{"src/components/Button"}, cands)
}

func TestParseAliasTable_ExactAndMultipleTargets(t *testing.T) {
	data := []byte(`{
		"compilerOptions": {
			"paths": {
				"utils": ["./src/utils/index.ts", "./lib/utils.ts"]
			}
		}
	}`)
	table := parseAliasTable(".", data)

	cands, ok := table.candidatesFor("utils")
	require.True(t, ok)
	assert.Equal(t, []string{"src/utils/index.ts", "lib/utils.ts"}, cands)

	_, ok = table.candidatesFor("utils/extra")
	assert.False(t, ok)
}

func TestParseAliasTable_BaseURLAndNestedConfig(t *testing.T) {
	data := []byte(`{
		"compilerOptions": {
			"baseUrl": "./app",
			"paths": {"~/*": ["*"]}
		}
	}`)
	table := parseAliasTable("packages/web", data)

	cands, ok := table.candidatesFor("~/pages/home")
	require.True(t, ok)
	assert.Equal(t, []string{"packages/web/app/pages/home"}, cands)
}

// JSONC input: comments and trailing commas are tolerated, matching what
// real tsconfig files contain.
func TestParseAliasTable_JSONC(t *testing.T) {
	data := []byte(`{
		// path mapping
		"compilerOptions": {
			/* base */
			"baseUrl": ".",
			"paths": {
				"@/*": ["./src/*"],
			},
		},
	}`)
	table := parseAliasTable(".", data)
	assert.Equal(t, 1, table.Len())
}

func TestParseAliasTable_MalformedYieldsEmpty(t *testing.T) {
	table := parseAliasTable(".", []byte(`{not json at all`))
	assert.Equal(t, 0, table.Len())

	_, ok := table.candidatesFor("@/x")
	assert.False(t, ok)
}

// Longer patterns are tried first so "@app/*" beats "@/*" when both match.
func TestParseAliasTable_SpecificityOrder(t *testing.T) {
	data := []byte(`{
		"compilerOptions": {
			"paths": {
				"@/*": ["./src/*"],
				"@/ui/*": ["./design/ui/*"]
			}
		}
	}`)
	table := parseAliasTable(".", data)

	cands, ok := table.candidatesFor("@/ui/Button")
	require.True(t, ok)
	// Both aliases match; the more specific expansion comes first.
	assert.Equal(t, "design/ui/Button", cands[0])
}

func TestNearestCompilerConfig_ShallowestWins(t *testing.T) {
	nodes := []*FileNode{
		{Path: "packages/app/tsconfig.json"},
		{Path: "tsconfig.json"},
		{Path: "jsconfig.json"},
	}
	assert.Equal(t, "tsconfig.json", nearestCompilerConfig(nodes))
}

func TestNearestCompilerConfig_None(t *testing.T) {
	nodes := []*FileNode{{Path: "src/main.ts"}}
	assert.Equal(t, "", nearestCompilerConfig(nodes))
}

func TestLoadAliasTable_UnreadableYieldsEmpty(t *testing.T) {
	nodes := []*FileNode{{Path: "tsconfig.json"}}
	table := loadAliasTable(t.TempDir(), nodes)
	assert.Equal(t, 0, table.Len())
}
