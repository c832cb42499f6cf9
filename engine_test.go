package grove

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject materializes a fixture tree under a temp dir. Keys are
// slash-separated relative paths.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func parseProject(t *testing.T, root string, opts ...Option) *Analysis {
	t.Helper()
	a, err := New(root, opts...).ParseProject(context.Background())
	require.NoError(t, err)
	return a
}

const goMainFixture = `package main

func main() {
	run()
	helper.Missing()
}

func run() {
	cleanup()
}

func cleanup() {}
`

func TestParseProject_GoInventoryAndEdges(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"main.go": goMainFixture})
	a := parseProject(t, root)

	require.Len(t, a.All, 3)
	fn, ok := a.Function("main.main")
	require.True(t, ok)
	assert.Equal(t, "go", fn.Language)
	assert.Equal(t, "main.go", fn.RelativeFilePath)
	assert.NotEmpty(t, fn.ContentHash)

	// Same-package call resolves; the dotted call stays as written.
	assert.Equal(t, []string{"main.run", "helper.Missing"}, a.Callees("main.main"))
	assert.Equal(t, []string{"main.run"}, a.Callers("main.cleanup"))
}

func TestParseProject_SerialAndParallelAgree(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.go":  goMainFixture,
		"util.go":  "package main\n\nfunc util() { cleanup() }\n",
		"b/b.go":   "package b\n\nfunc B() {}\n",
		"b/b2.go":  "package b\n\nfunc B2() { B() }\n",
		"c/ig.txt": "not source",
	})

	serial := parseProject(t, root, WithParallel(false))
	parallel := parseProject(t, root, WithParallel(true))

	require.Equal(t, len(serial.All), len(parallel.All))
	for i := range serial.All {
		assert.Equal(t, serial.All[i].FullName, parallel.All[i].FullName)
	}
	assert.Equal(t, serial.Edges, parallel.Edges)
}

func TestParseProject_IgnoreDirsAndPatterns(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.go":           "package main\n\nfunc main() {}\n",
		"gen/gen.go":        "package gen\n\nfunc Gen() {}\n",
		"skipme/x.go":       "package skipme\n\nfunc X() {}\n",
		"node_modules/m.go": "package m\n\nfunc M() {}\n",
		".hidden/h.go":      "package h\n\nfunc H() {}\n",
	})

	a := parseProject(t, root,
		WithIgnoreDirs("skipme"),
		WithIgnorePatterns("gen/*.go"),
	)

	require.Len(t, a.All, 1)
	assert.Equal(t, "main.main", a.All[0].FullName)
}

func TestParseProject_LanguageRestriction(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.go":   "package main\n\nfunc main() {}\n",
		"Token.sol": "contract Token {\n    function solo() public {}\n}\n",
	})

	a := parseProject(t, root, WithLanguages("go"))
	require.Len(t, a.All, 1)
	assert.Equal(t, "go", a.All[0].Language)
}

func TestParseProject_MixedLanguages(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.go": goMainFixture,
		"Vault.sol": `contract Vault {
    function deposit() public {
        _credit();
    }

    function _credit() internal {}
}
`,
	})
	a := parseProject(t, root)

	assert.Equal(t, []string{"Vault._credit"}, a.Callees("Vault.deposit"))

	stats := a.Statistics()
	require.Len(t, stats, 2)
	assert.Equal(t, "go", stats[0].Language)
	assert.Equal(t, "solidity", stats[1].Language)
	assert.Equal(t, 1, stats[1].Modules)
	assert.Equal(t, 2, stats[1].Functions)
}

func TestParseProject_FullNameCollisionDisambiguated(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"a/util.go": "package util\n\nfunc Do() {}\n",
		"b/util.go": "package util\n\nfunc Do() {}\n",
	})
	a := parseProject(t, root)

	require.Len(t, a.All, 2)
	_, ok := a.Function("util.Do")
	assert.True(t, ok)
	// Second record keeps its identity under a path-qualified key.
	var qualified int
	for _, fn := range a.All {
		if fn.FullName != "util.Do" {
			qualified++
			assert.Contains(t, fn.FullName, "@")
		}
	}
	assert.Equal(t, 1, qualified)
}

func TestParseProject_FilterExprLimitsTrees(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"main.go":   goMainFixture,
		"Token.sol": "contract Token {\n    function solo() public {}\n}\n",
	})
	a := parseProject(t, root, WithFilterExpr(`language == "go"`))

	require.NotEmpty(t, a.Filtered)
	for _, fn := range a.Filtered {
		assert.Equal(t, "go", fn.Language)
	}
	_, ok := a.CallTree("Token.solo")
	assert.False(t, ok)
	_, ok = a.CallTree("main.main")
	assert.True(t, ok)
}

func TestMergeOutcomes_SkipsFailedFiles(t *testing.T) {
	t.Parallel()
	e := New(t.TempDir())
	a, err := e.mergeOutcomes(context.Background(), []fileOutcome{
		{path: "bad.go", err: errors.New("parse failed")},
	})
	require.NoError(t, err)
	assert.Empty(t, a.All)
}

func TestDefaultFilter(t *testing.T) {
	t.Parallel()
	assert.False(t, DefaultFilter(&FunctionInfo{Name: "constructor"}))
	assert.False(t, DefaultFilter(&FunctionInfo{Name: "fallback"}))
	assert.False(t, DefaultFilter(&FunctionInfo{Name: "receive"}))
	assert.True(t, DefaultFilter(&FunctionInfo{Name: "transfer"}))
}
