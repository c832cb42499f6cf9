package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/graph"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestInsertFunctions_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	fns := []*graph.FunctionInfo{
		{
			Name:       "transfer",
			FullName:   "Token.transfer",
			Language:   "solidity",
			Visibility: "public",
			Calls:      []string{"Token._credit"},
			LineNumber: 10,
			IsPayable:  true,
		},
	}
	features := func(fn *graph.FunctionInfo) []string {
		if fn.IsPayable {
			return []string{"payable"}
		}
		return nil
	}
	require.NoError(t, s.InsertFunctions(fns, features))

	var name, calls, feats string
	err := s.DB().QueryRow(
		`SELECT name, calls, features FROM functions WHERE full_name = ?`,
		"Token.transfer",
	).Scan(&name, &calls, &feats)
	require.NoError(t, err)
	assert.Equal(t, "transfer", name)
	assert.Equal(t, []string{"Token._credit"}, UnmarshalList(calls))
	assert.Equal(t, []string{"payable"}, UnmarshalList(feats))
}

func TestInsertFunctions_DuplicateFullNameFails(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	fn := &graph.FunctionInfo{Name: "f", FullName: "m.f", Language: "go"}
	require.NoError(t, s.InsertFunctions([]*graph.FunctionInfo{fn}, nil))
	assert.Error(t, s.InsertFunctions([]*graph.FunctionInfo{fn}, nil))
}

func TestInsertEdgesAndRankings(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	edges := []graph.CallGraphEdge{
		{Caller: "a.f", Callee: "a.g", CallType: graph.CallDirect, Language: "go"},
		{Caller: "a.g", Callee: "a.h", CallType: graph.CallDirect, Language: "go"},
	}
	require.NoError(t, s.InsertEdges(edges))

	var count int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM call_edges`).Scan(&count))
	assert.Equal(t, 2, count)

	require.NoError(t, s.InsertRankings("most_called", []RankingEntry{
		{Name: "a.g", Count: 1},
		{Name: "a.h", Count: 1},
	}))
	var pos int
	var name string
	require.NoError(t, s.DB().QueryRow(
		`SELECT position, name FROM rankings WHERE kind = 'most_called' ORDER BY position LIMIT 1`,
	).Scan(&pos, &name))
	assert.Equal(t, 1, pos)
	assert.Equal(t, "a.g", name)
}

func TestInsertStats(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	stats := []graph.LanguageStats{{
		Language:  "rust",
		Modules:   2,
		Functions: 5,
		Edges:     3,
		Features:  map[string]int{"async": 2},
	}}
	require.NoError(t, s.InsertStats(stats))
	// REPLACE semantics keep the table keyed by language.
	require.NoError(t, s.InsertStats(stats))

	var functions int
	require.NoError(t, s.DB().QueryRow(
		`SELECT functions FROM language_stats WHERE language = 'rust'`,
	).Scan(&functions))
	assert.Equal(t, 5, functions)
}

func TestUnmarshalList(t *testing.T) {
	t.Parallel()
	assert.Nil(t, UnmarshalList("[]"))
	assert.Nil(t, UnmarshalList(""))
	assert.Equal(t, []string{"a", "b"}, UnmarshalList(`["a","b"]`))
}
