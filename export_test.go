package grove

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/store"
)

func TestReport_Summary(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	r := a.Report()
	assert.Equal(t, 5, r.Functions)
	assert.Len(t, r.Edges, 4)
	require.NotEmpty(t, r.MostCalled)
	assert.Equal(t, "fan.popular", r.MostCalled[0].Name)
	assert.Equal(t, []string{"fan.alone"}, r.Isolated)
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	var buf bytes.Buffer
	require.NoError(t, a.WriteJSON(&buf))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 5, decoded.Functions)
	require.Len(t, decoded.Languages, 1)
	assert.Equal(t, "go", decoded.Languages[0].Language)
}

func TestWriteFunctionsJSON_ExternalFieldNames(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"Vault.sol": `contract Vault {
    function deposit() public payable {
        _credit();
    }

    function _credit() internal {}
}
`,
	})
	a := parseProject(t, root)

	var buf bytes.Buffer
	require.NoError(t, a.WriteFunctionsJSON(&buf))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	var deposit map[string]any
	for _, rec := range records {
		if rec["full_name"] == "Vault.deposit" {
			deposit = rec
		}
	}
	require.NotNil(t, deposit)
	assert.Equal(t, "deposit", deposit["name"])
	assert.Equal(t, "Vault.deposit", deposit["full_name"])
	assert.Equal(t, "solidity", deposit["language"])
	assert.Equal(t, "public", deposit["visibility"])
	assert.Equal(t, true, deposit["is_payable"])
	for _, key := range []string{"content", "calls", "line_number", "start_line", "end_line",
		"file_path", "relative_file_path", "absolute_file_path"} {
		assert.Contains(t, deposit, key)
	}
}

func TestExportSQLite_WritesSession(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	dbPath := filepath.Join(t.TempDir(), "session.db")
	require.NoError(t, a.ExportSQLite(dbPath))

	s, err := store.NewStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	var functions, edges, rankings int
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM functions`).Scan(&functions))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM call_edges`).Scan(&edges))
	require.NoError(t, s.DB().QueryRow(`SELECT COUNT(*) FROM rankings WHERE kind = 'most_called'`).Scan(&rankings))
	assert.Equal(t, 5, functions)
	assert.Equal(t, 4, edges)
	assert.Equal(t, 2, rankings)
}
