package grove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goFanFixture = `package fan

func popular() {}

func a() { popular() }

func b() { popular() }

func c() {
	popular()
	a()
}

func alone() {}
`

func TestMostCalled(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	rankings := a.MostCalled(2)
	require.Len(t, rankings, 2)
	assert.Equal(t, Ranking{Name: "fan.popular", Count: 3}, rankings[0])
	assert.Equal(t, Ranking{Name: "fan.a", Count: 1}, rankings[1])
}

func TestMostCalling(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	rankings := a.MostCalling(1)
	require.Len(t, rankings, 1)
	assert.Equal(t, Ranking{Name: "fan.c", Count: 2}, rankings[0])
}

func TestIsolated(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	assert.Equal(t, []string{"fan.alone"}, a.Isolated())
}

func TestStatistics_CountsAndFeatures(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"fan.go": goFanFixture,
		"Vault.sol": `contract Vault {
    function deposit() public payable {}

    function balance() public view returns (uint256) { return 0; }
}
`,
	})
	a := parseProject(t, root)

	stats := a.Statistics()
	require.Len(t, stats, 2)

	goStats := stats[0]
	assert.Equal(t, "go", goStats.Language)
	assert.Equal(t, 5, goStats.Functions)
	assert.Equal(t, 4, goStats.Edges)
	assert.Equal(t, []string{"fan.alone"}, goStats.Isolated)

	sol := stats[1]
	assert.Equal(t, "solidity", sol.Language)
	assert.Equal(t, 1, sol.Features["payable"])
	assert.Equal(t, 1, sol.Features["view"])
}

func TestCallerAndCalleeEdges(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{"fan.go": goFanFixture})
	a := parseProject(t, root)

	in := a.CallerEdges("fan.popular")
	require.Len(t, in, 3)
	for _, e := range in {
		assert.Equal(t, "fan.popular", e.Callee)
		assert.Equal(t, "go", e.Language)
	}
	assert.Empty(t, a.CalleeEdges("fan.popular"))
}
