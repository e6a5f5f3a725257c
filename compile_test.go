package minisql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	minisql "github.com/omar-28-2/minisql"
	"github.com/omar-28-2/minisql/pkg/token"
)

func TestCompileCleanQueryHasNoDiagnostics(t *testing.T) {
	result := minisql.Compile(`CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(50));
		SELECT id, name FROM users WHERE id > 0 ORDER BY name;`)
	require.Empty(t, result.Diagnostics)
	assert.False(t, result.HasErrors())
	assert.NotEmpty(t, result.RunID)
}

func TestCompileDiagnosticsGroupedByStage(t *testing.T) {
	// A lexical fault ('@', which also leaves WHERE without a condition, a
	// syntax error), a second syntax error, and a semantic fault (unknown table).
	result := minisql.Compile("SELECT * FROM t WHERE @;\nSELECT FROM;\nSELECT * FROM ghosts;")
	require.NotEmpty(t, result.Diagnostics)

	seenStage := map[token.Stage]bool{}
	lastRank := -1
	rank := map[token.Stage]int{token.StageLex: 0, token.StageSyn: 1, token.StageSem: 2}
	for _, d := range result.Diagnostics {
		r := rank[d.Stage]
		if seenStage[d.Stage] {
			continue
		}
		assert.GreaterOrEqual(t, r, lastRank, "diagnostics must be grouped by stage")
		if r != lastRank {
			seenStage[d.Stage] = true
			lastRank = r
		}
	}
}

func TestCompileNeverReturnsNilTree(t *testing.T) {
	result := minisql.Compile("")
	require.NotNil(t, result.Tree)
	assert.Empty(t, result.Tree.Children)
}

func TestCompileRecoversAndReportsMultipleStatements(t *testing.T) {
	result := minisql.Compile("SELECT 1; SELECT 2; SELECT 3;")
	// Each FROM-less SELECT reports its own missing FROM clause.
	require.Len(t, result.Diagnostics, 3)
	assert.Len(t, result.Tree.Children, 3)
}

func TestCompilePersistsCatalogAcrossStatements(t *testing.T) {
	result := minisql.Compile(`CREATE TABLE t (id INTEGER);
		CREATE TABLE t (id INTEGER);`)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "already defined")
}
