package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/scanner"
)

func parseSQL(t *testing.T, sql string) parser.Result {
	t.Helper()
	scan := scanner.Scan(sql)
	require.Empty(t, scan.Diagnostics, "scanner should not fault on %q", sql)
	return parser.Parse(scan.Tokens)
}

func TestParseSimpleSelect(t *testing.T) {
	result := parseSQL(t, "SELECT id, name FROM users;")
	require.Empty(t, result.Diagnostics)
	require.Len(t, result.Tree.Children, 1)

	stmt := result.Tree.Children[0]
	assert.Equal(t, parser.RuleSelectStmt, stmt.Rule)
	assert.False(t, stmt.IsError())
}

func TestParseSelectWithWhereAndOrderBy(t *testing.T) {
	result := parseSQL(t, "SELECT id FROM users WHERE age >= 18 ORDER BY id DESC LIMIT 10;")
	require.Empty(t, result.Diagnostics)
	stmt := result.Tree.Children[0]
	var found struct{ where, order, limit bool }
	for _, c := range stmt.Children {
		switch c.Rule {
		case parser.RuleWhereClause:
			found.where = true
		case parser.RuleOrderBy:
			found.order = true
		case parser.RuleLimit:
			found.limit = true
		}
	}
	assert.True(t, found.where)
	assert.True(t, found.order)
	assert.True(t, found.limit)
}

func TestParseMultipleStatements(t *testing.T) {
	result := parseSQL(t, "SELECT 1; SELECT 2; SELECT 3;")
	// One missing-FROM diagnostic per statement; each still parses as a SELECT.
	require.Len(t, result.Diagnostics, 3)
	require.Len(t, result.Tree.Children, 3)
	for _, stmt := range result.Tree.Children {
		assert.Equal(t, parser.RuleSelectStmt, stmt.Rule)
	}
}

func TestParseMissingFromIsSoftRecovery(t *testing.T) {
	result := parseSQL(t, "SELECT id WHERE id = 1;")
	require.NotEmpty(t, result.Diagnostics)
	stmt := result.Tree.Children[0]
	require.Equal(t, parser.RuleSelectStmt, stmt.Rule, "recovery keeps the SELECT, not a whole-statement ERROR")

	var hasErrorFrom, hasWhere bool
	for _, c := range stmt.Children {
		if c.IsError() {
			hasErrorFrom = true
		}
		if c.Rule == parser.RuleWhereClause {
			hasWhere = true
		}
	}
	assert.True(t, hasErrorFrom, "missing FROM should surface as an ERROR node in the FROM slot")
	assert.True(t, hasWhere, "clauses after the missing FROM still parse")
}

func TestParseHardSyntaxErrorProducesWholeStatementError(t *testing.T) {
	result := parseSQL(t, "SELECT FROM FROM FROM; SELECT 1;")
	require.NotEmpty(t, result.Diagnostics)
	require.Len(t, result.Tree.Children, 2)
	assert.True(t, result.Tree.Children[0].IsError())
	assert.False(t, result.Tree.Children[1].IsError(), "parser resyncs and still parses the next statement")
}

func TestParseBooleanGroupingVsArithmeticGrouping(t *testing.T) {
	result := parseSQL(t, "SELECT * FROM t WHERE (a = 1 OR b = 2) AND (c + d) * 2 > 0;")
	require.Empty(t, result.Diagnostics)
	stmt := result.Tree.Children[0]
	var where *parser.Node
	for _, c := range stmt.Children {
		if c.Rule == parser.RuleWhereClause {
			where = c
		}
	}
	require.NotNil(t, where)
	assert.Equal(t, parser.RuleAndCondition, where.Children[1].Rule)
}

func TestParseNotBetweenInLike(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		rule parser.Rule
	}{
		{"not between", "SELECT * FROM t WHERE x NOT BETWEEN 1 AND 10;", parser.RuleBetween},
		{"not in", "SELECT * FROM t WHERE x NOT IN (1, 2, 3);", parser.RuleIn},
		{"not like", "SELECT * FROM t WHERE x NOT LIKE 'a%';", parser.RuleLike},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseSQL(t, tt.sql)
			require.Empty(t, result.Diagnostics)
			stmt := result.Tree.Children[0]
			var where *parser.Node
			for _, c := range stmt.Children {
				if c.Rule == parser.RuleWhereClause {
					where = c
				}
			}
			require.NotNil(t, where)
			assert.Equal(t, tt.rule, where.Children[1].Rule)
		})
	}
}

func TestParseCreateTable(t *testing.T) {
	result := parseSQL(t, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		email VARCHAR(100) UNIQUE,
		CHECK (id > 0)
	);`)
	require.Empty(t, result.Diagnostics)
	stmt := result.Tree.Children[0]
	assert.Equal(t, parser.RuleCreateTable, stmt.Rule)
}

func TestParseInsertMultiRow(t *testing.T) {
	result := parseSQL(t, "INSERT INTO t (a, b) VALUES (1, 2), (3, 4);")
	require.Empty(t, result.Diagnostics)
	stmt := result.Tree.Children[0]
	assert.Equal(t, parser.RuleInsertStmt, stmt.Rule)
	var rows int
	for _, c := range stmt.Children {
		if c.Rule != parser.RuleValueList {
			continue
		}
		for _, r := range c.Children {
			if r.Rule == parser.RuleValueRow {
				rows++
			}
		}
	}
	assert.Equal(t, 2, rows)
}

func TestParseUpdateAndDelete(t *testing.T) {
	result := parseSQL(t, "UPDATE t SET a = 1, b = 2 WHERE id = 5;")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, parser.RuleUpdateStmt, result.Tree.Children[0].Rule)

	result = parseSQL(t, "DELETE FROM t WHERE id = 5;")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, parser.RuleDeleteStmt, result.Tree.Children[0].Rule)
}

func TestParseIsIdempotentOnValidInput(t *testing.T) {
	sql := "SELECT id, name FROM users WHERE age > 18;"
	scan := scanner.Scan(sql)
	first := parser.Parse(scan.Tokens)
	second := parser.Parse(scan.Tokens)
	assert.Equal(t, first.Tree.NodeCount(), second.Tree.NodeCount())
	assert.Equal(t, len(first.Diagnostics), len(second.Diagnostics))
}

func TestParseKeywordCaseInsensitivity(t *testing.T) {
	result := parseSQL(t, "select id from users where id = 1;")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, parser.RuleSelectStmt, result.Tree.Children[0].Rule)
}

func TestParseUnknownStatementSuggestsClosestKeyword(t *testing.T) {
	result := parseSQL(t, "SELET id FROM users;")
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, "SELECT", result.Diagnostics[0].Suggestion)
}
