package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/scanner"
	"github.com/omar-28-2/minisql/pkg/semantic"
	"github.com/omar-28-2/minisql/pkg/token"
)

func analyze(t *testing.T, sql string) ([]token.Diagnostic, *parser.Node, *semantic.SymbolTable) {
	t.Helper()
	scan := scanner.Scan(sql)
	require.Empty(t, scan.Diagnostics)
	parsed := parser.Parse(scan.Tokens)
	require.Empty(t, parsed.Diagnostics)
	diags, catalog := semantic.Analyze(parsed.Tree)
	return diags, parsed.Tree, catalog
}

func TestAnalyzeCreateTableRegistersColumns(t *testing.T) {
	diags, _, catalog := analyze(t, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name VARCHAR(50) NOT NULL,
		balance FLOAT
	);`)
	require.Empty(t, diags)

	tbl, ok := catalog.Lookup("users")
	require.True(t, ok)
	col, ok := tbl.Column("id")
	require.True(t, ok)
	assert.Equal(t, semantic.TypeInteger, col.Type)
	assert.True(t, col.PrimaryKey)

	col, ok = tbl.Column("NAME")
	require.True(t, ok, "column lookup is case-insensitive")
	assert.Equal(t, semantic.TypeString, col.Type)
	assert.True(t, col.NotNull)
	assert.Equal(t, 1, col.Ordinal)

	col, ok = tbl.Column("balance")
	require.True(t, ok)
	assert.Equal(t, 2, col.Ordinal)

	assert.True(t, tbl.DeclaredAt.Line > 0)
}

func TestAnalyzeAlterTableAddColumnAssignsNextOrdinal(t *testing.T) {
	_, _, catalog := analyze(t, `CREATE TABLE t (a INTEGER);
		ALTER TABLE t ADD COLUMN b INTEGER;`)
	tbl, ok := catalog.Lookup("t")
	require.True(t, ok)
	col, ok := tbl.Column("b")
	require.True(t, ok)
	assert.Equal(t, 1, col.Ordinal)
}

func TestAnalyzeSelectUnknownTableIsReported(t *testing.T) {
	diags, _, _ := analyze(t, "SELECT * FROM ghosts;")
	require.NotEmpty(t, diags)
	assert.Equal(t, token.StageSem, diags[0].Stage)
}

func TestAnalyzeSelectUnknownColumnIsReported(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (id INTEGER);
		SELECT missing_col FROM t;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "missing_col")
}

func TestAnalyzeCatalogPersistsAcrossStatements(t *testing.T) {
	diags, _, catalog := analyze(t, `CREATE TABLE t (id INTEGER);
		SELECT id FROM t;`)
	require.Empty(t, diags)
	_, ok := catalog.Lookup("t")
	assert.True(t, ok)
}

func TestAnalyzeAmbiguousColumnAcrossJoin(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE a (id INTEGER, name VARCHAR(10));
		CREATE TABLE b (id INTEGER, name VARCHAR(10));
		SELECT name FROM a JOIN b ON a.id = b.id;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Ambiguous")
}

func TestAnalyzeGroupByRequiresBareColumns(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE orders (id INTEGER, customer VARCHAR(20), amount FLOAT);
		SELECT customer, COUNT(*) FROM orders GROUP BY customer;`)
	assert.Empty(t, diags)

	diags, _, _ = analyze(t, `CREATE TABLE orders (id INTEGER, customer VARCHAR(20), amount FLOAT);
		SELECT customer, id, COUNT(*) FROM orders GROUP BY customer;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "GROUP BY")
}

func TestAnalyzeTypeMismatchInComparison(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (id INTEGER, name VARCHAR(20));
		SELECT * FROM t WHERE name = 5;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Type mismatch")
}

func TestAnalyzeDivisionByLiteralZeroIsWarningOnly(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (a INTEGER);
		SELECT a / 0 FROM t;`)
	require.Len(t, diags, 1)
	assert.Equal(t, token.SeverityWarning, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "Division by literal zero")

	diags, _, _ = analyze(t, `CREATE TABLE t (a INTEGER, b INTEGER);
		SELECT a / b FROM t;`)
	assert.Empty(t, diags)
}

func TestAnalyzeBooleanContextRulesDifferByType(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (flag VARCHAR(5));
		SELECT * FROM t WHERE flag;`)
	require.Len(t, diags, 1)
	assert.Equal(t, token.SeverityError, diags[0].Severity)

	diags, _, _ = analyze(t, `CREATE TABLE t (flag INTEGER);
		SELECT * FROM t WHERE flag;`)
	require.Len(t, diags, 1)
	assert.Equal(t, token.SeverityWarning, diags[0].Severity)
}

func TestAnalyzeInsertColumnCountMismatch(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (a INTEGER, b INTEGER);
		INSERT INTO t (a, b) VALUES (1);`)
	require.NotEmpty(t, diags)
}

func TestAnalyzeInsertRejectsNullIntoNotNullColumn(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (id INTEGER NOT NULL, note VARCHAR(20));
		INSERT INTO t (id, note) VALUES (NULL, 'x');`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "NOT NULL")

	diags, _, _ = analyze(t, `CREATE TABLE t (id INTEGER NOT NULL, note VARCHAR(20));
		INSERT INTO t (id, note) VALUES (1, NULL);`)
	assert.Empty(t, diags)
}

func TestAnalyzeUpdateRejectsNullIntoNotNullColumn(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE t (id INTEGER NOT NULL);
		UPDATE t SET id = NULL WHERE id = 1;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "NOT NULL")
}

func TestAnalyzeAggregateInWhereIsRejected(t *testing.T) {
	diags, _, _ := analyze(t, `CREATE TABLE orders (id INTEGER, amount FLOAT);
		SELECT * FROM orders WHERE COUNT(*) > 1;`)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "WHERE")

	diags, _, _ = analyze(t, `CREATE TABLE orders (id INTEGER, amount FLOAT);
		SELECT * FROM orders WHERE amount > 1;`)
	assert.Empty(t, diags)
}

func TestAnalyzeAlterTableDropColumn(t *testing.T) {
	diags, _, catalog := analyze(t, `CREATE TABLE t (a INTEGER, b INTEGER);
		ALTER TABLE t DROP COLUMN b;`)
	require.Empty(t, diags)
	tbl, ok := catalog.Lookup("t")
	require.True(t, ok)
	_, ok = tbl.Column("b")
	assert.False(t, ok)
}

func TestAnalyzeWhereConditionIsAnnotatedBoolean(t *testing.T) {
	_, tree, _ := analyze(t, `CREATE TABLE t (id INTEGER);
		SELECT id FROM t WHERE id = 1;`)
	stmt := tree.Children[1]
	var where *parser.Node
	for _, c := range stmt.Children {
		if c.Rule == parser.RuleWhereClause {
			where = c
		}
	}
	require.NotNil(t, where)
	assert.Equal(t, semantic.TypeBoolean, where.Children[1].InferredType)
}
