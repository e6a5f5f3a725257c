package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omar-28-2/minisql/pkg/scanner"
	"github.com/omar-28-2/minisql/pkg/token"
)

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	result := scanner.Scan("SELECT name FROM Users")
	require.Empty(t, result.Diagnostics)
	require.Len(t, result.Tokens, 5)

	kinds := []token.Kind{token.KEYWORD, token.IDENT, token.KEYWORD, token.IDENT, token.EOF}
	for i, k := range kinds {
		assert.Equal(t, k, result.Tokens[i].Kind, "token %d", i)
	}
	assert.Equal(t, "SELECT", result.Tokens[0].Value)
	assert.Equal(t, "name", result.Tokens[1].Value)
	assert.Equal(t, "FROM", result.Tokens[2].Value)
}

func TestScanIsCaseInsensitiveForKeywords(t *testing.T) {
	result := scanner.Scan("select * from t")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, token.KEYWORD, result.Tokens[0].Kind)
	assert.Equal(t, "SELECT", result.Tokens[0].Value)
	assert.Equal(t, "t", result.Tokens[3].Lexeme)
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind token.Kind
	}{
		{"integer", "42", token.INTEGER},
		{"float", "3.14", token.FLOAT},
		{"trailing dot", "3.", token.FLOAT},
		{"exponent", "1e10", token.FLOAT},
		{"signed exponent", "1.5e-3", token.FLOAT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scanner.Scan(tt.src)
			require.Empty(t, result.Diagnostics)
			require.Len(t, result.Tokens, 2)
			assert.Equal(t, tt.kind, result.Tokens[0].Kind)
			assert.Equal(t, tt.src, result.Tokens[0].Lexeme)
		})
	}
}

func TestScanMultipleDecimalPointsIsReported(t *testing.T) {
	result := scanner.Scan("1.2.3")
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, token.StageLex, result.Diagnostics[0].Stage)
}

func TestScanStringLiterals(t *testing.T) {
	result := scanner.Scan("'hello world'")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, token.STRING, result.Tokens[0].Kind)
	assert.Equal(t, "hello world", result.Tokens[0].Value)
	assert.Equal(t, "'hello world'", result.Tokens[0].Lexeme)
}

func TestScanEscapedQuoteInString(t *testing.T) {
	result := scanner.Scan("'it''s here'")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, "it's here", result.Tokens[0].Value)
	// The lexeme reproduces the original source slice verbatim, doubled
	// quote and all, not a re-escaped version of the decoded value.
	assert.Equal(t, "'it''s here'", result.Tokens[0].Lexeme)
}

func TestScanStringLexemeReproducesSourceSlice(t *testing.T) {
	src := "SELECT 'O''Brien'"
	result := scanner.Scan(src)
	require.Empty(t, result.Diagnostics)
	var strTok token.Token
	for _, tok := range result.Tokens {
		if tok.Kind == token.STRING {
			strTok = tok
		}
	}
	require.Equal(t, token.STRING, strTok.Kind)
	assert.Equal(t, "'O''Brien'", strTok.Lexeme)
	assert.Len(t, strTok.Lexeme, 10)
	assert.Equal(t, "O'Brien", strTok.Value)
}

func TestScanUnclosedStringReportsDiagnosticAndRecovers(t *testing.T) {
	result := scanner.Scan("'unterminated\nSELECT 1")
	require.NotEmpty(t, result.Diagnostics)
	assert.Equal(t, token.StageLex, result.Diagnostics[0].Stage)
	// Scanning continues past the fault and still finds the next statement.
	last := result.Tokens[len(result.Tokens)-1]
	assert.Equal(t, token.EOF, last.Kind)
}

func TestScanOperatorsAndComparisons(t *testing.T) {
	result := scanner.Scan("a <= b AND c <> d OR e >= f")
	require.Empty(t, result.Diagnostics)
	var comparisons []string
	for _, tok := range result.Tokens {
		if tok.Kind == token.COMPARISON {
			comparisons = append(comparisons, tok.Lexeme)
		}
	}
	assert.Equal(t, []string{"<=", "<>", ">="}, comparisons)
}

func TestScanConcatOperator(t *testing.T) {
	result := scanner.Scan("a || b")
	require.Empty(t, result.Diagnostics)
	assert.Equal(t, token.OPERATOR, result.Tokens[1].Kind)
	assert.Equal(t, "||", result.Tokens[1].Lexeme)
}

func TestScanLineComment(t *testing.T) {
	result := scanner.Scan("SELECT 1 -- trailing comment\nFROM t")
	require.Empty(t, result.Diagnostics)
	values := make([]string, 0)
	for _, tok := range result.Tokens {
		if tok.Kind != token.EOF {
			values = append(values, tok.Value)
		}
	}
	assert.Equal(t, []string{"SELECT", "1", "FROM", "t"}, values)
}

func TestScanUnclosedHashCommentIsReported(t *testing.T) {
	result := scanner.Scan("SELECT 1 ## unterminated")
	require.NotEmpty(t, result.Diagnostics)
}

func TestScanPositionsAreMonotonic(t *testing.T) {
	result := scanner.Scan("SELECT a,\nb FROM t")
	for i := 1; i < len(result.Tokens); i++ {
		prev, cur := result.Tokens[i-1].Pos, result.Tokens[i].Pos
		if cur.Line == prev.Line {
			assert.GreaterOrEqual(t, cur.Column, prev.Column)
		} else {
			assert.Greater(t, cur.Line, prev.Line)
		}
	}
}

func TestScanAlwaysTerminatesWithExactlyOneEOF(t *testing.T) {
	result := scanner.Scan("SELECT * FROM t; SELECT 1;")
	eofCount := 0
	for i, tok := range result.Tokens {
		if tok.Kind == token.EOF {
			eofCount++
			assert.Equal(t, len(result.Tokens)-1, i, "EOF must be the final token")
		}
	}
	assert.Equal(t, 1, eofCount)
}

func TestScanInvalidCharacterRecovers(t *testing.T) {
	result := scanner.Scan("SELECT @ FROM t")
	require.NotEmpty(t, result.Diagnostics)
	// The scanner keeps producing tokens for the rest of the input.
	var values []string
	for _, tok := range result.Tokens {
		if tok.Kind != token.EOF {
			values = append(values, tok.Value)
		}
	}
	assert.Equal(t, []string{"SELECT", "FROM", "t"}, values)
}
