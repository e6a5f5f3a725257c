// Package token defines the lexical vocabulary of the compiler frontend:
// token kinds, the reserved-word table, and source positions.
package token

import "strings"

// Kind is the closed set of lexical categories a Token can belong to.
//
//nolint:revive // Kind stutters with token.Kind but is the clearest name across the package.
type Kind int32

// Token kinds.
const (
	EOF Kind = iota
	KEYWORD
	IDENT
	STRING
	INTEGER
	FLOAT
	OPERATOR
	COMPARISON
	DELIMITER
	DOT
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case KEYWORD:
		return "KEYWORD"
	case IDENT:
		return "IDENTIFIER"
	case STRING:
		return "STRING"
	case INTEGER:
		return "INTEGER"
	case FLOAT:
		return "FLOAT"
	case OPERATOR:
		return "OPERATOR"
	case COMPARISON:
		return "COMPARISON"
	case DELIMITER:
		return "DELIMITER"
	case DOT:
		return "DOT"
	default:
		return "UNKNOWN"
	}
}

// keywords is the reserved-word set. Membership is what makes an
// identifier-shaped lexeme classify as KEYWORD instead of IDENT; the
// value stored is the canonical upper-cased form used as Token.Value.
var keywords = buildKeywordSet(
	// Core DML / DDL / clauses
	"ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY",
	"CASE", "CHECK", "COLUMN", "CREATE", "DATABASE", "DEFAULT",
	"DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "EXISTS", "FOREIGN",
	"FROM", "FULL", "GROUP", "HAVING", "IN", "INDEX", "INNER",
	"INSERT", "INTERSECT", "INTO", "IS", "JOIN", "KEY", "LEFT", "LIKE",
	"LIMIT", "NOT", "NULL", "ON", "OR", "ORDER", "OUTER", "PRIMARY",
	"REFERENCES", "RIGHT", "SELECT", "SET", "TABLE",
	"UNION", "UNIQUE", "UPDATE", "VALUES", "VIEW", "WHERE",

	// Additional control / structural keywords
	"CASCADE", "CROSS", "USING", "WHEN",

	// Data-type keywords
	"INT", "INTEGER", "FLOAT", "DOUBLE", "VARCHAR", "TEXT", "CHAR",
	"BOOLEAN", "DATE", "DECIMAL", "NUMBER",

	// Boolean/null constants
	"TRUE", "FALSE",

	// Aggregate and built-in functions
	"COUNT", "SUM", "AVG", "MIN", "MAX", "CAST", "COALESCE",
	"SUBSTR", "LENGTH", "UPPER", "LOWER", "ROUND", "FLOOR", "CEIL",
)

func buildKeywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// LookupKeyword reports whether the upper-cased form of ident names a
// reserved word, returning that canonical form.
func LookupKeyword(ident string) (canonical string, ok bool) {
	upper := strings.ToUpper(ident)
	_, ok = keywords[upper]
	return upper, ok
}

// Keywords returns the reserved-word set, for use by keyword-similarity
// suggestion machinery. Callers must not mutate the returned slice's
// backing keywords.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// Token is an immutable lexical atom.
type Token struct {
	Kind Kind
	// Lexeme is the original source text, case-preserved.
	Lexeme string
	// Value is the normalized form: upper-cased for KEYWORD, escape-resolved
	// content for STRING, the parsed magnitude text for INTEGER/FLOAT, and
	// equal to Lexeme for everything else.
	Value string
	Pos   Position
}
