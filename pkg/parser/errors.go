package parser

// Message templates for syntactic diagnostics, mirroring the fixed
// "expected/found" and "missing clause" shapes the grammar's error
// contract requires.
const (
	errExpectedFound  = "Expected %s but found %s"
	errUnknownStmt    = "Unknown statement"
	errMissingFrom    = "Missing FROM clause before %s"
	errUnexpectedEOF  = "Unexpected end of input, expected %s"
	errInvalidLiteral = "Expected a literal, column reference, or function call but found %s"
)
