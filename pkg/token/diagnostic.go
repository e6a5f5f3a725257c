package token

import "fmt"

// Stage identifies which pipeline stage raised a Diagnostic.
type Stage string

// Pipeline stages.
const (
	StageLex Stage = "Lexical"
	StageSyn Stage = "Syntax"
	StageSem Stage = "Semantic"
)

// Severity of a Diagnostic: ERROR for faults, WARNING for non-fatal
// findings such as division by a literal zero.
type Severity string

// Diagnostic severities.
const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Diagnostic is a single fault surfaced by any pipeline stage.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string
	Pos      Position
	// Expected and Found are populated for "expected X but found Y" style
	// syntactic diagnostics; both empty otherwise.
	Expected string
	Found    string
	// Suggestion holds a "did you mean X?" keyword proposal, populated only
	// when the parser rejects an identifier at a keyword-required position.
	Suggestion string
}

// String renders the diagnostic in the fixed observable format:
// "<Stage> Error at line L, column C: <message>".
func (d Diagnostic) String() string {
	label := "Error"
	if d.Severity == SeverityWarning {
		label = "Warning"
	}
	msg := d.Message
	if d.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean %s?)", msg, d.Suggestion)
	}
	return fmt.Sprintf("%s %s at line %d, column %d: %s", d.Stage, label, d.Pos.Line, d.Pos.Column, msg)
}

// Error satisfies the error interface so Diagnostics can be handled
// wherever Go idiom expects an error value (e.g. wrapped in a slice of
// errors returned alongside partial results).
func (d Diagnostic) Error() string {
	return d.String()
}
