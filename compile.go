// Package minisql composes the scanner, parser, and semantic analyzer
// into a single compilation pipeline: text in, an annotated parse tree
// and every diagnostic raised along the way out.
package minisql

import (
	"sort"

	"github.com/google/uuid"

	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/scanner"
	"github.com/omar-28-2/minisql/pkg/semantic"
	"github.com/omar-28-2/minisql/pkg/token"
)

// Result is the outcome of compiling one source unit: the parse tree
// (always non-nil, even when riddled with ERROR nodes), the final symbol
// table state, and every diagnostic raised across all three stages,
// grouped by stage and ordered by source position within each stage.
type Result struct {
	RunID       string
	Tree        *parser.Node
	Catalog     *semantic.SymbolTable
	Diagnostics []token.Diagnostic
}

// HasErrors reports whether any diagnostic at SeverityError was raised.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == token.SeverityError {
			return true
		}
	}
	return false
}

// Compile runs source through the scan -> parse -> analyze pipeline. It
// never returns a Go error: every fault the source text can provoke is
// reported as a Diagnostic instead, so a caller always gets a complete
// Result back.
func Compile(source string) Result {
	scan := scanner.Scan(source)

	parsed := parser.Parse(scan.Tokens)

	semDiags, catalog := semantic.Analyze(parsed.Tree)

	all := make([]token.Diagnostic, 0, len(scan.Diagnostics)+len(parsed.Diagnostics)+len(semDiags))
	all = append(all, scan.Diagnostics...)
	all = append(all, parsed.Diagnostics...)
	all = append(all, semDiags...)
	sortDiagnostics(all)

	return Result{
		RunID:       uuid.New().String(),
		Tree:        parsed.Tree,
		Catalog:     catalog,
		Diagnostics: all,
	}
}

var stageOrder = map[token.Stage]int{
	token.StageLex: 0,
	token.StageSyn: 1,
	token.StageSem: 2,
}

// sortDiagnostics groups by stage (LEX, then SYN, then SEM) and orders by
// position within each group, matching the pipeline's reporting contract.
func sortDiagnostics(diags []token.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if stageOrder[a.Stage] != stageOrder[b.Stage] {
			return stageOrder[a.Stage] < stageOrder[b.Stage]
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		return a.Pos.Column < b.Pos.Column
	})
}
