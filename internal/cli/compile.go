package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/omar-28-2/minisql/pkg/token"

	minisql "github.com/omar-28-2/minisql"
)

func newCompileCmd() *cobra.Command {
	var showTree bool

	cmd := &cobra.Command{
		Use:   "compile <file.sql>",
		Short: "Compile a SQL file and report diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			result := minisql.Compile(string(source))
			slog.Debug("compiled", "file", args[0], "diagnostics", len(result.Diagnostics), "run_id", result.RunID)

			format := cfg.OutputFormat
			if f, _ := cmd.Flags().GetString("output"); f != "" {
				format = f
			}

			if cmd.Flags().Changed("tree") {
				cfg.ShowTree = showTree
			}

			switch format {
			case "json":
				return renderJSON(cmd, result)
			default:
				renderText(cmd, result, cfg.MaxDiagnostics, cfg.ShowTree)
			}

			if result.HasErrors() {
				return fmt.Errorf("compilation failed with errors")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTree, "tree", false, "print the parse tree alongside diagnostics")
	return cmd
}

func renderJSON(cmd *cobra.Command, result minisql.Result) error {
	type diag struct {
		Stage    string `json:"stage"`
		Severity string `json:"severity"`
		Line     int    `json:"line"`
		Column   int    `json:"column"`
		Message  string `json:"message"`
	}
	out := struct {
		RunID       string `json:"run_id"`
		Diagnostics []diag `json:"diagnostics"`
	}{RunID: result.RunID}

	for _, d := range result.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, diag{
			Stage: string(d.Stage), Severity: string(d.Severity),
			Line: d.Pos.Line, Column: d.Pos.Column, Message: d.Message,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderText(cmd *cobra.Command, result minisql.Result, maxPerStage int, showTree bool) {
	out := cmd.OutOrStdout()

	if len(result.Diagnostics) == 0 {
		fmt.Fprintln(out, "No diagnostics. Compilation succeeded.")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Stage", "Severity", "Line", "Column", "Message"})

		counts := map[token.Stage]int{}
		for _, d := range result.Diagnostics {
			counts[d.Stage]++
			if maxPerStage > 0 && counts[d.Stage] > maxPerStage {
				continue
			}
			t.AppendRow(table.Row{d.Stage, d.Severity, d.Pos.Line, d.Pos.Column, d.Message})
		}
		t.Render()
	}

	if showTree {
		fmt.Fprintln(out)
		printTree(out, result.Tree, 0)
	}
}
