package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	minisql "github.com/omar-28-2/minisql"
	"github.com/omar-28-2/minisql/pkg/token"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL compilation REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			return runREPL(cmd, cfg.HistoryFile, cfg.MaxDiagnostics)
		},
	}
}

func runREPL(cmd *cobra.Command, historyFile string, maxPerStage int) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "minisql> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("initialize repl: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, dimStyle.Render("minisql interactive compiler. Type .help for commands, .quit to exit."))

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt("minisql> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ".") {
			if quit := handleDotCommand(out, trimmed); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			buf.WriteString(" ")
			rl.SetPrompt("     ...> ")
			continue
		}
		rl.SetPrompt("minisql> ")

		source := buf.String()
		buf.Reset()

		result := minisql.Compile(source)
		printREPLResult(out, result, maxPerStage)
	}
}

func handleDotCommand(out io.Writer, line string) (quit bool) {
	switch strings.ToLower(line) {
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprintln(out, dimStyle.Render(".help    show this message\n.quit    exit the REPL\n.exit    exit the REPL"))
	default:
		fmt.Fprintln(out, warnStyle.Render("Unknown command: "+line))
	}
	return false
}

func printREPLResult(out io.Writer, result minisql.Result, maxPerStage int) {
	if len(result.Diagnostics) == 0 {
		fmt.Fprintln(out, okStyle.Render("OK"))
		return
	}

	counts := map[token.Stage]int{}
	for _, d := range result.Diagnostics {
		counts[d.Stage]++
		if maxPerStage > 0 && counts[d.Stage] > maxPerStage {
			continue
		}
		style := errorStyle
		if d.Severity == token.SeverityWarning {
			style = warnStyle
		}
		fmt.Fprintln(out, style.Render(d.String()))
	}
}
