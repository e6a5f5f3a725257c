package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/omar-28-2/minisql/pkg/parser"
)

// printTree renders a parse tree as indented, one-node-per-line text: a
// quick way to eyeball what the parser actually built for a query.
func printTree(w io.Writer, n *parser.Node, depth int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch {
	case n.Rule == parser.RuleTerminal:
		fmt.Fprintf(w, "%s%s\n", indent, n.Token.Lexeme)
	case n.IsError():
		fmt.Fprintf(w, "%sERROR: %s\n", indent, n.Diagnostic.Message)
	default:
		label := string(n.Rule)
		if n.InferredType != "" {
			label = fmt.Sprintf("%s :: %s", label, n.InferredType)
		}
		fmt.Fprintf(w, "%s%s\n", indent, label)
	}
	for _, c := range n.Children {
		printTree(w, c, depth+1)
	}
}
