package semantic

import (
	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/token"
)

// firstOfRule returns the first direct child tagged with rule, or nil.
func firstOfRule(node *parser.Node, rule parser.Rule) *parser.Node {
	if node == nil {
		return nil
	}
	for _, c := range node.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// allOfRule returns every direct child tagged with rule, in order.
func allOfRule(node *parser.Node, rule parser.Rule) []*parser.Node {
	if node == nil {
		return nil
	}
	var out []*parser.Node
	for _, c := range node.Children {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// nonTerminalChildren returns every direct child that isn't a bare Terminal
// wrapper — the delimiters, keywords, and punctuation that separate a
// production's meaningful children rather than carrying content of their
// own.
func nonTerminalChildren(node *parser.Node) []*parser.Node {
	if node == nil {
		return nil
	}
	var out []*parser.Node
	for _, c := range node.Children {
		if c.Rule != parser.RuleTerminal {
			out = append(out, c)
		}
	}
	return out
}

// identifierParts collects the IDENT-kind terminals directly under node, in
// order. It works uniformly for both ColumnRef (name, or table.name) and
// TableRef (name, or name AS alias / name alias) since both shapes place
// their identifiers as direct Terminal children and nothing else is
// IDENT-kind at that level.
func identifierParts(node *parser.Node) []string {
	if node == nil {
		return nil
	}
	var out []string
	for _, c := range node.Children {
		if c.Rule == parser.RuleTerminal && c.Token != nil && c.Token.Kind == token.IDENT {
			out = append(out, c.Token.Value)
		}
	}
	return out
}
