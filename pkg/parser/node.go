package parser

import "github.com/omar-28-2/minisql/pkg/token"

// Rule names a parse-tree production or, for leaves, the fact that the
// node wraps a raw token. ERROR marks a subtree synthesized during
// panic-mode recovery.
type Rule string

// Rule names used across the grammar. Not every production in the BNF
// gets a dedicated Rule value — Terminal wraps every token-level leaf,
// and a handful of clauses are folded into their parent (e.g. an
// optional clause with no dedicated child list just contributes
// children directly to its parent, per spec: "optional absent clauses
// produce no child").
const (
	RuleProgram        Rule = "Program"
	RuleError          Rule = "ERROR"
	RuleTerminal       Rule = "Terminal"
	RuleSelectStmt     Rule = "SelectStmt"
	RuleInsertStmt     Rule = "InsertStmt"
	RuleUpdateStmt     Rule = "UpdateStmt"
	RuleDeleteStmt     Rule = "DeleteStmt"
	RuleCreateTable    Rule = "CreateTableStmt"
	RuleCreateView     Rule = "CreateViewStmt"
	RuleCreateIndex    Rule = "CreateIndexStmt"
	RuleCreateDatabase Rule = "CreateDatabaseStmt"
	RuleAlterTable     Rule = "AlterTableStmt"
	RuleDropStmt       Rule = "DropStmt"

	RuleSelectList  Rule = "SelectList"
	RuleSelectItem  Rule = "SelectItem"
	RuleFromClause  Rule = "FromClause"
	RuleTableRef    Rule = "TableRef"
	RuleJoin        Rule = "Join"
	RuleWhereClause Rule = "WhereClause"
	RuleGroupBy     Rule = "GroupBy"
	RuleHaving      Rule = "Having"
	RuleOrderBy     Rule = "OrderBy"
	RuleSortItem    Rule = "SortItem"
	RuleLimit       Rule = "Limit"
	RuleColumnList  Rule = "ColumnList"
	RuleValueList   Rule = "ValueList"
	RuleValueRow    Rule = "ValueRow"
	RuleAssignment  Rule = "Assignment"

	RuleCondition     Rule = "Condition"
	RuleAndCondition  Rule = "AndCondition"
	RuleNotCondition  Rule = "NotCondition"
	RuleComparison    Rule = "Comparison"
	RuleBetween       Rule = "Between"
	RuleIn            Rule = "In"
	RuleLike          Rule = "Like"
	RuleIsNull        Rule = "IsNull"
	RuleParenCond     Rule = "ParenCondition"
	RuleExprCondition Rule = "ExprCondition"

	RuleExpression   Rule = "Expression"
	RuleAddExpr      Rule = "AddExpr"
	RuleMulExpr      Rule = "MulExpr"
	RuleUnaryExpr    Rule = "UnaryExpr"
	RuleParenExpr    Rule = "ParenExpr"
	RuleLiteral      Rule = "Literal"
	RuleColumnRef    Rule = "ColumnRef"
	RuleFunctionCall Rule = "FunctionCall"
	RuleStar         Rule = "Star"

	RuleColumnDefList Rule = "ColumnDefList"
	RuleColumnDef     Rule = "ColumnDef"
	RuleDataType      Rule = "DataType"
	RuleConstraint    Rule = "Constraint"
	RuleForeignKey    Rule = "ForeignKey"
)

// Node is a single tagged parse-tree node: a rule name, ordered
// children, an optional originating Token for leaves, and an inferred
// type slot written at most once by the semantic stage.
type Node struct {
	Rule     Rule
	Children []*Node
	Token    *token.Token
	// InferredType is empty until the semantic stage annotates the node;
	// it is written at most once and never read before that pass runs.
	InferredType string
	Pos          token.Position

	// Diagnostic is populated only on ERROR nodes: the fault that caused
	// recovery to synthesize this subtree.
	Diagnostic *token.Diagnostic
}

// NewTerminal wraps a single token as a Terminal leaf.
func NewTerminal(tok token.Token) *Node {
	t := tok
	return &Node{Rule: RuleTerminal, Token: &t, Pos: tok.Pos}
}

// NewNode builds an internal node from a rule name and its already-built
// children, inheriting position from the first child that has one.
func NewNode(rule Rule, children ...*Node) *Node {
	n := &Node{Rule: rule, Children: children}
	for _, c := range children {
		if c != nil {
			n.Pos = c.Pos
			break
		}
	}
	return n
}

// NewError builds an ERROR node carrying the diagnostic that caused
// recovery, plus whatever children were successfully parsed before the
// fault.
func NewError(diag token.Diagnostic, children ...*Node) *Node {
	n := &Node{Rule: RuleError, Diagnostic: &diag, Children: children, Pos: diag.Pos}
	return n
}

// Add appends a child, ignoring nil (used for optional clauses that may
// or may not have been present).
func (n *Node) Add(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
}

// NodeCount returns the number of nodes in the subtree rooted at n,
// including n itself.
func (n *Node) NodeCount() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children {
		count += c.NodeCount()
	}
	return count
}

// IsError reports whether n is an ERROR node.
func (n *Node) IsError() bool {
	return n != nil && n.Rule == RuleError
}
