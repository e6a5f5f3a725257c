package semantic

import (
	"strconv"

	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/token"
)

// compatGroup buckets a type name into a comparability class. NULL and
// UNKNOWN are wildcards: a NULL literal compares against anything (it's
// how "col = NULL" gets written, however meaningless), and UNKNOWN means
// an earlier error already fired for that subtree, so piling on a second
// mismatch here would just be noise.
func compatGroup(t string) int {
	switch t {
	case TypeInteger, TypeFloat:
		return 1
	case TypeString:
		return 2
	case TypeBoolean:
		return 3
	default:
		return 0
	}
}

func compatible(a, b string) bool {
	if a == TypeNull || b == TypeNull || a == TypeUnknown || b == TypeUnknown {
		return true
	}
	return compatGroup(a) == compatGroup(b)
}

func numeric(t string) bool { return t == TypeInteger || t == TypeFloat }

// inferExpr computes and records the type of an arithmetic/scalar
// expression subtree, recursing into its operands first.
func (a *Analyzer) inferExpr(node *parser.Node, scope *Scope) string {
	if node == nil {
		return TypeUnknown
	}
	var t string
	switch node.Rule {
	case parser.RuleLiteral:
		t = inferLiteral(node)
	case parser.RuleColumnRef:
		t = a.inferColumnRef(node, scope)
	case parser.RuleAddExpr, parser.RuleMulExpr:
		t = a.inferArith(node, scope)
	case parser.RuleUnaryExpr:
		inner := a.inferExpr(node.Children[1], scope)
		if !numeric(inner) && inner != TypeUnknown {
			a.errorf(node.Pos, "Unary '-' requires a numeric operand, found %s", inner)
			t = TypeUnknown
		} else {
			t = inner
		}
	case parser.RuleParenExpr:
		t = a.inferExpr(node.Children[1], scope)
	case parser.RuleFunctionCall:
		t = a.inferFunctionCall(node, scope)
	case parser.RuleStar:
		t = "*"
	default:
		t = TypeUnknown
	}
	node.InferredType = t
	return t
}

func inferLiteral(node *parser.Node) string {
	tok := node.Children[0].Token
	switch {
	case tok.Kind == token.INTEGER:
		return TypeInteger
	case tok.Kind == token.FLOAT:
		return TypeFloat
	case tok.Kind == token.STRING:
		return TypeString
	case tok.Kind == token.KEYWORD && (tok.Value == "TRUE" || tok.Value == "FALSE"):
		return TypeBoolean
	case tok.Kind == token.KEYWORD && tok.Value == "NULL":
		return TypeNull
	}
	return TypeUnknown
}

func (a *Analyzer) inferColumnRef(node *parser.Node, scope *Scope) string {
	parts := identifierParts(node)
	if len(parts) == 0 {
		return TypeUnknown
	}

	var owner *TableDescriptor
	var colName string
	if len(parts) >= 2 {
		qualifier := parts[0]
		colName = parts[1]
		t, ok := scope.resolveQualified(qualifier)
		if !ok {
			a.errorf(node.Pos, "Unknown table or alias '%s'", qualifier)
			return TypeUnknown
		}
		owner = t
	} else {
		colName = parts[0]
		o, found, ambiguous := scope.resolveColumn(colName)
		switch {
		case ambiguous:
			a.errorf(node.Pos, "Ambiguous column reference '%s'", colName)
			return TypeUnknown
		case !found:
			a.errorf(node.Pos, "Unknown column '%s'", colName)
			return TypeUnknown
		}
		owner = o
	}

	col, ok := owner.Column(colName)
	if !ok {
		a.errorf(node.Pos, "Unknown column '%s' on table '%s'", colName, owner.Name)
		return TypeUnknown
	}
	return col.Type
}

func (a *Analyzer) inferArith(node *parser.Node, scope *Scope) string {
	left, opTok, right := node.Children[0], node.Children[1].Token, node.Children[2]
	lt := a.inferExpr(left, scope)
	rt := a.inferExpr(right, scope)

	if !numeric(lt) && lt != TypeUnknown {
		a.errorf(node.Pos, "Arithmetic operator '%s' requires numeric operands, found %s", opTok.Lexeme, lt)
		return TypeUnknown
	}
	if !numeric(rt) && rt != TypeUnknown {
		a.errorf(node.Pos, "Arithmetic operator '%s' requires numeric operands, found %s", opTok.Lexeme, rt)
		return TypeUnknown
	}
	if (opTok.Lexeme == "/" || opTok.Lexeme == "%") && isZeroLiteral(right) {
		a.warnf(right.Pos, "Division by literal zero")
	}

	if lt == TypeUnknown || rt == TypeUnknown {
		return TypeUnknown
	}
	if lt == TypeFloat || rt == TypeFloat {
		return TypeFloat
	}
	return TypeInteger
}

// isZeroLiteral reports whether node is a numeric literal whose value is
// zero, the case the divide-by-zero warning cares about. It doesn't try to
// prove a whole expression evaluates to zero, only the common typo of
// writing the digit itself.
func isZeroLiteral(node *parser.Node) bool {
	if node == nil || node.Rule != parser.RuleLiteral {
		return false
	}
	tok := node.Children[0].Token
	if tok.Kind != token.INTEGER && tok.Kind != token.FLOAT {
		return false
	}
	v, err := strconv.ParseFloat(tok.Value, 64)
	return err == nil && v == 0
}

func (a *Analyzer) inferFunctionCall(node *parser.Node, scope *Scope) string {
	name := node.Children[0].Token.Value
	if name == "CAST" {
		a.inferExpr(node.Children[2], scope)
		return mapDataType(node.Children[4].Children[0].Token.Value)
	}

	args := nonTerminalChildren(node)
	types := make([]string, 0, len(args))
	for _, arg := range args {
		if arg.Rule == parser.RuleStar {
			types = append(types, "*")
			continue
		}
		types = append(types, a.inferExpr(arg, scope))
	}

	switch name {
	case "COUNT":
		return TypeInteger
	case "SUM", "AVG":
		for i, t := range types {
			if t != "*" && !numeric(t) && t != TypeUnknown {
				a.errorf(args[i].Pos, "%s requires a numeric argument, found %s", name, t)
			}
		}
		return TypeFloat
	case "MIN", "MAX", "COALESCE":
		if len(types) > 0 {
			return types[0]
		}
		return TypeUnknown
	case "SUBSTR", "UPPER", "LOWER":
		return TypeString
	case "LENGTH":
		return TypeInteger
	case "ROUND":
		return TypeFloat
	case "FLOOR", "CEIL":
		return TypeInteger
	default:
		return TypeUnknown
	}
}

// checkWhereClause validates a WHERE clause's condition, additionally
// rejecting aggregate functions: they're only meaningful once GROUP BY has
// collapsed rows, which hasn't happened yet at WHERE-evaluation time. A
// query needing that belongs in HAVING instead.
func (a *Analyzer) checkWhereClause(wc *parser.Node, scope *Scope) {
	cond := wc.Children[1]
	if containsAggregate(cond) {
		a.errorf(cond.Pos, "Aggregate functions are not allowed in WHERE (use HAVING instead)")
	}
	a.checkCondition(cond, scope)
}

// checkCondition walks a boolean-valued subtree, validating every leaf
// comparison and, for a bare-expression condition, that the expression
// makes sense in a boolean position. Every condition node is stamped
// BOOLEAN regardless of what its leaves resolved to, since that's the
// type an enclosing AND/OR/NOT actually operates on.
func (a *Analyzer) checkCondition(node *parser.Node, scope *Scope) {
	if node == nil {
		return
	}
	switch node.Rule {
	case parser.RuleCondition, parser.RuleAndCondition:
		a.checkCondition(node.Children[0], scope)
		a.checkCondition(node.Children[2], scope)
	case parser.RuleNotCondition:
		a.checkCondition(node.Children[1], scope)
	case parser.RuleParenCond:
		a.checkCondition(node.Children[1], scope)
	case parser.RuleComparison:
		a.checkComparison(node, scope)
	case parser.RuleBetween:
		a.checkBetween(node, scope)
	case parser.RuleIn:
		a.checkIn(node, scope)
	case parser.RuleLike:
		a.checkLike(node, scope)
	case parser.RuleIsNull:
		a.inferExpr(node.Children[0], scope)
	case parser.RuleExprCondition:
		t := a.inferExpr(node.Children[0], scope)
		a.checkBooleanContext(node.Pos, t)
	case parser.RuleError:
		// The syntax stage already reported this; nothing further to check.
	}
	node.InferredType = TypeBoolean
}

// checkBooleanContext enforces the resolved policy that a STRING value used
// where a condition is expected is a type mismatch, while a numeric value
// is merely suspicious (SQL's historical truthy-integer convention).
func (a *Analyzer) checkBooleanContext(pos token.Position, t string) {
	switch t {
	case TypeString:
		a.errorf(pos, "Expected a boolean expression but found %s", TypeString)
	case TypeInteger, TypeFloat:
		a.warnf(pos, "Numeric value used as a boolean condition")
	}
}

func (a *Analyzer) checkComparison(node *parser.Node, scope *Scope) {
	left, opTok, right := node.Children[0], node.Children[1].Token, node.Children[2]
	lt := a.inferExpr(left, scope)
	rt := a.inferExpr(right, scope)
	if !compatible(lt, rt) {
		a.errorf(node.Pos, "Type mismatch in comparison: %s %s %s", lt, opTok.Lexeme, rt)
	}
}

func (a *Analyzer) checkBetween(node *parser.Node, scope *Scope) {
	children := node.Children
	operand := children[0]
	offset := 1
	if children[1].Token != nil && children[1].Token.Value == "NOT" {
		offset = 2
	}
	low := children[offset+1]
	high := children[offset+3]

	ot := a.inferExpr(operand, scope)
	lt := a.inferExpr(low, scope)
	ht := a.inferExpr(high, scope)
	if !compatible(ot, lt) || !compatible(ot, ht) {
		a.errorf(node.Pos, "Type mismatch in BETWEEN: operand is %s", ot)
	}
}

func (a *Analyzer) checkIn(node *parser.Node, scope *Scope) {
	operand := node.Children[0]
	ot := a.inferExpr(operand, scope)
	valueList := firstOfRule(node, parser.RuleValueList)
	for _, v := range nonTerminalChildren(valueList) {
		vt := a.inferExpr(v, scope)
		if !compatible(ot, vt) {
			a.errorf(node.Pos, "Type mismatch in IN list: operand is %s, value is %s", ot, vt)
		}
	}
}

func (a *Analyzer) checkLike(node *parser.Node, scope *Scope) {
	operand := node.Children[0]
	pattern := node.Children[len(node.Children)-1]
	ot := a.inferExpr(operand, scope)
	pt := a.inferExpr(pattern, scope)
	if ot != TypeString && ot != TypeUnknown {
		a.errorf(node.Pos, "LIKE requires a string operand, found %s", ot)
	}
	if pt != TypeString && pt != TypeUnknown {
		a.errorf(node.Pos, "LIKE requires a string pattern, found %s", pt)
	}
}
