// Package parser implements the recursive-descent parser: it consumes a
// token stream and derives a tagged parse tree per statement, using
// panic-mode recovery to keep surfacing independent defects after a
// syntax error instead of stopping at the first one.
package parser

import (
	"fmt"

	"github.com/omar-28-2/minisql/pkg/suggest"
	"github.com/omar-28-2/minisql/pkg/token"
)

// Result is the parser's public contract: parse(tokens) -> (tree, diagnostics).
type Result struct {
	Tree        *Node
	Diagnostics []token.Diagnostic
}

// Parse derives a Program-rooted parse tree from a complete token stream.
func Parse(tokens []token.Token) Result {
	p := &Parser{tokens: tokens}
	root := &Node{Rule: RuleProgram}
	for !p.atEOF() {
		root.Add(p.parseStatementWithRecovery())
	}
	return Result{Tree: root, Diagnostics: p.diagnostics}
}

// Parser holds the full token buffer and a cursor into it. Buffering the
// whole stream (rather than pulling from the scanner lazily) is what lets
// panic-mode recovery and the boolean-group lookahead below scan forward
// without a separate backtracking mechanism.
type Parser struct {
	tokens      []token.Token
	pos         int
	diagnostics []token.Diagnostic
}

// parseAbort unwinds a partially-built statement back to
// parseStatementWithRecovery, which performs the actual resync. This
// mirrors the bailout-via-panic technique used by recursive-descent
// parsers to avoid threading an ok/error return through every production.
type parseAbort struct{ diag token.Diagnostic }

func (p *Parser) fail(pos token.Position, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	diag := token.Diagnostic{Stage: token.StageSyn, Severity: token.SeverityError, Message: msg, Pos: pos}
	p.diagnostics = append(p.diagnostics, diag)
	panic(parseAbort{diag})
}

func (p *Parser) failExpectedFound(expected string, found token.Token) {
	format := errExpectedFound
	args := []any{expected, p.describe(found)}
	if found.Kind == token.EOF {
		format = errUnexpectedEOF
		args = []any{expected}
	}
	diag := token.Diagnostic{
		Stage: token.StageSyn, Severity: token.SeverityError,
		Message: fmt.Sprintf(format, args...),
		Pos:     found.Pos, Expected: expected, Found: p.describe(found),
	}
	p.diagnostics = append(p.diagnostics, diag)
	panic(parseAbort{diag})
}

// failExpectedKeyword is failExpectedFound specialized for a missing
// reserved word: if the offending token is an identifier close enough to
// some keyword, it rides along as a "did you mean" suggestion.
func (p *Parser) failExpectedKeyword(want string, found token.Token) {
	diag := token.Diagnostic{
		Stage: token.StageSyn, Severity: token.SeverityError,
		Message: fmt.Sprintf(errExpectedFound, "'"+want+"'", p.describe(found)),
		Pos:     found.Pos, Expected: "'" + want + "'", Found: p.describe(found),
	}
	if found.Kind == token.IDENT {
		if closest, ok := suggest.Keyword(found.Value, token.Keywords()); ok {
			diag.Suggestion = closest
		}
	}
	p.diagnostics = append(p.diagnostics, diag)
	panic(parseAbort{diag})
}

// --- token cursor helpers ---

func (p *Parser) at(offset int) token.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) cur() token.Token { return p.at(0) }

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) isKW(v string) bool {
	t := p.cur()
	return t.Kind == token.KEYWORD && t.Value == v
}

func (p *Parser) isKWAt(n int, v string) bool {
	t := p.at(n)
	return t.Kind == token.KEYWORD && t.Value == v
}

func (p *Parser) isDelim(v string) bool {
	t := p.cur()
	return t.Kind == token.DELIMITER && t.Lexeme == v
}

func (p *Parser) isOp(v string) bool {
	t := p.cur()
	return t.Kind == token.OPERATOR && t.Lexeme == v
}

func (p *Parser) isDot() bool { return p.cur().Kind == token.DOT }

func (p *Parser) isCmpOp() bool { return p.cur().Kind == token.COMPARISON }

func (p *Parser) describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return "'" + tok.Value + "'"
	default:
		if tok.Lexeme != "" {
			return "'" + tok.Lexeme + "'"
		}
		return tok.Kind.String()
	}
}

func (p *Parser) expectKeyword(v string) token.Token {
	if p.isKW(v) {
		return p.advance()
	}
	p.failExpectedKeyword(v, p.cur())
	return token.Token{}
}

func (p *Parser) expectDelim(v string) token.Token {
	if p.isDelim(v) {
		return p.advance()
	}
	p.failExpectedFound("'"+v+"'", p.cur())
	return token.Token{}
}

func (p *Parser) expectCmp(v string) token.Token {
	t := p.cur()
	if t.Kind == token.COMPARISON && t.Lexeme == v {
		return p.advance()
	}
	p.failExpectedFound("'"+v+"'", t)
	return token.Token{}
}

func (p *Parser) expectKind(k token.Kind, desc string) token.Token {
	if p.cur().Kind == k {
		return p.advance()
	}
	p.failExpectedFound(desc, p.cur())
	return token.Token{}
}

// --- statement dispatch, recovery ---

var statementStartKeywords = map[string]bool{
	"SELECT": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"CREATE": true, "ALTER": true, "DROP": true,
}

func (p *Parser) atStatementStart() bool {
	t := p.cur()
	return t.Kind == token.KEYWORD && statementStartKeywords[t.Value]
}

// recoverToSyncPoint advances until ';' (consumed) or a statement-start
// keyword (not consumed) or EOF.
func (p *Parser) recoverToSyncPoint() {
	for !p.atEOF() {
		if p.isDelim(";") {
			p.advance()
			return
		}
		if p.atStatementStart() {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseStatementWithRecovery() (node *Node) {
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			p.recoverToSyncPoint()
			node = NewError(abort.diag)
		}
	}()

	n := p.parseStatement()
	switch {
	case p.isDelim(";"):
		n.Add(NewTerminal(p.advance()))
	case p.atEOF() || p.atStatementStart():
		// trailing statement without ';' accepted at EOF; a following
		// statement-start keyword means this statement is simply done.
	default:
		tok := p.cur()
		diag := token.Diagnostic{
			Stage: token.StageSyn, Severity: token.SeverityError,
			Message: fmt.Sprintf(errExpectedFound, "';'", p.describe(tok)),
			Pos:     tok.Pos, Expected: ";", Found: p.describe(tok),
		}
		p.diagnostics = append(p.diagnostics, diag)
		p.recoverToSyncPoint()
		n.Add(NewError(diag))
	}
	return n
}

func (p *Parser) parseStatement() *Node {
	tok := p.cur()
	if tok.Kind != token.KEYWORD {
		diag := token.Diagnostic{Stage: token.StageSyn, Severity: token.SeverityError, Message: errUnknownStmt, Pos: tok.Pos}
		if tok.Kind == token.IDENT {
			if closest, ok := suggest.Keyword(tok.Value, token.Keywords()); ok {
				diag.Suggestion = closest
			}
		}
		p.diagnostics = append(p.diagnostics, diag)
		panic(parseAbort{diag})
	}
	switch tok.Value {
	case "SELECT":
		return p.parseSelectStmt()
	case "INSERT":
		return p.parseInsertStmt()
	case "UPDATE":
		return p.parseUpdateStmt()
	case "DELETE":
		return p.parseDeleteStmt()
	case "CREATE":
		return p.parseCreateStmt()
	case "ALTER":
		return p.parseAlterStmt()
	case "DROP":
		return p.parseDropStmt()
	default:
		p.fail(tok.Pos, errUnknownStmt)
	}
	panic("unreachable")
}

// --- SELECT ---

func (p *Parser) parseSelectStmt() *Node {
	selectTok := p.expectKeyword("SELECT")
	node := NewNode(RuleSelectStmt, NewTerminal(selectTok))
	if p.isKW("DISTINCT") {
		node.Add(NewTerminal(p.advance()))
	}
	node.Add(p.parseSelectList())

	if p.isKW("FROM") {
		node.Add(p.parseFromClause())
	} else {
		// Missing FROM is a locally-recovered soft error: the statement
		// keeps parsing its remaining optional clauses rather than
		// aborting to the next ';'.
		tok := p.cur()
		diag := token.Diagnostic{
			Stage: token.StageSyn, Severity: token.SeverityError,
			Message: fmt.Sprintf(errMissingFrom, p.describe(tok)),
			Pos:     tok.Pos,
		}
		p.diagnostics = append(p.diagnostics, diag)
		node.Add(NewError(diag))
	}

	if p.isKW("WHERE") {
		node.Add(p.parseWhereClause())
	}
	if p.isKW("GROUP") {
		node.Add(p.parseGroupBy())
	}
	if p.isKW("HAVING") {
		node.Add(p.parseHaving())
	}
	if p.isKW("ORDER") {
		node.Add(p.parseOrderBy())
	}
	if p.isKW("LIMIT") {
		node.Add(p.parseLimit())
	}
	return node
}

func (p *Parser) parseSelectList() *Node {
	node := NewNode(RuleSelectList, p.parseSelectItem())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseSelectItem())
	}
	return node
}

func (p *Parser) parseSelectItem() *Node {
	if p.isOp("*") {
		return NewNode(RuleStar, NewTerminal(p.advance()))
	}
	if p.cur().Kind == token.IDENT && p.at(1).Kind == token.DOT && p.at(2).Kind == token.OPERATOR && p.at(2).Lexeme == "*" {
		tbl, dot, star := p.advance(), p.advance(), p.advance()
		return NewNode(RuleStar, NewTerminal(tbl), NewTerminal(dot), NewTerminal(star))
	}

	item := NewNode(RuleSelectItem, p.parseExpression())
	if p.isKW("AS") {
		item.Add(NewTerminal(p.advance()))
		item.Add(NewTerminal(p.expectKind(token.IDENT, "identifier")))
	} else if p.cur().Kind == token.IDENT {
		item.Add(NewTerminal(p.advance()))
	}
	return item
}

func (p *Parser) parseFromClause() *Node {
	fromTok := p.expectKeyword("FROM")
	node := NewNode(RuleFromClause, NewTerminal(fromTok), p.parseTableRef())
	for p.isJoinStart() {
		node.Add(p.parseJoin())
	}
	return node
}

var joinTypeKeywords = map[string]bool{"INNER": true, "LEFT": true, "RIGHT": true, "FULL": true, "CROSS": true}

func (p *Parser) isJoinStart() bool {
	t := p.cur()
	if t.Kind != token.KEYWORD {
		return false
	}
	return t.Value == "JOIN" || joinTypeKeywords[t.Value]
}

func (p *Parser) parseJoin() *Node {
	node := NewNode(RuleJoin)
	if !p.isKW("JOIN") {
		node.Add(NewTerminal(p.advance()))
	}
	node.Add(NewTerminal(p.expectKeyword("JOIN")))
	node.Add(p.parseTableRef())
	node.Add(NewTerminal(p.expectKeyword("ON")))
	node.Add(p.parseCondition())
	return node
}

func (p *Parser) parseTableRef() *Node {
	nameTok := p.expectKind(token.IDENT, "identifier")
	node := NewNode(RuleTableRef, NewTerminal(nameTok))
	if p.isKW("AS") {
		node.Add(NewTerminal(p.advance()))
		node.Add(NewTerminal(p.expectKind(token.IDENT, "identifier")))
	} else if p.cur().Kind == token.IDENT {
		node.Add(NewTerminal(p.advance()))
	}
	return node
}

func (p *Parser) parseWhereClause() *Node {
	whereTok := p.expectKeyword("WHERE")
	return NewNode(RuleWhereClause, NewTerminal(whereTok), p.parseCondition())
}

func (p *Parser) parseGroupBy() *Node {
	groupTok := p.expectKeyword("GROUP")
	byTok := p.expectKeyword("BY")
	return NewNode(RuleGroupBy, NewTerminal(groupTok), NewTerminal(byTok), p.parseColumnList())
}

func (p *Parser) parseHaving() *Node {
	havingTok := p.expectKeyword("HAVING")
	return NewNode(RuleHaving, NewTerminal(havingTok), p.parseCondition())
}

func (p *Parser) parseOrderBy() *Node {
	orderTok := p.expectKeyword("ORDER")
	byTok := p.expectKeyword("BY")
	node := NewNode(RuleOrderBy, NewTerminal(orderTok), NewTerminal(byTok), p.parseSortItem())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseSortItem())
	}
	return node
}

func (p *Parser) parseSortItem() *Node {
	node := NewNode(RuleSortItem, p.parseExpression())
	if p.isKW("ASC") || p.isKW("DESC") {
		node.Add(NewTerminal(p.advance()))
	}
	return node
}

func (p *Parser) parseLimit() *Node {
	limitTok := p.expectKeyword("LIMIT")
	countTok := p.expectKind(token.INTEGER, "integer")
	return NewNode(RuleLimit, NewTerminal(limitTok), NewTerminal(countTok))
}

func (p *Parser) parseColumnList() *Node {
	node := NewNode(RuleColumnList, p.parseColumnRef())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseColumnRef())
	}
	return node
}

func (p *Parser) parseColumnRef() *Node {
	first := p.expectKind(token.IDENT, "identifier")
	node := NewNode(RuleColumnRef, NewTerminal(first))
	if p.isDot() {
		node.Add(NewTerminal(p.advance()))
		node.Add(NewTerminal(p.expectKind(token.IDENT, "identifier")))
	}
	return node
}

// --- Condition grammar ---

func (p *Parser) parseCondition() *Node {
	left := p.parseAndCondition()
	for p.isKW("OR") {
		orTok := p.advance()
		left = NewNode(RuleCondition, left, NewTerminal(orTok), p.parseAndCondition())
	}
	return left
}

func (p *Parser) parseAndCondition() *Node {
	left := p.parseNotCondition()
	for p.isKW("AND") {
		andTok := p.advance()
		left = NewNode(RuleAndCondition, left, NewTerminal(andTok), p.parseNotCondition())
	}
	return left
}

func (p *Parser) parseNotCondition() *Node {
	if p.isKW("NOT") {
		notTok := p.advance()
		return NewNode(RuleNotCondition, NewTerminal(notTok), p.parsePrimaryCondition())
	}
	return p.parsePrimaryCondition()
}

func (p *Parser) parsePrimaryCondition() *Node {
	if p.isDelim("(") && p.looksLikeBooleanGroup() {
		lp := p.advance()
		inner := p.parseCondition()
		rp := p.expectDelim(")")
		return NewNode(RuleParenCond, NewTerminal(lp), inner, NewTerminal(rp))
	}

	left := p.parseExpression()

	var notTok *token.Token
	if p.isKW("NOT") && (p.isKWAt(1, "BETWEEN") || p.isKWAt(1, "IN") || p.isKWAt(1, "LIKE")) {
		t := p.advance()
		notTok = &t
	}

	switch {
	case notTok == nil && p.isCmpOp():
		opTok := p.advance()
		return NewNode(RuleComparison, left, NewTerminal(opTok), p.parseExpression())
	case p.isKW("BETWEEN"):
		return p.parseBetweenTail(left, notTok)
	case p.isKW("IN"):
		return p.parseInTail(left, notTok)
	case p.isKW("LIKE"):
		return p.parseLikeTail(left, notTok)
	case notTok == nil && p.isKW("IS"):
		return p.parseIsNullTail(left)
	default:
		return NewNode(RuleExprCondition, left)
	}
}

// looksLikeBooleanGroup scans forward from the current '(' to its matching
// ')' and reports whether the parenthesized content is itself a boolean
// condition (contains OR/AND/BETWEEN/IN/LIKE/IS or a comparison at the
// group's own nesting depth) rather than a plain arithmetic subexpression.
func (p *Parser) looksLikeBooleanGroup() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		t := p.tokens[i]
		switch {
		case t.Kind == token.DELIMITER && t.Lexeme == "(":
			depth++
		case t.Kind == token.DELIMITER && t.Lexeme == ")":
			depth--
			if depth == 0 {
				return false
			}
		case t.Kind == token.EOF:
			return false
		case depth == 1:
			if t.Kind == token.COMPARISON {
				return true
			}
			if t.Kind == token.KEYWORD {
				switch t.Value {
				case "OR", "AND", "BETWEEN", "IN", "LIKE", "IS":
					return true
				}
			}
		}
	}
	return false
}

func (p *Parser) parseBetweenTail(left *Node, notTok *token.Token) *Node {
	betweenTok := p.expectKeyword("BETWEEN")
	low := p.parseExpression()
	andTok := p.expectKeyword("AND")
	high := p.parseExpression()
	children := []*Node{left}
	if notTok != nil {
		children = append(children, NewTerminal(*notTok))
	}
	children = append(children, NewTerminal(betweenTok), low, NewTerminal(andTok), high)
	return NewNode(RuleBetween, children...)
}

func (p *Parser) parseInTail(left *Node, notTok *token.Token) *Node {
	inTok := p.expectKeyword("IN")
	lp := p.expectDelim("(")
	values := NewNode(RuleValueList, p.parseExpression())
	for p.isDelim(",") {
		values.Add(NewTerminal(p.advance()))
		values.Add(p.parseExpression())
	}
	rp := p.expectDelim(")")
	children := []*Node{left}
	if notTok != nil {
		children = append(children, NewTerminal(*notTok))
	}
	children = append(children, NewTerminal(inTok), NewTerminal(lp), values, NewTerminal(rp))
	return NewNode(RuleIn, children...)
}

func (p *Parser) parseLikeTail(left *Node, notTok *token.Token) *Node {
	likeTok := p.expectKeyword("LIKE")
	pattern := p.parseExpression()
	children := []*Node{left}
	if notTok != nil {
		children = append(children, NewTerminal(*notTok))
	}
	children = append(children, NewTerminal(likeTok), pattern)
	return NewNode(RuleLike, children...)
}

func (p *Parser) parseIsNullTail(left *Node) *Node {
	isTok := p.expectKeyword("IS")
	node := NewNode(RuleIsNull, left, NewTerminal(isTok))
	if p.isKW("NOT") {
		node.Add(NewTerminal(p.advance()))
	}
	node.Add(NewTerminal(p.expectKeyword("NULL")))
	return node
}

// --- Expression grammar ---

func (p *Parser) parseExpression() *Node { return p.parseAddExpr() }

func (p *Parser) parseAddExpr() *Node {
	left := p.parseMulExpr()
	for p.isOp("+") || p.isOp("-") {
		opTok := p.advance()
		left = NewNode(RuleAddExpr, left, NewTerminal(opTok), p.parseMulExpr())
	}
	return left
}

func (p *Parser) parseMulExpr() *Node {
	left := p.parseUnary()
	for p.isOp("*") || p.isOp("/") || p.isOp("%") {
		opTok := p.advance()
		left = NewNode(RuleMulExpr, left, NewTerminal(opTok), p.parseUnary())
	}
	return left
}

func (p *Parser) parseUnary() *Node {
	if p.isOp("-") {
		opTok := p.advance()
		return NewNode(RuleUnaryExpr, NewTerminal(opTok), p.parseUnary())
	}
	return p.parsePrimary()
}

var builtinFunctions = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
	"CAST": true, "COALESCE": true, "SUBSTR": true, "LENGTH": true,
	"UPPER": true, "LOWER": true, "ROUND": true, "FLOOR": true, "CEIL": true,
}

func (p *Parser) parsePrimary() *Node {
	tok := p.cur()
	switch {
	case tok.Kind == token.INTEGER, tok.Kind == token.FLOAT, tok.Kind == token.STRING:
		p.advance()
		return NewNode(RuleLiteral, NewTerminal(tok))
	case tok.Kind == token.KEYWORD && (tok.Value == "TRUE" || tok.Value == "FALSE" || tok.Value == "NULL"):
		p.advance()
		return NewNode(RuleLiteral, NewTerminal(tok))
	case tok.Kind == token.KEYWORD && builtinFunctions[tok.Value]:
		return p.parseBuiltinCall()
	case tok.Kind == token.IDENT && p.at(1).Kind == token.DELIMITER && p.at(1).Lexeme == "(":
		return p.parseGenericFunctionCall()
	case tok.Kind == token.IDENT:
		return p.parseColumnRef()
	case tok.Kind == token.DELIMITER && tok.Lexeme == "(":
		lp := p.advance()
		inner := p.parseExpression()
		rp := p.expectDelim(")")
		return NewNode(RuleParenExpr, NewTerminal(lp), inner, NewTerminal(rp))
	default:
		p.fail(tok.Pos, errInvalidLiteral, p.describe(tok))
	}
	panic("unreachable")
}

func (p *Parser) parseBuiltinCall() *Node {
	nameTok := p.advance()
	if nameTok.Value == "CAST" {
		lp := p.expectDelim("(")
		expr := p.parseExpression()
		asTok := p.expectKeyword("AS")
		dt := p.parseDataType()
		rp := p.expectDelim(")")
		return NewNode(RuleFunctionCall, NewTerminal(nameTok), NewTerminal(lp), expr, NewTerminal(asTok), dt, NewTerminal(rp))
	}

	lp := p.expectDelim("(")
	node := NewNode(RuleFunctionCall, NewTerminal(nameTok), NewTerminal(lp))
	switch {
	case nameTok.Value == "COUNT" && p.isOp("*"):
		star := p.advance()
		node.Add(NewNode(RuleStar, NewTerminal(star)))
	case p.isDelim(")"):
		// zero-argument call, permitted by the grammar's epsilon alternative.
	default:
		if p.isKW("DISTINCT") {
			node.Add(NewTerminal(p.advance()))
		}
		node.Add(p.parseExpression())
		for p.isDelim(",") {
			node.Add(NewTerminal(p.advance()))
			node.Add(p.parseExpression())
		}
	}
	node.Add(NewTerminal(p.expectDelim(")")))
	return node
}

func (p *Parser) parseGenericFunctionCall() *Node {
	nameTok := p.advance()
	lp := p.expectDelim("(")
	node := NewNode(RuleFunctionCall, NewTerminal(nameTok), NewTerminal(lp))
	if !p.isDelim(")") {
		if p.isKW("DISTINCT") {
			node.Add(NewTerminal(p.advance()))
		}
		node.Add(p.parseExpression())
		for p.isDelim(",") {
			node.Add(NewTerminal(p.advance()))
			node.Add(p.parseExpression())
		}
	}
	node.Add(NewTerminal(p.expectDelim(")")))
	return node
}

var dataTypeKeywords = map[string]bool{
	"INT": true, "INTEGER": true, "FLOAT": true, "DOUBLE": true,
	"VARCHAR": true, "TEXT": true, "CHAR": true, "BOOLEAN": true,
	"DATE": true, "DECIMAL": true, "NUMBER": true,
}

func (p *Parser) parseDataType() *Node {
	tok := p.cur()
	if tok.Kind != token.KEYWORD || !dataTypeKeywords[tok.Value] {
		p.failExpectedFound("a data type", tok)
	}
	p.advance()
	node := NewNode(RuleDataType, NewTerminal(tok))
	if p.isDelim("(") {
		node.Add(NewTerminal(p.advance()))
		node.Add(NewTerminal(p.expectKind(token.INTEGER, "integer")))
		if p.isDelim(",") {
			node.Add(NewTerminal(p.advance()))
			node.Add(NewTerminal(p.expectKind(token.INTEGER, "integer")))
		}
		node.Add(NewTerminal(p.expectDelim(")")))
	}
	return node
}

// --- DDL ---

func (p *Parser) parseCreateStmt() *Node {
	createTok := p.expectKeyword("CREATE")
	switch {
	case p.isKW("TABLE"):
		return p.parseCreateTable(createTok)
	case p.isKW("VIEW"):
		return p.parseCreateView(createTok)
	case p.isKW("INDEX"):
		return p.parseCreateIndex(createTok)
	case p.isKW("DATABASE"):
		return p.parseCreateDatabase(createTok)
	default:
		p.failExpectedFound("TABLE, VIEW, INDEX, or DATABASE", p.cur())
	}
	panic("unreachable")
}

func (p *Parser) parseCreateTable(createTok token.Token) *Node {
	tableTok := p.expectKeyword("TABLE")
	nameTok := p.expectKind(token.IDENT, "identifier")
	lp := p.expectDelim("(")
	defs := p.parseColumnDefList()
	rp := p.expectDelim(")")
	return NewNode(RuleCreateTable, NewTerminal(createTok), NewTerminal(tableTok), NewTerminal(nameTok), NewTerminal(lp), defs, NewTerminal(rp))
}

func (p *Parser) parseColumnDefList() *Node {
	node := NewNode(RuleColumnDefList, p.parseColumnDefOrConstraint())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseColumnDefOrConstraint())
	}
	return node
}

func (p *Parser) parseColumnDefOrConstraint() *Node {
	if p.cur().Kind == token.KEYWORD {
		switch p.cur().Value {
		case "PRIMARY", "FOREIGN", "UNIQUE", "CHECK":
			return p.parseTableConstraint()
		}
	}
	return p.parseColumnDef()
}

func (p *Parser) parseColumnDef() *Node {
	nameTok := p.expectKind(token.IDENT, "identifier")
	dt := p.parseDataType()
	node := NewNode(RuleColumnDef, NewTerminal(nameTok), dt)
	for p.isColumnConstraintStart() {
		node.Add(p.parseColumnConstraint())
	}
	return node
}

func (p *Parser) isColumnConstraintStart() bool {
	return p.isKW("PRIMARY") || p.isKW("NOT") || p.isKW("UNIQUE") || p.isKW("DEFAULT") || p.isKW("CHECK") || p.isKW("REFERENCES")
}

func (p *Parser) parseColumnConstraint() *Node {
	switch {
	case p.isKW("PRIMARY"):
		pk := p.advance()
		key := p.expectKeyword("KEY")
		return NewNode(RuleConstraint, NewTerminal(pk), NewTerminal(key))
	case p.isKW("NOT"):
		nt := p.advance()
		null := p.expectKeyword("NULL")
		return NewNode(RuleConstraint, NewTerminal(nt), NewTerminal(null))
	case p.isKW("UNIQUE"):
		return NewNode(RuleConstraint, NewTerminal(p.advance()))
	case p.isKW("DEFAULT"):
		d := p.advance()
		return NewNode(RuleConstraint, NewTerminal(d), p.parseExpression())
	case p.isKW("CHECK"):
		c := p.advance()
		lp := p.expectDelim("(")
		cond := p.parseCondition()
		rp := p.expectDelim(")")
		return NewNode(RuleConstraint, NewTerminal(c), NewTerminal(lp), cond, NewTerminal(rp))
	default: // REFERENCES
		return p.parseForeignKeyInline()
	}
}

func (p *Parser) parseForeignKeyInline() *Node {
	refTok := p.expectKeyword("REFERENCES")
	tblTok := p.expectKind(token.IDENT, "identifier")
	lp := p.expectDelim("(")
	colTok := p.expectKind(token.IDENT, "identifier")
	rp := p.expectDelim(")")
	return NewNode(RuleForeignKey, NewTerminal(refTok), NewTerminal(tblTok), NewTerminal(lp), NewTerminal(colTok), NewTerminal(rp))
}

func (p *Parser) parseTableConstraint() *Node {
	switch {
	case p.isKW("PRIMARY"):
		pk := p.advance()
		key := p.expectKeyword("KEY")
		lp := p.expectDelim("(")
		cols := p.parseColumnList()
		rp := p.expectDelim(")")
		return NewNode(RuleConstraint, NewTerminal(pk), NewTerminal(key), NewTerminal(lp), cols, NewTerminal(rp))
	case p.isKW("FOREIGN"):
		fk := p.advance()
		key := p.expectKeyword("KEY")
		lp := p.expectDelim("(")
		col := p.expectKind(token.IDENT, "identifier")
		rp := p.expectDelim(")")
		ref := p.parseForeignKeyInline()
		return NewNode(RuleForeignKey, NewTerminal(fk), NewTerminal(key), NewTerminal(lp), NewTerminal(col), NewTerminal(rp), ref)
	case p.isKW("UNIQUE"):
		u := p.advance()
		lp := p.expectDelim("(")
		cols := p.parseColumnList()
		rp := p.expectDelim(")")
		return NewNode(RuleConstraint, NewTerminal(u), NewTerminal(lp), cols, NewTerminal(rp))
	default: // CHECK
		c := p.advance()
		lp := p.expectDelim("(")
		cond := p.parseCondition()
		rp := p.expectDelim(")")
		return NewNode(RuleConstraint, NewTerminal(c), NewTerminal(lp), cond, NewTerminal(rp))
	}
}

func (p *Parser) parseCreateView(createTok token.Token) *Node {
	viewTok := p.expectKeyword("VIEW")
	nameTok := p.expectKind(token.IDENT, "identifier")
	asTok := p.expectKeyword("AS")
	sel := p.parseSelectStmt()
	return NewNode(RuleCreateView, NewTerminal(createTok), NewTerminal(viewTok), NewTerminal(nameTok), NewTerminal(asTok), sel)
}

func (p *Parser) parseCreateIndex(createTok token.Token) *Node {
	indexTok := p.expectKeyword("INDEX")
	nameTok := p.expectKind(token.IDENT, "identifier")
	onTok := p.expectKeyword("ON")
	tblTok := p.expectKind(token.IDENT, "identifier")
	lp := p.expectDelim("(")
	cols := p.parseColumnList()
	rp := p.expectDelim(")")
	return NewNode(RuleCreateIndex, NewTerminal(createTok), NewTerminal(indexTok), NewTerminal(nameTok), NewTerminal(onTok), NewTerminal(tblTok), NewTerminal(lp), cols, NewTerminal(rp))
}

func (p *Parser) parseCreateDatabase(createTok token.Token) *Node {
	dbTok := p.expectKeyword("DATABASE")
	nameTok := p.expectKind(token.IDENT, "identifier")
	return NewNode(RuleCreateDatabase, NewTerminal(createTok), NewTerminal(dbTok), NewTerminal(nameTok))
}

func (p *Parser) parseAlterStmt() *Node {
	alterTok := p.expectKeyword("ALTER")
	tableTok := p.expectKeyword("TABLE")
	nameTok := p.expectKind(token.IDENT, "identifier")
	node := NewNode(RuleAlterTable, NewTerminal(alterTok), NewTerminal(tableTok), NewTerminal(nameTok))

	switch {
	case p.isKW("ADD"):
		node.Add(NewTerminal(p.advance()))
		if p.isKW("COLUMN") {
			node.Add(NewTerminal(p.advance()))
		}
		node.Add(p.parseColumnDef())
	case p.isKW("DROP"):
		node.Add(NewTerminal(p.advance()))
		if p.isKW("COLUMN") {
			node.Add(NewTerminal(p.advance()))
		}
		node.Add(NewTerminal(p.expectKind(token.IDENT, "identifier")))
	default:
		p.failExpectedFound("ADD or DROP", p.cur())
	}
	return node
}

func (p *Parser) parseDropStmt() *Node {
	dropTok := p.expectKeyword("DROP")
	var kindTok token.Token
	switch {
	case p.isKW("TABLE"), p.isKW("VIEW"), p.isKW("INDEX"), p.isKW("DATABASE"):
		kindTok = p.advance()
	default:
		p.failExpectedFound("TABLE, VIEW, INDEX, or DATABASE", p.cur())
	}
	nameTok := p.expectKind(token.IDENT, "identifier")
	return NewNode(RuleDropStmt, NewTerminal(dropTok), NewTerminal(kindTok), NewTerminal(nameTok))
}

// --- DML ---

func (p *Parser) parseInsertStmt() *Node {
	insertTok := p.expectKeyword("INSERT")
	intoTok := p.expectKeyword("INTO")
	nameTok := p.expectKind(token.IDENT, "identifier")
	node := NewNode(RuleInsertStmt, NewTerminal(insertTok), NewTerminal(intoTok), NewTerminal(nameTok))

	if p.isDelim("(") {
		lp := p.advance()
		cols := p.parseColumnList()
		rp := p.expectDelim(")")
		node.Add(NewTerminal(lp))
		node.Add(cols)
		node.Add(NewTerminal(rp))
	}

	valuesTok := p.expectKeyword("VALUES")
	node.Add(NewTerminal(valuesTok))

	rows := NewNode(RuleValueList, p.parseValueRow())
	for p.isDelim(",") {
		rows.Add(NewTerminal(p.advance()))
		rows.Add(p.parseValueRow())
	}
	node.Add(rows)
	return node
}

func (p *Parser) parseValueRow() *Node {
	lp := p.expectDelim("(")
	node := NewNode(RuleValueRow, NewTerminal(lp), p.parseExpression())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseExpression())
	}
	node.Add(NewTerminal(p.expectDelim(")")))
	return node
}

func (p *Parser) parseUpdateStmt() *Node {
	updateTok := p.expectKeyword("UPDATE")
	nameTok := p.expectKind(token.IDENT, "identifier")
	setTok := p.expectKeyword("SET")
	node := NewNode(RuleUpdateStmt, NewTerminal(updateTok), NewTerminal(nameTok), NewTerminal(setTok), p.parseAssignment())
	for p.isDelim(",") {
		node.Add(NewTerminal(p.advance()))
		node.Add(p.parseAssignment())
	}
	if p.isKW("WHERE") {
		node.Add(p.parseWhereClause())
	}
	return node
}

func (p *Parser) parseAssignment() *Node {
	colTok := p.expectKind(token.IDENT, "identifier")
	eqTok := p.expectCmp("=")
	return NewNode(RuleAssignment, NewTerminal(colTok), NewTerminal(eqTok), p.parseExpression())
}

func (p *Parser) parseDeleteStmt() *Node {
	deleteTok := p.expectKeyword("DELETE")
	fromTok := p.expectKeyword("FROM")
	nameTok := p.expectKind(token.IDENT, "identifier")
	node := NewNode(RuleDeleteStmt, NewTerminal(deleteTok), NewTerminal(fromTok), NewTerminal(nameTok))
	if p.isKW("WHERE") {
		node.Add(p.parseWhereClause())
	}
	return node
}
