package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/omar-28-2/minisql/pkg/parser"
	"github.com/omar-28-2/minisql/pkg/token"
)

// Inferred type names. Apart from "*", which marks a star projection, these
// are the only values ever written to a Node's InferredType field.
const (
	TypeInteger = "INTEGER"
	TypeFloat   = "FLOAT"
	TypeString  = "STRING"
	TypeBoolean = "BOOLEAN"
	TypeNull    = "NULL"
	TypeUnknown = "UNKNOWN"
)

// Analyzer walks a Program parse tree statement by statement, annotating
// every expression node with its InferredType and validating each
// statement against a SymbolTable that persists across the whole walk —
// a CREATE TABLE in one statement is visible to statements that follow it.
type Analyzer struct {
	catalog     *SymbolTable
	diagnostics []token.Diagnostic
}

// NewAnalyzer returns an Analyzer with a fresh, empty catalog.
func NewAnalyzer() *Analyzer {
	return &Analyzer{catalog: NewSymbolTable()}
}

// Catalog exposes the symbol table accumulated so far.
func (a *Analyzer) Catalog() *SymbolTable { return a.catalog }

func (a *Analyzer) errorf(pos token.Position, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, token.Diagnostic{
		Stage: token.StageSem, Severity: token.SeverityError,
		Message: fmt.Sprintf(format, args...), Pos: pos,
	})
}

func (a *Analyzer) warnf(pos token.Position, format string, args ...any) {
	a.diagnostics = append(a.diagnostics, token.Diagnostic{
		Stage: token.StageSem, Severity: token.SeverityWarning,
		Message: fmt.Sprintf(format, args...), Pos: pos,
	})
}

// Analyze walks every statement under root, in order, and returns the
// diagnostics raised along the way. It mutates root in place, writing
// InferredType on every expression node it visits.
func Analyze(root *parser.Node) ([]token.Diagnostic, *SymbolTable) {
	a := NewAnalyzer()
	for _, stmt := range root.Children {
		a.analyzeStatement(stmt)
	}
	return a.diagnostics, a.catalog
}

func (a *Analyzer) analyzeStatement(node *parser.Node) {
	if node.IsError() {
		return
	}
	switch node.Rule {
	case parser.RuleSelectStmt:
		a.analyzeSelect(node)
	case parser.RuleInsertStmt:
		a.analyzeInsert(node)
	case parser.RuleUpdateStmt:
		a.analyzeUpdate(node)
	case parser.RuleDeleteStmt:
		a.analyzeDelete(node)
	case parser.RuleCreateTable:
		a.analyzeCreateTable(node)
	case parser.RuleCreateView:
		a.analyzeCreateView(node)
	case parser.RuleCreateIndex:
		a.analyzeCreateIndex(node)
	case parser.RuleCreateDatabase:
		// Databases aren't tracked in the catalog; nothing to validate.
	case parser.RuleAlterTable:
		a.analyzeAlterTable(node)
	case parser.RuleDropStmt:
		a.analyzeDropStmt(node)
	}
}

// --- SELECT ---

func (a *Analyzer) analyzeSelect(node *parser.Node) []string {
	scope := newScope(a.catalog)
	if fromClause := firstOfRule(node, parser.RuleFromClause); fromClause != nil {
		a.bindFrom(fromClause, scope)
	}

	selectList := firstOfRule(node, parser.RuleSelectList)
	var projected []string
	var bareColumns []*parser.Node
	hasAggregate := false

	for _, item := range nonTerminalChildren(selectList) {
		if item.Rule == parser.RuleStar {
			item.InferredType = "*"
			projected = append(projected, "*")
			continue
		}
		expr := item.Children[0]
		item.InferredType = a.inferExpr(expr, scope)

		name := selectItemAlias(item)
		if name == "" {
			name = columnDisplayName(expr)
		}
		projected = append(projected, name)

		if containsAggregate(expr) {
			hasAggregate = true
		} else {
			collectBareColumns(expr, &bareColumns)
		}
	}

	if wc := firstOfRule(node, parser.RuleWhereClause); wc != nil {
		a.checkWhereClause(wc, scope)
	}

	var groupNames map[string]bool
	if groupBy := firstOfRule(node, parser.RuleGroupBy); groupBy != nil {
		groupNames = make(map[string]bool)
		if colList := firstOfRule(groupBy, parser.RuleColumnList); colList != nil {
			for _, col := range nonTerminalChildren(colList) {
				a.inferExpr(col, scope)
				groupNames[strings.ToUpper(columnDisplayName(col))] = true
			}
		}
	}

	if hasAggregate {
		for _, col := range bareColumns {
			name := strings.ToUpper(columnDisplayName(col))
			if groupNames == nil || !groupNames[name] {
				a.errorf(col.Pos, "Column '%s' must appear in the GROUP BY clause or be used in an aggregate function", name)
			}
		}
	}

	if having := firstOfRule(node, parser.RuleHaving); having != nil {
		a.checkCondition(having.Children[1], scope)
	}

	if orderBy := firstOfRule(node, parser.RuleOrderBy); orderBy != nil {
		for _, item := range allOfRule(orderBy, parser.RuleSortItem) {
			a.inferExpr(item.Children[0], scope)
		}
	}

	return projected
}

func (a *Analyzer) bindFrom(fromClause *parser.Node, scope *Scope) {
	a.bindTableRef(firstOfRule(fromClause, parser.RuleTableRef), scope)
	for _, join := range allOfRule(fromClause, parser.RuleJoin) {
		a.bindTableRef(firstOfRule(join, parser.RuleTableRef), scope)
		onCond := join.Children[len(join.Children)-1]
		a.checkCondition(onCond, scope)
	}
}

func (a *Analyzer) bindTableRef(ref *parser.Node, scope *Scope) {
	if ref == nil {
		return
	}
	parts := identifierParts(ref)
	if len(parts) == 0 {
		return
	}
	name := parts[0]
	alias := ""
	if len(parts) > 1 {
		alias = parts[1]
	}
	if _, ok := scope.bind(name, alias); !ok {
		a.errorf(ref.Pos, "Unknown table '%s'", name)
	}
}

func selectItemAlias(item *parser.Node) string {
	for _, c := range item.Children[1:] {
		if c.Rule == parser.RuleTerminal && c.Token != nil && c.Token.Kind == token.IDENT {
			return c.Token.Value
		}
	}
	return ""
}

func columnDisplayName(n *parser.Node) string {
	if n.Rule == parser.RuleColumnRef {
		parts := identifierParts(n)
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return ""
}

func containsAggregate(n *parser.Node) bool {
	if n == nil {
		return false
	}
	if n.Rule == parser.RuleFunctionCall {
		switch n.Children[0].Token.Value {
		case "COUNT", "SUM", "AVG", "MIN", "MAX":
			return true
		}
	}
	for _, c := range n.Children {
		if c.Rule != parser.RuleTerminal && containsAggregate(c) {
			return true
		}
	}
	return false
}

func collectBareColumns(n *parser.Node, out *[]*parser.Node) {
	if n == nil {
		return
	}
	if n.Rule == parser.RuleColumnRef {
		*out = append(*out, n)
		return
	}
	for _, c := range n.Children {
		if c.Rule != parser.RuleTerminal {
			collectBareColumns(c, out)
		}
	}
}

// --- INSERT / UPDATE / DELETE ---

func (a *Analyzer) analyzeInsert(node *parser.Node) {
	tableName := node.Children[2].Token.Value
	table, ok := a.catalog.Lookup(tableName)
	if !ok {
		a.errorf(node.Pos, "Unknown table '%s'", tableName)
		return
	}

	var targetCols []ColumnDescriptor
	if colList := firstOfRule(node, parser.RuleColumnList); colList != nil {
		for _, c := range nonTerminalChildren(colList) {
			name := columnDisplayName(c)
			col, ok := table.Column(name)
			if !ok {
				a.errorf(c.Pos, "Unknown column '%s' on table '%s'", name, table.Name)
				continue
			}
			targetCols = append(targetCols, col)
		}
	} else {
		targetCols = table.Columns
	}

	scope := newScope(a.catalog)
	valueList := firstOfRule(node, parser.RuleValueList)
	for _, row := range nonTerminalChildren(valueList) {
		vals := nonTerminalChildren(row)
		if len(vals) != len(targetCols) {
			a.errorf(row.Pos, "Expected %d values but found %d", len(targetCols), len(vals))
		}
		for i, v := range vals {
			vt := a.inferExpr(v, scope)
			if i >= len(targetCols) {
				continue
			}
			ct := targetCols[i].Type
			if vt == TypeNull {
				if targetCols[i].NotNull {
					a.errorf(v.Pos, "Cannot insert NULL into NOT NULL column '%s'", targetCols[i].Name)
				}
				continue
			}
			if vt != TypeUnknown && !compatible(vt, ct) {
				a.errorf(v.Pos, "Cannot insert %s value into column '%s' of type %s", vt, targetCols[i].Name, ct)
			}
		}
	}
}

func (a *Analyzer) analyzeUpdate(node *parser.Node) {
	tableName := node.Children[1].Token.Value
	table, ok := a.catalog.Lookup(tableName)
	if !ok {
		a.errorf(node.Pos, "Unknown table '%s'", tableName)
		return
	}
	scope := newScope(a.catalog)
	scope.bind(table.Name, "")

	for _, assign := range allOfRule(node, parser.RuleAssignment) {
		colName := assign.Children[0].Token.Value
		col, ok := table.Column(colName)
		vt := a.inferExpr(assign.Children[2], scope)
		if !ok {
			a.errorf(assign.Pos, "Unknown column '%s' on table '%s'", colName, table.Name)
			continue
		}
		if vt == TypeNull {
			if col.NotNull {
				a.errorf(assign.Pos, "Cannot assign NULL to NOT NULL column '%s'", col.Name)
			}
			continue
		}
		if vt != TypeUnknown && !compatible(vt, col.Type) {
			a.errorf(assign.Pos, "Cannot assign %s value to column '%s' of type %s", vt, col.Name, col.Type)
		}
	}

	if wc := firstOfRule(node, parser.RuleWhereClause); wc != nil {
		a.checkWhereClause(wc, scope)
	}
}

func (a *Analyzer) analyzeDelete(node *parser.Node) {
	tableName := node.Children[2].Token.Value
	table, ok := a.catalog.Lookup(tableName)
	if !ok {
		a.errorf(node.Pos, "Unknown table '%s'", tableName)
		return
	}
	scope := newScope(a.catalog)
	scope.bind(table.Name, "")
	if wc := firstOfRule(node, parser.RuleWhereClause); wc != nil {
		a.checkWhereClause(wc, scope)
	}
}

// --- DDL ---

func (a *Analyzer) analyzeCreateTable(node *parser.Node) {
	name := node.Children[2].Token.Value
	if _, exists := a.catalog.Lookup(name); exists {
		a.errorf(node.Pos, "Table '%s' is already defined", name)
	}
	desc := &TableDescriptor{Name: name}
	defList := firstOfRule(node, parser.RuleColumnDefList)
	for _, def := range nonTerminalChildren(defList) {
		switch def.Rule {
		case parser.RuleColumnDef:
			desc.Columns = append(desc.Columns, a.buildColumnDescriptor(def))
		case parser.RuleConstraint, parser.RuleForeignKey:
			a.checkTableConstraint(def, desc)
		}
	}
	a.catalog.Define(desc, node.Pos)
}

func (a *Analyzer) buildColumnDescriptor(def *parser.Node) ColumnDescriptor {
	name := def.Children[0].Token.Value
	typeName, size, scale := decodeDataType(def.Children[1])
	cd := ColumnDescriptor{Name: name, Type: typeName, Size: size, Scale: scale}
	for _, c := range def.Children[2:] {
		if c.Rule == parser.RuleConstraint || c.Rule == parser.RuleForeignKey {
			applyColumnConstraint(&cd, c)
		}
	}
	return cd
}

func decodeDataType(dt *parser.Node) (name string, size int, scale int) {
	name = mapDataType(dt.Children[0].Token.Value)
	var ints []int
	for _, c := range dt.Children[1:] {
		if c.Token != nil && c.Token.Kind == token.INTEGER {
			n, _ := strconv.Atoi(c.Token.Value)
			ints = append(ints, n)
		}
	}
	if len(ints) > 0 {
		size = ints[0]
	}
	if len(ints) > 1 {
		scale = ints[1]
	}
	return name, size, scale
}

// mapDataType folds the grammar's data type keywords onto the four
// inferred-type groups. DATE collapses onto STRING: this compiler tracks
// no calendar arithmetic, so a date literal and a string literal are
// interchangeable for every check it performs.
func mapDataType(kw string) string {
	switch kw {
	case "INT", "INTEGER":
		return TypeInteger
	case "FLOAT", "DOUBLE", "DECIMAL", "NUMBER":
		return TypeFloat
	case "VARCHAR", "TEXT", "CHAR", "DATE":
		return TypeString
	case "BOOLEAN":
		return TypeBoolean
	}
	return TypeUnknown
}

func applyColumnConstraint(cd *ColumnDescriptor, c *parser.Node) {
	if c.Rule == parser.RuleForeignKey {
		cd.References = &ForeignKeyRef{Table: c.Children[1].Token.Value, Column: c.Children[3].Token.Value}
		return
	}
	first := c.Children[0]
	if first.Token == nil {
		return
	}
	switch first.Token.Value {
	case "PRIMARY":
		cd.PrimaryKey = true
		cd.NotNull = true
	case "NOT":
		cd.NotNull = true
	case "UNIQUE":
		cd.Unique = true
	case "DEFAULT":
		if len(c.Children) > 1 {
			cd.Default = defaultValueText(c.Children[1])
		}
	}
}

func defaultValueText(n *parser.Node) string {
	if n.Rule == parser.RuleLiteral && len(n.Children) > 0 && n.Children[0].Token != nil {
		return n.Children[0].Token.Lexeme
	}
	return ""
}

func (a *Analyzer) checkTableConstraint(def *parser.Node, desc *TableDescriptor) {
	if def.Rule == parser.RuleForeignKey {
		localCol := def.Children[3].Token.Value
		if _, ok := desc.Column(localCol); !ok {
			a.errorf(def.Pos, "Unknown column '%s' on table '%s'", localCol, desc.Name)
		}
		if fk := firstOfRule(def, parser.RuleForeignKey); fk != nil {
			target := fk.Children[1].Token.Value
			if _, ok := a.catalog.Lookup(target); !ok {
				a.errorf(def.Pos, "Unknown table '%s' referenced by FOREIGN KEY", target)
			}
		}
		return
	}

	first := def.Children[0]
	if first.Token == nil {
		return
	}
	switch first.Token.Value {
	case "PRIMARY", "UNIQUE":
		colList := firstOfRule(def, parser.RuleColumnList)
		for _, c := range nonTerminalChildren(colList) {
			name := columnDisplayName(c)
			if _, ok := desc.Column(name); !ok {
				a.errorf(c.Pos, "Unknown column '%s' on table '%s'", name, desc.Name)
			}
		}
	case "CHECK":
		scope := newScope(a.catalog)
		scope.bindDirect(desc, "")
		a.checkCondition(def.Children[2], scope)
	}
}

func (a *Analyzer) analyzeCreateView(node *parser.Node) {
	name := node.Children[2].Token.Value
	selectStmt := firstOfRule(node, parser.RuleSelectStmt)
	projected := a.analyzeSelect(selectStmt)
	items := nonTerminalChildren(firstOfRule(selectStmt, parser.RuleSelectList))

	desc := &TableDescriptor{Name: name, IsView: true}
	for i, colName := range projected {
		if colName == "" || colName == "*" {
			continue
		}
		desc.Columns = append(desc.Columns, ColumnDescriptor{Name: colName, Type: items[i].InferredType})
	}
	a.catalog.Define(desc, node.Pos)
}

func (a *Analyzer) analyzeCreateIndex(node *parser.Node) {
	tableName := node.Children[4].Token.Value
	table, ok := a.catalog.Lookup(tableName)
	if !ok {
		a.errorf(node.Pos, "Unknown table '%s'", tableName)
		return
	}
	colList := firstOfRule(node, parser.RuleColumnList)
	for _, c := range nonTerminalChildren(colList) {
		name := columnDisplayName(c)
		if _, ok := table.Column(name); !ok {
			a.errorf(c.Pos, "Unknown column '%s' on table '%s'", name, table.Name)
		}
	}
}

func (a *Analyzer) analyzeAlterTable(node *parser.Node) {
	tableName := node.Children[2].Token.Value
	table, ok := a.catalog.Lookup(tableName)
	if !ok {
		a.errorf(node.Pos, "Unknown table '%s'", tableName)
		return
	}

	action := node.Children[3]
	switch action.Token.Value {
	case "ADD":
		colDef := firstOfRule(node, parser.RuleColumnDef)
		cd := a.buildColumnDescriptor(colDef)
		if _, exists := table.Column(cd.Name); exists {
			a.errorf(colDef.Pos, "Column '%s' already exists on table '%s'", cd.Name, table.Name)
			return
		}
		a.catalog.AddColumn(table.Name, cd)
	case "DROP":
		// The column name is the last IDENT terminal; a trailing ';' may follow it.
		var last *parser.Node
		for i := len(node.Children) - 1; i >= 0 && last == nil; i-- {
			if c := node.Children[i]; c.Token != nil && c.Token.Kind == token.IDENT {
				last = c
			}
		}
		colName := last.Token.Value
		if _, exists := table.Column(colName); !exists {
			a.errorf(last.Pos, "Unknown column '%s' on table '%s'", colName, table.Name)
			return
		}
		a.catalog.DropColumn(table.Name, colName)
	}
}

func (a *Analyzer) analyzeDropStmt(node *parser.Node) {
	kind := node.Children[1].Token.Value
	name := node.Children[2].Token.Value
	switch kind {
	case "TABLE", "VIEW":
		if _, ok := a.catalog.Lookup(name); !ok {
			a.errorf(node.Pos, "Unknown table '%s'", name)
			return
		}
		a.catalog.Undefine(name)
	case "DATABASE", "INDEX":
		// Not tracked in the catalog; accepted without further validation.
	}
}
