// Package semantic walks a parse tree, annotates it with inferred types,
// and checks it against a persistent symbol table: table/view existence,
// reference resolution, type compatibility, and aggregation rules.
package semantic

import (
	"strings"

	"github.com/omar-28-2/minisql/pkg/token"
)

// ColumnDescriptor records one column's declared shape. Ordinal is its
// position within the table, 0-based in declaration order.
type ColumnDescriptor struct {
	Name       string
	Type       string
	Size       int
	Scale      int
	Ordinal    int
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    string
	References *ForeignKeyRef
}

// ForeignKeyRef names the table and column a FOREIGN KEY constraint targets.
type ForeignKeyRef struct {
	Table  string
	Column string
}

// TableDescriptor is a table or view's shape as known to the symbol table.
// DeclaredAt is the position of the DDL statement that produced it.
type TableDescriptor struct {
	Name       string
	Columns    []ColumnDescriptor
	IsView     bool
	DeclaredAt token.Position
}

// Column looks up a column by case-insensitive name.
func (t *TableDescriptor) Column(name string) (ColumnDescriptor, bool) {
	upper := strings.ToUpper(name)
	for _, c := range t.Columns {
		if strings.ToUpper(c.Name) == upper {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// SymbolTable is the case-insensitive catalog of tables and views that
// persists across every statement compiled within one call to Analyze
// on a Program node — a CREATE TABLE in statement 1 is visible to a
// SELECT in statement 3.
type SymbolTable struct {
	tables map[string]*TableDescriptor
}

// NewSymbolTable returns an empty catalog.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{tables: make(map[string]*TableDescriptor)}
}

func key(name string) string { return strings.ToUpper(name) }

// Define registers a table or view, replacing any prior definition of the
// same name (this is what makes CREATE TABLE ... after an earlier DROP or
// a redefinition well-defined within one compilation unit). pos is the
// declaring DDL statement's position, recorded as DeclaredAt; columns are
// stamped with their declaration-order Ordinal.
func (st *SymbolTable) Define(desc *TableDescriptor, pos token.Position) {
	desc.DeclaredAt = pos
	for i := range desc.Columns {
		desc.Columns[i].Ordinal = i
	}
	st.tables[key(desc.Name)] = desc
}

// Undefine removes a table or view, used by DROP.
func (st *SymbolTable) Undefine(name string) {
	delete(st.tables, key(name))
}

// Lookup finds a table or view by case-insensitive name.
func (st *SymbolTable) Lookup(name string) (*TableDescriptor, bool) {
	t, ok := st.tables[key(name)]
	return t, ok
}

// AddColumn appends a column to an existing table, used by ALTER TABLE ADD COLUMN.
func (st *SymbolTable) AddColumn(table string, col ColumnDescriptor) bool {
	t, ok := st.Lookup(table)
	if !ok {
		return false
	}
	col.Ordinal = len(t.Columns)
	t.Columns = append(t.Columns, col)
	return true
}

// DropColumn removes a column by name, used by ALTER TABLE DROP COLUMN.
func (st *SymbolTable) DropColumn(table, column string) bool {
	t, ok := st.Lookup(table)
	if !ok {
		return false
	}
	upper := strings.ToUpper(column)
	for i, c := range t.Columns {
		if strings.ToUpper(c.Name) == upper {
			t.Columns = append(t.Columns[:i], t.Columns[i+1:]...)
			return true
		}
	}
	return false
}
