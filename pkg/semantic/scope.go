package semantic

import "strings"

// tableBinding is one FROM/JOIN entry: the table it names and, if given,
// the alias queries must use to qualify its columns.
type tableBinding struct {
	table *TableDescriptor
	alias string
}

func (b tableBinding) effectiveName() string {
	if b.alias != "" {
		return b.alias
	}
	return b.table.Name
}

// Scope tracks the tables visible to a single statement: the alias/name a
// query used it FROM/JOIN plus a reference back into the persistent
// SymbolTable. A fresh Scope is built per statement; the SymbolTable
// itself is what persists across statements.
type Scope struct {
	catalog  *SymbolTable
	bindings []tableBinding
}

func newScope(catalog *SymbolTable) *Scope {
	return &Scope{catalog: catalog}
}

// bind registers a table reference in this statement's FROM/JOIN chain.
// It reports false if the named table or view does not exist.
func (s *Scope) bind(name, alias string) (*TableDescriptor, bool) {
	t, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, false
	}
	s.bindings = append(s.bindings, tableBinding{table: t, alias: alias})
	return t, true
}

// bindDirect binds a table descriptor that isn't yet registered in the
// catalog — used to check a CREATE TABLE's own CHECK constraints against
// the table being defined, before it exists as a lookup target.
func (s *Scope) bindDirect(t *TableDescriptor, alias string) {
	s.bindings = append(s.bindings, tableBinding{table: t, alias: alias})
}

// resolveQualified finds the table bound under the given alias or table name.
func (s *Scope) resolveQualified(qualifier string) (*TableDescriptor, bool) {
	upper := strings.ToUpper(qualifier)
	for _, b := range s.bindings {
		if strings.ToUpper(b.effectiveName()) == upper {
			return b.table, true
		}
	}
	return nil, false
}

// resolveColumn resolves an unqualified column name against every table
// bound in this scope. It reports the owning table, whether the column
// exists at all, and whether more than one bound table has a column of
// that name (ambiguous).
func (s *Scope) resolveColumn(column string) (owner *TableDescriptor, found bool, ambiguous bool) {
	for _, b := range s.bindings {
		if _, ok := b.table.Column(column); ok {
			if found {
				return owner, true, true
			}
			owner, found = b.table, true
		}
	}
	return owner, found, false
}
