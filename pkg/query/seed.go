package query

import "github.com/spa-lang/spa/pkg/pql"
import "github.com/spa-lang/spa/pkg/pkb"

// SeedDomain returns the full universe of values a synonym of the given
// design-entity kind may range over, before any clause has narrowed it.
func SeedDomain(kb *pkb.PKB, ent pql.DesignEnt) Domain {
	switch ent {
	case pql.EntStmt:
		return statementDomain(kb, -1)
	case pql.EntRead:
		return statementDomain(kb, int(pkb.KindRead))
	case pql.EntPrint:
		return statementDomain(kb, int(pkb.KindPrint))
	case pql.EntCall:
		return statementDomain(kb, int(pkb.KindCall))
	case pql.EntWhile:
		return statementDomain(kb, int(pkb.KindWhile))
	case pql.EntIf:
		return statementDomain(kb, int(pkb.KindIf))
	case pql.EntAssign:
		return statementDomain(kb, int(pkb.KindAssign))
	case pql.EntProgLine:
		return statementDomain(kb, -1)
	case pql.EntVariable:
		var out []Entry
		for name := range kb.Variables {
			out = append(out, NameEntry(name))
		}
		return NewDomain(out)
	case pql.EntConstant:
		var out []Entry
		for lit := range kb.Constants {
			out = append(out, NameEntry(lit))
		}
		return NewDomain(out)
	case pql.EntProcedure:
		var out []Entry
		for _, name := range kb.ProcOrder {
			out = append(out, NameEntry(name))
		}
		return NewDomain(out)
	default:
		return Domain{}
	}
}

// statementDomain returns every statement id, optionally restricted to a
// single pkb.StmtKind (kind < 0 means "every statement").
func statementDomain(kb *pkb.PKB, kind int) Domain {
	var out []Entry
	if kind < 0 {
		for id := 1; id <= kb.NumStatements(); id++ {
			out = append(out, NumEntry(id))
		}
		return NewDomain(out)
	}
	for _, id := range kb.StatementsByKind(pkb.StmtKind(kind)) {
		out = append(out, NumEntry(id))
	}
	return NewDomain(out)
}
