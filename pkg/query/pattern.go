package query

import (
	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/match"
	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// applyPattern implements §4.4. The entity half (lhs variable for an
// assign pattern, condition_uses membership for a while/if pattern) is
// expressed as an ordinary Decl-R-Ref relation clause and run through the
// same dispatch the relation abstractor uses, since both are "narrow pc's
// domain, possibly joining against a variable declaration" in exactly the
// same shape as §4.3. The assign pattern's expr-spec is then applied as a
// further domain filter (the join solver's trim step, §4.6, takes care
// of dropping any join pairs this filter invalidates).
func (st *state) applyPattern(pc pql.PatternCond) error {
	if st.failed {
		return nil
	}
	switch pc.Decl.Ent {
	case pql.EntAssign:
		if err := st.dispatch(pql.DeclRef(pc.Decl), pc.Entity, lhsRelation(st.kb)); err != nil {
			return err
		}
		if st.failed || pc.ExprSpec.Wildcard {
			return nil
		}
		st.narrow(pc.Decl, st.domains[pc.Decl].Filter(func(e Entry) bool {
			rhs := st.kb.StatementAt(e.Num).AST.(*ast.AssignStmt).Rhs
			if pc.ExprSpec.IsSubExpr {
				return match.Partial(pc.ExprSpec.Expr, rhs)
			}
			return match.Exact(pc.ExprSpec.Expr, rhs)
		}))
		return nil

	case pql.EntWhile, pql.EntIf:
		return st.dispatch(pql.DeclRef(pc.Decl), pc.Entity, condUsesRelation(st.kb))

	default:
		return nil
	}
}

// lhsRelation: holds(s, v) iff assign statement s's lhs variable is v.
func lhsRelation(kb *pkb.PKB) relation {
	lhs := func(s int) string { return kb.StatementAt(s).AST.(*ast.AssignStmt).Var }
	return relation{
		leftCat:  catStmt,
		rightCat: catVar,
		holds:    func(a, b Entry) bool { return lhs(a.Num) == b.Name },
		related:  func(a Entry) []Entry { return []Entry{NameEntry(lhs(a.Num))} },
		invRelated: func(b Entry) []Entry {
			v, ok := kb.Variable(b.Name)
			if !ok {
				return nil
			}
			return toNumEntries(v.ModifiedByStmtsOfKind(kb, pkb.KindAssign))
		},
		exists: func() bool { return len(kb.StatementsByKind(pkb.KindAssign)) > 0 },
	}
}

// condUsesRelation: holds(s, v) iff v is read by if/while statement s's
// controlling expression.
func condUsesRelation(kb *pkb.PKB) relation {
	return relation{
		leftCat:  catStmt,
		rightCat: catVar,
		holds: func(a, b Entry) bool {
			_, ok := kb.StatementAt(a.Num).CondUses[b.Name]
			return ok
		},
		related: func(a Entry) []Entry {
			return toNameEntries(setStrings(kb.StatementAt(a.Num).CondUses))
		},
		invRelated: func(b Entry) []Entry {
			var out []int
			for id := 1; id <= kb.NumStatements(); id++ {
				if _, ok := kb.StatementAt(id).CondUses[b.Name]; ok {
					out = append(out, id)
				}
			}
			return toNumEntries(out)
		},
		exists: func() bool {
			for id := 1; id <= kb.NumStatements(); id++ {
				if len(kb.StatementAt(id).CondUses) > 0 {
					return true
				}
			}
			return false
		},
	}
}
