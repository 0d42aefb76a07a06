package query

import (
	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// withValue is a resolved with-ref: either a literal Entry with no
// backing declaration, or an Entry paired with the declaration it was
// read off of (so joinDecls-style accumulation can narrow that
// declaration's domain).
type withValue struct {
	decl  *pql.Declaration // nil for a bare literal
	value Entry
}

func literalValue(wr pql.WithRef) Entry {
	if wr.HasInt {
		return NumEntry(wr.IntLit)
	}
	return NameEntry(wr.StrLit)
}

// attrOf resolves one entry of decl's domain to the attribute value
// named by attr, per §4.5's semantics table.
func attrOf(kb *pkb.PKB, decl *pql.Declaration, entry Entry, attr pql.AttrKind) Entry {
	switch attr {
	case pql.AttrStmtNum:
		return entry
	case pql.AttrProcName:
		if decl.Ent == pql.EntProcedure {
			return entry
		}
		return NameEntry(kb.StatementAt(entry.Num).AST.(*ast.CallStmt).Proc)
	case pql.AttrVarName:
		switch decl.Ent {
		case pql.EntVariable:
			return entry
		case pql.EntRead:
			return NameEntry(kb.StatementAt(entry.Num).AST.(*ast.ReadStmt).Var)
		default: // EntPrint
			return NameEntry(kb.StatementAt(entry.Num).AST.(*ast.PrintStmt).Var)
		}
	default: // AttrValue
		return entry
	}
}

// applyWith implements §4.5. Each side resolves to either a bare literal
// or a declaration's attribute projection; the three combinations mirror
// the relation abstractor's concrete/Decl dispatch, specialised because
// an attribute ref compares a *projection* of a domain value rather than
// the value itself.
func (st *state) applyWith(wc pql.WithCond) error {
	if st.failed {
		return nil
	}
	l := st.resolveWithRef(wc.Left)
	r := st.resolveWithRef(wc.Right)

	switch {
	case l.decl == nil && r.decl == nil:
		if !l.value.equal(r.value) {
			st.failed = true
		}
	case l.decl == nil && r.decl != nil:
		st.narrowByAttr(r.decl, wc.Right.Attr.Attr, l.value)
	case l.decl != nil && r.decl == nil:
		st.narrowByAttr(l.decl, wc.Left.Attr.Attr, r.value)
	default:
		st.joinByAttr(l.decl, wc.Left.Attr.Attr, r.decl, wc.Right.Attr.Attr)
	}
	return nil
}

// resolveWithRef only resolves literals eagerly; an attribute ref's value
// depends on which domain entry is chosen, so it is left unresolved here
// (decl set, value zero) and handled by narrowByAttr/joinByAttr instead.
func (st *state) resolveWithRef(wr pql.WithRef) withValue {
	if !wr.IsAttr {
		return withValue{value: literalValue(wr)}
	}
	return withValue{decl: wr.Attr.Decl}
}

func (st *state) narrowByAttr(decl *pql.Declaration, attr pql.AttrKind, lit Entry) {
	st.narrow(decl, st.domains[decl].Filter(func(e Entry) bool {
		return attrOf(st.kb, decl, e, attr).equal(lit)
	}))
}

func (st *state) joinByAttr(a *pql.Declaration, aAttr pql.AttrKind, b *pql.Declaration, bAttr pql.AttrKind) {
	if a == b && aAttr == bAttr {
		return // trivially true for every surviving entry
	}
	bDomain := st.domains[b]
	byValue := map[Entry][]Entry{}
	for _, y := range bDomain.Values() {
		v := attrOf(st.kb, b, y, bAttr)
		byValue[v] = append(byValue[v], y)
	}

	var newLeft []Entry
	newRightSet := map[Entry]struct{}{}
	var pairs [][2]Entry
	for _, x := range st.domains[a].Values() {
		v := attrOf(st.kb, a, x, aAttr)
		matches := byValue[v]
		if len(matches) == 0 {
			continue
		}
		newLeft = append(newLeft, x)
		for _, y := range matches {
			pairs = append(pairs, [2]Entry{x, y})
			newRightSet[y] = struct{}{}
		}
	}
	var newRight []Entry
	for y := range newRightSet {
		newRight = append(newRight, y)
	}
	st.narrow(a, NewDomain(newLeft))
	st.narrow(b, NewDomain(newRight))
	if len(pairs) == 0 {
		st.failed = true
		return
	}
	if a != b {
		st.joins = append(st.joins, Join{A: a, B: b, Pairs: pairs})
	}
}
