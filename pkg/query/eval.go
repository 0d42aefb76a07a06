package query

import (
	"fmt"

	"github.com/spa-lang/spa/pkg/cfg"
	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// Join is an accumulated pairing between two declarations' domains,
// produced whenever a Decl-R-Decl clause (or a with/pattern clause tying
// two declarations together) can't be resolved by narrowing a single
// domain. The join solver (§4.6) consumes these.
type Join struct {
	A, B  *pql.Declaration
	Pairs [][2]Entry
}

// state is the working evaluation context threaded through a query's
// clauses: all relation clauses, then all pattern clauses, then all with
// clauses, each list in the order it was parsed. Domains narrow monotonically; Joins accumulate; Failed is
// the internal sentinel that short-circuits the rest of the pipeline the
// moment any clause proves the whole query false.
type state struct {
	kb      *pkb.PKB
	g       *cfg.CFG
	domains map[*pql.Declaration]Domain
	joins   []Join
	failed  bool
}

func newState(kb *pkb.PKB, g *cfg.CFG, decls []*pql.Declaration) *state {
	domains := make(map[*pql.Declaration]Domain, len(decls))
	for _, d := range decls {
		domains[d] = SeedDomain(kb, d.Ent)
	}
	return &state{kb: kb, g: g, domains: domains}
}

func categoryMatches(cat category, ent pql.DesignEnt) bool {
	switch cat {
	case catStmt:
		return ent.IsStmtLike()
	case catProc:
		return ent == pql.EntProcedure
	case catVar:
		return ent == pql.EntVariable
	}
	return false
}

// refEntry resolves a concrete Ref to an Entry under the given category.
func refEntry(ref pql.Ref, cat category) Entry {
	if cat == catStmt {
		return NumEntry(ref.StmtNum)
	}
	return NameEntry(ref.Name)
}

// applyRelation implements §4.3's 3x3 dispatch for one relation clause.
func (st *state) applyRelation(rc pql.RelCond) error {
	if st.failed {
		return nil
	}
	rel, err := buildRelation(st.kb, st.g, rc)
	if err != nil {
		return err
	}
	if rc.Left.IsDeclaration() && !categoryMatches(rel.leftCat, rc.Left.Decl.Ent) {
		return fmt.Errorf("query: %s is the wrong design entity for this relation's first argument", rc.Left.Decl.Ent)
	}
	if rc.Right.IsDeclaration() && !categoryMatches(rel.rightCat, rc.Right.Decl.Ent) {
		return fmt.Errorf("query: %s is the wrong design entity for this relation's second argument", rc.Right.Decl.Ent)
	}
	return st.dispatch(rc.Left, rc.Right, rel)
}

// dispatch is the generic 3x3 matrix, shared by relation clauses and
// (via relation-shaped adapters) pattern clauses.
func (st *state) dispatch(left, right pql.Ref, rel relation) error {
	switch {
	case left.IsConcrete() && right.IsConcrete():
		if !rel.holds(refEntry(left, rel.leftCat), refEntry(right, rel.rightCat)) {
			st.failed = true
		}
		return nil

	case left.IsConcrete() && right.IsDeclaration():
		a := refEntry(left, rel.leftCat)
		st.narrow(right.Decl, NewDomain(rel.related(a)))
		return nil

	case left.IsDeclaration() && right.IsConcrete():
		b := refEntry(right, rel.rightCat)
		st.narrow(left.Decl, NewDomain(rel.invRelated(b)))
		return nil

	case left.IsDeclaration() && right.IsWildcard():
		st.narrow(left.Decl, st.domains[left.Decl].Filter(func(a Entry) bool { return len(rel.related(a)) > 0 }))
		return nil

	case left.IsWildcard() && right.IsDeclaration():
		st.narrow(right.Decl, st.domains[right.Decl].Filter(func(b Entry) bool { return len(rel.invRelated(b)) > 0 }))
		return nil

	case left.IsDeclaration() && right.IsDeclaration():
		st.joinDecls(left.Decl, right.Decl, rel)
		return nil

	case left.IsConcrete() && right.IsWildcard():
		if len(rel.related(refEntry(left, rel.leftCat))) == 0 {
			st.failed = true
		}
		return nil

	case left.IsWildcard() && right.IsConcrete():
		if len(rel.invRelated(refEntry(right, rel.rightCat))) == 0 {
			st.failed = true
		}
		return nil

	default: // Wildcard R Wildcard
		if !rel.exists() {
			st.failed = true
		}
		return nil
	}
}

// joinDecls is the Decl-R-Decl branch: same declaration on both sides is
// a reflexive filter (x ∈ related(x)); distinct declarations accumulate a
// Join and narrow both domains to the values that actually participated
// in some satisfying pair.
func (st *state) joinDecls(a, b *pql.Declaration, rel relation) {
	if a == b {
		st.narrow(a, st.domains[a].Filter(func(x Entry) bool {
			for _, y := range rel.related(x) {
				if y.equal(x) {
					return true
				}
			}
			return false
		}))
		return
	}

	rightDomain := st.domains[b]
	var newLeft []Entry
	var newRightSet = map[Entry]struct{}{}
	var pairs [][2]Entry
	for _, x := range st.domains[a].Values() {
		var matched []Entry
		for _, y := range rel.related(x) {
			if rightDomain.Has(y) {
				matched = append(matched, y)
			}
		}
		if len(matched) == 0 {
			continue
		}
		newLeft = append(newLeft, x)
		for _, y := range matched {
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
	st.joins = append(st.joins, Join{A: a, B: b, Pairs: pairs})
}

func (st *state) narrow(d *pql.Declaration, dom Domain) {
	st.domains[d] = dom
	if dom.Count() == 0 {
		st.failed = true
	}
}
