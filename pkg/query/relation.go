package query

import (
	"fmt"

	"github.com/spa-lang/spa/pkg/cfg"
	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// category classifies the universe one side of a relation ranges over:
// statement ids, procedure names, or variable names. It drives how a
// concrete Ref (NameRef vs StmtNumRef) and a declaration's DesignEnt are
// validated and converted to/from Entry.
type category int

const (
	catStmt category = iota
	catProc
	catVar
)

// relation bundles the five operations §4.3 asks the generic abstractor
// for, already bound to one concrete relation instance (kb, cfg, and —
// for Uses/Modifies — which side is statement-like vs procedure-like).
type relation struct {
	leftCat, rightCat category
	holds             func(a, b Entry) bool
	related           func(a Entry) []Entry
	invRelated        func(b Entry) []Entry
	exists            func() bool
}

// buildRelation constructs the relation ops for one RelCond, resolving
// Uses/Modifies' statement-vs-procedure specialisation from the clause's
// actual Left argument (concrete NameRef/StmtNumRef, or a declaration's
// DesignEnt) — the rest of the relation kinds have a fixed category on
// each side.
func buildRelation(kb *pkb.PKB, g *cfg.CFG, rc pql.RelCond) (relation, error) {
	switch rc.Rel {
	case pql.RelFollows:
		return stmtRelation(func(a, b int) bool { return kb.StatementAt(a).DirectlyAfter == b },
			func(a int) []int { return oneOrNone(kb.StatementAt(a).DirectlyAfter) },
			func(b int) []int { return oneOrNone(kb.StatementAt(b).DirectlyBefore) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return r.DirectlyAfter != 0 }) }), nil

	case pql.RelFollowsT:
		return stmtRelation(func(a, b int) bool { _, ok := kb.StatementAt(a).After[b]; return ok },
			func(a int) []int { return setInts(kb.StatementAt(a).After) },
			func(b int) []int { return setInts(kb.StatementAt(b).Before) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(r.After) > 0 }) }), nil

	case pql.RelParent:
		return stmtRelation(func(a, b int) bool { return kb.StatementAt(b).Parent == a },
			func(a int) []int { return setInts(kb.StatementAt(a).Children) },
			func(b int) []int { return oneOrNone(kb.StatementAt(b).Parent) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(r.Children) > 0 }) }), nil

	case pql.RelParentT:
		return stmtRelation(func(a, b int) bool { _, ok := kb.StatementAt(b).Ancestors[a]; return ok },
			func(a int) []int { return setInts(kb.StatementAt(a).Descendants) },
			func(b int) []int { return setInts(kb.StatementAt(b).Ancestors) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(r.Descendants) > 0 }) }), nil

	case pql.RelCalls:
		return procRelation(func(a, b string) bool { _, ok := kb.Procedures[a].Calls[b]; return ok },
			func(a string) []string { return setStrings(kb.Procedures[a].Calls) },
			func(b string) []string { return setStrings(kb.Procedures[b].CalledBy) },
			func() bool { return anyProc(kb, func(r *pkb.ProcedureRecord) bool { return len(r.Calls) > 0 }) }), nil

	case pql.RelCallsT:
		return procRelation(func(a, b string) bool { _, ok := kb.Procedures[a].CallsTransitive[b]; return ok },
			func(a string) []string { return setStrings(kb.Procedures[a].CallsTransitive) },
			func(b string) []string { return setStrings(kb.Procedures[b].CalledByTransitive) },
			func() bool { return anyProc(kb, func(r *pkb.ProcedureRecord) bool { return len(r.CallsTransitive) > 0 }) }), nil

	case pql.RelNext:
		return stmtRelation(func(a, b int) bool { return g.Next(a, b) },
			func(a int) []int { return setInts(g.NextSuccessors(kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.NextPredecessors(kb.StatementAt(b))) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.NextSuccessors(r)) > 0 }) }), nil

	case pql.RelNextT:
		return stmtRelation(func(a, b int) bool { return g.NextStar(a, b) },
			func(a int) []int { return setInts(g.NextStarSuccessors(kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.NextStarPredecessors(kb.StatementAt(b))) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.NextStarSuccessors(r)) > 0 }) }), nil

	case pql.RelAffects:
		return stmtRelation(func(a, b int) bool { return g.Affects(kb, a, b) },
			func(a int) []int { return setInts(g.AffectedStatements(kb, kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.AffectedByStatements(kb, kb.StatementAt(b))) },
			func() bool {
				return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.AffectedStatements(kb, r)) > 0 })
			}), nil

	case pql.RelAffectsT:
		return stmtRelation(func(a, b int) bool { return g.AffectsStar(kb, a, b) },
			func(a int) []int { return setInts(g.AffectsStarSuccessors(kb, kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.AffectsStarPredecessors(kb, kb.StatementAt(b))) },
			func() bool {
				return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.AffectsStarSuccessors(kb, r)) > 0 })
			}), nil

	case pql.RelNextBip:
		return stmtRelation(func(a, b int) bool { return g.NextBip(a, b) },
			func(a int) []int { return setInts(g.NextBipSuccessors(kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.NextBipPredecessors(kb.StatementAt(b))) },
			func() bool { return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.NextBipSuccessors(r)) > 0 }) }), nil

	case pql.RelNextBipT:
		return stmtRelation(func(a, b int) bool { return g.NextBipStar(kb, a, b) },
			func(a int) []int { return setInts(g.NextBipStarSuccessors(kb, kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.NextBipStarPredecessors(kb, kb.StatementAt(b))) },
			func() bool {
				return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.NextBipStarSuccessors(kb, r)) > 0 })
			}), nil

	case pql.RelAffectsBip:
		return stmtRelation(func(a, b int) bool { return g.AffectsBip(kb, a, b) },
			func(a int) []int { return setInts(g.AffectsBipStatements(kb, kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.AffectsBipByStatements(kb, kb.StatementAt(b))) },
			func() bool {
				return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.AffectsBipStatements(kb, r)) > 0 })
			}), nil

	case pql.RelAffectsBipT:
		return stmtRelation(func(a, b int) bool { return g.AffectsBipStar(kb, a, b) },
			func(a int) []int { return setInts(g.AffectsBipStarSuccessors(kb, kb.StatementAt(a))) },
			func(b int) []int { return setInts(g.AffectsBipStarPredecessors(kb, kb.StatementAt(b))) },
			func() bool {
				return anyStmt(kb, func(r *pkb.StatementRecord) bool { return len(g.AffectsBipStarSuccessors(kb, r)) > 0 })
			}), nil

	case pql.RelUses:
		return usesModifiesRelation(kb, rc.Left, true)
	case pql.RelModifies:
		return usesModifiesRelation(kb, rc.Left, false)
	}
	return relation{}, fmt.Errorf("query: unknown relation type %v", rc.Rel)
}

// usesModifiesRelation builds the Uses/Modifies specialisation: the left
// side is statement-like or procedure-like depending on how the clause's
// actual Left ref resolves — a NameRef is unambiguously a procedure
// (UsesP/ModifiesP), a StmtNumRef or a stmt-like declaration is
// unambiguously a statement (UsesS/ModifiesS). A Wildcard on the left is
// forbidden — `Uses(_, v)` cannot tell which specialisation applies.
func usesModifiesRelation(kb *pkb.PKB, left pql.Ref, isUses bool) (relation, error) {
	leftIsProc := false
	switch left.Kind {
	case pql.RefWildcard:
		return relation{}, fmt.Errorf("query: wildcard not allowed as the first argument of Uses/Modifies")
	case pql.RefConcrete:
		leftIsProc = left.Name != ""
	case pql.RefDeclaration:
		if left.Decl.Ent == pql.EntProcedure {
			leftIsProc = true
		} else if !left.Decl.Ent.IsStmtLike() {
			return relation{}, fmt.Errorf("query: %s is not a valid first argument of Uses/Modifies", left.Decl.Ent)
		}
	}

	if leftIsProc {
		get := func(p string) map[string]struct{} {
			if isUses {
				return kb.Procedures[p].Uses
			}
			return kb.Procedures[p].Modifies
		}
		return relation{
			leftCat:  catProc,
			rightCat: catVar,
			holds: func(a, b Entry) bool {
				_, ok := get(a.Name)[b.Name]
				return ok
			},
			related: func(a Entry) []Entry { return toNameEntries(setStrings(get(a.Name))) },
			invRelated: func(b Entry) []Entry {
				var out []Entry
				for name := range kb.Procedures {
					if _, ok := get(name)[b.Name]; ok {
						out = append(out, NameEntry(name))
					}
				}
				return out
			},
			exists: func() bool {
				for _, p := range kb.Procedures {
					if len(get(p.Name)) > 0 {
						return true
					}
				}
				return false
			},
		}, nil
	}

	get := func(s int) map[string]struct{} {
		if isUses {
			return kb.StatementAt(s).Uses
		}
		return kb.StatementAt(s).Modifies
	}
	return relation{
		leftCat:  catStmt,
		rightCat: catVar,
		holds: func(a, b Entry) bool {
			_, ok := get(a.Num)[b.Name]
			return ok
		},
		related: func(a Entry) []Entry { return toNameEntries(setStrings(get(a.Num))) },
		invRelated: func(b Entry) []Entry {
			var out []Entry
			for id := 1; id <= kb.NumStatements(); id++ {
				if _, ok := get(id)[b.Name]; ok {
					out = append(out, NumEntry(id))
				}
			}
			return out
		},
		exists: func() bool {
			for id := 1; id <= kb.NumStatements(); id++ {
				if len(get(id)) > 0 {
					return true
				}
			}
			return false
		},
	}, nil
}

// stmtRelation adapts a pair of int-keyed holds/related functions (the
// natural shape for every statement-to-statement relation) into the
// Entry-keyed relation interface the generic abstractor uses.
func stmtRelation(holds func(a, b int) bool, related, invRelated func(a int) []int, exists func() bool) relation {
	return relation{
		leftCat:  catStmt,
		rightCat: catStmt,
		holds:    func(a, b Entry) bool { return holds(a.Num, b.Num) },
		related:  func(a Entry) []Entry { return toNumEntries(related(a.Num)) },
		invRelated: func(b Entry) []Entry { return toNumEntries(invRelated(b.Num)) },
		exists:   exists,
	}
}

func procRelation(holds func(a, b string) bool, related, invRelated func(a string) []string, exists func() bool) relation {
	return relation{
		leftCat:  catProc,
		rightCat: catProc,
		holds:    func(a, b Entry) bool { return holds(a.Name, b.Name) },
		related:  func(a Entry) []Entry { return toNameEntries(related(a.Name)) },
		invRelated: func(b Entry) []Entry { return toNameEntries(invRelated(b.Name)) },
		exists:   exists,
	}
}

func oneOrNone(id int) []int {
	if id == 0 {
		return nil
	}
	return []int{id}
}

func setInts(s map[int]struct{}) []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

func setStrings(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	return out
}

func toNumEntries(xs []int) []Entry {
	out := make([]Entry, len(xs))
	for i, x := range xs {
		out[i] = NumEntry(x)
	}
	return out
}

func toNameEntries(xs []string) []Entry {
	out := make([]Entry, len(xs))
	for i, x := range xs {
		out[i] = NameEntry(x)
	}
	return out
}

func anyStmt(kb *pkb.PKB, pred func(*pkb.StatementRecord) bool) bool {
	for id := 1; id <= kb.NumStatements(); id++ {
		if pred(kb.StatementAt(id)) {
			return true
		}
	}
	return false
}

func anyProc(kb *pkb.PKB, pred func(*pkb.ProcedureRecord) bool) bool {
	for _, p := range kb.Procedures {
		if pred(p) {
			return true
		}
	}
	return false
}
