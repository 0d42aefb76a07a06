package cfg

import (
	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/pkb"
)

// DoesAffect implements doesAffect(a, b): both must be assign statements,
// Next*(a, b) must hold, and a's single modified variable v must reach b's
// use of it along some Next path with no intervening modification of v.
// The visited set is keyed on statement id only, not (id, v) — correct
// because this asks existence, not how many paths carry v.
func (c *CFG) DoesAffect(kb *pkb.PKB, a, b int) bool {
	recA, recB := kb.StatementAt(a), kb.StatementAt(b)
	if recA.Kind != pkb.KindAssign || recB.Kind != pkb.KindAssign {
		return false
	}
	if !c.NextStar(a, b) {
		return false
	}
	v := recA.AST.(*ast.AssignStmt).Var
	if _, usesV := recB.Uses[v]; !usesV {
		return false
	}

	visited := map[int]struct{}{}
	queue := append([]int{}, c.succ[a]...)
	for _, s := range queue {
		visited[s] = struct{}{}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == b {
			return true
		}
		if directlyModifies(kb.StatementAt(n), v) {
			continue
		}
		for _, s := range c.succ[n] {
			if _, ok := visited[s]; !ok {
				visited[s] = struct{}{}
				queue = append(queue, s)
			}
		}
	}
	return false
}

// AffectedStatements is getAffectedStatements(a), memoised: iterate
// Next*(a, *) and keep the candidates DoesAffect confirms.
func (c *CFG) AffectedStatements(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsCache(); ok {
		return v
	}
	out := map[int]struct{}{}
	for other := range c.NextStarSuccessors(stmt) {
		if c.DoesAffect(kb, stmt.ID, other) {
			out[other] = struct{}{}
		}
	}
	stmt.SetAffectsCache(out)
	return out
}

// AffectedByStatements is the inverse of AffectedStatements: statements
// that affect stmt.
func (c *CFG) AffectedByStatements(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectedByCache(); ok {
		return v
	}
	out := map[int]struct{}{}
	for other := range c.NextStarPredecessors(stmt) {
		if c.DoesAffect(kb, other, stmt.ID) {
			out[other] = struct{}{}
		}
	}
	stmt.SetAffectedByCache(out)
	return out
}

func (c *CFG) Affects(kb *pkb.PKB, a, b int) bool {
	_, ok := c.AffectedStatements(kb, kb.StatementAt(a))[b]
	return ok
}

// AffectsStarSuccessors is doesTransitivelyAffect's successor set: BFS over
// the "affected" relation, memoised on stmt.
func (c *CFG) AffectsStarSuccessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsStarCache(); ok {
		return v
	}
	visited := map[int]struct{}{}
	queue := []int{stmt.ID}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for m := range c.AffectedStatements(kb, kb.StatementAt(n)) {
			if _, ok := visited[m]; !ok {
				visited[m] = struct{}{}
				queue = append(queue, m)
			}
		}
	}
	stmt.SetAffectsStarCache(visited)
	return visited
}

func (c *CFG) AffectsStarPredecessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectedByStarCache(); ok {
		return v
	}
	visited := map[int]struct{}{}
	queue := []int{stmt.ID}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for m := range c.AffectedByStatements(kb, kb.StatementAt(n)) {
			if _, ok := visited[m]; !ok {
				visited[m] = struct{}{}
				queue = append(queue, m)
			}
		}
	}
	stmt.SetAffectedByStarCache(visited)
	return visited
}

func (c *CFG) AffectsStar(kb *pkb.PKB, a, b int) bool {
	_, ok := c.AffectsStarSuccessors(kb, kb.StatementAt(a))[b]
	return ok
}
