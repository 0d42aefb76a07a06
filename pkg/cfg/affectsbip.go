package cfg

import (
	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/pkb"
)

// DoesAffectBip is DoesAffect's inter-procedural counterpart: the carrying
// path walks bip edges under the same call-stack discipline NextBip* uses,
// rather than plain Next edges.
func (c *CFG) DoesAffectBip(kb *pkb.PKB, a, b int) bool {
	recA, recB := kb.StatementAt(a), kb.StatementAt(b)
	if recA.Kind != pkb.KindAssign || recB.Kind != pkb.KindAssign {
		return false
	}
	v := recA.AST.(*ast.AssignStmt).Var
	if _, usesV := recB.Uses[v]; !usesV {
		return false
	}

	active := c.callStackSeed(kb, a)
	visited := map[int]struct{}{a: {}}
	reached := false
	changed := true
	for changed {
		changed = false
		queue := make([]int, 0, len(visited))
		for n := range visited {
			queue = append(queue, n)
		}
		for _, n := range queue {
			if n != a && directlyModifiesBip(kb.StatementAt(n), v) {
				continue
			}
			if kb.StatementAt(n).Kind == pkb.KindCall {
				if _, ok := active[n]; !ok {
					active[n] = struct{}{}
					changed = true
				}
			}
			for _, e := range c.bipSucc[n] {
				if e.Weight > 1 {
					if _, ok := active[e.Weight-1]; !ok {
						continue
					}
				}
				if e.To == b {
					reached = true
				}
				if _, ok := visited[e.To]; !ok {
					visited[e.To] = struct{}{}
					changed = true
				}
			}
		}
	}
	return reached
}

// AffectsBipStatements is getAffectedStatements' Bip counterpart. Unlike
// AffectedStatements it cannot restrict candidates to a precomputed
// NextBip* row cheaply (that set itself needs the same saturation), so it
// scans every assign statement.
func (c *CFG) AffectsBipStatements(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsBipCache(); ok {
		return v
	}
	out := map[int]struct{}{}
	for _, other := range kb.StatementsByKind(pkb.KindAssign) {
		if other != stmt.ID && c.DoesAffectBip(kb, stmt.ID, other) {
			out[other] = struct{}{}
		}
	}
	stmt.SetAffectsBipCache(out)
	return out
}

func (c *CFG) AffectsBipByStatements(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsBipByCache(); ok {
		return v
	}
	out := map[int]struct{}{}
	for _, other := range kb.StatementsByKind(pkb.KindAssign) {
		if other != stmt.ID && c.DoesAffectBip(kb, other, stmt.ID) {
			out[other] = struct{}{}
		}
	}
	stmt.SetAffectsBipByCache(out)
	return out
}

func (c *CFG) AffectsBip(kb *pkb.PKB, a, b int) bool {
	_, ok := c.AffectsBipStatements(kb, kb.StatementAt(a))[b]
	return ok
}

func (c *CFG) AffectsBipStarSuccessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsBipStarCache(); ok {
		return v
	}
	visited := map[int]struct{}{}
	queue := []int{stmt.ID}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for m := range c.AffectsBipStatements(kb, kb.StatementAt(n)) {
			if _, ok := visited[m]; !ok {
				visited[m] = struct{}{}
				queue = append(queue, m)
			}
		}
	}
	stmt.SetAffectsBipStarCache(visited)
	return visited
}

func (c *CFG) AffectsBipStarPredecessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.AffectsBipByStarCache(); ok {
		return v
	}
	visited := map[int]struct{}{}
	queue := []int{stmt.ID}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for m := range c.AffectsBipByStatements(kb, kb.StatementAt(n)) {
			if _, ok := visited[m]; !ok {
				visited[m] = struct{}{}
				queue = append(queue, m)
			}
		}
	}
	stmt.SetAffectsBipByStarCache(visited)
	return visited
}

func (c *CFG) AffectsBipStar(kb *pkb.PKB, a, b int) bool {
	_, ok := c.AffectsBipStarSuccessors(kb, kb.StatementAt(a))[b]
	return ok
}
