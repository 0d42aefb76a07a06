package cfg

import "github.com/spa-lang/spa/pkg/pkb"

// NextBip reports whether a single bip edge (of any weight) connects a to
// b. Unlike the star variant, no call-stack discipline is needed: a lone
// edge is, by construction, always a individually valid call or return.
func (c *CFG) NextBip(a, b int) bool {
	for _, e := range c.bipSucc[a] {
		if e.To == b {
			return true
		}
	}
	return false
}

// NextBipSuccessors returns (and caches) stmt's direct bip successors.
func (c *CFG) NextBipSuccessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.NextBipCache(); ok {
		return v
	}
	v := map[int]struct{}{}
	for _, e := range c.bipSucc[stmt.ID] {
		v[e.To] = struct{}{}
	}
	stmt.SetNextBipCache(v)
	return v
}

// NextBipPredecessors returns (and caches) stmt's direct bip predecessors.
func (c *CFG) NextBipPredecessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.PrevBipCache(); ok {
		return v
	}
	v := map[int]struct{}{}
	for _, e := range c.bipPred[stmt.ID] {
		v[e.To] = struct{}{}
	}
	stmt.SetPrevBipCache(v)
	return v
}

// callStackSeed is the over-approximate initial call stack used by
// NextBip*/AffectsBip* traversals starting at id: every call statement
// lexically inside any calls_transitive caller of id's enclosing
// procedure, union that procedure's own call statements. This computes
// "exists some calling context" reachability, not "some one concrete
// path" — the dominant interpretation recorded for the NextBip
// call-stack-seeding open question.
func (c *CFG) callStackSeed(kb *pkb.PKB, id int) map[int]struct{} {
	procName := kb.StatementAt(id).Proc.Name
	seed := map[int]struct{}{}
	add := func(name string) {
		for _, cs := range c.callStmtsByProc[name] {
			seed[cs] = struct{}{}
		}
	}
	add(procName)
	for callerName, callerProc := range kb.Procedures {
		if _, ok := callerProc.CallsTransitive[procName]; ok {
			add(callerName)
		}
	}
	return seed
}

// bipSaturate computes, from a starting node, the set of nodes reachable
// by repeatedly walking edges whose direction is given by adj, honouring
// the call-stack discipline: a weight-1 edge is always followable; a
// weight-k (k>1) edge is followable only once (k-1) is in the active set.
// Visiting a call statement adds it to active. Because active only grows,
// a fixed-point loop over full BFS passes converges and is simpler to
// reason about than threading per-path stacks through a single pass.
func bipSaturate(kb *pkb.PKB, adj [][]bipEdge, start int, active map[int]struct{}) map[int]struct{} {
	visited := map[int]struct{}{}
	changed := true
	for changed {
		changed = false
		seen := map[int]struct{}{start: {}}
		queue := []int{start}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			if u != start {
				if _, ok := visited[u]; !ok {
					visited[u] = struct{}{}
					changed = true
				}
			}
			if kb.StatementAt(u).Kind == pkb.KindCall {
				if _, ok := active[u]; !ok {
					active[u] = struct{}{}
					changed = true
				}
			}
			for _, e := range adj[u] {
				if e.Weight > 1 {
					if _, ok := active[e.Weight-1]; !ok {
						continue
					}
				}
				if e.To == start {
					if _, ok := visited[start]; !ok {
						visited[start] = struct{}{}
						changed = true
					}
				}
				if _, ok := seen[e.To]; !ok {
					seen[e.To] = struct{}{}
					queue = append(queue, e.To)
				}
			}
		}
	}
	return visited
}

// NextBipStarSuccessors is isStatementTransitivelyNextBip's successor set,
// memoised on stmt. The starting statement is included only when some bip
// path leads back to it (strict transitive reachability).
func (c *CFG) NextBipStarSuccessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.NextBipStarCache(); ok {
		return v
	}
	active := c.callStackSeed(kb, stmt.ID)
	v := bipSaturate(kb, c.bipSucc, stmt.ID, active)
	stmt.SetNextBipStarCache(v)
	return v
}

// NextBipStarPredecessors is the inverse of NextBipStarSuccessors, walked
// over bip predecessor edges with the same call-stack discipline.
func (c *CFG) NextBipStarPredecessors(kb *pkb.PKB, stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.PrevBipStarCache(); ok {
		return v
	}
	active := c.callStackSeed(kb, stmt.ID)
	v := bipSaturate(kb, c.bipPred, stmt.ID, active)
	stmt.SetPrevBipStarCache(v)
	return v
}

func (c *CFG) NextBipStar(kb *pkb.PKB, a, b int) bool {
	_, ok := c.NextBipStarSuccessors(kb, kb.StatementAt(a))[b]
	return ok
}
