package cfg

import "github.com/spa-lang/spa/pkg/pkb"

// Next reports whether b may run immediately after a within one procedure.
func (c *CFG) Next(a, b int) bool {
	for _, s := range c.succ[a] {
		if s == b {
			return true
		}
	}
	return false
}

// NextStar reports intra-procedural reachability via the precomputed
// distance matrix. Next*(a, a) holds only when a lies on a cycle.
func (c *CFG) NextStar(a, b int) bool {
	return c.dist[a][b] < Inf
}

// NextSuccessors returns (and caches) the set of statements that may run
// immediately after stmt.
func (c *CFG) NextSuccessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.NextCache(); ok {
		return v
	}
	v := toSet(c.succ[stmt.ID])
	stmt.SetNextCache(v)
	return v
}

// NextPredecessors returns (and caches) the set of statements that may run
// immediately before stmt.
func (c *CFG) NextPredecessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.PrevCache(); ok {
		return v
	}
	v := toSet(c.pred[stmt.ID])
	stmt.SetPrevCache(v)
	return v
}

// NextStarSuccessors returns (and caches) the full Next*-reachable set from
// stmt, read off the distance matrix row.
func (c *CFG) NextStarSuccessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.NextStarCache(); ok {
		return v
	}
	v := map[int]struct{}{}
	row := c.dist[stmt.ID]
	for j := 1; j <= c.n; j++ {
		if row[j] < Inf {
			v[j] = struct{}{}
		}
	}
	stmt.SetNextStarCache(v)
	return v
}

// NextStarPredecessors returns (and caches) the full set of statements that
// can Next*-reach stmt, read off the distance matrix column.
func (c *CFG) NextStarPredecessors(stmt *pkb.StatementRecord) map[int]struct{} {
	if v, ok := stmt.PrevStarCache(); ok {
		return v
	}
	v := map[int]struct{}{}
	for i := 1; i <= c.n; i++ {
		if c.dist[i][stmt.ID] < Inf {
			v[i] = struct{}{}
		}
	}
	stmt.SetPrevStarCache(v)
	return v
}

func toSet(xs []int) map[int]struct{} {
	out := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		out[x] = struct{}{}
	}
	return out
}
