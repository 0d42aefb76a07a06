// Package cfg builds the Control-Flow Graph over a pkb.PKB's statements
// and answers Next/Next*, NextBip/NextBip*, Affects/Affects*, and
// AffectsBip/AffectsBip* queries against it.
//
// Build is a separate, sequential step after pkb.Extract returns, not
// folded into the extractor itself: the PKB is a passive container, and
// the CFG is graph-construction-plus-dataflow over that container,
// matching the shape of godoctor's extras/cfg package (basic blocks over
// an imperative AST, a worklist dataflow pass over the graph) adapted
// from Go source to SIMPLE statement-level vertices. Every computed
// reachability set is also cached onto the PKB's StatementRecord via its
// CFG memoisation accessors, so a second query for the same statement and
// relation is a map lookup.
package cfg

import (
	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/pkb"
)

// Inf marks "unreachable" in the Next* distance matrix.
const Inf = 1 << 30

type bipEdge struct {
	To     int
	Weight int
}

type gate struct {
	Entry int
	Exits map[int]struct{}
}

// CFG is the built control-flow graph for one PKB.
type CFG struct {
	kb *pkb.PKB
	n  int

	succ [][]int // 1-indexed; succ[id] = sorted Next successors
	pred [][]int

	dist [][]int // Floyd-Warshall distance matrix, Inf = unreachable

	bipSucc [][]bipEdge
	bipPred [][]bipEdge

	gates map[string]gate

	// callStmtsByProc maps a procedure name to the ids of call statements
	// lexically inside it (not the calls targeting it — that's
	// pkb.ProcedureRecord.CallStmts). Used only to seed the NextBip* call
	// stack.
	callStmtsByProc map[string][]int
}

// Build runs CFG construction (phase 4), NextBip wiring (phase 5), and
// the Floyd-Warshall transitive closure of Next (phase 6) over kb.
func Build(kb *pkb.PKB) (*CFG, error) {
	n := kb.NumStatements()
	c := &CFG{
		kb:   kb,
		n:    n,
		succ: make([][]int, n+1),
		pred: make([][]int, n+1),
		gates: make(map[string]gate, len(kb.Procedures)),
	}

	for _, procName := range kb.ProcOrder {
		proc := kb.Procedures[procName]
		c.buildList(proc.AST.Body, 0)
	}

	for id := 1; id <= n; id++ {
		sortInts(c.succ[id])
		sortInts(c.pred[id])
	}

	c.callStmtsByProc = map[string][]int{}
	for _, id := range kb.StatementsByKind(pkb.KindCall) {
		rec := kb.StatementAt(id)
		c.callStmtsByProc[rec.Proc.Name] = append(c.callStmtsByProc[rec.Proc.Name], id)
	}

	c.computeGates(kb)
	c.wireNextBip(kb)
	c.computeDistanceMatrix()

	return c, nil
}

// computeDistanceMatrix is CFG construction phase 6: a full Floyd-Warshall
// closure of Next, giving Next* as an O(1) distance lookup. Self-distance
// starts at Inf (not 0): a statement is only Next*-reachable from itself
// when relaxation finds an actual cycle back to it, matching the "strict
// reachability" decision recorded for the Next* reflexivity question.
func (c *CFG) computeDistanceMatrix() {
	n := c.n
	dist := make([][]int, n+1)
	for i := range dist {
		dist[i] = make([]int, n+1)
		for j := range dist[i] {
			dist[i][j] = Inf
		}
	}
	for i := 1; i <= n; i++ {
		for _, j := range c.succ[i] {
			dist[i][j] = 1
		}
	}
	for k := 1; k <= n; k++ {
		for i := 1; i <= n; i++ {
			if dist[i][k] == Inf {
				continue
			}
			for j := 1; j <= n; j++ {
				if dist[k][j] == Inf {
					continue
				}
				if nd := dist[i][k] + dist[k][j]; nd < dist[i][j] {
					dist[i][j] = nd
				}
			}
		}
	}
	c.dist = dist
}

// wireNextBip is CFG construction phase 5. It starts from a copy of every
// Next edge at weight 1, then for each call statement c targeting a
// procedure p: removes the direct weight-1 fall-through edge from c to its
// natural successor s (if any), adds (c -> entry(p)) at weight c+1, and
// adds (exit -> s) at weight c+1 for every leaf exit of p. A call with no
// natural successor (the last statement of its procedure) only gets the
// entry edge — there is nothing to return to from this call site.
func (c *CFG) wireNextBip(kb *pkb.PKB) {
	n := c.n
	c.bipSucc = make([][]bipEdge, n+1)
	c.bipPred = make([][]bipEdge, n+1)
	for id := 1; id <= n; id++ {
		for _, to := range c.succ[id] {
			c.addBipEdge(id, to, 1)
		}
	}

	for id := 1; id <= n; id++ {
		rec := kb.StatementAt(id)
		if rec.Kind != pkb.KindCall {
			continue
		}
		call := rec.AST.(*ast.CallStmt)
		g, ok := c.gates[call.Proc]
		if !ok {
			continue
		}
		var natural int
		if len(c.succ[id]) > 0 {
			natural = c.succ[id][0]
		}
		if natural != 0 {
			c.removeBipEdge(id, natural, 1)
		}
		c.addBipEdge(id, g.Entry, id+1)
		if natural != 0 {
			for exit := range g.Exits {
				c.addBipEdge(exit, natural, id+1)
			}
		}
	}
}

// addBipEdge records a directed edge; the pred-side entry's To field holds
// the edge's source, not its destination.
func (c *CFG) addBipEdge(from, to, weight int) {
	c.bipSucc[from] = append(c.bipSucc[from], bipEdge{To: to, Weight: weight})
	c.bipPred[to] = append(c.bipPred[to], bipEdge{To: from, Weight: weight})
}

func (c *CFG) removeBipEdge(from, to, weight int) {
	out := c.bipSucc[from][:0]
	for _, e := range c.bipSucc[from] {
		if e.To != to || e.Weight != weight {
			out = append(out, e)
		}
	}
	c.bipSucc[from] = out

	in := c.bipPred[to][:0]
	for _, e := range c.bipPred[to] {
		if e.To != from || e.Weight != weight {
			in = append(in, e)
		}
	}
	c.bipPred[to] = in
}

func (c *CFG) addEdge(from, to int) {
	c.succ[from] = append(c.succ[from], to)
	c.pred[to] = append(c.pred[to], from)
}

// natural returns the statement that would run immediately after the
// element at index i in list under ordinary fall-through, or checkpt if i
// is list's last element (0 if there is no checkpoint either, meaning the
// statement is terminal).
func natural(list *ast.StmtList, i int, checkpt int) int {
	if i+1 < len(list.Stmts) {
		return list.Stmts[i+1].StmtNum()
	}
	return checkpt
}

// buildList is CFG construction phase 4: recursively add Next edges for
// one statement list, given the checkpoint control returns to once the
// list finishes (0 at a procedure's top level).
func (c *CFG) buildList(list *ast.StmtList, checkpt int) {
	for i, stmt := range list.Stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt, *ast.ReadStmt, *ast.PrintStmt, *ast.CallStmt:
			if to := natural(list, i, checkpt); to != 0 {
				c.addEdge(stmt.StmtNum(), to)
			}
		case *ast.WhileStmt:
			c.addEdge(s.StmtNum(), s.Body.Stmts[0].StmtNum())
			c.buildList(s.Body, s.StmtNum())
			if to := natural(list, i, checkpt); to != 0 {
				c.addEdge(s.StmtNum(), to)
			}
		case *ast.IfStmt:
			c.addEdge(s.StmtNum(), s.Then.Stmts[0].StmtNum())
			c.addEdge(s.StmtNum(), s.Else.Stmts[0].StmtNum())
			after := natural(list, i, checkpt)
			c.buildList(s.Then, after)
			c.buildList(s.Else, after)
		}
	}
}

// computeGates populates entry/exits for every procedure (used only by
// NextBip wiring).
func (c *CFG) computeGates(kb *pkb.PKB) {
	for _, procName := range kb.ProcOrder {
		proc := kb.Procedures[procName]
		entry := proc.AST.Body.Stmts[0].StmtNum()
		exits := map[int]struct{}{}
		leavesOf(proc.AST.Body, exits)
		c.gates[procName] = gate{Entry: entry, Exits: exits}
		proc.Entry = entry
		proc.Exits = exits
	}
}

// leavesOf appends list's flattened leaf statement ids to out: if list's
// last statement is an If, both branches' leaves recursively contribute;
// otherwise the last statement itself (including a While, whose own id is
// the representative "exit" since the loop may run zero times) is a leaf.
func leavesOf(list *ast.StmtList, out map[int]struct{}) {
	last := list.Stmts[len(list.Stmts)-1]
	if ifs, ok := last.(*ast.IfStmt); ok {
		leavesOf(ifs.Then, out)
		leavesOf(ifs.Else, out)
		return
	}
	out[last.StmtNum()] = struct{}{}
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
