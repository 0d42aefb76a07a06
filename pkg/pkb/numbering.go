package pkb

import "github.com/spa-lang/spa/pkg/ast"

// assignNumbers is extractor phase 1: walk the program in source order —
// procedures in declaration order, each procedure's body recursively in
// source order — assigning dense 1-based statement ids and allocating
// each statement's StatementRecord. Container parent/ancestor/Follows
// computation happens later, in the topological pass (phase 3), since
// those need per-procedure bookkeeping this phase doesn't carry; here we
// only need ids to be monotonic within a procedure and across the
// program, which a pure source-order walk guarantees regardless of call
// structure.
func (p *PKB) assignNumbers() {
	next := 1
	for _, proc := range p.Program.Procedures {
		rec := p.Procedures[proc.Name]
		next = p.numberList(proc.Body, rec, next)
	}
	// Statements[0] is the unused sentinel slot so ids double as indices.
	p.Statements = append([]*StatementRecord{nil}, p.Statements...)
}

func (p *PKB) numberList(list *ast.StmtList, proc *ProcedureRecord, next int) int {
	for _, stmt := range list.Stmts {
		ast.SetStmtNum(stmt, next)
		rec := &StatementRecord{
			ID:       next,
			AST:      stmt,
			Kind:     kindOf(stmt),
			Proc:     proc,
			Uses:     map[string]struct{}{},
			Modifies: map[string]struct{}{},
			CondUses: map[string]struct{}{},
			Before:   map[int]struct{}{},
			After:    map[int]struct{}{},
			Children: map[int]struct{}{},
			Ancestors: map[int]struct{}{},
			Descendants: map[int]struct{}{},
		}
		p.Statements = append(p.Statements, rec)
		p.ByKind[rec.Kind] = append(p.ByKind[rec.Kind], next)
		p.collectConstants(stmt)
		next++

		switch s := stmt.(type) {
		case *ast.IfStmt:
			next = p.numberList(s.Then, proc, next)
			next = p.numberList(s.Else, proc, next)
		case *ast.WhileStmt:
			next = p.numberList(s.Body, proc, next)
		}
	}
	return next
}

func (p *PKB) collectConstants(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		collectExprConstants(s.Rhs, p.Constants)
	case *ast.IfStmt:
		collectCondConstants(s.Cond, p.Constants)
	case *ast.WhileStmt:
		collectCondConstants(s.Cond, p.Constants)
	}
}

func collectExprConstants(e ast.Expr, out map[string]struct{}) {
	switch n := e.(type) {
	case ast.Constant:
		out[n.Value] = struct{}{}
	case ast.BinaryExpr:
		collectExprConstants(n.Lhs, out)
		collectExprConstants(n.Rhs, out)
	}
}

func collectCondConstants(c ast.CondExpr, out map[string]struct{}) {
	switch n := c.(type) {
	case ast.RelExpr:
		collectExprConstants(n.Lhs, out)
		collectExprConstants(n.Rhs, out)
	case ast.NotExpr:
		collectCondConstants(n.Cond, out)
	case ast.BoolExpr:
		collectCondConstants(n.Lhs, out)
		collectCondConstants(n.Rhs, out)
	}
}
