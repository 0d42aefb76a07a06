package pkb

import "github.com/spa-lang/spa/pkg/ast"

// Extract runs the design extractor over a parsed SIMPLE program: it
// validates the call graph, then populates every PKB record. It does not
// build the CFG — pkg/cfg.Build does that as a separate, sequential step
// over the returned PKB, since Next/NextBip/Affects are conceptually a
// distinct component from the passive PKB container (see the CFG
// construction phases in pkg/cfg).
func Extract(program *ast.Program) (*PKB, error) {
	p := &PKB{
		Program:    program,
		Procedures: map[string]*ProcedureRecord{},
		Variables:  map[string]*VariableRecord{},
		Constants:  map[string]struct{}{},
		ByKind:     map[StmtKind][]int{},
	}

	for _, proc := range program.Procedures {
		if _, exists := p.Procedures[proc.Name]; exists {
			return nil, ErrDuplicateProcedure.New(proc.Name)
		}
		p.Procedures[proc.Name] = newProcedureRecord(proc.Name, proc)
		p.ProcOrder = append(p.ProcOrder, proc.Name)
	}

	p.assignNumbers()

	topoOrder, err := p.buildCallGraph()
	if err != nil {
		return nil, err
	}

	for _, name := range topoOrder {
		proc := p.Procedures[name]
		p.walkStmtList(proc.AST.Body, proc, nil)
	}

	return p, nil
}

func (p *PKB) variable(name string) *VariableRecord {
	v, ok := p.Variables[name]
	if !ok {
		v = newVariableRecord(name)
		p.Variables[name] = v
	}
	return v
}

// walkStmtList is phase 3's single recursive traversal: it computes
// Follows/Parent (purely lexical, but recomputed here alongside
// Uses/Modifies rather than during numbering, since both need the same
// recursive structure) and Uses/Modifies (which need callees already
// finalised, hence the topological call order in Extract above).
// containers is the stack of enclosing If/While StatementRecords,
// outermost first.
func (p *PKB) walkStmtList(list *ast.StmtList, proc *ProcedureRecord, containers []*StatementRecord) {
	before := map[int]struct{}{}
	prevID := 0
	for _, stmt := range list.Stmts {
		rec := p.Statements[stmt.StmtNum()]
		rec.DirectlyBefore = prevID
		for id := range before {
			rec.Before[id] = struct{}{}
		}
		prevID = rec.ID
		before[rec.ID] = struct{}{}
	}

	// Second, right-to-left pass for DirectlyAfter/After.
	nextID := 0
	after := map[int]struct{}{}
	for i := len(list.Stmts) - 1; i >= 0; i-- {
		rec := p.Statements[list.Stmts[i].StmtNum()]
		rec.DirectlyAfter = nextID
		for id := range after {
			rec.After[id] = struct{}{}
		}
		nextID = rec.ID
		after[rec.ID] = struct{}{}
	}

	// Parent/ancestors and Uses/Modifies, left to right.
	for _, stmt := range list.Stmts {
		rec := p.Statements[stmt.StmtNum()]
		if len(containers) > 0 {
			top := containers[len(containers)-1]
			rec.Parent = top.ID
			top.Children[rec.ID] = struct{}{}
			for _, c := range containers {
				rec.Ancestors[c.ID] = struct{}{}
			}
		}
		for _, c := range containers {
			c.Descendants[rec.ID] = struct{}{}
		}

		switch s := stmt.(type) {
		case *ast.ReadStmt:
			p.addModifies(rec, containers, proc, s.Var)
		case *ast.PrintStmt:
			p.addUses(rec, containers, proc, s.Var, false)
		case *ast.AssignStmt:
			p.addModifies(rec, containers, proc, s.Var)
			for _, v := range ast.VarRefs(s.Rhs, nil) {
				p.addUses(rec, containers, proc, v, false)
			}
		case *ast.CallStmt:
			callee := p.Procedures[s.Proc]
			for v := range callee.Uses {
				p.addUses(rec, containers, proc, v, false)
			}
			for v := range callee.Modifies {
				p.addModifies(rec, containers, proc, v)
			}
		case *ast.IfStmt:
			for _, v := range ast.CondVarRefs(s.Cond, nil) {
				p.addUses(rec, containers, proc, v, true)
			}
			nested := append(append([]*StatementRecord{}, containers...), rec)
			p.walkStmtList(s.Then, proc, nested)
			p.walkStmtList(s.Else, proc, nested)
		case *ast.WhileStmt:
			for _, v := range ast.CondVarRefs(s.Cond, nil) {
				p.addUses(rec, containers, proc, v, true)
			}
			nested := append(append([]*StatementRecord{}, containers...), rec)
			p.walkStmtList(s.Body, proc, nested)
		}
	}
}

// addUses records that stmt reads v, propagating to every enclosing
// container, the enclosing procedure, and the variable record. isCond
// additionally records v in stmt's CondUses (If/While controlling
// expressions only).
func (p *PKB) addUses(stmt *StatementRecord, containers []*StatementRecord, proc *ProcedureRecord, v string, isCond bool) {
	stmt.Uses[v] = struct{}{}
	if isCond {
		stmt.CondUses[v] = struct{}{}
	}
	for _, c := range containers {
		c.Uses[v] = struct{}{}
	}
	proc.Uses[v] = struct{}{}
	vrec := p.variable(v)
	vrec.UsedByStmts[stmt.ID] = struct{}{}
	vrec.UsedByProcs[proc.Name] = struct{}{}
	if stmt.Kind == KindPrint {
		vrec.PrintStmts[stmt.ID] = struct{}{}
	}
}

func (p *PKB) addModifies(stmt *StatementRecord, containers []*StatementRecord, proc *ProcedureRecord, v string) {
	stmt.Modifies[v] = struct{}{}
	for _, c := range containers {
		c.Modifies[v] = struct{}{}
	}
	proc.Modifies[v] = struct{}{}
	vrec := p.variable(v)
	vrec.ModifiedByStmts[stmt.ID] = struct{}{}
	vrec.ModifiedByProcs[proc.Name] = struct{}{}
	if stmt.Kind == KindRead {
		vrec.ReadStmts[stmt.ID] = struct{}{}
	}
}
