package pkb

import "github.com/spa-lang/spa/pkg/ast"

type dfsColor int

const (
	white dfsColor = iota
	grey
	black
)

// buildCallGraph is extractor phase 2: walk each procedure body collecting
// call edges, validating every callee exists, then run a three-colour DFS
// over the call graph to reject cycles and produce a post-order — which
// doubles as the topological order phase 3 traverses procedures in
// (callees finished before their callers).
func (p *PKB) buildCallGraph() ([]string, error) {
	// Register call edges and per-target call-statement ids.
	for _, procName := range p.ProcOrder {
		proc := p.Procedures[procName]
		var err error
		walkCalls(proc.AST.Body, func(c *ast.CallStmt) {
			if err != nil {
				return
			}
			callee, ok := p.Procedures[c.Proc]
			if !ok {
				err = ErrUndefinedProcedure.New(c.Proc)
				return
			}
			proc.Calls[callee.Name] = struct{}{}
			callee.CalledBy[proc.Name] = struct{}{}
			callee.CallStmts[c.StmtNum()] = struct{}{}
		})
		if err != nil {
			return nil, err
		}
	}

	color := make(map[string]dfsColor, len(p.ProcOrder))
	var postOrder []string
	var visit func(name string) error
	visit = func(name string) error {
		color[name] = grey
		proc := p.Procedures[name]
		for callee := range proc.Calls {
			switch color[callee] {
			case white:
				if err := visit(callee); err != nil {
					return err
				}
			case grey:
				return ErrCyclicCall.New(callee)
			case black:
				// already finished, fine
			}
		}
		color[name] = black
		postOrder = append(postOrder, name)
		return nil
	}
	for _, name := range p.ProcOrder {
		if color[name] == white {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	// CallsTransitive: process in post-order (callees already finished).
	for _, name := range postOrder {
		proc := p.Procedures[name]
		for callee := range proc.Calls {
			calleeRec := p.Procedures[callee]
			proc.CallsTransitive[callee] = struct{}{}
			for t := range calleeRec.CallsTransitive {
				proc.CallsTransitive[t] = struct{}{}
			}
		}
	}
	// CalledByTransitive is the set-reverse of CallsTransitive.
	for name, proc := range p.Procedures {
		for callee := range proc.CallsTransitive {
			p.Procedures[callee].CalledByTransitive[name] = struct{}{}
		}
	}

	return postOrder, nil
}

// walkCalls invokes fn for every CallStmt reachable in list, in source
// order, recursing into If/While bodies.
func walkCalls(list *ast.StmtList, fn func(*ast.CallStmt)) {
	for _, stmt := range list.Stmts {
		switch s := stmt.(type) {
		case *ast.CallStmt:
			fn(s)
		case *ast.IfStmt:
			walkCalls(s.Then, fn)
			walkCalls(s.Else, fn)
		case *ast.WhileStmt:
			walkCalls(s.Body, fn)
		}
	}
}
