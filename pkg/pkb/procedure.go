package pkb

import "github.com/spa-lang/spa/pkg/ast"

// ProcedureRecord is the PKB's per-procedure record.
type ProcedureRecord struct {
	Name string
	AST  *ast.Procedure

	Uses, Modifies map[string]struct{}

	Calls, CalledBy                       map[string]struct{}
	CallsTransitive, CalledByTransitive    map[string]struct{}

	// CallStmts is every call statement id (anywhere in the program)
	// whose target is this procedure.
	CallStmts map[int]struct{}

	// Entry and Exits are the CFG's single entry point and set of leaf
	// exit statements for this procedure's body, populated during CFG
	// construction (phase 5, NextBip wiring), not during the Follows/Uses/Modifies pass.
	Entry int
	Exits map[int]struct{}
}

func newProcedureRecord(name string, p *ast.Procedure) *ProcedureRecord {
	return &ProcedureRecord{
		Name:                name,
		AST:                 p,
		Uses:                map[string]struct{}{},
		Modifies:            map[string]struct{}{},
		Calls:               map[string]struct{}{},
		CalledBy:            map[string]struct{}{},
		CallsTransitive:     map[string]struct{}{},
		CalledByTransitive:  map[string]struct{}{},
		CallStmts:           map[int]struct{}{},
		Exits:               map[int]struct{}{},
	}
}
