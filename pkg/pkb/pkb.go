// Package pkb implements the Program Knowledge Base: the design extractor
// that walks a parsed SIMPLE ast.Program and populates per-statement,
// per-procedure, and per-variable records, plus the global indices the
// PQL evaluator queries against.
//
// The PKB is a passive container once Extract returns: it is never
// written to again except through the CFG memoisation accessors on
// StatementRecord (pkg/cfg writes its Next/Affects caches there). This
// mirrors pkg/minikanren/pldb.go's indexed Database/Relation/Fact shape,
// adapted from int64-hashed values to statement ids and variable names.
package pkb

import "github.com/spa-lang/spa/pkg/ast"

// StmtKind classifies a statement by its AST node type.
type StmtKind int

const (
	KindAssign StmtKind = iota
	KindRead
	KindPrint
	KindCall
	KindIf
	KindWhile
)

func (k StmtKind) String() string {
	switch k {
	case KindAssign:
		return "assign"
	case KindRead:
		return "read"
	case KindPrint:
		return "print"
	case KindCall:
		return "call"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	default:
		return "unknown"
	}
}

func kindOf(s ast.Stmt) StmtKind {
	switch s.(type) {
	case *ast.AssignStmt:
		return KindAssign
	case *ast.ReadStmt:
		return KindRead
	case *ast.PrintStmt:
		return KindPrint
	case *ast.CallStmt:
		return KindCall
	case *ast.IfStmt:
		return KindIf
	case *ast.WhileStmt:
		return KindWhile
	default:
		panic("pkb: unreachable statement kind")
	}
}

// PKB is the fully populated knowledge base for one SIMPLE program.
type PKB struct {
	Program *ast.Program

	// Statements is 1-indexed: Statements[0] is unused so that a
	// statement's id is also its slice index.
	Statements []*StatementRecord

	Procedures map[string]*ProcedureRecord
	// ProcOrder preserves source declaration order for deterministic
	// iteration (the call-graph topological order is a separate field on
	// the extractor's intermediate state, not retained here).
	ProcOrder []string

	Variables map[string]*VariableRecord
	Constants map[string]struct{}

	ByKind map[StmtKind][]int
}

// StatementAt returns the statement record for a 1-based statement id. It
// panics if id is out of range, matching the invariant that every id
// referenced anywhere in the PKB or CFG was assigned during extraction.
func (p *PKB) StatementAt(id int) *StatementRecord {
	return p.Statements[id]
}

// NumStatements returns N, the dense upper bound on statement ids.
func (p *PKB) NumStatements() int {
	return len(p.Statements) - 1
}

// Procedure looks up a procedure record by name.
func (p *PKB) Procedure(name string) (*ProcedureRecord, bool) {
	r, ok := p.Procedures[name]
	return r, ok
}

// Variable looks up a variable record by name, without creating it.
func (p *PKB) Variable(name string) (*VariableRecord, bool) {
	r, ok := p.Variables[name]
	return r, ok
}

// StatementsByKind returns the (already sorted, ascending) statement ids
// of the given kind.
func (p *PKB) StatementsByKind(k StmtKind) []int {
	return p.ByKind[k]
}
