package parser

import (
	"testing"

	"github.com/spa-lang/spa/pkg/ast"
)

func TestParseSingleAssign(t *testing.T) {
	prog, err := Parse(`procedure Example { x = 2; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Procedures) != 1 {
		t.Fatalf("expected 1 procedure, got %d", len(prog.Procedures))
	}
	proc := prog.Procedures[0]
	if proc.Name != "Example" {
		t.Fatalf("expected procedure name Example, got %s", proc.Name)
	}
	if len(proc.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(proc.Body.Stmts))
	}
	assign, ok := proc.Body.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected *ast.AssignStmt, got %T", proc.Body.Stmts[0])
	}
	if assign.Var != "x" {
		t.Fatalf("expected var x, got %s", assign.Var)
	}
}

func TestParseSoftKeywordAsVarName(t *testing.T) {
	prog, err := Parse(`procedure P { read = read + 1; }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign, ok := prog.Procedures[0].Body.Stmts[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected assignment to soft-keyword variable 'read'")
	}
	if assign.Var != "read" {
		t.Fatalf("expected var 'read', got %s", assign.Var)
	}
}

func TestParseMultiDigitLeadingZeroRejected(t *testing.T) {
	_, err := Parse(`procedure P { x = 012; }`)
	if err == nil {
		t.Fatalf("expected an error for a multi-digit literal starting with 0")
	}
}

func TestParseBooleanCombinationCond(t *testing.T) {
	src := `procedure P {
		while ((x > 0) && (y < 1)) {
			x = x - 1;
		}
	}`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w, ok := prog.Procedures[0].Body.Stmts[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt")
	}
	if _, ok := w.Cond.(ast.BoolExpr); !ok {
		t.Fatalf("expected BoolExpr condition, got %T", w.Cond)
	}
}

func TestParseParenthesizedArithInRelExpr(t *testing.T) {
	src := `procedure P {
		if ((x + 1) > y) then { z = 1; } else { z = 2; }
	}`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifs, ok := prog.Procedures[0].Body.Stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt")
	}
	rel, ok := ifs.Cond.(ast.RelExpr)
	if !ok {
		t.Fatalf("expected RelExpr condition, got %T", ifs.Cond)
	}
	if _, ok := rel.Lhs.(ast.BinaryExpr); !ok {
		t.Fatalf("expected the lhs to be a parenthesised BinaryExpr, got %T", rel.Lhs)
	}
}

func TestParseExampleProgramFromSpec(t *testing.T) {
	src := `
procedure Example {
  x = 2; z = 3; i = 5;
  while (i != 0) {
    x = x - 1;
    if (x == 1) then {
      z = x + 1; }
    else {
      y = z + x; }
    z = z + x + i;
    call q;
    i = i - 1; }
  call p; }
procedure p {
  if (x < 0) then {
    while (i > 0) {
      x = z * 3 + 2 * y;
      call q;
      i = i - 1; }
    x = x + 1;
    z = x + z; }
  else { z = 1; }
  z = z + x + i; }
procedure q {
  if (x == 1) then {
    z = x + 1; }
  else {
    x = z + x; } }
`
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Procedures) != 3 {
		t.Fatalf("expected 3 procedures, got %d", len(prog.Procedures))
	}
}
