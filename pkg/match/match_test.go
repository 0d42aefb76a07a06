package match

import (
	"testing"

	"github.com/spa-lang/spa/pkg/ast"
)

func xPlus1() ast.Expr {
	return ast.BinaryExpr{Op: "+", Lhs: ast.VarRef{Name: "x"}, Rhs: ast.Constant{Value: "1"}}
}

func TestExactReflexive(t *testing.T) {
	e := xPlus1()
	if !Exact(e, e) {
		t.Fatalf("Exact(e, e) should always hold")
	}
}

func TestExactDiffersOnOp(t *testing.T) {
	a := xPlus1()
	b := ast.BinaryExpr{Op: "-", Lhs: ast.VarRef{Name: "x"}, Rhs: ast.Constant{Value: "1"}}
	if Exact(a, b) {
		t.Fatalf("expected mismatch on operator")
	}
}

func TestPartialReflexive(t *testing.T) {
	e := xPlus1()
	if !Partial(e, e) {
		t.Fatalf("Partial(e, e) should always hold")
	}
}

func TestPartialFindsSubtree(t *testing.T) {
	haystack := ast.BinaryExpr{
		Op:  "*",
		Lhs: ast.VarRef{Name: "z"},
		Rhs: xPlus1(),
	}
	if !Partial(xPlus1(), haystack) {
		t.Fatalf("expected x + 1 to be found inside z * (x + 1)")
	}
	if Partial(ast.VarRef{Name: "q"}, haystack) {
		t.Fatalf("did not expect q to be found")
	}
}

func TestExactImpliesPartial(t *testing.T) {
	a := xPlus1()
	b := xPlus1()
	if Exact(a, b) && !Partial(a, b) {
		t.Fatalf("Exact(a,b) must imply Partial(a,b)")
	}
}
