package parser

import (
	"testing"

	"github.com/spa-lang/spa/pkg/pql"
)

func TestParseBooleanSelectWithCallsStar(t *testing.T) {
	q, err := Parse(`Select BOOLEAN such that Calls*("Example", "q")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Result.Kind != pql.ResultBoolean {
		t.Fatalf("expected a BOOLEAN result clause")
	}
	if len(q.Rels) != 1 || q.Rels[0].Rel != pql.RelCallsT {
		t.Fatalf("expected one Calls* relation clause, got %+v", q.Rels)
	}
	if q.Rels[0].Left.Name != "Example" || q.Rels[0].Right.Name != "q" {
		t.Fatalf("unexpected relation arguments: %+v", q.Rels[0])
	}
}

func TestParseFollowsWithDeclAndConcrete(t *testing.T) {
	q, err := Parse(`stmt s; Select s such that Follows(4, s)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Decls) != 1 || q.Decls[0].Ent != pql.EntStmt {
		t.Fatalf("expected one stmt declaration")
	}
	if len(q.Rels) != 1 || q.Rels[0].Rel != pql.RelFollows {
		t.Fatalf("expected one Follows relation clause")
	}
	if q.Rels[0].Left.StmtNum != 4 {
		t.Fatalf("expected left ref to be concrete stmt 4")
	}
	if !q.Rels[0].Right.IsDeclaration() {
		t.Fatalf("expected right ref to be declaration s")
	}
}

func TestParsePatternSubExpr(t *testing.T) {
	q, err := Parse(`assign a; Select a pattern a("z", _"x + 1"_)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Patterns) != 1 {
		t.Fatalf("expected one pattern clause")
	}
	pc := q.Patterns[0]
	if !pc.ExprSpec.IsSubExpr {
		t.Fatalf("expected a sub-expression spec")
	}
	if pc.Entity.Name != "z" {
		t.Fatalf("expected entity ref to be name z, got %+v", pc.Entity)
	}
}

func TestParsePatternAndParentStarWildcard(t *testing.T) {
	q, err := Parse(`while w; assign a; Select w such that Parent*(w, a) pattern a("i", _)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Rels) != 1 || q.Rels[0].Rel != pql.RelParentT {
		t.Fatalf("expected one Parent* clause")
	}
	if len(q.Patterns) != 1 || !q.Patterns[0].ExprSpec.Wildcard {
		t.Fatalf("expected a wildcard expr-spec pattern clause")
	}
}

func TestParseWithClauseIntLiteral(t *testing.T) {
	q, err := Parse(`prog_line n; Select n with n = 10`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Withs) != 1 {
		t.Fatalf("expected one with clause")
	}
	wc := q.Withs[0]
	if !wc.Left.IsAttr || wc.Left.Attr.Attr != pql.AttrStmtNum {
		t.Fatalf("expected left side to read n's implicit stmt# attribute")
	}
	if !wc.Right.HasInt || wc.Right.IntLit != 10 {
		t.Fatalf("expected right side to be integer literal 10")
	}
}

func TestParseModifiesOverAssign(t *testing.T) {
	q, err := Parse(`assign a; Select a such that Modifies(a, "z")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Rels) != 1 || q.Rels[0].Rel != pql.RelModifies {
		t.Fatalf("expected one Modifies clause")
	}
	if q.Rels[0].Right.Name != "z" {
		t.Fatalf("expected right ref to be concrete name z")
	}
}

func TestParseTupleResultWithAttributes(t *testing.T) {
	q, err := Parse(`assign a; call c; Select <a.stmt#, c.procName> such that Follows(a, c)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Result.Kind != pql.ResultTuple || len(q.Result.Elems) != 2 {
		t.Fatalf("expected a 2-tuple result clause, got %+v", q.Result)
	}
	if q.Result.Elems[0].Attr == nil || q.Result.Elems[0].Attr.Attr != pql.AttrStmtNum {
		t.Fatalf("expected first elem to be a.stmt#")
	}
	if q.Result.Elems[1].Attr == nil || q.Result.Elems[1].Attr.Attr != pql.AttrProcName {
		t.Fatalf("expected second elem to be c.procName")
	}
}
