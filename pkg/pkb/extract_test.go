package pkb_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/simple/parser"
)

const exampleProgram = `
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

func mustExtract(t *testing.T) *pkb.PKB {
	t.Helper()
	prog, err := parser.Parse(exampleProgram)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	kb, err := pkb.Extract(prog)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	return kb
}

func TestExtractStatementCountAndNumberingIsDense(t *testing.T) {
	kb := mustExtract(t)
	if kb.NumStatements() != 24 {
		t.Fatalf("expected 24 statements, got %d", kb.NumStatements())
	}
	for id := 1; id <= 24; id++ {
		if kb.StatementAt(id) == nil || kb.StatementAt(id).ID != id {
			t.Fatalf("statement %d missing or mismatched", id)
		}
	}
}

func TestExtractFollowsMatchesSpecQuery1(t *testing.T) {
	kb := mustExtract(t)
	s12 := kb.StatementAt(12)
	if s12.DirectlyBefore != 4 {
		t.Fatalf("expected statement 12 to directly follow 4, got directly_before=%d", s12.DirectlyBefore)
	}
}

func TestExtractModifiesMatchesSpecQuery2(t *testing.T) {
	kb := mustExtract(t)
	want := map[int]bool{2: true, 7: true, 9: true, 19: true, 20: true, 21: true, 23: true}
	for id, rec := range kb.Statements {
		if id == 0 || rec.Kind != pkb.KindAssign {
			continue
		}
		_, modifiesZ := rec.Modifies["z"]
		if modifiesZ != want[id] {
			t.Errorf("statement %d: Modifies(z)=%v, want %v", id, modifiesZ, want[id])
		}
	}
}

func TestExtractCallsTransitiveMatchesSpecQuery4(t *testing.T) {
	kb := mustExtract(t)
	example, _ := kb.Procedure("Example")
	if _, ok := example.CallsTransitive["q"]; !ok {
		t.Fatalf("expected Example to transitively call q")
	}
	if _, ok := example.CallsTransitive["p"]; !ok {
		t.Fatalf("expected Example to transitively call p")
	}
}

func TestExtractParentOfNestedIf(t *testing.T) {
	kb := mustExtract(t)
	// statement 7 (z = x + 1;) is the then-branch of the if at statement 6.
	s7 := kb.StatementAt(7)
	if s7.Parent != 6 {
		t.Fatalf("expected statement 7's parent to be 6, got %d", s7.Parent)
	}
	if _, ok := s7.Ancestors[6]; !ok {
		t.Fatalf("expected 6 in statement 7's ancestors")
	}
	if _, ok := s7.Ancestors[4]; !ok {
		t.Fatalf("expected 4 (the enclosing while) in statement 7's ancestors")
	}
}

func TestExtractModifiesPropagatesThroughCallStatement(t *testing.T) {
	kb := mustExtract(t)
	// statement 10 is "call q;" inside Example; q modifies z and x (via its
	// branches), both of which must propagate onto the call statement.
	s10 := kb.StatementAt(10)
	if _, ok := s10.Modifies["z"]; !ok {
		t.Fatalf("expected call statement 10 to inherit q's Modifies(z)")
	}
}

func TestExtractUndefinedProcedureRejected(t *testing.T) {
	prog, err := parser.Parse(`procedure A { call B; }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = pkb.Extract(prog)
	if err == nil || !pkb.ErrUndefinedProcedure.Is(err) {
		t.Fatalf("expected ErrUndefinedProcedure, got %v", err)
	}
}

func TestExtractCyclicCallRejected(t *testing.T) {
	prog, err := parser.Parse(`procedure A { call B; } procedure B { call A; }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = pkb.Extract(prog)
	if err == nil || !pkb.ErrCyclicCall.Is(err) {
		t.Fatalf("expected ErrCyclicCall, got %v", err)
	}
}

func TestExtractDuplicateProcedureRejected(t *testing.T) {
	prog, err := parser.Parse(`procedure A { x = 1; } procedure A { y = 2; }`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	_, err = pkb.Extract(prog)
	if err == nil || !pkb.ErrDuplicateProcedure.Is(err) {
		t.Fatalf("expected ErrDuplicateProcedure, got %v", err)
	}
}

// TestExtractModifiesZTableMatchesSpecQuery2 is the same Modifies("z")
// fact as TestExtractModifiesMatchesSpecQuery2, but checked as a whole
// table against the full expected id set in one shot rather than
// statement-by-statement, where a structural diff is more legible than
// a loop of t.Errorf calls.
func TestExtractModifiesZTableMatchesSpecQuery2(t *testing.T) {
	kb := mustExtract(t)
	var got []int
	for id := 1; id <= kb.NumStatements(); id++ {
		rec := kb.StatementAt(id)
		if rec.Kind != pkb.KindAssign {
			continue
		}
		if _, ok := rec.Modifies["z"]; ok {
			got = append(got, id)
		}
	}
	sort.Ints(got)
	want := []int{2, 7, 9, 19, 20, 21, 23}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Modifies(a, \"z\") id set mismatch (-want +got):\n%s", diff)
	}
}
