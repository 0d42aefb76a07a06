package cfg_test

import (
	"testing"

	"github.com/spa-lang/spa/pkg/cfg"
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

func build(t *testing.T) (*pkb.PKB, *cfg.CFG) {
	t.Helper()
	prog, err := parser.Parse(exampleProgram)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	kb, err := pkb.Extract(prog)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	g, err := cfg.Build(kb)
	if err != nil {
		t.Fatalf("cfg build error: %v", err)
	}
	return kb, g
}

func TestNextEdgesAroundWhileAndIf(t *testing.T) {
	_, g := build(t)
	cases := []struct {
		a, b int
		want bool
	}{
		{3, 4, true},   // i = 5 falls into the while header
		{4, 5, true},   // while enters its body
		{4, 12, true},  // while's natural successor is "call p;"
		{6, 7, true},   // if enters its then-branch
		{6, 8, true},   // if enters its else-branch
		{7, 9, true},   // then-branch rejoins after the if
		{8, 9, true},   // else-branch rejoins after the if
		{11, 4, true},  // while body's last statement loops back to the header
		{12, 13, false}, // Next never crosses a call boundary
	}
	for _, tc := range cases {
		if got := g.Next(tc.a, tc.b); got != tc.want {
			t.Errorf("Next(%d, %d) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNextStarReflexivityOnlyOnCycle(t *testing.T) {
	_, g := build(t)
	if !g.NextStar(4, 4) {
		t.Errorf("expected Next*(4, 4): statement 4 is a while header on a cycle")
	}
	if g.NextStar(1, 1) {
		t.Errorf("expected Next*(1, 1) to be false: statement 1 is not on a cycle")
	}
	if !g.NextStar(1, 12) {
		t.Errorf("expected Next*(1, 12): straight-line reachability")
	}
	if g.NextStar(12, 1) {
		t.Errorf("statement 12 cannot reach back to statement 1")
	}
}

func TestAffectsAcrossABranch(t *testing.T) {
	kb, g := build(t)
	// statement 5 (x = x - 1) affects statement 7 (z = x + 1) through the
	// then-branch with no intervening redefinition of x.
	if !g.Affects(kb, 5, 7) {
		t.Errorf("expected Affects(5, 7)")
	}
	// statement 1 (x = 2) does not affect statement 7: every path from 1 to
	// 7 passes through statement 5, which redefines x.
	if g.Affects(kb, 1, 7) {
		t.Errorf("statement 1's definition of x is killed by statement 5 before reaching 7")
	}
}

func TestAffectsDoesNotCrossCallBoundary(t *testing.T) {
	kb, g := build(t)
	// statement 9 (z = z + x + i) cannot Affects into q or p via plain
	// Next*, since Next never crosses "call q;"/"call p;".
	if g.Affects(kb, 9, 23) {
		t.Errorf("plain Affects must not reach across a call statement")
	}
}

func TestAffectsBipCrossesCallBoundary(t *testing.T) {
	kb, g := build(t)
	// statement 9 assigns z; "call q;" (10) runs next; q's else-branch (24,
	// "x = z + x;") uses z — AffectsBip should see this, plain Affects
	// should not.
	if !g.AffectsBip(kb, 9, 24) {
		t.Errorf("expected AffectsBip(9, 24) across the call to q")
	}
}

func TestNextBipWiresCallAndReturn(t *testing.T) {
	kb, g := build(t)
	// "call q;" at statement 10 should reach q's entry (22), and q's exits
	// (23, 24) should reach back to 10's natural successor (11).
	if !g.NextBip(10, 22) {
		t.Errorf("expected NextBip(10, 22): call statement to callee entry")
	}
	if !g.NextBipStar(kb, 10, 11) {
		t.Errorf("expected NextBip*(10, 11): call-then-return back to the caller")
	}
	// "call p;" at statement 12 is the last statement of Example, so there
	// is no return edge, only the call edge into p's entry (13).
	if !g.NextBip(12, 13) {
		t.Errorf("expected NextBip(12, 13)")
	}
	if g.Next(12, 13) {
		t.Errorf("plain Next must never cross into a callee")
	}
}
