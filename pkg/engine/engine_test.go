package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spa-lang/spa/pkg/engine"
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

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "example.simple")
	if err := os.WriteFile(path, []byte(exampleProgram), 0o644); err != nil {
		t.Fatalf("writing example program: %v", err)
	}
	return path
}

func TestParseAndEvaluate(t *testing.T) {
	e := engine.New(nil)
	if err := e.Parse(writeExample(t)); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var out []string
	e.Evaluate(`stmt s; Select s such that Follows(4, s)`, &out)
	if len(out) != 1 || out[0] != "12" {
		t.Fatalf("got %v, want [12]", out)
	}
}

func TestEvaluateSilentlyIgnoresBadQuery(t *testing.T) {
	e := engine.New(nil)
	if err := e.Parse(writeExample(t)); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var out []string
	e.Evaluate(`this is not a query`, &out)
	if len(out) != 0 {
		t.Fatalf("expected empty result for malformed query, got %v", out)
	}
}

func TestParseFailsOnUndefinedProcedure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.simple")
	src := `procedure Main { call nope; }`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing program: %v", err)
	}

	e := engine.New(nil)
	if err := e.Parse(path); err == nil {
		t.Fatalf("expected Parse to fail on an undefined procedure")
	}
}

func TestEvaluateBeforeParseIsNoop(t *testing.T) {
	e := engine.New(nil)
	var out []string
	e.Evaluate(`Select BOOLEAN such that Calls*("Example", "q")`, &out)
	if len(out) != 0 {
		t.Fatalf("expected empty result before Parse, got %v", out)
	}
}
