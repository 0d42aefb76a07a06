package engine

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/spa-lang/spa/pkg/cfg"
	"github.com/spa-lang/spa/pkg/pkb"
	pqlparser "github.com/spa-lang/spa/pkg/pql/parser"
	"github.com/spa-lang/spa/pkg/query"
	simpleparser "github.com/spa-lang/spa/pkg/simple/parser"
)

// Engine is the host test harness's handle on one parsed-and-extracted
// SIMPLE program: Parse retains its PKB/CFG, Evaluate runs queries
// against them. A zero-value Engine is usable; Parse must succeed
// before Evaluate is called.
type Engine struct {
	cfg *Config

	kb *pkb.PKB
	g  *cfg.CFG
}

// New builds an Engine. A nil cfg is replaced with NewConfig()'s
// defaults.
func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) logger() hclog.Logger {
	if e.cfg == nil || e.cfg.Logger == nil {
		return hclog.NewNullLogger()
	}
	return e.cfg.Logger
}

// Parse reads a SIMPLE source file, parses it, and runs the extractor
// and CFG builder, retaining the result for subsequent Evaluate calls.
// Per §7, extractor errors are fatal for the whole session: Parse
// returns (never swallows) any PkbError or parse error, after logging
// it at Error. A prior successful Parse's PKB/CFG is left untouched on
// failure, so the caller can decide whether to keep serving the old
// program or abort the session.
func (e *Engine) Parse(filename string) error {
	log := e.logger().Named("spa.engine")

	src, err := os.ReadFile(filename)
	if err != nil {
		log.Error("failed to read source file", "file", filename, "err", err)
		return errors.Wrapf(err, "reading %s", filename)
	}

	program, err := simpleparser.Parse(string(src))
	if err != nil {
		log.Error("SIMPLE parse failed", "file", filename, "err", err)
		return errors.Wrapf(err, "parsing %s", filename)
	}

	extractLog := e.logger().Named("spa.extractor")
	extractLog.Debug("running extractor", "file", filename)
	kb, err := pkb.Extract(program)
	if err != nil {
		extractLog.Error("extraction failed", "file", filename, "err", err)
		return err
	}

	g, err := cfg.Build(kb)
	if err != nil {
		extractLog.Error("cfg build failed", "file", filename, "err", err)
		return err
	}

	e.kb, e.g = kb, g
	extractLog.Debug("extraction complete", "file", filename, "procedures", len(kb.ProcOrder))
	return nil
}

// Stats reports the size of the currently retained program, for
// reporting purposes only. It returns (0, 0) before a successful
// Parse.
func (e *Engine) Stats() (procedures, statements int) {
	if e.kb == nil {
		return 0, 0
	}
	return len(e.kb.ProcOrder), e.kb.NumStatements()
}

// Evaluate parses and evaluates one PQL query against the retained
// PKB/CFG, appending each result line to out. Per §6/§7's "silently
// ignore" contract, any parse or evaluator error leaves out untouched
// and is only logged, never returned to the caller; out is always
// valid to read afterward (nil/empty on failure).
func (e *Engine) Evaluate(queryText string, out *[]string) {
	log := e.logger().Named("spa.query")

	if e.kb == nil || e.g == nil {
		log.Warn("evaluate called before a successful Parse")
		return
	}

	q, err := pqlparser.Parse(queryText)
	if err != nil {
		log.Warn("PQL parse failed, returning empty result", "err", err)
		return
	}

	log.Debug("evaluating query", "query", queryText)
	results := query.Evaluate(e.kb, e.g, q)
	*out = append(*out, results...)
}
