package query

import (
	"github.com/spa-lang/spa/pkg/cfg"
	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// Evaluate runs one parsed PQL query against kb/g and returns its result
// list per §4.7. Per §7's evaluator-error contract, any locally invalid
// clause (wrong design entity on an argument, a disallowed wildcard, a
// conflicting attribute/literal) is caught here and converted to the
// query's "found nothing" default — FALSE for a BOOLEAN select, the empty
// list otherwise — never propagated to the caller. A clause that proves
// the whole query false sets the internal failed sentinel, which the
// solver (and therefore the formatter) honours without needing a second
// check here: all relation clauses apply first, then all pattern clauses,
// then all with clauses (each list in parsed order), and every later
// clause is a no-op once failed is set.
func Evaluate(kb *pkb.PKB, g *cfg.CFG, q *pql.Query) []string {
	st := newState(kb, g, q.Decls)

	for _, rc := range q.Rels {
		if err := st.applyRelation(rc); err != nil {
			return defaultResult(q.Result)
		}
	}
	for _, pc := range q.Patterns {
		if err := st.applyPattern(pc); err != nil {
			return defaultResult(q.Result)
		}
	}
	for _, wc := range q.Withs {
		if err := st.applyWith(wc); err != nil {
			return defaultResult(q.Result)
		}
	}

	returnDecls := uniqueElemDecls(q.Result)
	table, valid := st.solve(returnDecls)
	return format(kb, q.Result, table, valid)
}

func defaultResult(result pql.ResultCl) []string {
	if result.Kind == pql.ResultBoolean {
		return []string{"FALSE"}
	}
	return nil
}

func uniqueElemDecls(result pql.ResultCl) []*pql.Declaration {
	var out []*pql.Declaration
	seen := map[*pql.Declaration]struct{}{}
	for _, e := range result.Elems {
		d := e.Decl
		if d == nil {
			d = e.Attr.Decl
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
