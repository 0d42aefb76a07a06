package query

import (
	"strings"

	"github.com/spa-lang/spa/pkg/pkb"
	"github.com/spa-lang/spa/pkg/pql"
)

// format implements §4.7: a BOOLEAN select reports the solver's
// validity; otherwise every row of the final table is projected through
// result's Elems (bare declaration, or attribute) and space-joined. List
// order is unspecified — deduplicated set semantics — so callers must not
// depend on the returned order.
func format(kb *pkb.PKB, result pql.ResultCl, table *joinTable, valid bool) []string {
	if result.Kind == pql.ResultBoolean {
		if valid {
			return []string{"TRUE"}
		}
		return []string{"FALSE"}
	}
	if !valid || table == nil {
		return nil
	}

	cols := make([]int, len(result.Elems))
	for i, e := range result.Elems {
		d := e.Decl
		if d == nil {
			d = e.Attr.Decl
		}
		cols[i] = table.colIndex(d)
	}

	seen := map[string]struct{}{}
	var out []string
	for _, row := range table.rows {
		parts := make([]string, len(result.Elems))
		for i, e := range result.Elems {
			entry := row[cols[i]]
			if e.Attr != nil {
				entry = attrOf(kb, e.Attr.Decl, entry, e.Attr.Attr)
			}
			parts[i] = entry.String()
		}
		line := strings.Join(parts, " ")
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
