package query

import "github.com/spa-lang/spa/pkg/pql"

// joinTable is §4.6's IntTable, generalised from int tuples to Entry
// tuples for the same reason Domain is: a PQL result row mixes statement
// numbers and names across its columns.
type joinTable struct {
	decls []*pql.Declaration
	rows  [][]Entry
}

func newSeedTable(d *pql.Declaration, dom Domain) *joinTable {
	rows := make([][]Entry, 0, dom.Count())
	for _, v := range dom.Values() {
		rows = append(rows, []Entry{v})
	}
	return &joinTable{decls: []*pql.Declaration{d}, rows: rows}
}

func (t *joinTable) colIndex(d *pql.Declaration) int {
	for i, dd := range t.decls {
		if dd == d {
			return i
		}
	}
	return -1
}

func (t *joinTable) hasDecl(d *pql.Declaration) bool { return t.colIndex(d) >= 0 }

// crossProduct is the pure cross product of two tables with disjoint
// headers.
func crossProduct(a, b *joinTable) *joinTable {
	decls := append(append([]*pql.Declaration{}, a.decls...), b.decls...)
	rows := make([][]Entry, 0, len(a.rows)*len(b.rows))
	for _, ra := range a.rows {
		for _, rb := range b.rows {
			row := make([]Entry, 0, len(ra)+len(rb))
			row = append(row, ra...)
			row = append(row, rb...)
			rows = append(rows, row)
		}
	}
	return &joinTable{decls: decls, rows: rows}
}

// filterByJoin keeps only rows whose (A, B) column pair is one of j's
// accumulated pairs; both of j's declarations must already be columns of
// t.
func filterByJoin(t *joinTable, j Join) *joinTable {
	ai, bi := t.colIndex(j.A), t.colIndex(j.B)
	if ai < 0 || bi < 0 {
		return t
	}
	allowed := make(map[[2]Entry]struct{}, len(j.Pairs))
	for _, p := range j.Pairs {
		allowed[p] = struct{}{}
	}
	var rows [][]Entry
	for _, r := range t.rows {
		if _, ok := allowed[[2]Entry{r[ai], r[bi]}]; ok {
			rows = append(rows, r)
		}
	}
	return &joinTable{decls: t.decls, rows: rows}
}

// mergeAndFilter cross-products running with other's seed table, then
// applies j.
func mergeAndFilter(running, other *joinTable, j Join) *joinTable {
	return filterByJoin(crossProduct(running, other), j)
}

// project keeps only the named columns, in the given order, deduplicating
// resulting rows (set semantics, per §4.7).
func (t *joinTable) project(keep []*pql.Declaration) *joinTable {
	idx := make([]int, len(keep))
	for i, d := range keep {
		idx[i] = t.colIndex(d)
	}
	seen := map[string]struct{}{}
	var rows [][]Entry
	for _, r := range t.rows {
		row := make([]Entry, len(idx))
		key := ""
		for i, ci := range idx {
			row[i] = r[ci]
			key += row[i].String() + "\x00"
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return &joinTable{decls: keep, rows: rows}
}
