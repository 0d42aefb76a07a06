package query

import (
	"sort"

	"github.com/spa-lang/spa/pkg/pql"
)

// solve runs §4.6's join solver: trim, seed tables, dependency-graph
// components, component processing, validity, and final assembly. It
// returns the projected result table (columns restricted to returnDecls,
// in returnDecls' order) and whether the query is valid.
func (st *state) solve(returnDecls []*pql.Declaration) (*joinTable, bool) {
	if st.failed {
		return nil, false
	}

	returnSet := map[*pql.Declaration]struct{}{}
	for _, d := range returnDecls {
		returnSet[d] = struct{}{}
	}

	// All decls the solver must build a table for: every return decl,
	// plus every decl that is an endpoint of some accumulated join.
	allSet := map[*pql.Declaration]struct{}{}
	for d := range returnSet {
		allSet[d] = struct{}{}
	}
	for _, j := range st.joins {
		allSet[j.A] = struct{}{}
		allSet[j.B] = struct{}{}
	}
	if len(allSet) == 0 {
		return &joinTable{}, true
	}

	// Trim: re-sync each join's pairs and the domains of its two
	// declarations against whatever later clauses narrowed them to.
	trimmedJoins := make([]Join, 0, len(st.joins))
	for _, j := range st.joins {
		domA, domB := st.domains[j.A], st.domains[j.B]
		var pairs [][2]Entry
		aSeen, bSeen := map[Entry]struct{}{}, map[Entry]struct{}{}
		for _, p := range j.Pairs {
			if !domA.Has(p[0]) || !domB.Has(p[1]) {
				continue
			}
			pairs = append(pairs, p)
			aSeen[p[0]] = struct{}{}
			bSeen[p[1]] = struct{}{}
		}
		if len(pairs) == 0 {
			return nil, false
		}
		st.domains[j.A] = domA.Filter(func(e Entry) bool { _, ok := aSeen[e]; return ok })
		st.domains[j.B] = domB.Filter(func(e Entry) bool { _, ok := bSeen[e]; return ok })
		trimmedJoins = append(trimmedJoins, Join{A: j.A, B: j.B, Pairs: pairs})
	}

	// Seed tables and order all decls deterministically (by synonym
	// name) for component ordering and test reproducibility.
	var allDecls []*pql.Declaration
	for d := range allSet {
		allDecls = append(allDecls, d)
	}
	sort.Slice(allDecls, func(i, j int) bool { return allDecls[i].Name < allDecls[j].Name })

	seeds := make(map[*pql.Declaration]*joinTable, len(allDecls))
	for _, d := range allDecls {
		seeds[d] = newSeedTable(d, st.domains[d])
	}

	adjacency := map[*pql.Declaration][]*pql.Declaration{}
	for _, j := range trimmedJoins {
		adjacency[j.A] = append(adjacency[j.A], j.B)
		adjacency[j.B] = append(adjacency[j.B], j.A)
	}

	colored := map[*pql.Declaration]bool{}
	var components [][]*pql.Declaration
	for _, d := range allDecls {
		if colored[d] {
			continue
		}
		var comp []*pql.Declaration
		queue := []*pql.Declaration{d}
		colored[d] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			comp = append(comp, n)
			for _, m := range adjacency[n] {
				if !colored[m] {
					colored[m] = true
					queue = append(queue, m)
				}
			}
		}
		components = append(components, comp)
	}

	var retained []*joinTable
	for _, comp := range components {
		sort.Slice(comp, func(i, j int) bool {
			return len(seeds[comp[i]].rows) < len(seeds[comp[j]].rows)
		})

		// applied is indexed by trimmedJoins position, not by (A, B)
		// identity: two distinct clauses over the same declaration pair
		// (e.g. a pattern clause's lhs-equality and a such-that Uses/
		// Modifies clause both tying the same two synonyms) produce two
		// separate Join entries, and both must be applied — the first
		// via mergeAndFilter (bringing the other declaration's column
		// in), every subsequent one over an already-present pair via a
		// plain filterByJoin.
		applied := make([]bool, len(trimmedJoins))
		var running *joinTable
		for _, d := range comp {
			if running == nil {
				running = seeds[d]
			} else if !running.hasDecl(d) {
				running = crossProduct(running, seeds[d])
			}
			for idx, j := range trimmedJoins {
				if applied[idx] {
					continue
				}
				var other *pql.Declaration
				switch {
				case j.A == d:
					other = j.B
				case j.B == d:
					other = j.A
				default:
					continue
				}
				if !running.hasDecl(other) {
					running = mergeAndFilter(running, seeds[other], j)
				} else {
					running = filterByJoin(running, j)
				}
				applied[idx] = true
				if len(running.rows) == 0 {
					break
				}
			}
			if len(running.rows) == 0 {
				break
			}
		}

		if running == nil || len(running.rows) == 0 {
			return nil, false
		}

		var keep []*pql.Declaration
		for _, d := range comp {
			if _, ok := returnSet[d]; ok {
				keep = append(keep, d)
			}
		}
		if len(keep) == 0 {
			continue // witnessing component: confirmed non-empty, contributes no columns
		}
		sort.Slice(keep, func(i, j int) bool { return indexInReturn(returnDecls, keep[i]) < indexInReturn(returnDecls, keep[j]) })
		retained = append(retained, running.project(keep))
	}

	if len(retained) == 0 {
		return &joinTable{}, true
	}
	sort.Slice(retained, func(i, j int) bool { return len(retained[i].rows) < len(retained[j].rows) })
	final := retained[0]
	for _, t := range retained[1:] {
		final = crossProduct(final, t)
	}
	return final, true
}

func indexInReturn(returnDecls []*pql.Declaration, d *pql.Declaration) int {
	for i, rd := range returnDecls {
		if rd == d {
			return i
		}
	}
	return len(returnDecls)
}
