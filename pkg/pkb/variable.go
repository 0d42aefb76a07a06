package pkb

// VariableRecord is the PKB's per-variable record.
type VariableRecord struct {
	Name string

	UsedByStmts     map[int]struct{}
	ModifiedByStmts map[int]struct{}
	UsedByProcs     map[string]struct{}
	ModifiedByProcs map[string]struct{}

	ReadStmts  map[int]struct{}
	PrintStmts map[int]struct{}
}

func newVariableRecord(name string) *VariableRecord {
	return &VariableRecord{
		Name:            name,
		UsedByStmts:     map[int]struct{}{},
		ModifiedByStmts: map[int]struct{}{},
		UsedByProcs:     map[string]struct{}{},
		ModifiedByProcs: map[string]struct{}{},
		ReadStmts:       map[int]struct{}{},
		PrintStmts:      map[int]struct{}{},
	}
}

// UsedByStmtsOfKind returns the statement ids in UsedByStmts whose kind
// matches k, sorted ascending. Filtered variable queries (e.g. "which read
// statements use v") go through this rather than re-deriving the set from
// the global statement kind index.
func (v *VariableRecord) UsedByStmtsOfKind(pkbRef *PKB, k StmtKind) []int {
	return filterByKind(pkbRef, v.UsedByStmts, k)
}

// ModifiedByStmtsOfKind is the Modifies analogue of UsedByStmtsOfKind.
func (v *VariableRecord) ModifiedByStmtsOfKind(pkbRef *PKB, k StmtKind) []int {
	return filterByKind(pkbRef, v.ModifiedByStmts, k)
}

func filterByKind(p *PKB, ids map[int]struct{}, k StmtKind) []int {
	var out []int
	for id := range ids {
		if p.Statements[id].Kind == k {
			out = append(out, id)
		}
	}
	sortInts(out)
	return out
}
