package pkb

import "sort"

func sortInts(xs []int) { sort.Ints(xs) }

func sortStrings(xs []string) { sort.Strings(xs) }

// setToSortedInts converts an id set to a deterministic, ascending slice,
// so that a caller never observes Go's randomised map iteration order.
func setToSortedInts(s map[int]struct{}) []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sortInts(out)
	return out
}

func setToSortedStrings(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sortStrings(out)
	return out
}
