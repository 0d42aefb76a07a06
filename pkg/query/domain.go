package query

import "sort"

// Domain is an immutable, ordered set of Entry values: the set of
// candidates a declaration can still be bound to. Every operation
// returns a new Domain rather than mutating the receiver, matching
// pkg/minikanren's Domain contract ("all domain implementations must be
// immutable... enabling efficient copy-on-write semantics") — generalised
// here from a bitset over [1, MaxValue] to a sorted slice of Entry, since
// a PQL domain's values are sometimes names, not a dense int range a
// bitset could index.
type Domain struct {
	values []Entry
}

// NewDomain builds a Domain from an arbitrary slice, deduplicating and
// sorting it.
func NewDomain(values []Entry) Domain {
	cp := append([]Entry{}, values...)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Less(cp[j]) })
	out := cp[:0]
	for i, v := range cp {
		if i == 0 || !out[len(out)-1].equal(v) {
			out = append(out, v)
		}
	}
	return Domain{values: out}
}

func (e Entry) equal(o Entry) bool {
	return e.IsName == o.IsName && e.Num == o.Num && e.Name == o.Name
}

func (d Domain) Count() int { return len(d.values) }

func (d Domain) Has(e Entry) bool {
	i := sort.Search(len(d.values), func(i int) bool { return !d.values[i].Less(e) })
	return i < len(d.values) && d.values[i].equal(e)
}

func (d Domain) Values() []Entry { return d.values }

// Intersect returns the domain containing only entries present in both.
func (d Domain) Intersect(o Domain) Domain {
	var out []Entry
	for _, v := range d.values {
		if o.Has(v) {
			out = append(out, v)
		}
	}
	return Domain{values: out}
}

// Filter returns the subset of d for which keep returns true.
func (d Domain) Filter(keep func(Entry) bool) Domain {
	var out []Entry
	for _, v := range d.values {
		if keep(v) {
			out = append(out, v)
		}
	}
	return Domain{values: out}
}
