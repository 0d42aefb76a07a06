// Package query implements the PQL evaluator: the generic relation
// abstractor, pattern- and with-clause evaluation, the join solver, and
// the result formatter, all operating over a finished pkb.PKB and
// cfg.CFG.
package query

import "strconv"

// Entry is one value a declaration's domain can hold: either a statement
// number (for every statement-like design entity, including prog_line)
// or a name (for variable, procedure, and constant declarations —
// constants are kept as their source lexeme, same as ast.Constant).
//
// This generalises pkg/minikanren's Domain, whose values are always
// positive ints: a PQL declaration's domain is sometimes a set of
// statement ids and sometimes a set of names, and a single Join can pair
// a statement-like declaration against a name-like one (e.g. Uses(a, v)).
// Entry carries that distinction explicitly instead of hashing names down
// to ints, so the result formatter (§4.7) can recover the right printed
// form without a side table.
type Entry struct {
	IsName bool
	Num    int
	Name   string
}

func NumEntry(n int) Entry    { return Entry{Num: n} }
func NameEntry(s string) Entry { return Entry{IsName: true, Name: s} }

// String renders the entry in its natural form: a bare name, or a
// stringified statement number.
func (e Entry) String() string {
	if e.IsName {
		return e.Name
	}
	return strconv.Itoa(e.Num)
}

// Less gives Entry a total order so Domain/Table can keep rows and
// values in a deterministic, sorted order — result order is
// unspecified per §4.7, but deterministic internal order keeps table
// construction and tests reproducible.
func (e Entry) Less(o Entry) bool {
	if e.IsName != o.IsName {
		return !e.IsName // numbers sort before names
	}
	if e.IsName {
		return e.Name < o.Name
	}
	return e.Num < o.Num
}
