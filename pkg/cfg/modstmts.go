package cfg

import "github.com/spa-lang/spa/pkg/pkb"

// directlyModifies reports whether rec, in one execution step, redefines
// v: true only for Assign, Read, or Call (the kinds `mod_stmts` maps in
// the source). An If/While's StatementRecord.Modifies is the union over
// its nested statements — correct for Modifies(w, v) queries, but reaching
// the branch/loop header itself never redefines anything, so it must not
// block a dataflow path the way a real definition does.
func directlyModifies(rec *pkb.StatementRecord, v string) bool {
	switch rec.Kind {
	case pkb.KindAssign, pkb.KindRead, pkb.KindCall:
		_, ok := rec.Modifies[v]
		return ok
	default:
		return false
	}
}

// directlyModifiesBip is directlyModifies' inter-procedural counterpart: a
// Call is excluded, since AffectsBip's traversal steps inside the callee
// via bip edges instead of treating the call as an atomic black box — the
// callee's own Assign/Read statements are what can block the path.
// Blocking on the call's aggregate (propagated) Modifies here would kill
// paths into branches of the callee that never actually touch v.
func directlyModifiesBip(rec *pkb.StatementRecord, v string) bool {
	switch rec.Kind {
	case pkb.KindAssign, pkb.KindRead:
		_, ok := rec.Modifies[v]
		return ok
	default:
		return false
	}
}
