package pkb

import "github.com/spa-lang/spa/pkg/ast"

// StatementRecord is the PKB's per-statement record. Everything but the
// cfgMemo fields is populated once, during extraction, and never mutated
// again.
type StatementRecord struct {
	ID   int
	AST  ast.Stmt
	Kind StmtKind
	Proc *ProcedureRecord

	// DirectlyBefore/DirectlyAfter are the Follows neighbours within this
	// statement's own StmtList; 0 means none.
	DirectlyBefore, DirectlyAfter int
	// Before/After are the transitive Follows sets within the same list.
	Before, After map[int]struct{}

	// Parent is 0 for a top-level statement in its procedure.
	Parent     int
	Children   map[int]struct{}
	Ancestors  map[int]struct{}
	Descendants map[int]struct{}

	// Uses/Modifies are fully propagated: a container's sets are the union
	// over its nested statements, and a call statement's sets are copied
	// from the callee procedure.
	Uses     map[string]struct{}
	Modifies map[string]struct{}
	// CondUses holds the variables read by an If/While's controlling
	// expression; empty for every other kind.
	CondUses map[string]struct{}

	memo cfgMemo
}

// cfgMemo holds the lazily-computed CFG-derived sets pkg/cfg caches onto
// this record. Modelled as "Cell<Option<Set>>" per statement, not a
// global cache keyed by id, so the cache's lifetime matches the PKB's —
// discarding the PKB discards the memo with it. Single-threaded evaluation
// (see the concurrency model) makes a plain nil-check safe without a
// lock: each slot is written at most once, by the query that first needs
// it, before any other goroutine could observe it.
type cfgMemo struct {
	next, nextStar                     map[int]struct{}
	prev, prevStar                     map[int]struct{}
	nextBip, nextBipStar                map[int]struct{}
	prevBip, prevBipStar                map[int]struct{}
	affects, affectsStar                map[int]struct{}
	affectedBy, affectedByStar           map[int]struct{}
	affectsBip, affectsBipStar          map[int]struct{}
	affectsBipBy, affectsBipByStar       map[int]struct{}

	nextSet, nextStarSet, prevSet, prevStarSet bool
	nextBipSet, nextBipStarSet, prevBipSet, prevBipStarSet bool
	affectsSet, affectsStarSet, affectedBySet, affectedByStarSet bool
	affectsBipSet, affectsBipStarSet, affectsBipBySet, affectsBipByStarSet bool
}

// pql.DesignEnt.IsStmtLike design-entity filters (used by the relation abstractor
// and result formatter) dispatch on Kind directly; a StatementRecord has
// no separate "is this a stmt" flag because every StatementRecord is, by
// construction, a statement.

// --- CFG memo accessors -----------------------------------------------
//
// Each pair of methods below is: Get returns (set, ok); Set stores it.
// pkg/cfg is the only caller of the Set half; evaluators only ever Get.

func (s *StatementRecord) NextCache() (map[int]struct{}, bool) { return s.memo.next, s.memo.nextSet }
func (s *StatementRecord) SetNextCache(v map[int]struct{}) {
	s.memo.next, s.memo.nextSet = v, true
}

func (s *StatementRecord) NextStarCache() (map[int]struct{}, bool) {
	return s.memo.nextStar, s.memo.nextStarSet
}
func (s *StatementRecord) SetNextStarCache(v map[int]struct{}) {
	s.memo.nextStar, s.memo.nextStarSet = v, true
}

func (s *StatementRecord) PrevCache() (map[int]struct{}, bool) { return s.memo.prev, s.memo.prevSet }
func (s *StatementRecord) SetPrevCache(v map[int]struct{}) {
	s.memo.prev, s.memo.prevSet = v, true
}

func (s *StatementRecord) PrevStarCache() (map[int]struct{}, bool) {
	return s.memo.prevStar, s.memo.prevStarSet
}
func (s *StatementRecord) SetPrevStarCache(v map[int]struct{}) {
	s.memo.prevStar, s.memo.prevStarSet = v, true
}

func (s *StatementRecord) NextBipCache() (map[int]struct{}, bool) {
	return s.memo.nextBip, s.memo.nextBipSet
}
func (s *StatementRecord) SetNextBipCache(v map[int]struct{}) {
	s.memo.nextBip, s.memo.nextBipSet = v, true
}

func (s *StatementRecord) NextBipStarCache() (map[int]struct{}, bool) {
	return s.memo.nextBipStar, s.memo.nextBipStarSet
}
func (s *StatementRecord) SetNextBipStarCache(v map[int]struct{}) {
	s.memo.nextBipStar, s.memo.nextBipStarSet = v, true
}

func (s *StatementRecord) PrevBipCache() (map[int]struct{}, bool) {
	return s.memo.prevBip, s.memo.prevBipSet
}
func (s *StatementRecord) SetPrevBipCache(v map[int]struct{}) {
	s.memo.prevBip, s.memo.prevBipSet = v, true
}

func (s *StatementRecord) PrevBipStarCache() (map[int]struct{}, bool) {
	return s.memo.prevBipStar, s.memo.prevBipStarSet
}
func (s *StatementRecord) SetPrevBipStarCache(v map[int]struct{}) {
	s.memo.prevBipStar, s.memo.prevBipStarSet = v, true
}

func (s *StatementRecord) AffectsCache() (map[int]struct{}, bool) {
	return s.memo.affects, s.memo.affectsSet
}
func (s *StatementRecord) SetAffectsCache(v map[int]struct{}) {
	s.memo.affects, s.memo.affectsSet = v, true
}

func (s *StatementRecord) AffectsStarCache() (map[int]struct{}, bool) {
	return s.memo.affectsStar, s.memo.affectsStarSet
}
func (s *StatementRecord) SetAffectsStarCache(v map[int]struct{}) {
	s.memo.affectsStar, s.memo.affectsStarSet = v, true
}

func (s *StatementRecord) AffectedByCache() (map[int]struct{}, bool) {
	return s.memo.affectedBy, s.memo.affectedBySet
}
func (s *StatementRecord) SetAffectedByCache(v map[int]struct{}) {
	s.memo.affectedBy, s.memo.affectedBySet = v, true
}

func (s *StatementRecord) AffectedByStarCache() (map[int]struct{}, bool) {
	return s.memo.affectedByStar, s.memo.affectedByStarSet
}
func (s *StatementRecord) SetAffectedByStarCache(v map[int]struct{}) {
	s.memo.affectedByStar, s.memo.affectedByStarSet = v, true
}

func (s *StatementRecord) AffectsBipCache() (map[int]struct{}, bool) {
	return s.memo.affectsBip, s.memo.affectsBipSet
}
func (s *StatementRecord) SetAffectsBipCache(v map[int]struct{}) {
	s.memo.affectsBip, s.memo.affectsBipSet = v, true
}

func (s *StatementRecord) AffectsBipStarCache() (map[int]struct{}, bool) {
	return s.memo.affectsBipStar, s.memo.affectsBipStarSet
}
func (s *StatementRecord) SetAffectsBipStarCache(v map[int]struct{}) {
	s.memo.affectsBipStar, s.memo.affectsBipStarSet = v, true
}

func (s *StatementRecord) AffectsBipByCache() (map[int]struct{}, bool) {
	return s.memo.affectsBipBy, s.memo.affectsBipBySet
}
func (s *StatementRecord) SetAffectsBipByCache(v map[int]struct{}) {
	s.memo.affectsBipBy, s.memo.affectsBipBySet = v, true
}

func (s *StatementRecord) AffectsBipByStarCache() (map[int]struct{}, bool) {
	return s.memo.affectsBipByStar, s.memo.affectsBipByStarSet
}
func (s *StatementRecord) SetAffectsBipByStarCache(v map[int]struct{}) {
	s.memo.affectsBipByStar, s.memo.affectsBipByStarSet = v, true
}
