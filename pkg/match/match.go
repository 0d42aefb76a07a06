// Package match implements SIMPLE expression pattern matching: exact
// structural equality and sub-expression ("partial") matching, used by
// assignment pattern clauses.
//
// Both walks are a recursive type switch over ast.Expr, the same shape as
// pkg/minikanren's term_utils.go walks a miniKanren Term: compare node
// kind, compare node-specific payload, recurse on children.
package match

import "github.com/spa-lang/spa/pkg/ast"

// Exact reports whether a and b are structurally identical expression
// trees: same node kind at every position, same operator for BinaryExpr,
// same name for VarRef, same lexeme for Constant.
func Exact(a, b ast.Expr) bool {
	switch an := a.(type) {
	case ast.VarRef:
		bn, ok := b.(ast.VarRef)
		return ok && an.Name == bn.Name
	case ast.Constant:
		bn, ok := b.(ast.Constant)
		return ok && an.Value == bn.Value
	case ast.BinaryExpr:
		bn, ok := b.(ast.BinaryExpr)
		return ok && an.Op == bn.Op && Exact(an.Lhs, bn.Lhs) && Exact(an.Rhs, bn.Rhs)
	default:
		return false
	}
}

// Partial reports whether needle occurs as a sub-tree of haystack, under
// exact structural equality at the matching node: Partial(needle,
// haystack) iff Exact(needle, haystack), or Partial(needle, child) for
// some child of haystack.
func Partial(needle, haystack ast.Expr) bool {
	if Exact(needle, haystack) {
		return true
	}
	bn, ok := haystack.(ast.BinaryExpr)
	if !ok {
		return false
	}
	return Partial(needle, bn.Lhs) || Partial(needle, bn.Rhs)
}
