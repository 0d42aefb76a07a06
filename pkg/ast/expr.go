package ast

// Expr is implemented by every SIMPLE expression node: VarRef, Constant,
// BinaryExpr. SIMPLE has no unary operators beyond the grammar's implicit
// sign-free integer constants, so there is no UnaryExpr.
type Expr interface {
	exprMarker()
}

// VarRef is a bare variable name used as an expression operand.
type VarRef struct {
	Name string
}

// Constant is an unsigned integer literal, kept as its source lexeme so
// pattern matching can compare it textually without a parse round-trip.
type Constant struct {
	Value string
}

// BinaryExpr is `lhs op rhs`. Op is one of "+", "-", "*", "/", "%".
type BinaryExpr struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

func (VarRef) exprMarker()     {}
func (Constant) exprMarker()   {}
func (BinaryExpr) exprMarker() {}

var (
	_ Expr = VarRef{}
	_ Expr = Constant{}
	_ Expr = BinaryExpr{}
)

// CondExpr is the controlling expression of an If or While statement. The
// SIMPLE grammar's "!"/"&&"/"||" only ever wrap a cond_expr, never an
// arithmetic expr, and its relational leaves compare two arithmetic Exprs;
// this is a separate sum type from Expr rather than folding boolean
// operators into it, matching the grammar's own two-level structure
// (cond_expr / rel_expr / expr).
type CondExpr interface {
	condMarker()
}

// RelExpr is `lhs op rhs` with op one of ">", "<", ">=", "<=", "==", "!=".
type RelExpr struct {
	Op  string
	Lhs Expr
	Rhs Expr
}

// NotExpr is `! ( cond )`.
type NotExpr struct {
	Cond CondExpr
}

// BoolExpr is `( lhs ) op ( rhs )` with op one of "&&", "||".
type BoolExpr struct {
	Op  string
	Lhs CondExpr
	Rhs CondExpr
}

func (RelExpr) condMarker()  {}
func (NotExpr) condMarker()  {}
func (BoolExpr) condMarker() {}

var (
	_ CondExpr = RelExpr{}
	_ CondExpr = NotExpr{}
	_ CondExpr = BoolExpr{}
)

// VarRefs appends every variable name read within e, in left-to-right
// order, duplicates included; callers that need a set dedupe themselves.
func VarRefs(e Expr, out []string) []string {
	switch n := e.(type) {
	case VarRef:
		return append(out, n.Name)
	case Constant:
		return out
	case BinaryExpr:
		out = VarRefs(n.Lhs, out)
		out = VarRefs(n.Rhs, out)
		return out
	default:
		return out
	}
}

// CondVarRefs appends every variable name read within a controlling
// expression, in left-to-right order.
func CondVarRefs(c CondExpr, out []string) []string {
	switch n := c.(type) {
	case RelExpr:
		out = VarRefs(n.Lhs, out)
		out = VarRefs(n.Rhs, out)
		return out
	case NotExpr:
		return CondVarRefs(n.Cond, out)
	case BoolExpr:
		out = CondVarRefs(n.Lhs, out)
		out = CondVarRefs(n.Rhs, out)
		return out
	default:
		return out
	}
}
