// Package parser implements a recursive-descent parser for SIMPLE,
// producing a pkg/ast tree. spec.md treats this parser as an external
// collaborator; it exists here so the module is runnable end to end.
package parser

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/simple/lexer"
	"github.com/spa-lang/spa/pkg/simple/token"
)

// Parser turns a buffered token stream into an *ast.Program. Tokens are
// read eagerly from the lexer into a slice so that cond_expr's
// "(" arithmetic-expr vs "(" boolean-combination ambiguity can be resolved
// by a plain index save/restore, rather than needing a lexer that supports
// rewinding.
type Parser struct {
	tokens []token.Token
	pos    int

	cur  token.Token
	peek token.Token
}

// New creates a Parser reading every token from l up front.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{}
	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	p.next()
	p.next()
	return p
}

// Parse parses a complete SIMPLE program: one or more procedures.
func Parse(input string) (*ast.Program, error) {
	p := New(lexer.New(input))
	return p.ParseProgram()
}

// ParseStandaloneExpr parses a bare expr (no enclosing statement or
// terminating semicolon), consuming all of p's input. Used by pattern
// clause expr-specs, which embed a SIMPLE expr as a quoted sub-string of a
// PQL query.
func (p *Parser) ParseStandaloneExpr() (ast.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != token.EOF {
		return nil, p.errorf("unexpected trailing input %q after expression", p.cur.Literal)
	}
	return e, nil
}

func (p *Parser) next() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = token.Token{Type: token.EOF}
	}
}

// mark returns a position that restore can rewind to.
func (p *Parser) mark() int { return p.pos - 2 }

// restore rewinds the parser to a position previously returned by mark.
func (p *Parser) restore(mark int) {
	p.pos = mark
	p.next()
	p.next()
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("simple parser: line %d column %d: %s", p.cur.Line, p.cur.Column, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.errorf("expected token %v, got %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

// ParseProgram parses `procedure+`.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.Type != token.EOF {
		proc, err := p.parseProcedure()
		if err != nil {
			return nil, err
		}
		prog.Procedures = append(prog.Procedures, proc)
	}
	if len(prog.Procedures) == 0 {
		return nil, p.errorf("a program must declare at least one procedure")
	}
	return prog, nil
}

func (p *Parser) parseProcedure() (*ast.Procedure, error) {
	if _, err := p.expect(token.PROCEDURE); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, errors.Wrap(err, "procedure name")
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(nil)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.Procedure{Name: nameTok.Literal, Body: body}, nil
}

// parseStmtList parses `stmt+` until a closing brace, building a StmtList
// whose Enclosing back-pointer is enclosing (nil for a procedure body).
func (p *Parser) parseStmtList(enclosing ast.Stmt) (*ast.StmtList, error) {
	list := &ast.StmtList{Enclosing: enclosing}
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		list.Stmts = append(list.Stmts, stmt)
	}
	if len(list.Stmts) == 0 {
		return nil, p.errorf("statement lists must be non-empty")
	}
	return list, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	// Keywords are soft: "read = 1;" assigns to a variable named "read".
	if p.cur.Type != token.IDENT && p.peek.Type == token.ASSIGN {
		return p.parseAssign()
	}
	switch p.cur.Type {
	case token.READ:
		return p.parseRead()
	case token.PRINT:
		return p.parsePrint()
	case token.CALL:
		return p.parseCall()
	case token.WHILE:
		return p.parseWhile()
	case token.IF:
		return p.parseIf()
	case token.IDENT:
		return p.parseAssign()
	default:
		return nil, p.errorf("unexpected token %q at start of statement", p.cur.Literal)
	}
}

func (p *Parser) parseRead() (ast.Stmt, error) {
	p.next() // 'read'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, errors.Wrap(err, "read statement")
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.ReadStmt{Var: nameTok.Literal}, nil
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	p.next() // 'print'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, errors.Wrap(err, "print statement")
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Var: nameTok.Literal}, nil
}

func (p *Parser) parseCall() (ast.Stmt, error) {
	p.next() // 'call'
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, errors.Wrap(err, "call statement")
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.CallStmt{Proc: nameTok.Literal}, nil
}

func (p *Parser) parseAssign() (ast.Stmt, error) {
	nameTok := p.cur
	p.next()
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, errors.Wrap(err, "assignment rhs")
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return &ast.AssignStmt{Var: nameTok.Literal, Rhs: rhs}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.next() // 'while'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseCondExpr()
	if err != nil {
		return nil, errors.Wrap(err, "while condition")
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	w := &ast.WhileStmt{Cond: cond}
	body, err := p.parseStmtList(w)
	if err != nil {
		return nil, err
	}
	w.Body = body
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return w, nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	p.next() // 'if'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseCondExpr()
	if err != nil {
		return nil, errors.Wrap(err, "if condition")
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.THEN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	ifs := &ast.IfStmt{Cond: cond}
	thenList, err := p.parseStmtList(ifs)
	if err != nil {
		return nil, err
	}
	ifs.Then = thenList
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ELSE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	elseList, err := p.parseStmtList(ifs)
	if err != nil {
		return nil, err
	}
	ifs.Else = elseList
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return ifs, nil
}

// parseCondExpr := rel_expr | "!" "(" cond_expr ")" | "(" cond_expr ")" ("&&"|"||") "(" cond_expr ")"
func (p *Parser) parseCondExpr() (ast.CondExpr, error) {
	if p.cur.Type == token.NOT {
		p.next()
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		inner, err := p.parseCondExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return ast.NotExpr{Cond: inner}, nil
	}
	if p.cur.Type == token.LPAREN {
		// "(" is ambiguous here: it may open a parenthesised arithmetic
		// expr that's the lhs of a rel_expr (e.g. "(x+1) > y"), or it may
		// open the "(" cond_expr ")" ("&&"|"||") "(" cond_expr ")" form.
		// Try the boolean-combination parse first and rewind on failure.
		mark := p.mark()
		if cond, ok := p.tryBoolCombination(); ok {
			return cond, nil
		}
		p.restore(mark)
	}
	return p.parseRelExpr()
}

func (p *Parser) tryBoolCombination() (ast.CondExpr, bool) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, false
	}
	lhs, err := p.parseCondExpr()
	if err != nil {
		return nil, false
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, false
	}
	var op string
	switch p.cur.Type {
	case token.AND:
		op = "&&"
	case token.OR:
		op = "||"
	default:
		return nil, false
	}
	p.next()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, false
	}
	rhs, err := p.parseCondExpr()
	if err != nil {
		return nil, false
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, false
	}
	return ast.BoolExpr{Op: op, Lhs: lhs, Rhs: rhs}, true
}

func (p *Parser) parseRelExpr() (ast.CondExpr, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var op string
	switch p.cur.Type {
	case token.GT:
		op = ">"
	case token.LT:
		op = "<"
	case token.GTE:
		op = ">="
	case token.LTE:
		op = "<="
	case token.EQ:
		op = "=="
	case token.NEQ:
		op = "!="
	default:
		return nil, p.errorf("expected relational operator, got %q", p.cur.Literal)
	}
	p.next()
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.RelExpr{Op: op, Lhs: lhs, Rhs: rhs}, nil
}

// parseExpr := expr ("+"|"-") term | term, left-associative.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		op := p.cur.Literal
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Lhs: left, Rhs: right}
	}
	return left, nil
}

// parseTerm := term ("*"|"/"|"%") factor | factor, left-associative.
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.STAR || p.cur.Type == token.SLASH || p.cur.Type == token.PERCENT {
		op := p.cur.Literal
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Op: op, Lhs: left, Rhs: right}
	}
	return left, nil
}

// parseFactor := "(" expr ")" | NAME | INT
func (p *Parser) parseFactor() (ast.Expr, error) {
	switch p.cur.Type {
	case token.LPAREN:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.INT:
		if err := checkIntLexeme(p.cur.Literal); err != nil {
			return nil, p.errorf("%s", err)
		}
		lit := p.cur.Literal
		p.next()
		return ast.Constant{Value: lit}, nil
	default:
		// IDENT, or a soft keyword used as a variable name.
		if p.cur.Type != token.IDENT && token.Lookup(p.cur.Literal) == token.IDENT {
			return nil, p.errorf("expected a variable name or integer literal, got %q", p.cur.Literal)
		}
		name := p.cur.Literal
		p.next()
		return ast.VarRef{Name: name}, nil
	}
}

// checkIntLexeme enforces INT := 0 | [1-9][0-9]*.
func checkIntLexeme(lit string) error {
	if len(lit) > 1 && lit[0] == '0' {
		return errors.Errorf("multi-digit integer %q cannot start with 0", lit)
	}
	return nil
}
