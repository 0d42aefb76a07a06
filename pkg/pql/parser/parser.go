// Package parser implements a recursive-descent parser for PQL, producing
// a pkg/pql.Query. spec.md treats this parser as an external collaborator;
// it exists here so the module is runnable end to end.
package parser

import (
	"strconv"

	"github.com/pkg/errors"

	simpleLexer "github.com/spa-lang/spa/pkg/simple/lexer"
	simpleParser "github.com/spa-lang/spa/pkg/simple/parser"

	"github.com/spa-lang/spa/pkg/ast"
	"github.com/spa-lang/spa/pkg/pql"
	"github.com/spa-lang/spa/pkg/pql/lexer"
	"github.com/spa-lang/spa/pkg/pql/token"
)

var designEntKeywords = map[string]pql.DesignEnt{
	"stmt":      pql.EntStmt,
	"read":      pql.EntRead,
	"print":     pql.EntPrint,
	"call":      pql.EntCall,
	"while":     pql.EntWhile,
	"if":        pql.EntIf,
	"assign":    pql.EntAssign,
	"variable":  pql.EntVariable,
	"constant":  pql.EntConstant,
	"procedure": pql.EntProcedure,
	"prog_line": pql.EntProgLine,
}

var relKeywords = map[string]pql.RelType{
	"Follows":     pql.RelFollows,
	"Parent":      pql.RelParent,
	"Calls":       pql.RelCalls,
	"Next":        pql.RelNext,
	"Affects":     pql.RelAffects,
	"NextBip":     pql.RelNextBip,
	"AffectsBip":  pql.RelAffectsBip,
	"Uses":        pql.RelUses,
	"Modifies":    pql.RelModifies,
}

var transitiveRelKeywords = map[string]pql.RelType{
	"Follows":    pql.RelFollowsT,
	"Parent":     pql.RelParentT,
	"Calls":      pql.RelCallsT,
	"Next":       pql.RelNextT,
	"Affects":    pql.RelAffectsT,
	"NextBip":    pql.RelNextBipT,
	"AffectsBip": pql.RelAffectsBipT,
}

var attrKeywords = map[string]pql.AttrKind{
	"procName": pql.AttrProcName,
	"varName":  pql.AttrVarName,
	"value":    pql.AttrValue,
	"stmt#":    pql.AttrStmtNum,
}

// Parser turns a buffered PQL token stream into a *pql.Query.
type Parser struct {
	tokens []token.Token
	pos    int
	cur    token.Token
	peek   token.Token

	query *pql.Query
}

// New creates a Parser reading every token from l up front.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{query: &pql.Query{}}
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

// Parse parses a complete PQL query.
func Parse(input string) (*pql.Query, error) {
	p := New(lexer.New(input))
	return p.ParseQuery()
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

func (p *Parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("pql parser: line %d column %d: "+format, append([]interface{}{p.cur.Line, p.cur.Column}, args...)...)
}

func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.errorf("expected token %v, got %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.next()
	return tok, nil
}

func (p *Parser) expectIdent(literal string) error {
	if p.cur.Type != token.IDENT || p.cur.Literal != literal {
		return p.errorf("expected %q, got %q", literal, p.cur.Literal)
	}
	p.next()
	return nil
}

func (p *Parser) isIdent(literal string) bool {
	return p.cur.Type == token.IDENT && p.cur.Literal == literal
}

// ParseQuery parses `declaration* Select result-cl clause*`.
func (p *Parser) ParseQuery() (*pql.Query, error) {
	for p.cur.Type == token.IDENT {
		if _, ok := designEntKeywords[p.cur.Literal]; ok && p.peek.Type == token.IDENT {
			if err := p.parseDeclaration(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectIdent("Select"); err != nil {
		return nil, err
	}
	result, err := p.parseResultCl()
	if err != nil {
		return nil, err
	}
	p.query.Result = result

	for p.isIdent("such") || p.isIdent("pattern") || p.isIdent("with") {
		switch {
		case p.isIdent("such"):
			p.next()
			if err := p.expectIdent("that"); err != nil {
				return nil, err
			}
			if err := p.parseRelCl(); err != nil {
				return nil, err
			}
			for p.isIdent("and") {
				p.next()
				if err := p.parseRelCl(); err != nil {
					return nil, err
				}
			}
		case p.isIdent("pattern"):
			p.next()
			if err := p.parsePatternCl(); err != nil {
				return nil, err
			}
			for p.isIdent("and") {
				p.next()
				if err := p.parsePatternCl(); err != nil {
					return nil, err
				}
			}
		case p.isIdent("with"):
			p.next()
			if err := p.parseWithCl(); err != nil {
				return nil, err
			}
			for p.isIdent("and") {
				p.next()
				if err := p.parseWithCl(); err != nil {
					return nil, err
				}
			}
		}
	}

	if p.cur.Type != token.EOF {
		return nil, p.errorf("unexpected trailing input %q", p.cur.Literal)
	}

	return p.query, nil
}

func (p *Parser) parseDeclaration() error {
	entTok := p.cur
	ent := designEntKeywords[entTok.Literal]
	p.next()
	for {
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return errors.Wrap(err, "declaration name")
		}
		if _, exists := p.query.DeclByName(nameTok.Literal); exists {
			return p.errorf("synonym %q declared more than once", nameTok.Literal)
		}
		p.query.Decls = append(p.query.Decls, &pql.Declaration{Name: nameTok.Literal, Ent: ent})
		if p.cur.Type == token.COMMA {
			p.next()
			continue
		}
		break
	}
	_, err := p.expect(token.SEMI)
	return err
}

func (p *Parser) parseResultCl() (pql.ResultCl, error) {
	if p.isIdent("BOOLEAN") {
		p.next()
		return pql.ResultCl{Kind: pql.ResultBoolean}, nil
	}
	if p.cur.Type == token.LT {
		p.next()
		var elems []pql.Elem
		for {
			elem, err := p.parseElem()
			if err != nil {
				return pql.ResultCl{}, err
			}
			elems = append(elems, elem)
			if p.cur.Type == token.COMMA {
				p.next()
				continue
			}
			break
		}
		if _, err := p.expect(token.GT); err != nil {
			return pql.ResultCl{}, err
		}
		return pql.ResultCl{Kind: pql.ResultTuple, Elems: elems}, nil
	}
	elem, err := p.parseElem()
	if err != nil {
		return pql.ResultCl{}, err
	}
	return pql.ResultCl{Kind: pql.ResultTuple, Elems: []pql.Elem{elem}}, nil
}

func (p *Parser) parseElem() (pql.Elem, error) {
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return pql.Elem{}, errors.Wrap(err, "result element")
	}
	decl, ok := p.query.DeclByName(nameTok.Literal)
	if !ok {
		return pql.Elem{}, p.errorf("undeclared synonym %q", nameTok.Literal)
	}
	if p.cur.Type == token.DOT {
		p.next()
		kind, err := p.parseAttrName()
		if err != nil {
			return pql.Elem{}, err
		}
		return pql.Elem{Attr: &pql.AttrRef{Decl: decl, Attr: kind}}, nil
	}
	return pql.Elem{Decl: decl}, nil
}

// parseAttrName parses the attribute name following a ".": procName,
// varName, value, or stmt#. "stmt#" lexes as an IDENT "stmt" followed by a
// bare "#" character, since '#' is not otherwise a meaningful PQL token.
func (p *Parser) parseAttrName() (pql.AttrKind, error) {
	attrTok, err := p.expect(token.IDENT)
	if err != nil {
		return 0, errors.Wrap(err, "attribute name")
	}
	lit := attrTok.Literal
	if lit == "stmt" && p.cur.Type == token.ILLEGAL && p.cur.Literal == "#" {
		p.next()
		lit = "stmt#"
	}
	kind, ok := attrKeywords[lit]
	if !ok {
		return 0, p.errorf("unknown attribute %q", lit)
	}
	return kind, nil
}

func (p *Parser) parseRelCl() error {
	relTok, err := p.expect(token.IDENT)
	if err != nil {
		return errors.Wrap(err, "relation name")
	}
	// "*" is not a token type of its own; the lexer scans identifier
	// characters only, so "Next*" is not glued together by NextToken
	// either. The star surfaces in the token stream as an ILLEGAL "*"
	// token immediately after the relation name, and is detected here.
	name := relTok.Literal
	transitive := false
	if p.cur.Type == token.ILLEGAL && p.cur.Literal == "*" {
		transitive = true
		p.next()
	}
	var rel pql.RelType
	if transitive {
		rt, ok := transitiveRelKeywords[name]
		if !ok {
			return p.errorf("relation %q has no transitive form", name)
		}
		rel = rt
	} else {
		rt, ok := relKeywords[name]
		if !ok {
			return p.errorf("unknown relation %q", name)
		}
		rel = rt
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return err
	}
	left, err := p.parseRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return err
	}
	right, err := p.parseRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return err
	}
	p.query.Rels = append(p.query.Rels, pql.RelCond{Rel: rel, Left: left, Right: right})
	return nil
}

// parseRef parses one StmtRef/EntRef argument: a wildcard, a quoted name,
// a bare integer, or a declared synonym.
func (p *Parser) parseRef() (pql.Ref, error) {
	switch p.cur.Type {
	case token.WILDCARD:
		p.next()
		return pql.WildcardRef(), nil
	case token.STRING:
		name := p.cur.Literal
		p.next()
		return pql.NameRef(name), nil
	case token.INT:
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil {
			return pql.Ref{}, p.errorf("invalid statement number %q", p.cur.Literal)
		}
		p.next()
		return pql.StmtNumRef(n), nil
	case token.IDENT:
		decl, ok := p.query.DeclByName(p.cur.Literal)
		if !ok {
			return pql.Ref{}, p.errorf("undeclared synonym %q", p.cur.Literal)
		}
		p.next()
		return pql.DeclRef(decl), nil
	default:
		return pql.Ref{}, p.errorf("expected a wildcard, name, integer, or synonym, got %q", p.cur.Literal)
	}
}

// parsePatternCl parses `declName ( entRef , exprSpec )`. For while/if
// pattern declarations the second argument is a bare wildcard rather than
// an exprSpec; the grammar is otherwise identical so this one function
// handles all three.
func (p *Parser) parsePatternCl() error {
	declTok, err := p.expect(token.IDENT)
	if err != nil {
		return errors.Wrap(err, "pattern declaration")
	}
	decl, ok := p.query.DeclByName(declTok.Literal)
	if !ok {
		return p.errorf("undeclared synonym %q in pattern clause", declTok.Literal)
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return err
	}
	entRef, err := p.parseRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return err
	}
	spec, err := p.parseExprSpec()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return err
	}
	p.query.Patterns = append(p.query.Patterns, pql.PatternCond{Decl: decl, Entity: entRef, ExprSpec: spec})
	return nil
}

// parseExprSpec parses `_`, `"expr"`, or `_"expr"_`.
func (p *Parser) parseExprSpec() (pql.ExprSpec, error) {
	if p.cur.Type == token.WILDCARD && p.peek.Type != token.STRING {
		p.next()
		return pql.ExprSpec{Wildcard: true}, nil
	}
	if p.cur.Type == token.WILDCARD {
		p.next() // leading "_"
		strTok, err := p.expect(token.STRING)
		if err != nil {
			return pql.ExprSpec{}, errors.Wrap(err, "sub-expression spec")
		}
		if _, err := p.expect(token.WILDCARD); err != nil {
			return pql.ExprSpec{}, errors.Wrap(err, "sub-expression spec closing '_'")
		}
		expr, err := parseEmbeddedExpr(strTok.Literal)
		if err != nil {
			return pql.ExprSpec{}, err
		}
		return pql.ExprSpec{IsSubExpr: true, Expr: expr}, nil
	}
	strTok, err := p.expect(token.STRING)
	if err != nil {
		return pql.ExprSpec{}, errors.Wrap(err, "expression spec")
	}
	expr, err := parseEmbeddedExpr(strTok.Literal)
	if err != nil {
		return pql.ExprSpec{}, err
	}
	return pql.ExprSpec{Expr: expr}, nil
}

// parseEmbeddedExpr reparses a quoted SIMPLE expr using pkg/simple's
// expr-level recursive descent (shared grammar: expr/term/factor).
func parseEmbeddedExpr(src string) (ast.Expr, error) {
	sp := simpleParser.New(simpleLexer.New(src))
	return sp.ParseStandaloneExpr()
}

func (p *Parser) parseWithCl() error {
	left, err := p.parseWithRef()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return err
	}
	right, err := p.parseWithRef()
	if err != nil {
		return err
	}
	p.query.Withs = append(p.query.Withs, pql.WithCond{Left: left, Right: right})
	return nil
}

func (p *Parser) parseWithRef() (pql.WithRef, error) {
	switch p.cur.Type {
	case token.INT:
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil {
			return pql.WithRef{}, p.errorf("invalid integer literal %q", p.cur.Literal)
		}
		p.next()
		return pql.WithRef{HasInt: true, IntLit: n}, nil
	case token.STRING:
		s := p.cur.Literal
		p.next()
		return pql.WithRef{HasStr: true, StrLit: s}, nil
	case token.IDENT:
		nameTok := p.cur
		p.next()
		decl, ok := p.query.DeclByName(nameTok.Literal)
		if !ok {
			return pql.WithRef{}, p.errorf("undeclared synonym %q in with clause", nameTok.Literal)
		}
		if p.cur.Type == token.DOT {
			p.next()
			kind, err := p.parseAttrName()
			if err != nil {
				return pql.WithRef{}, err
			}
			return pql.WithRef{IsAttr: true, Attr: pql.AttrRef{Decl: decl, Attr: kind}}, nil
		}
		// A bare synonym in a with-clause must be a prog_line integer
		// synonym, read through its implicit stmt# attribute.
		return pql.WithRef{IsAttr: true, Attr: pql.AttrRef{Decl: decl, Attr: pql.AttrStmtNum}}, nil
	default:
		return pql.WithRef{}, p.errorf("expected an integer, string, or synonym, got %q", p.cur.Literal)
	}
}
