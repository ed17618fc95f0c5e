// Package parser turns exceptional source text into the ast nodes
// defined in package ast, per spec.md §6. Grounded on the teacher's
// parser/parser.go current/peek two-token lookahead style.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"exceptional/ast"
	"exceptional/lexer"
	"exceptional/types"
)

// Parser parses exceptional source code into AST statements.
type Parser struct {
	l       *lexer.Lexer
	current lexer.Token
	peek    lexer.Token
	err     error
}

// New creates a Parser over the given source text.
func New(input string) *Parser {
	p := &Parser{l: lexer.New(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) fail(format string, args ...interface{}) {
	if p.err == nil {
		msg := fmt.Sprintf(format, args...)
		p.err = fmt.Errorf("parse error at line %d, column %d: %s",
			p.current.Position.Line, p.current.Position.Column, msg)
	}
}

func (p *Parser) expect(t lexer.TokenType, what string) bool {
	if p.current.Type != t {
		p.fail("expected %s, got %q", what, p.current.Literal)
		return false
	}
	return true
}

// ParseProgram parses a whole source file into a statement list.
func ParseProgram(source string) ([]ast.Statement, error) {
	p := New(source)
	stmts := p.parseStatements(lexer.TOKEN_EOF)
	if p.err != nil {
		return nil, p.err
	}
	return stmts, nil
}

// parseStatements reads statements until the current token is `until`
// (not consumed), used both for the top level (until TOKEN_EOF) and
// for `do ... end` bodies (until TOKEN_END).
func (p *Parser) parseStatements(until lexer.TokenType) []ast.Statement {
	var stmts []ast.Statement
	for p.current.Type != until && p.current.Type != lexer.TOKEN_EOF && p.err == nil {
		stmt := p.parseStatement()
		if p.err != nil {
			return stmts
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.current.Type {
	case lexer.TOKEN_LET:
		return p.parseAssign(true)
	case lexer.TOKEN_RAISE:
		return p.parseRaise()
	case lexer.TOKEN_RESCUE:
		return p.parseRescue()
	case lexer.TOKEN_IDENTIFIER:
		return p.parseIdentifierStatement()
	default:
		p.fail("unexpected token %q at statement position", p.current.Literal)
		return nil
	}
}

func (p *Parser) parseAssign(isLet bool) ast.Statement {
	p.nextToken() // consume 'let'
	if !p.expect(lexer.TOKEN_IDENTIFIER, "identifier") {
		return nil
	}
	name := p.current.Literal
	p.nextToken()
	if !p.expect(lexer.TOKEN_ASSIGN, "'='") {
		return nil
	}
	p.nextToken()
	expr := p.parseExpression(precLowest)
	return ast.AssignStmt{IsLet: isLet, Name: name, Expr: expr}
}

// parseIdentifierStatement disambiguates the three statement forms
// that start with an identifier: plain reassignment `x = expr`,
// index-assignment `x[k] = v`, and calls `f(...)` / `a.read(...)`.
func (p *Parser) parseIdentifierStatement() ast.Statement {
	start := ast.IdentifierExpr{Name: p.current.Literal}
	p.nextToken()

	var target ast.Expression = start
	for {
		switch p.current.Type {
		case lexer.TOKEN_LBRACKET:
			p.nextToken()
			key := p.parseExpression(precLowest)
			if !p.expect(lexer.TOKEN_RBRACKET, "']'") {
				return nil
			}
			p.nextToken()
			if p.current.Type == lexer.TOKEN_ASSIGN {
				p.nextToken()
				value := p.parseExpression(precLowest)
				return ast.IndexAssignStmt{Target: target, Key: key, Value: value}
			}
			target = ast.IndexExpr{Target: target, Key: key}
			continue
		case lexer.TOKEN_DOT:
			p.nextToken()
			if !p.expect(lexer.TOKEN_IDENTIFIER, "member name") {
				return nil
			}
			key := ast.LiteralExpr{Literal: ast.StringLiteral{Value: p.current.Literal}}
			p.nextToken()
			target = ast.IndexExpr{Target: target, Key: key}
			continue
		case lexer.TOKEN_LPAREN:
			args := p.parseArgs()
			return ast.CallStmt{Target: target, Args: args}
		case lexer.TOKEN_ASSIGN:
			p.nextToken()
			value := p.parseExpression(precLowest)
			id, ok := target.(ast.IdentifierExpr)
			if !ok {
				p.fail("left-hand side of assignment must be a name or index expression")
				return nil
			}
			return ast.AssignStmt{IsLet: false, Name: id.Name, Expr: value}
		default:
			p.fail("expected assignment or call after expression, got %q", p.current.Literal)
			return nil
		}
	}
}

func (p *Parser) parseArgs() []ast.Expression {
	p.nextToken() // consume '('
	var args []ast.Expression
	for p.current.Type != lexer.TOKEN_RPAREN {
		args = append(args, p.parseExpression(precLowest))
		if p.current.Type == lexer.TOKEN_COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.TOKEN_RPAREN, "')'") {
		return nil
	}
	p.nextToken()
	return args
}

func (p *Parser) parseRaise() ast.Statement {
	p.nextToken() // consume 'raise'
	if !p.expect(lexer.TOKEN_LPAREN, "'('") {
		return nil
	}
	p.nextToken()
	expr := p.parseExpression(precLowest)
	if !p.expect(lexer.TOKEN_RPAREN, "')'") {
		return nil
	}
	p.nextToken()
	return ast.RaiseStmt{Expr: expr}
}

func (p *Parser) parseRescue() ast.Statement {
	p.nextToken() // consume 'rescue'
	if !p.expect(lexer.TOKEN_LPAREN, "'('") {
		return nil
	}
	p.nextToken()
	pattern := p.parsePattern()
	if !p.expect(lexer.TOKEN_RPAREN, "')'") {
		return nil
	}
	p.nextToken()
	if !p.expect(lexer.TOKEN_DO, "'do'") {
		return nil
	}
	p.nextToken()
	body := p.parseStatements(lexer.TOKEN_END)
	if !p.expect(lexer.TOKEN_END, "'end'") {
		return nil
	}
	p.nextToken()
	return ast.RescueStmt{Pattern: pattern, Body: body}
}

func (p *Parser) parsePattern() types.Pattern {
	switch p.current.Type {
	case lexer.TOKEN_NUMBER:
		n := p.parseNumberLiteral()
		return types.NumberPattern{Val: n}
	case lexer.TOKEN_STRING:
		s := p.current.Literal
		p.nextToken()
		return types.StringPattern{Val: types.NewString(s)}
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		b := p.current.Type == lexer.TOKEN_TRUE
		p.nextToken()
		return types.BooleanPattern{Val: types.NewBoolean(b)}
	case lexer.TOKEN_IDENTIFIER:
		name := p.current.Literal
		p.nextToken()
		return types.IdentifierPattern{Name: name}
	case lexer.TOKEN_LBRACE:
		return p.parseMapPattern()
	default:
		p.fail("unexpected token %q in pattern", p.current.Literal)
		return nil
	}
}

// parseMapPattern requires literal keys (Number, CharString, or
// Boolean) per spec.md §9: non-literal key patterns are rejected here
// at parse time rather than left with undefined match semantics.
func (p *Parser) parseMapPattern() types.Pattern {
	p.nextToken() // consume '{'
	var entries []types.MapPatternEntry
	for p.current.Type != lexer.TOKEN_RBRACE {
		key, ok := p.parseLiteralKey()
		if !ok {
			return nil
		}
		if !p.expect(lexer.TOKEN_FATARROW, "'=>'") {
			return nil
		}
		p.nextToken()
		valPattern := p.parsePattern()
		entries = append(entries, types.MapPatternEntry{Key: key, Value: valPattern})
		if p.current.Type == lexer.TOKEN_COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.TOKEN_RBRACE, "'}'") {
		return nil
	}
	p.nextToken()
	return types.MapPattern{Entries: entries}
}

func (p *Parser) parseLiteralKey() (types.Value, bool) {
	switch p.current.Type {
	case lexer.TOKEN_STRING:
		v := types.NewString(p.current.Literal)
		p.nextToken()
		return v, true
	case lexer.TOKEN_NUMBER:
		return p.parseNumberLiteral(), true
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		v := types.NewBoolean(p.current.Type == lexer.TOKEN_TRUE)
		p.nextToken()
		return v, true
	default:
		p.fail("map pattern keys must be literal values, got %q", p.current.Literal)
		return nil, false
	}
}

// Expression precedence, lowest to highest.
const (
	precLowest = iota
	precComparison
	precSum
	precProduct
)

func precedenceOf(t lexer.TokenType) int {
	switch t {
	case lexer.TOKEN_EQ, lexer.TOKEN_GT, lexer.TOKEN_LT, lexer.TOKEN_GE, lexer.TOKEN_LE:
		return precComparison
	case lexer.TOKEN_PLUS, lexer.TOKEN_MINUS:
		return precSum
	case lexer.TOKEN_STAR, lexer.TOKEN_SLASH:
		return precProduct
	default:
		return precLowest
	}
}

var binOpLiteral = map[lexer.TokenType]string{
	lexer.TOKEN_PLUS:  "+",
	lexer.TOKEN_MINUS: "-",
	lexer.TOKEN_STAR:  "*",
	lexer.TOKEN_SLASH: "/",
	lexer.TOKEN_EQ:    "=",
	lexer.TOKEN_GT:    ">",
	lexer.TOKEN_LT:    "<",
	lexer.TOKEN_GE:    ">=",
	lexer.TOKEN_LE:    "<=",
}

func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parseUnary()
	for p.err == nil {
		op, ok := binOpLiteral[p.current.Type]
		prec := precedenceOf(p.current.Type)
		if !ok || prec <= minPrec {
			break
		}
		p.nextToken()
		right := p.parseExpression(prec)
		left = ast.BinOpExpr{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	expr := p.parsePrimary()
	for p.err == nil {
		switch p.current.Type {
		case lexer.TOKEN_LBRACKET:
			p.nextToken()
			key := p.parseExpression(precLowest)
			if !p.expect(lexer.TOKEN_RBRACKET, "']'") {
				return expr
			}
			p.nextToken()
			expr = ast.IndexExpr{Target: expr, Key: key}
		case lexer.TOKEN_DOT:
			p.nextToken()
			if !p.expect(lexer.TOKEN_IDENTIFIER, "member name") {
				return expr
			}
			key := ast.LiteralExpr{Literal: ast.StringLiteral{Value: p.current.Literal}}
			p.nextToken()
			expr = ast.IndexExpr{Target: expr, Key: key}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.current.Type {
	case lexer.TOKEN_NUMBER:
		n := p.parseNumberLiteral()
		return ast.LiteralExpr{Literal: ast.NumberLiteral{Value: n}}
	case lexer.TOKEN_STRING:
		s := p.current.Literal
		p.nextToken()
		return ast.LiteralExpr{Literal: ast.StringLiteral{Value: s}}
	case lexer.TOKEN_TRUE, lexer.TOKEN_FALSE:
		b := p.current.Type == lexer.TOKEN_TRUE
		p.nextToken()
		return ast.LiteralExpr{Literal: ast.BooleanLiteral{Value: b}}
	case lexer.TOKEN_IDENTIFIER:
		name := p.current.Literal
		p.nextToken()
		return ast.IdentifierExpr{Name: name}
	case lexer.TOKEN_LPAREN:
		p.nextToken()
		expr := p.parseExpression(precLowest)
		if !p.expect(lexer.TOKEN_RPAREN, "')'") {
			return expr
		}
		p.nextToken()
		return expr
	case lexer.TOKEN_LBRACE:
		return p.parseMapLiteral()
	case lexer.TOKEN_FN:
		return p.parseFnLiteral()
	case lexer.TOKEN_IMPORT:
		return p.parseImport()
	default:
		p.fail("unexpected token %q in expression", p.current.Literal)
		return nil
	}
}

func (p *Parser) parseImport() ast.Expression {
	p.nextToken() // consume 'import'
	if !p.expect(lexer.TOKEN_LPAREN, "'('") {
		return nil
	}
	p.nextToken()
	name := p.parseExpression(precLowest)
	if !p.expect(lexer.TOKEN_RPAREN, "')'") {
		return nil
	}
	p.nextToken()
	return ast.ImportExpr{Name: name}
}

func (p *Parser) parseMapLiteral() ast.Expression {
	p.nextToken() // consume '{'
	var pairs []ast.MapPair
	for p.current.Type != lexer.TOKEN_RBRACE {
		key := p.parseExpression(precLowest)
		if !p.expect(lexer.TOKEN_FATARROW, "'=>'") {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(precLowest)
		pairs = append(pairs, ast.MapPair{Key: key, Value: value})
		if p.current.Type == lexer.TOKEN_COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.TOKEN_RBRACE, "'}'") {
		return nil
	}
	p.nextToken()
	return ast.LiteralExpr{Literal: ast.MapLiteral{Pairs: pairs}}
}

func (p *Parser) parseFnLiteral() ast.Expression {
	p.nextToken() // consume 'fn'
	if !p.expect(lexer.TOKEN_LPAREN, "'('") {
		return nil
	}
	p.nextToken()
	var params []string
	for p.current.Type != lexer.TOKEN_RPAREN {
		if !p.expect(lexer.TOKEN_IDENTIFIER, "parameter name") {
			return nil
		}
		params = append(params, p.current.Literal)
		p.nextToken()
		if p.current.Type == lexer.TOKEN_COMMA {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expect(lexer.TOKEN_RPAREN, "')'") {
		return nil
	}
	p.nextToken()
	if !p.expect(lexer.TOKEN_DO, "'do'") {
		return nil
	}
	p.nextToken()
	body := p.parseStatements(lexer.TOKEN_END)
	if !p.expect(lexer.TOKEN_END, "'end'") {
		return nil
	}
	p.nextToken()
	return ast.LiteralExpr{Literal: ast.FnLiteral{Params: params, Body: body}}
}

func (p *Parser) parseNumberLiteral() types.NumberValue {
	lit := p.current.Literal
	p.nextToken()
	if !strings.Contains(lit, ".") {
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			p.fail("invalid integer literal %q", lit)
			return types.NewNumberFromInt64(0)
		}
		return types.NewNumberFromInt64(n)
	}
	parts := strings.SplitN(lit, ".", 2)
	whole, frac := parts[0], parts[1]
	denom := int64(1)
	for range frac {
		denom *= 10
	}
	numer, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil {
		p.fail("invalid decimal literal %q", lit)
		return types.NewNumberFromInt64(0)
	}
	return types.NewNumber(numer, denom)
}
