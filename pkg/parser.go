package binisaya

import (
	"fmt"
	"strconv"
)

// Parser is a recursive-descent parser over a fully tokenized unit. It stops
// at the first error, there is no recovery.
type Parser struct {
	tokens []Token
	pos    int
}

func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens: tokens,
	}
}

// Parse builds the syntax tree for tokens, or fails with a *SyntaxError.
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens).Run()
}

func (p *Parser) Run() (*Program, error) {
	prog := &Program{}

	for !p.atEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}

		prog.Statements = append(prog.Statements, stmt)
	}

	return prog, nil
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() *Token {
	if p.atEnd() {
		return nil
	}

	return &p.tokens[p.pos]
}

func (p *Parser) next() *Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}

	return tok
}

func (p *Parser) check(typ TokenType, value string) bool {
	tok := p.peek()
	return tok != nil && tok.is(typ, value)
}

func (p *Parser) checkPunct(value string) bool {
	return p.check(TokenPunctuation, value)
}

func (p *Parser) checkKeyword(value string) bool {
	return p.check(TokenKeyword, value)
}

func (p *Parser) match(typ TokenType, value string) bool {
	if p.check(typ, value) {
		p.next()
		return true
	}

	return false
}

func (p *Parser) consume(value string, expected string) error {
	if !p.match(TokenPunctuation, value) {
		return p.errorf("%s", expected)
	}

	return nil
}

func (p *Parser) expect(typ TokenType) *Token {
	if tok := p.peek(); tok != nil && tok.Typ == typ {
		return p.next()
	}

	return nil
}

// errorf reports the expectation against the token at the cursor.
func (p *Parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{
		Expected: fmt.Sprintf(format, args...),
		Found:    p.peek(),
	}
}

func (p *Parser) declaration() (Stmt, error) {
	if tok := p.peek(); tok != nil && tok.Typ == TokenKeyword && isTypeKeyword(tok.Value) {
		return p.varDecl()
	}

	return p.statement()
}

func (p *Parser) varDecl() (Stmt, error) {
	typ := p.next()

	name := p.expect(TokenIdentifier)
	if name == nil {
		return nil, p.errorf("variable name after '%s'", typ.Value)
	}

	decl := &VarDecl{
		Type: typ.Value,
		Name: name.Value,
	}

	if p.match(TokenPunctuation, "=") {
		initializer, err := p.expr()
		if err != nil {
			return nil, err
		}

		decl.Initializer = initializer
	}

	if err := p.consume(";", "';' after variable declaration"); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.checkKeyword(KeywordIf):
		return p.ifStmt()
	case p.checkKeyword(KeywordWhile):
		return p.whileStmt()
	case p.checkKeyword(KeywordFor):
		return p.forStmt()
	case p.checkKeyword(KeywordPrint):
		return p.printStmt()
	case p.checkPunct("{"):
		return p.blockStmt()
	default:
		return p.exprStmt()
	}
}

func (p *Parser) ifStmt() (Stmt, error) {
	p.next() // ug

	cond, err := p.condition(KeywordIf)
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{
		Condition: cond,
		Then:      then,
	}

	if p.match(TokenKeyword, KeywordElse) {
		if stmt.Else, err = p.statement(); err != nil {
			return nil, err
		}
	}

	return stmt, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	p.next() // samtang

	cond, err := p.condition(KeywordWhile)
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{
		Condition: cond,
		Body:      body,
	}, nil
}

// condition parses a parenthesised control condition.
func (p *Parser) condition(keyword string) (Expr, error) {
	if err := p.consume("(", fmt.Sprintf("'(' after '%s'", keyword)); err != nil {
		return nil, err
	}

	if !p.startsExpr() {
		return nil, p.errorf("condition after '('")
	}

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.consume(")", "')' after condition"); err != nil {
		return nil, err
	}

	return cond, nil
}

func (p *Parser) forStmt() (Stmt, error) {
	p.next() // alang

	if err := p.consume("(", fmt.Sprintf("'(' after '%s'", KeywordFor)); err != nil {
		return nil, err
	}

	stmt := &ForStmt{}

	var err error
	switch tok := p.peek(); {
	case p.match(TokenPunctuation, ";"):
		// No initializer
	case tok != nil && tok.Typ == TokenKeyword && isTypeKeyword(tok.Value):
		stmt.Init, err = p.varDecl()
	default:
		stmt.Init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	if !p.checkPunct(";") {
		if stmt.Condition, err = p.expr(); err != nil {
			return nil, err
		}
	}

	if err := p.consume(";", "';' after loop condition"); err != nil {
		return nil, err
	}

	if !p.checkPunct(")") {
		if stmt.Increment, err = p.expr(); err != nil {
			return nil, err
		}
	}

	if err := p.consume(")", "')' after for clauses"); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.statement(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) printStmt() (Stmt, error) {
	p.next() // imprenta_gawas

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.consume(";", fmt.Sprintf("';' after %s statement", KeywordPrint)); err != nil {
		return nil, err
	}

	return &PrintStmt{Expression: e}, nil
}

func (p *Parser) blockStmt() (Stmt, error) {
	if err := p.consume("{", "'{'"); err != nil {
		return nil, err
	}

	block := &Block{}
	for !p.atEnd() && !p.checkPunct("}") {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}

		block.Statements = append(block.Statements, stmt)
	}

	if err := p.consume("}", "'}' after block"); err != nil {
		return nil, err
	}

	return block, nil
}

func (p *Parser) exprStmt() (Stmt, error) {
	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.consume(";", "';' after expression"); err != nil {
		return nil, err
	}

	return &ExprStmt{Expression: e}, nil
}

func (p *Parser) expr() (Expr, error) {
	return p.assignment()
}

// assignment is right associative: a = b = c assigns c to b, then to a.
func (p *Parser) assignment() (Expr, error) {
	lhs, err := p.logicOr()
	if err != nil {
		return nil, err
	}

	if !p.checkPunct("=") {
		return lhs, nil
	}

	id, ok := lhs.(*Identifier)
	if !ok {
		return nil, p.errorf("variable name as assignment target")
	}

	p.next() // =

	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	return &AssignExpr{
		Name:  id.Name,
		Value: value,
	}, nil
}

func (p *Parser) logicOr() (Expr, error) {
	return p.binaryExpr(p.logicAnd, BinaryOr)
}

func (p *Parser) logicAnd() (Expr, error) {
	return p.binaryExpr(p.equalityExpr, BinaryAnd)
}

func (p *Parser) equalityExpr() (Expr, error) {
	return p.binaryExpr(p.relationalExpr, BinaryEqual, BinaryNotEqual)
}

func (p *Parser) relationalExpr() (Expr, error) {
	return p.binaryExpr(p.additiveExpr, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual)
}

func (p *Parser) additiveExpr() (Expr, error) {
	return p.binaryExpr(p.multiplicativeExpr, BinaryAddition, BinarySubtraction)
}

func (p *Parser) multiplicativeExpr() (Expr, error) {
	return p.binaryExpr(p.unaryExpr, BinaryMultiplication, BinaryDivision)
}

// binaryExpr parses a left associative chain of operand (op operand)*.
func (p *Parser) binaryExpr(operand func() (Expr, error), ops ...BinaryOp) (Expr, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.binaryOp(ops)
		if !ok {
			return lhs, nil
		}

		p.next()

		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Operation: op,
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

func (p *Parser) binaryOp(ops []BinaryOp) (BinaryOp, bool) {
	tok := p.peek()
	if tok == nil || tok.Typ != TokenPunctuation {
		return "", false
	}

	for _, op := range ops {
		if tok.Value == string(op) {
			return op, true
		}
	}

	return "", false
}

func (p *Parser) unaryExpr() (Expr, error) {
	var op UnaryOp
	switch {
	case p.checkPunct(string(UnaryNegative)):
		op = UnaryNegative
	case p.checkPunct(string(UnaryNot)):
		op = UnaryNot
	default:
		return p.primary()
	}

	p.next()

	operand, err := p.unaryExpr()
	if err != nil {
		return nil, err
	}

	return &UnaryExpr{
		Operation: op,
		Operand:   operand,
	}, nil
}

func (p *Parser) startsExpr() bool {
	tok := p.peek()
	if tok == nil {
		return false
	}

	switch tok.Typ {
	case TokenInt, TokenDouble, TokenBoolean, TokenString, TokenIdentifier:
		return true
	case TokenPunctuation:
		return tok.Value == "(" || tok.Value == string(UnaryNegative) || tok.Value == string(UnaryNot)
	}

	return false
}

func (p *Parser) primary() (Expr, error) {
	if p.checkPunct("(") {
		return p.parenthesisedExpression()
	}

	if tok := p.expect(TokenIdentifier); tok != nil {
		return &Identifier{
			Name: tok.Value,
		}, nil
	}

	return p.literal()
}

func (p *Parser) parenthesisedExpression() (Expr, error) {
	p.next() // (

	inner, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.consume(")", "')' after expression"); err != nil {
		return nil, err
	}

	return &GroupingExpr{Inner: inner}, nil
}

func (p *Parser) literal() (Expr, error) {
	tok := p.peek()
	if tok == nil {
		return nil, p.errorf("expression")
	}

	var lit *LiteralExpr
	switch tok.Typ {
	case TokenInt:
		if _, err := strconv.ParseInt(tok.Value, 10, 32); err != nil {
			return nil, p.errorf("integer literal within 32-bit range")
		}

		lit = &LiteralExpr{Typ: LiteralInt, Value: tok.Value}
	case TokenDouble:
		lit = &LiteralExpr{Typ: LiteralFloat, Value: tok.Value}
	case TokenBoolean:
		lit = &LiteralExpr{Typ: LiteralBool, Value: tok.Value}
	case TokenString:
		lit = &LiteralExpr{Typ: LiteralString, Value: tok.Value[1 : len(tok.Value)-1]}
	default:
		return nil, p.errorf("expression")
	}

	p.next()
	return lit, nil
}
