package binisaya

// Program is the root of a parsed translation unit.
type Program struct {
	Statements []Stmt
}

// Stmt is implemented by statement nodes only.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by expression nodes only.
type Expr interface {
	exprNode()
}

type VarDecl struct {
	Type        string
	Name        string
	Initializer Expr // nil when absent
}

type PrintStmt struct {
	Expression Expr
}

type ExprStmt struct {
	Expression Expr
}

type Block struct {
	Statements []Stmt
}

type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt // nil when absent
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

// ForStmt clauses other than the body may be nil.
type ForStmt struct {
	Init      Stmt
	Condition Expr
	Increment Expr
	Body      Stmt
}

func (*VarDecl) stmtNode()   {}
func (*PrintStmt) stmtNode() {}
func (*ExprStmt) stmtNode()  {}
func (*Block) stmtNode()     {}
func (*IfStmt) stmtNode()    {}
func (*WhileStmt) stmtNode() {}
func (*ForStmt) stmtNode()   {}

type Identifier struct {
	Name string
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"

	BinaryEqual        BinaryOp = "=="
	BinaryNotEqual     BinaryOp = "!="
	BinaryLess         BinaryOp = "<"
	BinaryLessEqual    BinaryOp = "<="
	BinaryGreater      BinaryOp = ">"
	BinaryGreaterEqual BinaryOp = ">="

	BinaryAnd BinaryOp = "&&"
	BinaryOr  BinaryOp = "||"
)

func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case BinaryAddition, BinarySubtraction, BinaryMultiplication, BinaryDivision:
		return true
	}

	return false
}

func (op BinaryOp) IsComparison() bool {
	switch op {
	case BinaryEqual, BinaryNotEqual, BinaryLess, BinaryLessEqual, BinaryGreater, BinaryGreaterEqual:
		return true
	}

	return false
}

func (op BinaryOp) IsLogical() bool {
	return op == BinaryAnd || op == BinaryOr
}

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type UnaryOp string

const (
	UnaryNegative UnaryOp = "-"
	UnaryNot      UnaryOp = "!"
)

type UnaryExpr struct {
	Operation UnaryOp
	Operand   Expr
}

type GroupingExpr struct {
	Inner Expr
}

type AssignExpr struct {
	Name  string
	Value Expr
}

type LiteralType int

const (
	LiteralInt LiteralType = iota
	LiteralFloat
	LiteralBool
	LiteralString
)

// LiteralExpr keeps the literal's source text. String values are stored
// without their quotes.
type LiteralExpr struct {
	Typ   LiteralType
	Value string
}

func (*Identifier) exprNode()   {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*LiteralExpr) exprNode()  {}
