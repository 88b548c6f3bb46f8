package binisaya

import (
	"fmt"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

type variable struct {
	ptr value.Value
	typ Type
}

// ValueLookup maps the names visible in one block to their stack slots.
type ValueLookup struct {
	vals map[string]*variable
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]*variable),
	}
}

func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (*variable, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val *variable) {
	l.vals[id] = val
}

func llvmType(t Type) types.Type {
	switch t {
	case TypeInt:
		return types.I32
	case TypeFloat:
		return types.Double
	case TypeChar:
		return types.I8
	case TypeString:
		return types.I8Ptr
	case TypeBool:
		return types.I1
	default:
		return types.Void
	}
}

func zeroValue(t Type) constant.Constant {
	switch t {
	case TypeFloat:
		return constant.NewFloat(types.Double, 0)
	case TypeChar:
		return constant.NewInt(types.I8, 0)
	case TypeString:
		return constant.NewNull(types.I8Ptr)
	case TypeBool:
		return constant.False
	default:
		return constant.NewInt(types.I32, 0)
	}
}

type LLVMIRBuilder struct {
	mod      *ir.Module
	fn       *ir.Func
	entry    *ir.Block
	block    *ir.Block
	values   *ValueLookup
	builtins map[string]*ir.Func

	labels  int
	strings int
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	builder := &LLVMIRBuilder{
		mod:      ir.NewModule(),
		values:   NewValueLookup(),
		builtins: make(map[string]*ir.Func),
	}

	defineBuiltins(builder)
	return builder
}

func (b *LLVMIRBuilder) newBlock(prefix string) *ir.Block {
	blk := b.fn.NewBlock(fmt.Sprintf("%s.%d", prefix, b.labels))
	b.labels++

	return blk
}

// branchTo ends the current block with a jump unless it already ends.
func (b *LLVMIRBuilder) branchTo(target *ir.Block) {
	if b.block.Term == nil {
		b.block.NewBr(target)
	}
}

// scoped runs f with a child value scope, restoring the outer one afterwards.
func (b *LLVMIRBuilder) scoped(f func() error) error {
	prevVals := b.values
	b.values = NewValueLookup()
	b.values.Inherit(prevVals)

	defer func() {
		b.values = prevVals
	}()

	return f()
}

func (b *LLVMIRBuilder) main(prog *Program) error {
	b.fn = b.mod.NewFunc("main", types.I32)
	b.entry = b.fn.NewBlock("entry")
	b.block = b.entry

	for _, stmt := range prog.Statements {
		if err := b.statement(stmt); err != nil {
			return err
		}
	}

	if b.block.Term == nil {
		b.block.NewRet(constant.NewInt(types.I32, 0))
	}

	return nil
}

func (b *LLVMIRBuilder) statement(stmt Stmt) error {
	switch s := stmt.(type) {
	case *VarDecl:
		return b.variableDecl(s)
	case *PrintStmt:
		return b.print(s)
	case *ExprStmt:
		_, _, err := b.expression(s.Expression)
		return err
	case *Block:
		return b.scoped(func() error {
			for _, child := range s.Statements {
				if err := b.statement(child); err != nil {
					return err
				}
			}

			return nil
		})
	case *IfStmt:
		return b.ifStmt(s)
	case *WhileStmt:
		return b.whileStmt(s)
	case *ForStmt:
		return b.scoped(func() error {
			return b.forStmt(s)
		})
	}

	return errors.Errorf("unexpected statement %T", stmt)
}

func (b *LLVMIRBuilder) variableDecl(decl *VarDecl) error {
	t := TypeOf(decl.Type)

	// Slots live in the entry block so loops do not grow the stack
	ptr := b.entry.NewAlloca(llvmType(t))

	var initial value.Value = zeroValue(t)
	if decl.Initializer != nil {
		v, vt, err := b.expression(decl.Initializer)
		if err != nil {
			return err
		}

		initial = b.convert(v, vt, t)
	}

	b.block.NewStore(initial, ptr)
	b.values.Set(decl.Name, &variable{ptr: ptr, typ: t})

	return nil
}

func (b *LLVMIRBuilder) print(stmt *PrintStmt) error {
	v, t, err := b.expression(stmt.Expression)
	if err != nil {
		return err
	}

	switch t {
	case TypeInt:
		b.block.NewCall(b.builtins[builtinPrintInt], v)
	case TypeBool:
		b.block.NewCall(b.builtins[builtinPrintInt], b.block.NewZExt(v, types.I32))
	case TypeFloat:
		b.block.NewCall(b.builtins[builtinPrintFloat], v)
	case TypeString:
		b.block.NewCall(b.builtins[builtinPrintStr], v)
	case TypeChar:
		b.block.NewCall(b.builtins[builtinPrintChar], v)
	default:
		return errors.Errorf("cannot print value of type %s", t)
	}

	return nil
}

func (b *LLVMIRBuilder) ifStmt(stmt *IfStmt) error {
	cond, _, err := b.expression(stmt.Condition)
	if err != nil {
		return err
	}

	thenBlock := b.newBlock("if.then")
	endBlock := b.newBlock("if.end")
	elseBlock := endBlock
	if stmt.Else != nil {
		elseBlock = b.newBlock("if.else")
	}

	b.block.NewCondBr(cond, thenBlock, elseBlock)

	b.block = thenBlock
	if err := b.statement(stmt.Then); err != nil {
		return err
	}
	b.branchTo(endBlock)

	if stmt.Else != nil {
		b.block = elseBlock
		if err := b.statement(stmt.Else); err != nil {
			return err
		}
		b.branchTo(endBlock)
	}

	b.block = endBlock
	return nil
}

func (b *LLVMIRBuilder) whileStmt(stmt *WhileStmt) error {
	condBlock := b.newBlock("while.cond")
	bodyBlock := b.newBlock("while.body")
	endBlock := b.newBlock("while.end")

	b.branchTo(condBlock)

	b.block = condBlock
	cond, _, err := b.expression(stmt.Condition)
	if err != nil {
		return err
	}
	b.block.NewCondBr(cond, bodyBlock, endBlock)

	b.block = bodyBlock
	if err := b.statement(stmt.Body); err != nil {
		return err
	}
	b.branchTo(condBlock)

	b.block = endBlock
	return nil
}

func (b *LLVMIRBuilder) forStmt(stmt *ForStmt) error {
	if stmt.Init != nil {
		if err := b.statement(stmt.Init); err != nil {
			return err
		}
	}

	condBlock := b.newBlock("for.cond")
	bodyBlock := b.newBlock("for.body")
	incBlock := b.newBlock("for.inc")
	endBlock := b.newBlock("for.end")

	b.branchTo(condBlock)

	b.block = condBlock
	if stmt.Condition == nil {
		b.block.NewBr(bodyBlock)
	} else {
		cond, _, err := b.expression(stmt.Condition)
		if err != nil {
			return err
		}
		b.block.NewCondBr(cond, bodyBlock, endBlock)
	}

	b.block = bodyBlock
	if err := b.statement(stmt.Body); err != nil {
		return err
	}
	b.branchTo(incBlock)

	b.block = incBlock
	if stmt.Increment != nil {
		if _, _, err := b.expression(stmt.Increment); err != nil {
			return err
		}
	}
	b.branchTo(condBlock)

	b.block = endBlock
	return nil
}

func (b *LLVMIRBuilder) expression(expr Expr) (value.Value, Type, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return b.loadLiteral(e)
	case *Identifier:
		v, ok := b.values.Get(e.Name)
		if !ok {
			return nil, TypeUnknown, errors.Errorf("undefined identifier: %s", e.Name)
		}

		return b.block.NewLoad(llvmType(v.typ), v.ptr), v.typ, nil
	case *AssignExpr:
		target, ok := b.values.Get(e.Name)
		if !ok {
			return nil, TypeUnknown, errors.Errorf("undefined identifier: %s", e.Name)
		}

		v, t, err := b.expression(e.Value)
		if err != nil {
			return nil, TypeUnknown, err
		}

		v = b.convert(v, t, target.typ)
		b.block.NewStore(v, target.ptr)

		return v, target.typ, nil
	case *GroupingExpr:
		return b.expression(e.Inner)
	case *UnaryExpr:
		return b.unaryExpression(e)
	case *BinaryExpr:
		return b.binaryExpression(e)
	}

	return nil, TypeUnknown, errors.Errorf("unexpected expression %T", expr)
}

func (b *LLVMIRBuilder) loadLiteral(lit *LiteralExpr) (value.Value, Type, error) {
	switch lit.Typ {
	case LiteralInt:
		v, err := strconv.ParseInt(lit.Value, 10, 32)
		if err != nil {
			return nil, TypeUnknown, errors.Wrapf(err, "integer literal %s", lit.Value)
		}

		return constant.NewInt(types.I32, v), TypeInt, nil
	case LiteralFloat:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return nil, TypeUnknown, errors.Wrapf(err, "float literal %s", lit.Value)
		}

		return constant.NewFloat(types.Double, v), TypeFloat, nil
	case LiteralBool:
		return constant.NewBool(lit.Value == "true"), TypeBool, nil
	case LiteralString:
		return b.stringConstant(lit.Value), TypeString, nil
	}

	return nil, TypeUnknown, errors.Errorf("unexpected literal %q", lit.Value)
}

func (b *LLVMIRBuilder) stringConstant(s string) constant.Constant {
	data := constant.NewCharArrayFromString(s + "\x00")

	glob := b.mod.NewGlobalDef(fmt.Sprintf(".str.%d", b.strings), data)
	glob.Immutable = true
	b.strings++

	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(data.Typ, glob, zero, zero)
}

func (b *LLVMIRBuilder) unaryExpression(expr *UnaryExpr) (value.Value, Type, error) {
	v, t, err := b.expression(expr.Operand)
	if err != nil {
		return nil, TypeUnknown, err
	}

	switch {
	case expr.Operation == UnaryNot && t == TypeBool:
		return b.block.NewXor(v, constant.True), TypeBool, nil
	case expr.Operation == UnaryNegative && t == TypeInt:
		return b.block.NewSub(constant.NewInt(types.I32, 0), v), TypeInt, nil
	case expr.Operation == UnaryNegative && t == TypeFloat:
		return b.block.NewFSub(constant.NewFloat(types.Double, 0), v), TypeFloat, nil
	}

	return nil, TypeUnknown, errors.Errorf("unsupported unary operation %s%s", expr.Operation, t)
}

func (b *LLVMIRBuilder) binaryExpression(expr *BinaryExpr) (value.Value, Type, error) {
	v1, t1, err := b.expression(expr.Op1)
	if err != nil {
		return nil, TypeUnknown, err
	}

	v2, t2, err := b.expression(expr.Op2)
	if err != nil {
		return nil, TypeUnknown, err
	}

	switch {
	case expr.Operation.IsLogical():
		if t1 != TypeBool || t2 != TypeBool {
			break
		}

		if expr.Operation == BinaryAnd {
			return b.block.NewAnd(v1, v2), TypeBool, nil
		}

		return b.block.NewOr(v1, v2), TypeBool, nil
	case expr.Operation.IsComparison():
		return b.comparison(expr.Operation, v1, t1, v2, t2)
	case expr.Operation.IsArithmetic():
		return b.arithmetic(expr.Operation, v1, t1, v2, t2)
	}

	return nil, TypeUnknown, errors.Errorf("unsupported operation %s %s %s", t1, expr.Operation, t2)
}

func (b *LLVMIRBuilder) arithmetic(op BinaryOp, v1 value.Value, t1 Type, v2 value.Value, t2 Type) (value.Value, Type, error) {
	if t1 != t2 {
		return nil, TypeUnknown, errors.Errorf("mismatched operands %s %s %s", t1, op, t2)
	}

	switch t1 {
	case TypeInt, TypeChar:
		switch op {
		case BinaryAddition:
			return b.block.NewAdd(v1, v2), t1, nil
		case BinarySubtraction:
			return b.block.NewSub(v1, v2), t1, nil
		case BinaryMultiplication:
			return b.block.NewMul(v1, v2), t1, nil
		case BinaryDivision:
			return b.block.NewSDiv(v1, v2), t1, nil
		}
	case TypeFloat:
		switch op {
		case BinaryAddition:
			return b.block.NewFAdd(v1, v2), t1, nil
		case BinarySubtraction:
			return b.block.NewFSub(v1, v2), t1, nil
		case BinaryMultiplication:
			return b.block.NewFMul(v1, v2), t1, nil
		case BinaryDivision:
			return b.block.NewFDiv(v1, v2), t1, nil
		}
	}

	return nil, TypeUnknown, errors.Errorf("operation %s is not supported for %s", op, t1)
}

var intPredicates = map[BinaryOp]enum.IPred{
	BinaryEqual:        enum.IPredEQ,
	BinaryNotEqual:     enum.IPredNE,
	BinaryLess:         enum.IPredSLT,
	BinaryLessEqual:    enum.IPredSLE,
	BinaryGreater:      enum.IPredSGT,
	BinaryGreaterEqual: enum.IPredSGE,
}

var floatPredicates = map[BinaryOp]enum.FPred{
	BinaryEqual:        enum.FPredOEQ,
	BinaryNotEqual:     enum.FPredONE,
	BinaryLess:         enum.FPredOLT,
	BinaryLessEqual:    enum.FPredOLE,
	BinaryGreater:      enum.FPredOGT,
	BinaryGreaterEqual: enum.FPredOGE,
}

func (b *LLVMIRBuilder) comparison(op BinaryOp, v1 value.Value, t1 Type, v2 value.Value, t2 Type) (value.Value, Type, error) {
	if t1 == TypeFloat || t2 == TypeFloat {
		if !isNumeric(t1) || !isNumeric(t2) {
			return nil, TypeUnknown, errors.Errorf("cannot compare %s with %s", t1, t2)
		}

		x := b.convert(v1, t1, TypeFloat)
		y := b.convert(v2, t2, TypeFloat)
		return b.block.NewFCmp(floatPredicates[op], x, y), TypeBool, nil
	}

	if t1 == TypeString || t2 == TypeString {
		return nil, TypeUnknown, errors.Errorf("string comparison is not supported")
	}

	if t1 != t2 {
		if !isNumeric(t1) || !isNumeric(t2) {
			return nil, TypeUnknown, errors.Errorf("cannot compare %s with %s", t1, t2)
		}

		v1 = b.convert(v1, t1, TypeInt)
		v2 = b.convert(v2, t2, TypeInt)
	}

	return b.block.NewICmp(intPredicates[op], v1, v2), TypeBool, nil
}

func isNumeric(t Type) bool {
	return t == TypeInt || t == TypeFloat || t == TypeChar
}

// convert widens v from one numeric type to another. Other pairs are left
// alone since the analyzer has already rejected them.
func (b *LLVMIRBuilder) convert(v value.Value, from, to Type) value.Value {
	switch {
	case from == to:
		return v
	case from == TypeChar && to == TypeInt:
		return b.block.NewSExt(v, types.I32)
	case (from == TypeInt || from == TypeChar) && to == TypeFloat:
		return b.block.NewSIToFP(v, types.Double)
	}

	return v
}

type LLVMGenerator struct {
	prog *Program
}

func NewLLVMGenerator(prog *Program) *LLVMGenerator {
	return &LLVMGenerator{
		prog: prog,
	}
}

// Do lowers the program to an LLVM module with a single main function. The
// program must already have passed Analyze.
func (g LLVMGenerator) Do() (*ir.Module, error) {
	builder := NewLLVMIRBuilder()
	if err := builder.main(g.prog); err != nil {
		return nil, errors.Wrap(err, "llvm lowering")
	}

	return builder.mod, nil
}
