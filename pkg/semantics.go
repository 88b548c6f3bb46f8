package binisaya

import "sort"

type Type int

const (
	TypeUnknown Type = iota
	TypeInt
	TypeFloat
	TypeChar
	TypeString
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "TIBUOK"
	case TypeFloat:
		return "LUTAW"
	case TypeChar:
		return "KARAKTER"
	case TypeString:
		return "KARHAN"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// TypeOf maps a type keyword to its type. lutaw and duhay are both floating
// point.
func TypeOf(keyword string) Type {
	switch keyword {
	case KeywordInt:
		return TypeInt
	case KeywordFloat, KeywordDouble:
		return TypeFloat
	case KeywordChar:
		return TypeChar
	case KeywordString:
		return TypeString
	default:
		return TypeUnknown
	}
}

func literalType(lit *LiteralExpr) Type {
	switch lit.Typ {
	case LiteralInt:
		return TypeInt
	case LiteralFloat:
		return TypeFloat
	case LiteralBool:
		return TypeBool
	case LiteralString:
		return TypeString
	default:
		return TypeUnknown
	}
}

// SymbolTable holds the bindings of one lexical block.
type SymbolTable struct {
	Entries map[string]Type
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Entries: make(map[string]Type),
	}
}

func (t *SymbolTable) Add(name string, typ Type) {
	t.Entries[name] = typ
}

func (t *SymbolTable) Get(name string) (Type, bool) {
	typ, ok := t.Entries[name]
	return typ, ok
}

// ScopeStack is the chain of block scopes, innermost last. A name may be
// declared once per scope and may shadow names of enclosing scopes.
type ScopeStack struct {
	frames []*SymbolTable
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{
		frames: []*SymbolTable{NewSymbolTable()},
	}
}

func (s *ScopeStack) Push() {
	s.frames = append(s.frames, NewSymbolTable())
}

func (s *ScopeStack) Pop() {
	if len(s.frames) > 1 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

func (s *ScopeStack) Depth() int {
	return len(s.frames)
}

// Declare binds name in the innermost scope, reporting false if it is
// already bound there.
func (s *ScopeStack) Declare(name string, typ Type) bool {
	top := s.frames[len(s.frames)-1]
	if _, exists := top.Get(name); exists {
		return false
	}

	top.Add(name, typ)
	return true
}

func (s *ScopeStack) Lookup(name string) (Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if typ, ok := s.frames[i].Get(name); ok {
			return typ, true
		}
	}

	return TypeUnknown, false
}

// Visible lists every name that currently resolves, sorted.
func (s *ScopeStack) Visible() []string {
	seen := make(map[string]struct{})
	for _, frame := range s.frames {
		for name := range frame.Entries {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Analyzer checks scopes and types over a whole program and collects every
// problem instead of stopping at the first.
type Analyzer struct {
	scopes *ScopeStack
	diags  []Diagnostic

	// Names already reported as undeclared
	undeclared map[string]bool
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the semantic diagnostics of prog, empty when it is valid.
func Analyze(prog *Program) []Diagnostic {
	return NewAnalyzer().Do(prog)
}

func (a *Analyzer) Do(prog *Program) []Diagnostic {
	a.scopes = NewScopeStack()
	a.diags = nil
	a.undeclared = make(map[string]bool)

	for _, stmt := range prog.Statements {
		a.analyze(stmt)
	}

	return a.diags
}

func (a *Analyzer) report(d Diagnostic) {
	a.diags = append(a.diags, d)
}

// reportUndeclared reports name once, however often it is referenced.
func (a *Analyzer) reportUndeclared(name string) {
	if a.undeclared[name] {
		return
	}

	a.undeclared[name] = true
	a.report(semanticf("Variable '%s' not declared.", name))
}

func (a *Analyzer) analyze(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		declared := TypeOf(s.Type)
		if !a.scopes.Declare(s.Name, declared) {
			a.report(semanticf("Variable '%s' already declared.", s.Name))
			return
		}

		if s.Initializer != nil {
			t := a.resolve(s.Initializer)
			if t != TypeUnknown && t != declared {
				a.report(semanticf("Type mismatch: cannot initialize %s '%s' with %s", declared, s.Name, t))
			}
		}
	case *PrintStmt:
		a.resolve(s.Expression)
	case *ExprStmt:
		a.resolve(s.Expression)
	case *Block:
		a.scopes.Push()
		for _, child := range s.Statements {
			a.analyze(child)
		}
		a.scopes.Pop()
	case *IfStmt:
		if a.resolve(s.Condition) != TypeBool {
			a.report(semanticf("Condition in IF statement must be BOOLEAN."))
		}

		a.analyze(s.Then)
		if s.Else != nil {
			a.analyze(s.Else)
		}
	case *WhileStmt:
		if a.resolve(s.Condition) != TypeBool {
			a.report(semanticf("Condition in WHILE loop must be BOOLEAN."))
		}

		a.analyze(s.Body)
	case *ForStmt:
		a.scopes.Push()
		defer a.scopes.Pop()

		if s.Init != nil {
			a.analyze(s.Init)
		}

		if s.Condition != nil && a.resolve(s.Condition) != TypeBool {
			a.report(semanticf("Condition in FOR loop must be BOOLEAN."))
		}

		a.analyze(s.Body)

		if s.Increment != nil {
			a.resolve(s.Increment)
		}
	}
}

func (a *Analyzer) resolve(expr Expr) Type {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalType(e)
	case *Identifier:
		if t, ok := a.scopes.Lookup(e.Name); ok {
			return t
		}

		a.reportUndeclared(e.Name)
		return TypeUnknown
	case *AssignExpr:
		target, declared := a.scopes.Lookup(e.Name)
		if !declared {
			a.reportUndeclared(e.Name)
		}

		t := a.resolve(e.Value)
		if declared && t != TypeUnknown && t != target {
			a.report(semanticf("Type mismatch: cannot assign %s to %s '%s'", t, target, e.Name))
		}

		return target
	case *GroupingExpr:
		return a.resolve(e.Inner)
	case *UnaryExpr:
		t := a.resolve(e.Operand)

		switch e.Operation {
		case UnaryNegative:
			if t != TypeUnknown && t != TypeInt && t != TypeFloat {
				a.report(semanticf("Operator '%s' cannot be applied to %s", e.Operation, t))
			}

			return t
		case UnaryNot:
			if t != TypeUnknown && t != TypeBool {
				a.report(semanticf("Operator '%s' cannot be applied to %s", e.Operation, t))
			}

			return TypeBool
		}
	case *BinaryExpr:
		left := a.resolve(e.Op1)
		right := a.resolve(e.Op2)

		switch {
		case e.Operation.IsArithmetic():
			if left != TypeUnknown && right != TypeUnknown && left != right {
				a.report(semanticf("Type mismatch in binary operation: %s %s %s", left, e.Operation, right))
			}

			return left
		case e.Operation.IsComparison():
			// Operand types are not checked for comparisons
			return TypeBool
		case e.Operation.IsLogical():
			for _, t := range []Type{left, right} {
				if t != TypeUnknown && t != TypeBool {
					a.report(semanticf("Logical operator '%s' requires BOOLEAN operands, found %s", e.Operation, t))
				}
			}

			return TypeBool
		}
	}

	return TypeUnknown
}
