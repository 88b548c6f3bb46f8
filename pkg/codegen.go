package binisaya

import (
	"strconv"
	"strings"
)

// Placeholder rendered for names without a known value.
const undefinedValue = "undefined"

const indentUnit = "    "

// TextGenerator renders a checked program as structured text. Variable
// references are replaced by the last value rendered for the name; no
// control flow is taken, every branch is rendered once.
type TextGenerator struct {
	// One frame of rendered values per open scope, innermost last
	values []map[string]string
	lines  []string
	depth  int
}

func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Generate renders prog. It must already have passed Analyze.
func Generate(prog *Program) string {
	return NewTextGenerator().Do(prog)
}

func (g *TextGenerator) Do(prog *Program) string {
	g.values = []map[string]string{make(map[string]string)}
	g.lines = nil
	g.depth = 0

	for _, stmt := range prog.Statements {
		g.statement(stmt)
	}

	if len(g.lines) == 0 {
		return ""
	}

	return strings.Join(g.lines, "\n") + "\n"
}

func (g *TextGenerator) push() {
	g.values = append(g.values, make(map[string]string))
}

func (g *TextGenerator) pop() {
	g.values = g.values[:len(g.values)-1]
}

func (g *TextGenerator) lookup(name string) (string, bool) {
	for i := len(g.values) - 1; i >= 0; i-- {
		if v, ok := g.values[i][name]; ok {
			return v, true
		}
	}

	return "", false
}

// assign updates the innermost frame that declares name.
func (g *TextGenerator) assign(name, value string) {
	for i := len(g.values) - 1; i >= 0; i-- {
		if _, ok := g.values[i][name]; ok {
			g.values[i][name] = value
			return
		}
	}

	g.values[0][name] = value
}

func (g *TextGenerator) line(text string) {
	g.lines = append(g.lines, strings.Repeat(indentUnit, g.depth)+text)
}

func (g *TextGenerator) statement(stmt Stmt) {
	switch s := stmt.(type) {
	case *VarDecl:
		g.line(g.declaration(s) + ";")
	case *PrintStmt:
		g.line("print(" + g.expression(s.Expression) + ");")
	case *ExprStmt:
		g.line(g.expression(s.Expression) + ";")
	case *Block:
		g.branch("", s)
	case *IfStmt:
		g.ifStmt("", s)
	case *WhileStmt:
		g.branch("while ("+g.expression(s.Condition)+") ", s.Body)
	case *ForStmt:
		g.push()
		defer g.pop()

		var header strings.Builder
		header.WriteString("for (")
		switch clause := s.Init.(type) {
		case *VarDecl:
			header.WriteString(g.declaration(clause))
		case *ExprStmt:
			header.WriteString(g.expression(clause.Expression))
		}
		header.WriteString("; ")
		if s.Condition != nil {
			header.WriteString(g.expression(s.Condition))
		}
		header.WriteString("; ")
		if s.Increment != nil {
			header.WriteString(g.expression(s.Increment))
		}
		header.WriteString(") ")

		g.branch(header.String(), s.Body)
	}
}

// ifStmt renders s after prefix. An else branch that is itself an if stays
// on the else line.
func (g *TextGenerator) ifStmt(prefix string, s *IfStmt) {
	g.branch(prefix+"if ("+g.expression(s.Condition)+") ", s.Then)
	if s.Else == nil {
		return
	}

	prefix = "else "
	if _, isBlock := s.Then.(*Block); isBlock {
		// Join the closing brace and else on one line
		g.lines = g.lines[:len(g.lines)-1]
		prefix = "} else "
	}

	if elseIf, ok := s.Else.(*IfStmt); ok {
		g.ifStmt(prefix, elseIf)
		return
	}

	g.branch(prefix, s.Else)
}

// branch renders header followed by body, sharing the line with the
// opening brace when body is a block.
func (g *TextGenerator) branch(header string, body Stmt) {
	block, isBlock := body.(*Block)
	if !isBlock {
		g.line(strings.TrimSuffix(header, " "))
		g.depth++
		g.statement(body)
		g.depth--
		return
	}

	g.line(header + "{")
	g.depth++
	g.push()
	for _, stmt := range block.Statements {
		g.statement(stmt)
	}
	g.pop()
	g.depth--
	g.line("}")
}

func (g *TextGenerator) declaration(decl *VarDecl) string {
	scope := g.values[len(g.values)-1]
	if decl.Initializer == nil {
		scope[decl.Name] = undefinedValue
		return decl.Type + " " + decl.Name
	}

	value := g.expression(decl.Initializer)
	scope[decl.Name] = value

	return decl.Type + " " + decl.Name + " = " + value
}

func (g *TextGenerator) expression(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return renderLiteral(e)
	case *Identifier:
		if v, ok := g.lookup(e.Name); ok {
			return v
		}

		return undefinedValue
	case *BinaryExpr:
		return "(" + g.expression(e.Op1) + " " + string(e.Operation) + " " + g.expression(e.Op2) + ")"
	case *UnaryExpr:
		operand := g.expression(e.Operand)
		if strings.HasPrefix(operand, string(UnaryNegative)) || strings.HasPrefix(operand, string(UnaryNot)) {
			operand = "(" + operand + ")"
		}

		return string(e.Operation) + operand
	case *GroupingExpr:
		return "(" + g.expression(e.Inner) + ")"
	case *AssignExpr:
		value := g.expression(e.Value)
		g.assign(e.Name, value)

		return e.Name + " = " + value
	}

	return undefinedValue
}

func renderLiteral(lit *LiteralExpr) string {
	switch lit.Typ {
	case LiteralInt:
		if v, err := strconv.ParseInt(lit.Value, 10, 64); err == nil {
			return strconv.FormatInt(v, 10)
		}
	case LiteralFloat:
		if v, err := strconv.ParseFloat(lit.Value, 64); err == nil {
			s := strconv.FormatFloat(v, 'f', -1, 64)
			if !strings.ContainsAny(s, ".eEnN") {
				s += ".0"
			}

			return s
		}
	case LiteralString:
		return `"` + lit.Value + `"`
	}

	return lit.Value
}
