package binisaya

import (
	"fmt"
	"strings"
)

type DiagnosticKind int

const (
	DiagnosticLexical DiagnosticKind = iota
	DiagnosticSyntax
	DiagnosticSemantic
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticLexical:
		return "lexical"
	case DiagnosticSyntax:
		return "syntax"
	case DiagnosticSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s error: %s", d.Kind, d.Message)
}

func semanticf(format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:    DiagnosticSemantic,
		Message: fmt.Sprintf(format, args...),
	}
}

// FormatDiagnostics renders a batch summary of diagnostics.
func FormatDiagnostics(diags []Diagnostic) string {
	var str strings.Builder
	fmt.Fprintf(&str, "%d error(s) found:\n", len(diags))
	for _, d := range diags {
		str.WriteString(d.String())
		str.WriteByte('\n')
	}

	return str.String()
}

// SyntaxError stops the parse at the first unmet expectation. Found is nil
// when the input ended early.
type SyntaxError struct {
	Expected string
	Found    *Token
}

func (e *SyntaxError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("expected %s, found end of input", e.Expected)
	}

	return fmt.Sprintf("expected %s, found '%s' at %s", e.Expected, e.Found.Value, e.Found.Loc)
}

// Diagnostic converts the error for uniform reporting.
func (e *SyntaxError) Diagnostic() Diagnostic {
	return Diagnostic{
		Kind:    DiagnosticSyntax,
		Message: e.Error(),
	}
}
