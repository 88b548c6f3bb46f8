package binisaya

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeSource(t *testing.T, src string) []Diagnostic {
	t.Helper()

	prog, err := Parse(Tokenize(src))
	require.NoError(t, err, src)

	return Analyze(prog)
}

func messages(diags []Diagnostic) []string {
	var out []string
	for _, d := range diags {
		out = append(out, d.Message)
	}

	return out
}

func TestContextAnalyzer(t *testing.T) {
	cases := []struct {
		data   string
		expect []string
	}{
		{
			"tibuok x = 5;",
			nil,
		},
		{
			"ug (x) { imprenta_gawas x; }",
			[]string{
				"Variable 'x' not declared.",
				"Condition in IF statement must be BOOLEAN.",
			},
		},
		{
			"tibuok x = 5; tibuok x = 6;",
			[]string{"Variable 'x' already declared."},
		},
		{
			"tibuok x = 5; x = \"five\";",
			[]string{"Type mismatch: cannot assign KARHAN to TIBUOK 'x'"},
		},
		{
			"y = 1;",
			[]string{"Variable 'y' not declared."},
		},
		{
			"tibuok x = 1.5;",
			[]string{"Type mismatch: cannot initialize TIBUOK 'x' with LUTAW"},
		},
		{
			"lutaw a = 1.5; duhay b = 2.25; a = b;",
			nil,
		},
		{
			"tibuok x = 1 + 2.5;",
			[]string{"Type mismatch in binary operation: TIBUOK + LUTAW"},
		},
		{
			"karhan s = \"a\" + \"b\";",
			nil,
		},
		{
			// Comparisons do not check their operand types
			"ug (1 < \"two\") { }",
			nil,
		},
		{
			"samtang (1) { } alang (; 2; ) { }",
			[]string{
				"Condition in WHILE loop must be BOOLEAN.",
				"Condition in FOR loop must be BOOLEAN.",
			},
		},
		{
			// The branches are still analyzed after a bad condition
			"ug (1 + 1) { q = 1; } edi { r = 2; }",
			[]string{
				"Condition in IF statement must be BOOLEAN.",
				"Variable 'q' not declared.",
				"Variable 'r' not declared.",
			},
		},
		{
			"ug (!(1 == 1) && true || 2 > 1) { }",
			nil,
		},
		{
			"ug (1 && true) { }",
			[]string{"Logical operator '&&' requires BOOLEAN operands, found TIBUOK"},
		},
		{
			"karhan s = -\"x\"; tibuok n = !3;",
			[]string{
				"Operator '-' cannot be applied to KARHAN",
				"Operator '!' cannot be applied to TIBUOK",
				"Type mismatch: cannot initialize TIBUOK 'n' with BOOLEAN",
			},
		},
		{
			// Unknown operands do not cascade into mismatches
			"tibuok x = y + 1; x = z;",
			[]string{
				"Variable 'y' not declared.",
				"Variable 'z' not declared.",
			},
		},
		{
			"tibuok x = (x);",
			nil,
		},
	}

	for _, c := range cases {
		diags := analyzeSource(t, c.data)
		assert.Equal(t, c.expect, messages(diags), c.data)

		for _, d := range diags {
			assert.Equal(t, DiagnosticSemantic, d.Kind)
		}
	}
}

func TestAnalyzerScopes(t *testing.T) {
	cases := []struct {
		data   string
		expect []string
	}{
		{
			// Block locals do not leak
			"{ tibuok a = 1; } a = 2;",
			[]string{"Variable 'a' not declared."},
		},
		{
			// Shadowing an outer name in a nested block is allowed
			"tibuok a = 1; { karhan a = \"x\"; a = \"y\"; } a = 3;",
			nil,
		},
		{
			"{ tibuok a = 1; tibuok a = 2; }",
			[]string{"Variable 'a' already declared."},
		},
		{
			// The for initializer is scoped to the loop
			"alang (tibuok i = 0; i < 3; i = i + 1) { imprenta_gawas i; } i = 1;",
			[]string{"Variable 'i' not declared."},
		},
		{
			"alang (tibuok i = 0; i < 3; i = i + 1) { tibuok i = 9; }",
			nil,
		},
		{
			"tibuok i = 0; alang (tibuok i = 0; i < 3; i = i + 1) { }",
			nil,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, messages(analyzeSource(t, c.data)), c.data)
	}
}

func TestScopeRestoration(t *testing.T) {
	prog, err := Parse(Tokenize(`
		tibuok a = 1;
		{ tibuok b = 2; { tibuok c = 3; karhan a = "s"; } c = 4; tibuok d = 4; }
		alang (tibuok i = 0; i < 2; i = i + 1) { tibuok e = i; }
		ug (a > 0) { tibuok f = 1; } edi { tibuok g = 2; }
		a = 2;
		b = 1; d = 1; e = 1; f = 1; g = 1; i = 1;
	`))
	require.NoError(t, err)

	a := NewAnalyzer()
	assert.Equal(t, []string{
		"Variable 'c' not declared.",
		"Variable 'b' not declared.",
		"Variable 'd' not declared.",
		"Variable 'e' not declared.",
		"Variable 'f' not declared.",
		"Variable 'g' not declared.",
		"Variable 'i' not declared.",
	}, messages(a.Do(prog)))

	assert.Equal(t, 1, a.scopes.Depth())
	assert.Equal(t, []string{"a"}, a.scopes.Visible())
}

func TestAnalyzerIdempotent(t *testing.T) {
	prog, err := Parse(Tokenize(`
		tibuok total = 0;
		alang (tibuok i = 0; i < 10; i = i + 1) {
			ug (i > 5) { total = total + i; } edi { total = total - 1; }
		}
		imprenta_gawas total;
	`))
	require.NoError(t, err)

	a := NewAnalyzer()
	assert.Empty(t, a.Do(prog))
	assert.Empty(t, a.Do(prog))
	assert.Empty(t, Analyze(prog))
}

func TestAnalyzerReportsOnce(t *testing.T) {
	diags := analyzeSource(t, "x = 1; x = 2; imprenta_gawas x;")
	assert.Equal(t, []string{"Variable 'x' not declared."}, messages(diags))
}

func TestAnalyzerReportsEverySite(t *testing.T) {
	cases := []struct {
		data   string
		expect []string
	}{
		{
			"ug (1) { } ug (2) { }",
			[]string{
				"Condition in IF statement must be BOOLEAN.",
				"Condition in IF statement must be BOOLEAN.",
			},
		},
		{
			"tibuok x = 1; x = 1.5; x = 2.5;",
			[]string{
				"Type mismatch: cannot assign LUTAW to TIBUOK 'x'",
				"Type mismatch: cannot assign LUTAW to TIBUOK 'x'",
			},
		},
		{
			"tibuok x = 1; { tibuok y = 1; tibuok y = 2; } { tibuok y = 1; tibuok y = 2; }",
			[]string{
				"Variable 'y' already declared.",
				"Variable 'y' already declared.",
			},
		},
		{
			"p = 1; q = p;",
			[]string{
				"Variable 'p' not declared.",
				"Variable 'q' not declared.",
			},
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, messages(analyzeSource(t, c.data)), c.data)
	}
}

func TestScopeStack(t *testing.T) {
	s := NewScopeStack()
	assert.True(t, s.Declare("a", TypeInt))
	assert.False(t, s.Declare("a", TypeString))

	s.Push()
	assert.Equal(t, 2, s.Depth())
	assert.True(t, s.Declare("a", TypeString))
	assert.True(t, s.Declare("b", TypeBool))

	typ, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, TypeString, typ)
	assert.Equal(t, []string{"a", "b"}, s.Visible())

	s.Pop()
	typ, ok = s.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, TypeInt, typ)

	_, ok = s.Lookup("b")
	assert.False(t, ok)

	// The global scope is never popped
	s.Pop()
	assert.Equal(t, 1, s.Depth())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeInt, TypeOf(KeywordInt))
	assert.Equal(t, TypeFloat, TypeOf(KeywordFloat))
	assert.Equal(t, TypeFloat, TypeOf(KeywordDouble))
	assert.Equal(t, TypeChar, TypeOf(KeywordChar))
	assert.Equal(t, TypeString, TypeOf(KeywordString))
	assert.Equal(t, TypeUnknown, TypeOf(KeywordIf))
}
