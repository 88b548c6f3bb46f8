package binisaya

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSource(t *testing.T, src string) string {
	t.Helper()

	prog, err := Parse(Tokenize(src))
	require.NoError(t, err, src)
	require.Empty(t, Analyze(prog), src)

	return Generate(prog)
}

func TestTextGenerator(t *testing.T) {
	cases := []struct {
		data   string
		expect string
	}{
		{
			"tibuok x = 5;",
			"tibuok x = 5;\n",
		},
		{
			"tibuok x = 5; tibuok y = x + 1; imprenta_gawas y;",
			"tibuok x = 5;\n" +
				"tibuok y = (5 + 1);\n" +
				"print((5 + 1));\n",
		},
		{
			"lutaw f = 2.50; duhay g = 2.0; tibuok n = 007; karhan s = \"hi\"; imprenta_gawas s;",
			"lutaw f = 2.5;\n" +
				"duhay g = 2.0;\n" +
				"tibuok n = 7;\n" +
				"karhan s = \"hi\";\n" +
				"print(\"hi\");\n",
		},
		{
			"tibuok x = 1; ug (x > 0) { imprenta_gawas x; } edi { x = 2; } imprenta_gawas x;",
			"tibuok x = 1;\n" +
				"if ((1 > 0)) {\n" +
				"    print(1);\n" +
				"} else {\n" +
				"    x = 2;\n" +
				"}\n" +
				"print(2);\n",
		},
		{
			"ug (true) { } edi imprenta_gawas 1;",
			"if (true) {\n" +
				"} else\n" +
				"    print(1);\n",
		},
		{
			"tibuok i = 0; samtang (i < 3) i = i + 1; imprenta_gawas i;",
			"tibuok i = 0;\n" +
				"while ((0 < 3))\n" +
				"    i = (0 + 1);\n" +
				"print((0 + 1));\n",
		},
		{
			"alang (tibuok i = 0; i < 2; i = i + 1) { imprenta_gawas i; }",
			"for (tibuok i = 0; (0 < 2); i = (0 + 1)) {\n" +
				"    print((0 + 1));\n" +
				"}\n",
		},
		{
			"alang (;;) { }",
			"for (; ; ) {\n}\n",
		},
		{
			"{ tibuok a = 1; { a = (a * 2); } }",
			"{\n" +
				"    tibuok a = 1;\n" +
				"    {\n" +
				"        a = ((1 * 2));\n" +
				"    }\n" +
				"}\n",
		},
		{
			"tibuok x; imprenta_gawas x; imprenta_gawas -x; imprenta_gawas !(true); imprenta_gawas - -5;",
			"tibuok x;\n" +
				"print(undefined);\n" +
				"print(-undefined);\n" +
				"print(!(true));\n" +
				"print(-(-5));\n",
		},
		{
			// A shadowing block value stays inside the block
			"tibuok a = 1; { tibuok a = 2; a = 3; imprenta_gawas a; } imprenta_gawas a; { a = 5; } imprenta_gawas a;",
			"tibuok a = 1;\n" +
				"{\n" +
				"    tibuok a = 2;\n" +
				"    a = 3;\n" +
				"    print(3);\n" +
				"}\n" +
				"print(1);\n" +
				"{\n" +
				"    a = 5;\n" +
				"}\n" +
				"print(5);\n",
		},
		{
			"tibuok i = 7; alang (tibuok i = 0; i < 1; i = i + 1) { } imprenta_gawas i;",
			"tibuok i = 7;\n" +
				"for (tibuok i = 0; (0 < 1); i = (0 + 1)) {\n" +
				"}\n" +
				"print(7);\n",
		},
		{
			"tibuok n = 2; ug (n == 1) { imprenta_gawas 1; } edi ug (n == 2) { imprenta_gawas 2; } edi { imprenta_gawas 3; }",
			"tibuok n = 2;\n" +
				"if ((2 == 1)) {\n" +
				"    print(1);\n" +
				"} else if ((2 == 2)) {\n" +
				"    print(2);\n" +
				"} else {\n" +
				"    print(3);\n" +
				"}\n",
		},
		{
			"ug (true) imprenta_gawas 1; edi ug (false) imprenta_gawas 2;",
			"if (true)\n" +
				"    print(1);\n" +
				"else if (false)\n" +
				"    print(2);\n",
		},
		{
			"",
			"",
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, generateSource(t, c.data), c.data)
	}
}

func TestTextGeneratorDoesNotKeepState(t *testing.T) {
	prog, err := Parse(Tokenize("tibuok x = 1; x = 2; imprenta_gawas x;"))
	require.NoError(t, err)

	g := NewTextGenerator()
	first := g.Do(prog)
	assert.Equal(t, first, g.Do(prog))
	assert.Equal(t, "tibuok x = 1;\nx = 2;\nprint(2);\n", first)
}

func TestRenderLiteral(t *testing.T) {
	assert.Equal(t, "-3", renderLiteral(lit(LiteralInt, "-3")))
	assert.Equal(t, "0.125", renderLiteral(lit(LiteralFloat, "0.1250")))
	assert.Equal(t, "false", renderLiteral(lit(LiteralBool, "false")))
	assert.Equal(t, "\"\"", renderLiteral(lit(LiteralString, "")))
}
