package binisaya

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrSemantic is returned when analysis reports diagnostics. The diagnostics
// themselves are in the Result.
var ErrSemantic = errors.New("semantic errors found")

type Emit int

const (
	EmitText Emit = iota
	EmitLLVM
)

func ParseEmit(s string) (Emit, error) {
	switch s {
	case "text":
		return EmitText, nil
	case "llvm":
		return EmitLLVM, nil
	default:
		return EmitText, errors.Errorf("unknown emit target %q", s)
	}
}

type Options struct {
	Emit Emit

	// DumpTokens writes the token listing to Out before parsing.
	DumpTokens bool
	Out        io.Writer
}

// Result holds whatever the pipeline produced before it stopped.
type Result struct {
	Tokens      []Token
	Program     *Program
	Diagnostics []Diagnostic
	Output      string
}

type Compiler struct {
	opts Options
}

func NewCompiler(opts Options) *Compiler {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	return &Compiler{opts: opts}
}

func (c *Compiler) Compile(filename string) (*Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open source")
	}
	defer f.Close()

	res, err := c.CompileFromReader(f)
	return res, errors.Wrap(err, filename)
}

func (c *Compiler) CompileFromReader(reader io.Reader) (*Result, error) {
	toks, err := NewLexer(reader).Run()
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}

	return c.compile(toks)
}

func (c *Compiler) CompileString(source string) (*Result, error) {
	return c.compile(Tokenize(source))
}

func (c *Compiler) compile(toks []Token) (*Result, error) {
	res := &Result{Tokens: toks}

	if c.opts.DumpTokens {
		fmt.Fprint(c.opts.Out, FormatTokens(toks))
	}

	prog, err := Parse(toks)
	if err != nil {
		return res, errors.Wrap(err, "syntax error")
	}
	res.Program = prog

	if res.Diagnostics = Analyze(prog); len(res.Diagnostics) > 0 {
		return res, ErrSemantic
	}

	switch c.opts.Emit {
	case EmitLLVM:
		mod, err := NewLLVMGenerator(prog).Do()
		if err != nil {
			return res, err
		}

		res.Output = mod.String()
	default:
		res.Output = Generate(prog)
	}

	return res, nil
}
