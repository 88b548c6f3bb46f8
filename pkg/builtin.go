package binisaya

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Names of the print helpers emitted into every module.
const (
	builtinPrintInt   = "print_int"
	builtinPrintFloat = "print_float"
	builtinPrintStr   = "print_str"
	builtinPrintChar  = "print_char"
)

func defineBuiltins(b *LLVMIRBuilder) {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	defineBuiltinFunc(b, builtinPrintInt, builtinPrint(printf, "%d\n", types.I32))
	defineBuiltinFunc(b, builtinPrintFloat, builtinPrint(printf, "%f\n", types.Double))
	defineBuiltinFunc(b, builtinPrintStr, builtinPrint(printf, "%s\n", types.I8Ptr))
	defineBuiltinFunc(b, builtinPrintChar, builtinPrint(printf, "%c\n", types.I8))
}

type funcDefinition = func(mod *ir.Module, name string) *ir.Func

func defineBuiltinFunc(b *LLVMIRBuilder, name string, definition funcDefinition) {
	f := definition(b.mod, name)
	b.builtins[name] = f
}

// builtinPrint defines a void function of one argument that passes it to
// printf with format.
func builtinPrint(printf *ir.Func, format string, arg types.Type) funcDefinition {
	return func(mod *ir.Module, name string) *ir.Func {
		f := mod.NewFunc(name, types.Void, ir.NewParam("v", arg))
		b := f.NewBlock("entry")

		zero := constant.NewInt(types.I32, 0)

		fmtData := constant.NewCharArrayFromString(format + "\x00")
		fmtGlob := mod.NewGlobalDef(".fmt."+name, fmtData)
		fmtAddr := constant.NewGetElementPtr(fmtData.Typ, fmtGlob, zero, zero)

		v := f.Params[0]
		if arg == types.I8 {
			// Varargs promote char to int
			b.NewCall(printf, fmtAddr, b.NewSExt(v, types.I32))
		} else {
			b.NewCall(printf, fmtAddr, v)
		}

		b.NewRet(nil)

		return f
	}
}
