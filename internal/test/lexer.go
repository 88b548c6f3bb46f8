package test

import (
	"math/rand"
	"strings"
)

const validTokens = "tibuok;lutaw;duhay;karakter;karhan;ug;edi;samtang;alang;imprenta_gawas;x;counter_1;_tmp;(;);{;};,;=;==;!=;<=;>=;<;>;!;+;-;*;/;&&;||;0;42;1234567;3.14;0.5;true;false;\"this is a string\";\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua\";\"\""

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")
	valid = append(valid, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram builds a valid program of size counter updates inside a
// loop, for benchmarking the whole pipeline.
func GetRandomProgram(size int) string {
	var str strings.Builder
	str.WriteString("tibuok total = 0;\n")
	str.WriteString("alang (tibuok i = 0; i < 10; i = i + 1) {\n")
	for i := 0; i < size; i++ {
		switch rand.Intn(3) {
		case 0:
			str.WriteString("\ttotal = total + i * 2;\n")
		case 1:
			str.WriteString("\tug (total > 100) { imprenta_gawas total; } edi { total = total - 1; }\n")
		default:
			str.WriteString("\timprenta_gawas \"step\";\n")
		}
	}
	str.WriteString("}\n")

	return str.String()
}
