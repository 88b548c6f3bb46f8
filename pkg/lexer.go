package binisaya

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = -1

	TokenUnknown TokenType = iota
	TokenKeyword
	TokenPunctuation
	TokenInt
	TokenDouble
	TokenBoolean
	TokenString
	TokenIdentifier
)

var tokenTypeNames = map[TokenType]string{
	TokenUnknown:     "UNKNOWN",
	TokenKeyword:     "KEYWORD",
	TokenPunctuation: "PUNCTUATION",
	TokenInt:         "INT",
	TokenDouble:      "DOUBLE",
	TokenBoolean:     "BOOLEAN",
	TokenString:      "STRING",
	TokenIdentifier:  "IDENTIFIER",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

// Keywords of the language. Only the type keywords, ug/edi, samtang, alang and
// imprenta_gawas take part in the grammar, the rest are reserved.
const (
	KeywordInt    = "tibuok"
	KeywordFloat  = "lutaw"
	KeywordDouble = "duhay"
	KeywordChar   = "karakter"
	KeywordString = "karhan"

	KeywordIf       = "ug"
	KeywordElse     = "edi"
	KeywordSwitch   = "ilis"
	KeywordCase     = "kaha"
	KeywordFor      = "alang"
	KeywordWhile    = "samtang"
	KeywordDo       = "buhata"
	KeywordBreak    = "bungka"
	KeywordReturn   = "mobalik"
	KeywordContinue = "padayon"

	KeywordImport = "angkat"
	KeywordPrint  = "imprenta_gawas"
	KeywordRead   = "sulod"
)

var keywordTable = map[string]struct{}{
	KeywordInt: {}, KeywordFloat: {}, KeywordDouble: {}, KeywordChar: {}, KeywordString: {},
	KeywordIf: {}, KeywordElse: {}, KeywordSwitch: {}, KeywordCase: {}, KeywordFor: {},
	KeywordWhile: {}, KeywordDo: {}, KeywordBreak: {}, KeywordReturn: {}, KeywordContinue: {},
	KeywordImport: {}, KeywordPrint: {}, KeywordRead: {},
}

var operatorTable = map[string]struct{}{
	";": {}, ",": {}, "(": {}, ")": {}, "{": {}, "}": {},
	"=": {}, "==": {}, "!": {}, "!=": {},
	"<": {}, "<=": {}, ">": {}, ">=": {},
	"+": {}, "-": {}, "/": {}, "*": {},
	"&&": {}, "||": {},
}

// Characters that end a bare token and start an operator.
const operatorChars = ";,(){}=!<>+-/*&|"

var (
	intPattern        = regexp.MustCompile(`^-?[0-9]+$`)
	doublePattern     = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) String() string {
	return fmt.Sprintf("%s :\t%s", t.Typ, t.Value)
}

func (t Token) is(typ TokenType, value string) bool {
	return t.Typ == typ && t.Value == value
}

// FormatTokens renders the debug listing of tokens, one per line.
func FormatTokens(tokens []Token) string {
	var str strings.Builder
	for _, t := range tokens {
		str.WriteString(t.String())
		str.WriteByte('\n')
	}

	return str.String()
}

// Classify assigns a token type from the token text alone.
func Classify(text string) TokenType {
	switch {
	case isKeyword(text):
		return TokenKeyword
	case isOperator(text):
		return TokenPunctuation
	case intPattern.MatchString(text):
		return TokenInt
	case doublePattern.MatchString(text):
		return TokenDouble
	case text == "true" || text == "false":
		return TokenBoolean
	case len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`):
		return TokenString
	case identifierPattern.MatchString(text):
		return TokenIdentifier
	default:
		return TokenUnknown
	}
}

func isKeyword(text string) bool {
	_, ok := keywordTable[text]
	return ok
}

func isOperator(text string) bool {
	_, ok := operatorTable[text]
	return ok
}

func isTypeKeyword(text string) bool {
	switch text {
	case KeywordInt, KeywordFloat, KeywordDouble, KeywordChar, KeywordString:
		return true
	}

	return false
}

func isOperatorChar(r rune) bool {
	return r != EOF && strings.ContainsRune(operatorChars, r)
}

type Lexer struct {
	reader *bufio.Reader
	tokens []Token
	err    error

	line, col int
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		line:   1,
		col:    1,
	}
}

// Tokenize scans source text into classified tokens.
func Tokenize(source string) []Token {
	// Reading from a strings.Reader cannot fail
	toks, _ := NewLexer(strings.NewReader(source)).Run()
	return toks
}

// Run scans the whole input. Unrecognised lexemes come out as UNKNOWN tokens,
// so the only error is a failing reader.
func (l *Lexer) Run() ([]Token, error) {
	for state := boundaryState; state != nil; {
		state = state(l)
	}

	if l.err != nil {
		return nil, l.err
	}

	return l.tokens, nil
}

func boundaryState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return nil
		case r == '"':
			return stringState
		case isOperatorChar(r):
			return operatorState
		case unicode.IsSpace(r):
			l.next()
		default:
			return bareState
		}
	}
}

func bareState(l *Lexer) stateFunc {
	loc := l.location()

	var tok strings.Builder
	for r := l.peek(); r != EOF && r != '"' && !isOperatorChar(r) && !unicode.IsSpace(r); r = l.peek() {
		tok.WriteRune(l.next())
	}

	return l.emit(tok.String(), loc)
}

func stringState(l *Lexer) stateFunc {
	loc := l.location()

	var str strings.Builder
	str.WriteRune(l.next()) // Opening quote

	for r := l.next(); r != EOF; r = l.next() {
		str.WriteRune(r)
		if r == '"' {
			return l.emit(str.String(), loc)
		}
	}

	// Unterminated, the rest of the input becomes one token
	return l.emit(strings.TrimSpace(str.String()), loc)
}

func operatorState(l *Lexer) stateFunc {
	loc := l.location()

	r := l.next()
	if pair := string(r) + string(l.peek()); isOperator(pair) {
		l.next()
		return l.emit(pair, loc)
	}

	return l.emit(string(r), loc)
}

func (l *Lexer) emit(raw string, loc *Location) stateFunc {
	if raw != "" {
		l.tokens = append(l.tokens, Token{
			Typ:   Classify(raw),
			Value: raw,
			Loc:   loc,
		})
	}

	return boundaryState
}

func (l *Lexer) location() *Location {
	return &Location{Line: l.line, Col: l.col}
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		l.setErr(err)
		return EOF
	}

	_ = l.reader.UnreadRune()
	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		l.setErr(err)
		return EOF
	}

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) setErr(err error) {
	if err != io.EOF && l.err == nil {
		l.err = err
	}
}
