package front

import (
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"
)

type (
	// Kind classifies a token.
	Kind int

	// Token is a single lexical unit. Pos is the byte offset of its first
	// character in the source. It survives into the tree and into errors.
	Token struct {
		Kind Kind
		Text string
		Val  int64 // value of an Int token
		Pos  int
	}

	// UnrecognizedError is returned for a source fragment that matches no
	// token class. The fragment is reported, never silently dropped.
	UnrecognizedError struct {
		Pos  int
		Text string
	}
)

// Token kinds. Minus is a single kind for both the unary and the binary
// reading of `-`. The parser tells them apart by grammatical position.
const (
	EOF Kind = iota

	Ident
	Int

	KwInt
	KwReturn

	LBrace
	RBrace
	LParen
	RParen
	Semi

	Plus
	Minus
	Star
	Slash
	Tilde
	Bang
)

var kindNames = [...]string{
	EOF:      "EOF",
	Ident:    "identifier",
	Int:      "integer",
	KwInt:    "'int'",
	KwReturn: "'return'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LParen:   "'('",
	RParen:   "')'",
	Semi:     "';'",
	Plus:     "'+'",
	Minus:    "'-'",
	Star:     "'*'",
	Slash:    "'/'",
	Tilde:    "'~'",
	Bang:     "'!'",
}

// keywords are the reserved words. A word scans as Ident unless it is
// listed here, so `returnx` is a name, not a keyword and a name.
var keywords = map[string]Kind{
	"int":    KwInt,
	"return": KwReturn,
}

// puncts are the single-character lexemes: structural punctuation and
// operators. They need no boundary after them.
var puncts = map[byte]Kind{
	'{': LBrace,
	'}': RBrace,
	'(': LParen,
	')': RParen,
	';': Semi,
	'+': Plus,
	'-': Minus,
	'*': Star,
	'/': Slash,
	'~': Tilde,
	'!': Bang,
}

// Tokenize scans src into the full token sequence terminated by an EOF
// token. It fails on the first fragment that matches no token class.
func Tokenize(ctx context.Context, src []byte) (toks []Token, err error) {
	tr := tlog.SpanFromContext(ctx)

	for i := 0; i < len(src); {
		var t Token

		t, i, err = token(src, i)
		if err != nil {
			return nil, err
		}

		if t.Kind == EOF {
			break
		}

		if tr.If("lex_token") {
			tr.Printw("token", "tok", t, "end", i)
		}

		toks = append(toks, t)
	}

	toks = append(toks, Token{Kind: EOF, Pos: len(src)})

	return toks, nil
}

// token scans one token starting at st, skipping leading whitespace.
// i is the position right after the token.
func token(src []byte, st int) (t Token, i int, err error) {
	st = skipSpaces(src, st)
	i = st

	if i == len(src) {
		return Token{Kind: EOF, Pos: st}, i, nil
	}

	c := src[i]

	if k, ok := puncts[c]; ok {
		return Token{Kind: k, Text: string(src[i : i+1]), Pos: st}, i + 1, nil
	}

	switch {
	case c >= '0' && c <= '9':
		e := skipNum(src, i)

		// A literal ends at a non-identifier character. `123abc` is one
		// malformed fragment, not a literal and a name.
		if e < len(src) && isIdent(src[e]) {
			e = skipIdent(src, e)

			return t, st, NewUnrecognized(st, string(src[i:e]))
		}

		v, err := strconv.ParseInt(string(src[i:e]), 10, 64)
		if err != nil {
			return t, st, errors.Wrap(err, "integer literal")
		}

		return Token{Kind: Int, Text: string(src[i:e]), Val: v, Pos: st}, e, nil
	case isIdent(c):
		e := skipIdent(src, i)
		word := string(src[i:e])

		if k, ok := keywords[word]; ok {
			return Token{Kind: k, Text: word, Pos: st}, e, nil
		}

		return Token{Kind: Ident, Text: word, Pos: st}, e, nil
	default:
		return t, st, NewUnrecognized(st, string(src[i:i+1]))
	}
}

func skipSpaces(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}

		break
	}

	return i
}

func skipNum(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && isIdent(b[i]) {
		i++
	}

	return i
}

func isIdent(c byte) bool {
	return c == '_' ||
		c >= '0' && c <= '9' ||
		c >= 'A' && c <= 'Z' ||
		c >= 'a' && c <= 'z'
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case Ident, Int:
		return fmt.Sprintf("%v %q", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	if t.Kind == Int {
		return e.AppendFormat(b, "%d @%d", t.Val, t.Pos)
	}

	return e.AppendFormat(b, "%v @%d", t, t.Pos)
}

func NewUnrecognized(pos int, text string) error {
	return UnrecognizedError{Pos: pos, Text: text}
}

func (e UnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized fragment %q", e.Text)
}
