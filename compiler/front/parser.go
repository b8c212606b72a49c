package front

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/mcc/compiler/ast"
)

type (
	// parser walks a token sequence with one token of lookahead and no
	// backtracking.
	parser struct {
		toks []Token
		i    int
	}

	// UnexpectedError is returned on the first token that violates the
	// grammar. Got carries the offending token and its position, Want
	// lists the kinds the production accepted.
	UnexpectedError struct {
		Got  Token
		Want []Kind
	}
)

// unaryOps resolves a prefix operator token into the operation it means
// in that position.
var unaryOps = map[Kind]ast.UnaryOp{
	Minus: ast.Neg,
	Tilde: ast.Compl,
	Bang:  ast.LogNot,
}

// Parse builds the syntax tree for a whole source file:
//
//	function  = "int" Ident "(" ")" "{" statement "}"
//	statement = "return" expr ";"
//	expr      = term { ("+" | "-") term }
//	term      = factor { ("*" | "/") factor }
//	factor    = "(" expr ")" | ("-" | "~" | "!") factor | Int
//
// The first grammar violation aborts the parse. There is no recovery and
// no partial tree.
func Parse(ctx context.Context, toks []Token) (p *ast.Program, err error) {
	ps := &parser{toks: toks}

	f, err := ps.parseFunc(ctx)
	if err != nil {
		return nil, err
	}

	if t := ps.peek(); t.Kind != EOF {
		return nil, NewUnexpected(t, EOF)
	}

	return &ast.Program{Func: f}, nil
}

func (p *parser) parseFunc(ctx context.Context) (f *ast.Func, err error) {
	kw, err := p.expect(ctx, KwInt)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(ctx, Ident)
	if err != nil {
		return nil, errors.Wrap(err, "function name")
	}

	_, err = p.expect(ctx, LParen)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(ctx, RParen)
	if err != nil {
		return nil, err
	}

	_, err = p.expect(ctx, LBrace)
	if err != nil {
		return nil, err
	}

	body, err := p.parseReturn(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", name.Text)
	}

	_, err = p.expect(ctx, RBrace)
	if err != nil {
		return nil, err
	}

	tlog.SpanFromContext(ctx).Printw("func", "name", name.Text)

	return &ast.Func{Pos: kw.Pos, Name: name.Text, Body: body}, nil
}

func (p *parser) parseReturn(ctx context.Context) (s ast.Stmt, err error) {
	kw, err := p.expect(ctx, KwReturn)
	if err != nil {
		return nil, err
	}

	x, err := p.parseExpr(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "return value")
	}

	_, err = p.expect(ctx, Semi)
	if err != nil {
		return nil, err
	}

	return ast.Return{Pos: kw.Pos, Value: x}, nil
}

// parseExpr parses the loose precedence tier: + and binary -,
// left-associative.
func (p *parser) parseExpr(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.parseTerm(ctx)
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinaryOp

		switch p.peek().Kind {
		case Plus:
			op = ast.Add
		case Minus:
			op = ast.Sub // infix position: subtraction, not negation
		default:
			return x, nil
		}

		t := p.next(ctx)

		r, err := p.parseTerm(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "right operand of %v", op)
		}

		x = ast.Binary{Pos: t.Pos, Op: op, L: x, R: r}
	}
}

// parseTerm parses the tight precedence tier: * and /, left-associative.
func (p *parser) parseTerm(ctx context.Context) (x ast.Expr, err error) {
	x, err = p.parseFactor(ctx)
	if err != nil {
		return nil, err
	}

	for {
		var op ast.BinaryOp

		switch p.peek().Kind {
		case Star:
			op = ast.Mul
		case Slash:
			op = ast.Div
		default:
			return x, nil
		}

		t := p.next(ctx)

		r, err := p.parseFactor(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "right operand of %v", op)
		}

		x = ast.Binary{Pos: t.Pos, Op: op, L: x, R: r}
	}
}

// parseFactor parses the tightest tier: a parenthesized expression, a
// unary operator applied to a factor, or an integer literal.
func (p *parser) parseFactor(ctx context.Context) (x ast.Expr, err error) {
	switch t := p.peek(); t.Kind {
	case LParen:
		p.next(ctx)

		x, err = p.parseExpr(ctx)
		if err != nil {
			return nil, err
		}

		_, err = p.expect(ctx, RParen)
		if err != nil {
			return nil, err
		}

		return x, nil
	case Minus, Tilde, Bang:
		p.next(ctx)

		op := unaryOps[t.Kind]

		y, err := p.parseFactor(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "operand of %v", op)
		}

		return ast.Unary{Pos: t.Pos, Op: op, X: y}, nil
	case Int:
		t = p.next(ctx)

		return ast.IntLit{Pos: t.Pos, Value: t.Val}, nil
	default:
		return nil, NewUnexpected(t, LParen, Minus, Tilde, Bang, Int)
	}
}

// peek returns the current token without consuming it.
func (p *parser) peek() Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}

	return Token{Kind: EOF, Pos: p.end()}
}

// next consumes and returns the current token.
func (p *parser) next(ctx context.Context) (t Token) {
	t = p.peek()

	if p.i < len(p.toks) {
		p.i++
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("next_token") {
		tr.Printw("next token", "tok", t, "i", p.i, "from", loc.Callers(1, 3))
	}

	return t
}

// expect consumes the current token if it is of kind k and fails
// otherwise.
func (p *parser) expect(ctx context.Context, k Kind) (t Token, err error) {
	t = p.peek()
	if t.Kind != k {
		return t, NewUnexpected(t, k)
	}

	return p.next(ctx), nil
}

func (p *parser) end() int {
	if l := len(p.toks); l != 0 {
		return p.toks[l-1].Pos
	}

	return 0
}

func NewUnexpected(got Token, want ...Kind) error {
	return UnexpectedError{Got: got, Want: want}
}

func (e UnexpectedError) Error() string {
	l := make([]string, len(e.Want))

	for i := range e.Want {
		l[i] = e.Want[i].String()
	}

	return fmt.Sprintf("unexpected %v, want %v", e.Got, strings.Join(l, " or "))
}
