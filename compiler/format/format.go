package format

import (
	"context"
	"fmt"

	"tlog.app/go/errors"

	"github.com/slowlang/mcc/compiler/ast"
)

// Operator precedence, loosest to tightest. It decides where the
// rendered source needs parentheses to mean what the tree means.
const (
	exprPrec = iota // + and binary -
	termPrec        // * /
	atomPrec        // unary ops and literals
)

// Format renders a syntax tree back to source text. The output is
// normalized: single spaces around binary operators and parentheses only
// where precedence requires them, so it reparses into the same tree.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x any, d int) ([]byte, error) {
	switch x := x.(type) {
	case *ast.Program:
		return formatFunc(ctx, b, x.Func, d)
	case *ast.Func:
		return formatFunc(ctx, b, x, d)
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

func formatFunc(ctx context.Context, b []byte, x *ast.Func, d int) ([]byte, error) {
	b = app(b, d, "int %v() {\n", x.Name)

	b, err := formatStmt(ctx, b, x.Body, d+1)
	if err != nil {
		return nil, errors.Wrap(err, "body")
	}

	b = app(b, d, "}\n")

	return b, nil
}

func formatStmt(ctx context.Context, b []byte, s ast.Stmt, d int) (_ []byte, err error) {
	switch s := s.(type) {
	case ast.Return:
		b = app(b, d, "return ")

		b, err = formatExpr(ctx, b, s.Value, exprPrec)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}

		b = append(b, ";\n"...)
	default:
		return nil, errors.New("unsupported stmt: %T", s)
	}

	return b, nil
}

// formatExpr renders x into a context that accepts operators of
// precedence min or tighter. Looser subtrees get parenthesized.
func formatExpr(ctx context.Context, b []byte, x ast.Expr, min int) (_ []byte, err error) {
	if prec(x) < min {
		b = append(b, '(')

		b, err = formatExpr(ctx, b, x, exprPrec)
		if err != nil {
			return nil, err
		}

		b = append(b, ')')

		return b, nil
	}

	switch x := x.(type) {
	case ast.IntLit:
		b = fmt.Appendf(b, "%d", x.Value)
	case ast.Unary:
		b = append(b, x.Op...)

		b, err = formatExpr(ctx, b, x.X, atomPrec)
		if err != nil {
			return nil, errors.Wrap(err, "operand")
		}
	case ast.Binary:
		b, err = formatExpr(ctx, b, x.L, prec(x))
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = fmt.Appendf(b, " %v ", x.Op)

		// one level tighter on the right keeps left-associativity exact
		b, err = formatExpr(ctx, b, x.R, prec(x)+1)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func prec(x ast.Expr) int {
	b, ok := x.(ast.Binary)
	if !ok {
		return atomPrec
	}

	switch b.Op {
	case ast.Mul, ast.Div:
		return termPrec
	default:
		return exprPrec
	}
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = fmt.Appendf(b, f, args...)
	return b
}
