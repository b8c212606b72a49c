package back

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/mcc/compiler/asm"
	"github.com/slowlang/mcc/compiler/ast"
)

type (
	// Compiler generates AT&T-syntax i386 assembly text from a parsed
	// program. The zero value is ready to use.
	Compiler struct{}
)

func New() *Compiler { return nil }

// CompileProgram appends to b the assembly for p: one global procedure
// labeled with the function name, the instructions evaluating the return
// expression into EAX, and a ret.
//
// Every expression leaves its value in EAX. A binary operator pushes the
// left value while the right one is evaluated, then moves the right
// value to ECX and pops the left back, so intermediates of nested
// operators live on the hardware stack and cannot clobber each other.
func (c *Compiler) CompileProgram(ctx context.Context, b []byte, p *ast.Program) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile program", "func", p.Func.Name)
	defer tr.Finish("err", &err)

	b, err = c.compileFunc(ctx, b, p.Func)
	if err != nil {
		return nil, errors.Wrap(err, "func %v", p.Func.Name)
	}

	return b, nil
}

func (c *Compiler) compileFunc(ctx context.Context, b []byte, f *ast.Func) (_ []byte, err error) {
	b = fmt.Appendf(b, ".globl %v\n%[1]v:\n", f.Name)

	// The exit status is defined even if the body emits nothing. Real
	// expression code overwrites it right away.
	b = fmt.Appendf(b, "    movl $0, %s\n", asm.EAX)

	b, err = c.compileStmt(ctx, b, f.Body)
	if err != nil {
		return nil, err
	}

	b = append(b, "    ret\n"...)

	return b, nil
}

func (c *Compiler) compileStmt(ctx context.Context, b []byte, s ast.Stmt) (_ []byte, err error) {
	switch s := s.(type) {
	case ast.Return:
		b, err = c.compileExpr(ctx, b, s.Value)
		if err != nil {
			return nil, errors.Wrap(err, "return value")
		}
	default:
		return nil, errors.New("unsupported statement: %T", s)
	}

	return b, nil
}

// compileExpr appends the instructions evaluating e into EAX.
func (c *Compiler) compileExpr(ctx context.Context, b []byte, e ast.Expr) (_ []byte, err error) {
	switch e := e.(type) {
	case ast.IntLit:
		b = fmt.Appendf(b, "    movl $%d, %s\n", e.Value, asm.EAX)
	case ast.Unary:
		b, err = c.compileExpr(ctx, b, e.X)
		if err != nil {
			return nil, errors.Wrap(err, "operand of %v", e.Op)
		}

		b, err = c.compileUnary(ctx, b, e.Op)
		if err != nil {
			return nil, err
		}
	case ast.Binary:
		b, err = c.compileExpr(ctx, b, e.L)
		if err != nil {
			return nil, errors.Wrap(err, "left operand of %v", e.Op)
		}

		b = fmt.Appendf(b, "    push %s\n", asm.EAX)

		b, err = c.compileExpr(ctx, b, e.R)
		if err != nil {
			return nil, errors.Wrap(err, "right operand of %v", e.Op)
		}

		b = fmt.Appendf(b, "    movl %s, %s\n", asm.EAX, asm.ECX)
		b = fmt.Appendf(b, "    pop %s\n", asm.EAX)

		b, err = c.compileBinary(ctx, b, e.Op)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("unsupported expression: %T", e)
	}

	return b, nil
}

// compileUnary applies op to EAX in place.
func (c *Compiler) compileUnary(ctx context.Context, b []byte, op ast.UnaryOp) ([]byte, error) {
	switch op {
	case ast.Neg:
		b = fmt.Appendf(b, "    neg %s\n", asm.EAX)
	case ast.Compl:
		b = fmt.Appendf(b, "    not %s\n", asm.EAX)
	case ast.LogNot:
		// sete writes one byte, so EAX is zeroed between the comparison
		// and the flag read. movl does not touch the flags.
		b = fmt.Appendf(b, "    cmpl $0, %s\n", asm.EAX)
		b = fmt.Appendf(b, "    movl $0, %s\n", asm.EAX)
		b = fmt.Appendf(b, "    sete %s\n", asm.EAX.Low8())
	default:
		return nil, errors.New("unsupported unary op: %v", op)
	}

	return b, nil
}

// compileBinary combines the left value in EAX with the right value in
// ECX, leaving the result in EAX.
func (c *Compiler) compileBinary(ctx context.Context, b []byte, op ast.BinaryOp) ([]byte, error) {
	switch op {
	case ast.Add:
		b = fmt.Appendf(b, "    addl %s, %s\n", asm.ECX, asm.EAX)
	case ast.Sub:
		b = fmt.Appendf(b, "    subl %s, %s\n", asm.ECX, asm.EAX)
	case ast.Mul:
		b = fmt.Appendf(b, "    imul %s, %s\n", asm.ECX, asm.EAX)
	case ast.Div:
		// idivl divides EDX:EAX, cdq sign-extends the dividend into EDX
		// so negative values divide right.
		b = append(b, "    cdq\n"...)
		b = fmt.Appendf(b, "    idivl %s\n", asm.ECX)
	default:
		return nil, errors.New("unsupported binary op: %v", op)
	}

	return b, nil
}
