package back

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/mcc/compiler/ast"
)

func TestSmoke(t *testing.T) {
	p := &ast.Program{
		Func: &ast.Func{
			Name: "main",
			Body: ast.Return{Value: ast.IntLit{Value: 2}},
		},
	}

	ctx := context.Background()

	var c Compiler

	obj, err := c.CompileProgram(ctx, nil, p)
	if err != nil {
		t.Errorf("compile program: %v", err)
	}

	t.Logf("result:\n%s", obj)
}

func TestCompileProgram(t *testing.T) {
	cases := []struct {
		name string
		body ast.Expr
		want string
	}{
		{
			name: "literal",
			body: ast.IntLit{Value: 2},
			want: `.globl main
main:
    movl $0, %eax
    movl $2, %eax
    ret
`,
		},
		{
			name: "neg",
			body: ast.Unary{Op: ast.Neg, X: ast.IntLit{Value: 5}},
			want: `.globl main
main:
    movl $0, %eax
    movl $5, %eax
    neg %eax
    ret
`,
		},
		{
			name: "compl",
			body: ast.Unary{Op: ast.Compl, X: ast.IntLit{Value: 12}},
			want: `.globl main
main:
    movl $0, %eax
    movl $12, %eax
    not %eax
    ret
`,
		},
		{
			name: "lognot",
			body: ast.Unary{Op: ast.LogNot, X: ast.IntLit{Value: 0}},
			want: `.globl main
main:
    movl $0, %eax
    movl $0, %eax
    cmpl $0, %eax
    movl $0, %eax
    sete %al
    ret
`,
		},
		{
			name: "add",
			body: ast.Binary{Op: ast.Add, L: ast.IntLit{Value: 1}, R: ast.IntLit{Value: 2}},
			want: `.globl main
main:
    movl $0, %eax
    movl $1, %eax
    push %eax
    movl $2, %eax
    movl %eax, %ecx
    pop %eax
    addl %ecx, %eax
    ret
`,
		},
		{
			name: "div",
			body: ast.Binary{Op: ast.Div, L: ast.IntLit{Value: 12}, R: ast.IntLit{Value: 4}},
			want: `.globl main
main:
    movl $0, %eax
    movl $12, %eax
    push %eax
    movl $4, %eax
    movl %eax, %ecx
    pop %eax
    cdq
    idivl %ecx
    ret
`,
		},
		{
			name: "precedence chain",
			body: ast.Binary{
				Op: ast.Add,
				L:  ast.IntLit{Value: 2},
				R: ast.Binary{
					Op: ast.Mul,
					L:  ast.IntLit{Value: 3},
					R:  ast.IntLit{Value: 4},
				},
			},
			want: `.globl main
main:
    movl $0, %eax
    movl $2, %eax
    push %eax
    movl $3, %eax
    push %eax
    movl $4, %eax
    movl %eax, %ecx
    pop %eax
    imul %ecx, %eax
    movl %eax, %ecx
    pop %eax
    addl %ecx, %eax
    ret
`,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			p := &ast.Program{
				Func: &ast.Func{Name: "main", Body: ast.Return{Value: tc.body}},
			}

			var c Compiler

			obj, err := c.CompileProgram(context.Background(), nil, p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(obj))
		})
	}
}

// Both operands of a binary operator may themselves be binary. The stack
// keeps the left intermediate alive across the right subtree, however
// deep it is.
func TestCompileNestedBinary(t *testing.T) {
	// (1 + 2) * (3 + 4)
	body := ast.Binary{
		Op: ast.Mul,
		L:  ast.Binary{Op: ast.Add, L: ast.IntLit{Value: 1}, R: ast.IntLit{Value: 2}},
		R:  ast.Binary{Op: ast.Add, L: ast.IntLit{Value: 3}, R: ast.IntLit{Value: 4}},
	}

	p := &ast.Program{
		Func: &ast.Func{Name: "main", Body: ast.Return{Value: body}},
	}

	var c Compiler

	obj, err := c.CompileProgram(context.Background(), nil, p)
	require.NoError(t, err)

	want := `.globl main
main:
    movl $0, %eax
    movl $1, %eax
    push %eax
    movl $2, %eax
    movl %eax, %ecx
    pop %eax
    addl %ecx, %eax
    push %eax
    movl $3, %eax
    push %eax
    movl $4, %eax
    movl %eax, %ecx
    pop %eax
    addl %ecx, %eax
    movl %eax, %ecx
    pop %eax
    imul %ecx, %eax
    ret
`
	assert.Equal(t, want, string(obj))
}

func TestCompileAppends(t *testing.T) {
	p := &ast.Program{
		Func: &ast.Func{Name: "main", Body: ast.Return{Value: ast.IntLit{Value: 3}}},
	}

	var c Compiler

	obj, err := c.CompileProgram(context.Background(), []byte("# prefix\n"), p)
	require.NoError(t, err)
	assert.Equal(t, `# prefix
.globl main
main:
    movl $0, %eax
    movl $3, %eax
    ret
`, string(obj))
}

func TestCompileUnsupported(t *testing.T) {
	p := &ast.Program{
		Func: &ast.Func{Name: "main", Body: ast.Return{Value: struct{}{}}},
	}

	var c Compiler

	_, err := c.CompileProgram(context.Background(), nil, p)
	assert.Error(t, err)
}
