package ast

type (
	// Node is any node of the syntax tree.
	Node interface{}

	// Stmt is a statement node. Return is the only statement of the language.
	Stmt interface{}

	// Expr is an expression node: IntLit, Unary or Binary.
	Expr interface{}

	// Program is the root of the tree. It owns exactly one function.
	Program struct {
		Func *Func
	}

	// Func is a function definition: int Name() { Body }.
	Func struct {
		Pos  int
		Name string
		Body Stmt
	}

	// Return computes Value and makes it the process exit status.
	Return struct {
		Pos   int
		Value Expr
	}

	// IntLit is a decimal integer literal.
	IntLit struct {
		Pos   int
		Value int64
	}

	// Unary applies Op to the value of X.
	Unary struct {
		Pos int
		Op  UnaryOp
		X   Expr
	}

	// Binary combines the values of L and R with Op.
	Binary struct {
		Pos int
		Op  BinaryOp
		L   Expr
		R   Expr
	}

	// UnaryOp and BinaryOp are separate types on purpose. The parser
	// resolves the unary and the binary reading of `-` once, from the
	// grammatical position, and the rest of the pipeline never revisits it.
	UnaryOp  string
	BinaryOp string
)

const (
	Neg    UnaryOp = "-"
	Compl  UnaryOp = "~"
	LogNot UnaryOp = "!"
)

const (
	Add BinaryOp = "+"
	Sub BinaryOp = "-"
	Mul BinaryOp = "*"
	Div BinaryOp = "/"
)
