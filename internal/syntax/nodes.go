package syntax

// Every node implements Node. Expressions implement Expr, statements Stmt,
// and declarations Decl, which is also a Stmt because declarations sit in
// blocks and at the top level alongside other statements. ErrorNode is an
// Expr and a Stmt at once.

// Node is an AST node. Only types in this package implement it.
type Node interface {
	Pos() Pos // first character of the node
	End() Pos // first character after the node
	aNode()
}

type Expr interface {
	Node
	aExpr()
}

type Stmt interface {
	Node
	aStmt()
}

type Decl interface {
	Stmt
	aDecl()
}

// node holds the source range shared by all nodes.
type node struct {
	pos, end Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) End() Pos { return n.end }
func (*node) aNode()     {}

// SetSpan sets the source range of a node built outside the parser.
func (n *node) SetSpan(pos, end Pos) {
	n.pos, n.end = pos, end
}

type (
	expr struct{ node }
	stmt struct{ node }
	decl struct{ stmt }
)

func (*expr) aExpr() {}
func (*stmt) aStmt() {}
func (*decl) aDecl() {}

// File is the tree of one compilation unit.
type File struct {
	node
	Name  string
	Stmts []Stmt // in source order; function declarations are not hoisted here
}

type (
	// var Name [: Type] [= Value];
	VarDecl struct {
		decl
		Name  *Name
		Type  *Name // nil when inferred from Value
		Value Expr  // nil when absent
	}

	// func Name(Params) [: Result] Body
	FuncDecl struct {
		decl
		Name   *Name
		Params []*Field
		Result *Name // nil for a void function
		Body   *BlockStmt
	}

	// Name : Type, in a parameter list
	Field struct {
		node
		Name, Type *Name
	}
)

type (
	Name struct {
		expr
		Value string
	}

	// BasicLit is an int, float, string or bool literal. Value is the
	// source text, except for strings where it is the decoded content.
	BasicLit struct {
		expr
		Value string
		Kind  LitKind
	}

	// Op X, where Op is _Sub or _Not
	UnaryExpr struct {
		expr
		Op Token
		X  Expr
	}

	// X Op Y
	BinaryExpr struct {
		expr
		Op   Token
		X, Y Expr
	}

	// Fun(Args)
	CallExpr struct {
		expr
		Fun  Expr
		Args []Expr
	}

	// Lhs = Rhs. The value of the expression is the assigned value.
	AssignExpr struct {
		expr
		Lhs *Name
		Rhs Expr
	}
)

type (
	// A lone semicolon.
	EmptyStmt struct {
		stmt
	}

	ExprStmt struct {
		stmt
		X Expr
	}

	// { Stmts }
	BlockStmt struct {
		stmt
		Stmts  []Stmt
		Rbrace Pos // invalid if the closing brace is missing
	}

	// if Cond Then [else Else]
	IfStmt struct {
		stmt
		Cond Expr
		Then *BlockStmt
		Else Stmt // nil, *IfStmt or *BlockStmt
	}

	// while Cond Body
	WhileStmt struct {
		stmt
		Cond Expr
		Body *BlockStmt
	}

	// return [Result];
	ReturnStmt struct {
		stmt
		Result Expr // nil for a bare return
	}
)

// ErrorNode covers source the parser skipped while recovering from a
// syntax error. It appears wherever an expression or statement was
// expected.
type ErrorNode struct {
	node
	Msg string // message of the error that started the recovery
}

func (*ErrorNode) aExpr() {}
func (*ErrorNode) aStmt() {}
