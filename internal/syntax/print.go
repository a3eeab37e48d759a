package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented dump of the tree rooted at node to w, one
// node per line.
func Fprint(w io.Writer, node Node) {
	FprintAnnotated(w, node, nil)
}

// FprintAnnotated is Fprint with annotate(e) appended, after " : ", to
// the line of every expression e it returns a non-empty string for.
func FprintAnnotated(w io.Writer, node Node, annotate func(Expr) string) {
	p := &printer{w: w, annotate: annotate}
	p.node(node)
}

type printer struct {
	w        io.Writer
	depth    int
	annotate func(Expr) string
}

func (p *printer) line(format string, args ...any) {
	io.WriteString(p.w, strings.Repeat("  ", p.depth))
	fmt.Fprintf(p.w, format, args...)
	io.WriteString(p.w, "\n")
}

// nested runs f one level deeper.
func (p *printer) nested(f func()) {
	p.depth++
	f()
	p.depth--
}

// children prints the nodes one level deeper.
func (p *printer) children(nodes ...Node) {
	p.nested(func() {
		for _, n := range nodes {
			p.node(n)
		}
	})
}

// labeled prints a "label:" line with n below it.
func (p *printer) labeled(label string, n Node) {
	p.line("%s:", label)
	p.children(n)
}

func (p *printer) exprLine(x Expr, format string, args ...any) {
	s := fmt.Sprintf(format, args...)
	if p.annotate != nil {
		if a := p.annotate(x); a != "" {
			s += " : " + a
		}
	}
	p.line("%s", s)
}

func (p *printer) stmts(list []Stmt) {
	p.nested(func() {
		for _, s := range list {
			p.node(s)
		}
	})
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case nil:
	case *File:
		p.line("File %s %q", n.pos, n.Name)
		p.stmts(n.Stmts)

	case *BlockStmt:
		p.line("BlockStmt %s", n.pos)
		p.stmts(n.Stmts)

	case *VarDecl:
		p.line("VarDecl %s", n.pos)
		p.nested(func() {
			p.line("Name: %s", n.Name.Value)
			if n.Type != nil {
				p.line("Type: %s", n.Type.Value)
			}
			if n.Value != nil {
				p.labeled("Value", n.Value)
			}
		})

	case *FuncDecl:
		p.line("FuncDecl %s", n.pos)
		p.nested(func() {
			p.line("Name: %s", n.Name.Value)
			if len(n.Params) > 0 {
				p.line("Params:")
				p.nested(func() {
					for _, f := range n.Params {
						p.line("%s %s", f.Name.Value, f.Type.Value)
					}
				})
			}
			if n.Result != nil {
				p.line("Result: %s", n.Result.Value)
			}
			if n.Body != nil {
				p.labeled("Body", n.Body)
			}
		})

	case *Field:
		p.line("Field %s %s %s", n.pos, n.Name.Value, n.Type.Value)

	case *IfStmt:
		p.line("IfStmt %s", n.pos)
		p.nested(func() {
			p.labeled("Cond", n.Cond)
			p.labeled("Then", n.Then)
			if n.Else != nil {
				p.labeled("Else", n.Else)
			}
		})

	case *WhileStmt:
		p.line("WhileStmt %s", n.pos)
		p.nested(func() {
			p.labeled("Cond", n.Cond)
			p.labeled("Body", n.Body)
		})

	case *ReturnStmt:
		p.line("ReturnStmt %s", n.pos)
		if n.Result != nil {
			p.children(n.Result)
		}

	case *ExprStmt:
		p.line("ExprStmt %s", n.pos)
		p.children(n.X)

	case *EmptyStmt:
		p.line("EmptyStmt %s", n.pos)

	case *ErrorNode:
		p.line("ErrorNode %s-%s %q", n.pos, n.end, n.Msg)

	case *Name:
		p.exprLine(n, "Name %s %q", n.pos, n.Value)

	case *BasicLit:
		p.exprLine(n, "BasicLit %s %s %q", n.pos, n.Kind, n.Value)

	case *UnaryExpr:
		p.exprLine(n, "UnaryExpr %s %s", n.pos, n.Op)
		p.children(n.X)

	case *BinaryExpr:
		p.exprLine(n, "BinaryExpr %s %s", n.pos, n.Op)
		p.nested(func() {
			p.labeled("X", n.X)
			p.labeled("Y", n.Y)
		})

	case *AssignExpr:
		p.exprLine(n, "AssignExpr %s", n.pos)
		p.nested(func() {
			p.line("Lhs: %s", n.Lhs.Value)
			p.labeled("Rhs", n.Rhs)
		})

	case *CallExpr:
		p.exprLine(n, "CallExpr %s", n.pos)
		p.nested(func() {
			p.labeled("Fun", n.Fun)
			if len(n.Args) > 0 {
				p.line("Args:")
				args := make([]Node, len(n.Args))
				for i, a := range n.Args {
					args[i] = a
				}
				p.children(args...)
			}
		})

	default:
		p.line("<%T>", node)
	}
}

// ExprString returns a compact, fully parenthesized rendering of an
// expression. Every binary and assignment expression is wrapped in
// parentheses so grouping is visible.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(x.Value)
	case *BasicLit:
		if x.Kind == StringLit {
			b.WriteString(quote(x.Value))
		} else {
			b.WriteString(x.Value)
		}
	case *UnaryExpr:
		b.WriteString(x.Op.String())
		writeExpr(b, x.X)
	case *BinaryExpr:
		b.WriteByte('(')
		writeExpr(b, x.X)
		b.WriteString(" " + x.Op.String() + " ")
		writeExpr(b, x.Y)
		b.WriteByte(')')
	case *AssignExpr:
		b.WriteByte('(')
		b.WriteString(x.Lhs.Value)
		b.WriteString(" = ")
		writeExpr(b, x.Rhs)
		b.WriteByte(')')
	case *CallExpr:
		writeExpr(b, x.Fun)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *ErrorNode:
		b.WriteString("<error>")
	default:
		fmt.Fprintf(b, "<%T>", e)
	}
}
