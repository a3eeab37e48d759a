package syntax

// Visitor is called for each node during Walk. Returning false skips the
// node's children.
type Visitor func(node Node) bool

// Walk visits the tree rooted at node depth-first, in source order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}
	for _, c := range children(node) {
		Walk(c, v)
	}
}

// Inspect is Walk with a plain function.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// children returns the direct children of n that are present, in source
// order. Names, literals, empty statements and error nodes are leaves.
func children(n Node) []Node {
	var out []Node
	add := func(ns ...Node) {
		for _, c := range ns {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *File:
		for _, s := range n.Stmts {
			add(s)
		}
	case *BlockStmt:
		for _, s := range n.Stmts {
			add(s)
		}
	case *VarDecl:
		add(n.Name, n.Type, n.Value)
	case *FuncDecl:
		add(n.Name)
		for _, p := range n.Params {
			add(p)
		}
		add(n.Result, n.Body)
	case *Field:
		add(n.Name, n.Type)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *WhileStmt:
		add(n.Cond, n.Body)
	case *ReturnStmt:
		add(n.Result)
	case *ExprStmt:
		add(n.X)
	case *UnaryExpr:
		add(n.X)
	case *BinaryExpr:
		add(n.X, n.Y)
	case *AssignExpr:
		add(n.Lhs, n.Rhs)
	case *CallExpr:
		add(n.Fun)
		for _, a := range n.Args {
			add(a)
		}
	}
	return out
}

// isNil reports whether n is nil or a typed nil pointer, as the optional
// *Name and *BlockStmt fields are when absent.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Name:
		return n == nil
	case *BlockStmt:
		return n == nil
	}
	return false
}

// ErrorNodes returns every ErrorNode in the tree rooted at node, in source order.
func ErrorNodes(node Node) []*ErrorNode {
	var out []*ErrorNode
	Inspect(node, func(n Node) bool {
		if e, ok := n.(*ErrorNode); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}
