package syntax

import (
	"encoding/json"
	"io"
)

// jsonNode is the JSON form of every node kind. Fields a node kind does
// not have are left empty and omitted.
type jsonNode struct {
	Type   string      `json:"type"`
	Pos    string      `json:"pos"`
	End    string      `json:"end,omitempty"`
	Name   string      `json:"name,omitempty"`
	Op     string      `json:"op,omitempty"`
	Kind   string      `json:"kind,omitempty"`
	Value  *string     `json:"value,omitempty"`
	Typ    string      `json:"typ,omitempty"`
	Result string      `json:"result,omitempty"`
	Msg    string      `json:"msg,omitempty"`
	Params []*jsonNode `json:"params,omitempty"`
	Init   *jsonNode   `json:"init,omitempty"`
	Cond   *jsonNode   `json:"cond,omitempty"`
	Then   *jsonNode   `json:"then,omitempty"`
	Else   *jsonNode   `json:"else,omitempty"`
	Body   *jsonNode   `json:"body,omitempty"`
	Fun    *jsonNode   `json:"fun,omitempty"`
	X      *jsonNode   `json:"x,omitempty"`
	Y      *jsonNode   `json:"y,omitempty"`
	Args   []*jsonNode `json:"args,omitempty"`
	Stmts  []*jsonNode `json:"stmts,omitempty"`
}

// FprintJSON writes the tree rooted at node to w as indented JSON.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func toJSON(node Node) *jsonNode {
	if node == nil {
		return nil
	}
	j := &jsonNode{Pos: node.Pos().String()}

	switch n := node.(type) {
	case *File:
		j.Type, j.Name = "File", n.Name
		j.Stmts = stmtsJSON(n.Stmts)
	case *VarDecl:
		j.Type, j.Name = "VarDecl", n.Name.Value
		j.Typ = nameValue(n.Type)
		j.Init = toJSON(n.Value)
	case *FuncDecl:
		j.Type, j.Name = "FuncDecl", n.Name.Value
		for _, p := range n.Params {
			j.Params = append(j.Params, toJSON(p))
		}
		j.Result = nameValue(n.Result)
		if n.Body != nil {
			j.Body = toJSON(n.Body)
		}
	case *Field:
		j.Type, j.Name, j.Typ = "Field", n.Name.Value, nameValue(n.Type)
	case *BlockStmt:
		j.Type = "BlockStmt"
		j.Stmts = stmtsJSON(n.Stmts)
	case *IfStmt:
		j.Type = "IfStmt"
		j.Cond, j.Then, j.Else = toJSON(n.Cond), toJSON(n.Then), toJSON(n.Else)
	case *WhileStmt:
		j.Type = "WhileStmt"
		j.Cond, j.Body = toJSON(n.Cond), toJSON(n.Body)
	case *ReturnStmt:
		j.Type, j.X = "ReturnStmt", toJSON(n.Result)
	case *ExprStmt:
		j.Type, j.X = "ExprStmt", toJSON(n.X)
	case *EmptyStmt:
		j.Type = "EmptyStmt"
	case *ErrorNode:
		j.Type, j.End, j.Msg = "ErrorNode", n.end.String(), n.Msg
	case *Name:
		j.Type, j.Name = "Name", n.Value
	case *BasicLit:
		v := n.Value
		j.Type, j.Kind, j.Value = "BasicLit", n.Kind.String(), &v
	case *UnaryExpr:
		j.Type, j.Op, j.X = "UnaryExpr", n.Op.String(), toJSON(n.X)
	case *BinaryExpr:
		j.Type, j.Op = "BinaryExpr", n.Op.String()
		j.X, j.Y = toJSON(n.X), toJSON(n.Y)
	case *AssignExpr:
		j.Type, j.Name, j.X = "AssignExpr", n.Lhs.Value, toJSON(n.Rhs)
	case *CallExpr:
		j.Type, j.Fun = "CallExpr", toJSON(n.Fun)
		for _, a := range n.Args {
			j.Args = append(j.Args, toJSON(a))
		}
	default:
		j.Type = "Unknown"
	}
	return j
}

func stmtsJSON(list []Stmt) []*jsonNode {
	out := make([]*jsonNode, len(list))
	for i, s := range list {
		out[i] = toJSON(s)
	}
	return out
}

func nameValue(n *Name) string {
	if n == nil {
		return ""
	}
	return n.Value
}
