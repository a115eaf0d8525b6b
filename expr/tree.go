package expr

import "github.com/m1gwings/treedrawer/tree"

// Tree renders e as a box-drawn tree, one node per operator or operand.
func Tree(e Expr) string {
	return buildTree(e).String()
}

func buildTree(e Expr) *tree.Tree {
	t := tree.NewTree(tree.NodeString(label(e)))
	addChildren(t, e)
	return t
}

func addChildren(t *tree.Tree, e Expr) {
	for _, child := range children(e) {
		addChildren(t.AddChild(tree.NodeString(label(child))), child)
	}
}

func label(e Expr) string {
	switch e := e.(type) {
	case Neg:
		return "neg"
	case Binary:
		return e.Op.String()
	case Call:
		return string(e.Fn)
	}
	return e.String()
}

func children(e Expr) []Expr {
	switch e := e.(type) {
	case Neg:
		return []Expr{e.X}
	case Binary:
		return []Expr{e.L, e.R}
	case Call:
		return []Expr{e.Arg}
	}
	return nil
}
