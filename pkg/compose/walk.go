package compose

// Walk visits node and its descendants in pre-order. Sequence and
// Concurrent children are visited in order, a branch visits Then before
// Else, and a hydrated wrapper is visited before its child. If fn returns
// false the subtree below the current node is skipped.
func Walk(node Node, fn func(Node) bool) {
	if isNil(node) || !fn(node) {
		return
	}
	switch n := node.(type) {
	case *Sequence:
		for _, c := range n.children {
			Walk(c, fn)
		}
	case *Concurrent:
		for _, c := range n.children {
			Walk(c, fn)
		}
	case *Branch:
		Walk(n.then, fn)
		if n.elseNode != nil {
			Walk(n.elseNode, fn)
		}
	case *Hydrated:
		Walk(n.child, fn)
	}
}

// Count returns the number of nodes of each kind under node.
func Count(node Node) map[Kind]int {
	counts := make(map[Kind]int)
	Walk(node, func(n Node) bool {
		counts[n.Kind()]++
		return true
	})
	return counts
}

// Skills returns the skill leaves under node in pre-order, including
// repeats.
func Skills(node Node) []*Skill {
	var out []*Skill
	Walk(node, func(n Node) bool {
		if s, ok := n.(*Skill); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}
