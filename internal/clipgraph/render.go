package clipgraph

import (
	"fmt"
	"io"
	"strings"
)

// Render writes the graph rooted at n as an indented tree. Nodes reachable
// through more than one path are printed once and referenced by number
// afterwards.
func Render(w io.Writer, n *Node) error {
	r := &renderer{w: w, ids: make(map[*Node]int)}
	r.visit(n, 0)
	return r.err
}

// String renders n to a string.
func (n *Node) String() string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

type renderer struct {
	w   io.Writer
	ids map[*Node]int
	err error
}

func (r *renderer) visit(n *Node, depth int) {
	if r.err != nil || n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	if id, seen := r.ids[n]; seen {
		r.printf("%s#%d (see above)\n", indent, id)
		return
	}
	id := len(r.ids) + 1
	r.ids[n] = id
	r.printf("%s#%d %s(%s) len=%d\n", indent, id, n.op, strings.Join(n.args, ", "), n.length)
	for _, input := range n.inputs {
		r.visit(input, depth+1)
	}
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Walk calls fn once for every node reachable from n, starting with n.
func Walk(n *Node, fn func(*Node)) {
	seen := make(map[*Node]struct{})
	var visit func(*Node)
	visit = func(node *Node) {
		if node == nil {
			return
		}
		if _, ok := seen[node]; ok {
			return
		}
		seen[node] = struct{}{}
		fn(node)
		for _, input := range node.inputs {
			visit(input)
		}
	}
	visit(n)
}

// Find returns every node reachable from n whose op matches.
func Find(n *Node, op string) []*Node {
	var out []*Node
	Walk(n, func(node *Node) {
		if node.op == op {
			out = append(out, node)
		}
	})
	return out
}
