package lang

import (
	"github.com/expr-lang/expr/ast"
)

// placeholderName is the reserved identifier used to mark clause positions
// inside an assembled block expression. The double underscores keep it out of
// the namespace of any reasonable template environment.
const placeholderName = "__eex__"

// slots is the placeholder table for one block under construction. Each bound
// clause receives a monotonically increasing integer key starting at zero,
// and the key order matches clause order within the block.
//
// A fresh table is created for every block activation; tables are never
// shared between sibling or nested blocks.
type slots struct {
	nodes []ast.Node
}

// newSlots returns an empty placeholder table.
func newSlots() *slots {
	return &slots{}
}

// bind stores a clause node and returns the key it was bound under.
func (s *slots) bind(node ast.Node) int {
	s.nodes = append(s.nodes, node)

	return len(s.nodes) - 1
}

// lookup returns the node bound under key, or false when the key was never
// bound. A miss here indicates corruption of the compiler's own bookkeeping,
// not a malformed template.
func (s *slots) lookup(key int) (ast.Node, bool) {
	if key < 0 || key >= len(s.nodes) {
		return nil, false
	}

	return s.nodes[key], true
}

// count returns the number of bound clauses.
func (s *slots) count() int { return len(s.nodes) }
