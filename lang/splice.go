package lang

import (
	"log/slog"

	"github.com/expr-lang/expr/ast"

	"github.com/vtm9/eex/log"
)

// slotSplicer replaces placeholder calls in a parsed block expression with
// the clause nodes bound in the placeholder table.
//
// Placeholders appear in source as "__eex__(K)" where K is an integer
// literal, so in the parsed tree they are CallNodes whose callee is the
// reserved identifier. Every other node is left untouched; in particular a
// user-defined function that merely contains underscores is never matched,
// because the callee name comparison is exact.
type slotSplicer struct {
	table  *slots
	err    *Error
	logger log.Logger
}

// Visit implements ast.Visitor for slotSplicer.
func (s *slotSplicer) Visit(node *ast.Node) {
	if s.err != nil {
		return
	}

	call, ok := (*node).(*ast.CallNode)
	if !ok {
		return
	}

	callee, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || callee.Value != placeholderName {
		return
	}

	key, ok := placeholderKey(call)
	if !ok {
		s.err = ErrSlotUnbound.With(
			slog.String("issue", "malformed placeholder call"),
		)

		return
	}

	value, ok := s.table.lookup(key)
	if !ok {
		s.err = ErrSlotUnbound.With(
			slog.Int("key", key),
			slog.Int("bound", s.table.count()),
		)

		return
	}

	ast.Patch(node, value)

	s.logger.Trace("splice placeholder", slog.Int("key", key))
}

// placeholderKey extracts the integer key from a placeholder call node.
func placeholderKey(call *ast.CallNode) (int, bool) {
	if len(call.Arguments) != 1 {
		return 0, false
	}

	lit, ok := call.Arguments[0].(*ast.IntegerNode)
	if !ok {
		return 0, false
	}

	return lit.Value, true
}

// splice walks the parsed block expression and patches every placeholder
// with its bound clause. Returns an internal invariant error when a
// placeholder references a key the table never bound.
func splice(node ast.Node, table *slots, logger log.Logger) (ast.Node, error) {
	splicer := &slotSplicer{table: table, logger: logger}

	ast.Walk(&node, splicer)

	if splicer.err != nil {
		return nil, splicer.err
	}

	return node, nil
}
