package lang

import (
	"github.com/expr-lang/expr/ast"
)

// Engine turns the compiler's stream of text runs, expressions, and block
// boundaries into a final expression tree. The compiler never inspects the
// accumulator it threads through an engine; it only passes values between
// these six operations, so any conforming implementation may be substituted.
//
// Accumulators are treated as immutable: each operation returns the value to
// use from that point on, and the compiler retains earlier values across
// nested block compilations.
type Engine interface {
	// Init returns the accumulator for an empty compilation.
	Init() any

	// HandleText folds a literal text run into the accumulator.
	HandleText(acc any, pos Position, text string) any

	// HandleExpr folds a parsed expression into the accumulator. An "="
	// marker means the expression's value becomes output; an empty marker
	// means the value is discarded.
	HandleExpr(acc any, marker string, node ast.Node) any

	// BeginBlock returns a fresh accumulator for a nested clause. The
	// caller retains acc and resumes it after the block closes.
	BeginBlock(acc any) any

	// EndClause finalizes a clause accumulator into a node that can stand
	// in for the clause inside its enclosing block expression.
	EndClause(acc any) ast.Node

	// Finish finalizes the top-level accumulator into the compiled tree.
	Finish(acc any) ast.Node
}

// Build is the default engine. It collects string-typed parts and folds them
// into a single concatenation chain: text runs become string literals,
// output-marked expressions are passed through the host string() builtin,
// and unmarked expressions are dropped (the host language has no side
// effects, so evaluating and discarding is equivalent to not evaluating).
type Build struct{}

// parts is the Build accumulator: the string-typed fragments collected so
// far for the current clause, in output order.
type parts []ast.Node

// Init implements Engine.
func (Build) Init() any { return parts(nil) }

// HandleText implements Engine.
func (Build) HandleText(acc any, _ Position, text string) any {
	buf, _ := acc.(parts)

	return append(buf, &ast.StringNode{Value: text})
}

// HandleExpr implements Engine.
func (b Build) HandleExpr(acc any, marker string, node ast.Node) any {
	buf, _ := acc.(parts)

	if marker != "=" {
		return buf
	}

	return append(buf, stringify(node))
}

// BeginBlock implements Engine.
func (Build) BeginBlock(any) any { return parts(nil) }

// EndClause implements Engine.
func (b Build) EndClause(acc any) ast.Node {
	buf, _ := acc.(parts)

	return concat(buf)
}

// Finish implements Engine.
func (b Build) Finish(acc any) ast.Node {
	buf, _ := acc.(parts)

	return concat(buf)
}

// stringify wraps a node in the host string() builtin unless it is already a
// string literal.
func stringify(node ast.Node) ast.Node {
	if _, ok := node.(*ast.StringNode); ok {
		return node
	}

	return &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: "string"},
		Arguments: []ast.Node{node},
	}
}

// concat folds collected parts into a left-associated "+" chain. An empty
// clause folds to the empty string.
func concat(buf parts) ast.Node {
	if len(buf) == 0 {
		return &ast.StringNode{Value: ""}
	}

	node := buf[0]
	for _, part := range buf[1:] {
		node = &ast.BinaryNode{
			Operator: "+",
			Left:     node,
			Right:    part,
		}
	}

	return node
}
