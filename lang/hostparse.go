package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// parseFragment hands a source fragment to the host expression parser,
// anchored at the fragment's position in the template.
//
// The parser has no notion of an external anchor, so the fragment is padded
// with pos.Line-1 newlines and pos.Column-1 spaces before parsing. Error
// positions the parser reports then line up with the template source, and
// the padding itself never changes the parsed tree.
func parseFragment(file, fragment string, pos Position) (ast.Node, error) {
	padded := fragment
	if pos.Line > 1 || pos.Column > 1 {
		var pad strings.Builder

		if pos.Line > 1 {
			pad.WriteString(strings.Repeat("\n", pos.Line-1))
		}

		if pos.Column > 1 {
			pad.WriteString(strings.Repeat(" ", pos.Column-1))
		}

		pad.WriteString(fragment)
		padded = pad.String()
	}

	tree, err := parser.Parse(padded)
	if err != nil {
		return nil, ErrHostParse.Wrap(err).
			WithPosition(file, pos).
			With(slog.String("fragment", strings.TrimSpace(fragment)))
	}

	return tree.Node, nil
}

// nodeSource renders a parsed node back to host source text.
func nodeSource(node ast.Node) string {
	return fmt.Sprintf("%v", node)
}

// tagColumn returns the column of the first expression character inside a
// tag: past the two-character open delimiter and the marker.
func tagColumn(pos Position, marker string) int {
	return pos.Column + len("<%") + len(marker)
}
