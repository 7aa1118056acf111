package lang

import (
	"strconv"
	"strings"
)

// state is the per-block bookkeeping threaded through the driver. It is
// passed and returned by value; only the placeholder table is shared, and
// only within the block activation that created it.
type state struct {
	slots *slots
	line  int      // line of the last source woven into the block
	start Position // where the block's composite fragment is anchored
}

// placeholder renders the sentinel expression for a bound clause key. The
// leading space separates it from whatever bracket the preceding clause
// fragment ended with.
func placeholder(key int) string {
	return " " + placeholderName + "(" + strconv.Itoa(key) + ")"
}

// wrap closes the current clause: it finalizes the clause accumulator into
// the placeholder table, then extends the block's raw source with the
// placeholder standing in for that value, enough newlines to keep later
// fragments on their original lines, and the trailing tag content.
func (c *compiler) wrap(
	current string,
	line int,
	acc any,
	trailing string,
	st state,
) (string, state) {
	key := st.slots.bind(c.cfg.engine.EndClause(acc))

	count := max(line-st.line, 0)
	st.line = line

	return current + placeholder(key) + strings.Repeat("\n", count) + trailing, st
}

// lookAheadMiddle inspects the tokens following a block-open tag. When the
// only content before the next plain continuation tag is whitespace, it
// consumes through that tag and returns the folded whitespace, so templates
// can visually align a continuation without producing blank output.
//
// Any other content, or a continuation carrying an output marker, aborts the
// merge and leaves the token list untouched.
func lookAheadMiddle(toks []Token) (rest []Token, middle Token, merged string, ok bool) {
	var ws strings.Builder

	for i, tok := range toks {
		switch {
		case tok.IsWhitespace():
			ws.WriteString(tok.Chars)

		case tok.Kind == KindMiddle && tok.Marker == "":
			return toks[i+1:], tok, ws.String(), true

		default:
			return nil, Token{}, "", false
		}
	}

	return nil, Token{}, "", false
}
