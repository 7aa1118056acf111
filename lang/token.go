package lang

import "strconv"

// NoFile is the placeholder name used in positioned error messages when the
// template did not come from a named file.
const NoFile = "template"

// Position locates a token or error within template source.
// Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Kind identifies the variant of a template token.
type Kind int

const (
	// KindText is a run of literal template text.
	KindText Kind = iota

	// KindExpr is a single embedded expression tag.
	KindExpr

	// KindStart is a tag that opens a block (content ends with "{").
	KindStart

	// KindMiddle is a tag that continues a block (content starts with "}"
	// and ends with "{").
	KindMiddle

	// KindEnd is a tag that closes a block (content starts with "}").
	KindEnd

	// KindEOF marks the end of the token stream.
	KindEOF
)

// String returns a string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindExpr:
		return "Expr"
	case KindStart:
		return "Start"
	case KindMiddle:
		return "Middle"
	case KindEnd:
		return "End"
	case KindEOF:
		return "EOF"
	default:
		return "Unknown"
	}
}

// Token is one element of a tokenized template. Tokens are immutable once
// produced by the tokenizer.
//
// For tag tokens, Pos is the position of the opening "<%" delimiter and
// Chars holds the raw content between the delimiters, whitespace included.
// For text tokens, Chars is the literal text and Marker is empty.
type Token struct {
	Kind   Kind
	Marker string // "" or "=" for tag tokens
	Chars  string
	Pos    Position
}

// IsWhitespace reports whether the token is a text run consisting solely of
// whitespace characters.
func (t Token) IsWhitespace() bool {
	if t.Kind != KindText {
		return false
	}

	for _, r := range t.Chars {
		switch r {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}

	return true
}

// Tag reconstructs the source form of a tag token for error messages.
func (t Token) Tag() string {
	switch t.Kind {
	case KindText:
		return t.Chars
	case KindEOF:
		return "end of template"
	default:
		return "<%" + t.Marker + t.Chars + "%>"
	}
}
