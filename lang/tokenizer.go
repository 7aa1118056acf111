package lang

import (
	"log/slog"
	"strings"
)

// Tokenize splits template source into a flat token stream: literal text
// runs interleaved with tag tokens, terminated by a single EOF token.
//
// Tag forms:
//
//	<%= expr %>   expression whose value becomes output
//	<% expr %>    expression whose value is discarded
//	<%# text %>   comment, produces no token
//	<%%           literal "<%" in the surrounding text
//
// Block structure rides on the expression content itself: a tag ending in an
// opening bracket ("{" or "(") opens a block, a tag starting with a closing
// bracket continues or closes one. Classification is purely lexical; the
// content is never interpreted here.
func Tokenize(source string, opts ...Option) ([]Token, error) {
	cfg := makeSettings(opts...)

	return tokenize(source, cfg)
}

func tokenize(source string, cfg settings) ([]Token, error) {
	sc := scanner{
		src:  source,
		line: cfg.startLine,
		col:  1 + cfg.indentation,
	}

	var toks []Token

	for {
		tok, done, err := sc.next(cfg.file)
		if err != nil {
			return nil, err
		}

		if tok != nil {
			toks = append(toks, *tok)
		}

		if done {
			break
		}
	}

	if cfg.trim {
		toks = trimWhitespace(toks)
	}

	return toks, nil
}

// scanner is the tokenizer's cursor state.
type scanner struct {
	src  string
	off  int
	line int
	col  int
}

// pos returns the scanner's current source position.
func (s *scanner) pos() Position {
	return Position{Line: s.line, Column: s.col}
}

// advance moves the cursor past n bytes, updating line and column. Template
// delimiters are ASCII, so byte-wise column counting matches what editors
// report for the characters the compiler ever points at.
func (s *scanner) advance(n int) {
	for _, c := range []byte(s.src[s.off : s.off+n]) {
		if c == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}

	s.off += n
}

// next produces the next token, a nil token for comments, or done on EOF.
func (s *scanner) next(file string) (*Token, bool, error) {
	if s.off >= len(s.src) {
		return &Token{Kind: KindEOF, Pos: s.pos()}, true, nil
	}

	open := strings.Index(s.src[s.off:], "<%")
	if open != 0 {
		return s.text(open), false, nil
	}

	// "<%%" escapes a literal "<%"
	if strings.HasPrefix(s.src[s.off:], "<%%") {
		tok := &Token{Kind: KindText, Chars: "<%", Pos: s.pos()}
		s.advance(len("<%%"))

		return tok, false, nil
	}

	return s.tag(file)
}

// text consumes a literal run up to the next tag (or end of source when
// open < 0).
func (s *scanner) text(open int) *Token {
	end := len(s.src)
	if open >= 0 {
		end = s.off + open
	}

	tok := &Token{Kind: KindText, Chars: s.src[s.off:end], Pos: s.pos()}
	s.advance(end - s.off)

	return tok
}

// tag consumes one "<% ... %>" tag starting at the cursor.
func (s *scanner) tag(file string) (*Token, bool, error) {
	start := s.pos()

	close := strings.Index(s.src[s.off:], "%>")
	if close < 0 {
		return nil, false, ErrMissingClose.
			WithPosition(file, start).
			With(slog.String("tag", firstLine(s.src[s.off:])))
	}

	inner := s.src[s.off+len("<%") : s.off+close]
	s.advance(close + len("%>"))

	// Comments vanish entirely; line tracking already advanced past them.
	if strings.HasPrefix(inner, "#") {
		return nil, false, nil
	}

	marker := ""
	if strings.HasPrefix(inner, "=") {
		marker = "="
		inner = inner[len("="):]
	}

	return &Token{
		Kind:   classify(inner),
		Marker: marker,
		Chars:  inner,
		Pos:    start,
	}, false, nil
}

// classify determines a tag's block role from its bracket shape. Content
// ending in an opening bracket opens a block; content starting with a
// closing bracket continues or closes one. Complete bracket pairs inside the
// content (map literals, closures, grouping parens) fall through to a plain
// expression.
func classify(chars string) Kind {
	trimmed := strings.TrimSpace(chars)
	if trimmed == "" {
		return KindExpr
	}

	opens := strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, "(")
	closes := strings.HasPrefix(trimmed, "}") || strings.HasPrefix(trimmed, ")")

	switch {
	case closes && opens:
		return KindMiddle
	case closes:
		return KindEnd
	case opens:
		return KindStart
	default:
		return KindExpr
	}
}

// firstLine truncates s at its first newline for inclusion in an error.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}

	return s
}

// trimWhitespace removes the indentation before, and the newline after,
// every tag that sits alone on its line. Output-marked expression tags keep
// their surroundings: trimming them would eat meaningful whitespace around
// rendered values.
func trimWhitespace(toks []Token) []Token {
	out := make([]Token, 0, len(toks))

	for i, tok := range toks {
		if tok.Kind == KindText {
			out = append(out, tok)

			continue
		}

		if tok.Kind == KindEOF || tok.Marker == "=" && tok.Kind == KindExpr {
			out = append(out, tok)

			continue
		}

		atLineStart := len(out) == 0
		if n := len(out); n > 0 && out[n-1].Kind == KindText {
			trimmed := strings.TrimRight(out[n-1].Chars, " \t")
			if trimmed == "" || strings.HasSuffix(trimmed, "\n") {
				atLineStart = true
			}
		}

		if !atLineStart {
			out = append(out, tok)

			continue
		}

		rest, atLineEnd := eatLineBreak(toks, i+1)
		if !atLineEnd {
			out = append(out, tok)

			continue
		}

		// Tag is alone on its line: drop the indentation kept before it and
		// the trailing line break after it.
		if n := len(out); n > 0 && out[n-1].Kind == KindText {
			out[n-1].Chars = strings.TrimRight(out[n-1].Chars, " \t")
			if out[n-1].Chars == "" {
				out = out[:n-1]
			}
		}

		out = append(out, tok)

		if rest >= 0 {
			toks[rest].Chars = stripLeadingBreak(toks[rest].Chars)
		}
	}

	return out
}

// eatLineBreak reports whether the token at index i starts with (optional
// horizontal whitespace and) a line break or EOF, returning the index whose
// leading break should be stripped, or -1.
func eatLineBreak(toks []Token, i int) (int, bool) {
	if i >= len(toks) || toks[i].Kind == KindEOF {
		return -1, true
	}

	if toks[i].Kind != KindText {
		return -1, false
	}

	trimmed := strings.TrimLeft(toks[i].Chars, " \t")
	if trimmed == toks[i].Chars && !strings.HasPrefix(trimmed, "\n") &&
		!strings.HasPrefix(trimmed, "\r\n") {
		return -1, false
	}

	if strings.HasPrefix(trimmed, "\n") || strings.HasPrefix(trimmed, "\r\n") {
		return i, true
	}

	return -1, false
}

// stripLeadingBreak removes leading horizontal whitespace and one line break.
func stripLeadingBreak(s string) string {
	s = strings.TrimLeft(s, " \t")
	s = strings.TrimPrefix(s, "\r\n")

	if strings.HasPrefix(s, "\n") {
		s = s[len("\n"):]
	}

	return s
}
