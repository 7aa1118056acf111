package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/expr-lang/expr/ast"
)

// Compiler Tests
// ============================================================================

// opLog records every engine operation the compiler performs, in order.
type opLog struct {
	ops     []string
	texts   []string
	markers []string
	clauses int
}

// recorder is an engine that records the driver's calls without building a
// meaningful tree. Clause and finish nodes are inert string literals so block
// composites still parse and splice.
type recorder struct {
	log *opLog
}

func (r recorder) Init() any {
	r.log.ops = append(r.log.ops, "init")

	return nil
}

func (r recorder) HandleText(acc any, _ Position, text string) any {
	r.log.ops = append(r.log.ops, "text")
	r.log.texts = append(r.log.texts, text)

	return acc
}

func (r recorder) HandleExpr(acc any, marker string, _ ast.Node) any {
	r.log.ops = append(r.log.ops, "expr")
	r.log.markers = append(r.log.markers, marker)

	return acc
}

func (r recorder) BeginBlock(any) any {
	r.log.ops = append(r.log.ops, "begin")

	return nil
}

func (r recorder) EndClause(any) ast.Node {
	r.log.ops = append(r.log.ops, "clause")
	r.log.clauses++

	return &ast.StringNode{Value: ""}
}

func (r recorder) Finish(any) ast.Node {
	r.log.ops = append(r.log.ops, "finish")

	return &ast.StringNode{Value: "finished"}
}

// TestCompile_TextOnly verifies a template without tags compiles to a single
// string literal.
func TestCompile_TextOnly(t *testing.T) {
	tmpl, err := Compile(context.Background(), "just text, no tags")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if got, want := tmpl.Source(), `"just text, no tags"`; got != want {
		t.Errorf("Source() = %q, want %q", got, want)
	}
}

// TestCompile_Empty verifies the empty template compiles to the empty string
// literal.
func TestCompile_Empty(t *testing.T) {
	tmpl, err := Compile(context.Background(), "")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if got, want := tmpl.Source(), `""`; got != want {
		t.Errorf("Source() = %q, want %q", got, want)
	}
}

// TestCompile_EngineSequence verifies the exact operation sequence the driver
// performs for a two-clause block surrounded by text.
func TestCompile_EngineSequence(t *testing.T) {
	source := "a<%= ok ? ( %>b<% ) : ( %>c<% ) %>d"
	log := &opLog{}

	_, err := Compile(context.Background(), source, WithEngine(recorder{log: log}))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{
		"init",   // top-level accumulator
		"text",   // "a"
		"begin",  // first clause of the block
		"text",   // "b"
		"clause", // close first clause at the continuation
		"begin",  // second clause
		"text",   // "c"
		"clause", // close second clause at the block end
		"expr",   // spliced block folded into the top level
		"text",   // "d"
		"finish",
	}

	if len(log.ops) != len(want) {
		t.Fatalf("ops = %v, want %v", log.ops, want)
	}

	for i, op := range want {
		if log.ops[i] != op {
			t.Errorf("ops[%d] = %q, want %q", i, log.ops[i], op)
		}
	}

	if log.clauses != 2 {
		t.Errorf("clauses = %d, want 2", log.clauses)
	}

	// The block itself carries the output marker of its opening tag.
	if len(log.markers) != 1 || log.markers[0] != "=" {
		t.Errorf("markers = %v, want [=]", log.markers)
	}
}

// TestCompile_DiscardMarker verifies unmarked expressions reach the engine
// with an empty marker and the default engine drops them.
func TestCompile_DiscardMarker(t *testing.T) {
	tmpl, err := Compile(context.Background(), "a<% 1 + 1 %>b")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	source := tmpl.Source()
	if strings.Contains(source, "1") {
		t.Errorf("Source() = %q, discarded expression leaked into output", source)
	}
}

// TestCompile_BlockComposite verifies a block compiles into a conditional
// with its clause bodies spliced into the branches.
func TestCompile_BlockComposite(t *testing.T) {
	source := "<%= ok ? ( %>granted<% ) : ( %>denied<% ) %>"

	tmpl, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	got := tmpl.Source()

	for _, want := range []string{"ok", "granted", "denied"} {
		if !strings.Contains(got, want) {
			t.Errorf("Source() = %q, missing %q", got, want)
		}
	}

	if strings.Contains(got, placeholderName) {
		t.Errorf("Source() = %q, placeholder leaked into compiled tree", got)
	}
}

// TestCompile_NestedBlocks verifies block state is independent per nesting
// level: inner clause keys restart without disturbing the outer block.
func TestCompile_NestedBlocks(t *testing.T) {
	source := "<%= a ? ( %>A<%= b ? ( %>B<% ) : ( %>C<% ) %><% ) : ( %>D<% ) %>"

	tmpl, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	got := tmpl.Source()

	for _, want := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(got, want) {
			t.Errorf("Source() = %q, missing %q", got, want)
		}
	}

	if strings.Contains(got, placeholderName) {
		t.Errorf("Source() = %q, placeholder leaked into compiled tree", got)
	}
}

// TestCompile_Idempotent verifies compiling the same source twice yields the
// same tree.
func TestCompile_Idempotent(t *testing.T) {
	source := "x<%= ok ? ( %>y<% ) : ( %>z<% ) %>w"

	first, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	second, err := Compile(context.Background(), source)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if first.Source() != second.Source() {
		t.Errorf("Source() differs across compiles:\n%s\n%s",
			first.Source(), second.Source())
	}
}

// TestCompile_WhitespaceMerge verifies whitespace between a block open and
// its continuation folds into the block instead of reaching the engine.
func TestCompile_WhitespaceMerge(t *testing.T) {
	source := "<%= ok ? ( %>\n  <% ) : ( %>fallback<% ) %>"
	log := &opLog{}

	_, err := Compile(context.Background(), source, WithEngine(recorder{log: log}))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	for _, text := range log.texts {
		if strings.TrimSpace(text) == "" {
			t.Errorf("whitespace run %q reached the engine", text)
		}
	}

	// The merged empty clause is still bound, so the block has two clauses.
	if log.clauses != 2 {
		t.Errorf("clauses = %d, want 2", log.clauses)
	}
}

// TestCompile_MergeAbortsOnContent verifies content between a block open and
// a continuation disables the merge.
func TestCompile_MergeAbortsOnContent(t *testing.T) {
	source := "<%= ok ? ( %> yes <% ) : ( %>no<% ) %>"
	log := &opLog{}

	_, err := Compile(context.Background(), source, WithEngine(recorder{log: log}))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	found := false

	for _, text := range log.texts {
		if text == " yes " {
			found = true
		}
	}

	if !found {
		t.Errorf("texts = %v, clause content should reach the engine", log.texts)
	}
}

// TestCompile_Errors verifies structural errors report the right sentinel
// and position.
func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		want     error
		wantLine int
		wantCol  int
	}{
		{
			name:     "continuation outside a block",
			source:   "text<% ) : ( %>",
			want:     ErrBadClause,
			wantLine: 1,
			wantCol:  5,
		},
		{
			name:     "close outside a block",
			source:   "text<% ) %>",
			want:     ErrBadClose,
			wantLine: 1,
			wantCol:  5,
		},
		{
			name:     "marked continuation",
			source:   "<%= ok ? ( %>a<%= ) : ( %>b<% ) %>",
			want:     ErrBadClause,
			wantLine: 1,
			wantCol:  15,
		},
		{
			name:     "marked close",
			source:   "<%= ok ? ( %>a<%= ) %>",
			want:     ErrBadClose,
			wantLine: 1,
			wantCol:  15,
		},
		{
			name:     "unterminated block",
			source:   "<%= ok ? ( %>a\nb",
			want:     ErrUnterminated,
			wantLine: 2,
			wantCol:  2,
		},
		{
			name:     "host parse failure",
			source:   "a\n<%= 1 + %>",
			want:     ErrHostParse,
			wantLine: 2,
			wantCol:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(context.Background(), tt.source)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("error type = %T, want *Error", err)
			}

			pos, ok := cerr.Position()
			if !ok {
				t.Fatal("error carries no position")
			}

			if pos.Line != tt.wantLine || pos.Column != tt.wantCol {
				t.Errorf("position = %v, want %d:%d", pos, tt.wantLine, tt.wantCol)
			}
		})
	}
}

// TestCompileTokens_RunsDry verifies a hand-assembled stream without an EOF
// token still finishes cleanly at the top level.
func TestCompileTokens_RunsDry(t *testing.T) {
	toks := []Token{
		{Kind: KindText, Chars: "hello", Pos: Position{Line: 1, Column: 1}},
	}

	tmpl, err := CompileTokens(context.Background(), toks)
	if err != nil {
		t.Fatalf("CompileTokens() error = %v", err)
	}

	if got, want := tmpl.Source(), `"hello"`; got != want {
		t.Errorf("Source() = %q, want %q", got, want)
	}
}

// TestCompile_File verifies the configured file name is carried through and
// reported in errors.
func TestCompile_File(t *testing.T) {
	tmpl, err := Compile(context.Background(), "ok", WithFile("greeting.eex"))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if tmpl.File() != "greeting.eex" {
		t.Errorf("File() = %q, want %q", tmpl.File(), "greeting.eex")
	}

	_, err = Compile(context.Background(), "<%= 1 + %>", WithFile("broken.eex"))
	if err == nil {
		t.Fatal("Compile() error = nil, want host parse failure")
	}

	if !strings.Contains(err.Error(), "broken.eex") {
		t.Errorf("error = %q, missing file name", err.Error())
	}
}
