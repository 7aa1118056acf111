package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Render Tests
// ============================================================================

// TestRender_Basic verifies end-to-end rendering of common template shapes.
func TestRender_Basic(t *testing.T) {
	tests := []struct {
		name   string
		source string
		data   map[string]any
		want   string
	}{
		{
			name:   "text only",
			source: "hello",
			want:   "hello",
		},
		{
			name:   "output expression",
			source: "Hello <%= name %>!",
			data:   map[string]any{"name": "world"},
			want:   "Hello world!",
		},
		{
			name:   "numeric value through string builtin",
			source: "<%= 2 + 3 %>",
			want:   "5",
		},
		{
			name:   "discard tag produces nothing",
			source: "a<% 40 + 2 %>b",
			want:   "ab",
		},
		{
			name:   "escape sequence",
			source: "literal <%% tag",
			want:   "literal <% tag",
		},
		{
			name:   "comment",
			source: "a<%# note to self %>b",
			want:   "ab",
		},
		{
			name:   "ternary block true",
			source: "<%= ok ? ( %>granted<% ) : ( %>denied<% ) %>",
			data:   map[string]any{"ok": true},
			want:   "granted",
		},
		{
			name:   "ternary block false",
			source: "<%= ok ? ( %>granted<% ) : ( %>denied<% ) %>",
			data:   map[string]any{"ok": false},
			want:   "denied",
		},
		{
			name:   "expression inside a clause",
			source: "<%= ok ? ( %>hi <%= name %><% ) : ( %>bye<% ) %>",
			data:   map[string]any{"ok": true, "name": "ada"},
			want:   "hi ada",
		},
		{
			name:   "nested blocks",
			source: "<%= a ? ( %>A<%= b ? ( %>B<% ) : ( %>C<% ) %><% ) : ( %>D<% ) %>",
			data:   map[string]any{"a": true, "b": false},
			want:   "AC",
		},
		{
			name:   "map literal is not a block",
			source: "<%= {a: 1}.a %>",
			want:   "1",
		},
		{
			name:   "host builtins available",
			source: "<%= upper(join(items, \"-\")) %>",
			data:   map[string]any{"items": []string{"a", "b"}},
			want:   "A-B",
		},
		{
			name:   "merged clause whitespace stays out of output",
			source: "<%= ok ? ( %>\n  <% ) : ( %>fallback<% ) %>",
			data:   map[string]any{"ok": true},
			want:   "",
		},
		{
			name:   "merged clause whitespace false branch",
			source: "<%= ok ? ( %>\n  <% ) : ( %>fallback<% ) %>",
			data:   map[string]any{"ok": false},
			want:   "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(context.Background(), tt.source, tt.data)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRender_Trim verifies block scaffolding on standalone lines leaves no
// blank lines in the output.
func TestRender_Trim(t *testing.T) {
	source := "before\n<%= ok ? ( %>\nyes\n<% ) : ( %>\nno\n<% ) %>\nafter\n"

	got, err := Render(context.Background(), source,
		map[string]any{"ok": true},
		WithTrim(true),
	)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Both clause bodies are compiled; only the taken branch renders.
	if want := "before\nyes\nafter\n"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// TestRender_DataShadowsBuiltins verifies render data takes precedence over
// the built-in environment.
func TestRender_DataShadowsBuiltins(t *testing.T) {
	got, err := Render(context.Background(), "<%= platform %>",
		map[string]any{"platform": "testing"},
	)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got != "testing" {
		t.Errorf("Render() = %q, want %q", got, "testing")
	}
}

// TestRender_Builtins verifies the built-in environment is reachable from
// templates.
func TestRender_Builtins(t *testing.T) {
	got, err := Render(context.Background(),
		`<%= path.join("a", "b") %>`, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if !strings.Contains(got, "a") || !strings.Contains(got, "b") {
		t.Errorf("Render() = %q, want joined path of a and b", got)
	}
}

// TestRender_UndefinedVariable verifies undefined names evaluate to nil
// instead of failing the render.
func TestRender_UndefinedVariable(t *testing.T) {
	if _, err := Render(context.Background(), "[<%= missing ?? \"\" %>]", nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got, err := Render(context.Background(), "[<%= missing ?? \"x\" %>]", nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if got != "[x]" {
		t.Errorf("Render() = %q, want %q", got, "[x]")
	}
}

// TestRender_EvaluateError verifies runtime evaluation failures surface as
// ErrExprEvaluate.
func TestRender_EvaluateError(t *testing.T) {
	_, err := Render(context.Background(), "<%= 1 / 0 %>", nil)
	if !errors.Is(err, ErrExprEvaluate) {
		t.Fatalf("error = %v, want ErrExprEvaluate", err)
	}
}

// TestRender_CacheReuse verifies a template renders identically after the
// program cache is cleared.
func TestRender_CacheReuse(t *testing.T) {
	tmpl, err := Compile(context.Background(), "v=<%= n %>")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	first, err := tmpl.Render(context.Background(), map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	ClearCache()

	second, err := tmpl.Render(context.Background(), map[string]any{"n": 1})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if first != second {
		t.Errorf("render differs across cache clear: %q vs %q", first, second)
	}
}

// TestRenderReader verifies the buffered reader entry point.
func TestRenderReader(t *testing.T) {
	got, err := RenderReader(context.Background(),
		strings.NewReader("Hello <%= name %>!"),
		map[string]any{"name": "reader"},
	)
	if err != nil {
		t.Fatalf("RenderReader() error = %v", err)
	}

	if got != "Hello reader!" {
		t.Errorf("RenderReader() = %q, want %q", got, "Hello reader!")
	}
}

// Benchmarks
// ============================================================================

func BenchmarkCompile(b *testing.B) {
	source := "a<%= ok ? ( %>b<%= name %><% ) : ( %>c<% ) %>d"
	ctx := context.Background()

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := Compile(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	ctx := context.Background()

	tmpl, err := Compile(ctx, "a<%= ok ? ( %>b<%= name %><% ) : ( %>c<% ) %>d")
	if err != nil {
		b.Fatal(err)
	}

	data := map[string]any{"ok": true, "name": "x"}

	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := tmpl.Render(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}
