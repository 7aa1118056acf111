// Package lang compiles embedded-expression templates into a single host
// expression tree and renders it with expr-lang.
//
// # Template syntax
//
// A template is literal text interleaved with tags:
//
//	<%= expr %>   expression whose value becomes output
//	<% expr %>    expression evaluated for its value, which is discarded
//	<%# text %>   comment
//	<%%           literal "<%"
//
// All expression semantics belong to expr-lang; the compiler never
// interprets tag content. Control flow uses the host language's own
// bracketed forms split across tags, with each fragment classified by its
// bracket shape alone:
//
//	Hello <%= name %>!
//	<%= ok ? ( %>granted<% ) : ( %>denied<% ) %>
//	<%= map(items, { %>- <%= # %>
//	<% }) | join("") %>
//
// A tag ending in an opening bracket opens a block, a tag starting with a
// closing bracket continues or closes one, and everything between becomes
// that clause's body.
//
// # Compilation
//
// [Compile] tokenizes the source and walks the token stream once,
// delegating rendering decisions to a pluggable [Engine] (default:
// [Build], which folds everything into one string concatenation).
// Each block is assembled as a single composite expression: clause bodies
// are compiled independently, bound in a placeholder table, and stitched
// back into the parsed composite tree, so the host parser sees every
// control-flow construct as one syntactically complete unit.
//
// # Rendering
//
// [Template.Render] prints the compiled tree back to host source, compiles
// it with expr (cached process-wide by content hash), and runs it against
// the built-in environment overlaid with caller data:
//
//	t, err := lang.Compile(ctx, "Hello <%= name %>!")
//	out, err := t.Render(ctx, map[string]any{"name": "World"})
//	// out == "Hello World!"
//
// Builtins include env(), file.*, path.*, mung.*, platform, hostname, and
// cwd; render data shadows any builtin of the same name.
package lang
