package lang

import (
	"context"
	"log/slog"
	"slices"

	"github.com/expr-lang/expr/ast"

	"github.com/vtm9/eex/log"
)

// settings holds the effective compile configuration.
type settings struct {
	engine      Engine
	logger      log.Logger
	file        string
	startLine   int
	indentation int
	trim        bool
}

// Option applies a configuration option to compile settings.
type Option func(settings) settings

// makeSettings builds settings from defaults overridden by opts.
func makeSettings(opts ...Option) settings {
	cfg := settings{
		engine:    Build{},
		file:      NoFile,
		startLine: 1,
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// WithEngine selects the rendering engine. The default is [Build].
func WithEngine(engine Engine) Option {
	return func(cfg settings) settings {
		cfg.engine = engine

		return cfg
	}
}

// WithFile sets the file name reported in positions and errors.
func WithFile(file string) Option {
	return func(cfg settings) settings {
		cfg.file = file

		return cfg
	}
}

// WithStartLine sets the line number of the first source line. Useful when
// the template is embedded inside a larger document.
func WithStartLine(line int) Option {
	return func(cfg settings) settings {
		cfg.startLine = line

		return cfg
	}
}

// WithIndentation offsets the columns reported for the first source line.
func WithIndentation(columns int) Option {
	return func(cfg settings) settings {
		cfg.indentation = columns

		return cfg
	}
}

// WithTrim removes the indentation before, and the line break after, tags
// that sit alone on a line.
func WithTrim(enable bool) Option {
	return func(cfg settings) settings {
		cfg.trim = enable

		return cfg
	}
}

// WithLogger sets the logger used for compile diagnostics. The zero value
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(cfg settings) settings {
		cfg.logger = logger

		return cfg
	}
}

// Template is the result of a successful compilation: a single host
// expression tree that evaluates to the rendered output.
type Template struct {
	// Node is the compiled expression tree.
	Node ast.Node

	file string
}

// File returns the file name the template was compiled under.
func (t *Template) File() string { return t.file }

// Source renders the compiled tree back to host source text.
func (t *Template) Source() string { return nodeSource(t.Node) }

// Compile tokenizes source and assembles the token stream into a single
// expression tree using the configured engine.
func Compile(ctx context.Context, source string, opts ...Option) (*Template, error) {
	cfg := makeSettings(opts...)

	toks, err := tokenize(source, cfg)
	if err != nil {
		return nil, err
	}

	return compileTokens(ctx, toks, cfg)
}

// CompileTokens assembles an already-tokenized template. The stream must be
// terminated by an EOF token, as produced by [Tokenize].
func CompileTokens(ctx context.Context, toks []Token, opts ...Option) (*Template, error) {
	return compileTokens(ctx, toks, makeSettings(opts...))
}

func compileTokens(ctx context.Context, toks []Token, cfg settings) (*Template, error) {
	c := &compiler{cfg: cfg}

	node, _, err := c.generate(ctx, toks, cfg.engine.Init(), nil, state{
		slots: newSlots(),
		line:  cfg.startLine,
	})
	if err != nil {
		return nil, err
	}

	return &Template{Node: node, file: cfg.file}, nil
}

// compiler drives one compilation. It holds no mutable state of its own; all
// per-activation state travels through generate's arguments and returns.
type compiler struct {
	cfg settings
}

// generate consumes tokens in order, folding each into the accumulator via
// the engine. scope holds the raw source of every open enclosing block,
// innermost last. At a block close it returns the spliced block tree plus
// the unconsumed tokens; at EOF it returns the finished top-level tree.
func (c *compiler) generate(
	ctx context.Context,
	toks []Token,
	acc any,
	scope []string,
	st state,
) (ast.Node, []Token, error) {
	for len(toks) > 0 {
		tok := toks[0]
		toks = toks[1:]

		switch tok.Kind {
		case KindText:
			acc = c.cfg.engine.HandleText(acc, tok.Pos, tok.Chars)

		case KindExpr:
			node, err := parseFragment(c.cfg.file, tok.Chars, Position{
				Line:   tok.Pos.Line,
				Column: tagColumn(tok.Pos, tok.Marker),
			})
			if err != nil {
				return nil, nil, err
			}

			acc = c.cfg.engine.HandleExpr(acc, tok.Marker, node)

		case KindStart:
			node, rest, err := c.generateBlock(ctx, toks, tok, acc, scope)
			if err != nil {
				return nil, nil, err
			}

			acc = c.cfg.engine.HandleExpr(acc, tok.Marker, node)
			toks = rest

		case KindMiddle:
			if tok.Marker != "" || len(scope) == 0 {
				return nil, nil, ErrBadClause.
					WithPosition(c.cfg.file, tok.Pos).
					With(slog.String("tag", tok.Tag()))
			}

			scope[len(scope)-1], st = c.wrap(
				scope[len(scope)-1], tok.Pos.Line, acc, tok.Chars, st,
			)
			acc = c.cfg.engine.BeginBlock(acc)

		case KindEnd:
			if tok.Marker != "" || len(scope) == 0 {
				return nil, nil, ErrBadClose.
					WithPosition(c.cfg.file, tok.Pos).
					With(slog.String("tag", tok.Tag()))
			}

			composite, done := c.wrap(
				scope[len(scope)-1], tok.Pos.Line, acc, tok.Chars, st,
			)

			node, err := c.closeBlock(ctx, composite, done)
			if err != nil {
				return nil, nil, err
			}

			return node, toks, nil

		case KindEOF:
			if len(scope) > 0 {
				return nil, nil, ErrUnterminated.
					WithPosition(c.cfg.file, tok.Pos)
			}

			return c.cfg.engine.Finish(acc), toks, nil
		}
	}

	// Tokenize always appends EOF, so a stream that runs dry was assembled
	// by hand incorrectly. Treat it like EOF at an unknown position.
	if len(scope) > 0 {
		return nil, nil, ErrUnterminated.WithPosition(c.cfg.file, Position{})
	}

	return c.cfg.engine.Finish(acc), nil, nil
}

// generateBlock compiles one block: it opens a fresh placeholder table and
// clause accumulator, optionally folds whitespace between the open tag and
// an immediately following continuation, and recurses until the matching
// close tag returns the assembled tree.
func (c *compiler) generateBlock(
	ctx context.Context,
	toks []Token,
	open Token,
	acc any,
	scope []string,
) (ast.Node, []Token, error) {
	if open.Marker == "" {
		c.cfg.logger.WarnContext(ctx,
			"block result will be discarded, open the block with <%= to keep it",
			slog.String("tag", open.Tag()),
			slog.String("position", open.Pos.String()),
		)
	}

	st := state{
		slots: newSlots(),
		line:  open.Pos.Line,
		start: Position{
			Line:   open.Pos.Line,
			Column: tagColumn(open.Pos, open.Marker),
		},
	}

	source := open.Chars
	nested := c.cfg.engine.BeginBlock(acc)

	if rest, middle, merged, ok := lookAheadMiddle(toks); ok {
		// The first clause holds nothing but the merged whitespace. Its
		// placeholder is still bound, with the clause's empty value, so the
		// composite keeps a well-formed body between the brackets. The
		// whitespace itself is woven into the raw source and never reaches
		// the engine.
		key := st.slots.bind(c.cfg.engine.EndClause(nested))
		source += placeholder(key) + merged + middle.Chars
		st.line = middle.Pos.Line
		nested = c.cfg.engine.BeginBlock(acc)
		toks = rest

		c.cfg.logger.TraceContext(ctx, "merged clause whitespace",
			slog.Int("key", key),
			slog.String("position", middle.Pos.String()),
		)
	}

	return c.generate(ctx, toks, nested, append(slices.Clone(scope), source), st)
}

// closeBlock parses the assembled composite source as one unit, anchored at
// the block's opening tag, and splices every bound clause into the tree.
func (c *compiler) closeBlock(
	ctx context.Context,
	composite string,
	st state,
) (ast.Node, error) {
	c.cfg.logger.TraceContext(ctx, "close block",
		slog.String("position", st.start.String()),
		slog.Int("clauses", st.slots.count()),
	)

	node, err := parseFragment(c.cfg.file, composite, st.start)
	if err != nil {
		return nil, err
	}

	return splice(node, st.slots, c.cfg.logger)
}
