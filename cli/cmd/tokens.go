package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/vtm9/eex/lang"
)

// Tokens prints a template's token stream, one token per line. Useful for
// debugging block classification and trim behavior.
type Tokens struct {
	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template" optional:""`
	Trim     bool   `                   help:"Trim whitespace around standalone tags"`
}

// Run executes the tokens command.
func (t *Tokens) Run(_ context.Context) error {
	in, name, err := openTemplate(t.Template)
	if err != nil {
		return err
	}
	defer in.Close()

	source, err := io.ReadAll(in)
	if err != nil {
		return ErrReadTemplate.Wrap(err)
	}

	toks, err := lang.Tokenize(string(source),
		lang.WithFile(name),
		lang.WithTrim(t.Trim),
	)
	if err != nil {
		return err
	}

	for _, tok := range toks {
		fmt.Printf("%s\t%-6s\t%q\n", tok.Pos, tok.Kind, tok.Marker+tok.Chars)
	}

	return nil
}
