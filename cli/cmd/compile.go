package cmd

import (
	"context"
	"fmt"

	"github.com/vtm9/eex/lang"
	"github.com/vtm9/eex/log"
)

// Compile compiles a template and prints the host expression it produced,
// without rendering it.
type Compile struct {
	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" name:"template" optional:""`
	Trim     bool   `                   help:"Trim whitespace around standalone tags"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) error {
	in, name, err := openTemplate(c.Template)
	if err != nil {
		return err
	}
	defer in.Close()

	t, err := lang.CompileReader(ctx, in,
		lang.WithFile(name),
		lang.WithTrim(c.Trim),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	fmt.Println(t.Source())

	return nil
}
