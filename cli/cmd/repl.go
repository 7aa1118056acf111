package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vtm9/eex/cli/cmd/repl"
	"github.com/vtm9/eex/log"
	"github.com/vtm9/eex/pkg"
)

// Repl starts the interactive template playground.
type Repl struct {
	Data string   `help:"YAML file with render data"          placeholder:"FILE"      short:"d" type:"existingfile"`
	Set  []string `help:"Override data values (key=value)"    placeholder:"KEY=VALUE" short:"s"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	data, err := loadData(r.Data, r.Set)
	if err != nil {
		return err
	}

	return repl.Run(ctx, replCacheDir(ctx), data, log.Default())
}

// replCacheDir resolves the cache directory for history persistence from the
// kong context, falling back to the user cache directory.
func replCacheDir(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return dir
		}
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}

	return filepath.Join(dir, pkg.Name)
}
