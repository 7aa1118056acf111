package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/vtm9/eex/lang"
	"github.com/vtm9/eex/log"
)

// Render compiles a template and prints its rendered output.
type Render struct {
	Template string   `arg:""            default:"-"                  help:"Template file or '-' for stdin" name:"template" optional:""`
	Data     string   `                                               help:"YAML file with render data"                     placeholder:"FILE" short:"d" type:"existingfile"`
	Set      []string `                                               help:"Override data values (key=value)"               placeholder:"KEY=VALUE" short:"s"`
	Trim     bool     `                                               help:"Trim whitespace around standalone tags"`
	Output   string   `                  default:"-"                  help:"Output file or '-' for stdout"                  short:"o"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) error {
	in, name, err := openTemplate(r.Template)
	if err != nil {
		return err
	}
	defer in.Close()

	data, err := loadData(r.Data, r.Set)
	if err != nil {
		return err
	}

	out, err := lang.RenderReader(ctx, in, data,
		lang.WithFile(name),
		lang.WithTrim(r.Trim),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	return writeOutput(r.Output, out)
}

// loadData builds the render data map from an optional YAML file overlaid
// with --set key=value overrides. Override values are parsed as YAML
// scalars, so numbers and booleans keep their types.
func loadData(path string, overrides []string) (map[string]any, error) {
	data := make(map[string]any)

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrReadData.Wrap(err).
				With(slog.String("file", path))
		}

		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, ErrParseData.Wrap(err).
				With(slog.String("file", path))
		}
	}

	for _, entry := range overrides {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, ErrBadOverride.
				With(slog.String("entry", entry))
		}

		var parsed any
		if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}

		data[key] = parsed
	}

	return data, nil
}

// writeOutput writes s to the given path, or stdout for "-".
func writeOutput(path, s string) error {
	if path == stdinSource {
		_, err := fmt.Print(s)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	err := os.WriteFile(path, []byte(s), 0o644)
	if err != nil {
		return ErrWriteOutput.Wrap(err).
			With(slog.String("file", path))
	}

	return nil
}
