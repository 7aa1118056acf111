package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// CompileReader compiles a template read from r. The reader is wrapped with
// asynchronous read-ahead so input is prefetched while earlier chunks are
// consumed.
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Template, error) {
	source, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, source, opts...)
}

// RenderReader compiles a template read from r and renders it against data.
func RenderReader(
	ctx context.Context,
	r io.Reader,
	data map[string]any,
	opts ...Option,
) (string, error) {
	t, err := CompileReader(ctx, r, opts...)
	if err != nil {
		return "", err
	}

	return t.Render(ctx, data, opts...)
}

func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}
