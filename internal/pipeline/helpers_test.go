package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doc2json/constants"
)

// stubExtractor and stubStructurer record calls and delegate to function fields.
type stubExtractor struct {
	ExtractFn func(ctx context.Context, path string, kind constants.Kind) (string, error)
	calls     int
}

func (s *stubExtractor) Extract(ctx context.Context, path string, kind constants.Kind) (string, error) {
	s.calls++
	return s.ExtractFn(ctx, path, kind)
}

type stubStructurer struct {
	StructureFn func(ctx context.Context, text string) (string, bool)
	calls       int
}

func (s *stubStructurer) Structure(ctx context.Context, text string) (string, bool) {
	s.calls++
	return s.StructureFn(ctx, text)
}

func constText(text string) *stubExtractor {
	return &stubExtractor{ExtractFn: func(context.Context, string, constants.Kind) (string, error) { return text, nil }}
}

func constContent(content string) *stubStructurer {
	return &stubStructurer{StructureFn: func(context.Context, string) (string, bool) { return content, true }}
}

type dirs struct {
	root, in, out string
}

func newDirs(t *testing.T) dirs {
	t.Helper()
	root := t.TempDir()
	d := dirs{root: root, in: filepath.Join(root, "input"), out: filepath.Join(root, "output")}
	require.NoError(t, os.Mkdir(d.in, 0o755))
	return d
}

func (d dirs) put(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(d.in, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (d dirs) config() Config {
	return Config{InputDir: d.in, OutputDir: d.out}
}
