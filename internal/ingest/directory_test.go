package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/common"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanDirectory_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.DOCX", "a.pdf", "notes.txt", ".hidden.pdf", "c.doc", "archive.zip"} {
		touch(t, filepath.Join(root, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(root, "nested.pdf"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	touch(t, filepath.Join(root, "sub", "deep.pdf"))

	files, stats, err := ScanDirectory(root)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	assert.Equal(t, []string{"a.pdf", "b.DOCX", "c.doc"}, names)
	assert.Equal(t, []constants.Kind{constants.KindPDF, constants.KindDOCX, constants.KindDOC},
		[]constants.Kind{files[0].Kind, files[1].Kind, files[2].Kind})
	assert.Equal(t, int64(1), files[0].Size)

	assert.Equal(t, uint32(8), stats.Scanned)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(5), stats.Skipped)
}

func TestScanDirectory_Missing(t *testing.T) {
	_, _, err := ScanDirectory(filepath.Join(t.TempDir(), "input"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInputDirNotFound)
}

func TestScanDirectory_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	touch(t, path)

	_, _, err := ScanDirectory(path)
	assert.ErrorIs(t, err, common.ErrInputDirNotFound)
}

func TestScanDirectory_Empty(t *testing.T) {
	files, stats, err := ScanDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, stats.Scanned)
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)
}
