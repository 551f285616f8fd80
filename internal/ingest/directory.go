package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/common"
)

// ScanDirectory lists supported documents directly under root (no recursion),
// in lexical order of file name.
//
// Dot-files are skipped even when their extension matches (".~lock.report.docx",
// "._report.pdf").
func ScanDirectory(root string) ([]SourceFile, DirStats, error) {
	var stats DirStats
	if strings.TrimSpace(root) == "" {
		return nil, stats, fmt.Errorf("%w: empty path", common.ErrInputDirNotFound)
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, stats, fmt.Errorf("%w: %s", common.ErrInputDirNotFound, root)
		}
		return nil, stats, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, stats, fmt.Errorf("%w: %s is not a directory", common.ErrInputDirNotFound, root)
	}

	// ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, stats, fmt.Errorf("read dir %s: %w", root, err)
	}

	var files []SourceFile
	for _, e := range entries {
		stats.Scanned++
		path := filepath.Join(root, e.Name())
		if IsHidden(path) {
			stats.Skipped++
			continue
		}
		kind := constants.KindFromPath(path)
		if !kind.Supported() {
			stats.Skipped++
			continue
		}
		// follows symlinks
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			stats.Skipped++
			continue
		}
		stats.Matched++
		files = append(files, SourceFile{
			Path:    path,
			Kind:    kind,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}
	return files, stats, nil
}
