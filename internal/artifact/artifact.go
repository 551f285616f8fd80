// Package artifact persists structured results and relocates source documents.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Artifact is the persisted output for one processed source file.
type Artifact struct {
	JSONPath    string
	CopyPath    string
	RawFallback bool // content was not JSON and was written verbatim
}

// JSONPathFor returns <outputDir>/<stem>.json for a source path.
func JSONPathFor(outputDir, sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, stem+".json")
}

// FormatContent pretty-prints content with a two-space indent when it parses as JSON,
// keeping key order. Otherwise it returns the content bytes unchanged and ok=false.
func FormatContent(content string) (out []byte, ok bool) {
	trimmed := bytes.TrimSpace([]byte(content))
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return []byte(content), false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return []byte(content), false
	}
	return buf.Bytes(), true
}

// WriteResult creates outputDir if needed and writes the formatted content to <stem>.json.
func WriteResult(outputDir, sourcePath, content string) (path string, rawFallback bool, err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create output dir: %w", err)
	}
	data, ok := FormatContent(content)
	path = JSONPathFor(outputDir, sourcePath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}
	return path, !ok, nil
}

// CopyFile copies src into dir under the same base name, preserving mode and modification time.
func CopyFile(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}

	dst := filepath.Join(dir, filepath.Base(src))
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	// OpenFile applies umask; set the permission bits explicitly.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", err
	}
	return dst, nil
}
