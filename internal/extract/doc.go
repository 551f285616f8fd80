package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

var zipMagic = []byte("PK\x03\x04")

// extractDoc handles .doc files. OOXML packages saved with a .doc name are
// read as DOCX; legacy binary Word files go through antiword, which yields
// paragraphs only.
func (e *Extractor) extractDoc(ctx context.Context, path string) (Content, error) {
	isZip, err := hasZipMagic(path)
	if err != nil {
		return Content{}, err
	}
	if isZip {
		e.logger.Debug("doc file is an OOXML package; reading as docx", "path", path)
		return e.extractDocx(path)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Antiword, e.logger, "-m", "UTF-8.txt", "-w", "0", path)
	if err != nil {
		return Content{}, fmt.Errorf("antiword: %w: %s", err, truncate(strings.TrimSpace(string(errb)), 512))
	}

	var c Content
	for _, line := range strings.Split(Normalize(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			c.Paragraphs = append(c.Paragraphs, line)
		}
	}
	for i := range c.Paragraphs {
		e.logger.Debug("extract.doc.paragraph", "path", path, "paragraph", i+1, "paragraphs", len(c.Paragraphs))
	}
	return c, nil
}

func hasZipMagic(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(head, zipMagic), nil
}
