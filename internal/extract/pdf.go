package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF reads pages in order and joins their text, one trailing newline per page.
// A page without text contributes an empty line.
//
// pdfcpu validates the file and supplies each page's content stream; font
// encodings for the strings shown in it are resolved with ledongthuc/pdf.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			e.logger.Warn("failed to close pdf", "path", path, "error", err)
		}
	}(f)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	fonts := e.loadFonts(f, path)

	var b strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		enc := fonts.page(pageNr)
		text, err := pageText(pdfCtx, pageNr, enc)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", pageNr, err)
		}
		b.WriteString(text)
		b.WriteByte('\n')
		e.logger.Debug("extract.pdf.page",
			"path", path,
			"page", pageNr,
			"pages", pdfCtx.PageCount,
			"fonts", len(enc),
			"chars", len(text),
		)
	}
	return b.String(), nil
}

func pageText(pdfCtx *model.Context, pageNr int, fonts map[string]pdf.TextEncoding) (string, error) {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil {
		return "", err
	}
	if r == nil {
		return "", nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return decodeContentStream(data, fonts), nil
}

// pdfFonts looks up font resources per page. A nil reader leaves every page
// without decoders, so shown strings use the WinAnsi fallback.
type pdfFonts struct {
	r *pdf.Reader
}

func (e *Extractor) loadFonts(f *os.File, path string) pdfFonts {
	info, err := f.Stat()
	if err != nil {
		e.logger.Debug("extract.pdf.fonts_unavailable", "path", path, "error", err)
		return pdfFonts{}
	}
	r, err := openFontReader(f, info.Size())
	if err != nil {
		e.logger.Debug("extract.pdf.fonts_unavailable", "path", path, "error", err)
		return pdfFonts{}
	}
	return pdfFonts{r: r}
}

// openFontReader parses the xref and trailer; the parser panics on some damaged files.
func openFontReader(ra io.ReaderAt, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("pdf font reader: %v", p)
		}
	}()
	return pdf.NewReader(ra, size)
}

// page maps the font resource names of one page (including inherited
// resources) to their text decoders. Fonts that cannot be resolved are left out.
func (pf pdfFonts) page(pageNr int) (m map[string]pdf.TextEncoding) {
	if pf.r == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			m = nil
		}
	}()
	if pageNr > pf.r.NumPage() {
		return nil
	}
	p := pf.r.Page(pageNr)
	if p.V.IsNull() {
		return nil
	}
	names := p.Fonts()
	m = make(map[string]pdf.TextEncoding, len(names))
	for _, name := range names {
		if enc := fontEncoder(p, name); enc != nil {
			m[name] = enc
		}
	}
	return m
}

func fontEncoder(p pdf.Page, name string) (enc pdf.TextEncoding) {
	defer func() {
		if recover() != nil {
			enc = nil
		}
	}()
	return p.Font(name).Encoder()
}
