// Package testutil builds small, valid document fixtures for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// TextPDF returns a minimal PDF with one page per entry, each page showing its text with Tj.
func TextPDF(pages ...string) []byte {
	streams := make([]string, len(pages))
	for i, text := range pages {
		streams[i] = "BT\n/F1 12 Tf\n72 720 Td\n(" + escapePDFString(text) + ") Tj\nET"
	}
	return pagedPDF("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>", nil, streams)
}

// WinAnsiPDF returns a one-page PDF whose font declares /WinAnsiEncoding and
// shows raw as a single literal string, byte for byte.
func WinAnsiPDF(raw string) []byte {
	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escapePDFString(raw) + ") Tj\nET"
	return pagedPDF("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>", nil, []string{stream})
}

// Type0PDF returns a one-page PDF with an Identity-H composite font. The page
// shows the glyph ids in order as one hex string; toUnicode maps each glyph id
// to its character through a ToUnicode CMap.
func Type0PDF(toUnicode map[uint16]rune, glyphs []uint16) []byte {
	var shown strings.Builder
	for _, g := range glyphs {
		fmt.Fprintf(&shown, "%04X", g)
	}
	stream := "BT\n/F1 12 Tf\n72 720 Td\n<" + shown.String() + "> Tj\nET"

	ids := make([]int, 0, len(toUnicode))
	for g := range toUnicode {
		ids = append(ids, int(g))
	}
	sort.Ints(ids)
	var cmap strings.Builder
	cmap.WriteString("1 begincodespacerange\n<0000> <FFFF>\nendcodespacerange\n")
	fmt.Fprintf(&cmap, "%d beginbfchar\n", len(ids))
	for _, g := range ids {
		fmt.Fprintf(&cmap, "<%04X> <%04X>\n", g, toUnicode[uint16(g)])
	}
	cmap.WriteString("endbfchar")

	// object 3 is the Type0 font; the extras follow as 4, 5 and 6
	font := "<< /Type /Font /Subtype /Type0 /BaseFont /Doc2JSONSans /Encoding /Identity-H /DescendantFonts [4 0 R] /ToUnicode 6 0 R >>"
	extras := []string{
		"<< /Type /Font /Subtype /CIDFontType2 /BaseFont /Doc2JSONSans " +
			"/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> " +
			"/FontDescriptor 5 0 R /CIDToGIDMap /Identity /DW 1000 >>",
		"<< /Type /FontDescriptor /FontName /Doc2JSONSans /Flags 32 /FontBBox [0 -200 1000 800] " +
			"/ItalicAngle 0 /Ascent 800 /Descent -200 /CapHeight 700 /StemV 80 >>",
		streamObject(cmap.String()),
	}
	return pagedPDF(font, extras, []string{stream})
}

// pagedPDF lays out catalog (1), page tree (2), the font (3, resource /F1 on
// every page), extra objects (4...), then one page and content object per stream.
func pagedPDF(font string, extras []string, streams []string) []byte {
	first := 4 + len(extras)
	kids := make([]string, len(streams))
	for i := range streams {
		kids[i] = fmt.Sprintf("%d 0 R", first+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(streams)),
		font,
	}
	objects = append(objects, extras...)
	for i, stream := range streams {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", first+2*i+1),
			streamObject(stream),
		)
	}
	return writePDF(objects)
}

func streamObject(data string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(data), data)
}

// writePDF numbers objects from 1 in order and appends a classic xref table.
func writePDF(objects []string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// escapePDFString writes a literal string body; bytes outside printable ASCII become octal escapes.
func escapePDFString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' || c == '(' || c == ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c > 0x7E:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

// DOCX returns a minimal .docx whose body holds the given paragraphs followed by the given tables.
func DOCX(paragraphs []string, tables [][][]string) []byte {
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(ParagraphXML(p))
	}
	for _, t := range tables {
		body.WriteString("<w:tbl><w:tblPr/>")
		for _, row := range t {
			body.WriteString("<w:tr>")
			for _, cell := range row {
				body.WriteString("<w:tc><w:tcPr/>")
				body.WriteString(ParagraphXML(cell))
				body.WriteString("</w:tc>")
			}
			body.WriteString("</w:tr>")
		}
		body.WriteString("</w:tbl>")
	}
	return DOCXFromBody(body.String())
}

// ParagraphXML renders one w:p with a single run.
func ParagraphXML(text string) string {
	if text == "" {
		return "<w:p/>"
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r></w:p>`
}

// DOCXFromBody wraps raw WordprocessingML body markup into a .docx package.
func DOCXFromBody(bodyXML string) []byte {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		bodyXML + `<w:sectPr/></w:body></w:document>`

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, part := range []struct{ name, data string }{
		{"[Content_Types].xml", contentTypesXML},
		{"word/document.xml", doc},
	} {
		f, err := w.Create(part.name)
		if err != nil {
			panic(err)
		}
		if _, err := f.Write([]byte(part.data)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
