package extract

import (
	"archive/zip"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/joseph-ayodele/doc2json/internal/common"
)

// extractDocx reads word/document.xml and collects body paragraphs and tables in document order.
func (e *Extractor) extractDocx(path string) (Content, error) {
	c, err := readDocx(path)
	if err != nil {
		return Content{}, err
	}
	for i, p := range c.Paragraphs {
		e.logger.Debug("extract.docx.paragraph", "path", path, "paragraph", i+1, "paragraphs", len(c.Paragraphs), "chars", len(p))
	}
	for i, t := range c.Tables {
		e.logger.Debug("extract.docx.table", "path", path, "table", i+1, "tables", len(c.Tables), "rows", len(t))
	}
	return c, nil
}

func readDocx(path string) (Content, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Content{}, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Content{}, fmt.Errorf("%w: word/document.xml not found in archive", common.ErrNoContent)
	}

	rc, err := docFile.Open()
	if err != nil {
		return Content{}, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return Content{}, fmt.Errorf("parse document.xml: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Content{}, fmt.Errorf("%w: empty document.xml", common.ErrNoContent)
	}
	body := root.SelectElement("body")
	if body == nil {
		return Content{}, fmt.Errorf("%w: document.xml has no body", common.ErrNoContent)
	}

	var c Content
	for _, el := range body.ChildElements() {
		switch el.Tag {
		case "p":
			c.Paragraphs = append(c.Paragraphs, paragraphText(el))
		case "tbl":
			c.Tables = append(c.Tables, tableGrid(el))
		}
	}
	return c, nil
}

// paragraphText concatenates run text, mapping tabs and breaks to whitespace.
// Drawings and property blocks are not descended into.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			switch child.Tag {
			case "t":
				sb.WriteString(child.Text())
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			case "pPr", "rPr", "drawing", "pict", "object", "AlternateContent", "del", "instrText":
			default:
				walk(child)
			}
		}
	}
	walk(p)
	return sb.String()
}

// tableGrid lays a w:tbl out as rows of cell text. A cell spanning several
// grid columns repeats its text; a vertically merged continuation cell takes
// the text of the cell above it.
func tableGrid(tbl *etree.Element) Table {
	var grid Table
	var prev []string
	for _, tr := range tbl.ChildElements() {
		if tr.Tag != "tr" {
			continue
		}
		var row []string
		for _, tc := range tr.ChildElements() {
			if tc.Tag != "tc" {
				continue
			}
			span, continued := cellMerge(tc)
			text := strings.TrimSpace(cellText(tc))
			for i := 0; i < span; i++ {
				col := len(row)
				if continued && col < len(prev) {
					row = append(row, prev[col])
					continue
				}
				row = append(row, text)
			}
		}
		grid = append(grid, row)
		prev = row
	}
	return grid
}

func cellText(tc *etree.Element) string {
	var parts []string
	for _, p := range tc.ChildElements() {
		if p.Tag == "p" {
			parts = append(parts, paragraphText(p))
		}
	}
	return strings.Join(parts, "\n")
}

func cellMerge(tc *etree.Element) (span int, continued bool) {
	span = 1
	props := tc.SelectElement("tcPr")
	if props == nil {
		return span, false
	}
	if gs := props.SelectElement("gridSpan"); gs != nil {
		if n, err := strconv.Atoi(gs.SelectAttrValue("val", "1")); err == nil && n > 1 {
			span = n
		}
	}
	if vm := props.SelectElement("vMerge"); vm != nil {
		continued = vm.SelectAttrValue("val", "continue") != "restart"
	}
	return span, continued
}
