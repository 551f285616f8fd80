package extract

import (
	"context"

	"github.com/joseph-ayodele/doc2json/constants"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string, kind constants.Kind) (string, error)
}

// Table is an ordered list of rows, each an ordered list of cell strings.
type Table [][]string

// Content is the paragraph and table view of a word-processing document.
type Content struct {
	Paragraphs []string
	Tables     []Table
}
