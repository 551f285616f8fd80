// Package ingest discovers source documents in the input directory.
package ingest

import (
	"time"

	"github.com/joseph-ayodele/doc2json/constants"
)

// SourceFile is one discovered input document.
type SourceFile struct {
	Path    string
	Kind    constants.Kind
	Size    int64
	ModTime time.Time
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32 // directory entries seen
	Matched uint32 // supported documents
	Skipped uint32 // hidden, directories, or unsupported extensions
}
