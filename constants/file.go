package constants

import (
	"path/filepath"
	"strings"
)

// Kind is the document type derived from a file extension.
type Kind string

const (
	KindPDF         Kind = "pdf"
	KindDOC         Kind = "doc"
	KindDOCX        Kind = "docx"
	KindUnsupported Kind = ""
)

// AllowedExtensions holds the extensions picked up by the input scan (lowercased, no dot).
var AllowedExtensions = map[string]Kind{
	"pdf":  KindPDF,
	"doc":  KindDOC,
	"docx": KindDOCX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindFromPath maps a path's extension to its Kind, or KindUnsupported.
func KindFromPath(path string) Kind {
	return KindFromExt(filepath.Ext(path))
}

func KindFromExt(ext string) Kind {
	if k, ok := AllowedExtensions[NormalizeExt(ext)]; ok {
		return k
	}
	return KindUnsupported
}

// Supported reports whether k can be extracted.
func (k Kind) Supported() bool {
	return k == KindPDF || k == KindDOC || k == KindDOCX
}
