package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"input/report.pdf", KindPDF},
		{"input/REPORT.PDF", KindPDF},
		{"memo.doc", KindDOC},
		{"memo.Docx", KindDOCX},
		{"notes.txt", KindUnsupported},
		{"noext", KindUnsupported},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindFromPath(tt.path), tt.path)
	}
}

func TestKindSupported(t *testing.T) {
	assert.True(t, KindPDF.Supported())
	assert.True(t, KindDOC.Supported())
	assert.True(t, KindDOCX.Supported())
	assert.False(t, KindUnsupported.Supported())
	assert.False(t, Kind("txt").Supported())
}
