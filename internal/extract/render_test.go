package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_DropsEmptyParagraphs(t *testing.T) {
	out := Render(Content{Paragraphs: []string{"a", "", "  ", "b"}})

	assert.Equal(t, "Document Content:\n\nParagraphs:\nParagraph 1: a\nParagraph 2: b\n\n", out)
}

func TestRender_TableRows(t *testing.T) {
	out := Render(Content{Tables: []Table{{{"x", "y"}, {"z", "w"}}}})

	assert.Contains(t, out, "Tables:\nTable 1:\n| x | y |\n| z | w |\n")
	assert.NotContains(t, out, "Paragraphs:")
}

func TestRender_DropsTablesWithoutText(t *testing.T) {
	out := Render(Content{
		Paragraphs: []string{"intro"},
		Tables:     []Table{{{"", " "}}, {}, {{"kept"}}},
	})

	assert.Contains(t, out, "Table 1:\n| kept |\n")
	assert.NotContains(t, out, "Table 2:")
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "Document Content:\n\n", Render(Content{}))
}

func TestCompact_PadsRaggedRows(t *testing.T) {
	c := Content{Tables: []Table{{{" a ", "b", "c"}, {"d"}}}}.Compact()

	assert.Equal(t, Table{{"a", "b", "c"}, {"d", "", ""}}, c.Tables[0])
	out := Render(c)
	assert.True(t, strings.Contains(out, "| d |  |  |\n"), out)
}
