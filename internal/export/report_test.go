package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/doc2json/constants"
	"github.com/joseph-ayodele/doc2json/internal/pipeline"
)

func sampleSummary() pipeline.Summary {
	return pipeline.Summary{
		Scanned:      3,
		Matched:      2,
		Succeeded:    1,
		Failed:       1,
		RawFallbacks: 1,
		Elapsed:      1500 * time.Millisecond,
		Results: []pipeline.FileResult{
			{
				Path: "input/a.pdf", Kind: constants.KindPDF,
				Status: constants.JobStatusDone, Stage: constants.StageDone,
				JSONPath: "output/a.json", RawFallback: true, Elapsed: 1200 * time.Millisecond,
			},
			{
				Path: "input/b.doc", Kind: constants.KindDOC,
				Status: constants.JobStatusFailed, Stage: constants.StageExtract,
				Err: errors.New("antiword: not found"), Elapsed: 3 * time.Millisecond,
			},
		},
	}
}

func TestSummaryXLSX(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	data, err := NewReporter(nil).SummaryXLSX(sampleSummary(), at)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Files", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Files")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, fileHeaders, rows[0])
	assert.Equal(t, []string{"input/a.pdf", "pdf", "DONE", "done", "", "output/a.json", "TRUE", "", "1200"}, rows[1])
	assert.Equal(t, "input/b.doc", rows[2][0])
	assert.Equal(t, "FAILED", rows[2][2])
	assert.Equal(t, "extract", rows[2][3])
	assert.Equal(t, "antiword: not found", rows[2][4])

	generated, err := f.GetCellValue("Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:00:00Z", generated)
	failed, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", failed)
}

func TestWriteSummary_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.xlsx")
	require.NoError(t, NewReporter(nil).WriteSummary(path, pipeline.Summary{}, time.Now()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Files")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
}
