package sheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postercast/postercast/internal/abstract"
)

func TestResolveColumnsAliasDetection(t *testing.T) {
	cm := resolveColumns([]string{"Abstract ID", "Poster Title", "Presenter Name", "Summary", "Reg ID"})
	assert.Equal(t, 0, cm.byField["abstractId"])
	assert.Equal(t, 1, cm.byField["title"])
	assert.Equal(t, 2, cm.byField["author"])
	assert.Equal(t, 3, cm.byField["description"])
	assert.Equal(t, map[int]string{4: "Reg ID"}, cm.extra)
}

func TestResolveColumnsFirstHeaderWins(t *testing.T) {
	// Two id-ish headers: only the first claims abstractId, the second is
	// preserved as an extra column.
	cm := resolveColumns([]string{"ID", "Abs Number", "Topic"})
	assert.Equal(t, 0, cm.byField["abstractId"])
	assert.Equal(t, 2, cm.byField["title"])
	assert.Contains(t, cm.extra, 1)
}

func TestParseRecords(t *testing.T) {
	records := [][]string{
		{"Abstract", "Title", "Author", "Description", "Reg No"},
		{" ABS-007 ", " Deep Dish Telescopes ", "Rivera", "d1", "R-1"},
		{"", "dropped: no id", "x", "", ""},
		{"P-44", "Foreign scheme", "y", "", ""},
	}

	rows := ParseRecords(records)
	require.Len(t, rows, 2)

	assert.Equal(t, abstract.SpreadsheetRow{
		AbstractID:  "ABS-7",
		Title:       "Deep Dish Telescopes",
		Author:      "Rivera",
		Description: "d1",
		Extra:       map[string]string{"Reg No": "R-1"},
	}, rows[0])

	// Identifiers outside the ABS scheme are kept verbatim.
	assert.Equal(t, "P-44", rows[1].AbstractID)
}

func TestParseRecordsEmptyInput(t *testing.T) {
	assert.Empty(t, ParseRecords(nil))
	assert.Empty(t, ParseRecords([][]string{}))
	assert.Empty(t, ParseRecords([][]string{{"ID", "Title"}}))
}

func TestParseRecordsRaggedRows(t *testing.T) {
	records := [][]string{
		{"ID", "Title", "Author"},
		{"ABS-1"},
		{"ABS-2", "Two"},
	}
	rows := ParseRecords(records)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0].Title)
	assert.Equal(t, "Two", rows[1].Title)
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Abstract ID,Topic,Speaker,Body,Institution",
		"ABS-003,Gravity,Chen,long text,MIT",
		",skipped,,,",
		"ABS-12,Waves,Okafor,,Unseen U",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ABS-3", rows[0].AbstractID)
	assert.Equal(t, "Gravity", rows[0].Title)
	assert.Equal(t, "Chen", rows[0].Author)
	assert.Equal(t, map[string]string{"Institution": "MIT"}, rows[0].Extra)
	assert.Equal(t, "ABS-12", rows[1].AbstractID)
}

func TestParseCSVEmptyStream(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseFileUnknownExtension(t *testing.T) {
	_, err := ParseFile("listing.ods")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
