package abstract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanned(name string, ft FileType) ScannedInput {
	return ScannedInput{
		File: ScannedFile{
			Name:      name,
			Extension: "pdf",
			FileType:  ft,
			Ref:       "/posters/" + name,
		},
		Parsed: ParseFilename(name),
	}
}

func TestGenerateLeadingZeroJoin(t *testing.T) {
	files := []ScannedInput{scanned("Dr Bob ABS-0005.pdf", FileTypePDF)}
	rows := []SpreadsheetRow{{AbstractID: "ABS-5", Title: "T", Author: "A", Description: "D"}}

	got := Generate(files, rows, true)
	require.Len(t, got, 1)
	assert.True(t, got[0].HasFile)
	assert.Equal(t, "T", got[0].Title)
	assert.Equal(t, "A", got[0].Author)
	assert.Equal(t, "D", got[0].Description)
	assert.Equal(t, "ABS-5", got[0].AbstractID)
	assert.Equal(t, "Dr Bob ABS-0005.pdf", got[0].LocalFileName)
}

func TestGenerateSpreadsheetOnlyRow(t *testing.T) {
	rows := []SpreadsheetRow{{AbstractID: "ABS-10", Title: "Ten", Author: "A2", Description: "D2"}}

	got := Generate(nil, rows, true)
	require.Len(t, got, 1)
	assert.False(t, got[0].HasFile)
	assert.Equal(t, FileTypeDocument, got[0].FileType)
	assert.Equal(t, "Ten", got[0].Title)
	assert.Equal(t, "A2", got[0].Author)
	assert.Equal(t, "ABS-10", got[0].ID)
}

func TestGenerateAbsentSheetSuppressesRowOnlyEntries(t *testing.T) {
	files := []ScannedInput{scanned("Ann ABS-1.pdf", FileTypePDF)}

	withEmptySheet := Generate(files, nil, true)
	withoutSheet := Generate(files, nil, false)
	assert.Len(t, withEmptySheet, 1)
	assert.Len(t, withoutSheet, 1)

	// Rows only surface as file-less entries when a sheet was loaded.
	rows := []SpreadsheetRow{{AbstractID: "ABS-99", Title: "Orphan"}}
	assert.Len(t, Generate(files, rows, true), 2)
}

func TestGenerateEmptyInputs(t *testing.T) {
	assert.Empty(t, Generate(nil, nil, false))
	assert.Empty(t, Generate(nil, nil, true))
}

func TestGenerateEmptyRowFieldsFallBack(t *testing.T) {
	files := []ScannedInput{scanned("Dr Eve ABS-3.pdf", FileTypePDF)}
	rows := []SpreadsheetRow{{AbstractID: "ABS-3", Title: "", Author: "", Description: "notes"}}

	got := Generate(files, rows, true)
	require.Len(t, got, 1)
	// Empty sheet fields lose to filename-derived values.
	assert.Equal(t, "ABS-3", got[0].Title)
	assert.Equal(t, "Dr Eve", got[0].Author)
	assert.Equal(t, "notes", got[0].Description)
}

func TestGenerateUnparseableIDSortsLast(t *testing.T) {
	files := []ScannedInput{
		scanned("misc notes.pdf", FileTypePDF),
		scanned("Bea ABS-20.pdf", FileTypePDF),
		scanned("Abe ABS-0003.pdf", FileTypePDF),
	}

	got := Generate(files, nil, false)
	require.Len(t, got, 3)
	assert.Equal(t, "ABS-3", got[0].AbstractID)
	assert.Equal(t, "ABS-20", got[1].AbstractID)
	assert.Empty(t, got[2].AbstractID)
	assert.True(t, got[2].HasFile)
	assert.Equal(t, "misc notes", got[2].Title)
	assert.Equal(t, UnknownAuthor, got[2].Author)
}

func TestGenerateCompleteness(t *testing.T) {
	// F=4 files: 3 parseable ids, 1 not. S=3 rows: 2 match files, 1 unmatched.
	files := []ScannedInput{
		scanned("Ann ABS-1.pdf", FileTypePDF),
		scanned("Ben ABS-2.pdf", FileTypePDF),
		scanned("Cat ABS-4.pdf", FileTypePDF),
		scanned("untitled.png", FileTypeImage),
	}
	rows := []SpreadsheetRow{
		{AbstractID: "ABS-1", Title: "One", Author: "R1"},
		{AbstractID: "ABS-2", Title: "Two", Author: "R2"},
		{AbstractID: "ABS-9", Title: "Nine", Author: "R9"},
	}

	got := Generate(files, rows, true)
	require.Len(t, got, 5) // F + (S - m) = 4 + (3 - 2)

	withFile, withoutFile, sheetMeta := 0, 0, 0
	for _, a := range got {
		if a.HasFile {
			withFile++
		} else {
			withoutFile++
		}
		if a.Title == "One" || a.Title == "Two" {
			sheetMeta++
		}
	}
	assert.Equal(t, 4, withFile)
	assert.Equal(t, 1, withoutFile)
	assert.Equal(t, 2, sheetMeta)
}

func TestGenerateSortStableAndNonDecreasing(t *testing.T) {
	files := make([]ScannedInput, 0, 12)
	for _, n := range []int{30, 7, 7, 100, 2, 7} {
		files = append(files, scanned(fmt.Sprintf("p ABS-%d.pdf", n), FileTypePDF))
	}
	files = append(files, scanned("zzz.pdf", FileTypePDF), scanned("aaa.pdf", FileTypePDF))

	got := Generate(files, nil, false)
	require.Len(t, got, 8)

	last := uint64(0)
	numbered := 0
	for _, a := range got {
		n, ok := IDNumber(a.AbstractID)
		if !ok {
			continue
		}
		numbered++
		require.GreaterOrEqual(t, n, last)
		last = n
	}
	assert.Equal(t, 6, numbered)
	// Unparseable entries trail, preserving their input order.
	assert.Equal(t, "zzz.pdf", got[6].LocalFileName)
	assert.Equal(t, "aaa.pdf", got[7].LocalFileName)
}

func TestGenerateIDCollisionAcrossFiles(t *testing.T) {
	files := []ScannedInput{
		scanned("Ann ABS-5.pdf", FileTypePDF),
		scanned("Ann copy ABS-0005.pdf", FileTypePDF),
	}

	got := Generate(files, nil, false)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, got[0].AbstractID, got[1].AbstractID)
}

func TestGenerateRegIDLifting(t *testing.T) {
	files := []ScannedInput{scanned("Ann ABS-6.pdf", FileTypePDF)}
	for _, header := range []string{"Reg ID", "Registration ID", "reg no", "REG.NO"} {
		rows := []SpreadsheetRow{{
			AbstractID: "ABS-6",
			Title:      "T",
			Extra:      map[string]string{header: " R-778 "},
		}}
		got := Generate(files, rows, true)
		require.Len(t, got, 1)
		assert.Equal(t, "R-778", got[0].RegID, "header %q", header)
	}
}

func TestGenerateNonABSRowNeverJoins(t *testing.T) {
	files := []ScannedInput{scanned("Ann ABS-8.pdf", FileTypePDF)}
	rows := []SpreadsheetRow{{AbstractID: "P-8", Title: "Wrong scheme"}}

	got := Generate(files, rows, true)
	require.Len(t, got, 2)
	// The file entry keeps its filename metadata; the foreign-scheme row
	// surfaces file-less and sorts behind every numbered entry.
	assert.Equal(t, "ABS-8", got[0].AbstractID)
	assert.NotEqual(t, "Wrong scheme", got[0].Title)
	assert.False(t, got[1].HasFile)
	assert.Equal(t, "P-8", got[1].AbstractID)
	assert.Equal(t, "Wrong scheme", got[1].Title)
}
