package abstract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ParsedFilename
	}{
		{
			name:  "author and id",
			input: "Dr Bob ABS-0005.pdf",
			want: ParsedFilename{
				AbstractID:  "ABS-0005",
				Author:      "Dr Bob",
				Title:       "ABS-0005",
				RawFilename: "Dr Bob ABS-0005.pdf",
			},
		},
		{
			name:  "underscores and hyphens become spaces",
			input: "jane_doe-ABS-12.pptx",
			want: ParsedFilename{
				AbstractID:  "ABS-12",
				Author:      "jane doe",
				Title:       "ABS-12",
				RawFilename: "jane_doe-ABS-12.pptx",
			},
		},
		{
			name:  "trailing New token stripped",
			input: "Alice Smith New ABS-9.jpg",
			want: ParsedFilename{
				AbstractID:  "ABS-9",
				Author:      "Alice Smith",
				Title:       "ABS-9",
				RawFilename: "Alice Smith New ABS-9.jpg",
			},
		},
		{
			name:  "code-only prefix rejected as author",
			input: "OSSAP-023-OSSAP-023-ABS-76-final.pptx",
			want: ParsedFilename{
				AbstractID:  "ABS-76",
				Author:      "",
				Title:       "ABS-76",
				RawFilename: "OSSAP-023-OSSAP-023-ABS-76-final.pptx",
			},
		},
		{
			name:  "no prefix at all",
			input: "ABS-300.png",
			want: ParsedFilename{
				AbstractID:  "ABS-300",
				Author:      "",
				Title:       "ABS-300",
				RawFilename: "ABS-300.png",
			},
		},
		{
			name:  "first of multiple matches wins",
			input: "Carol ABS-2 ABS-8.pdf",
			want: ParsedFilename{
				AbstractID:  "ABS-2",
				Author:      "Carol",
				Title:       "ABS-2",
				RawFilename: "Carol ABS-2 ABS-8.pdf",
			},
		},
		{
			name:  "no abs pattern",
			input: "keynote slides.pptx",
			want: ParsedFilename{
				Title:       "keynote slides",
				RawFilename: "keynote slides.pptx",
			},
		},
		{
			name:  "lowercase pattern",
			input: "bob abs-044.pdf",
			want: ParsedFilename{
				AbstractID:  "ABS-044",
				Author:      "bob",
				Title:       "ABS-044",
				RawFilename: "bob abs-044.pdf",
			},
		},
		{
			name:  "only New before the id",
			input: "New ABS-1.pdf",
			want: ParsedFilename{
				AbstractID:  "ABS-1",
				Author:      "",
				Title:       "ABS-1",
				RawFilename: "New ABS-1.pdf",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFilename(tt.input))
		})
	}
}

func TestParseFilenameDigitsPreserved(t *testing.T) {
	// Leading zeros survive parsing; only the merge normalizes.
	got := ParseFilename("x ABS-0005.pdf")
	assert.Equal(t, "ABS-0005", got.AbstractID)
}
