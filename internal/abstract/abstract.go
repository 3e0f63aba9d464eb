// Package abstract holds the canonical poster-abstract model and the
// deterministic merge that builds the presentation list from scanned files and
// spreadsheet rows.
package abstract

// FileType classifies a poster file's content.
type FileType string

const (
	FileTypeImage    FileType = "image"
	FileTypePDF      FileType = "pdf"
	FileTypeDocument FileType = "document"
)

// Source records where an abstract's data came from.
type Source string

const (
	SourceLocal     Source = "local"
	SourceHardcoded Source = "hardcoded"
)

// ScannedFile is one supported file found under the granted directory. It is
// ephemeral: a fresh slice is produced by every scan.
type ScannedFile struct {
	Name      string   `json:"name"`
	Extension string   `json:"extension"`
	FileType  FileType `json:"fileType"`
	// Ref is an opaque reference sufficient to re-open the content later,
	// typically the absolute path within the granted tree.
	Ref string `json:"-"`
}

// ParsedFilename is the metadata derived from a raw filename. Recomputed per
// file, no independent lifecycle.
type ParsedFilename struct {
	AbstractID  string `json:"abstractId,omitempty"`
	Author      string `json:"author,omitempty"`
	Title       string `json:"title"`
	RawFilename string `json:"rawFilename"`
}

// ScannedInput pairs a scanned file with its parsed filename so the merge
// never relies on two slices staying index-aligned.
type ScannedInput struct {
	File   ScannedFile
	Parsed ParsedFilename
}

// SpreadsheetRow is one data row from a loaded spreadsheet whose identifier
// cell was non-empty. Extra carries every column the header detection did not
// claim, keyed by the verbatim header text.
type SpreadsheetRow struct {
	AbstractID  string            `json:"abstractId"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Description string            `json:"description"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Abstract is the canonical merged entity rendered by the browsing UI. The
// list is regenerated wholesale whenever the file set or spreadsheet changes;
// consumers treat each list as an immutable snapshot.
type Abstract struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   string   `json:"description"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	FileURL       string   `json:"fileUrl,omitempty"`
	FileType      FileType `json:"fileType"`
	LocalFileName string   `json:"localFileName,omitempty"`
	// AbstractID is the display/sort identifier. Entries without a parseable
	// identifier leave it empty, which routes them to the end of the sort.
	AbstractID string `json:"abstractId,omitempty"`
	RegID      string `json:"regId,omitempty"`
	HasFile    bool   `json:"hasFile"`
	Source     Source `json:"source"`
}
