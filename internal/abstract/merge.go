package abstract

import (
	"fmt"
	"sort"
	"strings"
)

// regIDKeys are the registration-id column names after folding case, spacing
// and punctuation, covering spellings like "Reg ID", "Registration Id" and
// "Reg. No".
var regIDKeys = map[string]bool{
	"regid":          true,
	"registrationid": true,
	"regno":          true,
	"regnumber":      true,
}

// UnknownAuthor is the author shown when neither the spreadsheet nor the
// filename yields one.
const UnknownAuthor = "Unknown"

// Generate merges scanned files and spreadsheet rows into the canonical,
// deterministically ordered abstract list. rows carries the loaded
// spreadsheet; haveSheet distinguishes "no spreadsheet loaded" from "loaded
// but empty", and spreadsheet-only entries are emitted only when haveSheet is
// true. The result is a fresh snapshot on every call.
func Generate(files []ScannedInput, rows []SpreadsheetRow, haveSheet bool) []Abstract {
	type keyedRow struct {
		id  string
		row SpreadsheetRow
	}
	rowByID := make(map[string]SpreadsheetRow, len(rows))
	rowOrder := make([]keyedRow, 0, len(rows))
	for _, row := range rows {
		id, ok := NormalizeID(row.AbstractID)
		if !ok {
			// Identifiers outside the ABS scheme never join against files but
			// still flow through to the spreadsheet-only pass.
			rowOrder = append(rowOrder, keyedRow{id: row.AbstractID, row: row})
			continue
		}
		if _, exists := rowByID[id]; !exists {
			rowOrder = append(rowOrder, keyedRow{id: id, row: row})
			rowByID[id] = row
		}
	}

	claimed := make(map[string]bool, len(rowByID))
	out := make([]Abstract, 0, len(files)+len(rows))

	for i, input := range files {
		parsed := input.Parsed
		normalized, hasNormalized := "", false
		if parsed.AbstractID != "" {
			normalized, hasNormalized = NormalizeID(parsed.AbstractID)
		}

		entry := Abstract{
			Title:         fallback(parsed.Title, parsed.RawFilename),
			Author:        fallback(parsed.Author, UnknownAuthor),
			Description:   "",
			FileType:      input.File.FileType,
			FileURL:       input.File.Ref,
			LocalFileName: input.File.Name,
			HasFile:       true,
			Source:        SourceLocal,
		}

		switch {
		case hasNormalized:
			entry.AbstractID = normalized
		case parsed.AbstractID != "":
			entry.AbstractID = parsed.AbstractID
		}

		if hasNormalized {
			if row, ok := rowByID[normalized]; ok {
				claimed[normalized] = true
				entry.Title = fallback(row.Title, entry.Title)
				entry.Author = fallback(row.Author, entry.Author)
				entry.Description = row.Description
				entry.RegID = lookupRegID(row)
			}
		}

		// Identity combines the id with the filename so colliding ids across
		// files still produce distinct entries.
		if hasNormalized {
			entry.ID = normalized + ":" + input.File.Name
		} else {
			entry.ID = fmt.Sprintf("file-%d:%s", i, input.File.Name)
		}

		out = append(out, entry)
	}

	if haveSheet {
		for _, keyed := range rowOrder {
			if claimed[keyed.id] {
				continue
			}
			out = append(out, Abstract{
				ID:          keyed.id,
				Title:       fallback(keyed.row.Title, keyed.id),
				Author:      fallback(keyed.row.Author, UnknownAuthor),
				Description: keyed.row.Description,
				FileType:    FileTypeDocument,
				AbstractID:  keyed.id,
				RegID:       lookupRegID(keyed.row),
				HasFile:     false,
				Source:      SourceLocal,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ni, iok := IDNumber(out[i].AbstractID)
		nj, jok := IDNumber(out[j].AbstractID)
		if iok != jok {
			return iok
		}
		if !iok {
			return false
		}
		return ni < nj
	})

	return out
}

func lookupRegID(row SpreadsheetRow) string {
	headers := make([]string, 0, len(row.Extra))
	for header := range row.Extra {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	for _, header := range headers {
		if regIDKeys[foldHeader(header)] && strings.TrimSpace(row.Extra[header]) != "" {
			return strings.TrimSpace(row.Extra[header])
		}
	}
	return ""
}

func foldHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
