// Package sheet parses tabular abstract listings (CSV or XLSX exports) into
// spreadsheet rows. Column meaning is auto-detected from header text, so the
// parser tolerates whatever column layout the conference organizers exported.
package sheet

import (
	"strings"

	"github.com/postercast/postercast/internal/abstract"
)

// Alias tables for the four canonical fields. A header claims a field when it
// contains one of the aliases, case-insensitively.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"abstractId", []string{"abstract", "abs", "id"}},
	{"title", []string{"title", "subject", "topic"}},
	{"author", []string{"author", "presenter", "name", "speaker"}},
	{"description", []string{"description", "summary", "abstract text", "body", "content"}},
}

// columnMap records which column index supplies each canonical field, plus
// the headers left over for the Extra map.
type columnMap struct {
	byField map[string]int
	extra   map[int]string
}

// resolveColumns walks the headers in order; the first header satisfying a
// field's alias list wins that field, and a field is claimed at most once.
func resolveColumns(headers []string) columnMap {
	cm := columnMap{
		byField: make(map[string]int, len(fieldAliases)),
		extra:   make(map[int]string),
	}
	for col, header := range headers {
		lowered := strings.ToLower(strings.TrimSpace(header))
		claimedBy := ""
		for _, fa := range fieldAliases {
			if _, taken := cm.byField[fa.field]; taken {
				continue
			}
			for _, alias := range fa.aliases {
				if strings.Contains(lowered, alias) {
					claimedBy = fa.field
					break
				}
			}
			if claimedBy != "" {
				break
			}
		}
		if claimedBy != "" {
			cm.byField[claimedBy] = col
			continue
		}
		cm.extra[col] = strings.TrimSpace(header)
	}
	return cm
}

// ParseRecords converts header+data records into rows. Rows whose resolved
// identifier cell is empty after trimming are dropped. The identifier is
// normalized when the ABS pattern matches; otherwise the raw trimmed value is
// kept so foreign identifier schemes survive. Structurally empty input yields
// an empty list, never an error.
func ParseRecords(records [][]string) []abstract.SpreadsheetRow {
	if len(records) == 0 {
		return []abstract.SpreadsheetRow{}
	}
	cm := resolveColumns(records[0])

	rows := make([]abstract.SpreadsheetRow, 0, len(records)-1)
	for _, record := range records[1:] {
		id := strings.TrimSpace(cell(record, cm.byField, "abstractId"))
		if id == "" {
			continue
		}
		if normalized, ok := abstract.NormalizeID(id); ok {
			id = normalized
		}
		row := abstract.SpreadsheetRow{
			AbstractID:  id,
			Title:       strings.TrimSpace(cell(record, cm.byField, "title")),
			Author:      strings.TrimSpace(cell(record, cm.byField, "author")),
			Description: strings.TrimSpace(cell(record, cm.byField, "description")),
		}
		for col, header := range cm.extra {
			if col >= len(record) {
				continue
			}
			value := strings.TrimSpace(record[col])
			if value == "" {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[header] = value
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(record []string, byField map[string]int, field string) string {
	col, ok := byField[field]
	if !ok || col >= len(record) {
		return ""
	}
	return record[col]
}
