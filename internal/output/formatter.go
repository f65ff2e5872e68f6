// Package output renders CLI results as JSON, CSV, or TSV, grounded on the
// same three-format convention the rest of the pack's CLI tooling uses.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects the CLI's rendering.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// FormatSingle renders one value (a struct, map, or similar) as a single
// JSON object. CSV/TSV have no single-object rendering; they fall back to
// treating v as one row.
func FormatSingle(format string, v any) ([]byte, error) {
	switch Format(strings.ToLower(format)) {
	case FormatCSV:
		return rowsToCSV([][]string{toRow(v)})
	case FormatTSV:
		return rowsToTSV([][]string{toRow(v)}), nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("xltable: formatting output: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// FormatRows renders a header row plus data rows.
func FormatRows(format string, header []string, rows [][]string) ([]byte, error) {
	switch Format(strings.ToLower(format)) {
	case FormatCSV:
		all := append([][]string{header}, rows...)
		return rowsToCSV(all)
	case FormatTSV:
		all := append([][]string{header}, rows...)
		return rowsToTSV(all), nil
	default:
		records := make([]map[string]string, len(rows))
		for i, row := range rows {
			rec := make(map[string]string, len(header))
			for j, col := range header {
				if j < len(row) {
					rec[col] = row[j]
				}
			}
			records[i] = rec
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("xltable: formatting output: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func rowsToCSV(rows [][]string) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("xltable: writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("xltable: CSV writer: %w", err)
	}
	return []byte(buf.String()), nil
}

func rowsToTSV(rows [][]string) []byte {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = strings.Join(row, "\t")
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

func toRow(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case map[string]any:
		row := make([]string, 0, len(val))
		for _, x := range val {
			row = append(row, fmt.Sprintf("%v", x))
		}
		return row
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
