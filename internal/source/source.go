// Package source defines the CellSource contract every format adapter
// implements, and the magic-byte format sniffing used to pick one (spec
// §6, §1 "external collaborators").
package source

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/meddhiazoghlami/xltable/internal/cellmodel"
	"github.com/meddhiazoghlami/xltable/internal/chunk"
)

// Format identifies which adapter should read a workbook.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatXLSB
)

// RowStream streams one sheet's cells in row-major order. One Next call
// returns one full row's cells, matching the row-gate's one-row buffer
// (spec §4.3).
type RowStream interface {
	// Next returns the next row's cells keyed by 0-based column index, and
	// the row's own 0-based index. ok is false once the sheet is exhausted.
	Next() (rowIdx int, cells map[int]cellmodel.RawCell, ok bool, err error)
	// Strings returns a lookup for SharedStringRef cells; nil when the
	// adapter produces none (always for XLSX, whose cell values arrive
	// already resolved; for XLSB when there is no sharedStrings.bin part).
	Strings() chunk.StringLookup
	Close() error
}

// CellSource is the external-collaborator contract the read call depends
// on: enumerate sheets, open one for streaming.
type CellSource interface {
	SheetNames() []string
	OpenSheet(nameOrIndex any) (RowStream, error)
	Close() error
}

// DetectFormat sniffs the workbook format from its byte content. Both
// XLSX and XLSB are ZIP containers; they are distinguished by which
// workbook part the archive contains.
func DetectFormat(data []byte) (Format, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FormatUnknown, fmt.Errorf("source: not a recognized archive: %w", err)
	}
	for _, f := range zr.File {
		switch f.Name {
		case "xl/workbook.bin":
			return FormatXLSB, nil
		case "xl/workbook.xml":
			return FormatXLSX, nil
		}
	}
	return FormatUnknown, fmt.Errorf("source: archive has neither xl/workbook.xml nor xl/workbook.bin")
}
