package xlsb

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/meddhiazoghlami/xltable/internal/source"
)

// Source adapts an open .xlsb ZIP archive to the CellSource contract,
// grounded on go-xlsb's workbook package (rels resolution, workbook.bin
// sheet enumeration, sharedStrings.bin/styles.bin loading). Both optional
// parts are parsed once, eagerly, when Open is called.
type Source struct {
	zr      *zip.Reader
	entries map[string]*zip.File
	sheets  []sheetEntry
	strings *sharedStrings
	styles  *styleTable
}

type sheetEntry struct {
	name   string
	target string
}

// Open parses an .xlsb workbook from raw bytes.
func Open(data []byte) (*Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("xlsb: open: %w", err)
	}
	s := &Source{zr: zr, entries: map[string]*zip.File{}}
	for _, f := range zr.File {
		s.entries[f.Name] = f
	}
	if err := s.parseWorkbook(); err != nil {
		return nil, err
	}
	if err := s.parseSharedStrings(); err != nil {
		return nil, err
	}
	s.parseStyles()
	return s, nil
}

func (s *Source) SheetNames() []string {
	names := make([]string, len(s.sheets))
	for i, e := range s.sheets {
		names[i] = e.name
	}
	return names
}

func (s *Source) Close() error { return nil }

// OpenSheet resolves nameOrIndex and returns a streaming RowStream over the
// named worksheet's SheetData record run.
func (s *Source) OpenSheet(nameOrIndex any) (source.RowStream, error) {
	entry, err := s.resolveSheet(nameOrIndex)
	if err != nil {
		return nil, err
	}
	zipPath := sheetZipPath(entry.target)
	data, err := s.readEntry(zipPath)
	if err != nil {
		return nil, fmt.Errorf("xlsb: open sheet %q: %w", entry.name, err)
	}
	return newRowStream(data, s.strings, s.styles), nil
}

func (s *Source) resolveSheet(nameOrIndex any) (sheetEntry, error) {
	switch v := nameOrIndex.(type) {
	case string:
		for _, e := range s.sheets {
			if e.name == v {
				return e, nil
			}
		}
		return sheetEntry{}, fmt.Errorf("xlsb: sheet %q not found", v)
	case int:
		if v < 0 || v >= len(s.sheets) {
			return sheetEntry{}, fmt.Errorf("xlsb: sheet index %d out of range", v)
		}
		return s.sheets[v], nil
	default:
		return sheetEntry{}, fmt.Errorf("xlsb: unsupported sheet selector %T", nameOrIndex)
	}
}

func sheetZipPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

func (s *Source) readEntry(name string) ([]byte, error) {
	f, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("xlsb: archive has no entry %q", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseWorkbook builds the sheet list from xl/_rels/workbook.bin.rels and
// the SHEET records in xl/workbook.bin.
func (s *Source) parseWorkbook() error {
	rels, err := s.readRels("xl/_rels/workbook.bin.rels")
	if err != nil {
		return fmt.Errorf("xlsb: workbook rels: %w", err)
	}
	data, err := s.readEntry("xl/workbook.bin")
	if err != nil {
		return fmt.Errorf("xlsb: read workbook.bin: %w", err)
	}

	rs := newRecordStream(data)
	for {
		recID, payload, err := rs.next()
		if err != nil {
			break
		}
		if recID == recSheet {
			entry, err := parseSheetRecord(payload, rels)
			if err != nil {
				return fmt.Errorf("xlsb: parse SHEET record: %w", err)
			}
			s.sheets = append(s.sheets, entry)
		}
		if recID == recSheetsEnd {
			break
		}
	}
	if len(s.sheets) == 0 {
		return fmt.Errorf("xlsb: workbook.bin names no worksheets")
	}
	return nil
}

func parseSheetRecord(data []byte, rels map[string]string) (sheetEntry, error) {
	c := newPayloadCursor(data)
	if _, err := c.u32(); err != nil { // visibility/state flags, unused
		return sheetEntry{}, err
	}
	if _, err := c.u32(); err != nil { // sheetId, unused
		return sheetEntry{}, err
	}
	relID, err := c.rkString()
	if err != nil {
		return sheetEntry{}, err
	}
	name, err := c.rkString()
	if err != nil {
		return sheetEntry{}, err
	}
	target, ok := rels[relID]
	if !ok {
		return sheetEntry{}, fmt.Errorf("no relationship for rId %q", relID)
	}
	return sheetEntry{name: name, target: target}, nil
}

func (s *Source) readRels(name string) (map[string]string, error) {
	data, err := s.readEntry(name)
	if err != nil {
		return nil, err
	}
	var x struct {
		Relationships []struct {
			ID     string `xml:"Id,attr"`
			Target string `xml:"Target,attr"`
		} `xml:"Relationship"`
	}
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("parse rels xml: %w", err)
	}
	m := make(map[string]string, len(x.Relationships))
	for _, r := range x.Relationships {
		m[r.ID] = r.Target
	}
	return m, nil
}

func (s *Source) parseSharedStrings() error {
	data, err := s.readEntry("xl/sharedStrings.bin")
	if err != nil {
		return nil // optional part
	}
	st, err := parseSharedStrings(data)
	if err != nil {
		return fmt.Errorf("xlsb: shared strings: %w", err)
	}
	s.strings = st
	return nil
}

func (s *Source) parseStyles() {
	data, err := s.readEntry("xl/styles.bin")
	if err != nil {
		return // optional; every style reports non-date
	}
	s.styles = parseStyles(data)
}
