package xlsb

import (
	"github.com/meddhiazoghlami/xltable/internal/dateconv"
)

// styleTable maps a cell's XF style index to whether that style marks the
// cell as a date/time value, grounded on go-xlsb's styles package and
// workbook.go's parseStyleTable. Only the date/time classification survives
// into cellmodel.RawCell; full number-format rendering is out of scope.
type styleTable struct {
	isDate []bool
}

// parseStyles reads the xl/styles.bin BIFF12 stream: BrtFmt records
// collect custom format strings keyed by numFmtId, then each BrtXF record
// inside the cellXfs block resolves to a date/non-date classification.
func parseStyles(data []byte) *styleTable {
	customFormats := map[int]string{}
	var table styleTable
	inCellXfs := false

	rs := newRecordStream(data)
	for {
		recID, payload, err := rs.next()
		if err != nil {
			break
		}
		switch recID {
		case recNumFmt:
			c := newPayloadCursor(payload)
			id, err := c.u16()
			if err != nil {
				continue
			}
			s, _ := c.rkString()
			customFormats[int(id)] = s

		case recCellXfs:
			inCellXfs = true
		case recCellXfsEnd:
			inCellXfs = false

		case recXf:
			if !inCellXfs {
				continue
			}
			c := newPayloadCursor(payload)
			if _, err := c.u16(); err != nil { // parent XF index, unused
				table.isDate = append(table.isDate, false)
				continue
			}
			numFmtID, err := c.u16()
			if err != nil {
				table.isDate = append(table.isDate, false)
				continue
			}
			table.isDate = append(table.isDate, dateconv.IsDateFormat(int(numFmtID), customFormats[int(numFmtID)]))
		}
	}
	return &table
}

// IsDate reports whether styleIdx names a date/time format. An out-of-range
// index (missing or unparsed styles.bin) reports false.
func (t *styleTable) IsDate(styleIdx int) bool {
	if t == nil || styleIdx < 0 || styleIdx >= len(t.isDate) {
		return false
	}
	return t.isDate[styleIdx]
}
