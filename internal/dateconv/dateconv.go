// Package dateconv implements the P2 temporal-normalization formula
// (Windows-epoch Excel serial to millisecond timestamp) and date-format
// detection for both adapters, grounded on go-xlsb's dateformat/styles
// packages.
package dateconv

import (
	"math"

	"github.com/xuri/nfp"
)

// msPerDay is the millisecond count in one Excel serial day.
const msPerDay = 86_400_000

// excelEpochOffsetDays is the day count between the Windows/1900 epoch base
// (1899-12-30, the conventional "day 0" under which serials from 61
// onward, 1900-03-01 and later, land on their true dates) and the Unix
// epoch (1970-01-01): 25569 days.
const excelEpochOffsetDays = 25569

// SerialToUnixMillis converts an Excel serial day value to milliseconds
// since 1970-01-01, per spec §4.5 P2: `((v - 25569) * 86_400_000)`,
// truncated toward zero, with the fractional (sub-day) part preserved at
// millisecond precision. The 1900 leap-year bug is intentionally NOT
// corrected for: serial 60 ("1900-02-29") maps exactly like any other
// serial, matching source-application semantics rather than a calendar
// that excludes the phantom day.
//
// A value v < 1.0 is treated as a bare time-of-day on the Unix epoch date
// (1970-01-01), since it has no integer day component of its own.
func SerialToUnixMillis(v float64) int64 {
	if v < 1.0 {
		v += excelEpochOffsetDays
	}
	ms := (v - excelEpochOffsetDays) * msPerDay
	return int64(math.Trunc(ms))
}

// IsBuiltInDateID reports whether a built-in Excel numFmtId represents a
// date, datetime, or time format (ECMA-376 §18.8.30 ranges 14-22, 27-36,
// 45-47, 50-58).
func IsBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// ScanFormatStr parses a custom number-format string with nfp and reports
// whether any section carries a date/time or elapsed-time token, to decide
// whether a custom (non-built-in) format represents a date/time.
func ScanFormatStr(formatStr string) bool {
	sections := nfp.NumberFormatParser().Parse(formatStr)
	for _, sec := range sections {
		for _, tok := range sec.Items {
			if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}

// IsDateFormat reports whether a number format (built-in ID plus optional
// custom format string override) represents a date/time. id >= 164 is
// always a custom format; ids below that fall back to formatStr only when
// non-empty (a custom override of a built-in slot).
func IsDateFormat(id int, formatStr string) bool {
	if formatStr != "" {
		return ScanFormatStr(formatStr)
	}
	return IsBuiltInDateID(id)
}
