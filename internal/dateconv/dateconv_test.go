package dateconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialToUnixMillis_RoundTrip2(t *testing.T) {
	// 2023-01-01T00:00:00Z
	assert.Equal(t, int64(1_672_531_200_000), SerialToUnixMillis(44927.0))
}

func TestSerialToUnixMillis_SubDayPrecision(t *testing.T) {
	// 44928.5 -> 2023-01-02 12:00:00
	got := SerialToUnixMillis(44928.5)
	assert.Equal(t, int64(1_672_660_800_000), got)
}

func TestSerialToUnixMillis_FractionalBelowOneIsTimeOfDay(t *testing.T) {
	got := SerialToUnixMillis(0.5)
	assert.Equal(t, int64(12*60*60*1000), got)
}

func TestSerialToUnixMillis_PreservesLeapYearBug(t *testing.T) {
	// serial 60 is the nonexistent 1900-02-29; the formula applies uniformly,
	// no day is skipped or added around it.
	got59 := SerialToUnixMillis(59)
	got60 := SerialToUnixMillis(60)
	assert.Equal(t, int64(msPerDay), got60-got59)
}

func TestIsBuiltInDateID(t *testing.T) {
	assert.True(t, IsBuiltInDateID(14))
	assert.True(t, IsBuiltInDateID(22))
	assert.False(t, IsBuiltInDateID(0))
	assert.False(t, IsBuiltInDateID(23))
}

func TestScanFormatStr(t *testing.T) {
	assert.True(t, ScanFormatStr("yyyy-mm-dd"))
	assert.False(t, ScanFormatStr(`"yyyy"0.00`))
	assert.False(t, ScanFormatStr("0.00E+0"))
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, IsDateFormat(14, ""))
	assert.False(t, IsDateFormat(1, ""))
	assert.True(t, IsDateFormat(200, "yyyy/mm/dd"))
}
