package scanco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInt32RoundTrip(t *testing.T) {
	tests := []int32{0, 1, -1, 2147483647, -2147483648, 12345}
	for _, v := range tests {
		buf := make([]byte, 4)
		EncodeInt32(v, buf)
		assert.Equal(t, v, DecodeInt32(buf))
	}
}

func TestEncodeDecodeInt64RoundTrip(t *testing.T) {
	tests := []int64{0, 1, -1, 9223372036854775807, -9223372036854775808, 123456789012}
	for _, v := range tests {
		buf := make([]byte, 8)
		EncodeInt64(v, buf)
		assert.Equal(t, v, DecodeInt64(buf))
	}
}

func TestScancoFloat32RoundTrip(t *testing.T) {
	tests := []float32{0, 1, -1, 0.5, 123.456, -9876.5}
	for _, v := range tests {
		buf := make([]byte, 4)
		EncodeScancoFloat32(v, buf)
		got := DecodeScancoFloat32(buf)
		assert.InDelta(t, v, got, 1e-3)
	}
}

func TestScancoFloat64RoundTrip(t *testing.T) {
	tests := []float64{0, 1, -1, 0.5, 123.456789, -9876.54321}
	for _, v := range tests {
		buf := make([]byte, 8)
		EncodeScancoFloat64(v, buf)
		got := DecodeScancoFloat64(buf)
		assert.InDelta(t, v, got, 1e-6)
	}
}

func TestVMSTicksRoundTrip(t *testing.T) {
	tests := []string{
		"1-JAN-2020 00:00:00.000",
		"17-NOV-1858 00:00:00.000",
		"31-DEC-1999 23:59:59.999",
		"29-FEB-2020 12:30:45.500",
	}
	for _, date := range tests {
		t.Run(date, func(t *testing.T) {
			ticks, err := EncodeVMSTicks(date)
			require.NoError(t, err)
			got := DecodeVMSTicks(ticks)
			assert.Equal(t, date, got)
		})
	}
}

func TestEncodeVMSTicksRejectsUnparseable(t *testing.T) {
	_, err := EncodeVMSTicks("not a date")
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindBadHeader, scancoErr.Kind)
}

func TestStripTrimsNulAndTrailingSpaces(t *testing.T) {
	buf := []byte("hello   \x00garbage")
	assert.Equal(t, "hello", strip(buf, len(buf)))
}

func TestPadTruncatesAndFills(t *testing.T) {
	assert.Equal(t, []byte("ab  "), pad("ab", 4))
	assert.Equal(t, []byte("abcd"), pad("abcdef", 4))
}
