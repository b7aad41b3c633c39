package scanco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader(version HeaderVersion) *ScancoHeader {
	h := NewScancoHeader()
	h.Version = version
	h.PatientName = "Test Patient"
	h.PatientIndex = 42
	h.ScannerID = 7
	h.CreationDate = "1-JAN-2020 00:00:00.000"
	h.Geometry.Dimensions = [3]int{4, 3, 2}
	h.Geometry.Spacing = [3]float64{0.05, 0.05, 0.05}
	h.Geometry.Component = ComponentI16
	h.Geometry.VectorLen = 1
	h.Geometry.ComponentTag = 0x00020002
	h.Compression = CompressionNone
	h.RescaleSlope = 1.0
	h.RescaleIntercept = 0.0
	h.MuScaling = 1.0
	h.MuWater = 0.7033
	return h
}

func samplePixels(h *ScancoHeader) []byte {
	n := int(h.Geometry.PixelBytes())
	buf := make([]byte, n)
	for i := 0; i < n/2; i++ {
		v := int16(i - 5)
		buf[2*i] = byte(v)
		buf[2*i+1] = byte(v >> 8)
	}
	return buf
}

func TestISQRoundTrip(t *testing.T) {
	h := sampleHeader(CTHeaderV1)
	pixels := samplePixels(h)

	f := &memFile{}
	wr := NewWriter(f)
	require.NoError(t, wr.WriteHeader(h, int64(len(pixels))))
	require.NoError(t, wr.WritePixels(h, pixels))

	f.pos = 0
	rd := NewReader(f)
	got, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, CTHeaderV1, got.Version)
	assert.Equal(t, h.PatientIndex, got.PatientIndex)
	assert.Equal(t, h.ScannerID, got.ScannerID)
	assert.Equal(t, h.Geometry.Dimensions, got.Geometry.Dimensions)
	assert.InDelta(t, h.Geometry.Spacing[0], got.Geometry.Spacing[0], 1e-3)

	out := make([]byte, got.Geometry.PixelBytes())
	require.NoError(t, rd.ReadPixels(got, out))
	assert.Equal(t, pixels, out)
}

func TestAIMRoundTripV030(t *testing.T) {
	h := sampleHeader(AimV030)
	pixels := samplePixels(h)

	f := &memFile{}
	wr := NewWriter(f)
	require.NoError(t, wr.WriteHeader(h, int64(len(pixels))))
	require.NoError(t, wr.WritePixels(h, pixels))

	f.pos = 0
	rd := NewReader(f)
	got, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, AimV030, got.Version)
	assert.Equal(t, h.Geometry.Dimensions, got.Geometry.Dimensions)
	assert.Equal(t, h.Geometry.ComponentTag, got.Geometry.ComponentTag)

	out := make([]byte, got.Geometry.PixelBytes())
	require.NoError(t, rd.ReadPixels(got, out))
	assert.Equal(t, pixels, out)
}

func TestAIMRoundTripV020(t *testing.T) {
	h := sampleHeader(AimV020)
	pixels := samplePixels(h)

	f := &memFile{}
	wr := NewWriter(f)
	require.NoError(t, wr.WriteHeader(h, int64(len(pixels))))
	require.NoError(t, wr.WritePixels(h, pixels))

	f.pos = 0
	rd := NewReader(f)
	got, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, AimV020, got.Version)
	assert.Equal(t, h.Geometry.Dimensions, got.Geometry.Dimensions)

	out := make([]byte, got.Geometry.PixelBytes())
	require.NoError(t, rd.ReadPixels(got, out))
	assert.Equal(t, pixels, out)
}

func TestReaderRejectsUnrecognizedSignature(t *testing.T) {
	f := &memFile{buf: make([]byte, 32)}
	rd := NewReader(f)
	_, err := rd.ReadHeader()
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindUnrecognizedVersion, scancoErr.Kind)
}

func TestReaderRejectsPixelsBeforeHeader(t *testing.T) {
	f := &memFile{}
	rd := NewReader(f)
	err := rd.ReadPixels(NewScancoHeader(), make([]byte, 10))
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindSequence, scancoErr.Kind)
}

func TestWriterRejectsUnsupportedVersion(t *testing.T) {
	f := &memFile{}
	wr := NewWriter(f)
	h := NewScancoHeader()
	h.Version = Unknown
	err := wr.WriteHeader(h, 0)
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindUnsupportedWriteFormat, scancoErr.Kind)
}

func TestWriterRejectsPixelsBeforeHeader(t *testing.T) {
	f := &memFile{}
	wr := NewWriter(f)
	h := sampleHeader(CTHeaderV1)
	err := wr.WritePixels(h, make([]byte, 10))
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindSequence, scancoErr.Kind)
}

func TestDetectExtension(t *testing.T) {
	assert.Equal(t, ExtISQ, DetectExtension("scan.ISQ"))
	assert.Equal(t, ExtRSQ, DetectExtension("scan.rsq"))
	assert.Equal(t, ExtRAD, DetectExtension("scan.Rad"))
	assert.Equal(t, ExtAIM, DetectExtension("scan.aim"))
	assert.Equal(t, ExtUnrecognized, DetectExtension("scan.txt"))
	assert.Equal(t, ExtUnrecognized, DetectExtension("noextension"))
}
