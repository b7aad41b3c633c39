package scanco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISQHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := NewScancoHeader()
	h.Version = CTHeaderV1
	h.PatientIndex = 100
	h.ScannerID = 3
	h.CreationDate = "5-MAR-2021 10:15:30.000"
	h.Geometry.Dimensions = [3]int{8, 8, 4}
	h.Geometry.Spacing = [3]float64{0.08, 0.08, 0.08}
	h.PatientName = "Roundtrip Subject"
	h.ReconstructionAlg = 5
	h.CalibrationData = "Scanco 0.8-CP-1"
	h.RescaleUnits = "mgHA/ccm"
	h.RescaleSlope = 0.82
	h.RescaleIntercept = -42.3

	buf := writeISQHeader(h)
	require.Len(t, buf, ctBlockSize+ctExtHeaderBytes)

	got, err := readISQHeader(buf[:ctBlockSize], buf[ctBlockSize:])
	require.NoError(t, err)

	assert.Equal(t, h.PatientIndex, got.PatientIndex)
	assert.Equal(t, h.ScannerID, got.ScannerID)
	assert.Equal(t, h.CreationDate, got.CreationDate)
	assert.Equal(t, h.Geometry.Dimensions, got.Geometry.Dimensions)
	assert.InDelta(t, h.Geometry.Spacing[0], got.Geometry.Spacing[0], 1e-3)
	assert.Equal(t, h.PatientName, got.PatientName)
	assert.Equal(t, h.CalibrationData, got.CalibrationData)
	assert.Equal(t, h.RescaleUnits, got.RescaleUnits)
	assert.InDelta(t, h.RescaleSlope, got.RescaleSlope, 1e-4)
	assert.InDelta(t, h.RescaleIntercept, got.RescaleIntercept, 1e-4)
	assert.Equal(t, int64(ctBlockSize+ctExtHeaderBytes), got.HeaderSize)
}

func TestISQHeaderMuScalingOverride(t *testing.T) {
	h := NewScancoHeader()
	h.Version = CTHeaderV1
	h.Geometry.Dimensions = [3]int{2, 2, 2}
	h.Geometry.Spacing = [3]float64{1, 1, 1}
	h.MuScaling = 4096
	h.MuWater = 0.2

	buf := writeISQHeader(h)
	got, err := readISQHeader(buf[:ctBlockSize], buf[ctBlockSize:])
	require.NoError(t, err)

	wantSlope := 1000.0 / (0.2 * 4096)
	assert.InDelta(t, wantSlope, got.RescaleSlope, 1e-6)
	assert.InDelta(t, -1000.0, got.RescaleIntercept, 1e-9)
}

func TestReadISQHeaderRejectsShortBlock(t *testing.T) {
	_, err := readISQHeader(make([]byte, 10), nil)
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindBadHeader, scancoErr.Kind)
}
