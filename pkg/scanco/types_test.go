package scanco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectVersion(t *testing.T) {
	assert.Equal(t, CTHeaderV1, DetectVersion([]byte("CTDATA-HEADER_V1")))
	assert.Equal(t, AimV030, DetectVersion([]byte("AIMDATA_V030   X")))

	v020 := make([]byte, 16)
	EncodeInt32(20, v020[0:4])
	EncodeInt32(140, v020[4:8])
	assert.Equal(t, AimV020, DetectVersion(v020))

	assert.Equal(t, Unknown, DetectVersion([]byte("garbage bytes!!!")))
	assert.Equal(t, Unknown, DetectVersion([]byte("short")))
}

func TestCanRead(t *testing.T) {
	assert.True(t, CanRead([]byte("CTDATA-HEADER_V1")))
	assert.False(t, CanRead([]byte("not a valid sig!")))
}

func TestLookupComponent(t *testing.T) {
	info, err := lookupComponent(0x00020002)
	assert.NoError(t, err)
	assert.Equal(t, ComponentI16, info.Kind)
	assert.Equal(t, 1, info.VectorLen)
	assert.Equal(t, CompressionNone, info.Compression)

	info, err = lookupComponent(0x00060001)
	assert.NoError(t, err)
	assert.Equal(t, CompressionPackedBits, info.Compression)

	badTypeWord := uint32(0xDEADBEEF)
	_, err = lookupComponent(int32(badTypeWord))
	assert.Error(t, err)
}

func TestPixelGeometryBytes(t *testing.T) {
	g := PixelGeometry{Dimensions: [3]int{10, 10, 5}, Component: ComponentI16, VectorLen: 1}
	assert.Equal(t, int64(500), g.Voxels())
	assert.Equal(t, int64(1000), g.PixelBytes())

	vec := PixelGeometry{Dimensions: [3]int{2, 2, 2}, Component: ComponentU8, VectorLen: 3}
	assert.Equal(t, int64(24), vec.PixelBytes())
}

func TestApplyMuScalingOverride(t *testing.T) {
	h := NewScancoHeader()
	h.MuScaling = 2000
	h.MuWater = 0.25
	h.applyMuScalingOverride()
	assert.InDelta(t, 2.0, h.RescaleSlope, 1e-9)
	assert.Equal(t, -1000.0, h.RescaleIntercept)

	h2 := NewScancoHeader()
	h2.MuScaling = 0.5 // below threshold, no override
	h2.MuWater = 0.25
	h2.applyMuScalingOverride()
	assert.Equal(t, 1.0, h2.RescaleSlope)
	assert.Equal(t, 0.0, h2.RescaleIntercept)
}
