package scanco

// HeaderVersion identifies which on-disk format a stream's first 16
// bytes selected.
type HeaderVersion int

const (
	// Unknown means the first 16 bytes matched no known signature.
	Unknown HeaderVersion = iota
	// CTHeaderV1 covers ISQ, RSQ and RAD, which share one header layout.
	CTHeaderV1
	// AimV020 is the legacy 32-bit-field AIM dialect.
	AimV020
	// AimV030 is the current 64-bit-field AIM dialect.
	AimV030
)

func (v HeaderVersion) String() string {
	switch v {
	case CTHeaderV1:
		return "CTHeaderV1"
	case AimV020:
		return "AimV020"
	case AimV030:
		return "AimV030"
	default:
		return "Unknown"
	}
}

// ComponentKind is the abstract pixel component type decoded from an AIM
// Type word or assumed for ISQ/RAD (always i16 scalar).
type ComponentKind int

const (
	ComponentUnknown ComponentKind = iota
	ComponentI8
	ComponentU8
	ComponentI16
	ComponentU16
	ComponentI32
	ComponentF32
)

// Bytes returns the size in bytes of one scalar component of this kind.
func (c ComponentKind) Bytes() int {
	switch c {
	case ComponentI8, ComponentU8:
		return 1
	case ComponentI16, ComponentU16:
		return 2
	case ComponentI32, ComponentF32:
		return 4
	default:
		return 0
	}
}

func (c ComponentKind) String() string {
	switch c {
	case ComponentI8:
		return "i8"
	case ComponentU8:
		return "u8"
	case ComponentI16:
		return "i16"
	case ComponentU16:
		return "u16"
	case ComponentI32:
		return "i32"
	case ComponentF32:
		return "f32"
	default:
		return "unknown"
	}
}

// Compression identifies the pixel payload's on-disk encoding.
type Compression int32

const (
	CompressionNone      Compression = 0
	CompressionPackedBits Compression = 0x00B1
	CompressionRLE1Bit    Compression = 0x00B2
	CompressionRLE8Bit    Compression = 0x00C2
)

// componentInfo is one row of the AIM Type-word lookup table from the
// component-type table.
type componentInfo struct {
	Kind        ComponentKind
	VectorLen   int // 1 for scalar, 3 for vector pixels
	Compression Compression
}

// componentTable maps an AIM Type word to its decoded component kind,
// pixel shape and compression scheme. Vector pixels are read as raw
// interleaved bytes (PixelBytes counts VectorLen); rescaling skips them.
var componentTable = map[int32]componentInfo{
	0x00160001: {ComponentU8, 1, CompressionNone},
	0x000D0001: {ComponentU8, 1, CompressionNone},
	0x00120003: {ComponentU8, 3, CompressionNone},
	0x00010001: {ComponentI8, 1, CompressionNone},
	0x00060003: {ComponentI8, 3, CompressionNone},
	0x00170002: {ComponentU16, 1, CompressionNone},
	0x00020002: {ComponentI16, 1, CompressionNone},
	0x00030004: {ComponentI32, 1, CompressionNone},
	0x001A0004: {ComponentF32, 1, CompressionNone},
	0x00150001: {ComponentI8, 1, CompressionRLE1Bit},
	0x00080002: {ComponentI8, 1, CompressionRLE8Bit},
	0x00060001: {ComponentI8, 1, CompressionPackedBits},
}

// lookupComponent resolves an AIM Type word, returning
// KindUnsupportedComponent if it has no entry.
func lookupComponent(typeWord int32) (componentInfo, error) {
	info, ok := componentTable[typeWord]
	if !ok {
		return componentInfo{}, newErr(KindUnsupportedComponent, "unrecognized AIM type word 0x%08X", uint32(typeWord))
	}
	return info, nil
}

// PixelGeometry describes the pixel array's shape and physical placement,
// independent of which header format produced it.
type PixelGeometry struct {
	Dimensions   [3]int
	Spacing      [3]float64 // mm
	Origin       [3]float64 // mm
	ComponentTag int32      // raw AIM Type word; 0 for ISQ/RAD
	Component    ComponentKind
	VectorLen    int
}

// Voxels returns the total element count (Dimensions[0]*[1]*[2]).
func (g PixelGeometry) Voxels() int64 {
	return int64(g.Dimensions[0]) * int64(g.Dimensions[1]) * int64(g.Dimensions[2])
}

// PixelBytes returns the decoded (uncompressed) payload size in bytes.
func (g PixelGeometry) PixelBytes() int64 {
	vlen := g.VectorLen
	if vlen == 0 {
		vlen = 1
	}
	return g.Voxels() * int64(g.Component.Bytes()) * int64(vlen)
}

// ScancoHeader is the plain aggregate shared by every format this package
// reads and writes. Fields not meaningful for a given format keep the
// value NewScancoHeader gave them.
type ScancoHeader struct {
	Version HeaderVersion

	// identity
	PatientName       string
	PatientIndex      int32
	ScannerID         int32
	MeasurementIndex  int32
	Site              int32
	ScannerType       int32
	ReconstructionAlg int32

	// dates, formatted "D-MMM-YYYY HH:MM:SS.mmm"
	CreationDate     string
	ModificationDate string

	// geometry
	ScanDimensionsPixels   [3]int32
	ScanDimensionsPhysical [3]float64 // mm
	SliceThickness         float64
	SliceIncrement         float64
	StartPosition          float64
	EndPosition            float64
	ZPosition              float64

	// acquisition
	NumberOfSamples     int32
	NumberOfProjections int32
	ScanDistance        float64 // mm
	SampleTime          float64 // ms
	ReferenceLine       float64 // mm
	Energy              float64 // kV
	Intensity           float64 // mA

	// data / calibration
	DataRange        [2]int32
	MuScaling        float64
	MuWater          float64
	RescaleType      int32
	RescaleUnits     string
	CalibrationData  string
	RescaleSlope     float64
	RescaleIntercept float64

	// payload
	Geometry    PixelGeometry
	Compression Compression
	HeaderSize  int64
}

// NewScancoHeader returns a header with every field at its documented
// default: MuScaling=1, MuWater=0.7033, RescaleSlope=1, RescaleIntercept=0.
func NewScancoHeader() *ScancoHeader {
	return &ScancoHeader{
		MuScaling:        1.0,
		MuWater:          0.7033,
		RescaleSlope:     1.0,
		RescaleIntercept: 0.0,
	}
}

// applyMuScalingOverride implements the HU-calibration override: when
// MuScaling exceeds 1.0 and MuWater is positive, the rescale pair is
// replaced regardless of what was read from disk.
func (h *ScancoHeader) applyMuScalingOverride() {
	if h.MuScaling > 1.0 && h.MuWater > 0 {
		h.RescaleSlope = 1000.0 / (h.MuWater * h.MuScaling)
		h.RescaleIntercept = -1000.0
	}
}

// DetectVersion sniffs the first 16 bytes of a stream and returns which
// format, if any, they identify.
func DetectVersion(first16 []byte) HeaderVersion {
	if len(first16) < 16 {
		return Unknown
	}
	if string(first16[:16]) == "CTDATA-HEADER_V1" {
		return CTHeaderV1
	}
	if string(first16[:15]) == "AIMDATA_V030   " {
		return AimV030
	}
	if DecodeInt32(first16[0:4]) == 20 && DecodeInt32(first16[4:8]) == 140 {
		return AimV020
	}
	return Unknown
}

// CanRead reports whether first16 identifies a format this package reads.
func CanRead(first16 []byte) bool {
	return DetectVersion(first16) != Unknown
}
