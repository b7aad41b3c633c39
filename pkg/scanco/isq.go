package scanco

import (
	"bytes"
	"math"
)

// ISQ/RAD header codec. Both dialects share the first 512-byte block; the
// variant-dependent payload at offset 68 differs, and RAD is 2-D (z
// spacing forced to 1).
//
// The write path emits five 512-byte blocks: primary, a MultiHeader
// marker, a Calibration descriptor slot, and a two-block calibration
// body (2560 bytes total, DataOffset=4). Offsets below are internally
// consistent with that layout so a header this package writes always
// reads back unchanged.

const (
	ctBlockSize      = 512
	ctHeaderTag      = "CTDATA-HEADER_V1"
	ctExtDescSize    = 128
	ctExtHeaderBytes = 2048 // MultiHeader block + 4 descriptor slots + calibration body
)

// readISQHeader parses a CTHeaderV1 stream. block0 must hold at least the
// first 512 bytes; extra provides everything from offset 512 onward (the
// extended header region), already read by the caller.
func readISQHeader(block0 []byte, extra []byte) (*ScancoHeader, error) {
	if len(block0) < ctBlockSize {
		return nil, newErr(KindBadHeader, "ISQ primary block shorter than %d bytes", ctBlockSize)
	}
	h := NewScancoHeader()
	h.Version = CTHeaderV1

	dataType := DecodeInt32(block0[16:20])
	h.PatientIndex = DecodeInt32(block0[28:32])
	h.ScannerID = DecodeInt32(block0[32:36])
	h.CreationDate = DecodeVMSTicks(DecodeInt64(block0[36:44]))

	var pixdim, physdim [3]int32
	for i := 0; i < 3; i++ {
		pixdim[i] = DecodeInt32(block0[44+4*i : 48+4*i])
		h.ScanDimensionsPixels[i] = pixdim[i]
	}
	for i := 0; i < 3; i++ {
		physdim[i] = DecodeInt32(block0[56+4*i : 60+4*i])
	}

	isRAD := dataType == 9 || physdim[2] == 0

	for i := 0; i < 3; i++ {
		if isRAD {
			h.ScanDimensionsPhysical[i] = float64(physdim[i]) * 1e-6
		} else {
			h.ScanDimensionsPhysical[i] = float64(physdim[i]) * 1e-3
		}
		dim := pixdim[i]
		if dim < 1 {
			dim = 1
		}
		h.Geometry.Dimensions[i] = int(dim)
		if isRAD && i == 2 {
			h.Geometry.Spacing[i] = 1.0
		} else {
			phys := h.ScanDimensionsPhysical[i]
			if phys == 0 {
				phys = 1.0
			}
			h.Geometry.Spacing[i] = phys / float64(dim)
		}
	}

	payload := block0[68:508]
	if isRAD {
		decodeRADPayload(h, payload)
	} else {
		decodeISQPayload(h, payload)
	}

	dataOffset := DecodeInt32(block0[508:512])
	h.HeaderSize = int64(dataOffset+1) * ctBlockSize
	if h.HeaderSize <= 0 {
		return nil, newErr(KindBadHeader, "ISQ DataOffset yields non-positive header size")
	}

	h.Geometry.Component = ComponentI16
	h.Geometry.VectorLen = 1
	h.Compression = CompressionNone

	if h.HeaderSize >= 2048 && int64(len(extra)) >= h.HeaderSize-ctBlockSize {
		readExtendedHeader(h, extra)
	}

	h.applyMuScalingOverride()
	return h, nil
}

func decodeISQPayload(h *ScancoHeader, p []byte) {
	h.SliceThickness = float64(DecodeInt32(p[0:4])) / 1000.0
	h.SliceIncrement = float64(DecodeInt32(p[4:8])) / 1000.0
	h.StartPosition = float64(DecodeInt32(p[8:12])) / 1000.0
	h.DataRange[0] = DecodeInt32(p[12:16])
	h.DataRange[1] = DecodeInt32(p[16:20])
	h.MuScaling = float64(DecodeInt32(p[20:24]))
	h.NumberOfSamples = DecodeInt32(p[24:28])
	h.NumberOfProjections = DecodeInt32(p[28:32])
	h.ScanDistance = float64(DecodeInt32(p[32:36])) / 1000.0
	h.ScannerType = DecodeInt32(p[36:40])
	h.SampleTime = float64(DecodeInt32(p[40:44])) / 1000.0
	h.MeasurementIndex = DecodeInt32(p[44:48])
	h.Site = DecodeInt32(p[48:52])
	h.ReferenceLine = float64(DecodeInt32(p[52:56])) / 1000.0
	h.ReconstructionAlg = DecodeInt32(p[56:60])
	h.PatientName = strip(p[60:100], 40)
	h.Energy = float64(DecodeInt32(p[100:104])) / 1000.0
	h.Intensity = float64(DecodeInt32(p[104:108])) / 1000.0

	dimZ := h.Geometry.Dimensions[2]
	h.EndPosition = h.StartPosition + h.Geometry.Spacing[2]*float64(dimZ-1)/float64(dimZ)

	computedSpacing := h.Geometry.Spacing[2]
	if math.Abs(computedSpacing-h.SliceThickness) < 1.1e-3 {
		h.SliceThickness = computedSpacing
	}
	if math.Abs(computedSpacing-h.SliceIncrement) < 1.1e-3 {
		h.SliceIncrement = computedSpacing
	}
}

func decodeRADPayload(h *ScancoHeader, p []byte) {
	h.MeasurementIndex = DecodeInt32(p[0:4])
	h.DataRange[0] = DecodeInt32(p[4:8])
	h.DataRange[1] = DecodeInt32(p[8:12])
	h.MuScaling = float64(DecodeInt32(p[12:16]))
	h.PatientName = strip(p[16:56], 40)
	h.ZPosition = float64(DecodeInt32(p[56:60])) / 1000.0
	// p[60:64] reserved
	h.SampleTime = float64(DecodeInt32(p[64:68])) / 1000.0
	h.Energy = float64(DecodeInt32(p[68:72])) / 1000.0
	h.Intensity = float64(DecodeInt32(p[72:76])) / 1000.0
	h.ReferenceLine = float64(DecodeInt32(p[76:80])) / 1000.0
	h.StartPosition = float64(DecodeInt32(p[80:84])) / 1000.0
	h.EndPosition = float64(DecodeInt32(p[84:88])) / 1000.0
}

// readExtendedHeader walks the descriptor chain starting at relative
// offset 0 of extra (absolute file offset 512) and fills in calibration
// fields when a Calibration descriptor is present. extra is everything
// from offset 512 to HeaderSize.
func readExtendedHeader(h *ScancoHeader, extra []byte) {
	start := 0
	if len(extra) >= ctBlockSize && bytes.HasPrefix(extra[8:], []byte("MultiHeader")) {
		start = ctBlockSize
	}

	found := false
	for i := 0; i < 4; i++ {
		descOff := start + i*ctExtDescSize
		if descOff+ctExtDescSize > len(extra) {
			break
		}
		desc := extra[descOff : descOff+ctExtDescSize]
		name := strip(desc[8:24], 16)
		if name == "Calibration" {
			found = true
			break
		}
	}
	if !found {
		return
	}

	bodyOff := start + 4*ctExtDescSize
	if bodyOff >= len(extra) {
		return
	}
	body := extra[bodyOff:]
	if len(body) < 1024 {
		return
	}

	h.CalibrationData = strip(body[28:92], 64)
	h.RescaleType = DecodeInt32(body[632:636])
	h.RescaleUnits = strip(body[648:664], 16)
	h.RescaleSlope = DecodeScancoFloat64(body[664:672])
	h.RescaleIntercept = DecodeScancoFloat64(body[672:680])
	h.MuWater = DecodeScancoFloat64(body[688:696])

	if h.MuScaling > 1 {
		h.RescaleSlope /= h.MuScaling
	}
}

// writeISQHeader composes a 2560-byte CTHeaderV1 header: the primary
// block, a MultiHeader marker block, a Calibration descriptor slot and
// the calibration body.
func writeISQHeader(h *ScancoHeader) []byte {
	out := make([]byte, ctBlockSize+ctExtHeaderBytes)

	block0 := out[0:512]
	copy(block0[0:16], ctHeaderTag)
	EncodeInt32(3, block0[16:20]) // DataType
	EncodeInt32(0, block0[20:24])
	EncodeInt32(0, block0[24:28])
	EncodeInt32(h.PatientIndex, block0[28:32])
	EncodeInt32(h.ScannerID, block0[32:36])

	ticks, err := EncodeVMSTicks(h.CreationDate)
	if err != nil {
		ticks = 0
	}
	EncodeInt64(ticks, block0[36:44])

	for i := 0; i < 3; i++ {
		EncodeInt32(int32(h.Geometry.Dimensions[i]), block0[44+4*i:48+4*i])
	}
	for i := 0; i < 3; i++ {
		physUm := int32(h.Geometry.Spacing[i] * float64(h.Geometry.Dimensions[i]) * 1000.0)
		EncodeInt32(physUm, block0[56+4*i:60+4*i])
	}

	payload := block0[68:508]
	encodeISQPayload(h, payload)

	EncodeInt32(4, block0[508:512]) // DataOffset: four reserved extended blocks

	multiHeader := out[512:1024]
	copy(multiHeader[8:8+16], []byte("MultiHeader     "))

	calibDesc := out[1024 : 1024+ctExtDescSize]
	copy(calibDesc[8:8+16], []byte("Calibration     "))
	EncodeInt32(2, calibDesc[24:28])

	body := out[1024+4*ctExtDescSize:]
	copy(body[28:28+64], pad(h.CalibrationData, 64))
	EncodeInt32(h.RescaleType, body[632:636])
	copy(body[648:664], pad(h.RescaleUnits, 16))
	EncodeScancoFloat64(h.RescaleSlope, body[664:672])
	EncodeScancoFloat64(h.RescaleIntercept, body[672:680])
	EncodeScancoFloat64(h.MuWater, body[688:696])

	return out
}

func encodeISQPayload(h *ScancoHeader, p []byte) {
	EncodeInt32(int32(h.SliceThickness*1000), p[0:4])
	EncodeInt32(int32(h.SliceIncrement*1000), p[4:8])
	EncodeInt32(int32(h.StartPosition*1000), p[8:12])
	EncodeInt32(h.DataRange[0], p[12:16])
	EncodeInt32(h.DataRange[1], p[16:20])
	EncodeInt32(int32(h.MuScaling), p[20:24])
	EncodeInt32(h.NumberOfSamples, p[24:28])
	EncodeInt32(h.NumberOfProjections, p[28:32])
	EncodeInt32(int32(h.ScanDistance*1000), p[32:36])
	EncodeInt32(h.ScannerType, p[36:40])
	EncodeInt32(int32(h.SampleTime*1000), p[40:44])
	EncodeInt32(h.MeasurementIndex, p[44:48])
	EncodeInt32(h.Site, p[48:52])
	EncodeInt32(int32(h.ReferenceLine*1000), p[52:56])
	EncodeInt32(h.ReconstructionAlg, p[56:60])
	copy(p[60:100], pad(h.PatientName, 40))
	EncodeInt32(int32(h.Energy*1000), p[100:104])
	EncodeInt32(int32(h.Intensity*1000), p[104:108])
}
