package scanco

import "math"

// Rescaling applies the linear transform x' = x·slope + intercept to a
// decoded pixel buffer. The (slope, intercept) pair has already been
// resolved by applyMuScalingOverride when the header was parsed, so the
// HU-calibration override (when MuScaling>1 and MuWater>0) is transparent
// here.

// needsRescale reports whether h's rescale pair differs from the
// identity transform.
func needsRescale(h *ScancoHeader) bool {
	return h.RescaleSlope != 1 || h.RescaleIntercept != 0
}

// RescaleToHU applies the forward transform in place, reading and
// writing buf according to h.Geometry.Component. Vector components are
// left untouched (out of scope for payload rescaling).
func RescaleToHU(h *ScancoHeader, buf []byte) error {
	if !needsRescale(h) || h.Geometry.VectorLen != 1 {
		return nil
	}
	return scaleBuffer(buf, h.Geometry.Component, func(x float64) float64 {
		return x*h.RescaleSlope + h.RescaleIntercept
	})
}

// RescaleFromHU applies the inverse transform, used on write to recover
// native units from calibrated values.
func RescaleFromHU(h *ScancoHeader, buf []byte) error {
	if !needsRescale(h) || h.Geometry.VectorLen != 1 {
		return nil
	}
	slope := h.RescaleSlope
	if slope == 0 {
		slope = 1
	}
	return scaleBuffer(buf, h.Geometry.Component, func(x float64) float64 {
		return (x - h.RescaleIntercept) / slope
	})
}

func scaleBuffer(buf []byte, kind ComponentKind, f func(float64) float64) error {
	width := kind.Bytes()
	if width == 0 {
		return newErr(KindUnsupportedComponent, "cannot rescale component kind %s", kind)
	}
	if len(buf)%width != 0 {
		return newErr(KindSequence, "pixel buffer length %d is not a multiple of component width %d", len(buf), width)
	}
	for off := 0; off < len(buf); off += width {
		elem := buf[off : off+width]
		switch kind {
		case ComponentI8:
			elem[0] = byte(int8(f(float64(int8(elem[0])))))
		case ComponentU8:
			elem[0] = byte(f(float64(elem[0])))
		case ComponentI16:
			v := int16(uint16(elem[0]) | uint16(elem[1])<<8)
			out := int16(f(float64(v)))
			elem[0] = byte(out)
			elem[1] = byte(out >> 8)
		case ComponentU16:
			v := uint16(elem[0]) | uint16(elem[1])<<8
			out := uint16(f(float64(v)))
			elem[0] = byte(out)
			elem[1] = byte(out >> 8)
		case ComponentI32:
			v := DecodeInt32(elem)
			out := int32(f(float64(v)))
			EncodeInt32(out, elem)
		case ComponentF32:
			v := math.Float32frombits(uint32(elem[0]) | uint32(elem[1])<<8 | uint32(elem[2])<<16 | uint32(elem[3])<<24)
			out := float32(f(float64(v)))
			bits := math.Float32bits(out)
			elem[0] = byte(bits)
			elem[1] = byte(bits >> 8)
			elem[2] = byte(bits >> 16)
			elem[3] = byte(bits >> 24)
		default:
			return newErr(KindUnsupportedComponent, "cannot rescale component kind %s", kind)
		}
	}
	return nil
}
