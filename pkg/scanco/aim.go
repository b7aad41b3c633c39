package scanco

// AIM header codec: pre-header, image-struct and processing-log sections,
// in two field-width dialects (v020 32-bit, v030 64-bit).

const (
	aimV030Tag = "AIMDATA_V030    "

	aimV020StructSize = 140
	aimV030StructSize = 208
)

type aimPreHeader struct {
	PreHeaderLength      int64
	ImageStructLength    int64
	ProcessingLogLength  int64
	ImageDataLength      int64
	AssociatedDataLength int64
}

func aimIntSize(version HeaderVersion) int {
	if version == AimV030 {
		return 8
	}
	return 4
}

// aimPreHeaderSize returns the fixed size of the pre-header section for a
// dialect: five fields of aimIntSize(version) bytes each.
func aimPreHeaderSize(version HeaderVersion) int {
	return 5 * aimIntSize(version)
}

func decodeAIMPreHeader(buf []byte, version HeaderVersion) (aimPreHeader, error) {
	n := aimIntSize(version)
	if len(buf) < 5*n {
		return aimPreHeader{}, newErr(KindBadHeader, "AIM pre-header shorter than %d bytes", 5*n)
	}
	dec := func(i int) int64 {
		if n == 8 {
			return DecodeInt64(buf[i*n : i*n+n])
		}
		return int64(DecodeInt32(buf[i*n : i*n+n]))
	}
	return aimPreHeader{
		PreHeaderLength:      dec(0),
		ImageStructLength:    dec(1),
		ProcessingLogLength:  dec(2),
		ImageDataLength:      dec(3),
		AssociatedDataLength: dec(4),
	}, nil
}

func encodeAIMPreHeader(p aimPreHeader, version HeaderVersion) []byte {
	n := aimIntSize(version)
	out := make([]byte, 5*n)
	enc := func(i int, v int64) {
		if n == 8 {
			EncodeInt64(v, out[i*n:i*n+n])
		} else {
			EncodeInt32(int32(v), out[i*n:i*n+n])
		}
	}
	enc(0, p.PreHeaderLength)
	enc(1, p.ImageStructLength)
	enc(2, p.ProcessingLogLength)
	enc(3, p.ImageDataLength)
	enc(4, p.AssociatedDataLength)
	return out
}

// decodeAIMStruct fills in h's component, dimensions, spacing and origin
// from the image-struct section. buf holds exactly the struct bytes (its
// declared ImageStructLength).
func decodeAIMStruct(buf []byte, version HeaderVersion, h *ScancoHeader) error {
	var typeWord int32
	var dim, pos [3]int64
	var elementSize [3]float64

	if version == AimV020 {
		if len(buf) < aimV020StructSize {
			return newErr(KindBadHeader, "AIM v020 image-struct shorter than %d bytes", aimV020StructSize)
		}
		typeWord = DecodeInt32(buf[20:24])
		for i := 0; i < 3; i++ {
			pos[i] = int64(DecodeInt32(buf[24+4*i : 28+4*i]))
			dim[i] = int64(DecodeInt32(buf[36+4*i : 40+4*i]))
			elementSize[i] = float64(DecodeScancoFloat32(buf[108+4*i : 112+4*i]))
		}
	} else {
		if len(buf) < aimV030StructSize {
			return newErr(KindBadHeader, "AIM v030 image-struct shorter than %d bytes", aimV030StructSize)
		}
		typeWord = DecodeInt32(buf[12:16])
		for i := 0; i < 3; i++ {
			pos[i] = DecodeInt64(buf[16+8*i : 24+8*i])
			dim[i] = DecodeInt64(buf[40+8*i : 48+8*i])
			elementSize[i] = float64(DecodeInt64(buf[184+8*i:192+8*i])) * 1e-6
		}
	}

	info, err := lookupComponent(typeWord)
	if err != nil {
		return err
	}
	h.Geometry.ComponentTag = typeWord
	h.Geometry.Component = info.Kind
	h.Geometry.VectorLen = info.VectorLen
	h.Compression = info.Compression

	for i := 0; i < 3; i++ {
		if dim[i] < 1 {
			dim[i] = 1
		}
		h.Geometry.Dimensions[i] = int(dim[i])

		spacing := elementSize[i]
		if spacing == 0 {
			spacing = 1.0
		}
		h.Geometry.Spacing[i] = spacing
		h.Geometry.Origin[i] = float64(pos[i]) * spacing
	}
	return nil
}

// encodeAIMStruct is the inverse of decodeAIMStruct.
func encodeAIMStruct(h *ScancoHeader, version HeaderVersion) []byte {
	pos := [3]int64{}
	for i := 0; i < 3; i++ {
		if h.Geometry.Spacing[i] != 0 {
			pos[i] = int64(h.Geometry.Origin[i] / h.Geometry.Spacing[i])
		}
	}

	if version == AimV020 {
		out := make([]byte, aimV020StructSize)
		EncodeScancoFloat32(1.6, out[0:4]) // Version
		EncodeInt32(h.Geometry.ComponentTag, out[20:24])
		for i := 0; i < 3; i++ {
			EncodeInt32(int32(pos[i]), out[24+4*i:28+4*i])
			EncodeInt32(int32(h.Geometry.Dimensions[i]), out[36+4*i:40+4*i])
			EncodeScancoFloat32(float32(h.Geometry.Spacing[i]), out[108+4*i:112+4*i])
		}
		return out
	}

	out := make([]byte, aimV030StructSize)
	EncodeInt32(h.Geometry.ComponentTag, out[12:16])
	for i := 0; i < 3; i++ {
		EncodeInt64(pos[i], out[16+8*i:24+8*i])
		EncodeInt64(int64(h.Geometry.Dimensions[i]), out[40+8*i:48+8*i])
		EncodeInt64(int64(h.Geometry.Spacing[i]*1e6), out[184+8*i:192+8*i])
	}
	return out
}

// readAIMHeader parses a complete AIM header buffer: the 16-byte version
// tag (v030 only), the pre-header, the image-struct and the processing
// log, in that order. full must hold exactly HeaderSize bytes as computed
// by the caller from the pre-header lengths.
func readAIMHeader(full []byte, version HeaderVersion) (*ScancoHeader, error) {
	h := NewScancoHeader()
	h.Version = version

	off := 0
	if version == AimV030 {
		off = 16
	}

	pre, err := decodeAIMPreHeader(full[off:], version)
	if err != nil {
		return nil, err
	}
	off += int(pre.PreHeaderLength)

	if off+int(pre.ImageStructLength) > len(full) {
		return nil, newErr(KindBadHeader, "AIM image-struct extends past declared header size")
	}
	structBuf := full[off : off+int(pre.ImageStructLength)]
	if err := decodeAIMStruct(structBuf, version, h); err != nil {
		return nil, err
	}
	off += int(pre.ImageStructLength)

	if off+int(pre.ProcessingLogLength) > len(full) {
		return nil, newErr(KindBadHeader, "AIM processing log extends past declared header size")
	}
	logBuf := full[off : off+int(pre.ProcessingLogLength)]
	parseProcessingLog(logBuf, h)
	off += int(pre.ProcessingLogLength)

	h.HeaderSize = int64(off)
	h.applyMuScalingOverride()
	return h, nil
}

// writeAIMHeader composes a complete AIM header (tag + pre-header +
// image-struct + processing log) for the requested dialect.
func writeAIMHeader(h *ScancoHeader, version HeaderVersion, imageDataLength int64) []byte {
	structBuf := encodeAIMStruct(h, version)
	logBuf := composeProcessingLog(h)

	pre := aimPreHeader{
		PreHeaderLength:      int64(aimPreHeaderSize(version)),
		ImageStructLength:    int64(len(structBuf)),
		ProcessingLogLength:  int64(len(logBuf)),
		ImageDataLength:      imageDataLength,
		AssociatedDataLength: 0,
	}
	preBuf := encodeAIMPreHeader(pre, version)

	var out []byte
	if version == AimV030 {
		out = append(out, aimV030Tag...)
	}
	out = append(out, preBuf...)
	out = append(out, structBuf...)
	out = append(out, logBuf...)
	return out
}
