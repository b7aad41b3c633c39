package scanco

import (
	"io"
	"strings"
)

// Facade: format sniffing, extension dispatch and the four public
// operations (CanRead, ReadHeader, ReadPixels, WriteHeader+WritePixels).
// A Reader/Writer owns its raw header buffer for the duration of one
// operation; distinct instances may be driven from separate goroutines,
// but one instance is not safe to share across them.

// Extension classifies a file-extension hint for write dispatch and for
// diagnosing contents that disagree with the name they were found under.
type Extension int

const (
	ExtUnrecognized Extension = iota
	ExtISQ
	ExtRSQ
	ExtRAD
	ExtAIM
)

// DetectExtension classifies the last '.'-delimited token of name,
// case-insensitively.
func DetectExtension(name string) Extension {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return ExtUnrecognized
	}
	switch strings.ToUpper(name[dot+1:]) {
	case "ISQ":
		return ExtISQ
	case "RSQ":
		return ExtRSQ
	case "RAD":
		return ExtRAD
	case "AIM":
		return ExtAIM
	default:
		return ExtUnrecognized
	}
}

// Reader decodes one ISQ/RAD/RSQ/AIM stream. Its state machine rejects
// ReadPixels before a successful ReadHeader.
type Reader struct {
	r      io.ReadSeeker
	state  readState
	header *ScancoHeader
}

// NewReader wraps r for header and pixel decoding. r is not read until
// ReadHeader is called.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r, state: readUnread}
}

// ReadHeader sniffs the stream's format from its first 16 bytes and
// decodes the full header. It may be called only once per Reader.
func (rd *Reader) ReadHeader() (*ScancoHeader, error) {
	if rd.state != readUnread {
		return nil, newErr(KindSequence, "ReadHeader called out of order")
	}

	if _, err := rd.r.Seek(0, io.SeekStart); err != nil {
		return nil, wrapErr(KindIO, err, "seeking to start of stream")
	}
	first16 := make([]byte, 16)
	if _, err := io.ReadFull(rd.r, first16); err != nil {
		return nil, wrapErr(KindIO, err, "reading format signature")
	}

	version := DetectVersion(first16)
	var h *ScancoHeader
	var err error
	switch version {
	case CTHeaderV1:
		h, err = rd.readISQ(first16)
	case AimV020, AimV030:
		h, err = rd.readAIM(version, first16)
	default:
		return nil, newErr(KindUnrecognizedVersion, "first 16 bytes match no known format signature")
	}
	if err != nil {
		return nil, err
	}

	rd.header = h
	rd.state = readHeaderDone
	return h, nil
}

func (rd *Reader) readISQ(first16 []byte) (*ScancoHeader, error) {
	block0 := make([]byte, ctBlockSize)
	copy(block0, first16)
	if _, err := io.ReadFull(rd.r, block0[16:]); err != nil {
		return nil, wrapErr(KindIO, err, "reading ISQ primary header block")
	}

	dataOffset := DecodeInt32(block0[508:512])
	headerSize := int64(dataOffset+1) * ctBlockSize

	var extra []byte
	if headerSize > ctBlockSize {
		extra = make([]byte, headerSize-ctBlockSize)
		if _, err := io.ReadFull(rd.r, extra); err != nil {
			return nil, wrapErr(KindIO, err, "reading ISQ extended header")
		}
	}
	return readISQHeader(block0, extra)
}

func (rd *Reader) readAIM(version HeaderVersion, first16 []byte) (*ScancoHeader, error) {
	tagLen := 0
	if version == AimV030 {
		tagLen = 16
	}
	preLen := aimPreHeaderSize(version)

	preBuf := make([]byte, preLen)
	if version == AimV030 {
		if _, err := io.ReadFull(rd.r, preBuf); err != nil {
			return nil, wrapErr(KindIO, err, "reading AIM pre-header")
		}
	} else {
		copy(preBuf, first16[:min(16, preLen)])
		if preLen > 16 {
			if _, err := io.ReadFull(rd.r, preBuf[16:]); err != nil {
				return nil, wrapErr(KindIO, err, "reading AIM pre-header")
			}
		}
	}

	pre, err := decodeAIMPreHeader(preBuf, version)
	if err != nil {
		return nil, err
	}

	total := tagLen + preLen + int(pre.ImageStructLength) + int(pre.ProcessingLogLength)
	full := make([]byte, total)
	if _, err := rd.r.Seek(0, io.SeekStart); err != nil {
		return nil, wrapErr(KindIO, err, "seeking to start of stream")
	}
	if _, err := io.ReadFull(rd.r, full); err != nil {
		return nil, wrapErr(KindIO, err, "reading AIM header")
	}
	return readAIMHeader(full, version)
}

// ReadPixels reads and decompresses h's pixel payload into buf, which
// must be at least h.Geometry.PixelBytes() long. ReadHeader must have
// succeeded first.
func (rd *Reader) ReadPixels(h *ScancoHeader, buf []byte) error {
	if rd.state != readHeaderDone {
		return newErr(KindSequence, "ReadPixels called before ReadHeader")
	}
	want := h.Geometry.PixelBytes()
	if int64(len(buf)) < want {
		return newErr(KindSequence, "pixel buffer too small: have %d, need %d", len(buf), want)
	}

	if _, err := rd.r.Seek(h.HeaderSize, io.SeekStart); err != nil {
		return wrapErr(KindIO, err, "seeking to pixel payload")
	}

	decoded, err := decodePixelPayload(rd.r, h, want)
	if err != nil {
		return err
	}
	copy(buf, decoded)

	if err := RescaleToHU(h, buf[:want]); err != nil {
		return err
	}
	rd.state = readPixelsDone
	return nil
}

// decodePixelPayload reads the compressed (or raw) body from r per h's
// declared compression scheme and returns the decoded, outSize-length
// buffer.
func decodePixelPayload(r io.Reader, h *ScancoHeader, outSize int64) ([]byte, error) {
	switch h.Compression {
	case CompressionNone:
		body := make([]byte, outSize)
		if n, err := io.ReadFull(r, body); err != nil {
			return nil, truncatedErr(int(outSize)-n, "raw pixel payload: %v", err)
		}
		return DecodeRaw(body, outSize)

	case CompressionPackedBits:
		dims := h.Geometry.Dimensions
		xinc := (dims[0] + 1) / 2
		yinc := (dims[1] + 1) / 2
		zinc := (dims[2] + 1) / 2
		size := xinc*yinc*zinc + 1
		body := make([]byte, size)
		if n, err := io.ReadFull(r, body); err != nil {
			return nil, truncatedErr(size-n, "packed-bits pixel payload: %v", err)
		}
		return DecodePackedBits(body, dims)

	case CompressionRLE1Bit, CompressionRLE8Bit:
		intSize := 4
		if h.Version == AimV030 {
			intSize = 8
		}
		head := make([]byte, intSize)
		if _, err := io.ReadFull(r, head); err != nil {
			return nil, wrapErr(KindIO, err, "reading compressed pixel payload size")
		}
		var size int64
		if intSize == 8 {
			size = DecodeInt64(head)
		} else {
			size = int64(DecodeInt32(head))
		}
		body := make([]byte, size)
		if n, err := io.ReadFull(r, body); err != nil {
			return nil, truncatedErr(int(size)-n, "compressed pixel payload: %v", err)
		}
		if h.Compression == CompressionRLE1Bit {
			return DecodeRLE1Bit(body, outSize)
		}
		return DecodeRLE8Bit(body, outSize)

	default:
		return nil, newErr(KindUnsupportedComponent, "unrecognized compression tag 0x%04X", int32(h.Compression))
	}
}

// Writer encodes a header and raw pixel payload to w. This package only
// ever writes ISQ (CTHeaderV1) and AIM; a header carrying any other
// Version is rejected with KindUnsupportedWriteFormat, which is how the
// RAD/RSQ read-only restriction is enforced (this package never
// produces a RAD-flavored CTHeaderV1 body).
type Writer struct {
	w      io.WriteSeeker
	state  writeState
	header *ScancoHeader
}

// NewWriter wraps w for header and pixel encoding.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w, state: writeUnwritten}
}

// WriteHeader encodes h and writes it at the start of the stream.
// pixelBytes is the uncompressed pixel payload length the caller intends
// to write next (used for ImageDataLength in the AIM pre-header).
func (wr *Writer) WriteHeader(h *ScancoHeader, pixelBytes int64) error {
	if wr.state != writeUnwritten {
		return newErr(KindSequence, "WriteHeader called out of order")
	}

	var buf []byte
	switch h.Version {
	case CTHeaderV1:
		buf = writeISQHeader(h)
		h.HeaderSize = int64(len(buf))
	case AimV020, AimV030:
		buf = writeAIMHeader(h, h.Version, pixelBytes)
		h.HeaderSize = int64(len(buf))
	default:
		return newErr(KindUnsupportedWriteFormat, "cannot write header version %s", h.Version)
	}

	if _, err := wr.w.Seek(0, io.SeekStart); err != nil {
		return wrapErr(KindIO, err, "seeking to start of stream")
	}
	if _, err := wr.w.Write(buf); err != nil {
		return wrapErr(KindIO, err, "writing header")
	}

	wr.header = h
	wr.state = writeHeaderDone
	return nil
}

// WritePixels applies the inverse rescale transform to a copy of buf and
// writes it raw (this package never compresses on write) immediately
// after the header. WriteHeader must have succeeded first.
func (wr *Writer) WritePixels(h *ScancoHeader, buf []byte) error {
	if wr.state != writeHeaderDone {
		return newErr(KindSequence, "WritePixels called before WriteHeader")
	}
	want := h.Geometry.PixelBytes()
	if int64(len(buf)) < want {
		return newErr(KindSequence, "pixel buffer too small: have %d, need %d", len(buf), want)
	}

	out := make([]byte, want)
	copy(out, buf[:want])
	if err := RescaleFromHU(h, out); err != nil {
		return err
	}
	swapComponents(out, h.Geometry.Component.Bytes())

	if _, err := wr.w.Write(out); err != nil {
		return wrapErr(KindIO, err, "writing pixel payload")
	}
	wr.state = writePixelsDone
	return nil
}
