package protocol

import (
	"bytes"
	"compress/zlib"
	"io"
)

// MaxFrameLength bounds the length-prefix varint to 3 bytes (spec.md §4.1),
// i.e. values up to 2,097,151.
const MaxFrameLength = 2097151

// Frame is a single decoded packet frame: the packet id and its remaining
// payload, both already past any compression unwrapping.
type Frame struct {
	PacketID int32
	Payload  []byte
}

// ReadFrame reads one length-prefixed frame from r. compressionEnabled
// selects whether frames carry a data-length prefix ahead of the
// (possibly zlib-compressed) packet body, per the Login SetCompression
// handshake.
func ReadFrame(r io.Reader, compressionEnabled bool) (*Frame, error) {
	br := newByteReader(r)

	length, err := ReadVarInt(br)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "reading frame length")
	}
	if length < 0 || length > MaxFrameLength {
		return nil, newErr(KindFrameTooLarge, true, "frame length %d exceeds cap %d", length, MaxFrameLength)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, wrapErr(KindIO, true, err, "reading frame body")
	}

	payload := body
	if compressionEnabled {
		payload, err = decompressBody(body)
		if err != nil {
			return nil, err
		}
	}

	pr := bytes.NewReader(payload)
	packetID, err := ReadVarInt(pr)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "reading packet id")
	}
	rest := make([]byte, pr.Len())
	if _, err := io.ReadFull(pr, rest); err != nil {
		return nil, wrapErr(KindIO, true, err, "reading packet payload")
	}
	return &Frame{PacketID: packetID, Payload: rest}, nil
}

// decompressBody unwraps the compression data-length prefix. A declared
// length of 0 means the packet body below it is uncompressed; any other
// declared length must match the actual zlib-inflated size exactly, else
// it's a CompressionMismatch (spec.md §4.1, §7).
func decompressBody(body []byte) ([]byte, error) {
	br := bytes.NewReader(body)
	dataLength, err := ReadVarInt(br)
	if err != nil {
		return nil, wrapErr(KindIO, true, err, "reading compression data length")
	}
	rest := make([]byte, br.Len())
	if _, err := io.ReadFull(br, rest); err != nil {
		return nil, wrapErr(KindIO, true, err, "reading compressed payload")
	}
	if dataLength == 0 {
		return rest, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, wrapErr(KindCompressionMismatch, true, err, "opening zlib stream")
	}
	defer zr.Close()

	inflated, err := io.ReadAll(io.LimitReader(zr, int64(dataLength)+1))
	if err != nil {
		return nil, wrapErr(KindCompressionMismatch, true, err, "inflating payload")
	}
	if int32(len(inflated)) != dataLength {
		return nil, newErr(KindCompressionMismatch, true,
			"declared inflated size %d does not match actual %d", dataLength, len(inflated))
	}
	return inflated, nil
}

// WriteFrame encodes packetID+payload into a length-prefixed frame,
// applying zlib compression when the uncompressed size reaches threshold
// (threshold <= 0 disables compression entirely).
func WriteFrame(w io.Writer, packetID int32, payload []byte, threshold int) error {
	var inner bytes.Buffer
	if err := WriteVarInt(&inner, packetID); err != nil {
		return err
	}
	inner.Write(payload)

	var body bytes.Buffer
	if threshold <= 0 {
		body.Write(inner.Bytes())
	} else if inner.Len() < threshold {
		if err := WriteVarInt(&body, 0); err != nil {
			return err
		}
		body.Write(inner.Bytes())
	} else {
		if err := WriteVarInt(&body, int32(inner.Len())); err != nil {
			return err
		}
		zw := zlib.NewWriter(&body)
		if _, err := zw.Write(inner.Bytes()); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
	}

	if body.Len() > MaxFrameLength {
		return newErr(KindFrameTooLarge, true, "encoded frame length %d exceeds cap %d", body.Len(), MaxFrameLength)
	}

	var out bytes.Buffer
	if err := WriteVarInt(&out, int32(body.Len())); err != nil {
		return err
	}
	out.Write(body.Bytes())
	_, err := w.Write(out.Bytes())
	return err
}

// byteReader adapts an io.Reader into an io.ByteReader one byte at a time,
// which is all ReadVarInt needs and keeps framing allocation-free for the
// common small-varint case.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func newByteReader(r io.Reader) *byteReader { return &byteReader{r: r} }

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}

func (b *byteReader) Read(p []byte) (int, error) { return b.r.Read(p) }
