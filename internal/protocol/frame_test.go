package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripUncompressed(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("hello limbo")
	require.NoError(t, WriteFrame(&buf, 0x42, payload, 0))

	frame, err := ReadFrame(&buf, false)
	require.NoError(t, err)
	require.Equal(t, int32(0x42), frame.PacketID)
	require.Equal(t, payload, frame.Payload)
}

func TestFrameRoundTripCompressed(t *testing.T) {
	var buf bytes.Buffer
	payload := bytes.Repeat([]byte("x"), 300)
	require.NoError(t, WriteFrame(&buf, 0x01, payload, 64))

	frame, err := ReadFrame(&buf, true)
	require.NoError(t, err)
	require.Equal(t, int32(0x01), frame.PacketID)
	require.Equal(t, payload, frame.Payload)
}

func TestFrameBelowThresholdStaysUncompressed(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte("short")
	require.NoError(t, WriteFrame(&buf, 0x01, payload, 64))

	frame, err := ReadFrame(&buf, true)
	require.NoError(t, err)
	require.Equal(t, payload, frame.Payload)
}

func TestFrameTooLargeOnWrite(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, MaxFrameLength+10)
	err := WriteFrame(&buf, 0x00, oversized, 0)
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, KindFrameTooLarge, perr.Kind)
}

func TestFrameTooLargeOnRead(t *testing.T) {
	var lengthPrefix bytes.Buffer
	require.NoError(t, WriteVarInt(&lengthPrefix, MaxFrameLength+1))

	_, err := ReadFrame(&lengthPrefix, false)
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, KindFrameTooLarge, perr.Kind)
}

func TestFrameCompressionMismatch(t *testing.T) {
	var inner bytes.Buffer
	require.NoError(t, WriteVarInt(&inner, 0x01))
	inner.Write([]byte("payload"))

	var body bytes.Buffer
	require.NoError(t, WriteVarInt(&body, int32(inner.Len()+1000))) // lies about inflated size
	body.Write(inner.Bytes())                                       // not actually zlib-compressed

	var out bytes.Buffer
	require.NoError(t, WriteVarInt(&out, int32(body.Len())))
	out.Write(body.Bytes())

	_, err := ReadFrame(&out, true)
	require.Error(t, err)
	var perr *Error
	require.True(t, errors.As(err, &perr))
	require.Equal(t, KindCompressionMismatch, perr.Kind)
}
