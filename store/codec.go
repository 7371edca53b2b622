package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec is the compression applied to a stored chunk.
// Its value is the first byte of every object file, so
// the numbering must never change.
type Codec byte

const (
	CodecNone Codec = 0
	CodecZstd Codec = 1
	CodecLZ4  Codec = 2

	// keep this as the last number, just above all
	// the rest, if you add more codecs above.
	codecOutOfBounds Codec = 3
)

var ErrUnknownCodec = errors.New("unknown chunk codec; want none, zstd, or lz4")

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	}
	return fmt.Sprintf("Codec(%d)", byte(c))
}

func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	}
	return CodecNone, fmt.Errorf("%w: got '%v'", ErrUnknownCodec, s)
}

// compressors holds one zstd encoder/decoder pair for the
// store. Both are safe for concurrent EncodeAll and
// DecodeAll calls. The lz4 streams are cheap and built per
// call.
type compressors struct {
	zenc *zstd.Encoder
	zdec *zstd.Decoder
}

func newCompressors() (*compressors, error) {
	// The nil argument here means only do []byte compressions.
	zenc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	zdec, err := zstd.NewReader(nil)
	if err != nil {
		zenc.Close()
		return nil, err
	}
	return &compressors{zenc: zenc, zdec: zdec}, nil
}

// Close releases held resources, important for cleanup.
func (c *compressors) Close() {
	c.zenc.Close()
	c.zdec.Close()
}

// encode returns codec byte + compressed payload.
func (c *compressors) encode(codec Codec, src []byte) ([]byte, error) {
	out := make([]byte, 1, len(src)/2+64)
	out[0] = byte(codec)
	switch codec {
	case CodecNone:
		return append(out, src...), nil
	case CodecZstd:
		return c.zenc.EncodeAll(src, out), nil
	case CodecLZ4:
		buf := bytes.NewBuffer(out)
		w := lz4.NewWriter(buf)
		options := []lz4.Option{
			lz4.BlockChecksumOption(true),
			lz4.CompressionLevelOption(lz4.Fast),
		}
		if err := w.Apply(options...); err != nil {
			return nil, err
		}
		if _, err := w.Write(src); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, codec)
}

// decode reads the codec byte off obj and undoes it.
func (c *compressors) decode(obj []byte) ([]byte, error) {
	if len(obj) == 0 {
		return nil, fmt.Errorf("%w: empty object", ErrCorrupt)
	}
	codec, payload := Codec(obj[0]), obj[1:]
	if codec >= codecOutOfBounds {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCodec, codec)
	}
	switch codec {
	case CodecZstd:
		return c.zdec.DecodeAll(payload, nil)
	case CodecLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	}
	return payload, nil
}
