package engine

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/puzpuzpuz/xsync/v4"
)

// Compression identifies the entropy stage applied to the stream payload.
// The values are stored in the stream header.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionLZ4  Compression = 1
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

var errIncompressible = fmt.Errorf("data is incompressible")

// MaxPayloadSize bounds the uncompressed payload of a stream.
const MaxPayloadSize = 1 << 30

// Upper bounds on raw/packed for each stage. An LZ4 length byte stands for
// at most 255 output bytes; a zstd block of at least 4 bytes (an RLE block)
// yields at most 128 KiB.
const (
	lz4MaxRatio  = 255
	zstdMaxRatio = 1 << 15
)

// checkRawSize rejects a declared raw size that packed bytes of stage c
// cannot produce, before anything is allocated for it.
func checkRawSize(c Compression, packed, rawSize int) error {
	if rawSize > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, rawSize, MaxPayloadSize)
	}
	limit := packed
	switch c {
	case CompressionLZ4:
		limit = packed * lz4MaxRatio
	case CompressionZstd:
		limit = packed * zstdMaxRatio
	}
	if c != CompressionNone && rawSize > limit {
		return fmt.Errorf("%w: %d packed %s bytes cannot expand to %d", ErrPayloadTooLarge, packed, c, rawSize)
	}
	return nil
}

// entropyStage picks the compressor for the given speeds. Speed 10 skips
// compression; 9 (or a decoder that wants 9+) gets LZ4; everything else is
// zstd at a level that rises as the speed falls.
func entropyStage(encodingSpeed, decodingSpeed int) (Compression, zstd.EncoderLevel) {
	switch {
	case encodingSpeed >= 10:
		return CompressionNone, 0
	case encodingSpeed == 9 || decodingSpeed >= 9:
		return CompressionLZ4, 0
	case encodingSpeed == 8:
		return CompressionZstd, zstd.SpeedFastest
	case encodingSpeed >= 5:
		return CompressionZstd, zstd.SpeedDefault
	case encodingSpeed >= 2:
		return CompressionZstd, zstd.SpeedBetterCompression
	default:
		return CompressionZstd, zstd.SpeedBestCompression
	}
}

// compressPayload compresses data with the chosen stage, falling back to
// CompressionNone when the result would not be smaller.
func compressPayload(data []byte, c Compression, level zstd.EncoderLevel) ([]byte, Compression, error) {
	var (
		out []byte
		err error
	)
	switch c {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		out, err = compressLZ4(data)
	case CompressionZstd:
		out, err = compressZstd(data, level)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedCompression, c)
	}
	if err == errIncompressible {
		return data, CompressionNone, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return out, c, nil
}

// decompressPayload reverses compressPayload. rawSize must match exactly.
func decompressPayload(data []byte, c Compression, rawSize int) ([]byte, error) {
	if err := checkRawSize(c, len(data), rawSize); err != nil {
		return nil, err
	}
	switch c {
	case CompressionNone:
		if len(data) != rawSize {
			return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrTruncatedData, len(data), rawSize)
		}
		return data, nil
	case CompressionLZ4:
		return decompressLZ4(data, rawSize)
	case CompressionZstd:
		return decompressZstd(data, rawSize)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, c)
	}
}

func compressLZ4(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, dst, nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	// 0 means lz4 gave up on the block.
	if n == 0 || n >= len(data) {
		return nil, errIncompressible
	}
	return dst[:n], nil
}

func decompressLZ4(data []byte, rawSize int) ([]byte, error) {
	dst := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4: %v", ErrTruncatedData, err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: lz4 produced %d bytes, expected %d", ErrTruncatedData, n, rawSize)
	}
	return dst, nil
}

// zstd encoders are created per level on first use and shared; both
// zstd.Encoder.EncodeAll and zstd.Decoder.DecodeAll are safe for
// concurrent use.
var (
	zstdEncoders = xsync.NewMap[zstd.EncoderLevel, *zstd.Encoder]()
	zstdDecoder  *zstd.Decoder
)

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxPayloadSize))
	if err != nil {
		panic("engine: zstd decoder initialization failed: " + err.Error())
	}
}

func zstdEncoder(level zstd.EncoderLevel) (*zstd.Encoder, error) {
	if enc, ok := zstdEncoders.Load(level); ok {
		return enc, nil
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	actual, loaded := zstdEncoders.LoadOrStore(level, enc)
	if loaded {
		enc.Close()
	}
	return actual, nil
}

func compressZstd(data []byte, level zstd.EncoderLevel) ([]byte, error) {
	enc, err := zstdEncoder(level)
	if err != nil {
		return nil, err
	}
	out := enc.EncodeAll(data, nil)
	if len(out) >= len(data) {
		return nil, errIncompressible
	}
	return out, nil
}

func decompressZstd(data []byte, rawSize int) ([]byte, error) {
	var fh zstd.Header
	if err := fh.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrTruncatedData, err)
	}
	// the decoder sizes its output from the frame, so it must agree first.
	if fh.HasFCS && fh.FrameContentSize != uint64(rawSize) {
		return nil, fmt.Errorf("%w: zstd frame holds %d bytes, expected %d", ErrTruncatedData, fh.FrameContentSize, rawSize)
	}
	out, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %v", ErrTruncatedData, err)
	}
	if len(out) != rawSize {
		return nil, fmt.Errorf("%w: zstd produced %d bytes, expected %d", ErrTruncatedData, len(out), rawSize)
	}
	return out, nil
}

// groupBytes transposes fixed-width values so that byte k of every value
// is stored contiguously. Slowly varying floats compress much better this
// way. len(data) must be a multiple of width.
func groupBytes(data []byte, width int) []byte {
	if width <= 1 {
		return data
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := range n {
		for k := range width {
			out[k*n+i] = data[i*width+k]
		}
	}
	return out
}

// ungroupBytes reverses groupBytes.
func ungroupBytes(data []byte, width int) []byte {
	if width <= 1 {
		return data
	}
	n := len(data) / width
	out := make([]byte, len(data))
	for i := range n {
		for k := range width {
			out[i*width+k] = data[k*n+i]
		}
	}
	return out
}
