package engine

import (
	"bytes"
	"fmt"

	"github.com/oy3o/meshcodec/internal/wire"
)

const (
	versionMajor = 1
	versionMinor = 0
)

var streamMagic = [4]byte{'M', 'S', 'H', 'C'}

// streamHeader precedes the packed payload. All fields are little-endian.
type streamHeader struct {
	Magic       [4]byte
	Major       uint8
	Minor       uint8
	Method      uint8
	Compression uint8
	Points      uint32
	Faces       uint32
	Attributes  uint32
	RawSize     uint32
	PackedSize  uint32
	Checksum    Checksum
}

type headerCodec = wire.Fixed[streamHeader]

// HeaderSize is the encoded size of the stream header.
var HeaderSize = (&headerCodec{}).Size()

// Info summarizes a stream without decoding its payload.
type Info struct {
	Major       int
	Minor       int
	Method      EncodingMethod
	Compression Compression
	Points      int
	Faces       int
	Attributes  int
	RawSize     int
	PackedSize  int
	Checksum    Checksum
}

// Inspect parses and validates the stream header.
func Inspect(data []byte) (Info, error) {
	h, err := readHeader(data)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Major:       int(h.Major),
		Minor:       int(h.Minor),
		Method:      EncodingMethod(h.Method),
		Compression: Compression(h.Compression),
		Points:      int(h.Points),
		Faces:       int(h.Faces),
		Attributes:  int(h.Attributes),
		RawSize:     int(h.RawSize),
		PackedSize:  int(h.PackedSize),
		Checksum:    h.Checksum,
	}, nil
}

func readHeader(data []byte) (*streamHeader, error) {
	if len(data) < len(streamMagic) || !bytes.Equal(data[:len(streamMagic)], streamMagic[:]) {
		return nil, ErrInvalidMagic
	}
	var hc headerCodec
	if len(data) < hc.Size() {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncatedData, len(data))
	}
	if err := hc.UnmarshalBinary(data[:hc.Size()]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}
	h := &hc.Payload
	if h.Major != versionMajor {
		return nil, fmt.Errorf("%w: %d.%d", ErrUnsupportedVersion, h.Major, h.Minor)
	}
	if EncodingMethod(h.Method) > MethodSequential {
		return nil, fmt.Errorf("%w: method %d", ErrInvalidMesh, h.Method)
	}
	if Compression(h.Compression) > CompressionZstd {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, h.Compression)
	}
	return h, nil
}
