package meshcodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/oy3o/meshcodec/engine"
)

// assembleFaces reads count indices of the given byte width from data and
// groups them into triangles in order. Up to two trailing indices that do
// not complete a triangle are dropped.
func assembleFaces(data []byte, count, width int) ([]engine.Face, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative index count %d", ErrShortBuffer, count)
	}
	switch width {
	case 1:
		return facesFrom(data, count, 1, func(b []byte) uint8 { return b[0] })
	case 2:
		return facesFrom(data, count, 2, binary.LittleEndian.Uint16)
	case 4:
		return facesFrom(data, count, 4, binary.LittleEndian.Uint32)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedIndexWidth, width)
	}
}

func facesFrom[T constraints.Unsigned](data []byte, count, width int, load func([]byte) T) ([]engine.Face, error) {
	if len(data) < count*width {
		return nil, fmt.Errorf("%w: %d indices of width %d need %d bytes, have %d",
			ErrShortBuffer, count, width, count*width, len(data))
	}
	faces := make([]engine.Face, count/3)
	for i := range faces {
		for k := range 3 {
			off := (3*i + k) * width
			faces[i][k] = uint32(load(data[off : off+width]))
		}
	}
	return faces, nil
}

// indexLimit is the largest point index representable by an index
// component type.
func indexLimit(c ComponentType) (uint64, bool) {
	switch c {
	case Byte:
		return math.MaxInt8, true
	case UnsignedByte:
		return math.MaxUint8, true
	case Short:
		return math.MaxInt16, true
	case UnsignedShort:
		return math.MaxUint16, true
	case UnsignedInt:
		return math.MaxUint32, true
	default:
		return 0, false
	}
}

// emitIndices writes the three point indices of every face, in face order,
// as little-endian elements of type c.
func emitIndices(faces []engine.Face, c ComponentType) []byte {
	switch c {
	case Byte:
		return putIndices(faces, 1, func(b []byte, v int8) { b[0] = byte(v) })
	case UnsignedByte:
		return putIndices(faces, 1, func(b []byte, v uint8) { b[0] = v })
	case Short:
		return putIndices(faces, 2, func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) })
	case UnsignedShort:
		return putIndices(faces, 2, binary.LittleEndian.PutUint16)
	default:
		return putIndices(faces, 4, binary.LittleEndian.PutUint32)
	}
}

func putIndices[T constraints.Integer](faces []engine.Face, width int, store func([]byte, T)) []byte {
	out := make([]byte, len(faces)*3*width)
	for i, f := range faces {
		for k, p := range f {
			off := (3*i + k) * width
			store(out[off:off+width], T(p))
		}
	}
	return out
}
