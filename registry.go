package meshcodec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/oy3o/meshcodec/engine"
)

// newAttribute copies count values of the given layout out of data into an
// engine attribute with an identity point mapping.
func newAttribute(role Role, c ComponentType, rank string, count int, data []byte, normalized bool) (*engine.PointAttribute, error) {
	stride, err := checkLayout(c, rank)
	if err != nil {
		return nil, err
	}
	t := role.attributeType()
	if t == engine.AttributeInvalid {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRole, uint8(role))
	}
	dt := c.dataType()
	if dt == engine.DTInvalid {
		return nil, fmt.Errorf("%w: %s has no engine equivalent", ErrInvalidComponentType, c)
	}
	if count < 0 || len(data) < count*stride {
		return nil, fmt.Errorf("%w: %d values of stride %d need %d bytes, have %d",
			ErrShortBuffer, count, stride, count*stride, len(data))
	}
	a, err := engine.NewPointAttribute(t, dt, ComponentCount(rank), normalized, 0)
	if err != nil {
		return nil, err
	}
	if err := a.SetValues(data[:count*stride]); err != nil {
		return nil, err
	}
	a.SetIdentityMapping()
	return a, nil
}

// decodedBuffer is one attribute converted for the caller, remembered with
// the layout it was produced for.
type decodedBuffer struct {
	componentType ComponentType
	rank          string
	data          []byte
}

// convertAttribute converts the mapped value of each of numPoints points
// into the layout (c, rank). It fails on the first value that cannot be
// represented, reporting the point index.
func convertAttribute(a *engine.PointAttribute, numPoints int, c ComponentType, rank string) ([]byte, int, error) {
	comps := ComponentCount(rank)
	switch c {
	case Byte:
		return convertPoints(a, numPoints, comps, 1, func(b []byte, v int8) { b[0] = byte(v) })
	case UnsignedByte:
		return convertPoints(a, numPoints, comps, 1, func(b []byte, v uint8) { b[0] = v })
	case Short:
		return convertPoints(a, numPoints, comps, 2, func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) })
	case UnsignedShort:
		return convertPoints(a, numPoints, comps, 2, binary.LittleEndian.PutUint16)
	case UnsignedInt:
		return convertPoints(a, numPoints, comps, 4, binary.LittleEndian.PutUint32)
	case Float:
		return convertPoints(a, numPoints, comps, 4, func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) })
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidComponentType, uint32(c))
	}
}

func convertPoints[T engine.Component](a *engine.PointAttribute, numPoints, comps, width int, store func([]byte, T)) ([]byte, int, error) {
	stride := comps * width
	out := make([]byte, numPoints*stride)
	value := make([]T, comps)
	for p := range numPoints {
		if !engine.ConvertValue(a, a.MappedIndex(p), value) {
			return nil, p, ErrConversion
		}
		for c, v := range value {
			off := p*stride + c*width
			store(out[off:off+width], v)
		}
	}
	return out, 0, nil
}
