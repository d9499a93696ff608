package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PointAttribute stores the values of one per-point property. Values are
// kept packed little-endian; several points may share a value through the
// point map. A nil point map is the identity mapping.
type PointAttribute struct {
	attrType      AttributeType
	dataType      DataType
	numComponents int
	normalized    bool
	uniqueID      uint32

	values    []byte
	numValues int
	pointMap  []uint32
}

// NewPointAttribute creates an attribute with room for numValues values.
func NewPointAttribute(t AttributeType, dt DataType, numComponents int, normalized bool, numValues int) (*PointAttribute, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: attribute type %s", ErrInvalidMesh, t)
	}
	if dt.Size() == 0 {
		return nil, fmt.Errorf("%w: data type %s", ErrInvalidMesh, dt)
	}
	if numComponents < 1 || numComponents > 255 {
		return nil, fmt.Errorf("%w: %d components", ErrInvalidMesh, numComponents)
	}
	if numValues < 0 {
		return nil, fmt.Errorf("%w: negative value count", ErrInvalidMesh)
	}
	return &PointAttribute{
		attrType:      t,
		dataType:      dt,
		numComponents: numComponents,
		normalized:    normalized,
		values:        make([]byte, numValues*numComponents*dt.Size()),
		numValues:     numValues,
	}, nil
}

// Type returns the semantic role of the attribute.
func (a *PointAttribute) Type() AttributeType { return a.attrType }

// DataType returns the storage type of each component.
func (a *PointAttribute) DataType() DataType { return a.dataType }

// NumComponents returns the components per value.
func (a *PointAttribute) NumComponents() int { return a.numComponents }

// Normalized reports whether integer components map to the unit interval.
func (a *PointAttribute) Normalized() bool { return a.normalized }

// UniqueID returns the id assigned when the attribute joined its mesh.
func (a *PointAttribute) UniqueID() uint32 { return a.uniqueID }

// NumValues returns the number of stored values, which may be fewer than
// the mesh's points when a point map is set.
func (a *PointAttribute) NumValues() int { return a.numValues }

// ByteStride is the size of one value in bytes.
func (a *PointAttribute) ByteStride() int { return a.numComponents * a.dataType.Size() }

// Buffer exposes the packed value storage.
func (a *PointAttribute) Buffer() []byte { return a.values }

// SetValues replaces the value storage with a copy of raw, which must hold a
// whole number of values.
func (a *PointAttribute) SetValues(raw []byte) error {
	stride := a.ByteStride()
	if len(raw)%stride != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of stride %d", ErrInvalidMesh, len(raw), stride)
	}
	a.values = append(a.values[:0], raw...)
	a.numValues = len(raw) / stride
	return nil
}

// SetValue copies one packed value into slot i.
func (a *PointAttribute) SetValue(i int, value []byte) {
	stride := a.ByteStride()
	copy(a.values[i*stride:(i+1)*stride], value)
}

// Value returns the packed bytes of value i. The slice aliases the storage.
func (a *PointAttribute) Value(i int) []byte {
	stride := a.ByteStride()
	return a.values[i*stride : (i+1)*stride]
}

// IsIdentityMapping reports whether point i always reads value i.
func (a *PointAttribute) IsIdentityMapping() bool { return a.pointMap == nil }

// SetIdentityMapping drops any explicit point map.
func (a *PointAttribute) SetIdentityMapping() { a.pointMap = nil }

// SetExplicitMapping allocates a point map for numPoints points, all
// initially pointing at value 0.
func (a *PointAttribute) SetExplicitMapping(numPoints int) {
	a.pointMap = make([]uint32, numPoints)
}

// SetPointMapEntry maps point to value.
func (a *PointAttribute) SetPointMapEntry(point int, value uint32) {
	a.pointMap[point] = value
}

// MappedIndex returns the value index used by point.
func (a *PointAttribute) MappedIndex(point int) int {
	if a.pointMap == nil {
		return point
	}
	return int(a.pointMap[point])
}

// Component is the set of scalar types a value can be converted into.
type Component interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32
}

// ConvertValue converts value valueIndex of a into out. Components beyond
// the attribute's component count are zero-filled; extra attribute
// components are ignored. It returns false if any component cannot be
// represented in T.
func ConvertValue[T Component](a *PointAttribute, valueIndex int, out []T) bool {
	if valueIndex < 0 || valueIndex >= a.numValues {
		return false
	}
	src := a.Value(valueIndex)
	width := a.dataType.Size()
	dstFloat, dstMin, dstMax := componentRange[T]()

	for c := range out {
		if c >= a.numComponents {
			out[c] = 0
			continue
		}
		raw := src[c*width : (c+1)*width]
		if a.dataType.IsFloat() {
			in := float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
			if dstFloat {
				out[c] = T(float32(in))
				continue
			}
			if math.IsNaN(in) || math.IsInf(in, 0) {
				return false
			}
			if a.normalized {
				// unit-interval floats map onto the full integer range.
				if in < 0 || in > 1 {
					return false
				}
				out[c] = T(math.Floor(in*dstMax + 0.5))
				continue
			}
			if in < dstMin || in > dstMax {
				return false
			}
			out[c] = T(in)
			continue
		}

		in, srcMax := readInteger(a.dataType, raw)
		if dstFloat {
			if a.normalized {
				out[c] = T(float32(in / srcMax))
			} else {
				out[c] = T(float32(in))
			}
			continue
		}
		if in < dstMin || in > dstMax {
			return false
		}
		out[c] = T(in)
	}
	return true
}

func componentRange[T Component]() (isFloat bool, lo, hi float64) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return false, math.MinInt8, math.MaxInt8
	case uint8:
		return false, 0, math.MaxUint8
	case int16:
		return false, math.MinInt16, math.MaxInt16
	case uint16:
		return false, 0, math.MaxUint16
	case int32:
		return false, math.MinInt32, math.MaxInt32
	case uint32:
		return false, 0, math.MaxUint32
	default:
		return true, -math.MaxFloat32, math.MaxFloat32
	}
}

// readInteger decodes one integer component and the maximum of its type.
func readInteger(dt DataType, raw []byte) (float64, float64) {
	switch dt {
	case DTInt8:
		return float64(int8(raw[0])), math.MaxInt8
	case DTUint8:
		return float64(raw[0]), math.MaxUint8
	case DTInt16:
		return float64(int16(binary.LittleEndian.Uint16(raw))), math.MaxInt16
	case DTUint16:
		return float64(binary.LittleEndian.Uint16(raw)), math.MaxUint16
	case DTInt32:
		return float64(int32(binary.LittleEndian.Uint32(raw))), math.MaxInt32
	default:
		return float64(binary.LittleEndian.Uint32(raw)), math.MaxUint32
	}
}
