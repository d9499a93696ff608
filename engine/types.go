// Package engine is the geometry codec behind meshcodec. It owns the mesh
// model (points, faces, point attributes), the encoder options, and the
// compressed stream layout: point reordering, quantization, delta
// prediction and a zstd/LZ4 entropy stage.
package engine

import "fmt"

// DataType is the scalar type of one attribute component.
type DataType uint8

const (
	DTInvalid DataType = iota
	DTInt8
	DTUint8
	DTInt16
	DTUint16
	DTInt32
	DTUint32
	DTFloat32
)

// Size returns the byte width of one component, or 0 for DTInvalid.
func (d DataType) Size() int {
	switch d {
	case DTInt8, DTUint8:
		return 1
	case DTInt16, DTUint16:
		return 2
	case DTInt32, DTUint32, DTFloat32:
		return 4
	default:
		return 0
	}
}

// IsFloat reports whether d is a floating point type.
func (d DataType) IsFloat() bool { return d == DTFloat32 }

// IsSigned reports whether d is a signed integer type.
func (d DataType) IsSigned() bool {
	return d == DTInt8 || d == DTInt16 || d == DTInt32
}

func (d DataType) String() string {
	switch d {
	case DTInt8:
		return "int8"
	case DTUint8:
		return "uint8"
	case DTInt16:
		return "int16"
	case DTUint16:
		return "uint16"
	case DTInt32:
		return "int32"
	case DTUint32:
		return "uint32"
	case DTFloat32:
		return "float32"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(d))
	}
}

// AttributeType is the semantic kind of a point attribute as the codec sees
// it. Quantization and prediction settings are keyed by it.
type AttributeType uint8

const (
	AttributeInvalid AttributeType = iota
	AttributePosition
	AttributeNormal
	AttributeColor
	AttributeTexCoord
	AttributeGeneric
)

func (t AttributeType) String() string {
	switch t {
	case AttributePosition:
		return "POSITION"
	case AttributeNormal:
		return "NORMAL"
	case AttributeColor:
		return "COLOR"
	case AttributeTexCoord:
		return "TEX_COORD"
	case AttributeGeneric:
		return "GENERIC"
	default:
		return fmt.Sprintf("INVALID(%d)", uint8(t))
	}
}

func (t AttributeType) valid() bool {
	return t >= AttributePosition && t <= AttributeGeneric
}

// Face is a triangle given as three point indices.
type Face [3]uint32
