// Package meshcodec bridges flat vertex and index byte buffers to a
// compressed triangle-mesh stream.
//
// An Encoder ingests attribute buffers described by a component type code
// and a rank tag (the scalar-type and accessor vocabulary of glTF), plus an
// index buffer of 1, 2 or 4 byte elements, and produces one compressed
// buffer. A Decoder does the reverse and hands each attribute back in the
// component type the caller asks for. Both handles follow a query-size,
// then-copy protocol for every output.
package meshcodec

import (
	"fmt"

	"github.com/oy3o/meshcodec/engine"
)

// ComponentType is a glTF accessor component type code.
type ComponentType uint32

const (
	Byte          ComponentType = 5120
	UnsignedByte  ComponentType = 5121
	Short         ComponentType = 5122
	UnsignedShort ComponentType = 5123
	UnsignedInt   ComponentType = 5125
	Float         ComponentType = 5126
)

// ByteWidth returns the size of one component, or 0 for an unknown code.
func (c ComponentType) ByteWidth() int {
	switch c {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case UnsignedInt, Float:
		return 4
	default:
		return 0
	}
}

func (c ComponentType) String() string {
	switch c {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	default:
		return fmt.Sprintf("ComponentType(%d)", uint32(c))
	}
}

func (c ComponentType) dataType() engine.DataType {
	switch c {
	case Byte:
		return engine.DTInt8
	case UnsignedByte:
		return engine.DTUint8
	case Short:
		return engine.DTInt16
	case UnsignedShort:
		return engine.DTUint16
	case UnsignedInt:
		return engine.DTUint32
	case Float:
		return engine.DTFloat32
	default:
		return engine.DTInvalid
	}
}

// componentTypeOf maps an engine data type back to a glTF code. Engine
// types without a code map to 0.
func componentTypeOf(dt engine.DataType) ComponentType {
	switch dt {
	case engine.DTInt8:
		return Byte
	case engine.DTUint8:
		return UnsignedByte
	case engine.DTInt16:
		return Short
	case engine.DTUint16:
		return UnsignedShort
	case engine.DTUint32:
		return UnsignedInt
	case engine.DTFloat32:
		return Float
	default:
		return 0
	}
}

// Rank tags.
const (
	Scalar = "SCALAR"
	Vec2   = "VEC2"
	Vec3   = "VEC3"
	Vec4   = "VEC4"
	Mat2   = "MAT2"
	Mat3   = "MAT3"
	Mat4   = "MAT4"
)

// ComponentCount returns the number of components for a rank tag, or 0 for
// an unrecognized tag. Callers must treat 0 as an input error.
func ComponentCount(rank string) int {
	switch rank {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// Stride returns ByteWidth × ComponentCount, which is 0 when either is unknown.
func Stride(c ComponentType, rank string) int {
	return c.ByteWidth() * ComponentCount(rank)
}

// rankOf picks the rank tag for a component count. Four components are
// reported as VEC4.
func rankOf(components int) string {
	switch components {
	case 1:
		return Scalar
	case 2:
		return Vec2
	case 3:
		return Vec3
	case 4:
		return Vec4
	case 9:
		return Mat3
	case 16:
		return Mat4
	default:
		return ""
	}
}

// checkLayout resolves the stride of (c, rank) or reports which half is bad.
func checkLayout(c ComponentType, rank string) (int, error) {
	if ComponentCount(rank) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRank, rank)
	}
	if c.ByteWidth() == 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidComponentType, uint32(c))
	}
	return Stride(c, rank), nil
}

// Role is the semantic role of an attribute.
type Role uint8

const (
	RolePosition Role = iota
	RoleNormal
	RoleTexCoord
	RoleColor
	RoleJoint
	RoleWeight
	RoleGeneric
)

func (r Role) String() string {
	switch r {
	case RolePosition:
		return "POSITION"
	case RoleNormal:
		return "NORMAL"
	case RoleTexCoord:
		return "TEXCOORD"
	case RoleColor:
		return "COLOR"
	case RoleJoint:
		return "JOINTS"
	case RoleWeight:
		return "WEIGHTS"
	case RoleGeneric:
		return "GENERIC"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// attributeType maps a role onto the engine's attribute types. Joints and
// weights have no dedicated type and travel as generic attributes.
func (r Role) attributeType() engine.AttributeType {
	switch r {
	case RolePosition:
		return engine.AttributePosition
	case RoleNormal:
		return engine.AttributeNormal
	case RoleTexCoord:
		return engine.AttributeTexCoord
	case RoleColor:
		return engine.AttributeColor
	case RoleJoint, RoleWeight, RoleGeneric:
		return engine.AttributeGeneric
	default:
		return engine.AttributeInvalid
	}
}

// roleOf is the inverse of attributeType for decoded attributes.
func roleOf(t engine.AttributeType) Role {
	switch t {
	case engine.AttributePosition:
		return RolePosition
	case engine.AttributeNormal:
		return RoleNormal
	case engine.AttributeTexCoord:
		return RoleTexCoord
	case engine.AttributeColor:
		return RoleColor
	default:
		return RoleGeneric
	}
}

// Quantization holds per-role quantization bit depths. 0 disables
// quantization for that role.
type Quantization struct {
	Position int
	Normal   int
	TexCoord int
	Generic  int
}

// DefaultQuantization returns 14/10/12/12 bits.
func DefaultQuantization() Quantization {
	return Quantization{Position: 14, Normal: 10, TexCoord: 12, Generic: 12}
}

func (q Quantization) validate() error {
	for _, bits := range []int{q.Position, q.Normal, q.TexCoord, q.Generic} {
		if bits < 0 || bits > engine.MaxQuantizationBits {
			return fmt.Errorf("%w: %+v", ErrInvalidQuantization, q)
		}
	}
	return nil
}

// DefaultCompressionLevel is the level new encoders start with.
const DefaultCompressionLevel = 7

// State is the lifecycle position of an Encoder or Decoder.
type State uint8

const (
	StateCreated State = iota
	StateConfigured
	StateGeometryLoaded
	StateSucceeded
	StateFailed
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateConfigured:
		return "configured"
	case StateGeometryLoaded:
		return "geometry-loaded"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// open reports whether configuration and ingestion are still allowed.
func (s State) open() error {
	switch s {
	case StateReleased:
		return ErrReleased
	case StateSucceeded, StateFailed:
		return ErrFinalized
	default:
		return nil
	}
}
