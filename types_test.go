package meshcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oy3o/meshcodec/engine"
)

func TestComponentCount(t *testing.T) {
	ranks := []string{Scalar, Vec2, Vec3, Vec4, Mat2, Mat3, Mat4}
	want := []int{1, 2, 3, 4, 4, 9, 16}
	for i, rank := range ranks {
		assert.Equal(t, want[i], ComponentCount(rank), rank)
	}
	for _, bad := range []string{"", "vec3", "VEC5", "MAT2x3"} {
		assert.Zero(t, ComponentCount(bad), bad)
	}
}

func TestByteWidthAndStride(t *testing.T) {
	types := []ComponentType{Byte, UnsignedByte, Short, UnsignedShort, UnsignedInt, Float}
	widths := []int{1, 1, 2, 2, 4, 4}
	ranks := []string{Scalar, Vec2, Vec3, Vec4, Mat2, Mat3, Mat4}
	for i, c := range types {
		assert.Equal(t, widths[i], c.ByteWidth(), c.String())
		for _, rank := range ranks {
			assert.Equal(t, widths[i]*ComponentCount(rank), Stride(c, rank), "%s %s", c, rank)
		}
	}

	assert.Zero(t, ComponentType(5124).ByteWidth(), "signed int has no width")
	assert.Zero(t, Stride(ComponentType(0), Vec3))
	assert.Zero(t, Stride(Float, "VEC9"))
}

func TestCheckLayout(t *testing.T) {
	stride, err := checkLayout(UnsignedShort, Vec4)
	assert.NoError(t, err)
	assert.Equal(t, 8, stride)

	_, err = checkLayout(Float, "bogus")
	assert.ErrorIs(t, err, ErrInvalidRank)
	_, err = checkLayout(ComponentType(1), Vec3)
	assert.ErrorIs(t, err, ErrInvalidComponentType)
}

func TestRoleMapping(t *testing.T) {
	assert.Equal(t, engine.AttributeGeneric, RoleJoint.attributeType())
	assert.Equal(t, engine.AttributeGeneric, RoleWeight.attributeType())
	assert.Equal(t, engine.AttributeTexCoord, RoleTexCoord.attributeType())
	assert.Equal(t, engine.AttributeInvalid, Role(99).attributeType())
	assert.Equal(t, RoleColor, roleOf(engine.AttributeColor))
	assert.Equal(t, RoleGeneric, roleOf(engine.AttributeGeneric))
}

func TestComponentTypeRoundTrip(t *testing.T) {
	for _, c := range []ComponentType{Byte, UnsignedByte, Short, UnsignedShort, UnsignedInt, Float} {
		assert.Equal(t, c, componentTypeOf(c.dataType()))
	}
	assert.Equal(t, engine.DTInvalid, ComponentType(5124).dataType())
	assert.Equal(t, ComponentType(0), componentTypeOf(engine.DTInt32))
}

func TestQuantizationValidate(t *testing.T) {
	assert.NoError(t, DefaultQuantization().validate())
	assert.NoError(t, Quantization{}.validate())
	assert.ErrorIs(t, Quantization{Normal: -1}.validate(), ErrInvalidQuantization)
	assert.ErrorIs(t, Quantization{Generic: 31}.validate(), ErrInvalidQuantization)
}

func TestStateOpen(t *testing.T) {
	assert.NoError(t, StateCreated.open())
	assert.NoError(t, StateGeometryLoaded.open())
	assert.ErrorIs(t, StateSucceeded.open(), ErrFinalized)
	assert.ErrorIs(t, StateFailed.open(), ErrFinalized)
	assert.ErrorIs(t, StateReleased.open(), ErrReleased)
}
