package meshcodec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/meshcodec/engine"
)

func u16(vs ...uint16) []byte {
	b := make([]byte, 2*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	return b
}

func u32(vs ...uint32) []byte {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], v)
	}
	return b
}

func TestAssembleFaces(t *testing.T) {
	t.Run("Width2", func(t *testing.T) {
		faces, err := assembleFaces(u16(0, 1, 2, 3, 4, 5), 6, 2)
		require.NoError(t, err)
		assert.Equal(t, []engine.Face{{0, 1, 2}, {3, 4, 5}}, faces)
	})

	t.Run("TrailingElementDropped", func(t *testing.T) {
		faces, err := assembleFaces(u16(0, 1, 2, 3, 4, 5, 9), 7, 2)
		require.NoError(t, err)
		assert.Equal(t, []engine.Face{{0, 1, 2}, {3, 4, 5}}, faces)
	})

	t.Run("Width1", func(t *testing.T) {
		faces, err := assembleFaces([]byte{2, 1, 0, 255, 254, 253}, 6, 1)
		require.NoError(t, err)
		assert.Equal(t, []engine.Face{{2, 1, 0}, {255, 254, 253}}, faces)
	})

	t.Run("Width4", func(t *testing.T) {
		faces, err := assembleFaces(u32(70000, 1, 2), 3, 4)
		require.NoError(t, err)
		assert.Equal(t, []engine.Face{{70000, 1, 2}}, faces)
	})

	t.Run("CountBelowOneFace", func(t *testing.T) {
		faces, err := assembleFaces(u16(0, 1), 2, 2)
		require.NoError(t, err)
		assert.Empty(t, faces)
	})

	t.Run("UnsupportedWidth", func(t *testing.T) {
		faces, err := assembleFaces(make([]byte, 18), 6, 3)
		assert.ErrorIs(t, err, ErrUnsupportedIndexWidth)
		assert.Nil(t, faces)
	})

	t.Run("ShortBuffer", func(t *testing.T) {
		_, err := assembleFaces(u16(0, 1, 2), 6, 2)
		assert.ErrorIs(t, err, ErrShortBuffer)
	})
}

func TestEmitIndices(t *testing.T) {
	faces := []engine.Face{{0, 1, 2}, {2, 1, 3}}

	assert.Equal(t, []byte{0, 1, 2, 2, 1, 3}, emitIndices(faces, UnsignedByte))
	assert.Equal(t, []byte{0, 1, 2, 2, 1, 3}, emitIndices(faces, Byte))
	assert.Equal(t, u16(0, 1, 2, 2, 1, 3), emitIndices(faces, UnsignedShort))
	assert.Equal(t, u16(0, 1, 2, 2, 1, 3), emitIndices(faces, Short))
	assert.Equal(t, u32(0, 1, 2, 2, 1, 3), emitIndices(faces, UnsignedInt))
	assert.Empty(t, emitIndices(nil, UnsignedInt))
}

func TestIndexLimit(t *testing.T) {
	limit, ok := indexLimit(Byte)
	assert.True(t, ok)
	assert.EqualValues(t, 127, limit)

	limit, ok = indexLimit(UnsignedShort)
	assert.True(t, ok)
	assert.EqualValues(t, 65535, limit)

	_, ok = indexLimit(Float)
	assert.False(t, ok)
}
