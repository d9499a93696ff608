package meshcodec

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type DecoderTestSuite struct {
	suite.Suite
	grid testGrid
	logs *observer.ObservedLogs
	log  *zap.Logger
}

func (s *DecoderTestSuite) SetupTest() {
	s.grid = newTestGrid(5)
	core, logs := observer.New(zap.DebugLevel)
	s.logs, s.log = logs, zap.New(core)
}

// encodeGrid encodes the grid and returns the stream with the attribute ids.
func (s *DecoderTestSuite) encodeGrid(morph bool, q Quantization) ([]byte, [5]uint32) {
	enc := NewEncoder()
	defer enc.Release()
	var ids [5]uint32
	ids[0], ids[1], ids[2], ids[3], ids[4] = s.grid.load(s.T(), enc)
	s.Require().NoError(enc.SetQuantizationBits(q))
	if morph {
		s.Require().NoError(enc.EncodeMorphPreserving())
	} else {
		s.Require().NoError(enc.Encode())
	}
	out := make([]byte, enc.EncodedSize())
	s.Require().Equal(len(out), enc.CopyEncoded(out))
	return out, ids
}

func (s *DecoderTestSuite) TestMorphPreservingRoundTripIsExact() {
	data, ids := s.encodeGrid(true, Quantization{})
	dec := NewDecoder(WithLogger(s.log))
	defer dec.Release()
	s.Require().NoError(dec.Decode(data))

	s.Equal(s.grid.points, dec.PointCount())
	s.Equal(s.grid.indexCount/3, dec.FaceCount())

	s.Require().NoError(dec.DecodeIndices(UnsignedInt))
	s.Equal(s.grid.indices, dec.IndexBuffer())

	layouts := []struct {
		c    ComponentType
		rank string
		want []byte
	}{
		{Float, Vec3, s.grid.positions},
		{Float, Vec3, s.grid.normals},
		{Float, Vec2, s.grid.uvs},
		{UnsignedShort, Vec4, s.grid.joints},
		{Float, Vec4, s.grid.weights},
	}
	for i, l := range layouts {
		s.Require().NoError(dec.DecodeAttribute(ids[i], l.c, l.rank))
		s.Equal(len(l.want), dec.AttributeBufferSize(ids[i]))
		dst := make([]byte, dec.AttributeBufferSize(ids[i]))
		s.Equal(len(dst), dec.CopyAttributeBuffer(ids[i], dst))
		s.Equal(l.want, dst, "attribute %d", ids[i])
	}
}

func (s *DecoderTestSuite) TestStandardRoundTripWithinQuantizationStep() {
	data, ids := s.encodeGrid(false, DefaultQuantization())
	dec := NewDecoder()
	s.Require().NoError(dec.Decode(data))
	s.Require().NoError(dec.DecodeIndices(UnsignedInt))
	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec3))

	got := readF32(dec.AttributeBuffer(ids[0]))
	want := readF32(s.grid.positions)
	gotIdx := dec.IndexBuffer()
	s.Require().Len(gotIdx, len(s.grid.indices))

	// order may change; compare the position seen at every face corner.
	step := 2.0 / float64(1<<14-1)
	for k := range s.grid.indexCount {
		wp := binary.LittleEndian.Uint32(s.grid.indices[4*k:])
		gp := binary.LittleEndian.Uint32(gotIdx[4*k:])
		for c := range 3 {
			s.InDelta(want[3*wp+uint32(c)], got[3*gp+uint32(c)], step)
		}
	}
}

func (s *DecoderTestSuite) TestDecodeAttributeIsCached() {
	data, ids := s.encodeGrid(true, Quantization{})
	dec := NewDecoder()
	s.Require().NoError(dec.Decode(data))
	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec3))
	first := dec.AttributeBuffer(ids[0])

	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec3))
	s.Same(&first[0], &dec.AttributeBuffer(ids[0])[0], "same layout is served from the cache")

	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec4))
	s.Equal(s.grid.points*16, dec.AttributeBufferSize(ids[0]))
	padded := readF32(dec.AttributeBuffer(ids[0]))
	s.Zero(padded[3], "missing components are zero")
}

func (s *DecoderTestSuite) TestConversionFailureIsPerAttribute() {
	data, ids := s.encodeGrid(true, Quantization{})
	dec := NewDecoder(WithLogger(s.log))
	s.Require().NoError(dec.Decode(data))

	// positions contain negative values.
	err := dec.DecodeAttribute(ids[0], UnsignedByte, Vec3)
	s.ErrorIs(err, ErrConversion)
	s.Zero(dec.AttributeBufferSize(ids[0]))
	s.Nil(dec.AttributeBuffer(ids[0]))

	s.Require().NoError(dec.DecodeAttribute(ids[1], Float, Vec3))
	s.Equal(len(s.grid.normals), dec.AttributeBufferSize(ids[1]))

	// a failed request drops an earlier good buffer for the same id.
	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec3))
	s.Error(dec.DecodeAttribute(ids[0], UnsignedByte, Vec3))
	s.Zero(dec.AttributeBufferSize(ids[0]))
}

func (s *DecoderTestSuite) TestUnknownAttribute() {
	data, _ := s.encodeGrid(true, Quantization{})
	dec := NewDecoder(WithLogger(s.log))
	s.Require().NoError(dec.Decode(data))

	s.False(dec.AttributeIsNormalized(99))
	s.ErrorIs(dec.DecodeAttribute(99, Float, Vec3), ErrUnknownAttribute)
	s.Zero(dec.AttributeBufferSize(99))
	s.Nil(dec.AttributeBuffer(99))
	s.Zero(dec.CopyAttributeBuffer(99, make([]byte, 8)))
	s.Equal(2, s.logs.FilterMessage("Attribute with id=99 does not exist in decoded data").Len())
}

func (s *DecoderTestSuite) TestInvalidLayoutRequest() {
	data, ids := s.encodeGrid(true, Quantization{})
	dec := NewDecoder()
	s.Require().NoError(dec.Decode(data))
	s.ErrorIs(dec.DecodeAttribute(ids[0], Float, "VEC5"), ErrInvalidRank)
	s.ErrorIs(dec.DecodeAttribute(ids[0], ComponentType(7), Vec3), ErrInvalidComponentType)
}

func (s *DecoderTestSuite) TestDecodeIndicesTypes() {
	data, _ := s.encodeGrid(true, Quantization{})
	dec := NewDecoder(WithLogger(s.log))
	s.Require().NoError(dec.Decode(data))

	for _, c := range []ComponentType{Byte, UnsignedByte, Short, UnsignedShort, UnsignedInt} {
		s.Require().NoError(dec.DecodeIndices(c), c.String())
		s.Equal(s.grid.indexCount*c.ByteWidth(), dec.IndexBufferSize())
	}
	s.Require().NoError(dec.DecodeIndices(UnsignedShort))
	dst := make([]byte, dec.IndexBufferSize())
	s.Equal(len(dst), dec.CopyIndexBuffer(dst))
	s.Equal([]byte{0, 0, 1, 0, 6, 0}, dst[:6])

	s.ErrorIs(dec.DecodeIndices(Float), ErrInvalidComponentType)
	s.Equal(1, s.logs.FilterMessage("Index component type 5126 not supported").Len())
}

func (s *DecoderTestSuite) TestDecodeIndicesOverflow() {
	grid := newTestGrid(12) // 144 points
	enc := NewEncoder()
	_, err := enc.AddPositions(grid.points, grid.positions)
	s.Require().NoError(err)
	s.Require().NoError(enc.SetFaces(grid.indexCount, 4, grid.indices))
	s.Require().NoError(enc.Encode())

	dec := NewDecoder()
	s.Require().NoError(dec.Decode(enc.encoded))
	s.ErrorIs(dec.DecodeIndices(Byte), ErrIndexOverflow)
	s.NoError(dec.DecodeIndices(UnsignedByte))
}

func (s *DecoderTestSuite) TestFailedDecodeIsTerminal() {
	dec := NewDecoder(WithLogger(s.log))
	err := dec.Decode([]byte("not a mesh"))
	s.ErrorIs(err, ErrEngine)
	s.Equal(StateFailed, dec.State())
	s.Equal(1, s.logs.FilterMessage("Error during decoding").Len())

	s.Zero(dec.PointCount())
	s.Zero(dec.FaceCount())
	s.Nil(dec.Attributes())
	s.ErrorIs(dec.DecodeAttribute(0, Float, Vec3), ErrNotDecoded)
	s.ErrorIs(dec.DecodeIndices(UnsignedInt), ErrNotDecoded)
	s.Zero(dec.IndexBufferSize())
	s.ErrorIs(dec.Decode([]byte("again")), ErrFinalized)

	s.Equal(2, s.logs.FilterMessage("No decoded mesh available").Len())
	s.Equal(1, s.logs.FilterMessage("Decoder no longer accepts calls").Len())
}

func (s *DecoderTestSuite) TestEngineDiagnosticIsKept() {
	diag := errors.New("stream from the future")
	dec := NewDecoder(WithEngine(failingEngine{err: diag}))
	err := dec.Decode([]byte{1, 2, 3})
	s.ErrorIs(err, diag)
	s.Contains(err.Error(), "stream from the future")
}

func (s *DecoderTestSuite) TestAttributesListing() {
	enc := NewEncoder()
	_, err := enc.AddPositions(s.grid.points, s.grid.positions)
	s.Require().NoError(err)
	_, err = enc.AddNormalizedAttribute(RoleColor, UnsignedByte, Vec4, s.grid.points, make([]byte, s.grid.points*4))
	s.Require().NoError(err)
	s.Require().NoError(enc.SetFaces(s.grid.indexCount, 4, s.grid.indices))
	s.Require().NoError(enc.Encode())

	dec := NewDecoder()
	s.Require().NoError(dec.Decode(enc.encoded))
	s.Equal([]AttributeInfo{
		{ID: 0, Role: RolePosition, ComponentType: Float, Rank: Vec3},
		{ID: 1, Role: RoleColor, ComponentType: UnsignedByte, Rank: Vec4, Normalized: true},
	}, dec.Attributes())
	s.False(dec.AttributeIsNormalized(0))
	s.True(dec.AttributeIsNormalized(1))

	// normalized bytes come back as unit floats.
	s.Require().NoError(dec.DecodeAttribute(1, Float, Vec4))
	s.Equal(make([]float32, 4), readF32(dec.AttributeBuffer(1))[:4])
}

func (s *DecoderTestSuite) TestRelease() {
	data, ids := s.encodeGrid(true, Quantization{})
	dec := NewDecoder()
	s.Require().NoError(dec.Decode(data))
	s.Require().NoError(dec.DecodeAttribute(ids[0], Float, Vec3))
	s.Require().NoError(dec.DecodeIndices(UnsignedShort))
	dec.Release()

	s.Equal(StateReleased, dec.State())
	s.Zero(dec.AttributeBufferSize(ids[0]))
	s.Zero(dec.IndexBufferSize())
	s.ErrorIs(dec.DecodeAttribute(ids[0], Float, Vec3), ErrReleased)
	s.ErrorIs(dec.Decode(data), ErrReleased)
}

func (s *DecoderTestSuite) TestMetadataRoundTrip() {
	enc := NewEncoder()
	defer enc.Release()
	s.grid.load(s.T(), enc)
	s.Require().NoError(enc.SetMetadata("name", "grid"))
	s.Require().NoError(enc.SetMetadata("source", "meshtool"))
	s.Require().NoError(enc.Encode())
	s.ErrorIs(enc.SetMetadata("late", "x"), ErrFinalized)

	dec := NewDecoder()
	defer dec.Release()
	s.Require().NoError(dec.Decode(enc.encoded))
	s.Equal(map[string]string{"name": "grid", "source": "meshtool"}, dec.Metadata())
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}

func TestDecodeBeforeEncodeOutput(t *testing.T) {
	dec := NewDecoder()
	assert.Zero(t, dec.PointCount())
	assert.False(t, dec.AttributeIsNormalized(0))
	assert.Nil(t, dec.Metadata())
	err := dec.DecodeIndices(UnsignedInt)
	require.ErrorIs(t, err, ErrNotDecoded)
}
