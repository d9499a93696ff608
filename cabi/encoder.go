package cabi

import (
	"github.com/oy3o/meshcodec"
)

// EncoderCreate allocates an encoder with compression level 7 and
// quantization 14/10/12/12.
func EncoderCreate() Handle {
	h := newHandle()
	encoders.Store(h, meshcodec.NewEncoder(meshcodec.WithLogger(Logger())))
	return h
}

// EncoderRelease frees the encoder and its compressed buffer.
func EncoderRelease(h Handle) {
	enc, ok := encoders.LoadAndDelete(h)
	if !ok {
		lookupEncoder(h)
		return
	}
	enc.Release()
}

// EncoderSetCompressionLevel sets the level in [0, 10]; larger values are
// clamped. Ignored once the encoder has encoded.
func EncoderSetCompressionLevel(h Handle, level uint32) {
	if enc := lookupEncoder(h); enc != nil {
		_ = enc.SetCompressionLevel(int(min(level, 1<<16)))
	}
}

// EncoderSetQuantizationBits sets the bit depth per role; 0 stores values
// unquantized. Depths above 30 are rejected and logged.
func EncoderSetQuantizationBits(h Handle, position, normal, texCoord, generic uint32) {
	if enc := lookupEncoder(h); enc != nil {
		_ = enc.SetQuantizationBits(meshcodec.Quantization{
			Position: clampBits(position),
			Normal:   clampBits(normal),
			TexCoord: clampBits(texCoord),
			Generic:  clampBits(generic),
		})
	}
}

// clampBits keeps huge host values from wrapping negative; the encoder
// rejects anything above 30.
func clampBits(v uint32) int {
	return int(min(v, 255))
}

// EncoderAddAttribute copies count values of componentType × rank from data
// and returns the attribute id, or InvalidID.
func EncoderAddAttribute(h Handle, role meshcodec.Role, componentType uint32, rank string, count uint32, data []byte) uint32 {
	enc := lookupEncoder(h)
	if enc == nil {
		return InvalidID
	}
	return attributeID(enc.AddAttribute(role, meshcodec.ComponentType(componentType), rank, int(count), data))
}

// EncoderAddPositions adds FLOAT VEC3 positions and fixes the point count.
func EncoderAddPositions(h Handle, count uint32, data []byte) uint32 {
	return addTyped(h, count, data, (*meshcodec.Encoder).AddPositions)
}

// EncoderAddNormals adds FLOAT VEC3 normals.
func EncoderAddNormals(h Handle, count uint32, data []byte) uint32 {
	return addTyped(h, count, data, (*meshcodec.Encoder).AddNormals)
}

// EncoderAddUVs adds FLOAT VEC2 texture coordinates.
func EncoderAddUVs(h Handle, count uint32, data []byte) uint32 {
	return addTyped(h, count, data, (*meshcodec.Encoder).AddUVs)
}

// EncoderAddJoints adds UNSIGNED_SHORT VEC4 joint indices.
func EncoderAddJoints(h Handle, count uint32, data []byte) uint32 {
	return addTyped(h, count, data, (*meshcodec.Encoder).AddJoints)
}

// EncoderAddWeights adds FLOAT VEC4 joint weights.
func EncoderAddWeights(h Handle, count uint32, data []byte) uint32 {
	return addTyped(h, count, data, (*meshcodec.Encoder).AddWeights)
}

func addTyped(h Handle, count uint32, data []byte, add func(*meshcodec.Encoder, int, []byte) (uint32, error)) uint32 {
	enc := lookupEncoder(h)
	if enc == nil {
		return InvalidID
	}
	return attributeID(add(enc, int(count), data))
}

func attributeID(id uint32, err error) uint32 {
	if err != nil {
		return InvalidID
	}
	return id
}

// EncoderSetFaces assembles triangles from indexCount indices of
// indexStride bytes (1, 2 or 4).
func EncoderSetFaces(h Handle, indexCount, indexStride uint32, data []byte) {
	if enc := lookupEncoder(h); enc != nil {
		_ = enc.SetFaces(int(indexCount), int(indexStride), data)
	}
}

// EncoderEncode encodes with the densest settings for the level; point and
// face order may change.
func EncoderEncode(h Handle) bool {
	enc := lookupEncoder(h)
	return enc != nil && enc.Encode() == nil
}

// EncoderEncodeMorphed encodes keeping point and face order.
func EncoderEncodeMorphed(h Handle) bool {
	enc := lookupEncoder(h)
	return enc != nil && enc.EncodeMorphPreserving() == nil
}

// EncoderGetByteLength returns the compressed size, 0 before a successful encode.
func EncoderGetByteLength(h Handle) uint64 {
	enc := lookupEncoder(h)
	if enc == nil {
		return 0
	}
	return uint64(enc.EncodedSize())
}

// EncoderCopy copies the compressed buffer into dst, which should hold
// EncoderGetByteLength bytes, and returns the count written.
func EncoderCopy(h Handle, dst []byte) int {
	enc := lookupEncoder(h)
	if enc == nil {
		return 0
	}
	return enc.CopyEncoded(dst)
}
