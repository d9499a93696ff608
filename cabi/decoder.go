package cabi

import (
	"github.com/oy3o/meshcodec"
)

// DecoderCreate allocates an empty decoder.
func DecoderCreate() Handle {
	h := newHandle()
	decoders.Store(h, meshcodec.NewDecoder(meshcodec.WithLogger(Logger())))
	return h
}

// DecoderRelease frees the decoded mesh and every buffer handed out for it.
// Slices returned by the Get*Data functions must not be used afterwards.
func DecoderRelease(h Handle) {
	dec, ok := decoders.LoadAndDelete(h)
	if !ok {
		lookupDecoder(h)
		return
	}
	dec.Release()
}

// DecoderDecode decodes data. A decoder accepts one successful or failed
// decode; later calls return false.
func DecoderDecode(h Handle, data []byte) bool {
	dec := lookupDecoder(h)
	return dec != nil && dec.Decode(data) == nil
}

// DecoderGetVertexCount returns the decoded point count.
func DecoderGetVertexCount(h Handle) uint32 {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return uint32(dec.PointCount())
}

// DecoderGetIndexCount returns three times the decoded face count.
func DecoderGetIndexCount(h Handle) uint32 {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return uint32(dec.FaceCount() * 3)
}

// DecoderAttributeIsNormalized reports the normalized flag of attribute id.
// Unknown ids and undecoded handles report false.
func DecoderAttributeIsNormalized(h Handle, id uint32) bool {
	dec := lookupDecoder(h)
	return dec != nil && dec.AttributeIsNormalized(id)
}

// DecoderDecodeAttribute converts attribute id to componentType × rank.
func DecoderDecodeAttribute(h Handle, id, componentType uint32, rank string) bool {
	dec := lookupDecoder(h)
	return dec != nil && dec.DecodeAttribute(id, meshcodec.ComponentType(componentType), rank) == nil
}

// DecoderGetBufferSize returns the byte length of the converted attribute,
// 0 until DecoderDecodeAttribute succeeds for id.
func DecoderGetBufferSize(h Handle, id uint32) uint64 {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return uint64(dec.AttributeBufferSize(id))
}

// DecoderGetBufferData returns the converted attribute, owned by the decoder.
func DecoderGetBufferData(h Handle, id uint32) []byte {
	dec := lookupDecoder(h)
	if dec == nil {
		return nil
	}
	return dec.AttributeBuffer(id)
}

// DecoderCopyBuffer copies the converted attribute into dst and returns the
// count written.
func DecoderCopyBuffer(h Handle, id uint32, dst []byte) int {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return dec.CopyAttributeBuffer(id, dst)
}

// DecoderDecodeIndices emits the faces as indices of componentType
// (5120, 5121, 5122, 5123 or 5125).
func DecoderDecodeIndices(h Handle, componentType uint32) bool {
	dec := lookupDecoder(h)
	return dec != nil && dec.DecodeIndices(meshcodec.ComponentType(componentType)) == nil
}

// DecoderGetIndexBufferSize returns the byte length of the index buffer.
func DecoderGetIndexBufferSize(h Handle) uint64 {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return uint64(dec.IndexBufferSize())
}

// DecoderGetIndexBufferData returns the index buffer, owned by the decoder.
func DecoderGetIndexBufferData(h Handle) []byte {
	dec := lookupDecoder(h)
	if dec == nil {
		return nil
	}
	return dec.IndexBuffer()
}

// DecoderCopyIndexBuffer copies the index buffer into dst and returns the
// count written.
func DecoderCopyIndexBuffer(h Handle, dst []byte) int {
	dec := lookupDecoder(h)
	if dec == nil {
		return 0
	}
	return dec.CopyIndexBuffer(dst)
}
