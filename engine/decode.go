package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/oy3o/meshcodec/internal/wire"
)

// Decode parses a stream produced by Encode.
func Decode(data []byte) (*Mesh, error) {
	h, err := readHeader(data)
	if err != nil {
		return nil, err
	}
	body := data[HeaderSize:]
	if uint64(len(body)) < uint64(h.PackedSize) {
		return nil, fmt.Errorf("%w: payload has %d of %d bytes", ErrTruncatedData, len(body), h.PackedSize)
	}
	if err := wire.CheckBufferNotZeros(body[h.PackedSize:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
	raw, err := decompressPayload(body[:h.PackedSize], Compression(h.Compression), int(h.RawSize))
	if err != nil {
		return nil, err
	}
	if payloadChecksum(raw) != h.Checksum {
		return nil, ErrChecksumMismatch
	}

	r, err := wire.NewReader(wire.NewBytesReader(raw))
	if err != nil {
		return nil, err
	}
	m := NewMesh()
	m.numPoints = int(h.Points)

	meta, err := unmarshalMetadata(r.ReadBlock())
	if err != nil {
		return nil, err
	}
	m.metadata = meta

	if err := readConnectivity(r, m, int(h.Faces), EncodingMethod(h.Method)); err != nil {
		return nil, err
	}
	for range h.Attributes {
		a, err := readAttribute(r, m.numPoints)
		if err != nil {
			return nil, err
		}
		if err := m.addDecodedAttribute(a); err != nil {
			return nil, err
		}
	}
	if err := streamError(r.Err()); err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d unread payload bytes", ErrInvalidMesh, r.Remaining())
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// streamError maps reader failures onto engine errors.
func streamError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF), errors.Is(err, wire.ErrBlockTooLarge):
		return fmt.Errorf("%w: %v", ErrTruncatedData, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
}

// need fails the reader when fewer than n bytes remain. Every element read
// afterwards consumes at least one byte, so this bounds allocations by the
// payload size.
func need(r *wire.Reader, n uint64) bool {
	if r.Err() != nil {
		return false
	}
	if rem := r.Remaining(); rem >= 0 && n > uint64(rem) {
		r.Fail(io.ErrUnexpectedEOF)
		return false
	}
	return true
}

func readConnectivity(r *wire.Reader, m *Mesh, numFaces int, method EncodingMethod) error {
	if method == MethodSequential {
		var width uint8
		r.ReadUint8(&width)
		if r.Err() == nil && width != 1 && width != 2 && width != 4 {
			return fmt.Errorf("%w: index width %d", ErrInvalidMesh, width)
		}
		if !need(r, uint64(numFaces)*3*uint64(width)) {
			return streamError(r.Err())
		}
		m.faces = make([]Face, numFaces)
		var scratch [4]byte
		for i := range m.faces {
			for k := range 3 {
				clear(scratch[:])
				r.ReadBytesTo(scratch[:width])
				m.faces[i][k] = binary.LittleEndian.Uint32(scratch[:])
			}
		}
		return streamError(r.Err())
	}

	if !need(r, uint64(numFaces)*3) {
		return streamError(r.Err())
	}
	m.faces = make([]Face, numFaces)
	var prev int64
	for i := range m.faces {
		for k := range 3 {
			var d int64
			r.ReadVarint(&d)
			prev += d
			if prev < 0 || prev > math.MaxUint32 {
				return fmt.Errorf("%w: face %d index out of range", ErrInvalidMesh, i)
			}
			m.faces[i][k] = uint32(prev)
		}
	}
	return streamError(r.Err())
}

func readAttribute(r *wire.Reader, numPoints int) (*PointAttribute, error) {
	var (
		attrType, dataType, comps, prediction, bits, mapping uint8
		normalized                                           bool
		uniqueID                                             uint32
		numValues                                            uint64
	)
	r.ReadUint8(&attrType)
	r.ReadUint8(&dataType)
	r.ReadUint8(&comps)
	r.ReadBool(&normalized)
	r.ReadUint32(&uniqueID)
	r.ReadUint8(&prediction)
	r.ReadUint8(&bits)
	r.ReadUvarint(&numValues)
	r.ReadUint8(&mapping)
	if err := streamError(r.Err()); err != nil {
		return nil, err
	}

	dt := DataType(dataType)
	if bits > MaxQuantizationBits || (bits > 0 && !dt.IsFloat()) {
		return nil, fmt.Errorf("%w: %d quantization bits for %s", ErrInvalidMesh, bits, dt)
	}
	if PredictionScheme(prediction) > PredictionDelta {
		return nil, fmt.Errorf("%w: prediction scheme %d", ErrInvalidMesh, prediction)
	}
	if !need(r, numValues) {
		return nil, streamError(r.Err())
	}
	a, err := NewPointAttribute(AttributeType(attrType), dt, int(comps), normalized, int(numValues))
	if err != nil {
		return nil, err
	}
	a.uniqueID = uniqueID

	switch mapping {
	case mappingIdentity:
	case mappingExplicit:
		if !need(r, uint64(numPoints)) {
			return nil, streamError(r.Err())
		}
		a.SetExplicitMapping(numPoints)
		for p := range numPoints {
			var idx uint64
			r.ReadUvarint(&idx)
			if idx >= numValues {
				return nil, fmt.Errorf("%w: point %d maps to value %d of %d", ErrInvalidMesh, p, idx, numValues)
			}
			a.pointMap[p] = uint32(idx)
		}
	default:
		return nil, fmt.Errorf("%w: mapping kind %d", ErrInvalidMesh, mapping)
	}

	count := int(numValues) * int(comps)
	width := dt.Size()
	switch {
	case bits > 0:
		q := &quantizer{bits: int(bits), min: make([]float32, comps), max: make([]float32, comps)}
		for c := range int(comps) {
			r.ReadFloat32(&q.min[c])
			r.ReadFloat32(&q.max[c])
		}
		if !need(r, uint64(count)) {
			return nil, streamError(r.Err())
		}
		prev := make([]int64, comps)
		limit := int64(q.maxQuantized())
		for i := range count {
			c := i % int(comps)
			var qv int64
			if PredictionScheme(prediction) == PredictionDelta {
				var d int64
				r.ReadVarint(&d)
				qv = prev[c] + d
				prev[c] = qv
			} else {
				var u uint64
				r.ReadUvarint(&u)
				qv = int64(min(u, math.MaxInt64))
			}
			if qv < 0 || qv > limit {
				return nil, fmt.Errorf("%w: quantized value out of range", ErrInvalidMesh)
			}
			binary.LittleEndian.PutUint32(a.values[i*4:], math.Float32bits(q.dequantize(c, uint32(qv))))
		}
	case !dt.IsFloat() && PredictionScheme(prediction) == PredictionDelta:
		if !need(r, uint64(count)) {
			return nil, streamError(r.Err())
		}
		prev := make([]int64, comps)
		for i := range count {
			c := i % int(comps)
			var d int64
			r.ReadVarint(&d)
			prev[c] += d
			if r.Err() == nil && !writeComponent(dt, a.values[i*width:], prev[c]) {
				return nil, fmt.Errorf("%w: %s component out of range", ErrInvalidMesh, dt)
			}
		}
	default:
		if !need(r, uint64(count)*uint64(width)) {
			return nil, streamError(r.Err())
		}
		grouped := r.ReadBytes(count * width)
		if r.Err() == nil {
			copy(a.values, ungroupBytes(grouped, width))
		}
	}
	if err := streamError(r.Err()); err != nil {
		return nil, err
	}
	return a, nil
}
