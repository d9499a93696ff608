package meshcodec

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/oy3o/meshcodec/engine"
)

// AttributeInfo describes one decoded attribute as stored in the stream.
type AttributeInfo struct {
	ID            uint32
	Role          Role
	ComponentType ComponentType
	Rank          string
	Normalized    bool
}

// Decoder decompresses one buffer and converts its attributes and faces
// into caller-chosen layouts. Converted outputs stay owned by the decoder
// until Release.
//
// A Decoder must not be used from more than one goroutine at a time.
type Decoder struct {
	log    *zap.Logger
	engine Engine

	mesh  *engine.Mesh
	state State

	buffers map[uint32]*decodedBuffer
	indices []byte
}

// NewDecoder returns an empty decoder.
func NewDecoder(opts ...Option) *Decoder {
	s := newSettings(opts)
	return &Decoder{
		log:     s.log,
		engine:  s.engine,
		buffers: make(map[uint32]*decodedBuffer),
	}
}

// State returns the lifecycle state.
func (d *Decoder) State() State { return d.state }

// Decode decompresses data. The decoder does not retain data.
func (d *Decoder) Decode(data []byte) error {
	if err := d.state.open(); err != nil {
		d.log.Error("Decoder no longer accepts calls",
			zap.String("op", "Decode"), zap.Stringer("state", d.state), zap.Error(err))
		return err
	}
	mesh, err := d.engine.Decode(data)
	if err != nil {
		d.state = StateFailed
		d.log.Error("Error during decoding", zap.Int("bytes", len(data)), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	d.mesh = mesh
	d.state = StateSucceeded
	d.log.Debug("Decoded mesh",
		zap.Int("vertices", mesh.NumPoints()),
		zap.Int("indices", mesh.NumFaces()*3),
		zap.Int("attributes", mesh.NumAttributes()))
	return nil
}

// requireDecoded is decoded for operations that fail loudly.
func (d *Decoder) requireDecoded(op string) error {
	err := d.decoded()
	if err != nil {
		d.log.Error("No decoded mesh available",
			zap.String("op", op), zap.Stringer("state", d.state), zap.Error(err))
	}
	return err
}

func (d *Decoder) decoded() error {
	switch d.state {
	case StateSucceeded:
		return nil
	case StateReleased:
		return ErrReleased
	default:
		return ErrNotDecoded
	}
}

// PointCount returns the number of decoded points, or 0.
func (d *Decoder) PointCount() int {
	if d.decoded() != nil {
		return 0
	}
	return d.mesh.NumPoints()
}

// FaceCount returns the number of decoded triangles, or 0.
func (d *Decoder) FaceCount() int {
	if d.decoded() != nil {
		return 0
	}
	return d.mesh.NumFaces()
}

// Attributes lists the decoded attributes in stream order.
func (d *Decoder) Attributes() []AttributeInfo {
	if d.decoded() != nil {
		return nil
	}
	out := make([]AttributeInfo, 0, d.mesh.NumAttributes())
	for i := range d.mesh.NumAttributes() {
		a := d.mesh.Attribute(i)
		out = append(out, AttributeInfo{
			ID:            a.UniqueID(),
			Role:          roleOf(a.Type()),
			ComponentType: componentTypeOf(a.DataType()),
			Rank:          rankOf(a.NumComponents()),
			Normalized:    a.Normalized(),
		})
	}
	return out
}

// Metadata returns the key/value entries stored with the mesh.
func (d *Decoder) Metadata() map[string]string {
	if d.decoded() != nil {
		return nil
	}
	return d.mesh.Metadata()
}

func (d *Decoder) attribute(id uint32) (*engine.PointAttribute, error) {
	if err := d.requireDecoded("DecodeAttribute"); err != nil {
		return nil, err
	}
	a := d.mesh.AttributeByUniqueID(id)
	if a == nil {
		d.log.Warn(fmt.Sprintf("Attribute with id=%d does not exist in decoded data", id))
		return nil, fmt.Errorf("%w: id %d", ErrUnknownAttribute, id)
	}
	return a, nil
}

// AttributeIsNormalized reports the normalized flag of attribute id. Unknown
// ids report false.
func (d *Decoder) AttributeIsNormalized(id uint32) bool {
	if d.decoded() != nil {
		return false
	}
	a, err := d.attribute(id)
	return err == nil && a.Normalized()
}

// DecodeAttribute converts attribute id into PointCount values of layout
// (c, rank), in point order. The result is kept until Release and served
// again for repeated requests with the same layout; a different layout
// replaces it. A value that cannot be represented fails the whole
// attribute and leaves no buffer for it.
func (d *Decoder) DecodeAttribute(id uint32, c ComponentType, rank string) error {
	a, err := d.attribute(id)
	if err != nil {
		return err
	}
	if _, err := checkLayout(c, rank); err != nil {
		d.log.Error("Invalid attribute layout", zap.Uint32("id", id), zap.Error(err))
		return err
	}
	if buf, ok := d.buffers[id]; ok && buf.componentType == c && buf.rank == rank {
		return nil
	}
	delete(d.buffers, id)

	data, point, err := convertAttribute(a, d.mesh.NumPoints(), c, rank)
	if err != nil {
		d.log.Error(fmt.Sprintf("Failed to convert decoded attribute to %s %s for attribute with id=%d", c, rank, id),
			zap.Int("point", point))
		return fmt.Errorf("%w: attribute %d point %d to %s %s", err, id, point, c, rank)
	}
	d.buffers[id] = &decodedBuffer{componentType: c, rank: rank, data: data}
	return nil
}

// AttributeBufferSize returns the byte length of the converted attribute,
// or 0 if DecodeAttribute has not succeeded for id.
func (d *Decoder) AttributeBufferSize(id uint32) int {
	return len(d.AttributeBuffer(id))
}

// AttributeBuffer returns the converted attribute. The slice is owned by
// the decoder and valid until Release.
func (d *Decoder) AttributeBuffer(id uint32) []byte {
	if d.decoded() != nil {
		return nil
	}
	buf, ok := d.buffers[id]
	if !ok {
		return nil
	}
	return buf.data
}

// CopyAttributeBuffer copies the converted attribute into dst and returns
// the number of bytes written.
func (d *Decoder) CopyAttributeBuffer(id uint32, dst []byte) int {
	return copy(dst, d.AttributeBuffer(id))
}

// DecodeIndices writes every face's three point indices, in face order, as
// elements of component type c. c must be an integer type able to address
// every decoded point.
func (d *Decoder) DecodeIndices(c ComponentType) error {
	if err := d.requireDecoded("DecodeIndices"); err != nil {
		return err
	}
	limit, ok := indexLimit(c)
	if !ok {
		d.log.Error(fmt.Sprintf("Index component type %d not supported", uint32(c)))
		return fmt.Errorf("%w: %s as index type", ErrInvalidComponentType, c)
	}
	if n := d.mesh.NumPoints(); n > 0 && uint64(n-1) > limit {
		d.log.Error("Index type too narrow",
			zap.Stringer("componentType", c), zap.Int("points", n))
		return fmt.Errorf("%w: %d points as %s", ErrIndexOverflow, n, c)
	}
	d.indices = emitIndices(d.mesh.Faces(), c)
	return nil
}

// IndexBufferSize returns the byte length of the decoded index buffer.
func (d *Decoder) IndexBufferSize() int {
	return len(d.IndexBuffer())
}

// IndexBuffer returns the decoded index buffer, owned by the decoder.
func (d *Decoder) IndexBuffer() []byte {
	if d.decoded() != nil {
		return nil
	}
	return d.indices
}

// CopyIndexBuffer copies the index buffer into dst and returns the number of
// bytes written.
func (d *Decoder) CopyIndexBuffer(dst []byte) int {
	return copy(dst, d.IndexBuffer())
}

// Release drops the decoded mesh and every converted buffer.
func (d *Decoder) Release() {
	d.mesh = nil
	d.buffers = nil
	d.indices = nil
	d.state = StateReleased
}
