package meshcodec

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/oy3o/meshcodec/engine"
	"github.com/oy3o/meshcodec/internal/wire"
)

// Encoder collects one mesh's attributes and faces and compresses them into
// a single buffer. It is single-shot: after Encode or EncodeMorphPreserving
// returns, only the output queries and Release remain valid.
//
// An Encoder must not be used from more than one goroutine at a time.
type Encoder struct {
	log    *zap.Logger
	engine Engine

	mesh      *engine.Mesh
	numPoints int
	pointsSet bool

	level int
	quant Quantization

	state   State
	encoded []byte
}

var _ wire.Marshaler = (*Encoder)(nil)

// NewEncoder returns an encoder with compression level 7 and the default
// quantization.
func NewEncoder(opts ...Option) *Encoder {
	s := newSettings(opts)
	return &Encoder{
		log:    s.log,
		engine: s.engine,
		mesh:   engine.NewMesh(),
		level:  DefaultCompressionLevel,
		quant:  DefaultQuantization(),
	}
}

// State returns the lifecycle state.
func (e *Encoder) State() State { return e.state }

// CompressionLevel returns the configured level.
func (e *Encoder) CompressionLevel() int { return e.level }

// Quantization returns the configured per-role bit depths.
func (e *Encoder) Quantization() Quantization { return e.quant }

// SetCompressionLevel sets the level in [0, 10]; higher is denser and
// slower. Values outside the range are clamped.
func (e *Encoder) SetCompressionLevel(level int) error {
	if err := e.open("SetCompressionLevel"); err != nil {
		return err
	}
	if level < 0 || level > 10 {
		clamped := min(max(level, 0), 10)
		e.log.Warn("Compression level out of range, clamping",
			zap.Int("level", level), zap.Int("clamped", clamped))
		level = clamped
	}
	e.level = level
	e.configured()
	return nil
}

// SetQuantizationBits sets the per-role quantization. Each value must be in
// [0, 30]; 0 disables quantization for that role.
func (e *Encoder) SetQuantizationBits(q Quantization) error {
	if err := e.open("SetQuantizationBits"); err != nil {
		return err
	}
	if err := q.validate(); err != nil {
		e.log.Error("Rejected quantization bits", zap.Error(err))
		return err
	}
	e.quant = q
	e.configured()
	return nil
}

// open reports why the encoder no longer accepts op, logging the refusal.
func (e *Encoder) open(op string) error {
	err := e.state.open()
	if err != nil {
		e.log.Error("Encoder no longer accepts calls",
			zap.String("op", op), zap.Stringer("state", e.state), zap.Error(err))
	}
	return err
}

func (e *Encoder) configured() {
	if e.state == StateCreated {
		e.state = StateConfigured
	}
}

// SetMetadata stores a key/value entry with the mesh.
func (e *Encoder) SetMetadata(key, value string) error {
	if err := e.open("SetMetadata"); err != nil {
		return err
	}
	e.mesh.SetMetadata(key, value)
	return nil
}

// AddAttribute copies count values of the given layout from data and
// returns the attribute's id. A position attribute also fixes the point
// count.
func (e *Encoder) AddAttribute(role Role, c ComponentType, rank string, count int, data []byte) (uint32, error) {
	return e.addAttribute(role, c, rank, count, data, false)
}

// AddNormalizedAttribute is AddAttribute for integer values that represent
// the unit interval.
func (e *Encoder) AddNormalizedAttribute(role Role, c ComponentType, rank string, count int, data []byte) (uint32, error) {
	return e.addAttribute(role, c, rank, count, data, true)
}

func (e *Encoder) addAttribute(role Role, c ComponentType, rank string, count int, data []byte, normalized bool) (uint32, error) {
	if err := e.open("AddAttribute"); err != nil {
		return 0, err
	}
	a, err := newAttribute(role, c, rank, count, data, normalized)
	if err != nil {
		e.log.Error("Failed to add attribute",
			zap.Stringer("role", role),
			zap.Stringer("componentType", c),
			zap.String("rank", rank),
			zap.Error(err))
		return 0, err
	}
	if role == RolePosition {
		e.numPoints = count
		e.pointsSet = true
	}
	id := e.mesh.AddAttribute(a)
	e.state = StateGeometryLoaded
	e.log.Debug("Added attribute",
		zap.Uint32("id", id),
		zap.Stringer("role", role),
		zap.Int("count", count))
	return id, nil
}

// AddPositions adds count FLOAT VEC3 positions and sets the point count.
func (e *Encoder) AddPositions(count int, data []byte) (uint32, error) {
	return e.AddAttribute(RolePosition, Float, Vec3, count, data)
}

// AddNormals adds count FLOAT VEC3 normals.
func (e *Encoder) AddNormals(count int, data []byte) (uint32, error) {
	return e.AddAttribute(RoleNormal, Float, Vec3, count, data)
}

// AddUVs adds count FLOAT VEC2 texture coordinates.
func (e *Encoder) AddUVs(count int, data []byte) (uint32, error) {
	return e.AddAttribute(RoleTexCoord, Float, Vec2, count, data)
}

// AddJoints adds count UNSIGNED_SHORT VEC4 joint indices.
func (e *Encoder) AddJoints(count int, data []byte) (uint32, error) {
	return e.AddAttribute(RoleJoint, UnsignedShort, Vec4, count, data)
}

// AddWeights adds count FLOAT VEC4 joint weights.
func (e *Encoder) AddWeights(count int, data []byte) (uint32, error) {
	return e.AddAttribute(RoleWeight, Float, Vec4, count, data)
}

// SetFaces reads count indices of width bytes each (1, 2 or 4) and replaces
// the face list with consecutive triples. Indices past the last full
// triple are ignored. An unsupported width leaves the faces unchanged.
func (e *Encoder) SetFaces(count, width int, data []byte) error {
	if err := e.open("SetFaces"); err != nil {
		return err
	}
	faces, err := assembleFaces(data, count, width)
	if err != nil {
		if width != 1 && width != 2 && width != 4 {
			e.log.Error(fmt.Sprintf("Unsupported index stride %d", width))
		} else {
			e.log.Error("Failed to set faces", zap.Error(err))
		}
		return err
	}
	if dropped := count % 3; dropped != 0 {
		e.log.Debug("Dropped trailing indices", zap.Int("count", dropped))
	}
	e.mesh.SetFaces(faces)
	e.state = StateGeometryLoaded
	return nil
}

// Encode compresses the mesh, letting the engine reorder points and apply
// prediction.
func (e *Encoder) Encode() error {
	return e.encode(false)
}

// EncodeMorphPreserving compresses the mesh keeping point and face order
// exactly as given, with prediction disabled. Use it for meshes that must
// stay index-aligned with other morph targets.
func (e *Encoder) EncodeMorphPreserving() error {
	return e.encode(true)
}

func (e *Encoder) encode(morph bool) error {
	if err := e.open("Encode"); err != nil {
		return err
	}
	e.mesh.SetNumPoints(e.pointCount())

	speed := 10 - e.level
	opts := engine.NewOptions()
	opts.SetSpeedOptions(speed, speed)
	for t, bits := range map[engine.AttributeType]int{
		engine.AttributePosition: e.quant.Position,
		engine.AttributeNormal:   e.quant.Normal,
		engine.AttributeTexCoord: e.quant.TexCoord,
		engine.AttributeGeneric:  e.quant.Generic,
	} {
		if err := opts.SetAttributeQuantization(t, bits); err != nil {
			return err
		}
	}
	if morph {
		for _, t := range []engine.AttributeType{
			engine.AttributePosition,
			engine.AttributeNormal,
			engine.AttributeColor,
			engine.AttributeTexCoord,
			engine.AttributeGeneric,
		} {
			opts.SetAttributePredictionScheme(t, engine.PredictionNone)
		}
		opts.SetEncodingMethod(engine.MethodSequential)
	}

	out, err := e.engine.Encode(e.mesh, opts)
	if err != nil {
		e.state = StateFailed
		e.encoded = nil
		e.log.Error("Error during encoding", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	e.state = StateSucceeded
	e.encoded = out
	e.log.Info(fmt.Sprintf("Encoded %d vertices, %d indices", e.mesh.NumPoints(), e.mesh.NumFaces()*3),
		zap.Bool("morph", morph),
		zap.Int("level", e.level),
		zap.Int("bytes", len(out)))
	return nil
}

// pointCount is the position count, or the value count of the first
// attribute when no positions were added.
func (e *Encoder) pointCount() int {
	if e.pointsSet {
		return e.numPoints
	}
	if e.mesh.NumAttributes() > 0 {
		return e.mesh.Attribute(0).NumValues()
	}
	return 0
}

// EncodedSize returns the compressed length, or 0 before a successful encode.
func (e *Encoder) EncodedSize() int {
	if e.state != StateSucceeded {
		return 0
	}
	return len(e.encoded)
}

// CopyEncoded copies the compressed buffer into dst and returns the number
// of bytes written. dst should be at least EncodedSize bytes.
func (e *Encoder) CopyEncoded(dst []byte) int {
	if e.state != StateSucceeded {
		return 0
	}
	return copy(dst, e.encoded)
}

// Size implements wire.Sizer.
func (e *Encoder) Size() int { return e.EncodedSize() }

// MarshalBinary returns a copy of the compressed buffer.
func (e *Encoder) MarshalBinary() ([]byte, error) {
	if e.state != StateSucceeded {
		return nil, e.outputError()
	}
	return append([]byte(nil), e.encoded...), nil
}

// MarshalTo copies the compressed buffer into p.
func (e *Encoder) MarshalTo(p []byte) (int, error) {
	if e.state != StateSucceeded {
		return 0, e.outputError()
	}
	if len(p) < len(e.encoded) {
		return 0, io.ErrShortBuffer
	}
	return copy(p, e.encoded), nil
}

// WriteTo writes the compressed buffer to w.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	if e.state != StateSucceeded {
		return 0, e.outputError()
	}
	n, err := w.Write(e.encoded)
	return int64(n), err
}

func (e *Encoder) outputError() error {
	switch e.state {
	case StateReleased:
		return ErrReleased
	case StateFailed:
		return ErrEngine
	default:
		return ErrNotFinalized
	}
}

// Release frees the mesh and the compressed buffer. The encoder is unusable
// afterwards.
func (e *Encoder) Release() {
	e.mesh = nil
	e.encoded = nil
	e.state = StateReleased
}
