package engine

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/oy3o/meshcodec/internal/wire"
)

const (
	mappingIdentity uint8 = 0
	mappingExplicit uint8 = 1
)

// attributeView is an attribute as it will be written: values in final
// order plus the point map for the final point order.
type attributeView struct {
	src       *PointAttribute
	values    []byte
	numValues int
	pointMap  []uint32
}

// Encode serializes m. A nil opts encodes with default options.
func Encode(m *Mesh, opts *Options) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil mesh", ErrInvalidMesh)
	}
	if opts == nil {
		opts = NewOptions()
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	method := opts.EncodingMethod()
	faces := m.faces
	views := make([]attributeView, len(m.attributes))
	if method == MethodSequential {
		for i, a := range m.attributes {
			views[i] = attributeView{src: a, values: a.values, numValues: a.numValues}
			if a.pointMap != nil {
				views[i].pointMap = a.pointMap[:m.numPoints]
			}
		}
	} else {
		order, remap := firstUseOrder(m)
		faces = make([]Face, len(m.faces))
		for i, f := range m.faces {
			faces[i] = Face{remap[f[0]], remap[f[1]], remap[f[2]]}
		}
		for i, a := range m.attributes {
			views[i] = dedupValues(a, order)
		}
	}

	buf := wire.GetBuffer()
	defer wire.PutBuffer(buf)
	w, err := wire.NewWriter(buf)
	if err != nil {
		return nil, err
	}

	meta, err := marshalMetadata(m.metadata)
	if err != nil {
		return nil, err
	}
	w.WriteBlock(meta)
	writeConnectivity(w, faces, m.numPoints, method)
	for i := range views {
		if err := writeAttribute(w, &views[i], opts); err != nil {
			return nil, err
		}
	}
	if _, err := w.Result(); err != nil {
		return nil, err
	}

	raw := buf.Bytes()
	if len(raw) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(raw))
	}
	encSpeed, decSpeed := opts.Speeds()
	stage, level := entropyStage(encSpeed, decSpeed)
	packed, stage, err := compressPayload(raw, stage, level)
	if err != nil {
		return nil, err
	}

	hc := headerCodec{Payload: streamHeader{
		Magic:       streamMagic,
		Major:       versionMajor,
		Minor:       versionMinor,
		Method:      uint8(method),
		Compression: uint8(stage),
		Points:      uint32(m.numPoints),
		Faces:       uint32(len(faces)),
		Attributes:  uint32(len(views)),
		RawSize:     uint32(len(raw)),
		PackedSize:  uint32(len(packed)),
		Checksum:    payloadChecksum(raw),
	}}
	out := make([]byte, hc.Size()+len(packed))
	if _, err := hc.MarshalTo(out); err != nil {
		return nil, err
	}
	copy(out[hc.Size():], packed)
	return out, nil
}

// firstUseOrder orders points by their first reference in the face list.
// Points no face references keep their relative order at the end.
func firstUseOrder(m *Mesh) (order []int, remap []uint32) {
	remap = make([]uint32, m.numPoints)
	placed := make([]bool, m.numPoints)
	order = make([]int, 0, m.numPoints)
	for _, f := range m.faces {
		for _, p := range f {
			if !placed[p] {
				placed[p] = true
				remap[p] = uint32(len(order))
				order = append(order, int(p))
			}
		}
	}
	for p := range m.numPoints {
		if !placed[p] {
			remap[p] = uint32(len(order))
			order = append(order, p)
		}
	}
	return order, remap
}

// dedupValues rewrites a for the new point order, storing each distinct
// value once.
func dedupValues(a *PointAttribute, order []int) attributeView {
	stride := a.ByteStride()
	seen := make(map[string]uint32, len(order))
	values := make([]byte, 0, len(order)*stride)
	pointMap := make([]uint32, len(order))
	identity := true
	for newPoint, oldPoint := range order {
		v := a.Value(a.MappedIndex(oldPoint))
		idx, ok := seen[string(v)]
		if !ok {
			idx = uint32(len(seen))
			seen[string(v)] = idx
			values = append(values, v...)
		}
		pointMap[newPoint] = idx
		if int(idx) != newPoint {
			identity = false
		}
	}
	view := attributeView{src: a, values: values, numValues: len(seen)}
	if !identity {
		view.pointMap = pointMap
	}
	return view
}

// indexWidth is the narrowest little-endian width that holds every index
// of a mesh with numPoints points.
func indexWidth(numPoints int) int {
	switch {
	case numPoints <= 1<<8:
		return 1
	case numPoints <= 1<<16:
		return 2
	default:
		return 4
	}
}

func writeConnectivity(w *wire.Writer, faces []Face, numPoints int, method EncodingMethod) {
	if method == MethodSequential {
		width := indexWidth(numPoints)
		w.WriteUint8(uint8(width))
		var scratch [4]byte
		for _, f := range faces {
			for _, p := range f {
				binary.LittleEndian.PutUint32(scratch[:], p)
				w.WriteBytes(scratch[:width])
			}
		}
		return
	}
	var prev int64
	for _, f := range faces {
		for _, p := range f {
			w.WriteVarint(int64(p) - prev)
			prev = int64(p)
		}
	}
}

func writeAttribute(w *wire.Writer, v *attributeView, opts *Options) error {
	a := v.src
	prediction := opts.PredictionScheme(a.attrType)
	bits := 0
	if a.dataType.IsFloat() {
		bits = opts.QuantizationBits(a.attrType)
		if bits == 0 {
			// raw floats are byte-grouped; deltas would not be lossless.
			prediction = PredictionNone
		}
	}

	w.WriteUint8(uint8(a.attrType))
	w.WriteUint8(uint8(a.dataType))
	w.WriteUint8(uint8(a.numComponents))
	w.WriteBool(a.normalized)
	w.WriteUint32(a.uniqueID)
	w.WriteUint8(uint8(prediction))
	w.WriteUint8(uint8(bits))
	w.WriteUvarint(uint64(v.numValues))
	if v.pointMap == nil {
		w.WriteUint8(mappingIdentity)
	} else {
		w.WriteUint8(mappingExplicit)
		for _, idx := range v.pointMap {
			w.WriteUvarint(uint64(idx))
		}
	}

	comps := a.numComponents
	width := a.dataType.Size()
	values := v.values[:v.numValues*a.ByteStride()]
	switch {
	case bits > 0:
		q, err := newQuantizer(values, comps, bits)
		if err != nil {
			return err
		}
		for c := range comps {
			w.WriteFloat32(q.min[c])
			w.WriteFloat32(q.max[c])
		}
		prev := make([]int64, comps)
		for i := range v.numValues * comps {
			c := i % comps
			f := math.Float32frombits(binary.LittleEndian.Uint32(values[i*4:]))
			qv := int64(q.quantize(c, f))
			if prediction == PredictionDelta {
				w.WriteVarint(qv - prev[c])
				prev[c] = qv
			} else {
				w.WriteUvarint(uint64(qv))
			}
		}
	case a.dataType.IsFloat():
		w.WriteBytes(groupBytes(values, width))
	case prediction == PredictionDelta:
		prev := make([]int64, comps)
		for i := range v.numValues * comps {
			c := i % comps
			x := readComponent(a.dataType, values[i*width:])
			w.WriteVarint(x - prev[c])
			prev[c] = x
		}
	default:
		w.WriteBytes(groupBytes(values, width))
	}
	return w.Err()
}
