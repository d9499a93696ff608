package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// quantizer maps each float component linearly onto [0, 2^bits-1] using
// the per-component bounds of the attribute.
type quantizer struct {
	bits     int
	min, max []float32
}

func newQuantizer(values []byte, comps, bits int) (*quantizer, error) {
	q := &quantizer{
		bits: bits,
		min:  make([]float32, comps),
		max:  make([]float32, comps),
	}
	for c := range comps {
		q.min[c] = math.MaxFloat32
		q.max[c] = -math.MaxFloat32
	}
	n := len(values) / 4
	for i := range n {
		v := math.Float32frombits(binary.LittleEndian.Uint32(values[i*4:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("%w: non-finite value cannot be quantized", ErrInvalidMesh)
		}
		c := i % comps
		q.min[c] = min(q.min[c], v)
		q.max[c] = max(q.max[c], v)
	}
	if n == 0 {
		clear(q.min)
		clear(q.max)
	}
	return q, nil
}

func (q *quantizer) maxQuantized() float64 {
	return float64(uint32(1)<<q.bits - 1)
}

func (q *quantizer) quantize(c int, v float32) uint32 {
	span := float64(q.max[c]) - float64(q.min[c])
	if span <= 0 {
		return 0
	}
	return uint32(math.Floor((float64(v)-float64(q.min[c]))/span*q.maxQuantized() + 0.5))
}

func (q *quantizer) dequantize(c int, v uint32) float32 {
	span := float64(q.max[c]) - float64(q.min[c])
	if span <= 0 {
		return q.min[c]
	}
	return float32(float64(q.min[c]) + float64(v)/q.maxQuantized()*span)
}

// readComponent widens one integer component to int64.
func readComponent(dt DataType, raw []byte) int64 {
	switch dt {
	case DTInt8:
		return int64(int8(raw[0]))
	case DTUint8:
		return int64(raw[0])
	case DTInt16:
		return int64(int16(binary.LittleEndian.Uint16(raw)))
	case DTUint16:
		return int64(binary.LittleEndian.Uint16(raw))
	case DTInt32:
		return int64(int32(binary.LittleEndian.Uint32(raw)))
	default:
		return int64(binary.LittleEndian.Uint32(raw))
	}
}

// writeComponent narrows v into one integer component. It reports false
// when v is out of range for dt.
func writeComponent(dt DataType, dst []byte, v int64) bool {
	switch dt {
	case DTInt8:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return false
		}
		dst[0] = byte(int8(v))
	case DTUint8:
		if v < 0 || v > math.MaxUint8 {
			return false
		}
		dst[0] = byte(v)
	case DTInt16:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return false
		}
		binary.LittleEndian.PutUint16(dst, uint16(int16(v)))
	case DTUint16:
		if v < 0 || v > math.MaxUint16 {
			return false
		}
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case DTInt32:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return false
		}
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	default:
		if v < 0 || v > math.MaxUint32 {
			return false
		}
		binary.LittleEndian.PutUint32(dst, uint32(v))
	}
	return true
}
