package wire

import (
	"encoding/binary"
	"io"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache avoids the cost of reflection in `binary.Size` on every call.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// Fixed lays out a struct `Payload` composed of fixed-size fields, such
// as a stream header.
//
// Constraint: The `Payload` type MUST NOT contain variable-size fields like slices,
// maps, or strings, as this will cause `binary.Size` to fail.
type Fixed[Payload any] struct {
	Payload Payload
}

var _ Sizer = (*Fixed[struct{}])(nil)

// Size returns the fixed size of the struct in bytes.
// The result is cached per payload type.
func (c *Fixed[Payload]) Size() int {
	bodyType := reflect.TypeOf((*Payload)(nil)).Elem()

	if size, ok := sizeCache.Load(bodyType); ok {
		return size
	}

	size := binary.Size(&c.Payload)
	sizeCache.Store(bodyType, size)
	return size
}

// UnmarshalBinary implements the standard `encoding.BinaryUnmarshaler` interface.
// Bytes after the payload must be zero.
func (c *Fixed[Payload]) UnmarshalBinary(data []byte) error {
	n, err := binary.Decode(data, Order, &c.Payload)
	if err != nil {
		return ErrTruncatedData
	}
	if len(data) > n {
		return CheckBufferNotZeros(data[n:])
	}
	return nil
}

// MarshalTo marshals the struct into the provided slice `p`.
func (c *Fixed[Payload]) MarshalTo(p []byte) (int, error) {
	n, err := binary.Encode(p, Order, &c.Payload)
	if err != nil {
		return n, io.ErrShortBuffer
	}
	return n, nil
}
