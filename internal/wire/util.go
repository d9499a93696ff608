package wire

import (
	"encoding/binary"
	"fmt"
)

// Order is the byte order of every stream. Mesh buffers cross the
// boundary as little-endian glTF data, so streams follow suit.
var Order binary.ByteOrder = binary.LittleEndian

const BUFFER_SIZE = 4096

// CheckBufferNotZeros reports ErrTrailingData if b contains a non-zero byte.
func CheckBufferNotZeros(b []byte) error {
	for i, v := range b {
		if v != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, v, i)
		}
	}
	return nil
}
