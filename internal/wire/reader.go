package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Source is the minimal input a Reader needs: byte-at-a-time access for
// varints plus bulk reads.
type Source interface {
	io.Reader
	io.ByteReader
}

// Reader simplifies reading binary data. It tracks the first error;
// subsequent reads become no-ops.
type Reader struct {
	r   Source
	err error // first error encountered.
}

// NewReader wraps r. In-memory sources and bufio readers are read
// directly; anything else gets a BUFFER_SIZE buffer.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	switch src := r.(type) {
	case *Reader:
		return &Reader{r: src.r}, nil
	case *BytesReader, *bytes.Reader, *bytes.Buffer, *bufio.Reader:
		return &Reader{r: src.(Source)}, nil
	}
	return &Reader{r: bufio.NewReaderSize(r, BUFFER_SIZE)}, nil
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.setError(err)
	return n, r.err
}

func (r *Reader) Err() error { return r.err }

// Fail latches err unless an earlier error is already recorded. Callers use it
// to report semantic errors found while parsing.
func (r *Reader) Fail(err error) {
	r.setError(err)
}

func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Remaining reports how many bytes are left when the source is a slice,
// or -1 when that is unknown.
func (r *Reader) Remaining() int {
	switch src := r.r.(type) {
	case *BytesReader:
		return src.Available()
	case *bytes.Reader:
		return src.Len()
	case *bytes.Buffer:
		return src.Len()
	}
	return -1
}

// readFull reads exactly n bytes, refusing up front when a slice source
// is known to be too short.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	if rem := r.Remaining(); rem >= 0 && n > rem {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	buf := make([]byte, n)
	r.ReadBytesTo(buf)
	if r.err != nil {
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// ReadBytesTo fills dest.
func (r *Reader) ReadBytesTo(dest []byte) {
	if r.err != nil || len(dest) == 0 {
		return
	}
	if _, err := io.ReadFull(r.r, dest); err != nil {
		// a partial read is different from a clean end-of-stream.
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
	}
}

// ReadBlock reads a uvarint length prefix followed by that many bytes.
func (r *Reader) ReadBlock() []byte {
	var n uint64
	r.ReadUvarint(&n)
	if r.err != nil || n == 0 {
		return nil
	}
	if n > math.MaxInt32 {
		r.setError(ErrBlockTooLarge)
		return nil
	}
	if rem := r.Remaining(); rem >= 0 && int(n) > rem {
		r.setError(ErrBlockTooLarge)
		return nil
	}
	return r.readFull(int(n))
}

// --- Primitive Read Operations ---

func (r *Reader) ReadBool(dest *bool) {
	var b uint8
	r.ReadUint8(&b)
	if r.err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	r.setError(err)
	return b, err
}

func (r *Reader) ReadUint8(dest *uint8) {
	if b, err := r.ReadByte(); err == nil {
		*dest = b
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = Order.Uint32(buf)
	}
}

func (r *Reader) ReadFloat32(dest *float32) {
	var bits uint32
	r.ReadUint32(&bits)
	if r.err == nil {
		*dest = math.Float32frombits(bits)
	}
}

// ReadUvarint reads an unsigned LEB128 varint.
func (r *Reader) ReadUvarint(dest *uint64) {
	if r.err != nil {
		return
	}
	v, err := binary.ReadUvarint(r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			r.err = io.ErrUnexpectedEOF
			return
		}
		r.setError(ErrVarintOverflow)
		return
	}
	*dest = v
}

// ReadVarint reads a zigzag-encoded signed varint.
func (r *Reader) ReadVarint(dest *int64) {
	var u uint64
	r.ReadUvarint(&u)
	if r.err == nil {
		x := int64(u >> 1)
		if u&1 != 0 {
			x = ^x
		}
		*dest = x
	}
}
