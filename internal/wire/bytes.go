package wire

import "io"

// BytesReader reads from a slice without copying it. Reader recognizes it
// and skips its own buffering.
type BytesReader struct {
	buf []byte
	off int
}

func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{buf: b}
}

func (r *BytesReader) Read(p []byte) (int, error) {
	if r.off >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.off:])
	r.off += n
	return n, nil
}

func (r *BytesReader) ReadByte() (byte, error) {
	if r.off >= len(r.buf) {
		return 0, io.EOF
	}
	c := r.buf[r.off]
	r.off++
	return c, nil
}

// Available is the number of unread bytes.
func (r *BytesReader) Available() int { return max(len(r.buf)-r.off, 0) }
