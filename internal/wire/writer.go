package wire

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Sink is the minimal output a Writer needs.
type Sink interface {
	io.Writer
	io.ByteWriter
	Flush() error
}

// bufferSink lets a bytes.Buffer act as an unbuffered Sink.
type bufferSink struct{ *bytes.Buffer }

func (bufferSink) Flush() error { return nil }

// Writer simplifies writing binary data. It tracks the first error that
// occurs; after an error, all subsequent writes become no-ops.
type Writer struct {
	w     Sink
	count int64 // total bytes written
	err   error // first error encountered.
}

// NewWriter wraps w. A bytes.Buffer or bufio.Writer is written directly;
// anything else gets a BUFFER_SIZE buffer that Flush drains.
func NewWriter(w io.Writer) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	switch sink := w.(type) {
	case *bytes.Buffer:
		return &Writer{w: bufferSink{sink}}, nil
	case *bufio.Writer:
		return &Writer{w: sink}, nil
	}
	return &Writer{w: bufio.NewWriterSize(w, BUFFER_SIZE)}, nil
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if buf == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	if n < 0 {
		w.setError(ErrInvalidWrite)
		return 0, w.err
	}
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) Err() error { return w.err }

// setError records the first non-nil error, preserving the root cause of
// a failure chain.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.setError(w.w.Flush())
	return w.err
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(buf []byte) {
	if buf == nil || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// WriteBlock writes a uvarint length prefix followed by buf.
func (w *Writer) WriteBlock(buf []byte) {
	w.WriteUvarint(uint64(len(buf)))
	if len(buf) > 0 {
		w.WriteBytes(buf)
	}
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) WriteUint8(v uint8) {
	_ = w.WriteByte(v)
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	Order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteUvarint writes v as an unsigned LEB128 varint.
func (w *Writer) WriteUvarint(v uint64) {
	if w.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}

// WriteVarint writes v zigzag-encoded so small magnitudes stay short.
func (w *Writer) WriteVarint(v int64) {
	if w.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}
