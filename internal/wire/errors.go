package wire

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("wire: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("wire: writer returned invalid count from Write")

	// ErrTrailingData is returned when non-zero bytes are found after the expected
	// end of a structure.
	ErrTrailingData = errors.New("wire: non-zero trailing data found after decoding")

	// ErrTruncatedData indicates that the data ended before all expected bytes were read.
	ErrTruncatedData = errors.New("wire: truncated data")

	// ErrVarintOverflow indicates a varint that does not fit in 64 bits.
	ErrVarintOverflow = errors.New("wire: varint overflows a 64-bit integer")

	// ErrBlockTooLarge indicates a length prefix larger than the data that remains.
	ErrBlockTooLarge = errors.New("wire: block length exceeds remaining data")
)
