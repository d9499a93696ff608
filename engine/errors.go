package engine

import "errors"

var (
	// ErrInvalidMagic indicates the buffer does not start with a mesh stream header.
	ErrInvalidMagic = errors.New("engine: invalid stream magic")

	// ErrUnsupportedVersion indicates a stream written by an incompatible format revision.
	ErrUnsupportedVersion = errors.New("engine: unsupported stream version")

	// ErrTruncatedData indicates the stream ended before the declared payload.
	ErrTruncatedData = errors.New("engine: truncated stream")

	// ErrChecksumMismatch indicates the decompressed payload does not match its recorded hash.
	ErrChecksumMismatch = errors.New("engine: payload checksum mismatch")

	// ErrUnsupportedCompression indicates an unknown entropy stage tag.
	ErrUnsupportedCompression = errors.New("engine: unsupported compression tag")

	// ErrPayloadTooLarge indicates a declared payload size beyond MaxPayloadSize
	// or beyond what the packed bytes could expand to.
	ErrPayloadTooLarge = errors.New("engine: payload too large")

	// ErrInvalidMesh indicates a mesh that cannot be encoded or a payload
	// describing an inconsistent mesh.
	ErrInvalidMesh = errors.New("engine: invalid mesh")

	// ErrInvalidOptions indicates encoder options outside their valid range.
	ErrInvalidOptions = errors.New("engine: invalid options")
)
