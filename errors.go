package meshcodec

import "errors"

var (
	// ErrInvalidRank indicates a rank tag outside SCALAR/VEC2/VEC3/VEC4/MAT2/MAT3/MAT4.
	ErrInvalidRank = errors.New("meshcodec: invalid rank tag")

	// ErrInvalidComponentType indicates a component type code with no byte width
	// or no engine equivalent for the requested use.
	ErrInvalidComponentType = errors.New("meshcodec: invalid component type")

	// ErrInvalidRole indicates an attribute role outside the known set.
	ErrInvalidRole = errors.New("meshcodec: invalid attribute role")

	// ErrInvalidQuantization indicates quantization bits outside [0, 30].
	ErrInvalidQuantization = errors.New("meshcodec: invalid quantization bits")

	// ErrUnsupportedIndexWidth indicates an index element width other than 1, 2 or 4.
	ErrUnsupportedIndexWidth = errors.New("meshcodec: unsupported index width")

	// ErrShortBuffer indicates a caller buffer smaller than the declared element count.
	ErrShortBuffer = errors.New("meshcodec: buffer too short")

	// ErrUnknownAttribute indicates an attribute id the handle does not know.
	ErrUnknownAttribute = errors.New("meshcodec: unknown attribute")

	// ErrFinalized indicates a call that is only valid before encode or decode.
	ErrFinalized = errors.New("meshcodec: handle already finalized")

	// ErrNotFinalized indicates an output query before encode has succeeded.
	ErrNotFinalized = errors.New("meshcodec: handle not finalized")

	// ErrReleased indicates a call on a released handle.
	ErrReleased = errors.New("meshcodec: handle released")

	// ErrNotDecoded indicates an output query on a decoder without a successful decode.
	ErrNotDecoded = errors.New("meshcodec: no decoded mesh")

	// ErrConversion indicates a decoded value that cannot be represented in the
	// requested component type.
	ErrConversion = errors.New("meshcodec: attribute value conversion failed")

	// ErrIndexOverflow indicates an index component type too narrow for the point count.
	ErrIndexOverflow = errors.New("meshcodec: index type cannot address every point")

	// ErrEngine wraps a failure reported by the codec engine. The engine's
	// own error is kept in the chain and its text is preserved.
	ErrEngine = errors.New("meshcodec: engine failure")
)
