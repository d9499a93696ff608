package engine

// Codec is the stateless engine used by meshcodec unless another one is
// injected. The zero value is ready to use.
type Codec struct{}

func (Codec) Encode(m *Mesh, opts *Options) ([]byte, error) { return Encode(m, opts) }
func (Codec) Decode(data []byte) (*Mesh, error)             { return Decode(data) }
