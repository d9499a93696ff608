package meshcodec

import (
	"go.uber.org/zap"

	"github.com/oy3o/meshcodec/engine"
)

// Engine performs the actual mesh compression. engine.Codec is used unless
// WithEngine supplies another implementation.
type Engine interface {
	Encode(mesh *engine.Mesh, opts *engine.Options) ([]byte, error)
	Decode(data []byte) (*engine.Mesh, error)
}

var _ Engine = engine.Codec{}

type settings struct {
	log    *zap.Logger
	engine Engine
}

// Option configures an Encoder or Decoder at construction.
type Option func(*settings)

// WithLogger sets the diagnostic sink. A nil logger is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithEngine replaces the codec engine. A nil engine is ignored.
func WithEngine(e Engine) Option {
	return func(s *settings) {
		if e != nil {
			s.engine = e
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: zap.NewNop(), engine: engine.Codec{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
