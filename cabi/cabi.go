// Package cabi is the flat, handle-based call surface over meshcodec for
// hosts that cannot hold Go objects. Every function takes a Handle and
// reports failure through its return value (InvalidID, false, 0 or nil);
// the reason goes to the package logger.
//
// The handle tables are safe for concurrent use. A single handle is not:
// one caller at a time must drive it from create to release.
package cabi

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/oy3o/meshcodec"
)

// Handle identifies an encoder or decoder. 0 is never issued.
type Handle uint64

// InvalidID is returned by attribute adders on failure.
const InvalidID = ^uint32(0)

var (
	encoders   = xsync.NewMap[Handle, *meshcodec.Encoder]()
	decoders   = xsync.NewMap[Handle, *meshcodec.Decoder]()
	nextHandle atomic.Uint64
)

func newHandle() Handle {
	return Handle(nextHandle.Add(1))
}

func lookupEncoder(h Handle) *meshcodec.Encoder {
	enc, ok := encoders.Load(h)
	if !ok {
		Logger().Warn("Unknown encoder handle", zap.Uint64("handle", uint64(h)))
		return nil
	}
	return enc
}

func lookupDecoder(h Handle) *meshcodec.Decoder {
	dec, ok := decoders.Load(h)
	if !ok {
		Logger().Warn("Unknown decoder handle", zap.Uint64("handle", uint64(h)))
		return nil
	}
	return dec
}

// LiveHandles reports how many encoders and decoders have not been released.
func LiveHandles() (encoderCount, decoderCount int) {
	return encoders.Size(), decoders.Size()
}
