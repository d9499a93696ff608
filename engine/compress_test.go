package engine

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupBytes(t *testing.T) {
	in := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	grouped := groupBytes(in, 4)
	assert.Equal(t, []byte{1, 5, 2, 6, 3, 7, 4, 8}, grouped)
	assert.Equal(t, in, ungroupBytes(grouped, 4))
	assert.Equal(t, in, groupBytes(in, 1))
}

func TestEntropyStage(t *testing.T) {
	tests := []struct {
		enc, dec int
		want     Compression
		level    zstd.EncoderLevel
	}{
		{10, 10, CompressionNone, 0},
		{9, 0, CompressionLZ4, 0},
		{3, 9, CompressionLZ4, 0},
		{8, 8, CompressionZstd, zstd.SpeedFastest},
		{7, 7, CompressionZstd, zstd.SpeedDefault},
		{3, 3, CompressionZstd, zstd.SpeedBetterCompression},
		{0, 0, CompressionZstd, zstd.SpeedBestCompression},
	}
	for _, tt := range tests {
		got, level := entropyStage(tt.enc, tt.dec)
		assert.Equal(t, tt.want, got, "speeds %d/%d", tt.enc, tt.dec)
		assert.Equal(t, tt.level, level, "speeds %d/%d", tt.enc, tt.dec)
	}
}

func TestCompressPayload(t *testing.T) {
	compressible := bytes.Repeat([]byte("vertex"), 512)
	random := make([]byte, 1024)
	_, err := rand.Read(random)
	require.NoError(t, err)

	for _, stage := range []Compression{CompressionLZ4, CompressionZstd} {
		t.Run(stage.String(), func(t *testing.T) {
			packed, used, err := compressPayload(compressible, stage, zstd.SpeedDefault)
			require.NoError(t, err)
			assert.Equal(t, stage, used)
			assert.Less(t, len(packed), len(compressible))

			raw, err := decompressPayload(packed, used, len(compressible))
			require.NoError(t, err)
			assert.Equal(t, compressible, raw)

			_, err = decompressPayload(packed, used, len(compressible)+1)
			assert.ErrorIs(t, err, ErrTruncatedData)

			packed, used, err = compressPayload(random, stage, zstd.SpeedDefault)
			require.NoError(t, err)
			assert.Equal(t, CompressionNone, used)
			assert.Equal(t, random, packed)
		})
	}

	_, err = decompressPayload([]byte{1}, Compression(7), 1)
	assert.ErrorIs(t, err, ErrUnsupportedCompression)
}

func TestCheckRawSize(t *testing.T) {
	tests := []struct {
		stage   Compression
		packed  int
		raw     int
		tooLong bool
	}{
		{CompressionNone, 64, 64, false},
		{CompressionNone, 64, MaxPayloadSize + 1, true},
		{CompressionLZ4, 4, 4 * lz4MaxRatio, false},
		{CompressionLZ4, 4, 4*lz4MaxRatio + 1, true},
		{CompressionZstd, 4, 4 * zstdMaxRatio, false},
		{CompressionZstd, 4, 4*zstdMaxRatio + 1, true},
		{CompressionZstd, 1 << 20, MaxPayloadSize + 1, true},
	}
	for _, tt := range tests {
		err := checkRawSize(tt.stage, tt.packed, tt.raw)
		if tt.tooLong {
			assert.ErrorIs(t, err, ErrPayloadTooLarge, "%s %d -> %d", tt.stage, tt.packed, tt.raw)
		} else {
			assert.NoError(t, err, "%s %d -> %d", tt.stage, tt.packed, tt.raw)
		}
	}
}

func TestZstdFrameSizeMustMatch(t *testing.T) {
	compressible := bytes.Repeat([]byte("normal"), 512)
	packed, used, err := compressPayload(compressible, CompressionZstd, zstd.SpeedDefault)
	require.NoError(t, err)
	require.Equal(t, CompressionZstd, used)

	_, err = decompressPayload(packed, used, len(compressible)-1)
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = decompressPayload([]byte{0xde, 0xad}, CompressionZstd, 2)
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestPayloadChecksumIsKeyed(t *testing.T) {
	a := payloadChecksum([]byte("mesh"))
	assert.Equal(t, a, payloadChecksum([]byte("mesh")))
	assert.NotEqual(t, a, payloadChecksum([]byte("mesH")))
}
