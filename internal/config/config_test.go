package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/meshcodec"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 7, cfg.Compression.Level)
	assert.Equal(t, QuantizationConfig{Position: 14, Normal: 10, TexCoord: 12, Generic: 12}, cfg.Quantization)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
	assert.Empty(t, cfg.Logging.File.Path)
	assert.Equal(t, meshcodec.DefaultQuantization(), cfg.QuantizationBits())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshtool.yaml")
	content := `
compression:
  level: 3
quantization:
  position: 16
  normal: 0
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Compression.Level)
	assert.Equal(t, 16, cfg.Quantization.Position)
	assert.Equal(t, 0, cfg.Quantization.Normal)
	assert.Equal(t, 12, cfg.Quantization.TexCoord, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression: [1, 2"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Compression.Level = 10
	cfg.Quantization.Generic = 8
	cfg.Logging.File.Path = "/var/log/meshtool.log"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meshtool.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression:\n  level: 2\n"), 0644))

	var flags Flags
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.AddFlags(flagSet)
	require.NoError(t, flagSet.Parse([]string{"--config", path, "--qp", "0", "--debug", "--log-file", "out.log"}))

	cfg, err := flags.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Compression.Level, "level comes from the file")
	assert.Equal(t, 0, cfg.Quantization.Position)
	assert.Equal(t, 10, cfg.Quantization.Normal)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "out.log", cfg.Logging.File.Path)
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Compression.Level = 2
	cfg.Quantization.Position = 20

	enc := meshcodec.NewEncoder()
	require.NoError(t, cfg.Apply(enc))
	assert.Equal(t, 2, enc.CompressionLevel())
	assert.Equal(t, 20, enc.Quantization().Position)
	assert.Equal(t, meshcodec.StateConfigured, enc.State())

	cfg.Quantization.Normal = 31
	assert.ErrorIs(t, cfg.Apply(meshcodec.NewEncoder()), meshcodec.ErrInvalidQuantization)
}
