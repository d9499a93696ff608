// Package config handles meshtool configuration loading and management.
package config

import (
	"go.uber.org/zap"

	"github.com/oy3o/meshcodec"
	"github.com/oy3o/meshcodec/internal/logger"
)

// Config holds all meshtool settings.
type Config struct {
	Compression  CompressionConfig  `yaml:"compression"`
	Quantization QuantizationConfig `yaml:"quantization"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// CompressionConfig holds the encoder effort setting.
type CompressionConfig struct {
	Level int `yaml:"level"` // 0 (fastest) to 10 (densest)
}

// QuantizationConfig holds per-role quantization bits. 0 disables
// quantization for that role.
type QuantizationConfig struct {
	Position int `yaml:"position"`
	Normal   int `yaml:"normal"`
	TexCoord int `yaml:"texcoord"`
	Generic  int `yaml:"generic"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string            `yaml:"level"`
	Console bool              `yaml:"console"`
	File    logger.FileConfig `yaml:"file"`
}

// Default returns a Config with the encoder's built-in defaults.
func Default() *Config {
	q := meshcodec.DefaultQuantization()
	return &Config{
		Compression: CompressionConfig{
			Level: meshcodec.DefaultCompressionLevel,
		},
		Quantization: QuantizationConfig{
			Position: q.Position,
			Normal:   q.Normal,
			TexCoord: q.TexCoord,
			Generic:  q.Generic,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    logger.DefaultFileConfig(""),
		},
	}
}

// QuantizationBits converts the quantization section for the encoder.
func (c *Config) QuantizationBits() meshcodec.Quantization {
	return meshcodec.Quantization{
		Position: c.Quantization.Position,
		Normal:   c.Quantization.Normal,
		TexCoord: c.Quantization.TexCoord,
		Generic:  c.Quantization.Generic,
	}
}

// Apply pushes the compression and quantization settings to enc.
func (c *Config) Apply(enc *meshcodec.Encoder) error {
	if err := enc.SetCompressionLevel(c.Compression.Level); err != nil {
		return err
	}
	return enc.SetQuantizationBits(c.QuantizationBits())
}

// Logger builds the logger described by the logging section.
func (c *Config) Logger() *zap.Logger {
	return logger.New(c.Logging.Level, c.Logging.File, c.Logging.Console)
}
