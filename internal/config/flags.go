package config

import "github.com/spf13/pflag"

// Flags holds command-line overrides. Unset flags leave the loaded
// configuration alone.
type Flags struct {
	Path     string
	Level    int
	Position int
	Normal   int
	TexCoord int
	Generic  int
	LogLevel string
	LogFile  string
	Debug    bool
}

// AddFlags registers the override flags on flagSet.
func (f *Flags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.Path, "config", "", "path to config file")
	flagSet.IntVar(&f.Level, "level", -1, "compression level 0-10")
	flagSet.IntVar(&f.Position, "qp", -1, "position quantization bits (0 disables)")
	flagSet.IntVar(&f.Normal, "qn", -1, "normal quantization bits (0 disables)")
	flagSet.IntVar(&f.TexCoord, "qt", -1, "texcoord quantization bits (0 disables)")
	flagSet.IntVar(&f.Generic, "qg", -1, "generic quantization bits (0 disables)")
	flagSet.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&f.LogFile, "log-file", "", "also write logs to this rotated file")
	flagSet.BoolVar(&f.Debug, "debug", false, "enable debug logging")
}

// Load reads the file named by --config (or the standard locations) and
// applies the flag overrides on top.
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.Path)
	if err != nil {
		return nil, err
	}
	f.apply(cfg)
	return cfg, nil
}

func (f *Flags) apply(cfg *Config) {
	if f.Level >= 0 {
		cfg.Compression.Level = f.Level
	}
	override(&cfg.Quantization.Position, f.Position)
	override(&cfg.Quantization.Normal, f.Normal)
	override(&cfg.Quantization.TexCoord, f.TexCoord)
	override(&cfg.Quantization.Generic, f.Generic)
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.File.Path = f.LogFile
	}
}

func override(dst *int, v int) {
	if v >= 0 {
		*dst = v
	}
}
