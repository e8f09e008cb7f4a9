// Package ebnfcfg loads engine tuning options from a TOML configuration
// file, for deployments that want to adjust buffer sizing without a
// recompile.
package ebnfcfg

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/ebnflow/engine"
)

// Options is the on-disk shape of an engine configuration file.
//
//	[buffer]
//	max_size = 65536
//	min_slide = 32768
//	chunk_size = 4096
type Options struct {
	Buffer BufferOptions `toml:"buffer"`
}

// BufferOptions controls the engine's sliding window buffer.
type BufferOptions struct {
	MaxSize   int `toml:"max_size"`
	MinSlide  int `toml:"min_slide"`
	ChunkSize int `toml:"chunk_size"`
}

// Load reads and parses a TOML configuration file at path.
func Load(path string) (Options, error) {
	var o Options
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	if err := toml.Unmarshal(data, &o); err != nil {
		return o, err
	}
	return o, nil
}

// ToEngine converts these options into engine.Options, leaving any unset
// (zero) field to the engine's own default for that field.
func (o Options) ToEngine() engine.Options {
	return engine.Options{
		MaxBufferSize: o.Buffer.MaxSize,
		MinSlideSize:  o.Buffer.MinSlide,
		ChunkSize:     o.Buffer.ChunkSize,
	}
}
