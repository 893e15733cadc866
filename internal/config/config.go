// Package config loads the settings used to run a buffer pump.
package config

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacity  ByteSize = 64 * 1024
	DefaultChunkSize ByteSize = 4 * 1024
	DefaultLogLevel           = "info"
)

// ByteSize is a size in bytes that unmarshals from either an integer or a
// human readable string such as "64KiB" or "1MB".
type ByteSize int

func (size *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: byte size must be a scalar", node.Line)
	}

	parsed, err := ParseByteSize(node.Value)
	if err != nil {
		return err
	}

	*size = parsed
	return nil
}

func (size ByteSize) String() string {
	return humanize.IBytes(uint64(size))
}

// Set and Type let a ByteSize be used as a command line flag value.
func (size *ByteSize) Set(raw string) error {
	parsed, err := ParseByteSize(raw)
	if err != nil {
		return err
	}

	*size = parsed
	return nil
}

func (size *ByteSize) Type() string {
	return "bytes"
}

// ParseByteSize parses values accepted by humanize.ParseBytes.
func ParseByteSize(raw string) (ByteSize, error) {
	n, err := humanize.ParseBytes(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid byte size %q", raw)
	}

	if n > uint64(^uint(0)>>1) {
		return 0, errors.Errorf("byte size %q overflows int", raw)
	}

	return ByteSize(n), nil
}

type Config struct {
	// Initial buffer capacity.
	Capacity ByteSize `yaml:"capacity"`
	// Upper bound for growth. Zero means Capacity.
	MaxCapacity ByteSize `yaml:"max_capacity"`
	// Size of each read from the source.
	ChunkSize ByteSize `yaml:"chunk_size"`
	// Grow the buffer instead of draining it when a chunk does not fit.
	Grow     bool   `yaml:"grow"`
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Capacity:  DefaultCapacity,
		ChunkSize: DefaultChunkSize,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}

	return cfg, nil
}

// EffectiveMaxCapacity returns MaxCapacity, or Capacity when it is unset.
func (cfg Config) EffectiveMaxCapacity() int {
	if cfg.MaxCapacity == 0 {
		return int(cfg.Capacity)
	}

	return int(cfg.MaxCapacity)
}

func (cfg Config) Validate() error {
	if cfg.Capacity < 1 {
		return errors.Errorf("capacity must be at least 1 byte, got %d", cfg.Capacity)
	}

	if cfg.ChunkSize < 1 {
		return errors.Errorf("chunk_size must be at least 1 byte, got %d", cfg.ChunkSize)
	}

	if cfg.MaxCapacity != 0 && cfg.MaxCapacity < cfg.Capacity {
		return errors.Errorf("max_capacity %s is below capacity %s", cfg.MaxCapacity, cfg.Capacity)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	return nil
}
