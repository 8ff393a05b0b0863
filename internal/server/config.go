package server

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
	"github.com/matzehuels/qrmosaic/pkg/pipeline"
	"github.com/matzehuels/qrmosaic/pkg/qr"
)

// Config holds the HTTP service settings.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// ChunkSize is the default fragment size applied when a request does
	// not specify one.
	ChunkSize int

	// ModuleSize is the rendered QR module width in pixels.
	ModuleSize int

	// MaxUploadMB caps decode uploads.
	MaxUploadMB int
}

// DefaultConfig returns the built-in service settings.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8000",
		ChunkSize:   pipeline.DefaultChunkSize,
		ModuleSize:  qr.DefaultModuleSize,
		MaxUploadMB: 16,
	}
}

// fileConfig maps config.toml keys to service settings.
type fileConfig struct {
	Addr        string `toml:"addr"`
	ChunkSize   int    `toml:"chunk_size"`
	ModuleSize  int    `toml:"module_size"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// LoadConfig reads a TOML config file and overlays it on the defaults.
// Only keys present in the file override; absent keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load server config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("chunk_size") {
		cfg.ChunkSize = raw.ChunkSize
	}
	if meta.IsDefined("module_size") {
		cfg.ModuleSize = raw.ModuleSize
	}
	if meta.IsDefined("max_upload_mb") {
		cfg.MaxUploadMB = raw.MaxUploadMB
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Addr == "" {
		return qrerrors.New(qrerrors.ErrCodeValidation, "listen address cannot be empty")
	}
	if err := qrerrors.ValidateChunkSize(c.ChunkSize); err != nil {
		return err
	}
	if c.ModuleSize <= 0 {
		return qrerrors.New(qrerrors.ErrCodeValidation, "module size must be positive, got %d", c.ModuleSize)
	}
	if c.MaxUploadMB <= 0 {
		return qrerrors.New(qrerrors.ErrCodeValidation, "max upload size must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}
