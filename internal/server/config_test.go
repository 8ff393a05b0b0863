package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qrerrors "github.com/matzehuels/qrmosaic/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
addr = "127.0.0.1:9000"
chunk_size = 200
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 200, cfg.ChunkSize)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().ModuleSize, cfg.ModuleSize)
	assert.Equal(t, DefaultConfig().MaxUploadMB, cfg.MaxUploadMB)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero chunk size", `chunk_size = 0`},
		{"negative module size", `module_size = -2`},
		{"empty addr", `addr = "  "`},
		{"zero upload cap", `max_upload_mb = 0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.True(t, qrerrors.Is(err, qrerrors.ErrCodeValidation), "error = %v", err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedTOML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `addr = [unclosed`))
	assert.Error(t, err)
}
