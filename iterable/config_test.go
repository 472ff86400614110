package iterable_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/stateiter/iterable"
)

func TestDefaultConfig(t *testing.T) {
	cfg := iterable.DefaultConfig()

	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, "noop", cfg.Observer)
	assert.Zero(t, cfg.MaxBuffered, "buffer is unbounded by default")
}

func TestConfig_Merge(t *testing.T) {
	tests := []struct {
		name   string
		source iterable.Config
		want   iterable.Config
	}{
		{
			name:   "empty source keeps defaults",
			source: iterable.Config{},
			want:   iterable.DefaultConfig(),
		},
		{
			name:   "all fields",
			source: iterable.Config{Name: "counter", Observer: "slog", MaxBuffered: 64},
			want:   iterable.Config{Name: "counter", Observer: "slog", MaxBuffered: 64},
		},
		{
			name:   "non-positive max buffered ignored",
			source: iterable.Config{MaxBuffered: -5},
			want:   iterable.DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := iterable.DefaultConfig()
			cfg.Merge(&tt.source)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := iterable.Config{MaxBuffered: 10}
	assert.NoError(t, valid.Validate())

	invalid := iterable.Config{MaxBuffered: -1}
	assert.ErrorIs(t, invalid.Validate(), iterable.ErrInvalidConfig)
}

func TestConfig_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(iterable.Config{Name: "n", Observer: "slog", MaxBuffered: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"n","observer":"slog","max_buffered":3}`, string(data))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		want     iterable.Config
		wantErr  bool
		errMatch error
	}{
		{
			name:    "json",
			file:    "config.json",
			content: `{"name":"counter","max_buffered":16}`,
			want:    iterable.Config{Name: "counter", Observer: "noop", MaxBuffered: 16},
		},
		{
			name:    "yaml",
			file:    "config.yaml",
			content: "name: counter\nobserver: slog\nmax_buffered: 8\n",
			want:    iterable.Config{Name: "counter", Observer: "slog", MaxBuffered: 8},
		},
		{
			name:    "yml partial",
			file:    "config.yml",
			content: "observer: slog\n",
			want:    iterable.Config{Name: "default", Observer: "slog"},
		},
		{
			name:    "malformed json",
			file:    "config.json",
			content: `{"name":`,
			wantErr: true,
		},
		{
			name:     "negative max buffered",
			file:     "config.yaml",
			content:  "max_buffered: -1\n",
			wantErr:  true,
			errMatch: iterable.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := iterable.LoadConfig(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMatch != nil {
					assert.ErrorIs(t, err, tt.errMatch)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cfg)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := iterable.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
