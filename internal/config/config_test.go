package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves the working directory into a fresh temp dir so Load picks
// up only the config file the test writes there.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "09:00", cfg.Analysis.CheckInBoundary)
	assert.Equal(t, "18:00", cfg.Analysis.CheckOutBoundary)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	require.NoError(t, cfg.validate())
}

func TestLoadKeepsFileValues(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("server:\n  port: 9090\nanalysis:\n  check_in_boundary: \"10:00\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "10:00", cfg.Analysis.CheckInBoundary)
	// Fields the file leaves out keep their defaults.
	assert.Equal(t, "18:00", cfg.Analysis.CheckOutBoundary)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("server:\n  port: 9090\nanalysis:\n  check_in_boundary: \"10:00\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	t.Setenv("ATTEND_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "10:00", cfg.Analysis.CheckInBoundary)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestParseBoundary(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{value: "09:00", want: 540},
		{value: "18:00", want: 1080},
		{value: "00:00", want: 0},
		{value: "23:59", want: 1439},
		{value: "9am", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseBoundary(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "invalid port",
			mutate: func(c *Config) { c.Server.Port = 0 },
			errMsg: "invalid server port",
		},
		{
			name:   "bad check-in boundary",
			mutate: func(c *Config) { c.Analysis.CheckInBoundary = "late" },
			errMsg: "invalid boundary",
		},
		{
			name:   "inverted boundaries",
			mutate: func(c *Config) { c.Analysis.CheckInBoundary = "19:00" },
			errMsg: "must precede",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateForcesJSONFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
}
