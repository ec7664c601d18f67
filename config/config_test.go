package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paych.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	// The default file is written so operators have something to edit.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paych.toml")
	require.NoError(t, os.WriteFile(path, []byte("DataDir = \"/var/lib/paych\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/paych", cfg.DataDir)
	require.Equal(t, Default().SnapshotInterval, cfg.SnapshotInterval)
	require.Equal(t, Default().QueueSize, cfg.QueueSize)
	require.Equal(t, Default().NetworkName, cfg.NetworkName)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "LogLevel = \"verbose\"\n"},
		{"bad probe endpoint", "ProbeEndpoints = [\"ftp://example.com\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "paych.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}
