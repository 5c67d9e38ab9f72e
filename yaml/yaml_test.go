package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := yaml.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ragchat.DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statusUrl: ws://localhost:8080/ws/status\n"), 0o600))

	cfg, err := yaml.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ragchat.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "ws://localhost:8080/ws/status", cfg.StatusURL)
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: [unclosed"), 0o600))

	_, err := yaml.Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	want := ragchat.Config{
		BaseURL:   "https://rag.example.com/ragchat",
		StatusURL: "wss://rag.example.com/ws/status",
		StorePath: "/var/lib/ragchat/state.db",
	}
	require.NoError(t, yaml.Save(path, want))

	got, err := yaml.Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
