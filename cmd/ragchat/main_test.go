package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/yaml"
)

// execute runs the root command with args and returns its output. Commands
// share package-level flag state, so tests run sequentially.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, yaml.Save(path, ragchat.Config{
		BaseURL:   baseURL,
		StorePath: filepath.Join(dir, "state.db"),
	}))
	return path
}

func TestLoginLogout(t *testing.T) {
	cfg := writeConfig(t, ragchat.DefaultBaseURL)
	key := strings.Repeat("k", 40)

	out, err := execute(t, "login", "--config", cfg, "--user", "alice", "--key", key)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")

	out, err = execute(t, "logout", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	// Commands that need credentials now refuse to run.
	_, err = execute(t, "sessions", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLoginRejectsBadKey(t *testing.T) {
	cfg := writeConfig(t, ragchat.DefaultBaseURL)

	_, err := execute(t, "login", "--config", cfg, "--user", "alice", "--key", "short")
	assert.ErrorIs(t, err, ragchat.ErrValidation)
}

func TestSessionsCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sessions", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"content":[` +
			`{"id":"s1","sessionName":"Quarterly report","isFavorite":true,"messageCount":4}` +
			`]},"success":true}`))
	}))
	defer srv.Close()

	cfg := writeConfig(t, srv.URL)
	key := strings.Repeat("k", 40)
	_, err := execute(t, "login", "--config", cfg, "--user", "alice", "--key", key)
	require.NoError(t, err)

	out, err := execute(t, "sessions", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Quarterly report")
	assert.Contains(t, out, "★")
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/status", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"status":"UP","model":"rag-v2"}}`))
	}))
	defer srv.Close()

	cfg := writeConfig(t, srv.URL)
	key := strings.Repeat("k", 40)
	_, err := execute(t, "login", "--config", cfg, "--user", "alice", "--key", key)
	require.NoError(t, err)

	out, err := execute(t, "status", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "UP (rag-v2)")
}
