// Command ragchat is a terminal client for a RAG chat backend.
//
// Usage:
//
//	ragchat login --user alice --key <api-key>
//	ragchat                # open the chat TUI
//	ragchat sessions       # list sessions
//	ragchat status         # probe the assistant service
//	ragchat logout
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/fwojciec/ragchat"
	ragchathttp "github.com/fwojciec/ragchat/http"
	"github.com/fwojciec/ragchat/sqlite"
	"github.com/fwojciec/ragchat/yaml"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "ragchat",
	Short:        "Terminal client for a RAG chat backend",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ragchat: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/ragchat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend requests to stderr")
}

// newClient builds the API client, logging each request when --verbose is
// set.
func newClient(cfg ragchat.Config, auth *ragchat.Auth) *ragchathttp.Client {
	if !verbose {
		return ragchathttp.New(cfg.BaseURL, auth.APIKey())
	}
	hc := &http.Client{Transport: &logTransport{next: http.DefaultTransport}}
	return ragchathttp.New(cfg.BaseURL, auth.APIKey(), ragchathttp.WithHTTPClient(hc))
}

type logTransport struct {
	next http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ragchat: %s %s: %v\n", req.Method, req.URL.Path, err)
		return resp, err
	}
	fmt.Fprintf(os.Stderr, "ragchat: %s %s %d %s\n", req.Method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}

// loadConfig reads the config file, falling back to the per-user default
// location when --config is not given.
func loadConfig() (ragchat.Config, error) {
	path := configPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return ragchat.Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "ragchat", "config.yaml")
	}
	return yaml.Load(path)
}

// openStore opens the local state database named by cfg, defaulting to the
// per-user config directory.
func openStore(cfg ragchat.Config) (*sqlite.Store, error) {
	path := cfg.StorePath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(dir, "ragchat", "state.db")
	}
	return sqlite.Open(path)
}

// openAuth loads stored credentials, requiring a complete pair.
func openAuth(store *sqlite.Store) (*ragchat.Auth, error) {
	auth, err := ragchat.NewAuth(store)
	if err != nil {
		return nil, err
	}
	if !auth.Authenticated() {
		return nil, fmt.Errorf("not logged in; run `ragchat login` first")
	}
	return auth, nil
}
