package ragchat

// DefaultBaseURL points at a local backend instance.
const DefaultBaseURL = "http://localhost:8080/ragchat"

// Config carries the client's connection settings.
type Config struct {
	// BaseURL is the backend's base URL, without the /api/v1 suffix.
	BaseURL string `yaml:"baseUrl"`

	// StatusURL is an optional websocket endpoint for service status
	// updates. Empty disables the status feed.
	StatusURL string `yaml:"statusUrl,omitempty"`

	// StorePath is the local credential store location. Empty uses the
	// per-user default.
	StorePath string `yaml:"storePath,omitempty"`
}

// DefaultConfig returns a Config with default settings.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL}
}
