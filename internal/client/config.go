package client

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	// APIBaseURL is the root of the backend REST surface. Paths under
	// /api are appended to it.
	APIBaseURL string `env:"TAVERNA_API_URL" envDefault:"http://127.0.0.1:5001"`
	// SocketURL is the duplex event channel endpoint.
	SocketURL string `env:"TAVERNA_WS_URL" envDefault:"ws://127.0.0.1:5001/ws"`
	// StatePath is the SQLite file holding the persisted credential.
	// When empty it is resolved under the user config directory.
	StatePath string `env:"TAVERNA_STATE_PATH"`
	// RequestTimeout bounds every REST call.
	RequestTimeout time.Duration `env:"TAVERNA_REQUEST_TIMEOUT" envDefault:"10s"`
	// DialTimeout bounds the channel handshake.
	DialTimeout time.Duration `env:"TAVERNA_DIAL_TIMEOUT" envDefault:"10s"`
}

// LoadConfig builds a Config instance using environment variables when present.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.StatePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.StatePath = filepath.Join(dir, "taverna", "state.db")
	}

	return cfg, nil
}
