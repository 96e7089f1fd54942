package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/client/remote"
)

// Config holds runtime settings for the notes client.
//
// Units: OnlineCheckInterval and ProbeTimeout are time.Duration values.
type Config struct {
	// DataDir holds the SQLite database and the log file.
	DataDir string
	Remote  remote.Options

	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	// UseNetlink switches connectivity detection from periodic probing to
	// kernel route events (linux only).
	UseNetlink bool

	LogFile  string
	LogLevel string

	// LiveFeedAddr enables the websocket feed when non-empty.
	LiveFeedAddr string

	IdentitySecret string
	IdentityIssuer string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.Remote = remote.Options{
		Kind: remote.KindGRPC,
		GRPC: remote.GRPCOptions{Addr: "127.0.0.1:50051"},
	}
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeTimeout = 2 * time.Second
	c.LogLevel = "info"
	c.IdentityIssuer = "gophnotes"
}

// DBPath is the local database file inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "notes.db")
}

// LogPath is LogFile, or client.log inside DataDir when unset.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "client.log")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if -c/-config is given) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	return nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gophnotes")
	}
	return ".gophnotes"
}
