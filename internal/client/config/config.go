package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/agentmarket/internal/filex"
	"github.com/dmitrijs2005/agentmarket/internal/flagx"
)

const appName = "agentmarket"

// Config holds runtime settings for the agentmarket CLI.
type Config struct {
	// APIURL is the root of the marketplace REST API.
	APIURL string
	// DBPath is the local SQLite file holding the persisted session.
	DBPath string
	// RequestTimeout bounds every backend request. Zero disables it.
	RequestTimeout time.Duration
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// NoColor disables ANSI styling.
	NoColor bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8000"
	c.DBPath = defaultDBPath()
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "warn"
	c.NoColor = false
}

func defaultDBPath() string {
	dir, err := filex.DataDir(appName)
	if err != nil {
		return appName + ".db"
	}
	return filepath.Join(dir, appName+".db")
}

// LoadConfig builds a Config from defaults, then the JSON file, then the
// environment (including a .env file), then command-line flags. Later
// sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	files := flagx.FileFlags(args)
	if err := parseJson(cfg, files.JSON); err != nil {
		return nil, err
	}
	if err := loadDotenv(files.Env); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
