package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/agentmarket/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. Fields are pointers
// so that keys missing from the file leave the current value alone.
// Durations go through timex.Duration and may be "30s" or nanoseconds.
type JsonConfig struct {
	APIURL         *string         `json:"api_url"`
	DBPath         *string         `json:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	NoColor        *bool           `json:"no_color"`
}

// parseJson overlays cfg with the values in the JSON file at path. An empty
// path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.APIURL != nil {
		cfg.APIURL = *jc.APIURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.NoColor != nil {
		cfg.NoColor = *jc.NoColor
	}
	return nil
}
