package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/campuslink/campuslink/internal/flagx"
)

// jsonConfig is the DTO used only for JSON unmarshalling. The timeout is
// a duration string ("15s"); absent fields leave the current value alone.
type jsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	RequestTimeout string `json:"request_timeout"`
	DatabasePath   string `json:"database_path"`
}

// parseJSON overlays Config with values from the JSON file named by the
// -c/-config flag. No flag means no JSON stage. Read or parse errors
// panic; this runs once at startup before anything else is wired up.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
}
