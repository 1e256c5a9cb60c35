package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/amelnik/enhancer/internal/flagx"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings understood by time.ParseDuration ("30s", "1m").
type JSONConfig struct {
	ServerURL      string `json:"server_url"`
	RequestTimeout string `json:"request_timeout"`
}

// parseJSON overlays cfg with values from the JSON file named by the -c or
// -config flag. With no such flag nothing is loaded. Read or parse errors
// panic; configuration is resolved before anything else starts.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
}
