package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/synapsespace/synapsectl/internal/flagx"
	"github.com/synapsespace/synapsectl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "15s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL  string         `json:"server_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	RefreshLead    timex.Duration `json:"refresh_lead"`
	ResendCooldown timex.Duration `json:"resend_cooldown"`
	CachePath      string         `json:"cache_path"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present in the file override the current values. Panics on
// read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.RefreshLead.Duration != 0 {
		cfg.RefreshLead = time.Duration(jc.RefreshLead.Duration)
	}
	if jc.ResendCooldown.Duration != 0 {
		cfg.ResendCooldown = time.Duration(jc.ResendCooldown.Duration)
	}
	if jc.CachePath != "" {
		cfg.CachePath = jc.CachePath
	}
}
