package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bladmin/internal/flagx"
	"github.com/dmitrijs2005/bladmin/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Only non-empty fields
// override the current values.
type JsonConfig struct {
	ServerBaseURL  string          `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StateDSN       string          `json:"state_dsn"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config in args.
// Without either flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateDSN != "" {
		cfg.StateDSN = jc.StateDSN
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	return nil
}
