// Package config loads runtime configuration for the console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables BLADMIN_SERVER_URL, BLADMIN_REQUEST_TIMEOUT,
//     BLADMIN_STATE_DSN and BLADMIN_LOG_LEVEL.
//  4. Command-line flags -a, -t, -d and -l.
//
// # JSON schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://screening.example.com/api/v1",
//	  "request_timeout": "10s",
//	  "state_dsn": "/var/lib/bladmin/state.db",
//	  "log_level": "info"
//	}
package config
