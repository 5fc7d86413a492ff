package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/feedback/internal/flagx"
	"github.com/dmitrijs2005/feedback/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so both "24h" and integer nanoseconds are accepted.
//
// Pointer fields distinguish "absent" from the zero value: only keys present
// in the file override what is already in Config.
type JsonConfig struct {
	EndpointAddr            *string         `json:"endpoint_addr"`
	DatabaseDSN             *string         `json:"database_dsn"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	BcryptCost              *int            `json:"bcrypt_cost"`
	LogLevel                *string         `json:"log_level"`
	LogFormat               *string         `json:"log_format"`
	SecureCookies           *bool           `json:"secure_cookies"`
	ShutdownTimeout         *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. An unreadable file or
// invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
	if c.LogFormat != nil {
		config.LogFormat = *c.LogFormat
	}
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
