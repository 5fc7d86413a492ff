package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFiles are loaded into the process environment before it is read.
// Variables already set in the environment win over the files.
var dotenvFiles = []string{".env"}

// parseEnv overlays Config with environment variables:
//
//	ADDRESS         HTTP bind address
//	DATABASE_DSN    database DSN
//	SECRET_KEY      session signing secret
//	SESSION_TTL     session validity, e.g. "12h"
//	BCRYPT_COST     bcrypt work factor
//	LOG_LEVEL       debug, info, warn or error
//	LOG_FORMAT      json or text
//	SECURE_COOKIES  true/false
//
// Malformed values panic, like the other layers.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("loading %s: %w", f, err))
		}
	}

	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("SESSION_TTL: %w", err))
		}
		config.SessionValidityDuration = d
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("BCRYPT_COST: %w", err))
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		config.LogFormat = v
	}
	if v, ok := os.LookupEnv("SECURE_COOKIES"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("SECURE_COOKIES: %w", err))
		}
		config.SecureCookies = b
	}
}
