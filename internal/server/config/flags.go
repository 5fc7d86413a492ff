package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/feedback/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN
//	-s string   session signing secret
//	-t int      session validity, minutes
//	-b int      bcrypt cost
//	-l string   log level
//	-f string   log format (json or text)
//	-secure     mark cookies Secure
//
// os.Args is filtered through flagx.FilterArgs first so flags owned by other
// layers (-c/-config) do not break parsing. -secure is read separately since
// a bare boolean flag would otherwise swallow the next argument.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidityDuration := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only an explicit -t overrides, so sub-minute values from other layers survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.SessionValidityDuration = time.Duration(*sessionValidityDuration) * time.Minute
		}
	})

	if secure, ok := flagx.BoolFlag(os.Args[1:], "secure"); ok {
		config.SecureCookies = secure
	}
}
