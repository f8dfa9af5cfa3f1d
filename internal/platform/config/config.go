// Package config loads server settings from an optional .env file, the
// environment, and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Port            string        `long:"port" env:"PORT" default:"8080" description:"HTTP listen port"`
	LogLevel        string        `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Minimum log level (debug, info, warn, error)"`
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" description:"Grace period for in-flight requests on shutdown"`
	ProjectID       string        `long:"project-id" env:"GOOGLE_CLOUD_PROJECT" description:"Google Cloud project used for trace correlation in logs"`
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q: must be a number between 1 and 65535", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %s: must be positive", c.ShutdownTimeout)
	}
	return nil
}

// Load reads envFiles (".env" when none are given) and parses args, which must
// not include the program name. Missing env files are ignored, and environment
// variables that are set but blank count as unset. A help request
// is returned as a *flags.Error with Type flags.ErrHelp.
func Load(args []string, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	ignoreEmptyEnv(parser)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return Config{}, err
	}
	if len(rest) > 0 {
		return Config{}, fmt.Errorf("unexpected arguments: %v", rest)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ignoreEmptyEnv detaches options whose env var is set but blank, so VAR= in a
// deployment manifest falls back to the default instead of failing to parse.
func ignoreEmptyEnv(parser *flags.Parser) {
	for _, opt := range parser.Group.Options() {
		if opt.EnvDefaultKey == "" {
			continue
		}
		if v, ok := os.LookupEnv(opt.EnvDefaultKey); ok && strings.TrimSpace(v) == "" {
			opt.EnvDefaultKey = ""
		}
	}
}
