// Package config loads process configuration for the random module hosts.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	rerrors "github.com/reglet-dev/reglet-rand/domain/errors"
	"github.com/reglet-dev/reglet-rand/rand"
)

// Config is read from RAND_* environment variables.
type Config struct {
	// HostModule is the wazero host module name guests import from.
	HostModule string `env:"RAND_HOST_MODULE" envDefault:"reglet_host" validate:"required"`

	// LuaModule is the name scripts pass to require.
	LuaModule string `env:"RAND_LUA_MODULE" envDefault:"random" validate:"required"`

	// HTTPAddr is the listen address of the HTTP host.
	HTTPAddr string `env:"RAND_HTTP_ADDR" envDefault:":8080" validate:"required"`

	LogLevel  string `env:"RAND_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"RAND_LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`

	// GlobalSeed, when set, makes the global generator replay a fixed
	// sequence. 32 bytes as 64 hex characters.
	GlobalSeed string `env:"RAND_GLOBAL_SEED" validate:"omitempty,len=64,hexadecimal"`

	// MaxRequestSize caps payloads read from guests and HTTP bodies.
	MaxRequestSize uint32 `env:"RAND_MAX_REQUEST_SIZE" envDefault:"1048576" validate:"gt=0"`
}

// validate is a package-level singleton for better performance.
var validate = validator.New()

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

// LoadFile reads RAND_* variables from a dotenv file. Variables already set
// in the process environment take precedence over the file.
func LoadFile(path string) (Config, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Config{}, &rerrors.ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return LoadFrom(vars)
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, &rerrors.ConfigError{Err: fmt.Errorf("parse env: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first failing field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &rerrors.ConfigError{Field: verrs[0].Field(), Err: verrs[0]}
	}
	return &rerrors.ConfigError{Err: err}
}

// Global returns the generator behind the effectful draws: rand.Default
// unless GlobalSeed is set.
func (c Config) Global() (*rand.Global, error) {
	if c.GlobalSeed == "" {
		return rand.Default, nil
	}
	raw, err := hex.DecodeString(c.GlobalSeed)
	if err != nil || len(raw) != 32 {
		return nil, &rerrors.ConfigError{Field: "GlobalSeed", Err: fmt.Errorf("must be 64 hex characters")}
	}
	var seed [32]byte
	copy(seed[:], raw)
	return rand.NewSeededGlobal(seed), nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
