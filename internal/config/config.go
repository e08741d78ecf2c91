// Package config reads client settings from the environment, with an
// optional .env file for development setups.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultServer = "http://localhost:3000"

type Config struct {
	// Server is the base URL of the room server (http(s) or ws(s)).
	Server string
	// Name is the display name sent with guesses; servers may ignore it.
	Name string
	// Debug enables debug-level logging.
	Debug bool
}

// Load reads DOODLZ_SERVER, DOODLZ_NAME and DOODLZ_DEBUG, loading a
// .env file first when one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Server: os.Getenv("DOODLZ_SERVER"),
		Name:   os.Getenv("DOODLZ_NAME"),
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	if v, err := strconv.ParseBool(os.Getenv("DOODLZ_DEBUG")); err == nil {
		cfg.Debug = v
	}
	return cfg
}
