package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL  = "http://localhost:4000/api"
	defaultTimeout = 12 * time.Second
)

// Config holds the runtime settings read from the environment.
type Config struct {
	APIURL   string
	Timeout  time.Duration
	LogLevel string
	LogFile  string
	// FailOpenReservations lets seat selection continue when the
	// reservation list cannot be fetched. Every such use is logged.
	FailOpenReservations bool
}

// Load reads an optional .env file and then the CINECONNECT_* variables.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		APIURL:               strings.TrimRight(getenv("CINECONNECT_API_URL", defaultAPIURL), "/"),
		Timeout:              envDur("CINECONNECT_TIMEOUT", defaultTimeout),
		LogLevel:             strings.ToLower(getenv("CINECONNECT_LOG_LEVEL", "info")),
		LogFile:              os.Getenv("CINECONNECT_LOG_FILE"),
		FailOpenReservations: envBool("CINECONNECT_RESERVATIONS_FAIL_OPEN", false),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDur(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
