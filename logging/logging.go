package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"cineconnect-cli/config"
)

const logFileName = "cineconnect.log"

// New builds the process logger. Interactive runs own the terminal, so they
// log to a file (CINECONNECT_LOG_FILE or the user cache dir). CLI runs log
// to stderr. The returned closer releases the file, if any.
func New(cfg config.Config, interactive bool) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	path := cfg.LogFile
	if path == "" && interactive {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "cineconnect-cli", logFileName)
	}
	if path == "" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(file)
	return logger, file, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// packages that were handed no logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
