// Package logger holds the process-wide zerolog logger. GetLogger gives
// a usable logger before configuration is loaded; New reconfigures it
// once the log level and format are known.
package logger

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger zerolog.Logger
	once         sync.Once
)

// GetLogger returns the global logger. Before New is called it logs to
// the console at info level; LOG_FORMAT=json switches boot logs to JSON
// for environments that scrape stdout.
func GetLogger() zerolog.Logger {
	once.Do(func() {
		if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
			globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		} else {
			consoleWriter := zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			}
			globalLogger = zerolog.New(consoleWriter).With().Timestamp().Logger().Level(zerolog.InfoLevel)
		}
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return globalLogger
}

// New reconfigures the global logger from the given level and format
// ("json" or "console") and returns it.
func New(level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, err
	}

	var writer zerolog.Logger
	switch strings.ToLower(format) {
	case "json":
		writer = zerolog.New(os.Stdout).With().Timestamp().Logger()
	case "console":
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		writer = zerolog.New(consoleWriter).With().Timestamp().Logger()
	default:
		return zerolog.Logger{}, errors.New("unsupported log format " + format)
	}

	zerolog.SetGlobalLevel(lvl)
	globalLogger = writer.Level(lvl)
	return globalLogger, nil
}
