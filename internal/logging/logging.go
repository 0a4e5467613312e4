// Package logging configures the logrus logger shared by both binaries.
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup applies level and format ("text" or "json") to logger and points it
// at stdout.
func Setup(logger *log.Logger, level, format string) error {
	return SetupWithOutput(logger, level, format, os.Stdout)
}

// SetupWithOutput is Setup with an explicit writer.
func SetupWithOutput(logger *log.Logger, level, format string, out io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	logger.SetLevel(lvl)
	logger.SetOutput(out)
	return nil
}
