package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Decode lets envconfig validate LOG_FORMAT.
func (f *LogFormat) Decode(value string) error {
	switch LogFormat(strings.ToLower(value)) {
	case LogFormatText, "":
		*f = LogFormatText
	case LogFormatJSON:
		*f = LogFormatJSON
	default:
		return fmt.Errorf("unknown log format %q", value)
	}
	return nil
}

func NewLogger(format LogFormat) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	switch format {
	case LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
