// Package logger provides the global logger used across repofetch.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

// Init initializes the global logger.
func Init(logLevel string, noColor bool) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = logrus.InfoLevel // fallback to info level
	}
	logger.SetLevel(level)

	if noColor {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: false,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: false,
		})
	}
}

// GetLogger returns the configured logger instance.
func GetLogger() *logrus.Logger {
	if logger == nil {
		Init("info", false)
	}
	return logger
}

// Debug logs a debug message.
func Debug(msg string, fields ...logrus.Fields) {
	GetLogger().WithFields(mergeFields(fields...)).Debug(msg)
}

// Info logs an info message.
func Info(msg string, fields ...logrus.Fields) {
	GetLogger().WithFields(mergeFields(fields...)).Info(msg)
}

// Warn logs a warning message.
func Warn(msg string, fields ...logrus.Fields) {
	GetLogger().WithFields(mergeFields(fields...)).Warn(msg)
}

// Error logs an error message.
func Error(msg string, fields ...logrus.Fields) {
	GetLogger().WithFields(mergeFields(fields...)).Error(msg)
}

func mergeFields(fields ...logrus.Fields) logrus.Fields {
	result := make(logrus.Fields)
	for _, field := range fields {
		for k, v := range field {
			result[k] = v
		}
	}
	return result
}
