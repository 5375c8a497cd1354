package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	logger.Out = os.Stdout
	logger.Formatter = &log.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	}
	logger.SetLevel(log.DebugLevel)

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := log.ParseLevel(lvl)
		if err != nil {
			logger.Warnf("Invalid LOG_LEVEL %q, keeping %s", lvl, logger.GetLevel())
		} else {
			logger.SetLevel(level)
		}
	}

	// stdout suits systemd/docker; LOG_TO_FILE=true writes to logs/<date><env>.log instead.
	if os.Getenv("LOG_TO_FILE") != "true" {
		return
	}
	cwd, err := os.Getwd()
	if err != nil {
		logger.Warnf("Failed to get current working directory: %v, logging to stdout", err)
		return
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		logger.Warnf("Failed to create logs directory %s: %v, falling back to stdout", logsDir, err)
		return
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), os.Getenv("ENV")))
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		logger.Warnf("Failed to open log file %s: %v, falling back to stdout", filePath, err)
		return
	}
	logger.Out = f
}

// GetLogger returns an entry annotated with the caller's function, file and line.
func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	name := "unknown"
	if fn := runtime.FuncForPC(function); fn != nil {
		name = fn.Name()
	}
	return logger.WithFields(log.Fields{
		"function": name,
		"file":     file,
		"line":     line,
	})
}

// SetLevel changes the level of the shared logger.
func SetLevel(level log.Level) {
	logger.SetLevel(level)
}
