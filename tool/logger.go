package tool

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var DefaultLogger = log.Default()

// InitLogger sets the log format and level. When logFile is not empty, output is
// also written to a size-rotated file that keeps a single backup.
func InitLogger(mode string, logFile string, maxSizeKB int) {
	DefaultLogger.SetTimeFormat("2006-01-02 15:04:05")
	DefaultLogger.SetReportCaller(true)
	DefaultLogger.SetLevel(levelForMode(mode))

	if logFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		DefaultLogger.Warnf("[Log] cannot create log dir, logging to stderr only: %v", err)
		return
	}
	// lumberjack sizes are in megabytes, round small values up to 1.
	maxSizeMB := max(maxSizeKB/1024, 1)
	rotated := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    maxSizeMB,
		MaxBackups: 1,
	}
	DefaultLogger.SetOutput(io.MultiWriter(os.Stderr, rotated))
}

func levelForMode(mode string) log.Level {
	switch strings.ToLower(mode) {
	case "", "dev":
		return log.DebugLevel
	case "prod":
		return log.InfoLevel
	case "none":
		return log.FatalLevel
	default:
		DefaultLogger.Warnf("Unknown log mode %q, using debug level", mode)
		return log.DebugLevel
	}
}
