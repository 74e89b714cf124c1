package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger writes to STDOUT, or to a timestamped file derived from
// logFilePath when one is configured. When the file cannot be created the
// logger stays on STDOUT so startup errors remain visible.
func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout,
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	if logFilePath == "" {
		return logger
	}

	file, err := openLogFile(logFilePath)
	if err != nil {
		logger.Errorf("failed to create logging file, staying on stdout: %v", err)
		return logger
	}
	logger.SetOutput(file)
	return logger
}

// openLogFile creates the log file with the start time embedded in its
// name, so restarts never clobber an earlier run's log.
func openLogFile(path string) (*os.File, error) {
	stamp := time.Now().Format("2006-01-02 15:04:05")
	extension := filepath.Ext(path)
	if extension != "" {
		path = strings.Replace(path, extension, stamp+extension, 1)
	} else {
		path = path + stamp
	}
	return os.Create(path)
}
