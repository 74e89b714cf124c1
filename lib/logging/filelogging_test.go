package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logger := Logger(filepath.Join(dir, "firmbooks.log"))
	logger.Info("hello")

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoggerKeepsStdoutOnBadFilePath(t *testing.T) {
	logger := Logger(filepath.Join(t.TempDir(), "no-such-dir", "firmbooks.log"))
	// the file could not be created, logging must still work
	assert.NotPanics(t, func() {
		logger.Info("still alive")
	})
}
