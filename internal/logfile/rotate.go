// Package logfile owns the launcher's on-disk log: the startup rotation check
// and the line logger that appends to it.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxSize is the size above which the log is rotated at startup.
const DefaultMaxSize int64 = 1 * 1024 * 1024

const backupTimeLayout = "20060102_150405"

// BackupPath returns the path the log at path is moved to when rotated at now.
// The extension is replaced by _YYYYMMDD_HHMMSS.bak.
func BackupPath(path string, now time.Time) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "_" + now.Format(backupTimeLayout) + ".bak"
}

// Rotate moves the log at path aside when it is larger than maxSize.
// It returns the backup path, or "" when nothing was rotated.
func Rotate(path string, maxSize int64, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= maxSize {
		return "", nil
	}

	backup := BackupPath(path, now)
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("rotate log file: %w", err)
	}
	return backup, nil
}
