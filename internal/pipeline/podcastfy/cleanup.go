package podcastfy

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// removeOlderThan deletes files in dir matching pattern whose modification
// time is older than maxAge. Files that cannot be inspected or removed are
// skipped. A missing directory is not an error.
func removeOlderThan(dir, pattern string, maxAge time.Duration, now time.Time) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Debug("stat transcript", "path", path, "error", err)
			}
			continue
		}
		if info.IsDir() || now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		if err := os.Remove(path); err != nil {
			slog.Debug("removing transcript", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
