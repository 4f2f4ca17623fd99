package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/psantana5/alertrun/internal/runlog"
)

// Stats tracks one pruning pass.
type Stats struct {
	Removed int
	Kept    int
}

// Prune deletes per-run logs older than retentionDays. The cumulative
// error log is never touched. A retentionDays of zero disables pruning.
func Prune(logsDir string, retentionDays int, now time.Time) (Stats, error) {
	var stats Stats
	if retentionDays <= 0 {
		return stats, nil
	}

	entries, err := os.ReadDir(logsDir)
	if err != nil {
		return stats, fmt.Errorf("failed to read log directory %s: %w", logsDir, err)
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == runlog.ErrorFileName {
			continue
		}
		if !strings.HasPrefix(name, runlog.RunPrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(logsDir, name)); err != nil {
				return stats, fmt.Errorf("failed to remove %s: %w", name, err)
			}
			stats.Removed++
		} else {
			stats.Kept++
		}
	}
	return stats, nil
}
