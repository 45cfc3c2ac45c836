package source

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/scripturelens/scripturelens/internal/errors"
)

// dbGlob matches Clear Aligner project databases in a data directory.
const dbGlob = "clear-aligner-*.sqlite"

// Discover scans a data directory for project databases and returns their
// identification, sorted by project id. Working copies with an "-updated"
// suffix are skipped; the aligner writes those mid-sync and they may be
// incomplete. Databases that fail to open are logged and skipped, never
// fatal to discovery.
func Discover(dir string, logger *slog.Logger) ([]Info, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(dir); err != nil {
		return nil, errors.ConfigError("data directory not found: "+dir, err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, dbGlob))
	if err != nil {
		return nil, errors.ConfigError("bad data directory pattern", err)
	}

	var infos []Info
	for _, path := range matches {
		if strings.Contains(filepath.Base(path), "-updated") {
			continue
		}
		src, err := OpenSQLite(path)
		if err != nil {
			logger.Warn("project_skipped",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		infos = append(infos, src.Info())
		_ = src.Close()
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ProjectID < infos[j].ProjectID
	})
	logger.Info("projects_discovered",
		slog.String("dir", dir),
		slog.Int("count", len(infos)))
	return infos, nil
}

// ProjectIDForPath derives the stable project slug from a database file name:
// "clear-aligner-YLT-updated.sqlite" and "clear-aligner-YLT.sqlite" both map
// to "ylt".
func ProjectIDForPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.TrimPrefix(stem, "clear-aligner-")
	stem = strings.TrimSuffix(stem, "-updated")
	return strings.ToLower(stem)
}
