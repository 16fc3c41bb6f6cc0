package asnr

import (
	"log/slog"
	"os"
	"strings"
)

// PathEnvVar names the environment variable read by WithSearchPath: a
// colon-separated list of directories holding ASN.1 notation files.
const PathEnvVar = "ASNR_PATH"

// WithSearchPath enables reading notation directories from the
// ASNR_PATH environment variable. Discovered directories are appended
// after any explicit source, serving as fallback. When source is nil
// and WithSearchPath is set, the search path alone is sufficient.
func WithSearchPath() Option {
	return func(c *compileConfig) { c.searchPath = true }
}

// searchPathSources returns one Dir source per existing directory on
// the search path.
func searchPathSources(logger *slog.Logger) []Source {
	dirs := searchPathDirs()
	var sources []Source
	for _, d := range dirs {
		src, err := Dir(d)
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}
	if logEnabled(logger, slog.LevelDebug) {
		logger.Debug("search path discovered",
			slog.Int("directories", len(dirs)),
			slog.Int("usable", len(sources)))
	}
	return sources
}

// searchPathDirs returns the directories named by ASNR_PATH,
// deduplicated and filtered to directories that exist.
func searchPathDirs() []string {
	v := os.Getenv(PathEnvVar)
	if v == "" {
		return nil
	}
	return filterExistingDirs(dedup(splitPaths(v)))
}

func splitPaths(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ":") {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
