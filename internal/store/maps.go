// Package store owns the on-disk layout: the maps.json keyword list,
// one directory per map holding history.csv and a raw_dump/ folder of
// verbatim API responses.
package store

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// LoadMapsList reads the configured map keywords from a JSON array of
// strings. A missing file, a non-array payload, or an empty list is a
// configuration error: without keywords there is nothing to do.
func LoadMapsList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read maps list %s: %w", path, err)
	}

	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse maps list %s: expected a JSON array of strings: %w", path, err)
	}

	maps := make([]string, 0, len(raw))
	for _, m := range raw {
		if s := strings.TrimSpace(m); s != "" {
			maps = append(maps, s)
		}
	}
	if len(maps) == 0 {
		return nil, fmt.Errorf("maps list %s is empty", path)
	}
	return maps, nil
}

var (
	forbiddenChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	underscoreRun  = regexp.MustCompile(`_+`)
)

const slugMaxLen = 80

// Slug converts a map keyword into a folder name that is safe on
// Windows as well: forbidden and control characters become _, runs of
// whitespace and _ collapse, and degenerate or overlong names fall
// back to an md5 suffix.
func Slug(name string) string {
	s := strings.TrimSpace(name)
	s = forbiddenChars.ReplaceAllString(s, "_")
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")

	if s == "" {
		return "map_" + shortHash(name)
	}
	if r := []rune(s); len(r) > slugMaxLen {
		s = strings.TrimRight(string(r[:slugMaxLen-11]), "_") + "_" + shortHash(name)
	}
	return s
}

func shortHash(name string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(name)))[:10]
}

// Store resolves per-map paths under a data directory.
type Store struct {
	MapsDir string
}

// New creates a Store rooted at dataDir (maps live in dataDir/maps).
func New(dataDir string) *Store {
	return &Store{MapsDir: filepath.Join(dataDir, "maps")}
}

// MapDir returns the directory for one map keyword.
func (s *Store) MapDir(keyword string) string {
	return filepath.Join(s.MapsDir, Slug(keyword))
}

// HistoryPath returns the history.csv path for one map keyword.
func (s *Store) HistoryPath(keyword string) string {
	return filepath.Join(s.MapDir(keyword), "history.csv")
}

// RawDumpDir returns the raw_dump directory for one map keyword.
func (s *Store) RawDumpDir(keyword string) string {
	return filepath.Join(s.MapDir(keyword), "raw_dump")
}

func (s *Store) ensureMapDirs(keyword string) error {
	if err := os.MkdirAll(s.MapDir(keyword), 0755); err != nil {
		return err
	}
	return os.MkdirAll(s.RawDumpDir(keyword), 0755)
}
