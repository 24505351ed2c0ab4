package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// DumpRaw persists a verbatim API response body under the map's
// raw_dump directory, before any record is dropped or transformed.
func (s *Store) DumpRaw(keyword, filename string, body []byte) error {
	if err := s.ensureMapDirs(keyword); err != nil {
		return fmt.Errorf("dump raw %s: %w", keyword, err)
	}
	path := filepath.Join(s.RawDumpDir(keyword), filename)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("dump raw %s: %w", keyword, err)
	}
	return nil
}

// CleanupRawDump deletes raw dump files older than keepDays, judged by
// file mtime. Best effort: individual failures are logged and skipped.
func (s *Store) CleanupRawDump(keyword string, keepDays int) {
	dir := s.RawDumpDir(keyword)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().UTC().Before(cutoff) {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("[WARN] raw_dump remove failed: %s: %v", e.Name(), err)
				continue
			}
			log.Printf("[INFO] raw_dump removed: %s", e.Name())
		}
	}
}
