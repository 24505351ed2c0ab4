package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDumpRaw_WritesVerbatim(t *testing.T) {
	s := New(t.TempDir())
	body := []byte(`[{"dateTime":"2025-06-01T10:00:00","price":1000}]`)

	if err := s.DumpRaw("테스트맵", "2025-05-26_to_2025-06-01.json", body); err != nil {
		t.Fatalf("dump: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(s.RawDumpDir("테스트맵"), "2025-05-26_to_2025-06-01.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != string(body) {
		t.Errorf("raw dump altered the response body:\nwrote %s\nread  %s", body, got)
	}
}

func TestCleanupRawDump_RemovesOldFiles(t *testing.T) {
	s := New(t.TempDir())
	keyword := "테스트맵"
	if err := s.DumpRaw(keyword, "old.json", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := s.DumpRaw(keyword, "new.json", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	if err := s.DumpRaw(keyword, "old.txt", []byte("not json")); err != nil {
		t.Fatal(err)
	}

	oldTime := time.Now().AddDate(0, 0, -30)
	oldPath := filepath.Join(s.RawDumpDir(keyword), "old.json")
	if err := os.Chtimes(oldPath, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}
	oldTxt := filepath.Join(s.RawDumpDir(keyword), "old.txt")
	if err := os.Chtimes(oldTxt, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	s.CleanupRawDump(keyword, 14)

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old.json to be removed")
	}
	if _, err := os.Stat(filepath.Join(s.RawDumpDir(keyword), "new.json")); err != nil {
		t.Error("expected new.json to survive")
	}
	if _, err := os.Stat(oldTxt); err != nil {
		t.Error("cleanup should only touch .json files")
	}
}

func TestCleanupRawDump_MissingDirIsNoop(t *testing.T) {
	s := New(t.TempDir())
	// Must not panic or create anything.
	s.CleanupRawDump("없는맵", 14)
	if _, err := os.Stat(s.MapDir("없는맵")); !os.IsNotExist(err) {
		t.Error("cleanup should not create map directories")
	}
}
