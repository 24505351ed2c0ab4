package store

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"mashop-dashboard/internal/model"
	"mashop-dashboard/internal/timeparse"
)

// historyHeader is the persisted column order of history.csv.
var historyHeader = []string{"dateTime", "date", "time", "weekday", "price", "tradeCount", "timeUnit", "mapName"}

// ReadHistory loads one map's history.csv. A missing file yields an
// empty history; an unreadable or corrupt file is logged and also
// yields an empty history, trading that file's rows for run
// continuity (the raw dumps remain for manual recovery).
func (s *Store) ReadHistory(keyword string) model.History {
	path := s.HistoryPath(keyword)
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[WARN] read history %s: %v, starting empty", path, err)
		}
		return model.History{}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		log.Printf("[WARN] parse history %s: %v, starting empty", path, err)
		return model.History{}
	}

	var h model.History
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "dateTime" {
			continue
		}
		// Pad short rows so older files with fewer columns still load.
		for len(row) < len(historyHeader) {
			row = append(row, "")
		}
		h = append(h, model.PriceRecord{
			DateTime:   row[0],
			Date:       row[1],
			Time:       row[2],
			Weekday:    row[3],
			Price:      parseFloat(row[4]),
			TradeCount: parseFloat(row[5]),
			TimeUnit:   row[6],
			MapName:    row[7],
		})
	}
	return h
}

// WriteHistory persists one map's history atomically: the CSV is
// written to a temp file in the same directory and renamed over
// history.csv, so a crash mid-write never truncates existing data.
func (s *Store) WriteHistory(keyword string, h model.History) error {
	if err := s.ensureMapDirs(keyword); err != nil {
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	path := s.HistoryPath(keyword)

	tmp, err := os.CreateTemp(s.MapDir(keyword), "history-*.csv.tmp")
	if err != nil {
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(historyHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	for _, rec := range h {
		row := []string{
			rec.DateTime, rec.Date, rec.Time, rec.Weekday,
			formatFloat(rec.Price), formatFloat(rec.TradeCount),
			rec.TimeUnit, rec.MapName,
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write history %s: %w", keyword, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write history %s: %w", keyword, err)
	}
	return nil
}

// MergeHistory combines stored and freshly fetched records. Duplicate
// DateTime keys collapse to the later-arriving record (a re-fetched
// value supersedes a stale stored one), the result is sorted ascending
// by DateTime, and rows missing derived date/time/weekday fields are
// backfilled by re-parsing the timestamp. Rows whose timestamp cannot
// be re-parsed are kept as-is: merge never loses rows that already
// made it into history, even partially malformed ones.
func MergeHistory(old, fresh model.History) model.History {
	combined := make(model.History, 0, len(old)+len(fresh))
	combined = append(combined, old...)
	combined = append(combined, fresh...)
	if len(combined) == 0 {
		return combined
	}

	lastIdx := make(map[string]int, len(combined))
	for i, rec := range combined {
		lastIdx[rec.DateTime] = i
	}

	merged := make(model.History, 0, len(lastIdx))
	for i, rec := range combined {
		if lastIdx[rec.DateTime] != i {
			continue
		}
		merged = append(merged, backfillDerived(rec))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DateTime < merged[j].DateTime
	})
	return merged
}

func backfillDerived(rec model.PriceRecord) model.PriceRecord {
	if rec.Date != "" && rec.Time != "" && rec.Weekday != "" {
		return rec
	}
	t, err := timeparse.Normalize(rec.DateTime)
	if err != nil {
		return rec
	}
	if rec.Date == "" {
		rec.Date = timeparse.FormatDate(t)
	}
	if rec.Time == "" {
		rec.Time = timeparse.FormatTime(t)
	}
	if rec.Weekday == "" {
		rec.Weekday = timeparse.WeekdayKR(t)
	}
	return rec
}

// TrimHistory keeps only the trailing keepDays window, measured from
// the newest timestamp in the data itself rather than wall-clock time,
// so a paused pipeline does not purge its whole history on resume.
// Rows with unparseable timestamps are dropped here.
func TrimHistory(h model.History, keepDays int) model.History {
	if len(h) == 0 {
		return h
	}

	type parsed struct {
		rec model.PriceRecord
		t   time.Time
	}
	valid := make([]parsed, 0, len(h))
	var latest time.Time
	for _, rec := range h {
		t, err := timeparse.Normalize(rec.DateTime)
		if err != nil {
			continue
		}
		valid = append(valid, parsed{rec, t})
		if t.After(latest) {
			latest = t
		}
	}
	if len(valid) == 0 {
		return model.History{}
	}

	cutoff := latest.AddDate(0, 0, -keepDays)
	kept := make(model.History, 0, len(valid))
	for _, p := range valid {
		if !p.t.Before(cutoff) {
			kept = append(kept, p.rec)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].DateTime < kept[j].DateTime
	})
	return kept
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	// ParseFloat accepts NaN and Inf spellings; a hand-edited cell with
	// one of those would later poison the report's JSON encoding, so
	// non-finite values read back as absent.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
