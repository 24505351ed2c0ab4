// Package runner drives one batch run: per-map fetch→merge→trim→
// persist with failure isolation, then projection and report assembly.
package runner

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"mashop-dashboard/internal/collector"
	"mashop-dashboard/internal/config"
	"mashop-dashboard/internal/model"
	"mashop-dashboard/internal/recorder"
	"mashop-dashboard/internal/report"
	"mashop-dashboard/internal/series"
	"mashop-dashboard/internal/store"
	"mashop-dashboard/internal/timeparse"
)

// Runner executes the fetch→merge→project→report pipeline for all
// configured maps.
type Runner struct {
	Cfg      *config.Config
	Fetcher  collector.Fetcher
	Store    *store.Store
	Recorder recorder.Recorder
}

// New creates a Runner with its store rooted at the configured data dir.
func New(cfg *config.Config, fetcher collector.Fetcher, rec recorder.Recorder) *Runner {
	return &Runner{
		Cfg:      cfg,
		Fetcher:  fetcher,
		Store:    store.New(cfg.Storage.DataDir),
		Recorder: rec,
	}
}

// Run executes one full batch. Only three conditions are fatal: the
// maps list cannot be loaded, no map ends up with any history at all,
// or the report cannot be written. A single map's fetch failure is
// logged and that map continues on its previously persisted history.
func (r *Runner) Run(ctx context.Context) error {
	started := time.Now()

	if err := os.MkdirAll(r.Cfg.Storage.DataDir, 0755); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	if err := os.MkdirAll(r.Cfg.Storage.DocsDir, 0755); err != nil {
		return fmt.Errorf("ensure docs dir: %w", err)
	}

	maps, err := store.LoadMapsList(r.Cfg.Storage.MapsFile)
	if err != nil {
		return err
	}

	histories := make(map[string]model.History, len(maps))
	for i, kw := range maps {
		histories[kw] = r.processMap(kw)

		// Politeness delay between API calls, skipped after the last map.
		if i < len(maps)-1 {
			if err := r.sleepBetweenMaps(ctx); err != nil {
				return err
			}
		}
	}

	anyData := false
	for _, h := range histories {
		if len(h) > 0 {
			anyData = true
			break
		}
	}
	if !anyData {
		return fmt.Errorf("no map has any history rows; nothing to report")
	}

	daily := make(map[string][]series.DailyPack, len(maps))
	points := make(map[string][]series.Point, len(maps))
	now := time.Now()
	mapsWithData := 0
	for _, kw := range maps {
		h := histories[kw]
		if len(h) > 0 {
			mapsWithData++
		}
		daily[kw] = series.BuildDailySeries(h)
		points[kw] = series.BuildPoints(h, r.Cfg.Fetch.PointsMaxDays, now)
	}

	html, err := report.Build(maps, daily, points, r.Cfg.Report.DefaultDays, r.Cfg.Report.MinTradeCount)
	if err != nil {
		return fmt.Errorf("assemble report: %w", err)
	}
	outPath := filepath.Join(r.Cfg.Storage.DocsDir, "index.html")
	if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := r.Recorder.RecordBuild(&recorder.BuildEvent{
		MapsTotal:    len(maps),
		MapsWithData: mapsWithData,
		OutputPath:   outPath,
		DurationMs:   time.Since(started).Milliseconds(),
	}); err != nil {
		log.Printf("[ERROR] record build: %v", err)
	}

	log.Printf("[INFO] report generated: %s (%d/%d maps with data)", outPath, mapsWithData, len(maps))
	return nil
}

// processMap runs fetch→merge→trim→persist for one map and returns its
// resulting history. Fetch failures fall back to the stored history.
func (r *Runner) processMap(keyword string) model.History {
	started := time.Now()
	old := r.Store.ReadHistory(keyword)

	startDate, endDate := timeparse.LastNDaysRange(r.Cfg.Fetch.DaysToFetch, true)
	log.Printf("[INFO] fetch %s start=%s end=%s", keyword, startDate, endDate)

	var fresh model.History
	fetched := 0
	fetchErr := ""
	raws, body, err := r.Fetcher.FetchPeriod(keyword, startDate, endDate)
	if err != nil {
		log.Printf("[WARN] fetch failed: %s: %v, keeping stored history", keyword, err)
		fetchErr = err.Error()
	} else {
		if err := r.Store.DumpRaw(keyword, fmt.Sprintf("%s_to_%s.json", startDate, endDate), body); err != nil {
			log.Printf("[WARN] %v", err)
		}
		fetched = len(raws)
		fresh = normalizeRecords(keyword, raws)
	}

	merged := store.MergeHistory(old, fresh)
	beforeTrim := len(merged)
	merged = store.TrimHistory(merged, r.Cfg.Fetch.KeepDays)
	trimmed := beforeTrim - len(merged)
	if err := r.Store.WriteHistory(keyword, merged); err != nil {
		log.Printf("[ERROR] %v", err)
	}
	r.Store.CleanupRawDump(keyword, r.Cfg.Fetch.RawKeepDays)

	log.Printf("[INFO] %s: rows=%d (fetched=%d)", keyword, len(merged), fetched)

	if err := r.Recorder.RecordFetch(&recorder.FetchEvent{
		Keyword:    keyword,
		Fetched:    fetched,
		Merged:     len(merged),
		Trimmed:    trimmed,
		DurationMs: time.Since(started).Milliseconds(),
		Error:      fetchErr,
	}); err != nil {
		log.Printf("[ERROR] record fetch: %v", err)
	}
	return merged
}

// normalizeRecords converts raw API records into history rows with
// derived fields. Records whose timestamp cannot be normalized are
// dropped silently; that is a per-record failure, never a batch one.
func normalizeRecords(keyword string, raws []collector.RawRecord) model.History {
	h := make(model.History, 0, len(raws))
	for _, raw := range raws {
		if raw.DateTime == "" {
			continue
		}
		t, err := timeparse.Normalize(raw.DateTime)
		if err != nil {
			continue
		}
		mapName := raw.MapName
		if mapName == "" {
			mapName = keyword
		}
		h = append(h, model.PriceRecord{
			MapName:    mapName,
			DateTime:   timeparse.FormatDateTime(t),
			Date:       timeparse.FormatDate(t),
			Time:       timeparse.FormatTime(t),
			Weekday:    timeparse.WeekdayKR(t),
			Price:      raw.Price,
			TradeCount: raw.TradeCount,
			TimeUnit:   raw.TimeUnit,
		})
	}
	return h
}

func (r *Runner) sleepBetweenMaps(ctx context.Context) error {
	lo, hi := r.Cfg.Fetch.DelayMinMs, r.Cfg.Fetch.DelayMaxMs
	delay := time.Duration(lo) * time.Millisecond
	if hi > lo {
		delay += time.Duration(rand.IntN(hi-lo)) * time.Millisecond
	}
	log.Printf("[INFO] sleep %s before next map", delay.Round(10*time.Millisecond))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
