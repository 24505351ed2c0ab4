package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mashop-dashboard/internal/collector"
	"mashop-dashboard/internal/config"
	"mashop-dashboard/internal/recorder"
	"mashop-dashboard/internal/runner"
	"mashop-dashboard/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] mashop-dashboard starting...")

	envFile := flag.String("env", ".env", "path to env file")
	cfgPathFlag := flag.String("config", "", "path to config file")
	once := flag.Bool("once", false, "run one batch and exit even if a cron schedule is configured")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && *envFile != ".env" {
		log.Printf("[WARN] load env file: %v", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *cfgPathFlag != "" {
		cfgPath = *cfgPathFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	fetcher := collector.NewMashopFetcher(cfg.API.BaseURL, cfg.Proxy, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	log.Printf("[INFO] data source: %s (%s)", fetcher.Name(), cfg.API.BaseURL)

	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := runner.New(cfg, fetcher, rec)

	// One-shot mode: the normal batch contract, driven by an external
	// scheduler (cron, CI, task scheduler).
	if *once || cfg.Schedule.Cron == "" {
		if err := run.Run(ctx); err != nil {
			log.Fatalf("[FATAL] batch run: %v", err)
		}
		log.Println("[INFO] done")
		return
	}

	// Daemon mode: repeat the batch on the configured cron schedule.
	sched := scheduler.NewScheduler()
	batch, err := sched.Register(cfg.Schedule.Cron, func() {
		if err := run.Run(ctx); err != nil {
			log.Printf("[ERROR] batch run: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch now")
		// Runs through the same guarded job, so a cron tick cannot
		// overlap the startup batch.
		go batch.Run()
	}

	log.Printf("[INFO] mashop-dashboard is running on schedule %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] mashop-dashboard stopped")
}
