package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"emlak-scraper/config"
	"emlak-scraper/models"
	"emlak-scraper/scraper"
	"emlak-scraper/scraper/emlak"
	"emlak-scraper/services"
	"emlak-scraper/storage"
	"emlak-scraper/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "emlak-scraper: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, envLoaded := config.Load()
	runID := uuid.New()
	logger := utils.NewLogger(cfg.LogLevel).With("run_id", runID.String())

	if !envLoaded {
		logger.Debug("[config] No .env file found, using system env vars")
	}
	logger.Info("=== Emlak Scraping System starting ===")
	logger.Info("Config: index %s | output %s (%s) | headless %t",
		cfg.IndexURL, cfg.OutputPath, cfg.OutputMode, cfg.Headless)

	jsonWriter, err := storage.NewJSONWriter(cfg.OutputPath, cfg.OutputMode, logger)
	if err != nil {
		return err
	}
	if err := jsonWriter.Check(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	page, closeBrowser, err := scraper.NewChromeSession(ctx, scraper.SessionOptions{
		Headless:  cfg.Headless,
		ChromeBin: cfg.ChromeBin,
		UserAgent: cfg.UserAgent,
	}, logger)
	if err != nil {
		return err
	}

	strategy := emlak.New(page, emlak.Options{
		IndexURL:        cfg.IndexURL,
		IndexTimeout:    cfg.IndexTimeout,
		IndexSettle:     cfg.IndexSettle,
		DetailTimeout:   cfg.DetailTimeout,
		FeaturesTimeout: cfg.FeaturesTimeout,
		PageTimeout:     cfg.PageTimeout,
	}, logger)

	listings := services.NewRunner(logger).Run(ctx, strategy)
	closeBrowser()

	logger.Info("Number of scraped listings: %d", len(listings))

	if err := jsonWriter.Append(listings); err != nil {
		return err
	}
	logger.Info("Listings saved to %s", cfg.OutputPath)

	// Secondary sinks get their own context so an interrupted scrape still
	// reaches them.
	sinkCtx, cancelSinks := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelSinks()
	writeSinks(sinkCtx, cfg, runID, logger, listings)

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(listings))

	return nil
}

// writeSinks stores listings in every optional backend that is enabled.
// Failures are logged; the JSON file is the record of the run.
func writeSinks(ctx context.Context, cfg *config.Config, runID uuid.UUID, logger *utils.Logger, listings []*models.Listing) {
	for _, sink := range openSinks(ctx, cfg, runID, logger) {
		if err := sink.writer.Write(ctx, listings); err != nil {
			logger.Error("[%s] Write failed: %v", sink.name, err)
		} else {
			logger.Info("[%s] Stored %d listings", sink.name, len(listings))
		}
		if err := sink.writer.Close(); err != nil {
			logger.Warn("[%s] Close failed: %v", sink.name, err)
		}
	}
}

type namedSink struct {
	name   string
	writer storage.ListingWriter
}

func openSinks(ctx context.Context, cfg *config.Config, runID uuid.UUID, logger *utils.Logger) []namedSink {
	var sinks []namedSink

	if cfg.CSVOutputPath != "" {
		w, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error("[csv] %v", err)
		} else {
			sinks = append(sinks, namedSink{"csv", w})
		}
	}

	if cfg.PostgresEnabled {
		retry := &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		}
		w, err := storage.NewPostgresWriter(ctx, cfg.DSN(), runID, retry)
		if err != nil {
			logger.Error("[postgres] %v", err)
		} else {
			sinks = append(sinks, namedSink{"postgres", w})
		}
	}

	if cfg.RedisEnabled {
		w, err := storage.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen, runID.String())
		if err != nil {
			logger.Error("[redis] %v", err)
		} else {
			sinks = append(sinks, namedSink{"redis", w})
		}
	}

	return sinks
}
