// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-better/internal/backtest"
	"github.com/yourusername/value-better/internal/config"
	"github.com/yourusername/value-better/internal/database"
	"github.com/yourusername/value-better/internal/datasource"
	"github.com/yourusername/value-better/internal/logger"
	"github.com/yourusername/value-better/internal/metrics"
	"github.com/yourusername/value-better/internal/models"
	"github.com/yourusername/value-better/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		input      = flag.String("input", "", "Path to a JSON match file (source=file)")
		source     = flag.String("source", "file", "Match source: file, api, database, synthetic")
		startDate  = flag.String("start-date", "", "Start date filter (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "End date filter (YYYY-MM-DD)")
		mode       = flag.String("mode", "all", "Backtest mode: historical, monte-carlo, all")
		output     = flag.String("output", "", "Output path for the JSON report")
		csvOut     = flag.String("csv", "", "Optional CSV export path")
		syncDB     = flag.Bool("sync-db", false, "Upsert fetched matches into the database (source=api)")
		saveReport = flag.Bool("save-report", false, "Persist the historical report to the database")
		listRuns   = flag.Int("list-reports", 0, "List the N most recent saved reports and exit")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *listRuns > 0 {
		if err := listReports(ctx, cfg, *listRuns); err != nil {
			log.Fatalf("Failed to list reports: %v", err)
		}
		return
	}

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics, log)
	}

	settings, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		log.Fatalf("Invalid backtest config: %v", err)
	}

	matches, err := loadMatches(ctx, cfg, settings, *source, *input, *startDate, *endDate, log)
	if err != nil {
		log.Fatalf("Failed to load matches: %v", err)
	}
	if *syncDB {
		if *source != "api" {
			log.Fatal("-sync-db only applies to -source=api")
		}
		if err := syncMatches(ctx, cfg, matches, log); err != nil {
			log.Fatalf("Failed to sync matches: %v", err)
		}
	}
	if len(matches) == 0 {
		log.Fatal("No matches in range")
	}

	engine, err := backtest.NewEngine(settings, log)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	log.WithFields(logrus.Fields{
		"mode":     *mode,
		"matches":  len(matches),
		"strategy": settings.Strategy,
	}).Info("Starting backtest")

	result, err := runMode(ctx, engine, matches, *mode)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Print(backtest.GenerateConsoleReport(*result))

	outputPath := *output
	if outputPath == "" {
		outputPath = cfg.Backtest.OutputPath
	}
	if outputPath != "" {
		if err := writeReport(result.Historical, outputPath); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.WithField("path", outputPath).Info("Report written")
	}
	if *csvOut != "" {
		if err := backtest.GenerateCSVExport(*result, *csvOut); err != nil {
			log.Fatalf("Failed to write CSV export: %v", err)
		}
	}
	if *saveReport {
		id, err := persistReport(ctx, cfg, result.Historical)
		if err != nil {
			log.Fatalf("Failed to save report: %v", err)
		}
		log.WithField("report_id", id).Info("Report saved to database")
	}
}

func runMode(ctx context.Context, engine *backtest.Engine, matches []models.Match, mode string) (*backtest.AggregatedResult, error) {
	var (
		historical *backtest.Report
		batch      *backtest.SimulationBatch
		err        error
	)

	switch mode {
	case "historical":
		historical, err = engine.Run(ctx, matches)
	case "monte-carlo", "all":
		historical, err = engine.Run(ctx, matches)
		if err == nil {
			batch, err = engine.RunMonteCarlo(ctx, matches, 0)
		}
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		return nil, err
	}

	result := backtest.Aggregate(historical, batch)
	return &result, nil
}

func loadMatches(ctx context.Context, cfg *config.Config, settings backtest.Settings, source, input, startDate, endDate string, log *logrus.Logger) ([]models.Match, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	switch source {
	case "file":
		if input == "" {
			return nil, fmt.Errorf("-input is required with -source=file")
		}
		return datasource.NewFileSource(input, log).FetchMatches(ctx, start, end)

	case "api":
		if !cfg.DataSource.Enabled {
			return nil, fmt.Errorf("data_source must be enabled in config for -source=api")
		}
		if start.IsZero() || end.IsZero() {
			return nil, fmt.Errorf("-start-date and -end-date are required with -source=api")
		}
		httpCfg := datasource.DefaultHTTPClientConfig()
		if cfg.DataSource.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.DataSource.TimeoutSeconds) * time.Second
		}
		if cfg.DataSource.RateLimit > 0 {
			httpCfg.RateLimit = cfg.DataSource.RateLimit
		}
		httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, log)
		defer httpClient.Close()
		client := datasource.NewFootballDataClient(httpClient, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, log)
		return client.FetchMatches(ctx, start, end)

	case "database":
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if start.IsZero() {
			start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		if end.IsZero() {
			end = time.Now().UTC()
		}
		return repository.NewPostgresMatchRepository(db).GetByDateRange(ctx, start, end)

	case "synthetic":
		seed := settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return backtest.GenerateSyntheticHistory(rand.New(rand.NewSource(seed)), backtest.DefaultSyntheticConfig())

	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func syncMatches(ctx context.Context, cfg *config.Config, matches []models.Match, log *logrus.Logger) error {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.NewPostgresMatchRepository(db).SaveBatch(ctx, matches); err != nil {
		return err
	}
	log.WithField("matches", len(matches)).Info("Matches synced to database")
	return nil
}

func persistReport(ctx context.Context, cfg *config.Config, report *backtest.Report) (uuid.UUID, error) {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return uuid.Nil, err
	}
	defer db.Close()

	return repository.NewPostgresReportRepository(db).Save(ctx, report)
}

func listReports(ctx context.Context, cfg *config.Config, limit int) error {
	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := repository.NewPostgresReportRepository(db).GetLatest(ctx, limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No saved reports")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  %-18s  balance %.2f  roi %+.2f%%  bets %d  sharpe %.2f  dd %.1f%%\n",
			s.ID, s.RunAt.Format("2006-01-02 15:04"), s.Strategy,
			s.FinalBalance, s.ROIPct, s.TotalBets, s.SharpeRatio, s.MaxDrawdown*100)
	}
	return nil
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		if start, err = time.Parse("2006-01-02", startDate); err != nil {
			return start, end, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if endDate != "" {
		if end, err = time.Parse("2006-01-02", endDate); err != nil {
			return start, end, fmt.Errorf("invalid end date: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}

func loadConfig(path string) *config.Config {
	boot := logrus.New()
	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			boot.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			boot.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		boot.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func writeReport(report *backtest.Report, path string) error {
	data, err := report.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func serveMetrics(cfg config.MetricsConfig, log *logrus.Logger) {
	path := cfg.Path
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("Metrics listener stopped")
	}
}
