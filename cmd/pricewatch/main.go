package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-price-watch/alert"
	"github.com/aluiziolira/go-price-watch/config"
	"github.com/aluiziolira/go-price-watch/diff"
	"github.com/aluiziolira/go-price-watch/extract"
	"github.com/aluiziolira/go-price-watch/fetch"
	"github.com/aluiziolira/go-price-watch/models"
	"github.com/aluiziolira/go-price-watch/monitor"
	"github.com/aluiziolira/go-price-watch/snapshot"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	inputDefault := defaultCfg.InputFile
	if value, ok := config.EnvString("PRICEWATCH_INPUT"); ok {
		inputDefault = value
	}
	workersDefault := defaultCfg.Workers
	if value, ok, err := config.EnvInt("PRICEWATCH_WORKERS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid PRICEWATCH_WORKERS: %v\n", err)
		os.Exit(1)
	} else if ok {
		workersDefault = value
	}
	dataDirDefault := defaultCfg.DataDir
	if value, ok := config.EnvString("PRICEWATCH_DATA_DIR"); ok {
		dataDirDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("PRICEWATCH_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	inputFile := flag.String("input", inputDefault, "Targets file (.csv with url,name,category or .txt with one URL per line)")
	workers := flag.Int("workers", workersDefault, "Number of concurrent scrape workers")
	timeoutSec := flag.Int("timeout", int(defaultCfg.Timeout.Seconds()), "Per-request timeout (seconds)")
	maxRetries := flag.Int("max-retries", defaultCfg.MaxRetries, "Maximum fetch attempts per URL")
	perHostMs := flag.Int("per-host-delay", int(defaultCfg.PerHostInterval.Milliseconds()), "Minimum interval between requests to one host (milliseconds)")
	threshold := flag.Float64("threshold", defaultCfg.PriceChangeThreshold, "Price change alert threshold (percent)")
	interval := flag.Duration("interval", 0, "Re-run period; 0 runs once and exits")
	dataDir := flag.String("data-dir", dataDirDefault, "Snapshot history directory")
	reportsDir := flag.String("reports-dir", defaultCfg.ReportsDir, "Comparison report directory")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Snapshot format: csv, json, or dual")
	chromeTLS := flag.Bool("chrome-tls", defaultCfg.ChromeTLS, "Use a Chrome TLS fingerprint for HTTPS fetches")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, _ := newLogger(*verbose)
	slog.SetDefault(logger)

	cfg, err := buildConfig(defaultCfg, *inputFile, *workers, *timeoutSec, *maxRetries, *perHostMs, *threshold, *dataDir, *reportsDir, *outputFormat, *chromeTLS, *metricsAddr, *verbose)
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	targets, err := monitor.LoadTargets(cfg.InputFile)
	if err != nil {
		slog.Error("loading targets", slog.Any("error", err))
		os.Exit(1)
	}
	if len(targets) == 0 {
		slog.Error("no targets to monitor", slog.String("input", cfg.InputFile))
		os.Exit(1)
	}

	metrics := fetch.NewMetrics()
	limiter := fetch.NewHostLimiter(cfg.PerHostInterval)
	client := fetch.NewClient(cfg, limiter, metrics)
	registry := extract.NewRegistry(config.DefaultAvailabilityKeywords(), cfg.DescriptionLimit)
	runner := monitor.NewRunner(monitor.NewAssembler(client, registry), cfg.Workers)
	engine := diff.NewEngine(cfg.PriceChangeThreshold)
	store := snapshot.NewStore(cfg.DataDir)
	notifier := buildNotifier(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	slog.Info("starting monitor",
		slog.Int("targets", len(targets)),
		slog.Int("workers", cfg.Workers),
		slog.Float64("threshold_pct", cfg.PriceChangeThreshold),
		slog.Duration("interval", *interval),
	)

	exitCode := 0
	if err := runOnce(ctx, cfg, targets, runner, engine, store, notifier); err != nil {
		slog.Error("run failed", slog.Any("error", err))
		exitCode = 1
	}

	if *interval > 0 && exitCode == 0 {
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				if err := runOnce(ctx, cfg, targets, runner, engine, store, notifier); err != nil {
					slog.Error("run failed", slog.Any("error", err))
				}
			}
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	os.Exit(exitCode)
}

// runOnce performs one full monitoring cycle: scrape, persist, diff against
// the previous snapshot, report, and notify.
func runOnce(ctx context.Context, cfg *config.Config, targets []models.Target, runner *monitor.Runner, engine *diff.Engine, store *snapshot.Store, notifier alert.Notifier) error {
	start := time.Now()

	var previous *models.Snapshot
	if path, ok, err := store.Latest(); err != nil {
		return fmt.Errorf("find previous snapshot: %w", err)
	} else if ok {
		previous, err = store.Load(path)
		if err != nil {
			return fmt.Errorf("load previous snapshot: %w", err)
		}
		slog.Info("previous snapshot loaded", slog.String("path", path), slog.Int("records", len(previous.Records)))
	}

	current := runner.Run(ctx, targets)
	if len(current.Records) == 0 {
		return fmt.Errorf("run produced no records")
	}

	paths, err := store.Save(current, cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	slog.Info("snapshot saved", slog.Any("paths", paths))

	summary := diff.Summarize(current)
	changes := engine.Compare(previous, current)

	if !changes.Empty() {
		reportPath, err := store.WriteReport(cfg.ReportsDir, changes)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		slog.Info("comparison report written", slog.String("path", reportPath))
	}

	if err := notifier.PriceAlert(ctx, changes.PriceChanges); err != nil {
		slog.Error("price alert delivery failed", slog.Any("error", err))
	}
	if err := notifier.AvailabilityAlert(ctx, changes.AvailabilityChanges); err != nil {
		slog.Error("availability alert delivery failed", slog.Any("error", err))
	}
	if err := notifier.Summary(ctx, summary); err != nil {
		slog.Error("summary delivery failed", slog.Any("error", err))
	}

	printSummary(summary, changes, time.Since(start))
	return nil
}

func buildConfig(cfg *config.Config, inputFile string, workers, timeoutSec, maxRetries, perHostMs int, threshold float64, dataDir, reportsDir, outputFormat string, chromeTLS bool, metricsAddr string, verbose bool) (*config.Config, error) {
	cfg.InputFile = inputFile
	cfg.Workers = workers
	cfg.Timeout = time.Duration(timeoutSec) * time.Second
	cfg.MaxRetries = maxRetries
	cfg.PerHostInterval = time.Duration(perHostMs) * time.Millisecond
	cfg.PriceChangeThreshold = threshold
	cfg.DataDir = dataDir
	cfg.ReportsDir = reportsDir
	cfg.OutputFormat = strings.ToLower(outputFormat)
	cfg.ChromeTLS = chromeTLS
	cfg.MetricsAddr = metricsAddr
	cfg.Verbose = verbose

	if value, ok, err := config.EnvBool("PRICEWATCH_EMAIL_ENABLED"); err != nil {
		return nil, err
	} else if ok {
		cfg.EmailEnabled = value
	}
	if value, ok := config.EnvString("PRICEWATCH_SMTP_SERVER"); ok {
		cfg.SMTPServer = value
	}
	if value, ok, err := config.EnvInt("PRICEWATCH_SMTP_PORT"); err != nil {
		return nil, err
	} else if ok {
		cfg.SMTPPort = value
	}
	if value, ok := config.EnvString("PRICEWATCH_EMAIL_USER"); ok {
		cfg.EmailUser = value
	}
	if value, ok := config.EnvString("PRICEWATCH_EMAIL_PASSWORD"); ok {
		cfg.EmailPassword = value
	}
	if value, ok := config.EnvList("PRICEWATCH_EMAIL_RECIPIENTS"); ok {
		cfg.EmailRecipients = value
	}

	if cfg.InputFile == "" {
		return nil, fmt.Errorf("an input file is required (-input)")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildNotifier(cfg *config.Config) alert.Notifier {
	if cfg.EmailEnabled {
		slog.Info("email alerts enabled", slog.String("server", cfg.SMTPServer), slog.Int("recipients", len(cfg.EmailRecipients)))
		return alert.NewSMTPNotifier(cfg)
	}
	return alert.NewLogNotifier()
}

func printSummary(summary models.RunSummary, changes *models.ChangeSet, elapsed time.Duration) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Monitoring run complete")

	fmt.Printf("  Products:       %d\n", summary.TotalProducts)
	successRate := 0.0
	if summary.TotalProducts > 0 {
		successRate = float64(summary.SuccessfulScrapes) / float64(summary.TotalProducts) * 100
	}
	fmt.Printf("  Success rate:   %.2f%%\n", successRate)
	fmt.Printf("  Sites:          %d\n", summary.SitesScraped)
	if summary.SuccessfulScrapes > 0 {
		fmt.Printf("  Average price:  %s\n", summary.AveragePrice)
		fmt.Printf("  Price range:    %s - %s\n", summary.PriceRange.Min, summary.PriceRange.Max)
	}
	if len(summary.AvailabilityStats) > 0 {
		fmt.Printf("  Availability:   %v\n", summary.AvailabilityStats)
	}
	fmt.Printf("  Price changes:  %d\n", changes.Summary.PriceChanges)
	fmt.Printf("  Stock changes:  %d\n", changes.Summary.AvailabilityChanges)
	fmt.Printf("  New products:   %d\n", changes.Summary.NewProducts)
	fmt.Printf("  Removed:        %d\n", changes.Summary.RemovedProducts)
	fmt.Printf("  Duration:       %v\n", elapsed)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
