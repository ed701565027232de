package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"saju/internal/adapters/config"
	"saju/internal/adapters/errors/noop"
	"saju/internal/adapters/errors/sentry"
	"saju/internal/adapters/redis"
	"saju/internal/adapters/solarterm"
	"saju/internal/domain/chart"
	"saju/internal/metrics"
	"saju/internal/services/elements"
	"saju/internal/services/saju"
	"saju/internal/services/timecorrect"
	"saju/pkg/errors"
	"saju/pkg/logger"
)

// app holds what every command needs once the root pre-run has finished
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	service      *saju.Service
	errorTracker errors.Tracker
	redis        *redis.Client
}

var (
	current *app

	outputFormat string
	metricsFile  string
)

var rootCmd = &cobra.Command{
	Use:   "saju",
	Short: "Four Pillars chart engine",
	Long: `saju computes Four Pillars (사주) charts from civil birth input.

A report carries the corrected solar time, the annotated four pillars,
the five-element profile, day-master strength, the useful-element
(용신) decision, the decade and annual luck cycle and the void branches.

Engine defaults come from the environment (see SAJU_* variables);
command flags override them per birth.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		current = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")

	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if current != nil {
		// rejected input is the caller's mistake, not an incident
		if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
			current.log.ErrorWithContext(ctx, err, map[string]string{"command": "saju"})
		}
		current.shutdown(context.WithoutCancel(ctx))
	}
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and wires the engine, cache and trackers
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	if err := initLogger(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}
	log := logger.Get()
	log.Debugf("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	a := &app{cfg: cfg, log: log}

	a.errorTracker = initErrorTracker(cfg, log)
	logger.SetErrorTracker(a.errorTracker)

	metrics.Init()
	cal := solarterm.New(solarterm.KST)
	metrics.RegisterCalendarCollector(metrics.NewCalendarCollector(cal))

	var cache chart.ReportCache
	if cfg.Redis.Enabled {
		a.redis, err = redis.NewClient(ctx, cfg.Redis, log.Named("redis"))
		if err != nil {
			// reports are still computed, just not cached
			log.Warnw("Report cache disabled", "addr", cfg.Redis.Addr(), "error", err)
		} else {
			cache = redis.NewReportCache(a.redis, cfg.Redis.TTL)
		}
	}

	engine := saju.NewEngine(cal, engineOptions(cfg.Engine))
	a.service = saju.NewService(engine, cache, cfg.Engine.BatchConcurrency, log)

	return a, nil
}

// loadConfig loads application configuration from environment
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// initLogger initializes structured logging
func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Debug("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Debug("Error tracking initialized (Sentry)")
	return tracker
}

func engineOptions(cfg config.EngineConfig) saju.Options {
	return saju.Options{
		Time: timecorrect.Options{
			ReferenceLongitude: cfg.ReferenceLongitude,
			StandardMeridian:   cfg.StandardMeridian,
		},
		Elements: elements.Options{
			IncludeHidden:         cfg.IncludeHiddenStems,
			MonthHiddenMultiplier: decimal.NewFromFloat(cfg.MonthHiddenMultiplier),
		},
	}
}

// shutdown flushes metrics, the error tracker and the logger
func (a *app) shutdown(ctx context.Context) {
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer); err != nil {
			a.log.Warnf("Failed to write metrics file: %v", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warnf("Failed to close redis: %v", err)
		}
	}

	if a.errorTracker != nil {
		if err := a.errorTracker.Flush(ctx); err != nil {
			a.log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	_ = logger.Sync()
}
