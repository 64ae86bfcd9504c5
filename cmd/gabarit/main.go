package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/windroute/gabarit/internal/analysis"
	"github.com/windroute/gabarit/internal/api"
	"github.com/windroute/gabarit/internal/config"
	"github.com/windroute/gabarit/internal/feedback"
	"github.com/windroute/gabarit/internal/geo"
	"github.com/windroute/gabarit/internal/influx"
	"github.com/windroute/gabarit/internal/logging"
	intOtel "github.com/windroute/gabarit/internal/otel"
	"github.com/windroute/gabarit/internal/raster"
	"github.com/windroute/gabarit/internal/runinfo"
	"github.com/windroute/gabarit/internal/storage"
	"github.com/windroute/gabarit/pkg/core"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

// exit codes
const (
	exitOK      = 0
	exitError   = 1
	exitBlocked = 2 // analysis succeeded, route not passable
)

var (
	SessionStartTime = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	// RunContext carries the current run identity into log records
	RunContext *runinfo.Context

	LogFile *os.File
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	if opts.showVersion {
		fmt.Printf("gabarit %s (built %s)\n", Version, BuildDate)
		return exitOK
	}

	if err := setup(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitError
	}
	defer teardown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runInfo, elapsed, err := analyze(ctx, opts)
	if err != nil {
		Logger.Error("Analysis failed", "error", err)
		return exitError
	}

	if err := persist(ctx, runInfo, result, elapsed); err != nil {
		Logger.Error("Failed to persist run", "error", err)
		return exitError
	}

	printSummary(result)
	if !result.Summary.Passable {
		return exitBlocked
	}
	return exitOK
}

// setup loads config and brings up logging and telemetry.
func setup(opts *options) error {
	if err := config.Load(opts.configDir); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.applyOverrides()

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}

	logPath := logging.LogFilePath(logsDir, "gabarit", SessionStartTime)
	var err error
	LogFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	if viper.GetBool("otel.enabled") {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      true,
			ServiceName:  "gabarit",
			BatchTimeout: 5 * time.Second,
			LogWriter:    LogFile,
			Endpoint:     viper.GetString("otel.endpoint"),
			Insecure:     viper.GetBool("otel.insecure"),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OTel provider: %w", err)
		}
	}

	RunContext = runinfo.NewContext()

	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(LogFile, viper.GetString("logLevel"), otelLogProvider, func() []slog.Attr {
		run := RunContext.Get()
		return []slog.Attr{
			slog.String("runId", run.ID),
			slog.String("bladeType", run.BladeType),
		}
	})
	Logger = SlogManager.Logger()
	Logger.Info("Starting up", "version", Version, "logFile", logPath)

	return nil
}

func teardown() {
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Flush(ctx); err != nil {
			Logger.Warn("Failed to flush OTel data", "error", err)
		}
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	if LogFile != nil {
		LogFile.Close()
	}
}

// analyze loads the inputs and runs the clearance pipeline.
func analyze(ctx context.Context, opts *options) (*core.Result, core.RunInfo, time.Duration, error) {
	analysisCfg, err := config.GetAnalysis()
	if err != nil {
		return nil, core.RunInfo{}, 0, err
	}

	pathBytes, err := os.ReadFile(opts.pathFile)
	if err != nil {
		return nil, core.RunInfo{}, 0, fmt.Errorf("failed to read path file: %w", err)
	}
	path, err := geo.ParsePolyline(pathBytes)
	if err != nil {
		return nil, core.RunInfo{}, 0, err
	}

	grid, err := raster.OpenASC(opts.rasterFile)
	if err != nil {
		return nil, core.RunInfo{}, 0, fmt.Errorf("failed to open raster: %w", err)
	}

	start := time.Now()
	runInfo := core.RunInfo{
		ID:           runinfo.NewRunID(start, analysisCfg.BladeType),
		StartTime:    start,
		BladeType:    analysisCfg.BladeType,
		PathVertices: len(path),
		PathEPSG:     analysisCfg.CRS.PathEPSG,
		RasterEPSG:   analysisCfg.CRS.RasterEPSG,
		Version:      Version,
	}
	RunContext.Set(runInfo)

	bus, err := feedback.New(logging.NewBusLogger(Logger))
	if err != nil {
		return nil, runInfo, 0, fmt.Errorf("failed to create feedback bus: %w", err)
	}
	// Drain the buffered subscribers before returning so queued obstacle
	// warnings reach the log.
	defer bus.Close()
	subscribeFeedback(bus)

	analyzer, err := analysis.New(analysisCfg, grid, Logger, bus)
	if err != nil {
		return nil, runInfo, 0, err
	}

	result, err := analyzer.Run(ctx, path)
	if err != nil {
		return nil, runInfo, 0, err
	}
	return result, runInfo, time.Since(start), nil
}

// subscribeFeedback registers console reporting for pipeline events.
// Progress events arrive concurrently from the worker goroutines, so the
// 10%-step throttle runs on an atomic counter.
func subscribeFeedback(bus *feedback.Bus) {
	var lastTenth atomic.Int64
	bus.Subscribe(feedback.KindProgress, func(e feedback.Event) error {
		tenth := int64(e.Fraction * 10)
		for {
			prev := lastTenth.Load()
			if tenth <= prev {
				return nil
			}
			if lastTenth.CompareAndSwap(prev, tenth) {
				Logger.Info("Analysis progress", "percent", tenth*10)
				return nil
			}
		}
	})

	bus.Subscribe(feedback.KindObstacle, func(e feedback.Event) error {
		Logger.Warn(e.Message)
		return nil
	}, feedback.Buffered(64), feedback.Blocking())

	bus.Subscribe(feedback.KindRunComplete, func(e feedback.Event) error {
		Logger.Info("Run complete")
		return nil
	})
}

// persist saves the run through the configured backend and ships metrics and
// uploads when enabled. Metric and upload failures are logged, not fatal; the
// result is already on disk by then.
func persist(ctx context.Context, runInfo core.RunInfo, result *core.Result, elapsed time.Duration) error {
	zl := logging.SetupZerolog(viper.GetString("logLevel"), LogFile, graylogAddr())

	storageCfg := config.GetStorage()
	backend, err := storage.NewBackend(storageCfg, zl)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer backend.Close()

	if err := backend.SaveRun(runInfo, result); err != nil {
		return err
	}
	Logger.Info("Run saved", "backend", storageCfg.Type)

	if viper.GetBool("influx.enabled") {
		backupPath := filepath.Join(viper.GetString("logsDir"), "influx_backup.gz")
		im := influx.NewManager(zl, backupPath)
		if err := im.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable", "error", err)
		} else {
			if err := im.WriteRunSummary(ctx, runInfo, result, elapsed); err != nil {
				Logger.Warn("Failed to write run summary to InfluxDB", "error", err)
			}
			if err := im.WriteObstacles(ctx, runInfo, result); err != nil {
				Logger.Warn("Failed to write obstacles to InfluxDB", "error", err)
			}
			im.Close()
		}
	}

	if viper.GetBool("api.enabled") {
		uploadRun(backend, runInfo, result, elapsed)
	}
	return nil
}

// uploadRun pushes the exported file to the web frontend when the backend
// produced one.
func uploadRun(backend storage.Backend, runInfo core.RunInfo, result *core.Result, elapsed time.Duration) {
	up, ok := backend.(storage.Uploadable)
	if !ok || up.GetExportedFilePath() == "" {
		Logger.Info("Storage backend produced no uploadable file, skipping upload")
		return
	}

	client := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := client.Healthcheck(); err != nil {
		Logger.Warn("Frontend is offline, skipping upload", "error", err)
		return
	}

	meta := up.GetExportMetadata()
	meta.Duration = elapsed.Seconds()
	meta.Tag = viper.GetString("api.tag")

	if err := client.Upload(up.GetExportedFilePath(), meta); err != nil {
		Logger.Error("Upload failed", "error", err)
		return
	}
	Logger.Info("Run uploaded", "file", up.GetExportedFilePath())
}

func graylogAddr() string {
	if viper.GetBool("graylog.enabled") {
		return viper.GetString("graylog.address")
	}
	return ""
}
