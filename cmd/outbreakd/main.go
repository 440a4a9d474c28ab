// Command outbreakd runs the outbreak simulation daemon: a fixed-step
// agent simulation published over WebSocket, with persistence, metrics,
// and narrative chatter around it.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gridfall/outbreak/internal/cache"
	"github.com/gridfall/outbreak/internal/config"
	"github.com/gridfall/outbreak/internal/database"
	"github.com/gridfall/outbreak/internal/dispatcher"
	"github.com/gridfall/outbreak/internal/geo"
	"github.com/gridfall/outbreak/internal/influx"
	"github.com/gridfall/outbreak/internal/logging"
	"github.com/gridfall/outbreak/internal/narrator"
	intOtel "github.com/gridfall/outbreak/internal/otel"
	"github.com/gridfall/outbreak/internal/places"
	"github.com/gridfall/outbreak/internal/radio"
	"github.com/gridfall/outbreak/internal/server"
	"github.com/gridfall/outbreak/internal/sim"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "outbreakd"

// placeCacheTTL bounds how long a reverse-geocoded name is reused.
const placeCacheTTL = 24 * time.Hour

var (
	SessionStartTime = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	SlogManager = logging.NewSlogManager()
	Logger = SlogManager.Logger()

	if err := config.Load("."); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, appName, SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
		logFile = nil
	}
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	var gelfWriter *gelf.Writer
	if viper.GetBool("graylog.enabled") {
		gelfWriter, err = gelf.NewWriter(viper.GetString("graylog.address"))
		if err != nil {
			Logger.Error("Failed to connect Graylog writer", "error", err)
			gelfWriter = nil
		}
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    logFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		}
	}

	if OTelProvider != nil {
		SlogManager.Setup(logFile, gelfWriter, viper.GetString("logLevel"), OTelProvider.LoggerProvider())
	} else {
		SlogManager.Setup(logFile, gelfWriter, viper.GetString("logLevel"), nil)
	}
	Logger = SlogManager.Logger()
	Logger.Info("Starting", "app", appName, "version", Version, "buildDate", BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence. zerolog stays on the storage managers; the rest of the
	// app logs through slog.
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	db := database.NewManager(zlog)
	if err := db.Connect(); err != nil {
		Logger.Warn("Database unavailable, persistence disabled", "error", err)
	} else if err := db.Setup(); err != nil {
		Logger.Warn("Database migration failed, persistence disabled", "error", err)
	}

	// Metrics.
	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		backupPath := logging.LogFilePath(logsDir, appName+".influx_backup", SessionStartTime) + ".gz"
		influxManager = influx.NewManager(zlog, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, tick metrics disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	// Place enrichment.
	var resolver *places.Resolver
	if viper.GetBool("places.enabled") {
		placeCache := cache.NewPlaces(placeCacheTTL)
		if db.IsValid {
			if known, err := db.LoadPlaces(); err == nil {
				placeCache.Warm(known)
				Logger.Info("Warmed place cache", "places", len(known))
			}
		}
		resolver = places.New(
			viper.GetString("places.baseUrl"),
			viper.GetString("places.userAgent"),
			placeCache,
			db,
			Logger,
		)
	}

	// Radio and narration.
	radioLog := radio.NewLog()
	var flavorClient *narrator.Client
	if viper.GetBool("narrator.enabled") && viper.GetString("narrator.baseUrl") != "" {
		flavorClient = narrator.NewClient(
			viper.GetString("narrator.baseUrl"),
			viper.GetString("narrator.apiKey"),
		)
	}
	story := narrator.New(flavorClient, resolver, radioLog, Logger)

	// Simulation core.
	simCfg := config.GetSimConfig()
	simulation := sim.New(sim.Config{
		Seed:        simCfg.Seed,
		Center:      geo.Coordinates{Lat: simCfg.CenterLat, Lng: simCfg.CenterLng},
		Population:  simCfg.Population,
		SeedZombies: simCfg.SeedZombies,
	})

	bus, err := dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	// The tick loop logs with live session context attached.
	runnerLog := slog.New(logging.NewContextHandler(Logger.Handler(), func() []slog.Attr {
		return []slog.Attr{
			slog.String("uptime", time.Since(SessionStartTime).Round(time.Second).String()),
		}
	}))
	runner, err := sim.NewRunner(simulation, bus, runnerLog)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	hub := server.NewHub(runner, radioLog, Logger)
	recorder := newRunRecorder(db, influxManager, Logger, simCfg.Seed, simCfg.CenterLat, simCfg.CenterLng)

	// Frame fan-out: WebSocket broadcast synchronously, persistence and
	// metrics behind a buffer so the tick loop never blocks on them.
	frameConsumers := []dispatcher.HandlerFunc{hub.FrameHandler(), recorder.FrameHandler()}
	eventConsumers := []dispatcher.HandlerFunc{story.Handler(), recorder.EventsHandler()}
	if resolver != nil {
		enricher := places.NewEnricher(resolver, runner.MergePlaceTag, Logger)
		frameConsumers = append(frameConsumers, enricher.FrameHandler())
	}
	if influxManager != nil {
		frameConsumers = append(frameConsumers, influx.FrameHandler(influxManager))
		eventConsumers = append(eventConsumers, influx.EventsHandler(influxManager))
	}
	bus.Register(sim.TopicFrame, dispatcher.Chain(frameConsumers...), dispatcher.Buffered(64))
	bus.Register(sim.TopicEvents, dispatcher.Chain(eventConsumers...), dispatcher.Buffered(256), dispatcher.Logged())

	srv := server.New(viper.GetString("server.listen"), hub)

	errCh := make(chan error, 2)
	go func() {
		if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("runner: %w", err)
		}
	}()
	go func() {
		if err := srv.Run(ctx); err != nil {
			errCh <- fmt.Errorf("server: %w", err)
		}
	}()

	Logger.Info("Listening", "addr", viper.GetString("server.listen"))

	select {
	case err := <-errCh:
		stop()
		return err
	case <-ctx.Done():
	}

	// Drain observability before exit.
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := SlogManager.Flush(flushCtx); err != nil {
		Logger.Error("Log flush failed", "error", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(flushCtx); err != nil {
			Logger.Error("OTel shutdown failed", "error", err)
		}
	}
	if gelfWriter != nil {
		gelfWriter.Close()
	}

	Logger.Info("Shutdown complete", "uptime", time.Since(SessionStartTime).Round(time.Second).String())
	return nil
}
