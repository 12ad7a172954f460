// Command circulationd serves the library circulation API and runs the periodic sweeps.
//
// Configuration comes from the environment and an optional .env file, see package config.
// With -issue-token it prints a bearer token for -user and -role and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/auth"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/httpapi"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/notify"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/sweeper"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore/oteladapters"
)

const tracerName = "github.com/AntonStoeckl/library-circulation-engine"

func main() {
	envFile := flag.String("env", ".env", "optional .env file")
	issueToken := flag.Bool("issue-token", false, "print a bearer token and exit")
	userID := flag.String("user", "", "user id for -issue-token")
	role := flag.String("role", "patron", "role for -issue-token")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	if *issueToken {
		if err = printToken(cfg, *userID, *role); err != nil {
			log.Fatalf("issuing token: %v", err)
		}
		return
	}

	if err = run(cfg); err != nil {
		log.Fatalf("circulationd failed: %v", err)
	}
}

func printToken(cfg config.Config, rawUserID, role string) error {
	id, err := uuid.Parse(rawUserID)
	if err != nil {
		return fmt.Errorf("-user: %w", err)
	}

	token, err := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL, timewindow.SystemClock{}).Issue(id, role)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Log)

	var tracing eventstore.TracingCollector
	if cfg.OTel.Endpoint != "" {
		shutdownTracing, err := oteladapters.SetupTracerProvider(ctx, cfg.OTel.ServiceName, cfg.OTel.Endpoint, cfg.OTel.Insecure)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer shutdownWithTimeout(shutdownTracing, cfg.HTTP.ShutdownTimeout, logger, "tracer provider")

		tracing = oteladapters.NewTracingCollector(otel.Tracer(tracerName))
	}

	eventStore, closeStore, err := config.OpenEventStore(ctx, cfg.DB, config.Observability{Logger: logger, Tracing: tracing})
	if err != nil {
		return err
	}
	defer closeStore()

	window, err := timewindow.Load(cfg.Library.Timezone)
	if err != nil {
		return fmt.Errorf("loading library timezone: %w", err)
	}

	clock := timewindow.SystemClock{}

	engineOptions := []engine.Option{
		engine.WithClock(clock),
		engine.WithTimeWindow(window),
		engine.WithPolicy(cfg.Policy.CorePolicy()),
		engine.WithLogger(logger),
	}
	if tracing != nil {
		engineOptions = append(engineOptions, engine.WithShellOptions(shell.WithTracing(tracing)))
	}

	if cfg.AMQP.URL != "" {
		publisher, err := notify.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connecting to the notification broker: %w", err)
		}
		defer func() { _ = publisher.Close() }()

		engineOptions = append(engineOptions, engine.WithPublisher(publisher))
	}

	eng := engine.New(eventStore, engineOptions...)

	if cfg.Sweeps.Enabled {
		sweeps, err := sweeper.New(eng, sweeper.Schedule(cfg.Sweeps.Schedule()), logger, cfg.Sweeps.Timeout)
		if err != nil {
			return err
		}

		sweeps.Start()
		defer shutdownWithTimeout(sweeps.Stop, cfg.Sweeps.Timeout, logger, "sweeper")
	}

	tokens := auth.NewTokens(cfg.JWT.Secret, cfg.JWT.TTL, clock)
	e := httpapi.New(eng, tokens, httpapi.Options{
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      e,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr, "db_driver", cfg.DB.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}

func newLogger(cfg config.Log) *slog.Logger {
	if cfg.Bridge {
		return oteladapters.NewSlogBridgeLogger(tracerName)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func shutdownWithTimeout(shutdown func(context.Context) error, timeout time.Duration, logger *slog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "component", name, "error", err.Error())
	}
}
