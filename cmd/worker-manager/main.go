// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"plan-uptake-workers/internal/common/camunda"
	"plan-uptake-workers/internal/common/config"
	"plan-uptake-workers/internal/common/database"
	"plan-uptake-workers/internal/common/logger"
	"plan-uptake-workers/internal/common/observability"
	"plan-uptake-workers/internal/records"
	"plan-uptake-workers/internal/uptake"

	cw "plan-uptake-workers/internal/workers/uptake/compute-wtp"
	er "plan-uptake-workers/internal/workers/uptake/export-records"
	pu "plan-uptake-workers/internal/workers/uptake/predict-uptake"
	ss "plan-uptake-workers/internal/workers/uptake/sweep-sensitivity"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// pinger is a pooled client that is opened once and only pinged on retry.
type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

// pingWithRetry pings c until it answers and closes it when every attempt fails.
func pingWithRetry(ctx context.Context, c pinger, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	err := retryWithBackoff(func() error { return c.Ping(ctx) }, maxRetries, initialDelay, log, operationName)
	if err != nil {
		c.Close()
	}
	return err
}

// managedWorker is implemented by every uptake job handler.
type managedWorker interface {
	camunda.JobHandler
	WorkerOptions() camunda.WorkerOptions
	IsEnabled() bool
}

func main() {
	bootLog, err := logger.New(logger.Options{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("Starting worker manager...", map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
	})

	if err := run(cfg, log); err != nil {
		zapLog.Fatal("worker manager failed", zap.Error(err))
	}
	log.Info("Worker manager stopped gracefully", nil)
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx := context.Background()

	obs, err := observability.New(cfg.App.Name, prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	defer obs.Shutdown(context.Background())

	engine, err := loadEngine(cfg.Model, log)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Zeebe ---
	camundaClient, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.UsePlaintext,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		return fmt.Errorf("zeebe: %w", err)
	}
	defer camundaClient.Close()
	log.Info("Zeebe client connected successfully", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	handlers, err := buildHandlers(cfg, engine, store, obs, log)
	if err != nil {
		return err
	}

	var running []*camunda.Worker
	for _, h := range handlers {
		opts := h.WorkerOptions()
		if !h.IsEnabled() {
			log.Info("worker disabled", map[string]interface{}{"taskType": opts.TaskType})
			continue
		}
		running = append(running, camunda.StartWorker(camundaClient.GetClient(), opts, h, log))
	}
	log.Info("Workers registered", map[string]interface{}{"count": len(running)})

	var ready atomic.Bool
	ready.Store(true)
	server := newHealthServer(cfg.Server.Address, camundaClient, &ready)
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping workers...", nil)
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range running {
		w.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping health server", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func loadEngine(cfg config.ModelConfig, log logger.Logger) (*uptake.Engine, error) {
	var table *uptake.CoefficientTable
	if cfg.CoefficientsPath != "" {
		t, err := uptake.LoadTable(cfg.CoefficientsPath)
		if err != nil {
			return nil, fmt.Errorf("load coefficient table: %w", err)
		}
		table = t
	}

	engine, err := uptake.NewEngine(table)
	if err != nil {
		return nil, err
	}
	log.Info("Coefficient table loaded", map[string]interface{}{
		"table":   engine.TableName(),
		"version": engine.TableVersion(),
	})
	return engine, nil
}

// openStore connects the configured record backend. The returned closer is
// always safe to call.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (records.Store, func(), error) {
	noop := func() {}
	var backends records.Backends
	closer := noop

	switch cfg.Records.Backend {
	case config.RecordsBackendPostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, noop, err
		}
		if err := pingWithRetry(ctx, pg, 15, 2*time.Second, log, "PostgreSQL connection"); err != nil {
			return nil, noop, err
		}
		backends.Postgres = pg.DB
		closer = func() { pg.Close() }
		log.Info("PostgreSQL connected successfully", nil)

	case config.RecordsBackendRedis:
		rc := database.NewRedis(cfg.Database.Redis)
		if err := pingWithRetry(ctx, rc, 10, 2*time.Second, log, "Redis connection"); err != nil {
			return nil, noop, err
		}
		backends.Redis = rc.Client
		closer = func() { rc.Close() }
		log.Info("Redis connected successfully", nil)
	}

	store, err := records.NewStore(ctx, cfg.Records, backends)
	if err != nil {
		closer()
		return nil, noop, err
	}
	if store == nil {
		log.Warn("Saved-record store disabled", nil)
	}
	return store, closer, nil
}

func buildHandlers(cfg *config.Config, engine *uptake.Engine, store records.Store, obs *observability.Observability, log logger.Logger) ([]managedWorker, error) {
	predict, err := pu.NewHandler(pu.HandlerOptions{
		AppConfig:     cfg,
		Engine:        engine,
		Store:         store,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	wtp, err := cw.NewHandler(cw.HandlerOptions{
		AppConfig:     cfg,
		Engine:        engine,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	sweep, err := ss.NewHandler(ss.HandlerOptions{
		AppConfig:     cfg,
		Engine:        engine,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	exp, err := er.NewHandler(er.HandlerOptions{
		AppConfig:     cfg,
		Store:         store,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return nil, err
	}

	return []managedWorker{predict, wtp, sweep, exp}, nil
}

func newHealthServer(addr string, client *camunda.Client, ready *atomic.Bool) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "shutting down")
			return
		}
		if err := client.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "zeebe unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
