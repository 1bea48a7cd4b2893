package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/doc-insight/internal/bootstrap"
	"github.com/kirillkom/doc-insight/internal/config"
	"github.com/kirillkom/doc-insight/internal/core/domain"
	"github.com/kirillkom/doc-insight/internal/observability/logging"
	"github.com/kirillkom/doc-insight/internal/observability/metrics"
)

const serviceName = "doc-insight-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics_server", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject_prefix", cfg.NATSSubjectPrefix)
	err = app.Queue.Subscribe(ctx, func(handlerCtx context.Context, msg domain.TaskMessage) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		workerMetrics.StartTask()
		workerMetrics.ObserveQueueLag(serviceName, string(msg.Queue), time.Since(msg.EnqueuedAt))
		if msg.Attempt > 1 {
			workerMetrics.ObserveRetry(serviceName, string(msg.Queue))
		}

		start := time.Now()
		execErr := app.ProcessUC.Execute(processCtx, msg)
		workerMetrics.FinishTask(serviceName, string(msg.Queue), time.Since(start), execErr)
		return execErr
	})
	if err != nil {
		slog.Error("worker_subscribe", "error", err)
		os.Exit(1)
	}
}

func metricsHandler(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
