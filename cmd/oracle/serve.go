package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/odds-oracle/internal/api"
	"github.com/yourusername/odds-oracle/internal/health"
	"github.com/yourusername/odds-oracle/internal/metrics"
	"github.com/yourusername/odds-oracle/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction API, websocket feed and health endpoints",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return err
	}
	defer deps.close()

	hub := api.NewHub(appLog)
	go hub.Run(ctx)

	svc, err := deps.predictionService(hub)
	if err != nil {
		return err
	}

	// The API starts even if the first load fails; readiness reports it and
	// the scheduled refresh retries.
	if _, err := svc.RefreshDataset(ctx); err != nil {
		appLog.WithError(err).Error("Initial dataset load failed")
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
	})
	healthSrv.AddCheck("dataset", svc.CheckDataset)
	if deps.db != nil {
		healthSrv.AddCheck("database", deps.db.Ping)
	}
	if deps.advisor != nil {
		healthSrv.AddCheck("llm", deps.advisor.HealthCheck)
	}

	var sched *scheduler.Scheduler
	if cfg.Dataset.RefreshSchedule != "" {
		sched = scheduler.NewScheduler(svc, appLog)
		if err := sched.ScheduleDatasetRefresh(cfg.Dataset.RefreshSchedule); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				appLog.WithError(err).Warn("Scheduler stop timed out")
			}
		}()
	}

	errCh := make(chan error, 3)

	if cfg.Metrics.Enabled {
		metricsSrv := startMetricsServer(errCh)
		defer shutdownHTTP(metricsSrv)
	}

	if cfg.Server.GRPCAddress != "" {
		grpcSrv := health.NewGRPCServer(cfg.Server.GRPCAddress, healthSrv, 15*time.Second, appLog)
		go func() {
			if err := grpcSrv.Serve(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	handler := api.NewHandler(svc, appLog, time.Duration(cfg.LLM.TimeoutSeconds+5)*time.Second)
	router := api.NewRouter(api.RouterOptions{
		Handler:        handler,
		Hub:            hub,
		Health:         healthSrv.Handler(),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Logger:         appLog,
	})
	apiSrv := api.NewServer(cfg.Server, router, appLog)
	go func() {
		if err := apiSrv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	healthSrv.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"http":    cfg.Server.HTTPAddress,
		"grpc":    cfg.Server.GRPCAddress,
		"metrics": cfg.Metrics.Enabled,
		"refresh": cfg.Dataset.RefreshSchedule,
		"version": Version,
	}).Info("odds-oracle serving")

	select {
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case err := <-errCh:
		appLog.WithError(err).Error("Server failed")
		stop()
		shutdownAPI(apiSrv)
		return err
	}

	healthSrv.SetReady(false)
	shutdownAPI(apiSrv)
	return nil
}

func startMetricsServer(errCh chan<- error) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		appLog.WithField("address", srv.Addr).Info("Metrics server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	return srv
}

func shutdownAPI(srv *api.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.WithError(err).Warn("API server shutdown failed")
	}
}

func shutdownHTTP(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
