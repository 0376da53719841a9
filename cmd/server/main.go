package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/ai"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/api"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/auth"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/coins"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/courses"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/logger"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/metrics"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	generated, err := cfg.EnsureSecrets()
	if err != nil {
		return err
	}
	for _, name := range generated {
		log.WithField("setting", name).Warn("secret not configured; using an ephemeral value")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := api.Deps{Log: log}

	var users auth.UserStore
	if cfg.Auth.DemoMode {
		log.Warn("demo mode: users are kept in memory and persistence routes are disabled")
		users = auth.NewMemoryStore()
	} else {
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		store := db.NewStore(pool)
		users = store
		deps.Store = store
	}
	deps.Auth = auth.NewService(users, cfg.Auth)

	completer, embedder, err := ai.NewClient(ctx, cfg.AI)
	if err != nil {
		return fmt.Errorf("failed to build ai client: %w", err)
	}
	deps.Generator = ai.NewReportGenerator(completer, embedder, log.WithField("component", "ai"))

	if deps.Coins, err = coins.LoadCatalog(); err != nil {
		return err
	}
	if deps.Courses, err = courses.LoadCatalog(); err != nil {
		return err
	}

	if cfg.NATS.URL != "" {
		publisher, err := notify.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, log.WithField("component", "notify"))
		if err != nil {
			return err
		}
		deps.Notifier = publisher
	} else {
		deps.Notifier = notify.Nop{}
	}
	defer deps.Notifier.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)
	deps.Metrics = recorder
	deps.MetricsHandler = recorder.Handler()

	srv := api.NewServer(cfg.Server, deps)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.WithFields(logrus.Fields{"addr": addr, "ai_provider": cfg.AI.Provider}).Info("server starting")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
