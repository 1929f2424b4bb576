package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/dls-barber/internal/audit"
	"github.com/BruksfildServices01/dls-barber/internal/config"
	dbpkg "github.com/BruksfildServices01/dls-barber/internal/db"
	domain "github.com/BruksfildServices01/dls-barber/internal/domain/reservation"
	"github.com/BruksfildServices01/dls-barber/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/dls-barber/internal/infra/repository"
	"github.com/BruksfildServices01/dls-barber/internal/infra/storage"
	"github.com/BruksfildServices01/dls-barber/internal/jobs"
	"github.com/BruksfildServices01/dls-barber/internal/metrics"
	"github.com/BruksfildServices01/dls-barber/internal/routes"
	ucBarber "github.com/BruksfildServices01/dls-barber/internal/usecase/barber"
	ucReservation "github.com/BruksfildServices01/dls-barber/internal/usecase/reservation"
)

const jobTimeout = time.Minute

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.bootstrap()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(parent context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	debug := log.Enabled(ctx, slog.LevelDebug)
	if cfg.InsecureJWTSecret() {
		if !debug {
			return errors.New("JWT_SECRET is the development default; set a real secret or run with LOG_LEVEL=debug")
		}
		log.Warn("JWT_SECRET is the development default, tokens can be forged")
	}

	// --------------------------------------------------
	// Storage
	// --------------------------------------------------
	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		return err
	}
	defer dbpkg.Close(db)

	if err := dbpkg.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if cfg.AutoSeedOnEmpty {
		if err := dbpkg.Seed(ctx, db, seedOptions(cfg.AdminEmail, cfg.AdminPassword), log); err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}
	}

	// --------------------------------------------------
	// Shared infra
	// --------------------------------------------------
	availabilityCache, closeCache := newAvailabilityCache(ctx, cfg, log)
	defer closeCache()

	photos, err := newPhotoStore(cfg, log)
	if err != nil {
		return err
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := auditDispatcher.Close(closeCtx); err != nil {
			log.Warn("audit queue not drained", slog.Any("error", err))
		}
	}()

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := routes.NewRouter(db, cfg, routes.Infra{
		Log:     log,
		Cache:   availabilityCache,
		Audit:   auditDispatcher,
		Metrics: metrics.New(),
		Photos:  photos,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --------------------------------------------------
	// Jobs
	// --------------------------------------------------
	policy, err := ucReservation.PolicyFromConfig(cfg)
	if err != nil {
		return err
	}
	completePast := ucReservation.NewCompletePast(
		infraRepo.NewReservationGormRepository(db),
		auditDispatcher,
		log,
		policy,
	)

	scheduler := jobs.NewScheduler(log, jobTimeout)
	if _, err := scheduler.AutoComplete(cfg.AutoCompleteSpec, completePast); err != nil {
		return fmt.Errorf("invalid AUTO_COMPLETE_SCHEDULE: %w", err)
	}

	// --------------------------------------------------
	// Run until a signal or a fatal error
	// --------------------------------------------------
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server running", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newAvailabilityCache falls back to no caching when Redis is not configured
// or not reachable at boot.
func newAvailabilityCache(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.AvailabilityCache, func()) {
	if cfg.RedisURL == "" {
		return cache.Noop{}, func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rdb, err := cache.NewRedisClient(pingCtx, cfg.RedisURL)
	if err != nil {
		log.Warn("availability cache disabled", slog.Any("error", err))
		return cache.Noop{}, func() {}
	}

	log.Info("availability cache enabled", slog.Duration("ttl", cfg.AvailabilityTTL))
	return cache.NewRedisAvailabilityCache(rdb, cfg.AvailabilityTTL), func() { _ = rdb.Close() }
}

// newPhotoStore returns a nil interface, not a nil *S3Store, when uploads
// are disabled.
func newPhotoStore(cfg *config.Config, log *slog.Logger) (ucBarber.PhotoStore, error) {
	if !cfg.S3.Enabled() {
		log.Info("barber photo uploads disabled")
		return nil, nil
	}

	store, err := storage.NewS3Store(cfg.S3)
	if err != nil {
		return nil, err
	}
	return store, nil
}
