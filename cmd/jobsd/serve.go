package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/jobs-tracker/internal/async"
	"github.com/joseph-ayodele/jobs-tracker/internal/events"
	"github.com/joseph-ayodele/jobs-tracker/internal/export"
	repo "github.com/joseph-ayodele/jobs-tracker/internal/repository"
	"github.com/joseph-ayodele/jobs-tracker/internal/server"
	"github.com/joseph-ayodele/jobs-tracker/internal/server/middleware"
	"github.com/joseph-ayodele/jobs-tracker/internal/services/jobs"
	"github.com/joseph-ayodele/jobs-tracker/internal/services/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the gRPC health endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer server.CloseDB(db, logger)

	loc, err := time.LoadLocation(cfg.Stats.Timezone)
	if err != nil {
		return err
	}

	pub, err := events.Open(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()
	var queue async.Queue = async.NewEventQueue(pub, logger,
		async.WithWorkers(cfg.Events.Workers),
		async.WithQueueSize(cfg.Events.QueueSize),
		async.WithPublishTimeout(cfg.Events.PublishTimeout),
	)

	jobsRepo := repo.NewJobRepository(db.Driver, logger)
	deps := server.Deps{
		Jobs:        jobs.NewService(jobsRepo, logger, jobs.WithNotifier(queue)),
		Stats:       stats.NewService(jobsRepo, logger, stats.WithLocation(loc)),
		Export:      export.NewService(jobsRepo, logger),
		Health:      server.DBPinger{DB: db, Timeout: cfg.Database.DialTimeout, Logger: logger},
		Identity:    middleware.ProviderFrom(cfg.Auth),
		LandingPath: cfg.Server.LandingPath,
		ListPath:    cfg.Server.ListPath,
		Logger:      logger,
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			Password: cfg.Redis.Password,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, rate limiter will let requests through", zap.Error(err))
		}
		deps.Limiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RedisClient: rdb,
			Limit:       cfg.Redis.RateLimit,
			Window:      cfg.Redis.RateWindow,
			Logger:      logger,
		})
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var (
		healthSrv *server.HealthServer
		grpcLis   net.Listener
	)
	if cfg.Server.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			logger.Error("failed to listen on address", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
			return err
		}
		healthSrv = server.NewHealthServer(logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP serving", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if healthSrv != nil {
		g.Go(func() error { return healthSrv.Serve(grpcLis) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if healthSrv != nil {
			healthSrv.Stop(shutdownCtx)
		}
		err := httpSrv.Shutdown(shutdownCtx)
		queue.Shutdown(shutdownCtx)
		if dropped := queue.Dropped(); dropped > 0 {
			logger.Warn("job events dropped", zap.Int64("count", dropped))
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("stopped")
	return nil
}
