package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/points/internal/api"
	"github.com/fastprodman/points/internal/infra/logging"
	"github.com/fastprodman/points/internal/infra/pgutils"
	"github.com/fastprodman/points/internal/infra/redisutils"
	"github.com/fastprodman/points/internal/lockreg"
	"github.com/fastprodman/points/internal/metrics"
	"github.com/fastprodman/points/internal/repos/balances"
	membalances "github.com/fastprodman/points/internal/repos/balances/memory"
	pgbalances "github.com/fastprodman/points/internal/repos/balances/postgres"
	redisbalances "github.com/fastprodman/points/internal/repos/balances/redis"
	"github.com/fastprodman/points/internal/repos/histories"
	memhistories "github.com/fastprodman/points/internal/repos/histories/memory"
	pghistories "github.com/fastprodman/points/internal/repos/histories/postgres"
	redishistories "github.com/fastprodman/points/internal/repos/histories/redis"
	"github.com/fastprodman/points/internal/services/points"
	"github.com/fastprodman/points/pkg/envconf"
	"github.com/fastprodman/points/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v\n", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logger := logging.SetupJSON(os.Stdout, "points-api", cfg.LogLevel)

	historyAmount, err := points.ParseHistoryAmount(cfg.Points.HistoryAmount)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	queue := shutdownqueue.New()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := queue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	balanceStore, historyStore, err := openStores(ctx, cfg, queue)
	if err != nil {
		return fmt.Errorf("open %s stores: %w", cfg.StorageDriver, err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	pointSrv := points.New(balanceStore, historyStore, lockreg.New[int64](),
		points.WithLockTimeout(cfg.Points.LockTimeout),
		points.WithHistoryAmount(historyAmount),
		points.WithObserver(m),
		points.WithLogger(logger),
	)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, api.NewRouter(api.RouterDeps{
		Service:     pointSrv,
		HTTP:        m,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSOrigins: cfg.corsOrigins(),
	}))

	queue.Add("http server", func(c context.Context) error {
		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	})

	slog.Info("API started",
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
		"lock_timeout", cfg.Points.LockTimeout,
		"history_amount", historyAmount,
	)

	// graceful path; deferred queue.Shutdown stops the server
	<-gctx.Done()

	if ctx.Err() != nil {
		return nil
	}

	return g.Wait()
}

// openStores builds the balance and history stores for cfg.StorageDriver and
// registers their teardown with queue.
func openStores(
	ctx context.Context,
	cfg *apiConfig,
	queue *shutdownqueue.Queue,
) (balances.Balances, histories.Histories, error) {
	switch cfg.StorageDriver {
	case driverMemory:
		seed, err := membalances.ParseSeed(cfg.Memory.Seed)
		if err != nil {
			return nil, nil, fmt.Errorf("parse seed: %w", err)
		}

		b := membalances.New(cfg.Memory.Latency)
		b.Seed(seed)

		slog.Info("memory stores ready", "users", len(seed))

		return b, memhistories.New(cfg.Memory.Latency), nil

	case driverPostgres:
		db, err := pgutils.OpenDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}

		queue.Add("postgres", func(context.Context) error { return db.Close() })

		return pgbalances.New(db), pghistories.New(db), nil

	case driverRedis:
		rdb, err := redisutils.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}

		queue.Add("redis", func(context.Context) error { return rdb.Close() })

		return redisbalances.New(rdb, cfg.Redis.Prefix), redishistories.New(rdb, cfg.Redis.Prefix), nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
