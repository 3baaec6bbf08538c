package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/midiroute"
	"github.com/aretw0/midiroute/internal/presentation/tui"
	httpAdapter "github.com/aretw0/midiroute/pkg/adapters/http"
	"github.com/aretw0/midiroute/pkg/adapters/memory"
	"github.com/aretw0/midiroute/pkg/adapters/redis"
	"github.com/aretw0/midiroute/pkg/config"
	"github.com/aretw0/midiroute/pkg/observability"
	"github.com/aretw0/midiroute/pkg/ports"
	"github.com/aretw0/midiroute/pkg/runner"
)

// claimTTL bounds how long a crashed process keeps its router claimed.
const claimTTL = 15 * time.Second

// StartOptions configures the start command.
type StartOptions struct {
	ConfigPath string
	Listen     string // empty disables the HTTP status server
	RedisURL   string // empty keeps status in memory
	RouterID   string
	Provider   ports.Provider // nil uses the hardware driver
	Out        io.Writer
	Quiet      bool
	Verbosity  int
}

// Start runs the router until ctx is cancelled.
func Start(ctx context.Context, opts StartOptions) error {
	logger := createLogger(opts.Verbosity)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !opts.Quiet {
		tui.PrintBanner(opts.Out, midiroute.Version)
	}

	provider, closeProvider, err := openProvider(opts.Provider, logger)
	if err != nil {
		return err
	}
	defer closeProvider()

	store, release, err := setupStatusStore(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer release()

	metrics := observability.NewMetrics()
	routerOpts := []midiroute.Option{
		midiroute.WithLogger(logger),
		midiroute.WithProvider(provider),
		midiroute.WithMetrics(metrics),
		midiroute.WithStatusStore(store, opts.RouterID),
	}

	var srv *http.Server
	if opts.Listen != "" {
		status := httpAdapter.NewServer(store, routerIDOrDefault(opts.RouterID),
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithVersion(midiroute.Version),
			httpAdapter.WithLogger(logger),
		)
		routerOpts = append(routerOpts, midiroute.WithHooks(status.Hooks()))
		srv = &http.Server{
			Addr:              opts.Listen,
			Handler:           status.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	router, err := midiroute.New(cfg, routerOpts...)
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)
	if srv != nil {
		go func() {
			logger.Info("Starting status server", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrors <- err
			}
		}()
		defer shutdownServer(srv, logger)
	}

	if !opts.Quiet {
		printSystemMessage(opts.Out, "Routing %d mappings from %s. Press Ctrl+C to stop.", len(cfg.Mappings), opts.ConfigPath)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- router.Run(runCtx) }()

	select {
	case err := <-runErr:
		if err == nil && !opts.Quiet {
			printSystemMessage(opts.Out, "Stopped: %v", context.Cause(ctx))
		}
		return err
	case err := <-serverErrors:
		cancel()
		<-runErr
		return fmt.Errorf("status server failed: %w", err)
	}
}

func setupStatusStore(ctx context.Context, opts StartOptions, logger *slog.Logger) (ports.StatusStore, func(), error) {
	if opts.RedisURL == "" {
		return memory.NewStore(), func() {}, nil
	}

	store, err := redis.NewFromURL(opts.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	routerID := routerIDOrDefault(opts.RouterID)
	unlock, err := redis.NewLocker(store.Client(), redis.DefaultPrefix).Claim(ctx, routerID, claimTTL)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	logger.Info("Claimed router", "router_id", routerID)

	return store, func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlock(releaseCtx); err != nil {
			logger.Warn("Failed to release router claim", "router_id", routerID, "err", err)
		}
		_ = store.Close()
	}, nil
}

func shutdownServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "err", err)
		_ = srv.Close()
	}
}

func routerIDOrDefault(id string) string {
	if id == "" {
		return runner.DefaultRouterID
	}
	return id
}
