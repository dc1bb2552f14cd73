package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/KretovDmitry/shortlinks/internal/config"
	"github.com/KretovDmitry/shortlinks/internal/handler"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/KretovDmitry/shortlinks/internal/repository"
	"github.com/KretovDmitry/shortlinks/internal/rpc"
	"github.com/KretovDmitry/shortlinks/internal/service"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/acme/autocert"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Server run context.
	serverCtx, serverStopCtx := context.WithCancel(context.Background())
	defer serverStopCtx()

	cfg := config.MustLoad()

	logger := logger.New(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	store, err := repository.NewLinkStorage(serverCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("new store: %w", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Errorf("close store: %v", err)
			}
		}()
	}

	links, err := service.New(store, logger, service.Options{
		GenerateCodes: bool(cfg.Shortener.GenerateCodes),
		ValidateURLs:  bool(cfg.Shortener.ValidateURLs),
	})
	if err != nil {
		return fmt.Errorf("new service: %w", err)
	}

	handler, err := handler.New(links, logger, cfg)
	if err != nil {
		return fmt.Errorf("new handler: %w", err)
	}

	hs := &http.Server{
		Addr:              cfg.Server.RunAddress.String(),
		Handler:           handler.Register(chi.NewRouter()),
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	var health *rpc.HealthServer
	if cfg.RPC.Enabled {
		health, err = startHealthServer(serverCtx, cfg, store, logger)
		if err != nil {
			return fmt.Errorf("start health server: %w", err)
		}
	}

	// Graceful shutdown.
	shutdownErr := make(chan error, 1)
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT,
			syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)

		select {
		case s := <-sig:
			logger.With(serverCtx, "signal", s.String()).
				Infof("Shutting down server with %s timeout",
					cfg.Server.ShutdownTimeout)
		case <-serverCtx.Done():
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if health != nil {
			health.Stop()
		}
		err := hs.Shutdown(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.New("graceful shutdown timed out.. forcing exit")
		}
		shutdownErr <- err
	}()

	logger.Infof("Server has started: %s", cfg.Server.RunAddress)
	switch cfg.TLSEnabled {
	case true:
		cm := &autocert.Manager{
			Cache:  autocert.DirCache("cache/certs"),
			Prompt: autocert.AcceptTOS,
		}
		hs.TLSConfig = cm.TLSConfig()
		logger.Info("The server is running over the SSL protocol")
		err = hs.ListenAndServeTLS("", "")
	default:
		err = hs.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		serverStopCtx()
		<-shutdownErr
		return fmt.Errorf("run server failed: %w", err)
	}

	// Wait for the shutdown to complete.
	return <-shutdownErr
}

// startHealthServer serves gRPC health checks of the store in the background.
func startHealthServer(
	ctx context.Context,
	cfg *config.Config,
	store repository.LinkStorage,
	logger logger.Logger,
) (*rpc.HealthServer, error) {
	health, err := rpc.NewHealthServer(store, logger, cfg.RPC.HealthInterval)
	if err != nil {
		return nil, err
	}

	lis, err := net.Listen("tcp", cfg.RPC.Address.String())
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.RPC.Address, err)
	}

	go health.Watch(ctx)
	go func() {
		if err := health.Serve(lis); err != nil {
			logger.Errorf("health server: %v", err)
		}
	}()

	return health, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		fmt.Println("Build version: N/A")
	} else {
		fmt.Printf("Build version: %s\n", buildVersion)
	}
	if buildDate == "" {
		fmt.Println("Build date: N/A")
	} else {
		fmt.Printf("Build date: %s\n", buildDate)
	}
	if buildCommit == "" {
		fmt.Println("Build commit: N/A")
	} else {
		fmt.Printf("Build commit: %s\n", buildCommit)
	}
}
