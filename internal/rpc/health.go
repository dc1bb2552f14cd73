// Package rpc serves the gRPC health protocol for the link storage.
package rpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/KretovDmitry/shortlinks/internal/errs"
	"github.com/KretovDmitry/shortlinks/internal/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// ServiceName is the name the link storage status is reported under.
// The empty name reports the same status for the whole server.
const ServiceName = "shortlinks.LinkStorage"

// Pinger reports the health of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer is a gRPC server exposing grpc.health.v1.Health.
// The status follows the result of Pinger.Ping.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	logger   logger.Logger
	interval time.Duration
}

// NewHealthServer creates a health server, ensuring that the dependencies are valid values.
func NewHealthServer(pinger Pinger, logger logger.Logger, interval time.Duration) (*HealthServer, error) {
	if pinger == nil {
		return nil, fmt.Errorf("%w: pinger", errs.ErrNilDependency)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger", errs.ErrNilDependency)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("health interval must be positive, got %s", interval)
	}

	s := &HealthServer{
		health:   health.NewServer(),
		pinger:   pinger,
		logger:   logger,
		interval: interval,
	}

	s.server = grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.UnaryServerInterceptor(interceptorLogger(logger)),
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(s.recoverPanic)),
		),
		grpc.ChainStreamInterceptor(
			logging.StreamServerInterceptor(interceptorLogger(logger)),
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(s.recoverPanic)),
		),
	)
	healthpb.RegisterHealthServer(s.server, s.health)

	return s, nil
}

// Check pings the storage once and publishes the result.
func (s *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warnf("storage health check: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)

	return st
}

// Watch refreshes the status every interval until ctx is done.
func (s *HealthServer) Watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Check(ctx)
		}
	}
}

// Serve accepts connections on lis until Stop is called.
func (s *HealthServer) Serve(lis net.Listener) error {
	s.logger.Infof("gRPC health server has started: %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}

// Stop reports NOT_SERVING to watchers and stops the server gracefully.
func (s *HealthServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *HealthServer) recoverPanic(p any) error {
	s.logger.Errorf("grpc handler panic: %v", p)
	return status.Errorf(codes.Internal, "%v", p)
}

// interceptorLogger adapts logger.Logger to the interceptor logging interface.
func interceptorLogger(l logger.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		log := l.With(ctx, fields...)
		switch lvl {
		case logging.LevelDebug:
			log.Debug(msg)
		case logging.LevelInfo:
			log.Info(msg)
		case logging.LevelWarn:
			log.Warn(msg)
		case logging.LevelError:
			log.Error(msg)
		default:
			log.Errorf("unknown level %v: %s", lvl, msg)
		}
	})
}
