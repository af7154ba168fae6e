// Package server exposes the watch daemon's gRPC health endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "notice-analyzer"

type Health struct {
	srv    *grpc.Server
	hs     *health.Server
	logger *slog.Logger
}

// NewHealth registers the standard health service and reflection for grpcurl.
// Both statuses start as NOT_SERVING.
func NewHealth(logger *slog.Logger) *Health {
	if logger == nil {
		logger = slog.Default()
	}
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	h := &Health{srv: srv, hs: hs, logger: logger}
	h.SetServing(false)
	return h
}

// SetServing flips both the overall and the named service status.
func (h *Health) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.hs.SetServingStatus("", st)
	h.hs.SetServingStatus(ServiceName, st)
	h.logger.Debug("health status changed", "status", st.String())
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (h *Health) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return h.Serve(ctx, lis)
}

// Serve blocks until ctx is cancelled, then stops gracefully.
func (h *Health) Serve(ctx context.Context, lis net.Listener) error {
	h.logger.Info("health endpoint serving", "addr", lis.Addr().String())

	errCh := make(chan error, 1)
	go func() { errCh <- h.srv.Serve(lis) }()

	select {
	case <-ctx.Done():
		h.logger.Info("health endpoint shutting down")
		h.hs.Shutdown()
		h.srv.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("grpc serve: %w", err)
	}
}
